package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const photoColumnTypeQuery = `SELECT data_type FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`

// SchemaInspector answers questions about the live schema that change how
// rows are written.
type SchemaInspector struct {
	db *sqlx.DB
}

func NewSchemaInspector(db *sqlx.DB) *SchemaInspector {
	return &SchemaInspector{db: db}
}

// PhotoColumnType returns the declared type of patients.photo, or "" when the
// column does not exist.
func (s *SchemaInspector) PhotoColumnType(ctx context.Context) (string, error) {
	var dataType string
	err := s.db.GetContext(ctx, &dataType, photoColumnTypeQuery, "patients", "photo")
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to inspect photo column: %w", err)
	}
	return dataType, nil
}

// PhotoColumnWritable reports whether a photo reference can be stored in a
// column of the given type. Large-object references (oid) cannot.
func PhotoColumnWritable(dataType string) bool {
	switch strings.ToLower(dataType) {
	case "text", "character varying", "bytea":
		return true
	default:
		return false
	}
}

// RepairPhotoColumn converts a large-object photo column to bytea, dropping
// the old references. It reports whether a change was made.
func (s *SchemaInspector) RepairPhotoColumn(ctx context.Context) (bool, error) {
	dataType, err := s.PhotoColumnType(ctx)
	if err != nil {
		return false, err
	}
	if dataType != "oid" {
		return false, nil
	}

	if _, err := s.db.ExecContext(ctx, `ALTER TABLE patients ALTER COLUMN photo TYPE BYTEA USING NULL`); err != nil {
		return false, fmt.Errorf("failed to convert photo column: %w", err)
	}
	return true, nil
}
