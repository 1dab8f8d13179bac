package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoColumnWritable(t *testing.T) {
	assert.True(t, PhotoColumnWritable("text"))
	assert.True(t, PhotoColumnWritable("character varying"))
	assert.True(t, PhotoColumnWritable("BYTEA"))
	assert.False(t, PhotoColumnWritable("oid"))
	assert.False(t, PhotoColumnWritable(""))
}

func TestPhotoColumnTypeMissing(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT data_type FROM information_schema.columns").
		WithArgs("patients", "photo").
		WillReturnRows(sqlmock.NewRows([]string{"data_type"}))

	dataType, err := NewSchemaInspector(db).PhotoColumnType(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", dataType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepairPhotoColumnConvertsOID(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT data_type FROM information_schema.columns").
		WithArgs("patients", "photo").
		WillReturnRows(sqlmock.NewRows([]string{"data_type"}).AddRow("oid"))
	mock.ExpectExec("ALTER TABLE patients ALTER COLUMN photo TYPE BYTEA").
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := NewSchemaInspector(db).RepairPhotoColumn(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepairPhotoColumnLeavesText(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT data_type FROM information_schema.columns").
		WithArgs("patients", "photo").
		WillReturnRows(sqlmock.NewRows([]string{"data_type"}).AddRow("text"))

	changed, err := NewSchemaInspector(db).RepairPhotoColumn(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
