package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type labTestRepository struct {
	BaseRepository
}

func NewLabTestRepository(db *gorm.DB) repository.LabTestRepository {
	return &labTestRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *labTestRepository) Create(ctx context.Context, test *model.LabTest) error {
	if err := r.conn(ctx).Create(test).Error; err != nil {
		return fmt.Errorf("failed to create lab test: %w", translateError(err))
	}
	return nil
}

func (r *labTestRepository) GetByID(ctx context.Context, testID int64) (*model.LabTest, error) {
	var test model.LabTest
	if err := r.conn(ctx).Where("test_id = ?", testID).First(&test).Error; err != nil {
		return nil, translateError(err)
	}
	return &test, nil
}

func (r *labTestRepository) List(ctx context.Context) ([]*model.LabTest, error) {
	return r.find(ctx, "")
}

func (r *labTestRepository) ListByPatient(ctx context.Context, patientID string) ([]*model.LabTest, error) {
	return r.find(ctx, "patient_id = ?", patientID)
}

func (r *labTestRepository) ListByVisit(ctx context.Context, visitID int64) ([]*model.LabTest, error) {
	return r.find(ctx, "visit_id = ?", visitID)
}

func (r *labTestRepository) ListByStatus(ctx context.Context, status string) ([]*model.LabTest, error) {
	return r.find(ctx, "status = ?", status)
}

func (r *labTestRepository) find(ctx context.Context, query string, args ...interface{}) ([]*model.LabTest, error) {
	q := r.conn(ctx)
	if query != "" {
		q = q.Where(query, args...)
	}

	var tests []*model.LabTest
	if err := q.Order("test_id").Find(&tests).Error; err != nil {
		return nil, fmt.Errorf("failed to list lab tests: %w", translateError(err))
	}
	return tests, nil
}

// Update writes the editable columns and reloads the row so the
// store-stamped result time is current.
func (r *labTestRepository) Update(ctx context.Context, test *model.LabTest) error {
	res := r.conn(ctx).
		Model(&model.LabTest{TestID: test.TestID}).
		Select("test_name", "result", "reference_range", "status").
		Updates(test)
	if res.Error != nil {
		return fmt.Errorf("failed to update lab test: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}

	fresh, err := r.GetByID(ctx, test.TestID)
	if err != nil {
		return err
	}
	*test = *fresh
	return nil
}

func (r *labTestRepository) Delete(ctx context.Context, testID int64) error {
	return r.deleteWhere(ctx, &model.LabTest{}, "test_id = ?", testID)
}
