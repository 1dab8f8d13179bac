package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type visitRepository struct {
	BaseRepository
}

func NewVisitRepository(db *gorm.DB) repository.VisitRepository {
	return &visitRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	if err := r.conn(ctx).Create(visit).Error; err != nil {
		return fmt.Errorf("failed to create visit: %w", translateError(err))
	}

	fresh, err := r.GetByID(ctx, visit.VisitID)
	if err != nil {
		return err
	}
	*visit = *fresh
	return nil
}

func (r *visitRepository) GetByID(ctx context.Context, visitID int64) (*model.Visit, error) {
	var visit model.Visit
	if err := r.conn(ctx).Where("visit_id = ?", visitID).First(&visit).Error; err != nil {
		return nil, translateError(err)
	}
	return &visit, nil
}

func (r *visitRepository) List(ctx context.Context) ([]*model.Visit, error) {
	var visits []*model.Visit
	if err := r.conn(ctx).Order("visit_id").Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", translateError(err))
	}
	return visits, nil
}

func (r *visitRepository) ListByPatient(ctx context.Context, patientID string) ([]*model.Visit, error) {
	var visits []*model.Visit
	if err := r.conn(ctx).Where("patient_id = ?", patientID).Order("visit_id").Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", translateError(err))
	}
	return visits, nil
}

func (r *visitRepository) ListRecentByPatient(ctx context.Context, patientID string) ([]*model.Visit, error) {
	var visits []*model.Visit
	err := r.conn(ctx).
		Where("patient_id = ?", patientID).
		Order("visit_date DESC").
		Order("visit_id DESC").
		Find(&visits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent visits: %w", translateError(err))
	}
	return visits, nil
}

func (r *visitRepository) Update(ctx context.Context, visit *model.Visit) error {
	res := r.conn(ctx).
		Model(&model.Visit{VisitID: visit.VisitID}).
		Select("visit_date", "bp", "complaint", "symptoms", "status", "temperature", "weight", "prescription").
		Updates(visit)
	if res.Error != nil {
		return fmt.Errorf("failed to update visit: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *visitRepository) Delete(ctx context.Context, visitID int64) error {
	return r.deleteWhere(ctx, &model.Visit{}, "visit_id = ?", visitID)
}

func (r *visitRepository) ExistsByID(ctx context.Context, visitID int64) (bool, error) {
	return r.exists(ctx, &model.Visit{}, "visit_id = ?", visitID)
}
