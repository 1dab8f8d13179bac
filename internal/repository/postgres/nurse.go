package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type nurseRepository struct {
	BaseRepository
}

func NewNurseRepository(db *gorm.DB) repository.NurseRepository {
	return &nurseRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *nurseRepository) Create(ctx context.Context, nurse *model.Nurse) error {
	if err := r.conn(ctx).Create(nurse).Error; err != nil {
		return fmt.Errorf("failed to create nurse: %w", translateError(err))
	}
	return nil
}

func (r *nurseRepository) GetByID(ctx context.Context, nurseID string) (*model.Nurse, error) {
	var nurse model.Nurse
	if err := r.conn(ctx).Where("nurse_id = ?", nurseID).First(&nurse).Error; err != nil {
		return nil, translateError(err)
	}
	return &nurse, nil
}

func (r *nurseRepository) List(ctx context.Context) ([]*model.Nurse, error) {
	var nurses []*model.Nurse
	if err := r.conn(ctx).Order("nurse_id").Find(&nurses).Error; err != nil {
		return nil, fmt.Errorf("failed to list nurses: %w", translateError(err))
	}
	return nurses, nil
}

func (r *nurseRepository) ListActive(ctx context.Context) ([]*model.Nurse, error) {
	var nurses []*model.Nurse
	err := r.conn(ctx).
		Where("LOWER(status) = LOWER(?)", model.NurseStatusActive).
		Order("nurse_id").
		Find(&nurses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active nurses: %w", translateError(err))
	}
	return nurses, nil
}

func (r *nurseRepository) Update(ctx context.Context, nurse *model.Nurse) error {
	res := r.conn(ctx).
		Model(&model.Nurse{NurseID: nurse.NurseID}).
		Select("name", "email", "password", "role", "status").
		Updates(nurse)
	if res.Error != nil {
		return fmt.Errorf("failed to update nurse: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *nurseRepository) UpdateStatus(ctx context.Context, nurseID, status string) error {
	res := r.conn(ctx).
		Model(&model.Nurse{}).
		Where("nurse_id = ?", nurseID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update nurse status: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *nurseRepository) Delete(ctx context.Context, nurseID string) error {
	return r.deleteWhere(ctx, &model.Nurse{}, "nurse_id = ?", nurseID)
}

func (r *nurseRepository) ExistsByID(ctx context.Context, nurseID string) (bool, error) {
	return r.exists(ctx, &model.Nurse{}, "nurse_id = ?", nurseID)
}

func (r *nurseRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, &model.Nurse{}, "email = ? AND nurse_id <> ?", email, excludeID)
}
