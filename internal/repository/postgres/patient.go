package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
	photoAsBytes bool
}

// PatientOption adjusts how patient rows are written.
type PatientOption func(*patientRepository)

// WithPhotoColumnType binds photos as raw bytes when patients.photo is bytea,
// and as text otherwise.
func WithPhotoColumnType(dataType string) PatientOption {
	return func(r *patientRepository) {
		r.photoAsBytes = strings.EqualFold(dataType, "bytea")
	}
}

func NewPatientRepository(db *gorm.DB, opts ...PatientOption) repository.PatientRepository {
	r := &patientRepository{BaseRepository: NewBaseRepository(db)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// row lists the writable columns of patient. The photo column is included
// only for WithPhotoField.
func (r *patientRepository) row(patient *model.Patient, strategy repository.WriteStrategy) map[string]interface{} {
	row := map[string]interface{}{
		"name":         patient.Name,
		"surname":      patient.Surname,
		"father_name":  patient.FatherName,
		"gender":       patient.Gender,
		"age":          patient.Age,
		"address":      patient.Address,
		"blood_group":  patient.BloodGroup,
		"phone_number": patient.PhoneNumber,
	}
	if strategy == repository.WithPhotoField {
		row["photo"] = r.photoValue(patient.Photo)
	}
	return row
}

func (r *patientRepository) photoValue(photo *string) interface{} {
	if photo == nil {
		return nil
	}
	if r.photoAsBytes {
		return []byte(*photo)
	}
	return *photo
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient, strategy repository.WriteStrategy) error {
	row := r.row(patient, strategy)
	row["patient_id"] = patient.PatientID
	row["aadhar_number"] = patient.AadharNumber

	if err := r.conn(ctx).Model(&model.Patient{}).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create patient (%s): %w", strategy, translateError(err))
	}

	// Pick up reg_no and total_visits set by the store.
	fresh, err := r.GetByID(ctx, patient.PatientID)
	if err != nil {
		return fmt.Errorf("patient %s: %w: %w", patient.PatientID, repository.ErrReloadFailed, err)
	}
	*patient = *fresh
	return nil
}

func (r *patientRepository) GetByID(ctx context.Context, patientID string) (*model.Patient, error) {
	var patient model.Patient
	if err := r.conn(ctx).Where("patient_id = ?", patientID).First(&patient).Error; err != nil {
		return nil, translateError(err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByAadhar(ctx context.Context, aadhar string) (*model.Patient, error) {
	var patient model.Patient
	if err := r.conn(ctx).Where("aadhar_number = ?", aadhar).First(&patient).Error; err != nil {
		return nil, translateError(err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	var patients []*model.Patient
	if err := r.conn(ctx).Order("patient_id").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", translateError(err))
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient, strategy repository.WriteStrategy) error {
	res := r.conn(ctx).
		Model(&model.Patient{PatientID: patient.PatientID}).
		Updates(r.row(patient, strategy))
	if res.Error != nil {
		return fmt.Errorf("failed to update patient: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, patientID string) error {
	return r.deleteWhere(ctx, &model.Patient{}, "patient_id = ?", patientID)
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn(ctx).Model(&model.Patient{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", translateError(err))
	}
	return n, nil
}

func (r *patientRepository) ExistsByID(ctx context.Context, patientID string) (bool, error) {
	return r.exists(ctx, &model.Patient{}, "patient_id = ?", patientID)
}

func (r *patientRepository) ExistsByAadhar(ctx context.Context, aadhar string) (bool, error) {
	return r.exists(ctx, &model.Patient{}, "aadhar_number = ?", aadhar)
}
