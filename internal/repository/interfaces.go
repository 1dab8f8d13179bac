package repository

import (
	"context"
	"errors"

	"github.com/jwalitptl/frontdesk-api/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrReloadFailed means the row was written but reading it back failed.
	// The write must not be retried.
	ErrReloadFailed = errors.New("row written but could not be reloaded")
)

// WriteStrategy selects whether a patient write touches the photo column.
type WriteStrategy int

const (
	WithoutPhotoField WriteStrategy = iota
	WithPhotoField
)

func (s WriteStrategy) String() string {
	if s == WithPhotoField {
		return "withPhotoField"
	}
	return "withoutPhotoField"
}

type (
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient, strategy WriteStrategy) error
		GetByID(ctx context.Context, patientID string) (*model.Patient, error)
		GetByAadhar(ctx context.Context, aadhar string) (*model.Patient, error)
		List(ctx context.Context) ([]*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient, strategy WriteStrategy) error
		Delete(ctx context.Context, patientID string) error
		Count(ctx context.Context) (int64, error)
		ExistsByID(ctx context.Context, patientID string) (bool, error)
		ExistsByAadhar(ctx context.Context, aadhar string) (bool, error)
	}

	// VisitRepository.Create reloads the row so store-assigned numbers are visible.
	VisitRepository interface {
		Create(ctx context.Context, visit *model.Visit) error
		GetByID(ctx context.Context, visitID int64) (*model.Visit, error)
		List(ctx context.Context) ([]*model.Visit, error)
		ListByPatient(ctx context.Context, patientID string) ([]*model.Visit, error)
		ListRecentByPatient(ctx context.Context, patientID string) ([]*model.Visit, error)
		Update(ctx context.Context, visit *model.Visit) error
		Delete(ctx context.Context, visitID int64) error
		ExistsByID(ctx context.Context, visitID int64) (bool, error)
	}

	LabTestRepository interface {
		Create(ctx context.Context, test *model.LabTest) error
		GetByID(ctx context.Context, testID int64) (*model.LabTest, error)
		List(ctx context.Context) ([]*model.LabTest, error)
		ListByPatient(ctx context.Context, patientID string) ([]*model.LabTest, error)
		ListByVisit(ctx context.Context, visitID int64) ([]*model.LabTest, error)
		ListByStatus(ctx context.Context, status string) ([]*model.LabTest, error)
		Update(ctx context.Context, test *model.LabTest) error
		Delete(ctx context.Context, testID int64) error
	}

	NurseRepository interface {
		Create(ctx context.Context, nurse *model.Nurse) error
		GetByID(ctx context.Context, nurseID string) (*model.Nurse, error)
		List(ctx context.Context) ([]*model.Nurse, error)
		ListActive(ctx context.Context) ([]*model.Nurse, error)
		Update(ctx context.Context, nurse *model.Nurse) error
		UpdateStatus(ctx context.Context, nurseID, status string) error
		Delete(ctx context.Context, nurseID string) error
		ExistsByID(ctx context.Context, nurseID string) (bool, error)
		// ExistsByEmail ignores the nurse identified by excludeID.
		ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	}
)
