package patient

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	"github.com/jwalitptl/frontdesk-api/internal/service/event"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
	"github.com/jwalitptl/frontdesk-api/pkg/payload"
)

type PatientService interface {
	RegisterPatient(ctx context.Context, body payload.Fields) (*RegistrationResult, error)
	GetPatient(ctx context.Context, patientID string) (*model.Patient, error)
	GetPatientByAadhar(ctx context.Context, aadhar string) (*model.Patient, error)
	FindByAadhar(ctx context.Context, aadhar string) (*model.Patient, bool, error)
	ListPatients(ctx context.Context) ([]*model.Patient, error)
	UpdatePatient(ctx context.Context, patientID string, req *model.UpdatePatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, patientID string) error
	CountPatients(ctx context.Context) (int64, error)
}

// VisitCreator attaches a visit to an existing patient.
type VisitCreator interface {
	CreateVisit(ctx context.Context, patientID string, visit *model.Visit) (*model.Visit, error)
}

type Options struct {
	// PhotoColumnWritable is the result of the startup schema probe.
	PhotoColumnWritable bool
}

type Service struct {
	repo    repository.PatientRepository
	visits  VisitCreator
	events  event.Publisher
	metrics *metrics.Metrics
	logger  *logger.Logger

	photoWritable bool

	// codeMu serializes display code assignment with the insert that uses it.
	codeMu sync.Mutex
}

func NewService(repo repository.PatientRepository, visits VisitCreator, events event.Publisher, m *metrics.Metrics, l *logger.Logger, opts Options) *Service {
	return &Service{
		repo:          repo,
		visits:        visits,
		events:        events,
		metrics:       m,
		logger:        l,
		photoWritable: opts.PhotoColumnWritable,
	}
}

func patientNotFound(id string) string {
	return "Patient not found with ID: " + id
}

func (s *Service) GetPatient(ctx context.Context, patientID string) (*model.Patient, error) {
	patient, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return nil, repository.AppError(err, patientNotFound(patientID))
	}
	return patient, nil
}

func (s *Service) GetPatientByAadhar(ctx context.Context, aadhar string) (*model.Patient, error) {
	patient, err := s.repo.GetByAadhar(ctx, aadhar)
	if err != nil {
		return nil, repository.AppError(err, "Patient not found with Aadhar number: "+aadhar)
	}
	return patient, nil
}

// FindByAadhar is GetPatientByAadhar without treating absence as an error.
func (s *Service) FindByAadhar(ctx context.Context, aadhar string) (*model.Patient, bool, error) {
	patient, err := s.repo.GetByAadhar(ctx, aadhar)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, apperrors.Internal(err)
	}
	return patient, true, nil
}

func (s *Service) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}

func (s *Service) CountPatients(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return n, nil
}

// UpdatePatient applies the non-nil fields of req. Text values are trimmed
// and the Aadhar number is never changed.
func (s *Service) UpdatePatient(ctx context.Context, patientID string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = strings.TrimSpace(*req.Name)
	}
	if req.Surname != nil {
		patient.Surname = strings.TrimSpace(*req.Surname)
	}
	if patient.Name == "" || patient.Surname == "" {
		return nil, apperrors.BadRequest("Name and surname cannot be empty", nil)
	}

	assignTrimmed(&patient.FatherName, req.FatherName)
	assignTrimmed(&patient.Gender, req.Gender)
	assignTrimmed(&patient.Address, req.Address)
	assignTrimmed(&patient.BloodGroup, req.BloodGroup)
	assignTrimmed(&patient.PhoneNumber, req.PhoneNumber)
	if req.Age != nil {
		if *req.Age < math.MinInt32 || *req.Age > math.MaxInt32 {
			return nil, apperrors.BadRequest("Invalid age", nil)
		}
		patient.Age = *req.Age
	}

	strategy := repository.WithoutPhotoField
	if req.Photo != nil {
		if s.photoWritable {
			photo := *req.Photo
			patient.Photo = &photo
			strategy = repository.WithPhotoField
		} else {
			s.logger.Warn("photo column is not writable, ignoring photo update", "patient_id", patientID)
		}
	}

	if err := s.repo.Update(ctx, patient, strategy); err != nil {
		return nil, repository.AppError(err, patientNotFound(patientID))
	}

	s.events.Publish(ctx, event.PatientUpdated, patient)
	return patient, nil
}

// DeletePatient removes the patient together with its visits and lab tests.
func (s *Service) DeletePatient(ctx context.Context, patientID string) error {
	if err := s.repo.Delete(ctx, patientID); err != nil {
		return repository.AppError(err, patientNotFound(patientID))
	}

	s.events.Publish(ctx, event.PatientDeleted, map[string]string{"patientId": patientID})
	return nil
}

func assignTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
