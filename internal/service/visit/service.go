package visit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	"github.com/jwalitptl/frontdesk-api/internal/service/event"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
)

type Service struct {
	repo     repository.VisitRepository
	patients repository.PatientRepository
	events   event.Publisher
	logger   *logger.Logger
	now      func() time.Time
}

func NewService(repo repository.VisitRepository, patients repository.PatientRepository, events event.Publisher, l *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		events:   events,
		logger:   l,
		now:      time.Now,
	}
}

func visitNotFound(id int64) string {
	return fmt.Sprintf("Visit not found with ID: %d", id)
}

// CreateVisit attaches a visit to patientID. The path patient always wins
// over one carried in the payload. Outpatient and registration numbers and
// the patient's visit counter are maintained by the store.
func (s *Service) CreateVisit(ctx context.Context, patientID string, visit *model.Visit) (*model.Visit, error) {
	if visit.PatientID != "" && visit.PatientID != patientID {
		s.logger.Warn("visit payload names a different patient, using path patient",
			"path_patient_id", patientID,
			"payload_patient_id", visit.PatientID,
		)
	}
	visit.PatientID = patientID

	exists, err := s.patients.ExistsByID(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !exists {
		return nil, apperrors.NotFound("Patient not found with ID: "+patientID, nil)
	}

	if visit.VisitDate.IsZero() {
		visit.VisitDate = s.now()
	}
	if strings.TrimSpace(visit.Status) == "" {
		visit.Status = model.VisitStatusActive
	}
	visit.VisitID = 0

	if err := s.repo.Create(ctx, visit); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.events.Publish(ctx, event.VisitCreated, visit)
	return visit, nil
}

func (s *Service) GetVisit(ctx context.Context, id int64) (*model.Visit, error) {
	visit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AppError(err, visitNotFound(id))
	}
	return visit, nil
}

func (s *Service) ListVisits(ctx context.Context) ([]*model.Visit, error) {
	visits, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return visits, nil
}

func (s *Service) ListPatientVisits(ctx context.Context, patientID string) ([]*model.Visit, error) {
	visits, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return visits, nil
}

// ListRecentPatientVisits returns the patient's visits, newest first.
func (s *Service) ListRecentPatientVisits(ctx context.Context, patientID string) ([]*model.Visit, error) {
	visits, err := s.repo.ListRecentByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return visits, nil
}

// UpdateVisit replaces the clinical fields of a visit. An empty status or a
// missing visit date keeps the stored value.
func (s *Service) UpdateVisit(ctx context.Context, id int64, details *model.Visit) (*model.Visit, error) {
	visit, err := s.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}

	visit.BP = details.BP
	visit.Complaint = details.Complaint
	visit.Symptoms = details.Symptoms
	visit.Temperature = details.Temperature
	visit.Weight = details.Weight
	visit.Prescription = details.Prescription
	if strings.TrimSpace(details.Status) != "" {
		visit.Status = details.Status
	}
	if !details.VisitDate.IsZero() {
		visit.VisitDate = details.VisitDate
	}

	if err := s.repo.Update(ctx, visit); err != nil {
		return nil, repository.AppError(err, visitNotFound(id))
	}
	return visit, nil
}

func (s *Service) UpdatePrescription(ctx context.Context, id int64, prescription string) (*model.Visit, error) {
	visit, err := s.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}

	visit.Prescription = prescription
	if err := s.repo.Update(ctx, visit); err != nil {
		return nil, repository.AppError(err, visitNotFound(id))
	}
	return visit, nil
}

func (s *Service) DeleteVisit(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repository.AppError(err, visitNotFound(id))
	}
	return nil
}
