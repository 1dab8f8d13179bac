package labtest

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
	repo     repository.LabTestRepository
	patients repository.PatientRepository
	visits   repository.VisitRepository
	events   event.Publisher
	logger   *logger.Logger
	now      func() time.Time
}

func NewService(repo repository.LabTestRepository, patients repository.PatientRepository, visits repository.VisitRepository, events event.Publisher, l *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		visits:   visits,
		events:   events,
		logger:   l,
		now:      time.Now,
	}
}

func testNotFound(id int64) string {
	return fmt.Sprintf("Lab test not found with ID: %d", id)
}

// CreateLabTest orders a test for a patient, optionally tied to one of the
// patient's visits. Status defaults to Pending.
func (s *Service) CreateLabTest(ctx context.Context, patientID string, visitID *int64, req *model.CreateLabTestRequest) (*model.LabTest, error) {
	exists, err := s.patients.ExistsByID(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !exists {
		return nil, apperrors.NotFound("Patient not found with ID: "+patientID, nil)
	}

	if visitID != nil {
		exists, err := s.visits.ExistsByID(ctx, *visitID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if !exists {
			return nil, apperrors.NotFound(fmt.Sprintf("Visit not found with ID: %d", *visitID), nil)
		}
	}

	test := &model.LabTest{
		TestName:       strings.TrimSpace(req.TestName),
		Result:         req.Result,
		ReferenceRange: req.ReferenceRange,
		Status:         req.Status,
		VisitID:        visitID,
		PatientID:      patientID,
		TestGivenAt:    s.now(),
	}
	if strings.TrimSpace(test.Status) == "" {
		test.Status = model.LabTestStatusPending
	}

	if err := s.repo.Create(ctx, test); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.events.Publish(ctx, event.LabTestCreated, test)
	return test, nil
}

func (s *Service) GetLabTest(ctx context.Context, id int64) (*model.LabTest, error) {
	test, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AppError(err, testNotFound(id))
	}
	return test, nil
}

func (s *Service) ListLabTests(ctx context.Context) ([]*model.LabTest, error) {
	return wrapList(s.repo.List(ctx))
}

func (s *Service) ListPatientLabTests(ctx context.Context, patientID string) ([]*model.LabTest, error) {
	return wrapList(s.repo.ListByPatient(ctx, patientID))
}

func (s *Service) ListVisitLabTests(ctx context.Context, visitID int64) ([]*model.LabTest, error) {
	return wrapList(s.repo.ListByVisit(ctx, visitID))
}

func (s *Service) ListLabTestsByStatus(ctx context.Context, status string) ([]*model.LabTest, error) {
	return wrapList(s.repo.ListByStatus(ctx, status))
}

func wrapList(tests []*model.LabTest, err error) ([]*model.LabTest, error) {
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return tests, nil
}

// UpdateLabTest replaces name, result and reference range. An empty status
// keeps the stored one.
func (s *Service) UpdateLabTest(ctx context.Context, id int64, req *model.UpdateLabTestRequest) (*model.LabTest, error) {
	test, err := s.GetLabTest(ctx, id)
	if err != nil {
		return nil, err
	}

	test.TestName = strings.TrimSpace(req.TestName)
	test.Result = req.Result
	test.ReferenceRange = req.ReferenceRange
	if strings.TrimSpace(req.Status) != "" {
		test.Status = req.Status
	}

	if err := s.repo.Update(ctx, test); err != nil {
		return nil, repository.AppError(err, testNotFound(id))
	}
	return test, nil
}

// RecordResult stores a result and moves the test to the given status, or to
// Completed when none is given.
func (s *Service) RecordResult(ctx context.Context, id int64, req *model.RecordResultRequest) (*model.LabTest, error) {
	test, err := s.GetLabTest(ctx, id)
	if err != nil {
		return nil, err
	}

	test.Result = req.Result
	test.Status = model.LabTestStatusCompleted
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		test.Status = *req.Status
	}

	if err := s.repo.Update(ctx, test); err != nil {
		return nil, repository.AppError(err, testNotFound(id))
	}

	s.events.Publish(ctx, event.LabTestResultRecorded, test)
	return test, nil
}

func (s *Service) DeleteLabTest(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repository.AppError(err, testNotFound(id))
	}
	return nil
}
