package nurse

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/email"
	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	"github.com/jwalitptl/frontdesk-api/internal/service/event"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
)

const nurseNotFound = "Nurse not found"

type Service struct {
	repo   repository.NurseRepository
	mailer email.Service
	events event.Publisher
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo repository.NurseRepository, mailer email.Service, events event.Publisher, l *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		mailer: mailer,
		events: events,
		logger: l,
		now:    time.Now,
	}
}

// CreateNurse registers a nurse account and sends a welcome email. A failed
// email is logged and does not fail the creation.
func (s *Service) CreateNurse(ctx context.Context, req *model.CreateNurseRequest) (*model.Nurse, error) {
	nurseID := strings.TrimSpace(req.NurseID)
	emailAddr := strings.TrimSpace(req.Email)

	exists, err := s.repo.ExistsByID(ctx, nurseID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if exists {
		return nil, apperrors.Conflict("Nurse with this ID already exists", nil)
	}

	taken, err := s.repo.ExistsByEmail(ctx, emailAddr, "")
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if taken {
		return nil, apperrors.Conflict("Nurse with this email already exists", nil)
	}

	nurse := &model.Nurse{
		NurseID:   nurseID,
		Name:      strings.TrimSpace(req.Name),
		Email:     emailAddr,
		Password:  req.Password,
		CreatedAt: s.now(),
		Role:      req.Role,
		Status:    req.Status,
	}
	if strings.TrimSpace(nurse.Status) == "" {
		nurse.Status = model.NurseStatusActive
	}

	if err := s.repo.Create(ctx, nurse); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Nurse already exists", err)
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.mailer.SendWelcome(ctx, nurse.Email, nurse.Name); err != nil {
		s.logger.Error(err, "failed to send welcome email", "nurse_id", nurse.NurseID)
	}

	s.events.Publish(ctx, event.NurseCreated, nurse.ToDTO())
	return nurse, nil
}

func (s *Service) GetNurse(ctx context.Context, nurseID string) (*model.Nurse, error) {
	nurse, err := s.repo.GetByID(ctx, nurseID)
	if err != nil {
		return nil, repository.AppError(err, nurseNotFound)
	}
	return nurse, nil
}

func (s *Service) ListNurses(ctx context.Context) ([]model.NurseDTO, error) {
	return toDTOs(s.repo.List(ctx))
}

// ListActiveNurses returns nurses whose status is Active, ignoring case.
func (s *Service) ListActiveNurses(ctx context.Context) ([]model.NurseDTO, error) {
	return toDTOs(s.repo.ListActive(ctx))
}

func toDTOs(nurses []*model.Nurse, err error) ([]model.NurseDTO, error) {
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	dtos := make([]model.NurseDTO, 0, len(nurses))
	for _, n := range nurses {
		dtos = append(dtos, n.ToDTO())
	}
	return dtos, nil
}

// UpdateNurse replaces the profile. The password changes only when a new one
// is supplied.
func (s *Service) UpdateNurse(ctx context.Context, nurseID string, req *model.UpdateNurseRequest) (*model.Nurse, error) {
	nurse, err := s.GetNurse(ctx, nurseID)
	if err != nil {
		return nil, err
	}

	emailAddr := strings.TrimSpace(req.Email)
	taken, err := s.repo.ExistsByEmail(ctx, emailAddr, nurseID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if taken {
		return nil, apperrors.Conflict("Nurse with this email already exists", nil)
	}

	nurse.Name = strings.TrimSpace(req.Name)
	nurse.Email = emailAddr
	nurse.Role = req.Role
	nurse.Status = req.Status
	if req.Password != "" {
		nurse.Password = req.Password
	}

	if err := s.repo.Update(ctx, nurse); err != nil {
		return nil, repository.AppError(err, nurseNotFound)
	}
	return nurse, nil
}

func (s *Service) UpdateStatus(ctx context.Context, nurseID, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return apperrors.BadRequest("Status is required", nil)
	}

	if err := s.repo.UpdateStatus(ctx, nurseID, status); err != nil {
		return repository.AppError(err, nurseNotFound)
	}

	s.events.Publish(ctx, event.NurseStatusChanged, map[string]string{
		"nurse_id": nurseID,
		"status":   status,
	})
	return nil
}

func (s *Service) DeleteNurse(ctx context.Context, nurseID string) error {
	if err := s.repo.Delete(ctx, nurseID); err != nil {
		return repository.AppError(err, nurseNotFound)
	}
	return nil
}
