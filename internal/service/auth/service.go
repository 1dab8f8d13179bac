package auth

import (
	"context"
	"errors"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
	"github.com/jwalitptl/frontdesk-api/pkg/security"
)

const (
	msgLoginSuccess    = "Login successful"
	msgUnknownNurse    = "Nurse ID not found"
	msgInvalidPassword = "Incorrect password"
)

// Service checks nurse credentials. Nothing is issued on success: the
// response only echoes the nurse's identity.
type Service struct {
	nurses  repository.NurseRepository
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewService(nurses repository.NurseRepository, m *metrics.Metrics, l *logger.Logger) *Service {
	return &Service{
		nurses:  nurses,
		metrics: m,
		logger:  l,
	}
}

// Login compares the supplied password with the stored one. Credential
// failures are reported in the response, not as errors.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	nurse, err := s.nurses.GetByID(ctx, req.NurseID)
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.LoginAttempt("unknown_nurse")
		s.logger.Warn("login attempt for unknown nurse", "nurse_id", req.NurseID)
		return &model.LoginResponse{
			Success: false,
			Message: msgUnknownNurse,
			Error:   model.LoginErrInvalidNurseID,
		}, nil
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if !security.ComparePlaintext(nurse.Password, req.Password) {
		s.metrics.LoginAttempt("invalid_password")
		s.logger.Warn("login attempt with wrong password", "nurse_id", req.NurseID)
		return &model.LoginResponse{
			Success: false,
			Message: msgInvalidPassword,
			Error:   model.LoginErrInvalidPassword,
		}, nil
	}

	s.metrics.LoginAttempt("success")
	return &model.LoginResponse{
		Success: true,
		Message: msgLoginSuccess,
		Nurse: &model.LoggedInNurse{
			NurseID: nurse.NurseID,
			Name:    nurse.Name,
			Email:   nurse.Email,
		},
	}, nil
}
