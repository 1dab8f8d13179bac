package auth

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository/memory"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
)

func newService(t *testing.T) (*Service, *metrics.Metrics) {
	t.Helper()
	repo := memory.NewNurseRepository(memory.NewStore())
	require.NoError(t, repo.Create(context.Background(), &model.Nurse{
		NurseID:  "N1001",
		Name:     "Test Nurse",
		Email:    "nurse@example.com",
		Password: "password",
		Status:   model.NurseStatusActive,
	}))
	m := metrics.New(prometheus.NewRegistry(), "test")
	return NewService(repo, m, logger.Nop()), m
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name    string
		req     model.LoginRequest
		success bool
		message string
		code    string
		result  string
	}{
		{"success", model.LoginRequest{NurseID: "N1001", Password: "password"}, true, "Login successful", "", "success"},
		{"unknown nurse", model.LoginRequest{NurseID: "N9", Password: "password"}, false, "Nurse ID not found", model.LoginErrInvalidNurseID, "unknown_nurse"},
		{"wrong password", model.LoginRequest{NurseID: "N1001", Password: "Password"}, false, "Incorrect password", model.LoginErrInvalidPassword, "invalid_password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			resp, err := svc.Login(context.Background(), &tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.success, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, tt.code, resp.Error)
			assert.Equal(t, float64(1), testutil.ToFloat64(m.LoginAttempts.WithLabelValues(tt.result)))

			if tt.success {
				require.NotNil(t, resp.Nurse)
				assert.Equal(t, "N1001", resp.Nurse.NurseID)
				assert.Equal(t, "nurse@example.com", resp.Nurse.Email)
			} else {
				assert.Nil(t, resp.Nurse)
			}
		})
	}
}
