package labtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	"github.com/jwalitptl/frontdesk-api/internal/repository/memory"
	"github.com/jwalitptl/frontdesk-api/internal/service/event"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
)

func newService(t *testing.T) (*Service, int64) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	patients := memory.NewPatientRepository(store)
	visits := memory.NewVisitRepository(store)

	require.NoError(t, patients.Create(ctx, &model.Patient{PatientID: "001", Name: "A", Surname: "B", AadharNumber: "1"}, repository.WithoutPhotoField))
	v := &model.Visit{PatientID: "001"}
	require.NoError(t, visits.Create(ctx, v))

	return NewService(memory.NewLabTestRepository(store), patients, visits, event.Nop(), logger.Nop()), v.VisitID
}

func strPtr(s string) *string { return &s }

func TestCreateLabTestDefaultsToPending(t *testing.T) {
	svc, visitID := newService(t)

	test, err := svc.CreateLabTest(context.Background(), "001", &visitID, &model.CreateLabTestRequest{TestName: " CBC "})
	require.NoError(t, err)
	assert.Equal(t, "CBC", test.TestName)
	assert.Equal(t, model.LabTestStatusPending, test.Status)
	assert.False(t, test.TestGivenAt.IsZero())
	require.NotNil(t, test.VisitID)
	assert.Equal(t, visitID, *test.VisitID)
}

func TestCreateLabTestUnknownReferences(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateLabTest(ctx, "404", nil, &model.CreateLabTestRequest{TestName: "CBC"})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	missing := int64(999)
	_, err = svc.CreateLabTest(ctx, "001", &missing, &model.CreateLabTestRequest{TestName: "CBC"})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestRecordResultTransitions(t *testing.T) {
	tests := []struct {
		name   string
		status *string
		want   string
	}{
		{"no status completes", nil, model.LabTestStatusCompleted},
		{"empty status completes", strPtr(""), model.LabTestStatusCompleted},
		{"explicit status wins", strPtr("Needs Review"), "Needs Review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)
			ctx := context.Background()

			created, err := svc.CreateLabTest(ctx, "001", nil, &model.CreateLabTestRequest{TestName: "Lipid"})
			require.NoError(t, err)
			require.Equal(t, model.LabTestStatusPending, created.Status)

			got, err := svc.RecordResult(ctx, created.TestID, &model.RecordResultRequest{Result: "190 mg/dL", Status: tt.status})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, "190 mg/dL", got.Result)
			assert.NotNil(t, got.ResultUpdatedAt)
		})
	}
}

func TestUpdateLabTestKeepsStatus(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateLabTest(ctx, "001", nil, &model.CreateLabTestRequest{TestName: "CBC", Status: "Sample Collected"})
	require.NoError(t, err)

	got, err := svc.UpdateLabTest(ctx, created.TestID, &model.UpdateLabTestRequest{TestName: "CBC", ReferenceRange: "4-11"})
	require.NoError(t, err)
	assert.Equal(t, "Sample Collected", got.Status)
	assert.Equal(t, "4-11", got.ReferenceRange)

	_, err = svc.UpdateLabTest(ctx, 999, &model.UpdateLabTestRequest{TestName: "x"})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestListLabTests(t *testing.T) {
	svc, visitID := newService(t)
	ctx := context.Background()

	_, err := svc.CreateLabTest(ctx, "001", &visitID, &model.CreateLabTestRequest{TestName: "CBC"})
	require.NoError(t, err)
	done, err := svc.CreateLabTest(ctx, "001", nil, &model.CreateLabTestRequest{TestName: "ECG"})
	require.NoError(t, err)
	_, err = svc.RecordResult(ctx, done.TestID, &model.RecordResultRequest{Result: "normal"})
	require.NoError(t, err)

	byVisit, err := svc.ListVisitLabTests(ctx, visitID)
	require.NoError(t, err)
	assert.Len(t, byVisit, 1)

	pending, err := svc.ListLabTestsByStatus(ctx, model.LabTestStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "CBC", pending[0].TestName)

	all, err := svc.ListPatientLabTests(ctx, "001")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.DeleteLabTest(ctx, done.TestID))
	assert.True(t, apperrors.Is(svc.DeleteLabTest(ctx, done.TestID), apperrors.ErrNotFound))
}
