package nurse

import (
	"context"
	"errors"
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

type recordingMailer struct {
	to  []string
	err error
}

func (m *recordingMailer) SendWelcome(ctx context.Context, email, name string) error {
	m.to = append(m.to, email)
	return m.err
}

func (m *recordingMailer) SendCustom(ctx context.Context, to, subject, content string) error {
	return m.err
}

func newService(t *testing.T) (*Service, repository.NurseRepository, *recordingMailer) {
	t.Helper()
	repo := memory.NewNurseRepository(memory.NewStore())
	mailer := &recordingMailer{}
	return NewService(repo, mailer, event.Nop(), logger.Nop()), repo, mailer
}

func createReq(id, email string) *model.CreateNurseRequest {
	return &model.CreateNurseRequest{NurseID: id, Name: "Priya", Email: email, Password: "secret", Role: "Nurse"}
}

func TestCreateNurse(t *testing.T) {
	svc, repo, mailer := newService(t)

	n, err := svc.CreateNurse(context.Background(), createReq("N1", "priya@clinic.test"))
	require.NoError(t, err)
	assert.Equal(t, model.NurseStatusActive, n.Status)
	assert.False(t, n.CreatedAt.IsZero())
	assert.Equal(t, []string{"priya@clinic.test"}, mailer.to)

	stored, err := repo.GetByID(context.Background(), "N1")
	require.NoError(t, err)
	assert.Equal(t, "secret", stored.Password)
}

func TestCreateNurseConflicts(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateNurse(ctx, createReq("N1", "a@clinic.test"))
	require.NoError(t, err)

	_, err = svc.CreateNurse(ctx, createReq("N1", "b@clinic.test"))
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	_, err = svc.CreateNurse(ctx, createReq("N2", "a@clinic.test"))
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestCreateNurseSurvivesEmailFailure(t *testing.T) {
	svc, _, mailer := newService(t)
	mailer.err = errors.New("smtp down")

	_, err := svc.CreateNurse(context.Background(), createReq("N1", "a@clinic.test"))
	assert.NoError(t, err)
}

func TestUpdateNurseKeepsPasswordWhenBlank(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateNurse(ctx, createReq("N1", "a@clinic.test"))
	require.NoError(t, err)

	_, err = svc.UpdateNurse(ctx, "N1", &model.UpdateNurseRequest{Name: "Priya S", Email: "a@clinic.test", Status: "Active"})
	require.NoError(t, err)
	stored, err := repo.GetByID(ctx, "N1")
	require.NoError(t, err)
	assert.Equal(t, "secret", stored.Password)
	assert.Equal(t, "Priya S", stored.Name)

	_, err = svc.UpdateNurse(ctx, "N1", &model.UpdateNurseRequest{Name: "Priya S", Email: "a@clinic.test", Password: "changed"})
	require.NoError(t, err)
	stored, err = repo.GetByID(ctx, "N1")
	require.NoError(t, err)
	assert.Equal(t, "changed", stored.Password)

	_, err = svc.UpdateNurse(ctx, "N9", &model.UpdateNurseRequest{Name: "x", Email: "x@clinic.test"})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateNurseEmailTaken(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateNurse(ctx, createReq("N1", "a@clinic.test"))
	require.NoError(t, err)
	_, err = svc.CreateNurse(ctx, createReq("N2", "b@clinic.test"))
	require.NoError(t, err)

	_, err = svc.UpdateNurse(ctx, "N2", &model.UpdateNurseRequest{Name: "B", Email: "a@clinic.test"})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestActiveNursesAndStatus(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateNurse(ctx, createReq("N1", "a@clinic.test"))
	require.NoError(t, err)
	req := createReq("N2", "b@clinic.test")
	req.Status = "ACTIVE"
	_, err = svc.CreateNurse(ctx, req)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, "N1", "On Leave"))

	active, err := svc.ListActiveNurses(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "N2", active[0].NurseID)

	all, err := svc.ListNurses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.True(t, apperrors.Is(svc.UpdateStatus(ctx, "N9", "Active"), apperrors.ErrNotFound))
	assert.True(t, apperrors.Is(svc.UpdateStatus(ctx, "N1", " "), apperrors.ErrBadRequest))
}

func TestDeleteNurse(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateNurse(ctx, createReq("N1", "a@clinic.test"))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteNurse(ctx, "N1"))

	_, err = svc.GetNurse(ctx, "N1")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
