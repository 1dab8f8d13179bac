package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	"github.com/jwalitptl/frontdesk-api/internal/repository/memory"
	"github.com/jwalitptl/frontdesk-api/internal/repository/postgres"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
)

type fakeMigrator struct {
	applied []string
	err     error
	calls   int
}

func (m *fakeMigrator) Up(ctx context.Context) ([]string, error) {
	m.calls++
	return m.applied, m.err
}

type fakeProbe struct {
	dataType string
	repaired bool
}

func (p *fakeProbe) PhotoColumnType(ctx context.Context) (string, error) {
	return p.dataType, nil
}

func (p *fakeProbe) RepairPhotoColumn(ctx context.Context) (bool, error) {
	if p.dataType != "oid" {
		return false, nil
	}
	p.dataType = "bytea"
	p.repaired = true
	return true, nil
}

func memoryDeps() Deps {
	store := memory.NewStore()
	return Deps{
		Patients: memory.NewPatientRepository(store),
		Nurses:   memory.NewNurseRepository(store),
		Logger:   logger.Nop(),
	}
}

func TestInitializeMemoryDefaults(t *testing.T) {
	res, err := Initialize(context.Background(), memoryDeps(), Options{AutoMigrate: true})
	require.NoError(t, err)
	assert.True(t, res.PhotoColumnWritable)
	assert.Empty(t, res.SeededPatients)
}

func TestInitializeSeedsOnce(t *testing.T) {
	ctx := context.Background()
	deps := memoryDeps()

	res, err := Initialize(ctx, deps, Options{SeedSampleData: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"001"}, res.SeededPatients)
	assert.Equal(t, []string{"N1001"}, res.SeededNurses)

	p, err := deps.Patients.GetByAadhar(ctx, "987601234500")
	require.NoError(t, err)
	assert.Equal(t, "Rahul", p.Name)
	assert.Equal(t, "45 Park Avenue, Mumbai", p.Address)

	n, err := deps.Nurses.GetByID(ctx, "N1001")
	require.NoError(t, err)
	assert.Equal(t, "password", n.Password)
	assert.Equal(t, model.NurseStatusActive, n.Status)

	res, err = Initialize(ctx, deps, Options{SeedSampleData: true})
	require.NoError(t, err)
	assert.Empty(t, res.SeededPatients)
	assert.Empty(t, res.SeededNurses)

	count, err := deps.Patients.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSeedUsesNextFreeCode(t *testing.T) {
	ctx := context.Background()
	deps := memoryDeps()
	require.NoError(t, deps.Patients.Create(ctx, &model.Patient{PatientID: "001", Name: "A", Surname: "B", AadharNumber: "1"}, repository.WithoutPhotoField))

	res, err := Seed(ctx, deps)
	require.NoError(t, err)
	assert.Equal(t, []string{"002"}, res.SeededPatients)
}

func TestInitializeProbe(t *testing.T) {
	tests := []struct {
		name     string
		dataType string
		repair   bool
		writable bool
		repaired bool
	}{
		{"text column", "text", false, true, false},
		{"oid column", "oid", false, false, false},
		{"oid column repaired", "oid", true, true, true},
		{"missing column", "", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := memoryDeps()
			deps.Probe = &fakeProbe{dataType: tt.dataType}
			deps.Writable = postgres.PhotoColumnWritable

			res, err := Initialize(context.Background(), deps, Options{RepairPhotoColumn: tt.repair})
			require.NoError(t, err)
			assert.Equal(t, tt.writable, res.PhotoColumnWritable)
			assert.Equal(t, tt.repaired, res.PhotoColumnRepaired)
		})
	}
}

func TestInitializeMigrations(t *testing.T) {
	deps := memoryDeps()
	migrator := &fakeMigrator{applied: []string{"0001_init"}}
	deps.Migrator = migrator

	res, err := Initialize(context.Background(), deps, Options{AutoMigrate: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init"}, res.AppliedMigrations)

	_, err = Initialize(context.Background(), deps, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, migrator.calls)

	migrator.err = errors.New("syntax error")
	_, err = Initialize(context.Background(), deps, Options{AutoMigrate: true})
	assert.ErrorContains(t, err, "syntax error")
}
