package app

import (
	"context"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/jwalitptl/frontdesk-api/internal/bootstrap"
	"github.com/jwalitptl/frontdesk-api/internal/config"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	"github.com/jwalitptl/frontdesk-api/internal/repository/memory"
	"github.com/jwalitptl/frontdesk-api/internal/repository/postgres"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
)

// Storage bundles the repositories of one storage driver. DB is nil for the
// in-memory driver.
type Storage struct {
	DB       *sqlx.DB
	Patients repository.PatientRepository
	Visits   repository.VisitRepository
	LabTests repository.LabTestRepository
	Nurses   repository.NurseRepository

	orm *gorm.DB
}

// OpenStorage connects the configured driver.
func OpenStorage(ctx context.Context, cfg config.DatabaseConfig, l *logger.Logger) (*Storage, error) {
	if cfg.InMemory() {
		l.Warn("using in-memory storage, data is lost on restart")
		return NewMemoryStorage(), nil
	}

	db, err := postgres.NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := postgres.NewGorm(db, l.Zerolog())
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Storage{
		DB:       db,
		Patients: postgres.NewPatientRepository(gdb),
		Visits:   postgres.NewVisitRepository(gdb),
		LabTests: postgres.NewLabTestRepository(gdb),
		Nurses:   postgres.NewNurseRepository(gdb),
		orm:      gdb,
	}, nil
}

// UsePhotoColumnType rebinds patient writes to the probed type of
// patients.photo. It is a no-op for the in-memory driver.
func (s *Storage) UsePhotoColumnType(dataType string) {
	if s.orm == nil {
		return
	}
	s.Patients = postgres.NewPatientRepository(s.orm, postgres.WithPhotoColumnType(dataType))
}

func NewMemoryStorage() *Storage {
	store := memory.NewStore()
	return &Storage{
		Patients: memory.NewPatientRepository(store),
		Visits:   memory.NewVisitRepository(store),
		LabTests: memory.NewLabTestRepository(store),
		Nurses:   memory.NewNurseRepository(store),
	}
}

// BootstrapDeps exposes the storage to the startup routine.
func (s *Storage) BootstrapDeps(l *logger.Logger) bootstrap.Deps {
	deps := bootstrap.Deps{
		Patients: s.Patients,
		Nurses:   s.Nurses,
		Logger:   l,
	}
	if s.DB != nil {
		deps.Migrator = postgres.NewMigrator(s.DB)
		deps.Probe = postgres.NewSchemaInspector(s.DB)
		deps.Writable = postgres.PhotoColumnWritable
	}
	return deps
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
