// Package bootstrap prepares the store before the API starts serving:
// schema migrations, the photo column probe and optional sample data.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	"github.com/jwalitptl/frontdesk-api/internal/service/patient"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
)

type Migrator interface {
	Up(ctx context.Context) ([]string, error)
}

type PhotoProbe interface {
	PhotoColumnType(ctx context.Context) (string, error)
	RepairPhotoColumn(ctx context.Context) (bool, error)
}

// Deps are the collaborators used during initialization. Migrator and Probe
// are nil when the API runs on in-memory storage.
type Deps struct {
	Migrator Migrator
	Probe    PhotoProbe
	Writable func(dataType string) bool
	Patients repository.PatientRepository
	Nurses   repository.NurseRepository
	Logger   *logger.Logger
}

type Options struct {
	AutoMigrate       bool
	RepairPhotoColumn bool
	SeedSampleData    bool
}

type Result struct {
	AppliedMigrations   []string
	PhotoColumnType     string
	PhotoColumnRepaired bool
	PhotoColumnWritable bool
	SeededPatients      []string
	SeededNurses        []string
}

// Initialize runs the startup steps selected by opts, in order: migrate,
// repair, probe, seed.
func Initialize(ctx context.Context, deps Deps, opts Options) (*Result, error) {
	res := &Result{PhotoColumnWritable: true}

	if opts.AutoMigrate && deps.Migrator != nil {
		applied, err := deps.Migrator.Up(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		res.AppliedMigrations = applied
		if len(applied) > 0 {
			deps.Logger.Info("applied schema migrations", "migrations", applied)
		}
	}

	if deps.Probe != nil {
		if opts.RepairPhotoColumn {
			repaired, err := deps.Probe.RepairPhotoColumn(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to repair photo column: %w", err)
			}
			res.PhotoColumnRepaired = repaired
			if repaired {
				deps.Logger.Warn("converted patients.photo from oid to bytea, existing photo references were dropped")
			}
		}

		dataType, err := deps.Probe.PhotoColumnType(ctx)
		if err != nil {
			return nil, err
		}
		res.PhotoColumnType = dataType
		res.PhotoColumnWritable = deps.Writable != nil && deps.Writable(dataType)
		if !res.PhotoColumnWritable {
			deps.Logger.Warn("patients.photo is not writable, photos will not be stored", "data_type", dataType)
		}
	}

	if opts.SeedSampleData {
		if err := seed(ctx, deps, res); err != nil {
			return nil, fmt.Errorf("failed to seed sample data: %w", err)
		}
	}

	return res, nil
}

// Seed inserts the sample records only. It is used by the seed command.
func Seed(ctx context.Context, deps Deps) (*Result, error) {
	res := &Result{}
	if err := seed(ctx, deps, res); err != nil {
		return nil, fmt.Errorf("failed to seed sample data: %w", err)
	}
	return res, nil
}

func samplePatient() *model.Patient {
	return &model.Patient{
		Name:         "Rahul",
		Surname:      "Sharma",
		FatherName:   "Rajesh",
		Gender:       "Male",
		Age:          28,
		Address:      "45 Park Avenue, Mumbai",
		BloodGroup:   "O+",
		PhoneNumber:  "9876123450",
		AadharNumber: "987601234500",
	}
}

func sampleNurse() *model.Nurse {
	return &model.Nurse{
		NurseID:   "N1001",
		Name:      "Test Nurse",
		Email:     "nurse@example.com",
		Password:  "password",
		CreatedAt: time.Now(),
		Role:      "Nurse",
		Status:    model.NurseStatusActive,
	}
}

func seed(ctx context.Context, deps Deps, res *Result) error {
	p := samplePatient()
	exists, err := deps.Patients.ExistsByAadhar(ctx, p.AadharNumber)
	if err != nil {
		return err
	}
	if !exists {
		code, err := patient.NextDisplayCode(ctx, deps.Patients)
		if err != nil {
			return err
		}
		p.PatientID = code
		if err := deps.Patients.Create(ctx, p, repository.WithoutPhotoField); err != nil {
			return fmt.Errorf("sample patient: %w", err)
		}
		res.SeededPatients = append(res.SeededPatients, p.PatientID)
		deps.Logger.Info("seeded sample patient", "patient_id", p.PatientID)
	}

	n := sampleNurse()
	exists, err = deps.Nurses.ExistsByID(ctx, n.NurseID)
	if err != nil {
		return err
	}
	if !exists {
		if err := deps.Nurses.Create(ctx, n); err != nil {
			return fmt.Errorf("sample nurse: %w", err)
		}
		res.SeededNurses = append(res.SeededNurses, n.NurseID)
		deps.Logger.Info("seeded sample nurse", "nurse_id", n.NurseID)
	}

	return nil
}
