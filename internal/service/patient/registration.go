package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	"github.com/jwalitptl/frontdesk-api/internal/service/event"
	"github.com/jwalitptl/frontdesk-api/internal/service/visit"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/payload"
)

var (
	keyPatientID  = payload.Keys{"patientId", "patient_id"}
	keyName       = payload.Keys{"name"}
	keySurname    = payload.Keys{"surname"}
	keyFatherName = payload.Keys{"fatherName", "father_name"}
	keyGender     = payload.Keys{"gender"}
	keyAge        = payload.Keys{"age"}
	keyAddress    = payload.Keys{"address"}
	keyBloodGroup = payload.Keys{"bloodGroup", "blood_group"}
	keyPhone      = payload.Keys{"phoneNumber", "phone_number", "phone"}
	keyAadhar     = payload.Keys{"aadharNumber", "aadhar_number"}
	keyPhoto      = payload.Keys{"photo"}
)

type VisitStatus string

const (
	VisitSkipped VisitStatus = "skipped"
	VisitCreated VisitStatus = "created"
	VisitFailed  VisitStatus = "failed"
)

// VisitOutcome is the result of the optional second step of a registration.
type VisitOutcome struct {
	Status VisitStatus
	Visit  *model.Visit
	Err    error
}

// ErrorMessage is the client-facing text of a failed visit attachment.
func (o VisitOutcome) ErrorMessage() string {
	if o.Err == nil {
		return ""
	}
	if appErr, ok := apperrors.As(o.Err); ok {
		return appErr.Message
	}
	return o.Err.Error()
}

// RegistrationResult reports both steps of a registration. The patient is
// always set; the visit step commits independently and may have failed.
type RegistrationResult struct {
	Patient *model.Patient
	Visit   VisitOutcome
}

// RegisterPatient creates a patient from a loosely keyed payload and, when
// the payload carries a "visit" object, attaches a first visit. A failed
// visit does not undo the patient.
func (s *Service) RegisterPatient(ctx context.Context, body payload.Fields) (*RegistrationResult, error) {
	fields := body
	if nested, present, valid := body.Object("patient"); present && valid {
		fields = nested
	}

	patient, explicitCode := patientFromPayload(fields)
	if patient.Name == "" || patient.Surname == "" {
		return nil, apperrors.BadRequest("Name and surname are required", nil)
	}
	if patient.AadharNumber == "" {
		return nil, apperrors.BadRequest("Aadhar number is required", nil)
	}

	taken, err := s.repo.ExistsByAadhar(ctx, patient.AadharNumber)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if taken {
		return nil, apperrors.Conflict("Patient with this Aadhar number already exists", nil)
	}

	if err := s.insert(ctx, patient, explicitCode); err != nil {
		return nil, err
	}

	s.metrics.PatientRegistered()
	s.events.Publish(ctx, event.PatientRegistered, patient)
	s.logger.Info("patient registered", "patient_id", patient.PatientID)

	return &RegistrationResult{
		Patient: patient,
		Visit:   s.attachVisit(ctx, patient.PatientID, body),
	}, nil
}

// insert assigns the display code and writes the patient while holding
// codeMu, so two registrations never compute the same code.
func (s *Service) insert(ctx context.Context, patient *model.Patient, explicitCode string) error {
	s.codeMu.Lock()
	defer s.codeMu.Unlock()

	if explicitCode != "" {
		exists, err := s.repo.ExistsByID(ctx, explicitCode)
		if err != nil {
			return apperrors.Internal(err)
		}
		if exists {
			return apperrors.Conflict("Patient with ID "+explicitCode+" already exists", nil)
		}
		patient.PatientID = explicitCode
	} else {
		code, err := NextDisplayCode(ctx, s.repo)
		if err != nil {
			return apperrors.Internal(err)
		}
		patient.PatientID = code
	}

	err := s.write(ctx, patient, s.writePlan(patient), s.repo.Create)
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.Conflict("Patient already exists", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// NextDisplayCode starts at count+1 and skips codes left occupied by
// explicitly coded patients or by deletions. Callers must serialize it with
// the insert that uses the code.
func NextDisplayCode(ctx context.Context, repo repository.PatientRepository) (string, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to count patients: %w", err)
	}

	for n := count + 1; ; n++ {
		code := fmt.Sprintf("%03d", n)
		exists, err := repo.ExistsByID(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check patient code %s: %w", code, err)
		}
		if !exists {
			return code, nil
		}
	}
}

// writePlan lists the write strategies to try, in order.
func (s *Service) writePlan(patient *model.Patient) []repository.WriteStrategy {
	switch {
	case !s.photoWritable:
		if patient.Photo != nil {
			s.logger.Warn("photo column is not writable, dropping supplied photo", "patient_id", patient.PatientID)
			patient.Photo = nil
		}
		return []repository.WriteStrategy{repository.WithoutPhotoField}
	case patient.Photo == nil:
		return []repository.WriteStrategy{repository.WithoutPhotoField, repository.WithPhotoField}
	default:
		return []repository.WriteStrategy{repository.WithPhotoField}
	}
}

type writeFunc func(ctx context.Context, patient *model.Patient, strategy repository.WriteStrategy) error

// write runs the plan until one strategy succeeds. Duplicate keys stop the
// plan immediately, and a row that was stored but not reloaded counts as
// written.
func (s *Service) write(ctx context.Context, patient *model.Patient, plan []repository.WriteStrategy, fn writeFunc) error {
	var err error
	for i, strategy := range plan {
		if i > 0 {
			s.metrics.WriteFallback()
			s.logger.Warn("patient write failed, falling back",
				"patient_id", patient.PatientID,
				"strategy", strategy.String(),
				"cause", err.Error(),
			)
		}

		err = fn(ctx, patient, strategy)
		if errors.Is(err, repository.ErrReloadFailed) {
			s.logger.Warn("patient stored but could not be reloaded",
				"patient_id", patient.PatientID,
				"cause", err.Error(),
			)
			return nil
		}
		if err == nil || errors.Is(err, repository.ErrDuplicate) {
			return err
		}
	}
	return err
}

func (s *Service) attachVisit(ctx context.Context, patientID string, body payload.Fields) VisitOutcome {
	raw, present, valid := body.Object("visit")
	if !present {
		return VisitOutcome{Status: VisitSkipped}
	}
	if !valid {
		return s.visitFailed(patientID, "invalid_payload", errors.New("visit must be a JSON object"))
	}

	v, err := visit.FromPayload(raw)
	if err != nil {
		return s.visitFailed(patientID, "invalid_payload", err)
	}

	created, err := s.visits.CreateVisit(ctx, patientID, v)
	if err != nil {
		return s.visitFailed(patientID, "store", err)
	}
	return VisitOutcome{Status: VisitCreated, Visit: created}
}

func (s *Service) visitFailed(patientID, reason string, err error) VisitOutcome {
	s.metrics.VisitAttachFailed(reason)
	s.logger.Error(err, "failed to attach visit to new patient", "patient_id", patientID)
	return VisitOutcome{Status: VisitFailed, Err: err}
}

func patientFromPayload(f payload.Fields) (*model.Patient, string) {
	str := func(keys payload.Keys) string {
		v, _ := f.String(keys)
		return strings.TrimSpace(v)
	}

	p := &model.Patient{
		Name:         str(keyName),
		Surname:      str(keySurname),
		FatherName:   str(keyFatherName),
		Gender:       str(keyGender),
		Age:          f.Int(keyAge),
		Address:      str(keyAddress),
		BloodGroup:   str(keyBloodGroup),
		PhoneNumber:  str(keyPhone),
		AadharNumber: str(keyAadhar),
		Photo:        f.StringPtr(keyPhoto),
	}
	return p, str(keyPatientID)
}
