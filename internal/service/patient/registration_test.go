package patient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	"github.com/jwalitptl/frontdesk-api/internal/repository/memory"
	"github.com/jwalitptl/frontdesk-api/internal/service/event"
	"github.com/jwalitptl/frontdesk-api/internal/service/visit"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
	"github.com/jwalitptl/frontdesk-api/pkg/payload"
)

type fixture struct {
	store    *memory.Store
	patients repository.PatientRepository
	visits   repository.VisitRepository
	metrics  *metrics.Metrics
	svc      *Service
}

func newFixture(t *testing.T, photoWritable bool) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:    store,
		patients: memory.NewPatientRepository(store),
		visits:   memory.NewVisitRepository(store),
		metrics:  metrics.New(prometheus.NewRegistry(), "test"),
	}
	visitSvc := visit.NewService(f.visits, f.patients, event.Nop(), logger.Nop())
	f.svc = NewService(f.patients, visitSvc, event.Nop(), f.metrics, logger.Nop(), Options{PhotoColumnWritable: photoWritable})
	return f
}

func body(t *testing.T, raw string) payload.Fields {
	t.Helper()
	var f payload.Fields
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	return f
}

func TestRegisterAssignsSequentialCodes(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	for i, want := range []string{"001", "002", "003"} {
		b := payload.Fields{"name": "Asha", "surname": "Rao", "aadharNumber": fmt.Sprintf("10%d", i)}
		res, err := f.svc.RegisterPatient(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, want, res.Patient.PatientID)
		assert.Equal(t, VisitSkipped, res.Visit.Status)
	}

	p, err := f.svc.GetPatient(ctx, "002")
	require.NoError(t, err)
	assert.Equal(t, "101", p.AadharNumber)

	byAadhar, err := f.svc.GetPatientByAadhar(ctx, "102")
	require.NoError(t, err)
	assert.Equal(t, "003", byAadhar.PatientID)

	assert.Equal(t, float64(3), testutil.ToFloat64(f.metrics.PatientsRegistered))
}

func TestRegisterDropsOutOfRangeAge(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.svc.RegisterPatient(context.Background(), body(t, `{"name":"A","surname":"B","aadharNumber":"1","age":3e9}`))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Patient.Age)

	res, err = f.svc.RegisterPatient(context.Background(), body(t, `{"name":"C","surname":"D","aadharNumber":"2","age":"34"}`))
	require.NoError(t, err)
	assert.Equal(t, 34, res.Patient.Age)
}

func TestRegisterSkipsOccupiedCode(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.RegisterPatient(ctx, body(t, `{"name":"A","surname":"B","aadharNumber":"1","patientId":"002"}`))
	require.NoError(t, err)

	res, err := f.svc.RegisterPatient(ctx, body(t, `{"name":"C","surname":"D","aadharNumber":"2"}`))
	require.NoError(t, err)
	assert.Equal(t, "003", res.Patient.PatientID)
}

func TestRegisterExplicitCodeTaken(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.RegisterPatient(ctx, body(t, `{"name":"A","surname":"B","aadharNumber":"1","patient_id":"P-9"}`))
	require.NoError(t, err)

	_, err = f.svc.RegisterPatient(ctx, body(t, `{"name":"C","surname":"D","aadharNumber":"2","patientId":"P-9"}`))
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		code    apperrors.ErrorCode
		message string
	}{
		{"missing name", `{"surname":"Rao","aadharNumber":"1"}`, apperrors.ErrBadRequest, "Name and surname are required"},
		{"blank surname", `{"name":"Asha","surname":"   ","aadharNumber":"1"}`, apperrors.ErrBadRequest, "Name and surname are required"},
		{"missing aadhar", `{"name":"Asha","surname":"Rao"}`, apperrors.ErrBadRequest, "Aadhar number is required"},
		{"empty aadhar", `{"name":"Asha","surname":"Rao","aadhar_number":""}`, apperrors.ErrBadRequest, "Aadhar number is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			_, err := f.svc.RegisterPatient(context.Background(), body(t, tt.body))
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)

			n, err := f.patients.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestRegisterDuplicateAadhar(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.RegisterPatient(ctx, body(t, `{"name":"A","surname":"B","aadharNumber":"555"}`))
	require.NoError(t, err)

	_, err = f.svc.RegisterPatient(ctx, body(t, `{"name":"C","surname":"D","aadhar_number":"555"}`))
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Equal(t, "Patient with this Aadhar number already exists", appErr.Message)

	n, err := f.patients.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRegisterNormalizesAliases(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.svc.RegisterPatient(context.Background(), body(t, `{
		"patient": {
			"name": " Asha ",
			"surname": "Rao",
			"father_name": "Ravi",
			"blood_group": "B+",
			"phone_number": "111",
			"phone": "222",
			"aadhar_number": "999",
			"age": "34"
		}
	}`))
	require.NoError(t, err)

	p := res.Patient
	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, "Ravi", p.FatherName)
	assert.Equal(t, "B+", p.BloodGroup)
	assert.Equal(t, "111", p.PhoneNumber)
	assert.Equal(t, "999", p.AadharNumber)
	assert.Equal(t, 34, p.Age)
	require.NotNil(t, p.RegNo)
	assert.Equal(t, "REG-001", *p.RegNo)
}

func TestRegisterUnparseableAgeIsZero(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.svc.RegisterPatient(context.Background(), body(t, `{"name":"A","surname":"B","aadharNumber":"1","age":"thirty"}`))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Patient.Age)
}

func TestRegisterWithVisit(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	res, err := f.svc.RegisterPatient(ctx, body(t, `{
		"patient": {"name":"Asha","surname":"Rao","aadharNumber":"1"},
		"visit": {"bp":"120/80","symptoms":"fever","current_condition":"cough","patientId":"999"}
	}`))
	require.NoError(t, err)

	require.Equal(t, VisitCreated, res.Visit.Status)
	require.NotNil(t, res.Visit.Visit)
	v := res.Visit.Visit
	assert.Equal(t, "001", v.PatientID)
	assert.Equal(t, "fever", v.Symptoms)
	assert.Equal(t, model.VisitStatusActive, v.Status)
	assert.False(t, v.VisitDate.IsZero())
	require.NotNil(t, v.OpNo)

	p, err := f.svc.GetPatient(ctx, "001")
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalVisits)
}

func TestRegisterVisitAliasFallback(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.svc.RegisterPatient(context.Background(), body(t, `{
		"name":"Asha","surname":"Rao","aadharNumber":"1",
		"visit": {"currentCondition":"cough"}
	}`))
	require.NoError(t, err)
	require.Equal(t, VisitCreated, res.Visit.Status)
	assert.Equal(t, "cough", res.Visit.Visit.Symptoms)
}

type failingVisits struct{}

func (failingVisits) CreateVisit(ctx context.Context, patientID string, v *model.Visit) (*model.Visit, error) {
	return nil, errors.New("insert rejected")
}

func TestRegisterKeepsPatientWhenVisitFails(t *testing.T) {
	f := newFixture(t, true)
	f.svc.visits = failingVisits{}
	ctx := context.Background()

	res, err := f.svc.RegisterPatient(ctx, body(t, `{"name":"A","surname":"B","aadharNumber":"1","visit":{"bp":"1"}}`))
	require.NoError(t, err)
	assert.Equal(t, VisitFailed, res.Visit.Status)
	assert.Nil(t, res.Visit.Visit)
	assert.Equal(t, "insert rejected", res.Visit.ErrorMessage())

	_, err = f.svc.GetPatient(ctx, res.Patient.PatientID)
	assert.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.VisitAttachFailures.WithLabelValues("store")))
}

func TestRegisterVisitNotAnObject(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.svc.RegisterPatient(context.Background(), body(t, `{"name":"A","surname":"B","aadharNumber":"1","visit":"tomorrow"}`))
	require.NoError(t, err)
	assert.Equal(t, VisitFailed, res.Visit.Status)
	assert.Error(t, res.Visit.Err)
}

func TestRegisterBadVisitDate(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.svc.RegisterPatient(context.Background(), body(t, `{"name":"A","surname":"B","aadharNumber":"1","visit":{"visitDate":"someday"}}`))
	require.NoError(t, err)
	assert.Equal(t, VisitFailed, res.Visit.Status)
}

// flakyPatients fails every write made with the listed strategies.
type flakyPatients struct {
	repository.PatientRepository
	failOn map[repository.WriteStrategy]error
	tried  []repository.WriteStrategy
}

func (r *flakyPatients) Create(ctx context.Context, p *model.Patient, strategy repository.WriteStrategy) error {
	r.tried = append(r.tried, strategy)
	if err, ok := r.failOn[strategy]; ok {
		return err
	}
	return r.PatientRepository.Create(ctx, p, strategy)
}

func TestRegisterFallsBackToPhotoField(t *testing.T) {
	f := newFixture(t, true)
	repo := &flakyPatients{
		PatientRepository: f.patients,
		failOn:            map[repository.WriteStrategy]error{repository.WithoutPhotoField: errors.New("column mismatch")},
	}
	f.svc.repo = repo

	res, err := f.svc.RegisterPatient(context.Background(), body(t, `{"name":"A","surname":"B","aadharNumber":"1"}`))
	require.NoError(t, err)
	assert.Equal(t, "001", res.Patient.PatientID)
	assert.Equal(t, []repository.WriteStrategy{repository.WithoutPhotoField, repository.WithPhotoField}, repo.tried)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.PatientWriteFallback))
}

func TestRegisterBothStrategiesFail(t *testing.T) {
	f := newFixture(t, true)
	f.svc.repo = &flakyPatients{
		PatientRepository: f.patients,
		failOn: map[repository.WriteStrategy]error{
			repository.WithoutPhotoField: errors.New("column mismatch"),
			repository.WithPhotoField:    errors.New("connection reset"),
		},
	}

	_, err := f.svc.RegisterPatient(context.Background(), body(t, `{"name":"A","surname":"B","aadharNumber":"1"}`))
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrInternal, appErr.Code)
	assert.Equal(t, "Server error: connection reset", appErr.Message)
}

// reloadFailingPatients stores the row and then reports that it could not
// be read back.
type reloadFailingPatients struct {
	repository.PatientRepository
	tried []repository.WriteStrategy
}

func (r *reloadFailingPatients) Create(ctx context.Context, p *model.Patient, strategy repository.WriteStrategy) error {
	r.tried = append(r.tried, strategy)
	if err := r.PatientRepository.Create(ctx, p, strategy); err != nil {
		return err
	}
	return fmt.Errorf("patient %s: %w: %w", p.PatientID, repository.ErrReloadFailed, errors.New("connection reset"))
}

func TestRegisterKeepsPatientWhenReloadFails(t *testing.T) {
	f := newFixture(t, true)
	repo := &reloadFailingPatients{PatientRepository: f.patients}
	f.svc.repo = repo

	res, err := f.svc.RegisterPatient(context.Background(), body(t, `{"name":"A","surname":"B","aadharNumber":"1","visit":{"bp":"120/80"}}`))
	require.NoError(t, err)
	assert.Equal(t, "001", res.Patient.PatientID)
	assert.Equal(t, VisitCreated, res.Visit.Status)
	assert.Equal(t, []repository.WriteStrategy{repository.WithoutPhotoField}, repo.tried)
	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.PatientWriteFallback))

	exists, err := f.patients.ExistsByID(context.Background(), "001")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRegisterDuplicateIsNotRetried(t *testing.T) {
	f := newFixture(t, true)
	repo := &flakyPatients{
		PatientRepository: f.patients,
		failOn:            map[repository.WriteStrategy]error{repository.WithoutPhotoField: repository.ErrDuplicate},
	}
	f.svc.repo = repo

	_, err := f.svc.RegisterPatient(context.Background(), body(t, `{"name":"A","surname":"B","aadharNumber":"1"}`))
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.Len(t, repo.tried, 1)
}

func TestRegisterPhotoWritePlan(t *testing.T) {
	t.Run("writable with photo", func(t *testing.T) {
		f := newFixture(t, true)
		repo := &flakyPatients{PatientRepository: f.patients}
		f.svc.repo = repo

		res, err := f.svc.RegisterPatient(context.Background(), body(t, `{"name":"A","surname":"B","aadharNumber":"1","photo":"data"}`))
		require.NoError(t, err)
		assert.Equal(t, []repository.WriteStrategy{repository.WithPhotoField}, repo.tried)
		require.NotNil(t, res.Patient.Photo)
		assert.Equal(t, "data", *res.Patient.Photo)
	})

	t.Run("not writable", func(t *testing.T) {
		f := newFixture(t, false)
		repo := &flakyPatients{PatientRepository: f.patients}
		f.svc.repo = repo

		res, err := f.svc.RegisterPatient(context.Background(), body(t, `{"name":"A","surname":"B","aadharNumber":"1","photo":"data"}`))
		require.NoError(t, err)
		assert.Equal(t, []repository.WriteStrategy{repository.WithoutPhotoField}, repo.tried)
		assert.Nil(t, res.Patient.Photo)
	})
}

func TestConcurrentRegistrationsGetDistinctCodes(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	const n = 25
	codes := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := payload.Fields{"name": "P", "surname": "Q", "aadharNumber": fmt.Sprintf("A-%02d", i)}
			res, err := f.svc.RegisterPatient(ctx, b)
			if assert.NoError(t, err) {
				codes[i] = res.Patient.PatientID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, n)
	assert.True(t, seen["001"])
	assert.True(t, seen["025"])
}
