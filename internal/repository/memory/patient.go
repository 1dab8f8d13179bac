package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type patientRepository struct {
	store *Store
}

func NewPatientRepository(store *Store) repository.PatientRepository {
	return &patientRepository{store: store}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient, strategy repository.WriteStrategy) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patients[patient.PatientID]; ok {
		return repository.ErrDuplicate
	}
	for _, p := range s.patients {
		if p.AadharNumber == patient.AadharNumber {
			return repository.ErrDuplicate
		}
	}

	stored := clonePatient(patient)
	if strategy == repository.WithoutPhotoField {
		stored.Photo = nil
	}
	stored.TotalVisits = 0
	stored.OpNo = nil
	stored.RegNo = nil
	s.onPatientInsert(stored)
	s.patients[stored.PatientID] = stored

	*patient = *clonePatient(stored)
	return nil
}

func (r *patientRepository) GetByID(ctx context.Context, patientID string) (*model.Patient, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.patients[patientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePatient(p), nil
}

func (r *patientRepository) GetByAadhar(ctx context.Context, aadhar string) (*model.Patient, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.patients {
		if p.AadharNumber == aadhar {
			return clonePatient(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	patients := make([]*model.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		patients = append(patients, clonePatient(p))
	}
	sort.Slice(patients, func(i, j int) bool {
		return patients[i].PatientID < patients[j].PatientID
	})
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient, strategy repository.WriteStrategy) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.patients[patient.PatientID]
	if !ok {
		return repository.ErrNotFound
	}

	p.Name = patient.Name
	p.Surname = patient.Surname
	p.FatherName = patient.FatherName
	p.Gender = patient.Gender
	p.Age = patient.Age
	p.Address = patient.Address
	p.BloodGroup = patient.BloodGroup
	p.PhoneNumber = patient.PhoneNumber
	if strategy == repository.WithPhotoField {
		p.Photo = patient.Photo
	}
	return nil
}

// Delete cascades to the patient's visits and lab tests.
func (r *patientRepository) Delete(ctx context.Context, patientID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patients[patientID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.patients, patientID)

	for id, v := range s.visits {
		if v.PatientID == patientID {
			delete(s.visits, id)
		}
	}
	for id, t := range s.labTests {
		if t.PatientID == patientID {
			delete(s.labTests, id)
		}
	}
	return nil
}

func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.patients)), nil
}

func (r *patientRepository) ExistsByID(ctx context.Context, patientID string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.patients[patientID]
	return ok, nil
}

func (r *patientRepository) ExistsByAadhar(ctx context.Context, aadhar string) (bool, error) {
	_, err := r.GetByAadhar(ctx, aadhar)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
