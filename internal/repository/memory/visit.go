package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type visitRepository struct {
	store *Store
}

func NewVisitRepository(store *Store) repository.VisitRepository {
	return &visitRepository{store: store}
}

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patients[visit.PatientID]; !ok {
		return fmt.Errorf("visit references unknown patient %s", visit.PatientID)
	}

	s.nextVisitID++
	stored := cloneVisit(visit)
	stored.VisitID = s.nextVisitID
	stored.OpNo = nil
	stored.RegNo = nil
	s.onVisitInsert(stored)
	s.visits[stored.VisitID] = stored

	*visit = *cloneVisit(stored)
	return nil
}

func (r *visitRepository) GetByID(ctx context.Context, visitID int64) (*model.Visit, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.visits[visitID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneVisit(v), nil
}

func (r *visitRepository) List(ctx context.Context) ([]*model.Visit, error) {
	return r.filter(func(*model.Visit) bool { return true }), nil
}

func (r *visitRepository) ListByPatient(ctx context.Context, patientID string) ([]*model.Visit, error) {
	return r.filter(func(v *model.Visit) bool { return v.PatientID == patientID }), nil
}

func (r *visitRepository) ListRecentByPatient(ctx context.Context, patientID string) ([]*model.Visit, error) {
	visits := r.filter(func(v *model.Visit) bool { return v.PatientID == patientID })
	sort.SliceStable(visits, func(i, j int) bool {
		if visits[i].VisitDate.Equal(visits[j].VisitDate) {
			return visits[i].VisitID > visits[j].VisitID
		}
		return visits[i].VisitDate.After(visits[j].VisitDate)
	})
	return visits, nil
}

func (r *visitRepository) filter(keep func(*model.Visit) bool) []*model.Visit {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	visits := make([]*model.Visit, 0)
	for _, v := range s.visits {
		if keep(v) {
			visits = append(visits, cloneVisit(v))
		}
	}
	sort.Slice(visits, func(i, j int) bool {
		return visits[i].VisitID < visits[j].VisitID
	})
	return visits
}

func (r *visitRepository) Update(ctx context.Context, visit *model.Visit) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.visits[visit.VisitID]
	if !ok {
		return repository.ErrNotFound
	}

	v.VisitDate = visit.VisitDate
	v.BP = visit.BP
	v.Complaint = visit.Complaint
	v.Symptoms = visit.Symptoms
	v.Status = visit.Status
	v.Temperature = visit.Temperature
	v.Weight = visit.Weight
	v.Prescription = visit.Prescription
	return nil
}

// Delete detaches lab tests that referenced the visit.
func (r *visitRepository) Delete(ctx context.Context, visitID int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.visits[visitID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.visits, visitID)

	for _, t := range s.labTests {
		if t.VisitID != nil && *t.VisitID == visitID {
			t.VisitID = nil
		}
	}
	return nil
}

func (r *visitRepository) ExistsByID(ctx context.Context, visitID int64) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.visits[visitID]
	return ok, nil
}
