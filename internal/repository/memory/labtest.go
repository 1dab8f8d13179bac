package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type labTestRepository struct {
	store *Store
}

func NewLabTestRepository(store *Store) repository.LabTestRepository {
	return &labTestRepository{store: store}
}

func (r *labTestRepository) Create(ctx context.Context, test *model.LabTest) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patients[test.PatientID]; !ok {
		return fmt.Errorf("lab test references unknown patient %s", test.PatientID)
	}
	if test.VisitID != nil {
		if _, ok := s.visits[*test.VisitID]; !ok {
			return fmt.Errorf("lab test references unknown visit %d", *test.VisitID)
		}
	}

	s.nextLabTestID++
	stored := cloneLabTest(test)
	stored.TestID = s.nextLabTestID
	stored.ResultUpdatedAt = nil
	s.labTests[stored.TestID] = stored

	*test = *cloneLabTest(stored)
	return nil
}

func (r *labTestRepository) GetByID(ctx context.Context, testID int64) (*model.LabTest, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.labTests[testID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneLabTest(t), nil
}

func (r *labTestRepository) List(ctx context.Context) ([]*model.LabTest, error) {
	return r.filter(func(*model.LabTest) bool { return true }), nil
}

func (r *labTestRepository) ListByPatient(ctx context.Context, patientID string) ([]*model.LabTest, error) {
	return r.filter(func(t *model.LabTest) bool { return t.PatientID == patientID }), nil
}

func (r *labTestRepository) ListByVisit(ctx context.Context, visitID int64) ([]*model.LabTest, error) {
	return r.filter(func(t *model.LabTest) bool { return t.VisitID != nil && *t.VisitID == visitID }), nil
}

func (r *labTestRepository) ListByStatus(ctx context.Context, status string) ([]*model.LabTest, error) {
	return r.filter(func(t *model.LabTest) bool { return t.Status == status }), nil
}

func (r *labTestRepository) filter(keep func(*model.LabTest) bool) []*model.LabTest {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	tests := make([]*model.LabTest, 0)
	for _, t := range s.labTests {
		if keep(t) {
			tests = append(tests, cloneLabTest(t))
		}
	}
	sort.Slice(tests, func(i, j int) bool {
		return tests[i].TestID < tests[j].TestID
	})
	return tests
}

func (r *labTestRepository) Update(ctx context.Context, test *model.LabTest) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.labTests[test.TestID]
	if !ok {
		return repository.ErrNotFound
	}

	updated := cloneLabTest(old)
	updated.TestName = test.TestName
	updated.Result = test.Result
	updated.ReferenceRange = test.ReferenceRange
	updated.Status = test.Status
	s.onLabTestUpdate(old, updated)
	s.labTests[test.TestID] = updated

	*test = *cloneLabTest(updated)
	return nil
}

func (r *labTestRepository) Delete(ctx context.Context, testID int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.labTests[testID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.labTests, testID)
	return nil
}
