package memory

import (
	"context"
	"sort"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type nurseRepository struct {
	store *Store
}

func NewNurseRepository(store *Store) repository.NurseRepository {
	return &nurseRepository{store: store}
}

func (r *nurseRepository) Create(ctx context.Context, nurse *model.Nurse) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nurses[nurse.NurseID]; ok {
		return repository.ErrDuplicate
	}
	if s.emailTaken(nurse.Email, nurse.NurseID) {
		return repository.ErrDuplicate
	}
	s.nurses[nurse.NurseID] = cloneNurse(nurse)
	return nil
}

func (r *nurseRepository) GetByID(ctx context.Context, nurseID string) (*model.Nurse, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nurses[nurseID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneNurse(n), nil
}

func (r *nurseRepository) List(ctx context.Context) ([]*model.Nurse, error) {
	return r.filter(func(*model.Nurse) bool { return true }), nil
}

func (r *nurseRepository) ListActive(ctx context.Context) ([]*model.Nurse, error) {
	return r.filter(func(n *model.Nurse) bool { return n.IsActive() }), nil
}

func (r *nurseRepository) filter(keep func(*model.Nurse) bool) []*model.Nurse {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	nurses := make([]*model.Nurse, 0)
	for _, n := range s.nurses {
		if keep(n) {
			nurses = append(nurses, cloneNurse(n))
		}
	}
	sort.Slice(nurses, func(i, j int) bool {
		return nurses[i].NurseID < nurses[j].NurseID
	})
	return nurses
}

func (r *nurseRepository) Update(ctx context.Context, nurse *model.Nurse) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nurses[nurse.NurseID]
	if !ok {
		return repository.ErrNotFound
	}
	if s.emailTaken(nurse.Email, nurse.NurseID) {
		return repository.ErrDuplicate
	}

	n.Name = nurse.Name
	n.Email = nurse.Email
	n.Password = nurse.Password
	n.Role = nurse.Role
	n.Status = nurse.Status
	return nil
}

func (r *nurseRepository) UpdateStatus(ctx context.Context, nurseID, status string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nurses[nurseID]
	if !ok {
		return repository.ErrNotFound
	}
	n.Status = status
	return nil
}

func (r *nurseRepository) Delete(ctx context.Context, nurseID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nurses[nurseID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.nurses, nurseID)
	return nil
}

func (r *nurseRepository) ExistsByID(ctx context.Context, nurseID string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nurses[nurseID]
	return ok, nil
}

func (r *nurseRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emailTaken(email, excludeID), nil
}

// emailTaken expects s.mu to be held.
func (s *Store) emailTaken(email, excludeID string) bool {
	if email == "" {
		return false
	}
	for id, n := range s.nurses {
		if id != excludeID && n.Email == email {
			return true
		}
	}
	return false
}
