// Package memory keeps every record in process memory. It mirrors the
// behavior of the Postgres schema, including the values its triggers assign,
// so the API can run without a database.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/model"
)

type Store struct {
	mu sync.RWMutex

	patients map[string]*model.Patient
	visits   map[int64]*model.Visit
	labTests map[int64]*model.LabTest
	nurses   map[string]*model.Nurse

	nextVisitID   int64
	nextLabTestID int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		patients: make(map[string]*model.Patient),
		visits:   make(map[int64]*model.Visit),
		labTests: make(map[int64]*model.LabTest),
		nurses:   make(map[string]*model.Nurse),
		now:      time.Now,
	}
}

// onPatientInsert mirrors trg_patients_reg_no.
func (s *Store) onPatientInsert(p *model.Patient) {
	if p.RegNo == nil {
		reg := "REG-" + p.PatientID
		p.RegNo = &reg
	}
}

// onVisitInsert mirrors trg_visits_numbers and trg_visits_count.
func (s *Store) onVisitInsert(v *model.Visit) {
	op := fmt.Sprintf("OP-%06d", v.VisitID)
	v.OpNo = &op

	if p, ok := s.patients[v.PatientID]; ok {
		if p.RegNo != nil {
			reg := *p.RegNo
			v.RegNo = &reg
		}
		p.TotalVisits++
		latest := op
		p.OpNo = &latest
	}
}

// onLabTestUpdate mirrors trg_labtests_result.
func (s *Store) onLabTestUpdate(old, updated *model.LabTest) {
	if old.Result != updated.Result {
		ts := s.now()
		updated.ResultUpdatedAt = &ts
	} else {
		updated.ResultUpdatedAt = old.ResultUpdatedAt
	}
}

func clonePatient(p *model.Patient) *model.Patient {
	c := *p
	return &c
}

func cloneVisit(v *model.Visit) *model.Visit {
	c := *v
	return &c
}

func cloneLabTest(t *model.LabTest) *model.LabTest {
	c := *t
	return &c
}

func cloneNurse(n *model.Nurse) *model.Nurse {
	c := *n
	return &c
}
