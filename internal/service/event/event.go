package event

import (
	"context"
	"time"
)

type Type string

const (
	PatientRegistered     Type = "patient.registered"
	PatientUpdated        Type = "patient.updated"
	PatientDeleted        Type = "patient.deleted"
	VisitCreated          Type = "visit.created"
	LabTestCreated        Type = "labtest.created"
	LabTestResultRecorded Type = "labtest.result_recorded"
	NurseCreated          Type = "nurse.created"
	NurseStatusChanged    Type = "nurse.status_changed"
)

// Envelope is what goes over the wire.
type Envelope struct {
	ID         string      `json:"id"`
	Type       Type        `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher emits domain events. Publishing never fails the caller.
type Publisher interface {
	Publish(ctx context.Context, eventType Type, payload interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Type, interface{}) {}

// Nop returns a Publisher that drops every event.
func Nop() Publisher {
	return nopPublisher{}
}
