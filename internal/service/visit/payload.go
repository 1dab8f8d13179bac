package visit

import (
	"fmt"
	"strings"
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/pkg/payload"
)

var (
	keyVisitDate    = payload.Keys{"visitDate", "visit_date"}
	keyPatientID    = payload.Keys{"patientId", "patient_id"}
	keyBP           = payload.Keys{"bp"}
	keyComplaint    = payload.Keys{"complaint"}
	keySymptoms     = payload.Keys{"symptoms", "current_condition", "currentCondition"}
	keyStatus       = payload.Keys{"status"}
	keyTemperature  = payload.Keys{"temperature"}
	keyWeight       = payload.Keys{"weight"}
	keyPrescription = payload.Keys{"prescription"}
)

var visitDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FromPayload builds a visit from a loosely keyed JSON object. Fields that
// are absent stay at their zero value.
func FromPayload(f payload.Fields) (*model.Visit, error) {
	v := &model.Visit{}

	if raw, ok := f.String(keyVisitDate); ok && strings.TrimSpace(raw) != "" {
		ts, err := parseVisitDate(raw)
		if err != nil {
			return nil, err
		}
		v.VisitDate = ts
	}

	v.PatientID, _ = f.String(keyPatientID)
	v.BP, _ = f.String(keyBP)
	v.Complaint, _ = f.String(keyComplaint)
	v.Symptoms, _ = f.String(keySymptoms)
	v.Status, _ = f.String(keyStatus)
	v.Temperature, _ = f.String(keyTemperature)
	v.Weight, _ = f.String(keyWeight)
	v.Prescription, _ = f.String(keyPrescription)

	return v, nil
}

func parseVisitDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range visitDateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid visit date %q", raw)
}
