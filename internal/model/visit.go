package model

import "time"

const VisitStatusActive = "Active"

// Visit is one encounter of a patient at the clinic. OpNo and RegNo are
// filled in by the store when the row is inserted.
type Visit struct {
	VisitID      int64     `gorm:"column:visit_id;primaryKey;autoIncrement" json:"visitId"`
	VisitDate    time.Time `gorm:"column:visit_date" json:"visitDate"`
	BP           string    `gorm:"column:bp" json:"bp"`
	Complaint    string    `gorm:"column:complaint" json:"complaint"`
	Symptoms     string    `gorm:"column:symptoms" json:"symptoms"`
	OpNo         *string   `gorm:"column:op_no;->" json:"opNo"`
	RegNo        *string   `gorm:"column:reg_no;->" json:"regNo"`
	Status       string    `gorm:"column:status" json:"status"`
	Temperature  string    `gorm:"column:temperature" json:"temperature"`
	Weight       string    `gorm:"column:weight" json:"weight"`
	Prescription string    `gorm:"column:prescription" json:"prescription"`
	PatientID    string    `gorm:"column:patient_id;not null" json:"patientId"`
}

func (Visit) TableName() string {
	return "visits"
}

type PrescriptionRequest struct {
	Prescription string `json:"prescription" binding:"required"`
}
