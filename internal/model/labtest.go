package model

import "time"

const (
	LabTestStatusPending   = "Pending"
	LabTestStatusCompleted = "Completed"
)

type LabTest struct {
	TestID          int64      `gorm:"column:test_id;primaryKey;autoIncrement" json:"testId"`
	TestName        string     `gorm:"column:test_name" json:"testName"`
	Result          string     `gorm:"column:result" json:"result"`
	ReferenceRange  string     `gorm:"column:reference_range" json:"referenceRange"`
	Status          string     `gorm:"column:status" json:"status"`
	VisitID         *int64     `gorm:"column:visit_id" json:"visitId"`
	PatientID       string     `gorm:"column:patient_id;not null" json:"patientId"`
	TestGivenAt     time.Time  `gorm:"column:test_given_at" json:"testGivenAt"`
	ResultUpdatedAt *time.Time `gorm:"column:result_updated_at;->" json:"resultUpdatedAt"`
}

func (LabTest) TableName() string {
	return "labtests"
}

type CreateLabTestRequest struct {
	TestName       string `json:"testName" binding:"required,max=100"`
	Result         string `json:"result"`
	ReferenceRange string `json:"referenceRange"`
	Status         string `json:"status"`
}

type UpdateLabTestRequest struct {
	TestName       string `json:"testName" binding:"required,max=100"`
	Result         string `json:"result"`
	ReferenceRange string `json:"referenceRange"`
	Status         string `json:"status"`
}

// RecordResultRequest records a result. A nil or empty Status means Completed.
type RecordResultRequest struct {
	Result string  `json:"result" binding:"required"`
	Status *string `json:"status"`
}
