package model

// Patient is a registered clinic patient. PatientID is the zero-padded display
// code shown at the front desk; RegNo and OpNo are assigned by the store.
type Patient struct {
	PatientID    string  `gorm:"column:patient_id;primaryKey" json:"patientId"`
	Name         string  `gorm:"column:name;not null" json:"name"`
	Surname      string  `gorm:"column:surname;not null" json:"surname"`
	FatherName   string  `gorm:"column:father_name" json:"fatherName"`
	Gender       string  `gorm:"column:gender" json:"gender"`
	Age          int     `gorm:"column:age" json:"age"`
	Address      string  `gorm:"column:address" json:"address"`
	BloodGroup   string  `gorm:"column:blood_group" json:"bloodGroup"`
	PhoneNumber  string  `gorm:"column:phone_number" json:"phoneNumber"`
	AadharNumber string  `gorm:"column:aadhar_number;uniqueIndex;not null" json:"aadharNumber"`
	Photo        *string `gorm:"column:photo" json:"photo"`
	TotalVisits  int     `gorm:"column:total_visits;->" json:"totalVisits"`
	OpNo         *string `gorm:"column:op_no;->" json:"opNo"`
	RegNo        *string `gorm:"column:reg_no;->" json:"regNo"`
}

func (Patient) TableName() string {
	return "patients"
}

// UpdatePatientRequest is a partial update: nil fields are left untouched.
// The Aadhar number cannot be changed after registration.
type UpdatePatientRequest struct {
	Name        *string `json:"name"`
	Surname     *string `json:"surname"`
	FatherName  *string `json:"fatherName"`
	Gender      *string `json:"gender"`
	Age         *int    `json:"age"`
	Address     *string `json:"address"`
	BloodGroup  *string `json:"bloodGroup"`
	PhoneNumber *string `json:"phoneNumber"`
	Photo       *string `json:"photo"`
}
