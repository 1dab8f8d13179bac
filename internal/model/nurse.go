package model

import (
	"strings"
	"time"
)

const NurseStatusActive = "Active"

// Nurse holds a plaintext credential, which is never serialized.
type Nurse struct {
	NurseID   string    `gorm:"column:nurse_id;primaryKey" json:"nurse_id"`
	Name      string    `gorm:"column:name" json:"name"`
	Email     string    `gorm:"column:email;uniqueIndex" json:"email"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	Role      string    `gorm:"column:role" json:"role"`
	Status    string    `gorm:"column:status" json:"status"`
}

func (Nurse) TableName() string {
	return "nurse"
}

// IsActive matches the Active status case-insensitively.
func (n *Nurse) IsActive() bool {
	return strings.EqualFold(n.Status, NurseStatusActive)
}

type NurseDTO struct {
	NurseID string `json:"nurse_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Status  string `json:"status"`
}

func (n *Nurse) ToDTO() NurseDTO {
	return NurseDTO{
		NurseID: n.NurseID,
		Name:    n.Name,
		Email:   n.Email,
		Role:    n.Role,
		Status:  n.Status,
	}
}

type CreateNurseRequest struct {
	NurseID  string `json:"nurse_id" binding:"required,max=50"`
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type UpdateNurseRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}
