package model

import "github.com/google/uuid"

// Professional has no stored back-reference to patients; the assigned set is
// derived by querying patients whose professional_responsible_id matches.
type Professional struct {
	Base
	Name           string `json:"name" db:"name"`
	CPF            string `json:"cpf" db:"cpf"`
	Phone          string `json:"phone,omitempty" db:"phone"`
	SecondaryPhone string `json:"secondary_phone,omitempty" db:"secondary_phone"`
	Email          string `json:"email,omitempty" db:"email"`
	Active         bool   `json:"active" db:"active"`
	Observations   string `json:"observations,omitempty" db:"observations"`
}

// ProfessionalDetail carries the derived patient assignments.
type ProfessionalDetail struct {
	Professional
	PatientIDs    []uuid.UUID `json:"patient_ids"`
	PatientsCount int         `json:"patients_count"`
}

type CreateProfessionalRequest struct {
	Name           string `json:"name" binding:"required"`
	CPF            string `json:"cpf" binding:"required,cpf"`
	Phone          string `json:"phone"`
	SecondaryPhone string `json:"secondary_phone"`
	Email          string `json:"email" binding:"omitempty,email"`
	Active         *bool  `json:"active"`
	Observations   string `json:"observations"`
}

type UpdateProfessionalRequest = CreateProfessionalRequest
