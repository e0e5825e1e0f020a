package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/huggodev/vntl-api/pkg/errors"
)

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "ACTIVE"
	PatientStatusInactive PatientStatus = "INACTIVE"
	PatientStatusArchived PatientStatus = "ARCHIVED"
)

func ParsePatientStatus(s string) (PatientStatus, error) {
	switch PatientStatus(strings.ToUpper(s)) {
	case PatientStatusActive:
		return PatientStatusActive, nil
	case PatientStatusInactive:
		return PatientStatusInactive, nil
	case PatientStatusArchived:
		return PatientStatusArchived, nil
	}
	return "", apperrors.NewInvalidEnum("status", s)
}

type ContractType string

const (
	ContractPrivate   ContractType = "PRIVATE"
	ContractInsurance ContractType = "INSURANCE"
	ContractPublic    ContractType = "PUBLIC"
)

func ParseContractType(s string) (ContractType, error) {
	switch ContractType(strings.ToUpper(s)) {
	case ContractPrivate:
		return ContractPrivate, nil
	case ContractInsurance:
		return ContractInsurance, nil
	case ContractPublic:
		return ContractPublic, nil
	}
	return "", apperrors.NewInvalidEnum("contract_type", s)
}

// Patient holds at most one device and at most one responsible professional at
// a time. The patient row is the source of truth for both links; device status
// is derived from it.
type Patient struct {
	Base
	Name                      string        `json:"name" db:"name"`
	CPF                       string        `json:"cpf" db:"cpf"`
	BirthDate                 *time.Time    `json:"birth_date,omitempty" db:"birth_date"`
	Phone                     string        `json:"phone,omitempty" db:"phone"`
	SecondaryPhone            string        `json:"secondary_phone,omitempty" db:"secondary_phone"`
	Email                     string        `json:"email,omitempty" db:"email"`
	AddressStreet             string        `json:"address_street,omitempty" db:"address_street"`
	AddressNumber             string        `json:"address_number,omitempty" db:"address_number"`
	AddressComplement         string        `json:"address_complement,omitempty" db:"address_complement"`
	AddressNeighborhood       string        `json:"address_neighborhood,omitempty" db:"address_neighborhood"`
	AddressCity               string        `json:"address_city,omitempty" db:"address_city"`
	AddressState              string        `json:"address_state,omitempty" db:"address_state"`
	AddressZipCode            string        `json:"address_zip_code,omitempty" db:"address_zip_code"`
	ContractType              ContractType  `json:"contract_type" db:"contract_type"`
	Status                    PatientStatus `json:"status" db:"status"`
	RegistrationDate          time.Time     `json:"registration_date" db:"registration_date"`
	LastVisitDate             *time.Time    `json:"last_visit_date,omitempty" db:"last_visit_date"`
	NextVisitDate             *time.Time    `json:"next_visit_date,omitempty" db:"next_visit_date"`
	DeviceID                  *uuid.UUID    `json:"device_id,omitempty" db:"device_id"`
	ProfessionalResponsibleID *uuid.UUID    `json:"professional_responsible_id,omitempty" db:"professional_responsible_id"`
	Observations              string        `json:"observations,omitempty" db:"observations"`
}

// PatientListItem is a patient row joined with the responsible professional's
// name and the linked device's type for list views.
type PatientListItem struct {
	Patient
	ProfessionalResponsibleName *string `json:"professional_responsible_name,omitempty" db:"professional_responsible_name"`
	DeviceType                  *string `json:"device_type,omitempty" db:"device_type"`
}

type CreatePatientRequest struct {
	Name                      string     `json:"name" binding:"required"`
	CPF                       string     `json:"cpf" binding:"required,cpf"`
	BirthDate                 *time.Time `json:"birth_date"`
	Phone                     string     `json:"phone"`
	SecondaryPhone            string     `json:"secondary_phone"`
	Email                     string     `json:"email" binding:"omitempty,email"`
	AddressStreet             string     `json:"address_street"`
	AddressNumber             string     `json:"address_number"`
	AddressComplement         string     `json:"address_complement"`
	AddressNeighborhood       string     `json:"address_neighborhood"`
	AddressCity               string     `json:"address_city"`
	AddressState              string     `json:"address_state" binding:"omitempty,len=2"`
	AddressZipCode            string     `json:"address_zip_code"`
	ContractType              string     `json:"contract_type" binding:"required"`
	Status                    string     `json:"status" binding:"required"`
	NextVisitDate             *time.Time `json:"next_visit_date"`
	DeviceID                  *uuid.UUID `json:"device_id"`
	ProfessionalResponsibleID *uuid.UUID `json:"professional_responsible_id"`
	Observations              string     `json:"observations"`
}

// UpdatePatientRequest carries the full intended state of the patient,
// including the new device and professional links.
type UpdatePatientRequest = CreatePatientRequest

type UpdateLastVisitRequest struct {
	LastVisitDate time.Time `json:"last_visit_date" binding:"required"`
}
