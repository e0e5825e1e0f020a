package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/huggodev/vntl-api/pkg/errors"
)

// DeviceStatus is a derived, cached field: IN_USE exactly while some patient
// references the device, IN_STOCK when released. MAINTENANCE and RETIRED are
// set by operators and never flipped by the linkage engine.
type DeviceStatus string

const (
	DeviceStatusInStock     DeviceStatus = "IN_STOCK"
	DeviceStatusInUse       DeviceStatus = "IN_USE"
	DeviceStatusMaintenance DeviceStatus = "MAINTENANCE"
	DeviceStatusRetired     DeviceStatus = "RETIRED"
)

func ParseDeviceStatus(s string) (DeviceStatus, error) {
	switch DeviceStatus(strings.ToUpper(s)) {
	case DeviceStatusInStock:
		return DeviceStatusInStock, nil
	case DeviceStatusInUse:
		return DeviceStatusInUse, nil
	case DeviceStatusMaintenance:
		return DeviceStatusMaintenance, nil
	case DeviceStatusRetired:
		return DeviceStatusRetired, nil
	}
	return "", apperrors.NewInvalidEnum("status", s)
}

type Device struct {
	Base
	AssetNumber  string       `json:"asset_number" db:"asset_number"`
	Type         string       `json:"type" db:"type"`
	Brand        string       `json:"brand,omitempty" db:"brand"`
	Model        string       `json:"model,omitempty" db:"model"`
	SerialNumber string       `json:"serial_number,omitempty" db:"serial_number"`
	PurchaseDate time.Time    `json:"purchase_date" db:"purchase_date"`
	Status       DeviceStatus `json:"status" db:"status"`
	Observations string       `json:"observations,omitempty" db:"observations"`
}

// DeviceDetail is a device joined with the patient currently holding it, if
// any. The link is derived from the patient row.
type DeviceDetail struct {
	Device
	PatientID   *uuid.UUID `json:"patient_id,omitempty" db:"patient_id"`
	PatientName *string    `json:"patient_name,omitempty" db:"patient_name"`
}

type CreateDeviceRequest struct {
	AssetNumber  string    `json:"asset_number" binding:"required"`
	Type         string    `json:"type" binding:"required"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	SerialNumber string    `json:"serial_number"`
	PurchaseDate time.Time `json:"purchase_date" binding:"required"`
	Status       string    `json:"status" binding:"required"`
	Observations string    `json:"observations"`
}

type UpdateDeviceRequest = CreateDeviceRequest
