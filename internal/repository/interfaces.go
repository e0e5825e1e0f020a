package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/huggodev/vntl-api/internal/model"
)

// TxRunner executes a function within a single database transaction. Every
// mutating top-level operation runs through it so that cascading writes commit
// or roll back together.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error
}

// Methods that take a *sqlx.Tx participate in the caller's transaction; a nil
// tx falls back to the pool connection.

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

type PatientRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*model.Patient, error)
	GetByCPF(ctx context.Context, tx *sqlx.Tx, cpf string) (*model.Patient, error)
	GetByDeviceID(ctx context.Context, deviceID uuid.UUID) (*model.Patient, error)
	List(ctx context.Context, status model.PatientStatus) ([]*model.PatientListItem, error)
	ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*model.Patient, error)
	Update(ctx context.Context, tx *sqlx.Tx, patient *model.Patient) error
	UpdateLastVisit(ctx context.Context, id uuid.UUID, visit time.Time) error
	SetProfessional(ctx context.Context, tx *sqlx.Tx, patientID uuid.UUID, professionalID *uuid.UUID) error
	ClearProfessional(ctx context.Context, tx *sqlx.Tx, professionalID uuid.UUID) error
	Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}

type DeviceRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, device *model.Device) error
	Get(ctx context.Context, id uuid.UUID) (*model.Device, error)
	GetByAssetNumber(ctx context.Context, tx *sqlx.Tx, assetNumber string) (*model.Device, error)
	List(ctx context.Context, status model.DeviceStatus) ([]*model.Device, error)
	Update(ctx context.Context, tx *sqlx.Tx, device *model.Device) error
	// UpdateStatus sets the status unconditionally and reports NotFound when
	// the device does not exist.
	UpdateStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.DeviceStatus) error
	// UpdateStatusIf flips status only when the current value matches from.
	// A non-matching current status is a silent no-op.
	UpdateStatusIf(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, from, to model.DeviceStatus) error
	Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}

type ProfessionalRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, professional *model.Professional) error
	Get(ctx context.Context, id uuid.UUID) (*model.Professional, error)
	GetByCPF(ctx context.Context, tx *sqlx.Tx, cpf string) (*model.Professional, error)
	List(ctx context.Context) ([]*model.Professional, error)
	Update(ctx context.Context, tx *sqlx.Tx, professional *model.Professional) error
	Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}
