// Package linkage keeps the cross-entity invariants between patients, devices
// and professionals consistent. Every additional write a mutation requires is
// applied inside the same transaction as the primary mutation.
package linkage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/huggodev/vntl-api/internal/model"
	"github.com/huggodev/vntl-api/internal/repository"
)

type Service struct {
	patients      repository.PatientRepository
	devices       repository.DeviceRepository
	professionals repository.ProfessionalRepository
	tx            repository.TxRunner
}

func NewService(
	patients repository.PatientRepository,
	devices repository.DeviceRepository,
	professionals repository.ProfessionalRepository,
	tx repository.TxRunner,
) *Service {
	return &Service{
		patients:      patients,
		devices:       devices,
		professionals: professionals,
		tx:            tx,
	}
}

// OnPatientDeviceChange synchronizes device statuses when a patient's device
// link moves from prev to next. The previous device is released back to stock,
// the new one is marked in use. Equal ids (including both nil) are a no-op,
// and repeating the call after its effects are applied changes nothing.
func (s *Service) OnPatientDeviceChange(ctx context.Context, tx *sqlx.Tx, prev, next *uuid.UUID) error {
	if equalID(prev, next) {
		return nil
	}

	if prev != nil {
		// Only an IN_USE device goes back to stock; operator-set states
		// like MAINTENANCE are left alone.
		if err := s.devices.UpdateStatusIf(ctx, tx, *prev, model.DeviceStatusInUse, model.DeviceStatusInStock); err != nil {
			return fmt.Errorf("failed to release device: %w", err)
		}
	}

	if next != nil {
		if err := s.devices.UpdateStatus(ctx, tx, *next, model.DeviceStatusInUse); err != nil {
			return fmt.Errorf("failed to claim device: %w", err)
		}
	}

	return nil
}

// OnPatientDelete releases the patient's device, if any, ahead of the row
// removal.
func (s *Service) OnPatientDelete(ctx context.Context, tx *sqlx.Tx, patient *model.Patient) error {
	if patient.DeviceID == nil {
		return nil
	}
	return s.OnPatientDeviceChange(ctx, tx, patient.DeviceID, nil)
}

// OnProfessionalDelete clears the professional reference on every patient that
// holds it, ahead of the row removal. No patient may reference a deleted
// professional.
func (s *Service) OnProfessionalDelete(ctx context.Context, tx *sqlx.Tx, professionalID uuid.UUID) error {
	if err := s.patients.ClearProfessional(ctx, tx, professionalID); err != nil {
		return fmt.Errorf("failed to unassign patients: %w", err)
	}
	return nil
}

// AssignPatient sets the patient's responsible professional, last writer wins.
// Both records must exist; the professional row itself is not modified.
func (s *Service) AssignPatient(ctx context.Context, professionalID, patientID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.professionals.Get(ctx, professionalID); err != nil {
			return err
		}
		if _, err := s.patients.GetForUpdate(ctx, tx, patientID); err != nil {
			return err
		}
		return s.patients.SetProfessional(ctx, tx, patientID, &professionalID)
	})
}

// UnassignPatient clears the patient's professional reference only when it
// currently equals professionalID. Stale requests are ignored, not errors, so
// the operation is idempotent.
func (s *Service) UnassignPatient(ctx context.Context, professionalID, patientID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		patient, err := s.patients.GetForUpdate(ctx, tx, patientID)
		if err != nil {
			return err
		}
		if patient.ProfessionalResponsibleID == nil || *patient.ProfessionalResponsibleID != professionalID {
			return nil
		}
		return s.patients.SetProfessional(ctx, tx, patientID, nil)
	})
}

func equalID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
