package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/huggodev/vntl-api/internal/model"
	"github.com/huggodev/vntl-api/internal/repository"
	apperrors "github.com/huggodev/vntl-api/pkg/errors"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) q(tx *sqlx.Tx) sqlx.ExtContext {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *patientRepository) Create(ctx context.Context, tx *sqlx.Tx, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, name, cpf, birth_date, phone, secondary_phone, email,
			address_street, address_number, address_complement, address_neighborhood,
			address_city, address_state, address_zip_code,
			contract_type, status, registration_date, last_visit_date, next_visit_date,
			device_id, professional_responsible_id, observations, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.q(tx).ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.CPF,
		patient.BirthDate,
		patient.Phone,
		patient.SecondaryPhone,
		patient.Email,
		patient.AddressStreet,
		patient.AddressNumber,
		patient.AddressComplement,
		patient.AddressNeighborhood,
		patient.AddressCity,
		patient.AddressState,
		patient.AddressZipCode,
		patient.ContractType,
		patient.Status,
		patient.RegistrationDate,
		patient.LastVisitDate,
		patient.NextVisitDate,
		patient.DeviceID,
		patient.ProfessionalResponsibleID,
		patient.Observations,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	return translateError(err, "patient")
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, translateError(err, "patient")
	}
	return &patient, nil
}

func (r *patientRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1 FOR UPDATE`
	var patient model.Patient
	if err := sqlx.GetContext(ctx, r.q(tx), &patient, query, id); err != nil {
		return nil, translateError(err, "patient")
	}
	return &patient, nil
}

func (r *patientRepository) GetByCPF(ctx context.Context, tx *sqlx.Tx, cpf string) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE cpf = $1`
	var patient model.Patient
	if err := sqlx.GetContext(ctx, r.q(tx), &patient, query, cpf); err != nil {
		return nil, translateError(err, "patient")
	}
	return &patient, nil
}

func (r *patientRepository) GetByDeviceID(ctx context.Context, deviceID uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE device_id = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, deviceID); err != nil {
		return nil, translateError(err, "patient")
	}
	return &patient, nil
}

// List joins the responsible professional's name and the device type so list
// views need a single query.
func (r *patientRepository) List(ctx context.Context, status model.PatientStatus) ([]*model.PatientListItem, error) {
	query := `
		SELECT p.*, pr.name AS professional_responsible_name, d.type AS device_type
		FROM patients p
		LEFT JOIN professionals pr ON p.professional_responsible_id = pr.id
		LEFT JOIN devices d ON p.device_id = d.id
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE p.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY p.name`

	patients := []*model.PatientListItem{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, translateError(err, "patient")
	}
	return patients, nil
}

func (r *patientRepository) ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE professional_responsible_id = $1 ORDER BY name`
	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, professionalID); err != nil {
		return nil, translateError(err, "patient")
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, tx *sqlx.Tx, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			name = $1, cpf = $2, birth_date = $3, phone = $4, secondary_phone = $5,
			email = $6, address_street = $7, address_number = $8, address_complement = $9,
			address_neighborhood = $10, address_city = $11, address_state = $12,
			address_zip_code = $13, contract_type = $14, status = $15,
			next_visit_date = $16, device_id = $17, professional_responsible_id = $18,
			observations = $19, updated_at = $20
		WHERE id = $21
	`
	res, err := r.q(tx).ExecContext(ctx, query,
		patient.Name,
		patient.CPF,
		patient.BirthDate,
		patient.Phone,
		patient.SecondaryPhone,
		patient.Email,
		patient.AddressStreet,
		patient.AddressNumber,
		patient.AddressComplement,
		patient.AddressNeighborhood,
		patient.AddressCity,
		patient.AddressState,
		patient.AddressZipCode,
		patient.ContractType,
		patient.Status,
		patient.NextVisitDate,
		patient.DeviceID,
		patient.ProfessionalResponsibleID,
		patient.Observations,
		time.Now(),
		patient.ID,
	)
	if err != nil {
		return translateError(err, "patient")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) UpdateLastVisit(ctx context.Context, id uuid.UUID, visit time.Time) error {
	query := `UPDATE patients SET last_visit_date = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, visit, time.Now(), id)
	if err != nil {
		return translateError(err, "patient")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) SetProfessional(ctx context.Context, tx *sqlx.Tx, patientID uuid.UUID, professionalID *uuid.UUID) error {
	query := `UPDATE patients SET professional_responsible_id = $1, updated_at = $2 WHERE id = $3`
	res, err := r.q(tx).ExecContext(ctx, query, professionalID, time.Now(), patientID)
	if err != nil {
		return translateError(err, "patient")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) ClearProfessional(ctx context.Context, tx *sqlx.Tx, professionalID uuid.UUID) error {
	query := `UPDATE patients SET professional_responsible_id = NULL, updated_at = $1 WHERE professional_responsible_id = $2`
	_, err := r.q(tx).ExecContext(ctx, query, time.Now(), professionalID)
	return translateError(err, "patient")
}

func (r *patientRepository) Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	query := `DELETE FROM patients WHERE id = $1`
	res, err := r.q(tx).ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err, "patient")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFound("patient", nil)
	}
	return nil
}
