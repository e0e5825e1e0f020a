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

type professionalRepository struct {
	db *sqlx.DB
}

func NewProfessionalRepository(db *sqlx.DB) repository.ProfessionalRepository {
	return &professionalRepository{db: db}
}

func (r *professionalRepository) q(tx *sqlx.Tx) sqlx.ExtContext {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *professionalRepository) Create(ctx context.Context, tx *sqlx.Tx, professional *model.Professional) error {
	query := `
		INSERT INTO professionals (
			id, name, cpf, phone, secondary_phone, email, active,
			observations, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	professional.CreatedAt = time.Now()
	professional.UpdatedAt = time.Now()

	_, err := r.q(tx).ExecContext(ctx, query,
		professional.ID,
		professional.Name,
		professional.CPF,
		professional.Phone,
		professional.SecondaryPhone,
		professional.Email,
		professional.Active,
		professional.Observations,
		professional.CreatedAt,
		professional.UpdatedAt,
	)
	return translateError(err, "professional")
}

func (r *professionalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	query := `SELECT * FROM professionals WHERE id = $1`
	var professional model.Professional
	if err := r.db.GetContext(ctx, &professional, query, id); err != nil {
		return nil, translateError(err, "professional")
	}
	return &professional, nil
}

func (r *professionalRepository) GetByCPF(ctx context.Context, tx *sqlx.Tx, cpf string) (*model.Professional, error) {
	query := `SELECT * FROM professionals WHERE cpf = $1`
	var professional model.Professional
	if err := sqlx.GetContext(ctx, r.q(tx), &professional, query, cpf); err != nil {
		return nil, translateError(err, "professional")
	}
	return &professional, nil
}

func (r *professionalRepository) List(ctx context.Context) ([]*model.Professional, error) {
	query := `SELECT * FROM professionals ORDER BY name`
	professionals := []*model.Professional{}
	if err := r.db.SelectContext(ctx, &professionals, query); err != nil {
		return nil, translateError(err, "professional")
	}
	return professionals, nil
}

func (r *professionalRepository) Update(ctx context.Context, tx *sqlx.Tx, professional *model.Professional) error {
	query := `
		UPDATE professionals SET
			name = $1, cpf = $2, phone = $3, secondary_phone = $4,
			email = $5, active = $6, observations = $7, updated_at = $8
		WHERE id = $9
	`
	res, err := r.q(tx).ExecContext(ctx, query,
		professional.Name,
		professional.CPF,
		professional.Phone,
		professional.SecondaryPhone,
		professional.Email,
		professional.Active,
		professional.Observations,
		time.Now(),
		professional.ID,
	)
	if err != nil {
		return translateError(err, "professional")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFound("professional", nil)
	}
	return nil
}

func (r *professionalRepository) Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	query := `DELETE FROM professionals WHERE id = $1`
	res, err := r.q(tx).ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err, "professional")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFound("professional", nil)
	}
	return nil
}
