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

type deviceRepository struct {
	db *sqlx.DB
}

func NewDeviceRepository(db *sqlx.DB) repository.DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) q(tx *sqlx.Tx) sqlx.ExtContext {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *deviceRepository) Create(ctx context.Context, tx *sqlx.Tx, device *model.Device) error {
	query := `
		INSERT INTO devices (
			id, asset_number, type, brand, model, serial_number,
			purchase_date, status, observations, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	device.CreatedAt = time.Now()
	device.UpdatedAt = time.Now()

	_, err := r.q(tx).ExecContext(ctx, query,
		device.ID,
		device.AssetNumber,
		device.Type,
		device.Brand,
		device.Model,
		device.SerialNumber,
		device.PurchaseDate,
		device.Status,
		device.Observations,
		device.CreatedAt,
		device.UpdatedAt,
	)
	return translateError(err, "device")
}

func (r *deviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Device, error) {
	query := `SELECT * FROM devices WHERE id = $1`
	var device model.Device
	if err := r.db.GetContext(ctx, &device, query, id); err != nil {
		return nil, translateError(err, "device")
	}
	return &device, nil
}

func (r *deviceRepository) GetByAssetNumber(ctx context.Context, tx *sqlx.Tx, assetNumber string) (*model.Device, error) {
	query := `SELECT * FROM devices WHERE asset_number = $1`
	var device model.Device
	if err := sqlx.GetContext(ctx, r.q(tx), &device, query, assetNumber); err != nil {
		return nil, translateError(err, "device")
	}
	return &device, nil
}

func (r *deviceRepository) List(ctx context.Context, status model.DeviceStatus) ([]*model.Device, error) {
	query := `SELECT * FROM devices`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY asset_number`

	devices := []*model.Device{}
	if err := r.db.SelectContext(ctx, &devices, query, args...); err != nil {
		return nil, translateError(err, "device")
	}
	return devices, nil
}

func (r *deviceRepository) Update(ctx context.Context, tx *sqlx.Tx, device *model.Device) error {
	query := `
		UPDATE devices SET
			asset_number = $1, type = $2, brand = $3, model = $4,
			serial_number = $5, purchase_date = $6, status = $7,
			observations = $8, updated_at = $9
		WHERE id = $10
	`
	res, err := r.q(tx).ExecContext(ctx, query,
		device.AssetNumber,
		device.Type,
		device.Brand,
		device.Model,
		device.SerialNumber,
		device.PurchaseDate,
		device.Status,
		device.Observations,
		time.Now(),
		device.ID,
	)
	if err != nil {
		return translateError(err, "device")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFound("device", nil)
	}
	return nil
}

func (r *deviceRepository) UpdateStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.DeviceStatus) error {
	query := `UPDATE devices SET status = $1, updated_at = $2 WHERE id = $3`
	res, err := r.q(tx).ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return translateError(err, "device")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFound("device", nil)
	}
	return nil
}

func (r *deviceRepository) UpdateStatusIf(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, from, to model.DeviceStatus) error {
	query := `UPDATE devices SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	_, err := r.q(tx).ExecContext(ctx, query, to, time.Now(), id, from)
	return translateError(err, "device")
}

func (r *deviceRepository) Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	query := `DELETE FROM devices WHERE id = $1`
	res, err := r.q(tx).ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err, "device")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFound("device", nil)
	}
	return nil
}
