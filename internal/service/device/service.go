package device

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/huggodev/vntl-api/internal/model"
	"github.com/huggodev/vntl-api/internal/repository"
	apperrors "github.com/huggodev/vntl-api/pkg/errors"
	"github.com/huggodev/vntl-api/pkg/logger"
)

type Service struct {
	repo     repository.DeviceRepository
	patients repository.PatientRepository
	tx       repository.TxRunner
	log      *logger.Logger
}

func NewService(repo repository.DeviceRepository, patients repository.PatientRepository, tx repository.TxRunner, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		tx:       tx,
		log:      log,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDeviceRequest) (*model.Device, error) {
	device, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	device.ID = uuid.New()

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.checkAssetNumber(ctx, tx, device.AssetNumber, uuid.Nil); err != nil {
			return err
		}
		return s.repo.Create(ctx, tx, device)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("created device", "id", device.ID.String())
	return device, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDeviceRequest) (*model.Device, error) {
	updated, err := fromRequest(req)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.checkAssetNumber(ctx, tx, updated.AssetNumber, id); err != nil {
			return err
		}
		updated.Base = current.Base
		return s.repo.Update(ctx, tx, updated)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("updated device", "id", id.String())
	return updated, nil
}

// Get returns the device together with the patient currently holding it, if
// any. The holder is derived from the patient's device link.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.DeviceDetail, error) {
	device, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &model.DeviceDetail{Device: *device}
	patient, err := s.patients.GetByDeviceID(ctx, id)
	if err == nil {
		detail.PatientID = &patient.ID
		detail.PatientName = &patient.Name
	} else if !apperrors.IsCode(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return detail, nil
}

func (s *Service) List(ctx context.Context, status string) ([]*model.Device, error) {
	var parsed model.DeviceStatus
	if status != "" {
		var err error
		parsed, err = model.ParseDeviceStatus(status)
		if err != nil {
			return nil, err
		}
	}
	return s.repo.List(ctx, parsed)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.repo.Get(ctx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("deleted device", "id", id.String())
	return nil
}

func (s *Service) checkAssetNumber(ctx context.Context, tx *sqlx.Tx, assetNumber string, selfID uuid.UUID) error {
	existing, err := s.repo.GetByAssetNumber(ctx, tx, assetNumber)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return apperrors.NewDuplicateKey("asset_number", nil)
	}
	return nil
}

func fromRequest(req *model.CreateDeviceRequest) (*model.Device, error) {
	status, err := model.ParseDeviceStatus(req.Status)
	if err != nil {
		return nil, err
	}

	return &model.Device{
		AssetNumber:  req.AssetNumber,
		Type:         req.Type,
		Brand:        req.Brand,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		PurchaseDate: req.PurchaseDate,
		Status:       status,
		Observations: req.Observations,
	}, nil
}
