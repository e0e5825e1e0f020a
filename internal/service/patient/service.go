package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/huggodev/vntl-api/internal/model"
	"github.com/huggodev/vntl-api/internal/repository"
	"github.com/huggodev/vntl-api/internal/service/linkage"
	apperrors "github.com/huggodev/vntl-api/pkg/errors"
	"github.com/huggodev/vntl-api/pkg/logger"
)

type Service struct {
	repo          repository.PatientRepository
	professionals repository.ProfessionalRepository
	linkage       *linkage.Service
	tx            repository.TxRunner
	log           *logger.Logger
}

func NewService(repo repository.PatientRepository, professionals repository.ProfessionalRepository, linkageSvc *linkage.Service, tx repository.TxRunner, log *logger.Logger) *Service {
	return &Service{
		repo:          repo,
		professionals: professionals,
		linkage:       linkageSvc,
		tx:            tx,
		log:           log,
	}
}

// Create inserts the patient and, when a device is linked at creation time,
// marks that device in use within the same transaction.
func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	patient.ID = uuid.New()
	patient.RegistrationDate = time.Now()

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.checkCPF(ctx, tx, patient.CPF, uuid.Nil); err != nil {
			return err
		}
		if err := s.checkProfessional(ctx, patient.ProfessionalResponsibleID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, tx, patient); err != nil {
			return err
		}
		return s.linkage.OnPatientDeviceChange(ctx, tx, nil, patient.DeviceID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("created patient", "id", patient.ID.String())
	return patient, nil
}

// Update applies the full intended state and derives the device-status writes
// from the link change, all in one transaction.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	updated, err := fromRequest(req)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.checkCPF(ctx, tx, updated.CPF, id); err != nil {
			return err
		}
		if err := s.checkProfessional(ctx, updated.ProfessionalResponsibleID); err != nil {
			return err
		}

		updated.Base = current.Base
		updated.RegistrationDate = current.RegistrationDate
		updated.LastVisitDate = current.LastVisitDate

		if err := s.repo.Update(ctx, tx, updated); err != nil {
			return err
		}
		return s.linkage.OnPatientDeviceChange(ctx, tx, current.DeviceID, updated.DeviceID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("updated patient", "id", id.String())
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, status string) ([]*model.PatientListItem, error) {
	var parsed model.PatientStatus
	if status != "" {
		var err error
		parsed, err = model.ParsePatientStatus(status)
		if err != nil {
			return nil, err
		}
	}
	return s.repo.List(ctx, parsed)
}

// Delete releases the patient's device back to stock and removes the row in
// one transaction.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		patient, err := s.repo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.linkage.OnPatientDelete(ctx, tx, patient); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("deleted patient", "id", id.String())
	return nil
}

func (s *Service) UpdateLastVisit(ctx context.Context, id uuid.UUID, visit time.Time) (*model.Patient, error) {
	if err := s.repo.UpdateLastVisit(ctx, id, visit); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// checkCPF rejects a CPF already held by a different patient. The storage
// constraint remains as a backstop for concurrent inserts.
func (s *Service) checkCPF(ctx context.Context, tx *sqlx.Tx, cpf string, selfID uuid.UUID) error {
	existing, err := s.repo.GetByCPF(ctx, tx, cpf)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return apperrors.NewDuplicateKey("cpf", nil)
	}
	return nil
}

func (s *Service) checkProfessional(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	_, err := s.professionals.Get(ctx, *id)
	return err
}

func fromRequest(req *model.CreatePatientRequest) (*model.Patient, error) {
	contractType, err := model.ParseContractType(req.ContractType)
	if err != nil {
		return nil, err
	}
	status, err := model.ParsePatientStatus(req.Status)
	if err != nil {
		return nil, err
	}

	return &model.Patient{
		Name:                      req.Name,
		CPF:                       req.CPF,
		BirthDate:                 req.BirthDate,
		Phone:                     req.Phone,
		SecondaryPhone:            req.SecondaryPhone,
		Email:                     req.Email,
		AddressStreet:             req.AddressStreet,
		AddressNumber:             req.AddressNumber,
		AddressComplement:         req.AddressComplement,
		AddressNeighborhood:       req.AddressNeighborhood,
		AddressCity:               req.AddressCity,
		AddressState:              req.AddressState,
		AddressZipCode:            req.AddressZipCode,
		ContractType:              contractType,
		Status:                    status,
		NextVisitDate:             req.NextVisitDate,
		DeviceID:                  req.DeviceID,
		ProfessionalResponsibleID: req.ProfessionalResponsibleID,
		Observations:              req.Observations,
	}, nil
}
