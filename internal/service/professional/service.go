package professional

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/huggodev/vntl-api/internal/model"
	"github.com/huggodev/vntl-api/internal/repository"
	"github.com/huggodev/vntl-api/internal/service/linkage"
	apperrors "github.com/huggodev/vntl-api/pkg/errors"
	"github.com/huggodev/vntl-api/pkg/logger"
)

type Service struct {
	repo     repository.ProfessionalRepository
	patients repository.PatientRepository
	linkage  *linkage.Service
	tx       repository.TxRunner
	log      *logger.Logger
}

func NewService(repo repository.ProfessionalRepository, patients repository.PatientRepository, linkageSvc *linkage.Service, tx repository.TxRunner, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		linkage:  linkageSvc,
		tx:       tx,
		log:      log,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateProfessionalRequest) (*model.Professional, error) {
	professional := fromRequest(req)
	professional.ID = uuid.New()

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.checkCPF(ctx, tx, professional.CPF, uuid.Nil); err != nil {
			return err
		}
		return s.repo.Create(ctx, tx, professional)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("created professional", "id", professional.ID.String())
	return professional, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProfessionalRequest) (*model.Professional, error) {
	updated := fromRequest(req)

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.checkCPF(ctx, tx, updated.CPF, id); err != nil {
			return err
		}
		updated.Base = current.Base
		return s.repo.Update(ctx, tx, updated)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("updated professional", "id", id.String())
	return updated, nil
}

// Get returns the professional with the derived set of assigned patients.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.ProfessionalDetail, error) {
	professional, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDetail(ctx, professional)
}

func (s *Service) List(ctx context.Context) ([]*model.ProfessionalDetail, error) {
	professionals, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]*model.ProfessionalDetail, 0, len(professionals))
	for _, p := range professionals {
		detail, err := s.toDetail(ctx, p)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// Delete removes the professional after clearing the reference on every
// assigned patient, in a single transaction.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.repo.Get(ctx, id); err != nil {
			return err
		}
		if err := s.linkage.OnProfessionalDelete(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("deleted professional", "id", id.String())
	return nil
}

func (s *Service) ListPatients(ctx context.Context, id uuid.UUID) ([]*model.Patient, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.patients.ListByProfessional(ctx, id)
}

func (s *Service) AssignPatient(ctx context.Context, professionalID, patientID uuid.UUID) error {
	return s.linkage.AssignPatient(ctx, professionalID, patientID)
}

func (s *Service) UnassignPatient(ctx context.Context, professionalID, patientID uuid.UUID) error {
	return s.linkage.UnassignPatient(ctx, professionalID, patientID)
}

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

func (s *Service) toDetail(ctx context.Context, professional *model.Professional) (*model.ProfessionalDetail, error) {
	patients, err := s.patients.ListByProfessional(ctx, professional.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(patients))
	for _, p := range patients {
		ids = append(ids, p.ID)
	}

	return &model.ProfessionalDetail{
		Professional:  *professional,
		PatientIDs:    ids,
		PatientsCount: len(ids),
	}, nil
}

func fromRequest(req *model.CreateProfessionalRequest) *model.Professional {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return &model.Professional{
		Name:           req.Name,
		CPF:            req.CPF,
		Phone:          req.Phone,
		SecondaryPhone: req.SecondaryPhone,
		Email:          req.Email,
		Active:         active,
		Observations:   req.Observations,
	}
}
