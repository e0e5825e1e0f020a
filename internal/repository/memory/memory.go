// Package memory provides map-backed implementations of the repository
// interfaces for tests. Transaction arguments are accepted and ignored; the
// fake TxRunner simply invokes the function with a nil transaction.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/huggodev/vntl-api/internal/model"
	apperrors "github.com/huggodev/vntl-api/pkg/errors"
)

// TxRunner satisfies repository.TxRunner without a database.
type TxRunner struct{}

func (TxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

type UserRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
	// Err, when set, is returned by every call. Used to simulate an
	// unreachable credential store.
	Err error
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*model.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.users[user.Username]; ok {
		return apperrors.NewDuplicateKey("username", nil)
	}
	cp := *user
	r.users[user.Username] = &cp
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	user, ok := r.users[username]
	if !ok {
		return nil, apperrors.NewNotFound("user", nil)
	}
	cp := *user
	return &cp, nil
}

type PatientRepository struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*model.Patient
}

func NewPatientRepository() *PatientRepository {
	return &PatientRepository{patients: make(map[uuid.UUID]*model.Patient)}
}

func (r *PatientRepository) Create(ctx context.Context, tx *sqlx.Tx, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.CPF == patient.CPF {
			return apperrors.NewDuplicateKey("cpf", nil)
		}
	}
	cp := *patient
	r.patients[patient.ID] = &cp
	return nil
}

func (r *PatientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *PatientRepository) get(id uuid.UUID) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, apperrors.NewNotFound("patient", nil)
	}
	cp := *p
	return &cp, nil
}

func (r *PatientRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *PatientRepository) GetByCPF(ctx context.Context, tx *sqlx.Tx, cpf string) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.CPF == cpf {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFound("patient", nil)
}

func (r *PatientRepository) GetByDeviceID(ctx context.Context, deviceID uuid.UUID) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.DeviceID != nil && *p.DeviceID == deviceID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFound("patient", nil)
}

func (r *PatientRepository) List(ctx context.Context, status model.PatientStatus) ([]*model.PatientListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []*model.PatientListItem{}
	for _, p := range r.patients {
		if status != "" && p.Status != status {
			continue
		}
		cp := *p
		items = append(items, &model.PatientListItem{Patient: cp})
	}
	return items, nil
}

func (r *PatientRepository) ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	patients := []*model.Patient{}
	for _, p := range r.patients {
		if p.ProfessionalResponsibleID != nil && *p.ProfessionalResponsibleID == professionalID {
			cp := *p
			patients = append(patients, &cp)
		}
	}
	return patients, nil
}

func (r *PatientRepository) Update(ctx context.Context, tx *sqlx.Tx, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[patient.ID]; !ok {
		return apperrors.NewNotFound("patient", nil)
	}
	for _, p := range r.patients {
		if p.ID != patient.ID && p.CPF == patient.CPF {
			return apperrors.NewDuplicateKey("cpf", nil)
		}
	}
	cp := *patient
	cp.UpdatedAt = time.Now()
	r.patients[patient.ID] = &cp
	return nil
}

func (r *PatientRepository) UpdateLastVisit(ctx context.Context, id uuid.UUID, visit time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return apperrors.NewNotFound("patient", nil)
	}
	v := visit
	p.LastVisitDate = &v
	return nil
}

func (r *PatientRepository) SetProfessional(ctx context.Context, tx *sqlx.Tx, patientID uuid.UUID, professionalID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[patientID]
	if !ok {
		return apperrors.NewNotFound("patient", nil)
	}
	p.ProfessionalResponsibleID = professionalID
	return nil
}

func (r *PatientRepository) ClearProfessional(ctx context.Context, tx *sqlx.Tx, professionalID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.ProfessionalResponsibleID != nil && *p.ProfessionalResponsibleID == professionalID {
			p.ProfessionalResponsibleID = nil
		}
	}
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[id]; !ok {
		return apperrors.NewNotFound("patient", nil)
	}
	delete(r.patients, id)
	return nil
}

type DeviceRepository struct {
	mu      sync.Mutex
	devices map[uuid.UUID]*model.Device
}

func NewDeviceRepository() *DeviceRepository {
	return &DeviceRepository{devices: make(map[uuid.UUID]*model.Device)}
}

func (r *DeviceRepository) Create(ctx context.Context, tx *sqlx.Tx, device *model.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.devices {
		if d.AssetNumber == device.AssetNumber {
			return apperrors.NewDuplicateKey("asset_number", nil)
		}
	}
	cp := *device
	r.devices[device.ID] = &cp
	return nil
}

func (r *DeviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return nil, apperrors.NewNotFound("device", nil)
	}
	cp := *d
	return &cp, nil
}

func (r *DeviceRepository) GetByAssetNumber(ctx context.Context, tx *sqlx.Tx, assetNumber string) (*model.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.devices {
		if d.AssetNumber == assetNumber {
			cp := *d
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFound("device", nil)
}

func (r *DeviceRepository) List(ctx context.Context, status model.DeviceStatus) ([]*model.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	devices := []*model.Device{}
	for _, d := range r.devices {
		if status != "" && d.Status != status {
			continue
		}
		cp := *d
		devices = append(devices, &cp)
	}
	return devices, nil
}

func (r *DeviceRepository) Update(ctx context.Context, tx *sqlx.Tx, device *model.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.devices[device.ID]; !ok {
		return apperrors.NewNotFound("device", nil)
	}
	for _, d := range r.devices {
		if d.ID != device.ID && d.AssetNumber == device.AssetNumber {
			return apperrors.NewDuplicateKey("asset_number", nil)
		}
	}
	cp := *device
	r.devices[device.ID] = &cp
	return nil
}

func (r *DeviceRepository) UpdateStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.DeviceStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return apperrors.NewNotFound("device", nil)
	}
	d.Status = status
	return nil
}

func (r *DeviceRepository) UpdateStatusIf(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, from, to model.DeviceStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return nil
	}
	if d.Status == from {
		d.Status = to
	}
	return nil
}

func (r *DeviceRepository) Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.devices[id]; !ok {
		return apperrors.NewNotFound("device", nil)
	}
	delete(r.devices, id)
	return nil
}

type ProfessionalRepository struct {
	mu            sync.Mutex
	professionals map[uuid.UUID]*model.Professional
}

func NewProfessionalRepository() *ProfessionalRepository {
	return &ProfessionalRepository{professionals: make(map[uuid.UUID]*model.Professional)}
}

func (r *ProfessionalRepository) Create(ctx context.Context, tx *sqlx.Tx, professional *model.Professional) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.professionals {
		if p.CPF == professional.CPF {
			return apperrors.NewDuplicateKey("cpf", nil)
		}
	}
	cp := *professional
	r.professionals[professional.ID] = &cp
	return nil
}

func (r *ProfessionalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.professionals[id]
	if !ok {
		return nil, apperrors.NewNotFound("professional", nil)
	}
	cp := *p
	return &cp, nil
}

func (r *ProfessionalRepository) GetByCPF(ctx context.Context, tx *sqlx.Tx, cpf string) (*model.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.professionals {
		if p.CPF == cpf {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFound("professional", nil)
}

func (r *ProfessionalRepository) List(ctx context.Context) ([]*model.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	professionals := []*model.Professional{}
	for _, p := range r.professionals {
		cp := *p
		professionals = append(professionals, &cp)
	}
	return professionals, nil
}

func (r *ProfessionalRepository) Update(ctx context.Context, tx *sqlx.Tx, professional *model.Professional) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.professionals[professional.ID]; !ok {
		return apperrors.NewNotFound("professional", nil)
	}
	for _, p := range r.professionals {
		if p.ID != professional.ID && p.CPF == professional.CPF {
			return apperrors.NewDuplicateKey("cpf", nil)
		}
	}
	cp := *professional
	r.professionals[professional.ID] = &cp
	return nil
}

func (r *ProfessionalRepository) Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.professionals[id]; !ok {
		return apperrors.NewNotFound("professional", nil)
	}
	delete(r.professionals, id)
	return nil
}
