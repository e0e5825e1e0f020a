package linkage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huggodev/vntl-api/internal/model"
	"github.com/huggodev/vntl-api/internal/repository/memory"
	apperrors "github.com/huggodev/vntl-api/pkg/errors"
)

type fixture struct {
	patients      *memory.PatientRepository
	devices       *memory.DeviceRepository
	professionals *memory.ProfessionalRepository
	svc           *Service
}

func newFixture() *fixture {
	patients := memory.NewPatientRepository()
	devices := memory.NewDeviceRepository()
	professionals := memory.NewProfessionalRepository()
	return &fixture{
		patients:      patients,
		devices:       devices,
		professionals: professionals,
		svc:           NewService(patients, devices, professionals, memory.TxRunner{}),
	}
}

func (f *fixture) addDevice(t *testing.T, status model.DeviceStatus) uuid.UUID {
	t.Helper()
	d := &model.Device{
		Base:        model.Base{ID: uuid.New()},
		AssetNumber: uuid.New().String(),
		Type:        "ventilator",
		Status:      status,
	}
	require.NoError(t, f.devices.Create(context.Background(), nil, d))
	return d.ID
}

func (f *fixture) addPatient(t *testing.T, professionalID *uuid.UUID) uuid.UUID {
	t.Helper()
	p := &model.Patient{
		Base:                      model.Base{ID: uuid.New()},
		Name:                      "Patient",
		CPF:                       uuid.New().String(),
		Status:                    model.PatientStatusActive,
		ProfessionalResponsibleID: professionalID,
	}
	require.NoError(t, f.patients.Create(context.Background(), nil, p))
	return p.ID
}

func (f *fixture) deviceStatus(t *testing.T, id uuid.UUID) model.DeviceStatus {
	t.Helper()
	d, err := f.devices.Get(context.Background(), id)
	require.NoError(t, err)
	return d.Status
}

func TestOnPatientDeviceChange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	prev := f.addDevice(t, model.DeviceStatusInUse)
	next := f.addDevice(t, model.DeviceStatusInStock)

	require.NoError(t, f.svc.OnPatientDeviceChange(ctx, nil, &prev, &next))

	assert.Equal(t, model.DeviceStatusInStock, f.deviceStatus(t, prev))
	assert.Equal(t, model.DeviceStatusInUse, f.deviceStatus(t, next))
}

func TestOnPatientDeviceChangeSameDevice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	id := f.addDevice(t, model.DeviceStatusInUse)

	require.NoError(t, f.svc.OnPatientDeviceChange(ctx, nil, &id, &id))
	assert.Equal(t, model.DeviceStatusInUse, f.deviceStatus(t, id))

	require.NoError(t, f.svc.OnPatientDeviceChange(ctx, nil, nil, nil))
}

func TestOnPatientDeviceChangeIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	prev := f.addDevice(t, model.DeviceStatusInUse)
	next := f.addDevice(t, model.DeviceStatusInStock)

	require.NoError(t, f.svc.OnPatientDeviceChange(ctx, nil, &prev, &next))
	require.NoError(t, f.svc.OnPatientDeviceChange(ctx, nil, &prev, &next))

	assert.Equal(t, model.DeviceStatusInStock, f.deviceStatus(t, prev))
	assert.Equal(t, model.DeviceStatusInUse, f.deviceStatus(t, next))
}

func TestReleaseLeavesMaintenanceAlone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	prev := f.addDevice(t, model.DeviceStatusMaintenance)

	require.NoError(t, f.svc.OnPatientDeviceChange(ctx, nil, &prev, nil))
	assert.Equal(t, model.DeviceStatusMaintenance, f.deviceStatus(t, prev))
}

func TestReleaseMissingDeviceIsNoop(t *testing.T) {
	f := newFixture()
	missing := uuid.New()

	assert.NoError(t, f.svc.OnPatientDeviceChange(context.Background(), nil, &missing, nil))
}

func TestClaimMissingDeviceFails(t *testing.T) {
	f := newFixture()
	missing := uuid.New()

	err := f.svc.OnPatientDeviceChange(context.Background(), nil, nil, &missing)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestOnPatientDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	device := f.addDevice(t, model.DeviceStatusInUse)
	patient := &model.Patient{
		Base:     model.Base{ID: uuid.New()},
		DeviceID: &device,
	}

	require.NoError(t, f.svc.OnPatientDelete(ctx, nil, patient))
	assert.Equal(t, model.DeviceStatusInStock, f.deviceStatus(t, device))

	require.NoError(t, f.svc.OnPatientDelete(ctx, nil, &model.Patient{Base: model.Base{ID: uuid.New()}}))
}

func TestOnProfessionalDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	professionalID := uuid.New()
	otherID := uuid.New()
	assigned := f.addPatient(t, &professionalID)
	other := f.addPatient(t, &otherID)

	require.NoError(t, f.svc.OnProfessionalDelete(ctx, nil, professionalID))

	p, err := f.patients.Get(ctx, assigned)
	require.NoError(t, err)
	assert.Nil(t, p.ProfessionalResponsibleID)

	p, err = f.patients.Get(ctx, other)
	require.NoError(t, err)
	require.NotNil(t, p.ProfessionalResponsibleID)
	assert.Equal(t, otherID, *p.ProfessionalResponsibleID)
}

func TestAssignPatient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	professional := &model.Professional{
		Base: model.Base{ID: uuid.New()},
		Name: "Dr. A",
		CPF:  "111.111.111-11",
	}
	require.NoError(t, f.professionals.Create(ctx, nil, professional))
	patientID := f.addPatient(t, nil)

	require.NoError(t, f.svc.AssignPatient(ctx, professional.ID, patientID))

	p, err := f.patients.Get(ctx, patientID)
	require.NoError(t, err)
	require.NotNil(t, p.ProfessionalResponsibleID)
	assert.Equal(t, professional.ID, *p.ProfessionalResponsibleID)

	// Last writer wins.
	second := &model.Professional{
		Base: model.Base{ID: uuid.New()},
		Name: "Dr. B",
		CPF:  "222.222.222-22",
	}
	require.NoError(t, f.professionals.Create(ctx, nil, second))
	require.NoError(t, f.svc.AssignPatient(ctx, second.ID, patientID))

	p, err = f.patients.Get(ctx, patientID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, *p.ProfessionalResponsibleID)
}

func TestAssignPatientMissingRecords(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	professional := &model.Professional{
		Base: model.Base{ID: uuid.New()},
		Name: "Dr. A",
		CPF:  "111.111.111-11",
	}
	require.NoError(t, f.professionals.Create(ctx, nil, professional))
	patientID := f.addPatient(t, nil)

	err := f.svc.AssignPatient(ctx, uuid.New(), patientID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	err = f.svc.AssignPatient(ctx, professional.ID, uuid.New())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestUnassignPatient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	professionalID := uuid.New()
	patientID := f.addPatient(t, &professionalID)

	require.NoError(t, f.svc.UnassignPatient(ctx, professionalID, patientID))

	p, err := f.patients.Get(ctx, patientID)
	require.NoError(t, err)
	assert.Nil(t, p.ProfessionalResponsibleID)

	// Repeating the call changes nothing.
	require.NoError(t, f.svc.UnassignPatient(ctx, professionalID, patientID))
}

func TestUnassignPatientStaleRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	currentID := uuid.New()
	patientID := f.addPatient(t, &currentID)

	require.NoError(t, f.svc.UnassignPatient(ctx, uuid.New(), patientID))

	p, err := f.patients.Get(ctx, patientID)
	require.NoError(t, err)
	require.NotNil(t, p.ProfessionalResponsibleID)
	assert.Equal(t, currentID, *p.ProfessionalResponsibleID)
}
