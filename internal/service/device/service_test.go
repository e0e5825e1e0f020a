package device

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huggodev/vntl-api/internal/model"
	"github.com/huggodev/vntl-api/internal/repository/memory"
	apperrors "github.com/huggodev/vntl-api/pkg/errors"
	"github.com/huggodev/vntl-api/pkg/logger"
)

type fixture struct {
	devices  *memory.DeviceRepository
	patients *memory.PatientRepository
	svc      *Service
}

func newFixture() *fixture {
	devices := memory.NewDeviceRepository()
	patients := memory.NewPatientRepository()
	log := logger.NewLogger(&logger.Config{Output: io.Discard})
	return &fixture{
		devices:  devices,
		patients: patients,
		svc:      NewService(devices, patients, memory.TxRunner{}, log),
	}
}

func validRequest(assetNumber string) *model.CreateDeviceRequest {
	return &model.CreateDeviceRequest{
		AssetNumber:  assetNumber,
		Type:         "ventilator",
		Brand:        "Resmed",
		PurchaseDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:       "IN_STOCK",
	}
}

func TestCreateDevice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validRequest("VNT-001"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, model.DeviceStatusInStock, created.Status)
}

func TestCreateDeviceDuplicateAssetNumber(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, validRequest("VNT-001"))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, validRequest("VNT-001"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrDuplicateKey))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "asset_number", appErr.Field)
}

func TestCreateDeviceInvalidStatus(t *testing.T) {
	f := newFixture()

	req := validRequest("VNT-001")
	req.Status = "BROKEN"
	_, err := f.svc.Create(context.Background(), req)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidEnum))
}

func TestUpdateDevice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validRequest("VNT-001"))
	require.NoError(t, err)

	req := validRequest("VNT-001")
	req.Status = "MAINTENANCE"
	updated, err := f.svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, model.DeviceStatusMaintenance, updated.Status)

	other, err := f.svc.Create(ctx, validRequest("VNT-002"))
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, other.ID, validRequest("VNT-001"))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrDuplicateKey))
}

func TestGetDeviceWithHolder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validRequest("VNT-001"))
	require.NoError(t, err)

	detail, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.PatientID)
	assert.Nil(t, detail.PatientName)

	holder := &model.Patient{
		Base:     model.Base{ID: uuid.New()},
		Name:     "Maria Silva",
		CPF:      "123.456.789-00",
		DeviceID: &created.ID,
	}
	require.NoError(t, f.patients.Create(ctx, nil, holder))

	detail, err = f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.PatientID)
	assert.Equal(t, holder.ID, *detail.PatientID)
	require.NotNil(t, detail.PatientName)
	assert.Equal(t, "Maria Silva", *detail.PatientName)
}

func TestListDevicesByStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, validRequest("VNT-001"))
	require.NoError(t, err)

	retired := validRequest("VNT-002")
	retired.Status = "RETIRED"
	_, err = f.svc.Create(ctx, retired)
	require.NoError(t, err)

	all, err := f.svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inStock, err := f.svc.List(ctx, "IN_STOCK")
	require.NoError(t, err)
	assert.Len(t, inStock, 1)

	_, err = f.svc.List(ctx, "LOST")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidEnum))
}

func TestDeleteDevice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validRequest("VNT-001"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))

	_, err = f.svc.Get(ctx, created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	err = f.svc.Delete(ctx, created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
