package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/huggodev/vntl-api/pkg/errors"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole("TECHNICIAN")
	require.NoError(t, err)
	assert.Equal(t, RoleTechnician, role)

	_, err = ParseRole("root")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidEnum))
}

func TestParseDeviceStatus(t *testing.T) {
	status, err := ParseDeviceStatus("in_stock")
	require.NoError(t, err)
	assert.Equal(t, DeviceStatusInStock, status)

	_, err = ParseDeviceStatus("")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidEnum))
}

func TestParsePatientStatus(t *testing.T) {
	status, err := ParsePatientStatus("Active")
	require.NoError(t, err)
	assert.Equal(t, PatientStatusActive, status)

	_, err = ParsePatientStatus("deceased")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidEnum))
}

func TestParseContractType(t *testing.T) {
	ct, err := ParseContractType("insurance")
	require.NoError(t, err)
	assert.Equal(t, ContractInsurance, ct)

	_, err = ParseContractType("free")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "contract_type", appErr.Field)
}
