package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/huggodev/vntl-api/pkg/errors"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil, "patient"))

	err := translateError(sql.ErrNoRows, "patient")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
	assert.Contains(t, err.Error(), "patient")

	err = translateError(fmt.Errorf("query: %w", sql.ErrNoRows), "device")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestTranslateUniqueViolation(t *testing.T) {
	err := translateError(&pq.Error{Code: "23505", Constraint: "patients_cpf_key"}, "patient")
	require.True(t, apperrors.IsCode(err, apperrors.ErrDuplicateKey))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "cpf", appErr.Field)

	err = translateError(&pq.Error{Code: "23505", Constraint: "devices_asset_number_key"}, "device")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "asset_number", appErr.Field)

	// Unknown constraint resolves the field from the detail message.
	err = translateError(&pq.Error{
		Code:   "23505",
		Detail: "Key (username)=(ana) already exists.",
	}, "user")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "username", appErr.Field)
}

func TestTranslateErrorPassthrough(t *testing.T) {
	cause := errors.New("connection reset")
	assert.Same(t, cause, translateError(cause, "patient"))

	err := translateError(&pq.Error{Code: "23503"}, "patient")
	assert.False(t, apperrors.IsCode(err, apperrors.ErrDuplicateKey))
}
