package postgres

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	apperrors "github.com/huggodev/vntl-api/pkg/errors"
)

const uniqueViolation = "23505"

// constraintFields maps unique-constraint names to the domain field that
// collided, so callers see a duplicate-key failure instead of a raw pq error.
var constraintFields = map[string]string{
	"users_username_key":       "username",
	"patients_cpf_key":         "cpf",
	"professionals_cpf_key":    "cpf",
	"devices_asset_number_key": "asset_number",
}

// translateError converts storage errors into domain failures. resource names
// the entity for not-found mapping.
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFound(resource, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		if field, ok := constraintFields[pqErr.Constraint]; ok {
			return apperrors.NewDuplicateKey(field, err)
		}
		// Unknown constraint, fall back to the column hinted in the message.
		switch {
		case strings.Contains(pqErr.Detail, "cpf"):
			return apperrors.NewDuplicateKey("cpf", err)
		case strings.Contains(pqErr.Detail, "username"):
			return apperrors.NewDuplicateKey("username", err)
		case strings.Contains(pqErr.Detail, "asset_number"):
			return apperrors.NewDuplicateKey("asset_number", err)
		}
		return apperrors.NewDuplicateKey("unknown", err)
	}

	return err
}
