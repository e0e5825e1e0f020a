package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/huggodev/vntl-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Field   string      `json:"field,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError maps domain failures to HTTP statuses. Internal details stay
// out of the response body.
func RespondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
		return
	}

	resp := &Response{
		Status:  "error",
		Message: appErr.Message,
		Field:   appErr.Field,
	}

	switch appErr.Code {
	case apperrors.ErrNotFound:
		c.JSON(http.StatusNotFound, resp)
	case apperrors.ErrBadRequest:
		c.JSON(http.StatusBadRequest, resp)
	case apperrors.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, resp)
	case apperrors.ErrForbidden:
		c.JSON(http.StatusForbidden, resp)
	case apperrors.ErrDuplicateKey:
		c.JSON(http.StatusConflict, resp)
	case apperrors.ErrInvalidEnum:
		c.JSON(http.StatusUnprocessableEntity, resp)
	default:
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
	}
}
