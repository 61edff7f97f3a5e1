package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridexchange/dealer-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a 201 response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError maps an application error to an HTTP status and sends
// the error envelope.
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := "internal"
	message := "internal server error"

	switch errors.CodeOf(err) {
	case errors.ErrValidation:
		status = http.StatusBadRequest
		kind = "validation"
		message = err.Error()
	case errors.ErrConflict:
		status = http.StatusConflict
		kind = "conflict"
		message = err.Error()
	case errors.ErrNotFound:
		status = http.StatusNotFound
		kind = "not_found"
		message = err.Error()
	case errors.ErrUnauthorized:
		status = http.StatusUnauthorized
		kind = "unauthorized"
		message = err.Error()
	case errors.ErrForbidden:
		status = http.StatusForbidden
		kind = "forbidden"
		message = err.Error()
	case errors.ErrUnavailable:
		status = http.StatusServiceUnavailable
		kind = "unavailable"
		message = err.Error()
	}

	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Kind:    kind,
			Message: message,
		},
	})
}
