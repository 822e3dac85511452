package ledger

import (
	"errors"
	"net/http"

	"samamatroh/internal/api"
	"samamatroh/internal/logger"

	"github.com/gin-gonic/gin"
)

// HTTPStatus maps the error taxonomy onto a response status.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrSelfTransfer):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as an api.ErrorResponse. Unclassified errors
// are logged and hidden behind a generic message.
func RespondError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, api.ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(status, api.ErrorResponse{Error: publicMessage(err)})
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return ErrInsufficientFunds.Error()
	case errors.Is(err, ErrForbidden):
		return ErrForbidden.Error()
	case errors.Is(err, ErrConflict):
		return ErrConflict.Error()
	default:
		return err.Error()
	}
}
