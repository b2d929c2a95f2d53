package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/service"
)

const (
	msgUnauthenticated = "Unauthenticated. Please log in."
	msgForbidden       = "You do not have permission to perform this action."
	msgNotFound        = "Resource not found."
	msgMethod          = "HTTP method not allowed for this route."
	msgInternal        = "Internal server error."
)

type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Error   *string             `json:"error,omitempty"`
}

// ErrorTranslator is the single place where errors become HTTP responses.
type ErrorTranslator struct {
	Debug bool
}

func (t ErrorTranslator) Translate(err error) (int, ErrorResponse) {
	if e, ok := service.AsError(err); ok {
		switch {
		case errors.Is(e, service.ErrValidation), errors.Is(e, service.ErrConflict):
			return http.StatusUnprocessableEntity, ErrorResponse{Message: e.Message, Errors: e.Fields}
		case errors.Is(e, service.ErrUnauthenticated):
			return http.StatusUnauthorized, ErrorResponse{Message: e.Message}
		case errors.Is(e, service.ErrForbidden):
			return http.StatusForbidden, ErrorResponse{Message: e.Message}
		case errors.Is(e, service.ErrNotFound):
			return http.StatusNotFound, ErrorResponse{Message: e.Message}
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		switch he.Code {
		case http.StatusUnauthorized:
			return he.Code, ErrorResponse{Message: msgUnauthenticated}
		case http.StatusNotFound:
			return he.Code, ErrorResponse{Message: msgNotFound}
		case http.StatusMethodNotAllowed:
			return he.Code, ErrorResponse{Message: msgMethod}
		}
		return he.Code, ErrorResponse{Message: fmt.Sprint(he.Message)}
	}

	detail := ""
	if t.Debug {
		detail = err.Error()
	}
	return http.StatusInternalServerError, ErrorResponse{Message: msgInternal, Error: &detail}
}

// Handle is installed as echo's HTTPErrorHandler.
func (t ErrorTranslator) Handle(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := t.Translate(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).WithError(err).Error("unhandled_error")
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).WithError(werr).Error("write_error_response_failed")
	}
}
