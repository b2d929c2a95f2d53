package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/service"
)

// bind decodes the request body. A value of the wrong JSON type is reported
// against its field like any other validation failure.
func bind(c echo.Context, dst any) error {
	err := c.Bind(dst)
	if err == nil {
		return nil
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		field := ute.Field
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return service.FieldError(field, "The "+strings.ReplaceAll(field, "_", " ")+" field has an invalid type.")
	}
	return echo.NewHTTPError(http.StatusBadRequest, "Malformed request body.").SetInternal(err)
}

func parseID(c echo.Context, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, service.NewNotFoundError(resource)
	}
	return uint(id), nil
}
