package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"reelforge/internal/errors"
)

// errInvalidBody is returned when a request body cannot be decoded.
var errInvalidBody = echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
	Error: "invalid request body",
	Code:  string(errors.KindValidation),
})

// fail maps err to its HTTP status. Internal faults are logged with the route
// they happened on; the client only sees the generic message.
func fail(c echo.Context, log logrus.FieldLogger, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"route":  c.Path(),
		}).Error("request failed")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
