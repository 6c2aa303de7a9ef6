package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/afyajamii/afya/internal/errs"
)

// ErrorHandler renders every error as {"reason", "message"} so clients see
// one shape regardless of which layer failed. Domain sentinels map to
// stable reasons; unrecognized errors become an opaque 500.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"
		reason := errs.Reason(err)

		switch {
		case errors.Is(err, errs.ErrValidation),
			errors.Is(err, errs.ErrDuplicateIdentity):
			status = http.StatusBadRequest
			message = err.Error()
		case errors.Is(err, errs.ErrInvalidCredentials):
			status = http.StatusUnauthorized
			message = "incorrect username or password"
		case errors.Is(err, errs.ErrAccountInactive):
			status = http.StatusForbidden
			message = "account is inactive"
		case errors.Is(err, errs.ErrTokenExpired),
			errors.Is(err, errs.ErrTokenMalformed):
			status = http.StatusUnauthorized
			message = "invalid or expired token"
		case errors.Is(err, errs.ErrNotFound):
			status = http.StatusNotFound
			message = "not found"
		case errors.Is(err, errs.ErrModelUnavailable):
			status = http.StatusInternalServerError
			message = "risk model unavailable"
		default:
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.Code
				message = fmt.Sprint(httpErr.Message)
				reason = reasonForStatus(status)
			}
		}

		if status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).Str("request_id", rid).
				Str("path", c.Request().URL.Path).Msg("request failed")
		}

		_ = c.JSON(status, map[string]string{"reason": reason, "message": message})
	}
}

func reasonForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return "validation_failed"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusGatewayTimeout, http.StatusServiceUnavailable:
		return "dependency_unavailable"
	default:
		return "internal_error"
	}
}
