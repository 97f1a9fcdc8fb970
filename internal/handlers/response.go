package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/necroledger/necroledger-api/internal/services"
	"github.com/necroledger/necroledger-api/pkg/logger"
)

// DateLayout is the format of date query parameters and request fields
const DateLayout = "2006-01-02"

const unexpectedErrorMessage = "Error inesperado: no se pudo completar la operación"

// respondError converts a service error into a {success, message} response.
// Unexpected errors are logged, reported to Sentry and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())
	case services.IsDomainError(err):
		fail(c, http.StatusUnprocessableEntity, err.Error())
	default:
		_ = c.Error(err)
		logger.Error("Unexpected error", "path", c.FullPath(), "error", err)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		fail(c, http.StatusInternalServerError, unexpectedErrorMessage)
	}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, fmt.Sprintf("%s inválido", name))
		return 0, false
	}
	return uint(id), true
}

// parseDate parses a YYYY-MM-DD value as midnight UTC
func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q, se espera AAAA-MM-DD", value)
	}
	return t, nil
}

// optionalDateQuery reads an optional date query parameter; it writes a 400 on malformed input
func optionalDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}
	t, err := parseDate(value)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &t, true
}
