package handlers

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pulsefeed/backend/internal/apperr"
)

// bearerToken extracts the credential from the Authorization header; empty
// when absent or malformed, which the auth gate rejects as UNAUTHORIZED.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// parseID parses a numeric path parameter inside the action pipeline so a
// malformed id still produces an audited VALIDATION_ERROR outcome.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.New(apperr.CodeValidation, "invalid id")
	}
	return uint(id), nil
}
