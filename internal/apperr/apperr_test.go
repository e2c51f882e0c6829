package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassifyTypedError(t *testing.T) {
	err := New(CodeConflict, "cannot follow yourself")
	ae := Classify(fmt.Errorf("follow: %w", err))
	assert.Equal(t, CodeConflict, ae.Code)
	assert.Equal(t, "cannot follow yourself", ae.Message)
}

func TestClassifyRecordNotFound(t *testing.T) {
	ae := Classify(gorm.ErrRecordNotFound)
	assert.Equal(t, CodeNotFound, ae.Code)
}

func TestClassifyUnknownHidesDetail(t *testing.T) {
	ae := Classify(errors.New("pq: connection reset by peer"))
	assert.Equal(t, CodeUnknown, ae.Code)
	assert.Equal(t, "internal error", ae.Message)
	assert.NotContains(t, ae.Message, "pq:")
}

func TestRateLimitedCarriesRetryAfter(t *testing.T) {
	ae := RateLimited(42)
	assert.Equal(t, CodeRateLimited, ae.Code)
	assert.Equal(t, 42, ae.RetryAfter)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeValidation))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(CodeConflict))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(CodeSessionExpired))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(CodeAccountBanned))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(CodeRateLimited))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeUnknown))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, CodeUnknown, "wrapped")
	assert.True(t, errors.Is(err, cause))
}
