package actions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefeed/backend/internal/apperr"
	"github.com/pulsefeed/backend/internal/audit"
	"github.com/pulsefeed/backend/internal/authgate"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/ratelimit"
	"github.com/pulsefeed/backend/internal/reqctx"
)

type fakeAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (f *fakeAuditor) Log(ctx context.Context, event audit.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeAuditor) all() []audit.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]audit.Event(nil), f.events...)
}

type staticResolver struct {
	principal *authgate.Principal
	err       error
}

func (s *staticResolver) Resolve(ctx context.Context, token string) (*authgate.Principal, error) {
	return s.principal, s.err
}

type staticLimiter struct {
	decision ratelimit.Decision
	err      error
}

func (s *staticLimiter) Check(ctx context.Context, rule ratelimit.Rule, key string) (ratelimit.Decision, error) {
	return s.decision, s.err
}

func activePrincipal() *authgate.Principal {
	return &authgate.Principal{ID: 1, Role: models.RoleUser, Status: models.StatusActive}
}

func newTestRunner(resolver authgate.Resolver, limiter ratelimit.Limiter, auditor audit.Logger) *Runner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gate := authgate.New(logger, resolver)
	return NewRunner(gate, limiter, ratelimit.DefaultRules(), auditor, logger)
}

func allowAll() *staticLimiter {
	return &staticLimiter{decision: ratelimit.Decision{Allowed: true, Backend: ratelimit.BackendMemory}}
}

func TestDoSuccess(t *testing.T) {
	auditor := &fakeAuditor{}
	runner := newTestRunner(&staticResolver{principal: activePrincipal()}, allowAll(), auditor)

	resp := runner.Do(context.Background(), &Request{
		Action:   "follow",
		Resource: "user:2",
		Policy:   authgate.PolicyUserActive,
		Token:    "token",
	}, func(ctx context.Context, principal *authgate.Principal) (any, error) {
		assert.Equal(t, uint(1), principal.ID)
		return map[string]bool{"following": true}, nil
	})

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, http.StatusOK, resp.HTTPStatus())

	events := auditor.all()
	require.Len(t, events, 1)
	assert.Equal(t, "follow", events[0].Action)
	assert.Equal(t, "user:2", events[0].Resource)
	assert.True(t, events[0].Success)
	assert.Equal(t, audit.SeverityInfo, events[0].Severity)
	assert.Equal(t, uint(1), events[0].UserID)
}

func TestDoAuthFailureIsAudited(t *testing.T) {
	auditor := &fakeAuditor{}
	runner := newTestRunner(&staticResolver{err: apperr.New(apperr.CodeUnauthorized, "invalid token")}, allowAll(), auditor)

	ran := false
	resp := runner.Do(context.Background(), &Request{
		Action: "follow",
		Policy: authgate.PolicyUserActive,
		Token:  "bad",
	}, func(ctx context.Context, principal *authgate.Principal) (any, error) {
		ran = true
		return nil, nil
	})

	assert.False(t, ran)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(apperr.CodeUnauthorized), resp.Error.Code)
	assert.Equal(t, http.StatusUnauthorized, resp.HTTPStatus())

	// Rejected attempts still leave exactly one audit event.
	events := auditor.all()
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.Equal(t, audit.SeverityWarning, events[0].Severity)
	assert.Equal(t, string(apperr.CodeUnauthorized), events[0].ErrorCode)
}

func TestDoRateLimited(t *testing.T) {
	auditor := &fakeAuditor{}
	limiter := &staticLimiter{decision: ratelimit.Decision{
		Allowed:    false,
		RetryAfter: 90 * time.Second,
		Backend:    ratelimit.BackendMemory,
	}}
	runner := newTestRunner(&staticResolver{principal: activePrincipal()}, limiter, auditor)

	ran := false
	resp := runner.Do(context.Background(), &Request{
		Action: "follow",
		Policy: authgate.PolicyUserActive,
		Token:  "token",
	}, func(ctx context.Context, principal *authgate.Principal) (any, error) {
		ran = true
		return nil, nil
	})

	assert.False(t, ran)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(apperr.CodeRateLimited), resp.Error.Code)
	assert.Equal(t, 90, resp.Error.RetryAfter)
	assert.Equal(t, http.StatusTooManyRequests, resp.HTTPStatus())

	events := auditor.all()
	require.Len(t, events, 1)
	assert.Equal(t, string(apperr.CodeRateLimited), events[0].ErrorCode)
}

func TestDoRateLimiterFailureFailsOpen(t *testing.T) {
	auditor := &fakeAuditor{}
	limiter := &staticLimiter{err: errors.New("redis down")}
	runner := newTestRunner(&staticResolver{principal: activePrincipal()}, limiter, auditor)

	resp := runner.Do(context.Background(), &Request{
		Action: "follow",
		Policy: authgate.PolicyUserActive,
		Token:  "token",
	}, func(ctx context.Context, principal *authgate.Principal) (any, error) {
		return "ok", nil
	})

	assert.True(t, resp.Success)
	assert.Equal(t, "ok", resp.Data)
}

func TestDoOperationErrorIsClassified(t *testing.T) {
	auditor := &fakeAuditor{}
	runner := newTestRunner(&staticResolver{principal: activePrincipal()}, allowAll(), auditor)

	resp := runner.Do(context.Background(), &Request{
		Action: "comment.create",
		Policy: authgate.PolicyUserActive,
		Token:  "token",
	}, func(ctx context.Context, principal *authgate.Principal) (any, error) {
		return nil, apperr.New(apperr.CodeNotFound, "activity not found")
	})

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(apperr.CodeNotFound), resp.Error.Code)
	assert.Equal(t, "activity not found", resp.Error.Message)
	assert.Equal(t, http.StatusNotFound, resp.HTTPStatus())
}

func TestDoUnknownErrorIsMasked(t *testing.T) {
	auditor := &fakeAuditor{}
	runner := newTestRunner(&staticResolver{principal: activePrincipal()}, allowAll(), auditor)

	resp := runner.Do(context.Background(), &Request{
		Action: "comment.create",
		Policy: authgate.PolicyUserActive,
		Token:  "token",
	}, func(ctx context.Context, principal *authgate.Principal) (any, error) {
		return nil, errors.New("pq: deadlock detected")
	})

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(apperr.CodeUnknown), resp.Error.Code)
	assert.Equal(t, "internal error", resp.Error.Message)
	assert.Equal(t, http.StatusInternalServerError, resp.HTTPStatus())

	events := auditor.all()
	require.Len(t, events, 1)
	assert.Equal(t, audit.SeverityError, events[0].Severity)
}

func TestDoCarriesRequestContextIntoAudit(t *testing.T) {
	auditor := &fakeAuditor{}
	runner := newTestRunner(&staticResolver{principal: activePrincipal()}, allowAll(), auditor)

	ctx := reqctx.With(context.Background(), reqctx.Context{
		RequestID: "req-123",
		ClientIP:  "203.0.113.9",
		UserAgent: "test-agent",
	})
	runner.Do(ctx, &Request{
		Action:  "follow",
		Policy:  authgate.PolicyUserActive,
		Token:   "token",
		Details: map[string]string{"target_id": "2"},
	}, func(ctx context.Context, principal *authgate.Principal) (any, error) {
		return nil, nil
	})

	events := auditor.all()
	require.Len(t, events, 1)
	assert.Equal(t, "req-123", events[0].RequestID)
	assert.Equal(t, "203.0.113.9", events[0].IP)
	assert.Equal(t, "test-agent", events[0].UserAgent)
	assert.Equal(t, "2", events[0].Details["target_id"])
}
