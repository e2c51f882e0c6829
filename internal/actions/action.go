// Package actions composes the interaction pipeline around each domain
// operation: request context, authentication, rate limiting, the operation
// itself, then audit and metrics on every path. Callers always receive the
// result envelope, never a raw error.
package actions

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/pulsefeed/backend/internal/apperr"
	"github.com/pulsefeed/backend/internal/audit"
	"github.com/pulsefeed/backend/internal/authgate"
	"github.com/pulsefeed/backend/internal/metrics"
	"github.com/pulsefeed/backend/internal/ratelimit"
	"github.com/pulsefeed/backend/internal/reqctx"
)

// Request describes one action invocation.
type Request struct {
	// Action names the operation for rate limiting, audit and metrics.
	Action string
	// Resource identifies what the action touches, e.g. "user:42".
	Resource string
	// Policy is the authgate policy the principal must satisfy.
	Policy string
	// Token is the bearer credential from the caller.
	Token string
	// Details are extra audit fields; the operation may add to them.
	Details map[string]string
}

// ErrorBody is the error half of the result envelope.
type ErrorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// Response is the result envelope every action returns.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`

	status int
}

// HTTPStatus is the status code the boundary responds with.
func (r Response) HTTPStatus() int { return r.status }

// Operation is the domain work executed once the pipeline admits the call.
type Operation func(ctx context.Context, principal *authgate.Principal) (any, error)

// Runner executes actions through the pipeline.
type Runner struct {
	gate    *authgate.Gate
	limiter ratelimit.Limiter
	rules   ratelimit.Rules
	auditor audit.Logger
	logger  *slog.Logger
}

// NewRunner wires the pipeline stages together.
func NewRunner(gate *authgate.Gate, limiter ratelimit.Limiter, rules ratelimit.Rules, auditor audit.Logger, logger *slog.Logger) *Runner {
	return &Runner{gate: gate, limiter: limiter, rules: rules, auditor: auditor, logger: logger}
}

// Do runs one action. Exactly one audit event and one metrics observation are
// recorded regardless of where the pipeline stops; neither can fail the
// action or roll back the mutation.
func (r *Runner) Do(ctx context.Context, req *Request, op Operation) Response {
	start := time.Now()

	principal, opErr := r.gate.Authenticate(ctx, req.Policy, req.Token)

	if opErr == nil {
		opErr = r.checkRate(ctx, req.Action, principal)
	}

	var data any
	if opErr == nil {
		data, opErr = op(ctx, principal)
	}

	r.finish(ctx, req, principal, opErr, time.Since(start))

	if opErr != nil {
		ae := apperr.Classify(opErr)
		return Response{
			Success: false,
			Error: &ErrorBody{
				Code:       string(ae.Code),
				Message:    ae.Message,
				RetryAfter: ae.RetryAfter,
			},
			status: apperr.HTTPStatus(ae.Code),
		}
	}
	return Response{Success: true, Data: data, status: http.StatusOK}
}

func (r *Runner) checkRate(ctx context.Context, action string, principal *authgate.Principal) error {
	rule := r.rules.Get(action)
	key := fmt.Sprintf("user:%d", principal.ID)
	decision, err := r.limiter.Check(ctx, rule, key)
	if err != nil {
		// A broken limiter backend must not take the whole action down;
		// fail open and make the failure visible in logs.
		r.logger.Error("rate limiter check failed", "action", action, "error", err)
		return nil
	}
	if decision.Allowed {
		return nil
	}
	metrics.RateLimited(action, decision.Backend)
	retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return apperr.RateLimited(retryAfter)
}

// finish records the audit event and the metrics observation for every path.
func (r *Runner) finish(ctx context.Context, req *Request, principal *authgate.Principal, opErr error, elapsed time.Duration) {
	rc := reqctx.From(ctx)

	outcome := "success"
	severity := audit.SeverityInfo
	var errorCode, errorMessage string
	if opErr != nil {
		ae := apperr.Classify(opErr)
		outcome = string(ae.Code)
		errorCode = string(ae.Code)
		errorMessage = ae.Message
		if ae.Code == apperr.CodeUnknown {
			severity = audit.SeverityError
		} else {
			severity = audit.SeverityWarning
		}
	}

	metrics.ObserveAction(req.Action, outcome, elapsed)

	event := audit.Event{
		Action:       req.Action,
		Resource:     req.Resource,
		Success:      opErr == nil,
		Severity:     severity,
		IP:           rc.ClientIP,
		UserAgent:    rc.UserAgent,
		RequestID:    rc.RequestID,
		ErrorCode:    errorCode,
		ErrorMessage: errorMessage,
		Details:      req.Details,
	}
	if principal != nil {
		event.UserID = principal.ID
	}
	r.auditor.Log(ctx, event)
}
