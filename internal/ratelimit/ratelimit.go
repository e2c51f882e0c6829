// Package ratelimit bounds how often an action may run per principal or ip.
// Domain code depends only on the Limiter interface; the in-memory backend
// serves single-instance deployments and the redis backend shares windows
// across instances.
package ratelimit

import (
	"context"
	"time"
)

// Rule is the per-action threshold and window.
type Rule struct {
	Action string
	Limit  int64
	Window time.Duration
}

// Decision is the outcome of a limiter check. Backend identifies which
// implementation produced it, for operational visibility.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
	Backend    string
}

// Limiter checks whether an action keyed by principal or ip may proceed.
type Limiter interface {
	Check(ctx context.Context, rule Rule, key string) (Decision, error)
}

// Rules maps action names to their rule.
type Rules map[string]Rule

// DefaultRules are the built-in per-action thresholds.
func DefaultRules() Rules {
	return Rules{
		"follow":         {Action: "follow", Limit: 30, Window: time.Minute},
		"unfollow":       {Action: "unfollow", Limit: 30, Window: time.Minute},
		"comment.create": {Action: "comment.create", Limit: 20, Window: time.Minute},
		"comment.delete": {Action: "comment.delete", Limit: 20, Window: time.Minute},
		"tags.sync":      {Action: "tags.sync", Limit: 60, Window: time.Minute},
		"tags.promote":   {Action: "tags.promote", Limit: 30, Window: time.Minute},
	}
}

// Get returns the rule for an action, falling back to a conservative default
// so new actions are never unlimited by omission.
func (r Rules) Get(action string) Rule {
	if rule, ok := r[action]; ok {
		return rule
	}
	return Rule{Action: action, Limit: 60, Window: time.Minute}
}
