// Package ai describes the generative-text collaborator used by the engines
// and the rules applied to whatever it returns.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Completer produces free text for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Kind classifies upstream failures. Callers handle every kind the same way
// and only report it in logs.
type Kind string

const (
	KindAuth        Kind = "auth"
	KindRateLimited Kind = "rate_limited"
	KindTimeout     Kind = "timeout"
	KindMalformed   Kind = "malformed"
	KindUnavailable Kind = "unavailable"
)

type Error struct {
	Kind  Kind
	Model string
	Err   error
}

func (e *Error) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Model, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from err.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnavailable
}

// ErrNotConfigured is returned by CompleteWithin when no completer is set.
var ErrNotConfigured = errors.New("generative text is not configured")

// CompleteWithin runs c.Complete with a hard budget. The call is raced against
// a timer so a completer that ignores ctx cannot hold the caller past budget.
func CompleteWithin(ctx context.Context, c Completer, prompt string, maxTokens int, budget time.Duration) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}
	if budget <= 0 {
		return c.Complete(ctx, prompt, maxTokens)
	}

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := c.Complete(ctx, prompt, maxTokens)
		done <- result{text: text, err: err}
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.text, r.err
	case <-timer.C:
		return "", &Error{Kind: KindTimeout, Err: fmt.Errorf("no response within %s", budget)}
	case <-ctx.Done():
		return "", &Error{Kind: KindTimeout, Err: ctx.Err()}
	}
}
