// Package fallback implements the ordered "try each until one succeeds"
// loop shared by the caption language chain and the model chains.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExhausted marks a chain where every candidate failed.
	ErrExhausted = errors.New("all candidates failed")
	// ErrRejected is recorded when an attempt returned without error but its
	// result did not satisfy the acceptance predicate.
	ErrRejected = errors.New("result rejected")
)

// Failure records why a single candidate was skipped.
type Failure[C any] struct {
	Candidate C
	Err       error
}

// ExhaustedError lists every candidate failure in attempt order. It matches
// ErrExhausted and each underlying error under errors.Is.
type ExhaustedError[C any] struct {
	Failures []Failure[C]
}

func (e *ExhaustedError[C]) Error() string {
	if len(e.Failures) == 0 {
		return "fallback: no candidates"
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%v: %v", f.Candidate, f.Err))
	}
	return "fallback: all candidates failed (" + strings.Join(parts, "; ") + ")"
}

func (e *ExhaustedError[C]) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrExhausted)
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Chain configures one fallback walk.
type Chain[C, R any] struct {
	// Attempt runs a single candidate.
	Attempt func(ctx context.Context, candidate C) (R, error)
	// Accept decides whether a successful attempt ends the walk. Nil accepts
	// every nil-error result.
	Accept func(result R) bool
	// OnFailure observes each skipped candidate, typically for logging.
	OnFailure func(candidate C, err error)
}

// Run tries candidates in order and returns the first accepted result with
// the candidate that produced it. The walk stops early when ctx is done.
func (c Chain[C, R]) Run(ctx context.Context, candidates []C) (C, R, error) {
	var (
		zeroC    C
		zeroR    R
		failures []Failure[C]
	)
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return zeroC, zeroR, err
		}
		result, err := c.Attempt(ctx, candidate)
		if err == nil && c.Accept != nil && !c.Accept(result) {
			err = ErrRejected
		}
		if err == nil {
			return candidate, result, nil
		}
		failures = append(failures, Failure[C]{Candidate: candidate, Err: err})
		if c.OnFailure != nil {
			c.OnFailure(candidate, err)
		}
	}
	return zeroC, zeroR, &ExhaustedError[C]{Failures: failures}
}
