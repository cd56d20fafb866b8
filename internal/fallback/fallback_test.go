package fallback

import (
	"context"
	"errors"
	"strings"
	"testing"
)

var errQuota = errors.New("quota")

func TestRunReturnsFirstSuccess(t *testing.T) {
	var calls []string
	chain := Chain[string, string]{
		Attempt: func(_ context.Context, c string) (string, error) {
			calls = append(calls, c)
			if c == "a" {
				return "", errors.New("boom")
			}
			return "result-" + c, nil
		},
	}
	candidate, result, err := chain.Run(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidate != "b" || result != "result-b" {
		t.Fatalf("unexpected outcome %q %q", candidate, result)
	}
	if strings.Join(calls, ",") != "a,b" {
		t.Fatalf("expected walk to stop after success, calls=%v", calls)
	}
}

func TestRunAppliesPredicate(t *testing.T) {
	chain := Chain[int, int]{
		Attempt: func(_ context.Context, c int) (int, error) { return c * 10, nil },
		Accept:  func(r int) bool { return r >= 30 },
	}
	candidate, result, err := chain.Run(context.Background(), []int{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidate != 3 || result != 30 {
		t.Fatalf("unexpected outcome %d %d", candidate, result)
	}
}

func TestRunExhaustedCollectsFailures(t *testing.T) {
	var observed []string
	chain := Chain[string, string]{
		Attempt: func(_ context.Context, c string) (string, error) {
			if c == "m1" {
				return "", errQuota
			}
			return "", nil
		},
		Accept:    func(r string) bool { return r != "" },
		OnFailure: func(c string, _ error) { observed = append(observed, c) },
	}
	_, _, err := chain.Run(context.Background(), []string{"m1", "m2"})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected exhausted error, got %v", err)
	}
	if !errors.Is(err, errQuota) || !errors.Is(err, ErrRejected) {
		t.Fatalf("expected per-candidate errors to be reachable, got %v", err)
	}
	var exhausted *ExhaustedError[string]
	if !errors.As(err, &exhausted) || len(exhausted.Failures) != 2 {
		t.Fatalf("expected two recorded failures, got %v", err)
	}
	if strings.Join(observed, ",") != "m1,m2" {
		t.Fatalf("unexpected observer calls: %v", observed)
	}
}

func TestRunEmptyCandidates(t *testing.T) {
	chain := Chain[string, string]{Attempt: func(context.Context, string) (string, error) {
		t.Fatal("attempt must not run")
		return "", nil
	}}
	_, _, err := chain.Run(context.Background(), nil)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected exhausted error, got %v", err)
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	chain := Chain[string, string]{Attempt: func(context.Context, string) (string, error) {
		t.Fatal("attempt must not run")
		return "", nil
	}}
	_, _, err := chain.Run(ctx, []string{"a"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
