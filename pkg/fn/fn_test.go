package fn

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResult_OkErr(t *testing.T) {
	r := Ok(42)
	if !r.IsOk() || r.IsErr() {
		t.Error("Ok result misreported")
	}
	v, err := r.Unwrap()
	if v != 42 || err != nil {
		t.Errorf("unwrap: got %v, %v", v, err)
	}

	e := Err[int](errors.New("boom"))
	if e.IsOk() || !e.IsErr() {
		t.Error("Err result misreported")
	}
	if got := e.UnwrapOr(7); got != 7 {
		t.Errorf("UnwrapOr: got %v", got)
	}
}

func TestFromPair(t *testing.T) {
	if r := FromPair(1, nil); r.IsErr() {
		t.Error("FromPair with nil error should be ok")
	}
	if r := FromPair(0, errors.New("x")); r.IsOk() {
		t.Error("FromPair with error should be err")
	}
}

func TestThen_ShortCircuits(t *testing.T) {
	first := func(_ context.Context, n int) Result[int] { return Err[int](errors.New("first failed")) }
	called := false
	second := func(_ context.Context, n int) Result[string] {
		called = true
		return Ok("done")
	}
	r := Then(first, second)(context.Background(), 1)
	if r.IsOk() {
		t.Error("expected error")
	}
	if called {
		t.Error("second stage must not run after a failure")
	}
}

func TestThen_ChainsValues(t *testing.T) {
	double := MapStage(func(n int) int { return n * 2 })
	inc := MapStage(func(n int) int { return n + 1 })
	r := Then(double, inc)(context.Background(), 10)
	if v, _ := r.Unwrap(); v != 21 {
		t.Errorf("got %d, want 21", v)
	}
}

func TestRetry_EventualSuccess(t *testing.T) {
	attempts := 0
	r := Retry(context.Background(), RetryOpts{MaxAttempts: 3, InitialWait: time.Millisecond}, func(_ context.Context) Result[int] {
		attempts++
		if attempts < 3 {
			return Err[int](errors.New("transient"))
		}
		return Ok(attempts)
	})
	if v, _ := r.Unwrap(); v != 3 {
		t.Errorf("expected success on attempt 3, got %v", v)
	}
}

func TestRetry_Exhausted(t *testing.T) {
	attempts := 0
	r := Retry(context.Background(), RetryOpts{MaxAttempts: 2, InitialWait: time.Millisecond}, func(_ context.Context) Result[int] {
		attempts++
		return Err[int](errors.New("permanent"))
	})
	if r.IsOk() {
		t.Error("expected failure")
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestTracedStage_PassesThrough(t *testing.T) {
	stage := TracedStage("double", MapStage(func(n int) int { return n * 2 }))
	r := stage(context.Background(), 4)
	if v, _ := r.Unwrap(); v != 8 {
		t.Errorf("got %d, want 8", v)
	}
}
