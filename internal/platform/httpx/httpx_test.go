package httpx

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"
)

type statusErr int

func (s statusErr) Error() string       { return fmt.Sprintf("status %d", int(s)) }
func (s statusErr) HTTPStatusCode() int { return int(s) }

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: true},
		{name: "429", err: statusErr(http.StatusTooManyRequests), want: true},
		{name: "503", err: fmt.Errorf("wrapped: %w", statusErr(503)), want: true},
		{name: "400", err: statusErr(http.StatusBadRequest), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryableError(tc.err); got != tc.want {
				t.Fatalf("IsRetryableError: want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestRetryAfterDurationHonorsHeaderAndCap(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "30")
	if got := RetryAfterDuration(resp, time.Second, 10*time.Second); got != 10*time.Second {
		t.Fatalf("RetryAfterDuration: want=%s got=%s", 10*time.Second, got)
	}
	if got := RetryAfterDuration(nil, 2*time.Second, 0); got != 2*time.Second {
		t.Fatalf("RetryAfterDuration (nil): want=%s got=%s", 2*time.Second, got)
	}
}

func TestBackoff(t *testing.T) {
	if got := Backoff(0, time.Second, 8*time.Second); got != time.Second {
		t.Fatalf("Backoff(0): want=%s got=%s", time.Second, got)
	}
	if got := Backoff(2, time.Second, 8*time.Second); got != 4*time.Second {
		t.Fatalf("Backoff(2): want=%s got=%s", 4*time.Second, got)
	}
	if got := Backoff(10, time.Second, 8*time.Second); got != 8*time.Second {
		t.Fatalf("Backoff(10): want=%s got=%s", 8*time.Second, got)
	}
}

func TestSleepReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); err == nil {
		t.Fatalf("Sleep: expected context error")
	}
}

func TestRetryAfterHTTPDate(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", now.Add(3*time.Second).Format(http.TimeFormat))
	if got := retryAfterAt(resp, time.Second, 10*time.Second, now); got != 3*time.Second {
		t.Fatalf("retryAfterAt: want=%s got=%s", 3*time.Second, got)
	}

	resp.Header.Set("Retry-After", now.Add(-time.Minute).Format(http.TimeFormat))
	if got := retryAfterAt(resp, time.Second, 0, now); got != time.Second {
		t.Fatalf("retryAfterAt (past): want=%s got=%s", time.Second, got)
	}
}

func TestJitterSleepStaysInBand(t *testing.T) {
	for i := 0; i < 50; i++ {
		got := JitterSleep(time.Second)
		if got < 800*time.Millisecond || got > 1200*time.Millisecond {
			t.Fatalf("JitterSleep: out of band got=%s", got)
		}
	}
	if JitterSleep(0) != 0 {
		t.Fatalf("JitterSleep(0): want=0")
	}
}
