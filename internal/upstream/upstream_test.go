// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/plexboard/internal/logging"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

var fastRetry = RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}

func getter(url string) func(ctx context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	}
}

func TestDoWithRetry_RetriesOn429(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := DoWithRetry(context.Background(), server.Client(), fastRetry, "test", getter(server.URL))
	if err != nil {
		t.Fatalf("DoWithRetry() error = %v", err)
	}
	resp.Body.Close()

	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestDoWithRetry_MaxRetriesExceeded(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := DoWithRetry(context.Background(), server.Client(), fastRetry, "test", getter(server.URL))
	if err == nil || !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if got := attempts.Load(); got != 4 {
		t.Errorf("attempts = %d, want 4 (1 + 3 retries)", got)
	}
}

func TestDoWithRetry_ContextCanceledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	policy := RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Minute}
	start := time.Now()
	_, err := DoWithRetry(ctx, server.Client(), policy, "test", getter(server.URL))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("backoff did not honour context cancellation")
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"3", 3 * time.Second},
		{"-1", 0},
		{"Wed, 21 Oct 2015 07:28:00 GMT", 0},
	}
	for _, tt := range tests {
		if got := retryAfter(tt.in); got != tt.want {
			t.Errorf("retryAfter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadImage(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		maxBytes    int64
		wantErr     error
		wantType    string
	}{
		{"jpeg", http.StatusOK, "image/jpeg", "\xff\xd8\xff", 1024, nil, "image/jpeg"},
		{"content type params stripped", http.StatusOK, "image/png; charset=binary", "png", 1024, nil, "image/png"},
		{"not found", http.StatusNotFound, "text/plain", "nope", 1024, ErrNotFound, ""},
		{"html", http.StatusOK, "text/html", "<html>", 1024, ErrNotImage, ""},
		{"too large", http.StatusOK, "image/jpeg", strings.Repeat("x", 100), 10, ErrTooLarge, ""},
		{"empty", http.StatusOK, "image/jpeg", "", 1024, ErrNotImage, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rec.Header().Set("Content-Type", tt.contentType)
			rec.WriteHeader(tt.status)
			_, _ = rec.WriteString(tt.body)
			resp := rec.Result()
			resp.ContentLength = -1
			defer resp.Body.Close()

			img, err := ReadImage(resp, tt.maxBytes)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ReadImage() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadImage() unexpected error: %v", err)
			}
			if img.ContentType != tt.wantType {
				t.Errorf("ContentType = %q, want %q", img.ContentType, tt.wantType)
			}
			if string(img.Data) != tt.body {
				t.Errorf("Data = %q, want %q", img.Data, tt.body)
			}
		})
	}
}

func TestReadImage_ServerErrorIncludesBody(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.WriteHeader(http.StatusBadGateway)
	_, _ = rec.WriteString("plex offline")
	resp := rec.Result()
	defer resp.Body.Close()

	_, err := ReadImage(resp, 1024)
	if err == nil || !strings.Contains(err.Error(), "plex offline") {
		t.Fatalf("expected body in error, got %v", err)
	}
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	b := NewBreaker("test-opens", DefaultBreakerSettings)
	if b.State() != "closed" {
		t.Fatalf("initial state = %s, want closed", b.State())
	}

	for i := 0; i < 10; i++ {
		_ = b.Run(func() error {
			if i < 7 {
				return errors.New("simulated failure")
			}
			return nil
		})
	}
	_ = b.Run(func() error { return errors.New("final failure") })

	if b.State() != "open" {
		t.Fatalf("state = %s, want open", b.State())
	}

	err := b.Run(func() error { return nil })
	if !IsUnavailable(err) {
		t.Errorf("expected breaker rejection, got %v", err)
	}
}

func TestBreaker_NotFoundDoesNotTrip(t *testing.T) {
	s := DefaultBreakerSettings
	s.IsSuccessful = ClientErrorIsSuccess
	b := NewBreaker("test-notfound", s)

	for i := 0; i < 20; i++ {
		_ = b.Run(func() error { return ErrNotFound })
		_ = b.Run(func() error { return &StatusError{Service: "tautulli", StatusCode: http.StatusBadRequest} })
	}
	if b.State() != "closed" {
		t.Errorf("state = %s, want closed after 404s", b.State())
	}
}

func TestBreaker_CanceledDoesNotTrip(t *testing.T) {
	b := NewBreaker("test-canceled", DefaultBreakerSettings)
	for i := 0; i < 20; i++ {
		_ = b.Run(func() error { return context.Canceled })
	}
	if b.State() != "closed" {
		t.Errorf("state = %s, want closed after cancellations", b.State())
	}
}

func TestStatusError(t *testing.T) {
	notFound := &StatusError{Service: "plex", StatusCode: http.StatusNotFound}
	if !errors.Is(notFound, ErrNotFound) {
		t.Error("404 StatusError should match ErrNotFound")
	}

	tests := []struct {
		err  error
		want bool
	}{
		{ErrNotFound, true},
		{&StatusError{StatusCode: http.StatusBadRequest}, true},
		{&StatusError{StatusCode: http.StatusTooManyRequests}, false},
		{&StatusError{StatusCode: http.StatusBadGateway}, false},
		{errors.New("dial tcp: connection refused"), false},
	}
	for _, tt := range tests {
		if got := IsClientError(tt.err); got != tt.want {
			t.Errorf("IsClientError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestCast(t *testing.T) {
	v := 5
	got, err := Cast[int](&v, nil)
	if err != nil || *got != 5 {
		t.Fatalf("Cast() = %v, %v", got, err)
	}
	if _, err := Cast[int]("wrong", nil); err == nil {
		t.Error("expected type error")
	}
	wantErr := errors.New("boom")
	if _, err := Cast[int](nil, wantErr); !errors.Is(err, wantErr) {
		t.Errorf("expected passthrough error, got %v", err)
	}
}
