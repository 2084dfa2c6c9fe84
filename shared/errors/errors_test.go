package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"
)

func TestAsAppErrorNormalizes(t *testing.T) {
	plain := errors.New("something broke")
	appErr := AsAppError(plain)
	if appErr.Category != CategoryUnknown {
		t.Fatalf("category = %q, want UNKNOWN", appErr.Category)
	}
	if appErr.Cause != plain {
		t.Fatal("cause not preserved")
	}

	auth := NewAuthError("expired")
	wrapped := fmt.Errorf("outer: %w", auth)
	if got := AsAppError(wrapped); got != auth {
		t.Fatal("wrapped AppError not recovered")
	}

	if AsAppError(nil) != nil {
		t.Fatal("nil must normalize to nil")
	}
}

func TestCategoryPredicates(t *testing.T) {
	if !IsAuthError(NewAuthError("x")) {
		t.Error("IsAuthError")
	}
	if !IsNetworkError(NewNetworkError("x", false, nil)) {
		t.Error("IsNetworkError")
	}
	if !IsValidationError(NewValidationError("x", nil)) {
		t.Error("IsValidationError")
	}
	if !IsTimeout(NewNetworkError("x", true, nil)) {
		t.Error("IsTimeout")
	}
	if IsTimeout(NewNetworkError("x", false, nil)) {
		t.Error("non-timeout reported as timeout")
	}
	if IsAuthError(errors.New("plain")) {
		t.Error("plain error is not an auth error")
	}
}

func TestAPIErrorSeverityEscalatesOn5xx(t *testing.T) {
	if e := NewAPIError("x", "/p", "GET", http.StatusBadRequest); e.Severity != SeverityMedium {
		t.Errorf("4xx severity = %q", e.Severity)
	}
	if e := NewAPIError("x", "/p", "GET", http.StatusBadGateway); e.Severity != SeverityHigh {
		t.Errorf("5xx severity = %q", e.Severity)
	}
}

func TestUserMessageMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NewNetworkError("request failed", true, nil),
			"Please check your internet connection and try again."},
		{NewAuthError("Unauthenticated."),
			"Your session has expired. Please login again."},
		{NewAPIError("forbidden", "/p", "GET", 403),
			"You don't have permission to access this resource."},
		{NewAPIError("not found", "/p", "GET", 404),
			"The requested resource could not be found."},
		{NewAPIError("server error", "/p", "GET", 500),
			"Something went wrong on our end. Please try again later."},
		{NewValidationError("validation failed", nil),
			"Some of the information provided is invalid. Please review and try again."},
		{NewUnknownError("a very specific message", nil),
			"a very specific message"},
	}
	for _, tc := range cases {
		if got := UserMessage(tc.err, "fallback"); got != tc.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}

	if got := UserMessage(nil, "fallback"); got != "fallback" {
		t.Errorf("nil error = %q, want fallback", got)
	}
}

func TestLogBufferRingBehavior(t *testing.T) {
	log := NewLog(nil)

	for i := 0; i < maxEntries+10; i++ {
		log.Record(NewUnknownError(strconv.Itoa(i), nil), nil)
	}

	if got := log.Len(); got != maxEntries {
		t.Fatalf("len = %d, want %d", got, maxEntries)
	}

	entries := log.Entries()
	if entries[0].Message != "10" {
		t.Fatalf("oldest entry = %q, want 10", entries[0].Message)
	}
	if entries[len(entries)-1].Message != strconv.Itoa(maxEntries+9) {
		t.Fatalf("newest entry = %q", entries[len(entries)-1].Message)
	}

	log.Clear()
	if log.Len() != 0 || len(log.Entries()) != 0 {
		t.Fatal("clear did not empty the buffer")
	}
}

func TestLogBufferPartialFill(t *testing.T) {
	log := NewLog(nil)
	log.LogAPIError("/driver/profile", "GET", 500, NewAPIError("boom", "/driver/profile", "GET", 500))
	log.LogNetworkError("/driver/dashboard", true, NewNetworkError("slow", true, nil))

	entries := log.Entries()
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Context["status"] != "500" {
		t.Errorf("api entry context = %v", entries[0].Context)
	}
	if entries[1].Context["interpretation"] != "timeout" {
		t.Errorf("network entry context = %v", entries[1].Context)
	}
}

func TestRecordNilIsNoOp(t *testing.T) {
	log := NewLog(nil)
	log.Record(nil, nil)
	if log.Len() != 0 {
		t.Fatal("nil record must not be stored")
	}
}
