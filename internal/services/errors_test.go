package services_test

import (
	"errors"
	"strings"
	"testing"

	"paperarchive/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrConfiguration, "archive", "load", "secret key missing", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"archive", "load", "secret key missing"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestStatusErrorCarriesEndpointAndCode(t *testing.T) {
	err := services.ScannerStatus("/eSCL/ScanJobs", 503, "unexpected HTTP status for scan request")
	if !errors.Is(err, services.ErrScannerProtocol) {
		t.Fatalf("expected scanner marker, got %v", err)
	}
	var statusErr *services.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T", err)
	}
	if statusErr.StatusCode != 503 || statusErr.Endpoint != "/eSCL/ScanJobs" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected status in message: %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{services.Wrap(services.ErrConfiguration, "", "", "x", nil), 78},
		{services.Wrap(services.ErrValidation, "", "", "x", nil), 65},
		{services.BackendStatus("/api/documents/", 500, ""), 69},
		{errors.New("other"), 1},
	}
	for _, tc := range cases {
		if got := services.ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
