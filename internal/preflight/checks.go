package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"paperarchive/internal/config"
	"paperarchive/internal/services"
	"paperarchive/internal/services/escl"
	"paperarchive/internal/services/paperless"
)

const (
	scannerCheck   = "Scanner"
	paperlessCheck = "Paperless"
)

// CapabilitySource is the part of the scanner client CheckScanner needs.
type CapabilitySource interface {
	Capabilities(ctx context.Context) (escl.Capabilities, error)
}

// CheckSecret verifies an archive secret is configured.
func CheckSecret(cfg *config.Config) Result {
	const name = "Archive secret"
	if _, err := cfg.SecretKey(); err != nil {
		return Result{Name: name, Detail: "missing (set archive.secret_key or ARCHIVE_SECRET_KEY)"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d boxes, %d folders", cfg.Archive.Boxes, cfg.Archive.Folders)}
}

// CheckScanner fetches the scanner's capabilities and confirms it offers
// source. It uses a 10-second timeout.
func CheckScanner(ctx context.Context, scanner CapabilitySource, source string) Result {
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	caps, err := scanner.Capabilities(checkCtx)
	if err != nil {
		return Result{Name: scannerCheck, Detail: summarizeError(err)}
	}
	model := caps.MakeAndModel
	if model == "" {
		model = "unknown model"
	}
	if !caps.SupportsSource(source) {
		return Result{Name: scannerCheck, Detail: fmt.Sprintf("%s does not offer source %s", model, source)}
	}
	return Result{Name: scannerCheck, Passed: true, Detail: fmt.Sprintf("%s (%s)", model, source)}
}

// CheckPaperless verifies backend connectivity and authentication by
// fetching the first page of documents.
func CheckPaperless(ctx context.Context, client *paperless.Client) Result {
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, _, err := client.Documents(url.Values{"page_size": {"1"}}).Next(checkCtx)
	if err == nil {
		return Result{Name: paperlessCheck, Passed: true, Detail: "Reachable"}
	}
	var status *services.StatusError
	if errors.As(err, &status) && (status.StatusCode == 401 || status.StatusCode == 403) {
		return Result{Name: paperlessCheck, Detail: "auth failed (invalid token)"}
	}
	return Result{Name: paperlessCheck, Detail: summarizeError(err)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (unreachable)"
	}
	if errors.Is(err, escl.ErrFingerprintMismatch) {
		return "certificate fingerprint does not match scanner.https_fingerprint"
	}
	return err.Error()
}
