package escl

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"paperarchive/internal/config"
	"paperarchive/internal/logging"
	"paperarchive/internal/services"
)

const (
	capabilitiesPath = "/eSCL/ScannerCapabilities"
	statusPath       = "/eSCL/ScannerStatus"
	scanJobsPath     = "/eSCL/ScanJobs"
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client issues eSCL requests against one scanner.
type Client struct {
	baseURL  string
	client   HTTPDoer
	interval time.Duration
	maxExtra int
	logger   *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithPollInterval sets the status polling interval used by WaitFor.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithMaxExtraDocuments bounds how many unexpected extra documents a scan job
// may return before ScanPDF gives up.
func WithMaxExtraDocuments(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxExtra = n
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "escl")
	}
}

// New constructs a client for baseURL (scheme and host, no path).
func New(baseURL string, client HTTPDoer, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:   client,
		interval: time.Second,
		maxExtra: 10,
		logger:   logging.NewComponentLogger(nil, "escl"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewConfigured builds a client for the configured scanner host with
// certificate pinning.
func NewConfigured(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.Scanner.Host == "" {
		return nil, services.Wrap(services.ErrConfiguration, "escl", "configure", "scanner.host is not set", nil)
	}
	if cfg.Scanner.HTTPSFingerprint == "" {
		return nil, services.Wrap(services.ErrConfiguration, "escl", "configure", "scanner.https_fingerprint is not set", nil)
	}
	fingerprint, err := config.ParseFingerprint(cfg.Scanner.HTTPSFingerprint)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "escl", "configure", "", err)
	}
	httpClient, err := PinnedHTTPClient(fingerprint)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "escl", "configure", "", err)
	}
	return New("https://"+cfg.Scanner.Host, httpClient,
		WithPollInterval(cfg.PollInterval()),
		WithMaxExtraDocuments(cfg.Scanner.MaxExtraDocuments),
		WithLogger(logger),
	), nil
}

// Capabilities fetches the scanner's capability document.
func (c *Client) Capabilities(ctx context.Context) (Capabilities, error) {
	var caps Capabilities
	if err := c.getXML(ctx, capabilitiesPath, &caps); err != nil {
		return Capabilities{}, err
	}
	return caps, nil
}

// Status fetches the scanner's current state.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var status Status
	if err := c.getXML(ctx, statusPath, &status); err != nil {
		return Status{}, err
	}
	return status, nil
}

// WaitFor polls Status at the configured interval until ready returns true.
// There is no attempt cap: a scanner that never reaches the state keeps the
// caller waiting until ctx is cancelled.
func (c *Client) WaitFor(ctx context.Context, ready func(Status) bool) (Status, error) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		status, err := c.Status(ctx)
		if err != nil {
			return Status{}, err
		}
		if ready(status) {
			return status, nil
		}
		c.logger.Debug("waiting for scanner",
			logging.String("state", status.State),
			logging.String("adf_state", status.AdfState),
		)
		select {
		case <-ctx.Done():
			return Status{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// ScanPDF submits a scan job and returns the single PDF it produces. The
// job URL is polled after the first document until the scanner answers 404;
// each extra document is logged and discarded, and too many of them fail the
// job.
func (c *Client) ScanPDF(ctx context.Context, source string, resolution int) ([]byte, error) {
	esclSource, err := inputSource(source)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "escl", "scan", "", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, scanJobsPath, strings.NewReader(scanSettings(esclSource, resolution)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrScannerProtocol, "escl", "create scan job", c.baseURL+scanJobsPath, err)
	}
	drain(resp)
	if resp.StatusCode != http.StatusCreated {
		return nil, services.ScannerStatus(scanJobsPath, resp.StatusCode, "unexpected status creating scan job")
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return nil, services.ScannerStatus(scanJobsPath, resp.StatusCode, "scan job response has no Location header")
	}
	jobURL, err := url.Parse(location)
	if err != nil {
		return nil, services.ScannerStatus(scanJobsPath, resp.StatusCode, fmt.Sprintf("invalid Location %q", location))
	}
	docPath := strings.TrimRight(jobURL.EscapedPath(), "/") + "/NextDocument"
	c.logger.Info("scan job created", logging.String("location", jobURL.EscapedPath()), logging.String("source", source))

	status, data, err := c.get(ctx, docPath)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, services.ScannerStatus(docPath, status, "unexpected status fetching scanned document")
	}

	for extra := 1; ; extra++ {
		status, _, err := c.get(ctx, docPath)
		if err != nil {
			return nil, err
		}
		if status == http.StatusNotFound {
			break
		}
		logging.WarnWithContext(c.logger, "scan job returned an extra document", "extra_document",
			logging.String(logging.FieldEndpoint, docPath),
			logging.Int("status", status),
			logging.Int("extra", extra),
			logging.String(logging.FieldErrorHint, "only one document per scan job is supported"),
			logging.String(logging.FieldImpact, "the extra document is discarded"),
		)
		if extra >= c.maxExtra {
			return nil, services.ScannerStatus(docPath, status, fmt.Sprintf("scan job still returning documents after %d extra requests", extra))
		}
	}
	return data, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return req, nil
}

func (c *Client) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, services.Wrap(services.ErrScannerProtocol, "escl", "request", c.baseURL+path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, services.Wrap(services.ErrScannerProtocol, "escl", "read response", c.baseURL+path, err)
	}
	return resp.StatusCode, data, nil
}

func (c *Client) getXML(ctx context.Context, path string, out any) error {
	status, data, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return services.ScannerStatus(path, status, "unexpected status")
	}
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(out); err != nil {
		return services.ScannerStatus(path, status, fmt.Sprintf("decode response: %v", err))
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
