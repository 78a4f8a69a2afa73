package paperless

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"paperarchive/internal/config"
	"paperarchive/internal/logging"
	"paperarchive/internal/services"
)

const documentsPath = "/api/documents/"

// HTTPDoer describes the HTTP client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues authenticated requests against the backend.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
	logger  *slog.Logger
}

// New constructs a client rooted at baseURL.
func New(baseURL, token string, client HTTPDoer, logger *slog.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  client,
		logger:  logging.NewComponentLogger(logger, "paperless"),
	}
}

// NewConfigured builds a client from the [paperless] section, loading the
// client certificate when one is configured.
func NewConfigured(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.Paperless.Endpoint == "" {
		return nil, services.Wrap(services.ErrConfiguration, "paperless", "configure", "paperless.endpoint is not set", nil)
	}
	if cfg.Paperless.Token == "" {
		return nil, services.Wrap(services.ErrConfiguration, "paperless", "configure", "paperless.token is not set", nil)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Paperless.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.Paperless.CertFile, cfg.Paperless.KeyFile)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "paperless", "configure", "load client certificate", err)
		}
		transport.TLSClientConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}
	httpClient := &http.Client{Transport: transport, Timeout: cfg.PaperlessTimeout()}
	return New(cfg.Paperless.Endpoint, cfg.Paperless.Token, httpClient, logger), nil
}

// Document is the subset of a backend document record the archive reads.
type Document struct {
	ID                  int64  `json:"id"`
	Title               string `json:"title"`
	ArchiveSerialNumber *int64 `json:"archive_serial_number"`
}

type listResponse struct {
	Count   int        `json:"count"`
	Next    *string    `json:"next"`
	Results []Document `json:"results"`
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, services.Wrap(services.ErrBackend, "paperless", method, "build request", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	endpoint := req.URL.Path
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrBackend, "paperless", req.Method+" "+endpoint, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, services.Wrap(services.ErrBackend, "paperless", req.Method+" "+endpoint, "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.BackendStatus(endpoint, resp.StatusCode, summarize(body))
	}
	return body, nil
}

func (c *Client) getList(ctx context.Context, target string) (listResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return listResponse{}, err
	}
	body, err := c.do(req)
	if err != nil {
		return listResponse{}, err
	}
	var page listResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return listResponse{}, services.Wrap(services.ErrBackend, "paperless", "GET "+req.URL.Path, "decode page", err)
	}
	return page, nil
}

func (c *Client) documentsURL(query url.Values) string {
	target := c.baseURL + documentsPath
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}

func summarize(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	if text == "" {
		return "unexpected HTTP status"
	}
	return fmt.Sprintf("unexpected HTTP status: %s", text)
}
