package testsupport

import (
	"path/filepath"
	"testing"

	"paperarchive/internal/config"
)

// TestSecret is the archive secret used by NewConfig.
const TestSecret = "correct horse battery staple"

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Archive.SecretKey = TestSecret
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSecret overrides the archive secret.
func WithSecret(secret string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Archive.SecretKey = secret
	}
}

// WithUniverse overrides the box and folder counts.
func WithUniverse(boxes, folders int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Archive.Boxes = boxes
		b.cfg.Archive.Folders = folders
	}
}

// WithDuplex enables duplex scanning.
func WithDuplex() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scanner.Duplex = true
	}
}

// WithPaperless points the backend client at endpoint, typically an httptest server.
func WithPaperless(endpoint, token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paperless.Endpoint = endpoint
		b.cfg.Paperless.Token = token
	}
}

// WithScanner points the eSCL client at host with a pinned fingerprint.
func WithScanner(host, fingerprint string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scanner.Host = host
		b.cfg.Scanner.HTTPSFingerprint = fingerprint
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
