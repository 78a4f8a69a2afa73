package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"paperarchive/internal/services"
)

// Validate ensures the configuration is usable. The archive secret is not
// required here so that commands such as `config init` and `mnemonic` work
// without one; SecretKey reports its absence when an id is actually derived.
func (c *Config) Validate() error {
	checks := []func() error{
		c.validateArchive,
		c.validateScanner,
		c.validateBarcodes,
		c.validatePaperless,
		c.validateMnemonic,
		c.validateLogging,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
		}
	}
	return nil
}

func (c *Config) validateArchive() error {
	if err := ensurePositive(map[string]int{
		"archive.boxes":   c.Archive.Boxes,
		"archive.folders": c.Archive.Folders,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScanner() error {
	switch c.Scanner.Source {
	case SourceADF, SourceFlatbed:
	default:
		return fmt.Errorf("scanner.source must be %q or %q, got %q", SourceADF, SourceFlatbed, c.Scanner.Source)
	}
	if err := ensurePositive(map[string]int{
		"scanner.resolution":            c.Scanner.Resolution,
		"scanner.poll_interval_seconds": c.Scanner.PollIntervalSeconds,
		"scanner.max_extra_documents":   c.Scanner.MaxExtraDocuments,
	}); err != nil {
		return err
	}
	if c.Scanner.HTTPSFingerprint != "" {
		if _, err := ParseFingerprint(c.Scanner.HTTPSFingerprint); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateBarcodes() error {
	if c.Barcodes.Separator == "" {
		return fmt.Errorf("barcodes.separator must be set")
	}
	if c.Barcodes.Simplex == "" {
		return fmt.Errorf("barcodes.simplex must be set")
	}
	if c.Barcodes.Separator == c.Barcodes.Simplex {
		return fmt.Errorf("barcodes.separator and barcodes.simplex must differ")
	}
	return nil
}

func (c *Config) validatePaperless() error {
	if c.Paperless.Endpoint != "" {
		parsed, err := url.Parse(c.Paperless.Endpoint)
		if err != nil || parsed.Host == "" {
			return fmt.Errorf("paperless.endpoint must be an absolute URL, got %q", c.Paperless.Endpoint)
		}
	}
	if c.Paperless.RequestTimeout <= 0 {
		return fmt.Errorf("paperless.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateMnemonic() error {
	if strings.Contains(c.Mnemonic.WordSeparator, c.Mnemonic.GroupSeparator) {
		return fmt.Errorf("mnemonic.group_separator %q must not occur inside mnemonic.word_separator %q",
			c.Mnemonic.GroupSeparator, c.Mnemonic.WordSeparator)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}

// ParseFingerprint decodes a SHA-256 (or legacy SHA-1) certificate
// fingerprint written as hex, optionally separated by colons.
func ParseFingerprint(value string) ([]byte, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ":", "")
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("scanner.https_fingerprint: %w", err)
	}
	if len(raw) != 32 && len(raw) != 20 {
		return nil, fmt.Errorf("scanner.https_fingerprint must be a SHA-256 or SHA-1 digest, got %d bytes", len(raw))
	}
	return raw, nil
}

func ensurePositive(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
