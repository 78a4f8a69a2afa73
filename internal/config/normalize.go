package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeArchive()
	c.normalizeScanner()
	c.normalizeBarcodes()
	if err := c.normalizePaperless(); err != nil {
		return err
	}
	if err := c.normalizeMnemonic(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func lookupEnv(current *string, names ...string) {
	if strings.TrimSpace(*current) != "" {
		return
	}
	for _, name := range names {
		if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
			*current = value
			return
		}
	}
}

func (c *Config) normalizeArchive() {
	lookupEnv(&c.Archive.SecretKey, "ARCHIVE_SECRET_KEY")
	c.Archive.SecretKey = strings.TrimSpace(c.Archive.SecretKey)
	c.Archive.BoxURLPrefix = strings.TrimRight(strings.TrimSpace(c.Archive.BoxURLPrefix), "/")
	c.Archive.FolderURLPrefix = strings.TrimRight(strings.TrimSpace(c.Archive.FolderURLPrefix), "/")
}

func (c *Config) normalizeScanner() {
	c.Scanner.Host = strings.TrimSpace(c.Scanner.Host)
	c.Scanner.HTTPSFingerprint = strings.TrimSpace(c.Scanner.HTTPSFingerprint)
	switch strings.ToLower(strings.TrimSpace(c.Scanner.Source)) {
	case "", "adf", "feeder":
		c.Scanner.Source = SourceADF
	case "flatbed", "platen":
		c.Scanner.Source = SourceFlatbed
	}
	if c.Scanner.PollIntervalSeconds <= 0 {
		c.Scanner.PollIntervalSeconds = defaultPollIntervalSeconds
	}
}

func (c *Config) normalizeBarcodes() {
	c.Barcodes.Separator = strings.TrimSpace(c.Barcodes.Separator)
	c.Barcodes.Simplex = strings.TrimSpace(c.Barcodes.Simplex)
}

func (c *Config) normalizePaperless() error {
	lookupEnv(&c.Paperless.Endpoint, "PAPERLESS_ENDPOINT")
	lookupEnv(&c.Paperless.Token, "PAPERLESS_TOKEN")
	lookupEnv(&c.Paperless.CertFile, "PAPERLESS_CERT")
	lookupEnv(&c.Paperless.KeyFile, "PAPERLESS_CERT_KEY")
	c.Paperless.Endpoint = strings.TrimRight(strings.TrimSpace(c.Paperless.Endpoint), "/")
	c.Paperless.Token = strings.TrimSpace(c.Paperless.Token)

	var err error
	if c.Paperless.CertFile, err = expandPath(strings.TrimSpace(c.Paperless.CertFile)); err != nil {
		return fmt.Errorf("paperless.cert_file: %w", err)
	}
	if c.Paperless.KeyFile, err = expandPath(strings.TrimSpace(c.Paperless.KeyFile)); err != nil {
		return fmt.Errorf("paperless.key_file: %w", err)
	}
	if c.Paperless.KeyFile == "" {
		c.Paperless.KeyFile = c.Paperless.CertFile
	}
	if c.Paperless.RequestTimeout <= 0 {
		c.Paperless.RequestTimeout = defaultPaperlessTimeout
	}
	return nil
}

func (c *Config) normalizeMnemonic() error {
	if c.Mnemonic.WordSeparator == "" {
		c.Mnemonic.WordSeparator = defaultWordSeparator
	}
	if c.Mnemonic.GroupSeparator == "" {
		c.Mnemonic.GroupSeparator = defaultGroupSeparator
	}
	var err error
	if c.Mnemonic.WordList, err = expandPath(strings.TrimSpace(c.Mnemonic.WordList)); err != nil {
		return fmt.Errorf("mnemonic.word_list: %w", err)
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
