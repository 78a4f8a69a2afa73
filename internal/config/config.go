package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"paperarchive/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Archive describes the physical archive universe and the secret its
// identifiers are derived from.
type Archive struct {
	SecretKey       string `toml:"secret_key"`
	Boxes           int    `toml:"boxes"`
	Folders         int    `toml:"folders"`
	BoxURLPrefix    string `toml:"box_url_prefix"`
	FolderURLPrefix string `toml:"folder_url_prefix"`
}

// Scanner contains eSCL connection and scan job settings.
type Scanner struct {
	Host                string `toml:"host"`
	HTTPSFingerprint    string `toml:"https_fingerprint"`
	Source              string `toml:"source"`
	Resolution          int    `toml:"resolution"`
	Duplex              bool   `toml:"duplex"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	MaxExtraDocuments   int    `toml:"max_extra_documents"`
}

// Barcodes holds the payloads printed on separator sheets.
type Barcodes struct {
	Separator string `toml:"separator"`
	Simplex   string `toml:"simplex"`
}

// Paperless contains document backend settings.
type Paperless struct {
	Endpoint       string `toml:"endpoint"`
	Token          string `toml:"token"`
	CertFile       string `toml:"cert_file"`
	KeyFile        string `toml:"key_file"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Mnemonic controls how identifiers are rendered as words.
type Mnemonic struct {
	WordSeparator  string `toml:"word_separator"`
	GroupSeparator string `toml:"group_separator"`
	WordList       string `toml:"word_list"`
}

// Paths contains directory configuration.
type Paths struct {
	StateDir  string `toml:"state_dir"`
	OutputDir string `toml:"output_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the archive tooling.
//
// Configuration sections by subsystem:
//   - Archive: secret key, universe size, label URL prefixes
//   - Scanner: eSCL host, pinned certificate, scan job parameters
//   - Barcodes: separator and simplex sheet payloads
//   - Paperless: document backend endpoint and credentials
//   - Mnemonic: word rendering of identifiers
//   - Paths: state and output directories
//   - Logging: log format and level
type Config struct {
	Archive   Archive   `toml:"archive"`
	Scanner   Scanner   `toml:"scanner"`
	Barcodes  Barcodes  `toml:"barcodes"`
	Paperless Paperless `toml:"paperless"`
	Mnemonic  Mnemonic  `toml:"mnemonic"`
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "open", resolvedPath, err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "parse", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("paperarchive.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory and, when set, the output directory.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.OutputDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SecretKey returns the archive secret as key material. A missing secret is a
// configuration error; commands that do not derive identifiers never call it.
func (c *Config) SecretKey() ([]byte, error) {
	secret := strings.TrimSpace(c.Archive.SecretKey)
	if secret == "" {
		return nil, services.Wrap(services.ErrConfiguration, "config", "secret key",
			"archive.secret_key is required (set ARCHIVE_SECRET_KEY)", nil)
	}
	return []byte(secret), nil
}

// JournalPath is the ingest journal database location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

// LockPath is the scanner session lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "scanner.lock")
}

// PollInterval returns the scanner status poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Scanner.PollIntervalSeconds) * time.Second
}

// PaperlessTimeout returns the backend request timeout.
func (c *Config) PaperlessTimeout() time.Duration {
	return time.Duration(c.Paperless.RequestTimeout) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
