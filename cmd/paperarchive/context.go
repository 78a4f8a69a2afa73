package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"paperarchive/internal/config"
	"paperarchive/internal/journal"
	"paperarchive/internal/logging"
	"paperarchive/internal/mnemonic"
	"paperarchive/internal/placement"
	"paperarchive/internal/services"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// log returns the process logger, falling back to a discarding logger when
// the configured outputs cannot be opened.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) archiveMap() (*placement.ArchiveMap, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	key, err := cfg.SecretKey()
	if err != nil {
		return nil, err
	}
	return placement.New(key, cfg.Archive.Boxes, cfg.Archive.Folders)
}

func (c *commandContext) codec() (*mnemonic.Codec, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := []mnemonic.Option{mnemonic.WithSeparators(cfg.Mnemonic.WordSeparator, cfg.Mnemonic.GroupSeparator)}
	if cfg.Mnemonic.WordList == "" {
		return mnemonic.Default(opts...), nil
	}
	file, err := os.Open(cfg.Mnemonic.WordList)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "mnemonic", "open word list", cfg.Mnemonic.WordList, err)
	}
	defer file.Close()
	words, err := mnemonic.ReadWordList(file)
	if err != nil {
		return nil, err
	}
	return mnemonic.New(words, opts...)
}

func (c *commandContext) withJournal(fn func(*journal.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
