package config

const (
	defaultConfigPath          = "~/.config/paperarchive/config.toml"
	defaultStateDir            = "~/.local/share/paperarchive"
	defaultBoxes               = 3
	defaultFolders             = 50
	defaultScannerSource       = SourceADF
	defaultScannerResolution   = 300
	defaultPollIntervalSeconds = 1
	defaultMaxExtraDocuments   = 10
	defaultSeparatorCode       = "ARCHIVE-SEPARATOR"
	defaultSimplexCode         = "ARCHIVE-SIMPLEX"
	defaultPaperlessTimeout    = 30
	defaultWordSeparator       = "-"
	defaultGroupSeparator      = "--"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Scan sources understood by the eSCL client.
const (
	SourceADF     = "ADF"
	SourceFlatbed = "Flatbed"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Archive: Archive{
			Boxes:   defaultBoxes,
			Folders: defaultFolders,
		},
		Scanner: Scanner{
			Source:              defaultScannerSource,
			Resolution:          defaultScannerResolution,
			PollIntervalSeconds: defaultPollIntervalSeconds,
			MaxExtraDocuments:   defaultMaxExtraDocuments,
		},
		Barcodes: Barcodes{
			Separator: defaultSeparatorCode,
			Simplex:   defaultSimplexCode,
		},
		Paperless: Paperless{
			RequestTimeout: defaultPaperlessTimeout,
		},
		Mnemonic: Mnemonic{
			WordSeparator:  defaultWordSeparator,
			GroupSeparator: defaultGroupSeparator,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
