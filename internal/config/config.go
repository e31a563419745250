// =============================================================================
// Order Consolidator - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file.
//
// CONFIGURATION FILE (config.yaml):
//   input_dir: ./input
//   output_dir: ./output
//   upload_dir: ./uploads
//   log_level: info
//   listen_addr: ":8000"
//   tracking_column_aliases: [운송장, 운송장번호, 송장번호]
//
// Every key is optional; unset keys fall back to the defaults below. When
// the default config file does not exist the defaults are used as-is.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when --config is not given.
const DefaultPath = "config.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for exports when the CLI is given no files.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives generated workbooks.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives processed inputs when ArchiveOnSuccess is set.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// UploadDir holds files uploaded to the HTTP server while they are
	// being processed. Each upload gets its own file name.
	// Default: "./uploads"
	UploadDir string `yaml:"upload_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// SERVER SETTINGS
	// =========================================================================

	// ListenAddr is the address of the HTTP upload server.
	// Default: ":8000"
	ListenAddr string `yaml:"listen_addr"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the number of files the CLI processes at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ArchiveOnSuccess moves each successfully processed input file to
	// InputArchiveDir.
	// Default: false
	ArchiveOnSuccess bool `yaml:"archive_on_success"`

	// OutputNameFormat names generated files.
	// Placeholders: {kind}, {uuid}, {timestamp}, {date}, {original}
	// Default: "{kind}_{timestamp}_{uuid}.xlsx"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// WORKBOOK SETTINGS
	// =========================================================================

	// OrderSheetName is the sheet name of the consolidated workbook.
	// Default: "주문 내역 정리"
	OrderSheetName string `yaml:"order_sheet_name"`

	// InvoiceSheetName is the sheet name of the expanded invoice workbook.
	// Default: "송장 번호 일괄등록"
	InvoiceSheetName string `yaml:"invoice_sheet_name"`

	// TrackingColumnAliases are the accepted names of the tracking-number
	// column of an invoice upload, checked in table column order.
	TrackingColumnAliases []string `yaml:"tracking_column_aliases"`
}

// DefaultTrackingColumnAliases are the tracking-number column names used
// when the config file does not list any.
var DefaultTrackingColumnAliases = []string{
	"운송장",
	"운송장번호",
	"운송장 번호",
	"송장",
	"송장번호",
	"송장 번호",
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration from a YAML file. A missing file at
// DefaultPath is not an error.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) && configPath == DefaultPath {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.InputDir == "" {
		cfg.InputDir = "./input"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.InputArchiveDir == "" {
		cfg.InputArchiveDir = "./input_archive"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8000"
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = "{kind}_{timestamp}_{uuid}.xlsx"
	}
	if cfg.OrderSheetName == "" {
		cfg.OrderSheetName = "주문 내역 정리"
	}
	if cfg.InvoiceSheetName == "" {
		cfg.InvoiceSheetName = "송장 번호 일괄등록"
	}
	if len(cfg.TrackingColumnAliases) == 0 {
		cfg.TrackingColumnAliases = append([]string(nil), DefaultTrackingColumnAliases...)
	}
}

// validate checks values that have no sensible default.
func validate(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}

	// Excel rejects longer sheet names.
	for _, name := range []string{cfg.OrderSheetName, cfg.InvoiceSheetName} {
		if len([]rune(name)) > 31 {
			return fmt.Errorf("sheet name %q is longer than 31 characters", name)
		}
	}

	return nil
}
