// =============================================================================
// Order Consolidator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (takko)
//   ├── consolidateCmd (takko consolidate)
//   ├── invoiceCmd     (takko invoice)
//   ├── serveCmd       (takko serve)
//   └── versionCmd     (takko version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/donghyeon/takkobebe/internal/config"
	"github.com/donghyeon/takkobebe/internal/converter"
	"github.com/donghyeon/takkobebe/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// Shared state built by PersistentPreRunE.
var (
	cfg    *config.Config
	logger *zap.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "takko",
	Short: "Order consolidator - merge marketplace orders per recipient and expand invoices",
	Long: `takko merges a marketplace order export into one row per recipient, so a
single parcel can be shipped to each recipient, and expands the carrier's
tracking numbers back into one row per ordered item for bulk registration.

Example Usage:
  takko consolidate orders.xlsx          # One row per recipient
  takko invoice combined_with_ids.xlsx   # One row per line item
  takko consolidate                      # Every export in input_dir
  takko serve                            # Browser upload on listen_addr`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		logger, err = newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("configuration loaded", zap.String("path", cfgFile))
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// newLogger builds a production zap logger at level. verbose forces debug.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	return zcfg.Build()
}

// newFileManager builds a FileManager from the loaded configuration.
func newFileManager() *utils.FileManager {
	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.UploadDir)
	fm.ArchiveOnSuccess = cfg.ArchiveOnSuccess
	return fm
}

// newConverter builds a Converter sharing the command's logger.
func newConverter(fm *utils.FileManager) *converter.Converter {
	return converter.New(cfg, fm, logger)
}
