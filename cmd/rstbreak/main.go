package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gen2brain/rstbreak"
	"github.com/gen2brain/rstbreak/internal/config"
)

// flags holds the command line options of a single invocation.
type flags struct {
	verbose    bool
	configPath string
	prefix     string
	dryRun     bool
	skipEvery  int
	offset     int
	width      int
	fill       uint8
}

// newRootCmd builds the rstbreak command.
func newRootCmd() *cobra.Command {
	var (
		f      flags
		logger *zap.Logger
		cfg    *config.Config
	)

	cmd := &cobra.Command{
		Use:   "rstbreak <file.jpg>",
		Short: "Dump JPEG marker structure and corrupt restart intervals",
		Long: `rstbreak prints the marker/segment structure of a JPEG file and writes a
copy next to it in which selected restart intervals are overwritten.

Every third restart interval, starting with the first, is left intact. In the
others 20 bytes starting 20 bytes past the restart marker are replaced with 0xAA.
The output is named by prepending "patched_" to the input file name.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(cmd, &f)
			if err != nil {
				return err
			}

			logger, err = newLogger(cfg.Logging, f.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			policy := cfg.Policy
			res, err := rstbreak.Process(args[0], &rstbreak.Options{
				Policy: &policy,
				Prefix: cfg.OutputPrefix,
				DryRun: f.dryRun,
				Report: cmd.OutOrStdout(),
				Logger: logger,
			})
			if err != nil {
				if errors.Is(err, rstbreak.ErrMalformedLength) {
					logger.Error("malformed marker segment", zap.String("path", args[0]), zap.Error(err))
				}
				return err
			}

			if res.Output != "" {
				logger.Info("wrote corrupted duplicate",
					zap.String("path", res.Output),
					zap.Int("restarts", len(res.Structure.Restarts)),
					zap.Int("corrupted", len(res.Replacements)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&f.prefix, "prefix", rstbreak.DefaultPrefix, "Prefix for the output file name")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Print the report and plan without writing a file")

	def := rstbreak.DefaultPolicy()
	cmd.Flags().IntVar(&f.skipEvery, "skip-every", def.SkipEvery, "Leave every n-th restart interval intact")
	cmd.Flags().IntVar(&f.offset, "offset", def.Offset, "Bytes between restart marker and corrupted window")
	cmd.Flags().IntVar(&f.width, "width", def.Width, "Size of the corrupted window in bytes")
	cmd.Flags().Uint8Var(&f.fill, "fill", def.Fill, "Byte value written over the window")

	return cmd
}

// loadConfig reads the config file, if any, and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}

	fl := cmd.Flags()
	if fl.Changed("prefix") {
		cfg.OutputPrefix = f.prefix
	}
	if fl.Changed("skip-every") {
		cfg.Policy.SkipEvery = f.skipEvery
	}
	if fl.Changed("offset") {
		cfg.Policy.Offset = f.offset
	}
	if fl.Changed("width") {
		cfg.Policy.Width = f.width
	}
	if fl.Changed("fill") {
		cfg.Policy.Fill = f.fill
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newLogger builds a zap logger writing to stderr. Verbose mode switches to the
// development config at debug level.
func newLogger(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	return loggerConfig(lc, verbose).Build()
}

func loggerConfig(lc config.LoggingConfig, verbose bool) zap.Config {
	zc := zap.NewProductionConfig()
	if lc.Development || verbose {
		zc = zap.NewDevelopmentConfig()
	}

	if lc.Level != "" {
		// Validate has already rejected unknown levels.
		if level, err := zapcore.ParseLevel(lc.Level); err == nil {
			zc.Level = zap.NewAtomicLevelAt(level)
		}
	}

	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return zc
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
