package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dircompare/pkg/config"
	"github.com/sdejongh/dircompare/pkg/engine"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/output"
)

// CompareFlags holds compare command flags
type CompareFlags struct {
	Method          string
	CaseInsensitive bool
	Verify          bool
	Flat            bool
	FullHash        bool
	Format          string
	Output          string
	IgnoreFile      string
	Exclude         []string
	Workers         int
	Progress        bool
	Backend         string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	flags := &CompareFlags{}

	cmd := &cobra.Command{
		Use:   "compare DIR_A DIR_B",
		Short: "Compare two directory trees",
		Long: `Compare two directory trees and report entries only in A, only in B,
or present in both. With --flat, files are grouped by content regardless of
path to find duplicates and moved or copied files.

Methods:
  filename   match on name only
  size       match on name and size
  hash       match on name and a fast content hash (default)
  sampled    match on name and a sampled content hash (--verify confirms with a full hash)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Method, "method", "m", "hash", "comparison method: filename, size, hash, sampled")
	cmd.Flags().BoolVarP(&flags.CaseInsensitive, "case-insensitive", "c", false, "compare names ignoring case")
	cmd.Flags().BoolVar(&flags.Verify, "verify", false, "confirm sampled matches with a full hash")
	cmd.Flags().BoolVar(&flags.Flat, "flat", false, "group files by content instead of path")
	cmd.Flags().BoolVar(&flags.FullHash, "full-hash", false, "flat mode: group by full SHA-256 instead of sampled hash")
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "text", "output format: text, json")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().StringVar(&flags.IgnoreFile, "ignore", "", "file with ignore patterns, one per line")
	cmd.Flags().StringSliceVar(&flags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "parallel hashing workers in flat mode")
	cmd.Flags().BoolVar(&flags.Progress, "progress", true, "show a progress bar on terminals")
	cmd.Flags().StringVar(&flags.Backend, "backend", "local", "filesystem backend: local, billy")

	// Logging flags
	cmd.Flags().StringVar(&flags.LogFile, "log-file", "", "write logs to file instead of stderr")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", "warn", "log level: debug, info, warn, error")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string, flags *CompareFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := validatePaths(args[0], args[1]); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlagsToConfig(cmd, flags, cfg); err != nil {
		return err
	}

	formatter, err := output.New(cfg.Output.Format, globalFlags.Verbose)
	if err != nil {
		return err
	}

	strategy, err := cfg.Strategy()
	if err != nil {
		return err
	}

	matcher, err := buildFilter(cfg.Exclude, flags.IgnoreFile)
	if err != nil {
		return err
	}

	logger, err := createLogger(cmd.ErrOrStderr(), cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	a, err := openBackend(flags.Backend, args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := openBackend(flags.Backend, args[1])
	if err != nil {
		return err
	}
	defer b.Close()

	e := engine.New(a, b, engine.Options{
		Filter:     matcher,
		Logger:     logger,
		Sampling:   cfg.Compare.Sampling,
		BufferSize: cfg.Performance.BufferSize,
	})

	bar := output.NewProgressBar(cmd.ErrOrStderr(), cfg.Output.Progress)
	if bar.Enabled() {
		e.SetProgressCallback(func(u engine.ProgressUpdate) {
			bar.Update(u.Done, u.Total)
		})
	}

	outcome := engine.Start(ctx, func(ctx context.Context) (*models.Report, error) {
		if cfg.Compare.Flat {
			return e.RunFlat(ctx, cfg.FlatOptions())
		}
		return e.Run(ctx, strategy)
	})
	report, err := engine.Wait(ctx, outcome)
	bar.Finish()
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if cfg.Output.Quiet && flags.Output == "" {
		return nil
	}
	return writeReport(cmd.OutOrStdout(), flags.Output, formatter, report)
}

func writeReport(stdout io.Writer, path string, formatter output.Formatter, report *models.Report) error {
	if path == "" {
		return formatter.Format(stdout, report)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := formatter.Format(file, report); err != nil {
		file.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return file.Close()
}

// createLogger builds the logger described by the logging config
func createLogger(stderr io.Writer, cfg config.LoggingConfig) (logging.Logger, error) {
	level := logging.ParseLevel(cfg.Level)
	format := logging.ParseFormat(cfg.Format)

	if cfg.File == "" {
		return logging.NewStreamLogger(stderr, logging.StreamLoggerConfig{
			Format:   format,
			Level:    level,
			Template: cfg.Template,
		}), nil
	}

	logger, err := logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.File,
		Format:     format,
		Level:      level,
		Template:   cfg.Template,
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxBackups: 5,
	})
	if err != nil {
		return nil, err
	}
	return logger, nil
}
