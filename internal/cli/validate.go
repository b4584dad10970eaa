package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dircompare/internal/platform"
	"github.com/sdejongh/dircompare/pkg/config"
	"github.com/sdejongh/dircompare/pkg/filter"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// validatePaths rejects empty or malformed root arguments before any I/O
func validatePaths(paths ...string) error {
	for _, p := range paths {
		if err := platform.ValidatePath(p); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with explicitly set flags and
// validates the result
func applyFlagsToConfig(cmd *cobra.Command, flags *CompareFlags, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("method") {
		cfg.Compare.Method = flags.Method
	}
	if changed("case-insensitive") {
		cfg.Compare.CaseInsensitive = flags.CaseInsensitive
	}
	if changed("verify") {
		cfg.Compare.Verify = flags.Verify
	}
	if changed("flat") {
		cfg.Compare.Flat = flags.Flat
	}
	if changed("full-hash") {
		cfg.Compare.FullHash = flags.FullHash
	}
	if changed("format") {
		cfg.Output.Format = flags.Format
	}
	if changed("progress") {
		cfg.Output.Progress = flags.Progress
	}
	if changed("workers") {
		cfg.Performance.Workers = flags.Workers
	}
	if changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, flags.Exclude...)
	}
	if changed("log-file") {
		cfg.Logging.File = flags.LogFile
	}
	if changed("log-format") {
		cfg.Logging.Format = flags.LogFormat
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.LogLevel
	}

	// Disable progress and logging chatter in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
		cfg.Logging.Level = "error"
	}

	if globalFlags.Verbose && !changed("log-level") {
		cfg.Logging.Level = "info"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// buildFilter combines exclude patterns with an optional ignore file
func buildFilter(patterns []string, ignoreFile string) (*filter.Matcher, error) {
	matcher := filter.New(patterns...)
	if ignoreFile != "" {
		if err := matcher.LoadFile(ignoreFile); err != nil {
			return nil, err
		}
	}
	return matcher, nil
}

// openBackend opens a root with the selected filesystem backend
func openBackend(kind, root string) (storage.Backend, error) {
	root = platform.NormalizePath(root)

	var (
		backend storage.Backend
		err     error
	)
	switch kind {
	case "local", "":
		backend, err = storage.NewLocal(root)
	case "billy":
		backend, err = storage.NewBillyOS(root)
	default:
		return nil, fmt.Errorf("unknown backend %q (valid: local, billy)", kind)
	}
	if err != nil {
		return nil, err
	}
	return backend, nil
}
