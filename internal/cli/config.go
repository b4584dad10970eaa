package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sdejongh/dircompare/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or create the dircompare configuration file.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Method: %s\n", cfg.Compare.Method)
			fmt.Fprintf(w, "Case Insensitive: %v\n", cfg.Compare.CaseInsensitive)
			fmt.Fprintf(w, "Verify: %v\n", cfg.Compare.Verify)
			fmt.Fprintf(w, "Flat: %v (full hash: %v)\n", cfg.Compare.Flat, cfg.Compare.FullHash)
			fmt.Fprintf(w, "Sampling: %d blocks of %d bytes\n", cfg.Compare.Sampling.Count, cfg.Compare.Sampling.BlockSize)
			fmt.Fprintf(w, "Workers: %d\n", cfg.Performance.Workers)
			fmt.Fprintf(w, "Output Format: %s\n", cfg.Output.Format)
			fmt.Fprintf(w, "Log Format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(w, "Log Level: %s\n", cfg.Logging.Level)
			fmt.Fprintf(w, "Exclude: %v\n", cfg.Exclude)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalFlags.ConfigFile
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}

			cfg := config.Default()
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}
}
