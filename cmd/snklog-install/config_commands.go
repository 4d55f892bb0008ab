package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/snklog/snklog-install/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand(ctx))
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := ctx.explicitConfigPath()
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}
			if target == "" {
				if target, err = config.DefaultPath(); err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			sample := config.Generate(config.Default())
			if err := renameio.WriteFile(target, []byte(sample), 0o644); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd.Context())
			if err != nil {
				return err
			}

			source := ctx.configPath
			if _, err := os.Stat(source); err != nil {
				source += " (not found, using defaults)"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "-- config file: %s\n", source)
			if overrides := envOverrides(); len(overrides) > 0 {
				fmt.Fprintf(out, "-- environment overrides: %s\n", strings.Join(overrides, ", "))
			}
			fmt.Fprint(out, config.Generate(cfg))
			return nil
		},
	}
}

func envOverrides() []string {
	var set []string
	for _, key := range []string{config.EnvURL, config.EnvDir, config.EnvName} {
		if os.Getenv(key) != "" {
			set = append(set, key)
		}
	}
	return set
}
