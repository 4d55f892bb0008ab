package main

import (
	"github.com/spf13/cobra"

	"github.com/snklog/snklog-install/internal/platform"
)

func newRootCommand(detector platform.Detector) *cobra.Command {
	var configFlag string
	var verbose bool
	var flags installFlags

	ctx := newCommandContext(&configFlag, &verbose, detector)

	rootCmd := &cobra.Command{
		Use:   "snklog-install",
		Short: "Install snklog into ~/.local/bin",
		Long: `snklog-install downloads the snklog log browser into ~/.local/bin and
makes it executable. Run without a subcommand to install.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx.initLogger(cmd.ErrOrStderr())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, ctx, &flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.register(rootCmd)

	rootCmd.AddCommand(newInstallCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newUninstallCommand(ctx))
	rootCmd.AddCommand(newPathCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
