package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snklog/snklog-install/internal/installer"
	"github.com/snklog/snklog-install/internal/receipt"
)

func newUninstallCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the installed file and its receipt",
		Long: `Remove the installed file and its receipt. The install directory and
anything else in it are left alone. A file that changed since it was
installed is only removed with --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd.Context())
			if err != nil {
				return err
			}
			target, err := cfg.TargetPath()
			if err != nil {
				return err
			}
			store, err := ctx.receiptStore()
			if err != nil {
				return err
			}

			lock, err := store.AcquireLock()
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Release(); err != nil {
					ctx.logger.Warn("release install lock", "error", err)
				}
			}()

			r, err := store.Load()
			if err != nil && !errors.Is(err, receipt.ErrNoReceipt) {
				return err
			}
			if r != nil && r.Path != target {
				ctx.logger.Debug("receipt is for a different path", "receipt", r.Path, "target", target)
				r = nil
			}

			out := cmd.OutOrStdout()
			sum, err := installer.FileSHA256(target)
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(out, "Nothing installed at %s\n", target)
				if r != nil && !dryRun {
					return store.Remove()
				}
				return nil
			}
			if err != nil {
				return err
			}

			if !force {
				if r == nil {
					return fmt.Errorf("no install receipt for %s; use --force to remove it anyway", target)
				}
				if r.SHA256 != sum {
					return fmt.Errorf("%s changed since it was installed (sha256 %s, receipt %s); use --force to remove it anyway", target, sum, r.SHA256)
				}
			}

			if dryRun {
				fmt.Fprintf(out, "Would remove %s\n", target)
				return nil
			}

			if err := os.Remove(target); err != nil {
				return fmt.Errorf("remove %s: %w", target, err)
			}
			if r != nil {
				if err := store.Remove(); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "Removed %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove the file even if it changed since install")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be removed without removing it")
	return cmd
}
