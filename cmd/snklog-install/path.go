package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snklog/snklog-install/internal/shell"
)

func newPathCommand(ctx *commandContext) *cobra.Command {
	var shellFlag string
	var write bool
	var backup bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Check that the install directory is on PATH",
		Long: `Report whether the install directory is on PATH and print the shell line
that adds it. With --write the line is appended to the shell's rc file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd.Context())
			if err != nil {
				return err
			}
			dir, err := cfg.TargetDir()
			if err != nil {
				return err
			}

			sh := shell.ShellType(shellFlag)
			if shellFlag == "" {
				det, err := shell.DetectShell()
				if err != nil {
					return fmt.Errorf("detect shell: %w", err)
				}
				ctx.logger.Debug("detected shell", "shell", det.Shell, "method", det.Method, "path", det.ShellPath)
				if !det.Shell.IsValid() {
					return &shell.UnsupportedShellError{Shell: det.ShellPath}
				}
				sh = det.Shell
			}

			line, err := shell.PathExportLine(sh, dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			inPath := shell.DirInPath(dir, os.Getenv("PATH"))

			if !write {
				if inPath {
					fmt.Fprintf(out, "%s is in your PATH\n", dir)
					return nil
				}
				rc, err := shell.GetRCFilePath(sh, "")
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s is not in your PATH. Add this line to %s:\n\n  %s\n", dir, rc, line)
				return nil
			}

			res, err := shell.EnsurePathEntry(sh, dir, shell.EnsureOptions{Backup: backup, DryRun: dryRun})
			if err != nil {
				return err
			}
			switch {
			case res.AlreadyPresent:
				fmt.Fprintf(out, "%s already adds %s to PATH\n", res.RCFile, dir)
			case dryRun:
				fmt.Fprintf(out, "Would add to %s:\n\n  %s\n", res.RCFile, res.Line)
			default:
				if res.BackupPath != "" {
					fmt.Fprintf(out, "Backed up %s to %s\n", res.RCFile, res.BackupPath)
				}
				fmt.Fprintf(out, "Added to %s:\n\n  %s\n\nRestart your shell or source the file to pick it up.\n", res.RCFile, res.Line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&shellFlag, "shell", "", "Shell to configure (bash, zsh, fish); detected if empty")
	cmd.Flags().BoolVar(&write, "write", false, "Append the PATH line to the shell's rc file")
	cmd.Flags().BoolVar(&backup, "backup", false, "Back up the rc file before changing it")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what --write would change without writing")
	return cmd
}
