package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/snklog/snklog-install/internal/installer"
	"github.com/snklog/snklog-install/internal/receipt"
	"github.com/snklog/snklog-install/internal/shell"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the installed file and its install receipt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd.Context())
			if err != nil {
				return err
			}
			dir, err := cfg.TargetDir()
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

			rows := [][2]string{{"Path", target}}
			sum := ""

			info, statErr := os.Stat(target)
			switch {
			case statErr == nil:
				rows = append(rows,
					[2]string{"Installed", "yes"},
					[2]string{"Size", humanize.IBytes(uint64(info.Size()))},
					[2]string{"Mode", fmt.Sprintf("%#o", uint32(info.Mode().Perm()))},
					[2]string{"Executable", yesNo(unix.Access(target, unix.X_OK) == nil)},
				)
				if sum, err = installer.FileSHA256(target); err != nil {
					return err
				}
				rows = append(rows, [2]string{"SHA256", sum})
			case errors.Is(statErr, os.ErrNotExist):
				rows = append(rows, [2]string{"Installed", "no"})
			default:
				return fmt.Errorf("stat %s: %w", target, statErr)
			}

			rows = append(rows, [2]string{"In PATH", yesNo(shell.DirInPath(dir, os.Getenv("PATH")))})

			r, err := store.Load()
			switch {
			case errors.Is(err, receipt.ErrNoReceipt):
				rows = append(rows, [2]string{"Receipt", "none"})
			case err != nil:
				return err
			default:
				rows = append(rows,
					[2]string{"Receipt", r.ID},
					[2]string{"Installed at", fmt.Sprintf("%s (%s)", r.InstalledAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(r.InstalledAt))},
					[2]string{"Source", r.URL},
					[2]string{"Verification", r.Verification},
				)
				if r.Platform != "" {
					rows = append(rows, [2]string{"Platform", r.Platform})
				}
				if sum != "" {
					rows = append(rows, [2]string{"Matches receipt", yesNo(r.Path == target && r.SHA256 == sum)})
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValue(rows))
			return nil
		},
	}
}
