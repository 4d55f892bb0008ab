package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/snklog/snklog-install/internal/config"
	"github.com/snklog/snklog-install/internal/installer"
	"github.com/snklog/snklog-install/internal/shell"
)

// installFlags mirror the config file's install table. Only flags the user
// actually set override the file.
type installFlags struct {
	url          string
	dir          string
	name         string
	mode         string
	sha256       string
	checksumURL  string
	signatureURL string
	keyring      string
	retries      int
	timeout      time.Duration
	permissive   bool
	noProgress   bool
}

func (f *installFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.url, "url", "", "Artifact URL (default "+config.DefaultURL+")")
	fs.StringVar(&f.dir, "dir", "", "Install directory (default "+config.DefaultDir+")")
	fs.StringVar(&f.name, "name", "", "Installed file name (default "+config.DefaultName+")")
	fs.StringVar(&f.mode, "mode", "", "Octal file mode applied after download (default 0755)")
	fs.StringVar(&f.sha256, "sha256", "", "Expected SHA256 of the artifact")
	fs.StringVar(&f.checksumURL, "checksum-url", "", "URL of a SHA256 checksum file listing the artifact")
	fs.StringVar(&f.signatureURL, "signature-url", "", "URL of a detached OpenPGP signature of the artifact")
	fs.StringVar(&f.keyring, "keyring", "", "OpenPGP public keyring used with --signature-url")
	fs.IntVar(&f.retries, "retries", 0, "Extra download attempts on transient failures")
	fs.DurationVar(&f.timeout, "timeout", 0, "Per-request HTTP timeout (default 5m)")
	fs.BoolVar(&f.permissive, "permissive", false, "Install the response body even when the server returns an HTTP error")
	fs.BoolVar(&f.noProgress, "no-progress", false, "Disable the download progress bar")
}

// apply overlays the flags the user set onto cfg.
func (f *installFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("url") {
		cfg.URL = f.url
	}
	if fs.Changed("dir") {
		cfg.Dir = f.dir
	}
	if fs.Changed("name") {
		cfg.Name = f.name
	}
	if fs.Changed("mode") {
		mode, err := config.ParseMode(f.mode)
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	if fs.Changed("sha256") {
		cfg.SHA256 = f.sha256
	}
	if fs.Changed("checksum-url") {
		cfg.ChecksumURL = f.checksumURL
	}
	if fs.Changed("signature-url") {
		cfg.SignatureURL = f.signatureURL
	}
	if fs.Changed("keyring") {
		cfg.Keyring = f.keyring
	}
	if fs.Changed("retries") {
		cfg.Retries = f.retries
	}
	if fs.Changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if fs.Changed("permissive") {
		cfg.Permissive = f.permissive
	}
	return nil
}

func newInstallCommand(ctx *commandContext) *cobra.Command {
	var flags installFlags

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download snklog into the install directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, ctx, &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runInstall(cmd *cobra.Command, ctx *commandContext, flags *installFlags) error {
	cfg, err := ctx.ensureConfig(cmd.Context())
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir, err := cfg.TargetDir()
	if err != nil {
		return err
	}
	keyring, err := config.ExpandHome(cfg.Keyring)
	if err != nil {
		return err
	}
	store, err := ctx.receiptStore()
	if err != nil {
		return err
	}

	var progress io.Writer
	if !flags.noProgress && isTerminal(cmd.ErrOrStderr()) {
		progress = cmd.ErrOrStderr()
	}

	inst, err := installer.New(installer.Options{
		URL:          cfg.URL,
		Dir:          dir,
		Name:         cfg.Name,
		Mode:         cfg.Mode,
		SHA256:       cfg.SHA256,
		ChecksumURL:  cfg.ChecksumURL,
		SignatureURL: cfg.SignatureURL,
		KeyringPath:  keyring,
		Retries:      cfg.Retries,
		Timeout:      cfg.Timeout,
		Permissive:   cfg.Permissive,
		Version:      Version,
		Platform:     ctx.platformInfo(cmd.Context()),
		Progress:     progress,
		Stdout:       cmd.OutOrStdout(),
		Receipts:     store,
		Logger:       ctx.logger,
	})
	if err != nil {
		return err
	}

	if _, err := inst.Install(cmd.Context()); err != nil {
		return fmt.Errorf("install %s: %w", cfg.Name, err)
	}

	if shell.DirInPath(dir, os.Getenv("PATH")) {
		ctx.logger.Debug("install directory is on PATH", "dir", dir)
	} else {
		ctx.logger.Info("install directory is not on PATH; run `snklog-install path --write` to add it", "dir", dir)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
