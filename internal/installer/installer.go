package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"github.com/snklog/snklog-install/internal/logging"
	"github.com/snklog/snklog-install/internal/platform"
	"github.com/snklog/snklog-install/internal/receipt"
)

// Options configures an Installer. Dir must already be expanded.
type Options struct {
	URL  string
	Dir  string
	Name string
	Mode os.FileMode

	SHA256       string
	ChecksumURL  string
	SignatureURL string
	KeyringPath  string

	Retries    int
	Timeout    time.Duration
	Permissive bool

	// Version and Platform feed the User-Agent and the receipt.
	Version  string
	Platform *platform.Info

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	// Progress receives a download progress bar; nil disables it.
	Progress io.Writer
	// Stdout receives the completion report. Defaults to os.Stdout.
	Stdout io.Writer
	// Receipts, when set, serializes runs with its lock and records the
	// install.
	Receipts *receipt.Store
	Logger   logging.Logger
}

// Installer runs the install sequence described in the package docs.
type Installer struct {
	opts       Options
	downloader *Downloader
	logger     logging.Logger
	stdout     io.Writer
	chmod      func(string, os.FileMode) error
}

// New validates opts and builds an Installer.
func New(opts Options) (*Installer, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("URL is required")
	}
	if opts.Dir == "" {
		return nil, fmt.Errorf("Dir is required")
	}
	if opts.Name == "" {
		return nil, fmt.Errorf("Name is required")
	}
	if opts.SignatureURL != "" && opts.KeyringPath == "" {
		return nil, fmt.Errorf("KeyringPath is required with SignatureURL")
	}
	if opts.Mode == 0 {
		opts.Mode = 0o755
	}

	logger := logging.OrNop(opts.Logger)

	d := NewDownloader(opts.HTTPClient, opts.Timeout)
	d.userAgent = userAgent(opts.Version, opts.Platform)
	d.retries = opts.Retries
	d.permissive = opts.Permissive
	d.progress = opts.Progress
	d.logger = logger

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	return &Installer{opts: opts, downloader: d, logger: logger, stdout: stdout, chmod: os.Chmod}, nil
}

// TargetPath returns where the artifact is installed.
func (i *Installer) TargetPath() string {
	return filepath.Join(i.opts.Dir, i.opts.Name)
}

// Install runs ensure-dir, fetch, chmod and report in order, stopping at the
// first failure.
func (i *Installer) Install(ctx context.Context) (*Result, error) {
	start := time.Now()

	receipts, release, err := i.lock()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := i.EnsureDir(); err != nil {
		return nil, err
	}

	result, err := i.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := i.GrantExecute(); err != nil {
		return nil, err
	}

	if receipts != nil {
		id, err := i.saveReceipt(receipts, result)
		if err != nil {
			// The program is installed; a missing receipt only degrades status/uninstall.
			i.logger.Warn("could not record install receipt", "error", err)
		}
		result.ReceiptID = id
	}

	result.Duration = time.Since(start)
	i.logger.Debug("install complete", "path", result.Path, "bytes", result.Size, "verified", result.Verified.String(), "duration", result.Duration)

	if err := i.Report(result); err != nil {
		return result, err
	}
	return result, nil
}

// EnsureDir creates the target directory and its parents. An existing
// directory, and everything in it, is left alone.
func (i *Installer) EnsureDir() error {
	i.logger.Debug("ensuring target directory", "dir", i.opts.Dir)
	if err := os.MkdirAll(i.opts.Dir, 0o755); err != nil {
		return &StepError{Step: StepEnsureDir, Path: i.opts.Dir, Err: err}
	}
	return nil
}

// Fetch downloads and verifies the artifact, then atomically replaces the
// target file. On any failure the previous target, if there was one, is
// untouched.
func (i *Installer) Fetch(ctx context.Context) (*Result, error) {
	i.logger.Debug("fetching artifact", "url", i.opts.URL)

	dl, err := i.downloader.Get(ctx, i.opts.URL)
	if err != nil {
		return nil, &StepError{Step: StepFetch, Path: i.opts.URL, Err: err}
	}

	verified, err := i.verify(ctx, dl.Body)
	if err != nil {
		return nil, &StepError{Step: StepVerify, Path: i.opts.URL, Err: err}
	}
	if len(verified) == 0 {
		i.logger.Info("artifact not verified; configure sha256, checksum_url or signature_url to check it", "url", i.opts.URL)
	}

	target := i.TargetPath()
	if err := renameio.WriteFile(target, dl.Body, 0o644, renameio.WithTempDir(i.opts.Dir)); err != nil {
		return nil, &StepError{Step: StepFetch, Path: target, Err: fmt.Errorf("write artifact: %w", err)}
	}

	return &Result{
		Path:       target,
		URL:        i.opts.URL,
		Size:       int64(len(dl.Body)),
		SHA256:     sha256Hex(dl.Body),
		Verified:   verified,
		StatusCode: dl.StatusCode,
	}, nil
}

// GrantExecute applies the configured mode to the installed file.
func (i *Installer) GrantExecute() error {
	target := i.TargetPath()
	i.logger.Debug("setting mode", "path", target, "mode", fmt.Sprintf("%#o", uint32(i.opts.Mode.Perm())))
	if err := i.chmod(target, i.opts.Mode.Perm()); err != nil {
		return &StepError{Step: StepChmod, Path: target, Err: err}
	}
	return nil
}

// Report prints the install location and a PATH reminder.
func (i *Installer) Report(result *Result) error {
	_, err := fmt.Fprintf(i.stdout, "%s installed to %s\nMake sure %s is in your PATH to run %s by name.\n",
		i.opts.Name, result.Path, i.opts.Dir, i.opts.Name)
	return err
}

func (i *Installer) verify(ctx context.Context, data []byte) (Verification, error) {
	v := &Verifier{SHA256: i.opts.SHA256, Name: artifactName(i.opts.URL, i.opts.Name)}

	if i.opts.ChecksumURL != "" {
		sums, err := i.downloader.getAux(ctx, i.opts.ChecksumURL)
		if err != nil {
			return nil, fmt.Errorf("download checksums: %w", err)
		}
		v.Checksums = sums
	}

	if i.opts.SignatureURL != "" {
		keyring, err := LoadKeyring(i.opts.KeyringPath)
		if err != nil {
			return nil, err
		}
		sig, err := i.downloader.getAux(ctx, i.opts.SignatureURL)
		if err != nil {
			return nil, fmt.Errorf("download signature: %w", err)
		}
		v.Keyring = keyring
		v.Signature = sig
	}

	return v.Verify(data)
}

// lock takes the install lock. Only a lock held by another run is fatal; a
// state directory that cannot be used drops the lock and the receipt for
// this run.
func (i *Installer) lock() (*receipt.Store, func(), error) {
	store := i.opts.Receipts
	if store == nil {
		return nil, func() {}, nil
	}

	lock, err := store.AcquireLock()
	if errors.Is(err, receipt.ErrLocked) {
		return nil, nil, err
	}
	if err != nil {
		i.logger.Warn("installing without lock or receipt", "state_dir", store.Dir(), "error", err)
		return nil, func() {}, nil
	}

	return store, func() {
		if err := lock.Release(); err != nil {
			i.logger.Warn("release install lock", "error", err)
		}
	}, nil
}

func (i *Installer) saveReceipt(store *receipt.Store, result *Result) (string, error) {
	r := store.New()
	r.Name = i.opts.Name
	r.Path = result.Path
	r.URL = result.URL
	r.Size = result.Size
	r.SHA256 = result.SHA256
	r.Verification = result.Verified.String()
	r.Mode = fmt.Sprintf("%#o", uint32(i.opts.Mode.Perm()))
	if i.opts.Platform != nil {
		r.Platform = i.opts.Platform.String()
	}
	if err := store.Save(r); err != nil {
		return "", err
	}
	return r.ID, nil
}

// artifactName is the name a checksum file lists for the artifact: the last
// URL path segment, or the install name if the URL has none.
func artifactName(rawURL, fallback string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return fallback
	}
	return base
}

func userAgent(version string, info *platform.Info) string {
	ua := DefaultUserAgent
	if version != "" {
		ua += "/" + version
	}
	if info != nil {
		ua += " (" + info.String() + ")"
	}
	return ua
}

// IsHTTPStatus reports whether err carries an HTTP status error with code.
func IsHTTPStatus(err error, code int) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
