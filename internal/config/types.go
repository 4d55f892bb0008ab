package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the effective installer settings.
type Config struct {
	// URL is the remote artifact location.
	URL string
	// Dir is the target directory. May start with "~/".
	Dir string
	// Name is the installed file name inside Dir.
	Name string
	// Mode is applied to the installed file after download.
	Mode os.FileMode
	// SHA256 is the expected hex digest of the artifact. Empty disables the check.
	SHA256 string
	// ChecksumURL points at a "<digest>  <file>" checksum list.
	ChecksumURL string
	// SignatureURL points at a detached OpenPGP signature of the artifact.
	SignatureURL string
	// Keyring is a path to an OpenPGP public keyring used with SignatureURL.
	Keyring string
	// Retries is the number of extra download attempts after a failure.
	Retries int
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// Permissive writes the response body even for non-2xx statuses.
	Permissive bool
}

// TargetDir returns Dir with a leading "~" expanded.
func (c *Config) TargetDir() (string, error) {
	return ExpandHome(c.Dir)
}

// TargetPath returns the full path of the installed file.
func (c *Config) TargetPath() (string, error) {
	dir, err := c.TargetDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Name), nil
}

// ValidationError reports an invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks the settings for values the installer cannot act on.
func (c *Config) Validate() error {
	if err := validateURL("url", c.URL, true); err != nil {
		return err
	}
	if err := validateURL("checksum_url", c.ChecksumURL, false); err != nil {
		return err
	}
	if err := validateURL("signature_url", c.SignatureURL, false); err != nil {
		return err
	}

	if strings.TrimSpace(c.Dir) == "" {
		return &ValidationError{Field: "dir", Message: "cannot be empty"}
	}

	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if c.Name == "." || c.Name == ".." || strings.ContainsAny(c.Name, `/\`) {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("%q must be a bare file name", c.Name)}
	}

	if c.Mode&^os.ModePerm != 0 {
		return &ValidationError{Field: "mode", Message: fmt.Sprintf("%#o has non-permission bits", uint32(c.Mode))}
	}
	if c.Mode&0o100 == 0 {
		return &ValidationError{Field: "mode", Message: fmt.Sprintf("%#o lacks the owner execute bit", uint32(c.Mode.Perm()))}
	}

	if c.SHA256 != "" && !isHexDigest(c.SHA256) {
		return &ValidationError{Field: "sha256", Message: "must be 64 hex characters"}
	}

	if c.SignatureURL != "" && c.Keyring == "" {
		return &ValidationError{Field: "keyring", Message: "required when signature_url is set"}
	}

	if c.Retries < 0 {
		return &ValidationError{Field: "retries", Message: "cannot be negative"}
	}
	if c.Timeout < 0 {
		return &ValidationError{Field: "timeout", Message: "cannot be negative"}
	}

	return nil
}

func validateURL(field, raw string, required bool) error {
	if raw == "" {
		if required {
			return &ValidationError{Field: field, Message: "cannot be empty"}
		}
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Field: field, Message: err.Error()}
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("unsupported scheme %q (want https)", u.Scheme)}
	}
	if u.Host == "" {
		return &ValidationError{Field: field, Message: "missing host"}
	}
	return nil
}

func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// ParseMode parses an octal permission string such as "0755" or "755".
func ParseMode(s string) (os.FileMode, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0o")
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, &ValidationError{Field: "mode", Message: fmt.Sprintf("%q is not an octal permission", s)}
	}
	return os.FileMode(v), nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
