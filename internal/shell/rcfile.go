package shell

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

// rcComment precedes the PATH line written to an rc file.
const rcComment = "# Added by snklog-install"

// GetRCFilePath returns the path to the shell's RC file under home. An empty
// home uses the current user's home directory.
func GetRCFilePath(shell ShellType, home string) (string, error) {
	if err := ValidateShell(shell); err != nil {
		return "", err
	}

	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
	}

	switch shell {
	case ShellBash:
		return filepath.Join(home, ".bashrc"), nil
	case ShellZsh:
		return filepath.Join(home, ".zshrc"), nil
	case ShellFish:
		return filepath.Join(home, ".config", "fish", "config.fish"), nil
	default:
		return "", &UnsupportedShellError{Shell: shell.String()}
	}
}

// readRCFile returns the content of an rc file, or nil if it does not exist.
func readRCFile(rcPath string) ([]byte, error) {
	info, err := os.Stat(rcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &RCFileError{Path: rcPath, Message: "failed to stat file", Cause: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &RCFileError{Path: rcPath, Message: "not a regular file"}
	}

	content, err := os.ReadFile(rcPath)
	if err != nil {
		return nil, &RCFileError{Path: rcPath, Message: "failed to read file", Cause: err}
	}
	return content, nil
}

// HasLine reports whether content contains line as a whole, uncommented line.
func HasLine(content []byte, line string) bool {
	want := strings.TrimSpace(line)
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == want {
			return true
		}
	}
	return false
}

// BackupRCFile copies the RC file to rcPath+BackupSuffix.
func BackupRCFile(rcPath string) (string, error) {
	content, err := os.ReadFile(rcPath)
	if err != nil {
		return "", &RCFileError{Path: rcPath, Message: "failed to read file for backup", Cause: err}
	}

	backupPath := rcPath + BackupSuffix
	if err := os.WriteFile(backupPath, content, 0o600); err != nil {
		return "", &RCFileError{Path: backupPath, Message: "failed to write backup file", Cause: err}
	}
	return backupPath, nil
}

// appendLine atomically rewrites rcPath as existing content plus line.
func appendLine(rcPath string, existing []byte, line string, perm os.FileMode) error {
	var buf bytes.Buffer
	buf.Write(existing)
	if len(existing) > 0 {
		if !bytes.HasSuffix(existing, []byte("\n")) {
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "%s\n%s\n", rcComment, line)

	if err := os.MkdirAll(filepath.Dir(rcPath), 0o755); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to create parent directory", Cause: err}
	}
	if err := renameio.WriteFile(rcPath, buf.Bytes(), perm); err != nil {
		return &RCFileError{Path: rcPath, Message: "failed to write file", Cause: err}
	}
	return nil
}

// EnsurePathEntry makes sure the shell's rc file puts dir on PATH. Running it
// again is a no-op.
func EnsurePathEntry(shell ShellType, dir string, opts EnsureOptions) (*EnsureResult, error) {
	line, err := PathExportLine(shell, dir)
	if err != nil {
		return nil, err
	}

	rcPath, err := GetRCFilePath(shell, opts.Home)
	if err != nil {
		return nil, fmt.Errorf("get RC file path: %w", err)
	}

	// Edit the link target so a symlinked dotfile stays a symlink.
	target := rcPath
	if resolved, err := filepath.EvalSymlinks(rcPath); err == nil {
		target = resolved
	}

	existing, err := readRCFile(target)
	if err != nil {
		return nil, err
	}

	result := &EnsureResult{Shell: shell, RCFile: rcPath, Line: line}
	if HasLine(existing, line) {
		result.AlreadyPresent = true
		return result, nil
	}
	if opts.DryRun {
		return result, nil
	}

	perm := os.FileMode(0o644)
	if existing != nil {
		if info, err := os.Stat(target); err == nil {
			perm = info.Mode().Perm()
		}
		if opts.Backup {
			backup, err := BackupRCFile(target)
			if err != nil {
				return nil, fmt.Errorf("backup RC file: %w", err)
			}
			result.BackupPath = backup
		}
	}

	if err := appendLine(target, existing, line, perm); err != nil {
		return nil, err
	}
	result.Added = true
	return result, nil
}
