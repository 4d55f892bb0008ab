package shell

import "fmt"

// ShellType represents a supported shell
type ShellType string

const (
	// ShellBash represents the Bash shell
	ShellBash ShellType = "bash"
	// ShellZsh represents the Z shell
	ShellZsh ShellType = "zsh"
	// ShellFish represents the Fish shell
	ShellFish ShellType = "fish"
	// ShellUnknown represents an unknown or unsupported shell
	ShellUnknown ShellType = "unknown"
)

// BackupSuffix is appended to an rc file path to name its backup.
const BackupSuffix = ".snklog-install-backup"

// String returns the string representation of the shell type
func (s ShellType) String() string {
	return string(s)
}

// IsValid returns true if the shell type is supported
func (s ShellType) IsValid() bool {
	switch s {
	case ShellBash, ShellZsh, ShellFish:
		return true
	default:
		return false
	}
}

// EnsureOptions controls how EnsurePathEntry edits an rc file.
type EnsureOptions struct {
	// Home overrides the home directory used to locate the rc file.
	Home string
	// Backup copies the rc file aside before modification
	Backup bool
	// DryRun reports what would be done without making changes
	DryRun bool
}

// EnsureResult describes what EnsurePathEntry did.
type EnsureResult struct {
	// Shell is the shell whose rc file was examined
	Shell ShellType
	// RCFile is the path to the shell's configuration file
	RCFile string
	// Line is the PATH line for the directory
	Line string
	// Added indicates the line was written
	Added bool
	// AlreadyPresent indicates the rc file already had the line
	AlreadyPresent bool
	// BackupPath is the path to the backup file (if created)
	BackupPath string
}

// DetectionResult contains the result of shell detection
type DetectionResult struct {
	// Shell is the detected shell type
	Shell ShellType
	// Method describes how the shell was detected
	Method string
	// ShellPath is the filesystem path or process name of the shell
	ShellPath string
	// Confidence is the confidence level (high, medium, none)
	Confidence string
}

// UnsupportedShellError represents an unsupported shell error
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	return fmt.Sprintf("unsupported shell: %s (supported: bash, zsh, fish)", e.Shell)
}

// RCFileError represents an error with shell rc file operations
type RCFileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *RCFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rc file error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("rc file error (%s): %s", e.Path, e.Message)
}

func (e *RCFileError) Unwrap() error {
	return e.Cause
}
