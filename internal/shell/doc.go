// Package shell helps the user get the install directory onto their PATH.
//
// It handles:
//   - Detecting the user's shell (bash, zsh, fish)
//   - Checking whether a directory is already on a PATH value
//   - Generating the line that puts a directory on PATH for each shell
//   - Locating and safely appending to shell configuration files (rc files)
//
// # Shell Detection
//
// Shell detection tries, in order:
//  1. $SHELL environment variable (most reliable)
//  2. The parent process name
//
// # RC File Management
//
// Supported rc files:
//   - bash: ~/.bashrc
//   - zsh: ~/.zshrc
//   - fish: ~/.config/fish/config.fish
//
// Modifications are idempotent, optionally backed up, and written with an
// atomic rename. A symlinked rc file is edited through the link so dotfile
// managers keep working.
//
// # Example Usage
//
//	det, _ := shell.DetectShell()
//	res, err := shell.EnsurePathEntry(det.Shell, "/home/me/.local/bin", shell.EnsureOptions{
//	    Backup: true,
//	})
package shell
