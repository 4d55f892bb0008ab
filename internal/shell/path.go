package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirInPath reports whether dir is one of the entries of pathEnv. Entries
// and dir are compared after cleaning and expanding a leading "~".
func DirInPath(dir, pathEnv string) bool {
	want := normalizeDir(dir)
	if want == "" {
		return false
	}
	for _, entry := range filepath.SplitList(pathEnv) {
		if normalizeDir(entry) == want {
			return true
		}
	}
	return false
}

func normalizeDir(dir string) string {
	if dir == "" {
		return ""
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	return filepath.Clean(dir)
}

// PathExportLine returns the rc file line that puts dir on PATH.
func PathExportLine(shell ShellType, dir string) (string, error) {
	if err := ValidateShell(shell); err != nil {
		return "", err
	}

	switch shell {
	case ShellBash, ShellZsh:
		return fmt.Sprintf(`export PATH="%s:$PATH"`, quotePOSIX(dir)), nil
	case ShellFish:
		return fmt.Sprintf("fish_add_path %s", quoteFish(dir)), nil
	default:
		return "", &UnsupportedShellError{Shell: shell.String()}
	}
}

// quotePOSIX escapes the characters that stay special inside double quotes.
func quotePOSIX(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`").Replace(s)
}

func quoteFish(s string) string {
	if !strings.ContainsAny(s, " \t'\"$\\") {
		return s
	}
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}
