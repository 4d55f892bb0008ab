// Package platform detects the host OS, architecture and Linux distribution.
//
// The installer uses the result in two places: the User-Agent sent with every
// download, and a read-only platform table exposed to Lua configuration so a
// config can pick a different artifact URL per host.
package platform

import (
	"context"
	"fmt"
)

// Linux distribution families.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyUnknown = "unknown"
)

// Info contains platform detection information.
type Info struct {
	OS       string // "linux", "darwin"
	Arch     string // normalized ("amd64", "arm64", or GOARCH verbatim)
	ArchRaw  string // GOARCH as reported by the runtime
	Platform string // distro ID (Linux only, e.g. "ubuntu")
	Family   string // canonical family (Linux only, e.g. "debian")
	Version  string // distro version (Linux only, e.g. "22.04")
}

// String renders the platform as "os/arch" with the distro appended when known,
// e.g. "linux/amd64 (ubuntu 22.04)".
func (i *Info) String() string {
	if i == nil {
		return "unknown"
	}
	s := fmt.Sprintf("%s/%s", i.OS, i.Arch)
	if i.IsLinux() && i.Platform != "" {
		if i.Version != "" {
			return fmt.Sprintf("%s (%s %s)", s, i.Platform, i.Version)
		}
		return fmt.Sprintf("%s (%s)", s, i.Platform)
	}
	return s
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool { return i.OS == "linux" }

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool { return i.OS == "darwin" }

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool { return i.Arch == "amd64" }

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool { return i.Arch == "arm64" }

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector returns a fixed Info. Useful for tests and for callers that
// already detected the platform once.
type StaticDetector struct {
	Info *Info
	Err  error
}

// Detect returns the configured Info and error.
func (s StaticDetector) Detect(ctx context.Context) (*Info, error) {
	return s.Info, s.Err
}
