// Package config loads installer settings from a sandboxed Lua file.
//
// The file defines a single global table:
//
//	install = {
//	  url = "https://example.com/snklog",
//	  dir = "~/.local/bin",
//	  name = "snklog",
//	  mode = "0755",
//	  sha256 = "",
//	  checksum_url = "",
//	  signature_url = "",
//	  keyring = "",
//	  retries = 0,
//	  timeout = "5m",
//	  permissive = false,
//	}
//
// Every field is optional; absent fields keep their defaults. A read-only
// platform table is available while the file runs, so values can depend on
// the host:
//
//	install = {
//	  url = platform.is_macos and "https://example.com/snklog-mac" or nil,
//	}
//
// The VM has no os, io, require, load* or debug globals. Configuration is
// data, not a script that touches the machine.
//
// Precedence, lowest first: Default, the Lua file, environment variables
// (ApplyEnv), then whatever the caller layers on top (command-line flags).
package config
