package config

import (
	"bytes"
	"fmt"
	"strings"
)

// Generate renders cfg as a Lua config file that ParseString reads back to
// the same values. Empty optional fields are written as comments so the
// sample documents every knob.
func Generate(cfg *Config) string {
	var buf bytes.Buffer

	buf.WriteString("-- snklog-install configuration\n")
	buf.WriteString("-- A read-only `platform` table (os, arch, is_linux, is_macos, distro, when)\n")
	buf.WriteString("-- is available for host-specific values.\n\n")
	buf.WriteString("install = {\n")

	field := func(key, value string) {
		fmt.Fprintf(&buf, "  %s = %s,\n", key, value)
	}
	optional := func(key, value string) {
		if value == "" {
			fmt.Fprintf(&buf, "  -- %s = \"\",\n", key)
			return
		}
		field(key, quoteLuaString(value))
	}

	field("url", quoteLuaString(cfg.URL))
	field("dir", quoteLuaString(cfg.Dir))
	field("name", quoteLuaString(cfg.Name))
	field("mode", quoteLuaString(formatMode(cfg.Mode)))
	optional("sha256", cfg.SHA256)
	optional("checksum_url", cfg.ChecksumURL)
	optional("signature_url", cfg.SignatureURL)
	optional("keyring", cfg.Keyring)
	field("retries", fmt.Sprintf("%d", cfg.Retries))
	field("timeout", quoteLuaString(cfg.Timeout.String()))
	field("permissive", fmt.Sprintf("%t", cfg.Permissive))

	buf.WriteString("}\n")
	return buf.String()
}

func quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}
