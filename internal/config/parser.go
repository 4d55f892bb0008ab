package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/snklog/snklog-install/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

const luaGlobalInstall = "install"

// Parser evaluates Lua config files.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a parser. A nil detector leaves the platform global unset.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseError reports a config file that failed to run or has the wrong shape.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Raw Lua error or type mismatch
}

func (e *ParseError) Error() string {
	detail := e.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", e.Message, detail)
}

// ParseString runs luaCode and overlays its install table onto Default().
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		platform.InjectPlatformTable(L, info)
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{Message: "Lua error", Detail: err.Error()}
	}

	cfg := Default()
	v := L.GetGlobal(luaGlobalInstall)
	switch v.Type() {
	case lua.LTNil:
		return cfg, nil
	case lua.LTTable:
	default:
		return nil, &ParseError{
			Message: "invalid 'install' table",
			Detail:  fmt.Sprintf("expected table, got %s", v.Type()),
		}
	}

	if err := extractInstall(v.(*lua.LTable), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the config at path. If path is empty the default location is
// used and a missing file yields Default(); an explicitly named file must
// exist.
func (p *Parser) Load(ctx context.Context, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := p.ParseString(ctx, string(data))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func extractInstall(t *lua.LTable, cfg *Config) error {
	var firstErr error
	fail := func(field, msg string) {
		if firstErr == nil {
			firstErr = &ParseError{Message: fmt.Sprintf("invalid install.%s", field), Detail: msg}
		}
	}

	strField := func(field string, dst *string) {
		switch v := t.RawGetString(field); v.Type() {
		case lua.LTNil:
		case lua.LTString:
			*dst = v.String()
		default:
			fail(field, fmt.Sprintf("expected string, got %s", v.Type()))
		}
	}

	strField("url", &cfg.URL)
	strField("dir", &cfg.Dir)
	strField("name", &cfg.Name)
	strField("sha256", &cfg.SHA256)
	strField("checksum_url", &cfg.ChecksumURL)
	strField("signature_url", &cfg.SignatureURL)
	strField("keyring", &cfg.Keyring)

	// mode = "0755" or mode = 755; both read as octal digits.
	switch v := t.RawGetString("mode"); v.Type() {
	case lua.LTNil:
	case lua.LTString, lua.LTNumber:
		mode, err := ParseMode(v.String())
		if err != nil {
			fail("mode", err.Error())
		} else {
			cfg.Mode = mode
		}
	default:
		fail("mode", fmt.Sprintf("expected string or number, got %s", v.Type()))
	}

	switch v := t.RawGetString("retries"); v.Type() {
	case lua.LTNil:
	case lua.LTNumber:
		cfg.Retries = int(lua.LVAsNumber(v))
	default:
		fail("retries", fmt.Sprintf("expected number, got %s", v.Type()))
	}

	// timeout = "30s" or a number of seconds.
	switch v := t.RawGetString("timeout"); v.Type() {
	case lua.LTNil:
	case lua.LTNumber:
		cfg.Timeout = time.Duration(float64(lua.LVAsNumber(v)) * float64(time.Second))
	case lua.LTString:
		d, err := time.ParseDuration(v.String())
		if err != nil {
			fail("timeout", err.Error())
		} else {
			cfg.Timeout = d
		}
	default:
		fail("timeout", fmt.Sprintf("expected string or number, got %s", v.Type()))
	}

	switch v := t.RawGetString("permissive"); v.Type() {
	case lua.LTNil:
	case lua.LTBool:
		cfg.Permissive = bool(v.(lua.LBool))
	default:
		fail("permissive", fmt.Sprintf("expected boolean, got %s", v.Type()))
	}

	return firstErr
}

// FormatError renders err for the terminal. Verbose keeps the Lua traceback.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) && verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
	}
	return err.Error()
}

// formatMode renders a mode the way the config file spells it.
func formatMode(m os.FileMode) string {
	return "0" + strconv.FormatUint(uint64(m.Perm()), 8)
}
