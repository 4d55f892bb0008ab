package installer

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// Verifier runs the configured integrity checks against an artifact.
type Verifier struct {
	// SHA256 is a pinned hex digest.
	SHA256 string
	// Checksums is the content of a checksum file, with Name the entry to
	// look up in it.
	Checksums []byte
	Name      string
	// Keyring and Signature enable the OpenPGP check.
	Keyring   openpgp.EntityList
	Signature []byte
}

// Verify checks data against every configured method and reports which ones
// ran. The first failure stops verification.
func (v *Verifier) Verify(data []byte) (Verification, error) {
	var done Verification
	actual := sha256Hex(data)

	if v.SHA256 != "" {
		if !strings.EqualFold(actual, v.SHA256) {
			return done, fmt.Errorf("%w:\nactual:   %s\nexpected: %s", ErrChecksumMismatch, actual, strings.ToLower(v.SHA256))
		}
		done = append(done, VerificationSHA256)
	}

	if v.Checksums != nil {
		expected, err := findChecksum(v.Checksums, v.Name)
		if err != nil {
			return done, err
		}
		if !strings.EqualFold(actual, expected) {
			return done, fmt.Errorf("%w:\nactual:   %s\nexpected: %s", ErrChecksumMismatch, actual, strings.ToLower(expected))
		}
		done = append(done, VerificationChecksumFile)
	}

	if v.Signature != nil {
		if err := verifySignature(v.Keyring, data, v.Signature); err != nil {
			return done, err
		}
		done = append(done, VerificationGPG)
	}

	return done, nil
}

// verifySignature accepts armored or binary detached signatures.
func verifySignature(keyring openpgp.EntityList, data, sig []byte) error {
	if len(keyring) == 0 {
		return fmt.Errorf("%w: keyring is empty", ErrSignatureInvalid)
	}

	_, err := openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(data), bytes.NewReader(sig), nil)
	if err != nil {
		_, err = openpgp.CheckDetachedSignature(keyring, bytes.NewReader(data), bytes.NewReader(sig), nil)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return nil
}

// LoadKeyring reads an armored or binary OpenPGP public keyring.
func LoadKeyring(path string) (openpgp.EntityList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}

	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		keyring, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring %s is empty", path)
	}
	return keyring, nil
}

// FileSHA256 returns the hex SHA256 digest of the file at path.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// findChecksum looks up filename in a checksum file.
// Format: "abc123def456  filename" (sha256sum output; a leading '*' on the
// name marks binary mode). A file holding a single bare digest matches any
// name.
func findChecksum(content []byte, filename string) (string, error) {
	var bare []string

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) == 1 {
			bare = append(bare, parts[0])
			continue
		}

		name := strings.TrimPrefix(parts[1], "*")
		if name == filename || filepath.Base(name) == filename {
			return parts[0], nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan checksum file: %w", err)
	}

	if len(bare) == 1 {
		return bare[0], nil
	}

	return "", fmt.Errorf("%w for %s", ErrChecksumNotFound, filename)
}
