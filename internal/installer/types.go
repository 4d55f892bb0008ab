package installer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Step names one stage of an install.
type Step string

const (
	StepEnsureDir Step = "ensure-dir"
	StepFetch     Step = "fetch"
	StepVerify    Step = "verify"
	StepChmod     Step = "chmod"
)

// StepError wraps the failure of a single install step.
type StepError struct {
	Step Step
	// Path is the directory, file or URL the step was acting on.
	Path string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Step, e.Path, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// HTTPStatusError reports a non-2xx response in strict mode.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d", e.StatusCode)
	}
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, status)
}

// Temporary reports whether retrying the request may succeed.
func (e *HTTPStatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

var (
	// ErrEmptyArtifact is returned in strict mode for a zero-length body.
	ErrEmptyArtifact = errors.New("downloaded artifact is empty")
	// ErrArtifactTooLarge is returned when a body exceeds MaxArtifactSize.
	ErrArtifactTooLarge = errors.New("downloaded artifact exceeds size limit")
	// ErrChecksumMismatch is returned when a digest check fails.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrChecksumNotFound is returned when a checksum file has no entry for the artifact.
	ErrChecksumNotFound = errors.New("checksum not found")
	// ErrSignatureInvalid is returned when the detached signature does not verify.
	ErrSignatureInvalid = errors.New("signature verification failed")
)

// VerificationMethod names one integrity check.
type VerificationMethod int

const (
	VerificationNone VerificationMethod = iota
	VerificationSHA256
	VerificationChecksumFile
	VerificationGPG
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationNone:
		return "none"
	case VerificationSHA256:
		return "sha256"
	case VerificationChecksumFile:
		return "checksum-file"
	case VerificationGPG:
		return "gpg"
	default:
		return "unknown"
	}
}

// Verification lists the checks an artifact passed, in the order they ran.
type Verification []VerificationMethod

// String joins the methods with "+", or returns "none".
func (v Verification) String() string {
	if len(v) == 0 {
		return VerificationNone.String()
	}
	parts := make([]string, len(v))
	for i, m := range v {
		parts[i] = m.String()
	}
	return strings.Join(parts, "+")
}

// Result describes a completed install.
type Result struct {
	Path     string
	URL      string
	Size     int64
	SHA256   string
	Verified Verification
	// StatusCode is the HTTP status of the artifact response.
	StatusCode int
	// ReceiptID is empty when no receipt store is configured.
	ReceiptID string
	Duration  time.Duration
}
