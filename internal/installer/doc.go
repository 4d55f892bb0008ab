// Package installer deploys the snklog program into a user-local binary
// directory.
//
// An install is a linear sequence of steps, and the first failure stops it:
//
//  1. ensure-dir: create the target directory and any missing parents.
//  2. fetch: GET the artifact, check it, and atomically replace the
//     target file. An interrupted or rejected download never leaves a
//     truncated program behind.
//  3. chmod: apply the configured mode (0755 by default).
//  4. report: print the install path and a PATH reminder.
//
// Failures in the first three steps come back as *StepError values naming the
// step. Non-2xx responses are *HTTPStatusError unless the installer runs in
// permissive mode, which writes whatever body the server returns.
//
// # Verification
//
// Verification is opt-in and additive. Every configured check must pass:
//   - SHA256: compare against a pinned hex digest
//   - checksum file: find the artifact's digest in a "<digest>  <name>" list
//   - GPG: check a detached OpenPGP signature against a local keyring
//
// With nothing configured the artifact is installed as served.
//
// # Usage
//
//	inst, err := installer.New(installer.Options{
//	    URL:  config.DefaultURL,
//	    Dir:  "/home/user/.local/bin",
//	    Name: "snklog",
//	    Mode: 0o755,
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := inst.Install(ctx)
package installer
