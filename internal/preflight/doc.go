// Package preflight provides readiness checks for the directories and
// external services the archive tooling depends on.
//
// The CLI "check" command runs RunAll and prints one line per result.
// Service checks are skipped when the service is not configured.
package preflight
