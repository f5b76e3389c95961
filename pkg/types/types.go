// Package types defines the shared types used across termcwd.
package types

import (
	"io/fs"
	"time"
)

// FS abstracts the filesystem operations termcwd performs so that
// patchers can run against an in-memory filesystem in tests.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
}

// BackupRecord describes a backup taken before a mutation.
// Records are created once and never mutated; retention is left to the user.
type BackupRecord struct {
	OriginalPath string
	BackupPath   string
	Timestamp    time.Time
}

// DesiredAction is one keybinding/command pair the settings patcher
// reconciles into the terminal's settings document.
type DesiredAction struct {
	// Keys is the trigger-key string, e.g. "alt+shift+-".
	Keys string
	// CommandJSON is the command payload as a raw JSON object.
	CommandJSON string
	// RequiresSplitMode is true when the command must carry
	// splitMode "duplicate" to be considered satisfied.
	RequiresSplitMode bool
}

// StepStatus classifies the outcome of one orchestration step.
type StepStatus string

const (
	StepChanged   StepStatus = "changed"
	StepUnchanged StepStatus = "unchanged"
	StepSkipped   StepStatus = "skipped"
	StepFailed    StepStatus = "failed"
)

// StepResult is the outcome of a single step of a run.
type StepResult struct {
	Name   string
	Status StepStatus
	Detail string
	Backup *BackupRecord
	Err    error
}

// Report is the explicit result of a full run, replacing any notion of
// process-global "did anything change" state.
type Report struct {
	Steps  []StepResult
	DryRun bool
}

// Add records a step result.
func (r *Report) Add(s StepResult) {
	r.Steps = append(r.Steps, s)
}

// Changed reports whether any step mutated (or, in dry-run, would have
// mutated) a file.
func (r *Report) Changed() bool {
	for _, s := range r.Steps {
		if s.Status == StepChanged {
			return true
		}
	}
	return false
}

// Failed reports whether any step ended in an error.
func (r *Report) Failed() bool {
	for _, s := range r.Steps {
		if s.Status == StepFailed {
			return true
		}
	}
	return false
}

// Options is the run configuration resolved from flags, environment and
// the config file.
type Options struct {
	// DryRun previews every mutation without performing it.
	DryRun bool
	// ProfilePath overrides the detected PowerShell profile location.
	ProfilePath string
	// SettingsPath overrides the detected terminal settings location.
	SettingsPath string
	// ThemeDir overrides the user-writable theme directory.
	ThemeDir string
	// EnableCopilot adds the Copilot helper function to the profile.
	EnableCopilot bool
}
