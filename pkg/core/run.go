// Package core orchestrates a termcwd run: it sequences the profile,
// theme and settings patchers against the concrete files, decides
// whether each needs touching, and reports what happened as an
// explicit Report rather than process-wide state.
package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/termcwd/pkg/backup"
	"github.com/arthur-debert/termcwd/pkg/filesystem"
	"github.com/arthur-debert/termcwd/pkg/logging"
	"github.com/arthur-debert/termcwd/pkg/paths"
	"github.com/arthur-debert/termcwd/pkg/profile"
	"github.com/arthur-debert/termcwd/pkg/settings"
	"github.com/arthur-debert/termcwd/pkg/theme"
	"github.com/arthur-debert/termcwd/pkg/types"
	"github.com/arthur-debert/termcwd/pkg/wsl"
)

// Step names as they appear in the progress log.
const (
	StepProfile       = "powershell profile"
	StepThemeLocation = "theme location"
	StepThemePwd      = "theme pwd attribute"
	StepActions       = "terminal keybindings"
	StepWSLProfiles   = "wsl profiles"
)

// Runner executes one full reconciliation.
type Runner struct {
	fs     types.FS
	opts   types.Options
	getenv func(string) string
	lister wsl.Lister
}

// NewRunner creates a runner. getenv and lister may be nil, in which
// case the process environment and the real dispatcher are used.
//
// In dry-run mode the full pipeline executes against a copy-on-write
// overlay of fsys: every step takes the same code path a real run
// would, downstream steps see upstream writes, and fsys itself is
// never touched. That keeps the reported preview identical to what a
// real run does.
func NewRunner(fsys types.FS, opts types.Options, getenv func(string) string, lister wsl.Lister) *Runner {
	if getenv == nil {
		getenv = os.Getenv
	}
	if lister == nil {
		lister = wsl.NewCommandLister()
	}
	if opts.DryRun {
		fsys = filesystem.NewOverlay(fsys)
	}
	return &Runner{fs: fsys, opts: opts, getenv: getenv, lister: lister}
}

// Run performs the full sequence. Individual step failures are
// recorded in the report and do not stop later, independent steps.
func (r *Runner) Run() *types.Report {
	logger := logging.GetLogger("core")
	report := &types.Report{DryRun: r.opts.DryRun}
	backups := backup.New(r.fs)

	profilePath := r.profilePath()
	if profilePath == "" {
		report.Add(types.StepResult{Name: StepProfile, Status: types.StepSkipped,
			Detail: "no profile location could be determined"})
	} else {
		r.runProfileAndTheme(report, backups, profilePath)
	}

	r.runSettings(report, backups)

	logger.Debug().Bool("changed", report.Changed()).Msg("run complete")
	return report
}

// runProfileAndTheme patches the profile document in memory, resolves
// and patches the theme (which may itself rewrite profile text), and
// writes the profile back once at the end, only when it changed.
func (r *Runner) runProfileAndTheme(report *types.Report, backups *backup.Manager, profilePath string) {
	original := ""
	if data, err := r.fs.ReadFile(profilePath); err == nil {
		original = string(data)
	} else if !os.IsNotExist(err) {
		report.Add(types.StepResult{Name: StepProfile, Status: types.StepFailed, Err: err})
		return
	}

	patcher := profile.NewPatcher(r.fs, r.getenv, theme.DefaultDocument())
	res, err := patcher.Apply(profilePath, original)
	if err != nil {
		report.Add(types.StepResult{Name: StepProfile, Status: types.StepFailed, Err: err})
		return
	}
	text := res.Content

	text = r.runTheme(report, backups, patcher, text, res.ThemePath)

	if r.opts.EnableCopilot {
		text, _ = patcher.EnsureSnippet(text, profile.SnippetCopilotHelper)
	}

	if text == original {
		report.Add(types.StepResult{Name: StepProfile, Status: types.StepUnchanged})
		return
	}

	rec, err := backups.Backup(profilePath)
	if err != nil {
		report.Add(types.StepResult{Name: StepProfile, Status: types.StepFailed, Err: err})
		return
	}
	if err := r.fs.MkdirAll(filepath.Dir(profilePath), 0755); err != nil {
		report.Add(types.StepResult{Name: StepProfile, Status: types.StepFailed, Backup: rec, Err: err})
		return
	}
	if err := r.fs.WriteFile(profilePath, []byte(text), 0644); err != nil {
		report.Add(types.StepResult{Name: StepProfile, Status: types.StepFailed, Backup: rec, Err: err})
		return
	}
	report.Add(types.StepResult{Name: StepProfile, Status: types.StepChanged,
		Detail: profileDetail(res), Backup: rec})
}

// runTheme ensures the configured theme is writable and carries the
// pwd attribute. When no usable theme exists the OSC prompt snippet is
// inserted into the profile text instead. Returns the possibly
// rewritten profile text.
func (r *Runner) runTheme(report *types.Report, backups *backup.Manager, patcher *profile.Patcher, text, themePath string) string {
	fallback := func(detail string) string {
		out, inserted := patcher.EnsureSnippet(text, profile.SnippetOscPrompt)
		if inserted {
			detail += "; osc prompt snippet added instead"
		}
		report.Add(types.StepResult{Name: StepThemePwd, Status: types.StepSkipped, Detail: detail})
		return out
	}

	if themePath == "" {
		return fallback("no theme configured")
	}
	if _, err := r.fs.Stat(themePath); err != nil {
		return fallback(fmt.Sprintf("theme %s not found", themePath))
	}

	tp := theme.NewPatcher(r.fs, backups)

	newPath, newText, err := tp.EnsureWritable(text, themePath, paths.UserThemeDir(r.opts.ThemeDir))
	if err != nil {
		report.Add(types.StepResult{Name: StepThemeLocation, Status: types.StepFailed, Err: err})
		return text
	}
	if newPath != themePath {
		report.Add(types.StepResult{Name: StepThemeLocation, Status: types.StepChanged,
			Detail: fmt.Sprintf("copied read-only theme to %s", newPath)})
	} else {
		report.Add(types.StepResult{Name: StepThemeLocation, Status: types.StepUnchanged})
	}
	text, themePath = newText, newPath

	changed, rec, err := tp.SetPwdAttribute(themePath)
	switch {
	case err != nil:
		report.Add(types.StepResult{Name: StepThemePwd, Status: types.StepFailed, Err: err})
		out, inserted := patcher.EnsureSnippet(text, profile.SnippetOscPrompt)
		if inserted {
			text = out
		}
	case changed:
		report.Add(types.StepResult{Name: StepThemePwd, Status: types.StepChanged, Backup: rec})
	default:
		report.Add(types.StepResult{Name: StepThemePwd, Status: types.StepUnchanged})
	}
	return text
}

// runSettings reconciles keybindings and WSL profiles into the
// terminal settings document.
func (r *Runner) runSettings(report *types.Report, backups *backup.Manager) {
	path := r.settingsPath()
	if path == "" {
		report.Add(types.StepResult{Name: StepActions, Status: types.StepSkipped,
			Detail: "no terminal settings file found"})
		return
	}

	sp := settings.NewPatcher(r.fs, backups)
	doc, err := sp.Load(path)
	if err != nil {
		report.Add(types.StepResult{Name: StepActions, Status: types.StepFailed, Err: err})
		return
	}

	nActions, err := doc.ReconcileActions(settings.DesiredActions())
	if err != nil {
		report.Add(types.StepResult{Name: StepActions, Status: types.StepFailed, Err: err})
	} else if nActions > 0 {
		report.Add(types.StepResult{Name: StepActions, Status: types.StepChanged,
			Detail: fmt.Sprintf("%d keybinding(s) reconciled", nActions)})
	} else {
		report.Add(types.StepResult{Name: StepActions, Status: types.StepUnchanged})
	}

	nProfiles, err := doc.ReconcileWSLProfiles(r.lister)
	if err != nil {
		report.Add(types.StepResult{Name: StepWSLProfiles, Status: types.StepFailed, Err: err})
	} else if nProfiles > 0 {
		report.Add(types.StepResult{Name: StepWSLProfiles, Status: types.StepChanged,
			Detail: fmt.Sprintf("%d profile(s) rewritten", nProfiles)})
	} else {
		report.Add(types.StepResult{Name: StepWSLProfiles, Status: types.StepUnchanged})
	}

	rec, err := sp.Save(doc)
	if err != nil {
		report.Add(types.StepResult{Name: StepActions, Status: types.StepFailed, Err: err})
		return
	}
	if rec != nil {
		// attach the backup to the last changed settings step
		for i := len(report.Steps) - 1; i >= 0; i-- {
			s := &report.Steps[i]
			if (s.Name == StepActions || s.Name == StepWSLProfiles) && s.Status == types.StepChanged {
				s.Backup = rec
				break
			}
		}
	}
}

func (r *Runner) profilePath() string {
	if r.opts.ProfilePath != "" {
		return r.opts.ProfilePath
	}
	candidates := paths.ProfileCandidates()
	if existing := paths.FirstExisting(r.exists, candidates); existing != "" {
		return existing
	}
	if len(candidates) > 0 {
		// no profile yet: create one at the preferred location
		return candidates[0]
	}
	return ""
}

func (r *Runner) settingsPath() string {
	if r.opts.SettingsPath != "" {
		return r.opts.SettingsPath
	}
	return paths.FirstExisting(r.exists, paths.SettingsCandidates())
}

func (r *Runner) exists(path string) bool {
	_, err := r.fs.Stat(path)
	return err == nil
}

func profileDetail(res profile.Result) string {
	switch {
	case res.DisabledPrompt && res.CollapsedInits > 0:
		return "custom prompt disabled, duplicate init lines commented out"
	case res.DisabledPrompt:
		return "custom prompt disabled"
	case res.CollapsedInits > 0:
		return fmt.Sprintf("%d duplicate init line(s) commented out", res.CollapsedInits)
	case res.SynthesizedInit:
		return "init line added"
	default:
		return "updated"
	}
}
