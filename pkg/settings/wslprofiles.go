package settings

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/arthur-debert/termcwd/pkg/errors"
	"github.com/arthur-debert/termcwd/pkg/logging"
	"github.com/arthur-debert/termcwd/pkg/wsl"
)

// WSLProfileSource is the generated-profile source the terminal stamps
// on WSL profiles.
const WSLProfileSource = "Windows.Terminal.Wsl"

var (
	// wslishNameRe matches profile names that suggest a Linux
	// distribution subsystem.
	wslishNameRe = regexp.MustCompile(`(?i)\b(wsl|ubuntu|debian|kali|opensuse|suse|sles|alpine|arch|fedora|oracle|pengwin)\b`)

	// explicitDispatchRe matches commandlines that already invoke the
	// dispatcher with an explicit distribution flag. Such profiles are
	// never modified.
	explicitDispatchRe = regexp.MustCompile(`(?i)(?:^|[\\/"])wsl(?:\.exe)?"?\s+(?:.*\s)?(?:-d|--distribution)\s+\S+`)

	// launcherExeRe matches a commandline that is nothing but a
	// distribution-specific launcher executable, e.g. ubuntu2204.exe.
	launcherExeRe = regexp.MustCompile(`(?i)^\s*"?(?:[^"|]*[\\/])?([a-z0-9._-]+)\.exe"?\s*$`)
)

// dispatcherNames are launcher basenames that are not distribution
// launchers.
var dispatcherNames = map[string]bool{
	"wsl": true, "wslg": true, "bash": true,
	"cmd": true, "powershell": true, "pwsh": true,
}

// ReconcileWSLProfiles rewrites WSL-ish profile launch commands to
// invoke the dispatcher directly with an explicit distribution, so the
// terminal's directory inheritance works for them. Best-effort:
// profiles whose distribution cannot be resolved are left unchanged
// and are not errors. Returns how many profiles were rewritten.
func (d *Document) ReconcileWSLProfiles(lister wsl.Lister) (int, error) {
	logger := logging.GetLogger("settings")

	listPath := "profiles.list"
	profiles := gjson.Get(d.raw, listPath)
	if !profiles.IsArray() {
		// Older documents keep profiles as a bare array.
		listPath = "profiles"
		profiles = gjson.Get(d.raw, listPath)
		if !profiles.IsArray() {
			return 0, nil
		}
	}

	var distros []string
	distrosFetched := false

	changed := 0
	for i, prof := range profiles.Array() {
		name := prof.Get("name").String()
		source := prof.Get("source").String()
		cmdline := prof.Get("commandline").String()

		if source != WSLProfileSource && !wslishNameRe.MatchString(name) {
			continue
		}
		if explicitDispatchRe.MatchString(cmdline) {
			logger.Debug().Str("profile", name).Msg("already dispatches with an explicit distribution")
			continue
		}
		if cmdline != "" && !isDistroLauncher(cmdline) {
			continue
		}

		if !distrosFetched {
			distrosFetched = true
			var err error
			distros, err = lister.Distros()
			if err != nil {
				logger.Info().Err(err).Msg("cannot enumerate distributions, leaving WSL profiles unchanged")
				return changed, nil
			}
		}

		distro := matchDistro(name, distros)
		if distro == "" {
			logger.Debug().Str("profile", name).Msg("no installed distribution matches, leaving unchanged")
			continue
		}

		out, err := sjson.Set(d.raw, fmt.Sprintf("%s.%d.commandline", listPath, i), "wsl.exe -d "+distro)
		if err != nil {
			return changed, errors.Wrapf(err, errors.ErrSettingsWrite, "cannot rewrite profile %s", name)
		}
		d.raw = out
		changed++
		logger.Info().Str("profile", name).Str("distro", distro).Msg("profile launch command rewritten")
	}
	return changed, nil
}

// isDistroLauncher reports whether cmdline invokes a distribution-
// specific launcher executable rather than the dispatcher or a shell.
func isDistroLauncher(cmdline string) bool {
	m := launcherExeRe.FindStringSubmatch(cmdline)
	if m == nil {
		return false
	}
	return !dispatcherNames[strings.ToLower(m[1])]
}

// matchDistro resolves a profile name against installed distribution
// names: exact normalized equality first, then containment either way.
func matchDistro(name string, distros []string) string {
	n := normalize(name)
	if n == "" {
		return ""
	}
	for _, d := range distros {
		if normalize(d) == n {
			return d
		}
	}
	for _, d := range distros {
		nd := normalize(d)
		if nd != "" && (strings.Contains(n, nd) || strings.Contains(nd, n)) {
			return d
		}
	}
	return ""
}

// normalize lowercases and strips everything but letters and digits so
// "Ubuntu 22.04" matches "Ubuntu-22.04".
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
