// Package paths provides centralized path handling for termcwd: where
// the PowerShell profile, the terminal settings document and the theme
// directories live, and which environment variables name them.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvPoshThemesPath names the built-in, installation-owned themes
	// directory. Themes under it are treated as read-only.
	EnvPoshThemesPath = "POSH_THEMES_PATH"

	// EnvLocalAppData is the per-user local application-data root.
	EnvLocalAppData = "LOCALAPPDATA"

	// EnvUserProfile is the per-user profile root.
	EnvUserProfile = "USERPROFILE"

	// EnvThemeDir overrides the user-writable theme directory.
	EnvThemeDir = "TERMCWD_THEME_DIR"
)

// Default file and directory names
const (
	// ProfileFileName is the PowerShell profile file name.
	ProfileFileName = "Microsoft.PowerShell_profile.ps1"

	// SettingsFileName is the terminal settings file name.
	SettingsFileName = "settings.json"

	// DefaultThemeFileName is the theme file termcwd seeds when the
	// profile has no init line.
	DefaultThemeFileName = "termcwd.omp.json"

	// ThemesDirName is the themes subdirectory created next to the
	// profile when seeding a default theme.
	ThemesDirName = "themes"
)

// ProfileCandidates returns the candidate profile locations in probe
// order: PowerShell 7+ first, then Windows PowerShell 5.1.
func ProfileCandidates() []string {
	home := UserHome()
	if home == "" {
		return nil
	}
	return []string{
		filepath.Join(home, "Documents", "PowerShell", ProfileFileName),
		filepath.Join(home, "Documents", "WindowsPowerShell", ProfileFileName),
	}
}

// SettingsCandidates returns the known terminal settings locations in
// probe order: stable package, preview package, unpackaged install.
// The first existing path wins.
func SettingsCandidates() []string {
	local := os.Getenv(EnvLocalAppData)
	if local == "" {
		local = xdg.DataHome
	}
	return []string{
		filepath.Join(local, "Packages", "Microsoft.WindowsTerminal_8wekyb3d8bbwe", "LocalState", SettingsFileName),
		filepath.Join(local, "Packages", "Microsoft.WindowsTerminalPreview_8wekyb3d8bbwe", "LocalState", SettingsFileName),
		filepath.Join(local, "Microsoft", "Windows Terminal", SettingsFileName),
	}
}

// FirstExisting returns the first path in candidates that exists
// according to stat, or "" when none do.
func FirstExisting(stat func(string) bool, candidates []string) string {
	for _, c := range candidates {
		if stat(c) {
			return c
		}
	}
	return ""
}

// BuiltinThemesDir returns the read-only built-in themes directory, or
// "" when the environment does not name one.
func BuiltinThemesDir() string {
	return os.Getenv(EnvPoshThemesPath)
}

// UserThemeDir returns the user-writable theme directory: the override
// argument when non-empty, then the TERMCWD_THEME_DIR environment
// variable, then a termcwd directory under the per-user data root.
func UserThemeDir(override string) string {
	if override != "" {
		return override
	}
	if env := os.Getenv(EnvThemeDir); env != "" {
		return env
	}
	if local := os.Getenv(EnvLocalAppData); local != "" {
		return filepath.Join(local, "termcwd", ThemesDirName)
	}
	return filepath.Join(xdg.DataHome, "termcwd", ThemesDirName)
}

// UserHome returns the per-user profile root, preferring USERPROFILE
// over the portable home lookup.
func UserHome() string {
	if up := os.Getenv(EnvUserProfile); up != "" {
		return up
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// UnderBuiltinThemes reports whether path falls under the built-in
// themes directory. The match is a case-insensitive prefix comparison,
// matching the case-insensitive filesystem the themes live on.
func UnderBuiltinThemes(path string) bool {
	base := BuiltinThemesDir()
	if base == "" || path == "" {
		return false
	}
	p := strings.ToLower(filepath.Clean(path))
	b := strings.ToLower(filepath.Clean(base))
	if p == b {
		return true
	}
	return strings.HasPrefix(p, b+string(filepath.Separator))
}
