// Package profile brings a PowerShell profile to a canonical state
// without destroying unrelated user content. Detection runs on a
// comment-masked shadow of the text so that anything termcwd already
// commented out, and anything inside termcwd snippet blocks, is never
// matched twice. That is what makes every operation idempotent.
package profile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/termcwd/pkg/errors"
	"github.com/arthur-debert/termcwd/pkg/logging"
	"github.com/arthur-debert/termcwd/pkg/paths"
	"github.com/arthur-debert/termcwd/pkg/types"
)

// Patcher rewrites a profile document in memory. The caller owns
// reading and writing the profile file; the patcher only touches the
// filesystem to seed a default theme when it synthesizes an
// initialization line.
type Patcher struct {
	fs        types.FS
	getenv    func(string) string
	seedTheme []byte
}

// NewPatcher creates a profile patcher. seedTheme is the theme document
// written when a profile without an initialization line gets one
// synthesized and no built-in theme is reachable.
func NewPatcher(fsys types.FS, getenv func(string) string, seedTheme []byte) *Patcher {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Patcher{fs: fsys, getenv: getenv, seedTheme: seedTheme}
}

// Result reports what Apply did to the document.
type Result struct {
	Content         string
	Changed         bool
	ThemePath       string
	DisabledPrompt  bool
	CollapsedInits  int
	SynthesizedInit bool
}

// Apply runs the profile operations in order: disable a custom prompt
// function, canonicalize initialization lines (synthesizing one when
// none exist), and extract the configured theme path. The returned
// content is only meant to be written back when Changed is true.
func (p *Patcher) Apply(profilePath, content string) (Result, error) {
	logger := logging.GetLogger("profile")
	res := Result{Content: content}
	profileDir := filepath.Dir(profilePath)

	out, disabled := disableCustomPrompt(content)
	if disabled {
		logger.Info().Str("profile", profilePath).Msg("custom prompt function found, commenting out")
		res.DisabledPrompt = true
	}

	inits := findInitLines(out)
	switch {
	case len(inits) == 0:
		logger.Info().Str("profile", profilePath).Msg("no init line found, appending default")
		if err := p.seedDefaultTheme(profileDir); err != nil {
			return res, err
		}
		out = appendInitLine(out, defaultInitLine(paths.DefaultThemeFileName))
		res.SynthesizedInit = true
	case len(inits) > 1:
		var n int
		out, n = collapseDuplicateInits(out)
		logger.Info().Str("profile", profilePath).Int("count", n).Msg("duplicate init lines commented out")
		res.CollapsedInits = n
	}

	res.ThemePath = extractThemePath(out, profileDir, p.getenv)
	res.Content = out
	res.Changed = out != content
	return res, nil
}

// EnsureSnippet appends the named marker-gated snippet when absent.
func (p *Patcher) EnsureSnippet(content, name string) (string, bool) {
	return ensureSnippet(content, name)
}

// seedDefaultTheme creates the themes directory next to the profile and
// writes a starter theme there. An existing file is left alone. The
// seed comes from the built-in themes directory when one is reachable,
// otherwise from the embedded default document.
func (p *Patcher) seedDefaultTheme(profileDir string) error {
	logger := logging.GetLogger("profile")
	themeDir := filepath.Join(profileDir, paths.ThemesDirName)
	themePath := filepath.Join(themeDir, paths.DefaultThemeFileName)

	if _, err := p.fs.Stat(themePath); err == nil {
		return nil
	}

	seed := p.seedTheme
	if builtin := paths.BuiltinThemesDir(); builtin != "" {
		for _, name := range []string{"jandedobbeleer.omp.json", "default.omp.json"} {
			if data, err := p.fs.ReadFile(filepath.Join(builtin, name)); err == nil {
				seed = data
				break
			}
		}
	}
	if len(seed) == 0 {
		return errors.New(errors.ErrThemeNotFound, "no seed theme available")
	}

	if err := p.fs.MkdirAll(themeDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", themeDir)
	}
	if err := p.fs.WriteFile(themePath, seed, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot seed theme %s", themePath)
	}
	logger.Info().Str("path", themePath).Msg("seeded default theme")
	return nil
}

// RewritePathReferences replaces every occurrence of oldPath, and its
// built-in-themes environment-variable spellings, with newPath in the
// profile text. Used after a read-only theme is copied somewhere
// writable. Matching is case-insensitive like the filesystem the paths
// name.
func RewritePathReferences(content, oldPath, newPath string) string {
	if oldPath == "" || oldPath == newPath {
		return content
	}

	variants := []string{oldPath, filepath.ToSlash(oldPath)}
	if builtin := paths.BuiltinThemesDir(); builtin != "" {
		if rel, err := filepath.Rel(builtin, oldPath); err == nil && !strings.HasPrefix(rel, "..") {
			for _, envRef := range []string{"$env:" + paths.EnvPoshThemesPath, "${env:" + paths.EnvPoshThemesPath + "}"} {
				variants = append(variants,
					envRef+`\`+rel,
					envRef+"/"+filepath.ToSlash(rel),
				)
			}
		}
	}

	for _, v := range variants {
		content = replaceInsensitive(content, v, newPath)
	}
	return content
}

// replaceInsensitive replaces all case-insensitive occurrences of old
// with new.
func replaceInsensitive(s, old, new string) string {
	if old == "" {
		return s
	}
	lower := strings.ToLower(s)
	target := strings.ToLower(old)
	var b strings.Builder
	for {
		i := strings.Index(lower, target)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(new)
		s = s[i+len(old):]
		lower = lower[i+len(target):]
	}
}
