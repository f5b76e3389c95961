package profile

import (
	"path/filepath"
	"regexp"
	"strings"
)

// expansion stops after this many passes even if placeholders remain;
// guards against self-referential variables.
const maxExpansionPasses = 10

var (
	psScriptRootRe = regexp.MustCompile(`(?i)\$PSScriptRoot`)
	envBracedRe    = regexp.MustCompile(`(?i)\$\{env:([A-Za-z_][A-Za-z0-9_]*)\}`)
	envPlainRe     = regexp.MustCompile(`(?i)\$env:([A-Za-z_][A-Za-z0-9_]*)`)
)

// extractThemePath returns the configured theme path from the first
// initialization line, with placeholders resolved. Returns "" when no
// initialization line or --config argument is present.
func extractThemePath(content, profileDir string, getenv func(string) string) string {
	found := findInitLines(content)
	if len(found) == 0 || found[0].config == "" {
		return ""
	}

	token := found[0].config
	literal := false
	switch {
	case strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) && len(token) >= 2:
		token = token[1 : len(token)-1]
	case strings.HasPrefix(token, `'`) && strings.HasSuffix(token, `'`) && len(token) >= 2:
		token = token[1 : len(token)-1]
		literal = true
	}

	if !literal {
		token = expandPlaceholders(token, profileDir, getenv)
	}
	return expandHome(token, getenv)
}

// expandPlaceholders resolves $PSScriptRoot and environment-variable
// references, iterating because an expansion may itself contain further
// references. Stops when a pass changes nothing or a referenced
// variable is undefined.
func expandPlaceholders(s, profileDir string, getenv func(string) string) string {
	for i := 0; i < maxExpansionPasses; i++ {
		before := s
		undefined := false

		s = psScriptRootRe.ReplaceAllStringFunc(s, func(string) string {
			return profileDir
		})

		expand := func(re *regexp.Regexp, str string) string {
			return re.ReplaceAllStringFunc(str, func(m string) string {
				name := re.FindStringSubmatch(m)[1]
				val := getenv(name)
				if val == "" {
					undefined = true
					return m
				}
				return val
			})
		}
		s = expand(envBracedRe, s)
		s = expand(envPlainRe, s)

		if undefined || s == before {
			break
		}
	}
	return s
}

// expandHome resolves a leading home-directory shorthand.
func expandHome(s string, getenv func(string) string) string {
	if s == "~" || strings.HasPrefix(s, "~/") || strings.HasPrefix(s, `~\`) {
		home := getenv("USERPROFILE")
		if home == "" {
			home = getenv("HOME")
		}
		if home != "" {
			if s == "~" {
				return home
			}
			return filepath.Join(home, s[2:])
		}
	}
	return s
}
