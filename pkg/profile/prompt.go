package profile

import (
	"regexp"
	"strings"
)

// PromptDisabledMarker is the explanatory line written above a custom
// prompt function when termcwd comments it out.
const PromptDisabledMarker = "# termcwd: custom prompt function disabled so the prompt engine can manage the prompt"

var promptFuncRe = regexp.MustCompile(`(?im)^[ \t]*function\s+(?:global:)?prompt\b`)

// disableCustomPrompt finds a user-defined prompt function (balanced
// braces, possibly spanning several lines) and wraps it in a block
// comment below an explanatory marker. The function body is preserved
// verbatim so the user can restore it. Returns the new content and
// whether anything was wrapped. Brace matching runs with string
// literal interiors blanked, so a brace inside a string never
// terminates the scan.
func disableCustomPrompt(content string) (string, bool) {
	masked := maskStrings(maskInert(content))
	loc := promptFuncRe.FindStringIndex(masked)
	if loc == nil {
		return content, false
	}

	open := strings.IndexByte(masked[loc[0]:], '{')
	if open < 0 {
		return content, false
	}
	start := loc[0]
	end := matchBrace(masked, loc[0]+open)
	if end < 0 {
		return content, false
	}

	// extend to end of line after the closing brace
	for end < len(content) && content[end] != '\n' {
		end++
	}

	var b strings.Builder
	b.WriteString(content[:start])
	b.WriteString(PromptDisabledMarker)
	b.WriteString("\n<#\n")
	b.WriteString(content[start:end])
	b.WriteString("\n#>")
	b.WriteString(content[end:])
	return b.String(), true
}

// matchBrace returns the index just past the brace matching the one at
// open, or -1 when braces never balance.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}
