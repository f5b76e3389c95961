package profile

import (
	"regexp"
	"strings"
)

// DuplicateInitMarker precedes a duplicate initialization line that
// termcwd commented out. The first occurrence is always kept verbatim.
const DuplicateInitMarker = "# termcwd: duplicate oh-my-posh initialization disabled"

var (
	initLineRe = regexp.MustCompile(`(?i)\boh-my-posh(?:\.exe)?\s+init\s+(?:pwsh|powershell)\b`)

	// --config value: double-quoted (embedded expressions and spaces
	// allowed), single-quoted (literal), or a bare token up to the next
	// pipe or whitespace.
	configArgRe = regexp.MustCompile(`(?i)--config(?:[ \t]+|=)("[^"]*"|'[^']*'|[^\s|]+)`)
)

// initLine is one detected initialization invocation.
type initLine struct {
	lineIdx int    // index into the content's line slice
	text    string // full line, verbatim
	config  string // raw --config token including quotes, "" if absent
}

// findInitLines enumerates initialization lines in order of appearance.
// Commented-out lines are not counted.
func findInitLines(content string) []initLine {
	masked := maskInert(content)
	lines := strings.Split(content, "\n")
	maskedLines := strings.Split(masked, "\n")

	var found []initLine
	for i, ml := range maskedLines {
		if !initLineRe.MatchString(ml) {
			continue
		}
		il := initLine{lineIdx: i, text: lines[i]}
		if m := configArgRe.FindStringSubmatch(ml); m != nil {
			il.config = m[1]
		}
		found = append(found, il)
	}
	return found
}

// collapseDuplicateInits keeps the first initialization line verbatim
// and replaces each subsequent one with a commented-out copy under the
// marker convention. Nothing is deleted. Returns the new content and
// how many lines were commented out.
func collapseDuplicateInits(content string) (string, int) {
	found := findInitLines(content)
	if len(found) <= 1 {
		return content, 0
	}

	lines := strings.Split(content, "\n")
	for _, il := range found[1:] {
		lines[il.lineIdx] = DuplicateInitMarker + "\n# " + il.text
	}
	return strings.Join(lines, "\n"), len(found) - 1
}

// defaultInitLine returns the initialization line termcwd appends when
// a profile has none. The theme lives next to the profile so the line
// survives profile relocation.
func defaultInitLine(themeFileName string) string {
	return `oh-my-posh init pwsh --config "$PSScriptRoot/themes/` + themeFileName + `" | Invoke-Expression`
}

// appendInitLine appends line to content, separated by a blank line
// when the profile already has content.
func appendInitLine(content, line string) string {
	switch {
	case content == "":
		return line + "\n"
	case strings.HasSuffix(content, "\n\n"):
		return content + line + "\n"
	case strings.HasSuffix(content, "\n"):
		return content + "\n" + line + "\n"
	default:
		return content + "\n\n" + line + "\n"
	}
}
