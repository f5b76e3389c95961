package profile

import "strings"

// maskInert returns a copy of content, byte-for-byte the same length,
// where comments and termcwd-managed snippet blocks are blanked out
// with spaces (newlines kept). Pattern scans run against the mask so
// that positions map 1:1 back to the original text and commented-out
// or already-managed regions are never matched twice.
func maskInert(content string) string {
	masked := maskBlockComments(content)
	masked = maskLineComments(masked)
	return maskSnippetBlocks(content, masked)
}

func maskBlockComments(content string) string {
	out := []byte(content)
	for i := 0; i+1 < len(out); i++ {
		if out[i] == '<' && out[i+1] == '#' {
			j := strings.Index(content[i+2:], "#>")
			end := len(out)
			if j >= 0 {
				end = i + 2 + j + 2
			}
			blank(out, i, end)
			i = end - 1
		}
	}
	return string(out)
}

func maskLineComments(content string) string {
	out := []byte(content)
	inSingle, inDouble := false, false
	for i := 0; i < len(out); i++ {
		switch out[i] {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '\n':
			inSingle, inDouble = false, false
		case '#':
			if !inSingle && !inDouble {
				end := i
				for end < len(out) && out[end] != '\n' {
					end++
				}
				blank(out, i, end)
				i = end - 1
			}
		}
	}
	return string(out)
}

// maskSnippetBlocks blanks regions between termcwd snippet markers.
// Markers themselves are comments, but the function bodies between them
// are live code that must not be re-detected as user content.
func maskSnippetBlocks(original string, masked string) string {
	out := []byte(masked)
	offset := 0
	for {
		rel := strings.Index(original[offset:], snippetBeginPrefix)
		if rel < 0 {
			break
		}
		start := offset + rel
		endRel := strings.Index(original[start:], snippetEndSuffix)
		if endRel < 0 {
			break
		}
		end := start + endRel + len(snippetEndSuffix)
		// extend to end of the marker line
		for end < len(original) && original[end] != '\n' {
			end++
		}
		blank(out, start, end)
		offset = end
	}
	return string(out)
}

// maskStrings blanks string literal interiors, keeping the quote
// characters. Structural scans like brace matching run on this so a
// brace inside a string never counts. Quote state resets at each
// newline, same as the line-comment masking.
func maskStrings(content string) string {
	out := []byte(content)
	var quote byte
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case c == '\n':
			quote = 0
		case quote != 0:
			if c == quote {
				quote = 0
			} else if c != '\r' {
				out[i] = ' '
			}
		case c == '\'' || c == '"':
			quote = c
		}
	}
	return string(out)
}

func blank(buf []byte, start, end int) {
	if end > len(buf) {
		end = len(buf)
	}
	for i := start; i < end; i++ {
		if buf[i] != '\n' && buf[i] != '\r' {
			buf[i] = ' '
		}
	}
}
