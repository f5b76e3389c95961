// Package wsl enumerates installed Windows Subsystem for Linux
// distributions by invoking the dispatcher binary.
package wsl

import (
	"bytes"
	"os/exec"
	"strings"
	"unicode/utf16"

	"github.com/arthur-debert/termcwd/pkg/errors"
	"github.com/arthur-debert/termcwd/pkg/logging"
)

// Lister returns the names of installed distributions. The settings
// reconciler takes it as an interface so tests never need wsl.exe.
type Lister interface {
	Distros() ([]string, error)
}

// CommandLister shells out to `wsl.exe --list --quiet`.
type CommandLister struct {
	// Command overrides the dispatcher binary, used by tests.
	Command string
}

// NewCommandLister creates a lister for the real dispatcher.
func NewCommandLister() *CommandLister {
	return &CommandLister{Command: "wsl.exe"}
}

// Distros runs the dispatcher and parses its output. The dispatcher
// historically emits UTF-16 on some hosts, so the output is decoded
// tolerantly: NUL bytes are honored as UTF-16 when a BOM or an even
// NUL pattern is present, and stripped otherwise.
func (l *CommandLister) Distros() ([]string, error) {
	logger := logging.GetLogger("wsl")

	out, err := exec.Command(l.Command, "--list", "--quiet").Output()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDistroList, "cannot list distributions")
	}

	names := ParseListOutput(out)
	logger.Debug().Strs("distros", names).Msg("installed distributions")
	return names, nil
}

// ParseListOutput decodes dispatcher output into distribution names,
// one per line, tolerant of UTF-16 encoding, NUL bytes and blank lines.
func ParseListOutput(out []byte) []string {
	text := decode(out)

	var names []string
	for _, line := range strings.Split(text, "\n") {
		name := strings.TrimSpace(strings.Trim(line, "\r\x00"))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func decode(out []byte) string {
	// UTF-16LE BOM
	if len(out) >= 2 && out[0] == 0xFF && out[1] == 0xFE {
		return decodeUTF16LE(out[2:])
	}
	// Heuristic: every other byte NUL means UTF-16LE without a BOM.
	if looksUTF16LE(out) {
		return decodeUTF16LE(out)
	}
	// Otherwise strip stray NULs.
	return string(bytes.ReplaceAll(out, []byte{0}, nil))
}

func looksUTF16LE(out []byte) bool {
	if len(out) < 4 {
		return false
	}
	nuls := 0
	for i := 1; i < len(out); i += 2 {
		if out[i] == 0 {
			nuls++
		}
	}
	return nuls > len(out)/4
}

func decodeUTF16LE(b []byte) string {
	if len(b)%2 == 1 {
		b = b[:len(b)-1]
	}
	u := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u = append(u, uint16(b[i])|uint16(b[i+1])<<8)
	}
	return string(utf16.Decode(u))
}
