// Package theme patches oh-my-posh theme documents. Edits are made on
// the raw JSON text so key order, formatting and unrecognized keys
// survive untouched.
package theme

import (
	_ "embed"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/arthur-debert/termcwd/pkg/backup"
	"github.com/arthur-debert/termcwd/pkg/errors"
	"github.com/arthur-debert/termcwd/pkg/logging"
	"github.com/arthur-debert/termcwd/pkg/paths"
	"github.com/arthur-debert/termcwd/pkg/profile"
	"github.com/arthur-debert/termcwd/pkg/types"
)

// PwdAttribute and PwdSentinel are the root-level key and value that
// make the prompt engine report the working directory via OSC 99.
const (
	PwdAttribute = "pwd"
	PwdSentinel  = "osc99"
)

//go:embed default.omp.json
var defaultDocument []byte

// DefaultDocument returns the embedded starter theme.
func DefaultDocument() []byte {
	return defaultDocument
}

// Patcher mutates theme documents through an FS with backups.
type Patcher struct {
	fs      types.FS
	backups *backup.Manager
}

// NewPatcher creates a theme patcher.
func NewPatcher(fsys types.FS, backups *backup.Manager) *Patcher {
	return &Patcher{fs: fsys, backups: backups}
}

// EnsureWritable guarantees the theme at themePath can be mutated. A
// theme under the built-in themes directory is copied into userDir and
// every reference to the old location inside profileText is rewritten.
// A theme already outside the built-in directory is returned unchanged
// with no copy and no profile rewrite.
func (p *Patcher) EnsureWritable(profileText, themePath, userDir string) (newPath, newProfileText string, err error) {
	logger := logging.GetLogger("theme")

	if !paths.UnderBuiltinThemes(themePath) {
		return themePath, profileText, nil
	}

	data, err := p.fs.ReadFile(themePath)
	if err != nil {
		return "", "", errors.Wrapf(err, errors.ErrThemeNotFound, "cannot read built-in theme %s", themePath)
	}

	target := filepath.Join(userDir, filepath.Base(themePath))
	logger.Info().Str("from", themePath).Str("to", target).Msg("copying read-only theme to writable location")

	if err := p.fs.MkdirAll(userDir, 0755); err != nil {
		return "", "", errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", userDir)
	}
	if err := p.fs.WriteFile(target, data, 0644); err != nil {
		return "", "", errors.Wrapf(err, errors.ErrFileWrite, "cannot copy theme to %s", target)
	}

	return target, profile.RewritePathReferences(profileText, themePath, target), nil
}

// SetPwdAttribute sets the root-level pwd attribute to the OSC 99
// sentinel. Returns false without touching the file when the attribute
// already holds the sentinel. The original is backed up before the
// rewrite.
func (p *Patcher) SetPwdAttribute(themePath string) (bool, *types.BackupRecord, error) {
	logger := logging.GetLogger("theme")

	data, err := p.fs.ReadFile(themePath)
	if err != nil {
		return false, nil, errors.Wrapf(err, errors.ErrThemeNotFound, "cannot read theme %s", themePath)
	}

	doc := string(data)
	if !gjson.Valid(doc) || !gjson.Parse(doc).IsObject() {
		return false, nil, errors.Newf(errors.ErrThemeParse, "theme %s is not a JSON object", themePath)
	}

	if gjson.Get(doc, PwdAttribute).String() == PwdSentinel {
		logger.Debug().Str("theme", themePath).Msg("pwd attribute already set")
		return false, nil, nil
	}

	updated, err := sjson.Set(doc, PwdAttribute, PwdSentinel)
	if err != nil {
		return false, nil, errors.Wrapf(err, errors.ErrThemeWrite, "cannot set pwd attribute in %s", themePath)
	}

	rec, err := p.backups.Backup(themePath)
	if err != nil {
		return false, nil, err
	}

	if err := p.fs.WriteFile(themePath, []byte(updated), 0644); err != nil {
		return false, rec, errors.Wrapf(err, errors.ErrThemeWrite, "cannot write theme %s", themePath)
	}
	logger.Info().Str("theme", themePath).Msg("pwd attribute set")
	return true, rec, nil
}
