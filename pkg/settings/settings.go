// Package settings reconciles termcwd's keybindings and WSL profile
// launch commands into a Windows Terminal settings document.
//
// The source format tolerates single-line comments and trailing commas,
// so the document is run through a JSONC strip before parsing. Edits
// are made on the raw text so untouched parts of the document keep
// their order and formatting.
package settings

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"

	"github.com/arthur-debert/termcwd/pkg/backup"
	"github.com/arthur-debert/termcwd/pkg/errors"
	"github.com/arthur-debert/termcwd/pkg/logging"
	"github.com/arthur-debert/termcwd/pkg/types"
)

// schema discriminates the two settings document shapes. The split
// shape keeps commands in an actions array and key mappings in a
// separate keybindings array; the combined shape embeds keys in each
// action entry.
type schema int

const (
	combinedSchema schema = iota
	splitSchema
)

// Document is a loaded settings file being reconciled in memory.
type Document struct {
	Path   string
	raw    string
	loaded string
	schema schema
}

// Dirty reports whether any reconciliation changed the document.
func (d *Document) Dirty() bool {
	return d.raw != d.loaded
}

// Raw returns the current document text.
func (d *Document) Raw() string {
	return d.raw
}

// Patcher loads, reconciles and saves settings documents.
type Patcher struct {
	fs      types.FS
	backups *backup.Manager
}

// NewPatcher creates a settings patcher.
func NewPatcher(fsys types.FS, backups *backup.Manager) *Patcher {
	return &Patcher{fs: fsys, backups: backups}
}

// Load reads and validates the settings document. Comments and
// trailing commas are stripped up front. A root that is not a JSON
// object is a structural failure reported with ErrSettingsShape.
func (p *Patcher) Load(path string) (*Document, error) {
	data, err := p.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSettingsNotFound, "cannot read settings %s", path)
	}

	raw := string(jsonc.ToJSON(data))
	if !gjson.Valid(raw) {
		return nil, errors.Newf(errors.ErrSettingsParse, "settings %s is not valid JSON", path)
	}
	if !gjson.Parse(raw).IsObject() {
		return nil, errors.Newf(errors.ErrSettingsShape, "settings %s root is not an object", path)
	}

	doc := &Document{Path: path, raw: raw, loaded: raw}
	if gjson.Get(raw, "keybindings").IsArray() {
		doc.schema = splitSchema
	}
	return doc, nil
}

// Save writes the document back when dirty, backing up the original
// first. Returns the backup record, or nil when nothing was written.
func (p *Patcher) Save(doc *Document) (*types.BackupRecord, error) {
	logger := logging.GetLogger("settings")
	if !doc.Dirty() {
		return nil, nil
	}

	rec, err := p.backups.Backup(doc.Path)
	if err != nil {
		return nil, err
	}

	if err := p.fs.WriteFile(doc.Path, []byte(doc.raw), 0644); err != nil {
		return rec, errors.Wrapf(err, errors.ErrSettingsWrite, "cannot write settings %s", doc.Path)
	}
	logger.Info().Str("settings", doc.Path).Msg("settings written")
	return rec, nil
}
