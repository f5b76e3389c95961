// Package backup creates timestamped copies of files before they are
// mutated. Backups are never deleted by termcwd; retention is up to the
// user.
package backup

import (
	"fmt"
	"os"
	"time"

	"github.com/arthur-debert/termcwd/pkg/errors"
	"github.com/arthur-debert/termcwd/pkg/logging"
	"github.com/arthur-debert/termcwd/pkg/types"
)

// timestampFormat has sub-second resolution so that repeated backups of
// the same file within one run do not collide.
const timestampFormat = "20060102-150405.000000000"

// Manager takes backups through an FS. Dry-run previews run the
// manager against an overlay filesystem, so it never needs a preview
// mode of its own.
type Manager struct {
	fs  types.FS
	now func() time.Time
}

// New creates a backup manager.
func New(fsys types.FS) *Manager {
	return &Manager{fs: fsys, now: time.Now}
}

// WithClock overrides the clock, used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Backup copies path byte-for-byte to path + ".bak-" + timestamp and
// returns a record of the copy. If path does not exist it returns nil
// with no error and performs no I/O. On a name collision a numeric
// suffix is appended and the copy retried.
func (m *Manager) Backup(path string) (*types.BackupRecord, error) {
	logger := logging.GetLogger("backup")

	info, err := m.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("nothing to back up, file does not exist")
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
	}
	if info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is a directory", path)
	}

	ts := m.now()
	target := fmt.Sprintf("%s.bak-%s", path, ts.Format(timestampFormat))
	for n := 1; m.exists(target); n++ {
		target = fmt.Sprintf("%s.bak-%s-%d", path, ts.Format(timestampFormat), n)
	}

	data, err := m.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBackupCreate, "cannot read %s", path)
	}
	if err := m.fs.WriteFile(target, data, info.Mode().Perm()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrBackupCreate, "cannot write %s", target)
	}

	logger.Info().Str("path", path).Str("target", target).Msg("backed up")
	return &types.BackupRecord{OriginalPath: path, BackupPath: target, Timestamp: ts}, nil
}

func (m *Manager) exists(path string) bool {
	_, err := m.fs.Stat(path)
	return err == nil
}
