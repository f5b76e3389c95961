package backup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/termcwd/pkg/filesystem"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestBackup(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 30, 0, 123456789, time.UTC)

	t.Run("copies file byte for byte", func(t *testing.T) {
		fs := filesystem.NewMem()
		require.NoError(t, fs.WriteFile("/home/user/profile.ps1", []byte("original content"), 0644))

		m := New(fs).WithClock(fixedClock(ts))
		rec, err := m.Backup("/home/user/profile.ps1")
		require.NoError(t, err)
		require.NotNil(t, rec)

		assert.Equal(t, "/home/user/profile.ps1", rec.OriginalPath)
		assert.Contains(t, rec.BackupPath, "/home/user/profile.ps1.bak-")

		data, err := fs.ReadFile(rec.BackupPath)
		require.NoError(t, err)
		assert.Equal(t, "original content", string(data))

		// source untouched
		data, err = fs.ReadFile("/home/user/profile.ps1")
		require.NoError(t, err)
		assert.Equal(t, "original content", string(data))
	})

	t.Run("missing file returns nil without error", func(t *testing.T) {
		fs := filesystem.NewMem()
		m := New(fs)

		rec, err := m.Backup("/does/not/exist.json")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("collision appends numeric suffix", func(t *testing.T) {
		fs := filesystem.NewMem()
		require.NoError(t, fs.WriteFile("/f.json", []byte("v1"), 0644))

		m := New(fs).WithClock(fixedClock(ts))
		first, err := m.Backup("/f.json")
		require.NoError(t, err)

		require.NoError(t, fs.WriteFile("/f.json", []byte("v2"), 0644))
		second, err := m.Backup("/f.json")
		require.NoError(t, err)

		assert.NotEqual(t, first.BackupPath, second.BackupPath)
		assert.Equal(t, first.BackupPath+"-1", second.BackupPath)

		data, err := fs.ReadFile(second.BackupPath)
		require.NoError(t, err)
		assert.Equal(t, "v2", string(data))
	})

	t.Run("overlay absorbs the copy in a preview", func(t *testing.T) {
		base := filesystem.NewMem()
		require.NoError(t, base.WriteFile("/f.json", []byte("content"), 0644))

		overlay := filesystem.NewOverlay(base)
		m := New(overlay).WithClock(fixedClock(ts))
		rec, err := m.Backup("/f.json")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Contains(t, rec.BackupPath, "/f.json.bak-")

		// the copy is visible through the overlay, never on the base
		data, err := overlay.ReadFile(rec.BackupPath)
		require.NoError(t, err)
		assert.Equal(t, "content", string(data))
		_, err = base.Stat(rec.BackupPath)
		assert.Error(t, err)
	})
}
