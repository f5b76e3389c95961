package filesystem

import (
	"io/fs"

	"github.com/spf13/afero"

	"github.com/arthur-debert/termcwd/pkg/types"
)

// overlayFS is a copy-on-write view of base: every write lands in an
// in-memory layer and later reads see it, while base is never touched.
// Dry-run executes the full pipeline against an overlay, so the
// preview takes exactly the code paths a real run would.
type overlayFS struct {
	base  types.FS
	layer afero.Fs
}

// NewOverlay wraps base in a copy-on-write overlay.
func NewOverlay(base types.FS) types.FS {
	return &overlayFS{base: base, layer: afero.NewMemMapFs()}
}

func (o *overlayFS) Stat(name string) (fs.FileInfo, error) {
	if info, err := o.layer.Stat(name); err == nil {
		return info, nil
	}
	return o.base.Stat(name)
}

func (o *overlayFS) ReadFile(name string) ([]byte, error) {
	if _, err := o.layer.Stat(name); err == nil {
		return afero.ReadFile(o.layer, name)
	}
	return o.base.ReadFile(name)
}

func (o *overlayFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(o.layer, name, data, perm)
}

func (o *overlayFS) MkdirAll(path string, perm fs.FileMode) error {
	return o.layer.MkdirAll(path, perm)
}
