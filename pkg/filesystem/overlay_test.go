package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlay(t *testing.T) {
	t.Run("reads fall through to the base", func(t *testing.T) {
		base := NewMem()
		require.NoError(t, base.WriteFile("/a.txt", []byte("base"), 0644))

		o := NewOverlay(base)
		data, err := o.ReadFile("/a.txt")
		require.NoError(t, err)
		assert.Equal(t, "base", string(data))

		_, err = o.Stat("/a.txt")
		assert.NoError(t, err)
	})

	t.Run("writes shadow the base without touching it", func(t *testing.T) {
		base := NewMem()
		require.NoError(t, base.WriteFile("/a.txt", []byte("base"), 0644))

		o := NewOverlay(base)
		require.NoError(t, o.WriteFile("/a.txt", []byte("layer"), 0644))

		data, err := o.ReadFile("/a.txt")
		require.NoError(t, err)
		assert.Equal(t, "layer", string(data))

		data, err = base.ReadFile("/a.txt")
		require.NoError(t, err)
		assert.Equal(t, "base", string(data))
	})

	t.Run("new files exist only in the layer", func(t *testing.T) {
		base := NewMem()
		o := NewOverlay(base)

		require.NoError(t, o.MkdirAll("/new/dir", 0755))
		require.NoError(t, o.WriteFile("/new/dir/f.txt", []byte("x"), 0644))

		data, err := o.ReadFile("/new/dir/f.txt")
		require.NoError(t, err)
		assert.Equal(t, "x", string(data))

		_, err = base.Stat("/new/dir/f.txt")
		assert.Error(t, err)
	})

	t.Run("missing everywhere is an error", func(t *testing.T) {
		o := NewOverlay(NewMem())
		_, err := o.ReadFile("/nope")
		assert.Error(t, err)
		_, err = o.Stat("/nope")
		assert.Error(t, err)
	})
}
