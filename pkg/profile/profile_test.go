package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/termcwd/pkg/filesystem"
	"github.com/arthur-debert/termcwd/pkg/paths"
)

const testProfilePath = "/home/user/Documents/PowerShell/Microsoft.PowerShell_profile.ps1"

func TestPatcherApply(t *testing.T) {
	seed := []byte(`{"pwd":"osc99"}`)

	t.Run("empty profile gets init line and seeded theme", func(t *testing.T) {
		fs := filesystem.NewMem()
		p := NewPatcher(fs, fakeEnv(nil), seed)

		res, err := p.Apply(testProfilePath, "")
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.True(t, res.SynthesizedInit)
		assert.Contains(t, res.Content, "oh-my-posh init pwsh")

		themePath := filepath.Join(filepath.Dir(testProfilePath), paths.ThemesDirName, paths.DefaultThemeFileName)
		data, err := fs.ReadFile(themePath)
		require.NoError(t, err)
		assert.Equal(t, seed, data)
		assert.Equal(t, themePath, res.ThemePath)
	})

	t.Run("seeding through an overlay leaves the base untouched", func(t *testing.T) {
		base := filesystem.NewMem()
		overlay := filesystem.NewOverlay(base)
		p := NewPatcher(overlay, fakeEnv(nil), seed)

		res, err := p.Apply(testProfilePath, "")
		require.NoError(t, err)
		assert.True(t, res.Changed)

		themePath := filepath.Join(filepath.Dir(testProfilePath), paths.ThemesDirName, paths.DefaultThemeFileName)
		_, err = overlay.Stat(themePath)
		require.NoError(t, err)
		_, err = base.Stat(themePath)
		assert.Error(t, err)
	})

	t.Run("existing seeded theme is not overwritten", func(t *testing.T) {
		fs := filesystem.NewMem()
		themePath := filepath.Join(filepath.Dir(testProfilePath), paths.ThemesDirName, paths.DefaultThemeFileName)
		require.NoError(t, fs.MkdirAll(filepath.Dir(themePath), 0755))
		require.NoError(t, fs.WriteFile(themePath, []byte(`{"user":"edited"}`), 0644))

		p := NewPatcher(fs, fakeEnv(nil), seed)
		_, err := p.Apply(testProfilePath, "")
		require.NoError(t, err)

		data, err := fs.ReadFile(themePath)
		require.NoError(t, err)
		assert.Equal(t, `{"user":"edited"}`, string(data))
	})

	t.Run("canonical profile is unchanged", func(t *testing.T) {
		fs := filesystem.NewMem()
		p := NewPatcher(fs, fakeEnv(nil), seed)

		res, err := p.Apply(testProfilePath, "")
		require.NoError(t, err)
		again, err := p.Apply(testProfilePath, res.Content)
		require.NoError(t, err)
		assert.False(t, again.Changed)
		assert.Equal(t, res.Content, again.Content)
	})

	t.Run("prompt disabled and duplicates collapsed in one pass", func(t *testing.T) {
		fs := filesystem.NewMem()
		p := NewPatcher(fs, fakeEnv(nil), seed)

		content := "function prompt { \"old> \" }\n" +
			"oh-my-posh init pwsh --config 'a.json' | Invoke-Expression\n" +
			"oh-my-posh init pwsh --config 'b.json' | Invoke-Expression\n"
		res, err := p.Apply(testProfilePath, content)
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.True(t, res.DisabledPrompt)
		assert.Equal(t, 1, res.CollapsedInits)
		assert.Equal(t, "a.json", res.ThemePath)
	})
}

func TestRewritePathReferences(t *testing.T) {
	t.Run("absolute path rewritten case-insensitively", func(t *testing.T) {
		content := `oh-my-posh init pwsh --config "/Opt/Posh/Themes/jan.omp.json" | Invoke-Expression`
		out := RewritePathReferences(content, "/opt/posh/themes/jan.omp.json", "/home/user/.themes/jan.omp.json")
		assert.Contains(t, out, "/home/user/.themes/jan.omp.json")
		assert.NotContains(t, out, "/Opt/Posh/Themes")
	})

	t.Run("env-relative spelling rewritten", func(t *testing.T) {
		t.Setenv(paths.EnvPoshThemesPath, "/opt/posh/themes")
		content := `oh-my-posh init pwsh --config "$env:POSH_THEMES_PATH/jan.omp.json" | Invoke-Expression`
		out := RewritePathReferences(content, "/opt/posh/themes/jan.omp.json", "/home/user/.themes/jan.omp.json")
		assert.Contains(t, out, `"/home/user/.themes/jan.omp.json"`)
		assert.NotContains(t, out, "$env:POSH_THEMES_PATH")
	})

	t.Run("unrelated content untouched", func(t *testing.T) {
		content := "Write-Host hi\n"
		out := RewritePathReferences(content, "/opt/x.json", "/y.json")
		assert.Equal(t, content, out)
	})
}
