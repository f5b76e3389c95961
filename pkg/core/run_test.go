package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/arthur-debert/termcwd/pkg/filesystem"
	"github.com/arthur-debert/termcwd/pkg/paths"
	"github.com/arthur-debert/termcwd/pkg/profile"
	"github.com/arthur-debert/termcwd/pkg/types"
)

const (
	testProfile  = "/home/user/Documents/PowerShell/Microsoft.PowerShell_profile.ps1"
	testTheme    = "/home/user/mytheme.omp.json"
	testSettings = "/home/user/AppData/settings.json"
)

type fakeLister struct {
	distros []string
}

func (f *fakeLister) Distros() ([]string, error) {
	return f.distros, nil
}

func env(vars map[string]string) func(string) string {
	return func(name string) string { return vars[name] }
}

// fixture builds a filesystem with a profile pointing at a writable
// theme and a combined-schema settings file.
func fixture(t *testing.T) types.FS {
	t.Helper()
	fs := filesystem.NewMem()
	require.NoError(t, fs.WriteFile(testProfile,
		[]byte(`oh-my-posh init pwsh --config '`+testTheme+`' | Invoke-Expression`+"\n"), 0644))
	require.NoError(t, fs.WriteFile(testTheme, []byte(`{"blocks": []}`), 0644))
	require.NoError(t, fs.WriteFile(testSettings, []byte(`{"actions": []}`), 0644))
	return fs
}

func testOpts() types.Options {
	return types.Options{
		ProfilePath:  testProfile,
		SettingsPath: testSettings,
	}
}

func newTestRunner(fs types.FS, opts types.Options) *Runner {
	return NewRunner(fs, opts, env(nil), &fakeLister{})
}

func TestRunFullSequence(t *testing.T) {
	fs := fixture(t)
	report := newTestRunner(fs, testOpts()).Run()

	require.True(t, report.Changed())
	assert.False(t, report.Failed())

	// theme gained the pwd attribute
	data, err := fs.ReadFile(testTheme)
	require.NoError(t, err)
	assert.Equal(t, "osc99", gjson.Get(string(data), "pwd").String())

	// settings gained the three keybindings
	data, err = fs.ReadFile(testSettings)
	require.NoError(t, err)
	assert.Len(t, gjson.Get(string(data), "actions").Array(), 3)
}

func TestRunIdempotence(t *testing.T) {
	fs := fixture(t)

	first := newTestRunner(fs, testOpts()).Run()
	require.True(t, first.Changed())

	snapshot := map[string]string{}
	for _, p := range []string{testProfile, testTheme, testSettings} {
		data, err := fs.ReadFile(p)
		require.NoError(t, err)
		snapshot[p] = string(data)
	}

	second := newTestRunner(fs, testOpts()).Run()
	assert.False(t, second.Changed(), "second run must report no changes necessary")
	assert.False(t, second.Failed())

	for _, p := range []string{testProfile, testTheme, testSettings} {
		data, err := fs.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, snapshot[p], string(data), "second run must not touch %s", p)
	}
}

func TestRunBackupInvariant(t *testing.T) {
	fs := fixture(t)

	before := map[string]string{}
	for _, p := range []string{testTheme, testSettings} {
		data, err := fs.ReadFile(p)
		require.NoError(t, err)
		before[p] = string(data)
	}

	report := newTestRunner(fs, testOpts()).Run()
	require.True(t, report.Changed())

	// every changed step with a backup preserves the pre-mutation bytes
	verified := 0
	for _, step := range report.Steps {
		if step.Backup == nil {
			continue
		}
		want, ok := before[step.Backup.OriginalPath]
		if !ok {
			continue
		}
		got, err := fs.ReadFile(step.Backup.BackupPath)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
		verified++
	}
	assert.GreaterOrEqual(t, verified, 2, "theme and settings backups expected")
}

func TestRunDryRun(t *testing.T) {
	fs := fixture(t)

	opts := testOpts()
	opts.DryRun = true
	report := newTestRunner(fs, opts).Run()

	assert.True(t, report.Changed(), "dry run still reports what would change")
	assert.True(t, report.DryRun)

	// nothing on disk moved
	data, err := fs.ReadFile(testTheme)
	require.NoError(t, err)
	assert.Equal(t, `{"blocks": []}`, string(data))
	data, err = fs.ReadFile(testSettings)
	require.NoError(t, err)
	assert.Equal(t, `{"actions": []}`, string(data))
}

// TestRunDryRunMatchesRealRun pins the preview contract: a dry run walks
// the same steps with the same outcomes as a real run, including steps
// whose input is produced by an earlier step (a built-in theme copied to
// the user dir, then patched in place).
func TestRunDryRunMatchesRealRun(t *testing.T) {
	const builtin = "/opt/posh/themes"
	const userDir = "/user/themes"

	build := func(t *testing.T) (types.FS, types.Options) {
		t.Helper()
		fs := filesystem.NewMem()
		require.NoError(t, fs.WriteFile(testProfile,
			[]byte(`oh-my-posh init pwsh --config "$env:POSH_THEMES_PATH/jan.omp.json" | Invoke-Expression`+"\n"), 0644))
		require.NoError(t, fs.MkdirAll(builtin, 0755))
		require.NoError(t, fs.WriteFile(builtin+"/jan.omp.json", []byte(`{"blocks": []}`), 0644))
		require.NoError(t, fs.WriteFile(testSettings, []byte(`{"actions": []}`), 0644))

		opts := testOpts()
		opts.ThemeDir = userDir
		return fs, opts
	}
	vars := map[string]string{"POSH_THEMES_PATH": builtin}
	t.Setenv(paths.EnvPoshThemesPath, builtin)

	dryFS, dryOpts := build(t)
	dryOpts.DryRun = true
	dry := NewRunner(dryFS, dryOpts, env(vars), &fakeLister{}).Run()

	liveFS, liveOpts := build(t)
	live := NewRunner(liveFS, liveOpts, env(vars), &fakeLister{}).Run()

	require.Len(t, dry.Steps, len(live.Steps))
	for i, step := range live.Steps {
		assert.Equal(t, step.Name, dry.Steps[i].Name)
		assert.Equal(t, step.Status, dry.Steps[i].Status, "step %q", step.Name)
	}
	assert.False(t, dry.Failed())
	assert.True(t, dry.Changed())

	// the real run copied and patched the theme in the user dir
	data, err := liveFS.ReadFile(userDir + "/jan.omp.json")
	require.NoError(t, err)
	assert.Equal(t, "osc99", gjson.Get(string(data), "pwd").String())

	// the dry run left no trace: no copied theme, no rewritten profile,
	// no fallback snippet from a misreported theme failure
	_, err = dryFS.Stat(userDir + "/jan.omp.json")
	assert.Error(t, err)
	text, err := dryFS.ReadFile(testProfile)
	require.NoError(t, err)
	assert.NotContains(t, string(text), "]9;9;")
	assert.NotContains(t, string(text), userDir)
}

// A dry run against an empty system previews the seeded profile and
// theme without creating either.
func TestRunDryRunSeedsNothing(t *testing.T) {
	build := func(t *testing.T) types.FS {
		t.Helper()
		fs := filesystem.NewMem()
		require.NoError(t, fs.WriteFile(testSettings, []byte(`{"actions": []}`), 0644))
		return fs
	}

	dryFS := build(t)
	dryOpts := testOpts()
	dryOpts.DryRun = true
	dry := newTestRunner(dryFS, dryOpts).Run()

	liveFS := build(t)
	live := newTestRunner(liveFS, testOpts()).Run()

	require.Len(t, dry.Steps, len(live.Steps))
	for i, step := range live.Steps {
		assert.Equal(t, step.Name, dry.Steps[i].Name)
		assert.Equal(t, step.Status, dry.Steps[i].Status, "step %q", step.Name)
	}
	assert.False(t, dry.Failed())

	_, err := dryFS.Stat(testProfile)
	assert.Error(t, err, "dry run must not create the profile")
}

func TestRunMissingProfileCreated(t *testing.T) {
	fs := filesystem.NewMem()
	require.NoError(t, fs.WriteFile(testSettings, []byte(`{"actions": []}`), 0644))

	report := newTestRunner(fs, testOpts()).Run()
	require.True(t, report.Changed())
	assert.False(t, report.Failed())

	data, err := fs.ReadFile(testProfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "oh-my-posh init pwsh")

	// the seeded theme already carries the pwd attribute
	seeded := "/home/user/Documents/PowerShell/themes/termcwd.omp.json"
	data, err = fs.ReadFile(seeded)
	require.NoError(t, err)
	assert.Equal(t, "osc99", gjson.Get(string(data), "pwd").String())
}

func TestRunMissingTheme(t *testing.T) {
	fs := filesystem.NewMem()
	require.NoError(t, fs.WriteFile(testProfile,
		[]byte(`oh-my-posh init pwsh --config '/gone.omp.json' | Invoke-Expression`+"\n"), 0644))

	report := newTestRunner(fs, testOpts()).Run()

	// the theme step is skipped, the profile gets the osc fallback
	data, err := fs.ReadFile(testProfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "]9;9;")

	var sawSkip bool
	for _, step := range report.Steps {
		if step.Name == StepThemePwd && step.Status == types.StepSkipped {
			sawSkip = true
		}
	}
	assert.True(t, sawSkip)
}

func TestRunMalformedSettings(t *testing.T) {
	fs := fixture(t)
	require.NoError(t, fs.WriteFile(testSettings, []byte("{broken"), 0644))

	report := newTestRunner(fs, testOpts()).Run()

	// settings step failed but the profile and theme steps still ran
	assert.True(t, report.Failed())
	data, err := fs.ReadFile(testTheme)
	require.NoError(t, err)
	assert.Equal(t, "osc99", gjson.Get(string(data), "pwd").String())
}

func TestRunMissingSettingsSkipped(t *testing.T) {
	fs := filesystem.NewMem()
	require.NoError(t, fs.WriteFile(testProfile,
		[]byte(`oh-my-posh init pwsh --config '`+testTheme+`' | Invoke-Expression`+"\n"), 0644))
	require.NoError(t, fs.WriteFile(testTheme, []byte(`{"pwd":"osc99"}`), 0644))

	opts := testOpts()
	opts.SettingsPath = ""
	report := NewRunner(fs, opts, env(nil), &fakeLister{}).Run()

	var sawSkip bool
	for _, step := range report.Steps {
		if step.Name == StepActions && step.Status == types.StepSkipped {
			sawSkip = true
			assert.Contains(t, step.Detail, "no terminal settings file")
		}
	}
	assert.True(t, sawSkip)
}

func TestRunCopilotSnippet(t *testing.T) {
	fs := fixture(t)

	opts := testOpts()
	opts.EnableCopilot = true
	report := newTestRunner(fs, opts).Run()
	require.True(t, report.Changed())

	data, err := fs.ReadFile(testProfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gh copilot suggest")

	// idempotent with the flag still on
	second := newTestRunner(fs, opts).Run()
	assert.False(t, second.Changed())
	after, err := fs.ReadFile(testProfile)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(after), "gh copilot suggest"))
}

func TestProfileDetail(t *testing.T) {
	assert.Equal(t, "custom prompt disabled", profileDetail(profile.Result{DisabledPrompt: true}))
	assert.Equal(t, "init line added", profileDetail(profile.Result{SynthesizedInit: true}))
	assert.Equal(t, "updated", profileDetail(profile.Result{}))
}
