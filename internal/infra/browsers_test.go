package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnumerator_ChromiumProfilesFromLocalState(t *testing.T) {
	dir := t.TempDir()
	localState := `{
		"profile": {
			"info_cache": {
				"Default": {"name": "Personal"},
				"Profile 1": {"name": "Work"}
			}
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Local State"), []byte(localState), 0600))

	e := NewEnumeratorWithHome(dir, zap.NewNop())
	profiles := e.chromiumProfiles(dir)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Personal", profiles[0].name)
	assert.Equal(t, "Default", profiles[0].path)
	assert.Equal(t, "Work", profiles[1].name)
	assert.Equal(t, "Profile 1", profiles[1].path)
}

func TestEnumerator_ChromiumLocalStateUnreadable(t *testing.T) {
	dir := t.TempDir()
	e := NewEnumeratorWithHome(dir, zap.NewNop())

	assert.Nil(t, e.chromiumProfiles(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Local State"), []byte("nope"), 0600))
	assert.Nil(t, e.chromiumProfiles(dir))
}

func TestEnumerator_FirefoxProfilesFromIni(t *testing.T) {
	dir := t.TempDir()
	ini := `[Install4F96D1932A9F858E]
Default=abc.default-release

[Profile1]
Name=work
IsRelative=1
Path=xyz.work

[Profile0]
Name=default-release
IsRelative=1
Path=abc.default-release
Default=1

[General]
StartWithLastProfile=1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles.ini"), []byte(ini), 0600))

	e := NewEnumeratorWithHome(dir, zap.NewNop())
	profiles := e.firefoxProfiles(dir)
	require.Len(t, profiles, 2)
	assert.Equal(t, "default-release", profiles[0].name)
	assert.Equal(t, "abc.default-release", profiles[0].path)
	assert.Equal(t, "work", profiles[1].name)
	assert.Equal(t, "xyz.work", profiles[1].path)
}

func TestEnumerator_FirefoxIniMissing(t *testing.T) {
	e := NewEnumeratorWithHome(t.TempDir(), zap.NewNop())
	assert.Nil(t, e.firefoxProfiles(t.TempDir()))
}

func TestEnumerator_ExpandHome(t *testing.T) {
	e := NewEnumeratorWithHome("/home/u", zap.NewNop())
	assert.Equal(t, filepath.Join("/home/u", ".config/google-chrome"), e.expandHome("~/.config/google-chrome"))
	assert.Equal(t, "/home/u", e.expandHome("~"))
	assert.Equal(t, "/absolute", e.expandHome("/absolute"))
}
