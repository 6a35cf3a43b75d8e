package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MOYARU/normalizeurl/internal/normalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
	return tmp
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	chdirTemp(t)

	res, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, res.Path)
	assert.Equal(t, normalizer.DefaultConfig(), res.Config)
}

func TestLoadDefaultFile(t *testing.T) {
	tmp := chdirTemp(t)

	content := `remove_www: true
remove_fragment: false
custom_tracking_params:
  - cmpid
  - trk
preserve_params:
  example.com: [ref, src]
  shop.example.co.uk:
    - aff
`
	require.NoError(t, os.WriteFile(filepath.Join(tmp, DefaultFile), []byte(content), 0o644))

	res, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFile, filepath.Base(res.Path))

	cfg := res.Config
	assert.True(t, cfg.RemoveWWW)
	assert.False(t, cfg.RemoveFragment)
	assert.True(t, cfg.RemoveTrackingParams)
	assert.True(t, cfg.RemoveTrailingSlash)
	assert.True(t, cfg.DowncaseHostname)
	assert.Equal(t, []string{"cmpid", "trk"}, cfg.CustomTrackingParams)
	assert.Equal(t, map[string][]string{
		"example.com":        {"ref", "src"},
		"shop.example.co.uk": {"aff"},
	}, cfg.PreserveParams)

	got, _ := normalizer.Normalize("https://www.example.com/?cmpid=1&ref=2#top", cfg)
	assert.Equal(t, "https://example.com/?ref=2#top", got)
}

func TestLoadExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "norm.yml")
	require.NoError(t, os.WriteFile(path, []byte("remove_trailing_slash: false\n"), 0o644))

	res, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Path)
	assert.False(t, res.Config.RemoveTrailingSlash)
}

func TestLoadErrors(t *testing.T) {
	tmp := t.TempDir()

	_, err := Load(filepath.Join(tmp, "missing.yaml"))
	assert.Error(t, err)

	tests := map[string]string{
		"unknown key":  "remove_everything: true\n",
		"blank param":  "custom_tracking_params: [\"\"]\n",
		"blank name":   "preserve_params:\n  example.com: [\" \"]\n",
		"invalid yaml": "remove_www: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmp, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("NORMALIZEURL_REMOVE_WWW", "true")
	t.Setenv("NORMALIZEURL_REMOVE_TRACKING_PARAMS", "false")

	res, err := Load("")
	require.NoError(t, err)
	assert.True(t, res.Config.RemoveWWW)
	assert.False(t, res.Config.RemoveTrackingParams)
}

func TestParsePreserve(t *testing.T) {
	host, names, err := ParsePreserve(" Example.com = ref, src ,")
	require.NoError(t, err)
	assert.Equal(t, "example.com", host)
	assert.Equal(t, []string{"ref", "src"}, names)

	for _, bad := range []string{"example.com", "=ref", "example.com=", "example.com= , "} {
		_, _, err := ParsePreserve(bad)
		assert.Error(t, err, bad)
	}
}
