package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/markup/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 2*time.Minute, cfg.API.Timeout)
	assert.Equal(t, "text", cfg.Defaults.Format)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Security.EncryptToken)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")

	cfg := Default()
	cfg.API.BaseURL = "https://api.markup.example"
	cfg.API.Timeout = 30 * time.Second
	cfg.Logging.EnableFile = true
	require.NoError(t, Save(home, cfg))

	info, err := os.Stat(Path(home))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(home)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(Path(home), []byte("api:\n  base_url: http://backend:9000\n"), 0o600))

	cfg, err := Load(home)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9000", cfg.API.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidYAML(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(Path(home), []byte("api: [unclosed"), 0o600))

	_, err := Load(home)
	require.Error(t, err)
	assert.Equal(t, errors.KindIO, errors.KindOf(err))
	assert.Contains(t, err.Error(), "config.yaml")
}

func TestParseEnvFrom(t *testing.T) {
	e, err := ParseEnvFrom(map[string]string{
		"MARKUP_HOME":             "/tmp/markup",
		"MARKUP_API_URL":          "http://env:8000",
		"MARKUP_HTTP_TIMEOUT":     "45s",
		"MARKUP_LOG_LEVEL":        "debug",
		"MARKUP_TOKEN_PASSPHRASE": "hunter2",
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/markup", e.Home)
	assert.Equal(t, "hunter2", e.TokenPassphrase)

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(e))
	assert.Equal(t, "http://env:8000", cfg.API.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestParseEnvReadsProcessEnvironment(t *testing.T) {
	t.Setenv("MARKUP_API_URL", "http://process:8000")

	e, err := ParseEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://process:8000", e.APIURL)
}

func TestParseEnvRejectsBadTimeout(t *testing.T) {
	_, err := ParseEnvFrom(map[string]string{"MARKUP_HTTP_TIMEOUT": "soon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MARKUP_HTTP_TIMEOUT")
}

func TestApplyEnvTimeout(t *testing.T) {
	e, err := ParseEnvFrom(map[string]string{"MARKUP_HTTP_TIMEOUT": "0s"})
	require.NoError(t, err)
	require.NotNil(t, e.HTTPTimeout)

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(e))
	assert.Zero(t, cfg.API.Timeout, "zero disables the timeout")

	e, err = ParseEnvFrom(map[string]string{})
	require.NoError(t, err)
	assert.Nil(t, e.HTTPTimeout)

	negative := -time.Second
	cfg = Default()
	err = cfg.ApplyEnv(Env{HTTPTimeout: &negative})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
}

func TestApplyEnvEmptyLeavesFileValues(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "http://file:8000"
	require.NoError(t, cfg.ApplyEnv(Env{}))
	assert.Equal(t, "http://file:8000", cfg.API.BaseURL)
}

func TestPassphrase(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "s3cret", cfg.Passphrase(Env{TokenPassphrase: "s3cret"}))
	assert.Empty(t, cfg.Passphrase(Env{}))

	cfg.Security.EncryptToken = false
	assert.Empty(t, cfg.Passphrase(Env{TokenPassphrase: "s3cret"}))
}

func TestResolveHome(t *testing.T) {
	t.Setenv("HOME", "/home/student")

	tests := []struct {
		name string
		flag string
		env  Env
		want string
	}{
		{"flag wins", "/opt/markup", Env{Home: "/env/markup"}, "/opt/markup"},
		{"env next", "", Env{Home: "/env/markup"}, "/env/markup"},
		{"tilde expands", "~/custom", Env{}, "/home/student/custom"},
		{"default", "", Env{}, "/home/student/.markup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveHome(tt.flag, tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetSet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"api.base_url", "http://x:1", "http://x:1"},
		{"api.timeout", "90s", "1m30s"},
		{"defaults.format", "json", "json"},
		{"defaults.no_color", "yes", "true"},
		{"logging.level", "debug", "debug"},
		{"logging.format", "json", "json"},
		{"logging.enable_file", "on", "true"},
		{"security.encrypt_token", "false", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.Set(tt.key, tt.value))

			got, err := cfg.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetRejectsInvalidValues(t *testing.T) {
	cfg := Default()

	assert.Error(t, cfg.Set("defaults.format", "xml"))
	assert.Error(t, cfg.Set("defaults.no_color", "maybe"))
	assert.Error(t, cfg.Set("api.timeout", "-1s"))

	_, err := cfg.Get("providers.default")
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	require.Len(t, keys, len(fields))
	assert.Equal(t, "api.base_url", keys[0])
	assert.IsNonDecreasing(t, keys)
}
