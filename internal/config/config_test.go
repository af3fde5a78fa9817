package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "absent.yaml"), noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
db: /tmp/log.db
language: fr-FR
recording_limit: 45s
recognizer: stdin
sound: false
`)
	cfg, err := load(path, noEnv)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/log.db", cfg.DB)
	assert.Equal(t, "fr-FR", cfg.Language)
	assert.Equal(t, 45*time.Second, cfg.RecordingLimit)
	assert.Equal(t, SourceStdin, cfg.Recognizer)
	assert.False(t, cfg.Sound)
	assert.Equal(t, "Main Memory", cfg.Folder, "unset keys keep defaults")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "db: /from/file.db\nlanguage: de-DE\n")
	cfg, err := load(path, envMap(map[string]string{
		EnvDB:       "/from/env.db",
		EnvLanguage: "es-ES",
		EnvSocket:   "/run/speech.sock",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/from/env.db", cfg.DB)
	assert.Equal(t, "es-ES", cfg.Language)
	assert.Equal(t, "/run/speech.sock", cfg.Socket)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"yaml":       "db: [unclosed\n",
		"language":   "language: \"!!\"\n",
		"limit":      "recording_limit: 10ms\n",
		"recognizer": "recognizer: carrier-pigeon\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(writeConfig(t, body), noEnv)
			assert.Error(t, err)
		})
	}
}

func TestLanguageCanonicalised(t *testing.T) {
	cfg, err := load(writeConfig(t, "language: en-us\n"), noEnv)
	require.NoError(t, err)
	assert.Equal(t, "en-US", cfg.Language)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Default()
	want.Language = "de-DE"
	want.RecordingLimit = time.Minute
	want.Sound = false

	require.NoError(t, Save(path, want))
	got, err := load(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
