package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/triage-assistant/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "backends_file: "+filepath.Join(dir, "backends.yaml")+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(25), cfg.Server.MaxUploadMB)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "triage.saved", cfg.Redis.Channel)
	assert.InDelta(t, 0.7, cfg.Triage.Temperature, 1e-9)
	assert.Equal(t, 10*time.Second, cfg.Health.ProbeTimeout)
	assert.Equal(t, 60*time.Second, cfg.Backends.MedReason.Timeout)
	assert.Equal(t, 300*time.Second, cfg.Backends.Whisper.Timeout)
	assert.Equal(t, 300*time.Second, cfg.Backends.NLLB.Timeout)
	assert.Equal(t, 120*time.Second, cfg.Backends.MedGemma.Timeout)
	assert.False(t, cfg.Backends.MedGemma.InsecureSkipVerify)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
server:
  port: 9000
database:
  host: db.internal
  name: triage
backends:
  nllb:
    url: https://nllb.internal/v1/predict
    token: file-token
    insecure_skip_verify: true
backends_file: `+filepath.Join(dir, "backends.yaml")+`
`)
	t.Setenv("NLLB_TOKEN", "env-token")
	t.Setenv("MEDREASON_URL", "https://medreason.internal/v1/completions")
	t.Setenv("DB_HOST", "db.override")
	t.Setenv("DB_PORT", "6543")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "triage", cfg.Database.Name)
	assert.Equal(t, "https://nllb.internal/v1/predict", cfg.Backends.NLLB.URL)
	assert.Equal(t, "env-token", cfg.Backends.NLLB.Token)
	assert.True(t, cfg.Backends.NLLB.InsecureSkipVerify)
	assert.Equal(t, "https://medreason.internal/v1/completions", cfg.Backends.MedReason.URL)
}

func TestLoad_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
backends:
  whisper:
    url: not a url
backends_file: `+filepath.Join(dir, "backends.yaml")+`
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestStore_SaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	backendsPath := filepath.Join(dir, "backends.yaml")
	path := writeFile(t, dir, "config.yaml", "backends_file: "+backendsPath+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	store := NewStore(cfg.Backends, cfg.BackendsFile)
	updated := store.Backends()
	updated.Whisper = model.Endpoint{URL: "https://whisper.internal/v1/audio", Token: "w-token"}
	updated.MedGemma.URL = "https://medgemma.internal"
	require.NoError(t, store.Save(updated))

	assert.Equal(t, "w-token", store.Backends().Whisper.Token)
	info, err := os.Stat(backendsPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://whisper.internal/v1/audio", reloaded.Backends.Whisper.URL)
	assert.Equal(t, "w-token", reloaded.Backends.Whisper.Token)
	// Zero timeout in the saved file keeps the default.
	assert.Equal(t, 300*time.Second, reloaded.Backends.Whisper.Timeout)
	assert.Equal(t, "https://medgemma.internal", reloaded.Backends.MedGemma.URL)
	assert.Equal(t, 120*time.Second, reloaded.Backends.MedGemma.Timeout)
}

func TestStore_SaveRejectsInvalidEndpoint(t *testing.T) {
	store := NewStore(model.Backends{}, filepath.Join(t.TempDir(), "backends.yaml"))
	err := store.Save(model.Backends{NLLB: model.Endpoint{URL: "::bad"}})
	require.Error(t, err)
	assert.Empty(t, store.Backends().NLLB.URL)
}

func TestStore_SaveWriteFailureKeepsPrevious(t *testing.T) {
	prev := model.Backends{NLLB: model.Endpoint{URL: "https://old-nllb.internal"}}
	store := NewStore(prev, filepath.Join(t.TempDir(), "missing-dir", "backends.yaml"))
	err := store.Save(model.Backends{NLLB: model.Endpoint{URL: "https://nllb.internal"}})
	require.Error(t, err)
	assert.Equal(t, prev, store.Backends())
}

func TestStore_SaveWithoutFileKeepsPrevious(t *testing.T) {
	prev := model.Backends{NLLB: model.Endpoint{URL: "https://old-nllb.internal"}}
	store := NewStore(prev, "")
	require.Error(t, store.Save(model.Backends{NLLB: model.Endpoint{URL: "https://nllb.internal"}}))
	assert.Equal(t, prev, store.Backends())
}

func TestStore_SnapshotIsolation(t *testing.T) {
	store := NewStore(model.Backends{MedReason: model.Endpoint{URL: "https://a.internal"}}, filepath.Join(t.TempDir(), "b.yaml"))
	snap := store.Backends()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Save(model.Backends{MedReason: model.Endpoint{URL: "https://b.internal"}})
			_ = store.Backends()
		}()
	}
	wg.Wait()

	assert.Equal(t, "https://a.internal", snap.MedReason.URL)
	assert.Equal(t, "https://b.internal", store.Backends().MedReason.URL)
}
