package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: 9000
sources:
  pracuj:
    enabled: false
scoring:
  keywords:
    wellbeing: ["joy"]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.App.Port)
	assert.False(t, cfg.Sources.Pracuj.Enabled)
	assert.True(t, cfg.Sources.NoFluff.Enabled)
	assert.Equal(t, 30, cfg.Scoring.CandidateWindowDays)
	assert.Equal(t, 2, cfg.Scoring.CandidateMinPostings)
	assert.Equal(t, []string{"joy"}, cfg.Scoring.Keywords.Wellbeing)
	assert.NotEmpty(t, cfg.Scoring.Keywords.TargetTitles)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 465, cfg.SMTP.Port)
}

func TestValidate_Errors(t *testing.T) {
	cfg := Default()
	cfg.App.Port = 0
	cfg.Scoring.CandidateMinPostings = 0
	cfg.Schedule.Enabled = true
	cfg.Schedule.Daily = "not a cron"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.port")
	assert.Contains(t, err.Error(), "scoring.candidate_min_postings")
	assert.Contains(t, err.Error(), "schedule.daily")
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := Default()
	cfg.Filters.LocationsBlock = []string{" Berlin ", "berlin", ""}
	cfg.Report.Recipient = "not-an-address"
	cfg.Sources.NoFluff.Enabled = false
	cfg.Sources.Pracuj.Enabled = false

	out, v := NormalizeAndValidate(cfg)

	assert.Equal(t, []string{"Berlin"}, out.Filters.LocationsBlock)
	assert.False(t, v.OK())
	assert.Len(t, v.Errors, 1)
	assert.Contains(t, v.Errors[0], "report.recipient")
	assert.Contains(t, v.Warnings, "no sources enabled; scrape will find nothing")
}

func TestSaveAtomic_KeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	cfg := Default()
	require.NoError(t, SaveAtomic(path, cfg))

	cfg.App.Port = 9100
	require.NoError(t, SaveAtomic(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, got.App.Port)

	bak, err := Load(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, 8765, bak.App.Port)

	cfg.App.Port = -1
	require.Error(t, SaveAtomic(path, cfg))
}

func TestEnsureUserConfig(t *testing.T) {
	dir := t.TempDir()

	p, err := EnsureUserConfig(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yml"), p)

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.App.DataDir)

	// existing file is left alone
	require.NoError(t, os.WriteFile(p, []byte("app:\n  port: 1234\n"), 0o644))
	_, err = EnsureUserConfig(dir, "")
	require.NoError(t, err)
	cfg, err = Load(p)
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.App.Port)
}

func TestEnsureUserConfig_CopiesDefaultFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "default.yml")
	require.NoError(t, os.WriteFile(src, []byte("app:\n  port: 4321\n"), 0o644))

	p, err := EnsureUserConfig(filepath.Join(t.TempDir(), "data"), src)
	require.NoError(t, err)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 4321, cfg.App.Port)
}

func TestEnvOverlay(t *testing.T) {
	t.Setenv("HR_ALERTER_DB", "/tmp/x.db")
	t.Setenv("HR_ALERTER_LOG_LEVEL", "debug")
	t.Setenv("SMTP_EMAIL", "alerts@example.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("RECIPIENT_EMAIL", "sales@example.com")
	t.Setenv("HR_ALERTER_RECIPIENT_EMAIL", "")

	e, m, err := LoadEnv()
	require.NoError(t, err)

	cfg := Default()
	ApplyEnv(&cfg, e, m)

	assert.Equal(t, "/tmp/x.db", cfg.DBPath())
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "alerts@example.com", cfg.SMTP.Username)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "sales@example.com", cfg.Report.Recipient)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HR_ALERTER_TEST_DOTENV=loaded\n"), 0o644))
	t.Setenv("HR_ALERTER_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("HR_ALERTER_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("HR_ALERTER_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestDBPath_DefaultsIntoDataDir(t *testing.T) {
	cfg := Default()
	cfg.App.DataDir = "/data"
	assert.Equal(t, filepath.Join("/data", "hr_alerter.db"), cfg.DBPath())
}
