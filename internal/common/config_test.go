package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "./w-data-news", cfg.Data.Root)
	assert.Equal(t, "Asia/Taipei", cfg.Report.Timezone)
	assert.Len(t, cfg.Report.NewsSources, 3)
	assert.Equal(t, "cnyes", cfg.Report.NewsSources[0].Source)
}

func TestLoadFromFiles_TOML(t *testing.T) {
	base := writeConfig(t, "base.toml", `
[data]
root = "/srv/news"

[report]
impact_rows = 5

[[producers]]
name = "twse"
command = "node"
args = ["fetch_twse_t86.mjs", "{date}"]
timeout = "2m"
phase = "pre"

[[producers]]
name = "prices"
command = "node"
args = ["fetch_twse.mjs"]
phase = "post"
`)
	override := writeConfig(t, "override.toml", `
[report]
impact_rows = 8
`)

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)
	assert.Equal(t, "/srv/news", cfg.Data.Root)
	assert.Equal(t, "tw-stock-research", cfg.Data.ResearchDir)
	assert.Equal(t, 8, cfg.Report.ImpactRows)
	assert.Equal(t, 15, cfg.Report.NewsPerSource)
	require.Len(t, cfg.Producers, 2)
	assert.Equal(t, []string{"fetch_twse_t86.mjs", "{date}"}, cfg.Producers[0].Args)

	assert.Len(t, cfg.ProducersFor("pre"), 1)
	assert.Len(t, cfg.ProducersFor("post"), 1)
	assert.Len(t, cfg.ProducersFor(""), 2)
}

func TestLoadFromFiles_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
logging:
  level: debug
classifier:
  bullish: ["beat"]
scheduler:
  enabled: true
  pre_market: "0 0 8 * * 1-5"
  holidays: ["20260216"]
`)

	cfg, err := LoadFromFiles(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"beat"}, cfg.Classifier.Bullish)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "0 0 8 * * 1-5", cfg.Scheduler.PreMarket)
	assert.Equal(t, "0 0 15 * * 1-5", cfg.Scheduler.PostMarket)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("TWBRIEF_DATA_ROOT", "/tmp/override")
	t.Setenv("TWBRIEF_LOG_LEVEL", "warn")
	t.Setenv("TWBRIEF_LOG_OUTPUT", "stdout, file")
	t.Setenv("TWBRIEF_IMPACT_ROWS", "3")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override", cfg.Data.Root)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, []string{"stdout", "file"}, cfg.Logging.Output)
	assert.Equal(t, 3, cfg.Report.ImpactRows)
}

func TestLoadFromFiles_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unparsable toml", "bad.toml", "[data\nroot ="},
		{"bad log level", "level.toml", "[logging]\nlevel = \"loud\""},
		{"bad timezone", "tz.toml", "[report]\ntimezone = \"Mars/Olympus\""},
		{"bad schedule", "cron.toml", "[scheduler]\nenabled = true\npre_market = \"every day\""},
		{"five field schedule", "cron5.toml", "[scheduler]\nenabled = true\npre_market = \"30 8 * * 1-5\""},
		{"producer without command", "prod.toml", "[[producers]]\nname = \"x\""},
		{"bad producer phase", "phase.toml", "[[producers]]\nname = \"x\"\ncommand = \"node\"\nphase = \"noon\""},
		{"bad pacing", "pace.toml", "[producer_pacing]\nmin_interval = \"soon\""},
		{"bad holiday", "holiday.toml", "[scheduler]\nholidays = [\"2026-02-16\"]"},
		{"zero rows", "rows.toml", "[report]\nimpact_rows = 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFiles(writeConfig(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 30 8 * * 1-5"))
	assert.NoError(t, ValidateSchedule("@daily"))
	assert.Error(t, ValidateSchedule("0 30 8 * *"))
	assert.Error(t, ValidateSchedule(""))
}

func TestParseOptionalDuration(t *testing.T) {
	d, err := ParseOptionalDuration("")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), d)

	d, err = ParseOptionalDuration("90s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	_, err = ParseOptionalDuration("-1s")
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := writeConfig(t, ".env", "TWBRIEF_TEST_DOTENV=from-file\n")
	t.Setenv("TWBRIEF_TEST_DOTENV", "")
	os.Unsetenv("TWBRIEF_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")))
	assert.Equal(t, "from-file", os.Getenv("TWBRIEF_TEST_DOTENV"))
}
