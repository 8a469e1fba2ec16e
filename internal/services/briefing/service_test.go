package briefing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/twbrief/internal/common"
	"github.com/ternarybob/twbrief/internal/models"
)

const date = "20260211"

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	cfg := common.NewDefaultConfig()
	cfg.Data.Root = root
	cfg.Report.Timezone = "UTC"

	svc, err := NewService(cfg, arbor.NewNoOpLogger())
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2026, 2, 11, 0, 30, 0, 0, time.UTC) }
	return svc, root
}

func writeRaw(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func TestRunPreMarket(t *testing.T) {
	svc, root := newTestService(t)
	writeRaw(t, filepath.Join(root, "tw-stock-research", date, "raw"), map[string]string{
		"cnyes.json":              `[{"time":"08:00","title":"2330台積電 營收創新高","href":"https://news.cnyes.com/1"}]`,
		"statementdog.json":       `[{"time":"07:00","title":"1101台泥 減產因應","link":"https://statementdog.com/1"}]`,
		"moneydj.json":            `{"data":[{"time":"06:00","title":"大盤今日持平","link":""}]}`,
		"institutional_twse.json": `{"data":[["2330","台積電","12,345"]]}`,
		"institutional_tpex.json": `{"data":[`,
		"mops.json":               `[{"market":"上市","data":{"result":[{"header":"重大訊息","data":[["2330","台積電","115/02/11","董事會決議"]]}]}}]`,
	})

	stats, err := svc.RunPreMarket(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "tw-stock-research", date, "report_"+date+".md"), stats.Path)
	assert.Equal(t, 3, stats.Headlines)
	assert.Equal(t, 2, stats.ImpactRows)

	content, err := os.ReadFile(stats.Path)
	require.NoError(t, err)
	out := string(content)
	assert.Contains(t, out, "執行時間：2026/02/11 00:30:00")
	assert.Contains(t, out, "| 2330 | 台積電 | ⬆️ 利多 | 2330台積電 營收創新高... |")
	assert.Contains(t, out, "| 1101 | 台泥 | ⬇️ 利空 | 1101台泥 減產因應... |")
	assert.Contains(t, out, "| 2330 | 台積電 | +12,345 |")
	assert.Contains(t, out, "### 上櫃 (TPEX)\n(尚無資料或今日未開盤)")
	assert.Contains(t, out, "- **2330 台積電**: 董事會決議")
	assert.Contains(t, out, "- [大盤今日持平](#) (06:00)")
}

func TestRunPreMarket_Deterministic(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.RunPreMarket(context.Background(), date)
	require.NoError(t, err)
	a, err := os.ReadFile(first.Path)
	require.NoError(t, err)

	second, err := svc.RunPreMarket(context.Background(), date)
	require.NoError(t, err)
	b, err := os.ReadFile(second.Path)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Contains(t, string(a), "(無 MOPS 資料)")
}

func TestRunPostMarket_FallsBackToPreMarketReport(t *testing.T) {
	svc, root := newTestService(t)
	writeRaw(t, filepath.Join(root, "tw-stock-research", date, "raw"), map[string]string{
		"cnyes.json": `[{"title":"2330台積電 營收創新高"},{"title":"2317鴻海 虧損擴大"},{"title":"2454聯發科 法說會"}]`,
	})
	_, err := svc.RunPreMarket(context.Background(), date)
	require.NoError(t, err)

	postRaw := filepath.Join(root, "tw-stock-post-market", date, "raw")
	writeRaw(t, postRaw, map[string]string{
		"prices.json":             `[{"code":"2330","name":"台積電","open":1000,"close":1010,"changePercent":1},{"code":"2317","name":"鴻海","open":200,"close":201,"changePercent":0.5}]`,
		"institutional_twse.json": `{"data":[["2330","台積電","5000"]]}`,
	})

	stats, err := svc.RunPostMarket(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, models.PredictionsFromMarkdown, stats.Origin)
	assert.Equal(t, 2, stats.Predictions)
	assert.Equal(t, models.AccuracyStats{Total: 2, Matched: 1, Missed: 1, AccuracyPct: 50, WrongPct: 50}, stats.Stats)

	content, err := os.ReadFile(stats.Path)
	require.NoError(t, err)
	out := string(content)
	assert.Contains(t, out, "| 2330 | 台積電 | ⬆️ 利多 | 1000 | 1010 | +1% | +5,000 | ✅ 符合 |")
	assert.Contains(t, out, "| 2317 | 鴻海 | ⬇️ 利空 | 200 | 201 | +0.5% | - | ❌ 誤判 |")
	assert.Contains(t, out, "[report_20260211.md](../../tw-stock-research/20260211/report_20260211.md)")
}

func TestRunPostMarket_InputJSONWins(t *testing.T) {
	svc, root := newTestService(t)
	writeRaw(t, filepath.Join(root, "tw-stock-post-market", date, "raw"), map[string]string{
		"input.json":         `[{"code":"2330","name":"台積電","impact":"⬆️ 利多","reason":"法說"},{"code":"2317","name":"鴻海","impact":"⬇️ 利空","reason":"下修"},{"code":"2454","name":"聯發科","impact":"➖ 中性","reason":"觀望"}]`,
		"prices.json":        `{"2330":{"name":"台積電","open":100,"close":105,"changePercent":5},"2317":{"name":"鴻海","open":100,"close":105,"changePercent":5},"2454":{"name":"聯發科","open":100,"close":99,"changePercent":-1}}`,
		"institutional.json": `[{"code":"2330","name":"台積電","totalNet":-1500000}]`,
	})

	stats, err := svc.RunPostMarket(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, models.PredictionsFromJSON, stats.Origin)
	assert.Equal(t, 2, stats.Stats.Total)
	assert.Equal(t, 1, stats.Stats.Neutral)

	content, err := os.ReadFile(stats.Path)
	require.NoError(t, err)
	out := string(content)
	assert.Contains(t, out, "| 2330 | 台積電 | ⬆️ 利多 | 100 | 105 | +5% | -1,500,000 | ✅ 符合 |")
	narratives := out[strings.Index(out, "## ✅ 符合分析"):]
	assert.NotContains(t, narratives, "聯發科")
}

func TestRun_Errors(t *testing.T) {
	svc, root := newTestService(t)

	_, err := svc.RunPreMarket(context.Background(), "2026-02-11")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.RunPostMarket(ctx, date)
	assert.ErrorIs(t, err, context.Canceled)

	// A file where the dated directory should be makes the write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tw-stock-research"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tw-stock-research", date), []byte("x"), 0644))
	_, err = svc.RunPreMarket(context.Background(), date)
	assert.Error(t, err)
}

func TestVocabularyOverride(t *testing.T) {
	v := vocabulary(common.ClassifierConfig{Bullish: []string{"beat"}})
	assert.Equal(t, []string{"beat"}, v.Bullish())
	assert.NotEmpty(t, v.Bearish())
}

func TestToday(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Equal(t, date, svc.Today())
}
