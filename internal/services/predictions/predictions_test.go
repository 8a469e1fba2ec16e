package predictions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/twbrief/internal/models"
	"github.com/ternarybob/twbrief/internal/services/report"
)

const preMarketReport = `# 台股盤前調研報告（2026/02/11）

> 調研日期：20260211

## 📊 其他表格

| 代碼 | 說明 |
|---|---|
| 9999 | 不相關 |

## 📊 個股影響總表

| 代碼 | 名稱 | 影響 | 簡要理由 |
|------|------|------|----------|
| 2330 | 台積電 | ⬆️ 利多 | 2330台積電 營收創新高... |
| 2317 |  | ⬇️ 利空 | 2317 下修\|財測... |

## 💰 三大法人買賣超重點
`

func TestFromMarkdown(t *testing.T) {
	preds, ok := FromMarkdown([]byte(preMarketReport))
	require.True(t, ok)
	assert.Equal(t, []models.Prediction{
		{Code: "2330", Name: "台積電", Impact: models.ImpactBullish, Reason: "2330台積電 營收創新高..."},
		{Code: "2317", Name: "", Impact: models.ImpactBearish, Reason: "2317 下修|財測..."},
	}, preds)
}

func TestFromMarkdown_PlaceholderRow(t *testing.T) {
	out := report.RenderPreMarket(report.PreMarket{Date: "20260211", GeneratedAt: time.Unix(0, 0).UTC()}, report.DefaultOptions())
	preds, ok := FromMarkdown([]byte(out))
	assert.True(t, ok)
	assert.Empty(t, preds)
}

func TestFromMarkdown_NoTable(t *testing.T) {
	_, ok := FromMarkdown([]byte("# 空報告\n\n沒有表格\n"))
	assert.False(t, ok)
}

func TestFromMarkdown_RoundTripsRenderedReport(t *testing.T) {
	in := report.PreMarket{
		Date:        "20260211",
		GeneratedAt: time.Unix(0, 0).UTC(),
		News: []models.ClassifiedNews{
			{Item: models.NewsItem{Title: "2454聯發科 獲利大增"}, Impact: models.ImpactBullish, Stock: &models.StockRef{Code: "2454", Name: "聯發科"}},
			{Item: models.NewsItem{Title: "1101台泥 減產"}, Impact: models.ImpactBearish, Stock: &models.StockRef{Code: "1101", Name: "台泥"}},
		},
	}
	preds, ok := FromMarkdown([]byte(report.RenderPreMarket(in, report.DefaultOptions())))
	require.True(t, ok)
	require.Len(t, preds, 2)
	assert.Equal(t, "2454", preds[0].Code)
	assert.Equal(t, models.ImpactBullish, preds[0].Impact)
	assert.Equal(t, "1101", preds[1].Code)
	assert.Equal(t, models.ImpactBearish, preds[1].Impact)
	assert.Equal(t, "1101台泥 減產...", preds[1].Reason)
}

func TestResolve(t *testing.T) {
	inputJSON := []byte(`[{"code":"2330","name":"台積電","impact":"bullish","reason":"json"}]`)

	tests := []struct {
		name       string
		input      []byte
		report     []byte
		wantOrigin models.PredictionOrigin
		wantCount  int
	}{
		{"input json wins", inputJSON, []byte(preMarketReport), models.PredictionsFromJSON, 1},
		{"empty input json still wins", []byte(`[]`), []byte(preMarketReport), models.PredictionsFromJSON, 0},
		{"malformed input falls back", []byte(`[{`), []byte(preMarketReport), models.PredictionsFromMarkdown, 2},
		{"absent input falls back", nil, []byte(preMarketReport), models.PredictionsFromMarkdown, 2},
		{"nothing available", nil, nil, models.PredictionsNone, 0},
		{"report without table", nil, []byte("# x\n"), models.PredictionsNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Resolve(tt.input, tt.report)
			assert.Equal(t, tt.wantOrigin, set.Origin)
			assert.Len(t, set.Predictions, tt.wantCount)
		})
	}
}
