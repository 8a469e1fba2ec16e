package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/twbrief/internal/models"
	"github.com/ternarybob/twbrief/internal/services/reconcile"
)

// PostMarket is everything the post-market report shows.
type PostMarket struct {
	Date          string    // YYYYMMDD
	GeneratedAt   time.Time // printed as 執行時間, already in the report time zone
	PreMarketLink string    // relative link to the same day's pre-market report
	Result        reconcile.Result
}

// PreMarketLink is the post-market report's relative path to the pre-market report of date.
func PreMarketLink(researchDir, date string) string {
	return fmt.Sprintf("../../%s/%s/%s", researchDir, date, FileName(date))
}

// FileName is the report file name for date.
func FileName(date string) string {
	return fmt.Sprintf("report_%s.md", date)
}

// RenderPostMarket renders the post-market accuracy report.
func RenderPostMarket(in PostMarket, opts Options) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# 台股盤後總結報告（%s）\n\n", displayDate(in.Date)))
	sb.WriteString(fmt.Sprintf("> 執行時間：%s\n", in.GeneratedAt.Format(timestampLayout)))
	sb.WriteString(fmt.Sprintf("> 盤前調研：[%s](%s)\n", FileName(in.Date), in.PreMarketLink))
	sb.WriteString(fmt.Sprintf("> 資料來源：%s\n\n", opts.PostMarketSources))

	sb.WriteString("## 📊 研判驗證總表\n\n")
	sb.WriteString("| 代碼 | 名稱 | 盤前研判 | 開盤 | 收盤 | 漲跌% | 法人買賣超 | 結果 |\n")
	sb.WriteString("|------|------|----------|------|------|-------|------------|------|\n")
	for _, row := range in.Result.Rows {
		writeReconciliation(&sb, row)
	}
	sb.WriteString("\n")

	stats := in.Result.Stats
	sb.WriteString("## 📈 統計摘要\n\n")
	sb.WriteString(fmt.Sprintf("- 總計研判：%d 檔\n", stats.Total))
	sb.WriteString(fmt.Sprintf("- ✅ 符合：%d 檔 (%d%%)\n", stats.Matched, stats.AccuracyPct))
	sb.WriteString(fmt.Sprintf("- ❌ 誤判：%d 檔 (%d%%)\n", stats.Missed, stats.WrongPct))
	sb.WriteString(fmt.Sprintf("- ➖ 中性：%d 檔（不計入）\n\n", stats.Neutral))

	sb.WriteString("## ✅ 符合分析\n\n")
	if len(in.Result.MatchedList) > 0 {
		writeNarrative(&sb, in.Result.MatchedList[0],
			"(請填寫實際走勢與法人動向)", "- **符合原因**：(請填寫分析)", "(其餘符合個股請自行補充...)")
	} else {
		sb.WriteString("(今日無符合項目)\n\n")
	}

	sb.WriteString("## ❌ 誤判分析\n\n")
	if len(in.Result.MissedList) > 0 {
		writeNarrative(&sb, in.Result.MissedList[0],
			"(請填寫實際走勢)", "- **誤判原因**：(請填寫分析，如：大盤拖累、利多出盡...)", "(其餘誤判個股請自行補充...)")
	} else {
		sb.WriteString("(今日無誤判項目)\n\n")
	}

	sb.WriteString("## 💡 後續建議\n\n")
	sb.WriteString("1. **強化因子**：\n")
	sb.WriteString("2. **注意事項**：\n")

	return sb.String()
}

func writeReconciliation(sb *strings.Builder, row models.Reconciliation) {
	open, closePrice, pct := "-", "-", "-"
	if q := row.Quote; q != nil {
		open = formatNumber(q.Open)
		closePrice = formatNumber(q.Close)
		pct = formatPercent(q.ChangePercent)
	}
	net := "-"
	if row.InstNet != nil {
		net = formatShares(*row.InstNet)
	}

	p := row.Prediction
	sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
		escapeCell(p.Code), escapeCell(p.Name), p.Impact.Label(), open, closePrice, pct, net, row.Verdict.Label()))
}

func writeNarrative(sb *strings.Builder, p models.Prediction, actual, cause, more string) {
	sb.WriteString(fmt.Sprintf("### 1. %s（%s）\n", singleLine(p.Name), singleLine(p.Code)))
	sb.WriteString(fmt.Sprintf("- **盤前理由**：%s\n", singleLine(p.Reason)))
	sb.WriteString(fmt.Sprintf("- **實際表現**：%s\n", actual))
	sb.WriteString(cause + "\n")
	sb.WriteString(fmt.Sprintf("\n%s\n\n", more))
}
