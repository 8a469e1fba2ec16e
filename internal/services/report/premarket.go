package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/twbrief/internal/models"
)

// ImpactTableHeader is the header of the pre-market impact table.
// The post-market fallback parser locates the table by it.
var ImpactTableHeader = []string{"代碼", "名稱", "影響", "簡要理由"}

const (
	sectionImpact        = "## 📊 個股影響總表"
	sectionInstitutional = "## 💰 三大法人買賣超重點"
	sectionAnnouncements = "## 📢 MOPS 重大公告精選"
	sectionNews          = "## 📰 新聞精選"

	noImpactRow        = "| - | - | ➖ 中性 | (今日新聞未偵測到明顯個股利多/空關鍵字) |"
	noInstitutional    = "(尚無資料或今日未開盤)"
	emptyInstitutional = "(無資料)"
	noAnnouncements    = "(無 MOPS 資料)"
)

// PreMarket is everything the pre-market report shows.
type PreMarket struct {
	Date        string    // YYYYMMDD
	GeneratedAt time.Time // printed as 執行時間, already in the report time zone

	// News holds every classified headline in scan order (cnyes, statementdog, moneydj).
	News  []models.ClassifiedNews
	Feeds []models.NewsFeed

	Institutional []models.InstitutionalTable // TWSE first

	Announcements        []models.MarketAnnouncements
	AnnouncementsPresent bool
}

// ImpactRow is one line of the impact table.
type ImpactRow struct {
	Code   string
	Name   string
	Impact models.Impact
	Reason string
}

// SelectImpactRows picks up to limit non-neutral headlines that name a stock.
// The first headline seen for a code wins.
func SelectImpactRows(news []models.ClassifiedNews, limit, reasonRunes int) []ImpactRow {
	var rows []ImpactRow
	seen := make(map[string]bool)
	for _, n := range news {
		if len(rows) >= limit {
			break
		}
		if n.Stock == nil || n.Impact == models.ImpactNeutral || seen[n.Stock.Code] {
			continue
		}
		seen[n.Stock.Code] = true
		rows = append(rows, ImpactRow{
			Code:   n.Stock.Code,
			Name:   n.Stock.Name,
			Impact: n.Impact,
			Reason: truncateRunes(n.Item.Title, reasonRunes) + "...",
		})
	}
	return rows
}

// RenderPreMarket renders the pre-market research report.
func RenderPreMarket(in PreMarket, opts Options) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# 台股盤前調研報告（%s）\n\n", displayDate(in.Date)))
	sb.WriteString(fmt.Sprintf("> 調研日期：%s\n", in.Date))
	sb.WriteString(fmt.Sprintf("> 執行時間：%s\n", in.GeneratedAt.Format(timestampLayout)))
	sb.WriteString(fmt.Sprintf("> 來源：%s\n\n", opts.PreMarketSources))

	writeImpactTable(&sb, SelectImpactRows(in.News, opts.ImpactRows, opts.ReasonRunes))

	sb.WriteString(sectionInstitutional + "\n\n")
	for _, table := range in.Institutional {
		writeInstitutional(&sb, table, opts.InstitutionalRows)
	}

	sb.WriteString(sectionAnnouncements + "\n\n")
	if !in.AnnouncementsPresent {
		sb.WriteString(noAnnouncements + "\n\n")
	}
	for _, market := range in.Announcements {
		writeAnnouncements(&sb, market)
	}

	sb.WriteString(sectionNews + "\n\n")
	for _, feed := range in.Feeds {
		if !feed.Present {
			continue
		}
		writeFeed(&sb, feed, opts.NewsPerSource)
	}

	return sb.String()
}

func writeImpactTable(sb *strings.Builder, rows []ImpactRow) {
	sb.WriteString(sectionImpact + "\n\n")
	sb.WriteString("| " + strings.Join(ImpactTableHeader, " | ") + " |\n")
	sb.WriteString("|------|------|------|----------|\n")
	if len(rows) == 0 {
		sb.WriteString(noImpactRow + "\n")
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeCell(r.Code), escapeCell(r.Name), r.Impact.Label(), escapeCell(r.Reason)))
	}
	sb.WriteString("\n")
}

func writeInstitutional(sb *strings.Builder, table models.InstitutionalTable, limit int) {
	sb.WriteString(fmt.Sprintf("### %s\n", table.Market))
	switch {
	case !table.Usable():
		sb.WriteString(noInstitutional + "\n\n")
		return
	case len(table.Records) == 0:
		sb.WriteString(emptyInstitutional + "\n\n")
		return
	}

	sb.WriteString("| 代號 | 名稱 | 買賣超股數 |\n|---|---|---|\n")
	for i, r := range table.Records {
		if i >= limit {
			break
		}
		net := "-"
		if r.NetKnown {
			net = formatShares(r.NetShares)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", escapeCell(r.Code), escapeCell(r.Name), net))
	}
	sb.WriteString("\n")
}

func writeAnnouncements(sb *strings.Builder, market models.MarketAnnouncements) {
	sb.WriteString(fmt.Sprintf("### %s\n", singleLine(market.Market)))
	for _, g := range market.Groups {
		sb.WriteString(fmt.Sprintf("#### %s\n", singleLine(g.Category)))
		for _, r := range g.Records {
			sb.WriteString(fmt.Sprintf("- **%s %s**: %s\n", singleLine(r.Code), singleLine(r.Name), singleLine(r.Title)))
		}
	}
	sb.WriteString("\n")
}

func writeFeed(sb *strings.Builder, feed models.NewsFeed, limit int) {
	sb.WriteString(fmt.Sprintf("### %s\n", feed.Label))
	for i, item := range feed.Items {
		if i >= limit {
			break
		}
		link := item.Link
		if link == "" {
			link = "#"
		}
		sb.WriteString(fmt.Sprintf("- [%s](%s) (%s)\n", singleLine(item.Title), singleLine(link), singleLine(item.Time)))
	}
	sb.WriteString("\n")
}
