package normalize

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/ternarybob/twbrief/internal/models"
)

const untitled = "無標題"

// Announcements reads the MOPS document: an array of
// {market, data: {result: [{header, data: [[code, name, date, title, ...]]}]}}.
// Categories without rows and markets without categories are omitted.
func Announcements(raw []byte) (markets []models.MarketAnnouncements, warnings []string, ok bool) {
	if raw == nil {
		return nil, nil, false
	}
	if !gjson.ValidBytes(raw) {
		return nil, []string{"document is not valid JSON"}, false
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return nil, []string{fmt.Sprintf("expected an array of markets, got %s", doc.Type)}, false
	}

	for _, m := range doc.Array() {
		result := m.Get("data.result")
		if !result.IsArray() {
			continue
		}
		ma := models.MarketAnnouncements{Market: CleanText(m.Get("market").String())}
		for _, category := range result.Array() {
			group := models.AnnouncementGroup{Category: CleanText(category.Get("header").String())}
			for _, row := range category.Get("data").Array() {
				if !row.IsArray() {
					continue
				}
				group.Records = append(group.Records, announcementRecord(row.Array()))
			}
			if len(group.Records) > 0 {
				ma.Groups = append(ma.Groups, group)
			}
		}
		if len(ma.Groups) > 0 {
			markets = append(markets, ma)
		}
	}
	return markets, nil, true
}

func announcementRecord(cells []gjson.Result) models.AnnouncementRecord {
	cell := func(i int) string {
		if i < len(cells) {
			return CleanText(cells[i].String())
		}
		return ""
	}
	title := cell(3)
	if title == "" {
		title = cell(2)
	}
	if title == "" {
		title = untitled
	}
	return models.AnnouncementRecord{Code: cell(0), Name: cell(1), Title: title}
}
