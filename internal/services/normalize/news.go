package normalize

import (
	"github.com/ternarybob/twbrief/internal/models"
)

// NewsFeed builds the feed of one news producer. Items keep source order.
func NewsFeed(raw []byte, source, label string) (models.NewsFeed, []string) {
	feed := models.NewsFeed{Source: source, Label: label}
	if raw == nil {
		return feed, nil
	}

	res := Normalize(raw, KindNews)
	feed.Present = !res.Malformed
	if res.Degenerate {
		return feed, res.Warnings
	}
	for _, row := range res.Rows {
		title := row.Text(FieldTitle)
		if title == "" {
			continue
		}
		feed.Items = append(feed.Items, models.NewsItem{
			Time:   row.Text(FieldTime),
			Title:  title,
			Link:   row.Text(FieldLink),
			Source: source,
		})
	}
	return feed, res.Warnings
}
