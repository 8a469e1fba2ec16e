package models

// AnnouncementRecord is one MOPS material announcement row.
type AnnouncementRecord struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// AnnouncementGroup holds the announcements of one category within a market.
type AnnouncementGroup struct {
	Category string               `json:"category"`
	Records  []AnnouncementRecord `json:"records"`
}

// MarketAnnouncements holds the non-empty categories of one market, in source order.
type MarketAnnouncements struct {
	Market string              `json:"market"`
	Groups []AnnouncementGroup `json:"groups"`
}
