package models

// NewsItem is one headline from a news producer.
type NewsItem struct {
	Time   string `json:"time"`   // Free-form or "MM/DD HH:mm"
	Title  string `json:"title"`
	Link   string `json:"link"`   // May be relative; rendered as-is
	Source string `json:"source"` // Producer name, e.g. "cnyes"
}

// StockRef is a stock code with a best-effort name guessed from free text.
// Name may be empty and must never be used as a join key.
type StockRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ClassifiedNews annotates a NewsItem without modifying it.
type ClassifiedNews struct {
	Item   NewsItem  `json:"item"`
	Impact Impact    `json:"impact"`
	Stock  *StockRef `json:"stock,omitempty"` // nil when no code was found
}

// NewsFeed is the normalised output of one news producer.
type NewsFeed struct {
	Source  string     `json:"source"` // Producer key, e.g. "moneydj"
	Label   string     `json:"label"`  // Heading used in the report
	Present bool       `json:"present"`
	Items   []NewsItem `json:"items"`
}
