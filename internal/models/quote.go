package models

// PriceQuote is a security's session open/close.
type PriceQuote struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Open          float64 `json:"open"`
	Close         float64 `json:"close"`
	ChangePercent float64 `json:"change_percent"`
}

// Rose reports a strictly higher close than open.
func (q PriceQuote) Rose() bool {
	return q.Close > q.Open
}

// Fell reports a strictly lower close than open.
func (q PriceQuote) Fell() bool {
	return q.Close < q.Open
}

// QuoteBook maps stock code to its quote.
type QuoteBook map[string]PriceQuote
