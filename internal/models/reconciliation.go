package models

// Verdict is the outcome of comparing a prediction against the session's price move.
type Verdict string

const (
	VerdictMatch     Verdict = "match"
	VerdictMiss      Verdict = "miss"
	VerdictNoData    Verdict = "no-data"
	VerdictNotScored Verdict = "not-scored" // neutral prediction with a quote
)

// Label returns the Markdown label for the verdict.
func (v Verdict) Label() string {
	switch v {
	case VerdictMatch:
		return "✅ 符合"
	case VerdictMiss:
		return "❌ 誤判"
	case VerdictNoData:
		return "❓ 無數據"
	default:
		return "➖ N/A"
	}
}

// Reconciliation is the derived result for one prediction.
type Reconciliation struct {
	Prediction Prediction  `json:"prediction"`
	Quote      *PriceQuote `json:"quote,omitempty"`
	Verdict    Verdict     `json:"verdict"`
	InstNet    *float64    `json:"inst_net,omitempty"` // nil when no institutional record or net unknown
}

// AccuracyStats aggregates verdicts. Total excludes no-data and neutral predictions.
type AccuracyStats struct {
	Total       int `json:"total"`
	Matched     int `json:"matched"`
	Missed      int `json:"missed"`
	Neutral     int `json:"neutral"`
	NoData      int `json:"no_data"`
	AccuracyPct int `json:"accuracy_pct"`
	WrongPct    int `json:"wrong_pct"`
}
