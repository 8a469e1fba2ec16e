// Package report renders the pre-market and post-market Markdown reports.
// Rendering is pure: the same input always yields the same bytes.
package report

// Options bounds the size of each report section.
type Options struct {
	ImpactRows        int    // rows in the impact table
	InstitutionalRows int    // rows per market in the institutional section
	NewsPerSource     int    // headlines per news source
	ReasonRunes       int    // title runes kept in an impact reason
	PreMarketSources  string // 來源 line of the pre-market report
	PostMarketSources string // 資料來源 line of the post-market report
}

// DefaultOptions returns the standard section limits.
func DefaultOptions() Options {
	return Options{
		ImpactRows:        10,
		InstitutionalRows: 10,
		NewsPerSource:     15,
		ReasonRunes:       30,
		PreMarketSources:  "MOPS (公開資訊觀測站)、鉅亨網、財報狗、MoneyDJ、證交所/櫃買中心",
		PostMarketSources: "證交所、櫃買中心",
	}
}

const timestampLayout = "2006/01/02 15:04:05"
