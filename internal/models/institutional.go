package models

// InstitutionalRecord is one security's aggregate institutional net flow (三大法人買賣超).
type InstitutionalRecord struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	NetShares float64 `json:"net_shares"`
	NetKnown  bool    `json:"net_known"` // false when the source row carried no net column
}

// InstitutionalTable is the normalised institutional source for one market.
type InstitutionalTable struct {
	Market     string                `json:"market"`
	Present    bool                  `json:"present"`    // source artifact existed and parsed
	Degenerate bool                  `json:"degenerate"` // no code field could be discovered
	Records    []InstitutionalRecord `json:"records"`
	Warnings   []string              `json:"warnings,omitempty"`
}

// Usable reports whether the table can be rendered as rows.
func (t InstitutionalTable) Usable() bool {
	return t.Present && !t.Degenerate
}

// InstitutionalIndex maps stock code to its institutional record.
type InstitutionalIndex map[string]InstitutionalRecord

// IndexInstitutional folds tables into a lookup. Earlier tables win on duplicate codes.
func IndexInstitutional(tables ...InstitutionalTable) InstitutionalIndex {
	idx := make(InstitutionalIndex)
	for _, t := range tables {
		if !t.Usable() {
			continue
		}
		for _, r := range t.Records {
			if _, exists := idx[r.Code]; !exists {
				idx[r.Code] = r
			}
		}
	}
	return idx
}
