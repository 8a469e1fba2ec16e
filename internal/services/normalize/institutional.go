package normalize

import (
	"github.com/ternarybob/twbrief/internal/models"
)

// Institutional builds the institutional table for one market.
// A nil raw means the source artifact was absent.
func Institutional(raw []byte, market string) models.InstitutionalTable {
	table := models.InstitutionalTable{Market: market}
	if raw == nil {
		return table
	}

	res := Normalize(raw, KindInstitutional)
	table.Warnings = res.Warnings
	if res.Malformed {
		return table
	}
	table.Present = true
	table.Degenerate = res.Degenerate

	for _, row := range res.Rows {
		rec := models.InstitutionalRecord{
			Code: row.Text(FieldCode),
			Name: row.Text(FieldName),
		}
		if row.Has(FieldNet) {
			net, ok := row.Number(FieldNet)
			if !ok {
				table.Warnings = append(table.Warnings, "unparsable net for "+rec.Code+"; using 0")
			}
			rec.NetShares = net
			rec.NetKnown = true
		}
		table.Records = append(table.Records, rec)
	}
	return table
}
