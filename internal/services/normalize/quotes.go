package normalize

import (
	"github.com/ternarybob/twbrief/internal/models"
)

// Quotes builds a QuoteBook. An array is folded by code with later duplicates
// winning; a code-keyed object is read directly.
func Quotes(raw []byte) (models.QuoteBook, []string) {
	book := make(models.QuoteBook)
	if raw == nil {
		return book, nil
	}

	res := Normalize(raw, KindQuote)
	warnings := res.Warnings
	if res.Degenerate {
		return book, warnings
	}
	for _, row := range res.Rows {
		q := models.PriceQuote{
			Code: row.Text(FieldCode),
			Name: row.Text(FieldName),
		}
		if q.Code == "" {
			q.Code = row.Key
		}
		if q.Code == "" {
			continue
		}

		var ok bool
		if q.Open, ok = row.Number(FieldOpen); !ok {
			warnings = append(warnings, "unparsable open for "+q.Code+"; using 0")
		}
		if q.Close, ok = row.Number(FieldClose); !ok {
			warnings = append(warnings, "unparsable close for "+q.Code+"; using 0")
		}
		if row.Has(FieldChangePercent) {
			if q.ChangePercent, ok = row.Number(FieldChangePercent); !ok {
				warnings = append(warnings, "unparsable change percent for "+q.Code+"; using 0")
			}
		}
		book[q.Code] = q
	}
	return book, warnings
}
