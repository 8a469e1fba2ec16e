package normalize

import (
	"github.com/ternarybob/twbrief/internal/models"
)

// Predictions reads a structured prediction list such as input.json.
// ok is false when raw holds no usable prediction list.
func Predictions(raw []byte) (preds []models.Prediction, warnings []string, ok bool) {
	if raw == nil {
		return nil, nil, false
	}

	res := Normalize(raw, KindPrediction)
	if !res.Listed || res.Degenerate {
		return nil, res.Warnings, false
	}
	for _, row := range res.Rows {
		code := row.Text(FieldCode)
		if code == "" {
			code = row.Key
		}
		if code == "" {
			continue
		}
		preds = append(preds, models.Prediction{
			Code:   code,
			Name:   row.Text(FieldName),
			Impact: models.ParseImpact(row.Text(FieldImpact)),
			Reason: row.Text(FieldReason),
		})
	}
	return preds, res.Warnings, true
}
