// Package predictions resolves the pre-market predictions a post-market run scores.
package predictions

import (
	"github.com/ternarybob/twbrief/internal/models"
	"github.com/ternarybob/twbrief/internal/services/normalize"
)

// Set is a resolved prediction list and where it came from.
type Set struct {
	Predictions []models.Prediction
	Origin      models.PredictionOrigin
	Warnings    []string
}

// Resolve prefers the structured input list and falls back to the pre-market
// report's impact table. Either argument may be nil when its file is absent.
func Resolve(inputJSON, preMarketReport []byte) Set {
	var set Set

	preds, warnings, ok := normalize.Predictions(inputJSON)
	set.Warnings = warnings
	if ok {
		set.Predictions = preds
		set.Origin = models.PredictionsFromJSON
		return set
	}

	if preMarketReport != nil {
		if parsed, ok := FromMarkdown(preMarketReport); ok {
			set.Predictions = parsed
			set.Origin = models.PredictionsFromMarkdown
			return set
		}
		set.Warnings = append(set.Warnings, "pre-market report has no impact table")
	}

	set.Origin = models.PredictionsNone
	return set
}
