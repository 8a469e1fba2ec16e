// Package reconcile scores pre-market predictions against the session's prices.
package reconcile

import (
	"github.com/ternarybob/twbrief/internal/models"
)

// Result is the scored prediction set. Rows keep input order.
type Result struct {
	Rows        []models.Reconciliation
	Stats       models.AccuracyStats
	MatchedList []models.Prediction
	MissedList  []models.Prediction
}

// Reconcile joins each prediction with its quote and institutional record by code.
// A flat session (close == open) is a miss for either direction.
func Reconcile(predictions []models.Prediction, quotes models.QuoteBook, inst models.InstitutionalIndex) Result {
	res := Result{Rows: make([]models.Reconciliation, 0, len(predictions))}

	for _, p := range predictions {
		row := models.Reconciliation{Prediction: p}

		if rec, ok := inst[p.Code]; ok && rec.NetKnown {
			net := rec.NetShares
			row.InstNet = &net
		}

		q, ok := quotes[p.Code]
		if !ok {
			row.Verdict = models.VerdictNoData
			res.Stats.NoData++
			res.Rows = append(res.Rows, row)
			continue
		}
		row.Quote = &q

		switch p.Impact {
		case models.ImpactBullish:
			row.Verdict = verdict(q.Rose())
		case models.ImpactBearish:
			row.Verdict = verdict(q.Fell())
		default:
			row.Verdict = models.VerdictNotScored
			res.Stats.Neutral++
		}

		switch row.Verdict {
		case models.VerdictMatch:
			res.Stats.Matched++
			res.MatchedList = append(res.MatchedList, p)
		case models.VerdictMiss:
			res.Stats.Missed++
			res.MissedList = append(res.MissedList, p)
		}
		res.Rows = append(res.Rows, row)
	}

	res.Stats.Total = res.Stats.Matched + res.Stats.Missed
	if res.Stats.Total > 0 {
		res.Stats.AccuracyPct = roundPercent(res.Stats.Matched, res.Stats.Total)
		res.Stats.WrongPct = 100 - res.Stats.AccuracyPct
	}
	return res
}

func verdict(moved bool) models.Verdict {
	if moved {
		return models.VerdictMatch
	}
	return models.VerdictMiss
}

// roundPercent is round(100*n/d) with halves rounded up, in integer arithmetic.
func roundPercent(n, d int) int {
	return (200*n + d) / (2 * d)
}
