package models

// Prediction is a pre-market call on a single stock.
type Prediction struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Impact Impact `json:"impact"`
	Reason string `json:"reason"`
}

// PredictionOrigin records where a prediction set was read from.
type PredictionOrigin string

const (
	PredictionsFromJSON     PredictionOrigin = "input.json"
	PredictionsFromMarkdown PredictionOrigin = "pre-market report"
	PredictionsNone         PredictionOrigin = "none"
)
