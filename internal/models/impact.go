// Package models defines the canonical records shared by the briefing pipeline.
// Records are read-only once normalised; later stages derive new values.
package models

import "strings"

// Impact is the ternary sentiment label attached to a prediction or news item.
type Impact string

const (
	ImpactBullish Impact = "bullish"
	ImpactBearish Impact = "bearish"
	ImpactNeutral Impact = "neutral"
)

// Report labels as they appear in the impact and reconciliation tables.
const (
	LabelBullish = "⬆️ 利多"
	LabelBearish = "⬇️ 利空"
	LabelNeutral = "➖ 中性"
)

// Label returns the Markdown label for the impact.
func (i Impact) Label() string {
	switch i {
	case ImpactBullish:
		return LabelBullish
	case ImpactBearish:
		return LabelBearish
	default:
		return LabelNeutral
	}
}

// Scored reports whether predictions with this impact count towards accuracy.
func (i Impact) Scored() bool {
	return i == ImpactBullish || i == ImpactBearish
}

// ParseImpact maps English tokens or rendered labels to an Impact.
// Labels are matched on their 利多/利空 stem so "⬆️ 利多" and "利多" agree.
// Anything unrecognised is neutral.
func ParseImpact(s string) Impact {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case string(ImpactBullish):
		return ImpactBullish
	case string(ImpactBearish):
		return ImpactBearish
	}
	switch {
	case strings.Contains(s, "利多"):
		return ImpactBullish
	case strings.Contains(s, "利空"):
		return ImpactBearish
	}
	return ImpactNeutral
}
