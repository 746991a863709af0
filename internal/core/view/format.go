package view

import "fmt"

// Tone is the three-way visual treatment of a signed amount.
type Tone string

const (
	ToneNeutral  Tone = "neutral"
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
)

// ToneOf maps zero to neutral, gains to positive and losses to negative.
func ToneOf(v float64) Tone {
	switch {
	case v == 0:
		return ToneNeutral
	case v > 0:
		return TonePositive
	default:
		return ToneNegative
	}
}

// FormatDelta renders a recent-change indicator: a "+" prefix for
// non-negative values, two decimals and a dollar suffix ("+12.00$", "-3.00$").
func FormatDelta(v float64) string {
	sign := ""
	if v >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f$", sign, v)
}

// FormatAmount renders a balance or total without a forced sign.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f$", v)
}
