package view

import (
	"time"

	"balance-dashboard/internal/core/domain"
)

// Point is one row of a chart series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Tone  Tone      `json:"tone"`
}

// BalanceSeries is the source of the balance-over-time line chart.
func BalanceSeries(changes []domain.BalanceChange) []Point {
	sorted := sortOldestFirst(changes)
	points := make([]Point, 0, len(sorted))
	for _, c := range sorted {
		points = append(points, Point{Date: c.CreatedAt, Value: c.Balance, Tone: ToneNeutral})
	}
	return points
}

// DiffSeries is the source of the balance-delta bar chart. Plain deposits and
// withdrawals are left out on purpose: the chart shows adjustment events
// (update, lock, shutdown) only.
func DiffSeries(changes []domain.BalanceChange) []Point {
	sorted := sortOldestFirst(changes)
	points := make([]Point, 0, len(sorted))
	for _, c := range sorted {
		if c.State.IsTransfer() {
			continue
		}
		points = append(points, Point{Date: c.CreatedAt, Value: c.BalanceDiff, Tone: barTone(c.BalanceDiff)})
	}
	return points
}

// barTone is two-way: bars at or above zero are drawn as gains.
func barTone(v float64) Tone {
	if v >= 0 {
		return TonePositive
	}
	return ToneNegative
}
