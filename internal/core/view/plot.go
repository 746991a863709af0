package view

import (
	"strconv"
	"strings"
	"time"
)

// Chart viewport used by the web dashboard.
const (
	ChartWidth   = 600.0
	ChartHeight  = 300.0
	chartPadding = 24.0
	barFill      = 0.8
)

// Mark is a series point projected into the SVG viewport.
type Mark struct {
	X, Y      float64 // line vertex, centred in its slot
	BarX      float64
	BarY      float64
	BarWidth  float64
	BarHeight float64
	Value     float64
	Date      time.Time
	Tone      Tone
}

// Plot is a series scaled into a Width x Height viewport.
type Plot struct {
	Width, Height float64
	Min, Max      float64
	ZeroY         float64
	Marks         []Mark
}

// NewPlot scales series into the default viewport. Points are spaced
// evenly by index; the value axis spans [min, max], widened to contain zero
// when includeZero is set (bar charts grow from the zero line).
func NewPlot(series []Point, includeZero bool) Plot {
	p := Plot{Width: ChartWidth, Height: ChartHeight}
	if len(series) == 0 {
		p.ZeroY = ChartHeight / 2
		return p
	}

	p.Min, p.Max = series[0].Value, series[0].Value
	for _, pt := range series[1:] {
		p.Min = min(p.Min, pt.Value)
		p.Max = max(p.Max, pt.Value)
	}
	if includeZero {
		p.Min = min(p.Min, 0)
		p.Max = max(p.Max, 0)
	}

	slot := (p.Width - 2*chartPadding) / float64(len(series))
	p.ZeroY = p.y(0)
	p.Marks = make([]Mark, 0, len(series))
	for i, pt := range series {
		left := chartPadding + float64(i)*slot
		y := p.y(pt.Value)
		p.Marks = append(p.Marks, Mark{
			X:         left + slot/2,
			Y:         y,
			BarX:      left + slot*(1-barFill)/2,
			BarY:      min(y, p.ZeroY),
			BarWidth:  slot * barFill,
			BarHeight: max(y, p.ZeroY) - min(y, p.ZeroY),
			Value:     pt.Value,
			Date:      pt.Date,
			Tone:      pt.Tone,
		})
	}
	return p
}

// y maps a value to the vertical SVG coordinate (top is 0).
func (p Plot) y(v float64) float64 {
	span := p.Max - p.Min
	if span == 0 {
		return p.Height / 2
	}
	return chartPadding + (p.Max-v)/span*(p.Height-2*chartPadding)
}

// Polyline returns the "x,y x,y ..." points attribute of the line chart.
func (p Plot) Polyline() string {
	parts := make([]string, 0, len(p.Marks))
	for _, m := range p.Marks {
		parts = append(parts, strconv.FormatFloat(m.X, 'f', 1, 64)+","+strconv.FormatFloat(m.Y, 'f', 1, 64))
	}
	return strings.Join(parts, " ")
}
