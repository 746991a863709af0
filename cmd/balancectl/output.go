package main

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"balance-dashboard/internal/core/ports"
	"balance-dashboard/internal/core/view"
)

// Every tone has a colour of the same byte length so tabwriter columns stay
// aligned on a terminal.
const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorDefault = "\033[39m"
)

const (
	timeLayout = "2006-01-02 15:04"
	barWidth   = 40
)

func (a *app) paint(tone view.Tone, s string) string {
	if !a.color {
		return s
	}
	c := colorDefault
	switch tone {
	case view.TonePositive:
		c = colorGreen
	case view.ToneNegative:
		c = colorRed
	}
	return c + s + colorReset
}

func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(timeLayout)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
}

func writeOverview(a *app, o *ports.Overview) error {
	if len(o.Cards) == 0 {
		if o.Search != "" {
			fmt.Fprintf(a.stdout, "no accounts match %q\n", o.Search)
		} else {
			fmt.Fprintln(a.stdout, "no accounts")
		}
		return nil
	}

	w := a.table()
	fmt.Fprintln(w, "NAME\tBALANCE\t24H\tUPDATED\tID")
	for _, card := range o.Cards {
		delta := a.paint(card.Tone, card.Delta)
		if card.Err != "" {
			delta = a.paint(view.ToneNegative, "error: "+card.Err)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			card.Account.Name,
			view.FormatAmount(card.Account.CurrentBalance),
			delta,
			formatTime(card.Account.LastBalanceUpdate, a.loc),
			card.Account.ID,
		)
	}
	return w.Flush()
}

func writeHeader(a *app, d *ports.AccountDetail) {
	fmt.Fprintf(a.stdout, "%s  %s\n", d.Account.Name, view.FormatAmount(d.Account.CurrentBalance))
	fmt.Fprintf(a.stdout, "%s .. %s\n\n", formatTime(d.From, a.loc), formatTime(d.To, a.loc))
}

func writeChanges(a *app, d *ports.AccountDetail) error {
	writeHeader(a, d)
	if len(d.Changes) == 0 {
		fmt.Fprintln(a.stdout, "no balance changes in this range")
		return nil
	}

	w := a.table()
	fmt.Fprintln(w, "DATE\tSTATE\tBALANCE\tDIFF")
	for _, c := range d.Changes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			formatTime(c.CreatedAt, a.loc),
			c.State.Label(),
			view.FormatAmount(c.Balance),
			a.paint(view.ToneOf(c.BalanceDiff), view.FormatDelta(c.BalanceDiff)),
		)
	}
	fmt.Fprintf(w, "\t\tTotal\t%s\n", a.paint(d.TotalTone, view.FormatAmount(d.Total)))
	if err := w.Flush(); err != nil {
		return err
	}

	for _, m := range d.Mismatches {
		fmt.Fprintf(a.stdout, "warning: change %s expected balance %s, got %s\n",
			m.ChangeID, view.FormatAmount(m.Expected), view.FormatAmount(m.Actual))
	}
	return nil
}

// writeSeries draws a horizontal bar per point, scaled to the largest
// magnitude in the series.
func writeSeries(a *app, d *ports.AccountDetail, series []view.Point) error {
	writeHeader(a, d)
	if len(series) == 0 {
		fmt.Fprintln(a.stdout, "nothing to plot in this range")
		return nil
	}

	var peak float64
	for _, p := range series {
		peak = math.Max(peak, math.Abs(p.Value))
	}

	w := a.table()
	for _, p := range series {
		n := 0
		if peak > 0 {
			n = int(math.Round(math.Abs(p.Value) / peak * barWidth))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			formatTime(p.Date, a.loc),
			view.FormatAmount(p.Value),
			a.paint(p.Tone, strings.Repeat("#", n)),
		)
	}
	return w.Flush()
}
