package dqmplot

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// PreciseTicks places about NSuggestedTicks labelled ticks on round values
// with unlabelled minor ticks in between.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	if t.NSuggestedTicks < 2 {
		t.NSuggestedTicks = 4
	}
	if !(max > min) {
		return []plot.Tick{{Value: min, Label: formatFloatTick(min)}}
	}

	tens := math.Pow10(int(math.Floor(math.Log10(max - min))))
	n := (max - min) / tens
	for n < float64(t.NSuggestedTicks)-1 {
		tens /= 10
		n = (max - min) / tens
	}

	majorMult := int(n / float64(t.NSuggestedTicks-1))
	switch majorMult {
	case 7:
		majorMult = 6
	case 9:
		majorMult = 8
	}
	majorDelta := float64(majorMult) * tens

	var ticks []plot.Tick
	prec := -int(math.Floor(math.Log10(majorDelta)))
	for val := math.Ceil(min/majorDelta) * majorDelta; val <= max; val += majorDelta {
		v := round(val, prec)
		ticks = append(ticks, plot.Tick{Value: v, Label: formatFloatTick(v)})
	}

	minorDelta := majorDelta / 2
	switch majorMult {
	case 3, 6:
		minorDelta = majorDelta / 3
	case 5:
		minorDelta = majorDelta / 5
	}
	for i := math.Ceil(min / minorDelta); i*minorDelta <= max; i++ {
		v := round(i*minorDelta, prec+1)
		if !hasTick(ticks, v) {
			ticks = append(ticks, plot.Tick{Value: v})
		}
	}
	return ticks
}

// PerEventTicks relabels the ticks of a count axis with the counts divided
// by the number of events.
type PerEventTicks struct {
	plot.Ticker
	NumEvents float64
}

func (t PerEventTicks) Ticks(min, max float64) []plot.Tick {
	ticks := t.Ticker.Ticks(min, max)
	if t.NumEvents <= 0 {
		return ticks
	}
	for i, tk := range ticks {
		if tk.Label == "" {
			continue
		}
		ticks[i].Label = formatFloatTick(tk.Value / t.NumEvents)
	}
	return ticks
}

func hasTick(ticks []plot.Tick, v float64) bool {
	for _, t := range ticks {
		if math.Abs(t.Value-v) < 1e-9*math.Max(1, math.Abs(v)) {
			return true
		}
	}
	return false
}

func round(x float64, prec int) float64 {
	if x == 0 {
		// Make sure zero is returned
		// without the negative bit set.
		return 0
	}
	pow := math.Pow10(prec)
	intermed := x * pow
	if math.IsInf(intermed, 0) {
		return x
	}
	x = math.Round(intermed)
	if x == 0 {
		return 0
	}
	return x / pow
}

func formatFloatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
