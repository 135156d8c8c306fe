package kpi

import "time"

// Forecast horizon bounds in months.
const (
	MinHorizon     = 6
	MaxHorizon     = 36
	DefaultHorizon = 12
)

// ForecastPoint is one month of the consumption series. Projected marks
// forecast months as opposed to observed history.
type ForecastPoint struct {
	Month     string  `json:"month"`
	ValueM3   float64 `json:"valueM3"`
	Projected bool    `json:"projected"`
}

// ClampHorizon snaps an out-of-range horizon to the nearest bound and maps
// zero to the default.
func ClampHorizon(h int) int {
	switch {
	case h == 0:
		return DefaultHorizon
	case h < MinHorizon:
		return MinHorizon
	case h > MaxHorizon:
		return MaxHorizon
	}
	return h
}

// forecast projects monthly billed volume with a least-squares trend plus
// per-calendar-month seasonal offsets fitted on the trend residuals. The
// returned series contains the observed months followed by horizon projected
// months. Fewer than two observed months yields history only.
func (e *Engine) forecast(billing map[time.Time]*monthlyBilling, horizon int) []ForecastPoint {
	horizon = ClampHorizon(horizon)
	months := sortedMonths(billing)
	out := make([]ForecastPoint, 0, len(months)+horizon)
	for _, m := range months {
		out = append(out, ForecastPoint{Month: m.Format(monthLayout), ValueM3: billing[m].volume})
	}
	if len(months) < 2 {
		return out
	}

	// Fit y = a + b*x on the observed series index.
	n := float64(len(months))
	var sumX, sumY, sumXY, sumXX float64
	for i, m := range months {
		x, y := float64(i), billing[m].volume
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	den := n*sumXX - sumX*sumX
	var a, b float64
	if den != 0 {
		b = (n*sumXY - sumX*sumY) / den
		a = (sumY - b*sumX) / n
	} else {
		a = sumY / n
	}

	var resSum, resCount [13]float64
	for i, m := range months {
		res := billing[m].volume - (a + b*float64(i))
		resSum[m.Month()] += res
		resCount[m.Month()]++
	}

	last := months[len(months)-1]
	for i := 1; i <= horizon; i++ {
		m := last.AddDate(0, i, 0)
		v := a + b*float64(len(months)-1+i)
		if resCount[m.Month()] > 0 {
			v += resSum[m.Month()] / resCount[m.Month()]
		}
		if v < 0 {
			v = 0
		}
		out = append(out, ForecastPoint{Month: m.Format(monthLayout), ValueM3: v, Projected: true})
	}
	return out
}
