package kpi

import (
	"sort"
	"time"
)

// OpsMonth is one row of the joined monthly production and billing table
// for a country. Rolling and year-over-year fields are nil until enough
// history exists.
type OpsMonth struct {
	Month            string   `json:"month"`
	ProductionM3     float64  `json:"productionM3"`
	MeanServiceHours float64  `json:"meanServiceHours"`
	BilledVolumeM3   float64  `json:"billedVolumeM3"`
	Billed           float64  `json:"billed"`
	Paid             float64  `json:"paid"`
	NRWPct           float64  `json:"nrwPct"`
	NRW3m            *float64 `json:"nrw3m"`
	NRW12m           *float64 `json:"nrw12m"`
	ProductionYoYPct *float64 `json:"productionYoYPct"`
	BilledVolYoYPct  *float64 `json:"billedVolYoYPct"`
	NRWYoYDelta      *float64 `json:"nrwYoYDelta"`
}

// SeasonalMean is the mean billed volume for one calendar month across the
// filtered years.
type SeasonalMean struct {
	MonthName string  `json:"monthName"`
	MeanM3    float64 `json:"meanM3"`
}

// Operations is the production and loss profile of a single country.
type Operations struct {
	Country  string         `json:"country"`
	Months   []OpsMonth     `json:"months"`
	Seasonal []SeasonalMean `json:"seasonal"`
	Forecast []ForecastPoint `json:"forecast"`
}

type monthlyBilling struct {
	volume float64
	billed float64
	paid   float64
}

type monthlyProduction struct {
	volume float64
	hours  float64
	days   int
}

// Operations joins a country's monthly production against its monthly
// billing. Only months present in both series with positive production
// contribute; NRW for those months is (production - billed volume) /
// production. Horizon controls the forecast length.
func (e *Engine) Operations(country string, f Filter, horizon int) Operations {
	f = f.Restrict(country)

	production := map[time.Time]*monthlyProduction{}
	for _, r := range e.Data.Production() {
		if !f.matchCountry(r.Country) || !f.matchYear(r.Date) {
			continue
		}
		m := monthStart(r.Date)
		if production[m] == nil {
			production[m] = &monthlyProduction{}
		}
		production[m].volume += r.ProductionM3
		production[m].hours += r.ServiceHours
		production[m].days++
	}

	billing := map[time.Time]*monthlyBilling{}
	for _, r := range e.Data.Billing() {
		if !f.matchCountry(r.Country) || !f.matchYear(r.Date) || !f.matchZone(r.Zone) {
			continue
		}
		m := monthStart(r.Date)
		if billing[m] == nil {
			billing[m] = &monthlyBilling{}
		}
		billing[m].volume += r.ConsumptionM3
		billing[m].billed += r.Billed
		billing[m].paid += r.Paid
	}

	var months []time.Time
	for m, p := range production {
		if p.volume <= 0 {
			continue
		}
		if _, ok := billing[m]; ok {
			months = append(months, m)
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	byMonth := make(map[time.Time]int, len(months))
	rows := make([]OpsMonth, len(months))
	for i, m := range months {
		p, b := production[m], billing[m]
		rows[i] = OpsMonth{
			Month:          m.Format(monthLayout),
			ProductionM3:   p.volume,
			BilledVolumeM3: b.volume,
			Billed:         b.billed,
			Paid:           b.paid,
			NRWPct:         pct(p.volume-b.volume, p.volume),
		}
		if p.days > 0 {
			rows[i].MeanServiceHours = p.hours / float64(p.days)
		}
		byMonth[m] = i
	}

	for i := range rows {
		rows[i].NRW3m = rollingMean(rows, i, 3)
		rows[i].NRW12m = rollingMean(rows, i, 12)
		prior, ok := byMonth[months[i].AddDate(-1, 0, 0)]
		if !ok {
			continue
		}
		rows[i].ProductionYoYPct = yoyChange(rows[i].ProductionM3, rows[prior].ProductionM3)
		rows[i].BilledVolYoYPct = yoyChange(rows[i].BilledVolumeM3, rows[prior].BilledVolumeM3)
		delta := rows[i].NRWPct - rows[prior].NRWPct
		rows[i].NRWYoYDelta = &delta
	}

	return Operations{
		Country:  country,
		Months:   rows,
		Seasonal: seasonalProfile(billing),
		Forecast: e.forecast(billing, horizon),
	}
}

// rollingMean averages NRW over the trailing window ending at i, nil until
// the window is full.
func rollingMean(rows []OpsMonth, i, window int) *float64 {
	if i+1 < window {
		return nil
	}
	var sum float64
	for j := i + 1 - window; j <= i; j++ {
		sum += rows[j].NRWPct
	}
	mean := sum / float64(window)
	return &mean
}

// yoyChange is the percentage change against the same month a year earlier,
// nil when the prior value is zero.
func yoyChange(current, prior float64) *float64 {
	if prior == 0 {
		return nil
	}
	change := (current - prior) / prior * 100
	return &change
}

func seasonalProfile(billing map[time.Time]*monthlyBilling) []SeasonalMean {
	var sums, counts [13]float64
	for m, b := range billing {
		sums[m.Month()] += b.volume
		counts[m.Month()]++
	}
	var out []SeasonalMean
	for mo := time.January; mo <= time.December; mo++ {
		if counts[mo] == 0 {
			continue
		}
		out = append(out, SeasonalMean{
			MonthName: mo.String(),
			MeanM3:    sums[mo] / counts[mo],
		})
	}
	return out
}

// ZoneMonth is one zone's billing performance for a single month.
type ZoneMonth struct {
	Zone              string   `json:"zone"`
	BilledVolumeM3    float64  `json:"billedVolumeM3"`
	Billed            float64  `json:"billed"`
	Paid              float64  `json:"paid"`
	CollectionRatePct *float64 `json:"collectionRatePct"`
	MixSharePct       float64  `json:"mixSharePct"`
}

// ZoneOperations breaks a country's billing for one month down by zone.
// month is "2006-01"; when empty the latest billed month is used. The mix
// share is each zone's portion of the month's billed volume.
type ZoneOperations struct {
	Country string      `json:"country"`
	Month   string      `json:"month"`
	Zones   []ZoneMonth `json:"zones"`
}

func (e *Engine) ZoneOperations(country, month string, f Filter) ZoneOperations {
	f = f.Restrict(country)

	target, _ := time.Parse(monthLayout, month)
	if month == "" {
		for _, r := range e.Data.Billing() {
			if !f.matchCountry(r.Country) || !f.matchYear(r.Date) || !f.matchZone(r.Zone) {
				continue
			}
			if m := monthStart(r.Date); m.After(target) {
				target = m
			}
		}
	}

	byZone := map[string]*ZoneMonth{}
	var totalVolume float64
	for _, r := range e.Data.Billing() {
		if !f.matchCountry(r.Country) || !f.matchYear(r.Date) || !f.matchZone(r.Zone) {
			continue
		}
		if !monthStart(r.Date).Equal(target) {
			continue
		}
		z := byZone[r.Zone]
		if z == nil {
			z = &ZoneMonth{Zone: r.Zone}
			byZone[r.Zone] = z
		}
		z.BilledVolumeM3 += r.ConsumptionM3
		z.Billed += r.Billed
		z.Paid += r.Paid
		totalVolume += r.ConsumptionM3
	}

	out := ZoneOperations{Country: country}
	if !target.IsZero() {
		out.Month = target.Format(monthLayout)
	}
	names := make([]string, 0, len(byZone))
	for z := range byZone {
		names = append(names, z)
	}
	sort.Strings(names)
	for _, name := range names {
		z := *byZone[name]
		if z.Billed > 0 {
			rate := z.Paid / z.Billed * 100
			z.CollectionRatePct = &rate
		}
		z.MixSharePct = pct(z.BilledVolumeM3, totalVolume)
		out.Zones = append(out.Zones, z)
	}
	return out
}
