package kpi

import (
	"sort"

	"aquadash.wasreb.org/internal/dataset"
)

// weighted accumulates a population-weighted percentage.
type weighted struct{ sum, pop float64 }

// Ladder is the JMP service ladder for one zone at the latest year within
// the filter. Percentages are population shares, 0-100.
type Ladder struct {
	SafelyManagedPct float64 `json:"safelyManagedPct"`
	BasicPct         float64 `json:"basicPct"`
	LimitedPct       float64 `json:"limitedPct"`
	UnimprovedPct    float64 `json:"unimprovedPct"`
	// SurfaceWater for water ladders, open defecation for sanitation.
	LowestRungPct float64 `json:"lowestRungPct"`
}

// ZoneAccess joins the water and sanitation ladders for one zone with the
// derived priority score and water-sanitation gap.
type ZoneAccess struct {
	Country       string  `json:"country"`
	Zone          string  `json:"zone"`
	Population    float64 `json:"population"`
	Water         Ladder  `json:"water"`
	Sanitation    Ladder  `json:"sanitation"`
	PriorityScore float64 `json:"priorityScore"`
	WaterSanGap   float64 `json:"waterSanGap"`
}

// Access summarises water and sanitation access for the filtered selection.
// Headline percentages are population-weighted across zones.
type Access struct {
	SafeWaterPct    float64      `json:"safeWaterPct"`
	SafeSanPct      float64      `json:"safeSanPct"`
	NoBasicWaterPct float64      `json:"noBasicWaterPct"`
	OpenDefPct      float64      `json:"openDefPct"`
	Zones           []ZoneAccess `json:"zones"`
	WaterTrend      []YearValue  `json:"waterTrend"`
	SanitationTrend []YearValue  `json:"sanitationTrend"`
}

func (e *Engine) Access(f Filter) Access {
	var safeWater, noBasic, safeSan, openDef weighted
	waterByYear := map[int]*weighted{}
	sanByYear := map[int]*weighted{}

	latestWater := map[string]dataset.WaterAccessRecord{}
	for _, r := range e.Data.WaterAccess() {
		if !f.matchCountry(r.Country) || !f.matchYear(r.Date) || !f.matchZone(r.Zone) {
			continue
		}
		safeWater.sum += r.SafelyManagedPct * r.PopnTotal
		safeWater.pop += r.PopnTotal
		noBasic.sum += (r.LimitedPct + r.UnimprovedPct + r.SurfaceWaterPct) * r.PopnTotal
		noBasic.pop += r.PopnTotal
		if waterByYear[r.Year] == nil {
			waterByYear[r.Year] = &weighted{}
		}
		waterByYear[r.Year].sum += r.SafelyManagedPct * r.PopnTotal
		waterByYear[r.Year].pop += r.PopnTotal

		key := r.Country + "/" + r.Zone
		if prev, ok := latestWater[key]; !ok || r.Year > prev.Year {
			latestWater[key] = r
		}
	}

	latestSan := map[string]dataset.SanitationAccessRecord{}
	for _, r := range e.Data.SanitationAccess() {
		if !f.matchCountry(r.Country) || !f.matchYear(r.Date) || !f.matchZone(r.Zone) {
			continue
		}
		safeSan.sum += r.SafelyManagedPct * r.PopnTotal
		safeSan.pop += r.PopnTotal
		openDef.sum += r.OpenDefPct * r.PopnTotal
		openDef.pop += r.PopnTotal
		if sanByYear[r.Year] == nil {
			sanByYear[r.Year] = &weighted{}
		}
		sanByYear[r.Year].sum += r.SafelyManagedPct * r.PopnTotal
		sanByYear[r.Year].pop += r.PopnTotal

		key := r.Country + "/" + r.Zone
		if prev, ok := latestSan[key]; !ok || r.Year > prev.Year {
			latestSan[key] = r
		}
	}

	out := Access{
		SafeWaterPct:    ratio(safeWater.sum, safeWater.pop),
		SafeSanPct:      ratio(safeSan.sum, safeSan.pop),
		NoBasicWaterPct: ratio(noBasic.sum, noBasic.pop),
		OpenDefPct:      ratio(openDef.sum, openDef.pop),
	}

	keys := make([]string, 0, len(latestWater))
	for k := range latestWater {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w := latestWater[k]
		z := ZoneAccess{
			Country:    w.Country,
			Zone:       w.Zone,
			Population: w.PopnTotal,
			Water: Ladder{
				SafelyManagedPct: w.SafelyManagedPct,
				BasicPct:         w.BasicPct,
				LimitedPct:       w.LimitedPct,
				UnimprovedPct:    w.UnimprovedPct,
				LowestRungPct:    w.SurfaceWaterPct,
			},
		}
		noBasicWater := w.LimitedPct + w.UnimprovedPct + w.SurfaceWaterPct
		z.PriorityScore = noBasicWater
		z.WaterSanGap = w.SafelyManagedPct
		if s, ok := latestSan[k]; ok {
			z.Sanitation = Ladder{
				SafelyManagedPct: s.SafelyManagedPct,
				BasicPct:         s.BasicPct,
				LimitedPct:       s.LimitedPct,
				UnimprovedPct:    s.UnimprovedPct,
				LowestRungPct:    s.OpenDefPct,
			}
			z.PriorityScore += s.OpenDefPct
			z.WaterSanGap -= s.SafelyManagedPct
		}
		out.Zones = append(out.Zones, z)
	}
	sort.SliceStable(out.Zones, func(i, j int) bool {
		return out.Zones[i].PriorityScore > out.Zones[j].PriorityScore
	})

	out.WaterTrend = yearSeries(waterByYear)
	out.SanitationTrend = yearSeries(sanByYear)
	return out
}

func yearSeries(byYear map[int]*weighted) []YearValue {
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	out := make([]YearValue, 0, len(years))
	for _, y := range years {
		w := byYear[y]
		out = append(out, YearValue{Year: y, Value: ratio(w.sum, w.pop)})
	}
	return out
}
