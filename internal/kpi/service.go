package kpi

import "time"

// FlowPoint carries the three wastewater (or fecal sludge) volumes for one
// month.
type FlowPoint struct {
	Month     string  `json:"month"`
	Collected float64 `json:"collected"`
	Treated   float64 `json:"treated"`
	Reused    float64 `json:"reused"`
}

// ServiceDelivery summarises water supply, quality and sanitation service
// performance for the filtered selection.
type ServiceDelivery struct {
	NRWPct                  float64        `json:"nrwPct"`
	NRWByCountry            []CountryValue `json:"nrwByCountry"`
	QualityPassPct          float64        `json:"qualityPassPct"`
	ChlorineTestsConducted  float64        `json:"chlorineTestsConducted"`
	ChlorineTestsPassed     float64        `json:"chlorineTestsPassed"`
	EcoliPassByCountry      []CountryValue `json:"ecoliPassByCountry"`
	MeteredPct              float64        `json:"meteredPct"`
	SewerCoveragePct        float64        `json:"sewerCoveragePct"`
	WWTreatmentPct          float64        `json:"wwTreatmentPct"`
	ToiletsPer1000ByCountry []CountryValue `json:"toiletsPer1000ByCountry"`
	FemaleWorkforcePct      float64        `json:"femaleWorkforcePct"`
	StaffPer1000ByCountry   []CountryValue `json:"staffPer1000ByCountry"`
	FSTreatmentFactor       float64        `json:"fsTreatmentFactor"`
	SupplyTrend             []MonthValue   `json:"supplyTrend"`
	ConsumptionTrend        []MonthValue   `json:"consumptionTrend"`
	NRWTrend                []MonthValue   `json:"nrwTrend"`
	SewerCoverageTrend      []MonthValue   `json:"sewerCoverageTrend"`
	WWFlow                  []FlowPoint    `json:"wwFlow"`
	FSFlow                  []FlowPoint    `json:"fsFlow"`
}

func (e *Engine) ServiceDelivery(f Filter) ServiceDelivery {
	var supplied, consumed, metered, households float64
	var condChlorine, condEcoli, passChlorine, passEcoli float64
	suppliedByCountry := map[string]float64{}
	consumedByCountry := map[string]float64{}
	ecoliCondByCountry := map[string]float64{}
	ecoliPassByCountry := map[string]float64{}
	suppliedByMonth := map[time.Time]float64{}
	consumedByMonth := map[time.Time]float64{}
	for _, r := range e.Data.WaterService() {
		if !f.matchCountry(r.Country) || !f.matchYear(r.Date) || !f.matchZone(r.Zone) {
			continue
		}
		supplied += r.WSupplied
		consumed += r.TotalConsumption
		metered += r.Metered
		households += r.Households
		condChlorine += r.TestsConductedChlorine
		condEcoli += r.TestsConductedEcoli
		passChlorine += r.TestsPassedChlorine
		passEcoli += r.TestsPassedEcoli
		suppliedByCountry[r.Country] += r.WSupplied
		consumedByCountry[r.Country] += r.TotalConsumption
		ecoliCondByCountry[r.Country] += r.TestsConductedEcoli
		ecoliPassByCountry[r.Country] += r.TestsPassedEcoli
		m := monthStart(r.Date)
		suppliedByMonth[m] += r.WSupplied
		consumedByMonth[m] += r.TotalConsumption
	}

	var wwCollected, wwTreated, wwReused float64
	var hhEmptied, fsTreated float64
	var workforce, fWorkforce float64
	maxConnByZone := map[string]float64{}
	maxHHByZone := map[string]float64{}
	maxToiletsByCountryZone := map[string]map[string]float64{}
	maxHHByCountryZone := map[string]map[string]float64{}
	maxWorkforceByCountry := map[string]float64{}
	connByMonth := map[time.Time]float64{}
	hhByMonth := map[time.Time]float64{}
	wwByMonth := map[time.Time]*FlowPoint{}
	fsByMonth := map[time.Time]*FlowPoint{}
	for _, r := range e.Data.SanitationService() {
		if !f.matchCountry(r.Country) || !f.matchYear(r.Date) || !f.matchZone(r.Zone) {
			continue
		}
		wwCollected += r.WWCollected
		wwTreated += r.WWTreated
		wwReused += r.WWReused
		hhEmptied += r.HHEmptied
		fsTreated += r.FSTreated
		workforce += r.Workforce
		fWorkforce += r.FWorkforce

		zoneKey := r.Country + "/" + r.Zone
		maxConnByZone[zoneKey] = max(maxConnByZone[zoneKey], r.SewerConnections)
		maxHHByZone[zoneKey] = max(maxHHByZone[zoneKey], r.Households)
		if maxToiletsByCountryZone[r.Country] == nil {
			maxToiletsByCountryZone[r.Country] = map[string]float64{}
			maxHHByCountryZone[r.Country] = map[string]float64{}
		}
		maxToiletsByCountryZone[r.Country][r.Zone] = max(maxToiletsByCountryZone[r.Country][r.Zone], r.PublicToilets)
		maxHHByCountryZone[r.Country][r.Zone] = max(maxHHByCountryZone[r.Country][r.Zone], r.Households)
		maxWorkforceByCountry[r.Country] = max(maxWorkforceByCountry[r.Country], r.Workforce)

		m := monthStart(r.Date)
		connByMonth[m] += r.SewerConnections
		hhByMonth[m] += r.Households
		if wwByMonth[m] == nil {
			wwByMonth[m] = &FlowPoint{Month: m.Format(monthLayout)}
			fsByMonth[m] = &FlowPoint{Month: m.Format(monthLayout)}
		}
		wwByMonth[m].Collected += r.WWCollected
		wwByMonth[m].Treated += r.WWTreated
		wwByMonth[m].Reused += r.WWReused
		fsByMonth[m].Collected += r.HHEmptied
		fsByMonth[m].Treated += r.FSTreated
		fsByMonth[m].Reused += r.FSReused
	}

	out := ServiceDelivery{
		NRWPct:                 pct(supplied-consumed, supplied),
		QualityPassPct:         pct(passChlorine+passEcoli, condChlorine+condEcoli),
		ChlorineTestsConducted: condChlorine,
		ChlorineTestsPassed:    passChlorine,
		MeteredPct:             pct(metered, households),
		WWTreatmentPct:         pct(wwTreated, wwCollected),
		FemaleWorkforcePct:     pct(fWorkforce, workforce),
		FSTreatmentFactor:      ratio(fsTreated, hhEmptied),
		SupplyTrend:            monthSeries(suppliedByMonth),
		ConsumptionTrend:       monthSeries(consumedByMonth),
	}

	// Per-country NRW, clipped so a data glitch cannot dominate the chart.
	// Countries with no recorded supply are excluded.
	nrwByCountry := map[string]float64{}
	for c, s := range suppliedByCountry {
		if s <= 0 {
			continue
		}
		nrwByCountry[c] = clip(pct(s-consumedByCountry[c], s), -100, 100)
	}
	out.NRWByCountry = countrySeries(nrwByCountry)

	ecoliPct := map[string]float64{}
	for c, cond := range ecoliCondByCountry {
		if cond > 0 {
			ecoliPct[c] = pct(ecoliPassByCountry[c], cond)
		}
	}
	out.EcoliPassByCountry = countrySeries(ecoliPct)

	// Coverage uses per-zone maxima: connections and households are stock
	// figures repeated each month, so summing across months would inflate them.
	var totalConn, totalHH float64
	for k, conn := range maxConnByZone {
		totalConn += conn
		totalHH += maxHHByZone[k]
	}
	out.SewerCoveragePct = pct(totalConn, totalHH)

	toilets := map[string]float64{}
	staff := map[string]float64{}
	for country, byZone := range maxToiletsByCountryZone {
		var t, hh float64
		for zone, v := range byZone {
			t += v
			hh += maxHHByCountryZone[country][zone]
		}
		if hh > 0 {
			toilets[country] = t / hh * 1000
			staff[country] = maxWorkforceByCountry[country] / hh * 1000
		}
	}
	out.ToiletsPer1000ByCountry = countrySeries(toilets)
	out.StaffPer1000ByCountry = countrySeries(staff)

	nrwTrend := map[time.Time]float64{}
	for m, s := range suppliedByMonth {
		if s > 0 {
			nrwTrend[m] = pct(s-consumedByMonth[m], s)
		}
	}
	out.NRWTrend = monthSeries(nrwTrend)

	covTrend := map[time.Time]float64{}
	for m, hh := range hhByMonth {
		if hh > 0 {
			covTrend[m] = pct(connByMonth[m], hh)
		}
	}
	out.SewerCoverageTrend = monthSeries(covTrend)

	for _, m := range sortedMonths(wwByMonth) {
		out.WWFlow = append(out.WWFlow, *wwByMonth[m])
		out.FSFlow = append(out.FSFlow, *fsByMonth[m])
	}
	return out
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
