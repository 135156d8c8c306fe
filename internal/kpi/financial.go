package kpi

import "time"

// Financial summarises billing performance and cost recovery for the
// filtered selection.
type Financial struct {
	TotalRevenue           float64      `json:"totalRevenue"`
	TotalBilled            float64      `json:"totalBilled"`
	CollectionRatePct      float64      `json:"collectionRatePct"`
	Outstanding            float64      `json:"outstanding"`
	CostRecoveryPct        float64      `json:"costRecoveryPct"`
	AvgConsumptionM3       float64      `json:"avgConsumptionM3"`
	Customers              int          `json:"customers"`
	ComplaintResolutionPct float64      `json:"complaintResolutionPct"`
	RevenueTrend           []MonthValue `json:"revenueTrend"`
	BilledTrend            []MonthValue `json:"billedTrend"`
}

func (e *Engine) Financial(f Filter) Financial {
	var revenue, billed, consumption float64
	customers := map[string]bool{}
	revByMonth := map[time.Time]float64{}
	billedByMonth := map[time.Time]float64{}
	rows := 0
	for _, r := range e.Data.Billing() {
		if !f.matchCountry(r.Country) || !f.matchYear(r.Date) || !f.matchZone(r.Zone) {
			continue
		}
		revenue += r.Paid
		billed += r.Billed
		consumption += r.ConsumptionM3
		customers[r.CustomerID] = true
		m := monthStart(r.Date)
		revByMonth[m] += r.Paid
		billedByMonth[m] += r.Billed
		rows++
	}

	var complaints, resolved, sewerRevenue, opex float64
	for _, r := range e.Data.FinService() {
		if !f.matchCountry(r.Country) || !f.matchYear(r.Date) {
			continue
		}
		complaints += r.Complaints
		resolved += r.Resolved
		sewerRevenue += r.SewerRevenue
		opex += r.Opex
	}

	out := Financial{
		TotalRevenue:           revenue,
		TotalBilled:            billed,
		CollectionRatePct:      pct(revenue, billed),
		Outstanding:            billed - revenue,
		CostRecoveryPct:        pct(sewerRevenue, opex),
		Customers:              len(customers),
		ComplaintResolutionPct: pct(resolved, complaints),
		RevenueTrend:           monthSeries(revByMonth),
		BilledTrend:            monthSeries(billedByMonth),
	}
	if rows > 0 {
		out.AvgConsumptionM3 = consumption / float64(rows)
	}
	return out
}
