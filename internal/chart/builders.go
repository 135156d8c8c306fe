package chart

import (
	"strconv"

	"aquadash.wasreb.org/internal/kpi"
)

func monthPoints(series []kpi.MonthValue) []Point {
	out := make([]Point, 0, len(series))
	for _, v := range series {
		out = append(out, Point{Label: v.Month, Value: v.Value})
	}
	return out
}

func countryPoints(series []kpi.CountryValue) []Point {
	out := make([]Point, 0, len(series))
	for _, v := range series {
		out = append(out, Point{Label: v.Country, Value: v.Value})
	}
	return out
}

func yearPoints(series []kpi.YearValue) []Point {
	out := make([]Point, 0, len(series))
	for _, v := range series {
		out = append(out, Point{Label: strconv.Itoa(v.Year), Value: v.Value})
	}
	return out
}

// RevenueTrend charts monthly collected revenue.
func RevenueTrend(fin kpi.Financial) Config {
	return Config{
		ChartType: TypeLine,
		Title:     "Monthly Revenue Collected",
		XAxis:     "Month",
		YAxis:     "Revenue",
		Series:    []Series{{Name: "Revenue", Data: monthPoints(fin.RevenueTrend)}},
	}
}

// NRWTrend charts monthly non-revenue water.
func NRWTrend(svc kpi.ServiceDelivery) Config {
	return Config{
		ChartType: TypeLine,
		Title:     "Non-Revenue Water Trend",
		XAxis:     "Month",
		YAxis:     "NRW %",
		Series:    []Series{{Name: "NRW %", Data: monthPoints(svc.NRWTrend)}},
	}
}

// NRWByCountry charts the NRW level of each country.
func NRWByCountry(svc kpi.ServiceDelivery) Config {
	return Config{
		ChartType: TypeBar,
		Title:     "Non-Revenue Water by Country",
		XAxis:     "Country",
		YAxis:     "NRW %",
		Series:    []Series{{Name: "NRW %", Data: countryPoints(svc.NRWByCountry)}},
	}
}

// EcoliByCountry charts the E. coli test pass rate of each country.
func EcoliByCountry(svc kpi.ServiceDelivery) Config {
	return Config{
		ChartType: TypeBar,
		Title:     "E. coli Pass Rate by Country",
		XAxis:     "Country",
		YAxis:     "Pass %",
		Series:    []Series{{Name: "Pass %", Data: countryPoints(svc.EcoliPassByCountry)}},
	}
}

// ChlorineResults charts passed versus failed chlorine tests.
func ChlorineResults(svc kpi.ServiceDelivery) Config {
	failed := svc.ChlorineTestsConducted - svc.ChlorineTestsPassed
	var data []Point
	if svc.ChlorineTestsConducted > 0 {
		data = []Point{
			{Label: "Passed", Value: svc.ChlorineTestsPassed},
			{Label: "Failed", Value: failed},
		}
	}
	return Config{
		ChartType: TypePie,
		Title:     "Chlorine Test Results",
		Series:    []Series{{Name: "Tests", Data: data}},
	}
}

// WWFlow charts collected, treated and reused wastewater volumes per month.
func WWFlow(svc kpi.ServiceDelivery) Config {
	collected := make([]Point, 0, len(svc.WWFlow))
	treated := make([]Point, 0, len(svc.WWFlow))
	reused := make([]Point, 0, len(svc.WWFlow))
	for _, p := range svc.WWFlow {
		collected = append(collected, Point{Label: p.Month, Value: p.Collected})
		treated = append(treated, Point{Label: p.Month, Value: p.Treated})
		reused = append(reused, Point{Label: p.Month, Value: p.Reused})
	}
	return Config{
		ChartType: TypeLine,
		Title:     "Wastewater Flow",
		XAxis:     "Month",
		YAxis:     "Volume (m3)",
		Series: []Series{
			{Name: "Collected", Data: collected},
			{Name: "Treated", Data: treated},
			{Name: "Reused", Data: reused},
		},
	}
}

// SafelyManagedTrend charts safely managed water and sanitation access by year.
func SafelyManagedTrend(acc kpi.Access) Config {
	return Config{
		ChartType: TypeLine,
		Title:     "Safely Managed Access Trend",
		XAxis:     "Year",
		YAxis:     "% of population",
		Series: []Series{
			{Name: "Water", Data: yearPoints(acc.WaterTrend)},
			{Name: "Sanitation", Data: yearPoints(acc.SanitationTrend)},
		},
	}
}

// ConsumptionForecast charts observed billed volume against the projection.
func ConsumptionForecast(ops kpi.Operations) Config {
	var actual, projected []Point
	for _, p := range ops.Forecast {
		if p.Projected {
			projected = append(projected, Point{Label: p.Month, Value: p.ValueM3})
		} else {
			actual = append(actual, Point{Label: p.Month, Value: p.ValueM3})
		}
	}
	return Config{
		ChartType: TypeLine,
		Title:     "Consumption Forecast: " + ops.Country,
		XAxis:     "Month",
		YAxis:     "Billed volume (m3)",
		Series: []Series{
			{Name: "Actual", Data: actual},
			{Name: "Forecast", Data: projected},
		},
	}
}
