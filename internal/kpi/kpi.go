// Package kpi computes dashboard indicators over the loaded datasets. All
// computations are pure reads; calling the same method twice with the same
// filter yields identical results.
package kpi

import (
	"sort"
	"time"

	"aquadash.wasreb.org/internal/dataset"
)

// Engine computes KPIs against an immutable dataset.
type Engine struct {
	Data *dataset.Manager
}

func NewEngine(data *dataset.Manager) *Engine {
	return &Engine{Data: data}
}

// MonthValue is one point of a monthly time series. Month is "2006-01".
type MonthValue struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// YearValue is one point of an annual series.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// CountryValue is one per-country aggregate.
type CountryValue struct {
	Country string  `json:"country"`
	Value   float64 `json:"value"`
}

const monthLayout = "2006-01"

// pct returns num/den as a percentage, 0 when the denominator is zero.
func pct(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

// ratio returns num/den, 0 when the denominator is zero.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthSeries flattens a month-keyed map into a chronological series.
func monthSeries(byMonth map[time.Time]float64) []MonthValue {
	months := sortedMonths(byMonth)
	out := make([]MonthValue, 0, len(months))
	for _, m := range months {
		out = append(out, MonthValue{Month: m.Format(monthLayout), Value: byMonth[m]})
	}
	return out
}

func sortedMonths[V any](byMonth map[time.Time]V) []time.Time {
	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}

// countrySeries flattens a country-keyed map into a sorted series.
func countrySeries(byCountry map[string]float64) []CountryValue {
	names := make([]string, 0, len(byCountry))
	for c := range byCountry {
		names = append(names, c)
	}
	sort.Strings(names)
	out := make([]CountryValue, 0, len(names))
	for _, c := range names {
		out = append(out, CountryValue{Country: c, Value: byCountry[c]})
	}
	return out
}
