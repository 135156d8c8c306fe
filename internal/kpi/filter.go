package kpi

import (
	"strings"
	"time"
)

// Filter narrows every KPI computation. Empty slices and zero years mean
// unbounded. Country matching is case-insensitive; the year range is
// inclusive on both ends. Zones apply only to zone-scoped datasets.
type Filter struct {
	Countries []string
	StartYear int
	EndYear   int
	Zones     []string
}

func (f Filter) matchCountry(country string) bool {
	if len(f.Countries) == 0 {
		return true
	}
	for _, c := range f.Countries {
		if strings.EqualFold(c, country) {
			return true
		}
	}
	return false
}

func (f Filter) matchYear(t time.Time) bool {
	y := t.Year()
	if f.StartYear != 0 && y < f.StartYear {
		return false
	}
	if f.EndYear != 0 && y > f.EndYear {
		return false
	}
	return true
}

func (f Filter) matchZone(zone string) bool {
	if len(f.Zones) == 0 {
		return true
	}
	for _, z := range f.Zones {
		if strings.EqualFold(z, zone) {
			return true
		}
	}
	return false
}

// Restrict returns a copy of f limited to a single country, used to force
// country-role users onto their assigned country.
func (f Filter) Restrict(country string) Filter {
	f.Countries = []string{country}
	return f
}
