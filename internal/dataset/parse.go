package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Date layouts used across the source files. Billing months arrive as
// "Jan/22", production days as "2022/01/31" and annual series as "2022".
const (
	layoutMonth = "Jan/06"
	layoutDay   = "2006/01/02"
	layoutYear  = "2006"
)

// row is one parsed CSV line with header-indexed field access.
type row struct {
	index  map[string]int
	fields []string
	line   int
}

func (r row) str(col string) (string, error) {
	i, ok := r.index[col]
	if !ok || i >= len(r.fields) {
		return "", fmt.Errorf("line %d: missing column %q", r.line, col)
	}
	return strings.TrimSpace(r.fields[i]), nil
}

func (r row) num(col string) (float64, error) {
	s, err := r.str(col)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: column %q: %w", r.line, col, err)
	}
	return v, nil
}

func (r row) date(col, layout string) (time.Time, error) {
	s, err := r.str(col)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("line %d: column %q: %w", r.line, col, err)
	}
	return t, nil
}

// country returns the named column title-cased, so "uganda" and "UGANDA"
// collapse to one key.
func (r row) country(col string) (string, error) {
	s, err := r.str(col)
	if err != nil {
		return "", err
	}
	return titleCase(s), nil
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// readRows reads a whole CSV stream, validates that every required column is
// present in the header and hands each data row to parse. Rows that fail to
// parse are skipped; their errors are joined and returned alongside the good
// rows so the caller can log them without aborting the load.
func readRows(src io.Reader, required []string, parse func(row) error) error {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("header missing column %q", col)
		}
	}

	var rowErrs []error
	for line := 2; ; line++ {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if err := parse(row{index: index, fields: fields, line: line}); err != nil {
			rowErrs = append(rowErrs, err)
		}
	}
	return errors.Join(rowErrs...)
}

func parseBilling(src io.Reader) ([]BillingRecord, error) {
	var out []BillingRecord
	cols := []string{"country", "zone", "customer_id", "date", "consumption_m3", "billed", "paid"}
	err := readRows(src, cols, func(r row) error {
		var rec BillingRecord
		var err error
		if rec.Country, err = r.country("country"); err != nil {
			return err
		}
		if rec.Zone, err = r.str("zone"); err != nil {
			return err
		}
		if rec.CustomerID, err = r.str("customer_id"); err != nil {
			return err
		}
		if rec.Date, err = r.date("date", layoutMonth); err != nil {
			return err
		}
		if rec.ConsumptionM3, err = r.num("consumption_m3"); err != nil {
			return err
		}
		if rec.Billed, err = r.num("billed"); err != nil {
			return err
		}
		if rec.Paid, err = r.num("paid"); err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func parseProduction(src io.Reader) ([]ProductionRecord, error) {
	var out []ProductionRecord
	cols := []string{"country", "source", "date", "production_m3", "service_hours"}
	err := readRows(src, cols, func(r row) error {
		var rec ProductionRecord
		var err error
		if rec.Country, err = r.country("country"); err != nil {
			return err
		}
		if rec.Source, err = r.str("source"); err != nil {
			return err
		}
		if rec.Date, err = r.date("date", layoutDay); err != nil {
			return err
		}
		if rec.ProductionM3, err = r.num("production_m3"); err != nil {
			return err
		}
		if rec.ServiceHours, err = r.num("service_hours"); err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func parseFinService(src io.Reader) ([]FinServiceRecord, error) {
	var out []FinServiceRecord
	cols := []string{"country", "city", "date", "sewer_length", "complaints",
		"resolved", "blocks", "sewer_billed", "sewer_revenue", "opex",
		"san_staff", "w_staff", "pro_poor_popn"}
	err := readRows(src, cols, func(r row) error {
		var rec FinServiceRecord
		var err error
		if rec.Country, err = r.country("country"); err != nil {
			return err
		}
		if rec.City, err = r.str("city"); err != nil {
			return err
		}
		if rec.Date, err = r.date("date", layoutMonth); err != nil {
			return err
		}
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{"sewer_length", &rec.SewerLength},
			{"complaints", &rec.Complaints},
			{"resolved", &rec.Resolved},
			{"blocks", &rec.Blocks},
			{"sewer_billed", &rec.SewerBilled},
			{"sewer_revenue", &rec.SewerRevenue},
			{"opex", &rec.Opex},
			{"san_staff", &rec.SanStaff},
			{"w_staff", &rec.WStaff},
			{"pro_poor_popn", &rec.ProPoorPopn},
		} {
			if *f.dst, err = r.num(f.col); err != nil {
				return err
			}
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func parseNational(src io.Reader) ([]NationalRecord, error) {
	var out []NationalRecord
	cols := []string{"country", "date", "budget_allocated", "san_allocation",
		"wat_allocation", "staff_cost", "trained_staff", "registered_wtps",
		"inspected_wtps", "total_service_providers", "licensed_service_providers"}
	err := readRows(src, cols, func(r row) error {
		var rec NationalRecord
		var err error
		if rec.Country, err = r.country("country"); err != nil {
			return err
		}
		if rec.Date, err = r.date("date", layoutYear); err != nil {
			return err
		}
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{"budget_allocated", &rec.BudgetAllocated},
			{"san_allocation", &rec.SanAllocation},
			{"wat_allocation", &rec.WatAllocation},
			{"staff_cost", &rec.StaffCost},
			{"trained_staff", &rec.TrainedStaff},
			{"registered_wtps", &rec.RegisteredWTPs},
			{"inspected_wtps", &rec.InspectedWTPs},
			{"total_service_providers", &rec.TotalServiceProviders},
			{"licensed_service_providers", &rec.LicensedServiceProviders},
		} {
			if *f.dst, err = r.num(f.col); err != nil {
				return err
			}
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func parseWaterService(src io.Reader) ([]WaterServiceRecord, error) {
	var out []WaterServiceRecord
	cols := []string{"country", "zone", "date", "households",
		"tests_conducted_chlorine", "tests_conducted_ecoli",
		"tests_passed_chlorine", "tests_passed_ecoli", "w_supplied",
		"total_consumption", "metered", "ww_capacity"}
	err := readRows(src, cols, func(r row) error {
		var rec WaterServiceRecord
		var err error
		if rec.Country, err = r.country("country"); err != nil {
			return err
		}
		if rec.Zone, err = r.str("zone"); err != nil {
			return err
		}
		if rec.Date, err = r.date("date", layoutMonth); err != nil {
			return err
		}
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{"households", &rec.Households},
			{"tests_conducted_chlorine", &rec.TestsConductedChlorine},
			{"tests_conducted_ecoli", &rec.TestsConductedEcoli},
			{"tests_passed_chlorine", &rec.TestsPassedChlorine},
			{"tests_passed_ecoli", &rec.TestsPassedEcoli},
			{"w_supplied", &rec.WSupplied},
			{"total_consumption", &rec.TotalConsumption},
			{"metered", &rec.Metered},
			{"ww_capacity", &rec.WWCapacity},
		} {
			if *f.dst, err = r.num(f.col); err != nil {
				return err
			}
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func parseSanitationService(src io.Reader) ([]SanitationServiceRecord, error) {
	var out []SanitationServiceRecord
	cols := []string{"country", "zone", "date", "households", "sewer_connections",
		"public_toilets", "workforce", "f_workforce", "ww_collected",
		"ww_treated", "ww_reused", "hh_emptied", "fs_treated", "fs_reused"}
	err := readRows(src, cols, func(r row) error {
		var rec SanitationServiceRecord
		var err error
		if rec.Country, err = r.country("country"); err != nil {
			return err
		}
		if rec.Zone, err = r.str("zone"); err != nil {
			return err
		}
		if rec.Date, err = r.date("date", layoutMonth); err != nil {
			return err
		}
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{"households", &rec.Households},
			{"sewer_connections", &rec.SewerConnections},
			{"public_toilets", &rec.PublicToilets},
			{"workforce", &rec.Workforce},
			{"f_workforce", &rec.FWorkforce},
			{"ww_collected", &rec.WWCollected},
			{"ww_treated", &rec.WWTreated},
			{"ww_reused", &rec.WWReused},
			{"hh_emptied", &rec.HHEmptied},
			{"fs_treated", &rec.FSTreated},
			{"fs_reused", &rec.FSReused},
		} {
			if *f.dst, err = r.num(f.col); err != nil {
				return err
			}
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func parseWaterAccess(src io.Reader) ([]WaterAccessRecord, error) {
	var out []WaterAccessRecord
	cols := []string{"country", "zone", "date", "popn_total", "households",
		"safely_managed_pct", "basic_pct", "limited_pct", "unimproved_pct",
		"surface_water_pct"}
	err := readRows(src, cols, func(r row) error {
		var rec WaterAccessRecord
		var err error
		if rec.Country, err = r.country("country"); err != nil {
			return err
		}
		if rec.Zone, err = r.str("zone"); err != nil {
			return err
		}
		if rec.Date, err = r.date("date", layoutYear); err != nil {
			return err
		}
		rec.Year = rec.Date.Year()
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{"popn_total", &rec.PopnTotal},
			{"households", &rec.Households},
			{"safely_managed_pct", &rec.SafelyManagedPct},
			{"basic_pct", &rec.BasicPct},
			{"limited_pct", &rec.LimitedPct},
			{"unimproved_pct", &rec.UnimprovedPct},
			{"surface_water_pct", &rec.SurfaceWaterPct},
		} {
			if *f.dst, err = r.num(f.col); err != nil {
				return err
			}
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func parseSanitationAccess(src io.Reader) ([]SanitationAccessRecord, error) {
	var out []SanitationAccessRecord
	cols := []string{"country", "zone", "date", "popn_total", "households",
		"safely_managed_pct", "basic_pct", "limited_pct", "unimproved_pct",
		"open_def_pct"}
	err := readRows(src, cols, func(r row) error {
		var rec SanitationAccessRecord
		var err error
		if rec.Country, err = r.country("country"); err != nil {
			return err
		}
		if rec.Zone, err = r.str("zone"); err != nil {
			return err
		}
		if rec.Date, err = r.date("date", layoutYear); err != nil {
			return err
		}
		rec.Year = rec.Date.Year()
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{"popn_total", &rec.PopnTotal},
			{"households", &rec.Households},
			{"safely_managed_pct", &rec.SafelyManagedPct},
			{"basic_pct", &rec.BasicPct},
			{"limited_pct", &rec.LimitedPct},
			{"unimproved_pct", &rec.UnimprovedPct},
			{"open_def_pct", &rec.OpenDefPct},
		} {
			if *f.dst, err = r.num(f.col); err != nil {
				return err
			}
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}
