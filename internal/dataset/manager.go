package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"aquadash.wasreb.org/internal/logging"
)

// Manager loads the eight source CSV files once at startup and serves them
// as immutable in-memory slices. Accessors hand out the internal slices
// directly; callers must not mutate them.
type Manager struct {
	billing           []BillingRecord
	production        []ProductionRecord
	finService        []FinServiceRecord
	national          []NationalRecord
	waterService      []WaterServiceRecord
	sanitationService []SanitationServiceRecord
	waterAccess       []WaterAccessRecord
	sanitationAccess  []SanitationAccessRecord

	countries []string
	minYear   int
	maxYear   int
}

// LoadManager reads every dataset file under dir concurrently and builds a
// Manager. A missing or malformed file fails the load; malformed individual
// rows are skipped and logged.
func LoadManager(ctx context.Context, dir string, logger *slog.Logger) (*Manager, error) {
	start := time.Now()
	m := &Manager{}

	g, ctx := errgroup.WithContext(ctx)
	load(g, ctx, logger, dir, "billing.csv", parseBilling, &m.billing)
	load(g, ctx, logger, dir, "production.csv", parseProduction, &m.production)
	load(g, ctx, logger, dir, "fin_service.csv", parseFinService, &m.finService)
	load(g, ctx, logger, dir, "national.csv", parseNational, &m.national)
	load(g, ctx, logger, dir, "water_service.csv", parseWaterService, &m.waterService)
	load(g, ctx, logger, dir, "s_service.csv", parseSanitationService, &m.sanitationService)
	load(g, ctx, logger, dir, "water_access.csv", parseWaterAccess, &m.waterAccess)
	load(g, ctx, logger, dir, "s_access.csv", parseSanitationAccess, &m.sanitationAccess)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.indexCountriesAndYears()

	logging.LogOperation(logger, "dataset load complete",
		slog.Duration("duration", time.Since(start)),
		slog.Int("billing_rows", len(m.billing)),
		slog.Int("production_rows", len(m.production)),
		slog.Int("fin_service_rows", len(m.finService)),
		slog.Int("national_rows", len(m.national)),
		slog.Int("water_service_rows", len(m.waterService)),
		slog.Int("s_service_rows", len(m.sanitationService)),
		slog.Int("water_access_rows", len(m.waterAccess)),
		slog.Int("s_access_rows", len(m.sanitationAccess)),
		slog.Int("countries", len(m.countries)),
	)
	return m, nil
}

// load registers one file parse on the errgroup. Row-level parse errors are
// logged as a warning while the successfully parsed rows are kept.
func load[T any](g *errgroup.Group, ctx context.Context, logger *slog.Logger, dir, name string, parse func(io.Reader) ([]T, error), dst *[]T) {
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", name, err)
		}
		defer logging.SafeCloseWithLogging(f, logger, "close "+name)

		recs, err := parse(f)
		if err != nil {
			if len(recs) == 0 {
				return fmt.Errorf("parse %s: %w", name, err)
			}
			logger.Warn("skipped malformed rows",
				slog.String("file", name),
				slog.String("error", err.Error()))
		}
		*dst = recs
		return nil
	})
}

func (m *Manager) indexCountriesAndYears() {
	seen := map[string]bool{}
	note := func(country string, date time.Time) {
		if country != "" {
			seen[country] = true
		}
		y := date.Year()
		if m.minYear == 0 || y < m.minYear {
			m.minYear = y
		}
		if y > m.maxYear {
			m.maxYear = y
		}
	}
	for _, r := range m.billing {
		note(r.Country, r.Date)
	}
	for _, r := range m.production {
		note(r.Country, r.Date)
	}
	for _, r := range m.finService {
		note(r.Country, r.Date)
	}
	for _, r := range m.national {
		note(r.Country, r.Date)
	}
	for _, r := range m.waterService {
		note(r.Country, r.Date)
	}
	for _, r := range m.sanitationService {
		note(r.Country, r.Date)
	}
	for _, r := range m.waterAccess {
		note(r.Country, r.Date)
	}
	for _, r := range m.sanitationAccess {
		note(r.Country, r.Date)
	}
	m.countries = make([]string, 0, len(seen))
	for c := range seen {
		m.countries = append(m.countries, c)
	}
	sort.Strings(m.countries)
}

// Countries returns every country seen across all datasets, sorted.
func (m *Manager) Countries() []string { return m.countries }

// YearRange returns the earliest and latest year present in any dataset.
func (m *Manager) YearRange() (min, max int) { return m.minYear, m.maxYear }

func (m *Manager) Billing() []BillingRecord                     { return m.billing }
func (m *Manager) Production() []ProductionRecord               { return m.production }
func (m *Manager) FinService() []FinServiceRecord               { return m.finService }
func (m *Manager) National() []NationalRecord                   { return m.national }
func (m *Manager) WaterService() []WaterServiceRecord           { return m.waterService }
func (m *Manager) SanitationService() []SanitationServiceRecord { return m.sanitationService }
func (m *Manager) WaterAccess() []WaterAccessRecord             { return m.waterAccess }
func (m *Manager) SanitationAccess() []SanitationAccessRecord   { return m.sanitationAccess }
