package dataset

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := LoadManager(context.Background(), filepath.Join("..", "..", "testdata"), testLogger())
	require.NoError(t, err)
	return m
}

func TestLoadManagerCounts(t *testing.T) {
	m := loadTestManager(t)

	assert.Len(t, m.Billing(), 8)
	assert.Len(t, m.Production(), 6)
	assert.Len(t, m.FinService(), 3)
	assert.Len(t, m.National(), 2)
	assert.Len(t, m.WaterService(), 4)
	assert.Len(t, m.SanitationService(), 4)
	assert.Len(t, m.WaterAccess(), 4)
	assert.Len(t, m.SanitationAccess(), 4)
}

func TestLoadManagerCountriesAndYears(t *testing.T) {
	m := loadTestManager(t)

	assert.Equal(t, []string{"Kenya", "Uganda"}, m.Countries())

	minYear, maxYear := m.YearRange()
	assert.Equal(t, 2021, minYear)
	assert.Equal(t, 2022, maxYear)
}

func TestLoadManagerParsesDates(t *testing.T) {
	m := loadTestManager(t)

	first := m.Billing()[0]
	assert.Equal(t, 2022, first.Date.Year())
	assert.Equal(t, "January", first.Date.Month().String())

	prod := m.Production()[0]
	assert.Equal(t, 10, prod.Date.Day())
}

func TestCountryTitleCasing(t *testing.T) {
	assert.Equal(t, "Uganda", titleCase("UGANDA"))
	assert.Equal(t, "Uganda", titleCase("uganda"))
	assert.Equal(t, "South Sudan", titleCase("south  sudan"))
}

func TestRepeatedReadsAreIdentical(t *testing.T) {
	m := loadTestManager(t)

	first := m.Billing()
	second := m.Billing()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i])
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	copyTestFiles(t, dir)

	billing := `country,zone,customer_id,date,consumption_m3,billed,paid
Uganda,Central,U001,Jan/22,100,1000,900
Uganda,Central,U002,not-a-date,50,500,400
Uganda,Central,U003,Feb/22,abc,700,600
Uganda,East,U004,Feb/22,80,800,700
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "billing.csv"), []byte(billing), 0o644))

	m, err := LoadManager(context.Background(), dir, testLogger())
	require.NoError(t, err)
	assert.Len(t, m.Billing(), 2)
}

func TestLoadFailsOnMissingColumn(t *testing.T) {
	dir := t.TempDir()
	copyTestFiles(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "billing.csv"),
		[]byte("country,zone,date\nUganda,Central,Jan/22\n"), 0o644))

	_, err := LoadManager(context.Background(), dir, testLogger())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing column"))
}

func copyTestFiles(t *testing.T, dir string) {
	t.Helper()
	src := filepath.Join("..", "..", "testdata")
	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), data, 0o644))
	}
}
