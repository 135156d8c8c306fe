package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampHorizon(t *testing.T) {
	assert.Equal(t, DefaultHorizon, ClampHorizon(0))
	assert.Equal(t, MinHorizon, ClampHorizon(3))
	assert.Equal(t, MaxHorizon, ClampHorizon(100))
	assert.Equal(t, 24, ClampHorizon(24))
}

func TestForecastAppendsProjectedMonths(t *testing.T) {
	e := testEngine(t)
	ops := e.Operations("Uganda", Filter{StartYear: 2021, EndYear: 2022}, 6)

	// Billing covers three months; the projection adds six more.
	require.Len(t, ops.Forecast, 9)
	for _, p := range ops.Forecast[:3] {
		assert.False(t, p.Projected)
	}
	for _, p := range ops.Forecast[3:] {
		assert.True(t, p.Projected)
		assert.GreaterOrEqual(t, p.ValueM3, 0.0)
	}
	assert.Equal(t, "2022-03", ops.Forecast[3].Month)
	assert.Equal(t, "2022-08", ops.Forecast[8].Month)
}

func TestForecastTooLittleHistoryYieldsHistoryOnly(t *testing.T) {
	e := engineWithOverrides(t, map[string]string{
		"billing.csv": `country,zone,customer_id,date,consumption_m3,billed,paid
Uganda,Central,U001,Jan/22,100,1000,900
`,
	})
	ops := e.Operations("Uganda", Filter{StartYear: 2022, EndYear: 2022}, 12)

	require.Len(t, ops.Forecast, 1)
	assert.False(t, ops.Forecast[0].Projected)
}
