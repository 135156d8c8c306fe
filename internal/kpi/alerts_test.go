package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertsUganda2022(t *testing.T) {
	e := testEngine(t)
	alerts := e.Alerts(uganda2022())

	// Collection 84.1%, quality 93.9%, no basic water 28.75% and open
	// defecation 8.75% are high; cost recovery 60.7%, NRW 32.8% and
	// wastewater treatment 73.5% are medium.
	require.Len(t, alerts, 7)
	for _, a := range alerts[:4] {
		assert.Equal(t, SeverityHigh, a.Severity)
	}
	for _, a := range alerts[4:] {
		assert.Equal(t, SeverityMedium, a.Severity)
	}
}

func TestAlertsHighSortsBeforeMedium(t *testing.T) {
	alerts := buildAlerts(
		Financial{TotalBilled: 100, CollectionRatePct: 50, CostRecoveryPct: 60},
		ServiceDelivery{},
		Access{},
	)
	require.Len(t, alerts, 2)
	assert.Equal(t, SeverityHigh, alerts[0].Severity)
	assert.Equal(t, SeverityMedium, alerts[1].Severity)
}

func TestAlertsNRWSeverityBands(t *testing.T) {
	critical := buildAlerts(Financial{}, ServiceDelivery{NRWPct: 45}, Access{})
	require.Len(t, critical, 1)
	assert.Equal(t, SeverityHigh, critical[0].Severity)

	elevated := buildAlerts(Financial{}, ServiceDelivery{NRWPct: 30}, Access{})
	require.Len(t, elevated, 1)
	assert.Equal(t, SeverityMedium, elevated[0].Severity)

	fine := buildAlerts(Financial{}, ServiceDelivery{NRWPct: 20}, Access{})
	assert.Empty(t, fine)
}

func TestAlertsAllInRangeIsEmptyList(t *testing.T) {
	alerts := buildAlerts(
		Financial{TotalBilled: 100, CollectionRatePct: 95, CostRecoveryPct: 110},
		ServiceDelivery{NRWPct: 20, QualityPassPct: 99, WWTreatmentPct: 90},
		Access{NoBasicWaterPct: 5, OpenDefPct: 2},
	)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}
