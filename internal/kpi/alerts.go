package kpi

import "fmt"

// KPI thresholds behind the alert rules.
const (
	CollectionTarget   = 85.0
	CostRecoveryTarget = 100.0
	NRWTarget          = 25.0
	NRWCritical        = 40.0
	QualityTarget      = 98.0
	WWTreatmentTarget  = 80.0
	NoBasicWaterLimit  = 10.0
	OpenDefLimit       = 5.0
)

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// Alert is one threshold breach with a suggested action.
type Alert struct {
	Severity string `json:"severity"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

// Alerts evaluates the threshold rules over the filtered KPIs, high
// severity first. All indicators within range yields an empty list.
func (e *Engine) Alerts(f Filter) []Alert {
	fin := e.Financial(f)
	svc := e.ServiceDelivery(f)
	acc := e.Access(f)
	return buildAlerts(fin, svc, acc)
}

func buildAlerts(fin Financial, svc ServiceDelivery, acc Access) []Alert {
	var high, medium []Alert
	add := func(severity, category, message, action string) {
		a := Alert{Severity: severity, Category: category, Message: message, Action: action}
		if severity == SeverityHigh {
			high = append(high, a)
		} else {
			medium = append(medium, a)
		}
	}

	if fin.TotalBilled > 0 && fin.CollectionRatePct < CollectionTarget {
		add(SeverityHigh, "financial",
			fmt.Sprintf("Revenue collection rate at %.1f%%, below the %.0f%% target", fin.CollectionRatePct, CollectionTarget),
			"Intensify collection campaigns and follow up on large outstanding accounts")
	}
	if fin.CostRecoveryPct > 0 && fin.CostRecoveryPct < CostRecoveryTarget {
		add(SeverityMedium, "financial",
			fmt.Sprintf("Cost recovery at %.1f%%, operations are not self-financing", fin.CostRecoveryPct),
			"Review tariff structure and operating expenditure")
	}
	switch {
	case svc.NRWPct > NRWCritical:
		add(SeverityHigh, "service",
			fmt.Sprintf("Non-revenue water at %.1f%%, above the %.0f%% critical level", svc.NRWPct, NRWCritical),
			"Launch leak detection and meter audit in the worst zones")
	case svc.NRWPct > NRWTarget:
		add(SeverityMedium, "service",
			fmt.Sprintf("Non-revenue water at %.1f%%, above the %.0f%% target", svc.NRWPct, NRWTarget),
			"Schedule network maintenance and review illegal connections")
	}
	if svc.QualityPassPct > 0 && svc.QualityPassPct < QualityTarget {
		add(SeverityHigh, "service",
			fmt.Sprintf("Water quality pass rate at %.1f%%, below the %.0f%% target", svc.QualityPassPct, QualityTarget),
			"Increase treatment monitoring and re-test failing supply points")
	}
	if svc.WWTreatmentPct > 0 && svc.WWTreatmentPct < WWTreatmentTarget {
		add(SeverityMedium, "sanitation",
			fmt.Sprintf("Wastewater treatment rate at %.1f%%, below the %.0f%% target", svc.WWTreatmentPct, WWTreatmentTarget),
			"Check treatment plant capacity against collected volumes")
	}
	if acc.NoBasicWaterPct > NoBasicWaterLimit {
		add(SeverityHigh, "access",
			fmt.Sprintf("%.1f%% of the population lacks basic water access", acc.NoBasicWaterPct),
			"Prioritise investment in the highest-priority zones")
	}
	if acc.OpenDefPct > OpenDefLimit {
		add(SeverityHigh, "access",
			fmt.Sprintf("Open defecation at %.1f%% of the population", acc.OpenDefPct),
			"Scale up sanitation promotion and subsidised facilities")
	}

	out := append(high, medium...)
	if out == nil {
		out = []Alert{}
	}
	return out
}
