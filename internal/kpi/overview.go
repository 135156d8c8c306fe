package kpi

// Overview bundles the headline KPIs of every category with the active
// alerts, the landing payload of the dashboard.
type Overview struct {
	Financial       Financial       `json:"financial"`
	ServiceDelivery ServiceDelivery `json:"serviceDelivery"`
	Access          Access          `json:"access"`
	Alerts          []Alert         `json:"alerts"`
}

func (e *Engine) Overview(f Filter) Overview {
	fin := e.Financial(f)
	svc := e.ServiceDelivery(f)
	acc := e.Access(f)
	return Overview{
		Financial:       fin,
		ServiceDelivery: svc,
		Access:          acc,
		Alerts:          buildAlerts(fin, svc, acc),
	}
}
