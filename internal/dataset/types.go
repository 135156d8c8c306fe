package dataset

import "time"

// BillingRecord is one customer billing row for a month.
type BillingRecord struct {
	Country       string
	Zone          string
	CustomerID    string
	Date          time.Time
	ConsumptionM3 float64
	Billed        float64
	Paid          float64
}

// ProductionRecord is one daily production reading for a source facility.
type ProductionRecord struct {
	Country      string
	Source       string
	Date         time.Time
	ProductionM3 float64
	ServiceHours float64
}

// FinServiceRecord holds city-level sanitation and water financial indicators
// for a month.
type FinServiceRecord struct {
	Country      string
	City         string
	Date         time.Time
	SewerLength  float64
	Complaints   float64
	Resolved     float64
	Blocks       float64
	SewerBilled  float64
	SewerRevenue float64
	Opex         float64
	SanStaff     float64
	WStaff       float64
	ProPoorPopn  float64
}

// NationalRecord holds annual national-level WASH budget and regulatory
// indicators.
type NationalRecord struct {
	Country                  string
	Date                     time.Time
	BudgetAllocated          float64
	SanAllocation            float64
	WatAllocation            float64
	StaffCost                float64
	TrainedStaff             float64
	RegisteredWTPs           float64
	InspectedWTPs            float64
	TotalServiceProviders    float64
	LicensedServiceProviders float64
}

// WaterServiceRecord holds monthly water supply and quality-testing figures
// for a zone.
type WaterServiceRecord struct {
	Country                string
	Zone                   string
	Date                   time.Time
	Households             float64
	TestsConductedChlorine float64
	TestsConductedEcoli    float64
	TestsPassedChlorine    float64
	TestsPassedEcoli       float64
	WSupplied              float64
	TotalConsumption       float64
	Metered                float64
	WWCapacity             float64
}

// SanitationServiceRecord holds monthly sanitation service delivery figures
// for a zone: sewerage, wastewater flows, fecal sludge flows, and workforce.
type SanitationServiceRecord struct {
	Country          string
	Zone             string
	Date             time.Time
	Households       float64
	SewerConnections float64
	PublicToilets    float64
	Workforce        float64
	FWorkforce       float64
	WWCollected      float64
	WWTreated        float64
	WWReused         float64
	HHEmptied        float64
	FSTreated        float64
	FSReused         float64
}

// WaterAccessRecord holds annual JMP service-ladder shares for water access
// in a zone. Percentages are 0-100.
type WaterAccessRecord struct {
	Country          string
	Zone             string
	Date             time.Time
	Year             int
	PopnTotal        float64
	Households       float64
	SafelyManagedPct float64
	BasicPct         float64
	LimitedPct       float64
	UnimprovedPct    float64
	SurfaceWaterPct  float64
}

// SanitationAccessRecord holds annual JMP service-ladder shares for
// sanitation access in a zone. Percentages are 0-100.
type SanitationAccessRecord struct {
	Country          string
	Zone             string
	Date             time.Time
	Year             int
	PopnTotal        float64
	Households       float64
	SafelyManagedPct float64
	BasicPct         float64
	LimitedPct       float64
	UnimprovedPct    float64
	OpenDefPct       float64
}
