package model

type AnalysisRequest struct {
	TenantID string `json:"tenant_id"`
	// Month is "YYYY-MM". When set, days_in_month may be omitted.
	Month       string         `json:"month,omitempty"`
	DaysInMonth int            `json:"days_in_month,omitempty"`
	Schedule    ScheduleMatrix `json:"schedule"`
	// PickupLocations maps employee id -> pickup location id.
	PickupLocations map[string]string `json:"pickup_locations,omitempty"`
	// Employees restricts streak and fare output. Empty means everyone.
	Employees []string `json:"employees,omitempty"`
}

type FareRequest struct {
	EmployeeID  string         `json:"employee_id"`
	Location    string         `json:"location"`
	Month       string         `json:"month,omitempty"`
	DaysInMonth int            `json:"days_in_month,omitempty"`
	Schedule    map[int]string `json:"schedule"`
}

type MonthSchedule struct {
	Month    string         `json:"month"`
	Schedule ScheduleMatrix `json:"schedule"`
}

type CrossMonthRequest struct {
	Employees []string        `json:"employees,omitempty"`
	Months    []MonthSchedule `json:"months"`
}

type DiffRequest struct {
	From ScheduleMatrix `json:"from"`
	To   ScheduleMatrix `json:"to"`
}
