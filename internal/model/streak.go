package model

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

type StreakRun struct {
	StartDay int       `json:"start_day"`
	EndDay   int       `json:"end_day"`
	Length   int       `json:"length"`
	Risk     RiskLevel `json:"risk"`
}

type StreakRecord struct {
	EmployeeID    string      `json:"employee_id"`
	Runs          []StreakRun `json:"runs"`
	MaxLength     int         `json:"max_length"`
	AverageLength float64     `json:"average_length"`
	WorkedDays    int         `json:"worked_days"`
	// Running[d-1] is the open streak length ending on day d.
	Running []int `json:"running"`
}

type DatedRun struct {
	Start  string    `json:"start"`
	End    string    `json:"end"`
	Length int       `json:"length"`
	Risk   RiskLevel `json:"risk"`
}

// CrossMonthStreaks only holds runs that cross at least one month boundary.
type CrossMonthStreaks struct {
	EmployeeID    string     `json:"employee_id"`
	Runs          []DatedRun `json:"runs"`
	MaxLength     int        `json:"max_length"`
	AverageLength float64    `json:"average_length"`
}
