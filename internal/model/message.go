package model

type CalculationMessage struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)

const (
	CodeInvalidDaysInMonth = "INVALID_DAYS_IN_MONTH"
	CodeDayOutOfRange      = "DAY_OUT_OF_RANGE"
	CodeUnknownShiftToken  = "UNKNOWN_SHIFT_TOKEN"
	CodeUnknownEmployee    = "UNKNOWN_EMPLOYEE"
	CodeNoFareCatalog      = "NO_FARE_CATALOG"
	CodeAnalysisCancelled  = "ANALYSIS_CANCELLED"
)
