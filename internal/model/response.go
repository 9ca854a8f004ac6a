package model

type AnalysisResponse struct {
	AnalysisMetadata AnalysisMetadata `json:"analysis_metadata"`
	AnalysisResult   AnalysisResult   `json:"analysis_result"`
}

type AnalysisMetadata struct {
	AnalysisID          string `json:"analysis_id"`
	TenantID            string `json:"tenant_id"`
	Month               string `json:"month,omitempty"`
	DaysInMonth         int    `json:"days_in_month"`
	AnalysisStartedAt   string `json:"analysis_started_at"`
	AnalysisCompletedAt string `json:"analysis_completed_at"`
	AnalysisDurationMs  int64  `json:"analysis_duration_ms"`
	AnalysisOutcome     string `json:"analysis_outcome"`
}

type AnalysisResult struct {
	Messages []CalculationMessage `json:"messages"`
	Overlap  *OverlapReport       `json:"overlap,omitempty"`
	Streaks  []StreakRecord       `json:"streaks"`
	// Fares only lists employees with something to calculate.
	Fares   []FareComparison `json:"fares"`
	Tallies *Tallies         `json:"tallies,omitempty"`
}

type FareResponse struct {
	Comparison *FareComparison `json:"comparison"`
}

type CrossMonthResponse struct {
	Streaks []CrossMonthStreaks `json:"streaks"`
}

// PatchOp is one RFC 6902 operation over a schedule matrix.
type PatchOp struct {
	Op    string  `json:"op"`
	Path  string  `json:"path"`
	Value *string `json:"value,omitempty"`
}

type DiffResponse struct {
	Patch []PatchOp `json:"patch"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
