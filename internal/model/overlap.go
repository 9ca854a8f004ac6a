package model

type PairCount struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}

type Partner struct {
	EmployeeID string `json:"employee_id"`
	Count      int    `json:"count"`
}

// OverlapOccurrence records one day on which a pair overlapped.
// Label is the kind, e.g. "EARLY", or the handover seen from the first
// employee of the pair, e.g. "EARLY-MID".
type OverlapOccurrence struct {
	Day   int    `json:"day"`
	Label string `json:"label"`
}

type OverlapSummary struct {
	TotalOverlaps int     `json:"total_overlaps"`
	MaxOverlap    int     `json:"max_overlap"`
	TotalPairs    int     `json:"total_pairs"`
	AvgOverlap    float64 `json:"avg_overlap"`
}

type OverlapReport struct {
	Pairs    []PairCount          `json:"pairs"`
	Rankings map[string][]Partner `json:"rankings"`
	Summary  OverlapSummary       `json:"summary"`
}
