package model

type KindCounts struct {
	EmployeeID string `json:"employee_id"`
	Early      int    `json:"early"`
	Mid        int    `json:"mid"`
	Night      int    `json:"night"`
	Rest       int    `json:"rest"`
	Special    int    `json:"special"`
	Unknown    int    `json:"unknown"`
	Total      int    `json:"total"`
}

type LeaderboardEntry struct {
	EmployeeID string `json:"employee_id"`
	Count      int    `json:"count"`
}

type RestockDuty struct {
	EmployeeID string `json:"employee_id"`
	Count      int    `json:"count"`
	Weeks      []int  `json:"weeks"`
}

// DayDemand is the number of early-shift riders per pickup location on one day.
type DayDemand struct {
	Day       int            `json:"day"`
	Locations map[string]int `json:"locations"`
}

type Tallies struct {
	Counts       []KindCounts                     `json:"counts"`
	Leaderboards map[ShiftKind][]LeaderboardEntry `json:"leaderboards"`
	Restock      []RestockDuty                    `json:"restock,omitempty"`
	PickupDemand []DayDemand                      `json:"pickup_demand,omitempty"`
}
