package model

// NoCommute marks an employee who does not take the shuttle.
const NoCommute = "不搭車"

type PassTier struct {
	DurationDays int     `json:"duration_days" toml:"duration_days" yaml:"duration_days"`
	Price        float64 `json:"price" toml:"price" yaml:"price"`
}

type FarePlan struct {
	Location     string     `json:"location" toml:"id" yaml:"id"`
	Name         string     `json:"name,omitempty" toml:"name" yaml:"name"`
	PricePerRide float64    `json:"price_per_ride" toml:"price_per_ride" yaml:"price_per_ride"`
	Passes       []PassTier `json:"passes,omitempty" toml:"passes" yaml:"passes"`
}

type UnlimitedPlan struct {
	Name         string  `json:"name" toml:"name" yaml:"name"`
	Price        float64 `json:"price" toml:"price" yaml:"price"`
	DurationDays int     `json:"duration_days" toml:"duration_days" yaml:"duration_days"`
}

type StrategyKind string

const (
	StrategyOriginal   StrategyKind = "ORIGINAL"
	StrategyDiscounted StrategyKind = "DISCOUNTED"
	StrategyUnlimited  StrategyKind = "UNLIMITED"
	StrategyPass       StrategyKind = "PASS"
)

type Recommendation string

const (
	RecommendOutright Recommendation = "RECOMMENDED"
	RecommendConsider Recommendation = "CONSIDER"
	RecommendMarginal Recommendation = "MARGINAL"
	RecommendAgainst  Recommendation = "NOT_RECOMMENDED"
)

type FareOption struct {
	PlanName     string       `json:"plan_name"`
	Kind         StrategyKind `json:"kind"`
	DurationDays int          `json:"duration_days,omitempty"`
	TotalCost    float64      `json:"total_cost"`
	// MonthlyEquivalentPrice is set for passes: price per 30 days.
	MonthlyEquivalentPrice float64 `json:"monthly_equivalent_price,omitempty"`
	IsCheapest             bool    `json:"is_cheapest"`
}

type FareComparison struct {
	EmployeeID         string         `json:"employee_id"`
	Location           string         `json:"location"`
	Rides              int            `json:"rides"`
	OriginalCost       float64        `json:"original_cost"`
	Options            []FareOption   `json:"options"`
	BreakEvenRideCount int            `json:"break_even_ride_count"`
	Recommendation     Recommendation `json:"recommendation"`
}
