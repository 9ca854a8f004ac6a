// Package fare compares commute pricing strategies for one employee's month.
package fare

import (
	"fmt"
	"math"
	"sort"

	"rota-engine/internal/model"
	"rota-engine/internal/shift"
)

// Bands are the break-even thresholds behind the advisory recommendation.
type Bands struct {
	Consider int `toml:"consider" yaml:"consider"`
	Marginal int `toml:"marginal" yaml:"marginal"`
}

type Policy struct {
	// DiscountRate is the share of the original fare paid with the card.
	DiscountRate float64 `toml:"discount_rate" yaml:"discount_rate"`
	Bands        Bands   `toml:"bands" yaml:"bands"`
}

func DefaultPolicy() Policy {
	return Policy{
		DiscountRate: 0.7,
		Bands:        Bands{Consider: 5, Marginal: 10},
	}
}

const passBasisDays = 30

// ridesPerShift: an early shift rides in one way, mid and night ride both ways.
var ridesPerShift = map[model.ShiftKind]int{
	model.KindEarly: 1,
	model.KindMid:   2,
	model.KindNight: 2,
}

func Rides(row map[int]string, daysInMonth int, c *shift.Classifier) int {
	total := 0
	for day := 1; day <= daysInMonth; day++ {
		a := c.Resolve(row, day)
		if !a.Worked() {
			continue
		}
		total += ridesPerShift[a.Kind]
	}
	return total
}

// MonthlyEquivalent normalizes a pass price to a 30-day basis.
func MonthlyEquivalent(price float64, durationDays int) float64 {
	if durationDays <= 0 {
		return price
	}
	return price / (float64(durationDays) / passBasisDays)
}

// BreakEven is the number of extra rides after which the unlimited pass beats
// paying per ride. Zero or less means it already does.
func BreakEven(unlimitedPrice, originalCost, pricePerRide float64) int {
	return int(math.Ceil((unlimitedPrice - originalCost) / pricePerRide))
}

func (b Bands) Recommend(originalCost, unlimitedPrice float64, breakEven int) model.Recommendation {
	switch {
	case originalCost >= unlimitedPrice:
		return model.RecommendOutright
	case breakEven <= b.Consider:
		return model.RecommendConsider
	case breakEven <= b.Marginal:
		return model.RecommendMarginal
	}
	return model.RecommendAgainst
}

// Discounted applies the card rate, rounding up. The epsilon absorbs the binary
// error of rates like 0.7 so that 110*0.7 stays 77.
func Discounted(originalCost, rate float64) float64 {
	return math.Ceil(originalCost*rate - 1e-9)
}

type candidate struct {
	option model.FareOption
	key    float64
	// restriction orders ties: fewer usage restrictions first
	restriction int
}

// Calculate returns nil when the employee has no fare plan or no rides in the
// period. Neither is an error.
func Calculate(employeeID string, row map[int]string, plan *model.FarePlan, unlimited model.UnlimitedPlan, daysInMonth int, c *shift.Classifier, p Policy) *model.FareComparison {
	if plan == nil || plan.PricePerRide <= 0 {
		return nil
	}
	rides := Rides(row, daysInMonth, c)
	if rides == 0 {
		return nil
	}

	original := float64(rides) * plan.PricePerRide
	cands := []candidate{
		{
			option:      model.FareOption{PlanName: "Original", Kind: model.StrategyOriginal, TotalCost: original},
			key:         original,
			restriction: 0,
		},
		{
			option:      model.FareOption{PlanName: "Discounted card", Kind: model.StrategyDiscounted, TotalCost: Discounted(original, p.DiscountRate)},
			key:         Discounted(original, p.DiscountRate),
			restriction: 1,
		},
	}

	if unlimited.Price > 0 {
		days := unlimited.DurationDays
		if days <= 0 {
			days = passBasisDays
		}
		name := unlimited.Name
		if name == "" {
			name = "Unlimited"
		}
		monthly := MonthlyEquivalent(unlimited.Price, days)
		cands = append(cands, candidate{
			option: model.FareOption{
				PlanName:               name,
				Kind:                   model.StrategyUnlimited,
				DurationDays:           days,
				TotalCost:              unlimited.Price,
				MonthlyEquivalentPrice: monthly,
			},
			key:         monthly,
			restriction: 2,
		})
	}

	for _, tier := range plan.Passes {
		if tier.DurationDays <= 0 {
			continue
		}
		monthly := MonthlyEquivalent(tier.Price, tier.DurationDays)
		cands = append(cands, candidate{
			option: model.FareOption{
				PlanName:               fmt.Sprintf("%d-day pass", tier.DurationDays),
				Kind:                   model.StrategyPass,
				DurationDays:           tier.DurationDays,
				TotalCost:              tier.Price,
				MonthlyEquivalentPrice: monthly,
			},
			key:         monthly,
			restriction: 3 + tier.DurationDays,
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].key != cands[j].key {
			return cands[i].key < cands[j].key
		}
		return cands[i].restriction < cands[j].restriction
	})

	cmp := &model.FareComparison{
		EmployeeID:   employeeID,
		Location:     plan.Location,
		Rides:        rides,
		OriginalCost: original,
		Options:      make([]model.FareOption, len(cands)),
	}
	for i, cand := range cands {
		cmp.Options[i] = cand.option
	}
	cmp.Options[0].IsCheapest = true

	if unlimited.Price > 0 {
		cmp.BreakEvenRideCount = BreakEven(unlimited.Price, original, plan.PricePerRide)
		cmp.Recommendation = p.Bands.Recommend(original, unlimited.Price, cmp.BreakEvenRideCount)
	}
	return cmp
}
