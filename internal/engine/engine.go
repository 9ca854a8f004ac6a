package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rota-engine/internal/fare"
	"rota-engine/internal/metrics"
	"rota-engine/internal/model"
	"rota-engine/internal/overlap"
	"rota-engine/internal/planregistry"
	"rota-engine/internal/shift"
	"rota-engine/internal/streak"
	"rota-engine/internal/tally"
)

var ErrInvalidPeriod = errors.New("days_in_month must be 28..31 or month must be YYYY-MM")

// Options are the lookup tables and policies injected into every analysis.
// Zero values fall back to the defaults.
type Options struct {
	Classifier *shift.Classifier
	Adjacency  overlap.Adjacency
	Risk       streak.RiskThresholds
	Fare       fare.Policy
	Plans      *planregistry.Registry
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	// Workers bounds the per-employee fan-out. 0 means unbounded.
	Workers int
}

type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	if opts.Classifier == nil {
		opts.Classifier = shift.Default()
	}
	if opts.Adjacency == nil {
		opts.Adjacency = overlap.DefaultAdjacency()
	}
	if opts.Risk == (streak.RiskThresholds{}) {
		opts.Risk = streak.DefaultRiskThresholds()
	}
	if opts.Fare == (fare.Policy{}) {
		opts.Fare = fare.DefaultPolicy()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{opts: opts}
}

type messages []model.CalculationMessage

func (m *messages) add(level, code, msg string) {
	*m = append(*m, model.CalculationMessage{ID: len(*m), Level: level, Code: code, Message: msg})
}

// resolvePeriod prefers an explicit days_in_month over the one derived from month.
func resolvePeriod(monthStr string, days int) (model.Month, int, bool) {
	var month model.Month
	if monthStr != "" {
		m, ok := model.ParseMonth(monthStr)
		if !ok {
			return model.Month{}, 0, false
		}
		month = m
	}
	if days == 0 && month.Valid() {
		days = month.Days()
	}
	return month, days, model.ValidDaysInMonth(days)
}

func (e *Engine) Process(ctx context.Context, req *model.AnalysisRequest) *model.AnalysisResponse {
	start := time.Now()
	analysisID := uuid.New().String()

	var msgs messages
	result := model.AnalysisResult{
		Streaks: []model.StreakRecord{},
		Fares:   []model.FareComparison{},
	}
	outcome := model.OutcomeSuccess

	month, days, ok := resolvePeriod(req.Month, req.DaysInMonth)
	if !ok {
		msgs.add(model.LevelCritical, model.CodeInvalidDaysInMonth,
			fmt.Sprintf("Cannot analyze month %q with days_in_month %d", req.Month, req.DaysInMonth))
		outcome = model.OutcomeFailure
	} else if err := e.analyze(ctx, req, month, days, &result, &msgs); err != nil {
		msgs.add(model.LevelCritical, model.CodeAnalysisCancelled, err.Error())
		outcome = model.OutcomeFailure
		result.Overlap, result.Tallies = nil, nil
		result.Streaks, result.Fares = []model.StreakRecord{}, []model.FareComparison{}
	}

	if msgs == nil {
		msgs = messages{}
	}
	result.Messages = msgs

	elapsed := time.Since(start)
	now := time.Now().UTC()
	e.opts.Metrics.ObserveAnalysis(outcome, elapsed)
	e.opts.Logger.Info("analysis finished",
		"analysis_id", analysisID,
		"tenant_id", req.TenantID,
		"outcome", outcome,
		"employees", len(req.Schedule),
		"messages", len(msgs),
		"duration", elapsed)

	monthLabel := ""
	if month.Valid() {
		monthLabel = month.String()
	}
	return &model.AnalysisResponse{
		AnalysisMetadata: model.AnalysisMetadata{
			AnalysisID:          analysisID,
			TenantID:            req.TenantID,
			Month:               monthLabel,
			DaysInMonth:         days,
			AnalysisStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			AnalysisCompletedAt: now.Format(time.RFC3339),
			AnalysisDurationMs:  elapsed.Milliseconds(),
			AnalysisOutcome:     outcome,
		},
		AnalysisResult: result,
	}
}

func (e *Engine) analyze(ctx context.Context, req *model.AnalysisRequest, month model.Month, days int, result *model.AnalysisResult, msgs *messages) error {
	c := e.opts.Classifier

	for _, id := range req.Schedule.Employees() {
		if bad := req.Schedule.OutOfRangeDays(id, days); len(bad) > 0 {
			msgs.add(model.LevelWarning, model.CodeDayOutOfRange,
				fmt.Sprintf("Ignored days %v for employee %s outside 1..%d", bad, id, days))
		}
		if unknown := c.UnknownTokens(req.Schedule[id], days); len(unknown) > 0 {
			msgs.add(model.LevelWarning, model.CodeUnknownShiftToken,
				fmt.Sprintf("Unrecognized shift tokens for employee %s: %s", id, strings.Join(unknown, ", ")))
		}
	}

	selected := req.Schedule.Employees()
	if len(req.Employees) > 0 {
		selected = make([]string, 0, len(req.Employees))
		for _, id := range req.Employees {
			if _, ok := req.Schedule[id]; !ok {
				msgs.add(model.LevelWarning, model.CodeUnknownEmployee,
					fmt.Sprintf("Employee %s is not in the schedule", id))
				continue
			}
			selected = append(selected, id)
		}
	}

	plans := e.opts.Plans.Snapshot()
	if plans == nil && len(req.PickupLocations) > 0 {
		msgs.add(model.LevelWarning, model.CodeNoFareCatalog, "No fare catalog configured; fares skipped")
	}

	streaks := make([]model.StreakRecord, len(selected))
	fares := make([]*model.FareComparison, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	if e.opts.Workers > 0 {
		g.SetLimit(e.opts.Workers)
	}
	g.Go(func() error {
		result.Overlap = overlap.Compute(req.Schedule, days, c, e.opts.Adjacency).Report()
		return gctx.Err()
	})
	g.Go(func() error {
		result.Tallies = tally.Build(req.Schedule, month, days, req.PickupLocations, c)
		return gctx.Err()
	})
	for i, id := range selected {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			streaks[i] = streak.Compute(req.Schedule, id, days, c, e.opts.Risk)
			if plans != nil {
				plan, _ := plans.Lookup(req.PickupLocations[id])
				fares[i] = fare.Calculate(id, req.Schedule[id], plan, plans.Unlimited(), days, c, e.opts.Fare)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	result.Streaks = streaks
	for _, f := range fares {
		if f == nil {
			continue
		}
		e.opts.Metrics.ObserveFare(string(f.Recommendation))
		result.Fares = append(result.Fares, *f)
	}
	return nil
}

// Fare runs the fare calculator for a single employee. A nil comparison is a
// normal outcome: no plan for the location, or no rides.
func (e *Engine) Fare(req *model.FareRequest) (*model.FareResponse, error) {
	_, days, ok := resolvePeriod(req.Month, req.DaysInMonth)
	if !ok {
		return nil, ErrInvalidPeriod
	}
	plans := e.opts.Plans.Snapshot()
	if plans == nil {
		return nil, planregistry.ErrNoCatalog
	}
	plan, _ := plans.Lookup(req.Location)
	cmp := fare.Calculate(req.EmployeeID, req.Schedule, plan, plans.Unlimited(), days, e.opts.Classifier, e.opts.Fare)
	if cmp != nil {
		e.opts.Metrics.ObserveFare(string(cmp.Recommendation))
	} else {
		e.opts.Metrics.ObserveFare("")
	}
	return &model.FareResponse{Comparison: cmp}, nil
}

// CrossMonth finds streaks spanning month boundaries. Employees defaults to
// everyone that appears in any month.
func (e *Engine) CrossMonth(req *model.CrossMonthRequest) (*model.CrossMonthResponse, error) {
	months := make([]streak.MonthMatrix, 0, len(req.Months))
	everyone := map[string]struct{}{}
	for _, ms := range req.Months {
		m, ok := model.ParseMonth(ms.Month)
		if !ok {
			return nil, fmt.Errorf("invalid month %q: %w", ms.Month, ErrInvalidPeriod)
		}
		months = append(months, streak.MonthMatrix{Month: m, Schedule: ms.Schedule})
		for id := range ms.Schedule {
			everyone[id] = struct{}{}
		}
	}

	ids := req.Employees
	if len(ids) == 0 {
		all := make(model.ScheduleMatrix, len(everyone))
		for id := range everyone {
			all[id] = nil
		}
		ids = all.Employees()
	}

	resp := &model.CrossMonthResponse{Streaks: make([]model.CrossMonthStreaks, 0, len(ids))}
	for _, id := range ids {
		resp.Streaks = append(resp.Streaks, streak.CrossMonth(months, id, e.opts.Classifier, e.opts.Risk))
	}
	return resp, nil
}
