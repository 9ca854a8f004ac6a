// Package shift maps raw schedule tokens to canonical shift kinds.
package shift

import (
	"strings"

	"rota-engine/internal/model"
)

// DefaultTable is the token vocabulary produced by the schedule import.
// Latin codes are matched case-insensitively.
var DefaultTable = map[string]model.ShiftKind{
	"早": model.KindEarly, "早班": model.KindEarly, "K": model.KindEarly, "KK": model.KindEarly,
	"EARLY": model.KindEarly, "E": model.KindEarly,

	"中": model.KindMid, "中班": model.KindMid, "午": model.KindMid, "L": model.KindMid, "LL": model.KindMid,
	"X": model.KindMid, "XX": model.KindMid, "MID": model.KindMid, "M": model.KindMid,

	"晚": model.KindNight, "晚班": model.KindNight, "Y": model.KindNight, "YY": model.KindNight,
	"A": model.KindNight, "J": model.KindNight, "JJ": model.KindNight, "NIGHT": model.KindNight, "N": model.KindNight,

	"休": model.KindRest, "月休": model.KindRest, "R": model.KindRest, "REST": model.KindRest, "OFF": model.KindRest,

	"特": model.KindSpecial, "SS": model.KindSpecial, "D7": model.KindSpecial, "高鐵": model.KindSpecial,
	"中央店": model.KindSpecial, "SPECIAL": model.KindSpecial, "S": model.KindSpecial,
}

type Classifier struct {
	table map[string]model.ShiftKind
}

// NewClassifier copies table, so later edits to the caller's map have no effect.
func NewClassifier(table map[string]model.ShiftKind) *Classifier {
	c := &Classifier{table: make(map[string]model.ShiftKind, len(table))}
	for token, kind := range table {
		c.table[normalize(token)] = kind
	}
	return c
}

func Default() *Classifier {
	return NewClassifier(DefaultTable)
}

// Classify never fails; tokens outside the table are KindUnknown.
func (c *Classifier) Classify(token string) model.ShiftKind {
	if kind, ok := c.table[normalize(token)]; ok {
		return kind
	}
	return model.KindUnknown
}

// Resolve returns the tri-state view of one day of an employee's row.
func (c *Classifier) Resolve(row map[int]string, day int) model.DayAssignment {
	token, ok := row[day]
	if !ok || strings.TrimSpace(token) == "" {
		return model.DayAssignment{State: model.DayAbsent, Kind: model.KindUnknown, Token: token}
	}
	kind := c.Classify(token)
	switch {
	case kind == model.KindRest:
		return model.DayAssignment{State: model.DayRest, Kind: kind, Token: token}
	case kind.Working():
		return model.DayAssignment{State: model.DayWorked, Kind: kind, Token: token}
	}
	return model.DayAssignment{State: model.DayUnrecognized, Kind: kind, Token: token}
}

// Canonical returns the canonical token for a raw one, or the trimmed input
// when the token is unknown so it survives verbatim.
func (c *Classifier) Canonical(token string) string {
	kind := c.Classify(token)
	if kind == model.KindUnknown {
		return strings.TrimSpace(token)
	}
	return string(kind)
}

// UnknownTokens returns the distinct unrecognized tokens in days 1..daysInMonth.
func (c *Classifier) UnknownTokens(row map[int]string, daysInMonth int) []string {
	var out []string
	seen := make(map[string]struct{})
	for day := 1; day <= daysInMonth; day++ {
		a := c.Resolve(row, day)
		if a.State != model.DayUnrecognized {
			continue
		}
		if _, ok := seen[a.Token]; ok {
			continue
		}
		seen[a.Token] = struct{}{}
		out = append(out, a.Token)
	}
	return out
}

func normalize(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}
