package shift

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rota-engine/internal/model"
)

func TestClassify(t *testing.T) {
	c := Default()
	cases := map[string]model.ShiftKind{
		"早":     model.KindEarly,
		" kk ":  model.KindEarly,
		"中班":    model.KindMid,
		"x":     model.KindMid,
		"晚":     model.KindNight,
		"YY":    model.KindNight,
		"休":     model.KindRest,
		"月休":    model.KindRest,
		"特":     model.KindSpecial,
		"高鐵":    model.KindSpecial,
		"":      model.KindUnknown,
		"打烊":    model.KindUnknown,
		"EARLY": model.KindEarly,
	}
	for token, want := range cases {
		assert.Equal(t, want, c.Classify(token), "token %q", token)
	}
}

func TestResolveTriState(t *testing.T) {
	c := Default()
	row := map[int]string{1: "早", 2: "休", 4: "??", 5: "  "}

	assert.Equal(t, model.DayWorked, c.Resolve(row, 1).State)
	assert.Equal(t, model.DayRest, c.Resolve(row, 2).State)
	assert.Equal(t, model.DayAbsent, c.Resolve(row, 3).State)
	assert.Equal(t, model.DayUnrecognized, c.Resolve(row, 4).State)
	assert.Equal(t, "??", c.Resolve(row, 4).Token)
	assert.Equal(t, model.DayAbsent, c.Resolve(row, 5).State)
	assert.False(t, c.Resolve(row, 4).Worked())
}

func TestNewClassifierCopiesTable(t *testing.T) {
	table := map[string]model.ShiftKind{"am": model.KindEarly}
	c := NewClassifier(table)
	table["pm"] = model.KindNight

	assert.Equal(t, model.KindEarly, c.Classify("AM"))
	assert.Equal(t, model.KindUnknown, c.Classify("pm"))
}

func TestUnknownTokens(t *testing.T) {
	c := Default()
	row := map[int]string{1: "??", 2: "??", 3: "早", 4: "Z", 40: "Q"}
	assert.Equal(t, []string{"??", "Z"}, c.UnknownTokens(row, 30))
}

func TestCanonical(t *testing.T) {
	c := Default()
	assert.Equal(t, "EARLY", c.Canonical("K"))
	assert.Equal(t, "Z9", c.Canonical(" Z9 "))
}
