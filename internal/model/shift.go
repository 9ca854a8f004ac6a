package model

// ShiftKind is the canonical classification of a raw shift token.
type ShiftKind string

const (
	KindEarly   ShiftKind = "EARLY"
	KindMid     ShiftKind = "MID"
	KindNight   ShiftKind = "NIGHT"
	KindRest    ShiftKind = "REST"
	KindSpecial ShiftKind = "SPECIAL"
	KindUnknown ShiftKind = "UNKNOWN"
)

// WorkingKinds lists the kinds that count as a worked day, in display order.
var WorkingKinds = []ShiftKind{KindEarly, KindMid, KindNight, KindSpecial}

// Working reports whether the kind counts as a worked day.
func (k ShiftKind) Working() bool {
	switch k {
	case KindEarly, KindMid, KindNight, KindSpecial:
		return true
	}
	return false
}

// DayState distinguishes "no data" from "day off" from "worked".
type DayState int

const (
	DayAbsent DayState = iota
	DayRest
	DayWorked
	// DayUnrecognized holds a token the classifier does not know.
	// It is kept verbatim but never counts as worked.
	DayUnrecognized
)

func (s DayState) String() string {
	switch s {
	case DayRest:
		return "rest"
	case DayWorked:
		return "worked"
	case DayUnrecognized:
		return "unrecognized"
	}
	return "absent"
}

type DayAssignment struct {
	State DayState
	Kind  ShiftKind
	Token string
}

func (a DayAssignment) Worked() bool {
	return a.State == DayWorked
}
