package overlap

import "rota-engine/internal/model"

// Adjacency lists the kind pairs whose workers hand over to each other.
// An entry a -> b also covers b -> a.
type Adjacency map[model.ShiftKind]map[model.ShiftKind]struct{}

// DefaultAdjacency is Early->Mid and Mid->Night. Early and Night never meet.
func DefaultAdjacency() Adjacency {
	return NewAdjacency(
		[2]model.ShiftKind{model.KindEarly, model.KindMid},
		[2]model.ShiftKind{model.KindMid, model.KindNight},
	)
}

func NewAdjacency(pairs ...[2]model.ShiftKind) Adjacency {
	a := make(Adjacency)
	for _, p := range pairs {
		if a[p[0]] == nil {
			a[p[0]] = make(map[model.ShiftKind]struct{})
		}
		a[p[0]][p[1]] = struct{}{}
	}
	return a
}

// Adjacent reports whether x and y are a handover pair. Equal kinds are not adjacent.
func (a Adjacency) Adjacent(x, y model.ShiftKind) bool {
	if x == y {
		return false
	}
	if _, ok := a[x][y]; ok {
		return true
	}
	_, ok := a[y][x]
	return ok
}
