// Package overlap counts how often each pair of employees works together.
package overlap

import (
	"sort"

	"rota-engine/internal/model"
	"rota-engine/internal/shift"
)

type pair struct {
	a, b string
}

func newPair(x, y string) pair {
	if y < x {
		x, y = y, x
	}
	return pair{a: x, b: y}
}

// Table is the symmetric co-occurrence table of one analysis pass.
type Table struct {
	employees []string
	counts    map[pair]int
	// details are recorded from the point of view of pair.a
	details map[pair][]model.OverlapOccurrence
}

// Compute builds the overlap table for days 1..daysInMonth. Day keys outside
// that range are never read.
func Compute(matrix model.ScheduleMatrix, daysInMonth int, c *shift.Classifier, adj Adjacency) *Table {
	t := &Table{
		employees: matrix.Employees(),
		counts:    make(map[pair]int),
		details:   make(map[pair][]model.OverlapOccurrence),
	}

	for day := 1; day <= daysInMonth; day++ {
		byKind := make(map[model.ShiftKind][]string, len(model.WorkingKinds))
		for _, id := range t.employees {
			a := c.Resolve(matrix[id], day)
			if !a.Worked() {
				continue
			}
			byKind[a.Kind] = append(byKind[a.Kind], id)
		}

		// Same-kind overlap.
		for _, kind := range model.WorkingKinds {
			ids := byKind[kind]
			for i := 0; i < len(ids); i++ {
				for j := i + 1; j < len(ids); j++ {
					t.add(day, ids[i], kind, ids[j], kind)
				}
			}
		}

		// Handover overlap. Each unordered kind pair is visited once.
		for i, k1 := range model.WorkingKinds {
			for _, k2 := range model.WorkingKinds[i+1:] {
				if !adj.Adjacent(k1, k2) {
					continue
				}
				for _, x := range byKind[k1] {
					for _, y := range byKind[k2] {
						t.add(day, x, k1, y, k2)
					}
				}
			}
		}
	}
	return t
}

func (t *Table) add(day int, x string, kx model.ShiftKind, y string, ky model.ShiftKind) {
	p := newPair(x, y)
	if p.a != x {
		kx, ky = ky, kx
	}
	label := string(kx)
	if kx != ky {
		label = string(kx) + "-" + string(ky)
	}
	t.counts[p]++
	t.details[p] = append(t.details[p], model.OverlapOccurrence{Day: day, Label: label})
}

// Count returns how many days a and b overlapped. Count(a, a) is 0.
func (t *Table) Count(a, b string) int {
	if a == b {
		return 0
	}
	return t.counts[newPair(a, b)]
}

// Details lists the days a and b overlapped, labelled from a's side.
func (t *Table) Details(a, b string) []model.OverlapOccurrence {
	if a == b {
		return nil
	}
	p := newPair(a, b)
	src := t.details[p]
	out := make([]model.OverlapOccurrence, len(src))
	copy(out, src)
	if p.a != a {
		for i := range out {
			out[i].Label = flipLabel(out[i].Label)
		}
	}
	return out
}

// Ranking lists a's co-workers by descending count, ties by employee id.
// Co-workers with a zero count are omitted.
func (t *Table) Ranking(employee string) []model.Partner {
	out := []model.Partner{}
	for _, other := range t.employees {
		if other == employee {
			continue
		}
		if n := t.Count(employee, other); n > 0 {
			out = append(out, model.Partner{EmployeeID: other, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

// Pairs lists every pair with a positive count, by descending count then ids.
func (t *Table) Pairs() []model.PairCount {
	out := make([]model.PairCount, 0, len(t.counts))
	for p, n := range t.counts {
		out = append(out, model.PairCount{A: p.a, B: p.b, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

func (t *Table) Summary() model.OverlapSummary {
	var s model.OverlapSummary
	for _, n := range t.counts {
		s.TotalOverlaps += n
		s.TotalPairs++
		if n > s.MaxOverlap {
			s.MaxOverlap = n
		}
	}
	if s.TotalPairs > 0 {
		s.AvgOverlap = float64(s.TotalOverlaps) / float64(s.TotalPairs)
	}
	return s
}

// Report flattens the table for the reporting layer.
func (t *Table) Report() *model.OverlapReport {
	r := &model.OverlapReport{
		Pairs:    t.Pairs(),
		Rankings: make(map[string][]model.Partner, len(t.employees)),
		Summary:  t.Summary(),
	}
	for _, id := range t.employees {
		r.Rankings[id] = t.Ranking(id)
	}
	return r
}

func flipLabel(label string) string {
	for i := 0; i < len(label); i++ {
		if label[i] == '-' {
			return label[i+1:] + "-" + label[:i]
		}
	}
	return label
}
