// Package revision computes RFC 6902 patches between two schedule revisions.
package revision

import (
	"sort"
	"strconv"
	"strings"

	"rota-engine/internal/model"
)

// Diff returns the patch that turns a into b. Paths are /<employee>/<day>.
// Operations are ordered by employee id, then day, so the output is stable.
func Diff(a, b model.ScheduleMatrix) []model.PatchOp {
	ops := []model.PatchOp{}

	for _, id := range unionKeys(a, b) {
		rowA, inA := a[id]
		rowB, inB := b[id]
		path := "/" + escapeKey(id)
		switch {
		case inA && !inB:
			ops = append(ops, removeOp(path))
		case !inA && inB:
			ops = append(ops, addRowOp(path))
			ops = append(ops, diffRows(nil, rowB, path)...)
		default:
			ops = append(ops, diffRows(rowA, rowB, path)...)
		}
	}
	return ops
}

func diffRows(a, b map[int]string, path string) []model.PatchOp {
	var ops []model.PatchOp
	days := make([]int, 0, len(a)+len(b))
	for d := range a {
		days = append(days, d)
	}
	for d := range b {
		if _, ok := a[d]; !ok {
			days = append(days, d)
		}
	}
	sort.Ints(days)

	for _, d := range days {
		childPath := path + "/" + strconv.Itoa(d)
		av, inA := a[d]
		bv, inB := b[d]
		switch {
		case inA && !inB:
			ops = append(ops, removeOp(childPath))
		case !inA && inB:
			ops = append(ops, addOp(childPath, bv))
		case av != bv:
			ops = append(ops, replaceOp(childPath, bv))
		}
	}
	return ops
}

// Apply replays a patch produced by Diff onto a copy of m.
func Apply(m model.ScheduleMatrix, ops []model.PatchOp) model.ScheduleMatrix {
	out := make(model.ScheduleMatrix, len(m))
	for id, row := range m {
		cp := make(map[int]string, len(row))
		for d, tok := range row {
			cp[d] = tok
		}
		out[id] = cp
	}
	for _, op := range ops {
		parts := strings.Split(strings.TrimPrefix(op.Path, "/"), "/")
		id := unescapeKey(parts[0])
		if len(parts) == 1 {
			switch op.Op {
			case "add":
				out[id] = map[int]string{}
			case "remove":
				delete(out, id)
			}
			continue
		}
		day, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		switch op.Op {
		case "add", "replace":
			if out[id] == nil {
				out[id] = map[int]string{}
			}
			if op.Value != nil {
				out[id][day] = *op.Value
			}
		case "remove":
			delete(out[id], day)
		}
	}
	return out
}

func unionKeys(a, b model.ScheduleMatrix) []string {
	ids := make([]string, 0, len(a)+len(b))
	for id := range a {
		ids = append(ids, id)
	}
	for id := range b {
		if _, ok := a[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func replaceOp(path, value string) model.PatchOp {
	return model.PatchOp{Op: "replace", Path: path, Value: &value}
}

func addOp(path, value string) model.PatchOp {
	return model.PatchOp{Op: "add", Path: path, Value: &value}
}

func addRowOp(path string) model.PatchOp {
	return model.PatchOp{Op: "add", Path: path}
}

func removeOp(path string) model.PatchOp {
	return model.PatchOp{Op: "remove", Path: path}
}

// escapeKey escapes a JSON Pointer token per RFC 6901.
func escapeKey(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}

func unescapeKey(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	s = strings.ReplaceAll(s, "~0", "~")
	return s
}
