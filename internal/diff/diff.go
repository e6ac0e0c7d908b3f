package diff

import (
	"reflect"

	"github.com/yoguido/yoguido/internal/ui"
)

// Diff computes the patch ops that transform prev into next. Identical trees
// (including two nil trees) produce an empty stream. Per parent, ops are
// emitted as removes, then inserts in ascending final index, then at most one
// reorder, then content updates; structural ops for a parent always precede
// updates inside its children.
func Diff(prev, next *ui.Element) []PatchOp {
	switch {
	case prev == nil && next == nil:
		return nil
	case prev == nil:
		return []PatchOp{{Op: OpInsert, Index: 0, Node: next.Clone()}}
	case next == nil:
		return []PatchOp{{Op: OpRemove, NodeID: prev.ID}}
	case prev.ID != next.ID:
		// Different roots: the page changed identity entirely.
		return []PatchOp{
			{Op: OpRemove, NodeID: prev.ID},
			{Op: OpInsert, Index: 0, Node: next.Clone()},
		}
	}

	var ops []PatchOp
	diffNode(prev, next, &ops)
	return ops
}

// diffNode compares two elements with the same ID and appends the ops that
// reconcile prev into next.
func diffNode(prev, next *ui.Element, ops *[]PatchOp) {
	// Unchanged subtrees are shared by pointer between renders.
	if prev == next {
		return
	}

	if prev.Text != next.Text {
		text := next.Text
		*ops = append(*ops, PatchOp{Op: OpUpdateText, NodeID: next.ID, Text: &text})
	}

	if changed := changedProps(prev.Props, next.Props); len(changed) > 0 {
		*ops = append(*ops, PatchOp{Op: OpUpdateProps, NodeID: next.ID, Props: changed})
	}

	diffChildren(prev, next, ops)
}

// changedProps returns the props of next that differ from prev, plus a
// nil-valued entry for every prop of prev that next dropped.
func changedProps(prev, next ui.Props) ui.Props {
	var out ui.Props
	for _, p := range next {
		old, ok := prev.Get(p.Name)
		if !ok || !reflect.DeepEqual(old, p.Value) {
			out = append(out, p)
		}
	}
	for _, p := range prev {
		if _, ok := next.Get(p.Name); !ok {
			out = append(out, ui.Prop{Name: p.Name, Value: nil})
		}
	}
	return out
}

// diffChildren reconciles the child lists of two matching parents by ID.
func diffChildren(prev, next *ui.Element, ops *[]PatchOp) {
	prevIdx := make(map[string]int, len(prev.Children))
	for i, c := range prev.Children {
		prevIdx[c.ID] = i
	}
	nextIdx := make(map[string]int, len(next.Children))
	for i, c := range next.Children {
		nextIdx[c.ID] = i
	}

	for _, c := range prev.Children {
		if _, ok := nextIdx[c.ID]; !ok {
			*ops = append(*ops, PatchOp{Op: OpRemove, NodeID: c.ID})
		}
	}

	for i, c := range next.Children {
		if _, ok := prevIdx[c.ID]; !ok {
			*ops = append(*ops, PatchOp{Op: OpInsert, Parent: next.ID, Index: i, Node: c.Clone()})
		}
	}

	// A reorder fires only when surviving children changed relative order.
	// Pure insert/remove churn around a stable core never reorders.
	if commonOrderChanged(prev, next, nextIdx, prevIdx) {
		order := make([]string, len(next.Children))
		for i, c := range next.Children {
			order[i] = c.ID
		}
		*ops = append(*ops, PatchOp{Op: OpReorder, Parent: next.ID, Order: order})
	}

	for _, c := range next.Children {
		if pi, ok := prevIdx[c.ID]; ok {
			diffNode(prev.Children[pi], c, ops)
		}
	}
}

// commonOrderChanged reports whether the children present in both trees
// appear in a different relative order.
func commonOrderChanged(prev, next *ui.Element, nextIdx, prevIdx map[string]int) bool {
	var before []string
	for _, c := range prev.Children {
		if _, ok := nextIdx[c.ID]; ok {
			before = append(before, c.ID)
		}
	}
	var after []string
	for _, c := range next.Children {
		if _, ok := prevIdx[c.ID]; ok {
			after = append(after, c.ID)
		}
	}
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		if before[i] != after[i] {
			return true
		}
	}
	return false
}
