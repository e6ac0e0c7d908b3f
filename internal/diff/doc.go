// Package diff computes minimal patch operations between two component
// trees of the same page.
//
// Children are reconciled by element ID: nodes present only in the old tree
// become removes, nodes present only in the new tree become inserts, and a
// changed relative order among surviving nodes becomes a single reorder op
// carrying the full new child order. Leaf changes emit updateText and
// updateProps ops only for values that differ by exact equality; subtrees
// that share the same node pointer are skipped entirely.
//
// A patch stream applied in order to a DOM matching the old tree always
// yields a DOM matching the new tree, and never references a node absent
// from both trees. Validate enforces the second invariant as a safety net;
// a violation is a bug in the diff itself and forces a full resync.
package diff
