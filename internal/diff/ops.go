package diff

import "github.com/yoguido/yoguido/internal/ui"

// Op names a patch operation kind as it appears on the wire.
type Op string

// Patch operation kinds.
const (
	OpInsert      Op = "insert"
	OpRemove      Op = "remove"
	OpReorder     Op = "reorder"
	OpUpdateProps Op = "updateProps"
	OpUpdateText  Op = "updateText"
)

// PatchOp is one instruction in a patch stream. Fields are populated per op:
//
//	insert:      Parent, Index, Node
//	remove:      NodeID
//	reorder:     Parent, Order (the full new child ID order)
//	updateProps: NodeID, Props (nil-valued props mean "remove")
//	updateText:  NodeID, Text
//
// An insert with an empty Parent replaces the whole mounted tree; the client
// treats it as mounting Node at the page root. Index always serializes, even
// at zero: an insert losing its "index" key would read as an append.
type PatchOp struct {
	Op     Op          `json:"op"`
	Parent string      `json:"parent,omitempty"`
	Index  int         `json:"index"`
	NodeID string      `json:"node,omitempty"`
	Node   *ui.Element `json:"tree,omitempty"`
	Order  []string    `json:"order,omitempty"`
	Props  ui.Props    `json:"props,omitempty"`
	Text   *string     `json:"text,omitempty"`
}
