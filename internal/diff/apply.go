package diff

import (
	"fmt"

	"github.com/yoguido/yoguido/internal/ui"
)

// Apply replays a patch stream against a tree and returns the result. The
// input is never mutated. Apply mirrors what the browser client does and
// backs the round-trip property: Apply(prev, Diff(prev, next)) equals next.
func Apply(prev *ui.Element, ops []PatchOp) (*ui.Element, error) {
	root := prev.Clone()

	for _, op := range ops {
		var err error
		switch op.Op {
		case OpInsert:
			root, err = applyInsert(root, op)
		case OpRemove:
			root, err = applyRemove(root, op)
		case OpReorder:
			err = applyReorder(root, op)
		case OpUpdateText:
			err = applyUpdateText(root, op)
		case OpUpdateProps:
			err = applyUpdateProps(root, op)
		default:
			err = fmt.Errorf("unknown op %q", op.Op)
		}
		if err != nil {
			return nil, err
		}
	}
	return root, nil
}

func applyInsert(root *ui.Element, op PatchOp) (*ui.Element, error) {
	if op.Node == nil {
		return nil, &InvariantError{Op: op.Op, NodeID: op.Parent, Err: ErrBadInsert}
	}
	if op.Parent == "" {
		return op.Node.Clone(), nil
	}
	parent := root.Find(op.Parent)
	if parent == nil {
		return nil, &InvariantError{Op: op.Op, NodeID: op.Parent, Err: ErrUnknownNode}
	}
	idx := op.Index
	if idx < 0 {
		idx = 0
	}
	if idx > len(parent.Children) {
		idx = len(parent.Children)
	}
	child := op.Node.Clone()
	parent.Children = append(parent.Children, nil)
	copy(parent.Children[idx+1:], parent.Children[idx:])
	parent.Children[idx] = child
	return root, nil
}

func applyRemove(root *ui.Element, op PatchOp) (*ui.Element, error) {
	if root != nil && root.ID == op.NodeID {
		return nil, nil
	}
	parent, idx := findParentOf(root, op.NodeID)
	if parent == nil {
		return nil, &InvariantError{Op: op.Op, NodeID: op.NodeID, Err: ErrUnknownNode}
	}
	parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
	return root, nil
}

func applyReorder(root *ui.Element, op PatchOp) error {
	parent := root.Find(op.Parent)
	if parent == nil {
		return &InvariantError{Op: op.Op, NodeID: op.Parent, Err: ErrUnknownNode}
	}
	if len(op.Order) != len(parent.Children) {
		return &InvariantError{Op: op.Op, NodeID: op.Parent, Err: ErrBadReorder}
	}
	byID := make(map[string]*ui.Element, len(parent.Children))
	for _, c := range parent.Children {
		byID[c.ID] = c
	}
	ordered := make([]*ui.Element, len(op.Order))
	for i, id := range op.Order {
		c, ok := byID[id]
		if !ok {
			return &InvariantError{Op: op.Op, NodeID: id, Err: ErrBadReorder}
		}
		ordered[i] = c
	}
	parent.Children = ordered
	return nil
}

func applyUpdateText(root *ui.Element, op PatchOp) error {
	el := root.Find(op.NodeID)
	if el == nil {
		return &InvariantError{Op: op.Op, NodeID: op.NodeID, Err: ErrUnknownNode}
	}
	if op.Text != nil {
		el.Text = *op.Text
	}
	return nil
}

func applyUpdateProps(root *ui.Element, op PatchOp) error {
	el := root.Find(op.NodeID)
	if el == nil {
		return &InvariantError{Op: op.Op, NodeID: op.NodeID, Err: ErrUnknownNode}
	}
	for _, p := range op.Props {
		if p.Value == nil {
			el.Props = deleteProp(el.Props, p.Name)
			continue
		}
		el.Props = el.Props.Set(p.Name, p.Value)
	}
	return nil
}

func deleteProp(props ui.Props, name string) ui.Props {
	for i, p := range props {
		if p.Name == name {
			return append(props[:i], props[i+1:]...)
		}
	}
	return props
}

// findParentOf locates the element whose child list contains id, returning
// the parent and the child's index.
func findParentOf(root *ui.Element, id string) (*ui.Element, int) {
	var parent *ui.Element
	idx := -1
	root.Walk(func(e *ui.Element) bool {
		for i, c := range e.Children {
			if c.ID == id {
				parent, idx = e, i
				return false
			}
		}
		return true
	})
	return parent, idx
}

// Validate checks that every op references only nodes present in the old or
// new tree. The dispatcher runs it after every diff; a failure means the diff
// produced a stream the client cannot apply, so the session must resync.
func Validate(prev, next *ui.Element, ops []PatchOp) error {
	known := make(map[string]struct{})
	collect := func(e *ui.Element) bool {
		known[e.ID] = struct{}{}
		return true
	}
	if prev != nil {
		prev.Walk(collect)
	}
	if next != nil {
		next.Walk(collect)
	}

	check := func(op PatchOp, id string) error {
		if _, ok := known[id]; !ok {
			return &InvariantError{Op: op.Op, NodeID: id, Err: ErrUnknownNode}
		}
		return nil
	}

	for _, op := range ops {
		switch op.Op {
		case OpInsert:
			if op.Node == nil {
				return &InvariantError{Op: op.Op, NodeID: op.Parent, Err: ErrBadInsert}
			}
			if op.Parent != "" {
				if err := check(op, op.Parent); err != nil {
					return err
				}
			}
		case OpRemove, OpUpdateText, OpUpdateProps:
			if err := check(op, op.NodeID); err != nil {
				return err
			}
		case OpReorder:
			if err := check(op, op.Parent); err != nil {
				return err
			}
			for _, id := range op.Order {
				if err := check(op, id); err != nil {
					return err
				}
			}
		default:
			return &InvariantError{Op: op.Op, Err: fmt.Errorf("unknown op")}
		}
	}
	return nil
}
