package ui

import (
	"errors"
	"testing"
)

// recordingObserver captures AttachPending calls in order.
type recordingObserver struct {
	ids []string
}

func (r *recordingObserver) AttachPending(nodeID string) {
	r.ids = append(r.ids, nodeID)
}

func TestBuildAssignsDeterministicIDs(t *testing.T) {
	page := func(b *Builder) {
		b.Title("Hello", 1)
		b.Text("one")
		b.Text("two")
		b.Container(func(b *Builder) {
			b.Text("nested")
		})
	}

	first, err := Build("/", nil, nil, page)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, err := Build("/", nil, nil, page)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var firstIDs, secondIDs []string
	first.Root.Walk(func(e *Element) bool {
		firstIDs = append(firstIDs, e.ID)
		return true
	})
	second.Root.Walk(func(e *Element) bool {
		secondIDs = append(secondIDs, e.ID)
		return true
	})

	if len(firstIDs) != len(secondIDs) {
		t.Fatalf("tree sizes differ: %d vs %d", len(firstIDs), len(secondIDs))
	}
	for i := range firstIDs {
		if firstIDs[i] != secondIDs[i] {
			t.Errorf("ID[%d] = %q, want %q", i, secondIDs[i], firstIDs[i])
		}
	}
}

func TestBuildSiblingIDsCountPerKind(t *testing.T) {
	tree, err := Build("/", nil, nil, func(b *Builder) {
		b.Text("a")
		b.Title("t", 2)
		b.Text("b")
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []string{"root/text.0", "root/title.0", "root/text.1"}
	for i, id := range want {
		if got := tree.Root.Children[i].ID; got != id {
			t.Errorf("child %d ID = %q, want %q", i, got, id)
		}
	}
}

func TestBuildKeyedIDsIgnorePosition(t *testing.T) {
	build := func(order []string) *Tree {
		tree, err := Build("/", nil, nil, func(b *Builder) {
			for _, k := range order {
				b.Text(k, WithKey(k))
			}
		})
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		return tree
	}

	forward := build([]string{"a", "b"})
	reversed := build([]string{"b", "a"})

	if forward.Root.Children[0].ID != reversed.Root.Children[1].ID {
		t.Errorf("keyed element changed ID across reorder: %q vs %q",
			forward.Root.Children[0].ID, reversed.Root.Children[1].ID)
	}
	if got := forward.Root.Children[0].ID; got != "root/text@a" {
		t.Errorf("keyed ID = %q, want root/text@a", got)
	}
}

func TestBuildRecoversPanic(t *testing.T) {
	tree, err := Build("/boom", nil, nil, func(b *Builder) {
		b.Text("before")
		panic("component exploded")
	})

	if tree != nil {
		t.Errorf("tree = %v, want nil after panic", tree)
	}
	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("err = %v, want *BuildError", err)
	}
	if buildErr.Route != "/boom" {
		t.Errorf("Route = %q, want /boom", buildErr.Route)
	}
	if buildErr.Recovered != "component exploded" {
		t.Errorf("Recovered = %v, want panic value", buildErr.Recovered)
	}
}

func TestBuildNilComponent(t *testing.T) {
	if _, err := Build("/", nil, nil, nil); !errors.Is(err, ErrNilComponent) {
		t.Errorf("err = %v, want ErrNilComponent", err)
	}
}

func TestHandlersRegisteredByNode(t *testing.T) {
	called := false
	tree, err := Build("/", nil, nil, func(b *Builder) {
		b.Button("Go", OnClick(func(Payload) { called = true }))
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	btn := tree.Root.Children[0]
	if got := btn.Events; len(got) != 1 || got[0] != "click" {
		t.Errorf("Events = %v, want [click]", got)
	}

	h := tree.Handler(btn.ID, "click")
	if h == nil {
		t.Fatal("Handler() = nil, want registered callback")
	}
	h(nil)
	if !called {
		t.Error("handler did not run")
	}
}

func TestButtonClickedResolvesFromPending(t *testing.T) {
	pending := []PendingEvent{{NodeID: "root/button.0", Name: "click"}}

	var clicked, other bool
	_, err := Build("/", pending, nil, func(b *Builder) {
		clicked = b.Button("Target").Clicked()
		other = b.Button("Bystander").Clicked()
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if !clicked {
		t.Error("target button Clicked() = false, want true")
	}
	if other {
		t.Error("bystander button Clicked() = true, want false")
	}
}

func TestInputValueResolvesFromPending(t *testing.T) {
	pending := []PendingEvent{{
		NodeID:  "root/input_text.0",
		Name:    "change",
		Payload: Payload{"value": "typed"},
	}}

	var handle *Handle
	_, err := Build("/", pending, nil, func(b *Builder) {
		handle = b.InputText("...", "rendered")
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if !handle.Changed() {
		t.Error("Changed() = false, want true")
	}
	if got := handle.Value(); got != "typed" {
		t.Errorf("Value() = %q, want typed", got)
	}
}

func TestObserverAttribution(t *testing.T) {
	obs := &recordingObserver{}
	_, err := Build("/", nil, obs, func(b *Builder) {
		b.Text("a")
		b.Container(func(b *Builder) {
			b.Text("b")
		})
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Each element notifies once; containers notify again on close so
	// leftover reads inside the block land on the container.
	want := []string{"root/text.0", "root/container.0", "root/container.0/text.0", "root/container.0"}
	if len(obs.ids) != len(want) {
		t.Fatalf("observer calls = %v, want %v", obs.ids, want)
	}
	for i := range want {
		if obs.ids[i] != want[i] {
			t.Errorf("observer call %d = %q, want %q", i, obs.ids[i], want[i])
		}
	}
}
