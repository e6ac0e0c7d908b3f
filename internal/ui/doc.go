// Package ui provides the component tree builder for YoGuido.
//
// A page is an ordinary Go function that calls UI primitives (Text, Button,
// Container, Table, ...) on a Builder. Each primitive call appends an Element
// to the currently open container; container primitives take a closure that
// produces their children, which preserves the nesting discipline without
// relying on scope-exit semantics:
//
//	b.Container(func(b *ui.Builder) {
//		b.Title("Dashboard", 1)
//		if b.Button("Refresh").Clicked() {
//			// ran because the click event is pending for this pass
//		}
//	})
//
// # Element identity
//
// Element IDs are deterministic, derived from the parent ID, the element
// kind, the sequential index among siblings of that kind, and an optional
// caller-supplied key. Keyed elements keep their identity across reorders;
// keyless elements degrade to positional identity, so reordering a keyless
// list produces update or remove/insert patches instead of a Reorder. That
// is a documented limitation of positional IDs, not a bug.
//
// # Interaction handles
//
// Primitives that accept user interaction return a handle exposing the
// synthetic result from the previous commit: Button returns a handle whose
// Clicked method is true exactly when the pending event set contains a click
// for that element, and input primitives surface the submitted value the
// same way. The handle is only meaningful for the render pass it was
// produced in.
package ui
