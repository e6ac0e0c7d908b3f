package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies the primitive type of an element.
type Kind string

// Element kinds produced by the builder primitives.
const (
	KindRoot        Kind = "root"
	KindTitle       Kind = "title"
	KindText        Kind = "text"
	KindIcon        Kind = "icon"
	KindButton      Kind = "button"
	KindInputText   Kind = "input_text"
	KindInputNumber Kind = "input_number"
	KindSelect      Kind = "select"
	KindCheckbox    Kind = "checkbox"
	KindSlider      Kind = "slider"
	KindTextarea    Kind = "textarea"
	KindContainer   Kind = "container"
	KindFlex        Kind = "flex"
	KindGrid        Kind = "grid"
	KindCard        Kind = "card"
	KindStatsCard   Kind = "stats_card"
	KindTable       Kind = "table"
	KindBadge       Kind = "badge"
	KindAlert       Kind = "alert"
	KindProgress    Kind = "progress_bar"
	KindSeparator   Kind = "separator"
	KindSpacer      Kind = "spacer"
	KindLineChart   Kind = "line_chart"
	KindBarChart    Kind = "bar_chart"
	KindPieChart    Kind = "pie_chart"
	KindForm        Kind = "form"
	KindFormField   Kind = "form_field"
	KindDatePicker  Kind = "date_picker"
	KindFileUpload  Kind = "file_upload"
	KindRadioGroup  Kind = "radio_group"
	KindBreadcrumb  Kind = "breadcrumb"
	KindTabs        Kind = "tabs"
	KindPagination  Kind = "pagination"
	KindSidebar     Kind = "sidebar"
	KindHeader      Kind = "header"
	KindFooter      Kind = "footer"
	KindModal       Kind = "modal"
	KindDropdown    Kind = "dropdown"
	KindSpinner     Kind = "loading_spinner"
)

// Prop is a single named property on an element. Values are primitives or
// opaque strings (CSS classes are passed through untouched).
type Prop struct {
	Name  string
	Value any
}

// Props is an ordered property list. Order is preserved through
// serialization so two renders of the same element marshal identically.
type Props []Prop

// Get returns the value of the named property.
func (p Props) Get(name string) (any, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return nil, false
}

// Set replaces the named property, or appends it if absent.
func (p Props) Set(name string, value any) Props {
	for i, prop := range p {
		if prop.Name == name {
			p[i].Value = value
			return p
		}
	}
	return append(p, Prop{Name: name, Value: value})
}

// MarshalJSON encodes the props as a JSON object in declaration order.
func (p Props) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(prop.Value)
		if err != nil {
			return nil, fmt.Errorf("marshaling prop %s: %w", prop.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into props. Key order follows the
// document order of the object.
func (p *Props) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("props: expected object, got %v", tok)
	}

	var out Props
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		var val any
		if err := dec.Decode(&val); err != nil {
			return err
		}
		if n, ok := val.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				val = i
			} else if f, err := n.Float64(); err == nil {
				val = f
			}
		}
		out = append(out, Prop{Name: key, Value: val})
	}
	*p = out
	return nil
}

// Handler is a user callback bound to an element event. The payload carries
// the client-supplied event data (input value, selection, ...).
type Handler func(payload Payload)

// Payload is the opaque event payload forwarded from the client.
type Payload map[string]any

// String returns the named payload field as a string.
func (p Payload) String(name string) string {
	if v, ok := p[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Element is one node in the component tree.
//
// The ID uniquely identifies the node within one render of one page.
// Identical IDs across two consecutive renders mean "same logical node",
// which is what makes diffing possible.
type Element struct {
	ID       string     `json:"id"`
	Kind     Kind       `json:"type"`
	Text     string     `json:"text,omitempty"`
	Props    Props      `json:"props,omitempty"`
	Children []*Element `json:"children,omitempty"`

	// Events lists the event names this element handles. The callbacks
	// themselves live in the builder result, keyed by element ID; only the
	// names cross the wire.
	Events []string `json:"events,omitempty"`

	// Key is the caller-supplied list key, empty for positional identity.
	Key string `json:"key,omitempty"`
}

// Clone returns a deep copy of the element and its subtree. Patch snapshots
// are cloned so later renders cannot mutate a committed tree.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := &Element{
		ID:   e.ID,
		Kind: e.Kind,
		Text: e.Text,
		Key:  e.Key,
	}
	if len(e.Props) > 0 {
		out.Props = make(Props, len(e.Props))
		copy(out.Props, e.Props)
	}
	if len(e.Events) > 0 {
		out.Events = append([]string(nil), e.Events...)
	}
	if len(e.Children) > 0 {
		out.Children = make([]*Element, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Find returns the element with the given ID in this subtree, or nil.
func (e *Element) Find(id string) *Element {
	if e == nil {
		return nil
	}
	if e.ID == id {
		return e
	}
	for _, c := range e.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits every element in the subtree in depth-first order. Walking
// stops early if fn returns false.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if e == nil {
		return true
	}
	if !fn(e) {
		return false
	}
	for _, c := range e.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Count returns the number of elements in the subtree.
func (e *Element) Count() int {
	n := 0
	e.Walk(func(*Element) bool {
		n++
		return true
	})
	return n
}
