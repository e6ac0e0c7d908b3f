package ui

// Option configures an element at creation time.
type Option func(*elementOptions)

// elementOptions collects caller-supplied settings before the element ID is
// assigned, since the key participates in ID derivation.
type elementOptions struct {
	key      string
	props    Props
	handlers map[string]Handler
}

func resolveOptions(opts []Option) elementOptions {
	var o elementOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithKey sets the list key used for stable identity across reorders.
func WithKey(key string) Option {
	return func(o *elementOptions) {
		o.key = key
	}
}

// WithClass sets the CSS class string. The value is an opaque payload
// passed through to the client untouched.
func WithClass(class string) Option {
	return WithProp("class", class)
}

// WithStyle sets an inline style string, passed through untouched.
func WithStyle(style string) Option {
	return WithProp("style", style)
}

// WithProp sets an arbitrary property.
func WithProp(name string, value any) Option {
	return func(o *elementOptions) {
		o.props = o.props.Set(name, value)
	}
}

// on registers a handler for the named event.
func on(event string, fn Handler) Option {
	return func(o *elementOptions) {
		if fn == nil {
			return
		}
		if o.handlers == nil {
			o.handlers = make(map[string]Handler)
		}
		o.handlers[event] = fn
	}
}

// OnClick registers a click handler, invoked by the event router when the
// client reports a click on this element.
func OnClick(fn Handler) Option {
	return on("click", fn)
}

// OnChange registers a change handler for input elements.
func OnChange(fn Handler) Option {
	return on("change", fn)
}

// OnSubmit registers a submit handler.
func OnSubmit(fn Handler) Option {
	return on("submit", fn)
}
