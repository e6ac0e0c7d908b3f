package ui

import "strconv"

// Handle exposes the synthetic interaction result of an element for the
// current render pass. It reads the pending event set captured at build
// time and is meaningless outside the pass that produced it.
type Handle struct {
	el      *Element
	clicked bool
	changed bool
	value   string
}

// ID returns the element ID the handle refers to.
func (h *Handle) ID() string { return h.el.ID }

// Element returns the underlying element.
func (h *Handle) Element() *Element { return h.el }

// Clicked reports whether this element's click event is pending for the
// current render pass.
func (h *Handle) Clicked() bool { return h.clicked }

// Submitted reports whether this form's submit event is pending for the
// current render pass.
func (h *Handle) Submitted() bool { return h.clicked }

// Changed reports whether the client submitted a new value for this element
// since the previous commit.
func (h *Handle) Changed() bool { return h.changed }

// Value returns the client-submitted value if Changed, else the value the
// element was rendered with.
func (h *Handle) Value() string { return h.value }

// advertise appends an event name to the element's wire-visible event list
// without requiring a registered handler (an unhandled click still drives a
// rebuild so Clicked handles resolve).
func advertise(el *Element, event string) {
	for _, e := range el.Events {
		if e == event {
			return
		}
	}
	el.Events = append(el.Events, event)
}

// ==================== text & display ====================

// Title renders a heading at the given level (1-6).
func (b *Builder) Title(text string, level int, opts ...Option) *Element {
	return b.emit(KindTitle, text, Props{{Name: "level", Value: level}}, opts)
}

// Text renders plain text content.
func (b *Builder) Text(content string, opts ...Option) *Element {
	return b.emit(KindText, content, nil, opts)
}

// Icon renders a named icon. Name and weight are opaque to the engine.
func (b *Builder) Icon(name, weight string, opts ...Option) *Element {
	return b.emit(KindIcon, "", Props{
		{Name: "name", Value: name},
		{Name: "weight", Value: weight},
	}, opts)
}

// Badge renders a small status label.
func (b *Builder) Badge(text, variant string, opts ...Option) *Element {
	return b.emit(KindBadge, text, Props{{Name: "variant", Value: variant}}, opts)
}

// Alert renders a notification banner.
func (b *Builder) Alert(message, level string, opts ...Option) *Element {
	return b.emit(KindAlert, message, Props{{Name: "alertLevel", Value: level}}, opts)
}

// ProgressBar renders a determinate progress indicator.
func (b *Builder) ProgressBar(value, maxValue float64, opts ...Option) *Element {
	return b.emit(KindProgress, "", Props{
		{Name: "value", Value: value},
		{Name: "max", Value: maxValue},
	}, opts)
}

// Separator renders a horizontal rule, optionally labeled.
func (b *Builder) Separator(label string, opts ...Option) *Element {
	return b.emit(KindSeparator, label, nil, opts)
}

// Spacer renders vertical whitespace of the given height (CSS length).
func (b *Builder) Spacer(height string, opts ...Option) *Element {
	return b.emit(KindSpacer, "", Props{{Name: "height", Value: height}}, opts)
}

// ==================== interactive ====================

// Button renders a button with the given label. The returned handle reports
// whether the button's click event is pending for this pass. Register a
// callback with the OnClick option.
func (b *Builder) Button(label string, opts ...Option) *Handle {
	el := b.emit(KindButton, label, nil, opts)
	advertise(el, "click")

	h := &Handle{el: el}
	if _, ok := b.eventFor(el.ID, "click"); ok {
		h.clicked = true
	}
	return h
}

// InputText renders a single-line text input. The handle's Value resolves
// to the client-submitted value when a change event is pending.
func (b *Builder) InputText(placeholder, value string, opts ...Option) *Handle {
	el := b.emit(KindInputText, value, Props{{Name: "placeholder", Value: placeholder}}, opts)
	advertise(el, "change")
	return b.inputHandle(el, value)
}

// InputNumber renders a numeric input with optional bounds.
func (b *Builder) InputNumber(placeholder string, value, minVal, maxVal float64, opts ...Option) *Handle {
	el := b.emit(KindInputNumber, strconv.FormatFloat(value, 'f', -1, 64), Props{
		{Name: "placeholder", Value: placeholder},
		{Name: "min", Value: minVal},
		{Name: "max", Value: maxVal},
	}, opts)
	advertise(el, "change")
	return b.inputHandle(el, el.Text)
}

// SelectOption is one entry in a Select dropdown.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Select renders a dropdown. Value is the currently selected option value.
func (b *Builder) Select(options []SelectOption, value string, opts ...Option) *Handle {
	el := b.emit(KindSelect, value, Props{{Name: "options", Value: options}}, opts)
	advertise(el, "change")
	return b.inputHandle(el, value)
}

// Checkbox renders a labeled checkbox. The handle's Value is "true" or
// "false" when a change is pending.
func (b *Builder) Checkbox(label string, checked bool, opts ...Option) *Handle {
	el := b.emit(KindCheckbox, label, Props{{Name: "checked", Value: checked}}, opts)
	advertise(el, "change")
	return b.inputHandle(el, strconv.FormatBool(checked))
}

// Slider renders a range input.
func (b *Builder) Slider(minVal, maxVal, value float64, opts ...Option) *Handle {
	el := b.emit(KindSlider, strconv.FormatFloat(value, 'f', -1, 64), Props{
		{Name: "min", Value: minVal},
		{Name: "max", Value: maxVal},
	}, opts)
	advertise(el, "change")
	return b.inputHandle(el, el.Text)
}

// Textarea renders a multi-line text input.
func (b *Builder) Textarea(placeholder, value string, rows int, opts ...Option) *Handle {
	el := b.emit(KindTextarea, value, Props{
		{Name: "placeholder", Value: placeholder},
		{Name: "rows", Value: rows},
	}, opts)
	advertise(el, "change")
	return b.inputHandle(el, value)
}

// DatePicker renders a date input. Value is an ISO date string ("2026-08-23").
func (b *Builder) DatePicker(value string, opts ...Option) *Handle {
	el := b.emit(KindDatePicker, value, nil, opts)
	advertise(el, "change")
	return b.inputHandle(el, value)
}

// FileUpload renders a file input. Accept is the accepted MIME/extension
// filter, passed through untouched.
func (b *Builder) FileUpload(accept string, opts ...Option) *Handle {
	el := b.emit(KindFileUpload, "", Props{{Name: "accept", Value: accept}}, opts)
	advertise(el, "change")
	return b.inputHandle(el, "")
}

// RadioGroup renders a group of radio buttons. Value is the currently
// selected option value.
func (b *Builder) RadioGroup(options []SelectOption, value string, opts ...Option) *Handle {
	el := b.emit(KindRadioGroup, value, Props{{Name: "options", Value: options}}, opts)
	advertise(el, "change")
	return b.inputHandle(el, value)
}

// inputHandle resolves a change handle against the pending event set.
func (b *Builder) inputHandle(el *Element, current string) *Handle {
	h := &Handle{el: el, value: current}
	if ev, ok := b.eventFor(el.ID, "change"); ok {
		h.changed = true
		h.value = ev.Payload.String("value")
	}
	return h
}

// ==================== forms ====================

// Form renders a form container; fn produces its fields. The form advertises
// the submit event; register a callback with the OnSubmit option. The
// returned handle reports whether a submit is pending for this pass.
func (b *Builder) Form(fn func(*Builder), opts ...Option) *Handle {
	el := b.container(KindForm, nil, opts, fn)
	advertise(el, "submit")

	h := &Handle{el: el}
	if _, ok := b.eventFor(el.ID, "submit"); ok {
		h.clicked = true
	}
	return h
}

// FormField renders a labeled wrapper around one input; fn produces the
// input it labels.
func (b *Builder) FormField(label string, fn func(*Builder), opts ...Option) *Element {
	return b.container(KindFormField, Props{{Name: "label", Value: label}}, opts, fn)
}

// ==================== navigation ====================

// Breadcrumb renders a trail of location labels.
func (b *Builder) Breadcrumb(items []string, opts ...Option) *Element {
	return b.emit(KindBreadcrumb, "", Props{{Name: "items", Value: items}}, opts)
}

// Tabs renders a tab strip. Active is the selected tab label; the handle's
// Value resolves to the tab the client picked when a change is pending.
func (b *Builder) Tabs(labels []string, active string, opts ...Option) *Handle {
	el := b.emit(KindTabs, active, Props{{Name: "tabs", Value: labels}}, opts)
	advertise(el, "change")
	return b.inputHandle(el, active)
}

// Pagination renders a page selector for pages 1..pages. The handle's Value
// is the picked page number as a string when a change is pending.
func (b *Builder) Pagination(page, pages int, opts ...Option) *Handle {
	el := b.emit(KindPagination, strconv.Itoa(page), Props{
		{Name: "page", Value: page},
		{Name: "pages", Value: pages},
	}, opts)
	advertise(el, "change")
	return b.inputHandle(el, el.Text)
}

// ==================== layout containers ====================

// Container renders a plain block container; fn produces its children.
func (b *Builder) Container(fn func(*Builder), opts ...Option) *Element {
	return b.container(KindContainer, nil, opts, fn)
}

// Flex renders a flexbox container.
func (b *Builder) Flex(direction, justify, align string, fn func(*Builder), opts ...Option) *Element {
	return b.container(KindFlex, Props{
		{Name: "direction", Value: direction},
		{Name: "justify", Value: justify},
		{Name: "align", Value: align},
	}, opts, fn)
}

// Grid renders a CSS grid container.
func (b *Builder) Grid(columns, rows, gap string, fn func(*Builder), opts ...Option) *Element {
	return b.container(KindGrid, Props{
		{Name: "columns", Value: columns},
		{Name: "rows", Value: rows},
		{Name: "gap", Value: gap},
	}, opts, fn)
}

// Card renders a titled card container.
func (b *Builder) Card(title, subtitle string, fn func(*Builder), opts ...Option) *Element {
	return b.container(KindCard, Props{
		{Name: "title", Value: title},
		{Name: "subtitle", Value: subtitle},
	}, opts, fn)
}

// Sidebar renders the navigation rail of a page shell.
func (b *Builder) Sidebar(fn func(*Builder), opts ...Option) *Element {
	return b.container(KindSidebar, nil, opts, fn)
}

// Header renders the top bar of a page shell.
func (b *Builder) Header(fn func(*Builder), opts ...Option) *Element {
	return b.container(KindHeader, nil, opts, fn)
}

// Footer renders the bottom bar of a page shell.
func (b *Builder) Footer(fn func(*Builder), opts ...Option) *Element {
	return b.container(KindFooter, nil, opts, fn)
}

// Modal renders a dialog; fn produces its body. A closed modal still renders
// so open/close diffs as a prop update, not a subtree swap.
func (b *Builder) Modal(title string, open bool, fn func(*Builder), opts ...Option) *Element {
	return b.container(KindModal, Props{
		{Name: "title", Value: title},
		{Name: "open", Value: open},
	}, opts, fn)
}

// Dropdown renders a labeled disclosure container; fn produces its items.
func (b *Builder) Dropdown(label string, fn func(*Builder), opts ...Option) *Element {
	return b.container(KindDropdown, Props{{Name: "label", Value: label}}, opts, fn)
}

// LoadingSpinner renders an indeterminate activity indicator. Size is a CSS
// length, passed through untouched.
func (b *Builder) LoadingSpinner(size string, opts ...Option) *Element {
	return b.emit(KindSpinner, "", Props{{Name: "size", Value: size}}, opts)
}

// StatsCard renders a single statistic with a caption.
func (b *Builder) StatsCard(title string, value any, opts ...Option) *Element {
	return b.emit(KindStatsCard, "", Props{
		{Name: "title", Value: title},
		{Name: "value", Value: value},
	}, opts)
}

// ==================== data ====================

// Table renders tabular data. Columns are header labels; each row must have
// len(columns) cells. Rows get positional identity unless the caller keys
// the table itself.
func (b *Builder) Table(columns []string, rows [][]any, opts ...Option) *Element {
	return b.emit(KindTable, "", Props{
		{Name: "columns", Value: columns},
		{Name: "rows", Value: rows},
	}, opts)
}

// ChartPoint is one datum in a chart series.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// LineChart renders a line chart of the given series.
func (b *Builder) LineChart(series []ChartPoint, opts ...Option) *Element {
	return b.emit(KindLineChart, "", Props{{Name: "series", Value: series}}, opts)
}

// BarChart renders a bar chart of the given series.
func (b *Builder) BarChart(series []ChartPoint, opts ...Option) *Element {
	return b.emit(KindBarChart, "", Props{{Name: "series", Value: series}}, opts)
}

// PieChart renders a pie chart of the given series.
func (b *Builder) PieChart(series []ChartPoint, opts ...Option) *Element {
	return b.emit(KindPieChart, "", Props{{Name: "series", Value: series}}, opts)
}
