package server

import (
	"fmt"
	"html"
	"strings"

	"github.com/yoguido/yoguido/internal/ui"
)

// MarkupRenderer turns a component tree into the HTML of the initial page.
// The client script replaces this markup with its own rendering on takeover;
// it exists so the first paint needs no JavaScript.
type MarkupRenderer interface {
	RenderTree(tree *ui.Element) string
}

// HTMLRenderer is the default MarkupRenderer.
type HTMLRenderer struct{}

// RenderTree renders the tree as HTML. All text and attribute values are
// escaped; class and style props pass through as opaque strings.
func (HTMLRenderer) RenderTree(tree *ui.Element) string {
	var b strings.Builder
	renderElement(&b, tree)
	return b.String()
}

func renderElement(b *strings.Builder, el *ui.Element) {
	if el == nil {
		return
	}

	tag, void := tagFor(el)
	b.WriteByte('<')
	b.WriteString(tag)
	writeAttrs(b, el)
	b.WriteByte('>')
	if void {
		return
	}

	writeContent(b, el)
	for _, c := range el.Children {
		renderElement(b, c)
	}

	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

// tagFor maps an element kind to its HTML tag. void reports tags with no
// closing form.
func tagFor(el *ui.Element) (tag string, void bool) {
	switch el.Kind {
	case ui.KindTitle:
		level := propInt(el, "level", 1)
		if level < 1 || level > 6 {
			level = 1
		}
		return fmt.Sprintf("h%d", level), false
	case ui.KindText:
		return "p", false
	case ui.KindIcon, ui.KindBadge:
		return "span", false
	case ui.KindButton:
		return "button", false
	case ui.KindInputText, ui.KindInputNumber, ui.KindCheckbox, ui.KindSlider:
		return "input", true
	case ui.KindSelect:
		return "select", false
	case ui.KindTextarea:
		return "textarea", false
	case ui.KindCard, ui.KindStatsCard:
		return "section", false
	case ui.KindTable:
		return "table", false
	case ui.KindProgress:
		return "progress", false
	case ui.KindSeparator:
		return "hr", true
	case ui.KindDatePicker, ui.KindFileUpload:
		return "input", true
	case ui.KindRadioGroup:
		return "fieldset", false
	case ui.KindForm:
		return "form", false
	case ui.KindFormField:
		return "label", false
	case ui.KindBreadcrumb, ui.KindTabs, ui.KindPagination:
		return "nav", false
	case ui.KindSidebar:
		return "aside", false
	case ui.KindHeader:
		return "header", false
	case ui.KindFooter:
		return "footer", false
	case ui.KindModal:
		return "dialog", false
	default:
		return "div", false
	}
}

// writeAttrs emits the identity, event, and kind-specific attributes.
func writeAttrs(b *strings.Builder, el *ui.Element) {
	attr(b, "data-yg-id", el.ID)
	if len(el.Events) > 0 {
		attr(b, "data-yg-events", strings.Join(el.Events, ","))
	}

	class := "yg-" + string(el.Kind)
	if v, ok := el.Props.Get("class"); ok {
		if s, ok := v.(string); ok && s != "" {
			class += " " + s
		}
	}
	attr(b, "class", class)

	if v, ok := el.Props.Get("style"); ok {
		if s, ok := v.(string); ok && s != "" {
			attr(b, "style", s)
		}
	}

	switch el.Kind {
	case ui.KindInputText:
		attr(b, "type", "text")
		attr(b, "value", el.Text)
		attr(b, "placeholder", propString(el, "placeholder"))
	case ui.KindInputNumber:
		attr(b, "type", "number")
		attr(b, "value", el.Text)
		attr(b, "placeholder", propString(el, "placeholder"))
	case ui.KindCheckbox:
		attr(b, "type", "checkbox")
		if v, ok := el.Props.Get("checked"); ok {
			if checked, ok := v.(bool); ok && checked {
				b.WriteString(" checked")
			}
		}
	case ui.KindSlider:
		attr(b, "type", "range")
		attr(b, "value", el.Text)
	case ui.KindProgress:
		attr(b, "value", fmt.Sprintf("%v", propValue(el, "value")))
		attr(b, "max", fmt.Sprintf("%v", propValue(el, "max")))
	case ui.KindAlert:
		attr(b, "role", "alert")
	case ui.KindDatePicker:
		attr(b, "type", "date")
		attr(b, "value", el.Text)
	case ui.KindFileUpload:
		attr(b, "type", "file")
		if accept := propString(el, "accept"); accept != "" {
			attr(b, "accept", accept)
		}
	case ui.KindModal:
		if v, ok := el.Props.Get("open"); ok {
			if open, ok := v.(bool); ok && open {
				b.WriteString(" open")
			}
		}
	}
}

// writeContent emits the element's own text or kind-specific inner markup,
// before any children.
func writeContent(b *strings.Builder, el *ui.Element) {
	switch el.Kind {
	case ui.KindSelect:
		writeSelectOptions(b, el)
	case ui.KindTable:
		writeTable(b, el)
	case ui.KindRadioGroup:
		writeRadioGroup(b, el)
	case ui.KindBreadcrumb:
		if items, ok := propValue(el, "items").([]string); ok {
			b.WriteString("<ol>")
			for _, item := range items {
				b.WriteString("<li>")
				b.WriteString(html.EscapeString(item))
				b.WriteString("</li>")
			}
			b.WriteString("</ol>")
		}
	case ui.KindTabs:
		if labels, ok := propValue(el, "tabs").([]string); ok {
			for _, label := range labels {
				class := "yg-tab"
				if label == el.Text {
					class += " active"
				}
				b.WriteString(`<button type="button"`)
				attr(b, "class", class)
				b.WriteByte('>')
				b.WriteString(html.EscapeString(label))
				b.WriteString("</button>")
			}
		}
	case ui.KindPagination:
		page := propInt(el, "page", 1)
		pages := propInt(el, "pages", 1)
		for p := 1; p <= pages; p++ {
			class := "yg-page"
			if p == page {
				class += " active"
			}
			b.WriteString(`<button type="button"`)
			attr(b, "class", class)
			b.WriteByte('>')
			fmt.Fprintf(b, "%d", p)
			b.WriteString("</button>")
		}
	case ui.KindFormField:
		if label := propString(el, "label"); label != "" {
			b.WriteString(`<span class="yg-field-label">`)
			b.WriteString(html.EscapeString(label))
			b.WriteString("</span>")
		}
	case ui.KindDropdown:
		if label := propString(el, "label"); label != "" {
			b.WriteString(`<span class="yg-dropdown-label">`)
			b.WriteString(html.EscapeString(label))
			b.WriteString("</span>")
		}
	case ui.KindModal:
		if title := propString(el, "title"); title != "" {
			b.WriteString("<header><h3>")
			b.WriteString(html.EscapeString(title))
			b.WriteString("</h3></header>")
		}
	case ui.KindCard:
		if title := propString(el, "title"); title != "" {
			b.WriteString("<header><h3>")
			b.WriteString(html.EscapeString(title))
			b.WriteString("</h3></header>")
		}
		b.WriteString(html.EscapeString(el.Text))
	case ui.KindStatsCard:
		b.WriteString("<span class=\"yg-stats-title\">")
		b.WriteString(html.EscapeString(propString(el, "title")))
		b.WriteString("</span><span class=\"yg-stats-value\">")
		b.WriteString(html.EscapeString(fmt.Sprintf("%v", propValue(el, "value"))))
		b.WriteString("</span>")
	default:
		b.WriteString(html.EscapeString(el.Text))
	}
}

func writeSelectOptions(b *strings.Builder, el *ui.Element) {
	opts, ok := propValue(el, "options").([]ui.SelectOption)
	if !ok {
		return
	}
	for _, o := range opts {
		b.WriteString("<option")
		attr(b, "value", o.Value)
		if o.Value == el.Text {
			b.WriteString(" selected")
		}
		b.WriteByte('>')
		b.WriteString(html.EscapeString(o.Label))
		b.WriteString("</option>")
	}
}

func writeRadioGroup(b *strings.Builder, el *ui.Element) {
	opts, ok := propValue(el, "options").([]ui.SelectOption)
	if !ok {
		return
	}
	for _, o := range opts {
		b.WriteString("<label><input type=\"radio\"")
		attr(b, "name", el.ID)
		attr(b, "value", o.Value)
		if o.Value == el.Text {
			b.WriteString(" checked")
		}
		b.WriteByte('>')
		b.WriteString(html.EscapeString(o.Label))
		b.WriteString("</label>")
	}
}

func writeTable(b *strings.Builder, el *ui.Element) {
	if cols, ok := propValue(el, "columns").([]string); ok {
		b.WriteString("<thead><tr>")
		for _, c := range cols {
			b.WriteString("<th>")
			b.WriteString(html.EscapeString(c))
			b.WriteString("</th>")
		}
		b.WriteString("</tr></thead>")
	}
	if rows, ok := propValue(el, "rows").([][]any); ok {
		b.WriteString("<tbody>")
		for _, row := range rows {
			b.WriteString("<tr>")
			for _, cell := range row {
				b.WriteString("<td>")
				b.WriteString(html.EscapeString(fmt.Sprintf("%v", cell)))
				b.WriteString("</td>")
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody>")
	}
}

func attr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteByte('"')
}

func propString(el *ui.Element, name string) string {
	if v, ok := el.Props.Get(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func propInt(el *ui.Element, name string, fallback int) int {
	v, _ := el.Props.Get(name)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return fallback
}

func propValue(el *ui.Element, name string) any {
	v, _ := el.Props.Get(name)
	return v
}
