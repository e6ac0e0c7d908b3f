package server

import (
	"strings"
	"testing"

	"github.com/yoguido/yoguido/internal/ui"
)

func TestRenderTreeEscapesText(t *testing.T) {
	tree := &ui.Element{
		ID:   ui.RootID,
		Kind: ui.KindRoot,
		Children: []*ui.Element{
			{ID: "root/text.0", Kind: ui.KindText, Text: `<script>alert("x")</script>`},
		},
	}

	out := HTMLRenderer{}.RenderTree(tree)
	if strings.Contains(out, "<script>") {
		t.Errorf("unescaped markup in output:\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("expected escaped text in output:\n%s", out)
	}
}

func TestRenderTreeTitleLevels(t *testing.T) {
	tree := &ui.Element{
		ID:   ui.RootID,
		Kind: ui.KindRoot,
		Children: []*ui.Element{
			{ID: "t", Kind: ui.KindTitle, Text: "Heading", Props: ui.Props{{Name: "level", Value: 2}}},
		},
	}

	out := HTMLRenderer{}.RenderTree(tree)
	if !strings.Contains(out, "<h2") || !strings.Contains(out, "</h2>") {
		t.Errorf("title did not render as h2:\n%s", out)
	}
}

func TestRenderTreeIdentityAttributes(t *testing.T) {
	tree := &ui.Element{
		ID:   ui.RootID,
		Kind: ui.KindRoot,
		Children: []*ui.Element{
			{
				ID:     "root/button.0",
				Kind:   ui.KindButton,
				Text:   "Go",
				Events: []string{"click"},
				Props:  ui.Props{{Name: "class", Value: "primary"}},
			},
		},
	}

	out := HTMLRenderer{}.RenderTree(tree)
	for _, want := range []string{
		`data-yg-id="root/button.0"`,
		`data-yg-events="click"`,
		`class="yg-button primary"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestRenderTreeTable(t *testing.T) {
	tree := &ui.Element{
		ID:   ui.RootID,
		Kind: ui.KindRoot,
		Children: []*ui.Element{
			{
				ID:   "tbl",
				Kind: ui.KindTable,
				Props: ui.Props{
					{Name: "columns", Value: []string{"Name", "Role"}},
					{Name: "rows", Value: [][]any{{"Ada", "admin"}}},
				},
			},
		},
	}

	out := HTMLRenderer{}.RenderTree(tree)
	for _, want := range []string{"<th>Name</th>", "<th>Role</th>", "<td>Ada</td>", "<td>admin</td>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestRenderTreeRadioGroup(t *testing.T) {
	tree := &ui.Element{
		ID:   ui.RootID,
		Kind: ui.KindRoot,
		Children: []*ui.Element{
			{
				ID:   "root/radio_group.0",
				Kind: ui.KindRadioGroup,
				Text: "editor",
				Props: ui.Props{
					{Name: "options", Value: []ui.SelectOption{
						{Label: "Admin", Value: "admin"},
						{Label: "Editor", Value: "editor"},
					}},
				},
			},
		},
	}

	out := HTMLRenderer{}.RenderTree(tree)
	if !strings.Contains(out, "<fieldset") {
		t.Errorf("radio group not rendered as fieldset:\n%s", out)
	}
	if !strings.Contains(out, `value="editor" checked`) {
		t.Errorf("selected option not checked:\n%s", out)
	}
	if !strings.Contains(out, `value="admin">Admin`) {
		t.Errorf("unselected option wrong:\n%s", out)
	}
}

func TestRenderTreeModalOpenAttribute(t *testing.T) {
	modal := func(open bool) *ui.Element {
		return &ui.Element{
			ID:   ui.RootID,
			Kind: ui.KindRoot,
			Children: []*ui.Element{
				{
					ID:   "m",
					Kind: ui.KindModal,
					Props: ui.Props{
						{Name: "title", Value: "Confirm"},
						{Name: "open", Value: open},
					},
				},
			},
		}
	}

	opened := HTMLRenderer{}.RenderTree(modal(true))
	if !strings.Contains(opened, "<dialog") || !strings.Contains(opened, " open>") {
		t.Errorf("open modal missing dialog open attribute:\n%s", opened)
	}
	closed := HTMLRenderer{}.RenderTree(modal(false))
	if strings.Contains(closed, " open>") {
		t.Errorf("closed modal carries open attribute:\n%s", closed)
	}
}

func TestRenderTreePagination(t *testing.T) {
	tree := &ui.Element{
		ID:   ui.RootID,
		Kind: ui.KindRoot,
		Children: []*ui.Element{
			{
				ID:   "p",
				Kind: ui.KindPagination,
				Text: "2",
				Props: ui.Props{
					{Name: "page", Value: 2},
					{Name: "pages", Value: 3},
				},
			},
		},
	}

	out := HTMLRenderer{}.RenderTree(tree)
	if !strings.Contains(out, `class="yg-page active">2</button>`) {
		t.Errorf("current page not marked active:\n%s", out)
	}
	if !strings.Contains(out, `class="yg-page">3</button>`) {
		t.Errorf("other pages missing:\n%s", out)
	}
}

func TestRenderTreeInputValue(t *testing.T) {
	tree := &ui.Element{
		ID:   ui.RootID,
		Kind: ui.KindRoot,
		Children: []*ui.Element{
			{
				ID:    "in",
				Kind:  ui.KindInputText,
				Text:  "typed",
				Props: ui.Props{{Name: "placeholder", Value: "Search"}},
			},
		},
	}

	out := HTMLRenderer{}.RenderTree(tree)
	if !strings.Contains(out, `value="typed"`) || !strings.Contains(out, `placeholder="Search"`) {
		t.Errorf("input attributes missing:\n%s", out)
	}
	if strings.Contains(out, "</input>") {
		t.Errorf("void element closed:\n%s", out)
	}
}
