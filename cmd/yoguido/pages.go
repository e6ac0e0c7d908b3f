package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yoguido/yoguido/internal/router"
	"github.com/yoguido/yoguido/internal/ui"
)

// demo user directory rendered on the users page.
var demoUsers = [][]any{
	{"ada", "Ada Lovelace", "admin"},
	{"grace", "Grace Hopper", "admin"},
	{"linus", "Linus Pauling", "viewer"},
	{"rosalind", "Rosalind Franklin", "editor"},
}

func registerPages(routes *router.Registry) error {
	if err := routes.RegisterLayout("admin", adminLayout); err != nil {
		return err
	}
	for _, page := range []router.Page{
		{Path: "/", Title: "Dashboard", Layout: "admin", Component: dashboardPage},
		{Path: "/users", Title: "Users", Layout: "admin", Component: usersPage},
	} {
		if err := routes.Register(page); err != nil {
			return err
		}
	}
	return nil
}

// adminLayout renders the sidebar shell shared by every page.
func adminLayout(b *ui.Builder, ctx *router.Context, content func(*ui.Builder)) {
	b.Flex("row", "start", "stretch", func(b *ui.Builder) {
		b.Container(func(b *ui.Builder) {
			b.Title("YoGuido", 3)
			navLink(b, ctx, "Dashboard", "/")
			navLink(b, ctx, "Users", "/users")
		}, ui.WithClass("sidebar"))

		b.Container(content, ui.WithClass("content"))
	}, ui.WithClass("shell"))
}

func navLink(b *ui.Builder, ctx *router.Context, label, path string) {
	class := "nav-link"
	if ctx.IsCurrentPage(path) {
		class += " active"
	}
	b.Button(label,
		ui.WithKey(path),
		ui.WithClass(class),
		ui.OnClick(func(ui.Payload) { ctx.NavigateTo(path) }),
	)
}

// dashboardPage is the counter demo: one handler writes state, the engine
// patches exactly the text that reads it.
func dashboardPage(b *ui.Builder, ctx *router.Context) {
	counter := ctx.Use("dashboard.counter", "", map[string]any{"count": 0})

	b.Title("Dashboard", 1)

	b.Grid("repeat(3, 1fr)", "auto", "1rem", func(b *ui.Builder) {
		b.StatsCard("Clicks", counter.Int("count"))
		b.StatsCard("Sessions", 1)
		b.StatsCard("Uptime", "ok")
	})

	b.Card("Counter", "Server-side state, patched in place", func(b *ui.Builder) {
		b.Text(fmt.Sprintf("Count: %d", counter.Int("count")))
		b.Button("Increment", ui.OnClick(func(ui.Payload) {
			counter.Inc("count", 1)
		}))
		b.Button("Reset", ui.OnClick(func(ui.Payload) {
			counter.Set("count", 0)
			ctx.Notify("info", "Counter reset")
		}))
	})

	b.Card("Activity", "", func(b *ui.Builder) {
		b.BarChart([]ui.ChartPoint{
			{Label: "Mon", Value: 12},
			{Label: "Tue", Value: 19},
			{Label: "Wed", Value: 7},
			{Label: "Thu", Value: 23},
			{Label: "Fri", Value: 16},
		})
	})
}

// usersPage filters and paginates the demo directory with server-round-trip
// inputs.
func usersPage(b *ui.Builder, ctx *router.Context) {
	const pageSize = 2

	filter := ctx.Use("users.filter", "", map[string]any{"query": "", "page": 1})

	b.Breadcrumb([]string{"Home", "Users"})
	b.Title("Users", 1)

	b.InputText("Filter by name...", filter.String("query"),
		ui.OnChange(func(p ui.Payload) {
			filter.Set("query", p.String("value"))
			filter.Set("page", 1)
		}))

	query := strings.ToLower(filter.String("query"))
	var rows [][]any
	for _, u := range demoUsers {
		if query == "" || strings.Contains(strings.ToLower(u[1].(string)), query) {
			rows = append(rows, u)
		}
	}

	if len(rows) == 0 {
		b.Alert("No users match the filter.", "warning")
		return
	}

	pages := (len(rows) + pageSize - 1) / pageSize
	page := filter.Int("page")
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}

	b.Table([]string{"Login", "Name", "Role"}, rows[start:end])
	b.Text(fmt.Sprintf("%d of %d users", len(rows), len(demoUsers)))
	if pages > 1 {
		b.Pagination(page, pages, ui.OnChange(func(p ui.Payload) {
			if n, err := strconv.Atoi(p.String("value")); err == nil {
				filter.Set("page", n)
			}
		}))
	}
}
