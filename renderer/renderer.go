// Package renderer turns ledger views into Markdown documents.
//
// Views are rendered by text/template from the embedded templates folder. The
// resulting Markdown is printed as is, styled for a terminal, or converted to
// HTML by HTML.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/vendas"
	"github.com/etnz/vendas/date"
)

//go:embed templates/*.md
var templates embed.FS

// NotesWidth is the number of characters of notes shown in tables.
const NotesWidth = 30

var funcs = template.FuncMap{
	"money":    vendas.FormatAmount,
	"date":     date.Display,
	"truncate": func(s string) string { return truncate(s, NotesWidth) },
	"cell":     cell,
	"kind":     kindLabel,
	"status":   statusLabel,
	"inc":      func(i int) int { return i + 1 },
}

// RenderDashboard renders the home page figures.
func RenderDashboard(d *Dashboard) string {
	partials := map[string]string{
		"stats":         "stats.md",
		"history_table": "history_table.md",
	}
	return renderTemplate("dashboard", "dashboard.md", partials, d)
}

// RenderClients renders the client list with balances.
func RenderClients(c *ClientList) string {
	return renderTemplate("clients", "clients.md", nil, c)
}

// RenderStock renders the stock list.
func RenderStock(s *StockList) string {
	return renderTemplate("stock", "stock.md", nil, s)
}

// RenderHistory renders every transaction, most recent first.
func RenderHistory(h *History) string {
	partials := map[string]string{
		"history_table": "history_table.md",
	}
	return renderTemplate("history", "history.md", partials, h)
}

// RenderReport renders the rankings.
func RenderReport(r *Report) string {
	partials := map[string]string{
		"stats": "stats.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// cell escapes text for a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func kindLabel(k vendas.EntryKind) string {
	switch k {
	case vendas.SaleEntry:
		return "Venda"
	case vendas.PaymentEntry:
		return "Pagamento"
	}
	return string(k)
}

func statusLabel(s vendas.Status) string {
	switch s {
	case vendas.Owing:
		return "Devendo"
	case vendas.Settled:
		return "Em dia"
	}
	return string(s)
}
