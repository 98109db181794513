package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etnz/vendas"
	"github.com/etnz/vendas/renderer"
)

//go:embed templates/*.html
var templates embed.FS

var pageNames = []string{
	"dashboard", "stock", "stock_edit", "client_new", "client_edit", "clients",
	"sale", "payment", "history", "report", "error",
}

var funcs = template.FuncMap{
	"money": vendas.FormatAmount,
}

// parsePages parses every page together with the layout.
func parsePages() map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templates, "templates/layout.html", "templates/"+name+".html"))
	}
	return pages
}

// page is the data of every page.
type page struct {
	Title   string
	Stats   vendas.Dashboard
	Flash   flash
	Content template.HTML // rendered Markdown
	Form    any           // page specific data
}

type flash struct {
	Kind string // "success" or "danger"
	Msg  string
}

// readFlash reads the message carried by a redirect.
func readFlash(c *gin.Context) flash {
	f := flash{Kind: c.Query("kind"), Msg: c.Query("msg")}
	if f.Kind != "success" && f.Kind != "danger" {
		f.Kind = "info"
	}
	return f
}

// redirect sends the client to path with a flash message.
func redirect(c *gin.Context, path, kind, msg string) {
	q := url.Values{"kind": {kind}, "msg": {msg}}
	c.Redirect(http.StatusSeeOther, path+"?"+q.Encode())
}

// render writes a full page, with the stats header computed from snap and
// the flash message of the request.
func (s *Server) render(c *gin.Context, name, title string, snap *vendas.Snapshot, markdown string, form any) {
	s.renderStatus(c, http.StatusOK, readFlash(c), name, title, snap, markdown, form)
}

func (s *Server) renderStatus(c *gin.Context, status int, f flash, name, title string, snap *vendas.Snapshot, markdown string, form any) {
	p := page{
		Title: title,
		Stats: vendas.NewDashboard(snap),
		Flash: f,
		Form:  form,
	}
	if markdown != "" {
		html, err := renderer.HTML(markdown)
		if err != nil {
			s.logger.Error("could not convert markdown", zap.String("page", name), zap.Error(err))
		}
		p.Content = template.HTML(html)
	}

	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		s.logger.Error("could not render page", zap.String("page", name), zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// fail reports a ledger error: persistence failures are server errors, any
// other error goes back to the form with its message.
func (s *Server) fail(c *gin.Context, back string, err error) {
	if errors.Is(err, vendas.ErrPersistence) {
		s.logger.Error("ledger not saved", zap.String("path", c.Request.URL.Path), zap.Error(err))
		f := flash{Kind: "danger", Msg: "Erro ao salvar os dados: " + err.Error()}
		s.renderStatus(c, http.StatusInternalServerError, f, "error", "Erro", s.ledger.Snapshot(), "", nil)
		return
	}
	redirect(c, back, "danger", err.Error())
}
