package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"burst-backend/internal/feed"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"gitlab.com/golang-commonmark/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

// Raw HTML in bodies is escaped, links are made clickable
var md = markdown.New(markdown.HTML(false), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

// Markdown renders a content body to HTML
func Markdown(src string) template.HTML {
	return template.HTML(md.RenderToString([]byte(src)))
}

var funcs = template.FuncMap{
	"markdown": Markdown,
	"excerpt": func(body string, n int) string {
		return feed.Truncate(feed.StripHTML(string(Markdown(body))), n)
	},
	"date": func(t time.Time) string {
		return t.Format("2 Jan 2006")
	},
	"datePtr": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2 Jan 2006")
	},
	"upper": strings.ToUpper,
}

// Renderer holds one template set per page, each sharing the base layout
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	base, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := path.Base(file)
		if name == "base.html" {
			continue
		}
		page, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := page.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		r.pages[name] = page
	}
	return r, nil
}

// HTML writes the named page inside the base layout
func (r *Renderer) HTML(c *gin.Context, status int, name string, data gin.H) {
	page, ok := r.pages[name]
	if !ok {
		c.String(http.StatusInternalServerError, "unknown template %s", name)
		return
	}
	c.Render(status, render.HTML{Template: page, Name: "base", Data: data})
}
