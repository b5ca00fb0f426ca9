package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"
)

//go:embed templates/*.html
var EmbeddedTemplatesFS embed.FS

// pageTemplates are the pages rendered through the base layout
var pageTemplates = []string{"index", "detail", "error"}

var templateFuncs = template.FuncMap{
	"pathEscape": url.PathEscape,
}

// parseEmbeddedTemplates parses every page together with the base layout.
// Each page gets its own set so the "content" blocks do not collide.
func parseEmbeddedTemplates() (map[string]*template.Template, error) {
	tmpls := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(EmbeddedTemplatesFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		tmpls[name] = tmpl
	}
	return tmpls, nil
}

// lookupTemplate returns the parsed set for a page. In dev mode the files
// are read from disk each time so edits show up without a restart.
func (s *WebServer) lookupTemplate(name string) (*template.Template, error) {
	if s.templates != nil {
		tmpl, ok := s.templates[name]
		if !ok {
			return nil, fmt.Errorf("unknown template %q", name)
		}
		return tmpl, nil
	}
	dir := s.Config.TemplateDir
	return template.New(name).Funcs(templateFuncs).ParseFiles(
		filepath.Join(dir, "base.html"),
		filepath.Join(dir, name+".html"),
	)
}
