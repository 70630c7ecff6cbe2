package httpkit

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
)

// Router serves HTML pages rendered from a template directory and static
// assets from a static directory, with the security and cache headers
// applied uniformly. Page data comes from an optional per-request hook.
type Router struct {
	mux       *http.ServeMux
	templates *template.Template
	pageData  func(r *http.Request) any
}

// NewRouter parses every .html template under templateDir and mounts static
// file serving at /static/ from staticDir (skipped when empty).
func NewRouter(templateDir, staticDir string) (*Router, error) {
	tmpl, err := template.ParseGlob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	r := &Router{
		mux:       http.NewServeMux(),
		templates: tmpl,
	}
	if staticDir != "" {
		fs := http.FileServer(http.Dir(staticDir))
		r.mux.Handle("/static/", http.StripPrefix("/static/", fs))
	}
	r.mux.HandleFunc("/", r.servePage)
	return r, nil
}

// NewAPIRouter builds a router with no page templates. Only explicitly
// mounted handlers are served; everything else 404s.
func NewAPIRouter() *Router {
	return &Router{mux: http.NewServeMux()}
}

// SetPageData installs a hook that produces the data passed to each page
// template.
func (r *Router) SetPageData(fn func(*http.Request) any) { r.pageData = fn }

// Handle mounts an additional handler on the router's mux.
func (r *Router) Handle(pattern string, h http.Handler) { r.mux.Handle(pattern, h) }

// HandleFunc mounts an additional handler function on the router's mux.
func (r *Router) HandleFunc(pattern string, h http.HandlerFunc) { r.mux.HandleFunc(pattern, h) }

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	SecurityHeaders(w)
	r.mux.ServeHTTP(w, req)
}

// servePage maps a request path to a template name: "/" renders index.html,
// "/about" renders about.html. Unknown pages 404.
func (r *Router) servePage(w http.ResponseWriter, req *http.Request) {
	name := strings.Trim(req.URL.Path, "/")
	if name == "" {
		name = "index"
	}
	if strings.Contains(name, "/") {
		http.NotFound(w, req)
		return
	}
	name += ".html"
	if r.templates.Lookup(name) == nil {
		http.NotFound(w, req)
		return
	}

	var data any
	if r.pageData != nil {
		data = r.pageData(req)
	}
	NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
