package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"

	"mediascope/internal/pipeline"
	"mediascope/internal/summary"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// maxUploadBytes caps uploaded CSV size at 32 MiB.
const maxUploadBytes = 32 << 20

// Server is the HTTP server for the upload form and dashboard pages.
type Server struct {
	pipe  *pipeline.Pipeline
	store *Store
	pages map[string]*template.Template
	mux   *http.ServeMux
}

// New creates a new Server around a pipeline.
func New(pipe *pipeline.Pipeline) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown":  renderMarkdown,
		"chartdata": chartData,
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"upload.html", "dashboard.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{pipe: pipe, store: NewStore(), pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Routes
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/upload", s.handleUpload)
	s.mux.HandleFunc("/dashboard/", s.handleDashboard)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.render(w, "upload.html", map[string]any{
		"Analyses": s.store.All(),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.renderUploadError(w, "No CSV file was uploaded.")
		return
	}
	defer file.Close()

	a, err := s.pipe.Run(r.Context(), header.Filename, file)
	if err != nil {
		// Fatal to this upload: malformed CSV or missing columns. No partial
		// dashboard is produced; the server stays up for the next attempt.
		log.Printf("Upload %s rejected: %v", header.Filename, err)
		s.renderUploadError(w, fmt.Sprintf("Could not process %s: %v", header.Filename, err))
		return
	}

	s.store.Put(a)
	http.Redirect(w, r, "/dashboard/"+a.ID, http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/dashboard/")
	if id == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	a := s.store.Get(id)
	if a == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	s.render(w, "dashboard.html", map[string]any{
		"Analysis": a,
	})
}

func (s *Server) renderUploadError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	s.render(w, "upload.html", map[string]any{
		"Error":    msg,
		"Analyses": s.store.All(),
	})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve starts the HTTP server on the given port.
func Serve(pipe *pipeline.Pipeline, port int) error {
	srv, err := New(pipe)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}

// chartData serializes a view's rows as {labels, values} JSON for the
// client-side chart renderer.
func chartData(v summary.View) (template.JS, error) {
	labels := make([]string, len(v.Rows))
	values := make([]int64, len(v.Rows))
	for i, row := range v.Rows {
		labels[i] = row.Label
		values[i] = row.Value
	}
	data, err := json.Marshal(map[string]any{"labels": labels, "values": values})
	if err != nil {
		return "", err
	}
	return template.JS(data), nil //nolint: gosec
}
