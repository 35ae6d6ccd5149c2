// Package web serves the practice picker page and a small JSON API on top
// of an app.Session.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/bft-labs/practicepicker/internal/app"
	"github.com/bft-labs/practicepicker/internal/domain"
	"github.com/bft-labs/practicepicker/pkg/log"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"yesno": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
}).ParseFS(templateFS, "templates/index.html"))

// Message is a one-shot banner shown on the next page render.
type Message struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type pageData struct {
	Backend    string
	Category   string
	Categories []string
	Routines   []domain.Routine
	Drawn      *domain.Routine
	Selected   *domain.Routine
	Messages   []Message
}

// Server renders the page for one session. The form handlers follow
// post/redirect/get; outcomes are queued as flash messages.
type Server struct {
	session *app.Session
	logger  log.Logger
	mux     *http.ServeMux

	mu      sync.Mutex
	flashes []Message
}

// NewServer builds the handler tree. extra handlers (for example /metrics)
// are mounted as given.
func NewServer(session *app.Session, logger log.Logger, extra map[string]http.Handler) *Server {
	s := &Server{session: session, logger: logger, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /draw", s.handleDraw)
	s.mux.HandleFunc("POST /done", s.handleDone)
	s.mux.HandleFunc("POST /reset", s.handleReset)
	s.mux.HandleFunc("POST /routines", s.handleCreate)
	s.mux.HandleFunc("POST /routines/{id}", s.handleEdit)

	s.mux.HandleFunc("GET /api/routines", s.handleAPIRoutines)
	s.mux.HandleFunc("GET /api/categories", s.handleAPICategories)
	s.mux.HandleFunc("POST /api/draw", s.handleAPIDraw)

	for pattern, h := range extra {
		s.mux.Handle(pattern, h)
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if raw := q.Get("edit"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			s.session.Select(id)
		}
	}

	routines := s.session.List()
	if _, ok := s.session.Selected(); !ok && len(routines) > 0 {
		s.session.Select(routines[0].ID)
	}

	data := pageData{
		Backend:    s.session.Backend(),
		Category:   q.Get("category"),
		Categories: s.session.Categories(),
		Routines:   routines,
		Messages:   s.drainMessages(),
	}
	if data.Category == "" {
		data.Category = domain.AllCategories
	}
	if d, ok := s.session.Drawn(); ok {
		data.Drawn = &d
	}
	if sel, ok := s.session.Selected(); ok {
		data.Selected = &sel
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render page", log.Err(err))
	}
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	category := formCategory(r)
	if picked, ok := s.session.DrawRandom(category); ok {
		s.flash("success", "You should practice: "+picked.Name+" ("+picked.Category+")")
	} else {
		s.flash("warning", "No available routines in this category. Try resetting done flags or adding more.")
	}
	redirectHome(w, r, category)
}

func (s *Server) handleDone(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	s.session.MarkDone(r.Context(), id, r.FormValue("done") == "true")
	redirectHome(w, r, formCategory(r))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.ResetDone(r.Context())
	s.flash("success", "All routines marked as not done.")
	redirectHome(w, r, formCategory(r))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	_, err := s.session.Create(r.Context(), routineInput(r))
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		s.flash("error", "Name is required.")
	case err != nil:
		s.flash("error", err.Error())
	default:
		s.flash("success", "Routine added.")
	}
	redirectHome(w, r, "")
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if r.FormValue("action") == "delete" {
		s.session.Delete(r.Context(), id)
		s.flash("warning", "Routine deleted.")
		redirectHome(w, r, "")
		return
	}

	ok, err := s.session.Update(r.Context(), id, routineInput(r))
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		s.flash("error", "Name is required.")
	case err != nil:
		s.flash("error", err.Error())
	case ok:
		s.flash("success", "Routine updated.")
	}
	redirectHome(w, r, "")
}

func (s *Server) handleAPIRoutines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.List())
}

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Categories())
}

func (s *Server) handleAPIDraw(w http.ResponseWriter, r *http.Request) {
	picked, ok := s.session.DrawRandom(formCategory(r))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no eligible routines"})
		return
	}
	writeJSON(w, http.StatusOK, picked)
}

func (s *Server) flash(level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashes = append(s.flashes, Message{Level: level, Message: msg})
}

// drainMessages returns queued flashes followed by session notices.
func (s *Server) drainMessages() []Message {
	s.mu.Lock()
	out := s.flashes
	s.flashes = nil
	s.mu.Unlock()

	for _, n := range s.session.Notices() {
		out = append(out, Message{Level: string(n.Level), Message: n.Message})
	}
	return out
}

func formCategory(r *http.Request) string {
	c := r.FormValue("category")
	if c == "" {
		return domain.AllCategories
	}
	return c
}

func routineInput(r *http.Request) domain.RoutineInput {
	return domain.RoutineInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		InDraw:      r.FormValue("in_draw") != "",
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request, category string) {
	target := "/"
	if category != "" && category != domain.AllCategories {
		target += "?category=" + url.QueryEscape(category)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
