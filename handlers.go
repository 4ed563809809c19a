package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sort"

	"fpl-scatter/templates"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	dataset *Dataset
	cfg     *Config
	logger  *slog.Logger
}

func NewServer(dataset *Dataset, cfg *Config) *Server {
	return &Server{
		dataset: dataset,
		cfg:     cfg,
		logger:  slog.With(slog.String("service", "http")),
	}
}

func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Get("/", s.dashboardHandler)
	r.Get("/plot.png", s.plotHandler)
	r.Get("/api/players", s.playersHandler)
	r.Post("/refresh", s.refreshHandler)

	return r
}

func (s *Server) defaultSelection() Selection {
	return NewSelection(s.cfg.Plot.X, s.cfg.Plot.Y)
}

// selection loads the table and reads a validated selection from the query.
// On failure it has already written the error response.
func (s *Server) selection(w http.ResponseWriter, r *http.Request) (*Table, Selection, bool) {
	t, err := s.dataset.Table(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusBadGateway, "Could not load FPL data", err)
		return nil, Selection{}, false
	}

	sel, err := ParseSelection(r.URL.Query(), s.defaultSelection())
	if err == nil {
		err = sel.Validate(t)
	}
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, "Bad plot settings", err)
		return nil, Selection{}, false
	}
	return t, sel, true
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	t, sel, ok := s.selection(w, r)
	if !ok {
		return
	}

	numeric := t.NumericColumns()
	data := templates.DashboardData{
		XOptions:  options(numeric, sel.X),
		YOptions:  options(numeric, sel.Y),
		PlotURL:   "/plot.png?" + sel.Query().Encode(),
		Current:   hiddenFields(sel.Query()),
		Rows:      len(sel.Visible(t)),
		Issues:    len(t.Issues),
		FetchedAt: s.dataset.FetchedAt(),
	}
	for _, p := range t.Positions() {
		data.Positions = append(data.Positions, templates.Option{
			Value:    string(p),
			Label:    string(p),
			Selected: sel.Includes(p),
		})
	}
	if data.Rows == 0 {
		data.Message = "No players match the selected positions."
	}

	templ.Handler(templates.Dashboard(data)).ServeHTTP(w, r)
}

func (s *Server) plotHandler(w http.ResponseWriter, r *http.Request) {
	t, sel, ok := s.selection(w, r)
	if !ok {
		return
	}

	fig, err := BuildFigure(t, sel, s.cfg.Plot.Width, s.cfg.Plot.Height)
	if errors.Is(err, ErrNoPoints) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, "Bad plot settings", err)
		return
	}

	var buf bytes.Buffer
	if err := fig.Render(&buf); err != nil {
		s.fail(w, r, http.StatusInternalServerError, "Could not draw plot", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

type PlayerPoint struct {
	WebName  string   `json:"web_name"`
	Team     string   `json:"team"`
	Position Position `json:"position"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
}

type PlayersResponse struct {
	X       string        `json:"x"`
	Y       string        `json:"y"`
	Players []PlayerPoint `json:"players"`
}

func (s *Server) playersHandler(w http.ResponseWriter, r *http.Request) {
	t, sel, ok := s.selection(w, r)
	if !ok {
		return
	}

	resp := PlayersResponse{X: sel.X, Y: sel.Y, Players: []PlayerPoint{}}
	for _, rec := range sel.Visible(t) {
		p := PlayerPoint{WebName: rec.WebName, Team: rec.TeamName, Position: rec.Position}
		if x, ok := t.Number(rec, sel.X); ok {
			p.X = &x
		}
		if y, ok := t.Number(rec, sel.Y); ok {
			p.Y = &y
		}
		resp.Players = append(resp.Players, p)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.dataset.Refresh(r.Context()); err != nil {
		s.fail(w, r, http.StatusBadGateway, "Could not refresh FPL data", err)
		return
	}
	http.Redirect(w, r, s.dashboardURL(r), http.StatusSeeOther)
}

// dashboardURL points back at the dashboard with the selection posted by the
// refresh form. Without one, or with an unreadable one, it is "/".
func (s *Server) dashboardURL(r *http.Request) string {
	if err := r.ParseForm(); err != nil || len(r.PostForm) == 0 {
		return "/"
	}
	sel, err := ParseSelection(r.PostForm, s.defaultSelection())
	if err != nil {
		return "/"
	}
	return "/?" + sel.Query().Encode()
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, title string, err error) {
	s.logger.Error(title,
		slog.Int("status", status),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))

	page := templates.ErrorPage(templates.ErrorPageData{Status: status, Title: title, Message: err.Error()})
	templ.Handler(page, templ.WithStatus(status)).ServeHTTP(w, r)
}

func hiddenFields(q url.Values) []templates.Hidden {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []templates.Hidden
	for _, k := range keys {
		for _, v := range q[k] {
			out = append(out, templates.Hidden{Name: k, Value: v})
		}
	}
	return out
}

func options(values []string, selected string) []templates.Option {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	out := make([]templates.Option, len(sorted))
	for i, v := range sorted {
		out[i] = templates.Option{Value: v, Label: v, Selected: v == selected}
	}
	return out
}
