// Package server exposes a gallery over HTTP: the computed layout and the
// culled visible set as JSON, and the exported page as HTML.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nikbrunner/gallery/internal/exporter"
	"github.com/nikbrunner/gallery/internal/gallery"
	"github.com/nikbrunner/gallery/internal/model"
	"github.com/nikbrunner/gallery/internal/scatter"
	"github.com/nikbrunner/gallery/internal/viewport"
)

// Config configures a Server.
type Config struct {
	Source gallery.Source
	Params scatter.Params
	Title  string
	Mode   gallery.Mode // page mode when ?mode is absent
	Logger *log.Logger
}

// Server serves one gallery.
type Server struct {
	cfg    Config
	logger *log.Logger
}

// New creates a Server. A zero Params uses scatter.DefaultParams.
func New(cfg Config) (*Server, error) {
	if cfg.Source == nil {
		return nil, errors.New("server: missing source")
	}
	if cfg.Params.Size <= 0 {
		cfg.Params = scatter.DefaultParams()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{cfg: cfg, logger: logger}, nil
}

// Handler returns the routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(withSecurityHeaders)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Get("/visible", s.handleVisible)
		r.Get("/paintings/{id}", s.handlePainting)
	})
	return r
}

// LayoutResponse is the body of GET /api/layout.
type LayoutResponse struct {
	Query    string             `json:"query,omitempty"`
	Total    int                `json:"total"`
	Filtered int                `json:"filtered"`
	Size     float64            `json:"size"`
	Cards    []model.PlacedCard `json:"cards"`
}

// VisibleResponse is the body of GET /api/visible.
type VisibleResponse struct {
	Offset viewport.Point     `json:"offset"`
	Status string             `json:"status"`
	Cards  []model.PlacedCard `json:"cards"`
}

type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) session(r *http.Request) ([]model.Painting, *gallery.Session, error) {
	paintings, err := s.cfg.Source.Paintings(r.Context())
	if err != nil {
		return nil, nil, err
	}
	sess := gallery.NewSession(model.Items(paintings), s.cfg.Params, gallery.ModeScatter)
	sess.SetQuery(r.URL.Query().Get("q"))
	return paintings, sess, nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, http.StatusBadGateway, "Failed to load paintings", err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		Query:    sess.Query(),
		Total:    len(sess.Items()),
		Filtered: len(sess.Filtered()),
		Size:     sess.Params().Size,
		Cards:    sess.Cards(),
	})
}

// handleVisible culls the layout for a w×h viewport. x and y are the pan
// offset as the viewport controller reports it; when absent the viewport is
// centered on the canvas.
func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vw, err1 := floatParam(q.Get("w"), 0)
	vh, err2 := floatParam(q.Get("h"), 0)
	if err := errors.Join(err1, err2); err != nil {
		s.fail(w, r, http.StatusBadRequest, "w and h must be numbers", err)
		return
	}

	size := s.cfg.Params.Size
	x, err1 := floatParam(q.Get("x"), -(size/2 - vw/2))
	y, err2 := floatParam(q.Get("y"), -(size/2 - vh/2))
	if err := errors.Join(err1, err2); err != nil {
		s.fail(w, r, http.StatusBadRequest, "x and y must be numbers", err)
		return
	}

	_, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, http.StatusBadGateway, "Failed to load paintings", err)
		return
	}

	offset := viewport.Point{X: x, Y: y}
	visible := sess.Visible(offset, vw, vh)
	writeJSON(w, http.StatusOK, VisibleResponse{
		Offset: offset,
		Status: sess.Status(len(visible)),
		Cards:  visible,
	})
}

func (s *Server) handlePainting(w http.ResponseWriter, r *http.Request) {
	paintings, err := s.cfg.Source.Paintings(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusBadGateway, "Failed to load paintings", err)
		return
	}
	id := chi.URLParam(r, "id")
	catalog := model.Catalog{Paintings: paintings}
	p := catalog.GetPaintingByID(id)
	if p == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found", Status: http.StatusNotFound})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data *model.Painting `json:"data"`
	}{p})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	paintings, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, http.StatusBadGateway, "Failed to load paintings", err)
		return
	}

	mode := s.cfg.Mode
	if m := r.URL.Query().Get("mode"); m != "" {
		mode = gallery.ParseMode(m)
	}

	// Export the filtered subset in catalog order.
	keep := make(map[string]bool, len(sess.Filtered()))
	for _, it := range sess.Filtered() {
		keep[it.ID] = true
	}
	catalog := model.NewCatalog()
	for _, p := range paintings {
		if keep[p.ID] {
			catalog.AddPainting(p)
		}
	}

	page := exporter.ExportHTML(catalog, exporter.Options{
		Title:   s.cfg.Title,
		Scatter: mode == gallery.ModeScatter,
		Params:  s.cfg.Params,
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, page)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	s.logger.Warn(msg, "path", r.URL.Path, "err", err)
	writeJSON(w, status, errorBody{Error: msg, Status: status})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start).Round(time.Microsecond),
		)
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func floatParam(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", raw)
	}
	return v, nil
}
