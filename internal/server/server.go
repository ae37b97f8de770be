// Package server exposes the two analytics pipelines over HTTP, mirroring
// the public surface of the lead intelligence API.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/intelligence"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/store"
)

// Version is reported by the root endpoint.
const Version = "2.0.0"

// MLRunner runs the lead intelligence pipeline.
type MLRunner interface {
	Run(ctx context.Context) (*model.MLReport, error)
}

// GeoRunner runs the geographical analysis pipeline.
type GeoRunner interface {
	Run(ctx context.Context) (*model.GeoReport, error)
}

// Server routes HTTP requests to the pipelines. Every request runs its
// pipeline synchronously against a fresh snapshot.
type Server struct {
	store  store.Store
	intel  MLRunner
	geo    GeoRunner
	router chi.Router
}

// New builds a Server with its route table.
func New(st store.Store, intel MLRunner, geo GeoRunner) *Server {
	s := &Server{store: st, intel: intel, geo: geo}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/score-all-leads", s.handleScoreAllLeads)
		r.Get("/summary", s.handleSummary)
		r.Get("/top-leads/{limit}", s.handleTopLeads)
		r.Get("/at-risk-leads", s.handleAtRiskLeads)
		r.Get("/recommendations", s.handleRecommendations)
		r.Post("/geographical-analysis", s.handleGeoAnalysis)
		r.Get("/countries", s.handleCountries)
		r.Get("/market-recommendations", s.handleMarketRecommendations)
	})

	s.router = r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"service": "Lead Intelligence API",
		"version": Version,
		"status":  "active",
		"features": map[string][]string{
			"ml_models": {
				"Lead Scoring", "Churn Risk Prediction",
				"Lead Segmentation", "Smart Recommendations",
			},
			"geographical_analysis": {
				"Country Performance", "Market Recommendations",
				"Market Concentration",
			},
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		zap.L().Error("server: health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC(),
			"error":     err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleScoreAllLeads(w http.ResponseWriter, r *http.Request) {
	report, err := s.intel.Run(r.Context())
	if err != nil {
		respondFailed(w, report.Error)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	report, err := s.intel.Run(r.Context())
	if err != nil {
		respondFailed(w, report.Error)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"summary":   report.Summary,
		"timestamp": report.Timestamp,
		"status":    report.Status,
	})
}

func (s *Server) handleTopLeads(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(chi.URLParam(r, "limit"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	// Reject out-of-contract limits before any computation runs.
	if _, err := intelligence.TopN(nil, limit); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, runErr := s.intel.Run(r.Context())
	if runErr != nil {
		respondFailed(w, report.Error)
		return
	}
	top, err := intelligence.TopN(report.TopLeads, limit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"top_leads": top,
		"count":     len(top),
		"timestamp": report.Timestamp,
		"status":    report.Status,
	})
}

func (s *Server) handleAtRiskLeads(w http.ResponseWriter, r *http.Request) {
	report, err := s.intel.Run(r.Context())
	if err != nil {
		respondFailed(w, report.Error)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"at_risk_leads": report.AtRiskLeads,
		"count":         len(report.AtRiskLeads),
		"timestamp":     report.Timestamp,
		"status":        report.Status,
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	report, err := s.intel.Run(r.Context())
	if err != nil {
		respondFailed(w, report.Error)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"recommendations": report.Recommendations,
		"count":           len(report.Recommendations),
		"timestamp":       report.Timestamp,
		"status":          report.Status,
	})
}

func (s *Server) handleGeoAnalysis(w http.ResponseWriter, r *http.Request) {
	report, err := s.geo.Run(r.Context())
	if err != nil {
		respondFailed(w, report.Error)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	report, err := s.geo.Run(r.Context())
	if err != nil {
		respondFailed(w, report.Error)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"country_analysis": report.CountryAnalysis,
		"timestamp":        report.Timestamp,
		"status":           report.Status,
	})
}

func (s *Server) handleMarketRecommendations(w http.ResponseWriter, r *http.Request) {
	report, err := s.geo.Run(r.Context())
	if err != nil {
		respondFailed(w, report.Error)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"recommendations": report.Recommendations,
		"summary":         report.Summary,
		"timestamp":       report.Timestamp,
		"status":          report.Status,
	})
}

// respondFailed maps a failed report to the 500 envelope. Usage errors are
// rejected before the pipeline runs, so only store and invariant failures
// reach this path.
func respondFailed(w http.ResponseWriter, detail string) {
	if detail == "" {
		detail = "analysis failed"
	}
	respondError(w, http.StatusInternalServerError, detail)
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]any{
		"status": model.ReportFailed,
		"error":  detail,
	})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}
