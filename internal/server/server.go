// Package server exposes the recommendation engine over HTTP together
// with health, readiness and Prometheus endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/crop-engine/internal/catalog"
	"github.com/pdiddy/crop-engine/internal/irrigation"
	"github.com/pdiddy/crop-engine/internal/recommend"
	"github.com/pdiddy/crop-engine/pkg/types"
)

const maxBodyBytes = 1 << 20

// Backend is the persistent data the API reads and writes.
type Backend interface {
	Ping(ctx context.Context) error
	Catalog(ctx context.Context) ([]types.CropProfile, error)
	UpsertFarmer(ctx context.Context, f types.FarmerProfile) error
	Farmer(ctx context.Context, id string) (types.FarmerProfile, bool, error)
	History(ctx context.Context, farmerID string, limit int) ([]types.RecommendationBatch, error)
	AddPastCrop(ctx context.Context, pc types.PastCrop) (types.PastCrop, error)
	PastCrops(ctx context.Context, farmerID string) ([]types.PastCrop, error)
}

// Recommender runs and reads recommendation batches.
type Recommender interface {
	Generate(ctx context.Context, farmer types.FarmerProfile, catalog []types.CropProfile) (types.RecommendationBatch, error)
	LatestDetailed(ctx context.Context, farmerID string, catalog []types.CropProfile) (types.DetailedBatch, bool, error)
}

// Server is the crop-engine HTTP API.
type Server struct {
	httpServer *http.Server
	backend    Backend
	engine     Recommender
	logger     *slog.Logger
}

// NewServer creates an HTTP server with health, metrics and API routes.
func NewServer(addr string, backend Backend, engine Recommender, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		backend: backend,
		engine:  engine,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/crops", s.handleCatalog)
	mux.HandleFunc("PUT /api/farmers/{id}", s.handlePutFarmer)
	mux.HandleFunc("GET /api/farmers/{id}", s.handleGetFarmer)
	mux.HandleFunc("POST /api/farmers/{id}/recommendations", s.handleGenerate)
	mux.HandleFunc("GET /api/farmers/{id}/recommendations/latest", s.handleLatest)
	mux.HandleFunc("GET /api/farmers/{id}/recommendations", s.handleHistory)
	mux.HandleFunc("POST /api/farmers/{id}/past-crops", s.handleAddPastCrop)
	mux.HandleFunc("GET /api/farmers/{id}/past-crops", s.handlePastCrops)
	mux.HandleFunc("GET /api/farmers/{id}/irrigation", s.handleIrrigation)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.backend.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	crops, err := s.backend.Catalog(r.Context())
	if err != nil {
		s.internalError(w, "reading catalog", err)
		return
	}
	if crops == nil {
		crops = []types.CropProfile{}
	}
	writeJSON(w, http.StatusOK, crops)
}

func (s *Server) handlePutFarmer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	farmer, err := catalog.DecodeFarmerJSON(body, id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.backend.UpsertFarmer(r.Context(), farmer); err != nil {
		s.internalError(w, "storing farmer", err)
		return
	}
	s.logger.Info("farmer profile stored", "farmer_id", id)
	writeJSON(w, http.StatusOK, farmer)
}

func (s *Server) handleGetFarmer(w http.ResponseWriter, r *http.Request) {
	farmer, ok := s.lookupFarmer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, farmer)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	farmer, ok := s.lookupFarmer(w, r)
	if !ok {
		return
	}
	crops, err := s.backend.Catalog(r.Context())
	if err != nil {
		s.internalError(w, "reading catalog", err)
		return
	}

	batch, err := s.engine.Generate(r.Context(), farmer, crops)
	if err != nil {
		var (
			ipe *types.InvalidProfileError
			swe *recommend.StoreWriteError
		)
		switch {
		case errors.As(err, &ipe):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, recommend.ErrEmptyCatalog):
			writeError(w, http.StatusConflict, err)
		case errors.As(err, &swe):
			writeError(w, http.StatusBadGateway, err)
		default:
			s.internalError(w, "generating recommendations", err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, batch)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	crops, err := s.backend.Catalog(r.Context())
	if err != nil {
		s.internalError(w, "reading catalog", err)
		return
	}

	batch, ok, err := s.engine.LatestDetailed(r.Context(), id, crops)
	if err != nil {
		s.internalError(w, "reading latest recommendations", err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no recommendations for farmer " + id})
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	batches, err := s.backend.History(r.Context(), id, limit)
	if err != nil {
		s.internalError(w, "reading recommendation history", err)
		return
	}
	if batches == nil {
		batches = []types.RecommendationBatch{}
	}
	writeJSON(w, http.StatusOK, batches)
}

func (s *Server) handleAddPastCrop(w http.ResponseWriter, r *http.Request) {
	farmer, ok := s.lookupFarmer(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	pc, err := catalog.DecodePastCropJSON(body, farmer.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	saved, err := s.backend.AddPastCrop(r.Context(), pc)
	if err != nil {
		var ipe *types.InvalidProfileError
		switch {
		case errors.As(err, &ipe):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, types.ErrUnknownFarmer):
			writeError(w, http.StatusNotFound, err)
		default:
			s.internalError(w, "storing past crop", err)
		}
		return
	}
	s.logger.Info("past crop recorded", "farmer_id", farmer.ID, "crop", saved.CropName)
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handlePastCrops(w http.ResponseWriter, r *http.Request) {
	crops, err := s.backend.PastCrops(r.Context(), r.PathValue("id"))
	if err != nil {
		s.internalError(w, "reading past crops", err)
		return
	}
	if crops == nil {
		crops = []types.PastCrop{}
	}
	writeJSON(w, http.StatusOK, crops)
}

func (s *Server) handleIrrigation(w http.ResponseWriter, r *http.Request) {
	farmer, ok := s.lookupFarmer(w, r)
	if !ok {
		return
	}
	guide, err := irrigation.For(r.URL.Query().Get("crop"), farmer.FarmSizeAcres)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, guide)
}

func (s *Server) lookupFarmer(w http.ResponseWriter, r *http.Request) (types.FarmerProfile, bool) {
	id := r.PathValue("id")
	farmer, ok, err := s.backend.Farmer(r.Context(), id)
	if err != nil {
		s.internalError(w, "reading farmer", err)
		return types.FarmerProfile{}, false
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "farmer " + id + " not found"})
		return types.FarmerProfile{}, false
	}
	return farmer, true
}

func (s *Server) internalError(w http.ResponseWriter, action string, err error) {
	s.logger.Error(action+" failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": action + " failed"})
}

// readBody reads a size-limited request body. Oversized bodies get 413,
// other read failures 400.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err)
		return nil, false
	}
	return body, true
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
