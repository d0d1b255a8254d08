package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sells-group/airquality-cli/internal/fetcher"
	"github.com/sells-group/airquality-cli/internal/store"
	"github.com/sells-group/airquality-cli/internal/view"
)

type saveRequest struct {
	Place string `json:"place"`
	Text  string `json:"text"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.deps.Collector == nil {
		writeError(w, r, http.StatusNotFound, "status not available")
		return
	}
	snap, err := s.deps.Collector.Collect(r.Context())
	if err != nil {
		zap.L().Error("server: collect status", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "status unavailable")
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

// handleSearch mirrors the details screen: provider failures are a 200
// with the error populated, only a blank query is a client error.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	place, err := view.SearchRequest{Query: r.URL.Query().Get("place")}.Normalize()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fetcher.MessageOf(err))
		return
	}

	l, err := s.deps.Searcher.FetchShared(r.Context(), place)
	writeJSON(w, r, http.StatusOK, view.NewDetails(place, l, err, s.deps.Validator))
}

func (s *Server) handleListPlaces(w http.ResponseWriter, r *http.Request) {
	sums, err := s.deps.Records.Store().ListSummaries(r.Context())
	if err != nil {
		zap.L().Error("server: list summaries", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to list places")
		return
	}
	writeJSON(w, r, http.StatusOK, view.SearchScreen{Places: sums})
}

func (s *Server) handleGetPlace(w http.ResponseWriter, r *http.Request) {
	place := placeParam(r)
	rec, err := s.deps.Records.Store().GetOne(r.Context(), place)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "no saved data for "+place)
			return
		}
		zap.L().Error("server: get record", zap.String("place", place), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to load place")
		return
	}
	writeJSON(w, r, http.StatusOK, view.NewSavedDetails(*rec))
}

func (s *Server) handleSavePlace(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.deps.Records.Save(r.Context(), req.Place, req.Text) {
		writeError(w, r, http.StatusUnprocessableEntity, view.SaveFailed)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]string{
		"status": view.SavedNotice,
		"place":  strings.TrimSpace(req.Place),
	})
}

func (s *Server) handleDeletePlace(w http.ResponseWriter, r *http.Request) {
	place := placeParam(r)
	if !s.deps.Records.DeleteAll(r.Context(), place) {
		writeError(w, r, http.StatusNotFound, view.DeleteFailedNotice(place))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// placeParam returns the decoded place segment. chi matches on RawPath when
// it is set, leaving the segment escaped; otherwise it is already decoded.
func placeParam(r *http.Request) string {
	place := chi.URLParam(r, "place")
	if r.URL.RawPath != "" {
		if p, err := url.PathUnescape(place); err == nil {
			place = p
		}
	}
	return strings.TrimSpace(place)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: write response",
			zap.String("req_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{
		"error":      msg,
		"request_id": middleware.GetReqID(r.Context()),
	})
}
