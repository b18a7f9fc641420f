package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/izzyreal/owltest/internal/protocol"
	"github.com/izzyreal/owltest/internal/server/httpx"
	"github.com/izzyreal/owltest/internal/store"
)

const maxResultBodyBytes = 8 << 20

func (s *stateStore) listResultsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	recs, err := s.db.ListResults(limit)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := protocol.ListResultsResponse{Results: make([]protocol.ResultSummary, 0, len(recs))}
	for _, rec := range recs {
		resp.Results = append(resp.Results, protocol.SummarizeResult(rec))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (s *stateStore) getResultHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := s.db.GetResult(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, protocol.ResultResponse{Result: rec})
}

// putResultHandler stores a test run's report. Storing the report also
// releases the submitter's guard, so they can resubmit once results arrive.
func (s *stateStore) putResultHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	var rs protocol.ResultSet
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxResultBodyBytes)).Decode(&rs); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	rec, err := s.db.PutResult(id, rs)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if rec.Submitter != "" {
		s.guards.Reset(rec.Submitter)
	}
	slog.Info("result stored", "id", rec.ID, "status", rec.Status, "tabs", rs.Tabs.Len())
	httpx.WriteJSON(w, http.StatusOK, protocol.ResultResponse{Result: rec})
}

func (s *stateStore) deleteResultHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.db.DeleteResult(id); err != nil {
		writeStoreError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, protocol.DeleteResultResponse{Deleted: true, ID: id})
}

func storeErrorStatus(err error) (int, string) {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound, err.Error()
	}
	slog.Error("store request failed", "error", err)
	return http.StatusInternalServerError, err.Error()
}

func writeStoreError(w http.ResponseWriter, err error) {
	code, msg := storeErrorStatus(err)
	httpx.WriteError(w, code, msg)
}
