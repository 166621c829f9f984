package adminapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"keywarden/internal/logs"
	"keywarden/internal/models"
	"keywarden/internal/repo"
)

// Store — что нужно админским ручкам от хранилища.
type Store interface {
	List(ctx context.Context, f repo.Filter, now int64) ([]models.License, error)
	Revoke(ctx context.Context, fingerprint string) (bool, error)
}

type Handler struct {
	store Store
	now   func() time.Time
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

type listResponse struct {
	Success  bool             `json:"success"`
	Licenses []models.License `json:"licenses"`
}

// List — GET /list_licenses?filter=all|activated|expired|revoked.
// Фильтр интерактивного отчёта переехал в query-параметр.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := repo.ParseFilter(r.URL.Query().Get("filter"))
	if !ok {
		models.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Unknown filter.",
		})
		return
	}
	recs, err := h.store.List(r.Context(), f, h.now().Unix())
	if err != nil {
		logs.Logger.Errorf("list_licenses: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError,
			"Internal Server Error", "license store unavailable", nil)
		return
	}
	if recs == nil {
		recs = []models.License{}
	}
	models.WriteJSON(w, http.StatusOK, listResponse{Success: true, Licenses: recs})
}

type revokeRequest struct {
	Fingerprint string `json:"fingerprint"`
}

// Revoke — POST /revoke_license {"fingerprint": "..."}.
// Отзыв перманентен и независим от истечения срока.
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	var req revokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Fingerprint == "" {
		models.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Missing fingerprint.",
		})
		return
	}
	ok, err := h.store.Revoke(r.Context(), req.Fingerprint)
	if err != nil {
		logs.Logger.Errorf("revoke_license: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError,
			"Internal Server Error", "license store unavailable", nil)
		return
	}
	if !ok {
		models.WriteJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"message": "License not found.",
		})
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
