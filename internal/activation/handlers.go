package activation

import (
	"encoding/json"
	"net/http"

	"keywarden/internal/logs"
	"keywarden/internal/models"
)

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

type Handler struct {
	svc *Service
}

// Validate — POST /validate_license.
// 400 — пустой ключ, 403 — любой отказ, 200 — активация или повторный
// визит. Недоступность хранилища — это 500, а не "invalid license".
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if r.Body != nil {
		// невалидный/пустой JSON приравниваем к пустому ключу
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	dec, err := h.svc.Validate(r.Context(), req.License, req.InstallationID)
	if err != nil {
		logs.Logger.Errorf("validate_license: store failure: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError,
			"Internal Server Error", "license store unavailable", nil)
		return
	}

	if dec.Accepted() {
		models.WriteJSON(w, http.StatusOK, ValidateResponse{
			Success:   true,
			Message:   dec.Message,
			ExpiresAt: dec.ExpiresAt,
		})
		return
	}

	status := http.StatusForbidden
	if dec.Verdict == VerdictMissing {
		status = http.StatusBadRequest
	}
	models.WriteJSON(w, status, ValidateResponse{Success: false, Message: dec.Message})
}
