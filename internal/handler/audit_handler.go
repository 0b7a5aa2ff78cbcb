package handler

import (
	"net/http"
	"strconv"
	"strings"

	"fsgate/internal/service"
	"fsgate/pkg/apierror"
)

type AuditHandler struct {
	service *service.AuditService
}

func NewAuditHandler(service *service.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, apierror.BadRequest("limit must be a positive integer", "limit"))
			return
		}
		limit = parsed
	}

	entries, err := h.service.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"items": entries})
}
