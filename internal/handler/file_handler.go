package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"fsgate/internal/model"
	"fsgate/internal/service"
	"fsgate/pkg/apierror"
)

type FileHandler struct {
	service *service.FileService
}

func NewFileHandler(service *service.FileService) *FileHandler {
	return &FileHandler{service: service}
}

func (h *FileHandler) Read(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ReadFileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if strings.TrimSpace(payload.Path) == "" {
		writeError(w, apierror.BadRequest("path is required", ""))
		return
	}

	result, err := h.service.Read(r.Context(), payload.Path)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

func (h *FileHandler) Write(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.WriteFileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if strings.TrimSpace(payload.Path) == "" {
		writeError(w, apierror.BadRequest("path is required", ""))
		return
	}

	result, err := h.service.Write(r.Context(), payload.Path, payload.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

func (h *FileHandler) Edit(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.EditFileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if strings.TrimSpace(payload.Path) == "" {
		writeError(w, apierror.BadRequest("path is required", ""))
		return
	}

	if len(payload.Edits) == 0 {
		writeError(w, apierror.BadRequest("edits cannot be empty", ""))
		return
	}

	outcome, err := h.service.Edit(r.Context(), payload.Path, payload.Edits, payload.DryRun)
	if err != nil {
		writeError(w, err)
		return
	}

	if outcome.DryRun {
		writeSuccess(w, http.StatusOK, model.DiffResponse{Diff: outcome.Diff})
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: outcome.Message})
}
