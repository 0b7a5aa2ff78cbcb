package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"fsgate/internal/model"
	"fsgate/internal/pathguard"
	"fsgate/internal/service"
	"fsgate/pkg/apierror"
)

type OperationsHandler struct {
	operations *service.OperationsService
	guard      *pathguard.Guard
}

func NewOperationsHandler(operations *service.OperationsService, guard *pathguard.Guard) *OperationsHandler {
	return &OperationsHandler{operations: operations, guard: guard}
}

func (h *OperationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.DeletePathRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if strings.TrimSpace(payload.Path) == "" {
		writeError(w, apierror.BadRequest("path is required", ""))
		return
	}

	outcome, err := h.operations.Delete(r.Context(), payload.Path, payload.Recursive, payload.ConfirmationToken)
	if err != nil {
		writeError(w, err)
		return
	}

	if outcome.Executed {
		writeSuccess(w, http.StatusOK, model.MessageResponse{Message: outcome.Message})
		return
	}

	writeSuccess(w, http.StatusOK, model.ConfirmationRequiredResponse{
		Message:           outcome.Message,
		ConfirmationToken: outcome.ConfirmationToken,
		ExpiresAt:         outcome.ExpiresAt,
	})
}

func (h *OperationsHandler) Move(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.MovePathRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if strings.TrimSpace(payload.SourcePath) == "" || strings.TrimSpace(payload.DestinationPath) == "" {
		writeError(w, apierror.BadRequest("source_path and destination_path are required", ""))
		return
	}

	result, err := h.operations.Move(r.Context(), payload.SourcePath, payload.DestinationPath)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

func (h *OperationsHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.GetMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if strings.TrimSpace(payload.Path) == "" {
		writeError(w, apierror.BadRequest("path is required", ""))
		return
	}

	metadata, err := h.operations.Metadata(r.Context(), payload.Path)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, metadata)
}

func (h *OperationsHandler) ListAllowedDirectories(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, model.AllowedDirectoriesResponse{AllowedDirectories: h.guard.Roots()})
}
