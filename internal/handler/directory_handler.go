package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"fsgate/internal/model"
	"fsgate/internal/service"
	"fsgate/pkg/apierror"
)

type DirectoryHandler struct {
	directories *service.DirectoryService
	search      *service.SearchService
}

func NewDirectoryHandler(directories *service.DirectoryService, search *service.SearchService) *DirectoryHandler {
	return &DirectoryHandler{directories: directories, search: search}
}

func (h *DirectoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateDirectoryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if strings.TrimSpace(payload.Path) == "" {
		writeError(w, apierror.BadRequest("path is required", ""))
		return
	}

	result, err := h.directories.Create(r.Context(), payload.Path)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}

func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ListDirectoryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if strings.TrimSpace(payload.Path) == "" {
		writeError(w, apierror.BadRequest("path is required", ""))
		return
	}

	listing, err := h.directories.List(r.Context(), payload.Path)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, listing)
}

func (h *DirectoryHandler) Tree(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.DirectoryTreeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if strings.TrimSpace(payload.Path) == "" {
		writeError(w, apierror.BadRequest("path is required", ""))
		return
	}

	tree, err := h.directories.Tree(r.Context(), payload.Path)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tree)
}

func (h *DirectoryHandler) SearchFiles(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SearchFilesRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if strings.TrimSpace(payload.Path) == "" || payload.Pattern == "" {
		writeError(w, apierror.BadRequest("path and pattern are required", ""))
		return
	}

	matches, err := h.search.SearchFiles(r.Context(), payload.Path, payload.Pattern, payload.ExcludePatterns)
	if err != nil {
		writeError(w, err)
		return
	}

	if len(matches) == 0 {
		writeSuccess(w, http.StatusOK, map[string]any{"matches": []string{model.NoMatchesPlaceholder}})
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"matches": matches})
}

func (h *DirectoryHandler) SearchContent(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SearchContentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if strings.TrimSpace(payload.Path) == "" || payload.SearchQuery == "" {
		writeError(w, apierror.BadRequest("path and search_query are required", ""))
		return
	}

	recursive := true
	if payload.Recursive != nil {
		recursive = *payload.Recursive
	}

	matches, err := h.search.SearchContent(r.Context(), payload.Path, payload.SearchQuery, recursive, payload.FilePattern)
	if err != nil {
		writeError(w, err)
		return
	}

	if len(matches) == 0 {
		writeSuccess(w, http.StatusOK, map[string]any{"matches": []string{model.NoMatchesPlaceholder}})
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"matches": matches})
}
