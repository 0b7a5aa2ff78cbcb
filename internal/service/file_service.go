package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"fsgate/internal/model"
	"fsgate/internal/pathguard"
	"fsgate/pkg/apierror"
)

// FileService implements whole-file read, write, and substring-edit
// operations on UTF-8 text files. Every path goes through the guard before
// any I/O.
type FileService struct {
	guard *pathguard.Guard
	audit *AuditService
}

func NewFileService(guard *pathguard.Guard, audit *AuditService) *FileService {
	return &FileService{guard: guard, audit: audit}
}

func (s *FileService) Read(_ context.Context, path string) (model.ReadFileResponse, error) {
	resolved, err := s.guard.Resolve(path)
	if err != nil {
		return model.ReadFileResponse{}, err
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return model.ReadFileResponse{}, apierror.NotFound("File not found", path)
		}
		if os.IsPermission(err) {
			return model.ReadFileResponse{}, apierror.PermissionDenied("Permission denied for file", path)
		}
		return model.ReadFileResponse{}, apierror.Internal(fmt.Sprintf("Failed to read file %s", path), err.Error())
	}

	return model.ReadFileResponse{Content: string(raw)}, nil
}

func (s *FileService) Write(ctx context.Context, path string, content string) (model.MessageResponse, error) {
	resolved, err := s.guard.Resolve(path)
	if err != nil {
		return model.MessageResponse{}, err
	}

	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		if os.IsPermission(err) {
			return model.MessageResponse{}, apierror.PermissionDenied("Permission denied to write file", path)
		}
		return model.MessageResponse{}, apierror.Internal(fmt.Sprintf("Failed to write to %s", path), err.Error())
	}

	s.audit.Record(ctx, "write_file", path, "", "ok")

	return model.MessageResponse{Message: fmt.Sprintf("Successfully wrote to %s", path)}, nil
}

// Edit applies the edits in order, each as a single first-occurrence exact
// substring replacement against the progressively modified content. The
// operation is all-or-nothing: a missing oldText aborts before any write.
func (s *FileService) Edit(ctx context.Context, path string, edits []model.EditOperation, dryRun bool) (model.EditOutcome, error) {
	resolved, err := s.guard.Resolve(path)
	if err != nil {
		return model.EditOutcome{}, err
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return model.EditOutcome{}, apierror.NotFound("File not found", path)
		}
		if os.IsPermission(err) {
			return model.EditOutcome{}, apierror.PermissionDenied("Permission denied to read file", path)
		}
		return model.EditOutcome{}, apierror.Internal(fmt.Sprintf("Failed to read file %s for editing", path), err.Error())
	}

	original := string(raw)
	modified := original
	for _, edit := range edits {
		if !strings.Contains(modified, edit.OldText) {
			return model.EditOutcome{}, apierror.BadRequest("Edit failed: oldText not found in content", snippet(edit.OldText, 50))
		}
		modified = strings.Replace(modified, edit.OldText, edit.NewText, 1)
	}

	if dryRun {
		diff, diffErr := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(original),
			B:        difflib.SplitLines(modified),
			FromFile: "a/" + path,
			ToFile:   "b/" + path,
			Context:  3,
		})
		if diffErr != nil {
			return model.EditOutcome{}, apierror.Internal("Failed to compute diff", diffErr.Error())
		}

		return model.EditOutcome{DryRun: true, Diff: diff}, nil
	}

	if err := os.WriteFile(resolved, []byte(modified), 0o644); err != nil {
		if os.IsPermission(err) {
			return model.EditOutcome{}, apierror.PermissionDenied("Permission denied to write edited file", path)
		}
		return model.EditOutcome{}, apierror.Internal(fmt.Sprintf("Failed to write edited file %s", path), err.Error())
	}

	s.audit.Record(ctx, "edit_file", path, fmt.Sprintf("%d edits", len(edits)), "ok")

	return model.EditOutcome{Message: fmt.Sprintf("Successfully edited file %s", path)}, nil
}

func snippet(text string, max int) string {
	if len(text) <= max {
		return text
	}

	return text[:max] + "..."
}
