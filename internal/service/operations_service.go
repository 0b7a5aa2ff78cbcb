package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"fsgate/internal/confirm"
	"fsgate/internal/model"
	"fsgate/internal/pathguard"
	"fsgate/pkg/apierror"
)

// OperationsService implements the destructive and path-level operations:
// the two-step delete workflow, move, and metadata.
type OperationsService struct {
	guard         *pathguard.Guard
	confirmations confirm.Store
	audit         *AuditService
}

func NewOperationsService(guard *pathguard.Guard, confirmations confirm.Store, audit *AuditService) *OperationsService {
	return &OperationsService{guard: guard, confirmations: confirmations, audit: audit}
}

// Delete runs the confirmation-gated delete state machine. Without a token
// it validates the target and issues a pending confirmation; with a token it
// consumes the entry (single use, even when the comparison below fails) and
// executes the deletion only if the request parameters exactly match the
// ones the token was minted for.
func (s *OperationsService) Delete(ctx context.Context, path string, recursive bool, token string) (model.DeleteOutcome, error) {
	resolved, err := s.guard.Resolve(path)
	if err != nil {
		return model.DeleteOutcome{}, err
	}

	if token == "" {
		if _, statErr := os.Stat(resolved); statErr != nil {
			if os.IsNotExist(statErr) {
				return model.DeleteOutcome{}, apierror.NotFound("Path not found", path)
			}
			return model.DeleteOutcome{}, apierror.Internal(fmt.Sprintf("Failed to inspect %s", path), statErr.Error())
		}

		issued, expiry, issueErr := s.confirmations.Issue(path, recursive)
		if issueErr != nil {
			return model.DeleteOutcome{}, apierror.Internal("Failed to issue confirmation token", issueErr.Error())
		}

		s.audit.Record(ctx, "delete_path", path, fmt.Sprintf("recursive=%t", recursive), "token_issued")

		return model.DeleteOutcome{
			Message:           fmt.Sprintf("Confirm deletion of %s with token %s", path, issued),
			ConfirmationToken: issued,
			ExpiresAt:         expiry,
		}, nil
	}

	pending, consumeErr := s.confirmations.Consume(token)
	if consumeErr != nil {
		if errors.Is(consumeErr, confirm.ErrTokenNotFound) {
			return model.DeleteOutcome{}, apierror.BadRequest("Invalid or expired confirmation token", "")
		}
		return model.DeleteOutcome{}, apierror.Internal("Failed to consume confirmation token", consumeErr.Error())
	}

	if pending.Path != path || pending.Recursive != recursive {
		return model.DeleteOutcome{}, apierror.BadRequest(
			"Request parameters (path, recursive) do not match the original request for this token", "")
	}

	message, execErr := s.executeDelete(resolved, path, recursive)
	if execErr != nil {
		s.audit.Record(ctx, "delete_path", path, fmt.Sprintf("recursive=%t", recursive), "failed")
		return model.DeleteOutcome{}, execErr
	}

	s.audit.Record(ctx, "delete_path", path, fmt.Sprintf("recursive=%t", recursive), "ok")

	return model.DeleteOutcome{Executed: true, Message: message}, nil
}

func (s *OperationsService) executeDelete(resolved string, path string, recursive bool) (string, error) {
	info, err := os.Lstat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apierror.NotFound("Path not found", path)
		}
		if os.IsPermission(err) {
			return "", apierror.PermissionDenied("Permission denied to delete", path)
		}
		return "", apierror.Internal(fmt.Sprintf("Failed to delete %s", path), err.Error())
	}

	if !info.IsDir() {
		if err := os.Remove(resolved); err != nil {
			return "", mapDeleteError(err, path)
		}
		return fmt.Sprintf("Successfully deleted file: %s", path), nil
	}

	if recursive {
		if err := os.RemoveAll(resolved); err != nil {
			return "", mapDeleteError(err, path)
		}
		return fmt.Sprintf("Successfully deleted directory recursively: %s", path), nil
	}

	if err := os.Remove(resolved); err != nil {
		if entries, readErr := os.ReadDir(resolved); readErr == nil && len(entries) > 0 {
			return "", apierror.New("CONFLICT",
				"Directory not empty. Use recursive=true to delete non-empty directories",
				path, http.StatusBadRequest)
		}
		return "", mapDeleteError(err, path)
	}

	return fmt.Sprintf("Successfully deleted empty directory: %s", path), nil
}

func mapDeleteError(err error, path string) error {
	if os.IsNotExist(err) {
		return apierror.NotFound("Path not found", path)
	}
	if os.IsPermission(err) {
		return apierror.PermissionDenied("Permission denied to delete", path)
	}

	return apierror.Internal(fmt.Sprintf("Failed to delete %s", path), err.Error())
}

// Move renames a file or directory. Both endpoints must resolve under the
// allowed roots. Crossing a filesystem boundary falls back to copy+delete.
func (s *OperationsService) Move(ctx context.Context, sourcePath string, destinationPath string) (model.MessageResponse, error) {
	source, err := s.guard.Resolve(sourcePath)
	if err != nil {
		return model.MessageResponse{}, err
	}

	destination, err := s.guard.Resolve(destinationPath)
	if err != nil {
		return model.MessageResponse{}, err
	}

	if _, statErr := os.Lstat(source); statErr != nil {
		if os.IsNotExist(statErr) {
			return model.MessageResponse{}, apierror.NotFound("Source path not found", sourcePath)
		}
		return model.MessageResponse{}, apierror.Internal(fmt.Sprintf("Failed to inspect %s", sourcePath), statErr.Error())
	}

	if err := movePath(source, destination); err != nil {
		if os.IsPermission(err) {
			return model.MessageResponse{}, apierror.PermissionDenied(
				fmt.Sprintf("Permission denied for move involving %q or %q", sourcePath, destinationPath), "")
		}
		return model.MessageResponse{}, apierror.Internal(
			fmt.Sprintf("Failed to move %q to %q", sourcePath, destinationPath), err.Error())
	}

	s.audit.Record(ctx, "move_path", sourcePath, "to "+destinationPath, "ok")

	return model.MessageResponse{
		Message: fmt.Sprintf("Successfully moved '%s' to '%s'", sourcePath, destinationPath),
	}, nil
}

// Metadata reports type, size, and the three timestamps for a path, all in
// UTC. Creation time is platform best-effort and falls back to the
// metadata-change time where the filesystem does not record birth times.
func (s *OperationsService) Metadata(_ context.Context, path string) (model.Metadata, error) {
	resolved, err := s.guard.Resolve(path)
	if err != nil {
		return model.Metadata{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Metadata{}, apierror.NotFound("Path not found", path)
		}
		if os.IsPermission(err) {
			return model.Metadata{}, apierror.PermissionDenied("Permission denied to access metadata", path)
		}
		return model.Metadata{}, apierror.Internal(fmt.Sprintf("Failed to get metadata for %s", path), err.Error())
	}

	entryKind := "other"
	switch {
	case info.Mode().IsRegular():
		entryKind = "file"
	case info.IsDir():
		entryKind = "directory"
	}

	changeTime, birthTime := statTimes(info)

	return model.Metadata{
		Path:                      resolved,
		Type:                      entryKind,
		SizeBytes:                 info.Size(),
		ModificationTimeUTC:       info.ModTime().UTC(),
		CreationTimeUTC:           birthTime.UTC(),
		LastMetadataChangeTimeUTC: changeTime.UTC(),
	}, nil
}
