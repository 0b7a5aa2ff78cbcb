package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fsgate/internal/model"
	"fsgate/internal/pathguard"
	"fsgate/pkg/apierror"
)

type DirectoryService struct {
	guard *pathguard.Guard
	audit *AuditService
}

func NewDirectoryService(guard *pathguard.Guard, audit *AuditService) *DirectoryService {
	return &DirectoryService{guard: guard, audit: audit}
}

func (s *DirectoryService) Create(ctx context.Context, path string) (model.MessageResponse, error) {
	resolved, err := s.guard.Resolve(path)
	if err != nil {
		return model.MessageResponse{}, err
	}

	if err := os.MkdirAll(resolved, 0o755); err != nil {
		if os.IsPermission(err) {
			return model.MessageResponse{}, apierror.PermissionDenied("Permission denied to create directory", path)
		}
		return model.MessageResponse{}, apierror.Internal(fmt.Sprintf("Failed to create directory %s", path), err.Error())
	}

	s.audit.Record(ctx, "create_directory", path, "", "ok")

	return model.MessageResponse{Message: fmt.Sprintf("Successfully created directory %s", path)}, nil
}

func (s *DirectoryService) List(_ context.Context, path string) ([]model.DirEntry, error) {
	resolved, err := s.guard.Resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierror.NotFound("Directory not found", path)
		}
		if os.IsPermission(err) {
			return nil, apierror.PermissionDenied("Permission denied for directory", path)
		}
		return nil, apierror.Internal(fmt.Sprintf("Failed to list directory %s", path), err.Error())
	}

	if !info.IsDir() {
		return nil, apierror.BadRequest("Provided path is not a directory", path)
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		if os.IsPermission(err) {
			return nil, apierror.PermissionDenied("Permission denied for directory", path)
		}
		return nil, apierror.Internal(fmt.Sprintf("Failed to list directory %s", path), err.Error())
	}

	listing := make([]model.DirEntry, 0, len(entries))
	for _, entry := range entries {
		listing = append(listing, model.DirEntry{Name: entry.Name(), Type: entryType(entry.IsDir())})
	}

	return listing, nil
}

// Tree returns the full recursive listing under path. Traversal is
// iterative with an explicit stack so pathological directory depths cannot
// exhaust the call stack.
func (s *DirectoryService) Tree(_ context.Context, path string) ([]*model.TreeNode, error) {
	resolved, err := s.guard.Resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierror.NotFound("Directory not found", path)
		}
		return nil, apierror.Internal(fmt.Sprintf("Failed to read directory tree for %s", path), err.Error())
	}
	if !info.IsDir() {
		return nil, apierror.BadRequest("Provided path is not a directory", path)
	}

	type frame struct {
		dir      string
		children *[]*model.TreeNode
	}

	top := make([]*model.TreeNode, 0)
	stack := []frame{{dir: resolved, children: &top}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, readErr := os.ReadDir(current.dir)
		if readErr != nil {
			return nil, apierror.Internal(fmt.Sprintf("Failed to read directory tree for %s", path), readErr.Error())
		}

		for _, entry := range entries {
			node := &model.TreeNode{Name: entry.Name(), Type: entryType(entry.IsDir())}
			*current.children = append(*current.children, node)
			if entry.IsDir() {
				stack = append(stack, frame{
					dir:      filepath.Join(current.dir, entry.Name()),
					children: &node.Children,
				})
			}
		}
	}

	return top, nil
}

func entryType(isDir bool) string {
	if isDir {
		return "directory"
	}

	return "file"
}
