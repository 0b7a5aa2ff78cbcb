package pathguard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DeniedMessage is the fixed human-readable text returned whenever a path
// falls outside the allow-list.
const DeniedMessage = "Requested path is outside allowed directories."

// DeniedError reports a path that resolved outside every allowed root. It
// carries the full allow-list so operators can see at a glance why a request
// was rejected.
type DeniedError struct {
	RequestedPath      string
	AllowedDirectories []string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied: %q is outside allowed directories", e.RequestedPath)
}

// Guard confines filesystem access to an ordered allow-list of absolute
// directory roots. The list is loaded once at startup and never mutated.
type Guard struct {
	roots []string
}

func New(roots []string) (*Guard, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("at least one allowed directory is required")
	}

	normalized := make([]string, 0, len(roots))
	for _, root := range roots {
		trimmed := strings.TrimSpace(root)
		if trimmed == "" {
			return nil, fmt.Errorf("allowed directory cannot be empty")
		}

		resolved, err := canonicalize(trimmed)
		if err != nil {
			return nil, fmt.Errorf("resolve allowed directory %q: %w", root, err)
		}

		normalized = append(normalized, resolved)
	}

	return &Guard{roots: normalized}, nil
}

// Roots returns a copy of the configured allow-list.
func (g *Guard) Roots() []string {
	out := make([]string, len(g.roots))
	copy(out, g.roots)
	return out
}

// Resolve canonicalizes a user-supplied path and accepts it only if it lies
// under one of the allowed roots. It is the sole gate: callers must not touch
// the filesystem with a path that has not passed through here.
func (g *Guard) Resolve(requested string) (string, error) {
	resolved, err := canonicalize(strings.TrimSpace(requested))
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", requested, err)
	}

	if !g.Within(resolved) {
		return "", &DeniedError{RequestedPath: resolved, AllowedDirectories: g.Roots()}
	}

	return resolved, nil
}

// Within reports whether an already-absolute path sits under some allowed
// root. Comparison is a plain case-insensitive string prefix match, applied
// the same way on every platform; this is inherited policy, not a per-OS
// choice. Note the prefix is not anchored at a separator: a root of
// /base/data also admits /base/database.
func (g *Guard) Within(absPath string) bool {
	lowered := strings.ToLower(absPath)
	for _, root := range g.roots {
		if strings.HasPrefix(lowered, strings.ToLower(root)) {
			return true
		}
	}

	return false
}

// canonicalize expands a home-directory shorthand, absolutizes, and resolves
// symlinks. Paths that do not exist yet are resolved through their longest
// existing ancestor so that a dangling leaf cannot hide a traversal.
func canonicalize(path string) (string, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return resolveSymlinks(filepath.Clean(abs))
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(filepath.Separator)) && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand home directory: %w", err)
	}

	if path == "~" {
		return home, nil
	}

	return filepath.Join(home, path[2:]), nil
}

func resolveSymlinks(abs string) (string, error) {
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	// Walk up until an existing ancestor is found, resolve that, and re-attach
	// the nonexistent remainder.
	ancestor := abs
	var remainder []string
	for {
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			return abs, nil
		}

		remainder = append(remainder, filepath.Base(ancestor))
		ancestor = parent

		resolvedAncestor, evalErr := filepath.EvalSymlinks(ancestor)
		if evalErr == nil {
			for i := len(remainder) - 1; i >= 0; i-- {
				resolvedAncestor = filepath.Join(resolvedAncestor, remainder[i])
			}
			return resolvedAncestor, nil
		}
		if !errors.Is(evalErr, fs.ErrNotExist) {
			return "", evalErr
		}
	}
}
