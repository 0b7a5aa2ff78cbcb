package service

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"

	"fsgate/internal/model"
	"fsgate/internal/pathguard"
	"fsgate/pkg/apierror"
)

// scanBufferSize bounds the longest line SearchContent will match against.
const scanBufferSize = 1024 * 1024

type SearchService struct {
	guard *pathguard.Guard
}

func NewSearchService(guard *pathguard.Guard) *SearchService {
	return &SearchService{guard: guard}
}

// SearchFiles walks the subtree under path and returns every file or
// directory whose name contains pattern (case-insensitive). Subtrees whose
// root matches an exclude pattern are skipped entirely. Each hit is
// re-checked against the allow-list: symlinked directories can lead the walk
// outside the guarded roots, and those results must not leak.
func (s *SearchService) SearchFiles(_ context.Context, path string, pattern string, excludePatterns []string) ([]string, error) {
	resolved, err := s.guard.Resolve(path)
	if err != nil {
		return nil, err
	}

	for _, exclude := range excludePatterns {
		if !doublestar.ValidatePattern(exclude) {
			return nil, apierror.BadRequest("Invalid exclude pattern", exclude)
		}
	}

	patternLower := strings.ToLower(pattern)

	var mu sync.Mutex
	matches := make([]string, 0)

	conf := fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(&conf, resolved, func(current string, entry os.DirEntry, err error) error {
		if err != nil || current == resolved {
			return nil
		}

		name := entry.Name()
		if entry.IsDir() && matchesAnyPattern(excludePatterns, resolved, current, name) {
			return filepath.SkipDir
		}

		if strings.Contains(strings.ToLower(name), patternLower) && s.guard.Within(current) {
			mu.Lock()
			matches = append(matches, current)
			mu.Unlock()
		}

		return nil
	})
	if walkErr != nil && !os.IsNotExist(walkErr) {
		return nil, apierror.Internal(fmt.Sprintf("Failed to search under %s", path), walkErr.Error())
	}

	sort.Strings(matches)
	return matches, nil
}

// SearchContent scans files under path whose names match filePattern and
// returns every line containing query (case-insensitive). Unreadable files
// are skipped, not fatal.
func (s *SearchService) SearchContent(_ context.Context, path string, query string, recursive bool, filePattern string) ([]model.ContentMatch, error) {
	resolved, err := s.guard.Resolve(path)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(filePattern) == "" {
		filePattern = "*"
	}
	if !doublestar.ValidatePattern(filePattern) {
		return nil, apierror.BadRequest("Invalid file pattern", filePattern)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierror.NotFound("Directory not found", path)
		}
		return nil, apierror.Internal(fmt.Sprintf("Failed to search content under %s", path), err.Error())
	}
	if !info.IsDir() {
		return nil, apierror.BadRequest("Provided path is not a directory", path)
	}

	candidates, err := s.collectFiles(resolved, filePattern, recursive)
	if err != nil {
		return nil, apierror.Internal(fmt.Sprintf("Failed to search content under %s", path), err.Error())
	}

	// Scan sequentially over the sorted candidates so matches come back in a
	// stable file-then-line order.
	sort.Strings(candidates)

	queryLower := strings.ToLower(query)
	matches := make([]model.ContentMatch, 0)
	for _, file := range candidates {
		matches = append(matches, scanFile(file, queryLower)...)
	}

	return matches, nil
}

func (s *SearchService) collectFiles(root string, filePattern string, recursive bool) ([]string, error) {
	if !recursive {
		// Path-shaped patterns (sub/*.txt) address entries below the top
		// directory even without the recursive flag, so glob them against
		// relative paths instead of bare names.
		if strings.Contains(filePattern, "/") {
			files := make([]string, 0)
			err := doublestar.GlobWalk(os.DirFS(root), filePattern, func(match string, entry fs.DirEntry) error {
				if !entry.IsDir() {
					files = append(files, filepath.Join(root, filepath.FromSlash(match)))
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			return files, nil
		}

		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}

		files := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if ok, _ := doublestar.Match(filePattern, entry.Name()); ok {
				files = append(files, filepath.Join(root, entry.Name()))
			}
		}
		return files, nil
	}

	var mu sync.Mutex
	files := make([]string, 0)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(current string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}

		candidate := entry.Name()
		if strings.Contains(filePattern, "/") {
			rel, relErr := filepath.Rel(root, current)
			if relErr != nil {
				return nil
			}
			candidate = filepath.ToSlash(rel)
		}

		if ok, _ := doublestar.Match(filePattern, candidate); ok {
			mu.Lock()
			files = append(files, current)
			mu.Unlock()
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func scanFile(path string, queryLower string) []model.ContentMatch {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var matches []model.ContentMatch
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), scanBufferSize)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if strings.Contains(strings.ToLower(line), queryLower) {
			matches = append(matches, model.ContentMatch{
				FilePath:    path,
				LineNumber:  lineNumber,
				LineContent: strings.TrimSpace(line),
			})
		}
	}

	// Scanner errors (binary blobs with oversized lines, read failures) mean
	// the file is skipped from this point on, matching the skip-not-fail
	// contract for unreadable files.
	return matches
}

func matchesAnyPattern(patterns []string, root string, current string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}

		rel, err := filepath.Rel(root, current)
		if err != nil {
			continue
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); ok {
			return true
		}
	}

	return false
}
