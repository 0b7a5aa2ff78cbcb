package pathguard

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuardResolve(t *testing.T) {
	root := t.TempDir()
	guard, err := New([]string{root})
	require.NoError(t, err)

	canonicalRoot := guard.Roots()[0]

	t.Run("root itself is accepted", func(t *testing.T) {
		resolved, resolveErr := guard.Resolve(root)
		require.NoError(t, resolveErr)
		require.Equal(t, canonicalRoot, resolved)
	})

	t.Run("nested path is accepted", func(t *testing.T) {
		resolved, resolveErr := guard.Resolve(filepath.Join(root, "documents", "report.txt"))
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(canonicalRoot, "documents", "report.txt"), resolved)
	})

	t.Run("nonexistent leaf is still resolved", func(t *testing.T) {
		resolved, resolveErr := guard.Resolve(filepath.Join(root, "does", "not", "exist.txt"))
		require.NoError(t, resolveErr)
		require.True(t, strings.HasPrefix(resolved, canonicalRoot))
	})

	t.Run("path outside every root is denied", func(t *testing.T) {
		outside := t.TempDir()
		_, resolveErr := guard.Resolve(filepath.Join(outside, "secret.txt"))

		var denied *DeniedError
		require.ErrorAs(t, resolveErr, &denied)
		require.Equal(t, guard.Roots(), denied.AllowedDirectories)
	})

	t.Run("dot-dot traversal cannot escape", func(t *testing.T) {
		_, resolveErr := guard.Resolve(filepath.Join(root, "..", "escape.txt"))

		var denied *DeniedError
		require.ErrorAs(t, resolveErr, &denied)
	})

	t.Run("matching is a plain string prefix", func(t *testing.T) {
		base := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(base, "data"), 0o755))
		require.NoError(t, os.Mkdir(filepath.Join(base, "database"), 0o755))

		scoped, newErr := New([]string{filepath.Join(base, "data")})
		require.NoError(t, newErr)

		// The prefix is not anchored at a separator: a sibling directory
		// sharing the root's name prefix is admitted too.
		resolved, resolveErr := scoped.Resolve(filepath.Join(base, "database", "x.txt"))
		require.NoError(t, resolveErr)
		require.True(t, scoped.Within(resolved))
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		upper := strings.ToUpper(canonicalRoot)
		resolved, resolveErr := guard.Resolve(filepath.Join(upper, "notes.txt"))
		require.NoError(t, resolveErr)
		require.True(t, guard.Within(resolved))
	})

	t.Run("home shorthand is expanded", func(t *testing.T) {
		t.Setenv("HOME", root)
		resolved, resolveErr := guard.Resolve("~/notes.txt")
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(canonicalRoot, "notes.txt"), resolved)
	})
}

func TestGuardResolveSymlinkTarget(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	link := filepath.Join(root, "link")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	guard, err := New([]string{root})
	require.NoError(t, err)

	// The symlink resolves to a directory outside the allow-list, so a path
	// through it must be denied even though the literal string is inside.
	_, resolveErr := guard.Resolve(filepath.Join(link, "file.txt"))

	var denied *DeniedError
	require.True(t, errors.As(resolveErr, &denied))
}

func TestGuardNew(t *testing.T) {
	t.Run("empty list is rejected", func(t *testing.T) {
		_, err := New(nil)
		require.Error(t, err)
	})

	t.Run("blank entry is rejected", func(t *testing.T) {
		_, err := New([]string{"  "})
		require.Error(t, err)
	})

	t.Run("multiple roots are all honored", func(t *testing.T) {
		first := t.TempDir()
		second := t.TempDir()
		guard, err := New([]string{first, second})
		require.NoError(t, err)

		_, err = guard.Resolve(filepath.Join(first, "a.txt"))
		require.NoError(t, err)
		_, err = guard.Resolve(filepath.Join(second, "b.txt"))
		require.NoError(t, err)
	})
}
