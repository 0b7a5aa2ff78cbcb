//go:build integration

package integration

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fsgate/internal/model"
)

func TestWriteThenReadFile(t *testing.T) {
	server := newTestServer(t)
	target := filepath.Join(server.Root, "notes.txt")

	status, env := server.post(t, "/write_file", model.WriteFileRequest{
		Path:    target,
		Content: "hello world\n",
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)
	message := decodeData[model.MessageResponse](t, env)
	require.Equal(t, "Successfully wrote to "+target, message.Message)

	status, env = server.post(t, "/read_file", model.ReadFileRequest{Path: target})
	require.Equal(t, http.StatusOK, status)
	read := decodeData[model.ReadFileResponse](t, env)
	require.Equal(t, "hello world\n", read.Content)
}

func TestReadFileErrors(t *testing.T) {
	server := newTestServer(t)

	t.Run("missing file", func(t *testing.T) {
		status, env := server.post(t, "/read_file", model.ReadFileRequest{
			Path: filepath.Join(server.Root, "ghost.txt"),
		})
		require.Equal(t, http.StatusNotFound, status)
		require.False(t, env.Success)
		require.Equal(t, "NOT_FOUND", env.Error.Code)
	})

	t.Run("empty path", func(t *testing.T) {
		status, env := server.post(t, "/read_file", model.ReadFileRequest{})
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "BAD_REQUEST", env.Error.Code)
	})
}

func TestEditFile(t *testing.T) {
	server := newTestServer(t)
	target := filepath.Join(server.Root, "config.txt")
	require.NoError(t, os.WriteFile(target, []byte("timeout = 30\nretries = 3\n"), 0o644))

	t.Run("dry run returns a diff and leaves the file alone", func(t *testing.T) {
		status, env := server.post(t, "/edit_file", model.EditFileRequest{
			Path:   target,
			Edits:  []model.EditOperation{{OldText: "timeout = 30", NewText: "timeout = 60"}},
			DryRun: true,
		})
		require.Equal(t, http.StatusOK, status)

		diff := decodeData[model.DiffResponse](t, env)
		require.Contains(t, diff.Diff, "-timeout = 30")
		require.Contains(t, diff.Diff, "+timeout = 60")

		content, err := os.ReadFile(target)
		require.NoError(t, err)
		require.Equal(t, "timeout = 30\nretries = 3\n", string(content))
	})

	t.Run("real edit persists", func(t *testing.T) {
		status, env := server.post(t, "/edit_file", model.EditFileRequest{
			Path:  target,
			Edits: []model.EditOperation{{OldText: "timeout = 30", NewText: "timeout = 60"}},
		})
		require.Equal(t, http.StatusOK, status)
		require.True(t, env.Success)

		content, err := os.ReadFile(target)
		require.NoError(t, err)
		require.Equal(t, "timeout = 60\nretries = 3\n", string(content))
	})

	t.Run("unmatched oldText is rejected", func(t *testing.T) {
		status, env := server.post(t, "/edit_file", model.EditFileRequest{
			Path:  target,
			Edits: []model.EditOperation{{OldText: "absent", NewText: "x"}},
		})
		require.Equal(t, http.StatusBadRequest, status)
		require.Contains(t, env.Error.Message, "oldText not found")
	})

	t.Run("empty edits are rejected", func(t *testing.T) {
		status, _ := server.post(t, "/edit_file", model.EditFileRequest{Path: target})
		require.Equal(t, http.StatusBadRequest, status)
	})
}
