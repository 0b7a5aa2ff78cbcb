//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fsgate/internal/confirm"
	"fsgate/internal/model"
)

func TestDeletePathWorkflow(t *testing.T) {
	server := newTestServer(t)
	target := filepath.Join(server.Root, "old.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	// First call: no token, so the server issues one and deletes nothing.
	status, env := server.post(t, "/delete_path", model.DeletePathRequest{Path: target})
	require.Equal(t, http.StatusOK, status)

	pending := decodeData[model.ConfirmationRequiredResponse](t, env)
	require.NotEmpty(t, pending.ConfirmationToken)
	require.Contains(t, pending.Message, pending.ConfirmationToken)
	require.True(t, pending.ExpiresAt.After(time.Now()))

	_, statErr := os.Stat(target)
	require.NoError(t, statErr)

	// Second call with the token executes the delete.
	status, env = server.post(t, "/delete_path", model.DeletePathRequest{
		Path:              target,
		ConfirmationToken: pending.ConfirmationToken,
	})
	require.Equal(t, http.StatusOK, status)
	message := decodeData[model.MessageResponse](t, env)
	require.Equal(t, "Successfully deleted file: "+target, message.Message)

	_, statErr = os.Stat(target)
	require.True(t, os.IsNotExist(statErr))

	// The token is spent.
	status, env = server.post(t, "/delete_path", model.DeletePathRequest{
		Path:              target,
		ConfirmationToken: pending.ConfirmationToken,
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Invalid or expired confirmation token", env.Error.Message)
}

func TestDeletePathParameterMismatch(t *testing.T) {
	server := newTestServer(t)
	dir := filepath.Join(server.Root, "cache")
	require.NoError(t, os.Mkdir(dir, 0o755))

	status, env := server.post(t, "/delete_path", model.DeletePathRequest{Path: dir})
	require.Equal(t, http.StatusOK, status)
	pending := decodeData[model.ConfirmationRequiredResponse](t, env)

	status, env = server.post(t, "/delete_path", model.DeletePathRequest{
		Path:              dir,
		Recursive:         true,
		ConfirmationToken: pending.ConfirmationToken,
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, env.Error.Message, "do not match")

	// The mismatch burned the token.
	status, env = server.post(t, "/delete_path", model.DeletePathRequest{
		Path:              dir,
		ConfirmationToken: pending.ConfirmationToken,
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Invalid or expired confirmation token", env.Error.Message)
}

func TestDeletePathRestartInvalidatesTokens(t *testing.T) {
	server := newTestServer(t)
	target := filepath.Join(server.Root, "old.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	status, env := server.post(t, "/delete_path", model.DeletePathRequest{Path: target})
	require.Equal(t, http.StatusOK, status)
	pending := decodeData[model.ConfirmationRequiredResponse](t, env)

	// Startup wipes the snapshot, exactly what App.New does on boot.
	restarted := confirm.NewFileStore(server.confirmationFile, server.confirmationTTL)
	restarted.Cleanup()

	status, env = server.post(t, "/delete_path", model.DeletePathRequest{
		Path:              target,
		ConfirmationToken: pending.ConfirmationToken,
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Invalid or expired confirmation token", env.Error.Message)
}

func TestMovePathEndpoint(t *testing.T) {
	server := newTestServer(t)
	source := filepath.Join(server.Root, "a.txt")
	destination := filepath.Join(server.Root, "archive", "b.txt")
	require.NoError(t, os.WriteFile(source, []byte("payload"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(server.Root, "archive"), 0o755))

	status, env := server.post(t, "/move_path", model.MovePathRequest{
		SourcePath:      source,
		DestinationPath: destination,
	})
	require.Equal(t, http.StatusOK, status)
	message := decodeData[model.MessageResponse](t, env)
	require.Contains(t, message.Message, "Successfully moved")

	content, err := os.ReadFile(destination)
	require.NoError(t, err)
	require.Equal(t, "payload", string(content))
}

func TestGetMetadataEndpoint(t *testing.T) {
	server := newTestServer(t)
	target := filepath.Join(server.Root, "data.bin")
	require.NoError(t, os.WriteFile(target, []byte("12345"), 0o644))

	status, env := server.post(t, "/get_metadata", model.GetMetadataRequest{Path: target})
	require.Equal(t, http.StatusOK, status)

	meta := decodeData[model.Metadata](t, env)
	require.Equal(t, "file", meta.Type)
	require.Equal(t, int64(5), meta.SizeBytes)
	require.False(t, meta.ModificationTimeUTC.IsZero())
}

func TestAuditEndpoint(t *testing.T) {
	server := newTestServer(t)
	target := filepath.Join(server.Root, "notes.txt")

	status, _ := server.post(t, "/write_file", model.WriteFileRequest{Path: target, Content: "x"})
	require.Equal(t, http.StatusOK, status)

	status, env := server.get(t, "/audit?limit=10")
	require.Equal(t, http.StatusOK, status)

	var body struct {
		Items []model.AuditEntry `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	require.Len(t, body.Items, 1)
	require.Equal(t, "write_file", body.Items[0].Action)
	require.Equal(t, target, body.Items[0].Path)
	require.Equal(t, "ok", body.Items[0].Status)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
