//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fsgate/internal/config"
	"fsgate/internal/confirm"
	"fsgate/internal/handler"
	"fsgate/internal/pathguard"
	"fsgate/internal/repository"
	"fsgate/internal/router"
	"fsgate/internal/service"
)

type testServer struct {
	*httptest.Server

	// Root is the single allowed directory, already canonicalized.
	Root string

	confirmationFile string
	confirmationTTL  time.Duration
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	root := t.TempDir()
	guard, err := pathguard.New([]string{root})
	require.NoError(t, err)

	stateDir := t.TempDir()
	confirmationFile := filepath.Join(stateDir, "pending.json")
	confirmations := confirm.NewFileStore(confirmationFile, time.Minute)

	auditRepo, err := repository.NewAuditRepository(filepath.Join(stateDir, "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = auditRepo.Close() })
	auditService := service.NewAuditService(auditRepo)

	cfg := &config.Config{
		ServerPort:         "8080",
		ServerReadTimeout:  15 * time.Second,
		ServerWriteTimeout: 30 * time.Second,
		ServerIdleTimeout:  120 * time.Second,
		RequestTimeout:     30 * time.Second,
		AllowedDirectories: []string{root},
		ConfirmationFile:   confirmationFile,
		ConfirmationTTL:    time.Minute,
		CORSOrigins:        []string{"*"},
		RateLimitRPM:       10000,
	}

	appRouter := router.New(cfg, router.Handlers{
		File:       handler.NewFileHandler(service.NewFileService(guard, auditService)),
		Directory:  handler.NewDirectoryHandler(service.NewDirectoryService(guard, auditService), service.NewSearchService(guard)),
		Operations: handler.NewOperationsHandler(service.NewOperationsService(guard, confirmations, auditService), guard),
		Audit:      handler.NewAuditHandler(auditService),
	})

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)

	return &testServer{
		Server:           server,
		Root:             guard.Roots()[0],
		confirmationFile: confirmationFile,
		confirmationTTL:  time.Minute,
	}
}

func (s *testServer) post(t *testing.T, path string, payload any) (int, envelope) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(s.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	return resp.StatusCode, env
}

func (s *testServer) get(t *testing.T, path string) (int, envelope) {
	t.Helper()

	resp, err := http.Get(s.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))

	return out
}
