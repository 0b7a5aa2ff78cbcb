package confirm

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// DefaultTTL is how long an issued confirmation token stays valid.
const DefaultTTL = 60 * time.Second

// ErrTokenNotFound covers every absence: never issued, already consumed, or
// expired. Callers cannot distinguish the three.
var ErrTokenNotFound = errors.New("confirmation token not found")

// Pending describes one destructive operation awaiting confirmation.
type Pending struct {
	Path      string    `json:"path"`
	Recursive bool      `json:"recursive"`
	Expiry    time.Time `json:"expiry"`
}

// Store issues and consumes single-use confirmation tokens.
type Store interface {
	Issue(path string, recursive bool) (token string, expiry time.Time, err error)
	Consume(token string) (Pending, error)
}

// FileStore persists pending confirmations as a single JSON snapshot that is
// rewritten whole on every mutation. Durability is advisory: the token
// mechanism is a safety speed-bump, not a source of truth, so read and write
// failures degrade to "no pending confirmations" rather than blocking the
// caller. Concurrent confirmations racing on the snapshot can lose updates
// (last writer wins); acceptable for a low-traffic single-operator tool.
type FileStore struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

func NewFileStore(path string, ttl time.Duration) *FileStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &FileStore{path: path, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

// Cleanup removes the snapshot file. Called once at startup: a restart
// invalidates every outstanding token.
func (s *FileStore) Cleanup() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove stale confirmation file", "path", s.path, "error", err)
	}
}

// Issue stores a new pending confirmation and returns its token.
func (s *FileStore) Issue(path string, recursive bool) (string, time.Time, error) {
	token, err := newToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate confirmation token: %w", err)
	}

	pending := s.load()
	expiry := s.now().Add(s.ttl)
	pending[token] = Pending{Path: path, Recursive: recursive, Expiry: expiry}
	s.save(pending)

	return token, expiry, nil
}

// Consume removes and returns the entry for token. Tokens are single-use:
// the entry is gone after this call regardless of what the caller does with
// the returned descriptor.
func (s *FileStore) Consume(token string) (Pending, error) {
	pending := s.load()
	entry, ok := pending[token]
	if !ok {
		return Pending{}, ErrTokenNotFound
	}

	delete(pending, token)
	s.save(pending)

	return entry, nil
}

// load reads the snapshot, silently dropping entries whose expiry has
// passed. A missing, unreadable, or malformed snapshot yields an empty map.
func (s *FileStore) load() map[string]Pending {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]Pending{}
	}

	var stored map[string]Pending
	if err := json.Unmarshal(raw, &stored); err != nil {
		return map[string]Pending{}
	}

	now := s.now()
	valid := make(map[string]Pending, len(stored))
	for token, entry := range stored {
		if entry.Expiry.After(now) {
			valid[token] = entry
		}
	}

	return valid
}

// save rewrites the whole snapshot. Failures are logged and swallowed.
func (s *FileStore) save(pending map[string]Pending) {
	raw, err := json.MarshalIndent(pending, "", "  ")
	if err != nil {
		slog.Warn("failed to serialize pending confirmations", "error", err)
		return
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		slog.Warn("failed to persist pending confirmations", "path", s.path, "error", err)
	}
}

func newToken() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
