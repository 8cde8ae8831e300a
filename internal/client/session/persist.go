package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/noverdy/ispcli/internal/client/models"
)

// SnapshotFile is the name of the persisted session snapshot inside the
// configured state directory.
const SnapshotFile = "auth-store.json"

// snapshot is the durable subset of the session: identity and credential.
// Loading state and error text are transient and never persisted.
type snapshot struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// restore loads the snapshot from disk. A missing or unreadable file leaves
// the store logged out; corruption is not fatal to startup.
func (s *Store) restore() {
	if s.snapshotPath == "" {
		return
	}

	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return
	}
	if snap.Token == "" || snap.User == nil {
		return
	}

	s.mu.Lock()
	s.user = snap.User
	s.token = snap.Token
	s.mu.Unlock()
}

// save writes the current identity and credential to disk, best effort.
// Called after every state change that affects them.
func (s *Store) save() {
	if s.snapshotPath == "" {
		return
	}

	s.mu.Lock()
	snap := snapshot{User: s.user, Token: s.token}
	s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return
	}

	if dir := filepath.Dir(s.snapshotPath); dir != "." {
		_ = os.MkdirAll(dir, 0o700)
	}
	_ = os.WriteFile(s.snapshotPath, data, 0o600)
}
