// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/t2t-tui/internal/util"
)

// SessionFileName is the default file name inside the config directory.
const SessionFileName = "session.json"

// =============================================================================
// STORED SESSION TYPES
// =============================================================================

// SessionFile is the on-disk document. Entries are keyed by server URL.
type SessionFile struct {
	Version int                       `json:"version"`
	Servers map[string]*ServerSession `json:"servers"`
}

// ServerSession is the persisted state for one server.
type ServerSession struct {
	Cookies   []StoredCookie `json:"cookies,omitempty"`
	LastEmail string         `json:"last_email,omitempty"`
	SavedAt   time.Time      `json:"saved_at"`
}

// StoredCookie is the subset of http.Cookie the jar hands back.
type StoredCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ErrCorruptSession indicates the session file could not be decoded.
var ErrCorruptSession = errors.New("session file is corrupt")

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore persists the session for a single server. It is safe for
// concurrent use; writes are atomic.
type SessionStore struct {
	path   string
	server string

	mu sync.Mutex
}

// NewSessionStore creates a store for server backed by the file at path.
func NewSessionStore(path, server string) *SessionStore {
	return &SessionStore{
		path:   path,
		server: normalizeServer(server),
	}
}

// Path returns the backing file path.
func (s *SessionStore) Path() string {
	return s.path
}

func normalizeServer(server string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(server), "/"))
}

// LoadCookies returns the saved cookies for the server.
func (s *SessionStore) LoadCookies() ([]*http.Cookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return nil, err
	}
	entry := file.Servers[s.server]
	if entry == nil {
		return nil, nil
	}

	cookies := make([]*http.Cookie, 0, len(entry.Cookies))
	for _, c := range entry.Cookies {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	return cookies, nil
}

// SaveCookies replaces the saved cookies for the server. Saving an empty
// set removes them.
func (s *SessionStore) SaveCookies(cookies []*http.Cookie) error {
	stored := make([]StoredCookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Value == "" {
			continue
		}
		stored = append(stored, StoredCookie{Name: c.Name, Value: c.Value})
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].Name < stored[j].Name })

	return s.update(func(entry *ServerSession) bool {
		if cookiesEqual(entry.Cookies, stored) {
			return false
		}
		entry.Cookies = stored
		return true
	})
}

// ClearCookies forgets the server's cookies but keeps the last email.
func (s *SessionStore) ClearCookies() error {
	return s.update(func(entry *ServerSession) bool {
		if len(entry.Cookies) == 0 {
			return false
		}
		entry.Cookies = nil
		return true
	})
}

// LastEmail returns the email last used to sign in to the server.
func (s *SessionStore) LastEmail() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return ""
	}
	if entry := file.Servers[s.server]; entry != nil {
		return entry.LastEmail
	}
	return ""
}

// SetLastEmail records the email used to sign in.
func (s *SessionStore) SetLastEmail(email string) error {
	return s.update(func(entry *ServerSession) bool {
		if entry.LastEmail == email {
			return false
		}
		entry.LastEmail = email
		return true
	})
}

// update applies fn to the server's entry and writes the file if fn
// reports a change.
func (s *SessionStore) update(fn func(entry *ServerSession) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		if !errors.Is(err, ErrCorruptSession) {
			return err
		}
		// A corrupt file is replaced rather than blocking login forever.
		file = &SessionFile{}
	}
	if file.Servers == nil {
		file.Servers = make(map[string]*ServerSession)
	}

	entry := file.Servers[s.server]
	if entry == nil {
		entry = &ServerSession{}
		file.Servers[s.server] = entry
	}
	if !fn(entry) {
		return nil
	}
	entry.SavedAt = time.Now().UTC()

	if len(entry.Cookies) == 0 && entry.LastEmail == "" {
		delete(file.Servers, s.server)
	}

	file.Version = 1
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	// Session cookies are credentials.
	return util.AtomicWriteFile(s.path, data, 0600)
}

func (s *SessionStore) read() (*SessionFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &SessionFile{Servers: map[string]*ServerSession{}}, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var file SessionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if file.Servers == nil {
		file.Servers = map[string]*ServerSession{}
	}
	return &file, nil
}

func cookiesEqual(a, b []StoredCookie) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
