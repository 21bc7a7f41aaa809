// internal/store/memory.go
//
// In-memory session store.
// Characteristics:
//   - Stores *Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each Session serialises access to its game, so concurrent guesses on
//     one session never interleave.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/game"
)

// ErrNotFound is returned when a session or row does not exist.
var ErrNotFound = errors.New("not found")

// Mode distinguishes free play from the daily puzzle.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeDaily  Mode = "daily"
)

// Session is one in-progress or finished round plus who is playing it.
type Session struct {
	ID        string
	UserID    string // set for signed-in players
	AnonID    string // set for guests
	Mode      Mode
	Date      string // daily only
	WordIndex int    // daily only
	StartedAt time.Time

	mu   sync.Mutex
	game *game.Game
}

// NewSession wraps g in a session with a fresh random ID.
func NewSession(g *game.Game, mode Mode) *Session {
	return &Session{
		ID:        RandomID(),
		Mode:      mode,
		StartedAt: time.Now(),
		game:      g,
	}
}

// Owner returns the user ID when set, otherwise the anonymous ID.
func (s *Session) Owner() string {
	if s.UserID != "" {
		return s.UserID
	}
	return s.AnonID
}

// Do runs fn with exclusive access to the session's game.
func (s *Session) Do(fn func(g *game.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.game)
}

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID. Missing IDs yield ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete drops a session. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions map
	sessions map[string]*Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return oops.Errorf("store: session without ID")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, oops.With("session_id", id).Wrap(ErrNotFound)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// RandomID returns a new lexically sortable identifier (a ULID).
func RandomID() string {
	return ulid.Make().String()
}
