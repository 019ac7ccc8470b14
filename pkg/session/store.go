package session

import (
	"os"
	"sync"
	"time"

	"github.com/daryl-piggybanx/streamlift/pkg/logger"
	xos "github.com/daryl-piggybanx/streamlift/pkg/os"
	"github.com/goccy/go-json"
)

// Store is the single source of truth for "is there a session".
// It keeps at most one descriptor, mirrored into a file so that other
// processes and later runs can pick the session up. Durability is
// best-effort: persist failures are logged and swallowed, the in-memory
// state still moves.
type Store struct {
	mu        sync.Mutex
	path      string
	maxAge    time.Duration
	lock      *xos.Flock
	current   Descriptor
	connected bool
	now       func() time.Time
	log       *logger.Logger
}

func NewStore(path string, maxAge time.Duration, log *logger.Logger) *Store {
	lock, err := xos.NewFileLock(path + ".lock")
	if err != nil {
		log.Warn().Err(err).Msg("session store runs without a file lock")
		lock = nil
	}
	return &Store{path: path, maxAge: maxAge, lock: lock, now: time.Now, log: log}
}

// Save persists d and makes it the current descriptor.
// CreatedAt is immutable: re-saving the same session keeps the original.
func (s *Store) Save(d Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.Same(d) && s.current.CreatedAt != 0 {
		d.CreatedAt = s.current.CreatedAt
	}
	s.current = d
	s.persist(d)
	s.log.Debug().Str("handle", d.Handle).Str("status", string(d.Status)).Msg("session saved")
}

// SetStatus moves the current descriptor along an allowed status edge.
// Disallowed edges are ignored, which keeps storage writes in causal
// order no matter how callbacks interleave.
func (s *Store) SetStatus(st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.Empty() || s.current.Status == st {
		return
	}
	if !s.current.Status.CanMove(st) {
		s.log.Warn().
			Str("from", string(s.current.Status)).
			Str("to", string(st)).
			Msg("session status edge rejected")
		return
	}
	s.current.Status = st
	s.persist(s.current)
}

// Clear removes the persisted descriptor and resets the connected flag.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	s.log.Debug().Msg("session cleared")
}

// Load returns the persisted descriptor, reconciling the in-memory copy.
// Expired or unreadable descriptors are treated as absence: the slot is
// cleared and an empty descriptor comes back. A descriptor aged exactly
// maxAge is still valid; only age strictly greater expires it.
func (s *Store) Load() Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Msg("session load failed")
			s.clearLocked()
		}
		return Descriptor{}
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil || d.Empty() {
		s.log.Warn().Err(err).Msg("session storage corrupted")
		s.clearLocked()
		return Descriptor{}
	}
	if d.Age(s.now()) > s.maxAge {
		s.log.Debug().Str("handle", d.Handle).Msg("session expired")
		s.clearLocked()
		return Descriptor{}
	}
	s.current = d
	return d
}

// Current returns the in-memory descriptor without touching storage.
func (s *Store) Current() Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Store) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Store) SetConnected(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = v
}

func (s *Store) clearLocked() {
	s.current = Descriptor{}
	s.connected = false
	s.locked(func() {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			s.log.Warn().Err(err).Msg("session file removal failed")
		}
	})
}

func (s *Store) persist(d Descriptor) {
	data, err := json.Marshal(d)
	if err != nil {
		s.log.Warn().Err(err).Msg("session not persisted")
		return
	}
	s.locked(func() {
		if err := os.WriteFile(s.path, data, 0660); err != nil {
			s.log.Warn().Err(err).Msg("session not persisted")
		}
	})
}

func (s *Store) read() (data []byte, err error) {
	s.locked(func() { data, err = os.ReadFile(s.path) })
	return
}

// locked guards file access against other processes sharing the slot.
func (s *Store) locked(fn func()) {
	if s.lock != nil {
		if err := s.lock.Lock(); err == nil {
			defer func() { _ = s.lock.Unlock() }()
		}
	}
	fn()
}
