package bot

import (
	"strconv"
	"time"

	"github.com/ppiankov/persona/internal/cache"
	"github.com/ppiankov/persona/internal/model"
)

// State is where a chat is in the search flow
type State int

const (
	StateIdle State = iota
	StateAwaitingName
	StateViewing
)

func (s State) String() string {
	switch s {
	case StateAwaitingName:
		return "awaiting_name"
	case StateViewing:
		return "viewing"
	default:
		return "idle"
	}
}

// Session is the per-chat state. Profile is the last resolved profile.
type Session struct {
	State   State
	Profile *model.Profile
}

// Sessions keeps chat sessions in memory until they expire
type Sessions struct {
	store cache.Cache[*Session]
	ttl   time.Duration
}

// NewSessions creates a session store whose entries expire after ttl of inactivity
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Sessions{
		store: cache.NewMemory[*Session](ttl, ttl/2),
		ttl:   ttl,
	}
}

// Get returns the chat's session, or a fresh idle one
func (s *Sessions) Get(chatID int64) *Session {
	if sess, ok := s.store.Get(sessionKey(chatID)); ok {
		return sess
	}
	return &Session{State: StateIdle}
}

// Save stores the session and restarts its expiry
func (s *Sessions) Save(chatID int64, sess *Session) {
	s.store.Set(sessionKey(chatID), sess, s.ttl)
}

// Clear drops the chat's session
func (s *Sessions) Clear(chatID int64) {
	s.store.Delete(sessionKey(chatID))
}

// Len returns the number of live sessions
func (s *Sessions) Len() int {
	return s.store.Len()
}

func sessionKey(chatID int64) string {
	return cache.Key("session", strconv.FormatInt(chatID, 10))
}
