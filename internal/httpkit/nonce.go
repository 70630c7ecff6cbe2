package httpkit

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"toolbelt-go/internal/secrets"
)

// DefaultNonceLifetime is how long a nonce stays verifiable. Verification
// accepts the current and the previous half-lifetime window, so a token is
// good for at least half the lifetime and at most the whole of it.
const DefaultNonceLifetime = 24 * time.Hour

var (
	// ErrNonceExpired means the token matched no live verification window.
	ErrNonceExpired = errors.New("nonce is invalid or has expired")
	// ErrNonceUsed means the token was already consumed.
	ErrNonceUsed = errors.New("nonce has already been used")
)

// Clock abstracts time retrieval so nonce windows are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// SessionStore tracks sessions and consumed nonces. Implementations must be
// safe for concurrent use.
type SessionStore interface {
	// NewSession creates a session and returns its ID.
	NewSession() (string, error)
	// SessionExists reports whether the session ID is known.
	SessionExists(id string) bool
	// ConsumeNonce records a token as used for a session. It returns
	// ErrNonceUsed when the token was consumed before.
	ConsumeNonce(sessionID, token string, expiresAt time.Time) error
}

// MemorySessionStore is an in-memory SessionStore. Consumed tokens are
// dropped after their window passes.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]bool
	used     map[string]time.Time // sessionID+"/"+token -> expiry
	clock    Clock
}

var _ SessionStore = (*MemorySessionStore)(nil)

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]bool),
		used:     make(map[string]time.Time),
		clock:    RealClock{},
	}
}

func (s *MemorySessionStore) NewSession() (string, error) {
	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = true
	s.mu.Unlock()
	return id, nil
}

func (s *MemorySessionStore) SessionExists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *MemorySessionStore) ConsumeNonce(sessionID, token string, expiresAt time.Time) error {
	key := sessionID + "/" + token
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, exp := range s.used {
		if exp.Before(now) {
			delete(s.used, k)
		}
	}
	if _, ok := s.used[key]; ok {
		return ErrNonceUsed
	}
	s.used[key] = expiresAt
	return nil
}

// NonceService issues and verifies action-bound one-time tokens. A token is
// an HMAC over (session, action, time window), so it needs no server-side
// storage to verify; the store only tracks consumption.
type NonceService struct {
	secret   string
	lifetime time.Duration
	clock    Clock
	store    SessionStore
}

// NewNonceService builds a service with the default lifetime and real clock.
func NewNonceService(secret string, store SessionStore) *NonceService {
	return &NonceService{
		secret:   secret,
		lifetime: DefaultNonceLifetime,
		clock:    RealClock{},
		store:    store,
	}
}

// SetLifetime overrides the nonce lifetime.
func (n *NonceService) SetLifetime(d time.Duration) { n.lifetime = d }

// SetClock overrides the clock. Use in tests.
func (n *NonceService) SetClock(c Clock) { n.clock = c }

// tick returns the current half-lifetime window number.
func (n *NonceService) tick() int64 {
	return n.clock.Now().UnixNano() / int64(n.lifetime/2)
}

func (n *NonceService) token(sessionID, action string, tick int64) string {
	payload := sessionID + "|" + action + "|" + strconv.FormatInt(tick, 10)
	// The full HMAC would work, but short tokens travel better in URLs.
	return secrets.SignKey(payload, n.secret)[:16]
}

// Create issues a nonce bound to a session and an action name.
func (n *NonceService) Create(sessionID, action string) (string, error) {
	if !n.store.SessionExists(sessionID) {
		return "", fmt.Errorf("unknown session %q", sessionID)
	}
	return n.token(sessionID, action, n.tick()), nil
}

// Verify checks a nonce against the current and previous windows, then
// consumes it so it cannot be replayed. Returns ErrNonceExpired when the
// token matches no live window and ErrNonceUsed on replay.
func (n *NonceService) Verify(sessionID, action, token string) error {
	if !n.store.SessionExists(sessionID) {
		return fmt.Errorf("unknown session %q", sessionID)
	}

	current := n.tick()
	matched := false
	for _, tick := range []int64{current, current - 1} {
		if subtle.ConstantTimeCompare([]byte(n.token(sessionID, action, tick)), []byte(token)) == 1 {
			matched = true
			break
		}
	}
	if !matched {
		return ErrNonceExpired
	}
	return n.store.ConsumeNonce(sessionID, token, n.clock.Now().Add(n.lifetime))
}
