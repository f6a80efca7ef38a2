package session

import (
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
)

// TopicChanged is published on every session transition. The payload is
// true after a login and false after a logout, so views can redirect to
// the landing route when the session tears down.
const TopicChanged = "session:changed"

// ErrSessionSuperseded is returned by CompleteLogin when a logout was
// issued after the login attempt started. Logout wins.
var ErrSessionSuperseded = errors.New("session superseded by logout")

// Store holds the single process-wide session. Transitions are atomic:
// a reader never observes a credential without its identity or the
// reverse.
type Store struct {
	mu         sync.Mutex
	epoch      uint64
	credential string
	identity   *Identity
	bus        EventBus.Bus
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		bus: EventBus.New(),
		now: time.Now,
	}
}

// Bus exposes the store's event bus for session change subscriptions.
func (s *Store) Bus() EventBus.Bus {
	return s.bus
}

// Login decodes the credential and installs it together with its
// identity in one step. A decode failure leaves the store untouched and
// propagates to the caller.
func (s *Store) Login(credential string) error {
	return s.CompleteLogin(s.BeginLogin(), credential)
}

// BeginLogin returns a ticket bound to the current session epoch. Pass
// it to CompleteLogin after the credential has been obtained; a logout
// in between invalidates the ticket.
func (s *Store) BeginLogin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// CompleteLogin installs the credential unless a logout superseded the
// ticket. Decoding happens before any state is touched.
func (s *Store) CompleteLogin(ticket uint64, credential string) error {
	identity, err := Decode(credential)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if ticket != s.epoch {
		s.mu.Unlock()
		return ErrSessionSuperseded
	}
	s.credential = credential
	s.identity = identity
	s.mu.Unlock()

	s.bus.Publish(TopicChanged, true)
	return nil
}

// Logout unconditionally clears the session. It never performs network
// I/O, so local teardown cannot be blocked by a server round-trip.
func (s *Store) Logout() {
	s.mu.Lock()
	s.epoch++
	s.credential = ""
	s.identity = nil
	s.mu.Unlock()

	s.bus.Publish(TopicChanged, false)
}

// CurrentIdentity returns the identity derived from the held credential,
// or nil when anonymous. Never fails.
func (s *Store) CurrentIdentity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	identity := *s.identity
	return &identity
}

// Credential returns the held bearer credential, empty when anonymous.
func (s *Store) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

// Authenticated reports whether a credential is held and unexpired.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential != "" && s.identity != nil && !s.identity.Expired(s.now())
}
