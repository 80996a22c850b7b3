// Package session holds the client's bearer token and user identity.
//
// The state lives in memory and mirrors into a storage.Storage so it
// survives process restarts, the same way the browser build kept it in
// localStorage. Absence of a token means anonymous/guest.
package session

import (
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/loja-storefront/internal/storage"
)

// Store is the session/auth state. All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	store   storage.Storage
	token   string
	role    string
	usuario string

	// onForcedLogout is invoked after a forced logout has cleared the
	// state, typically to navigate back to the login entry point.
	onForcedLogout func()
}

// NewStore restores any previously persisted session from st.
func NewStore(st storage.Storage) *Store {
	s := &Store{store: st}
	if v, ok := st.Get(storage.KeyToken); ok {
		s.token = v
	}
	if v, ok := st.Get(storage.KeyUserRole); ok {
		s.role = v
	}
	if v, ok := st.Get(storage.KeyUsuario); ok {
		s.usuario = v
	}
	return s
}

// OnForcedLogout registers the redirect hook run after a forced logout.
func (s *Store) OnForcedLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onForcedLogout = fn
}

// Login stores the token, role and username in memory and in durable
// storage. Subsequent backend requests attach the token as a bearer
// credential.
func (s *Store) Login(token, role, usuario string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.role = role
	s.usuario = usuario

	if err := s.store.Set(storage.KeyToken, token); err != nil {
		return err
	}
	if err := s.store.Set(storage.KeyUserRole, role); err != nil {
		return err
	}
	return s.store.Set(storage.KeyUsuario, usuario)
}

// Logout clears the in-memory state and the durable storage keys.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// ForceLogout clears the session like Logout and then runs the registered
// redirect hook. The HTTP client layer calls this on any 401 response.
func (s *Store) ForceLogout() {
	s.mu.Lock()
	s.clearLocked()
	fn := s.onForcedLogout
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (s *Store) clearLocked() {
	s.token = ""
	s.role = ""
	s.usuario = ""
	_ = s.store.Delete(storage.KeyToken)
	_ = s.store.Delete(storage.KeyUserRole)
	_ = s.store.Delete(storage.KeyUsuario)
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

func (s *Store) Usuario() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usuario
}

func (s *Store) IsLoggedIn() bool {
	return s.Token() != ""
}

// Claims decodes the token's claims without verifying the signature. The
// client has no signing key; this is only for reading the subject and
// expiry for display. Returns false when no token is set or it is not a
// parseable JWT.
func (s *Store) Claims() (jwt.MapClaims, bool) {
	token := s.Token()
	if token == "" {
		return nil, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}
