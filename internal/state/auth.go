package state

import (
	"context"
	"strconv"
	"strings"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/types"
)

type authState struct {
	user          *types.User
	authenticated bool
	initialized   bool
	err           string
}

// AuthSnapshot is the auth slice's point-in-time state.
type AuthSnapshot struct {
	User            *types.User
	IsAuthenticated bool
	// Initialized flips to true exactly once, when the first session
	// initialization settles. Frontends must not render protected UI
	// before it is set, or an authenticated user flashes as logged out.
	Initialized bool
	Err         string
}

// Auth returns the current auth slice snapshot.
func (s *Store) Auth() AuthSnapshot {
	s.authMu.Lock()
	defer s.authMu.Unlock()

	snap := AuthSnapshot{
		IsAuthenticated: s.auth.authenticated,
		Initialized:     s.auth.initialized,
		Err:             s.auth.err,
	}
	if s.auth.user != nil {
		u := *s.auth.user
		snap.User = &u
	}
	return snap
}

// InitSession restores the session at startup: silently refresh the access
// token, then fetch the current user. Any failure — including a refresh
// rejection — lands in the anonymous state. The transition always completes
// and always sets Initialized, whatever the backend does.
//
// Returns whether the session came back authenticated.
func (s *Store) InitSession(ctx context.Context) bool {
	var user *types.User
	if err := s.api.Refresh(ctx); err != nil {
		s.logger.Printf("Session refresh failed, starting anonymous: %v", err)
	} else {
		me, err := s.api.Me(ctx)
		switch {
		case err != nil:
			s.logger.Printf("Current-user fetch failed, starting anonymous: %v", err)
		case me.ID == 0:
			s.logger.Printf("Session restore returned no identity, starting anonymous")
		default:
			user = userFromWire(me, "", "")
		}
	}

	s.authMu.Lock()
	s.auth.initialized = true
	s.auth.user = user
	s.auth.authenticated = user != nil
	s.authMu.Unlock()

	if user != nil {
		s.publish(EventAuthChange, "restored", user.ID)
	}
	return user != nil
}

// Login authenticates with the backend, then fetches the current user to
// populate the slice. On failure the display error is stored and the slice
// stays anonymous.
func (s *Store) Login(ctx context.Context, email, password string) (*types.User, error) {
	if err := s.api.Login(ctx, email, password); err != nil {
		s.setAuthError(displayMessage(err, "Login failed"))
		return nil, err
	}

	me, err := s.api.Me(ctx)
	if err != nil {
		s.setAuthError(displayMessage(err, "Login failed"))
		return nil, err
	}

	// The backend may omit fields; fall back to what the user typed.
	user := userFromWire(me, localPart(email), email)
	s.setAuthenticated(user)
	s.publish(EventAuthChange, "login", user.ID)
	return user, nil
}

// Register creates an account, which also establishes a session, then
// fetches the current user like Login does.
func (s *Store) Register(ctx context.Context, name, email, password string) (*types.User, error) {
	if err := s.api.Register(ctx, name, email, password); err != nil {
		s.setAuthError(displayMessage(err, "Registration failed"))
		return nil, err
	}

	me, err := s.api.Me(ctx)
	if err != nil {
		s.setAuthError(displayMessage(err, "Registration failed"))
		return nil, err
	}

	user := userFromWire(me, name, email)
	s.setAuthenticated(user)
	s.publish(EventAuthChange, "register", user.ID)
	return user, nil
}

// UpdateProfile refreshes the user record and merges in the requested
// changes for fields the backend did not return.
//
// TODO: call the backend once a profile update endpoint exists; today this
// only re-fetches and merges, so changes do not stick server-side.
func (s *Store) UpdateProfile(ctx context.Context, name, email, avatar string) (*types.User, error) {
	me, err := s.api.Me(ctx)
	if err != nil {
		s.setAuthError(displayMessage(err, "Profile update failed"))
		return nil, err
	}

	user := userFromWire(me, name, email)
	if user.Avatar == "" {
		user.Avatar = avatar
	}

	s.authMu.Lock()
	s.auth.user = user
	s.auth.err = ""
	s.authMu.Unlock()

	s.publish(EventAuthChange, "profile", user.ID)
	u := *user
	return &u, nil
}

// Logout clears the user, the authenticated flag, and every cached server
// query, since cached results belong to the session that fetched them. It is
// synchronous and local: server-side session invalidation, if any, is the
// backend's concern.
func (s *Store) Logout() {
	s.authMu.Lock()
	id := ""
	if s.auth.user != nil {
		id = s.auth.user.ID
	}
	s.auth.user = nil
	s.auth.authenticated = false
	s.auth.err = ""
	s.authMu.Unlock()

	s.cache.Clear()

	s.publish(EventAuthChange, "logout", id)
}

// ClearAuthError drops the stored auth display error.
func (s *Store) ClearAuthError() {
	s.authMu.Lock()
	s.auth.err = ""
	s.authMu.Unlock()
}

func (s *Store) setAuthenticated(user *types.User) {
	s.authMu.Lock()
	s.auth.user = user
	s.auth.authenticated = true
	s.auth.err = ""
	s.authMu.Unlock()
}

func (s *Store) setAuthError(msg string) {
	s.authMu.Lock()
	s.auth.err = msg
	s.authMu.Unlock()
}

// userFromWire maps a backend user record into the domain User, deriving
// initials and filling gaps from the fallbacks.
func userFromWire(me *api.WireUser, fallbackName, fallbackEmail string) *types.User {
	name := me.Name
	if name == "" {
		name = fallbackName
	}
	email := me.Email
	if email == "" {
		email = fallbackEmail
	}
	return &types.User{
		ID:       strconv.FormatInt(me.ID, 10),
		Name:     name,
		Email:    email,
		Avatar:   me.Avatar,
		Initials: types.Initials(name),
	}
}

// localPart returns the part of an email address before the '@'.
func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}
