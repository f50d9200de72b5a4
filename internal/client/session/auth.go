package session

import (
	"context"
	"sync"

	"github.com/avelkov/dreamchat/internal/client/api"
	"github.com/avelkov/dreamchat/internal/client/credstore"
	"github.com/avelkov/dreamchat/internal/logging"
	"github.com/avelkov/dreamchat/internal/models"
)

// AuthState is the authentication half of the application state. The user
// and token are set and cleared together; IsAuthenticated never observes a
// mixed pair.
type AuthState struct {
	CurrentUser  *models.User
	AccessToken  string
	ErrorMessage string
}

// IsAuthenticated reports whether a complete session is present.
func (s AuthState) IsAuthenticated() bool {
	return s.CurrentUser != nil && s.AccessToken != ""
}

// AuthEvent is the closed set of events the auth session reduces.
type AuthEvent interface{ authEvent() }

// AuthCheckRequested starts the auto-login probe against stored
// credentials. It always resolves to a definite authenticated or
// unauthenticated outcome; no failure escapes to the caller.
type AuthCheckRequested struct{}

// AuthLoginSucceeded adopts a fresh login result. Both fields are persisted
// before the in-memory state changes, so a persistence failure leaves the
// session unchanged rather than half-set.
type AuthLoginSucceeded struct {
	User  models.User
	Token string
}

// AuthLogoutRequested clears the session; safe when already logged out.
type AuthLogoutRequested struct{}

// AuthDismissError clears the error slot.
type AuthDismissError struct{}

type authCheckCompleted struct {
	user  *models.User
	token string
}

type authSessionPersisted struct {
	user  models.User
	token string
}

type authPersistFailed struct{ err error }

func (AuthCheckRequested) authEvent()   {}
func (AuthLoginSucceeded) authEvent()   {}
func (AuthLogoutRequested) authEvent()  {}
func (AuthDismissError) authEvent()     {}
func (authCheckCompleted) authEvent()   {}
func (authSessionPersisted) authEvent() {}
func (authPersistFailed) authEvent()    {}

type authEffect func(ctx context.Context) AuthEvent

// AuthSession owns authentication state and the auto-login/logout flows.
type AuthSession struct {
	gw    api.Gateway
	store credstore.Store
	log   logging.Logger

	mu    sync.Mutex
	wg    sync.WaitGroup
	state AuthState
}

func NewAuthSession(gw api.Gateway, store credstore.Store, log logging.Logger) *AuthSession {
	return &AuthSession{gw: gw, store: store, log: log}
}

// Dispatch applies ev and starts any follow-up effects. It returns without
// waiting for effects to complete.
func (s *AuthSession) Dispatch(ctx context.Context, ev AuthEvent) {
	s.mu.Lock()
	effects := s.reduce(ev)
	s.mu.Unlock()

	for _, eff := range effects {
		s.wg.Add(1)
		go func(run authEffect) {
			defer s.wg.Done()
			if next := run(ctx); next != nil {
				s.Dispatch(ctx, next)
			}
		}(eff)
	}
}

// Wait blocks until all outstanding effects have settled.
func (s *AuthSession) Wait() {
	s.wg.Wait()
}

// State returns a snapshot of the session state.
func (s *AuthSession) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.CurrentUser != nil {
		u := *st.CurrentUser
		st.CurrentUser = &u
	}
	return st
}

func (s *AuthSession) reduce(ev AuthEvent) []authEffect {
	switch ev := ev.(type) {
	case AuthCheckRequested:
		return []authEffect{s.checkEffect()}

	case authCheckCompleted:
		s.state.CurrentUser = ev.user
		s.state.AccessToken = ev.token
		return nil

	case AuthLoginSucceeded:
		user, token := ev.User, ev.Token
		return []authEffect{func(ctx context.Context) AuthEvent {
			if err := s.store.SetSession(ctx, &user, token); err != nil {
				return authPersistFailed{err: err}
			}
			return authSessionPersisted{user: user, token: token}
		}}

	case authSessionPersisted:
		u := ev.user
		s.state.CurrentUser = &u
		s.state.AccessToken = ev.token
		s.state.ErrorMessage = ""
		return nil

	case authPersistFailed:
		// both fields stay as they were; no half-set session
		s.log.Error(context.Background(), "persisting login session failed", "err", ev.err)
		s.state.ErrorMessage = "could not save the login session"
		return nil

	case AuthLogoutRequested:
		s.state.CurrentUser = nil
		s.state.AccessToken = ""
		return []authEffect{func(ctx context.Context) AuthEvent {
			if err := s.store.Clear(ctx); err != nil {
				s.log.Error(ctx, "clearing stored credentials failed", "err", err)
			}
			return nil
		}}

	case AuthDismissError:
		s.state.ErrorMessage = ""
		return nil
	}
	return nil
}

// checkEffect reads the stored credential pair and validates the token
// against the server. Missing credentials, transport failures, and
// rejected tokens all resolve to the unauthenticated outcome; the latter
// two also wipe the store.
func (s *AuthSession) checkEffect() authEffect {
	return func(ctx context.Context) AuthEvent {
		token, err := s.store.Token(ctx)
		if err != nil || token == "" {
			return authCheckCompleted{}
		}
		stored, err := s.store.User(ctx)
		if err != nil || stored == nil {
			return authCheckCompleted{}
		}

		validated, err := s.gw.ValidateToken(ctx)
		if err != nil {
			// network failures and auth rejection are treated alike here
			s.log.Info(ctx, "stored token rejected, logging out", "err", err)
			if cerr := s.store.Clear(ctx); cerr != nil {
				s.log.Error(ctx, "clearing stored credentials failed", "err", cerr)
			}
			return authCheckCompleted{}
		}

		// token stays; the cached profile is refreshed from the server
		if err := s.store.SetUser(ctx, validated); err != nil {
			s.log.Warn(ctx, "refreshing cached profile failed", "err", err)
		}
		return authCheckCompleted{user: validated, token: token}
	}
}
