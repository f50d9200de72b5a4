package session

import (
	"context"
	"sync"

	"github.com/avelkov/dreamchat/internal/client/api"
	"github.com/avelkov/dreamchat/internal/logging"
	"github.com/avelkov/dreamchat/internal/models"
)

const minPasswordLen = 6

// LoginState drives the login/registration screen. Result holds a
// completed authentication until the owner hands it to the auth session.
type LoginState struct {
	Loading      bool
	ErrorMessage string
	Result       *models.AuthResponse
}

// LoginEvent is the closed set of events the login session reduces.
type LoginEvent interface{ loginEvent() }

// LoginSubmitted attempts an email/password login. Validation failures are
// surfaced locally without a network call.
type LoginSubmitted struct {
	Email    string
	Password string
}

// RegisterSubmitted attempts account creation. All fields are required,
// the confirmation must match, and the password has a minimum length; any
// violation is surfaced locally without a network call.
type RegisterSubmitted struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

// GoogleLoginSubmitted exchanges a Google ID token for a session.
type GoogleLoginSubmitted struct{ IDToken string }

// AppleLoginSubmitted exchanges an Apple identity token for a session.
type AppleLoginSubmitted struct{ IDToken string }

// LoginDismissError clears the error slot.
type LoginDismissError struct{}

// LoginResultConsumed clears Result after the owner adopted it.
type LoginResultConsumed struct{}

type loginSucceeded struct{ res *models.AuthResponse }
type loginFailed struct{ err error }

func (LoginSubmitted) loginEvent()       {}
func (RegisterSubmitted) loginEvent()    {}
func (GoogleLoginSubmitted) loginEvent() {}
func (AppleLoginSubmitted) loginEvent()  {}
func (LoginDismissError) loginEvent()    {}
func (LoginResultConsumed) loginEvent()  {}
func (loginSucceeded) loginEvent()       {}
func (loginFailed) loginEvent()          {}

type loginEffect func(ctx context.Context) LoginEvent

// LoginSession validates credentials input and runs the four login flows.
type LoginSession struct {
	gw  api.Gateway
	log logging.Logger

	mu    sync.Mutex
	wg    sync.WaitGroup
	state LoginState
}

func NewLoginSession(gw api.Gateway, log logging.Logger) *LoginSession {
	return &LoginSession{gw: gw, log: log}
}

func (s *LoginSession) Dispatch(ctx context.Context, ev LoginEvent) {
	s.mu.Lock()
	effects := s.reduce(ev)
	s.mu.Unlock()

	for _, eff := range effects {
		s.wg.Add(1)
		go func(run loginEffect) {
			defer s.wg.Done()
			if next := run(ctx); next != nil {
				s.Dispatch(ctx, next)
			}
		}(eff)
	}
}

func (s *LoginSession) Wait() {
	s.wg.Wait()
}

func (s *LoginSession) State() LoginState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.Result != nil {
		r := *st.Result
		st.Result = &r
	}
	return st
}

func (s *LoginSession) reduce(ev LoginEvent) []loginEffect {
	switch ev := ev.(type) {
	case LoginSubmitted:
		if s.state.Loading {
			return nil
		}
		if ev.Email == "" || ev.Password == "" {
			s.state.ErrorMessage = "enter both email and password"
			return nil
		}
		s.begin()
		email, password := ev.Email, ev.Password
		return []loginEffect{func(ctx context.Context) LoginEvent {
			res, err := s.gw.Login(ctx, email, password)
			if err != nil {
				return loginFailed{err: err}
			}
			return loginSucceeded{res: res}
		}}

	case RegisterSubmitted:
		if s.state.Loading {
			return nil
		}
		switch {
		case ev.Name == "" || ev.Email == "" || ev.Password == "" || ev.Confirm == "":
			s.state.ErrorMessage = "all fields are required"
			return nil
		case ev.Password != ev.Confirm:
			s.state.ErrorMessage = "passwords do not match"
			return nil
		case len(ev.Password) < minPasswordLen:
			s.state.ErrorMessage = "password must be at least 6 characters"
			return nil
		}
		s.begin()
		name, email, password := ev.Name, ev.Email, ev.Password
		return []loginEffect{func(ctx context.Context) LoginEvent {
			res, err := s.gw.Register(ctx, email, password, name)
			if err != nil {
				return loginFailed{err: err}
			}
			return loginSucceeded{res: res}
		}}

	case GoogleLoginSubmitted:
		return s.oauth(ev.IDToken, s.gw.GoogleLogin)

	case AppleLoginSubmitted:
		return s.oauth(ev.IDToken, s.gw.AppleLogin)

	case loginSucceeded:
		s.state.Loading = false
		s.state.ErrorMessage = ""
		s.state.Result = ev.res
		return nil

	case loginFailed:
		s.state.Loading = false
		s.state.ErrorMessage = errText(ev.err)
		return nil

	case LoginDismissError:
		s.state.ErrorMessage = ""
		return nil

	case LoginResultConsumed:
		s.state.Result = nil
		return nil
	}
	return nil
}

func (s *LoginSession) begin() {
	s.state.Loading = true
	s.state.ErrorMessage = ""
	s.state.Result = nil
}

func (s *LoginSession) oauth(idToken string, call func(context.Context, string) (*models.AuthResponse, error)) []loginEffect {
	if s.state.Loading {
		return nil
	}
	if idToken == "" {
		s.state.ErrorMessage = "a provider token is required"
		return nil
	}
	s.begin()
	return []loginEffect{func(ctx context.Context) LoginEvent {
		res, err := call(ctx, idToken)
		if err != nil {
			return loginFailed{err: err}
		}
		return loginSucceeded{res: res}
	}}
}
