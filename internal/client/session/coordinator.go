package session

import (
	"context"
	"sync"
	"time"

	"github.com/avelkov/dreamchat/internal/logging"
)

// Screen is the top-level surface of the app.
type Screen string

const (
	ScreenLaunching Screen = "launching"
	ScreenLogin     Screen = "login"
	ScreenMain      Screen = "main"
)

// Route is a destination pushed onto the main screen's navigation stack.
type Route string

const (
	RouteChat        Route = "chat"
	RouteBotSettings Route = "bot-settings"
)

// AppState is the coordinator's view of session lifecycle and navigation.
type AppState struct {
	Screen Screen
	Stack  []Route
}

// AppEvent is the closed set of events the coordinator reduces.
type AppEvent interface{ appEvent() }

// AppLaunched starts the splash sequence: hold the launch screen briefly,
// resolve the persisted session, then land on login or main.
type AppLaunched struct{}

// AppLoggedIn moves to the main screen after an interactive sign-in.
type AppLoggedIn struct{}

// AppLogoutRequested ends the session and returns to the login screen.
type AppLogoutRequested struct{}

// AppRoutePushed pushes a destination onto the navigation stack.
type AppRoutePushed struct{ Route Route }

// AppRoutePopped pops the top destination. Popping an empty stack is a
// no-op.
type AppRoutePopped struct{}

type appAuthResolved struct{ authenticated bool }

func (AppLaunched) appEvent()        {}
func (AppLoggedIn) appEvent()        {}
func (AppLogoutRequested) appEvent() {}
func (AppRoutePushed) appEvent()     {}
func (AppRoutePopped) appEvent()     {}
func (appAuthResolved) appEvent()    {}

type appEffect func(ctx context.Context) AppEvent

// AppCoordinator decides which screen is visible and owns the navigation
// stack. It drives the auth session for the launch check and for logout so
// callers deal with one surface.
type AppCoordinator struct {
	auth   *AuthSession
	log    logging.Logger
	splash time.Duration

	sleep func(ctx context.Context, d time.Duration) bool

	mu    sync.Mutex
	wg    sync.WaitGroup
	state AppState
}

func NewAppCoordinator(auth *AuthSession, log logging.Logger, splash time.Duration) *AppCoordinator {
	return &AppCoordinator{
		auth:   auth,
		log:    log,
		splash: splash,
		sleep:  sleepCtx,
		state:  AppState{Screen: ScreenLaunching},
	}
}

func (c *AppCoordinator) Dispatch(ctx context.Context, ev AppEvent) {
	c.mu.Lock()
	effects := c.reduce(ev)
	c.mu.Unlock()

	for _, eff := range effects {
		c.wg.Add(1)
		go func(run appEffect) {
			defer c.wg.Done()
			if next := run(ctx); next != nil {
				c.Dispatch(ctx, next)
			}
		}(eff)
	}
}

// Wait blocks until all outstanding effects have settled.
func (c *AppCoordinator) Wait() {
	c.wg.Wait()
}

// State returns a snapshot with a defensive copy of the stack.
func (c *AppCoordinator) State() AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Stack = append([]Route(nil), st.Stack...)
	return st
}

func (c *AppCoordinator) reduce(ev AppEvent) []appEffect {
	switch ev := ev.(type) {
	case AppLaunched:
		c.state = AppState{Screen: ScreenLaunching}
		return []appEffect{func(ctx context.Context) AppEvent {
			c.sleep(ctx, c.splash)
			c.auth.Dispatch(ctx, AuthCheckRequested{})
			c.auth.Wait()
			authenticated := c.auth.State().IsAuthenticated()
			c.log.Debug(ctx, "launch auth check resolved", "authenticated", authenticated)
			return appAuthResolved{authenticated: authenticated}
		}}

	case appAuthResolved:
		if ev.authenticated {
			c.state = AppState{Screen: ScreenMain}
		} else {
			c.state = AppState{Screen: ScreenLogin}
		}
		return nil

	case AppLoggedIn:
		c.state = AppState{Screen: ScreenMain}
		return nil

	case AppLogoutRequested:
		c.state = AppState{Screen: ScreenLogin}
		return []appEffect{func(ctx context.Context) AppEvent {
			c.auth.Dispatch(ctx, AuthLogoutRequested{})
			c.auth.Wait()
			return nil
		}}

	case AppRoutePushed:
		if c.state.Screen != ScreenMain {
			return nil
		}
		c.state.Stack = append(c.state.Stack, ev.Route)
		return nil

	case AppRoutePopped:
		if n := len(c.state.Stack); n > 0 {
			c.state.Stack = c.state.Stack[:n-1]
		}
		return nil
	}
	return nil
}
