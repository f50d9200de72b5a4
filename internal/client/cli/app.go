package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/avelkov/dreamchat/internal/client/api"
	"github.com/avelkov/dreamchat/internal/client/config"
	"github.com/avelkov/dreamchat/internal/client/credstore"
	"github.com/avelkov/dreamchat/internal/client/session"
	"github.com/avelkov/dreamchat/internal/logging"
)

// App owns the wired client: credential store, API gateway, and the
// session state machines behind the REPL commands.
type App struct {
	config      *config.Config
	store       *credstore.SQLiteStore
	auth        *session.AuthSession
	login       *session.LoginSession
	chat        *session.ChatSession
	calendar    *session.CalendarBrowser
	coordinator *session.AppCoordinator
	reader      *bufio.Reader
	log         logging.Logger
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, slog.LevelWarn)

	key, err := credstore.LoadKey(c.KeyFilePath)
	if err != nil {
		return nil, fmt.Errorf("loading encryption key: %w", err)
	}

	store, err := credstore.Open(ctx, c.DatabasePath, key)
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}

	gw := api.NewHTTPGateway(c.ServerBaseURL, store, c.RequestTimeout, logger)

	auth := session.NewAuthSession(gw, store, logger)
	chat := session.NewChatSession(gw, logger, session.TypingIntervals{
		Hangul:  c.TypingTickHangul,
		Default: c.TypingTickDefault,
	})
	chat.SetRevealObserver(revealPrinter(os.Stdout))

	return &App{
		config:      c,
		store:       store,
		auth:        auth,
		login:       session.NewLoginSession(gw, logger),
		chat:        chat,
		calendar:    session.NewCalendarBrowser(gw, logger),
		coordinator: session.NewAppCoordinator(auth, logger, c.SplashDelay),
		reader:      bufio.NewReader(os.Stdin),
		log:         logger,
	}, nil
}

// revealPrinter renders the typing-reveal animation in place: each step
// rewrites the current line, the final step ends it.
func revealPrinter(w *os.File) session.RevealObserver {
	return func(messageID, displayed string, complete bool) {
		fmt.Fprintf(w, "\r%s", displayed)
		if complete {
			fmt.Fprintln(w)
		}
	}
}

// Run restores the stored session, then hands control to the REPL. It
// blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	a.coordinator.Dispatch(ctx, session.AppLaunched{})
	a.coordinator.Wait()

	if a.isLoggedIn() {
		printlnFn("Welcome back,", a.auth.State().CurrentUser.Name)
	} else {
		printlnFn("Welcome to Dream Chat (type 'help' for commands)")
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.auth.State().IsAuthenticated()
}

func (a *App) getStatus() string {
	st := a.auth.State()
	if st.CurrentUser == nil {
		return ""
	}
	s := st.CurrentUser.Name
	if st.CurrentUser.IsPremium {
		s += " premium"
	}
	return fmt.Sprintf("(%s)", s)
}
