package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/avelkov/dreamchat/internal/client/api"
	"github.com/avelkov/dreamchat/internal/client/session"
	"github.com/avelkov/dreamchat/internal/logging"
	"github.com/avelkov/dreamchat/internal/models"
)

func stubInputs(t *testing.T, answers map[string]string, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		return answers[prompt], nil
	}
	getPassword = func(_ io.Writer, _ string) (string, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

// loginGateway implements api.Gateway; only the login endpoint answers.
type loginGateway struct {
	res *models.AuthResponse
	err error

	gotEmail    string
	gotPassword string
}

func (g *loginGateway) Login(_ context.Context, email, password string) (*models.AuthResponse, error) {
	g.gotEmail, g.gotPassword = email, password
	return g.res, g.err
}

func (g *loginGateway) Register(context.Context, string, string, string) (*models.AuthResponse, error) {
	return g.res, g.err
}
func (g *loginGateway) GoogleLogin(context.Context, string) (*models.AuthResponse, error) {
	return g.res, g.err
}
func (g *loginGateway) AppleLogin(context.Context, string) (*models.AuthResponse, error) {
	return g.res, g.err
}
func (g *loginGateway) ValidateToken(context.Context) (*models.User, error) { return nil, nil }
func (g *loginGateway) TodaysRoom(context.Context) (*models.RoomDetail, error) {
	return nil, api.ErrUnavailable
}
func (g *loginGateway) RoomsByMonth(context.Context, string) ([]models.ChatRoom, error) {
	return nil, api.ErrUnavailable
}
func (g *loginGateway) Messages(context.Context, string) ([]models.Message, error) {
	return nil, api.ErrUnavailable
}
func (g *loginGateway) SendMessage(context.Context, string, string) (*models.SendMessageResult, error) {
	return nil, api.ErrUnavailable
}
func (g *loginGateway) UpdateBotPersona(context.Context, string, models.BotPersona) error {
	return api.ErrUnavailable
}
func (g *loginGateway) GenerateImage(context.Context) (*models.ImageGeneration, error) {
	return nil, api.ErrUnavailable
}

// memStore is an in-memory credstore.Store for wiring App in tests.
type memStore struct {
	token string
	user  *models.User
}

func (m *memStore) Token(context.Context) (string, error)      { return m.token, nil }
func (m *memStore) User(context.Context) (*models.User, error) { return m.user, nil }
func (m *memStore) SetToken(_ context.Context, token string) error {
	m.token = token
	return nil
}
func (m *memStore) SetUser(_ context.Context, user *models.User) error {
	m.user = user
	return nil
}
func (m *memStore) SetSession(_ context.Context, user *models.User, token string) error {
	m.user, m.token = user, token
	return nil
}
func (m *memStore) Clear(context.Context) error {
	m.token, m.user = "", nil
	return nil
}

func testApp(gw api.Gateway) *App {
	logger := logging.NewText(io.Discard, slog.LevelError)
	auth := session.NewAuthSession(gw, &memStore{}, logger)
	return &App{
		auth:        auth,
		login:       session.NewLoginSession(gw, logger),
		chat:        session.NewChatSession(gw, logger, session.TypingIntervals{}),
		calendar:    session.NewCalendarBrowser(gw, logger),
		coordinator: session.NewAppCoordinator(auth, logger, 0),
		log:         logger,
	}
}

func TestLogin_Success(t *testing.T) {
	silencePrintln(t)
	gw := &loginGateway{
		res: &models.AuthResponse{
			User:        models.User{ID: "u-1", Email: "alice@example.org", Name: "Alice"},
			AccessToken: "tok-1",
		},
	}
	a := testApp(gw)
	stubInputs(t, map[string]string{"Enter email": "alice@example.org"}, "secret1")

	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("Login err: %v", err)
	}

	if gw.gotEmail != "alice@example.org" || gw.gotPassword != "secret1" {
		t.Fatalf("credentials sent: %q / %q", gw.gotEmail, gw.gotPassword)
	}
	if !a.isLoggedIn() {
		t.Fatal("expected a signed-in session")
	}
	if got := a.login.State().Result; got != nil {
		t.Fatalf("login result not consumed: %+v", got)
	}
}

func TestLogin_ServerRejection(t *testing.T) {
	silencePrintln(t)
	gw := &loginGateway{err: &api.Error{Message: "invalid email or password", Status: 401}}
	a := testApp(gw)
	stubInputs(t, map[string]string{"Enter email": "alice@example.org"}, "wrong-1")

	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if a.isLoggedIn() {
		t.Fatal("rejected login must not create a session")
	}
}

func TestRegister_ValidationStopsBeforeNetwork(t *testing.T) {
	silencePrintln(t)
	gw := &loginGateway{} // nil res: a network call would sign in with garbage
	a := testApp(gw)
	// both password prompts answer "abc": too short
	stubInputs(t, map[string]string{"Enter name": "Alice", "Enter email": "alice@example.org"}, "abc")

	if err := a.Register(context.Background()); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if a.isLoggedIn() {
		t.Fatal("short password must not register")
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	silencePrintln(t)
	gw := &loginGateway{
		res: &models.AuthResponse{
			User:        models.User{ID: "u-1", Name: "Alice"},
			AccessToken: "tok-1",
		},
	}
	a := testApp(gw)
	stubInputs(t, map[string]string{"Enter email": "alice@example.org"}, "secret1")

	ctx := context.Background()
	if err := a.Login(ctx); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if err := a.Logout(ctx); err != nil {
		t.Fatalf("Logout err: %v", err)
	}
	if a.isLoggedIn() {
		t.Fatal("expected a signed-out session")
	}
}

func TestGoogleLogin_PassesToken(t *testing.T) {
	silencePrintln(t)
	gw := &loginGateway{
		res: &models.AuthResponse{
			User:        models.User{ID: "u-2", Name: "Bob", Provider: models.ProviderGoogle},
			AccessToken: "tok-g",
		},
	}
	a := testApp(gw)

	if err := a.GoogleLogin(context.Background(), "google-id-token"); err != nil {
		t.Fatalf("GoogleLogin err: %v", err)
	}
	if !a.isLoggedIn() {
		t.Fatal("expected a signed-in session")
	}
}
