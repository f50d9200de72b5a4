package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/avelkov/dreamchat/internal/logging"
	"github.com/avelkov/dreamchat/internal/models"
)

func testLogger() logging.Logger {
	return logging.NewText(io.Discard, slog.LevelError)
}

var errNotStubbed = errors.New("fake: call not stubbed")

// fakeGateway implements api.Gateway via per-method function fields. A call
// with a nil field fails, so tests declare exactly the traffic they expect.
type fakeGateway struct {
	registerFn      func(ctx context.Context, email, password, name string) (*models.AuthResponse, error)
	loginFn         func(ctx context.Context, email, password string) (*models.AuthResponse, error)
	googleFn        func(ctx context.Context, idToken string) (*models.AuthResponse, error)
	appleFn         func(ctx context.Context, idToken string) (*models.AuthResponse, error)
	validateFn      func(ctx context.Context) (*models.User, error)
	todaysRoomFn    func(ctx context.Context) (*models.RoomDetail, error)
	roomsByMonthFn  func(ctx context.Context, month string) ([]models.ChatRoom, error)
	messagesFn      func(ctx context.Context, roomID string) ([]models.Message, error)
	sendMessageFn   func(ctx context.Context, roomID, content string) (*models.SendMessageResult, error)
	updatePersonaFn func(ctx context.Context, roomID string, persona models.BotPersona) error
	generateImageFn func(ctx context.Context) (*models.ImageGeneration, error)
}

func (f *fakeGateway) Register(ctx context.Context, email, password, name string) (*models.AuthResponse, error) {
	if f.registerFn == nil {
		return nil, errNotStubbed
	}
	return f.registerFn(ctx, email, password, name)
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	if f.loginFn == nil {
		return nil, errNotStubbed
	}
	return f.loginFn(ctx, email, password)
}

func (f *fakeGateway) GoogleLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	if f.googleFn == nil {
		return nil, errNotStubbed
	}
	return f.googleFn(ctx, idToken)
}

func (f *fakeGateway) AppleLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	if f.appleFn == nil {
		return nil, errNotStubbed
	}
	return f.appleFn(ctx, idToken)
}

func (f *fakeGateway) ValidateToken(ctx context.Context) (*models.User, error) {
	if f.validateFn == nil {
		return nil, errNotStubbed
	}
	return f.validateFn(ctx)
}

func (f *fakeGateway) TodaysRoom(ctx context.Context) (*models.RoomDetail, error) {
	if f.todaysRoomFn == nil {
		return nil, errNotStubbed
	}
	return f.todaysRoomFn(ctx)
}

func (f *fakeGateway) RoomsByMonth(ctx context.Context, month string) ([]models.ChatRoom, error) {
	if f.roomsByMonthFn == nil {
		return nil, errNotStubbed
	}
	return f.roomsByMonthFn(ctx, month)
}

func (f *fakeGateway) Messages(ctx context.Context, roomID string) ([]models.Message, error) {
	if f.messagesFn == nil {
		return nil, errNotStubbed
	}
	return f.messagesFn(ctx, roomID)
}

func (f *fakeGateway) SendMessage(ctx context.Context, roomID, content string) (*models.SendMessageResult, error) {
	if f.sendMessageFn == nil {
		return nil, errNotStubbed
	}
	return f.sendMessageFn(ctx, roomID, content)
}

func (f *fakeGateway) UpdateBotPersona(ctx context.Context, roomID string, persona models.BotPersona) error {
	if f.updatePersonaFn == nil {
		return errNotStubbed
	}
	return f.updatePersonaFn(ctx, roomID, persona)
}

func (f *fakeGateway) GenerateImage(ctx context.Context) (*models.ImageGeneration, error) {
	if f.generateImageFn == nil {
		return nil, errNotStubbed
	}
	return f.generateImageFn(ctx)
}

// fakeStore is an in-memory credstore.Store with optional failure hooks.
type fakeStore struct {
	mu    sync.Mutex
	token string
	user  *models.User

	setSessionErr error
	clearErr      error

	clearCalls int
}

func (f *fakeStore) Token(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *fakeStore) User(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil {
		return nil, nil
	}
	u := *f.user
	return &u, nil
}

func (f *fakeStore) SetToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	return nil
}

func (f *fakeStore) SetUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user == nil {
		f.user = nil
		return nil
	}
	u := *user
	f.user = &u
	return nil
}

func (f *fakeStore) SetSession(ctx context.Context, user *models.User, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setSessionErr != nil {
		return f.setSessionErr
	}
	u := *user
	f.user = &u
	f.token = token
	return nil
}

func (f *fakeStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.token = ""
	f.user = nil
	return nil
}
