// Package api is the single boundary for all network calls of the dream
// chat client. Session components depend on the Gateway interface; the
// HTTP implementation lives in this package, fixture implementations live
// in tests.
package api

import (
	"context"

	"github.com/avelkov/dreamchat/internal/models"
)

// Gateway exposes every remote operation the client performs. Each call is
// a single request/response with no retry built in; callers interpret the
// sentinel errors of this package directly.
type Gateway interface {
	Register(ctx context.Context, email, password, name string) (*models.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*models.AuthResponse, error)
	AppleLogin(ctx context.Context, idToken string) (*models.AuthResponse, error)

	// ValidateToken checks the stored token against the server and returns
	// the cached user profile on success.
	ValidateToken(ctx context.Context) (*models.User, error)

	TodaysRoom(ctx context.Context) (*models.RoomDetail, error)
	RoomsByMonth(ctx context.Context, month string) ([]models.ChatRoom, error)
	Messages(ctx context.Context, roomID string) ([]models.Message, error)
	SendMessage(ctx context.Context, roomID, content string) (*models.SendMessageResult, error)
	UpdateBotPersona(ctx context.Context, roomID string, persona models.BotPersona) error
	GenerateImage(ctx context.Context) (*models.ImageGeneration, error)
}

// CredentialSource supplies the bearer token and cached profile attached to
// authenticated requests. It is read fresh at call time, never cached inside
// the gateway, so a just-updated token takes effect on the next request.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
	User(ctx context.Context) (*models.User, error)
}
