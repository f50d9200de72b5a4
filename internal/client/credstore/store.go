// Package credstore persists the access token and user profile between
// runs. Values are encrypted at rest; reads and writes of the credential
// pair are atomic from the caller's perspective.
package credstore

import (
	"context"

	"github.com/avelkov/dreamchat/internal/models"
)

// Store is the secure credential capability injected into the auth session
// and the API gateway.
//
// Contract:
//   - Token/User return zero values, not errors, when nothing is stored.
//   - SetSession persists user and token together; a failure leaves the
//     previously stored pair intact.
//   - Clear removes both records and is safe to call when nothing is stored.
type Store interface {
	Token(ctx context.Context) (string, error)
	User(ctx context.Context) (*models.User, error)
	SetToken(ctx context.Context, token string) error
	SetUser(ctx context.Context, user *models.User) error
	SetSession(ctx context.Context, user *models.User, token string) error
	Clear(ctx context.Context) error
}
