package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avelkov/dreamchat/internal/client/api"
	"github.com/avelkov/dreamchat/internal/models"
)

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name    string
		event   LoginEvent
		wantMsg string
	}{
		{"missing email", LoginSubmitted{Password: "secret1"}, "enter both email and password"},
		{"missing password", LoginSubmitted{Email: "a@b.c"}, "enter both email and password"},
		{"register missing field", RegisterSubmitted{Email: "a@b.c", Password: "secret1", Confirm: "secret1"}, "all fields are required"},
		{"register mismatch", RegisterSubmitted{Name: "A", Email: "a@b.c", Password: "secret1", Confirm: "secret2"}, "passwords do not match"},
		{"register short password", RegisterSubmitted{Name: "A", Email: "a@b.c", Password: "abc", Confirm: "abc"}, "password must be at least 6 characters"},
		{"google empty token", GoogleLoginSubmitted{}, "a provider token is required"},
		{"apple empty token", AppleLoginSubmitted{}, "a provider token is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// all gateway fields nil: any network call would error loudly
			s := NewLoginSession(&fakeGateway{}, testLogger())

			s.Dispatch(context.Background(), tt.event)
			s.Wait()

			st := s.State()
			require.Equal(t, tt.wantMsg, st.ErrorMessage)
			require.False(t, st.Loading)
			require.Nil(t, st.Result)
		})
	}
}

func TestLoginSuccessHoldsResultUntilConsumed(t *testing.T) {
	ctx := context.Background()
	var gotEmail string
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*models.AuthResponse, error) {
			gotEmail = email
			return &models.AuthResponse{User: testUser(), AccessToken: "tok-1"}, nil
		},
	}
	s := NewLoginSession(gw, testLogger())

	s.Dispatch(ctx, LoginSubmitted{Email: "mina@example.com", Password: "secret1"})
	s.Wait()
	require.Equal(t, "mina@example.com", gotEmail)

	st := s.State()
	require.False(t, st.Loading)
	require.Empty(t, st.ErrorMessage)
	require.NotNil(t, st.Result)
	require.Equal(t, "tok-1", st.Result.AccessToken)

	s.Dispatch(ctx, LoginResultConsumed{})
	require.Nil(t, s.State().Result)
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{
		loginFn: func(ctx context.Context, email, password string) (*models.AuthResponse, error) {
			return nil, &api.Error{Message: "invalid email or password", Status: 401}
		},
	}
	s := NewLoginSession(gw, testLogger())

	s.Dispatch(ctx, LoginSubmitted{Email: "mina@example.com", Password: "wrong-1"})
	s.Wait()

	st := s.State()
	require.False(t, st.Loading)
	require.Equal(t, "invalid email or password", st.ErrorMessage)
	require.Nil(t, st.Result)
}

func TestGoogleLoginExchangesToken(t *testing.T) {
	ctx := context.Background()
	var gotToken string
	gw := &fakeGateway{
		googleFn: func(ctx context.Context, idToken string) (*models.AuthResponse, error) {
			gotToken = idToken
			return &models.AuthResponse{User: testUser(), AccessToken: "tok-g"}, nil
		},
	}
	s := NewLoginSession(gw, testLogger())

	s.Dispatch(ctx, GoogleLoginSubmitted{IDToken: "google-id-token"})
	s.Wait()

	require.Equal(t, "google-id-token", gotToken)
	require.Equal(t, "tok-g", s.State().Result.AccessToken)
}
