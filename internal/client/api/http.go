package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avelkov/dreamchat/internal/logging"
	"github.com/avelkov/dreamchat/internal/models"
)

// HTTPGateway is the live Gateway speaking JSON over HTTP to the dream
// chat service.
type HTTPGateway struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	log     logging.Logger
}

// NewHTTPGateway constructs a gateway against baseURL. The timeout bounds
// each request end to end.
func NewHTTPGateway(baseURL string, creds CredentialSource, timeout time.Duration, log logging.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
		log:     log,
	}
}

func (g *HTTPGateway) Register(ctx context.Context, email, password, name string) (*models.AuthResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
		"provider": "email",
	}
	var out models.AuthResponse
	if err := g.do(ctx, http.MethodPost, "/auth/register", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *HTTPGateway) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out models.AuthResponse
	if err := g.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *HTTPGateway) GoogleLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	return g.oauthLogin(ctx, "/auth/google", idToken)
}

func (g *HTTPGateway) AppleLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	return g.oauthLogin(ctx, "/auth/apple", idToken)
}

func (g *HTTPGateway) oauthLogin(ctx context.Context, path, idToken string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := g.do(ctx, http.MethodPost, path, map[string]string{"token": idToken}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateToken probes the today's-room endpoint with the stored token; the
// endpoint doubles as a token check. On success it returns the cached user
// profile. A missing token or missing cached profile counts as unauthorized.
func (g *HTTPGateway) ValidateToken(ctx context.Context) (*models.User, error) {
	token, err := g.creds.Token(ctx)
	if err != nil || token == "" {
		return nil, ErrUnauthorized
	}
	if err := g.do(ctx, http.MethodGet, "/chat/rooms/today", nil, nil); err != nil {
		return nil, err
	}
	user, err := g.creds.User(ctx)
	if err != nil || user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (g *HTTPGateway) TodaysRoom(ctx context.Context) (*models.RoomDetail, error) {
	var out models.RoomDetail
	if err := g.do(ctx, http.MethodGet, "/chat/rooms/today", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *HTTPGateway) RoomsByMonth(ctx context.Context, month string) ([]models.ChatRoom, error) {
	var out models.RoomList
	path := "/chat/rooms?month=" + url.QueryEscape(month)
	if err := g.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.ChatRooms, nil
}

func (g *HTTPGateway) Messages(ctx context.Context, roomID string) ([]models.Message, error) {
	var out []models.Message
	if err := g.do(ctx, http.MethodGet, "/chat/rooms/"+url.PathEscape(roomID)+"/messages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *HTTPGateway) SendMessage(ctx context.Context, roomID, content string) (*models.SendMessageResult, error) {
	var out models.SendMessageResult
	path := "/chat/rooms/" + url.PathEscape(roomID) + "/messages"
	if err := g.do(ctx, http.MethodPost, path, map[string]string{"content": content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *HTTPGateway) UpdateBotPersona(ctx context.Context, roomID string, persona models.BotPersona) error {
	path := "/chat/rooms/" + url.PathEscape(roomID) + "/bot-settings"
	return g.do(ctx, http.MethodPut, path, persona.Settings(), nil)
}

func (g *HTTPGateway) GenerateImage(ctx context.Context) (*models.ImageGeneration, error) {
	var out models.ImageGeneration
	if err := g.do(ctx, http.MethodPost, "/chat/rooms/today/messages/generate-image", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one JSON request/response cycle. The bearer token is fetched
// fresh from the credential source for every call; requests made before any
// login simply go out without an Authorization header.
func (g *HTTPGateway) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, err := g.creds.Token(ctx); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		g.log.Warn(ctx, "request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	g.log.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		return mapStatus(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapStatus converts an error response into the package taxonomy, keeping
// the server-supplied message when the body carries one.
func mapStatus(resp *http.Response) error {
	msg := serverMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrPremiumRequired
	case http.StatusNotFound:
		return ErrNotFound
	default:
		if msg == "" {
			msg = "server error"
		}
		return &Error{Message: msg, Status: resp.StatusCode}
	}
}

func serverMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}
