package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// IdentityUser is the provider's view of an account
type IdentityUser struct {
	RemoteID string
	Email    string
}

// IdentityProvider authenticates credentials against the remote
// identity service. The local users table only stores profile data;
// passwords for provider-backed accounts never touch our database.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*IdentityUser, error)
	SignIn(ctx context.Context, email, password string) (*IdentityUser, error)
}

type restIdentityClient struct {
	httpClient *retryablehttp.Client
	baseURL    string
	apiKey     string
}

// NewRESTIdentityClient talks to the provider's accounts REST API.
// Transient failures are retried with backoff; auth rejections are not.
func NewRESTIdentityClient(baseURL, apiKey string) IdentityProvider {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil

	return &restIdentityClient{
		httpClient: client,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type identityRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type identityResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

type identityErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *restIdentityClient) SignUp(ctx context.Context, email, password string) (*IdentityUser, error) {
	return c.call(ctx, "accounts:signUp", email, password)
}

func (c *restIdentityClient) SignIn(ctx context.Context, email, password string) (*IdentityUser, error) {
	return c.call(ctx, "accounts:signInWithPassword", email, password)
}

func (c *restIdentityClient) call(ctx context.Context, endpoint, email, password string) (*IdentityUser, error) {
	body, err := json.Marshal(identityRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal identity request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read identity response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp identityErrorResponse
		_ = json.Unmarshal(raw, &errResp)
		return nil, mapIdentityError(errResp.Error.Message, resp.StatusCode)
	}

	var ok identityResponse
	if err := json.Unmarshal(raw, &ok); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	return &IdentityUser{RemoteID: ok.LocalID, Email: ok.Email}, nil
}

func mapIdentityError(message string, status int) error {
	switch message {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return ErrInvalidCredentials
	case "EMAIL_EXISTS":
		return ErrEmailTaken
	}
	return fmt.Errorf("identity provider error %d: %s", status, message)
}
