package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/printshop/internal/client/models"
	"github.com/dmitrijs2005/printshop/internal/common"
)

const maxResponseBytes = 1 << 20

type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenStore) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReply struct {
	User  models.CachedUser `json:"user"`
	Token string            `json:"token"`
}

type errorReply struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do sends one request. The stored token, if any, is attached and
// returned so callers know which token a reply belongs to.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return token, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return token, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return token, ctx.Err()
		}
		return token, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return token, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return token, nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return token, fmt.Errorf("%w: malformed reply: %v", ErrUnavailable, err)
		}
		return token, nil
	}

	return token, c.failure(ctx, resp.StatusCode, token, data)
}

func (c *HTTPClient) failure(ctx context.Context, status int, token string, data []byte) error {
	var reply errorReply
	_ = json.Unmarshal(data, &reply)

	switch {
	case status == http.StatusUnauthorized:
		if token != "" {
			if _, err := c.tokens.InvalidateToken(ctx, token); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
		}
		if reply.Error == common.CodeInvalidCredentials {
			return common.ErrInvalidCredentials
		}
		return common.ErrUnauthenticated
	case status == http.StatusForbidden:
		return common.ErrForbidden
	case status == http.StatusTooManyRequests:
		return ErrTooManyRequests
	case status >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}

	err := common.ErrorFromCode(reply.Error)
	if reply.Message != "" && reply.Error == common.CodeInvalidInput {
		return fmt.Errorf("%w: %s", err, reply.Message)
	}
	return err
}

func (c *HTTPClient) Register(ctx context.Context, name, email string, password []byte) error {
	_, err := c.do(ctx, http.MethodPost, "/users", credentials{Name: name, Email: email, Password: string(password)}, nil)
	return err
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*models.CachedUser, string, error) {
	return c.login(ctx, "/users/login", email, password)
}

func (c *HTTPClient) AdminLogin(ctx context.Context, email string, password []byte) (*models.CachedUser, string, error) {
	return c.login(ctx, "/users/admin/auth", email, password)
}

func (c *HTTPClient) login(ctx context.Context, path, email string, password []byte) (*models.CachedUser, string, error) {
	var reply loginReply
	if _, err := c.do(ctx, http.MethodPost, path, credentials{Email: email, Password: string(password)}, &reply); err != nil {
		return nil, "", err
	}
	if reply.Token == "" || reply.User.ID == "" {
		return nil, "", fmt.Errorf("%w: incomplete login reply", ErrUnavailable)
	}
	return &reply.User, reply.Token, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.CachedUser, string, error) {
	var u models.CachedUser
	token, err := c.do(ctx, http.MethodGet, "/users/profile", nil, &u)
	if err != nil {
		return nil, token, err
	}
	return &u, token, nil
}

func (c *HTTPClient) AdminCheck(ctx context.Context) error {
	var reply struct {
		Valid bool `json:"valid"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/users/admin/check", nil, &reply); err != nil {
		return err
	}
	if !reply.Valid {
		return common.ErrForbidden
	}
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil)
	return err
}
