package hostchat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/types"
	"github.com/slackline-io/slackline/pkg/utils/safe"
)

// errStatusNotFound marks a 404 from the platform so lookups can tell a
// missing resource from a transport failure
var errStatusNotFound = goerr.New("resource not found")

// client talks to the destination platform's REST API
type client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

var _ Service = &client{}

// Option is a functional option for client configuration
type Option func(*client)

// WithHTTPClient overrides the HTTP client, mainly for tests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a REST-backed Service
func New(baseURL, authToken string, opts ...Option) (Service, error) {
	if baseURL == "" {
		return nil, goerr.New("host chat base URL is required")
	}
	if authToken == "" {
		return nil, goerr.New("host chat auth token is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, goerr.Wrap(err, "invalid host chat base URL", goerr.V("base_url", baseURL))
	}

	c := &client{
		baseURL:    baseURL,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal request body", goerr.V("path", path))
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("path", path))
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request to host chat failed", goerr.V("path", path))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return goerr.Wrap(errStatusNotFound, "host chat returned an error",
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
		)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("host chat returned an error",
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(raw)),
		)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return goerr.Wrap(err, "failed to decode host chat response", goerr.V("path", path))
		}
	}

	return nil
}

func (c *client) GetRoom(ctx context.Context, id types.RoomID) (*Room, error) {
	var room Room
	path := fmt.Sprintf("/api/v1/rooms/%s", url.PathEscape(id.String()))
	if err := c.do(ctx, http.MethodGet, path, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *client) GetRoomMembers(ctx context.Context, id types.RoomID) ([]*User, error) {
	var out struct {
		Members []*User `json:"members"`
	}
	path := fmt.Sprintf("/api/v1/rooms/%s/members", url.PathEscape(id.String()))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Members, nil
}

func (c *client) GetRoomByName(ctx context.Context, name string) (*Room, error) {
	var room Room
	path := "/api/v1/rooms?name=" + url.QueryEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	path := "/api/v1/users?username=" + url.QueryEscape(username)
	if err := c.do(ctx, http.MethodGet, path, nil, &user); err != nil {
		if errors.Is(err, errStatusNotFound) {
			return nil, goerr.Wrap(ErrUserNotFound, "no user holds the username", goerr.V("username", username))
		}
		return nil, err
	}
	return &user, nil
}

func (c *client) GetDirectRoom(ctx context.Context, owner types.UserID, usernames []string) (*Room, error) {
	body := map[string]any{
		"owner":     owner,
		"usernames": usernames,
	}
	var room Room
	if err := c.do(ctx, http.MethodPost, "/api/v1/rooms/direct", body, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *client) PostMessage(ctx context.Context, msg *OutboundMessage) error {
	path := fmt.Sprintf("/api/v1/rooms/%s/messages", url.PathEscape(msg.RoomID.String()))
	return c.do(ctx, http.MethodPost, path, msg, nil)
}

func (c *client) ListImported(ctx context.Context, id types.RoomID) ([]*ImportedMessage, error) {
	var out struct {
		Messages []*ImportedMessage `json:"messages"`
	}
	path := fmt.Sprintf("/api/v1/rooms/%s/messages?imported=true", url.PathEscape(id.String()))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *client) NotifyUser(ctx context.Context, userID types.UserID, text string) error {
	path := fmt.Sprintf("/api/v1/users/%s/notifications", url.PathEscape(userID.String()))
	body := map[string]string{"text": text}
	return c.do(ctx, http.MethodPost, path, body, nil)
}
