package timer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Session is the wire shape of a focus session as returned by the API.
type Session struct {
	ID              string     `json:"id"`
	TaskID          *string    `json:"taskId"`
	DurationSeconds int        `json:"durationSeconds"`
	StartedAt       time.Time  `json:"startedAt"`
	EndedAt         *time.Time `json:"endedAt"`
	Completed       bool       `json:"completed"`
	PausedSeconds   int        `json:"pausedSeconds"`
}

// Service is what the controller needs from the server: the lifecycle
// transitions and the daily total.
type Service interface {
	Start(ctx context.Context, durationSeconds int, taskID string) (*Session, error)
	Finish(ctx context.Context, sessionID string) (*Session, error)
	Cancel(ctx context.Context, sessionID string) (*Session, error)
	Pause(ctx context.Context, sessionID string) (*Session, error)
	Resume(ctx context.Context, sessionID string) (*Session, error)
	TodayMinutes(ctx context.Context) (int, error)
}

// Client implements Service over the HTTP API.
type Client struct {
	http *resty.Client
}

// NewClient builds a bearer-token authenticated client for the API root,
// e.g. "http://localhost:8080/api".
func NewClient(baseURL, token string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(token).
			SetTimeout(10 * time.Second),
	}
}

type envelope struct {
	OK      bool     `json:"ok"`
	Message string   `json:"message"`
	Session *Session `json:"session"`
	Minutes int      `json:"minutes"`
	Token   string   `json:"token"`
}

// Login exchanges credentials for a bearer token.
func Login(ctx context.Context, baseURL, email, password string) (string, error) {
	var env envelope
	resp, err := resty.New().SetBaseURL(baseURL).SetTimeout(10*time.Second).R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&env).
		SetError(&env).
		Post("/login")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", apiError(&env, resp.StatusCode())
	}
	return env.Token, nil
}

func (c *Client) Start(ctx context.Context, durationSeconds int, taskID string) (*Session, error) {
	body := map[string]interface{}{"durationSeconds": durationSeconds}
	if taskID != "" {
		body["taskId"] = taskID
	}
	return c.sessionCall(ctx, "/focus/sessions/start", body)
}

func (c *Client) Finish(ctx context.Context, sessionID string) (*Session, error) {
	return c.sessionCall(ctx, "/focus/sessions/"+sessionID+"/finish", nil)
}

func (c *Client) Cancel(ctx context.Context, sessionID string) (*Session, error) {
	return c.sessionCall(ctx, "/focus/sessions/"+sessionID+"/cancel", nil)
}

func (c *Client) Pause(ctx context.Context, sessionID string) (*Session, error) {
	return c.sessionCall(ctx, "/focus/sessions/"+sessionID+"/pause", nil)
}

func (c *Client) Resume(ctx context.Context, sessionID string) (*Session, error) {
	return c.sessionCall(ctx, "/focus/sessions/"+sessionID+"/resume", nil)
}

func (c *Client) TodayMinutes(ctx context.Context) (int, error) {
	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&env).
		SetError(&env).
		Get("/focus/today")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, apiError(&env, resp.StatusCode())
	}
	return env.Minutes, nil
}

func (c *Client) sessionCall(ctx context.Context, path string, body interface{}) (*Session, error) {
	var env envelope
	req := c.http.R().SetContext(ctx).SetResult(&env).SetError(&env)
	if body != nil {
		req.SetBody(body)
	} else {
		req.SetBody(struct{}{})
	}

	resp, err := req.Post(path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(&env, resp.StatusCode())
	}
	if env.Session == nil {
		return nil, errors.New("malformed response: missing session")
	}
	return env.Session, nil
}

func apiError(env *envelope, status int) error {
	if env.Message != "" {
		return errors.New(env.Message)
	}
	return fmt.Errorf("request failed with status %d", status)
}
