// Package client calls the todo remote procedures over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jaekwang-park/todo-app/internal/model"
)

const defaultTimeout = 15 * time.Second

// RemoteError is an error answer from the server.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

func (c *Client) GetTodos(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.call(ctx, "GetTodos", nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

func (c *Client) AddTodo(ctx context.Context, title string) error {
	return c.call(ctx, "AddTodo", map[string]string{"title": title}, nil)
}

func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.call(ctx, "DeleteTodo", map[string]string{"id": id}, nil)
}

func (c *Client) call(ctx context.Context, fn string, args, out any) error {
	buf := new(bytes.Buffer)
	if args != nil {
		if err := json.NewEncoder(buf).Encode(args); err != nil {
			return fmt.Errorf("encode %s args: %w", fn, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/"+fn, buf)
	if err != nil {
		return fmt.Errorf("build %s request: %w", fn, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", fn, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error.Message == "" {
			return &RemoteError{Status: resp.StatusCode, Message: fmt.Sprintf("%s: unexpected status %d", fn, resp.StatusCode)}
		}
		return &RemoteError{Status: resp.StatusCode, Code: body.Error.Code, Message: body.Error.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s result: %w", fn, err)
	}
	return nil
}
