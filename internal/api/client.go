// Package api is the REST client for the remote expense service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"outlay/internal/expense"
)

var (
	// ErrUnauthorized indicates the token was missing, expired or revoked.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound indicates the requested record does not exist remotely.
	ErrNotFound = errors.New("not found")
)

// APIError carries a non-2xx response the client has no sentinel for.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// TokenSource supplies the bearer credential for authenticated calls.
// An empty token sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// Client talks to the expense service. All calls honour ctx and apply
// the configured per-request timeout on top of it.
type Client struct {
	base    string
	http    *http.Client
	tokens  TokenSource
	timeout time.Duration
}

func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		timeout: timeout,
	}
}

// Draft is the client-supplied part of an expense; the server assigns
// the identifier on creation.
type Draft struct {
	Description string
	Amount      float64
	Date        time.Time
}

const wireDateFormat = "2006-01-02"

type expenseWire struct {
	ID          string  `json:"id,omitempty"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

type createResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.auth(ctx, "/auth/login", email, password)
}

// Signup registers a new account and returns its first token.
func (c *Client) Signup(ctx context.Context, email, password string) (string, error) {
	return c.auth(ctx, "/auth/signup", email, password)
}

func (c *Client) auth(ctx context.Context, path, email, password string) (string, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, path, authRequest{Email: email, Password: password}, &out, nil); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &APIError{Status: http.StatusOK, Message: "empty token in auth response"}
	}
	return out.Token, nil
}

// ListExpenses fetches the full collection for the signed-in user.
func (c *Client) ListExpenses(ctx context.Context) ([]expense.Expense, error) {
	var wire []expenseWire
	if err := c.do(ctx, http.MethodGet, "/expenses", nil, &wire, nil); err != nil {
		return nil, err
	}
	out := make([]expense.Expense, 0, len(wire))
	for _, w := range wire {
		e, err := w.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// CreateExpense submits a draft and returns the server-assigned ID. An
// Idempotency-Key header guards against double-insert on a retried call.
func (c *Client) CreateExpense(ctx context.Context, d Draft) (string, error) {
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	var out createResponse
	if err := c.do(ctx, http.MethodPost, "/expenses", d.wire(), &out, headers); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &APIError{Status: http.StatusOK, Message: "empty id in create response"}
	}
	return out.ID, nil
}

// UpdateExpense replaces the mutable fields of the identified expense.
func (c *Client) UpdateExpense(ctx context.Context, id string, d Draft) error {
	return c.do(ctx, http.MethodPut, "/expenses/"+id, d.wire(), nil, nil)
}

// DeleteExpense removes the identified expense.
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/expenses/"+id, nil, nil, nil)
}

func (d Draft) wire() expenseWire {
	return expenseWire{
		Description: d.Description,
		Amount:      d.Amount,
		Date:        d.Date.Format(wireDateFormat),
	}
}

func (w expenseWire) toDomain() (expense.Expense, error) {
	date, err := time.Parse(wireDateFormat, w.Date)
	if err != nil {
		return expense.Expense{}, fmt.Errorf("api: parse expense date %q: %w", w.Date, err)
	}
	return expense.Expense{
		ID:          w.ID,
		Description: w.Description,
		Amount:      w.Amount,
		Date:        date,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, headers map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	var er errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&er)
	return &APIError{Status: resp.StatusCode, Message: er.Error}
}
