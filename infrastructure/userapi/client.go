package userapi

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
)

// User is an operator record in the remote user directory.
type User struct {
	UserName  string `json:"user_name"`
	UserPhone string `json:"user_phone"`
	UserRole  string `json:"user_role"`
}

// ValidateResult is the outcome of an operator ID validation.
type ValidateResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Client talks to the remote user directory (/user/...).
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Validate checks an operator identification number and returns the auth
// token the kiosk uses for all subsequent order service calls.
func (c *Client) Validate(ctx context.Context, userPhone string) (ValidateResult, error) {
	params := url.Values{}
	params.Set("user_phone", userPhone)

	body, err := c.do(ctx, http.MethodPost, "/user/validate", params, "", nil)
	if err != nil {
		return ValidateResult{}, err
	}

	var res ValidateResult
	if err := json.Unmarshal(body, &res); err != nil {
		return ValidateResult{}, fmt.Errorf("decode validate response: %w", err)
	}
	if res.Token == "" {
		return ValidateResult{}, fmt.Errorf("validate: response carried no token")
	}
	if res.User.UserPhone == "" {
		res.User.UserPhone = userPhone
	}
	return res, nil
}

// ListUsers fetches all operators. Tolerates an envelope or a bare array.
func (c *Client) ListUsers(ctx context.Context, token string) ([]User, error) {
	body, err := c.do(ctx, http.MethodGet, "/user/users", nil, token, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Records []User `json:"records"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Records != nil {
		return envelope.Records, nil
	}
	var users []User
	if err := json.Unmarshal(body, &users); err != nil {
		return []User{}, nil
	}
	return users, nil
}

// UpdateUserRole patches a user's role, keyed by phone number.
func (c *Client) UpdateUserRole(ctx context.Context, token, userPhone, role string) error {
	params := url.Values{}
	params.Set("user_phone", userPhone)

	payload, err := json.Marshal(map[string]string{"user_role": role})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPatch, "/user/user", params, token, payload)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, token string, body []byte) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("user service returned %d for %s", resp.StatusCode, path)
	}
	return data, nil
}
