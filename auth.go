package themo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// loginRequest is the JSON body for the login endpoint. The field names are
// part of the API contract and must stay PascalCase on the wire.
type loginRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

// loginResponse is the JSON body returned by a successful login.
type loginResponse struct {
	Token string `json:"Token"`
}

// Authenticate exchanges the client's credentials for a bearer token.
//
// On success the token is attached to every subsequent request and the
// account's environments are fetched eagerly. The token lives only in process
// memory; it is never logged or written to disk.
//
// A rejected login or a response without a token yields an *AuthError carrying
// the raw response status and body. Transport failures yield a
// *ConnectionError. On failure the client's session state is left untouched.
func (c *Client) Authenticate(ctx context.Context) error {
	body, err := json.Marshal(loginRequest{
		Username: c.username,
		Password: c.password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("/api/auth/login"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ConnectionError{Op: "login", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnectionError{Op: "login", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &AuthError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var login loginResponse
	if err := json.Unmarshal(respBody, &login); err != nil || login.Token == "" {
		return &AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			Reason:     "no token received",
		}
	}

	c.token = login.Token

	// Eagerly discover environments so ListAllDevices has a cached list.
	if _, err := c.ListEnvironments(ctx); err != nil {
		return err
	}
	return nil
}
