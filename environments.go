package themo

import (
	"context"
	"encoding/json"
	"fmt"
)

// Environment represents an account-scoped grouping of devices, akin to a
// home or site.
type Environment struct {
	ID   string
	Name string
}

// environmentPayload is the wire shape of one environment entry.
type environmentPayload struct {
	ID   idValue `json:"Id"`
	Name string  `json:"Name"`
}

// ListEnvironments returns all environments for the authenticated user and
// caches them on the client. Entries without an ID are skipped.
func (c *Client) ListEnvironments(ctx context.Context) ([]Environment, error) {
	data, err := c.get(ctx, "/api/environments")
	if err != nil {
		return nil, err
	}

	var payloads []environmentPayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("failed to parse environment list: %w (body: %s)", err, truncatePreview(data))
	}

	envs := make([]Environment, 0, len(payloads))
	for _, p := range payloads {
		if p.ID == "" {
			continue
		}
		envs = append(envs, Environment{ID: string(p.ID), Name: p.Name})
	}

	c.environments = envs
	return envs, nil
}

// Environments returns the environments cached by the last ListEnvironments
// or Authenticate call. The returned slice is a copy.
func (c *Client) Environments() []Environment {
	return append([]Environment(nil), c.environments...)
}

// GetEnvironment returns the environment with the given ID, fetching the
// environment list if not yet cached. Returns ErrNotFound if no environment
// has that ID.
func (c *Client) GetEnvironment(ctx context.Context, environmentID string) (*Environment, error) {
	if environmentID == "" {
		return nil, ErrEmptyEnvironmentID
	}

	envs := c.environments
	if len(envs) == 0 {
		var err error
		envs, err = c.ListEnvironments(ctx)
		if err != nil {
			return nil, err
		}
	}

	for i := range envs {
		if envs[i].ID == environmentID {
			env := envs[i]
			return &env, nil
		}
	}
	return nil, ErrNotFound
}

// FindEnvironmentByName returns the first environment matching the given name.
// Returns a pointer to the environment in the slice, or nil if not found.
func FindEnvironmentByName(envs []Environment, name string) *Environment {
	for i := range envs {
		if envs[i].Name == name {
			return &envs[i]
		}
	}
	return nil
}
