package themo

import (
	"context"
	"encoding/json"
)

// Schedule represents a named, server-stored temperature program. Exactly one
// schedule may be active per device; this is enforced server-side.
type Schedule struct {
	ID     string
	Name   string
	Active bool
}

// schedulePayload is the wire shape of one schedule entry.
type schedulePayload struct {
	ID     idValue `json:"Id"`
	Name   string  `json:"Name"`
	Active bool    `json:"Active"`
}

// scheduleUpdate is the request body for activating a schedule.
type scheduleUpdate struct {
	Name   string `json:"Name"`
	Active bool   `json:"Active"`
}

// GetDeviceSchedules returns the schedules of a device.
//
// Schedule fetches are deliberately lenient: a failed request or an
// undecodable response degrades to an empty list rather than an error, so a
// device without schedule support still refreshes cleanly.
func (c *Client) GetDeviceSchedules(ctx context.Context, environmentID, deviceID string) ([]Schedule, error) {
	if environmentID == "" {
		return nil, ErrEmptyEnvironmentID
	}
	if deviceID == "" {
		return nil, ErrEmptyDeviceID
	}

	data, err := c.get(ctx, "/api/environments/"+environmentID+"/devices/"+deviceID+"/schedules")
	if err != nil {
		return []Schedule{}, nil
	}

	var payloads []schedulePayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return []Schedule{}, nil
	}

	schedules := make([]Schedule, 0, len(payloads))
	for _, p := range payloads {
		schedules = append(schedules, Schedule{
			ID:     string(p.ID),
			Name:   p.Name,
			Active: p.Active,
		})
	}
	return schedules, nil
}

// UpdateSchedule activates the schedule with the given ID.
func (c *Client) UpdateSchedule(ctx context.Context, environmentID, deviceID, scheduleID, scheduleName string) error {
	if environmentID == "" {
		return ErrEmptyEnvironmentID
	}
	if deviceID == "" {
		return ErrEmptyDeviceID
	}
	if scheduleID == "" {
		return ErrEmptyScheduleID
	}
	if scheduleName == "" {
		return ErrEmptyScheduleName
	}

	_, err := c.put(ctx, "/api/environments/"+environmentID+"/devices/"+deviceID+"/schedules/"+scheduleID, scheduleUpdate{
		Name:   scheduleName,
		Active: true,
	})
	return err
}

// FindScheduleByName returns the first schedule matching the given name, or
// nil if not found.
func FindScheduleByName(schedules []Schedule, name string) *Schedule {
	for i := range schedules {
		if schedules[i].Name == name {
			return &schedules[i]
		}
	}
	return nil
}
