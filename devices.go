package themo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Device operation modes accepted by SetDeviceMode.
const (
	ModeManual = "Manual"
	ModeOff    = "Off"
	ModeSLS    = "SLS"
)

// ValidModes returns the set of modes accepted by SetDeviceMode.
func ValidModes() []string {
	return []string{ModeManual, ModeOff, ModeSLS}
}

func validMode(mode string) bool {
	return mode == ModeManual || mode == ModeOff || mode == ModeSLS
}

// Command body keys for the per-device message endpoint. PascalCase on the
// wire is part of the API contract.
type lightsCommand struct {
	CLights int `json:"CLights"`
}

type temperatureCommand struct {
	CMT float64 `json:"CMT"`
}

type modeCommand struct {
	CMode string `json:"CMode"`
}

// ListDevices returns all devices in an environment, populated from the
// inlined state of the device list payload. Entries without an ID are skipped.
func (c *Client) ListDevices(ctx context.Context, environmentID string) ([]*Device, error) {
	if environmentID == "" {
		return nil, ErrEmptyEnvironmentID
	}

	data, err := c.get(ctx, "/api/environments/"+environmentID+"/devices?state=true")
	if err != nil {
		return nil, err
	}

	var payloads []map[string]any
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("failed to parse device list: %w (body: %s)", err, truncatePreview(data))
	}

	devices := make([]*Device, 0, len(payloads))
	for _, payload := range payloads {
		deviceID, ok := rawID(payload, "Id")
		if !ok {
			continue
		}
		device := newDevice(deviceID, environmentID, c)
		device.updateAttributes(payload)
		devices = append(devices, device)
	}

	return devices, nil
}

// ListAllDevices returns the union of devices across every environment of the
// authenticated user, in environment-then-device order. Environments are
// fetched first if not yet cached; the aggregation itself is sequential, one
// request per environment.
func (c *Client) ListAllDevices(ctx context.Context) ([]*Device, error) {
	if len(c.environments) == 0 {
		if _, err := c.ListEnvironments(ctx); err != nil {
			return nil, err
		}
	}

	devices := make([]*Device, 0)
	for _, env := range c.environments {
		envDevices, err := c.ListDevices(ctx, env.ID)
		if err != nil {
			return nil, err
		}
		devices = append(devices, envDevices...)
	}

	return devices, nil
}

// GetDevice returns a single device with its state and schedules freshly
// fetched.
func (c *Client) GetDevice(ctx context.Context, environmentID, deviceID string) (*Device, error) {
	if environmentID == "" {
		return nil, ErrEmptyEnvironmentID
	}
	if deviceID == "" {
		return nil, ErrEmptyDeviceID
	}

	device := newDevice(deviceID, environmentID, c)
	if err := device.RefreshState(ctx); err != nil {
		return nil, err
	}
	return device, nil
}

// GetDeviceData returns the raw device payload with state information
// inlined. Transport failures are wrapped into a *ConnectionError; a 2xx
// response whose body fails to decode yields an empty map rather than an
// error.
func (c *Client) GetDeviceData(ctx context.Context, environmentID, deviceID string) (map[string]any, error) {
	if environmentID == "" {
		return nil, ErrEmptyEnvironmentID
	}
	if deviceID == "" {
		return nil, ErrEmptyDeviceID
	}

	data, err := c.get(ctx, "/api/environments/"+environmentID+"/devices/"+deviceID+"?state=true")
	if err != nil {
		var connErr *ConnectionError
		if errors.As(err, &connErr) {
			return nil, err
		}
		return nil, &ConnectionError{Op: "get device data", Err: err}
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return map[string]any{}, nil
	}
	return payload, nil
}

// SetDeviceLights sets the device lights on or off.
func (c *Client) SetDeviceLights(ctx context.Context, environmentID, deviceID string, on bool) error {
	if environmentID == "" {
		return ErrEmptyEnvironmentID
	}
	if deviceID == "" {
		return ErrEmptyDeviceID
	}

	state := 0
	if on {
		state = 1
	}
	_, err := c.post(ctx, commandPath(environmentID, deviceID), lightsCommand{CLights: state})
	return err
}

// SetDeviceTemperature sets the manual target temperature of a device.
func (c *Client) SetDeviceTemperature(ctx context.Context, environmentID, deviceID string, temperature float64) error {
	if environmentID == "" {
		return ErrEmptyEnvironmentID
	}
	if deviceID == "" {
		return ErrEmptyDeviceID
	}

	_, err := c.post(ctx, commandPath(environmentID, deviceID), temperatureCommand{CMT: temperature})
	return err
}

// SetDeviceMode sets the device operation mode. The mode must be one of
// ValidModes; anything else fails with ErrInvalidMode before any request is
// issued.
func (c *Client) SetDeviceMode(ctx context.Context, environmentID, deviceID, mode string) error {
	if environmentID == "" {
		return ErrEmptyEnvironmentID
	}
	if deviceID == "" {
		return ErrEmptyDeviceID
	}
	if !validMode(mode) {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	_, err := c.post(ctx, commandPath(environmentID, deviceID), modeCommand{CMode: mode})
	return err
}

func commandPath(environmentID, deviceID string) string {
	return "/api/environments/" + environmentID + "/devices/" + deviceID + "/commands/message"
}

// FilterDevices returns devices matching the given filter function.
func FilterDevices(devices []*Device, filter func(*Device) bool) []*Device {
	result := make([]*Device, 0, len(devices))
	for _, d := range devices {
		if filter(d) {
			result = append(result, d)
		}
	}
	return result
}

// FindDeviceByName returns the first device matching the given name, or nil
// if not found.
func FindDeviceByName(devices []*Device, name string) *Device {
	for _, d := range devices {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// FindDeviceByID returns the device with the given ID, or nil if not found.
func FindDeviceByID(devices []*Device, deviceID string) *Device {
	for _, d := range devices {
		if d.ID == deviceID {
			return d
		}
	}
	return nil
}
