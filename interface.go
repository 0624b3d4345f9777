package themo

import "context"

// API defines the interface for Themo API operations.
// Client implements this interface, enabling mocking for tests.
type API interface {
	// Authentication
	Authenticate(ctx context.Context) error

	// Environment operations
	ListEnvironments(ctx context.Context) ([]Environment, error)
	Environments() []Environment
	GetEnvironment(ctx context.Context, environmentID string) (*Environment, error)

	// Device discovery
	ListDevices(ctx context.Context, environmentID string) ([]*Device, error)
	ListAllDevices(ctx context.Context) ([]*Device, error)
	GetDevice(ctx context.Context, environmentID, deviceID string) (*Device, error)

	// Device reads
	GetDeviceData(ctx context.Context, environmentID, deviceID string) (map[string]any, error)
	GetDeviceSchedules(ctx context.Context, environmentID, deviceID string) ([]Schedule, error)

	// Device writes
	SetDeviceLights(ctx context.Context, environmentID, deviceID string, on bool) error
	SetDeviceTemperature(ctx context.Context, environmentID, deviceID string, temperature float64) error
	SetDeviceMode(ctx context.Context, environmentID, deviceID, mode string) error
	UpdateSchedule(ctx context.Context, environmentID, deviceID, scheduleID, scheduleName string) error
}

// Compile-time check that Client satisfies the API interface.
var _ API = (*Client)(nil)
