package themo

import (
	"context"
	"fmt"
	"slices"
)

// State payload keys. The PascalCase server-side keys and their local
// attribute mapping are a hard external contract:
//
//	FloorT → FloorTemperature
//	Info   → Info
//	Lights → Lights
//	MT     → ManualTemperature
//	MP     → MaxPower
//	Mode   → Mode
//	Power  → Power
//	RT     → RoomTemperature
//	SW     → SWVersion
const (
	stateKeyFloorT = "FloorT"
	stateKeyInfo   = "Info"
	stateKeyLights = "Lights"
	stateKeyMT     = "MT"
	stateKeyMP     = "MP"
	stateKeyMode   = "Mode"
	stateKeyPower  = "Power"
	stateKeyRT     = "RT"
	stateKeySW     = "SW"
)

// Device is a typed view over one thermostat's last-fetched attributes. It
// holds a non-owning back-reference to the Client for issuing requests, and
// mutates its cached fields optimistically after a successful write.
//
// Attribute fields are nil until the first state fetch.
type Device struct {
	// ID is the identifier used in API routes.
	ID string
	// EnvironmentID is the identifier of the owning environment.
	EnvironmentID string

	// Name is the user-assigned device name.
	Name string
	// DeviceID is the hardware identifier reported by the device itself.
	DeviceID string

	// ActiveSchedule is the name of the currently active schedule, empty
	// until a schedule fetch has seen an active-flagged entry.
	ActiveSchedule string
	// AvailableSchedules lists the schedule names known from the last fetch.
	AvailableSchedules []string

	FloorTemperature  *float64
	Info              *string
	Lights            *bool
	ManualTemperature *float64
	MaxPower          *float64
	Mode              *string
	Power             *float64
	RoomTemperature   *float64
	SWVersion         *string

	client *Client
}

func newDevice(deviceID, environmentID string, client *Client) *Device {
	return &Device{
		ID:            deviceID,
		EnvironmentID: environmentID,
		client:        client,
	}
}

// String implements fmt.Stringer.
func (d *Device) String() string {
	return fmt.Sprintf("<Themo %s (%s)>", d.ID, d.Name)
}

// RefreshState fetches the device data and schedules, overwriting all cached
// attributes.
func (d *Device) RefreshState(ctx context.Context) error {
	if _, err := d.FetchData(ctx); err != nil {
		return err
	}
	return d.FetchSchedules(ctx)
}

// FetchData fetches the device payload, updates the cached attributes, and
// returns the raw payload.
func (d *Device) FetchData(ctx context.Context) (map[string]any, error) {
	data, err := d.client.GetDeviceData(ctx, d.EnvironmentID, d.ID)
	if err != nil {
		return nil, err
	}
	d.updateAttributes(data)
	return data, nil
}

// FetchSchedules fetches the device schedules and updates the cached schedule
// fields.
func (d *Device) FetchSchedules(ctx context.Context) error {
	schedules, err := d.client.GetDeviceSchedules(ctx, d.EnvironmentID, d.ID)
	if err != nil {
		return err
	}
	d.updateSchedules(schedules)
	return nil
}

// updateAttributes overwrites the cached attributes from a raw device payload,
// merging the State sub-object into flat fields. Absent keys reset the
// corresponding field.
func (d *Device) updateAttributes(data map[string]any) {
	d.Name, _ = GetString(data, "Name")
	d.DeviceID, _ = GetString(data, "DeviceId")

	state, _ := GetMap(data, "State")
	d.FloorTemperature = floatAttr(state, stateKeyFloorT)
	d.Info = stringAttr(state, stateKeyInfo)
	d.Lights = boolAttr(state, stateKeyLights)
	d.ManualTemperature = floatAttr(state, stateKeyMT)
	d.MaxPower = floatAttr(state, stateKeyMP)
	d.Mode = stringAttr(state, stateKeyMode)
	d.Power = floatAttr(state, stateKeyPower)
	d.RoomTemperature = floatAttr(state, stateKeyRT)
	d.SWVersion = stringAttr(state, stateKeySW)
}

// updateSchedules derives the schedule fields from a fetched schedule list.
// If no entry is flagged active, the previous ActiveSchedule value is left
// as-is.
func (d *Device) updateSchedules(schedules []Schedule) {
	names := make([]string, 0, len(schedules))
	for _, s := range schedules {
		names = append(names, s.Name)
	}
	d.AvailableSchedules = names

	for _, s := range schedules {
		if s.Active {
			d.ActiveSchedule = s.Name
		}
	}
}

// SetLights sets the lights state. The cached field is updated only after the
// write succeeds.
func (d *Device) SetLights(ctx context.Context, on bool) error {
	if err := d.client.SetDeviceLights(ctx, d.EnvironmentID, d.ID, on); err != nil {
		return err
	}
	d.Lights = &on
	return nil
}

// SetManualTemperature sets the manual target temperature. The cached field is
// updated only after the write succeeds.
func (d *Device) SetManualTemperature(ctx context.Context, temperature float64) error {
	if err := d.client.SetDeviceTemperature(ctx, d.EnvironmentID, d.ID, temperature); err != nil {
		return err
	}
	d.ManualTemperature = &temperature
	return nil
}

// SetMode sets the device operation mode. The cached field is updated only
// after the write succeeds.
func (d *Device) SetMode(ctx context.Context, mode string) error {
	if err := d.client.SetDeviceMode(ctx, d.EnvironmentID, d.ID, mode); err != nil {
		return err
	}
	d.Mode = &mode
	return nil
}

// SetActiveSchedule switches the device to a different schedule by name.
//
// The name is validated against the last-fetched AvailableSchedules before any
// request is issued. The schedule list is then re-fetched to resolve the
// schedule's server-side identifier, the switch request is issued, and on
// success the cached ActiveSchedule is set to the requested name.
func (d *Device) SetActiveSchedule(ctx context.Context, name string) error {
	if !slices.Contains(d.AvailableSchedules, name) {
		return fmt.Errorf("%w: %q", ErrUnknownSchedule, name)
	}

	// Name→ID lookups are not cached across calls.
	schedules, err := d.client.GetDeviceSchedules(ctx, d.EnvironmentID, d.ID)
	if err != nil {
		return err
	}

	var scheduleID string
	for _, s := range schedules {
		if s.Name == name {
			scheduleID = s.ID
			break
		}
	}
	if scheduleID == "" {
		return fmt.Errorf("%w: no server-side ID for %q", ErrUnknownSchedule, name)
	}

	if err := d.client.UpdateSchedule(ctx, d.EnvironmentID, d.ID, scheduleID, name); err != nil {
		return err
	}

	d.ActiveSchedule = name
	return nil
}

func floatAttr(state map[string]any, key string) *float64 {
	v, ok := GetFloat(state, key)
	if !ok {
		return nil
	}
	return &v
}

func stringAttr(state map[string]any, key string) *string {
	v, ok := GetString(state, key)
	if !ok {
		return nil
	}
	return &v
}

func boolAttr(state map[string]any, key string) *bool {
	v, ok := GetBool(state, key)
	if !ok {
		return nil
	}
	return &v
}
