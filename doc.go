// Package themo provides a Go client library for the Themo smart thermostat
// cloud API.
//
// The client exchanges a username/password for a bearer token, discovers the
// account's environments and their devices, and exposes methods to read
// device state and schedules and to issue control commands (lights,
// temperature, mode, active schedule).
//
// # Authentication
//
// Construct a client with the account credentials and authenticate once.
// Authentication also eagerly discovers the account's environments:
//
//	client, err := themo.NewClient("user@example.com", "secret")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Authenticate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// The bearer token lives only in process memory and is attached to every
// subsequent request.
//
// # Basic Usage
//
// List all devices across all environments:
//
//	devices, err := client.ListAllDevices(ctx)
//	for _, device := range devices {
//	    fmt.Println(device)
//	}
//
// Control a device. Cached attributes are updated optimistically once a write
// succeeds:
//
//	device := devices[0]
//	if err := device.SetManualTemperature(ctx, 21.5); err != nil {
//	    log.Fatal(err)
//	}
//	if err := device.SetMode(ctx, themo.ModeManual); err != nil {
//	    log.Fatal(err)
//	}
//
// Switch the active schedule by name. The name is validated against the
// last-fetched schedule list before any request is issued:
//
//	if err := device.RefreshState(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := device.SetActiveSchedule(ctx, "Eco"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Check for specific error classes:
//
//	if err := client.Authenticate(ctx); err != nil {
//	    switch {
//	    case themo.IsAuthError(err):
//	        // credentials rejected or no token in the response
//	    case themo.IsConnectionError(err):
//	        // network or timeout failure
//	    }
//	}
//
// There are no automatic retries; every failure is reported synchronously to
// the caller of the offending method.
package themo
