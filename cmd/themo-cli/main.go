// Command themo-cli is a small terminal client for Themo smart thermostats.
//
// Credentials come from the THEMO_USERNAME and THEMO_PASSWORD environment
// variables; they are held in memory only.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	themo "github.com/themolabs/themo-go"
)

func main() {
	args := os.Args[1:]
	out := outputMode{}
	if len(args) > 0 && args[0] == "-json" {
		out.json = true
		args = args[1:]
	}
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	client := newClient()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := client.Authenticate(ctx); err != nil {
		fatal("authenticate", err)
	}

	switch args[0] {
	case "environments":
		environmentsCmd(ctx, client, out)
	case "devices":
		devicesCmd(ctx, client, out)
	case "status":
		statusCmd(ctx, client, out, args[1:])
	case "set-temp":
		setTempCmd(ctx, client, args[1:])
	case "set-mode":
		setModeCmd(ctx, client, args[1:])
	case "lights":
		lightsCmd(ctx, client, args[1:])
	case "schedule":
		scheduleCmd(ctx, client, out, args[1:])
	default:
		usage()
		os.Exit(2)
	}
}

func newClient() *themo.Client {
	username := os.Getenv("THEMO_USERNAME")
	password := os.Getenv("THEMO_PASSWORD")

	var opts []themo.Option
	if baseURL := os.Getenv("THEMO_BASE_URL"); baseURL != "" {
		opts = append(opts, themo.WithBaseURL(baseURL))
	}

	client, err := themo.NewClient(username, password, opts...)
	if err != nil {
		fatal("configure", err)
	}
	return client
}

func environmentsCmd(ctx context.Context, client *themo.Client, out outputMode) {
	environments, err := client.ListEnvironments(ctx)
	if err != nil {
		fatal("list environments", err)
	}
	if out.json {
		out.printJSON(environments)
		return
	}
	rows := [][]string{{"ID", "NAME"}}
	for _, env := range environments {
		rows = append(rows, []string{env.ID, env.Name})
	}
	out.table(rows)
}

func devicesCmd(ctx context.Context, client *themo.Client, out outputMode) {
	devices, err := client.ListAllDevices(ctx)
	if err != nil {
		fatal("list devices", err)
	}
	if out.json {
		out.printJSON(devices)
		return
	}
	rows := [][]string{{"ID", "NAME", "ENV", "MODE", "ROOM", "FLOOR", "TARGET", "LIGHTS"}}
	for _, device := range devices {
		rows = append(rows, []string{
			device.ID,
			device.Name,
			device.EnvironmentID,
			formatString(device.Mode),
			formatFloat(device.RoomTemperature),
			formatFloat(device.FloorTemperature),
			formatFloat(device.ManualTemperature),
			formatBool(device.Lights),
		})
	}
	out.table(rows)
}

func statusCmd(ctx context.Context, client *themo.Client, out outputMode, args []string) {
	if len(args) < 1 {
		fatal("status", fmt.Errorf("missing device name or id"))
	}

	device := resolveDevice(ctx, client, args[0])
	if err := device.RefreshState(ctx); err != nil {
		fatal("refresh state", err)
	}
	if out.json {
		out.printJSON(device)
		return
	}

	fmt.Printf("device: %s (%s)\n", device.Name, device.ID)
	fmt.Printf("environment: %s\n", device.EnvironmentID)
	fmt.Printf("mode: %s\n", formatString(device.Mode))
	fmt.Printf("room temperature: %s\n", formatFloat(device.RoomTemperature))
	fmt.Printf("floor temperature: %s\n", formatFloat(device.FloorTemperature))
	fmt.Printf("manual target: %s\n", formatFloat(device.ManualTemperature))
	fmt.Printf("power: %s\n", formatFloat(device.Power))
	fmt.Printf("max power: %s\n", formatFloat(device.MaxPower))
	fmt.Printf("lights: %s\n", formatBool(device.Lights))
	fmt.Printf("firmware: %s\n", formatString(device.SWVersion))
	if device.ActiveSchedule != "" {
		fmt.Printf("active schedule: %s\n", device.ActiveSchedule)
	}
	if len(device.AvailableSchedules) > 0 {
		fmt.Printf("schedules: %s\n", strings.Join(device.AvailableSchedules, ", "))
	}
}

func setTempCmd(ctx context.Context, client *themo.Client, args []string) {
	if len(args) < 2 {
		fatal("set-temp", fmt.Errorf("usage: set-temp <device> <celsius>"))
	}
	temperature, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fatal("set-temp", fmt.Errorf("invalid temperature %q", args[1]))
	}

	device := resolveDevice(ctx, client, args[0])
	if err := device.SetManualTemperature(ctx, temperature); err != nil {
		fatal("set temperature", err)
	}
	fmt.Printf("%s: manual target set to %.1f\n", device.Name, temperature)
}

func setModeCmd(ctx context.Context, client *themo.Client, args []string) {
	if len(args) < 2 {
		fatal("set-mode", fmt.Errorf("usage: set-mode <device> <%s>", strings.Join(themo.ValidModes(), "|")))
	}

	device := resolveDevice(ctx, client, args[0])
	if err := device.SetMode(ctx, args[1]); err != nil {
		fatal("set mode", err)
	}
	fmt.Printf("%s: mode set to %s\n", device.Name, args[1])
}

func lightsCmd(ctx context.Context, client *themo.Client, args []string) {
	if len(args) < 2 || (args[1] != "on" && args[1] != "off") {
		fatal("lights", fmt.Errorf("usage: lights <device> on|off"))
	}

	device := resolveDevice(ctx, client, args[0])
	if err := device.SetLights(ctx, args[1] == "on"); err != nil {
		fatal("set lights", err)
	}
	fmt.Printf("%s: lights %s\n", device.Name, args[1])
}

func scheduleCmd(ctx context.Context, client *themo.Client, out outputMode, args []string) {
	if len(args) < 1 {
		fatal("schedule", fmt.Errorf("usage: schedule <device> [name]"))
	}

	device := resolveDevice(ctx, client, args[0])
	if len(args) >= 2 {
		name := strings.Join(args[1:], " ")
		if err := device.SetActiveSchedule(ctx, name); err != nil {
			fatal("set schedule", err)
		}
		fmt.Printf("%s: active schedule set to %s\n", device.Name, name)
		return
	}

	if err := device.FetchSchedules(ctx); err != nil {
		fatal("fetch schedules", err)
	}
	if out.json {
		out.printJSON(map[string]any{
			"active":    device.ActiveSchedule,
			"available": device.AvailableSchedules,
		})
		return
	}
	for _, name := range device.AvailableSchedules {
		marker := " "
		if name == device.ActiveSchedule {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, name)
	}
}

// resolveDevice finds a device by name first, then by ID.
func resolveDevice(ctx context.Context, client *themo.Client, nameOrID string) *themo.Device {
	devices, err := client.ListAllDevices(ctx)
	if err != nil {
		fatal("list devices", err)
	}
	if device := themo.FindDeviceByName(devices, nameOrID); device != nil {
		return device
	}
	if device := themo.FindDeviceByID(devices, nameOrID); device != nil {
		return device
	}
	fatal("resolve device", fmt.Errorf("no device named %q", nameOrID))
	return nil
}

func usage() {
	fmt.Println("themo-cli [-json] <command> [args]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  environments")
	fmt.Println("  devices")
	fmt.Println("  status <device>")
	fmt.Println("  set-temp <device> <celsius>")
	fmt.Println("  set-mode <device> <mode>")
	fmt.Println("  lights <device> on|off")
	fmt.Println("  schedule <device> [name]")
	fmt.Println("")
	fmt.Println("Credentials are read from THEMO_USERNAME and THEMO_PASSWORD.")
}

func fatal(action string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", action, err)
	os.Exit(1)
}
