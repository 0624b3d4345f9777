package main

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	themo "github.com/themolabs/themo-go"
)

const deviceCacheTTL = 15 * time.Second

// Collector collects Themo thermostat metrics on each Prometheus scrape.
type Collector struct {
	client themo.API
	log    *zap.SugaredLogger

	scrapeSuccess prometheus.Gauge
	lastSuccess   prometheus.Gauge

	floorTemperature  *prometheus.GaugeVec
	roomTemperature   *prometheus.GaugeVec
	manualTemperature *prometheus.GaugeVec
	power             *prometheus.GaugeVec
	maxPower          *prometheus.GaugeVec
	lights            *prometheus.GaugeVec

	mu       sync.Mutex
	cached   []*themo.Device
	cachedAt time.Time
}

func NewCollector(client themo.API, log *zap.SugaredLogger) *Collector {
	labels := []string{"device_id", "environment_id", "name"}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels)
	}

	return &Collector{
		client: client,
		log:    log,
		scrapeSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "themo_scrape_success",
			Help: "Last scrape success (1=ok, 0=error)",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "themo_last_success_timestamp_seconds",
			Help: "Last successful scrape timestamp (epoch seconds)",
		}),
		floorTemperature:  gauge("themo_floor_temperature_celsius", "Floor temperature (C)"),
		roomTemperature:   gauge("themo_room_temperature_celsius", "Room temperature (C)"),
		manualTemperature: gauge("themo_manual_target_temperature_celsius", "Manual target temperature (C)"),
		power:             gauge("themo_power_watts", "Current heating power (W)"),
		maxPower:          gauge("themo_max_power_watts", "Configured maximum power (W)"),
		lights:            gauge("themo_lights_on", "Lights state (1=on, 0=off)"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.scrapeSuccess.Describe(ch)
	c.lastSuccess.Describe(ch)
	for _, gauge := range c.gauges() {
		gauge.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	devices, err := c.fetchDevices(ctx)
	if err != nil {
		c.log.Warnw("device scrape failed", "err", err)
		c.scrapeSuccess.Set(0)
		c.collectAll(ch)
		return
	}

	for _, device := range devices {
		labels := prometheus.Labels{
			"device_id":      device.ID,
			"environment_id": device.EnvironmentID,
			"name":           device.Name,
		}
		setGauge(c.floorTemperature, labels, device.FloorTemperature)
		setGauge(c.roomTemperature, labels, device.RoomTemperature)
		setGauge(c.manualTemperature, labels, device.ManualTemperature)
		setGauge(c.power, labels, device.Power)
		setGauge(c.maxPower, labels, device.MaxPower)
		if device.Lights != nil {
			value := 0.0
			if *device.Lights {
				value = 1
			}
			c.lights.With(labels).Set(value)
		}
	}

	c.scrapeSuccess.Set(1)
	c.lastSuccess.Set(float64(time.Now().Unix()))
	c.collectAll(ch)
}

func (c *Collector) collectAll(ch chan<- prometheus.Metric) {
	c.scrapeSuccess.Collect(ch)
	c.lastSuccess.Collect(ch)
	for _, gauge := range c.gauges() {
		gauge.Collect(ch)
	}
}

func (c *Collector) gauges() []*prometheus.GaugeVec {
	return []*prometheus.GaugeVec{
		c.floorTemperature,
		c.roomTemperature,
		c.manualTemperature,
		c.power,
		c.maxPower,
		c.lights,
	}
}

// fetchDevices lists all devices, short-caching the result so rapid scrapes
// don't hammer the vendor API.
func (c *Collector) fetchDevices(ctx context.Context) ([]*themo.Device, error) {
	c.mu.Lock()
	if time.Since(c.cachedAt) < deviceCacheTTL && len(c.cached) > 0 {
		devices := append([]*themo.Device(nil), c.cached...)
		c.mu.Unlock()
		return devices, nil
	}
	c.mu.Unlock()

	devices, err := c.client.ListAllDevices(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached = append([]*themo.Device(nil), devices...)
	c.cachedAt = time.Now()
	c.mu.Unlock()

	return devices, nil
}

func setGauge(gauge *prometheus.GaugeVec, labels prometheus.Labels, value *float64) {
	if value == nil {
		return
	}
	gauge.With(labels).Set(*value)
}
