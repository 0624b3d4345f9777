// Command themo-exporter serves Prometheus metrics for Themo smart
// thermostats. It authenticates against the Themo cloud with the configured
// account and exposes per-device temperature, power, and lights gauges on
// /metrics.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	themo "github.com/themolabs/themo-go"
)

func main() {
	log := newLogger()
	defer log.Sync() //nolint:errcheck

	loadConfig()

	username := viper.GetString("themo.username")
	password := viper.GetString("themo.password")

	client, err := themo.NewClient(username, password,
		themo.WithBaseURL(viper.GetString("themo.base_url")),
		themo.WithTimeout(viper.GetDuration("themo.timeout")))
	if err != nil {
		log.Fatalw("invalid configuration", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := client.Authenticate(ctx); err != nil {
		cancel()
		log.Fatalw("authentication failed", "err", err)
	}
	cancel()
	log.Infow("authenticated", "environments", len(client.Environments()))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		NewCollector(client, log),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n")) //nolint:errcheck
	})

	srv := &http.Server{
		Addr:    viper.GetString("listen_addr"),
		Handler: mux,
	}
	go func() {
		log.Infow("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server error", "err", err)
		}
	}()

	waitForShutdown(srv, log)
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger.Sugar()
}

// loadConfig reads an optional YAML config file and overlays THEMO_*
// environment variables. The password has no config-file fallback on
// purpose: it comes from the environment or the file, never a flag.
func loadConfig() {
	viper.SetConfigName("themo-exporter")
	viper.AddConfigPath("/etc/themo")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("listen_addr", ":9963")
	viper.SetDefault("themo.base_url", themo.DefaultBaseURL)
	viper.SetDefault("themo.timeout", themo.DefaultTimeout)
	_ = viper.ReadInConfig()
}

func waitForShutdown(srv *http.Server, log *zap.SugaredLogger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("forced shutdown", "err", err)
	}
}
