package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/denwilliams/go-yeelight-mqtt/internal/bulb"
	"github.com/denwilliams/go-yeelight-mqtt/internal/config"
	"github.com/denwilliams/go-yeelight-mqtt/internal/logging"
	"github.com/denwilliams/go-yeelight-mqtt/internal/mqtt"
	"github.com/denwilliams/go-yeelight-mqtt/internal/web"
)

func main() {
	logging.Info("Loading configuration")
	cfg, err := config.Load(".env")
	if err != nil {
		logging.Error("Error loading configuration: %s", err)
		os.Exit(1)
	}
	if err := logging.Init(cfg.LogLevel); err != nil {
		logging.Warn("Invalid LOG_LEVEL %s", cfg.LogLevel)
	}

	mu, err := url.Parse(cfg.MQTTURI)
	if err != nil || cfg.MQTTURI == "" {
		logging.Error("Error parsing MQTT_URI %q: %v", cfg.MQTTURI, err)
		os.Exit(1)
	}
	if len(cfg.Bulbs) == 0 {
		logging.Error("No bulbs configured, set YEELIGHT_HOST or YEELIGHT_BULBS")
		os.Exit(1)
	}

	mc := mqtt.NewMQTTClient(mu, cfg.TopicPrefix)
	bc := bulb.NewClient(cfg, mqtt.NewMqttStatusEmitter(mc))
	defer bc.Close()
	if err := mc.Connect(bc); err != nil {
		logging.Error("%s", err)
		os.Exit(1)
	}
	defer mc.Disconnect()

	go bc.RefreshBulbs()
	go refreshLoop(bc)
	if cfg.HTTPPort > 0 {
		go startServer(cfg.HTTPPort)
	}

	logging.Info("Ready")

	waitForExit()

	logging.Info("Terminating")
}

func waitForExit() {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	<-signalChan
	logging.Info("Exit signal received")
}

// refreshLoop picks up changes made outside MQTT, e.g. from the vendor app.
func refreshLoop(bc *bulb.Client) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(1 * time.Minute)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			bc.RefreshBulbs()
		case <-signalChan:
			logging.Info("Background refresh loop interrupted, exiting")
			return
		}
	}
}

func startServer(port int) {
	logging.Info("Creating HTTP server")
	server := http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           web.CreateHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logging.Info("Starting HTTP server on port %d", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error("Error running http server: %s", err)
		os.Exit(1)
	}
}
