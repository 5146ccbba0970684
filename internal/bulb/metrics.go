package bulb

import (
	"errors"
	"time"

	"github.com/denwilliams/go-yeelight-mqtt/internal/yeelight"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yeelight_commands_total",
		Help: "The total number of commands exchanged with Yeelight bulbs",
	}, []string{"method", "result"})

	exchangeSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yeelight_exchange_seconds",
		Help:    "Time taken by one request/response exchange",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	bulbErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yeelight_bulb_errors_total",
		Help: "The total number of error replies returned by bulbs",
	}, []string{"bulb", "method"})
)

func observeExchange(method yeelight.Method, elapsed time.Duration, err error) {
	exchangeSeconds.WithLabelValues(string(method)).Observe(elapsed.Seconds())
	commandsSent.WithLabelValues(string(method), resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var pe *yeelight.ProtocolError
	if errors.As(err, &pe) {
		return pe.Kind.String()
	}
	return "error"
}
