package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	RoomsCreated    prometheus.Counter
	RoomsClosed     prometheus.Counter
	BuzzesTotal     prometheus.Counter
	ActiveRooms     prometheus.Gauge
	LiveConnections prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RoomsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "buzzer_rooms_created_total",
			Help: "Rooms created since process start.",
		}),
		RoomsClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "buzzer_rooms_closed_total",
			Help: "Rooms closed or reaped since process start.",
		}),
		BuzzesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "buzzer_buzzes_total",
			Help: "Winning buzzer presses since process start.",
		}),
		ActiveRooms: factory.NewGauge(prometheus.GaugeOpts{
			Name: "buzzer_active_rooms",
			Help: "Rooms currently held in the registry.",
		}),
		LiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "buzzer_live_connections",
			Help: "Open websocket connections.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
