package stats

import (
	"net/http"
	"time"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/game"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/json"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/ws"
)

var startTime = time.Now()

type Handler struct {
	registry *game.Registry
	hub      *ws.Hub
	records  domain.RecordStore
}

func NewHandler(registry *game.Registry, hub *ws.Hub, records domain.RecordStore) *Handler {
	return &Handler{
		registry: registry,
		hub:      hub,
		records:  records,
	}
}

// GetStatsHandler combines live gauges with all-time counts from the record
// store. Count failures degrade to zeros rather than failing the request.
func (h *Handler) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := h.records.Counts(r.Context())
	if err != nil {
		counts = domain.RecordCounts{}
	}

	json.Write(w, http.StatusOK, statsResponse{
		ActiveRooms:     h.registry.Count(),
		LiveConnections: h.hub.ConnectionCount(),
		TotalRooms:      counts.TotalRooms,
		TotalPlayers:    counts.TotalPlayers,
		TotalBuzzes:     counts.TotalBuzzes,
		Uptime:          time.Since(startTime).Round(time.Second).String(),
	})
}
