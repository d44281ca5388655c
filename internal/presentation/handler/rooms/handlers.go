package rooms

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/game"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/json"
)

type Handler struct {
	registry *game.Registry
	records  domain.RecordStore
}

func NewHandler(registry *game.Registry, records domain.RecordStore) *Handler {
	return &Handler{
		registry: registry,
		records:  records,
	}
}

// ListRoomsHandler returns a summary of every live room.
func (h *Handler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	summaries := h.registry.ListActive()

	json.Write(w, http.StatusOK, listRoomsResponse{
		Rooms: summaries,
		Count: len(summaries),
	})
}

// GetRoomHandler returns the live state of one room.
func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "roomCode")

	sess, err := h.registry.Get(code)
	if err != nil {
		json.WriteNotFoundError(w, "Room not found")
		return
	}

	json.Write(w, http.StatusOK, sess.Snapshot())
}

// GetRoomHistoryHandler returns the durable record of a room, live or not.
func (h *Handler) GetRoomHistoryHandler(w http.ResponseWriter, r *http.Request) {
	code := domain.NormalizeRoomCode(chi.URLParam(r, "roomCode"))
	if code == "" {
		json.WriteBadRequestError(w, "Room code is required")
		return
	}

	history, err := h.records.GetHistory(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			json.WriteNotFoundError(w, "Room not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, history)
}
