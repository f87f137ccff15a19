package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/bughouse-gg/backend/internal/hub"
	"github.com/bughouse-gg/backend/internal/types"
)

func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ListRooms serves the room browser: one summary entry per live room.
func ListRooms(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []types.RoomSummary, 1)
		h.Inbox() <- hub.ListRooms{Reply: reply}
		rooms := <-reply

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rooms)
	}
}
