package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bughouse-gg/backend/internal/hub"
	"github.com/bughouse-gg/backend/internal/ws"
)

func SetupRoutes(h *hub.Hub) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", Health)
	r.Get("/api/rooms", ListRooms(h))
	r.Get("/ws", ws.Handler(h))
	return r
}
