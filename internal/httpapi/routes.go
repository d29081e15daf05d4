package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ncastellano/impostor-backend/internal/hub"
	"github.com/ncastellano/impostor-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, publicURL string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/rooms/{code}/qr", JoinQR(h, publicURL))
	r.Get("/ws", ws.Handler(h, log))
	return r
}
