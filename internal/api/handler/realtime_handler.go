package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/doable/dashboard/internal/api/metrics"
	"github.com/doable/dashboard/internal/infrastructure/realtime"
)

const heartbeatInterval = 25 * time.Second

// Listener hands out change-notification streams.
type Listener interface {
	Listen() (<-chan realtime.Notification, func())
}

// RealtimeHandler streams change notifications as server-sent events.
type RealtimeHandler struct {
	hub Listener
}

func NewRealtimeHandler(hub Listener) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Stream handles GET /api/v1/realtime. Each notification is sent as an
// event named "change"; comment lines keep idle connections open.
//
// @Summary      Change notifications (server-sent events)
// @Tags         realtime
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Router       /api/v1/realtime [get]
func (h *RealtimeHandler) Stream(c echo.Context) error {
	notes, stop := h.hub.Listen()
	defer stop()
	metrics.StreamListeners.Inc()
	defer metrics.StreamListeners.Dec()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return nil
	}
	w.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case n, ok := <-notes:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(n)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
