package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sharegarden/internal/delivery/http/response"
	"sharegarden/internal/lifecycle"
)

// SystemHandler serves the liveness channel and the health probe. The
// heartbeat and shutdown endpoints are fire-and-forget beacons sent by
// the front-end; they never fail and carry no body.
type SystemHandler struct {
	supervisor *lifecycle.Supervisor
}

// NewSystemHandler is the constructor for SystemHandler, injected by Fx.
func NewSystemHandler(supervisor *lifecycle.Supervisor) *SystemHandler {
	return &SystemHandler{supervisor: supervisor}
}

// Health reports that the process is up, with the supervisor's view of
// the client.
func (h *SystemHandler) Health(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{
		"status":   "ok",
		"liveness": h.supervisor.State().String(),
	}, "")
}

// Heartbeat records a client liveness ping.
func (h *SystemHandler) Heartbeat(c echo.Context) error {
	h.supervisor.RecordHeartbeat()

	return c.NoContent(http.StatusNoContent)
}

// Shutdown records the client's close notification, arming the soft
// shutdown window.
func (h *SystemHandler) Shutdown(c echo.Context) error {
	h.supervisor.RecordShutdownSignal()

	return c.NoContent(http.StatusOK)
}
