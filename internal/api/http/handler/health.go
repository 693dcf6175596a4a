package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brlima/auth-gateway/internal/model"
)

type healthResponse struct {
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
	Queue         string  `json:"queue"`
}

// Health reports liveness plus broker connectivity. Connectivity is
// informational only; the endpoint stays 200 while the process serves.
type Health struct {
	events  model.EventPublisher
	started time.Time
}

func NewHealth(events model.EventPublisher) *Health {
	return &Health{events: events, started: time.Now()}
}

func (h *Health) Check(c *gin.Context) {
	queue := "disconnected"
	if h.events.Connected() {
		queue = "connected"
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: time.Since(h.started).Seconds(),
		Queue:         queue,
	})
}

// Root is a minimal landing response for GET /.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Auth gateway is running"})
}
