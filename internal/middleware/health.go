package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthStatus struct {
	Status      string    `json:"status"`
	Database    string    `json:"database"`
	LastChecked time.Time `json:"last_checked"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
}

// Health serves the health endpoint. Results are reused for cacheDuration.
type Health struct {
	mu            sync.Mutex
	db            Pinger
	version       string
	startTime     time.Time
	cacheDuration time.Duration
	last          *HealthStatus
	now           func() time.Time
}

func NewHealth(db Pinger, version string) *Health {
	return &Health{
		db:            db,
		version:       version,
		startTime:     time.Now(),
		cacheDuration: 5 * time.Second,
		now:           time.Now,
	}
}

func (h *Health) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := h.check(c.Request.Context())
		code := http.StatusOK
		if status.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}

func (h *Health) check(ctx context.Context) HealthStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if h.last != nil && now.Sub(h.last.LastChecked) < h.cacheDuration {
		cached := *h.last
		cached.Uptime = now.Sub(h.startTime).Truncate(time.Second).String()
		return cached
	}

	status := HealthStatus{
		Status:      "ok",
		Database:    "up",
		LastChecked: now,
		Uptime:      now.Sub(h.startTime).Truncate(time.Second).String(),
		Version:     h.version,
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	if err := h.db.PingContext(pingCtx); err != nil {
		status.Status = "degraded"
		status.Database = "down"
	}

	h.last = &status
	return status
}
