package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/roomrelay-server/internal/core"
)

// StatsHandlers exposes read-only registry statistics. Handlers read hub
// state through a snapshot query and never mutate it.
type StatsHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewStatsHandlers creates the stats handlers.
func NewStatsHandlers(hub *core.Hub, logger *zerolog.Logger) *StatsHandlers {
	return &StatsHandlers{hub: hub, log: logger}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatsResponse summarizes the registry.
type StatsResponse struct {
	Channels int `json:"channels"`
	Sessions int `json:"sessions"`
}

// ChannelResponse describes one channel in listings.
type ChannelResponse struct {
	Name      string `json:"name"`
	Members   int    `json:"members"`
	CreatedAt int64  `json:"createdAt"`
}

// Stats handles GET /api/stats.
func (h *StatsHandlers) Stats(c *gin.Context) {
	snap, err := h.hub.Snapshot(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("stats snapshot failed")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "stats unavailable"})
		return
	}
	c.JSON(http.StatusOK, StatsResponse{Channels: snap.Channels, Sessions: snap.Sessions})
}

// Channels handles GET /api/channels.
func (h *StatsHandlers) Channels(c *gin.Context) {
	snap, err := h.hub.Snapshot(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("channels snapshot failed")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "stats unavailable"})
		return
	}
	channels := lo.Map(snap.List, func(ch core.ChannelStats, _ int) ChannelResponse {
		return ChannelResponse{Name: ch.Name, Members: ch.Members, CreatedAt: ch.CreatedAt.Unix()}
	})
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}
