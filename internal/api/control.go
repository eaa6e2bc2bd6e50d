package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pumpwatch/internal/domain"
)

// settingsRequest carries the runtime controls. Absent fields are left
// unchanged.
type settingsRequest struct {
	UpdateIntervalSeconds *int  `json:"updateIntervalSeconds"`
	Paused                *bool `json:"paused"`
}

// updateSettings changes the flush cadence and/or the paused flag. An
// interval change takes effect from the next tick.
func (s *Server) updateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "malformed settings body")
		return
	}

	if req.UpdateIntervalSeconds != nil {
		iv := domain.UpdateInterval(*req.UpdateIntervalSeconds)
		if err := s.pipeline.SetUpdateInterval(iv); err != nil {
			if errors.Is(err, domain.ErrInvalidInterval) {
				fail(c, http.StatusBadRequest, "updateIntervalSeconds must be one of 1, 5, 10, 20")
				return
			}
			fail(c, http.StatusInternalServerError, "failed to apply interval")
			return
		}
	}

	if req.Paused != nil {
		if *req.Paused {
			s.pipeline.Pause()
		} else {
			s.pipeline.Resume()
		}
	}

	ok(c, gin.H{
		"updateIntervalSeconds": int(s.pipeline.Interval()),
		"paused":                s.pipeline.Paused(),
	})
}

// status reports the feed connection, runtime controls and store sizes.
func (s *Server) status(c *gin.Context) {
	feedStatus := s.pipeline.FeedStatus()

	total, err := s.tokens.Len(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to read store size")
		return
	}

	ok(c, gin.H{
		"connected":             feedStatus.Connected,
		"lastError":             feedStatus.LastError,
		"paused":                s.pipeline.Paused(),
		"updateIntervalSeconds": int(s.pipeline.Interval()),
		"buffered":              s.pipeline.Buffered(),
		"tokensStored":          total,
	})
}
