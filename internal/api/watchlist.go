package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pumpwatch/internal/storage"
)

// listWatchlist serves the current watchlist entries, oldest first.
func (s *Server) listWatchlist(c *gin.Context) {
	ok(c, gin.H{"entries": s.watchlist.Entries()})
}

// toggleWatchlist adds or removes the record with the given URI. The URI
// arrives percent-encoded in the path; gin decodes it.
func (s *Server) toggleWatchlist(c *gin.Context) {
	uri := c.Param("uri")

	added, err := s.watchlist.Toggle(c.Request.Context(), uri)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			fail(c, http.StatusNotFound, "no stored token with that uri")
		case errors.Is(err, storage.ErrInvalidInput):
			fail(c, http.StatusBadRequest, "uri cannot be empty")
		default:
			// Toggle keeps the in-memory state on persistence failure;
			// report the degraded write but include the new state.
			s.log.WithError(err).Warn("watchlist persistence failed")
			c.JSON(http.StatusOK, apiResponse{
				Code:    0,
				Message: "toggled, persistence degraded",
				Data:    gin.H{"favorited": added},
			})
		}
		return
	}

	ok(c, gin.H{"favorited": added})
}
