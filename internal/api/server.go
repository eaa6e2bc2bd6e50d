// Package api exposes the screener over HTTP: the token view, per-mint
// detail and prices, the watchlist, and the runtime controls (update
// interval and pause).
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pumpwatch/internal/enrich"
	"pumpwatch/internal/ingest"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/storage"
	"pumpwatch/internal/watchlist"
)

// Options configures the Server. Tokens, Prices, Watchlist and Pipeline are
// required; Detail is optional and enables the fallback metadata lookup on
// the per-mint route.
type Options struct {
	Tokens    storage.TokenStore
	Prices    storage.PriceSeriesStore
	Watchlist *watchlist.Service
	Pipeline  *ingest.Pipeline
	Detail    *enrich.MintDetailSource
	Logger    *logrus.Logger
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	tokens    storage.TokenStore
	prices    storage.PriceSeriesStore
	watchlist *watchlist.Service
	pipeline  *ingest.Pipeline
	detail    *enrich.MintDetailSource
	log       *logrus.Logger
}

// NewServer creates a Server with the given dependencies.
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}
	return &Server{
		tokens:    opts.Tokens,
		prices:    opts.Prices,
		watchlist: opts.Watchlist,
		pipeline:  opts.Pipeline,
		detail:    opts.Detail,
		log:       log,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	engine := gin.New()
	// Watchlist URIs arrive percent-encoded in the path; match on the raw
	// path so encoded slashes stay inside one parameter.
	engine.UseRawPath = true
	engine.Use(gin.Recovery(), requestID(), accessLog(s.log))

	engine.GET("/healthz", s.health)
	engine.GET("/metrics", gin.WrapH(observability.Handler()))

	group := engine.Group("/api")
	group.GET("/tokens", s.listTokens)
	group.GET("/tokens/:mint", s.getToken)
	group.GET("/tokens/:mint/prices", s.getTokenPrices)
	group.GET("/watchlist", s.listWatchlist)
	group.POST("/watchlist/:uri/toggle", s.toggleWatchlist)
	group.PUT("/settings", s.updateSettings)
	group.GET("/status", s.status)

	return engine
}

func (s *Server) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
