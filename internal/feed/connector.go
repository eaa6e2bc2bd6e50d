// Package feed owns the subscription to the external new-token event feed.
// The connector holds one logical websocket subscription, resubscribes after
// every reconnect, and surfaces connectivity as a status snapshot the
// presentation layer may poll. A transport failure never crashes the
// pipeline; the connector backs off and redials.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/observability"
)

// subscribeDirective is sent once per (re)connection.
var subscribeDirective = map[string]string{"method": "subscribeNewToken"}

// Config configures connector behavior.
type Config struct {
	// URL is the websocket endpoint of the event feed.
	URL string
	// ReconnectDelay is the fixed delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// HandshakeTimeout bounds the websocket dial.
	HandshakeTimeout time.Duration
	// WriteTimeout bounds the subscribe write.
	WriteTimeout time.Duration
}

// DefaultConfig returns the default connector configuration.
func DefaultConfig(url string) Config {
	return Config{
		URL:              url,
		ReconnectDelay:   3 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
	}
}

// Status is the connectivity snapshot readable by the collaborator UI.
type Status struct {
	Connected bool   `json:"connected"`
	LastError string `json:"lastError,omitempty"`
}

// Connector subscribes to the feed and emits record skeletons. Events before
// and after a reconnect gap may be lost; no ordering guarantee spans a
// reconnect boundary.
type Connector struct {
	cfg      Config
	defaults *Defaults
	log      *logrus.Entry

	conn   *websocket.Conn
	connMu sync.Mutex

	statusMu sync.RWMutex
	status   Status

	out chan *domain.TokenRecord
	wg  sync.WaitGroup
}

// New creates a connector. The defaults generator fills market fields the
// feed omits; a nil generator gets a time-seeded one.
func New(cfg Config, defaults *Defaults, log *logrus.Entry) *Connector {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 3 * time.Second
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if defaults == nil {
		defaults = NewDefaults(nil)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Connector{
		cfg:      cfg,
		defaults: defaults,
		log:      log.WithField("component", "feed"),
		out:      make(chan *domain.TokenRecord, 1024),
	}
}

// Start begins the subscribe/read/reconnect loop and returns the event
// channel. The channel is closed after ctx is cancelled and the loop exits.
func (c *Connector) Start(ctx context.Context) <-chan *domain.TokenRecord {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(c.out)
		c.run(ctx)
	}()
	return c.out
}

// Status returns the current connectivity snapshot.
func (c *Connector) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

// Wait blocks until the connector loop has fully stopped.
func (c *Connector) Wait() {
	c.wg.Wait()
}

func (c *Connector) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		if err := c.connect(ctx); err != nil {
			c.setDisconnected(err)
			observability.RecordFeedReconnect()
			c.log.WithError(err).Warnf("connect failed, retrying in %v", c.cfg.ReconnectDelay)
			if !sleepCtx(ctx, c.cfg.ReconnectDelay) {
				return
			}
			continue
		}

		c.setConnected()
		c.log.Info("subscribed to new token feed")

		err := c.readLoop(ctx)
		c.closeConn()
		if ctx.Err() != nil {
			return
		}

		c.setDisconnected(err)
		observability.RecordFeedReconnect()
		c.log.WithError(err).Warnf("feed read failed, reconnecting in %v", c.cfg.ReconnectDelay)
		if !sleepCtx(ctx, c.cfg.ReconnectDelay) {
			return
		}
	}
}

// connect dials the endpoint and sends the subscribe directive.
func (c *Connector) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}

	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return err
	}

	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	if err := conn.WriteJSON(subscribeDirective); err != nil {
		conn.Close()
		return err
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	return nil
}

// readLoop consumes messages until the transport fails or ctx is cancelled.
func (c *Connector) readLoop(ctx context.Context) error {
	// Unblock the blocking read when ctx is cancelled.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			c.closeConn()
		case <-stop:
		}
	}()

	for {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()
		if conn == nil {
			return ctx.Err()
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		rec, err := decodeEvent(raw, c.defaults)
		if err != nil {
			// Malformed events are dropped silently; only counted.
			observability.RecordMalformedEvent()
			continue
		}
		observability.RecordEventReceived()

		select {
		case c.out <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Connector) closeConn() {
	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()
}

func (c *Connector) setConnected() {
	c.statusMu.Lock()
	c.status = Status{Connected: true}
	c.statusMu.Unlock()
}

func (c *Connector) setDisconnected(err error) {
	c.statusMu.Lock()
	c.status.Connected = false
	if err != nil {
		c.status.LastError = err.Error()
	}
	c.statusMu.Unlock()
}

// sleepCtx sleeps for d, returning false if ctx was cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
