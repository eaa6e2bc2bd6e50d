package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"pumpwatch/internal/domain"
)

var upgrader = websocket.Upgrader{}

func quietLogger() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(log)
}

// feedServer runs handler per websocket connection.
func feedServer(t *testing.T, handler func(conn *websocket.Conn, connNum int)) *httptest.Server {
	t.Helper()
	var conns atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn, int(conns.Add(1)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func expectSubscribe(t *testing.T, conn *websocket.Conn) bool {
	t.Helper()
	var directive map[string]string
	if err := conn.ReadJSON(&directive); err != nil {
		return false
	}
	if directive["method"] != "subscribeNewToken" {
		t.Errorf("directive = %v, want subscribeNewToken", directive)
	}
	return true
}

func recvRecord(t *testing.T, events <-chan *domain.TokenRecord) *domain.TokenRecord {
	t.Helper()
	select {
	case rec, ok := <-events:
		if !ok {
			t.Fatal("event channel closed early")
		}
		return rec
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for record")
	}
	return nil
}

func TestConnectorSubscribesAndEmits(t *testing.T) {
	srv := feedServer(t, func(conn *websocket.Conn, _ int) {
		if !expectSubscribe(t, conn) {
			return
		}
		msg, _ := json.Marshal(map[string]any{
			"uri":          "https://ipfs.io/ipfs/one",
			"mint":         goodMint,
			"marketCapSol": 20.0,
		})
		conn.WriteMessage(websocket.TextMessage, msg)
		// hold the connection open until the client goes away
		conn.ReadMessage()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := New(DefaultConfig(wsURL(srv)), seededDefaults(), quietLogger())
	events := c.Start(ctx)

	rec := recvRecord(t, events)
	if rec.URI != "https://ipfs.io/ipfs/one" {
		t.Errorf("URI = %q", rec.URI)
	}
	if rec.MarketCapSol != 20.0 {
		t.Errorf("MarketCapSol = %v", rec.MarketCapSol)
	}
	if !c.Status().Connected {
		t.Error("Status().Connected = false while subscribed")
	}

	cancel()
	c.Wait()
	if _, ok := <-events; ok {
		t.Error("event channel not closed after shutdown")
	}
}

func TestConnectorDropsMalformedEvents(t *testing.T) {
	srv := feedServer(t, func(conn *websocket.Conn, _ int) {
		if !expectSubscribe(t, conn) {
			return
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{{{`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"mint": "no-uri"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"uri": "https://ipfs.io/ipfs/ok"}`))
		conn.ReadMessage()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := New(DefaultConfig(wsURL(srv)), seededDefaults(), quietLogger())
	events := c.Start(ctx)

	rec := recvRecord(t, events)
	if rec.URI != "https://ipfs.io/ipfs/ok" {
		t.Errorf("URI = %q, malformed events should be skipped", rec.URI)
	}
}

func TestConnectorReconnectsAndResubscribes(t *testing.T) {
	srv := feedServer(t, func(conn *websocket.Conn, connNum int) {
		if !expectSubscribe(t, conn) {
			return
		}
		if connNum == 1 {
			// drop the first connection right after subscribe
			return
		}
		msg, _ := json.Marshal(map[string]string{"uri": "https://ipfs.io/ipfs/second"})
		conn.WriteMessage(websocket.TextMessage, msg)
		conn.ReadMessage()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := DefaultConfig(wsURL(srv))
	cfg.ReconnectDelay = 50 * time.Millisecond
	c := New(cfg, seededDefaults(), quietLogger())
	events := c.Start(ctx)

	rec := recvRecord(t, events)
	if rec.URI != "https://ipfs.io/ipfs/second" {
		t.Errorf("URI = %q, want record from second connection", rec.URI)
	}
}

func TestConnectorStatusAfterDialFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := DefaultConfig("ws://127.0.0.1:1/feed")
	cfg.ReconnectDelay = time.Hour
	c := New(cfg, seededDefaults(), quietLogger())
	c.Start(ctx)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		st := c.Status()
		if !st.Connected && st.LastError != "" {
			cancel()
			c.Wait()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("status never reported the dial failure")
}
