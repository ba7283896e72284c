package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/middleware"
	"karaoke-lyrics-go/session"
	"karaoke-lyrics-go/stats"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	streamWriteWait  = time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 50 * time.Second
	streamReadLimit  = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 8192,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// streamConn serialises writes; gorilla connections allow one writer.
type streamConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *streamConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return c.conn.WriteJSON(v)
}

func (c *streamConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait))
}

// streamHandler serves GET /sessions/{id}/stream. The client sends
// {"t": ms} frames and gets a StateResponse back for each one. Frames over
// the tick budget are dropped with an error frame.
func streamHandler(w http.ResponseWriter, r *http.Request, s *session.Session) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("%s %s Upgrade failed: %v", logcolors.LogStream, logcolors.Session(s.ID), err)
		return
	}
	defer conn.Close()

	ip := middleware.ClientIP(r)
	stats.Get().StreamOpened()
	defer stats.Get().StreamClosed()
	log.Infof("%s %s Opened from %s", logcolors.LogStream, logcolors.Session(s.ID), ip)

	sc := &streamConn{conn: conn}
	conn.SetReadLimit(streamReadLimit)
	conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(streamPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := sc.ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("%s %s Closed unexpectedly: %v", logcolors.LogStream, logcolors.Session(s.ID), err)
			} else {
				log.Infof("%s %s Closed", logcolors.LogStream, logcolors.Session(s.ID))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(streamPongWait))

		var req StreamRequest
		if err := json.Unmarshal(data, &req); err != nil || req.TimeMs < 0 {
			if err := sc.writeJSON(map[string]string{"error": `expected {"t": <non-negative ms>}`}); err != nil {
				return
			}
			continue
		}
		if rateLimiter != nil && !rateLimiter.Limiter(ip, middleware.TierTick).Allow() {
			stats.Get().RateLimitExceeded.Add(1)
			if err := sc.writeJSON(map[string]string{"error": "rate limit exceeded"}); err != nil {
				return
			}
			continue
		}

		if err := sc.writeJSON(tickSession(s, req.TimeMs)); err != nil {
			log.Debugf("%s %s Write failed: %v", logcolors.LogStream, logcolors.Session(s.ID), err)
			return
		}
		stats.Get().StreamMessagesOut.Add(1)
	}
}
