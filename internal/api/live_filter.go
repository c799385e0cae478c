package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/cityops-io/cityops-ce/internal/filter"
	"github.com/cityops-io/cityops-ce/internal/service"
)

const (
	liveReadTimeout  = 60 * time.Second
	livePingInterval = 54 * time.Second
	liveWriteTimeout = 10 * time.Second
	liveMaxMessage   = 8 << 10
)

var liveUpgrader = websocket.Upgrader{
	CheckOrigin:     sameOrigin,
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// sameOrigin accepts non-browser clients and pages served from this host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// liveQuery is one keystroke worth of filter state sent by the client.
type liveQuery struct {
	Search  string            `json:"search"`
	Filters map[string]string `json:"filters"`
}

type liveResponse struct {
	Type  string      `json:"type"`
	Total int         `json:"total"`
	Data  []reportRow `json:"data"`
}

type liveError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// liveConn serializes writes from the read loop and the ping ticker.
type liveConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (l *liveConn) writeJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	return l.conn.WriteJSON(v)
}

func (l *liveConn) ping() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	return l.conn.WriteMessage(websocket.PingMessage, nil)
}

// liveReportFilter re-runs the report filter for every message received and
// answers with the full result set. Malformed messages get an error reply and
// the connection stays open.
func (r *Router) liveReportFilter(c *gin.Context) {
	conn, err := liveUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		r.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	lc := &liveConn{conn: conn}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(livePingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := lc.ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	conn.SetReadLimit(liveMaxMessage)
	conn.SetReadDeadline(time.Now().Add(liveReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(liveReadTimeout))
		return nil
	})

	ctx := c.Request.Context()
	svc := r.services.Reports
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				r.logger.Printf("WebSocket error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(liveReadTimeout))

		var q liveQuery
		if err := json.Unmarshal(payload, &q); err != nil {
			if err := lc.writeJSON(liveError{Type: "error", Error: "invalid filter message"}); err != nil {
				return
			}
			continue
		}

		criteria := filter.Criteria{Query: q.Search, Filters: q.Filters}
		reports, err := svc.List(ctx, criteria)
		if err != nil {
			r.logger.Printf("live filter failed: %v", err)
			return
		}
		r.logFilter(c, service.EntityReports, criteria, len(reports))

		if err := lc.writeJSON(liveResponse{
			Type:  "results",
			Total: len(reports),
			Data:  reportRows(reports, r.now()),
		}); err != nil {
			return
		}
	}
}
