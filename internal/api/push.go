// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ManuGH/shortify/internal/app"
	xglog "github.com/ManuGH/shortify/internal/log"
	"github.com/ManuGH/shortify/internal/metrics"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 25 * time.Second
	wsReadLimit  = 512
)

// pushMessage is the only server-to-client frame.
type pushMessage struct {
	Type string `json:"type"`
	fragmentsResponse
}

// pusher streams re-rendered regions of one session over one socket. Change
// events are coalesced into a pending region set so a slow socket never
// blocks the controller.
type pusher struct {
	conn   *websocket.Conn
	ctrl   *app.Controller
	logger zerolog.Logger

	mu      sync.Mutex
	pending map[app.Region]struct{}
	wake    chan struct{}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(r.Context())
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		s.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	metrics.IncPushConnections()
	defer metrics.DecPushConnections()

	p := &pusher{
		conn:    conn,
		ctrl:    c,
		logger:  xglog.WithComponentFromContext(r.Context(), "push"),
		pending: make(map[app.Region]struct{}),
		wake:    make(chan struct{}, 1),
	}
	p.run(s.done, c.Done())
}

func (p *pusher) enqueue(regions []app.Region) {
	p.mu.Lock()
	for _, r := range regions {
		p.pending[r] = struct{}{}
	}
	p.mu.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// take drains the pending set in page order.
func (p *pusher) take() []app.Region {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]app.Region, 0, len(p.pending))
	for _, r := range app.AllRegions {
		if _, ok := p.pending[r]; ok {
			out = append(out, r)
		}
	}
	clear(p.pending)
	return out
}

func (p *pusher) run(shutdown, ended <-chan struct{}) {
	defer p.conn.Close()

	cancel := p.ctrl.Subscribe(func(ev app.Event) { p.enqueue(ev.Regions) })
	defer cancel()

	// The page may be older than the session; start with a full sync.
	p.enqueue(app.AllRegions)

	closed := make(chan struct{})
	go p.readLoop(closed)

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-p.wake:
			if err := p.flush(); err != nil {
				metrics.IncPushDrop("write_error")
				p.logger.Debug().Err(err).Msg("push write failed")
				return
			}
		case <-ping.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-shutdown:
			p.goAway("server shutting down")
			return
		case <-ended:
			// The client reconnects and binds to a fresh controller.
			p.goAway("session ended")
			return
		}
	}
}

func (p *pusher) goAway(reason string) {
	_ = p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, reason),
		time.Now().Add(wsWriteWait))
}

func (p *pusher) flush() error {
	regions := p.take()
	if len(regions) == 0 {
		return nil
	}
	resp, err := renderFragments(p.ctrl, regions)
	if err != nil {
		metrics.IncPushDrop("render_error")
		p.logger.Error().Err(err).Msg("render pushed fragments")
		return nil
	}
	_ = p.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return p.conn.WriteJSON(pushMessage{Type: "fragments", fragmentsResponse: resp})
}

// readLoop discards client frames and keeps the read deadline alive on pongs.
func (p *pusher) readLoop(closed chan<- struct{}) {
	defer close(closed)
	p.conn.SetReadLimit(wsReadLimit)
	_ = p.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.logger.Debug().Err(err).Msg("websocket closed")
			}
			return
		}
	}
}

// checkOrigin accepts same-host and configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || strings.TrimSuffix(allowed, "/") == origin {
			return true
		}
	}
	host := origin
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	return strings.EqualFold(host, r.Host)
}
