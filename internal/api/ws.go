package api

import (
	"encoding/json"
	"net/http"
	"time"

	"tycoon/internal/game"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Must be less than pongWait.
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	statePeriod    = time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// feedMessage is one frame on the live feed.
type feedMessage struct {
	Type  string      `json:"type"`
	Toast *game.Toast `json:"toast,omitempty"`
	Money float64     `json:"money,omitempty"`
	Gems  int64       `json:"gems,omitempty"`
	Combo float64     `json:"combo,omitempty"`
	PerS  float64     `json:"perSecond,omitempty"`
	Event string      `json:"event,omitempty"`
}

// clientAction is what a feed client may send. Only taps are accepted.
type clientAction struct {
	Action string `json:"action"`
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	e, playerID, ok := s.engine(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "player_id", playerID, "err", err)
		return
	}
	toasts, unsubscribe := e.Subscribe(16)
	done := make(chan struct{})
	go s.readPump(conn, e, done)
	s.writePump(conn, e, toasts, done)
	unsubscribe()
	s.log.Debug("websocket closed", "player_id", playerID)
}

func (s *Server) readPump(conn *websocket.Conn, e *game.Engine, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.log.Warn("websocket read failed", "err", err)
			}
			return
		}
		var action clientAction
		if err := json.Unmarshal(message, &action); err != nil {
			continue
		}
		if action.Action == "tap" {
			e.Tap()
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, e *game.Engine, toasts <-chan game.Toast, done <-chan struct{}) {
	ping := time.NewTicker(pingPeriod)
	state := time.NewTicker(statePeriod)
	defer func() {
		ping.Stop()
		state.Stop()
		conn.Close()
	}()
	if err := writeFrame(conn, stateFrame(e)); err != nil {
		return
	}
	for {
		select {
		case <-done:
			return
		case t, ok := <-toasts:
			if !ok {
				return
			}
			if err := writeFrame(conn, feedMessage{Type: "toast", Toast: &t}); err != nil {
				return
			}
		case <-state.C:
			if err := writeFrame(conn, stateFrame(e)); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func stateFrame(e *game.Engine) feedMessage {
	msg := feedMessage{Type: "state", PerS: e.RevenuePerSecond()}
	e.View(func(s *game.State) {
		msg.Money = s.Money
		msg.Gems = s.Gems
		msg.Combo = s.Combo
		if s.ActiveEvent != nil {
			msg.Event = s.ActiveEvent.Name
		}
	})
	return msg
}

func writeFrame(conn *websocket.Conn, msg feedMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
