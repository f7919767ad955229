package gateway

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"trunfo-server/internal/game"
	"trunfo-server/internal/match"
)

// envelope is the wire frame in both directions.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type chooseAttributePayload struct {
	RoomID    string `json:"roomId"`
	Attribute string `json:"attribute"`
}

// Gateway is the websocket edge: it upgrades connections, feeds participant
// events into the match core and routes the core's notifications back to
// the right connections. It implements match.Notifier.
type Gateway struct {
	core     *match.Core
	log      *logrus.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	id   string
	conn *websocket.Conn

	writeMu sync.Mutex // gorilla allows one concurrent writer
}

// New builds the gateway. allowedOrigins is either ["*"] or an allow-list
// matched against the Origin header; non-browser clients without one are
// let through.
func New(allowedOrigins []string, log *logrus.Logger) *Gateway {
	g := &Gateway{
		log:     log,
		clients: make(map[string]*client),
	}
	g.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}
	return g
}

// AttachCore wires the match core in. Must be called before serving; the
// core is constructed after the gateway because it notifies through it.
func (g *Gateway) AttachCore(core *match.Core) { g.core = core }

// ServeWS upgrades an HTTP request to a websocket participant session.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warnf("ws: upgrade failed from %s: %v", r.RemoteAddr, err)
		return
	}
	c := &client{id: "p_" + uuid.NewString()[:8], conn: conn}
	g.mu.Lock()
	g.clients[c.id] = c
	g.mu.Unlock()
	g.log.Infof("ws: connect id=%s from=%s", c.id, r.RemoteAddr)

	c.send(g.log, envelope{Type: "you", Data: mustJSON(map[string]string{"id": c.id})})
	go g.readLoop(c)
}

func (g *Gateway) readLoop(c *client) {
	defer func() {
		_ = c.conn.Close()
		g.mu.Lock()
		delete(g.clients, c.id)
		g.mu.Unlock()
		g.core.Disconnect(c.id)
		g.log.Infof("ws: closed id=%s", c.id)
	}()
	for {
		var in envelope
		if err := c.conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.log.Debugf("ws: read error id=%s: %v", c.id, err)
			}
			return
		}
		switch in.Type {
		case "queue:join":
			g.core.Join(c.id)
		case "move:choose_attribute":
			var p chooseAttributePayload
			if err := json.Unmarshal(in.Data, &p); err != nil {
				g.log.Debugf("ws: bad payload id=%s type=%s: %v", c.id, in.Type, err)
				continue
			}
			g.core.ChooseAttribute(c.id, p.RoomID, p.Attribute)
		default:
			g.log.Debugf("ws: unknown type %q from %s", in.Type, c.id)
		}
	}
}

// MatchFound tells one participant which room and seat they got.
func (g *Gateway) MatchFound(participant, roomID string, seat int) {
	g.sendTo(participant, envelope{
		Type: "match:found",
		Data: mustJSON(map[string]any{"roomId": roomID, "youAre": seat}),
	})
}

// GameState broadcasts a snapshot to both participants of a room.
func (g *Gateway) GameState(roomID string, participants [2]string, snap game.Snapshot) {
	data := mustJSON(snap)
	for _, p := range participants {
		g.sendTo(p, envelope{Type: "game:state", Data: data})
	}
}

func (g *Gateway) sendTo(participant string, msg envelope) {
	g.mu.Lock()
	c := g.clients[participant]
	g.mu.Unlock()
	if c == nil {
		// already disconnected; nothing to deliver
		return
	}
	c.send(g.log, msg)
}

func (c *client) send(log *logrus.Logger, msg envelope) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Debugf("ws: write error to %s: %v", c.id, err)
	}
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
