// Package wikisync reads the equipped gear of a logged-in player from the
// WikiSync RuneLite plugin, which serves a websocket on a small local port
// range.
package wikisync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"

	"github.com/udisondev/dpscalc/internal/model"
)

var (
	ErrNotRunning = errors.New("wikisync plugin not reachable on any port")
	ErrNoLoadout  = errors.New("wikisync reply has no loadout")
)

const (
	msgGetPlayer       = "GetPlayer"
	msgUsernameChanged = "UsernameChanged"
)

var getPlayerRequest = []byte(`{"_wsType":"GetPlayer"}`)

// Client scans FirstPort..LastPort on Host.
type Client struct {
	Host      string
	FirstPort int
	LastPort  int
	Origin    string
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Player is the snapshot returned by the plugin.
type Player struct {
	Username  string
	Port      int
	Equipment map[model.Slot]int
}

// FetchEquipment connects to the first port that answers and returns the
// first loadout of the GetPlayer reply.
func (c *Client) FetchEquipment(ctx context.Context) (*Player, error) {
	log := c.Logger
	if log == nil {
		log = slog.Default()
	}

	for port := c.FirstPort; port <= c.LastPort; port++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		conn, err := c.dial(ctx, port)
		if err != nil {
			log.Debug("wikisync port closed", "port", port, "err", err)
			continue
		}
		log.Debug("wikisync connected", "port", port)

		p, err := c.exchange(ctx, conn)
		conn.Close()
		if err != nil {
			return nil, fmt.Errorf("port %d: %w", port, err)
		}
		p.Port = port
		return p, nil
	}
	return nil, fmt.Errorf("%w (%s:%d-%d)", ErrNotRunning, c.Host, c.FirstPort, c.LastPort)
}

func (c *Client) dial(ctx context.Context, port int) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.Timeout}
	header := http.Header{}
	if c.Origin != "" {
		header.Set("Origin", c.Origin)
	}
	u := "ws://" + net.JoinHostPort(c.Host, strconv.Itoa(port))
	conn, resp, err := dialer.DialContext(ctx, u, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

// exchange requests the player and reads until the GetPlayer reply arrives.
// A UsernameChanged message may come before it.
func (c *Client) exchange(ctx context.Context, conn *websocket.Conn) (*Player, error) {
	deadline := time.Now().Add(c.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	if err := conn.WriteMessage(websocket.TextMessage, getPlayerRequest); err != nil {
		return nil, fmt.Errorf("sending GetPlayer: %w", err)
	}

	var username string
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("reading reply: %w", err)
		}
		if !gjson.ValidBytes(msg) {
			continue
		}
		res := gjson.ParseBytes(msg)
		switch res.Get("_wsType").String() {
		case msgUsernameChanged:
			username = res.Get("username").String()
		case msgGetPlayer:
			p, err := ParsePlayer(res.Get("payload"))
			if err != nil {
				return nil, err
			}
			if p.Username == "" {
				p.Username = username
			}
			return p, nil
		}
	}
}

// ParsePlayer reads payload.loadouts[0].equipment: slot name → {id}.
// Unknown slot names and entries without an id are skipped.
func ParsePlayer(payload gjson.Result) (*Player, error) {
	equipment := payload.Get("loadouts.0.equipment")
	if !equipment.IsObject() {
		return nil, ErrNoLoadout
	}

	p := &Player{
		Username:  payload.Get("username").String(),
		Equipment: make(map[model.Slot]int),
	}
	equipment.ForEach(func(key, value gjson.Result) bool {
		slot := model.NormalizeSlot(key.String())
		id := value.Get("id").Int()
		if slot != "" && id > 0 {
			p.Equipment[slot] = int(id)
		}
		return true
	})
	return p, nil
}
