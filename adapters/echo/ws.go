package hxformecho

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/oasisprotocol/hxform"
	"github.com/oasisprotocol/hxform/render"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type wsInbound struct {
	Type string `json:"type"`
}

// wsOutbound is sent as JSON to clients connecting with ?format=json.
// Browsers using the htmx websocket extension get HTML instead.
type wsOutbound struct {
	Type     string           `json:"type"`
	Snapshot *hxform.Snapshot `json:"snapshot,omitempty"`
	Message  string           `json:"message,omitempty"`

	html string
}

// handleWS streams field updates of the caller's session until either side
// closes the connection.
func (s *Server) handleWS(c echo.Context) error {
	sess, err := s.session(c, false)
	if err != nil {
		return err
	}
	asJSON := c.QueryParam("format") == "json"

	conn, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(sess.ctx)
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		s.log.Debug("ws set read deadline failed", "err", err)
		return nil
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writeCh := make(chan wsOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				var werr error
				if asJSON {
					werr = conn.WriteJSON(out)
				} else {
					werr = conn.WriteMessage(websocket.TextMessage, []byte(out.html))
				}
				if werr != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	changes, unwatch := sess.watch()
	defer unwatch()
	go func() {
		last := make(map[string]hxform.Snapshot)
		for _, f := range sess.form.Fields.Flatten() {
			last[f.ID()] = f.Snapshot()
		}
		for {
			select {
			case <-ctx.Done():
				return
			case id := <-changes:
				f, ok := sess.field(id)
				if !ok {
					continue
				}
				snap := f.Snapshot()
				prev, seen := last[id]
				last[id] = snap
				out, err := s.fieldUpdate(ctx, sess, f, snap, !seen || layoutChanged(prev, snap))
				if err != nil {
					s.log.Warn("rendering ws update", "field", id, "err", err)
					continue
				}
				pushWS(writeCh, out)
			}
		}
	}()

	if asJSON {
		pushWS(writeCh, wsOutbound{Type: "subscribed"})
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if !asJSON {
			continue
		}
		var in wsInbound
		if err := json.Unmarshal(data, &in); err != nil {
			pushWS(writeCh, wsOutbound{Type: "error", Message: "invalid json"})
			continue
		}
		switch in.Type {
		case "ping":
			pushWS(writeCh, wsOutbound{Type: "pong"})
		case "snapshot":
			for _, f := range sess.form.Fields.Flatten() {
				snap := f.Snapshot()
				pushWS(writeCh, wsOutbound{Type: "snapshot", Snapshot: &snap})
			}
		default:
			pushWS(writeCh, wsOutbound{Type: "error", Message: "unsupported type: " + in.Type})
		}
	}
	cancel()
	<-writerDone
	return nil
}

// fieldUpdate renders the whole field if its layout changed, else only its
// feedback so an input the user is typing in stays untouched.
func (s *Server) fieldUpdate(ctx context.Context, sess *session, f hxform.FieldLike, snap hxform.Snapshot, whole bool) (wsOutbound, error) {
	opts := s.renderOptions(sess)
	opts.OOB = true
	c := render.Feedback(f, opts)
	if whole {
		c = render.Field(f, opts)
	}
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return wsOutbound{}, err
	}
	return wsOutbound{Type: "snapshot", Snapshot: &snap, html: buf.String()}, nil
}

// pushWS drops the oldest queued message rather than block when the client
// is slow.
func pushWS(writeCh chan wsOutbound, out wsOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}

func layoutChanged(prev, next hxform.Snapshot) bool {
	return prev.Visible != next.Visible ||
		prev.Enabled != next.Enabled ||
		prev.WhyDisabled != next.WhyDisabled ||
		prev.Label != next.Label ||
		next.Kind == hxform.KindAction.String() ||
		next.Kind == hxform.KindLabel.String()
}
