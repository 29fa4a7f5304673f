package preview

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/mini/pkg/dom"
	"github.com/vango-dev/mini/pkg/fx"
	"github.com/vango-dev/mini/pkg/loop"
	"github.com/vango-dev/mini/pkg/mini"
)

// Message types sent on a fade stream.
const (
	MessageStyle = "style"
	MessageDone  = "done"
)

const writeWait = 5 * time.Second

var (
	errBadDirection = stderrors.New("preview: dir must be in or out")
	errBadSpeed     = stderrors.New("preview: speed must be a positive duration")
)

// Message is one frame of a fade stream. Style frames carry the element's
// style attribute after each change; the final done frame carries the
// element's outer HTML.
type Message struct {
	Type    string `json:"type"`
	Seq     int    `json:"seq"`
	Style   string `json:"style,omitempty"`
	Opacity string `json:"opacity,omitempty"`
	Display string `json:"display,omitempty"`
	HTML    string `json:"html,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

type fadeRequest struct {
	spec  string
	kind  fx.Kind
	speed time.Duration
}

func (s *Server) parseFadeRequest(r *http.Request) (fadeRequest, error) {
	q := r.URL.Query()
	req := fadeRequest{spec: q.Get("spec"), kind: fx.KindFadeIn, speed: s.config.FadeSpeed()}

	switch q.Get("dir") {
	case "", "in":
	case "out":
		req.kind = fx.KindFadeOut
	default:
		return req, fmt.Errorf("%w: %q", errBadDirection, q.Get("dir"))
	}

	if v := q.Get("speed"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return req, fmt.Errorf("%w: %q", errBadSpeed, v)
		}
		req.speed = d
	}
	return req, nil
}

// streamTimeout bounds a stream: a fade takes at most 11 ticks.
func streamTimeout(speed time.Duration) time.Duration {
	return 20*speed + 5*time.Second
}

// handleFade builds the element named by ?spec=, runs a fade on it and
// streams every style change over a WebSocket.
//
//	GET /ws/fade?spec=<div>hi</div>&dir=in&speed=25ms
func (s *Server) handleFade(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseFadeRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	doc := dom.NewDocument()
	el, err := mini.Create(doc, req.spec)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	doc.Body().AppendChild(el)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("fade stream upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.streams.Inc()
	defer s.streams.Dec()

	ctx, cancel := context.WithTimeout(r.Context(), streamTimeout(req.speed))
	defer cancel()

	// Any read error, including a close frame, ends the stream.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	l := loop.New(loop.WithLogger(s.logger))
	defer l.Close()
	go l.Run(ctx)

	msgs := make(chan Message, 16)
	l.Dispatch(func() {
		s.startFade(ctx, l, doc, el, req, msgs)
	})

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("fade stream ended early", "kind", req.kind, "error", ctx.Err())
			return
		case m := <-msgs:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(m); err != nil {
				s.logger.Debug("fade stream write failed", "error", err)
				return
			}
			if m.Type == MessageDone {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		}
	}
}

// startFade runs on the loop goroutine.
func (s *Server) startFade(ctx context.Context, l *loop.Loop, doc *dom.Document, el *dom.Element, req fadeRequest, msgs chan<- Message) {
	send := func(m Message) {
		select {
		case msgs <- m:
		case <-ctx.Done():
		}
	}

	seq := 0
	doc.Observe(func(m dom.Mutation) {
		if m.Kind != dom.MutationAttributes || m.Name != "style" || m.Target != el {
			return
		}
		seq++
		send(Message{
			Type:    MessageStyle,
			Seq:     seq,
			Style:   m.Value,
			Opacity: el.Style().Opacity(),
			Display: el.Style().Display(),
		})
	})
	done := func(skipped bool) {
		seq++
		send(Message{Type: MessageDone, Seq: seq, HTML: el.OuterHTML(), Skipped: skipped})
	}

	anim := fx.New(l, fx.WithMetrics(s.fx), fx.WithLogger(s.logger))
	opts := []fx.Option{fx.Speed(req.speed), fx.OnCompleteWith(done, false)}

	if req.kind == fx.KindFadeOut {
		anim.FadeOut(el, opts...)
		return
	}
	// A shown element makes fadeIn a no-op that never completes.
	if el.Style().Display() == dom.DisplayBlock {
		anim.FadeIn(el)
		done(true)
		return
	}
	anim.FadeIn(el, opts...)
}
