package api

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/exchange"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// handleEvents streams the current snapshot and every later one as
// "snapshot" events until the client goes away or the server stops.
func (s *Server) handleEvents(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := s.service.Get(c.UserContext(), id); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		s.serveEvents(s.shutdown, id, w)
	}))
	return nil
}

// serveEvents owns the subscription for one stream. It is opened and
// released here so nothing outlives the writer.
func (s *Server) serveEvents(parent context.Context, id string, w *bufio.Writer) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	snapshots, err := s.store.Subscribe(ctx, id)
	if err != nil {
		s.log.Warn("event stream subscribe failed", "timeline_id", id, "error", err)
		return
	}
	if err := s.stream(ctx, w, snapshots); err != nil {
		s.log.Debug("event stream closed", "timeline_id", id, "error", err)
	}
}

// stream copies snapshots to w. A failed flush means the client is gone.
func (s *Server) stream(ctx context.Context, w *bufio.Writer, snapshots <-chan domain.Timeline) error {
	ticker := time.NewTicker(s.cfg.KeepAlive)
	defer ticker.Stop()
	for {
		select {
		case t, ok := <-snapshots:
			if !ok {
				return nil
			}
			if err := writeSnapshot(w, t); err != nil {
				return err
			}
		case <-ticker.C:
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
}

func writeSnapshot(w *bufio.Writer, t domain.Timeline) error {
	data, err := sonic.Marshal(exchange.FromTimeline(t))
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: snapshot\nid: %d\ndata: %s\n\n", t.Revision, data)
	return err
}
