// Package api exposes timelines over HTTP so several clients can share one
// store. Snapshots are pushed to clients as server-sent events.
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/exchange"
	"github.com/alexanderramin/spanplan/internal/service"
	"github.com/alexanderramin/spanplan/internal/store"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr string
	// AccessLog receives one line per request; nil disables it.
	AccessLog io.Writer
	// KeepAlive is the SSE comment interval.
	KeepAlive time.Duration
}

// Server exposes the Fiber application.
type Server struct {
	app      *fiber.App
	service  service.TimelineService
	store    store.TimelineStore
	cfg      Config
	log      *slog.Logger
	shutdown context.Context
	stop     context.CancelFunc
}

// NewServer wires handlers and middleware.
func NewServer(cfg Config, svc service.TimelineService, st store.TimelineStore, log *slog.Logger) *Server {
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 15 * time.Second
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	if cfg.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Format: "${time} | ${status} | ${latency} | ${method} ${path}\n",
			Output: cfg.AccessLog,
		}))
	}
	app.Use(cors.New())

	shutdown, stop := context.WithCancel(context.Background())
	srv := &Server{app: app, service: svc, store: st, cfg: cfg, log: log, shutdown: shutdown, stop: stop}
	srv.registerRoutes()
	return srv
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App { return s.app }

// Run starts listening for HTTP traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.stop()
		_ = s.app.Shutdown()
	}()

	s.log.Info("api listening", "addr", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api/timelines")
	api.Get("/", s.handleList)
	api.Post("/", s.handleCreate)
	api.Get("/:id", s.handleGet)
	api.Patch("/:id", s.handlePatch)
	api.Delete("/:id", s.handleDelete)
	api.Get("/:id/events", s.handleEvents)
}

type createRequest struct {
	OwnerID *string `json:"ownerId"`
	Sample  bool    `json:"sample"`
}

func (s *Server) handleCreate(c *fiber.Ctx) error {
	var req createRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
	}
	t, err := s.service.Create(c.UserContext(), req.OwnerID, req.Sample)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": exchange.FromTimeline(*t)})
}

func (s *Server) handleList(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var (
		list []*domain.Timeline
		err  error
	)
	if owner := c.Query("owner"); owner != "" {
		list, err = s.service.ListByOwner(ctx, owner)
	} else {
		list, err = s.service.List(ctx)
	}
	if err != nil {
		return err
	}
	docs := make([]exchange.Document, 0, len(list))
	for _, t := range list {
		docs = append(docs, exchange.FromTimeline(*t))
	}
	return c.JSON(fiber.Map{"data": docs, "meta": fiber.Map{"count": len(docs)}})
}

func (s *Server) handleGet(c *fiber.Ctx) error {
	t, err := s.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": exchange.FromTimeline(*t)})
}

func (s *Server) handlePatch(c *fiber.Ctx) error {
	var doc exchange.PatchDoc
	if err := c.BodyParser(&doc); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	patch, err := doc.Patch()
	if err != nil {
		return err
	}
	if patch.IsZero() {
		return fiber.NewError(fiber.StatusBadRequest, "patch must carry rows or items")
	}
	ctx := c.UserContext()
	id := c.Params("id")
	if err := s.store.UpdateTimeline(ctx, id, patch); err != nil {
		return err
	}
	t, err := s.service.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": exchange.FromTimeline(*t)})
}

func (s *Server) handleDelete(c *fiber.Ctx) error {
	if err := s.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// errorHandler maps domain errors onto status codes.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, store.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, domain.ErrDateInversion), errors.Is(err, domain.ErrPartialSchedule), errors.Is(err, domain.ErrInvalidDate):
		code = fiber.StatusUnprocessableEntity
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
