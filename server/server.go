// Package server exposes the store form's read/write entry points over HTTP.
package server

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/storeform/storesync"
)

// Server wraps a fiber application around a storesync.Service.
type Server struct {
	app    *fiber.App
	svc    *storesync.Service
	logger zerolog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server over the given service and registers all routes.
func New(svc *storesync.Service, opts ...Option) *Server {
	s := &Server{
		svc:    svc,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New()
	s.registerRoutes()
	return s
}

// App returns the underlying fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on addr and blocks.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops the server gracefully within the given timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "storesync",
		})
	})

	v1 := s.app.Group("/api/v1")
	stores := v1.Group("/stores")

	stores.Get("/", s.handleListStores)
	stores.Get("/:storeName", s.handleGetStore)
	stores.Put("/:storeName", s.handleSaveStore)
}

// handleListStores returns the UI projection of the Stores table
func (s *Server) handleListStores(c fiber.Ctx) error {
	summaries, err := s.svc.ListStores(c.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list stores")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(summaries)
}

// handleGetStore returns the aggregate document for one store
func (s *Server) handleGetStore(c fiber.Ctx) error {
	storeName := storeNameParam(c)

	doc, err := s.svc.GetStoreData(c.Context(), storeName)
	if err != nil {
		status := fiber.StatusBadGateway
		switch {
		case storesync.IsNotFound(err):
			status = fiber.StatusNotFound
		case storesync.IsDuplicateKey(err):
			status = fiber.StatusConflict
		}
		s.logger.Error().Err(err).Str("store_name", storeName).Msg("Failed to read store data")
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(doc)
}

// handleSaveStore performs the multi-phase save. The response is always a
// WriteResult with HTTP 200: write failures are data for the form to render,
// not transport errors.
func (s *Server) handleSaveStore(c fiber.Ctx) error {
	var doc storesync.AggregateDocument
	if err := c.Bind().JSON(&doc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(storesync.WriteResult{
			Success: false,
			Error:   "invalid request body",
		})
	}
	doc.StoreName = storeNameParam(c)

	result := s.svc.SaveStoreData(c.Context(), &doc)
	return c.JSON(result)
}

// storeNameParam returns the storeName path parameter. Store names may
// contain spaces, so the raw parameter is percent-decoded.
func storeNameParam(c fiber.Ctx) string {
	name := c.Params("storeName")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}
