package report

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dillib/cloudbom/internal/state"
)

// NewServer builds the Fiber app for the read-only report surface, wired
// the same way the teacher's main.go wires its app: recover, logger, cors,
// then routes. No auth middleware group here — every route below is
// read-only and unauthenticated by design.
func NewServer(store *state.Store, allowedOrigins string) *fiber.App {
	h := New(store)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	snapshots := app.Group("/snapshots")
	snapshots.Get("/", h.ListSnapshots)
	snapshots.Get("/integrity", h.ValidateIntegrity)
	snapshots.Get("/:id", h.GetSnapshot)
	snapshots.Get("/:before/compare/:after", h.CompareSnapshots)
	snapshots.Get("/:before/changelog/:after", h.Changelog)

	return app
}
