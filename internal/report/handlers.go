// Package report exposes a read-only HTTP surface over the State Store:
// list snapshots, fetch one, compare two, and render a changelog. Adapted
// from the teacher's main.go/handlers_ Fiber wiring, stripped of the
// Clerk auth middleware and every mutating route — spec.md §1's Non-goal
// "does not authenticate users" leaves this surface unauthenticated by
// design, and read-only state means there is nothing here to mutate.
package report

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dillib/cloudbom/internal/delta"
	"github.com/dillib/cloudbom/internal/state"
)

// Handlers wraps the State Store the report surface reads from.
type Handlers struct {
	Store *state.Store
}

// New constructs Handlers over store.
func New(store *state.Store) *Handlers {
	return &Handlers{Store: store}
}

// ErrorHandler renders any uncaught error as a JSON body, matching the
// teacher's handlers.ErrorHandler shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}

// ListSnapshots handles GET /snapshots.
func (h *Handlers) ListSnapshots(c *fiber.Ctx) error {
	metas, err := h.Store.List()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"snapshots": metas})
}

// GetSnapshot handles GET /snapshots/:id.
func (h *Handlers) GetSnapshot(c *fiber.Ctx) error {
	id := c.Params("id")
	snap, err := h.Store.Load(id)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "snapshot not found: "+id)
	}
	return c.JSON(snap)
}

// CompareSnapshots handles GET /snapshots/:before/compare/:after.
func (h *Handlers) CompareSnapshots(c *fiber.Ctx) error {
	before := c.Params("before")
	after := c.Params("after")

	d, err := h.Store.Compare(before, after, nil)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.JSON(d)
}

// Changelog handles GET /snapshots/:before/changelog/:after, rendering the
// delta between the two snapshots as Markdown (spec §4.8).
func (h *Handlers) Changelog(c *fiber.Ctx) error {
	before := c.Params("before")
	after := c.Params("after")

	beforeSnap, err := h.Store.Load(before)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "snapshot not found: "+before)
	}
	afterSnap, err := h.Store.Load(after)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "snapshot not found: "+after)
	}

	d := delta.Detect(beforeSnap.SnapshotID, afterSnap.SnapshotID, beforeSnap.Records, afterSnap.Records, nil)
	markdown, err := delta.Render(d, beforeSnap.CreatedAt, afterSnap.CreatedAt)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	return c.SendString(markdown)
}

// ValidateIntegrity handles GET /snapshots/integrity.
func (h *Handlers) ValidateIntegrity(c *fiber.Ctx) error {
	report, err := h.Store.ValidateIntegrity()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(report)
}
