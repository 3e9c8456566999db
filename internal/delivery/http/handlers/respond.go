package handlers

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/gofiber/fiber/v2"
)

const (
	HeaderCompanyID = "X-Company-ID"
	HeaderUserID    = "X-User-ID"

	localCompany = "company_id"
	localActor   = "actor"
	dateLayout   = "2006-01-02"
)

// Scope rejects requests without a company header and stores the caller's
// company and user for the handlers.
func Scope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		company := strings.TrimSpace(c.Get(HeaderCompanyID))
		if company == "" {
			return fail(c, fiber.StatusBadRequest, "missing "+HeaderCompanyID+" header")
		}
		c.Locals(localCompany, company)
		c.Locals(localActor, strings.TrimSpace(c.Get(HeaderUserID)))
		return c.Next()
	}
}

func companyID(c *fiber.Ctx) string {
	v, _ := c.Locals(localCompany).(string)
	return v
}

func actor(c *fiber.Ctx) string {
	v, _ := c.Locals(localActor).(string)
	return v
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvariantViolation), errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrParseFailure):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrEmptyBatch):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	body := fiber.Map{"success": false, "error": err.Error()}
	var perr *domain.ParseError
	if errors.As(err, &perr) {
		body["row"] = perr.Row
		body["column"] = perr.Column
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body["field"] = verr.Field
	}
	return c.Status(status).JSON(body)
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewValidationError("body", err.Error())
	}
	return nil
}

// dateQuery parses an optional YYYY-MM-DD query parameter. endOfDay moves
// the bound to the last instant of that day.
func dateQuery(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, domain.NewValidationError(key, "expected YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func pageQuery(c *fiber.Ctx) (page, limit int) {
	return c.QueryInt("page", 1), c.QueryInt("limit", 20)
}
