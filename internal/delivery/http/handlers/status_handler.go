package handlers

import (
	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/usecase"
	statusdto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/status"
	"github.com/gofiber/fiber/v2"
)

type StatusHandler struct {
	uc usecase.StatusUsecase
}

func NewStatusHandler(uc usecase.StatusUsecase) *StatusHandler {
	return &StatusHandler{uc: uc}
}

func (h *StatusHandler) Summary(c *fiber.Ctx) error {
	input := &statusdto.SummaryInput{
		CompanyID:  companyID(c),
		OfferingID: c.Params("offering_id"),
		GroupID:    c.Query("group_id"),
	}
	if raw := c.Query("category"); raw != "" {
		cat, ok := domain.ParseCategory(raw)
		if !ok {
			return respondError(c, domain.NewValidationError("category", "unknown category "+raw))
		}
		input.Category = &cat
	}
	if raw := c.Query("investor"); raw != "" {
		tier, ok := domain.ParseInvestorTier(raw)
		if !ok {
			return respondError(c, domain.NewValidationError("investor", "unknown investor tier "+raw))
		}
		input.Investor = &tier
	}
	summary, err := h.uc.Summarize(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, summary)
}
