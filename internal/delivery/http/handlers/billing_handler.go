package handlers

import (
	"github.com/LavaJover/shvark-ipo-ledger/internal/usecase"
	billingdto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/billing"
	"github.com/gofiber/fiber/v2"
)

type BillingHandler struct {
	uc usecase.BillingUsecase
}

func NewBillingHandler(uc usecase.BillingUsecase) *BillingHandler {
	return &BillingHandler{uc: uc}
}

func billingInput(c *fiber.Ctx) *billingdto.BillingInput {
	page, limit := pageQuery(c)
	return &billingdto.BillingInput{
		CompanyID:  companyID(c),
		OfferingID: c.Params("offering_id"),
		GroupID:    c.Query("group_id"),
		Page:       page,
		Limit:      limit,
	}
}

func (h *BillingHandler) GroupWise(c *fiber.Ctx) error {
	out, err := h.uc.GroupWise(c.UserContext(), billingInput(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{
		"groups":      out.Groups,
		"total_count": out.TotalCount,
	})
}

func (h *BillingHandler) ClientWise(c *fiber.Ctx) error {
	out, err := h.uc.ClientWise(c.UserContext(), billingInput(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{
		"rows":        out.Rows,
		"total_count": out.TotalCount,
	})
}
