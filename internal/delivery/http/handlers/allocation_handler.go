package handlers

import (
	"github.com/LavaJover/shvark-ipo-ledger/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/usecase"
	allocationdto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/allocation"
	"github.com/gofiber/fiber/v2"
)

type AllocationHandler struct {
	uc usecase.AllocationUsecase
}

func NewAllocationHandler(uc usecase.AllocationUsecase) *AllocationHandler {
	return &AllocationHandler{uc: uc}
}

// parseEnum falls back to the raw text so the usecase reports the bad value.
func parseEnum[T ~string](raw string, parse func(string) (T, bool)) T {
	if v, ok := parse(raw); ok {
		return v
	}
	return T(raw)
}

func toLineSpec(r request.LineRequest) allocationdto.LineSpec {
	return allocationdto.LineSpec{
		Direction:   parseEnum(r.Direction, domain.ParseDirection),
		Category:    parseEnum(r.Category, domain.ParseCategory),
		Investor:    parseEnum(r.Investor, domain.ParseInvestorTier),
		StrikePrice: r.StrikePrice,
		ApplyRate:   r.ApplyRate,
		Quantity:    r.Quantity,
		Rate:        r.Rate,
		OrderedAt:   r.OrderedAt,
	}
}

func (h *AllocationHandler) Place(c *fiber.Ctx) error {
	var req request.PlaceOrderRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	lines := make([]allocationdto.LineSpec, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, toLineSpec(l))
	}
	master, err := h.uc.Place(c.UserContext(), &allocationdto.PlaceOrderInput{
		CompanyID:  companyID(c),
		Actor:      actor(c),
		OfferingID: req.OfferingID,
		GroupID:    req.GroupID,
		PlacedAt:   req.PlacedAt,
		RemarkIDs:  req.RemarkIDs,
		Lines:      lines,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, master)
}

func (h *AllocationHandler) Edit(c *fiber.Ctx) error {
	var req request.EditOrderRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Edit(c.UserContext(), &allocationdto.EditOrderInput{
		CompanyID: companyID(c),
		Actor:     actor(c),
		LineID:    c.Params("id"),
		GroupID:   req.GroupID,
		RemarkIDs: req.RemarkIDs,
		Line:      toLineSpec(req.Line),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{
		"line":          out.Line,
		"units_added":   out.UnitsAdded,
		"units_removed": out.UnitsRemoved,
	})
}

func (h *AllocationHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), &allocationdto.DeleteOrderInput{
		CompanyID: companyID(c),
		Actor:     actor(c),
		LineID:    c.Params("id"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{
		"line_id":         out.LineID,
		"master_id":       out.MasterID,
		"master_inactive": out.MasterInactive,
	})
}

func (h *AllocationHandler) FillUnitDetails(c *fiber.Ctx) error {
	var req request.FillUnitDetailsRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	details := make([]allocationdto.UnitDetail, 0, len(req.Units))
	for _, u := range req.Units {
		details = append(details, allocationdto.UnitDetail{
			UnitID:        u.UnitID,
			PAN:           u.PAN,
			ClientName:    u.ClientName,
			DematNumber:   u.DematNumber,
			ApplicationNo: u.ApplicationNo,
			AllottedQty:   u.AllottedQty,
		})
	}
	units, err := h.uc.FillUnitDetails(c.UserContext(), &allocationdto.FillUnitDetailsInput{
		CompanyID: companyID(c),
		Actor:     actor(c),
		Units:     details,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, units)
}

func (h *AllocationHandler) GetMaster(c *fiber.Ctx) error {
	view, err := h.uc.GetMaster(c.UserContext(), companyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{
		"master":  view.Master,
		"remarks": view.Remarks,
	})
}

func (h *AllocationHandler) RecentLines(c *fiber.Ctx) error {
	lines, err := h.uc.RecentLines(c.UserContext(), companyID(c), c.Params("offering_id"), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, lines)
}
