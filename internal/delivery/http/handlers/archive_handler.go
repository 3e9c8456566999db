package handlers

import (
	"github.com/LavaJover/shvark-ipo-ledger/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-ipo-ledger/internal/usecase"
	archivedto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/archive"
	"github.com/gofiber/fiber/v2"
)

type ArchiveHandler struct {
	uc usecase.ArchiveUsecase
}

func NewArchiveHandler(uc usecase.ArchiveUsecase) *ArchiveHandler {
	return &ArchiveHandler{uc: uc}
}

func (h *ArchiveHandler) DeleteAll(c *fiber.Ctx) error {
	var req request.ArchiveRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
	}
	out, err := h.uc.DeleteAllForOffering(c.UserContext(), &archivedto.ArchiveInput{
		CompanyID:  companyID(c),
		OfferingID: c.Params("offering_id"),
		Actor:      actor(c),
		Remark:     req.Remark,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, out.History)
}

func (h *ArchiveHandler) ListHistories(c *fiber.Ctx) error {
	from, err := dateQuery(c, "from", false)
	if err != nil {
		return respondError(c, err)
	}
	to, err := dateQuery(c, "to", true)
	if err != nil {
		return respondError(c, err)
	}
	page, limit := pageQuery(c)
	out, err := h.uc.ListHistories(c.UserContext(), &archivedto.ListHistoriesInput{
		CompanyID:  companyID(c),
		OfferingID: c.Query("offering_id"),
		From:       from,
		To:         to,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{
		"histories": out.Histories,
		"pagination": fiber.Map{
			"current_page":   out.Pagination.CurrentPage,
			"total_pages":    out.Pagination.TotalPages,
			"total_items":    out.Pagination.TotalItems,
			"items_per_page": out.Pagination.ItemsPerPage,
		},
	})
}

func (h *ArchiveHandler) GetArchive(c *fiber.Ctx) error {
	archive, err := h.uc.GetArchive(c.UserContext(), companyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, archive)
}
