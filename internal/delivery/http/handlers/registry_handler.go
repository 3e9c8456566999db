package handlers

import (
	"github.com/LavaJover/shvark-ipo-ledger/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/usecase"
	registrydto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/registry"
	"github.com/gofiber/fiber/v2"
)

// RegistryHandler serves offerings, groups, clients and remarks.
type RegistryHandler struct {
	offerings usecase.OfferingUsecase
	groups    usecase.GroupUsecase
	clients   usecase.ClientUsecase
	remarks   usecase.RemarkUsecase
}

func NewRegistryHandler(
	offerings usecase.OfferingUsecase,
	groups usecase.GroupUsecase,
	clients usecase.ClientUsecase,
	remarks usecase.RemarkUsecase,
) *RegistryHandler {
	return &RegistryHandler{
		offerings: offerings,
		groups:    groups,
		clients:   clients,
		remarks:   remarks,
	}
}

func listBody[T any](items []T, total int64) fiber.Map {
	return fiber.Map{"items": items, "total_count": total}
}

func offeringInput(c *fiber.Ctx, req request.OfferingRequest) registrydto.OfferingInput {
	return registrydto.OfferingInput{
		CompanyID:        companyID(c),
		Actor:            actor(c),
		Name:             req.Name,
		Type:             req.Type,
		UpperPriceBand:   req.UpperPriceBand,
		OpenPrice:        req.OpenPrice,
		TotalSizeCr:      req.TotalSizeCr,
		RetailLotSize:    req.RetailLotSize,
		SHNILotSize:      req.SHNILotSize,
		BHNILotSize:      req.BHNILotSize,
		RetailPercentage: req.RetailPercentage,
		SHNIPercentage:   req.SHNIPercentage,
		BHNIPercentage:   req.BHNIPercentage,
		Remark:           req.Remark,
	}
}

func (h *RegistryHandler) CreateOffering(c *fiber.Ctx) error {
	var req request.OfferingRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	input := offeringInput(c, req)
	offering, err := h.offerings.CreateOffering(c.UserContext(), &input)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, offering)
}

func (h *RegistryHandler) UpdateOffering(c *fiber.Ctx) error {
	var req request.OfferingRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	offering, err := h.offerings.UpdateOffering(c.UserContext(), &registrydto.UpdateOfferingInput{
		OfferingID:    c.Params("id"),
		OfferingInput: offeringInput(c, req),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, offering)
}

func (h *RegistryHandler) GetOffering(c *fiber.Ctx) error {
	offering, err := h.offerings.GetOffering(c.UserContext(), companyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, offering)
}

func (h *RegistryHandler) ListOfferings(c *fiber.Ctx) error {
	page, limit := pageQuery(c)
	items, total, err := h.offerings.ListOfferings(c.UserContext(), domain.OfferingFilter{
		CompanyID: companyID(c),
		Name:      c.Query("name"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, listBody(items, total))
}

func (h *RegistryHandler) DeleteOffering(c *fiber.Ctx) error {
	if err := h.offerings.DeleteOffering(c.UserContext(), companyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func groupInput(c *fiber.Ctx, req request.GroupRequest) registrydto.GroupInput {
	return registrydto.GroupInput{
		CompanyID:  companyID(c),
		Actor:      actor(c),
		OfferingID: req.OfferingID,
		Name:       req.Name,
		Mobile:     req.Mobile,
		Email:      req.Email,
		Address:    req.Address,
		Remark:     req.Remark,
	}
}

func (h *RegistryHandler) CreateGroup(c *fiber.Ctx) error {
	var req request.GroupRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	input := groupInput(c, req)
	group, err := h.groups.CreateGroup(c.UserContext(), &input)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, group)
}

func (h *RegistryHandler) UpdateGroup(c *fiber.Ctx) error {
	var req request.GroupRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	group, err := h.groups.UpdateGroup(c.UserContext(), &registrydto.UpdateGroupInput{
		GroupID:    c.Params("id"),
		GroupInput: groupInput(c, req),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, group)
}

func (h *RegistryHandler) GetGroup(c *fiber.Ctx) error {
	group, err := h.groups.GetGroup(c.UserContext(), companyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, group)
}

func (h *RegistryHandler) ListGroups(c *fiber.Ctx) error {
	page, limit := pageQuery(c)
	filter := domain.GroupFilter{
		CompanyID: companyID(c),
		Search:    c.Query("search"),
		Page:      page,
		Limit:     limit,
	}
	if offering := c.Query("offering_id"); offering != "" {
		filter.OfferingID = &offering
	}
	items, total, err := h.groups.ListGroups(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, listBody(items, total))
}

func (h *RegistryHandler) DeleteGroup(c *fiber.Ctx) error {
	if err := h.groups.DeleteGroup(c.UserContext(), companyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func clientInput(c *fiber.Ctx, req request.ClientRequest) registrydto.ClientInput {
	return registrydto.ClientInput{
		CompanyID:  companyID(c),
		Actor:      actor(c),
		PAN:        req.PAN,
		Name:       req.Name,
		GroupID:    req.GroupID,
		ClientDPID: req.ClientDPID,
	}
}

func (h *RegistryHandler) CreateClient(c *fiber.Ctx) error {
	var req request.ClientRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	input := clientInput(c, req)
	client, err := h.clients.CreateClient(c.UserContext(), &input)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, client)
}

func (h *RegistryHandler) UpdateClient(c *fiber.Ctx) error {
	var req request.ClientRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	client, err := h.clients.UpdateClient(c.UserContext(), &registrydto.UpdateClientInput{
		ClientID:    c.Params("id"),
		ClientInput: clientInput(c, req),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, client)
}

func (h *RegistryHandler) GetClient(c *fiber.Ctx) error {
	client, err := h.clients.GetClient(c.UserContext(), companyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, client)
}

func (h *RegistryHandler) ListClients(c *fiber.Ctx) error {
	page, limit := pageQuery(c)
	items, total, err := h.clients.ListClients(c.UserContext(), domain.ClientFilter{
		CompanyID: companyID(c),
		GroupID:   c.Query("group_id"),
		PAN:       c.Query("pan"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, listBody(items, total))
}

func (h *RegistryHandler) DeleteClient(c *fiber.Ctx) error {
	if err := h.clients.DeleteClient(c.UserContext(), companyID(c), c.Params("id"), actor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RegistryHandler) DeleteAllClients(c *fiber.Ctx) error {
	var req request.DeleteAllClientsRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
	}
	history, err := h.clients.DeleteAllClients(c.UserContext(), &registrydto.DeleteAllClientsInput{
		CompanyID: companyID(c),
		Actor:     actor(c),
		Remark:    req.Remark,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, history)
}

func (h *RegistryHandler) ListClientDeleteHistories(c *fiber.Ctx) error {
	from, err := dateQuery(c, "from", false)
	if err != nil {
		return respondError(c, err)
	}
	to, err := dateQuery(c, "to", true)
	if err != nil {
		return respondError(c, err)
	}
	page, limit := pageQuery(c)
	items, total, err := h.clients.ListDeleteHistories(c.UserContext(), domain.HistoryFilter{
		CompanyID: companyID(c),
		From:      from,
		To:        to,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, listBody(items, total))
}

func (h *RegistryHandler) CreateRemark(c *fiber.Ctx) error {
	var req request.RemarkRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	remark, err := h.remarks.CreateRemark(c.UserContext(), &registrydto.RemarkInput{
		CompanyID:  companyID(c),
		Actor:      actor(c),
		OfferingID: req.OfferingID,
		Name:       req.Name,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, remark)
}

func (h *RegistryHandler) ListRemarks(c *fiber.Ctx) error {
	remarks, err := h.remarks.ListRemarks(c.UserContext(), companyID(c), c.Params("offering_id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, remarks)
}
