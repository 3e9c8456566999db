package handlers

import (
	"github.com/LavaJover/shvark-ipo-ledger/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/usecase"
	paymentdto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/payment"
	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	uc usecase.PaymentUsecase
}

func NewPaymentHandler(uc usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func toLeg(r request.TransferLegRequest) paymentdto.TransferLeg {
	return paymentdto.TransferLeg{
		GroupID:    r.GroupID,
		OfferingID: r.OfferingID,
		AmountType: parseEnum(r.AmountType, domain.ParseAmountType),
		Remark:     r.Remark,
	}
}

func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var req request.PaymentRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	payment, err := h.uc.CreatePayment(c.UserContext(), &paymentdto.CreatePaymentInput{
		CompanyID:       companyID(c),
		Actor:           actor(c),
		GroupID:         req.GroupID,
		OfferingID:      req.OfferingID,
		AmountType:      parseEnum(req.AmountType, domain.ParseAmountType),
		Amount:          req.Amount,
		Remark:          req.Remark,
		TransactionDate: req.TransactionDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, payment)
}

func (h *PaymentHandler) Transfer(c *fiber.Ctx) error {
	var req request.TransferRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Transfer(c.UserContext(), &paymentdto.TransferInput{
		CompanyID:       companyID(c),
		Actor:           actor(c),
		Leg1:            toLeg(req.Leg1),
		Leg2:            toLeg(req.Leg2),
		Amount:          req.Amount,
		TransactionDate: req.TransactionDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, fiber.Map{
		"transfer_ref": out.TransferRef,
		"legs":         out.Legs,
	})
}

func (h *PaymentHandler) List(c *fiber.Ctx) error {
	from, err := dateQuery(c, "from", false)
	if err != nil {
		return respondError(c, err)
	}
	to, err := dateQuery(c, "to", true)
	if err != nil {
		return respondError(c, err)
	}
	page, limit := pageQuery(c)
	out, err := h.uc.ListPayments(c.UserContext(), &paymentdto.ListPaymentsInput{
		CompanyID:  companyID(c),
		GroupID:    c.Query("group_id"),
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
		"payments":    out.Payments,
		"total_count": out.TotalCount,
	})
}

func (h *PaymentHandler) Dashboard(c *fiber.Ctx) error {
	page, limit := pageQuery(c)
	out, err := h.uc.GroupWiseDashboard(c.UserContext(), &paymentdto.DashboardInput{
		CompanyID:  companyID(c),
		GroupID:    c.Query("group_id"),
		OfferingID: c.Query("offering_id"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fiber.Map{
		"rows":        out.Rows,
		"footer":      out.Footer,
		"total_count": out.TotalCount,
	})
}
