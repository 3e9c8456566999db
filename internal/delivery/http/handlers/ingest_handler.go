package handlers

import (
	"fmt"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/csvrows"
	"github.com/LavaJover/shvark-ipo-ledger/internal/usecase"
	ingestdto "github.com/LavaJover/shvark-ipo-ledger/internal/usecase/dto/ingest"
	"github.com/gofiber/fiber/v2"
)

const uploadField = "file"

type IngestHandler struct {
	uc usecase.IngestUsecase
}

func NewIngestHandler(uc usecase.IngestUsecase) *IngestHandler {
	return &IngestHandler{uc: uc}
}

// Upload takes a multipart CSV under the "file" field.
func (h *IngestHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		return respondError(c, domain.NewValidationError(uploadField, "multipart file is required"))
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, fmt.Errorf("failed to open upload: %w", err))
	}
	defer f.Close()

	rows, err := csvrows.Read(f)
	if err != nil {
		return respondError(c, fmt.Errorf("%w: %v", domain.ErrParseFailure, err))
	}
	out, err := h.uc.Upload(c.UserContext(), &ingestdto.UploadInput{
		CompanyID:  companyID(c),
		Actor:      actor(c),
		OfferingID: c.Params("offering_id"),
		Rows:       rows,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, fiber.Map{
		"batch_ref":       out.BatchRef,
		"master_id":       out.MasterID,
		"lines":           out.Lines,
		"units":           out.Units,
		"groups_created":  out.GroupsCreated,
		"remarks_created": out.RemarksCreated,
	})
}
