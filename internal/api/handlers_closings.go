package api

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/ctxutil"
	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/export"
	"github.com/wisewolf/educore-backend/internal/models"
)

// handleClosingPreview recomputes the month live from the class-log ledger.
func (s *Server) handleClosingPreview(c *fiber.Ctx) error {
	totals, err := s.Closings.TotalsFor(c.UserContext(), tenantID(c), profileID(c), c.Params("month"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"month_year":    c.Params("month"),
		"total_classes": totals.Lessons,
		"total_amount":  totals.Amount,
	})
}

func (s *Server) handleConfirmClosing(c *fiber.Ctx) error {
	closing, err := s.Closings.Confirm(c.UserContext(), tenantID(c), profileID(c), c.Params("month"))
	if err != nil {
		return err
	}
	return c.JSON(closing)
}

type contestRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (s *Server) handleContestClosing(c *fiber.Ctx) error {
	var req contestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}
	closing, err := s.Closings.Contest(c.UserContext(), tenantID(c), profileID(c), c.Params("month"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(closing)
}

// handleAttachInvoice receives the NF-e PDF as multipart form data. Uploads
// for the same teacher/month are serialized so a retried upload cannot
// interleave with the first.
func (s *Server) handleAttachInvoice(c *fiber.Ctx) error {
	month := c.Params("month")
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "arquivo ausente (campo 'file')")
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	unlock := s.Limiter.Lock(profileID(c).String() + "/" + month)
	defer unlock()

	closing, err := s.Closings.AttachInvoice(c.UserContext(), tenantID(c), profileID(c), month,
		fh.Header.Get("Content-Type"), data)
	if err != nil {
		return err
	}
	return c.JSON(closing)
}

func (s *Server) handleGetOwnClosing(c *fiber.Ctx) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	closing, err := db.GetClosing(ctx, s.DB, tenantID(c), profileID(c), c.Params("month"))
	if err != nil {
		return err
	}
	return c.JSON(closing)
}

func (s *Server) handleListClosings(c *fiber.Ctx) error {
	month := c.Query("month")
	if month == "" {
		return fiber.NewError(fiber.StatusBadRequest, "month obrigatório (YYYY-MM)")
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	rows, err := db.ListClosingsByMonth(ctx, s.DB, tenantID(c), month)
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

// handleExportClosings streams the month as an .xlsx workbook.
func (s *Server) handleExportClosings(c *fiber.Ctx) error {
	month := c.Query("month")
	if month == "" {
		return fiber.NewError(fiber.StatusBadRequest, "month obrigatório (YYYY-MM)")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	rows, err := db.ListClosingsByMonth(ctx, s.DB, tenantID(c), month)
	if err != nil {
		return err
	}
	teachers, err := db.ListProfilesByRole(ctx, s.DB, tenantID(c), models.RoleTeacher)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(teachers))
	for _, t := range teachers {
		names[t.ID.String()] = t.Name
	}

	buf, err := export.ClosingsWorkbook(month, rows, names)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="fechamento-`+month+`.xlsx"`)
	return c.Send(buf.Bytes())
}

func closingIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	return id, nil
}

func (s *Server) handleAcknowledgeClosing(c *fiber.Ctx) error {
	id, err := closingIDParam(c)
	if err != nil {
		return err
	}
	closing, err := s.Closings.Acknowledge(c.UserContext(), tenantID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(closing)
}

func (s *Server) handleApproveClosing(c *fiber.Ctx) error {
	id, err := closingIDParam(c)
	if err != nil {
		return err
	}
	closing, err := s.Closings.Approve(c.UserContext(), tenantID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(closing)
}

type rejectRequest struct {
	Note string `json:"note" validate:"required"`
}

func (s *Server) handleRejectClosing(c *fiber.Ctx) error {
	id, err := closingIDParam(c)
	if err != nil {
		return err
	}
	var req rejectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}
	closing, err := s.Closings.Reject(c.UserContext(), tenantID(c), id, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(closing)
}

func (s *Server) handlePayClosing(c *fiber.Ctx) error {
	id, err := closingIDParam(c)
	if err != nil {
		return err
	}
	closing, err := s.Closings.MarkPaid(c.UserContext(), tenantID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(closing)
}
