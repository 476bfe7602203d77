package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/ctxutil"
	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/metrics"
	"github.com/wisewolf/educore-backend/internal/models"
)

type createBookingRequest struct {
	TeacherID string  `json:"teacher_id" validate:"required,uuid"`
	StudentID string  `json:"student_id" validate:"required,uuid"`
	Weekday   string  `json:"weekday" validate:"required,oneof=Segunda Terça Quarta Quinta Sexta Sábado"`
	Time      string  `json:"time" validate:"required,len=5"`
	Module    *string `json:"module"`
	StartDate *string `json:"start_date"`
}

func (s *Server) handleCreateBooking(c *fiber.Ctx) error {
	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}
	teacherID := uuid.MustParse(req.TeacherID)
	if role(c) == roleTeacher && teacherID != profileID(c) {
		return fiber.NewError(fiber.StatusForbidden, "professor só agenda as próprias aulas")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	id, err := db.CreateBooking(ctx, s.DB, models.Booking{
		TenantID:  tenantID(c),
		TeacherID: teacherID,
		StudentID: uuid.MustParse(req.StudentID),
		Weekday:   req.Weekday,
		Time:      req.Time,
		Module:    req.Module,
		StartDate: req.StartDate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) handleListBookings(c *fiber.Ctx) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()

	if sid := c.Query("student_id"); sid != "" {
		studentID, err := uuid.Parse(sid)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "student_id inválido")
		}
		bs, err := db.ListBookingsByStudent(ctx, s.DB, tenantID(c), studentID)
		if err != nil {
			return err
		}
		return c.JSON(bs)
	}

	teacherID := profileID(c)
	if tid := c.Query("teacher_id"); tid != "" && role(c) == roleAdmin {
		id, err := uuid.Parse(tid)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "teacher_id inválido")
		}
		teacherID = id
	}
	bs, err := db.ListBookingsByTeacher(ctx, s.DB, tenantID(c), teacherID)
	if err != nil {
		return err
	}
	return c.JSON(bs)
}

func (s *Server) handleDeleteBooking(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	if err := db.DeleteBooking(ctx, s.DB, tenantID(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleUnenrollStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	n, err := db.DeleteBookingsByStudent(ctx, s.DB, tenantID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": n})
}

type createRescheduleRequest struct {
	BookingID *string `json:"booking_id" validate:"omitempty,uuid"`
	StudentID string  `json:"student_id" validate:"required,uuid"`
	Date      string  `json:"date"` // empty or "Pendente" for unscheduled
	Time      *string `json:"time"`
	Note      *string `json:"note"`
}

func (s *Server) handleCreateReschedule(c *fiber.Ctx) error {
	var req createRescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}

	var bookingID *uuid.UUID
	if req.BookingID != nil {
		id := uuid.MustParse(*req.BookingID)
		bookingID = &id
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	id, err := db.CreateReschedule(ctx, s.DB, models.Reschedule{
		TenantID:  tenantID(c),
		BookingID: bookingID,
		TeacherID: profileID(c),
		StudentID: uuid.MustParse(req.StudentID),
		Date:      req.Date,
		Time:      req.Time,
		Note:      req.Note,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

type resolveRescheduleRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,len=5"`
}

func (s *Server) handleResolveReschedule(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	var req resolveRescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	if err := db.ResolveReschedule(ctx, s.DB, tenantID(c), id, req.Date, req.Time); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleDeleteReschedule(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	if err := db.DeleteReschedule(ctx, s.DB, tenantID(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleListPendingReschedules(c *fiber.Ctx) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	rs, err := db.ListPendingReschedules(ctx, s.DB, tenantID(c), profileID(c))
	if err != nil {
		return err
	}
	return c.JSON(rs)
}

type createClassLogRequest struct {
	BookingID    *string `json:"booking_id" validate:"omitempty,uuid"`
	RescheduleID *string `json:"reschedule_id" validate:"omitempty,uuid"`
	StudentID    string  `json:"student_id" validate:"required,uuid"`
	ClassDate    string  `json:"class_date" validate:"required,datetime=2006-01-02"`
	Presence     string  `json:"presence" validate:"required"`
	Makeup       bool    `json:"makeup"`
	Content      *string `json:"content"`
}

// handleCreateClassLog appends to the ledger and feeds the student
// gamification counters.
func (s *Server) handleCreateClassLog(c *fiber.Ctx) error {
	var req createClassLogRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}
	if !models.ValidPresence(req.Presence) {
		return fiber.NewError(fiber.StatusBadRequest, "presença inválida")
	}

	var bookingID *uuid.UUID
	if req.BookingID != nil {
		id := uuid.MustParse(*req.BookingID)
		bookingID = &id
	}
	var subtype *string
	if req.Makeup || req.RescheduleID != nil {
		st := models.SubtypeReposicao
		subtype = &st
	}
	studentID := uuid.MustParse(req.StudentID)

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	id, err := db.InsertClassLog(ctx, s.DB, models.ClassLog{
		TenantID:  tenantID(c),
		BookingID: bookingID,
		TeacherID: profileID(c),
		StudentID: studentID,
		ClassDate: req.ClassDate,
		Presence:  req.Presence,
		Subtype:   subtype,
		Content:   req.Content,
	})
	if err != nil {
		return err
	}

	// logging a makeup fulfils its reschedule
	if req.RescheduleID != nil {
		rid := uuid.MustParse(*req.RescheduleID)
		if err := db.DeleteReschedule(ctx, s.DB, tenantID(c), rid); err != nil && !errors.Is(err, db.ErrNotFound) {
			s.Log.Warnw("reschedule cleanup failed", "reschedule", rid, "err", err)
		}
	}

	// XP/streak side effects; failures here don't fail the log write
	switch req.Presence {
	case models.PresencePresenca:
		if err := db.BumpGamification(ctx, s.DB, tenantID(c), studentID, 10); err != nil {
			s.Log.Warnw("gamification bump failed", "student", studentID, "err", err)
		}
	case models.PresenceFalta:
		if err := db.ResetStreak(ctx, s.DB, tenantID(c), studentID); err != nil {
			s.Log.Warnw("streak reset failed", "student", studentID, "err", err)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) handleListClassLogs(c *fiber.Ctx) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()

	if sid := c.Query("student_id"); sid != "" {
		studentID, err := uuid.Parse(sid)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "student_id inválido")
		}
		logs, err := db.ListClassLogsByStudent(ctx, s.DB, tenantID(c), studentID, 100)
		if err != nil {
			return err
		}
		return c.JSON(logs)
	}

	month := c.Query("month")
	if month == "" {
		return fiber.NewError(fiber.StatusBadRequest, "month obrigatório (YYYY-MM)")
	}
	logs, err := db.ListClassLogsByMonth(ctx, s.DB, tenantID(c), profileID(c), month)
	if err != nil {
		return err
	}
	return c.JSON(logs)
}

// handlePendingCount runs the scan on demand for the sidebar badge.
func (s *Server) handlePendingCount(c *fiber.Ctx) error {
	metrics.PendingScans.Inc()
	count := s.Scanner.Count(c.UserContext(), tenantID(c), profileID(c))
	return c.JSON(fiber.Map{"pending": count})
}
