package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/ctxutil"
	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/models"
)

func (s *Server) handleGetBranding(c *fiber.Ctx) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	tenant, err := db.GetTenant(ctx, s.DB, tenantID(c))
	if err != nil {
		return err
	}
	return c.JSON(brandingOf(tenant))
}

type updateBrandingRequest struct {
	PrimaryColor   string  `json:"primary_color" validate:"required,hexcolor"`
	SecondaryColor string  `json:"secondary_color" validate:"required,hexcolor"`
	LogoURL        *string `json:"logo_url" validate:"omitempty,url"`
}

// handleUpdateBranding bumps branding_version so logged-in clients re-theme.
func (s *Server) handleUpdateBranding(c *fiber.Ctx) error {
	var req updateBrandingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	if err := db.UpdateBranding(ctx, s.DB, tenantID(c), req.PrimaryColor, req.SecondaryColor, req.LogoURL); err != nil {
		return err
	}
	tenant, err := db.GetTenant(ctx, s.DB, tenantID(c))
	if err != nil {
		return err
	}
	return c.JSON(brandingOf(tenant))
}

type updateWACredsRequest struct {
	BaseURL string `json:"base_url" validate:"required,url"`
	APIKey  string `json:"api_key" validate:"required"`
}

func (s *Server) handleUpdateWhatsAppCreds(c *fiber.Ctx) error {
	var req updateWACredsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	if err := db.UpdateWhatsAppCreds(ctx, s.DB, tenantID(c), req.BaseURL, req.APIKey); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleDashboard serves the admin counters. Individual count failures are
// logged and the screen renders with zeros.
func (s *Server) handleDashboard(c *fiber.Ctx) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()

	month := time.Now().In(s.Cfg.Location).Format("2006-01")
	stats, errs := db.GetDashboardStats(ctx, s.DB, tenantID(c), month)
	for _, err := range errs {
		s.Log.Warnw("dashboard count failed", "err", err)
	}
	return c.JSON(stats)
}

type saasLeadRequest struct {
	SchoolName string  `json:"school_name" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      *string `json:"phone"`
}

// handleCreateSaaSLead is the only unauthenticated write: marketing-page
// signups land here.
func (s *Server) handleCreateSaaSLead(c *fiber.Ctx) error {
	var req saasLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Context())
	defer cancel()
	id, err := db.CreateSaaSLead(ctx, s.DB, models.SaaSLead{
		SchoolName: req.SchoolName,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

type crmLeadRequest struct {
	Name   string  `json:"name" validate:"required"`
	Phone  *string `json:"phone"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Status string  `json:"status" validate:"omitempty,oneof=NOVO CONTATADO MATRICULADO PERDIDO"`
	Notes  *string `json:"notes"`
}

func (s *Server) handleCreateCRMLead(c *fiber.Ctx) error {
	var req crmLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}
	if req.Status == "" {
		req.Status = "NOVO"
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	id, err := db.CreateCRMLead(ctx, s.DB, models.CRMLead{
		TenantID: tenantID(c),
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) handleListCRMLeads(c *fiber.Ctx) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	leads, err := db.ListCRMLeads(ctx, s.DB, tenantID(c))
	if err != nil {
		return err
	}
	return c.JSON(leads)
}

type updateCRMLeadRequest struct {
	Status string  `json:"status" validate:"required,oneof=NOVO CONTATADO MATRICULADO PERDIDO"`
	Notes  *string `json:"notes"`
}

func (s *Server) handleUpdateCRMLead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	var req updateCRMLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	if err := db.UpdateCRMLeadStatus(ctx, s.DB, tenantID(c), id, req.Status, req.Notes); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleDeleteCRMLead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	if err := db.DeleteCRMLead(ctx, s.DB, tenantID(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type trainingModuleRequest struct {
	Title    string  `json:"title" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	VideoURL *string `json:"video_url" validate:"omitempty,url"`
	Position int     `json:"position"`
}

func (s *Server) handleCreateTrainingModule(c *fiber.Ctx) error {
	var req trainingModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	id, err := db.CreateTrainingModule(ctx, s.DB, models.TrainingModule{
		Title:    req.Title,
		Content:  req.Content,
		VideoURL: req.VideoURL,
		Position: req.Position,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) handleListTrainingModules(c *fiber.Ctx) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	ms, err := db.ListTrainingModules(ctx, s.DB)
	if err != nil {
		return err
	}
	return c.JSON(ms)
}

type evaluationRequest struct {
	StudentID string  `json:"student_id" validate:"required,uuid"`
	Period    string  `json:"period" validate:"required,datetime=2006-01"`
	Score     int     `json:"score" validate:"min=0,max=100"`
	Notes     *string `json:"notes"`
}

func (s *Server) handleCreateEvaluation(c *fiber.Ctx) error {
	var req evaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	id, err := db.CreateStudentEvaluation(ctx, s.DB, models.StudentEvaluation{
		TenantID:  tenantID(c),
		StudentID: uuid.MustParse(req.StudentID),
		TeacherID: profileID(c),
		Period:    req.Period,
		Score:     req.Score,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) handleListEvaluations(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	es, err := db.ListStudentEvaluations(ctx, s.DB, tenantID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(es)
}

type lessonPlanRequest struct {
	Module  string `json:"module" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (s *Server) handleCreateLessonPlan(c *fiber.Ctx) error {
	var req lessonPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	id, err := db.CreateLessonPlan(ctx, s.DB, models.LessonPlan{
		TenantID: tenantID(c),
		Module:   req.Module,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) handleListLessonPlans(c *fiber.Ctx) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	ps, err := db.ListLessonPlans(ctx, s.DB, tenantID(c), c.Query("module"))
	if err != nil {
		return err
	}
	return c.JSON(ps)
}
