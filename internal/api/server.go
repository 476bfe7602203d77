// Package api is the tenant-facing REST surface. Every authenticated route
// is scoped to the tenant carried in the session token; tenant ids are never
// read from request bodies.
package api

import (
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wisewolf/educore-backend/internal/app"
	"github.com/wisewolf/educore-backend/internal/closing"
	"github.com/wisewolf/educore-backend/internal/config"
	"github.com/wisewolf/educore-backend/internal/pending"
)

type Server struct {
	App      *fiber.App
	DB       *sql.DB
	Cfg      *config.Config
	Log      *zap.SugaredLogger
	Closings *closing.Service
	Scanner  *pending.Scanner
	Limiter  *app.KeyedLimiter

	validate *validator.Validate
}

func NewServer(cfg *config.Config, database *sql.DB, log *zap.SugaredLogger, closings *closing.Service, scanner *pending.Scanner) *Server {
	s := &Server{
		DB:       database,
		Cfg:      cfg,
		Log:      log,
		Closings: closings,
		Scanner:  scanner,
		Limiter:  app.NewKeyedLimiter(),
		validate: validator.New(),
	}

	s.App = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
		BodyLimit:             8 << 20, // invoice uploads cap at 5MB + overhead
	})

	s.App.Use(s.requestLogger())

	// public
	s.App.Post("/api/auth/login", s.handleLogin)
	s.App.Post("/api/saas-leads", s.handleCreateSaaSLead)
	s.App.Static(cfg.InvoiceBaseURL, cfg.InvoiceDir)

	api := s.App.Group("/api", s.authRequired())

	api.Get("/me", s.handleMe)

	api.Get("/tenant/branding", s.handleGetBranding)
	api.Put("/tenant/branding", s.requireRole(roleAdmin), s.handleUpdateBranding)
	api.Put("/tenant/whatsapp-creds", s.requireRole(roleAdmin), s.handleUpdateWhatsAppCreds)
	api.Get("/dashboard", s.requireRole(roleAdmin), s.handleDashboard)

	api.Post("/profiles", s.requireRole(roleAdmin), s.handleCreateProfile)
	api.Get("/profiles", s.handleListProfiles)
	api.Get("/profiles/:id", s.handleGetProfile)
	api.Put("/profiles/:id", s.requireRole(roleAdmin), s.handleUpdateProfile)
	api.Delete("/profiles/:id", s.requireRole(roleAdmin), s.handleDeactivateProfile)

	api.Post("/bookings", s.requireRole(roleAdmin, roleTeacher), s.handleCreateBooking)
	api.Get("/bookings", s.handleListBookings)
	api.Delete("/bookings/:id", s.requireRole(roleAdmin, roleTeacher), s.handleDeleteBooking)
	api.Delete("/students/:id/bookings", s.requireRole(roleAdmin), s.handleUnenrollStudent)

	api.Post("/reschedules", s.requireRole(roleAdmin, roleTeacher), s.handleCreateReschedule)
	api.Put("/reschedules/:id/resolve", s.requireRole(roleAdmin, roleTeacher), s.handleResolveReschedule)
	api.Delete("/reschedules/:id", s.requireRole(roleAdmin, roleTeacher), s.handleDeleteReschedule)
	api.Get("/reschedules/pending", s.requireRole(roleTeacher), s.handleListPendingReschedules)

	api.Post("/class-logs", s.requireRole(roleTeacher), s.handleCreateClassLog)
	api.Get("/class-logs", s.handleListClassLogs)

	api.Get("/teacher/pending-count", s.requireRole(roleTeacher), s.handlePendingCount)

	api.Get("/closings/:month/preview", s.requireRole(roleTeacher), s.handleClosingPreview)
	api.Post("/closings/:month/confirm", s.requireRole(roleTeacher), s.handleConfirmClosing)
	api.Post("/closings/:month/contest", s.requireRole(roleTeacher), s.handleContestClosing)
	api.Post("/closings/:month/invoice", s.requireRole(roleTeacher), s.handleAttachInvoice)
	api.Get("/closings/:month", s.requireRole(roleTeacher), s.handleGetOwnClosing)

	admin := api.Group("/admin", s.requireRole(roleAdmin))
	admin.Get("/closings", s.handleListClosings)
	admin.Get("/closings/export", s.handleExportClosings)
	admin.Post("/closings/:id/acknowledge", s.handleAcknowledgeClosing)
	admin.Post("/closings/:id/approve", s.handleApproveClosing)
	admin.Post("/closings/:id/reject", s.handleRejectClosing)
	admin.Post("/closings/:id/pay", s.handlePayClosing)

	wa := api.Group("/whatsapp", s.requireRole(roleTeacher, roleAdmin))
	wa.Post("/instance", s.handleWACreateInstance)
	wa.Get("/qr", s.handleWAConnect)
	wa.Get("/status", s.handleWAStatus)
	wa.Post("/logout", s.handleWALogout)
	wa.Delete("/instance", s.handleWADeleteInstance)
	wa.Post("/send", s.handleWASendText)

	api.Post("/crm-leads", s.requireRole(roleAdmin), s.handleCreateCRMLead)
	api.Get("/crm-leads", s.requireRole(roleAdmin), s.handleListCRMLeads)
	api.Put("/crm-leads/:id", s.requireRole(roleAdmin), s.handleUpdateCRMLead)
	api.Delete("/crm-leads/:id", s.requireRole(roleAdmin), s.handleDeleteCRMLead)

	api.Get("/training-modules", s.requireRole(roleTeacher, roleAdmin), s.handleListTrainingModules)
	api.Post("/training-modules", s.requireRole(roleAdmin), s.handleCreateTrainingModule)
	api.Post("/evaluations", s.requireRole(roleTeacher), s.handleCreateEvaluation)
	api.Get("/students/:id/evaluations", s.handleListEvaluations)
	api.Get("/lesson-plans", s.requireRole(roleTeacher, roleAdmin), s.handleListLessonPlans)
	api.Post("/lesson-plans", s.requireRole(roleAdmin), s.handleCreateLessonPlan)

	return s
}

func (s *Server) Listen(addr string) error { return s.App.Listen(addr) }

func (s *Server) Shutdown() error { return s.App.Shutdown() }
