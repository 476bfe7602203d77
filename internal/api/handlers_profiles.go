package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wisewolf/educore-backend/internal/ctxutil"
	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/models"
)

func (s *Server) handleMe(c *fiber.Ctx) error {
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	p, err := db.GetProfile(ctx, s.DB, tenantID(c), profileID(c))
	if err != nil {
		return err
	}
	return c.JSON(toProfileDTO(p))
}

type createProfileRequest struct {
	Role       string   `json:"role" validate:"required,oneof=teacher student"`
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=8"`
	Phone      *string  `json:"phone"`
	HourlyRate *float64 `json:"hourly_rate"`
	Module     *string  `json:"module"`
}

// handleCreateProfile adds a teacher or student, bounded by the tenant seat
// limit. Admins are created by the platform operator, not through here.
func (s *Server) handleCreateProfile(c *fiber.Ctx) error {
	var req createProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()

	tenant, err := db.GetTenant(ctx, s.DB, tenantID(c))
	if err != nil {
		return err
	}
	seats, err := db.CountSeats(ctx, s.DB, tenant.ID)
	if err != nil {
		return err
	}
	if seats >= tenant.SeatLimit {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "limite de vagas do plano atingido")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id, err := db.CreateProfile(ctx, s.DB, models.Profile{
		TenantID:     tenant.ID,
		Role:         models.Role(req.Role),
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Phone:        req.Phone,
		HourlyRate:   req.HourlyRate,
		Module:       req.Module,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			// same email may already exist under another school
			return fiber.NewError(fiber.StatusConflict, "e-mail já cadastrado em outra escola")
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) handleListProfiles(c *fiber.Ctx) error {
	roleQ := c.Query("role", string(models.RoleStudent))
	if !models.Role(roleQ).Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "role inválida")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	ps, err := db.ListProfilesByRole(ctx, s.DB, tenantID(c), models.Role(roleQ))
	if err != nil {
		return err
	}
	return c.JSON(toProfileDTOs(ps))
}

func (s *Server) handleGetProfile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	p, err := db.GetProfile(ctx, s.DB, tenantID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(toProfileDTO(p))
}

type updateProfileRequest struct {
	Name       string   `json:"name" validate:"required"`
	Phone      *string  `json:"phone"`
	HourlyRate *float64 `json:"hourly_rate"`
	Module     *string  `json:"module"`
}

func (s *Server) handleUpdateProfile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	if err := db.UpdateProfile(ctx, s.DB, tenantID(c), id, req.Name, req.Phone, req.HourlyRate, req.Module); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleDeactivateProfile soft-deletes: the profile stays for historical
// closings and logs, but frees its seat.
func (s *Server) handleDeactivateProfile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	if err := db.DeactivateProfile(ctx, s.DB, tenantID(c), id); err != nil {
		return err
	}
	// unenrollment clears the student's weekly slots too
	if _, err := db.DeleteBookingsByStudent(ctx, s.DB, tenantID(c), id); err != nil && !errors.Is(err, db.ErrNotFound) {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
