package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wisewolf/educore-backend/internal/ctxutil"
	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/models"
)

const (
	roleAdmin   = string(models.RoleAdmin)
	roleTeacher = string(models.RoleTeacher)
	roleStudent = string(models.RoleStudent)
)

type sessionClaims struct {
	TenantID string `json:"tid"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(p *models.Profile) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		TenantID: p.TenantID.String(),
		Role:     string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.Cfg.JWTTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Cfg.JWTSecret))
}

func (s *Server) parseToken(raw string) (*sessionClaims, error) {
	var claims sessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.Cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token    string           `json:"token"`
	Profile  *profileDTO      `json:"profile"`
	Branding *models.Branding `json:"branding"`
}

// handleLogin resolves the authenticated identity to its tenant-scoped
// profile and seeds the client with tenant branding in the same response.
func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.Context())
	defer cancel()

	p, err := db.GetProfileByEmail(ctx, s.DB, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "credenciais inválidas")
		}
		return err
	}
	if !p.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "acesso desativado")
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "credenciais inválidas")
	}

	tenant, err := db.GetTenant(ctx, s.DB, p.TenantID)
	if err != nil {
		return err
	}
	token, err := s.issueToken(p)
	if err != nil {
		return err
	}
	return c.JSON(loginResponse{
		Token:    token,
		Profile:  toProfileDTO(p),
		Branding: brandingOf(tenant),
	})
}

// authRequired parses the bearer token and stores the session in Locals and
// in the request context (ctxutil keys).
func (s *Server) authRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(h, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		claims, err := s.parseToken(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		tenantID, err := uuid.Parse(claims.TenantID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		profileID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("tenant_id", tenantID)
		c.Locals("profile_id", profileID)
		c.Locals("role", claims.Role)

		ctx := ctxutil.WithTenantID(c.UserContext(), tenantID)
		ctx = ctxutil.WithProfileID(ctx, profileID)
		ctx = ctxutil.WithRole(ctx, claims.Role)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func (s *Server) requireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := role(c)
		for _, r := range roles {
			if got == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "acesso negado")
	}
}

func tenantID(c *fiber.Ctx) uuid.UUID  { v, _ := c.Locals("tenant_id").(uuid.UUID); return v }
func profileID(c *fiber.Ctx) uuid.UUID { v, _ := c.Locals("profile_id").(uuid.UUID); return v }
func role(c *fiber.Ctx) string         { v, _ := c.Locals("role").(string); return v }
