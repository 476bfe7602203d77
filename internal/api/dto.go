package api

import (
	"time"

	"github.com/wisewolf/educore-backend/internal/models"
)

// profileDTO hides the password hash from every response.
type profileDTO struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	Role       string    `json:"role"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone,omitempty"`
	HourlyRate *float64  `json:"hourly_rate,omitempty"`
	Module     *string   `json:"module,omitempty"`
	XP         int       `json:"xp"`
	Streak     int       `json:"streak"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func toProfileDTO(p *models.Profile) *profileDTO {
	return &profileDTO{
		ID:         p.ID.String(),
		TenantID:   p.TenantID.String(),
		Role:       string(p.Role),
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		HourlyRate: p.HourlyRate,
		Module:     p.Module,
		XP:         p.XP,
		Streak:     p.Streak,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
	}
}

func toProfileDTOs(ps []models.Profile) []*profileDTO {
	out := make([]*profileDTO, 0, len(ps))
	for i := range ps {
		out = append(out, toProfileDTO(&ps[i]))
	}
	return out
}

func brandingOf(t *models.Tenant) *models.Branding {
	return &models.Branding{
		PrimaryColor:   t.PrimaryColor,
		SecondaryColor: t.SecondaryColor,
		LogoURL:        t.LogoURL,
		Title:          t.Name,
		Version:        t.BrandingVersion,
	}
}
