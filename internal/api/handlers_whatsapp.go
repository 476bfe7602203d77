package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/ctxutil"
	"github.com/wisewolf/educore-backend/internal/db"
	"github.com/wisewolf/educore-backend/internal/metrics"
	"github.com/wisewolf/educore-backend/internal/models"
	"github.com/wisewolf/educore-backend/internal/whatsapp"
)

// waClient builds the tenant's gateway client. 412 when the school never
// configured gateway credentials.
func (s *Server) waClient(c *fiber.Ctx) (*whatsapp.Client, error) {
	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	tenant, err := db.GetTenant(ctx, s.DB, tenantID(c))
	if err != nil {
		return nil, err
	}
	return whatsapp.ForTenant(tenant)
}

// instanceName is deterministic per owner so a re-create targets the same
// gateway instance.
func instanceName(tenant, owner uuid.UUID) string {
	return fmt.Sprintf("educore-%s-%s", tenant.String()[:8], owner.String()[:8])
}

func (s *Server) handleWACreateInstance(c *fiber.Ctx) error {
	client, err := s.waClient(c)
	if err != nil {
		return err
	}
	name := instanceName(tenantID(c), profileID(c))
	if err := client.CreateInstance(c.UserContext(), name); err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	inst, err := db.UpsertWAInstance(ctx, s.DB, models.WhatsAppInstance{
		TenantID:     tenantID(c),
		OwnerID:      profileID(c),
		InstanceName: name,
		Status:       "disconnected",
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(inst)
}

// handleWAConnect returns the pairing QR as a base64 PNG.
func (s *Server) handleWAConnect(c *fiber.Ctx) error {
	client, err := s.waClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	inst, err := db.GetWAInstanceByOwner(ctx, s.DB, tenantID(c), profileID(c))
	if err != nil {
		return err
	}
	qr, err := client.Connect(c.UserContext(), inst.InstanceName)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"qr": qr})
}

// handleWAStatus polls the gateway and persists the fresh state, so the
// reminder watchdog sees connections without its own polling.
func (s *Server) handleWAStatus(c *fiber.Ctx) error {
	client, err := s.waClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	inst, err := db.GetWAInstanceByOwner(ctx, s.DB, tenantID(c), profileID(c))
	if err != nil {
		return err
	}
	state, err := client.ConnectionState(c.UserContext(), inst.InstanceName)
	if err != nil {
		return err
	}
	if state != inst.Status {
		if err := db.UpdateWAInstanceStatus(ctx, s.DB, inst.ID, state, nil); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"status": state})
}

func (s *Server) handleWALogout(c *fiber.Ctx) error {
	client, err := s.waClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	inst, err := db.GetWAInstanceByOwner(ctx, s.DB, tenantID(c), profileID(c))
	if err != nil {
		return err
	}
	if err := client.Logout(c.UserContext(), inst.InstanceName); err != nil {
		return err
	}
	if err := db.UpdateWAInstanceStatus(ctx, s.DB, inst.ID, "disconnected", nil); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleWADeleteInstance(c *fiber.Ctx) error {
	client, err := s.waClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	inst, err := db.GetWAInstanceByOwner(ctx, s.DB, tenantID(c), profileID(c))
	if err != nil {
		return err
	}
	// best effort on the gateway side; the local row always goes
	if err := client.DeleteInstance(c.UserContext(), inst.InstanceName); err != nil {
		s.Log.Warnw("gateway delete failed", "instance", inst.InstanceName, "err", err)
	}
	if err := db.DeleteWAInstance(ctx, s.DB, tenantID(c), profileID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type waSendRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	Text      string `json:"text" validate:"required"`
}

// handleWASendText is the manual send path. Audited but not deduped: manual
// messages use a distinct kind with the current timestamp baked into the key.
func (s *Server) handleWASendText(c *fiber.Ctx) error {
	var req waSendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(&req); err != nil {
		return err
	}

	client, err := s.waClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := ctxutil.WithDBTimeout(c.UserContext())
	defer cancel()
	inst, err := db.GetWAInstanceByOwner(ctx, s.DB, tenantID(c), profileID(c))
	if err != nil {
		return err
	}
	student, err := db.GetProfile(ctx, s.DB, tenantID(c), uuid.MustParse(req.StudentID))
	if err != nil {
		return err
	}
	if student.Phone == nil || *student.Phone == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "aluno sem telefone cadastrado")
	}

	if err := client.SendText(c.UserContext(), inst.InstanceName, *student.Phone, req.Text); err != nil {
		metrics.WASends.WithLabelValues(models.WAKindManual, "error").Inc()
		return err
	}
	metrics.WASends.WithLabelValues(models.WAKindManual, "ok").Inc()

	now := time.Now()
	if _, err := db.RecordWAMessage(ctx, s.DB, models.WhatsAppLog{
		TenantID:   tenantID(c),
		InstanceID: inst.ID,
		StudentID:  student.ID,
		ClassDate:  now.Format("2006-01-02"),
		ClassTime:  now.Format("15:04:05"),
		Kind:       models.WAKindManual,
		Message:    req.Text,
	}); err != nil {
		s.Log.Warnw("whatsapp audit write failed", "err", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
