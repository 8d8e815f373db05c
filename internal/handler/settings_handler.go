package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
	"github.com/kursadbilgin/feishu-order-notify/internal/service"
)

type SettingsService interface {
	Current(ctx context.Context) (domain.Settings, error)
	Form(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, input domain.Settings) (domain.Settings, error)
	Uninstall(ctx context.Context) error
	Activity(ctx context.Context) ([]domain.DispatchOutcome, error)
	Diagnose(settings domain.Settings) service.SettingsDiagnostics
}

type TestSender interface {
	SendTest(ctx context.Context, settings domain.Settings) error
}

type SettingsHandler struct {
	settings SettingsService
	sender   TestSender
}

func NewSettingsHandler(settings SettingsService, sender TestSender) (*SettingsHandler, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings service is required")
	}
	if sender == nil {
		return nil, fmt.Errorf("test sender is required")
	}
	return &SettingsHandler{settings: settings, sender: sender}, nil
}

func RegisterSettingsRoutes(router fiber.Router, settings SettingsService, sender TestSender) error {
	h, err := NewSettingsHandler(settings, sender)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Get("/settings", h.GetSettings)
	v1.Put("/settings", h.SaveSettings)
	v1.Delete("/settings", h.DeleteSettings)
	v1.Post("/settings/test", h.SendTest)
	v1.Get("/activity", h.ListActivity)
	v1.Get("/order-statuses", h.ListOrderStatuses)

	return nil
}

type saveSettingsRequest struct {
	WebhookSuffix   *string  `json:"webhookSuffix"`
	WatchedStatuses []string `json:"watchedStatuses"`
}

type diagnosticsResponse struct {
	WebhookURL      string `json:"webhookUrl,omitempty"`
	SuffixValid     bool   `json:"suffixValid"`
	SuggestedSuffix string `json:"suggestedSuffix,omitempty"`
}

type settingsResponse struct {
	WebhookSuffix   string              `json:"webhookSuffix"`
	WatchedStatuses []string            `json:"watchedStatuses"`
	Diagnostics     diagnosticsResponse `json:"diagnostics"`
}

type activityEntryResponse struct {
	domain.DispatchOutcome
	Summary string `json:"summary"`
}

type activityResponse struct {
	Data []activityEntryResponse `json:"data"`
}

type orderStatusResponse struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

type orderStatusesResponse struct {
	Data []orderStatusResponse `json:"data"`
}

func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Form(c.UserContext())
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(h.toSettingsResponse(settings))
}

func (h *SettingsHandler) SaveSettings(c *fiber.Ctx) error {
	var req saveSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.WebhookSuffix == nil {
		return toHTTPError(fmt.Errorf("%w: webhookSuffix is required", domain.ErrValidation))
	}

	saved, err := h.settings.Save(c.UserContext(), domain.Settings{
		WebhookSuffix:   *req.WebhookSuffix,
		WatchedStatuses: req.WatchedStatuses,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(h.toSettingsResponse(saved))
}

func (h *SettingsHandler) DeleteSettings(c *fiber.Ctx) error {
	if err := h.settings.Uninstall(c.UserContext()); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SettingsHandler) SendTest(c *fiber.Ctx) error {
	settings, err := h.settings.Current(c.UserContext())
	if err != nil {
		return toHTTPError(err)
	}

	if err := h.sender.SendTest(c.UserContext(), settings); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Test message sent, check your Feishu group.",
		"sentAt":  time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *SettingsHandler) ListActivity(c *fiber.Ctx) error {
	outcomes, err := h.settings.Activity(c.UserContext())
	if err != nil {
		return toHTTPError(err)
	}

	entries := make([]activityEntryResponse, 0, len(outcomes))
	for _, outcome := range outcomes {
		entries = append(entries, activityEntryResponse{
			DispatchOutcome: outcome,
			Summary:         outcome.Summary(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(activityResponse{Data: entries})
}

func (h *SettingsHandler) ListOrderStatuses(c *fiber.Ctx) error {
	statuses := domain.OrderStatuses()
	items := make([]orderStatusResponse, 0, len(statuses))
	for _, status := range statuses {
		items = append(items, orderStatusResponse{Slug: status.Slug, Label: status.Label})
	}

	return c.Status(fiber.StatusOK).JSON(orderStatusesResponse{Data: items})
}

func (h *SettingsHandler) toSettingsResponse(settings domain.Settings) settingsResponse {
	statuses := settings.WatchedStatuses
	if statuses == nil {
		statuses = []string{}
	}

	diagnostics := h.settings.Diagnose(settings)
	return settingsResponse{
		WebhookSuffix:   settings.WebhookSuffix,
		WatchedStatuses: statuses,
		Diagnostics: diagnosticsResponse{
			WebhookURL:      diagnostics.WebhookURL,
			SuffixValid:     diagnostics.SuffixValid,
			SuggestedSuffix: diagnostics.SuggestedSuffix,
		},
	}
}
