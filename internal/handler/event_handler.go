package handler

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
)

// EventHandler is the HTTP callback through which the shop reports order
// status transitions.
type EventHandler struct {
	listener domain.OrderStatusListener
}

func NewEventHandler(listener domain.OrderStatusListener) (*EventHandler, error) {
	if listener == nil {
		return nil, fmt.Errorf("order status listener is required")
	}
	return &EventHandler{listener: listener}, nil
}

func RegisterEventRoutes(router fiber.Router, listener domain.OrderStatusListener) error {
	h, err := NewEventHandler(listener)
	if err != nil {
		return err
	}

	router.Group("/v1").Post("/events/order-status-changed", h.OrderStatusChanged)
	return nil
}

type orderStatusChangedRequest struct {
	OrderID string        `json:"orderId"`
	From    string        `json:"from"`
	To      string        `json:"to"`
	Order   *domain.Order `json:"order"`
}

type orderStatusChangedResponse struct {
	Notified bool                    `json:"notified"`
	Outcome  *domain.DispatchOutcome `json:"outcome,omitempty"`
}

func (h *EventHandler) OrderStatusChanged(c *fiber.Ctx) error {
	var req orderStatusChangedRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orderID := strings.TrimSpace(req.OrderID)
	to := strings.TrimSpace(req.To)
	if orderID == "" {
		return toHTTPError(fmt.Errorf("%w: orderId is required", domain.ErrValidation))
	}
	if to == "" {
		return toHTTPError(fmt.Errorf("%w: to is required", domain.ErrValidation))
	}

	var order domain.OrderRecord
	if req.Order != nil {
		order = req.Order
	}

	outcome := h.listener.OnOrderStatusChanged(c.UserContext(), orderID, strings.TrimSpace(req.From), to, order)
	return c.Status(fiber.StatusOK).JSON(orderStatusChangedResponse{
		Notified: outcome != nil,
		Outcome:  outcome,
	})
}
