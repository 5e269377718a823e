package handlers

import (
	"modmaster-backend/domain"
	"modmaster-backend/internal/api/presenters"
	"modmaster-backend/pkg/subscription"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	SubscriptionHandler interface {
		CreateUpgrade(c *fiber.Ctx) error
		MidtransWebhook(c *fiber.Ctx) error
	}

	subscriptionHandler struct {
		subscriptionService subscription.SubscriptionService
		validator           *validator.Validate
	}
)

func NewSubscriptionHandler(
	subscriptionService subscription.SubscriptionService,
	validator *validator.Validate,
) SubscriptionHandler {
	return &subscriptionHandler{
		subscriptionService: subscriptionService,
		validator:           validator,
	}
}

func (h *subscriptionHandler) CreateUpgrade(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.UpgradeSubscriptionRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateUpgrade, err)
	}

	resp, err := h.subscriptionService.CreateUpgrade(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateUpgrade, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusCreated, domain.MessageSuccessCreateUpgrade)
}

func (h *subscriptionHandler) MidtransWebhook(c *fiber.Ctx) error {
	var notification map[string]interface{}
	if err := c.BodyParser(&notification); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	orderID, _ := notification["order_id"].(string)
	transactionStatus, _ := notification["transaction_status"].(string)
	fraudStatus, _ := notification["fraud_status"].(string)

	if orderID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedWebhook, nil)
	}

	if err := h.subscriptionService.HandleWebhook(c.Context(), orderID, transactionStatus, fraudStatus); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedWebhook, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessWebhook)
}
