package handlers

import (
	"modmaster-backend/domain"
	"modmaster-backend/internal/api/presenters"
	"modmaster-backend/pkg/vehicle"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	VehicleHandler interface {
		AddVehicle(c *fiber.Ctx) error
		GetVehicles(c *fiber.Ctx) error
		UpdateVehicle(c *fiber.Ctx) error
		DeleteVehicle(c *fiber.Ctx) error
		InstallPart(c *fiber.Ctx) error
	}

	vehicleHandler struct {
		vehicleService vehicle.VehicleService
		validator      *validator.Validate
	}
)

func NewVehicleHandler(vehicleService vehicle.VehicleService, validator *validator.Validate) VehicleHandler {
	return &vehicleHandler{
		vehicleService: vehicleService,
		validator:      validator,
	}
}

func (h *vehicleHandler) AddVehicle(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.AddVehicleRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddVehicle, err)
	}

	resp, err := h.vehicleService.AddVehicle(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddVehicle, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusCreated, domain.MessageSuccessAddVehicle)
}

func (h *vehicleHandler) GetVehicles(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	vehicles, err := h.vehicleService.GetVehicles(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetVehicles, err)
	}

	return presenters.SuccessResponse(c, vehicles, fiber.StatusOK, domain.MessageSuccessGetVehicles)
}

func (h *vehicleHandler) UpdateVehicle(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	vehicleID := c.Params("id")

	req := new(domain.UpdateVehicleRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateVehicle, err)
	}

	if err := h.vehicleService.UpdateVehicle(c.Context(), vehicleID, *req, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateVehicle, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateVehicle)
}

func (h *vehicleHandler) DeleteVehicle(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	vehicleID := c.Params("id")

	if err := h.vehicleService.DeleteVehicle(c.Context(), vehicleID, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteVehicle, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteVehicle)
}

func (h *vehicleHandler) InstallPart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	vehicleID := c.Params("id")

	req := new(domain.InstallPartRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInstallPart, err)
	}

	if err := h.vehicleService.InstallPart(c.Context(), vehicleID, *req, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInstallPart, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessInstallPart)
}
