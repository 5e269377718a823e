package handlers

import (
	"errors"
	"strconv"

	"modmaster-backend/domain"
	"modmaster-backend/internal/api/presenters"
	"modmaster-backend/pkg/scan"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ScanHandler interface {
		CreateScan(c *fiber.Ctx) error
		GetScan(c *fiber.Ctx) error
		GetScanStatus(c *fiber.Ctx) error
		GetScans(c *fiber.Ctx) error
		DeleteScan(c *fiber.Ctx) error
		RetryScan(c *fiber.Ctx) error
		SubmitFeedback(c *fiber.Ctx) error
		ReconcileResult(c *fiber.Ctx) error
	}

	scanHandler struct {
		scanService scan.ScanService
		validator   *validator.Validate
	}
)

func NewScanHandler(scanService scan.ScanService, validator *validator.Validate) ScanHandler {
	return &scanHandler{
		scanService: scanService,
		validator:   validator,
	}
}

func (h *scanHandler) CreateScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := domain.CreateScanRequest{
		VehicleID: c.FormValue("vehicle_id"),
		ScanType:  c.FormValue("scan_type"),
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateScan, err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.Images = form.File["images"]

	resp, err := h.scanService.CreateScan(c.Context(), req, userID)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrQuotaExceeded) {
			status = fiber.StatusForbidden
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedCreateScan, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusAccepted, domain.MessageSuccessCreateScan)
}

func (h *scanHandler) GetScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	resp, err := h.scanService.GetScan(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetScan, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessGetScan)
}

func (h *scanHandler) GetScanStatus(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	resp, err := h.scanService.GetScanStatus(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetScan, err)
	}

	return presenters.SuccessResponse(c, resp, fiber.StatusOK, domain.MessageSuccessGetScanStatus)
}

func (h *scanHandler) GetScans(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	scans, count, err := h.scanService.GetScans(c.Context(), userID, c.Query("status"), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetScans, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"scans": scans,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetScans)
}

func (h *scanHandler) DeleteScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.scanService.DeleteScan(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDeleteScan, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteScan)
}

func (h *scanHandler) RetryScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.scanService.RetryScan(c.Context(), c.Params("id"), userID); err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrScanNotFound) {
			status = fiber.StatusNotFound
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedRetryScan, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusAccepted, domain.MessageSuccessRetryScan)
}

func (h *scanHandler) SubmitFeedback(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.SubmitFeedbackRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubmitFeedback, err)
	}

	if err := h.scanService.SubmitFeedback(c.Context(), c.Params("id"), userID, *req); err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrScanNotFound) {
			status = fiber.StatusNotFound
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedSubmitFeedback, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessSubmitFeedback)
}

// ReconcileResult receives the worker callback. It sits behind the
// internal API key middleware, not user auth.
func (h *scanHandler) ReconcileResult(c *fiber.Ctx) error {
	req := new(domain.ScanResultPayload)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedReconcileScan, err)
	}

	if err := h.scanService.ReconcileResult(c.Context(), c.Params("id"), *req); err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrScanNotFound) {
			status = fiber.StatusNotFound
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedReconcileScan, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessScanReconciled)
}
