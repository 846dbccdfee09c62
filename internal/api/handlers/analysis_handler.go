package handlers

import (
	"PlantDoc-Backend/domain"
	"PlantDoc-Backend/internal/api/presenters"
	"PlantDoc-Backend/pkg/analysis"
	"PlantDoc-Backend/pkg/analytics"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AnalysisHandler interface {
		Analyze(c *fiber.Ctx) error
		GetHistory(c *fiber.Ctx) error
		GetDashboard(c *fiber.Ctx) error
	}

	analysisHandler struct {
		analysisService  analysis.AnalysisService
		analyticsService analytics.AnalyticsService
		validator        *validator.Validate
	}
)

func NewAnalysisHandler(
	analysisService analysis.AnalysisService,
	analyticsService analytics.AnalyticsService,
	validator *validator.Validate,
) AnalysisHandler {
	return &analysisHandler{
		analysisService:  analysisService,
		analyticsService: analyticsService,
		validator:        validator,
	}
}

func (h *analysisHandler) Analyze(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	language := c.Get("Language", "en")

	req := new(domain.AnalyzeRequest)

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAnalyze, domain.ErrMissingImage)
	}
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAnalyze, err)
	}

	res, err := h.analysisService.Analyze(c.Context(), *req, userID, language)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingImage), errors.Is(err, domain.ErrImageDecodeFailed):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAnalyze, err)
		case errors.Is(err, domain.ErrInferenceFailed):
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedAnalyze, err)
		default:
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedAnalyze, err)
		}
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAnalyze)
}

func (h *analysisHandler) GetHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	items, count, err := h.analysisService.GetHistory(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetHistory, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items": items,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetHistory)
}

func (h *analysisHandler) GetDashboard(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	dashboard, err := h.analyticsService.GetDashboard(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDashboard, err)
	}

	return presenters.SuccessResponse(c, dashboard, fiber.StatusOK, domain.MessageSuccessGetDashboard)
}
