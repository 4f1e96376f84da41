package controllers

import (
	"net/http"
	"strconv"

	"procurement-system/internal/dto"
	"procurement-system/internal/services"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CmsController struct {
	cmsService services.CmsServiceInterface
	logger     *zap.Logger
}

func NewCmsController(cmsService services.CmsServiceInterface, logger *zap.Logger) *CmsController {
	return &CmsController{cmsService: cmsService, logger: logger}
}

func (c *CmsController) parseRequestID(ctx echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"invalid request id",
			err,
			map[string]interface{}{"param": ctx.Param("id")},
		)
	}
	return id, nil
}

func (c *CmsController) UpsertCase(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := c.parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpsertCmsCaseDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.cmsService.UpsertCase(reqCtx, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "CMS case saved", http.StatusOK)
}

func (c *CmsController) FindCase(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := c.parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.cmsService.FindCase(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "CMS case found", http.StatusOK)
}

func (c *CmsController) AddFollowup(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := c.parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateCmsFollowupDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("invalid request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.cmsService.AddFollowup(reqCtx, id, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "follow-up recorded", http.StatusCreated)
}

func (c *CmsController) GetFollowups(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := c.parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.cmsService.GetFollowups(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "follow-ups fetched", http.StatusOK)
}
