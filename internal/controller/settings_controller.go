package controller

import (
	"errors"
	"heritage_edu_backend/internal/service"
	"heritage_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	SettingsService *service.SettingsService
}

func NewSettingsController(settingsService *service.SettingsService) *SettingsController {
	return &SettingsController{SettingsService: settingsService}
}

// Get godoc
// @Summary 系统设置
// @Tags 系统
// @Produce  json
// @Success 200 {object} util.Response{data=model.SystemSettings}
// @Router /api/settings [get]
func (c *SettingsController) Get(ctx *gin.Context) {
	settings, err := c.SettingsService.Get()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}

// UpdateSettingsRequest 更新系统设置请求
// swagger:model UpdateSettingsRequest
type UpdateSettingsRequest struct {
	FeedbackEmail string `json:"feedback_email" binding:"required,email"`
}

// Update godoc
// @Summary 更新反馈收件邮箱
// @Description 仅 super_admin 可改
// @Tags 系统
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body UpdateSettingsRequest true "新设置"
// @Success 200 {object} util.Response{data=model.SystemSettings}
// @Failure 403 {object} util.Response "权限不足"
// @Router /api/admin/settings [put]
func (c *SettingsController) Update(ctx *gin.Context) {
	var req UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	settings, err := c.SettingsService.UpdateFeedbackEmail(req.FeedbackEmail, util.GetUserFromContext(ctx))
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, settings)
}
