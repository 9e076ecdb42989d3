package controller

import (
	"heritage_edu_backend/internal/service"
	"heritage_edu_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ProgressionController 档案、排行榜与成就
type ProgressionController struct {
	Progression *service.ProgressionService
}

func NewProgressionController(progression *service.ProgressionService) *ProgressionController {
	return &ProgressionController{Progression: progression}
}

// GetProfile godoc
// @Summary 用户档案
// @Description 按用户名查档案，首次访问自动建档
// @Tags 进度
// @Produce  json
// @Param   user_name path string true "用户名"
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Router /api/profiles/{user_name} [get]
func (c *ProgressionController) GetProfile(ctx *gin.Context) {
	userName := ctx.Param("user_name")
	if userName == "" {
		util.BadRequest(ctx, "user_name is required")
		return
	}

	view, err := c.Progression.GetProfile(userName)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// UpdateProfile godoc
// @Summary 编辑个人档案
// @Description 登录用户更新昵称、简介、头像
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProfileUpdate true "档案字段"
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Router /api/profile [put]
func (c *ProgressionController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var update service.ProfileUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Progression.UpdateProfile(claims.Username, update)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GrantXPRequest 手动加经验请求
// swagger:model GrantXPRequest
type GrantXPRequest struct {
	UserName string `json:"user_name" binding:"required"`
	Amount   int    `json:"amount" binding:"required,gt=0"`
}

// GrantXP godoc
// @Summary 手动奖励经验
// @Description 管理端给指定用户加 XP，返回更新后的档案与新解锁成就
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body GrantXPRequest true "用户与数量"
// @Success 200 {object} util.Response
// @Router /api/admin/profiles/add-xp [post]
func (c *ProgressionController) GrantXP(ctx *gin.Context) {
	var req GrantXPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, unlocked, err := c.Progression.GrantXP(req.UserName, req.Amount)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"profile":               profile,
		"unlocked_achievements": unlocked,
	})
}

// Leaderboard godoc
// @Summary 总排行榜
// @Description 按总经验值降序
// @Tags 进度
// @Produce  json
// @Param   limit query int false "条数上限"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/leaderboard [get]
func (c *ProgressionController) Leaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	entries, err := c.Progression.Leaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// ListAchievements godoc
// @Summary 成就目录
// @Description 带 user_name 时附当前用户的解锁状态
// @Tags 进度
// @Produce  json
// @Param   user_name query string false "用户名"
// @Success 200 {object} util.Response{data=[]service.AchievementView}
// @Router /api/achievements [get]
func (c *ProgressionController) ListAchievements(ctx *gin.Context) {
	views, err := c.Progression.ListAchievements(ctx.Query("user_name"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, views)
}
