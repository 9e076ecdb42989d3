package controller

import (
	"errors"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/service"
	"heritage_edu_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	FeedbackService *service.FeedbackService
}

func NewFeedbackController(feedbackService *service.FeedbackService) *FeedbackController {
	return &FeedbackController{FeedbackService: feedbackService}
}

// FeedbackRequest 反馈提交请求
// swagger:model FeedbackRequest
type FeedbackRequest struct {
	Site     uint   `json:"site" binding:"required"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Category string `json:"category" binding:"required"`
	Message  string `json:"message" binding:"required"`
	Image    string `json:"image"`
}

// Submit godoc
// @Summary 提交反馈
// @Description 同一邮箱 5 分钟内只能提交一次，超限返回剩余等待分钟数
// @Tags 反馈
// @Accept  json
// @Produce  json
// @Param   body body FeedbackRequest true "反馈内容"
// @Success 201 {object} util.Response{data=model.Feedback}
// @Failure 404 {object} util.Response "地点不存在"
// @Failure 429 {object} util.Response "提交过于频繁"
// @Router /api/feedback [post]
func (c *FeedbackController) Submit(ctx *gin.Context) {
	var req FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	feedback := &model.Feedback{
		SiteRefID: req.Site,
		Name:      req.Name,
		Email:     req.Email,
		Category:  req.Category,
		Message:   req.Message,
		ImageURL:  req.Image,
	}

	if err := c.FeedbackService.Submit(feedback); err != nil {
		var rle *service.RateLimitError
		switch {
		case errors.As(err, &rle):
			util.TooManyRequests(ctx, rle.Error())
		case errors.Is(err, util.ErrSiteNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, feedback)
}

// List godoc
// @Summary 反馈列表
// @Tags 反馈
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   page_size query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/feedback [get]
func (c *FeedbackController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	items, total, err := c.FeedbackService.List(page, pageSize)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.NewPageResponse(items, total, page, pageSize))
}

// Delete godoc
// @Summary 删除反馈
// @Tags 反馈
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "反馈 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "反馈不存在"
// @Router /api/admin/feedback/{id} [delete]
func (c *FeedbackController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid feedback id")
		return
	}

	if err := c.FeedbackService.Delete(uint(id)); err != nil {
		if errors.Is(err, util.ErrFeedbackNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
