package controller

import (
	"errors"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/service"
	"heritage_edu_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CommentController struct {
	CommentService *service.CommentService
}

func NewCommentController(commentService *service.CommentService) *CommentController {
	return &CommentController{CommentService: commentService}
}

// List godoc
// @Summary 留言列表
// @Tags 留言
// @Produce  json
// @Param   site query int false "按地点筛选"
// @Param   user_name query string false "按用户名筛选"
// @Param   date_from query string false "起始日期 2006-01-02"
// @Param   date_to query string false "截止日期 2006-01-02"
// @Param   page query int false "页码"
// @Param   page_size query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/comments [get]
func (c *CommentController) List(ctx *gin.Context) {
	siteID, _ := strconv.ParseUint(ctx.Query("site"), 10, 32)
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	comments, total, err := c.CommentService.List(service.ListInput{
		SiteRefID: uint(siteID),
		UserName:  ctx.Query("user_name"),
		DateFrom:  ctx.Query("date_from"),
		DateTo:    ctx.Query("date_to"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.NewPageResponse(comments, total, page, pageSize))
}

// Create godoc
// @Summary 发表留言
// @Description 同名用户 2 分钟内只能发一条，最多带 3 张图
// @Tags 留言
// @Accept  json
// @Produce  json
// @Param   body body service.CommentInput true "留言内容"
// @Success 201 {object} util.Response{data=model.Comment}
// @Failure 404 {object} util.Response "地点不存在"
// @Failure 429 {object} util.Response "发言过于频繁"
// @Router /api/comments [post]
func (c *CommentController) Create(ctx *gin.Context) {
	var in service.CommentInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, err := c.CommentService.Create(ctx.Request.Context(), in, util.GetUserFromContext(ctx))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRateLimited):
			util.TooManyRequests(ctx, "please wait before posting another comment")
		case errors.Is(err, util.ErrTooManyImages):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrSiteNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, comment)
}

// ReportRequest 举报请求
// swagger:model ReportRequest
type ReportRequest struct {
	UserName string `json:"user_name" binding:"required"`
}

// Report godoc
// @Summary 举报留言
// @Description 同名用户对同一留言只计一次
// @Tags 留言
// @Accept  json
// @Produce  json
// @Param   id path int true "留言 ID"
// @Param   body body ReportRequest true "举报人"
// @Success 200 {object} util.Response{data=model.Comment}
// @Failure 400 {object} util.Response "已举报过"
// @Router /api/comments/{id}/report [post]
func (c *CommentController) Report(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid comment id")
		return
	}

	var req ReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, err := c.CommentService.Report(uint(id), req.UserName)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAlreadyReported):
			util.ErrorData(ctx, 400, err.Error(), comment)
		case errors.Is(err, util.ErrCommentNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, comment)
}

// DeleteRequest 删除留言请求，游客按用户名认领
// swagger:model DeleteCommentRequest
type DeleteRequest struct {
	UserName string `json:"user_name"`
}

// Delete godoc
// @Summary 删除留言
// @Description 本人按用户名可删，教师及以上可删任意留言
// @Tags 留言
// @Accept  json
// @Produce  json
// @Param   id path int true "留言 ID"
// @Param   body body DeleteRequest false "申请人用户名"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "权限不足"
// @Router /api/comments/{id} [delete]
func (c *CommentController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid comment id")
		return
	}

	var req DeleteRequest
	_ = ctx.ShouldBindJSON(&req)

	var role model.UserRole
	requesterName := req.UserName
	if claims := util.GetUserFromContext(ctx); claims != nil {
		role = claims.Role
		if requesterName == "" {
			requesterName = claims.Username
		}
	}

	if err := c.CommentService.Delete(uint(id), requesterName, role); err != nil {
		switch {
		case errors.Is(err, util.ErrCommentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// ListReported godoc
// @Summary 被举报留言队列
// @Tags 留言
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   page_size query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/comments/reported [get]
func (c *CommentController) ListReported(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	comments, total, err := c.CommentService.ListReported(page, pageSize)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.NewPageResponse(comments, total, page, pageSize))
}
