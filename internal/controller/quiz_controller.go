package controller

import (
	"errors"
	"heritage_edu_backend/internal/service"
	"heritage_edu_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// ListQuizzes godoc
// @Summary 题目列表
// @Tags 答题
// @Produce  json
// @Param   site query int false "按地点筛选"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	siteID, _ := strconv.ParseUint(ctx.Query("site"), 10, 32)
	quizzes, err := c.QuizService.ListQuizzes(uint(siteID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// GetQuiz godoc
// @Summary 题目详情
// @Tags 答题
// @Produce  json
// @Param   id path int true "题目 ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	quiz, err := c.QuizService.GetQuiz(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, quiz)
}

// CreateQuiz godoc
// @Summary 创建题目
// @Tags 答题
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.QuizInput true "题目信息"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/admin/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var in service.QuizInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(in)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidAnswer):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrSiteNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, quiz)
}

// UpdateQuiz godoc
// @Summary 更新题目
// @Tags 答题
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目 ID"
// @Param   body body service.QuizInput true "题目信息"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/admin/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	var in service.QuizInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(uint(id), in)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidAnswer):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除题目
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目 ID"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	if err := c.QuizService.DeleteQuiz(uint(id)); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// SubmitAnswerRequest 提交答案请求
// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	UserName  string `json:"user_name" binding:"required"`
	Answer    string `json:"answer" binding:"required"`
	StartedAt string `json:"started_at"`
}

// SubmitAnswer godoc
// @Summary 提交答案
// @Description 一题一人只记一次，重复提交返回已有记录。答对得 XP 并可能解锁成就
// @Tags 答题
// @Accept  json
// @Produce  json
// @Param   id path int true "题目 ID"
// @Param   body body SubmitAnswerRequest true "答案"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response "已作答或答案非法"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) SubmitAnswer(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitAnswer(uint(id), req.UserName, req.Answer, req.StartedAt)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAlreadyAttempted):
			// 重复作答仍把已有记录带回去
			util.ErrorData(ctx, 400, err.Error(), result)
		case errors.Is(err, util.ErrInvalidAnswer):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// CheckAttemptsRequest 批量查询作答情况请求
// swagger:model CheckAttemptsRequest
type CheckAttemptsRequest struct {
	UserName string `json:"user_name" binding:"required"`
	QuizIDs  []uint `json:"quiz_ids" binding:"required"`
}

// CheckAttempts godoc
// @Summary 批量查询作答情况
// @Tags 答题
// @Accept  json
// @Produce  json
// @Param   body body CheckAttemptsRequest true "用户名与题目 ID 列表"
// @Success 200 {object} util.Response{data=object}
// @Router /api/quizzes/check-attempts [post]
func (c *QuizController) CheckAttempts(ctx *gin.Context) {
	var req CheckAttemptsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempts, err := c.QuizService.CheckAttempts(req.UserName, req.QuizIDs)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"attempts": attempts})
}

// UserAttempts godoc
// @Summary 用户作答历史
// @Tags 答题
// @Produce  json
// @Param   user_name query string true "用户名"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/quizzes/attempts [get]
func (c *QuizController) UserAttempts(ctx *gin.Context) {
	userName := ctx.Query("user_name")
	if userName == "" {
		util.BadRequest(ctx, "user_name is required")
		return
	}

	attempts, err := c.QuizService.UserAttempts(userName)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// AttemptLeaderboard godoc
// @Summary 答题排行榜
// @Description 按作答累计 XP 排序
// @Tags 答题
// @Produce  json
// @Param   limit query int false "条数上限"
// @Param   site query int false "按地点筛选"
// @Success 200 {object} util.Response{data=[]repository.AttemptXPRow}
// @Router /api/quizzes/leaderboard [get]
func (c *QuizController) AttemptLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	siteID, _ := strconv.ParseUint(ctx.Query("site"), 10, 32)
	rows, err := c.QuizService.AttemptLeaderboard(uint(siteID), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
