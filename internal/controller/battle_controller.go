package controller

import (
	"errors"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/service"
	"heritage_edu_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type BattleController struct {
	BattleService *service.BattleService
}

func NewBattleController(battleService *service.BattleService) *BattleController {
	return &BattleController{BattleService: battleService}
}

func battleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrBattleNotFound),
		errors.Is(err, util.ErrQuizNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrBattleWrongStatus),
		errors.Is(err, util.ErrInvalidAnswer),
		errors.Is(err, util.ErrAlreadyAnswered),
		errors.Is(err, util.ErrQuestionNotInBattle),
		errors.Is(err, util.ErrNotEnoughQuizzes),
		errors.Is(err, util.ErrNotEnoughPlayers),
		errors.Is(err, util.ErrUserNotFound):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrNotBattleMember):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// CreateBattle godoc
// @Summary 创建对战
// @Description 点名 2-8 个已注册用户，随机抽题
// @Tags 对战
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateBattleInput true "对战配置"
// @Success 201 {object} util.Response{data=model.QuizBattle}
// @Failure 400 {object} util.Response "人数或题库不足"
// @Router /api/battles [post]
func (c *BattleController) CreateBattle(ctx *gin.Context) {
	var in service.CreateBattleInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	battle, err := c.BattleService.CreateBattle(in)
	if err != nil {
		battleError(ctx, err)
		return
	}
	util.Created(ctx, battle)
}

// CreateRandomBattle godoc
// @Summary 随机匹配对战
// @Description 从答题榜前 20 名随机抽 4 人，5 分钟后开战
// @Tags 对战
// @Produce  json
// @Security BearerAuth
// @Success 201 {object} util.Response{data=model.QuizBattle}
// @Failure 400 {object} util.Response "可匹配玩家不足"
// @Router /api/battles/random [post]
func (c *BattleController) CreateRandomBattle(ctx *gin.Context) {
	battle, err := c.BattleService.CreateRandomBattle()
	if err != nil {
		battleError(ctx, err)
		return
	}
	util.Created(ctx, battle)
}

// ListBattles godoc
// @Summary 对战列表
// @Description 返回前按墙钟推进各对战状态
// @Tags 对战
// @Produce  json
// @Param   status query string false "pending/in_progress/completed/cancelled"
// @Success 200 {object} util.Response{data=[]model.QuizBattle}
// @Router /api/battles [get]
func (c *BattleController) ListBattles(ctx *gin.Context) {
	battles, err := c.BattleService.ListBattles(model.BattleStatus(ctx.Query("status")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, battles)
}

// GetBattle godoc
// @Summary 对战详情
// @Tags 对战
// @Produce  json
// @Param   id path int true "对战 ID"
// @Success 200 {object} util.Response{data=model.QuizBattle}
// @Failure 404 {object} util.Response "对战不存在"
// @Router /api/battles/{id} [get]
func (c *BattleController) GetBattle(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid battle id")
		return
	}

	battle, err := c.BattleService.GetBattle(uint(id))
	if err != nil {
		battleError(ctx, err)
		return
	}
	util.Success(ctx, battle)
}

// StartBattle godoc
// @Summary 手动开战
// @Tags 对战
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "对战 ID"
// @Success 200 {object} util.Response{data=model.QuizBattle}
// @Failure 400 {object} util.Response "状态不允许"
// @Router /api/admin/battles/{id}/start [post]
func (c *BattleController) StartBattle(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid battle id")
		return
	}

	battle, err := c.BattleService.StartBattle(uint(id))
	if err != nil {
		battleError(ctx, err)
		return
	}
	util.Success(ctx, battle)
}

// EndBattle godoc
// @Summary 手动结束并结算
// @Tags 对战
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "对战 ID"
// @Success 200 {object} util.Response{data=model.QuizBattle}
// @Failure 400 {object} util.Response "状态不允许"
// @Router /api/admin/battles/{id}/end [post]
func (c *BattleController) EndBattle(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid battle id")
		return
	}

	battle, err := c.BattleService.EndBattle(uint(id))
	if err != nil {
		battleError(ctx, err)
		return
	}
	util.Success(ctx, battle)
}

// CancelBattle godoc
// @Summary 取消对战
// @Description 只能取消未开始的对战
// @Tags 对战
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "对战 ID"
// @Success 200 {object} util.Response{data=model.QuizBattle}
// @Router /api/admin/battles/{id}/cancel [post]
func (c *BattleController) CancelBattle(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid battle id")
		return
	}

	battle, err := c.BattleService.CancelBattle(uint(id))
	if err != nil {
		battleError(ctx, err)
		return
	}
	util.Success(ctx, battle)
}

// BattleAnswerRequest 对战答题请求
// swagger:model BattleAnswerRequest
type BattleAnswerRequest struct {
	UserName  string `json:"user_name" binding:"required"`
	QuizID    uint   `json:"quiz_id" binding:"required"`
	Answer    string `json:"answer" binding:"required"`
	TimeTaken int    `json:"time_taken"`
}

// SubmitAnswer godoc
// @Summary 对战答题
// @Description 仅进行中可答，同题重复提交被拒。得分只记在对战内
// @Tags 对战
// @Accept  json
// @Produce  json
// @Param   id path int true "对战 ID"
// @Param   body body BattleAnswerRequest true "答案"
// @Success 200 {object} util.Response{data=service.BattleAnswerResult}
// @Failure 400 {object} util.Response "状态不允许或已作答"
// @Failure 403 {object} util.Response "不是参与者"
// @Router /api/battles/{id}/answer [post]
func (c *BattleController) SubmitAnswer(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid battle id")
		return
	}

	var req BattleAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.BattleService.SubmitBattleAnswer(uint(id), req.UserName, req.QuizID, req.Answer, req.TimeTaken)
	if err != nil {
		battleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Standings godoc
// @Summary 实时榜单
// @Tags 对战
// @Produce  json
// @Param   id path int true "对战 ID"
// @Success 200 {object} util.Response{data=[]service.BattleStanding}
// @Router /api/battles/{id}/standings [get]
func (c *BattleController) Standings(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid battle id")
		return
	}

	standings, err := c.BattleService.Standings(uint(id))
	if err != nil {
		battleError(ctx, err)
		return
	}
	util.Success(ctx, standings)
}

// MyProgress godoc
// @Summary 我的对战进度
// @Tags 对战
// @Produce  json
// @Param   id path int true "对战 ID"
// @Param   user_name query string true "用户名"
// @Success 200 {object} util.Response{data=service.BattleProgress}
// @Failure 403 {object} util.Response "不是参与者"
// @Router /api/battles/{id}/progress [get]
func (c *BattleController) MyProgress(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid battle id")
		return
	}
	userName := ctx.Query("user_name")
	if userName == "" {
		util.BadRequest(ctx, "user_name is required")
		return
	}

	progress, err := c.BattleService.MyProgress(uint(id), userName)
	if err != nil {
		battleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// Questions godoc
// @Summary 对战题目
// @Description 仅进行中且限参与者，返回的题目不带正确答案
// @Tags 对战
// @Produce  json
// @Param   id path int true "对战 ID"
// @Param   user_name query string true "用户名"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Failure 400 {object} util.Response "对战未进行"
// @Router /api/battles/{id}/questions [get]
func (c *BattleController) Questions(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid battle id")
		return
	}
	userName := ctx.Query("user_name")
	if userName == "" {
		util.BadRequest(ctx, "user_name is required")
		return
	}

	quizzes, err := c.BattleService.BattleQuestions(uint(id), userName)
	if err != nil {
		battleError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// MyBattles godoc
// @Summary 我参与的对战
// @Tags 对战
// @Produce  json
// @Param   user_name query string true "用户名"
// @Success 200 {object} util.Response{data=[]model.QuizBattle}
// @Router /api/battles/mine [get]
func (c *BattleController) MyBattles(ctx *gin.Context) {
	userName := ctx.Query("user_name")
	if userName == "" {
		util.BadRequest(ctx, "user_name is required")
		return
	}

	battles, err := c.BattleService.MyBattles(userName)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, battles)
}
