package service

import (
	"encoding/json"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/repository"
	"heritage_edu_backend/internal/util"
	"heritage_edu_backend/pkg/logger"
	"heritage_edu_backend/pkg/monitoring"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	// DefaultBattleQuestions 未指定题数时的默认值
	DefaultBattleQuestions = 5
	// RandomBattleSize 随机匹配的对战人数
	RandomBattleSize = 4
	// RandomBattlePoolSize 从答题榜前多少名里抽人
	RandomBattlePoolSize = 20
)

// BattleService 多人答题对战。状态随墙钟单向推进：列表/详情读取时
// 惰性落库，后台任务兜底推进无人访问的对战。
type BattleService struct {
	BattleRepo  *repository.BattleRepository
	QuizRepo    *repository.QuizRepository
	UserRepo    *repository.UserRepository
	Progression *ProgressionService
}

func NewBattleService(
	battleRepo *repository.BattleRepository,
	quizRepo *repository.QuizRepository,
	userRepo *repository.UserRepository,
	progression *ProgressionService,
) *BattleService {
	return &BattleService{
		BattleRepo:  battleRepo,
		QuizRepo:    quizRepo,
		UserRepo:    userRepo,
		Progression: progression,
	}
}

// CreateBattleInput 手动建战入参
type CreateBattleInput struct {
	Participants       []string  `json:"participants" binding:"required"`
	ScheduledStartTime time.Time `json:"scheduled_start_time" binding:"required"`
	DurationMinutes    int       `json:"duration_minutes"`
	QuestionCount      int       `json:"question_count"`
}

// CreateBattle 点名建战：2-8 个已注册用户名，随机抽题
func (s *BattleService) CreateBattle(in CreateBattleInput) (*model.QuizBattle, error) {
	names := dedupeNames(in.Participants)
	if len(names) < model.MinBattleParticipants || len(names) > model.MaxBattleParticipants {
		return nil, util.ErrNotEnoughPlayers
	}

	for _, name := range names {
		if _, err := s.UserRepo.FindByUsername(name); err != nil {
			return nil, util.ErrUserNotFound
		}
	}

	count := in.QuestionCount
	if count <= 0 {
		count = DefaultBattleQuestions
	}
	quizzes, err := s.QuizRepo.FindRandom(count)
	if err != nil {
		return nil, err
	}
	if len(quizzes) < count {
		return nil, util.ErrNotEnoughQuizzes
	}

	duration := in.DurationMinutes
	if duration <= 0 {
		duration = 10
	}

	return s.createBattle(names, quizzes, in.ScheduledStartTime, duration)
}

// CreateRandomBattle 从答题榜前 20 名里随机抽 4 人，5 分钟后开战
func (s *BattleService) CreateRandomBattle() (*model.QuizBattle, error) {
	rows, err := s.QuizRepo.AttemptLeaderboard(0, RandomBattlePoolSize)
	if err != nil {
		return nil, err
	}
	if len(rows) < RandomBattleSize {
		return nil, util.ErrNotEnoughPlayers
	}

	rand.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	names := make([]string, 0, RandomBattleSize)
	for _, row := range rows[:RandomBattleSize] {
		names = append(names, row.UserName)
	}

	quizzes, err := s.QuizRepo.FindRandom(DefaultBattleQuestions)
	if err != nil {
		return nil, err
	}
	if len(quizzes) < DefaultBattleQuestions {
		return nil, util.ErrNotEnoughQuizzes
	}

	return s.createBattle(names, quizzes, time.Now().Add(5*time.Minute), 10)
}

func (s *BattleService) createBattle(names []string, quizzes []model.Quiz, start time.Time, duration int) (*model.QuizBattle, error) {
	quizIDs := make([]uint, 0, len(quizzes))
	for _, q := range quizzes {
		quizIDs = append(quizIDs, q.ID)
	}

	questionsJSON, err := json.Marshal(quizIDs)
	if err != nil {
		return nil, err
	}
	participantsJSON, err := json.Marshal(names)
	if err != nil {
		return nil, err
	}

	battle := &model.QuizBattle{
		ScheduledStartTime: start,
		DurationMinutes:    duration,
		Status:             model.BattlePending,
		Questions:          datatypes.JSON(questionsJSON),
		Participants:       datatypes.JSON(participantsJSON),
	}
	if err := s.BattleRepo.Create(battle); err != nil {
		return nil, err
	}

	for _, name := range names {
		p := &model.QuizBattleParticipant{
			BattleID: battle.ID,
			UserName: name,
			Answers:  datatypes.JSON([]byte("{}")),
		}
		if err := s.BattleRepo.CreateParticipant(p); err != nil {
			logger.Log.Warn("create battle participant failed",
				zap.Uint("battle_id", battle.ID),
				zap.String("user", name),
				zap.Error(err))
		}
	}
	return battle, nil
}

func dedupeNames(names []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// reconcile 按墙钟推进单个对战的状态，发生变更时落库并计数
func (s *BattleService) reconcile(battle *model.QuizBattle, trigger string) {
	effective := battle.EffectiveStatus(time.Now())
	if effective == battle.Status {
		return
	}

	old := battle.Status
	battle.Status = effective
	if err := s.BattleRepo.Update(battle); err != nil {
		battle.Status = old
		logger.Log.Warn("battle status update failed",
			zap.Uint("battle_id", battle.ID), zap.Error(err))
		return
	}
	monitoring.BattleTransitions.WithLabelValues(string(effective), trigger).Inc()

	if effective == model.BattleCompleted {
		s.finalize(battle)
	}
}

// finalize 结算：重算名次并评估所有参与者的对战类成就
func (s *BattleService) finalize(battle *model.QuizBattle) {
	if err := s.RecomputeRanks(battle.ID); err != nil {
		logger.Log.Warn("battle rank recompute failed",
			zap.Uint("battle_id", battle.ID), zap.Error(err))
	}
	for _, name := range battle.ParticipantNames() {
		if _, _, err := s.Progression.GrantXP(name, 0); err != nil {
			logger.Log.Warn("battle achievement evaluation failed",
				zap.Uint("battle_id", battle.ID),
				zap.String("user", name),
				zap.Error(err))
		}
	}
}

func (s *BattleService) ListBattles(status model.BattleStatus) ([]model.QuizBattle, error) {
	var battles []model.QuizBattle
	var err error
	if status != "" {
		battles, err = s.BattleRepo.FindByStatus(status)
	} else {
		battles, err = s.BattleRepo.FindAll()
	}
	if err != nil {
		return nil, err
	}
	for i := range battles {
		s.reconcile(&battles[i], "list")
	}
	return battles, nil
}

func (s *BattleService) GetBattle(id uint) (*model.QuizBattle, error) {
	battle, err := s.BattleRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.reconcile(battle, "get")
	return battle, nil
}

// StartBattle 提前手动开战，只允许从 pending 出发
func (s *BattleService) StartBattle(id uint) (*model.QuizBattle, error) {
	battle, err := s.BattleRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.reconcile(battle, "start")
	if battle.Status != model.BattlePending {
		return nil, util.ErrBattleWrongStatus
	}

	battle.Status = model.BattleInProgress
	battle.ScheduledStartTime = time.Now()
	if err := s.BattleRepo.Update(battle); err != nil {
		return nil, err
	}
	monitoring.BattleTransitions.WithLabelValues(string(model.BattleInProgress), "manual").Inc()
	return battle, nil
}

// EndBattle 提前手动结束并结算
func (s *BattleService) EndBattle(id uint) (*model.QuizBattle, error) {
	battle, err := s.BattleRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.reconcile(battle, "end")
	if battle.Status != model.BattleInProgress {
		return nil, util.ErrBattleWrongStatus
	}

	battle.Status = model.BattleCompleted
	if err := s.BattleRepo.Update(battle); err != nil {
		return nil, err
	}
	monitoring.BattleTransitions.WithLabelValues(string(model.BattleCompleted), "manual").Inc()
	s.finalize(battle)
	return battle, nil
}

// CancelBattle 只能取消未开始的对战
func (s *BattleService) CancelBattle(id uint) (*model.QuizBattle, error) {
	battle, err := s.BattleRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.reconcile(battle, "cancel")
	if battle.Status != model.BattlePending {
		return nil, util.ErrBattleWrongStatus
	}

	battle.Status = model.BattleCancelled
	if err := s.BattleRepo.Update(battle); err != nil {
		return nil, err
	}
	monitoring.BattleTransitions.WithLabelValues(string(model.BattleCancelled), "manual").Inc()
	return battle, nil
}

// BattleAnswerResult 对战答题结果
type BattleAnswerResult struct {
	Correct       bool `json:"correct"`
	ScoreAwarded  int  `json:"score_awarded"`
	TotalScore    int  `json:"total_score"`
	AnsweredCount int  `json:"answered_count"`
	QuestionCount int  `json:"question_count"`
	Finished      bool `json:"finished"`
}

// SubmitBattleAnswer 对战中答题。得分记在对战内，不进个人档案；
// 同一题重复提交以先落库的为准。答满全部题目即完赛。
func (s *BattleService) SubmitBattleAnswer(battleID uint, userName string, quizID uint, answer string, timeTaken int) (*BattleAnswerResult, error) {
	if !model.IsValidAnswer(answer) {
		return nil, util.ErrInvalidAnswer
	}

	battle, err := s.BattleRepo.FindByID(battleID)
	if err != nil {
		return nil, err
	}
	s.reconcile(battle, "answer")
	if battle.Status != model.BattleInProgress {
		return nil, util.ErrBattleWrongStatus
	}
	if !battle.HasQuestion(quizID) {
		return nil, util.ErrQuestionNotInBattle
	}

	participant, err := s.BattleRepo.FindParticipant(battleID, userName)
	if err != nil {
		return nil, err
	}

	key := strconv.FormatUint(uint64(quizID), 10)
	answers := participant.AnswerMap()
	if _, dup := answers[key]; dup {
		return nil, util.ErrAlreadyAnswered
	}

	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	correct := answer == quiz.CorrectAnswer
	if timeTaken < 0 {
		timeTaken = 0
	}
	answers[key] = model.ParticipantAnswer{
		Answer:    answer,
		IsCorrect: correct,
		TimeTaken: timeTaken,
	}
	if err := participant.SetAnswerMap(answers); err != nil {
		return nil, err
	}

	awarded := 0
	if correct {
		awarded = quiz.XPReward
		participant.Score += awarded
		participant.CorrectAnswers++
	}

	questionCount := len(battle.QuestionIDs())
	finished := len(answers) >= questionCount
	if finished && participant.FinishedAt == nil {
		now := time.Now()
		participant.FinishedAt = &now
		total := 0
		for _, a := range answers {
			total += a.TimeTaken
		}
		participant.TimeCompleted = &total
	}

	ok, err := s.BattleRepo.UpdateParticipantAnswers(participant, len(answers)-1)
	if err != nil {
		return nil, err
	}
	if !ok {
		// 并发提交同一题，先落库的一方生效
		return nil, util.ErrAlreadyAnswered
	}

	if err := s.RecomputeRanks(battleID); err != nil {
		logger.Log.Warn("battle rank recompute failed",
			zap.Uint("battle_id", battleID), zap.Error(err))
	}

	return &BattleAnswerResult{
		Correct:       correct,
		ScoreAwarded:  awarded,
		TotalScore:    participant.Score,
		AnsweredCount: len(answers),
		QuestionCount: questionCount,
		Finished:      finished,
	}, nil
}

// RecomputeRanks 全量重排名次：得分降序，完赛用时升序
func (s *BattleService) RecomputeRanks(battleID uint) error {
	participants, err := s.BattleRepo.FindParticipants(battleID)
	if err != nil {
		return err
	}
	for i := range participants {
		rank := i + 1
		if participants[i].Rank == nil || *participants[i].Rank != rank {
			participants[i].Rank = &rank
			if err := s.BattleRepo.UpdateParticipant(&participants[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// BattleStanding 榜单条目
type BattleStanding struct {
	Rank           int    `json:"rank"`
	UserName       string `json:"user_name"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correct_answers"`
	TotalAnswered  int    `json:"total_answered"`
	TimeCompleted  *int   `json:"time_completed"`
	Finished       bool   `json:"finished"`
}

// Standings 实时榜单，按当前名次排列
func (s *BattleService) Standings(battleID uint) ([]BattleStanding, error) {
	if _, err := s.GetBattle(battleID); err != nil {
		return nil, err
	}
	participants, err := s.BattleRepo.FindParticipants(battleID)
	if err != nil {
		return nil, err
	}

	standings := make([]BattleStanding, 0, len(participants))
	for i, p := range participants {
		standings = append(standings, BattleStanding{
			Rank:           i + 1,
			UserName:       p.UserName,
			Score:          p.Score,
			CorrectAnswers: p.CorrectAnswers,
			TotalAnswered:  p.TotalAnswered,
			TimeCompleted:  p.TimeCompleted,
			Finished:       p.FinishedAt != nil,
		})
	}
	return standings, nil
}

// BattleProgress 单个参与者的作答进度
type BattleProgress struct {
	UserName      string            `json:"user_name"`
	Score         int               `json:"score"`
	AnsweredIDs   []uint            `json:"answered_question_ids"`
	RemainingIDs  []uint            `json:"remaining_question_ids"`
	QuestionCount int               `json:"question_count"`
	Finished      bool              `json:"finished"`
	Rank          *int              `json:"rank"`
	Battle        *model.QuizBattle `json:"battle"`
}

// MyProgress 当前用户在对战中的进度
func (s *BattleService) MyProgress(battleID uint, userName string) (*BattleProgress, error) {
	battle, err := s.GetBattle(battleID)
	if err != nil {
		return nil, err
	}
	participant, err := s.BattleRepo.FindParticipant(battleID, userName)
	if err != nil {
		return nil, err
	}

	answers := participant.AnswerMap()
	answered := make([]uint, 0, len(answers))
	remaining := make([]uint, 0)
	for _, id := range battle.QuestionIDs() {
		key := strconv.FormatUint(uint64(id), 10)
		if _, ok := answers[key]; ok {
			answered = append(answered, id)
		} else {
			remaining = append(remaining, id)
		}
	}

	return &BattleProgress{
		UserName:      userName,
		Score:         participant.Score,
		AnsweredIDs:   answered,
		RemainingIDs:  remaining,
		QuestionCount: len(battle.QuestionIDs()),
		Finished:      participant.FinishedAt != nil,
		Rank:          participant.Rank,
		Battle:        battle,
	}, nil
}

// BattleQuestions 对战题目（进行中才可见，且不含正确答案）
func (s *BattleService) BattleQuestions(battleID uint, userName string) ([]model.Quiz, error) {
	battle, err := s.GetBattle(battleID)
	if err != nil {
		return nil, err
	}
	if battle.Status != model.BattleInProgress {
		return nil, util.ErrBattleWrongStatus
	}
	if !battle.HasParticipant(userName) {
		return nil, util.ErrNotBattleMember
	}

	quizzes, err := s.QuizRepo.FindByIDs(battle.QuestionIDs())
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		quizzes[i].CorrectAnswer = ""
	}
	return quizzes, nil
}

// MyBattles 用户参与过的对战
func (s *BattleService) MyBattles(userName string) ([]model.QuizBattle, error) {
	rows, err := s.BattleRepo.FindBattlesByUser(userName)
	if err != nil {
		return nil, err
	}
	battles := make([]model.QuizBattle, 0, len(rows))
	for _, row := range rows {
		battle, err := s.BattleRepo.FindByID(row.BattleID)
		if err != nil {
			continue
		}
		s.reconcile(battle, "list")
		battles = append(battles, *battle)
	}
	return battles, nil
}

// ReconcileStatuses 后台任务入口：推进所有到点的对战
func (s *BattleService) ReconcileStatuses() {
	battles, err := s.BattleRepo.FindActive()
	if err != nil {
		logger.Log.Warn("battle reconcile query failed", zap.Error(err))
		return
	}
	for i := range battles {
		s.reconcile(&battles[i], "ticker")
	}
}
