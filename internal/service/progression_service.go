package service

import (
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/repository"
	"heritage_edu_backend/pkg/logger"

	"go.uber.org/zap"
)

// ProgressionService 经验值、等级与成就。所有进度都挂在用户名上，
// 游客无需注册也能积累。
type ProgressionService struct {
	ProfileRepo     *repository.ProfileRepository
	AchievementRepo *repository.AchievementRepository
	QuizRepo        *repository.QuizRepository
	BattleRepo      *repository.BattleRepository
}

func NewProgressionService(
	profileRepo *repository.ProfileRepository,
	achievementRepo *repository.AchievementRepository,
	quizRepo *repository.QuizRepository,
	battleRepo *repository.BattleRepository,
) *ProgressionService {
	return &ProgressionService{
		ProfileRepo:     profileRepo,
		AchievementRepo: achievementRepo,
		QuizRepo:        quizRepo,
		BattleRepo:      battleRepo,
	}
}

// ProfileView 档案接口返回的视图
type ProfileView struct {
	UserName           string  `json:"user_name"`
	TotalXP            int     `json:"total_xp"`
	Level              int     `json:"level"`
	CurrentLevelXP     int     `json:"current_level_xp"`
	XPForNextLevel     int     `json:"xp_for_next_level"`
	ProgressPercentage float64 `json:"progress_percentage"`
	Rank               int     `json:"rank"`
	DisplayName        string  `json:"display_name,omitempty"`
	Bio                string  `json:"bio,omitempty"`
	AvatarURL          string  `json:"avatar,omitempty"`
}

func (s *ProgressionService) GetProfile(userName string) (*ProfileView, error) {
	profile, err := s.ProfileRepo.GetOrCreate(userName)
	if err != nil {
		return nil, err
	}
	rank, err := s.ProfileRepo.RankOf(profile)
	if err != nil {
		rank = 0
	}
	return &ProfileView{
		UserName:           profile.UserName,
		TotalXP:            profile.TotalXP,
		Level:              profile.Level,
		CurrentLevelXP:     profile.CurrentLevelXP(),
		XPForNextLevel:     profile.XPForNextLevel(),
		ProgressPercentage: profile.XPProgressPercentage(),
		Rank:               rank,
		DisplayName:        profile.DisplayName,
		Bio:                profile.Bio,
		AvatarURL:          profile.AvatarURL,
	}, nil
}

// ProfileUpdate 档案可编辑字段，空指针表示不修改
type ProfileUpdate struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar"`
}

func (s *ProgressionService) UpdateProfile(userName string, update ProfileUpdate) (*ProfileView, error) {
	profile, err := s.ProfileRepo.GetOrCreate(userName)
	if err != nil {
		return nil, err
	}

	if update.DisplayName != nil {
		profile.DisplayName = *update.DisplayName
	}
	if update.Bio != nil {
		profile.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		profile.AvatarURL = *update.AvatarURL
	}

	if err := s.ProfileRepo.Update(profile); err != nil {
		return nil, err
	}
	return s.GetProfile(userName)
}

// GrantXP 加经验并连带评估成就。成就本身也奖励 XP，可能触发
// 连锁解锁，循环到不再有新成就为止。返回本次新解锁的成就。
func (s *ProgressionService) GrantXP(userName string, amount int) (*model.UserProfile, []model.Achievement, error) {
	profile, err := s.ProfileRepo.GetOrCreate(userName)
	if err != nil {
		return nil, nil, err
	}

	if amount > 0 {
		profile.AddXP(amount)
		if err := s.ProfileRepo.Update(profile); err != nil {
			return nil, nil, err
		}
	}

	unlocked, err := s.EvaluateAchievements(profile)
	if err != nil {
		// 成就评估失败不回滚 XP
		logger.Log.Warn("achievement evaluation failed",
			zap.String("user", userName), zap.Error(err))
		return profile, nil, nil
	}
	return profile, unlocked, nil
}

// achievementStats 单个用户一次性取齐的统计量
type achievementStats struct {
	totalAttempts int64
	level         int
	fastestTime   *int
	perfectBattle bool
	battleWins    int64
	uniqueSites   int64
	earlyMorning  bool
}

func (s *ProgressionService) collectStats(profile *model.UserProfile) (*achievementStats, error) {
	stats := &achievementStats{level: profile.Level}

	var err error
	if stats.totalAttempts, err = s.QuizRepo.CountAttempts(profile.UserName); err != nil {
		return nil, err
	}
	if stats.fastestTime, err = s.QuizRepo.FastestCorrectTime(profile.UserName); err != nil {
		return nil, err
	}
	if stats.uniqueSites, err = s.QuizRepo.CountDistinctSitesAttempted(profile.UserName); err != nil {
		return nil, err
	}
	if stats.earlyMorning, err = s.QuizRepo.HasEarlyMorningAttempt(profile.UserName); err != nil {
		return nil, err
	}
	if stats.battleWins, err = s.BattleRepo.CountBattleWins(profile.UserName); err != nil {
		return nil, err
	}
	if stats.perfectBattle, err = s.BattleRepo.HasPerfectBattle(profile.UserName); err != nil {
		return nil, err
	}
	return stats, nil
}

// meetsRequirement 逐条判断解锁条件，目录里每条成就只设置一两个字段
func meetsRequirement(req model.AchievementRequirement, stats *achievementStats) bool {
	if req.TotalQuizzes > 0 && stats.totalAttempts < int64(req.TotalQuizzes) {
		return false
	}
	if req.Level > 0 && stats.level < req.Level {
		return false
	}
	if req.FastestTime > 0 {
		if stats.fastestTime == nil || *stats.fastestTime > req.FastestTime {
			return false
		}
	}
	if req.PerfectBattle && !stats.perfectBattle {
		return false
	}
	if req.BattleWins > 0 && stats.battleWins < int64(req.BattleWins) {
		return false
	}
	if req.UniqueSites > 0 && stats.uniqueSites < int64(req.UniqueSites) {
		return false
	}
	if req.EarlyMorningQuiz && !stats.earlyMorning {
		return false
	}
	return true
}

// EvaluateAchievements 扫描未解锁成就，满足条件就解锁并发奖励 XP。
// 奖励可能把等级推过新的门槛，因此循环直到一轮没有新解锁。
func (s *ProgressionService) EvaluateAchievements(profile *model.UserProfile) ([]model.Achievement, error) {
	catalog, err := s.AchievementRepo.FindAll()
	if err != nil {
		return nil, err
	}
	unlockedSet, err := s.AchievementRepo.FindUnlocked(profile.ID)
	if err != nil {
		return nil, err
	}

	var newlyUnlocked []model.Achievement
	for {
		stats, err := s.collectStats(profile)
		if err != nil {
			return newlyUnlocked, err
		}

		progressed := false
		for i := range catalog {
			a := catalog[i]
			if unlockedSet[a.ID] {
				continue
			}
			if !meetsRequirement(a.ParsedRequirement(), stats) {
				continue
			}

			if err := s.AchievementRepo.Unlock(profile.ID, a.ID); err != nil {
				// 并发下唯一索引可能撞车，当作已解锁跳过
				unlockedSet[a.ID] = true
				continue
			}
			unlockedSet[a.ID] = true
			newlyUnlocked = append(newlyUnlocked, a)

			if a.XPReward > 0 {
				profile.AddXP(a.XPReward)
				if err := s.ProfileRepo.Update(profile); err != nil {
					return newlyUnlocked, err
				}
			}
			progressed = true
		}

		if !progressed {
			break
		}
	}
	return newlyUnlocked, nil
}

// AchievementView 成就目录视图，附带当前用户的解锁状态
type AchievementView struct {
	model.Achievement
	Unlocked   bool   `json:"unlocked"`
	UnlockedAt string `json:"unlocked_at,omitempty"`
}

func (s *ProgressionService) ListAchievements(userName string) ([]AchievementView, error) {
	catalog, err := s.AchievementRepo.FindAll()
	if err != nil {
		return nil, err
	}

	views := make([]AchievementView, 0, len(catalog))
	var unlocked map[uint]bool
	unlockedAt := map[uint]string{}

	if userName != "" {
		profile, err := s.ProfileRepo.GetOrCreate(userName)
		if err != nil {
			return nil, err
		}
		if unlocked, err = s.AchievementRepo.FindUnlocked(profile.ID); err != nil {
			return nil, err
		}
		rows, err := s.AchievementRepo.FindUserAchievements(profile.ID)
		if err == nil {
			for _, row := range rows {
				unlockedAt[row.AchievementID] = row.UnlockedAt.Format("2006-01-02T15:04:05Z07:00")
			}
		}
	}

	for i := range catalog {
		view := AchievementView{Achievement: catalog[i]}
		if unlocked != nil && unlocked[catalog[i].ID] {
			view.Unlocked = true
			view.UnlockedAt = unlockedAt[catalog[i].ID]
		}
		views = append(views, view)
	}
	return views, nil
}

// LeaderboardEntry 总榜单条目
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserName string `json:"user_name"`
	TotalXP  int    `json:"total_xp"`
	Level    int    `json:"level"`
}

func (s *ProgressionService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	profiles, err := s.ProfileRepo.Leaderboard(limit)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			UserName: p.UserName,
			TotalXP:  p.TotalXP,
			Level:    p.Level,
		})
	}
	return entries, nil
}
