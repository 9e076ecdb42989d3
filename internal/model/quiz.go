package model

import (
	"time"
)

// AnswerOptions 合法的选项字母
var AnswerOptions = []string{"A", "B", "C", "D"}

func IsValidAnswer(a string) bool {
	for _, v := range AnswerOptions {
		if v == a {
			return true
		}
	}
	return false
}

// swagger:model Quiz
type Quiz struct {
	BaseModel
	SiteRefID     uint   `gorm:"column:site_ref_id;index;not null" json:"site"`
	Site          *Site  `gorm:"foreignKey:SiteRefID" json:"-"`
	Question      string `gorm:"type:text;not null" json:"question"`
	OptionA       string `gorm:"size:255;not null" json:"option_a"`
	OptionB       string `gorm:"size:255;not null" json:"option_b"`
	OptionC       string `gorm:"size:255;not null" json:"option_c"`
	OptionD       string `gorm:"size:255;not null" json:"option_d"`
	CorrectAnswer string `gorm:"size:1;not null" json:"correct_answer"`
	XPReward      int    `gorm:"default:10" json:"xp_reward"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizAttempt 每个 (quiz, user_name) 只允许一条记录
type QuizAttempt struct {
	BaseModel
	QuizID     uint       `gorm:"index:idx_quiz_user,unique;not null" json:"quiz"`
	Quiz       *Quiz      `gorm:"foreignKey:QuizID" json:"-"`
	UserName   string     `gorm:"size:200;index:idx_quiz_user,unique" json:"user_name"`
	UserAnswer string     `gorm:"size:1;not null" json:"user_answer"`
	IsCorrect  bool       `json:"is_correct"`
	XPEarned   int        `gorm:"default:0" json:"xp_earned"`
	StartedAt  *time.Time `json:"started_at"`
	// TimeTaken 答题耗时（秒），起始时间缺失或无法解析时为 0
	TimeTaken int `gorm:"default:0" json:"time_taken"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
