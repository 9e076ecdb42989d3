package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrSiteNotFound        = errors.New("site not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrInvalidAnswer       = errors.New("answer must be one of A, B, C, D")
	ErrAlreadyAttempted    = errors.New("quiz already attempted")
	ErrBattleNotFound      = errors.New("battle not found")
	ErrBattleWrongStatus   = errors.New("battle is not in the required status")
	ErrNotBattleMember     = errors.New("user is not a participant of this battle")
	ErrQuestionNotInBattle = errors.New("quiz does not belong to this battle")
	ErrAlreadyAnswered     = errors.New("question already answered")
	ErrNotEnoughQuizzes    = errors.New("not enough quizzes for the requested question count")
	ErrNotEnoughPlayers    = errors.New("not enough eligible players")
	ErrFeedbackNotFound    = errors.New("feedback not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrAlreadyReported     = errors.New("you already reported this comment")
	ErrTooManyImages       = errors.New("a comment can carry at most 3 images")
	ErrRateLimited         = errors.New("rate limited")
	// ErrValidation 输入格式类错误的基错误，用 %w 包装具体信息
	ErrValidation = errors.New("validation failed")
)
