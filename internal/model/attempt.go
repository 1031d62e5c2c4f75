package model

import "time"

// AttemptAnswer is one answered question inside an attempt.
type AttemptAnswer struct {
	QIndex          int    `json:"qIndex"`
	SelectedOptions []int  `json:"selectedOptions,omitempty"`
	AnswerText      string `json:"answerText,omitempty"`
	Correct         bool   `json:"correct"`
}

// Attempt is a single user's run at a quiz. The composite unique index
// enforces the one-attempt-per-user rule at the storage layer.
// swagger:model Attempt
type Attempt struct {
	BaseModel
	QuizID       uint       `gorm:"uniqueIndex:idx_attempt_quiz_user;index;not null" json:"quizId"`
	UserID       uint       `gorm:"uniqueIndex:idx_attempt_quiz_user;index;not null" json:"userId"`
	Answers      AnswerList `gorm:"type:json" json:"answers"`
	Score        int        `gorm:"default:0" json:"score"`
	TimeTakenSec int        `gorm:"default:0" json:"timeTakenSec"`
	StartedAt    time.Time  `json:"startedAt"`
	SubmittedAt  *time.Time `json:"submittedAt"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// Submitted reports whether the attempt has left the in-progress state.
func (a *Attempt) Submitted() bool {
	return a.SubmittedAt != nil
}
