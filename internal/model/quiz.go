package model

type QuestionType string

const (
	QuestionMCQ       QuestionType = "mcq"
	QuestionTrueFalse QuestionType = "truefalse"
	QuestionShort     QuestionType = "short"
)

// Question is one quiz question; the list is persisted as a json column.
type Question struct {
	Type           QuestionType `json:"type"`
	Prompt         string       `json:"prompt"`
	Options        []string     `json:"options,omitempty"`
	CorrectAnswers []string     `json:"correctAnswers"`
	Explanation    string       `json:"explanation,omitempty"`
}

// swagger:model Quiz
type Quiz struct {
	BaseModel
	LessonID      uint         `gorm:"index;not null" json:"lessonId"`
	Title         string       `gorm:"size:255;not null" json:"title"`
	Questions     QuestionList `gorm:"type:json" json:"questions"`
	TimeLimitSec  int          `gorm:"default:0" json:"timeLimitSec"`
	GeneratedByAI bool         `gorm:"default:false" json:"generatedByAI"`
	Version       int          `gorm:"default:1" json:"version"`
	IsActive      bool         `gorm:"default:true" json:"isActive"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
