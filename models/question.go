package models

import (
	"time"

	"gorm.io/gorm"
)

// Question types supported by the exam engine. Choice types carry options;
// open_ended answers are free text and graded manually.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeSingleChoice   = "single_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeOpenEnded      = "open_ended"
)

type Question struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	ExamID       uint           `json:"exam_id" gorm:"not null;index"`
	Text         string         `json:"text" gorm:"not null"`
	QuestionType string         `json:"question_type" gorm:"not null"`
	Points       int            `json:"points" gorm:"not null;default:1"`
	Explanation  string         `json:"explanation"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Exam    Exam     `json:"exam,omitempty"`
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

// IsChoiceType reports whether the question stores its answers as options.
func IsChoiceType(questionType string) bool {
	switch questionType {
	case QuestionTypeMultipleChoice, QuestionTypeSingleChoice, QuestionTypeTrueFalse:
		return true
	}
	return false
}

// ValidQuestionType reports whether questionType is one of the supported types.
func ValidQuestionType(questionType string) bool {
	return IsChoiceType(questionType) || questionType == QuestionTypeOpenEnded
}
