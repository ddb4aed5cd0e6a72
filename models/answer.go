package models

import (
	"time"

	"gorm.io/gorm"
)

type Answer struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	ResultID         uint           `json:"result_id" gorm:"not null;index"`
	QuestionID       uint           `json:"question_id" gorm:"not null"`
	SelectedOptionID *uint          `json:"selected_option_id"`
	TextResponse     string         `json:"text_response"`
	IsCorrect        bool           `json:"is_correct" gorm:"not null;default:false"`
	PointsAwarded    int            `json:"points_awarded" gorm:"not null;default:0"`
	Evaluated        bool           `json:"evaluated" gorm:"not null;default:false"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Result   Result   `json:"result,omitempty"`
	Question Question `json:"question,omitempty"`
}
