package models

import (
	"time"

	"gorm.io/gorm"
)

type Exam struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	Title              string         `json:"title" gorm:"not null"`
	Description        string         `json:"description"`
	DurationMinutes    int            `json:"duration_minutes" gorm:"not null"`
	PassingScore       int            `json:"passing_score" gorm:"not null"`
	IsActive           bool           `json:"is_active" gorm:"not null;default:true"`
	RandomizeQuestions bool           `json:"randomize_questions" gorm:"not null;default:false"`
	CreatedBy          uint           `json:"created_by" gorm:"not null"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Creator    User        `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Questions  []Question  `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
	Candidates []Candidate `json:"candidates,omitempty" gorm:"foreignKey:ExamID"`
}
