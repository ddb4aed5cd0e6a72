package models

import (
	"time"

	"gorm.io/gorm"
)

type Result struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	CandidateID       uint           `json:"candidate_id" gorm:"not null;index"`
	ExamID            uint           `json:"exam_id" gorm:"not null;index"`
	Score             float64        `json:"score" gorm:"not null;default:0"` // percent, 0-100
	Passed            bool           `json:"passed" gorm:"not null;default:false"`
	TotalPoints       int            `json:"total_points" gorm:"not null;default:0"`
	EarnedPoints      int            `json:"earned_points" gorm:"not null;default:0"`
	Feedback          string         `json:"feedback"`
	PendingEvaluation bool           `json:"pending_evaluation" gorm:"not null;default:false"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Candidate Candidate `json:"candidate,omitempty"`
	Exam      Exam      `json:"exam,omitempty"`
	Answers   []Answer  `json:"answers,omitempty" gorm:"foreignKey:ResultID"`
}
