package models

import (
	"time"

	"gorm.io/gorm"
)

type Candidate struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Email           string         `json:"email" gorm:"uniqueIndex;not null"`
	Name            string         `json:"name" gorm:"not null"`
	ExamID          uint           `json:"exam_id" gorm:"not null;index"`
	ExamLink        string         `json:"exam_link" gorm:"uniqueIndex;not null"`
	IsTestCompleted bool           `json:"is_test_completed" gorm:"not null;default:false"`
	TestStartedAt   *time.Time     `json:"test_started_at"`
	TestCompletedAt *time.Time     `json:"test_completed_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Exam   Exam    `json:"exam,omitempty"`
	Result *Result `json:"result,omitempty" gorm:"foreignKey:CandidateID"`
}
