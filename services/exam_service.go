package services

import (
	"errors"
	"math/rand"

	"examlink/models"

	"gorm.io/gorm"
)

type ExamService struct {
	db *gorm.DB
}

func NewExamService(db *gorm.DB) *ExamService {
	return &ExamService{db: db}
}

type CreateExamRequest struct {
	Title              string `json:"title" binding:"required"`
	Description        string `json:"description"`
	DurationMinutes    int    `json:"duration_minutes" binding:"required,min=1"`
	PassingScore       int    `json:"passing_score" binding:"min=0,max=100"`
	IsActive           *bool  `json:"is_active"`
	RandomizeQuestions bool   `json:"randomize_questions"`
}

type UpdateExamRequest struct {
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	DurationMinutes    *int    `json:"duration_minutes"`
	PassingScore       *int    `json:"passing_score"`
	IsActive           *bool   `json:"is_active"`
	RandomizeQuestions *bool   `json:"randomize_questions"`
}

func (s *ExamService) ListExams(caller Caller) ([]models.Exam, error) {
	exams := []models.Exam{}
	query := s.db.Order("created_at DESC")
	if !caller.IsAdmin {
		query = query.Where("created_by = ?", caller.UserID)
	}
	err := query.Find(&exams).Error
	return exams, err
}

func (s *ExamService) CreateExam(caller Caller, req *CreateExamRequest) (*models.Exam, error) {
	exam := models.Exam{
		Title:              req.Title,
		Description:        req.Description,
		DurationMinutes:    req.DurationMinutes,
		PassingScore:       req.PassingScore,
		IsActive:           true,
		RandomizeQuestions: req.RandomizeQuestions,
		CreatedBy:          caller.UserID,
	}
	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}

	if err := s.db.Create(&exam).Error; err != nil {
		return nil, err
	}

	return &exam, nil
}

func (s *ExamService) GetExamByID(caller Caller, examID uint) (*models.Exam, error) {
	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	if !caller.canManageExam(exam.CreatedBy) {
		return nil, ErrAccessDenied
	}

	return &exam, nil
}

func (s *ExamService) UpdateExam(caller Caller, examID uint, req *UpdateExamRequest) (*models.Exam, error) {
	exam, err := s.GetExamByID(caller, examID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.PassingScore != nil {
		updates["passing_score"] = *req.PassingScore
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.RandomizeQuestions != nil {
		updates["randomize_questions"] = *req.RandomizeQuestions
	}

	if len(updates) > 0 {
		if err := s.db.Model(exam).Updates(updates).Error; err != nil {
			return nil, err
		}
		if err := s.db.First(exam, exam.ID).Error; err != nil {
			return nil, err
		}
	}

	return exam, nil
}

// DeleteExam removes the exam together with its questions and their options.
// The store declares no foreign keys, so the cascade is done here explicitly.
// Candidates pointing at the exam are kept; access by link reports the missing
// exam instead.
func (s *ExamService) DeleteExam(caller Caller, examID uint) error {
	exam, err := s.GetExamByID(caller, examID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&models.Question{}).Where("exam_id = ?", exam.ID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}

		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Option{}).Error; err != nil {
				return err
			}
			if err := tx.Where("exam_id = ?", exam.ID).Delete(&models.Question{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Exam{}, exam.ID).Error
	})
}

// ListExamQuestions returns the questions of an exam. Admins and the exam's
// creator get them in stored order. A candidate assigned to the exam (matched
// by the caller's email) gets them shuffled when the exam randomizes
// questions. Anyone else is denied.
func (s *ExamService) ListExamQuestions(caller Caller, examID uint) ([]models.Question, error) {
	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	if caller.canManageExam(exam.CreatedBy) {
		return s.examQuestions(exam.ID)
	}

	var candidate models.Candidate
	err := s.db.Where("email = ?", caller.Email).First(&candidate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}
	if candidate.ExamID != exam.ID {
		return nil, ErrAccessDenied
	}

	questions, err := s.examQuestions(exam.ID)
	if err != nil {
		return nil, err
	}

	if exam.RandomizeQuestions {
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	return questions, nil
}

func (s *ExamService) ListExamCandidates(caller Caller, examID uint) ([]models.Candidate, error) {
	if _, err := s.GetExamByID(caller, examID); err != nil {
		return nil, err
	}

	candidates := []models.Candidate{}
	err := s.db.Where("exam_id = ?", examID).Order("created_at DESC").Find(&candidates).Error
	return candidates, err
}

func (s *ExamService) ListExamResults(caller Caller, examID uint) ([]models.Result, error) {
	if _, err := s.GetExamByID(caller, examID); err != nil {
		return nil, err
	}

	results := []models.Result{}
	err := s.db.Where("exam_id = ?", examID).Order("created_at DESC").Find(&results).Error
	return results, err
}

func (s *ExamService) examQuestions(examID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.Where("exam_id = ?", examID).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.\"order\"")
		}).
		Order("id").
		Find(&questions).Error
	return questions, err
}
