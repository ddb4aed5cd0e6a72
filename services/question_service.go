package services

import (
	"errors"
	"strings"

	"examlink/models"

	"gorm.io/gorm"
)

type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// CreateQuestionRequest accepts both the canonical field names and the
// aliases the admin frontend sends (type, question_text). Aliases are folded
// into the canonical fields before anything is persisted.
type CreateQuestionRequest struct {
	ExamID       uint                  `json:"exam_id" binding:"required"`
	Text         string                `json:"text"`
	QuestionText string                `json:"question_text"`
	QuestionType string                `json:"question_type"`
	Type         string                `json:"type"`
	Points       int                   `json:"points" binding:"required,min=1"`
	Explanation  string                `json:"explanation"`
	Options      []CreateOptionRequest `json:"options"`
}

type CreateOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type UpdateQuestionRequest struct {
	Text         *string               `json:"text"`
	QuestionText *string               `json:"question_text"`
	QuestionType *string               `json:"question_type"`
	Type         *string               `json:"type"`
	Points       *int                  `json:"points"`
	Explanation  *string               `json:"explanation"`
	Options      []CreateOptionRequest `json:"options"`
}

type QuestionFilter struct {
	ExamID       *uint
	QuestionType string
	Search       string
}

// QuestionWithExam is the listing shape: a question enriched with the title
// of its owning exam.
type QuestionWithExam struct {
	models.Question
	ExamTitle string `json:"exam_title"`
}

var (
	ErrInvalidQuestionType = errors.New("invalid question type")
	ErrNoCorrectOption     = errors.New("at least one option must be marked as correct")
	ErrMissingOptions      = errors.New("choice questions require at least two options")
	ErrMissingText         = errors.New("question text is required")
)

func (s *QuestionService) CreateQuestion(caller Caller, req *CreateQuestionRequest) (*models.Question, error) {
	if !caller.IsAdmin {
		return nil, ErrAccessDenied
	}

	text := req.Text
	if text == "" {
		text = req.QuestionText
	}
	questionType := req.QuestionType
	if questionType == "" {
		questionType = req.Type
	}

	if text == "" {
		return nil, ErrMissingText
	}
	if !models.ValidQuestionType(questionType) {
		return nil, ErrInvalidQuestionType
	}
	if models.IsChoiceType(questionType) {
		if err := validateOptions(req.Options); err != nil {
			return nil, err
		}
	} else {
		// open-ended questions carry no options
		req.Options = nil
	}

	var exam models.Exam
	if err := s.db.First(&exam, req.ExamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	question := models.Question{
		ExamID:       exam.ID,
		Text:         text,
		QuestionType: questionType,
		Points:       req.Points,
		Explanation:  req.Explanation,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		return createOptions(tx, question.ID, req.Options)
	})
	if err != nil {
		return nil, err
	}

	return s.questionWithOptions(question.ID)
}

func (s *QuestionService) ListQuestions(caller Caller, filter QuestionFilter) ([]QuestionWithExam, error) {
	query := s.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("options.\"order\"")
	}).Order("id")

	if filter.ExamID != nil {
		query = query.Where("exam_id = ?", *filter.ExamID)
	}
	if filter.QuestionType != "" {
		query = query.Where("question_type = ?", filter.QuestionType)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(text) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var questions []models.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, err
	}

	examTitles, err := s.examTitles(questions)
	if err != nil {
		return nil, err
	}

	enriched := make([]QuestionWithExam, 0, len(questions))
	for _, q := range questions {
		enriched = append(enriched, QuestionWithExam{
			Question:  q,
			ExamTitle: examTitles[q.ExamID],
		})
	}

	return enriched, nil
}

func (s *QuestionService) GetQuestionByID(caller Caller, questionID uint) (*models.Question, error) {
	return s.questionWithOptions(questionID)
}

// UpdateQuestion applies a partial update. When options are supplied the
// existing set is replaced wholesale with fresh display order, never patched.
func (s *QuestionService) UpdateQuestion(caller Caller, questionID uint, req *UpdateQuestionRequest) (*models.Question, error) {
	if !caller.IsAdmin {
		return nil, ErrAccessDenied
	}

	question, err := s.questionWithOptions(questionID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Text != nil {
		updates["text"] = *req.Text
	} else if req.QuestionText != nil {
		updates["text"] = *req.QuestionText
	}

	questionType := question.QuestionType
	if req.QuestionType != nil {
		questionType = *req.QuestionType
	} else if req.Type != nil {
		questionType = *req.Type
	}
	if !models.ValidQuestionType(questionType) {
		return nil, ErrInvalidQuestionType
	}
	if questionType != question.QuestionType {
		updates["question_type"] = questionType
	}

	if req.Points != nil {
		updates["points"] = *req.Points
	}
	if req.Explanation != nil {
		updates["explanation"] = *req.Explanation
	}

	if req.Options != nil && models.IsChoiceType(questionType) {
		if err := validateOptions(req.Options); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Question{}).Where("id = ?", question.ID).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.Options != nil {
			if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
				return err
			}
			if err := createOptions(tx, question.ID, req.Options); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.questionWithOptions(question.ID)
}

// DeleteQuestion removes the question and its options together so no orphan
// options survive the delete.
func (s *QuestionService) DeleteQuestion(caller Caller, questionID uint) error {
	if !caller.IsAdmin {
		return ErrAccessDenied
	}

	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, question.ID).Error
	})
}

func (s *QuestionService) questionWithOptions(questionID uint) (*models.Question, error) {
	var question models.Question
	err := s.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("options.\"order\"")
	}).First(&question, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

func (s *QuestionService) examTitles(questions []models.Question) (map[uint]string, error) {
	examIDs := make([]uint, 0, len(questions))
	seen := map[uint]bool{}
	for _, q := range questions {
		if !seen[q.ExamID] {
			seen[q.ExamID] = true
			examIDs = append(examIDs, q.ExamID)
		}
	}

	titles := make(map[uint]string, len(examIDs))
	if len(examIDs) == 0 {
		return titles, nil
	}

	var exams []models.Exam
	if err := s.db.Where("id IN ?", examIDs).Find(&exams).Error; err != nil {
		return nil, err
	}
	for _, exam := range exams {
		titles[exam.ID] = exam.Title
	}

	return titles, nil
}

func validateOptions(options []CreateOptionRequest) error {
	if len(options) < 2 {
		return ErrMissingOptions
	}
	for _, opt := range options {
		if opt.IsCorrect {
			return nil
		}
	}
	return ErrNoCorrectOption
}

func createOptions(tx *gorm.DB, questionID uint, options []CreateOptionRequest) error {
	for i, optReq := range options {
		option := models.Option{
			QuestionID: questionID,
			Text:       optReq.Text,
			IsCorrect:  optReq.IsCorrect,
			Order:      i + 1,
		}
		if err := tx.Create(&option).Error; err != nil {
			return err
		}
	}
	return nil
}
