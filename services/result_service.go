package services

import (
	"errors"

	"examlink/models"

	"gorm.io/gorm"
)

type ResultService struct {
	db *gorm.DB
}

func NewResultService(db *gorm.DB) *ResultService {
	return &ResultService{db: db}
}

type EvaluateResultRequest struct {
	Evaluations []AnswerEvaluation `json:"evaluations" binding:"required"`
	Feedback    string             `json:"feedback"`
}

type AnswerEvaluation struct {
	AnswerID      uint `json:"answer_id" binding:"required"`
	PointsAwarded int  `json:"points_awarded"`
}

// GetResult returns a result with its answers. Only the owner of the exam the
// result belongs to (or an admin) may see it.
func (s *ResultService) GetResult(caller Caller, resultID uint) (*models.Result, error) {
	var result models.Result
	err := s.db.Preload("Answers").First(&result, resultID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}

	if err := s.authorizeExam(caller, result.ExamID); err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *ResultService) GetCandidateResult(caller Caller, candidateID uint) (*models.Result, error) {
	var candidate models.Candidate
	if err := s.db.First(&candidate, candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}

	if err := s.authorizeExam(caller, candidate.ExamID); err != nil {
		return nil, err
	}

	var result models.Result
	err := s.db.Preload("Answers").Where("candidate_id = ?", candidate.ID).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}

	return &result, nil
}

// EvaluateResult awards points to open-ended answers and recalculates the
// overall score. Points are clamped to the question's maximum.
func (s *ResultService) EvaluateResult(caller Caller, resultID uint, req *EvaluateResultRequest) (*models.Result, error) {
	result, err := s.GetResult(caller, resultID)
	if err != nil {
		return nil, err
	}

	var exam models.Exam
	if err := s.db.First(&exam, result.ExamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, eval := range req.Evaluations {
			var answer models.Answer
			err := tx.Where("id = ? AND result_id = ?", eval.AnswerID, result.ID).First(&answer).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}

			var question models.Question
			if err := tx.First(&question, answer.QuestionID).Error; err != nil {
				return err
			}
			if question.QuestionType != models.QuestionTypeOpenEnded {
				continue
			}

			points := eval.PointsAwarded
			if points < 0 {
				points = 0
			}
			if points > question.Points {
				points = question.Points
			}

			if err := tx.Model(&answer).Updates(map[string]interface{}{
				"points_awarded": points,
				"is_correct":     points > 0,
				"evaluated":      true,
			}).Error; err != nil {
				return err
			}
		}

		return s.recalculate(tx, result, &exam, req.Feedback)
	})
	if err != nil {
		return nil, err
	}

	return s.GetResult(caller, resultID)
}

func (s *ResultService) authorizeExam(caller Caller, examID uint) error {
	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExamNotFound
		}
		return err
	}
	if !caller.canManageExam(exam.CreatedBy) {
		return ErrAccessDenied
	}
	return nil
}

func (s *ResultService) recalculate(tx *gorm.DB, result *models.Result, exam *models.Exam, feedback string) error {
	var answers []models.Answer
	if err := tx.Where("result_id = ?", result.ID).Find(&answers).Error; err != nil {
		return err
	}

	earned := 0
	pending := false
	for _, answer := range answers {
		earned += answer.PointsAwarded
		if !answer.Evaluated {
			pending = true
		}
	}

	score := percentScore(earned, result.TotalPoints)
	updates := map[string]interface{}{
		"earned_points":      earned,
		"score":              score,
		"passed":             !pending && score >= float64(exam.PassingScore),
		"pending_evaluation": pending,
	}
	if feedback != "" {
		updates["feedback"] = feedback
	}

	return tx.Model(&models.Result{}).Where("id = ?", result.ID).Updates(updates).Error
}
