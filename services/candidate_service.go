package services

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"examlink/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sessionGrace pads the exam session TTL so a candidate submitting right at
// the deadline still finds their session.
const sessionGrace = 5 * time.Minute

type CandidateService struct {
	db       *gorm.DB
	sessions SessionStore
}

func NewCandidateService(db *gorm.DB, sessions SessionStore) *CandidateService {
	return &CandidateService{db: db, sessions: sessions}
}

type CreateCandidateRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Name   string `json:"name" binding:"required"`
	ExamID uint   `json:"exam_id" binding:"required"`
}

// ExamAccess is what a candidate sees when they open their exam link: their
// own record, the exam metadata, and the questions stripped of answer keys.
type ExamAccess struct {
	Candidate models.Candidate    `json:"candidate"`
	Exam      models.Exam         `json:"exam"`
	Questions []CandidateQuestion `json:"questions"`
	Deadline  time.Time           `json:"deadline"`
}

type CandidateQuestion struct {
	ID           uint              `json:"id"`
	Text         string            `json:"text"`
	QuestionType string            `json:"question_type"`
	Points       int               `json:"points"`
	Options      []CandidateOption `json:"options"`
}

type CandidateOption struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
	// IsCorrect is never exposed to candidates
}

type SubmitExamRequest struct {
	Answers []SubmitAnswerRequest `json:"answers" binding:"required"`
}

type SubmitAnswerRequest struct {
	QuestionID       uint   `json:"question_id" binding:"required"`
	SelectedOptionID *uint  `json:"selected_option_id"`
	TextResponse     string `json:"text_response"`
}

// CreateCandidate registers an exam taker. No authentication is required;
// the generated exam link is the capability that gates everything after.
func (s *CandidateService) CreateCandidate(req *CreateCandidateRequest) (*models.Candidate, error) {
	var existing models.Candidate
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var exam models.Exam
	if err := s.db.First(&exam, req.ExamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	candidate := models.Candidate{
		Email:    req.Email,
		Name:     req.Name,
		ExamID:   exam.ID,
		ExamLink: uuid.NewString(),
	}

	if err := s.db.Create(&candidate).Error; err != nil {
		return nil, err
	}

	return &candidate, nil
}

func (s *CandidateService) ListCandidates(caller Caller) ([]models.Candidate, error) {
	if !caller.IsAdmin {
		return nil, ErrAccessDenied
	}

	candidates := []models.Candidate{}
	err := s.db.Order("created_at DESC").Find(&candidates).Error
	return candidates, err
}

func (s *CandidateService) GetCandidateByID(caller Caller, candidateID uint) (*models.Candidate, error) {
	if !caller.IsAdmin {
		return nil, ErrAccessDenied
	}

	var candidate models.Candidate
	if err := s.db.First(&candidate, candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (s *CandidateService) DeleteCandidate(caller Caller, candidateID uint) error {
	if !caller.IsAdmin {
		return ErrAccessDenied
	}

	var candidate models.Candidate
	if err := s.db.First(&candidate, candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCandidateNotFound
		}
		return err
	}

	return s.db.Delete(&models.Candidate{}, candidate.ID).Error
}

// AccessByLink resolves an exam link to the candidate and their exam. The
// first access stamps the test start time and opens a timed session; repeat
// accesses within the window reuse it.
func (s *CandidateService) AccessByLink(ctx context.Context, examLink string) (*ExamAccess, error) {
	var candidate models.Candidate
	err := s.db.Where("exam_link = ?", examLink).First(&candidate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidExamLink
		}
		return nil, err
	}

	if candidate.IsTestCompleted {
		return nil, ErrTestCompleted
	}

	var exam models.Exam
	if err := s.db.First(&exam, candidate.ExamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// exam deleted after the candidate was registered
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	if candidate.TestStartedAt == nil {
		now := time.Now().UTC()
		if err := s.db.Model(&candidate).Update("test_started_at", now).Error; err != nil {
			return nil, err
		}
		candidate.TestStartedAt = &now
	}

	session, err := s.sessions.Get(ctx, examLink)
	if errors.Is(err, ErrSessionNotFound) {
		duration := time.Duration(exam.DurationMinutes) * time.Minute
		session = &ExamSession{
			CandidateID: candidate.ID,
			ExamID:      exam.ID,
			ExamLink:    examLink,
			StartedAt:   *candidate.TestStartedAt,
			Deadline:    candidate.TestStartedAt.Add(duration),
		}
		if err := s.sessions.Put(ctx, session, duration+sessionGrace); err != nil {
			// non-fatal: the candidate can still take the exam
			log.Printf("Failed to store exam session for link %s: %v", examLink, err)
		}
	} else if err != nil {
		return nil, err
	}

	questions, err := s.candidateQuestions(exam)
	if err != nil {
		return nil, err
	}

	return &ExamAccess{
		Candidate: candidate,
		Exam:      exam,
		Questions: questions,
		Deadline:  session.Deadline,
	}, nil
}

// SubmitExam records the candidate's answers, scores every choice question
// immediately and leaves open-ended answers for manual evaluation.
func (s *CandidateService) SubmitExam(ctx context.Context, examLink string, req *SubmitExamRequest) (*models.Result, error) {
	var candidate models.Candidate
	err := s.db.Where("exam_link = ?", examLink).First(&candidate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidExamLink
		}
		return nil, err
	}

	if candidate.IsTestCompleted {
		return nil, ErrTestCompleted
	}

	var exam models.Exam
	if err := s.db.First(&exam, candidate.ExamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	var questions []models.Question
	if err := s.db.Where("exam_id = ?", exam.ID).Preload("Options").Find(&questions).Error; err != nil {
		return nil, err
	}
	questionsByID := make(map[uint]*models.Question, len(questions))
	totalPoints := 0
	for i := range questions {
		questionsByID[questions[i].ID] = &questions[i]
		totalPoints += questions[i].Points
	}

	var result models.Result
	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if err := tx.Model(&candidate).Updates(map[string]interface{}{
			"is_test_completed": true,
			"test_completed_at": now,
		}).Error; err != nil {
			return err
		}

		result = models.Result{
			CandidateID: candidate.ID,
			ExamID:      exam.ID,
			TotalPoints: totalPoints,
		}
		if err := tx.Create(&result).Error; err != nil {
			return err
		}

		earned := 0
		pending := false
		for _, answerReq := range req.Answers {
			question, ok := questionsByID[answerReq.QuestionID]
			if !ok {
				// answer for a question outside this exam, ignore it
				continue
			}

			answer := models.Answer{
				ResultID:   result.ID,
				QuestionID: question.ID,
			}

			if models.IsChoiceType(question.QuestionType) {
				answer.SelectedOptionID = answerReq.SelectedOptionID
				answer.Evaluated = true
				if answerReq.SelectedOptionID != nil {
					for _, opt := range question.Options {
						if opt.ID == *answerReq.SelectedOptionID && opt.IsCorrect {
							answer.IsCorrect = true
							answer.PointsAwarded = question.Points
							earned += question.Points
							break
						}
					}
				}
			} else {
				answer.TextResponse = answerReq.TextResponse
				pending = true
			}

			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}

		result.EarnedPoints = earned
		result.Score = percentScore(earned, totalPoints)
		result.Passed = !pending && result.Score >= float64(exam.PassingScore)
		result.PendingEvaluation = pending

		return tx.Save(&result).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Delete(ctx, examLink); err != nil {
		log.Printf("Failed to delete exam session for link %s: %v", examLink, err)
	}

	return &result, nil
}

func (s *CandidateService) candidateQuestions(exam models.Exam) ([]CandidateQuestion, error) {
	var questions []models.Question
	err := s.db.Where("exam_id = ?", exam.ID).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.\"order\"")
		}).
		Order("id").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	if exam.RandomizeQuestions {
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	sanitized := make([]CandidateQuestion, 0, len(questions))
	for _, q := range questions {
		cq := CandidateQuestion{
			ID:           q.ID,
			Text:         q.Text,
			QuestionType: q.QuestionType,
			Points:       q.Points,
			Options:      make([]CandidateOption, 0, len(q.Options)),
		}
		for _, opt := range q.Options {
			cq.Options = append(cq.Options, CandidateOption{
				ID:    opt.ID,
				Text:  opt.Text,
				Order: opt.Order,
			})
		}
		sanitized = append(sanitized, cq)
	}

	return sanitized, nil
}

func percentScore(earned, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(earned) / float64(total) * 100
}
