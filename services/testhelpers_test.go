package services

import (
	"path/filepath"
	"testing"

	"examlink/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "examlink_test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Exam{},
		&models.Question{},
		&models.Option{},
		&models.Candidate{},
		&models.Result{},
		&models.Answer{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, isAdmin bool) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Email:        email,
		Username:     email,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func callerFor(user models.User) Caller {
	return Caller{UserID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin}
}

func createTestExam(t *testing.T, db *gorm.DB, createdBy uint, randomize bool) models.Exam {
	t.Helper()

	exam := models.Exam{
		Title:              "Midterm",
		Description:        "Midterm exam",
		DurationMinutes:    60,
		PassingScore:       70,
		IsActive:           true,
		RandomizeQuestions: randomize,
		CreatedBy:          createdBy,
	}
	require.NoError(t, db.Create(&exam).Error)
	return exam
}

// createTestQuestion persists a multiple choice question with one correct
// option ("4") and one incorrect option ("3").
func createTestQuestion(t *testing.T, db *gorm.DB, examID uint, points int) models.Question {
	t.Helper()

	question := models.Question{
		ExamID:       examID,
		Text:         "What is 2+2?",
		QuestionType: models.QuestionTypeMultipleChoice,
		Points:       points,
	}
	require.NoError(t, db.Create(&question).Error)

	options := []models.Option{
		{QuestionID: question.ID, Text: "3", IsCorrect: false, Order: 1},
		{QuestionID: question.ID, Text: "4", IsCorrect: true, Order: 2},
	}
	for i := range options {
		require.NoError(t, db.Create(&options[i]).Error)
	}

	question.Options = options
	return question
}

func createTestCandidate(t *testing.T, db *gorm.DB, email string, examID uint) models.Candidate {
	t.Helper()

	candidate := models.Candidate{
		Email:    email,
		Name:     "Test Candidate",
		ExamID:   examID,
		ExamLink: uuid.NewString(),
	}
	require.NoError(t, db.Create(&candidate).Error)
	return candidate
}

func correctOption(t *testing.T, question models.Question) models.Option {
	t.Helper()

	for _, opt := range question.Options {
		if opt.IsCorrect {
			return opt
		}
	}
	t.Fatalf("question %d has no correct option", question.ID)
	return models.Option{}
}
