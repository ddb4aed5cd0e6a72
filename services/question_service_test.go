package services

import (
	"testing"

	"examlink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuestion_WithOptions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db)
	admin := createTestUser(t, db, "admin@example.com", true)
	exam := createTestExam(t, db, admin.ID, false)

	question, err := svc.CreateQuestion(callerFor(admin), &CreateQuestionRequest{
		ExamID:       exam.ID,
		Text:         "What is 2+2?",
		QuestionType: models.QuestionTypeMultipleChoice,
		Points:       1,
		Options: []CreateOptionRequest{
			{Text: "3", IsCorrect: false},
			{Text: "4", IsCorrect: true},
		},
	})
	require.NoError(t, err)

	require.Len(t, question.Options, 2)
	assert.Equal(t, 1, question.Options[0].Order)
	assert.Equal(t, 2, question.Options[1].Order)
	assert.Equal(t, "3", question.Options[0].Text)
	assert.True(t, question.Options[1].IsCorrect)
}

func TestCreateQuestion_NormalizesFieldAliases(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db)
	admin := createTestUser(t, db, "admin@example.com", true)
	exam := createTestExam(t, db, admin.ID, false)

	// the admin frontend sends "question_text" and "type"
	question, err := svc.CreateQuestion(callerFor(admin), &CreateQuestionRequest{
		ExamID:       exam.ID,
		QuestionText: "Capital of France?",
		Type:         models.QuestionTypeSingleChoice,
		Points:       2,
		Options: []CreateOptionRequest{
			{Text: "Paris", IsCorrect: true},
			{Text: "Lyon", IsCorrect: false},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Capital of France?", question.Text)
	assert.Equal(t, models.QuestionTypeSingleChoice, question.QuestionType)
}

func TestCreateQuestion_OpenEndedHasNoOptions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db)
	admin := createTestUser(t, db, "admin@example.com", true)
	exam := createTestExam(t, db, admin.ID, false)

	question, err := svc.CreateQuestion(callerFor(admin), &CreateQuestionRequest{
		ExamID:       exam.ID,
		Text:         "Explain polymorphism.",
		QuestionType: models.QuestionTypeOpenEnded,
		Points:       5,
	})
	require.NoError(t, err)
	assert.Empty(t, question.Options)
}

func TestCreateQuestion_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db)
	admin := createTestUser(t, db, "admin@example.com", true)
	nonAdmin := createTestUser(t, db, "user@example.com", false)
	exam := createTestExam(t, db, admin.ID, false)

	valid := func() *CreateQuestionRequest {
		return &CreateQuestionRequest{
			ExamID:       exam.ID,
			Text:         "2+2?",
			QuestionType: models.QuestionTypeMultipleChoice,
			Points:       1,
			Options: []CreateOptionRequest{
				{Text: "3"},
				{Text: "4", IsCorrect: true},
			},
		}
	}

	_, err := svc.CreateQuestion(callerFor(nonAdmin), valid())
	assert.ErrorIs(t, err, ErrAccessDenied)

	req := valid()
	req.QuestionType = "essay"
	_, err = svc.CreateQuestion(callerFor(admin), req)
	assert.ErrorIs(t, err, ErrInvalidQuestionType)

	req = valid()
	req.Options = []CreateOptionRequest{{Text: "3"}, {Text: "5"}}
	_, err = svc.CreateQuestion(callerFor(admin), req)
	assert.ErrorIs(t, err, ErrNoCorrectOption)

	req = valid()
	req.Options = req.Options[:1]
	_, err = svc.CreateQuestion(callerFor(admin), req)
	assert.ErrorIs(t, err, ErrMissingOptions)

	req = valid()
	req.ExamID = 999
	_, err = svc.CreateQuestion(callerFor(admin), req)
	assert.ErrorIs(t, err, ErrExamNotFound)

	req = valid()
	req.Text = ""
	_, err = svc.CreateQuestion(callerFor(admin), req)
	assert.ErrorIs(t, err, ErrMissingText)
}

func TestListQuestions_Filters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db)
	admin := createTestUser(t, db, "admin@example.com", true)
	examA := createTestExam(t, db, admin.ID, false)
	examB := models.Exam{Title: "Final", DurationMinutes: 90, PassingScore: 50, CreatedBy: admin.ID}
	require.NoError(t, db.Create(&examB).Error)

	createTestQuestion(t, db, examA.ID, 1) // "What is 2+2?", multiple_choice
	open := models.Question{ExamID: examB.ID, Text: "Describe TCP slow start", QuestionType: models.QuestionTypeOpenEnded, Points: 5}
	require.NoError(t, db.Create(&open).Error)

	all, err := svc.ListQuestions(callerFor(admin), QuestionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byExam, err := svc.ListQuestions(callerFor(admin), QuestionFilter{ExamID: &examA.ID})
	require.NoError(t, err)
	require.Len(t, byExam, 1)
	assert.Equal(t, "Midterm", byExam[0].ExamTitle)
	assert.Len(t, byExam[0].Options, 2)

	byType, err := svc.ListQuestions(callerFor(admin), QuestionFilter{QuestionType: models.QuestionTypeOpenEnded})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "Final", byType[0].ExamTitle)

	bySearch, err := svc.ListQuestions(callerFor(admin), QuestionFilter{Search: "tcp SLOW"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, open.ID, bySearch[0].ID)

	// filters intersect
	none, err := svc.ListQuestions(callerFor(admin), QuestionFilter{
		ExamID: &examA.ID,
		Search: "tcp",
	})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateQuestion_ReplacesOptionsWholesale(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db)
	admin := createTestUser(t, db, "admin@example.com", true)
	exam := createTestExam(t, db, admin.ID, false)
	question := createTestQuestion(t, db, exam.ID, 1)

	oldIDs := []uint{question.Options[0].ID, question.Options[1].ID}

	updated, err := svc.UpdateQuestion(callerFor(admin), question.ID, &UpdateQuestionRequest{
		Options: []CreateOptionRequest{
			{Text: "five", IsCorrect: false},
			{Text: "four", IsCorrect: true},
			{Text: "twenty-two", IsCorrect: false},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Options, 3)
	for i, opt := range updated.Options {
		assert.Equal(t, i+1, opt.Order)
		assert.NotContains(t, oldIDs, opt.ID)
	}

	var stale int64
	require.NoError(t, db.Model(&models.Option{}).Where("id IN ?", oldIDs).Count(&stale).Error)
	assert.Zero(t, stale)
}

func TestUpdateQuestion_PartialFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db)
	admin := createTestUser(t, db, "admin@example.com", true)
	exam := createTestExam(t, db, admin.ID, false)
	question := createTestQuestion(t, db, exam.ID, 1)

	points := 3
	updated, err := svc.UpdateQuestion(callerFor(admin), question.ID, &UpdateQuestionRequest{
		Points: &points,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, updated.Points)
	assert.Equal(t, question.Text, updated.Text)
	assert.Len(t, updated.Options, 2, "options untouched when not supplied")
}

func TestDeleteQuestion_CascadesOptions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db)
	admin := createTestUser(t, db, "admin@example.com", true)
	exam := createTestExam(t, db, admin.ID, false)
	question := createTestQuestion(t, db, exam.ID, 1)

	require.NoError(t, svc.DeleteQuestion(callerFor(admin), question.ID))

	var optionCount int64
	require.NoError(t, db.Model(&models.Option{}).Where("question_id = ?", question.ID).Count(&optionCount).Error)
	assert.Zero(t, optionCount)

	_, err := svc.GetQuestionByID(callerFor(admin), question.ID)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestDeleteQuestion_NotFoundAndForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuestionService(db)
	admin := createTestUser(t, db, "admin@example.com", true)
	nonAdmin := createTestUser(t, db, "user@example.com", false)
	exam := createTestExam(t, db, admin.ID, false)
	question := createTestQuestion(t, db, exam.ID, 1)

	assert.ErrorIs(t, svc.DeleteQuestion(callerFor(admin), 999), ErrQuestionNotFound)
	assert.ErrorIs(t, svc.DeleteQuestion(callerFor(nonAdmin), question.ID), ErrAccessDenied)
}
