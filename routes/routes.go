package routes

import (
	"net/http"

	"examlink/handlers"
	"examlink/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	examHandler *handlers.ExamHandler,
	questionHandler *handlers.QuestionHandler,
	candidateHandler *handlers.CandidateHandler,
	resultHandler *handlers.ResultHandler,
	jwtSecret string,
) {
	// Auth routes (public)
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Candidate registration and capability-link access are public: the
	// unguessable exam link is the only credential a candidate ever holds.
	router.POST("/candidates", candidateHandler.CreateCandidate)
	router.GET("/candidates/exam/:link", candidateHandler.AccessExamByLink)
	router.POST("/candidates/exam/:link/submit", candidateHandler.SubmitExam)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	{
		protected.GET("/auth/validate-token", authHandler.ValidateToken)
		protected.GET("/auth/me", authHandler.Me)

		exams := protected.Group("/exams")
		{
			exams.GET("", examHandler.ListExams)
			exams.POST("", examHandler.CreateExam)
			exams.GET("/:id", examHandler.GetExamByID)
			exams.PUT("/:id", examHandler.UpdateExam)
			exams.DELETE("/:id", examHandler.DeleteExam)
			exams.GET("/:id/questions", examHandler.ListExamQuestions)
			exams.GET("/:id/candidates", examHandler.ListExamCandidates)
			exams.GET("/:id/results", examHandler.ListExamResults)
		}

		questions := protected.Group("/questions")
		{
			questions.GET("", questionHandler.ListQuestions)
			questions.POST("", questionHandler.CreateQuestion)
			questions.GET("/:id", questionHandler.GetQuestionByID)
			questions.PUT("/:id", questionHandler.UpdateQuestion)
			questions.DELETE("/:id", questionHandler.DeleteQuestion)
		}

		candidates := protected.Group("/candidates")
		{
			candidates.GET("", candidateHandler.ListCandidates)
			candidates.GET("/:id", candidateHandler.GetCandidateByID)
			candidates.DELETE("/:id", candidateHandler.DeleteCandidate)
			candidates.GET("/:id/result", resultHandler.GetCandidateResult)
		}

		results := protected.Group("/results")
		{
			results.GET("/:id", resultHandler.GetResult)
			results.PUT("/:id/evaluate", resultHandler.EvaluateResult)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unhandled route"})
	})
}
