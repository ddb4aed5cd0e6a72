package handlers

import (
	"net/http"

	"examlink/services"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateService *services.CandidateService
}

func NewCandidateHandler(candidateService *services.CandidateService) *CandidateHandler {
	return &CandidateHandler{
		candidateService: candidateService,
	}
}

// CreateCandidate is public: candidates are registered before they have any
// way to authenticate. The response carries the generated exam link.
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	var req services.CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidate, err := h.candidateService.CreateCandidate(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, candidate)
}

func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	candidates, err := h.candidateService.ListCandidates(caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidates)
}

func (h *CandidateHandler) GetCandidateByID(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	candidateID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	candidate, err := h.candidateService.GetCandidateByID(caller, candidateID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	candidateID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	if err := h.candidateService.DeleteCandidate(caller, candidateID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Candidate deleted successfully"})
}

// AccessExamByLink is public; the unguessable link is the capability.
func (h *CandidateHandler) AccessExamByLink(c *gin.Context) {
	access, err := h.candidateService.AccessByLink(c.Request.Context(), c.Param("link"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, access)
}

func (h *CandidateHandler) SubmitExam(c *gin.Context) {
	var req services.SubmitExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.candidateService.SubmitExam(c.Request.Context(), c.Param("link"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Exam submitted successfully",
		"result":  result,
	})
}
