package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/service"
	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
	"github.com/Shashika071/SPD-New-Final-sub000/pkg/response"
)

// ResourceHandler exposes teacher-side authoring endpoints for questions,
// assignments, past papers and videos.
type ResourceHandler struct {
	resources *service.ResourceService
}

// NewResourceHandler constructs ResourceHandler.
func NewResourceHandler(resources *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resources: resources}
}

// AddQuestion godoc
// @Summary Add a question to a class
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body models.AddQuestionRequest true "Question payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/classes/{id}/questions [post]
func (h *ResourceHandler) AddQuestion(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	question, err := h.resources.AddQuestion(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, question)
}

// ListQuestions godoc
// @Summary List a class's questions
// @Tags Resources
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/classes/{id}/questions [get]
func (h *ResourceHandler) ListQuestions(c *gin.Context) {
	claims := claimsFromContext(c)
	questions, err := h.resources.ListQuestions(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, questions, nil)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags Resources
// @Produce json
// @Param id path string true "Question ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /teacher/questions/{id} [delete]
func (h *ResourceHandler) DeleteQuestion(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.resources.DeleteQuestion(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateAssignment godoc
// @Summary Create an assignment with embedded questions
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body models.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/classes/{id}/assignments [post]
func (h *ResourceHandler) CreateAssignment(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.resources.CreateAssignment(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// ListAssignments godoc
// @Summary List a class's assignments
// @Tags Resources
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/classes/{id}/assignments [get]
func (h *ResourceHandler) ListAssignments(c *gin.Context) {
	claims := claimsFromContext(c)
	assignments, err := h.resources.ListAssignments(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// GetAssignment godoc
// @Summary Get an assignment with its questions
// @Tags Resources
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/assignments/{id} [get]
func (h *ResourceHandler) GetAssignment(c *gin.Context) {
	claims := claimsFromContext(c)
	assignment, err := h.resources.GetAssignment(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// DeleteAssignment godoc
// @Summary Delete an assignment
// @Tags Resources
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /teacher/assignments/{id} [delete]
func (h *ResourceHandler) DeleteAssignment(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.resources.DeleteAssignment(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddPastPaper godoc
// @Summary Add a past paper to a class
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body models.AddPastPaperRequest true "Past paper payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/classes/{id}/pastpapers [post]
func (h *ResourceHandler) AddPastPaper(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.AddPastPaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	paper, err := h.resources.AddPastPaper(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, paper)
}

// ListPastPapers godoc
// @Summary List a class's past papers
// @Tags Resources
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/classes/{id}/pastpapers [get]
func (h *ResourceHandler) ListPastPapers(c *gin.Context) {
	claims := claimsFromContext(c)
	papers, err := h.resources.ListPastPapers(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, papers, nil)
}

// DeletePastPaper godoc
// @Summary Delete a past paper
// @Tags Resources
// @Produce json
// @Param id path string true "Past paper ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /teacher/pastpapers/{id} [delete]
func (h *ResourceHandler) DeletePastPaper(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.resources.DeletePastPaper(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddVideo godoc
// @Summary Add a video to a class
// @Tags Resources
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body models.AddVideoRequest true "Video payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/classes/{id}/videos [post]
func (h *ResourceHandler) AddVideo(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.AddVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	video, err := h.resources.AddVideo(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, video)
}

// ListVideos godoc
// @Summary List a class's videos
// @Tags Resources
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/classes/{id}/videos [get]
func (h *ResourceHandler) ListVideos(c *gin.Context) {
	claims := claimsFromContext(c)
	videos, err := h.resources.ListVideos(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, videos, nil)
}

// DeleteVideo godoc
// @Summary Delete a video
// @Tags Resources
// @Produce json
// @Param id path string true "Video ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /teacher/videos/{id} [delete]
func (h *ResourceHandler) DeleteVideo(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.resources.DeleteVideo(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
