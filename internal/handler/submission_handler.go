package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/service"
	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
	"github.com/Shashika071/SPD-New-Final-sub000/pkg/response"
	"github.com/Shashika071/SPD-New-Final-sub000/pkg/storage"
)

// SubmissionHandler exposes student submission and teacher grading endpoints.
type SubmissionHandler struct {
	submissions *service.SubmissionService
	uploads     *storage.LocalStorage
	maxUpload   int64
}

// NewSubmissionHandler constructs SubmissionHandler.
func NewSubmissionHandler(submissions *service.SubmissionService, uploads *storage.LocalStorage, maxUpload int64) *SubmissionHandler {
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &SubmissionHandler{submissions: submissions, uploads: uploads, maxUpload: maxUpload}
}

// AttemptQuiz godoc
// @Summary Attempt a multiple choice question
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body models.AttemptQuizRequest true "Attempt payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /student/quiz/attempts [post]
func (h *SubmissionHandler) AttemptQuiz(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.AttemptQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	attempt, err := h.submissions.AttemptQuiz(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, attempt)
}

// SubmitAssignment godoc
// @Summary Submit an assignment, optionally with an attached document
// @Tags Submissions
// @Accept multipart/form-data
// @Produce json
// @Param assignment_id formData string true "Assignment ID"
// @Param answers formData string false "JSON array of answers"
// @Param document formData file false "Attached document"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /student/submissions [post]
func (h *SubmissionHandler) SubmitAssignment(c *gin.Context) {
	claims := claimsFromContext(c)

	var req models.SubmitAssignmentRequest
	contentType := c.ContentType()
	if contentType == "multipart/form-data" {
		req.AssignmentID = c.PostForm("assignment_id")
		if raw := c.PostForm("answers"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Answers); err != nil {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid answers payload"))
				return
			}
		}
		file, err := c.FormFile("document")
		if err == nil {
			if file.Size > h.maxUpload {
				response.Error(c, appErrors.Clone(appErrors.ErrValidation, "document exceeds the upload size limit"))
				return
			}
			src, err := file.Open()
			if err != nil {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
				return
			}
			defer src.Close() //nolint:errcheck
			url, err := h.uploads.SaveUpload(file.Filename, src)
			if err != nil {
				response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload"))
				return
			}
			req.DocumentURL = &url
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}

	submission, err := h.submissions.SubmitAssignment(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, submission)
}

// SubmitAnswer godoc
// @Summary Submit or revise a written answer to a question
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param payload body models.SubmitAnswerRequest true "Answer payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /student/questions/{id}/answer [post]
func (h *SubmissionHandler) SubmitAnswer(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	answer, err := h.submissions.SubmitQuestionAnswer(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, answer, nil)
}

// GetQuestion godoc
// @Summary View a question with the caller's prior work
// @Tags Submissions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /student/questions/{id} [get]
func (h *SubmissionHandler) GetQuestion(c *gin.Context) {
	claims := claimsFromContext(c)
	view, err := h.submissions.GetQuestionForStudent(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// GetAssignment godoc
// @Summary View an assignment with the caller's submitted flag
// @Tags Submissions
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /student/assignments/{id} [get]
func (h *SubmissionHandler) GetAssignment(c *gin.Context) {
	claims := claimsFromContext(c)
	assignment, err := h.submissions.GetAssignmentForStudent(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// GetAssignmentQuestions godoc
// @Summary Questions of an assignment with point overrides
// @Tags Submissions
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /student/assignments/{id}/questions [get]
func (h *SubmissionHandler) GetAssignmentQuestions(c *gin.Context) {
	claims := claimsFromContext(c)
	questions, err := h.submissions.GetAssignmentQuestionsForStudent(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, questions, nil)
}

// ClassResources godoc
// @Summary Everything one enrolled class exposes to the caller
// @Tags Submissions
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /student/classes/{id}/resources [get]
func (h *SubmissionHandler) ClassResources(c *gin.Context) {
	claims := claimsFromContext(c)
	resources, err := h.submissions.GetClassResources(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resources, nil)
}

// AllMyResources godoc
// @Summary Resources of every class the caller has paid for
// @Tags Submissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /student/resources [get]
func (h *SubmissionHandler) AllMyResources(c *gin.Context) {
	claims := claimsFromContext(c)
	bundles, err := h.submissions.GetAllMyResources(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bundles, nil)
}

// ListSubmissions godoc
// @Summary List submissions to an assignment
// @Tags Grading
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/assignments/{id}/submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	claims := claimsFromContext(c)
	submissions, err := h.submissions.ListSubmissions(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submissions, nil)
}

// GetSubmission godoc
// @Summary Get one submission with its answers
// @Tags Grading
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/submissions/{id} [get]
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	claims := claimsFromContext(c)
	submission, answers, err := h.submissions.GetSubmission(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"submission": submission, "answers": answers}, nil)
}

// GradeSubmission godoc
// @Summary Grade a submission
// @Tags Grading
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body models.GradeSubmissionRequest true "Grading payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/submissions/{id} [put]
func (h *SubmissionHandler) GradeSubmission(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	submission, err := h.submissions.GradeSubmission(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

// ListAnswers godoc
// @Summary List written answers to a question
// @Tags Grading
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/questions/{id}/answers [get]
func (h *SubmissionHandler) ListAnswers(c *gin.Context) {
	claims := claimsFromContext(c)
	answers, err := h.submissions.ListAnswers(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, answers, nil)
}

// GradeAnswer godoc
// @Summary Grade a written answer
// @Tags Grading
// @Accept json
// @Produce json
// @Param id path string true "Answer ID"
// @Param payload body models.GradeAnswerRequest true "Grading payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/answers/{id} [put]
func (h *SubmissionHandler) GradeAnswer(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.GradeAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	answer, err := h.submissions.GradeAnswer(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, answer, nil)
}

// ExportSubmissions godoc
// @Summary Export an assignment's submissions as CSV or PDF
// @Tags Grading
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Assignment ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /teacher/assignments/{id}/submissions/export [get]
func (h *SubmissionHandler) ExportSubmissions(c *gin.Context) {
	claims := claimsFromContext(c)
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.submissions.ExportSubmissions(c.Request.Context(), claims.UserID, c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("submissions-%s.%s", time.Now().UTC().Format("20060102-150405"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
