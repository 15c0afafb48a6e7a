package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/service"
	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
	"github.com/Shashika071/SPD-New-Final-sub000/pkg/response"
)

// EnrollmentHandler exposes student-side enrollment endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Catalog godoc
// @Summary Browse all available classes
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /student/classes [get]
func (h *EnrollmentHandler) Catalog(c *gin.Context) {
	entries, err := h.enrollments.ListAvailableClasses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Enroll godoc
// @Summary Enroll in a class
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body models.EnrollRequest true "Enroll payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /student/enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.enrollments.Enroll(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// CompletePayment godoc
// @Summary Complete payment for an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /student/enrollments/{id}/complete [post]
func (h *EnrollmentHandler) CompletePayment(c *gin.Context) {
	claims := claimsFromContext(c)
	result, err := h.enrollments.CompletePayment(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// MyClasses godoc
// @Summary List classes the caller has paid for
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /student/classes/mine [get]
func (h *EnrollmentHandler) MyClasses(c *gin.Context) {
	claims := claimsFromContext(c)
	entries, err := h.enrollments.ListMyClasses(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
