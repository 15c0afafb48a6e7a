package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/service"
	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
	"github.com/Shashika071/SPD-New-Final-sub000/pkg/response"
)

// ClassHandler exposes teacher-side class management endpoints.
type ClassHandler struct {
	classes     *service.ClassService
	enrollments *service.EnrollmentService
}

// NewClassHandler constructs ClassHandler.
func NewClassHandler(classes *service.ClassService, enrollments *service.EnrollmentService) *ClassHandler {
	return &ClassHandler{classes: classes, enrollments: enrollments}
}

// Create godoc
// @Summary Create a class with its first schedule
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body models.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	class, err := h.classes.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.enrollments.InvalidateCatalog(c.Request.Context())
	response.Created(c, class)
}

// List godoc
// @Summary List the caller's classes
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	classes, err := h.classes.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Update godoc
// @Summary Update a class and optionally one schedule slot
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body models.UpdateClassRequest true "Class payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/classes/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	class, err := h.classes.Update(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.enrollments.InvalidateCatalog(c.Request.Context())
	response.JSON(c, http.StatusOK, class, nil)
}

// Delete godoc
// @Summary Delete a class and everything under it
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /teacher/classes/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.classes.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.enrollments.InvalidateCatalog(c.Request.Context())
	response.NoContent(c)
}

// AddSchedule godoc
// @Summary Add a schedule slot to a class
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body models.AddScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/classes/{id}/schedules [post]
func (h *ClassHandler) AddSchedule(c *gin.Context) {
	claims := claimsFromContext(c)
	var req models.AddScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.classes.AddSchedule(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.enrollments.InvalidateCatalog(c.Request.Context())
	response.Created(c, schedule)
}

// RemoveSchedule godoc
// @Summary Remove a schedule slot from a class
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Param scheduleId path string true "Schedule ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /teacher/classes/{id}/schedules/{scheduleId} [delete]
func (h *ClassHandler) RemoveSchedule(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.classes.RemoveSchedule(c.Request.Context(), claims.UserID, c.Param("id"), c.Param("scheduleId")); err != nil {
		response.Error(c, err)
		return
	}
	h.enrollments.InvalidateCatalog(c.Request.Context())
	response.NoContent(c)
}

// Students godoc
// @Summary List students enrolled across the caller's classes
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/students [get]
func (h *ClassHandler) Students(c *gin.Context) {
	claims := claimsFromContext(c)
	students, err := h.enrollments.ListMyStudents(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// StudentEnrollments godoc
// @Summary List one student's enrollments in the caller's classes
// @Tags Classes
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teacher/students/{id}/enrollments [get]
func (h *ClassHandler) StudentEnrollments(c *gin.Context) {
	claims := claimsFromContext(c)
	details, err := h.enrollments.StudentEnrollments(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}
