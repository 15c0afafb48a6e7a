package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/service"
	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
	"github.com/Shashika071/SPD-New-Final-sub000/pkg/response"
)

// PredictorHandler exposes the grade prediction endpoint.
type PredictorHandler struct {
	predictor *service.PredictorService
}

// NewPredictorHandler constructs PredictorHandler.
func NewPredictorHandler(predictor *service.PredictorService) *PredictorHandler {
	return &PredictorHandler{predictor: predictor}
}

// Predict godoc
// @Summary Predict a grade from study hours and attendance
// @Tags Predictor
// @Accept json
// @Produce json
// @Param payload body models.PredictGradeRequest true "Prediction payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /student/predict [post]
func (h *PredictorHandler) Predict(c *gin.Context) {
	var req models.PredictGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.predictor.Predict(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
