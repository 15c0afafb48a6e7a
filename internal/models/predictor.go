package models

// PredictGradeRequest is forwarded to the external prediction service.
type PredictGradeRequest struct {
	StudyHours float64 `json:"study_hours" validate:"gte=0"`
	Attendance float64 `json:"attendance" validate:"gte=0,lte=100"`
}

// PredictGradeResponse carries the predicted grade back to the client.
type PredictGradeResponse struct {
	Grade float64 `json:"grade"`
}
