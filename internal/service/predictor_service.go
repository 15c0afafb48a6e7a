package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
)

// PredictorService proxies grade predictions to the external model service.
type PredictorService struct {
	baseURL   string
	client    *http.Client
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPredictorService constructs PredictorService.
func NewPredictorService(baseURL string, timeout time.Duration, validate *validator.Validate, logger *zap.Logger) *PredictorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PredictorService{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
		validator: validate,
		logger:    logger,
	}
}

// Predict forwards study hours and attendance to the model and returns the
// predicted grade.
func (s *PredictorService) Predict(ctx context.Context, req models.PredictGradeRequest) (*models.PredictGradeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid prediction payload")
	}
	if s.baseURL == "" {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "prediction service not configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode prediction request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build prediction request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.logger.Warn("prediction service unreachable", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "prediction service unreachable")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, appErrors.Wrap(
			fmt.Errorf("prediction service returned %d", resp.StatusCode),
			appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "prediction service error")
	}

	var out models.PredictGradeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode prediction response")
	}
	return &out, nil
}
