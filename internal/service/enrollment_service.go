package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/repository"
	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
)

const catalogCacheKey = "catalog:classes"

type enrollmentRepo interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindByIDForStudent(ctx context.Context, id, studentID string) (*models.Enrollment, error)
	MarkCompleted(ctx context.Context, id string) (bool, error)
	HasCompleted(ctx context.Context, studentID, classID string) (bool, error)
	StudentsByTeacher(ctx context.Context, teacherID string) ([]models.EnrolledStudent, error)
	ByStudentForTeacher(ctx context.Context, studentID, teacherID string) ([]models.EnrollmentDetail, error)
}

type catalogRepo interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	ListCatalog(ctx context.Context) ([]models.CatalogEntry, error)
	ListPaidByStudent(ctx context.Context, studentID string) ([]models.CatalogEntry, error)
}

type CatalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// EnrollmentService owns the enroll -> pay -> active lifecycle and the
// catalog views on both sides of it.
type EnrollmentService struct {
	enrollments enrollmentRepo
	classes     catalogRepo
	cache       CatalogCache
	cacheTTL    time.Duration
	paymentBase string
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService. cache may be nil to
// disable catalog caching.
func NewEnrollmentService(enrollments enrollmentRepo, classes catalogRepo, cache CatalogCache, cacheTTL time.Duration, paymentBase string, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &EnrollmentService{
		enrollments: enrollments,
		classes:     classes,
		cache:       cache,
		cacheTTL:    cacheTTL,
		paymentBase: paymentBase,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Enroll creates a pending enrollment snapshotting the class fee at enroll
// time. Every enrollment starts pending, free classes included; activation
// happens only through CompletePayment. A second enroll on the same class
// surfaces as a conflict regardless of which request won the race.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID string, req models.EnrollRequest) (*models.EnrollResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enroll payload")
	}
	class, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	var fee float64
	if class.Fee != nil {
		fee = *class.Fee
	}
	enrollment := &models.Enrollment{
		StudentID:     studentID,
		ClassID:       class.ID,
		PaymentStatus: models.PaymentPending,
		PaymentAmount: fee,
	}

	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this class")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
	}
	s.metrics.RecordEnrollment(string(enrollment.PaymentStatus))
	s.logger.Info("student enrolled",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("class_id", class.ID),
		zap.String("student_id", studentID),
		zap.Float64("fee", fee))

	resp := &models.EnrollResponse{
		EnrollmentID:    enrollment.ID,
		PaymentRequired: fee > 0,
		PaymentAmount:   fee,
	}
	if fee > 0 && s.paymentBase != "" {
		link := fmt.Sprintf("%s/payments/enrollments/%s", s.paymentBase, enrollment.ID)
		resp.PaymentLink = &link
	}
	return resp, nil
}

// CompletePayment flips a pending enrollment to completed. Replays report
// already_completed instead of failing; only the owning student may call it.
func (s *EnrollmentService) CompletePayment(ctx context.Context, studentID, enrollmentID string) (*models.CompletePaymentResponse, error) {
	enrollment, err := s.enrollments.FindByIDForStudent(ctx, enrollmentID, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	completed, err := s.enrollments.MarkCompleted(ctx, enrollment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete payment")
	}
	if completed {
		s.metrics.RecordEnrollment(string(models.PaymentCompleted))
		s.logger.Info("payment completed",
			zap.String("enrollment_id", enrollment.ID),
			zap.String("student_id", studentID))
	}
	return &models.CompletePaymentResponse{EnrollmentID: enrollment.ID, AlreadyCompleted: !completed}, nil
}

// ListAvailableClasses returns the public catalog, served from cache when
// one is configured. Cache failures degrade to the database.
func (s *EnrollmentService) ListAvailableClasses(ctx context.Context) ([]models.CatalogEntry, error) {
	if s.cache != nil {
		var cached []models.CatalogEntry
		if err := s.cache.Get(ctx, catalogCacheKey, &cached); err == nil {
			s.metrics.RecordCatalogCache(true)
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
		s.metrics.RecordCatalogCache(false)
	}
	entries, err := s.classes.ListCatalog(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list catalog")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, catalogCacheKey, entries, s.cacheTTL); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return entries, nil
}

// InvalidateCatalog drops the cached catalog after class mutations.
func (s *EnrollmentService) InvalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		s.logger.Warn("catalog cache invalidate failed", zap.Error(err))
	}
}

// ListMyClasses returns only classes the student has paid for.
func (s *EnrollmentService) ListMyClasses(ctx context.Context, studentID string) ([]models.CatalogEntry, error) {
	entries, err := s.classes.ListPaidByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled classes")
	}
	return entries, nil
}

// RequireActiveEnrollment is the visibility gate: every student-side class
// operation passes through it. Pending payment is not enough.
func (s *EnrollmentService) RequireActiveEnrollment(ctx context.Context, studentID, classID string) error {
	active, err := s.enrollments.HasCompleted(ctx, studentID, classID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !active {
		return appErrors.Clone(appErrors.ErrForbidden, "active enrollment required")
	}
	return nil
}

// ListMyStudents returns every student enrolled in any of the teacher's
// classes, one row per enrollment.
func (s *EnrollmentService) ListMyStudents(ctx context.Context, teacherID string) ([]models.EnrolledStudent, error) {
	students, err := s.enrollments.StudentsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// StudentEnrollments returns one student's enrollments across the teacher's
// classes.
func (s *EnrollmentService) StudentEnrollments(ctx context.Context, teacherID, studentID string) ([]models.EnrollmentDetail, error) {
	details, err := s.enrollments.ByStudentForTeacher(ctx, studentID, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return details, nil
}
