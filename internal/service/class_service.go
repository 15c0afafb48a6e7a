package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
)

type classRepo interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	CreateWithSchedule(ctx context.Context, class *models.Class, schedule *models.Schedule) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassWithSchedules, error)
	UpdateWithSchedule(ctx context.Context, class *models.Class, scheduleID string, schedule *models.Schedule) error
	Delete(ctx context.Context, classID string) error
	AddSchedule(ctx context.Context, schedule *models.Schedule) error
	DeleteSchedule(ctx context.Context, classID, scheduleID string) error
}

type classOwnerGuard interface {
	VerifyClassOwner(ctx context.Context, classID, teacherID string) error
}

// ClassService manages classes and their schedule slots.
type ClassService struct {
	classes   classRepo
	guard     classOwnerGuard
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(classes classRepo, guard classOwnerGuard, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{classes: classes, guard: guard, validator: validate, logger: logger}
}

// Create makes a class together with its first schedule slot. The two rows
// land atomically.
func (s *ClassService) Create(ctx context.Context, teacherID string, req models.CreateClassRequest) (*models.ClassWithSchedules, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	scheduleDate, err := parseDateField(req.ScheduleDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid schedule_date format")
	}

	class := &models.Class{
		Name:      req.Name,
		Subject:   req.Subject,
		Grade:     req.Grade,
		Fee:       req.Fee,
		TeacherID: teacherID,
	}
	schedule := &models.Schedule{
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ScheduleDate: scheduleDate,
		Recurrence:   recurrenceOrDefault(req.Recurrence),
		Location:     req.Location,
	}
	if err := s.classes.CreateWithSchedule(ctx, class, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	s.logger.Info("class created", zap.String("class_id", class.ID), zap.String("teacher_id", teacherID))
	return &models.ClassWithSchedules{Class: *class, Schedules: []models.Schedule{*schedule}}, nil
}

// ListMine returns the teacher's own classes with schedules.
func (s *ClassService) ListMine(ctx context.Context, teacherID string) ([]models.ClassWithSchedules, error) {
	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Update rewrites the class metadata and, when a schedule_id is supplied,
// that schedule slot in the same transaction.
func (s *ClassService) Update(ctx context.Context, teacherID, classID string, req models.UpdateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}

	class := &models.Class{
		ID:      classID,
		Name:    req.Name,
		Subject: req.Subject,
		Grade:   req.Grade,
		Fee:     req.Fee,
	}
	var schedule *models.Schedule
	if req.ScheduleID != "" {
		scheduleDate, err := parseDateField(req.ScheduleDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid schedule_date format")
		}
		if req.StartTime == "" || req.EndTime == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start_time and end_time required with schedule_id")
		}
		schedule = &models.Schedule{
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
			ScheduleDate: scheduleDate,
			Recurrence:   recurrenceOrDefault(req.Recurrence),
			Location:     req.Location,
		}
	}
	if err := s.classes.UpdateWithSchedule(ctx, class, req.ScheduleID, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	updated, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return updated, nil
}

// Delete removes the class and everything hanging off it.
func (s *ClassService) Delete(ctx context.Context, teacherID, classID string) error {
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return err
	}
	if err := s.classes.Delete(ctx, classID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	s.logger.Info("class deleted", zap.String("class_id", classID), zap.String("teacher_id", teacherID))
	return nil
}

// AddSchedule appends a schedule slot to an owned class.
func (s *ClassService) AddSchedule(ctx context.Context, teacherID, classID string, req models.AddScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}
	scheduleDate, err := parseDateField(req.ScheduleDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid schedule_date format")
	}
	schedule := &models.Schedule{
		ClassID:      classID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ScheduleDate: scheduleDate,
		Recurrence:   recurrenceOrDefault(req.Recurrence),
		Location:     req.Location,
	}
	if err := s.classes.AddSchedule(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add schedule")
	}
	return schedule, nil
}

// RemoveSchedule removes one schedule slot of an owned class.
func (s *ClassService) RemoveSchedule(ctx context.Context, teacherID, classID, scheduleID string) error {
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return err
	}
	if err := s.classes.DeleteSchedule(ctx, classID, scheduleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	return nil
}

// Get returns a class the teacher owns.
func (s *ClassService) Get(ctx context.Context, teacherID, classID string) (*models.Class, error) {
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

func recurrenceOrDefault(value string) models.Recurrence {
	if value == "" {
		return models.RecurrenceWeekly
	}
	return models.Recurrence(value)
}

// parseDateField accepts both plain dates and RFC3339 timestamps.
func parseDateField(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
