package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/repository"
	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
)

type questionRepo interface {
	ClassID(ctx context.Context, questionID string) (string, error)
	FindByID(ctx context.Context, id string) (*models.Question, error)
	CreateWithOptions(ctx context.Context, question *models.Question, options []models.Option) error
	OptionsByQuestion(ctx context.Context, questionID string) ([]models.Option, error)
	ListByClass(ctx context.Context, classID string) ([]models.Question, error)
	Delete(ctx context.Context, questionID string) error
}

type assignmentRepo interface {
	ClassID(ctx context.Context, assignmentID string) (string, error)
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	CreateWithQuestions(ctx context.Context, assignment *models.Assignment, defs []repository.AssignmentQuestionDef) error
	ListByClass(ctx context.Context, classID string) ([]models.Assignment, error)
	LinkedQuestions(ctx context.Context, assignmentID string) ([]models.AssignmentQuestion, error)
	Delete(ctx context.Context, assignmentID string) error
}

type staticResourceRepo interface {
	CreatePastPaper(ctx context.Context, paper *models.PastPaper) error
	CreateVideo(ctx context.Context, video *models.Video) error
	PastPapersByClass(ctx context.Context, classID string) ([]models.PastPaper, error)
	VideosByClass(ctx context.Context, classID string) ([]models.Video, error)
	PastPaperClassID(ctx context.Context, paperID string) (string, error)
	VideoClassID(ctx context.Context, videoID string) (string, error)
	DeletePastPaper(ctx context.Context, paperID string) error
	DeleteVideo(ctx context.Context, videoID string) error
}

// ResourceService covers teacher-side authoring of questions, assignments,
// past papers and videos. Every operation runs behind the ownership guard.
type ResourceService struct {
	questions   questionRepo
	assignments assignmentRepo
	statics     staticResourceRepo
	guard       classOwnerGuard
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewResourceService constructs ResourceService.
func NewResourceService(questions questionRepo, assignments assignmentRepo, statics staticResourceRepo, guard classOwnerGuard, validate *validator.Validate, logger *zap.Logger) *ResourceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceService{
		questions:   questions,
		assignments: assignments,
		statics:     statics,
		guard:       guard,
		validator:   validate,
		logger:      logger,
	}
}

// AddQuestion creates a standalone question in an owned class. The payload
// must satisfy the variant rules before anything touches the database.
func (s *ResourceService) AddQuestion(ctx context.Context, teacherID, classID string, req models.AddQuestionRequest) (*models.Question, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}

	question := &models.Question{
		ClassID: classID,
		Text:    req.Text,
		Type:    req.Type,
		Points:  req.Points,
	}
	if question.Points == 0 {
		question.Points = 1
	}
	if req.DueDate != "" {
		due, err := parseDateField(req.DueDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid due_date format")
		}
		question.DueDate = &due
	}

	var options []models.Option
	if req.Type.IsMultipleChoice() {
		if req.TimeLimitMinutes == nil || *req.TimeLimitMinutes <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "multiple choice questions require a positive time limit")
		}
		question.TimeLimitMinutes = req.TimeLimitMinutes
		opts, err := buildOptions(req.Options)
		if err != nil {
			return nil, err
		}
		options = opts
	} else {
		if len(req.Options) > 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "options are only valid on multiple choice questions")
		}
		if req.TimeLimitMinutes != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "time limit is only valid on multiple choice questions")
		}
	}

	if err := s.questions.CreateWithOptions(ctx, question, options); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create question")
	}
	s.logger.Info("question created",
		zap.String("question_id", question.ID),
		zap.String("class_id", classID),
		zap.String("type", string(question.Type)))
	return question, nil
}

// ListQuestions returns an owned class's questions with options attached
// to the multiple choice ones.
func (s *ResourceService) ListQuestions(ctx context.Context, teacherID, classID string) ([]models.Question, error) {
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}
	questions, err := s.questions.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	for i := range questions {
		if !questions[i].Type.IsMultipleChoice() {
			continue
		}
		options, err := s.questions.OptionsByQuestion(ctx, questions[i].ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load options")
		}
		questions[i].Options = options
	}
	return questions, nil
}

// DeleteQuestion removes a question from an owned class.
func (s *ResourceService) DeleteQuestion(ctx context.Context, teacherID, questionID string) error {
	classID, err := s.questions.ClassID(ctx, questionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve question")
	}
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return err
	}
	if err := s.questions.Delete(ctx, questionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete question")
	}
	return nil
}

// CreateAssignment creates an assignment plus freshly minted questions and
// their link rows as one atomic unit. Embedded questions default to
// short_answer when no type was given.
func (s *ResourceService) CreateAssignment(ctx context.Context, teacherID, classID string, req models.CreateAssignmentRequest) (*models.AssignmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		ClassID:     classID,
		Title:       req.Title,
		Description: req.Description,
		TotalPoints: req.TotalPoints,
	}
	if assignment.TotalPoints == 0 {
		assignment.TotalPoints = 100
	}
	if req.DueDate != "" {
		due, err := parseDateField(req.DueDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid due_date format")
		}
		assignment.DueDate = &due
	}

	defs := make([]repository.AssignmentQuestionDef, 0, len(req.Questions))
	for _, input := range req.Questions {
		qType := input.Type
		if qType == "" {
			qType = models.QuestionShortAnswer
		}
		points := input.Points
		if points == 0 {
			points = 1
		}
		def := repository.AssignmentQuestionDef{
			Question: models.Question{Text: input.Text, Type: qType, Points: points},
			Points:   points,
		}
		if qType.IsMultipleChoice() {
			opts, err := buildOptions(input.Options)
			if err != nil {
				return nil, err
			}
			def.Options = opts
		} else if len(input.Options) > 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "options are only valid on multiple choice questions")
		}
		defs = append(defs, def)
	}

	if err := s.assignments.CreateWithQuestions(ctx, assignment, defs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	s.logger.Info("assignment created",
		zap.String("assignment_id", assignment.ID),
		zap.String("class_id", classID),
		zap.Int("questions", len(defs)))

	questions, err := s.assignments.LinkedQuestions(ctx, assignment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment questions")
	}
	return &models.AssignmentDetail{Assignment: *assignment, Questions: questions}, nil
}

// ListAssignments returns an owned class's assignments.
func (s *ResourceService) ListAssignments(ctx context.Context, teacherID, classID string) ([]models.Assignment, error) {
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// GetAssignment returns one owned assignment with its linked questions.
func (s *ResourceService) GetAssignment(ctx context.Context, teacherID, assignmentID string) (*models.AssignmentDetail, error) {
	classID, err := s.assignments.ClassID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve assignment")
	}
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	questions, err := s.assignments.LinkedQuestions(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment questions")
	}
	return &models.AssignmentDetail{Assignment: *assignment, Questions: questions}, nil
}

// DeleteAssignment removes an owned assignment.
func (s *ResourceService) DeleteAssignment(ctx context.Context, teacherID, assignmentID string) error {
	classID, err := s.assignments.ClassID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve assignment")
	}
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return err
	}
	if err := s.assignments.Delete(ctx, assignmentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}

// AddPastPaper attaches a past paper to an owned class.
func (s *ResourceService) AddPastPaper(ctx context.Context, teacherID, classID string, req models.AddPastPaperRequest) (*models.PastPaper, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid past paper payload")
	}
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}
	paper := &models.PastPaper{
		ClassID:     classID,
		Title:       req.Title,
		Description: req.Description,
		Year:        req.Year,
		PaperURL:    req.PaperURL,
	}
	if err := s.statics.CreatePastPaper(ctx, paper); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create past paper")
	}
	return paper, nil
}

// AddVideo attaches a video to an owned class.
func (s *ResourceService) AddVideo(ctx context.Context, teacherID, classID string, req models.AddVideoRequest) (*models.Video, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid video payload")
	}
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}
	video := &models.Video{
		ClassID:     classID,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
	}
	if err := s.statics.CreateVideo(ctx, video); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create video")
	}
	return video, nil
}

// ListPastPapers returns an owned class's past papers.
func (s *ResourceService) ListPastPapers(ctx context.Context, teacherID, classID string) ([]models.PastPaper, error) {
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}
	papers, err := s.statics.PastPapersByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list past papers")
	}
	return papers, nil
}

// ListVideos returns an owned class's videos.
func (s *ResourceService) ListVideos(ctx context.Context, teacherID, classID string) ([]models.Video, error) {
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}
	videos, err := s.statics.VideosByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list videos")
	}
	return videos, nil
}

// DeletePastPaper removes an owned past paper.
func (s *ResourceService) DeletePastPaper(ctx context.Context, teacherID, paperID string) error {
	classID, err := s.statics.PastPaperClassID(ctx, paperID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "past paper not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve past paper")
	}
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return err
	}
	if err := s.statics.DeletePastPaper(ctx, paperID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete past paper")
	}
	return nil
}

// DeleteVideo removes an owned video.
func (s *ResourceService) DeleteVideo(ctx context.Context, teacherID, videoID string) error {
	classID, err := s.statics.VideoClassID(ctx, videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "video not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve video")
	}
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return err
	}
	if err := s.statics.DeleteVideo(ctx, videoID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete video")
	}
	return nil
}

// buildOptions validates multiple choice options: at least two, exactly
// one correct.
func buildOptions(inputs []models.OptionInput) ([]models.Option, error) {
	if len(inputs) < 2 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "multiple choice questions require at least two options")
	}
	correct := 0
	options := make([]models.Option, 0, len(inputs))
	for _, input := range inputs {
		if input.IsCorrect {
			correct++
		}
		options = append(options, models.Option{Text: input.Text, IsCorrect: input.IsCorrect})
	}
	if correct != 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "multiple choice questions require exactly one correct option")
	}
	return options, nil
}
