package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/repository"
	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
	"github.com/Shashika071/SPD-New-Final-sub000/pkg/export"
)

type submissionRepo interface {
	CreateWithAnswers(ctx context.Context, submission *models.AssignmentSubmission, answers []models.AssignmentAnswer) error
	FindByID(ctx context.Context, id string) (*models.AssignmentSubmission, error)
	TeacherID(ctx context.Context, submissionID string) (string, error)
	UpdateGrade(ctx context.Context, id string, grade *float64, feedback *string, status models.SubmissionStatus) (bool, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.SubmissionDetail, error)
	AnswersBySubmission(ctx context.Context, submissionID string) ([]models.AssignmentAnswer, error)
}

type attemptRepo interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	FindByQuestionAndStudent(ctx context.Context, questionID, studentID string) (*models.QuizAttempt, error)
}

type answerRepo interface {
	FindByQuestionAndStudent(ctx context.Context, questionID, studentID string) (*models.QuestionAnswer, error)
	FindByID(ctx context.Context, id string) (*models.QuestionAnswer, error)
	Create(ctx context.Context, answer *models.QuestionAnswer) error
	UpdateTextWhilePending(ctx context.Context, id, text string) (bool, error)
	TeacherID(ctx context.Context, answerID string) (string, error)
	Grade(ctx context.Context, id string, marks *float64, feedback *string) error
	ListByQuestion(ctx context.Context, questionID string) ([]models.AnswerDetail, error)
}

type studentQuestionRepo interface {
	ClassID(ctx context.Context, questionID string) (string, error)
	FindByID(ctx context.Context, id string) (*models.Question, error)
	OptionsByQuestion(ctx context.Context, questionID string) ([]models.Option, error)
	OptionsByQuestions(ctx context.Context, questionIDs []string) (map[string][]models.Option, error)
	IsCorrectOption(ctx context.Context, questionID, optionID string) (bool, error)
	ListByClassForStudent(ctx context.Context, classID, studentID string) ([]models.StudentQuestion, error)
}

type studentAssignmentRepo interface {
	ClassID(ctx context.Context, assignmentID string) (string, error)
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	ListByClassForStudent(ctx context.Context, classID, studentID string) ([]models.StudentAssignment, error)
	LinkedQuestions(ctx context.Context, assignmentID string) ([]models.AssignmentQuestion, error)
	HasSubmission(ctx context.Context, assignmentID, studentID string) (bool, error)
}

type classResourceReader interface {
	PastPapersByClass(ctx context.Context, classID string) ([]models.PastPaper, error)
	VideosByClass(ctx context.Context, classID string) ([]models.Video, error)
}

type enrollmentGate interface {
	RequireActiveEnrollment(ctx context.Context, studentID, classID string) error
}

type paidClassLister interface {
	PaidClassRefs(ctx context.Context, studentID string) ([]models.ClassRef, error)
}

// SubmissionService covers student-side submitting plus teacher-side
// grading. All student paths run behind the enrollment gate; all teacher
// paths resolve work back to its owning teacher.
type SubmissionService struct {
	submissions submissionRepo
	attempts    attemptRepo
	answers     answerRepo
	questions   studentQuestionRepo
	assignments studentAssignmentRepo
	statics     classResourceReader
	enrollments paidClassLister
	gate        enrollmentGate
	guard       classOwnerGuard
	metrics     *MetricsService
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubmissionService constructs SubmissionService.
func NewSubmissionService(
	submissions submissionRepo,
	attempts attemptRepo,
	answers answerRepo,
	questions studentQuestionRepo,
	assignments studentAssignmentRepo,
	statics classResourceReader,
	enrollments paidClassLister,
	gate enrollmentGate,
	guard classOwnerGuard,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *SubmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		submissions: submissions,
		attempts:    attempts,
		answers:     answers,
		questions:   questions,
		assignments: assignments,
		statics:     statics,
		enrollments: enrollments,
		gate:        gate,
		guard:       guard,
		metrics:     metrics,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		validator:   validate,
		logger:      logger,
	}
}

// AttemptQuiz records the one allowed attempt at a multiple choice
// question and scores it immediately: full points or zero.
func (s *SubmissionService) AttemptQuiz(ctx context.Context, studentID string, req models.AttemptQuizRequest) (*models.QuizAttempt, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attempt payload")
	}
	question, err := s.questions.FindByID(ctx, req.QuestionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	if !question.Type.IsMultipleChoice() {
		// Only multiple choice questions are attemptable; anything else
		// looks like a missing quiz to the caller.
		return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
	}
	if err := s.gate.RequireActiveEnrollment(ctx, studentID, question.ClassID); err != nil {
		return nil, err
	}

	correct, err := s.questions.IsCorrectOption(ctx, req.QuestionID, req.OptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "option does not belong to this question")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check option")
	}

	attempt := &models.QuizAttempt{
		QuestionID: question.ID,
		StudentID:  studentID,
		OptionID:   req.OptionID,
		IsCorrect:  correct,
	}
	if correct {
		attempt.Score = question.Points
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "question already attempted")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attempt")
	}
	s.logger.Info("quiz attempted",
		zap.String("question_id", question.ID),
		zap.String("student_id", studentID),
		zap.Bool("correct", correct))
	return attempt, nil
}

// SubmitAssignment records the student's single submission together with
// its per-question answers as one unit.
func (s *SubmissionService) SubmitAssignment(ctx context.Context, studentID string, req models.SubmitAssignmentRequest) (*models.AssignmentSubmission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	assignment, err := s.assignments.FindByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if err := s.gate.RequireActiveEnrollment(ctx, studentID, assignment.ClassID); err != nil {
		return nil, err
	}

	linked, err := s.assignments.LinkedQuestions(ctx, assignment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment questions")
	}
	known := make(map[string]struct{}, len(linked))
	for _, q := range linked {
		known[q.ID] = struct{}{}
	}

	answers := make([]models.AssignmentAnswer, 0, len(req.Answers))
	for _, input := range req.Answers {
		if _, ok := known[input.QuestionID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "answer references a question outside this assignment")
		}
		answers = append(answers, models.AssignmentAnswer{
			QuestionID:  input.QuestionID,
			AnswerText:  input.AnswerText,
			OptionID:    input.OptionID,
			DocumentURL: req.DocumentURL,
		})
	}

	submission := &models.AssignmentSubmission{
		AssignmentID: assignment.ID,
		StudentID:    studentID,
		DocumentURL:  req.DocumentURL,
		Status:       models.SubmissionPending,
	}
	if err := s.submissions.CreateWithAnswers(ctx, submission, answers); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "assignment already submitted")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit assignment")
	}
	s.logger.Info("assignment submitted",
		zap.String("assignment_id", assignment.ID),
		zap.String("student_id", studentID),
		zap.Int("answers", len(answers)))
	return submission, nil
}

// SubmitQuestionAnswer creates or revises a free-text answer. Revision is
// allowed only while the answer is still pending; once graded it is frozen.
func (s *SubmissionService) SubmitQuestionAnswer(ctx context.Context, studentID, questionID string, req models.SubmitAnswerRequest) (*models.QuestionAnswer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid answer payload")
	}
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	if !question.Type.IsFreeText() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "question does not accept written answers")
	}
	if err := s.gate.RequireActiveEnrollment(ctx, studentID, question.ClassID); err != nil {
		return nil, err
	}

	existing, err := s.answers.FindByQuestionAndStudent(ctx, questionID, studentID)
	switch {
	case err == nil:
		if existing.Status != models.SubmissionPending {
			return nil, appErrors.Clone(appErrors.ErrFinalized, "answer already graded")
		}
		updated, err := s.answers.UpdateTextWhilePending(ctx, existing.ID, req.AnswerText)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update answer")
		}
		if !updated {
			return nil, appErrors.Clone(appErrors.ErrFinalized, "answer already graded")
		}
		existing.AnswerText = req.AnswerText
		existing.UpdatedAt = time.Now().UTC()
		return existing, nil
	case errors.Is(err, sql.ErrNoRows):
		answer := &models.QuestionAnswer{
			QuestionID: questionID,
			StudentID:  studentID,
			AnswerText: req.AnswerText,
			Status:     models.SubmissionPending,
		}
		if err := s.answers.Create(ctx, answer); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, appErrors.Clone(appErrors.ErrConflict, "answer already submitted")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit answer")
		}
		return answer, nil
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load answer")
	}
}

// GradeSubmission updates grade, feedback and status of a submission in
// one of the caller's classes. Status defaults to graded.
func (s *SubmissionService) GradeSubmission(ctx context.Context, teacherID, submissionID string, req models.GradeSubmissionRequest) (*models.AssignmentSubmission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grading payload")
	}
	ownerID, err := s.submissions.TeacherID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve submission")
	}
	if ownerID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "submission belongs to another teacher's class")
	}

	status := req.Status
	if status == "" {
		status = models.SubmissionGraded
	}
	graded, err := s.submissions.UpdateGrade(ctx, submissionID, req.Grade, req.Feedback, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to grade submission")
	}
	if !graded {
		return nil, appErrors.Clone(appErrors.ErrFinalized, "submission already graded")
	}
	s.metrics.RecordGrading()
	s.logger.Info("submission graded",
		zap.String("submission_id", submissionID),
		zap.String("teacher_id", teacherID),
		zap.String("status", string(status)))
	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	return submission, nil
}

// GradeAnswer sets marks and feedback on a free-text answer and moves it
// to graded, freezing it against further student edits.
func (s *SubmissionService) GradeAnswer(ctx context.Context, teacherID, answerID string, req models.GradeAnswerRequest) (*models.QuestionAnswer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grading payload")
	}
	ownerID, err := s.answers.TeacherID(ctx, answerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "answer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve answer")
	}
	if ownerID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "answer belongs to another teacher's class")
	}
	if err := s.answers.Grade(ctx, answerID, req.Marks, req.Feedback); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to grade answer")
	}
	s.metrics.RecordGrading()
	answer, err := s.answers.FindByID(ctx, answerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load answer")
	}
	return answer, nil
}

// ListSubmissions returns every submission to an assignment the teacher owns.
func (s *SubmissionService) ListSubmissions(ctx context.Context, teacherID, assignmentID string) ([]models.SubmissionDetail, error) {
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
	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return submissions, nil
}

// GetSubmission returns one submission with its answers for grading.
func (s *SubmissionService) GetSubmission(ctx context.Context, teacherID, submissionID string) (*models.AssignmentSubmission, []models.AssignmentAnswer, error) {
	ownerID, err := s.submissions.TeacherID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve submission")
	}
	if ownerID != teacherID {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "submission belongs to another teacher's class")
	}
	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	answers, err := s.submissions.AnswersBySubmission(ctx, submissionID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load answers")
	}
	return submission, answers, nil
}

// ListAnswers returns every free-text answer to a question the teacher owns.
func (s *SubmissionService) ListAnswers(ctx context.Context, teacherID, questionID string) ([]models.AnswerDetail, error) {
	classID, err := s.questions.ClassID(ctx, questionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve question")
	}
	if err := s.guard.VerifyClassOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}
	answers, err := s.answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list answers")
	}
	return answers, nil
}

// GetQuestionForStudent returns a question together with the student's own
// prior work on it. Correct flags never leave the teacher surface.
func (s *SubmissionService) GetQuestionForStudent(ctx context.Context, studentID, questionID string) (*models.QuestionView, error) {
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	if err := s.gate.RequireActiveEnrollment(ctx, studentID, question.ClassID); err != nil {
		return nil, err
	}

	view := &models.QuestionView{Question: *question}
	if question.Type.IsMultipleChoice() {
		options, err := s.questions.OptionsByQuestion(ctx, questionID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load options")
		}
		view.Options = stripCorrectFlags(options)
		attempt, err := s.attempts.FindByQuestionAndStudent(ctx, questionID, studentID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attempt")
		}
		if err == nil {
			view.Attempt = attempt
		}
	} else {
		answer, err := s.answers.FindByQuestionAndStudent(ctx, questionID, studentID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load answer")
		}
		if err == nil {
			view.Answer = answer
		}
	}
	return view, nil
}

// GetAssignmentForStudent returns one assignment with the caller's
// submitted flag filled in.
func (s *SubmissionService) GetAssignmentForStudent(ctx context.Context, studentID, assignmentID string) (*models.StudentAssignment, error) {
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if err := s.gate.RequireActiveEnrollment(ctx, studentID, assignment.ClassID); err != nil {
		return nil, err
	}
	submitted, err := s.assignments.HasSubmission(ctx, assignmentID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check submission")
	}
	return &models.StudentAssignment{Assignment: *assignment, Submitted: submitted}, nil
}

// GetAssignmentQuestionsForStudent returns the assignment's questions with
// their per-assignment point overrides. Options attach to multiple choice
// questions with correct flags stripped.
func (s *SubmissionService) GetAssignmentQuestionsForStudent(ctx context.Context, studentID, assignmentID string) ([]models.AssignmentQuestion, error) {
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if err := s.gate.RequireActiveEnrollment(ctx, studentID, assignment.ClassID); err != nil {
		return nil, err
	}
	questions, err := s.assignments.LinkedQuestions(ctx, assignment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment questions")
	}
	mcIDs := make([]string, 0, len(questions))
	for _, q := range questions {
		if q.Type.IsMultipleChoice() {
			mcIDs = append(mcIDs, q.ID)
		}
	}
	options, err := s.questions.OptionsByQuestions(ctx, mcIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load options")
	}
	for i := range questions {
		if opts, ok := options[questions[i].ID]; ok {
			questions[i].Options = stripCorrectFlags(opts)
		}
	}
	return questions, nil
}

// GetClassResources returns everything a class exposes to an actively
// enrolled student, with the caller's completion flags filled in.
func (s *SubmissionService) GetClassResources(ctx context.Context, studentID, classID string) (*models.ClassResources, error) {
	if err := s.gate.RequireActiveEnrollment(ctx, studentID, classID); err != nil {
		return nil, err
	}
	return s.collectClassResources(ctx, studentID, classID)
}

// GetAllMyResources bundles resources of every class the student has paid
// for, one bundle per class.
func (s *SubmissionService) GetAllMyResources(ctx context.Context, studentID string) ([]models.ClassResourceBundle, error) {
	refs, err := s.enrollments.PaidClassRefs(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled classes")
	}
	bundles := make([]models.ClassResourceBundle, 0, len(refs))
	for _, ref := range refs {
		resources, err := s.collectClassResources(ctx, studentID, ref.ClassID)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, models.ClassResourceBundle{
			ClassID:        ref.ClassID,
			ClassName:      ref.ClassName,
			ClassResources: *resources,
		})
	}
	return bundles, nil
}

// ExportSubmissions renders an assignment's submissions as CSV or PDF for
// offline grading.
func (s *SubmissionService) ExportSubmissions(ctx context.Context, teacherID, assignmentID, format string) ([]byte, string, error) {
	submissions, err := s.ListSubmissions(ctx, teacherID, assignmentID)
	if err != nil {
		return nil, "", err
	}
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	data := export.Dataset{
		Headers: []string{"Student", "Status", "Grade", "Feedback", "Submitted At"},
		Rows:    make([]map[string]string, 0, len(submissions)),
	}
	for _, sub := range submissions {
		grade := ""
		if sub.Grade != nil {
			grade = fmt.Sprintf("%.2f", *sub.Grade)
		}
		feedback := ""
		if sub.Feedback != nil {
			feedback = *sub.Feedback
		}
		data.Rows = append(data.Rows, map[string]string{
			"Student":      sub.StudentName,
			"Status":       string(sub.Status),
			"Grade":        grade,
			"Feedback":     feedback,
			"Submitted At": sub.SubmittedAt.Format(time.RFC3339),
		})
	}

	switch strings.ToLower(format) {
	case "", "csv":
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(data, fmt.Sprintf("Submissions: %s", assignment.Title))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func (s *SubmissionService) collectClassResources(ctx context.Context, studentID, classID string) (*models.ClassResources, error) {
	questions, err := s.questions.ListByClassForStudent(ctx, classID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	mcIDs := make([]string, 0, len(questions))
	for _, q := range questions {
		if q.Type.IsMultipleChoice() {
			mcIDs = append(mcIDs, q.ID)
		}
	}
	options, err := s.questions.OptionsByQuestions(ctx, mcIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load options")
	}
	for i := range questions {
		if opts, ok := options[questions[i].ID]; ok {
			questions[i].Options = stripCorrectFlags(opts)
		}
	}

	assignments, err := s.assignments.ListByClassForStudent(ctx, classID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	papers, err := s.statics.PastPapersByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list past papers")
	}
	videos, err := s.statics.VideosByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list videos")
	}
	return &models.ClassResources{
		Questions:   questions,
		Assignments: assignments,
		PastPapers:  papers,
		Videos:      videos,
	}, nil
}

func stripCorrectFlags(options []models.Option) []models.Option {
	out := make([]models.Option, len(options))
	copy(out, options)
	for i := range out {
		out[i].IsCorrect = false
	}
	return out
}
