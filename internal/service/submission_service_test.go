package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/repository"
	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
)

type mockSubmissionRepo struct {
	submissions map[string]*models.AssignmentSubmission
	owners      map[string]string
	answers     map[string][]models.AssignmentAnswer
	details     []models.SubmissionDetail
	createErr   error
	graded      []string
}

func (m *mockSubmissionRepo) CreateWithAnswers(ctx context.Context, submission *models.AssignmentSubmission, answers []models.AssignmentAnswer) error {
	if m.createErr != nil {
		return m.createErr
	}
	submission.ID = "sub-generated"
	submission.SubmittedAt = time.Now()
	if m.submissions == nil {
		m.submissions = make(map[string]*models.AssignmentSubmission)
	}
	m.submissions[submission.ID] = submission
	if m.answers == nil {
		m.answers = make(map[string][]models.AssignmentAnswer)
	}
	m.answers[submission.ID] = answers
	return nil
}

func (m *mockSubmissionRepo) FindByID(ctx context.Context, id string) (*models.AssignmentSubmission, error) {
	if sub, ok := m.submissions[id]; ok {
		cp := *sub
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubmissionRepo) TeacherID(ctx context.Context, submissionID string) (string, error) {
	if owner, ok := m.owners[submissionID]; ok {
		return owner, nil
	}
	return "", sql.ErrNoRows
}

func (m *mockSubmissionRepo) UpdateGrade(ctx context.Context, id string, grade *float64, feedback *string, status models.SubmissionStatus) (bool, error) {
	sub, ok := m.submissions[id]
	if !ok || sub.Status != models.SubmissionPending {
		return false, nil
	}
	m.graded = append(m.graded, id)
	sub.Grade = grade
	sub.Feedback = feedback
	sub.Status = status
	return true, nil
}

func (m *mockSubmissionRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]models.SubmissionDetail, error) {
	return m.details, nil
}

func (m *mockSubmissionRepo) AnswersBySubmission(ctx context.Context, submissionID string) ([]models.AssignmentAnswer, error) {
	return m.answers[submissionID], nil
}

type mockAttemptRepo struct {
	attempts  map[string]*models.QuizAttempt
	createErr error
}

func (m *mockAttemptRepo) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	if m.createErr != nil {
		return m.createErr
	}
	attempt.ID = "att-generated"
	attempt.AttemptedAt = time.Now()
	if m.attempts == nil {
		m.attempts = make(map[string]*models.QuizAttempt)
	}
	key := attempt.QuestionID + "/" + attempt.StudentID
	if _, exists := m.attempts[key]; exists {
		return repository.ErrDuplicate
	}
	m.attempts[key] = attempt
	return nil
}

func (m *mockAttemptRepo) FindByQuestionAndStudent(ctx context.Context, questionID, studentID string) (*models.QuizAttempt, error) {
	if attempt, ok := m.attempts[questionID+"/"+studentID]; ok {
		cp := *attempt
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockAnswerRepo struct {
	byStudent map[string]*models.QuestionAnswer
	byID      map[string]*models.QuestionAnswer
	owners    map[string]string
	details   []models.AnswerDetail
	updateOK  bool
	updated   []string
	gradedIDs []string
}

func (m *mockAnswerRepo) FindByQuestionAndStudent(ctx context.Context, questionID, studentID string) (*models.QuestionAnswer, error) {
	if answer, ok := m.byStudent[questionID+"/"+studentID]; ok {
		cp := *answer
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAnswerRepo) FindByID(ctx context.Context, id string) (*models.QuestionAnswer, error) {
	if answer, ok := m.byID[id]; ok {
		cp := *answer
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAnswerRepo) Create(ctx context.Context, answer *models.QuestionAnswer) error {
	answer.ID = "ans-generated"
	answer.CreatedAt = time.Now()
	if m.byStudent == nil {
		m.byStudent = make(map[string]*models.QuestionAnswer)
	}
	m.byStudent[answer.QuestionID+"/"+answer.StudentID] = answer
	return nil
}

func (m *mockAnswerRepo) UpdateTextWhilePending(ctx context.Context, id, text string) (bool, error) {
	m.updated = append(m.updated, id)
	return m.updateOK, nil
}

func (m *mockAnswerRepo) TeacherID(ctx context.Context, answerID string) (string, error) {
	if owner, ok := m.owners[answerID]; ok {
		return owner, nil
	}
	return "", sql.ErrNoRows
}

func (m *mockAnswerRepo) Grade(ctx context.Context, id string, marks *float64, feedback *string) error {
	m.gradedIDs = append(m.gradedIDs, id)
	if answer, ok := m.byID[id]; ok {
		answer.Marks = marks
		answer.Feedback = feedback
		answer.Status = models.SubmissionGraded
	}
	return nil
}

func (m *mockAnswerRepo) ListByQuestion(ctx context.Context, questionID string) ([]models.AnswerDetail, error) {
	return m.details, nil
}

type mockStudentQuestionRepo struct {
	questions map[string]*models.Question
	options   map[string][]models.Option
	correct   map[string]bool
	listed    []models.StudentQuestion
}

func (m *mockStudentQuestionRepo) ClassID(ctx context.Context, questionID string) (string, error) {
	if q, ok := m.questions[questionID]; ok {
		return q.ClassID, nil
	}
	return "", sql.ErrNoRows
}

func (m *mockStudentQuestionRepo) FindByID(ctx context.Context, id string) (*models.Question, error) {
	if q, ok := m.questions[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentQuestionRepo) OptionsByQuestion(ctx context.Context, questionID string) ([]models.Option, error) {
	return m.options[questionID], nil
}

func (m *mockStudentQuestionRepo) OptionsByQuestions(ctx context.Context, questionIDs []string) (map[string][]models.Option, error) {
	out := make(map[string][]models.Option)
	for _, id := range questionIDs {
		if opts, ok := m.options[id]; ok {
			out[id] = opts
		}
	}
	return out, nil
}

func (m *mockStudentQuestionRepo) IsCorrectOption(ctx context.Context, questionID, optionID string) (bool, error) {
	correct, ok := m.correct[questionID+"/"+optionID]
	if !ok {
		return false, sql.ErrNoRows
	}
	return correct, nil
}

func (m *mockStudentQuestionRepo) ListByClassForStudent(ctx context.Context, classID, studentID string) ([]models.StudentQuestion, error) {
	return m.listed, nil
}

type mockStudentAssignmentRepo struct {
	assignments map[string]*models.Assignment
	linked      map[string][]models.AssignmentQuestion
	listed      []models.StudentAssignment
	submitted   map[string]bool
}

func (m *mockStudentAssignmentRepo) ClassID(ctx context.Context, assignmentID string) (string, error) {
	if a, ok := m.assignments[assignmentID]; ok {
		return a.ClassID, nil
	}
	return "", sql.ErrNoRows
}

func (m *mockStudentAssignmentRepo) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentAssignmentRepo) ListByClassForStudent(ctx context.Context, classID, studentID string) ([]models.StudentAssignment, error) {
	return m.listed, nil
}

func (m *mockStudentAssignmentRepo) LinkedQuestions(ctx context.Context, assignmentID string) ([]models.AssignmentQuestion, error) {
	return m.linked[assignmentID], nil
}

func (m *mockStudentAssignmentRepo) HasSubmission(ctx context.Context, assignmentID, studentID string) (bool, error) {
	return m.submitted[assignmentID+"/"+studentID], nil
}

type mockResourceReader struct {
	papers []models.PastPaper
	videos []models.Video
}

func (m *mockResourceReader) PastPapersByClass(ctx context.Context, classID string) ([]models.PastPaper, error) {
	return m.papers, nil
}

func (m *mockResourceReader) VideosByClass(ctx context.Context, classID string) ([]models.Video, error) {
	return m.videos, nil
}

type mockGate struct {
	allowed map[string]bool
}

func (m *mockGate) RequireActiveEnrollment(ctx context.Context, studentID, classID string) error {
	if m.allowed[studentID+"/"+classID] {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "active enrollment required")
}

type mockPaidLister struct {
	refs []models.ClassRef
}

func (m *mockPaidLister) PaidClassRefs(ctx context.Context, studentID string) ([]models.ClassRef, error) {
	return m.refs, nil
}

type submissionFixture struct {
	submissions *mockSubmissionRepo
	attempts    *mockAttemptRepo
	answers     *mockAnswerRepo
	questions   *mockStudentQuestionRepo
	assignments *mockStudentAssignmentRepo
	statics     *mockResourceReader
	gate        *mockGate
	svc         *SubmissionService
}

func newSubmissionFixture() *submissionFixture {
	f := &submissionFixture{
		submissions: &mockSubmissionRepo{},
		attempts:    &mockAttemptRepo{},
		answers:     &mockAnswerRepo{},
		questions:   &mockStudentQuestionRepo{},
		assignments: &mockStudentAssignmentRepo{},
		statics:     &mockResourceReader{},
		gate:        &mockGate{allowed: map[string]bool{"stu-1/class-1": true}},
	}
	f.svc = NewSubmissionService(
		f.submissions, f.attempts, f.answers, f.questions, f.assignments,
		f.statics, &mockPaidLister{}, f.gate, &mockOwnerGuard{},
		nil, validator.New(), zap.NewNop(),
	)
	return f
}

func mcQuestion(id, classID string, points int) *models.Question {
	return &models.Question{ID: id, ClassID: classID, Text: "2 + 2 = ?", Type: models.QuestionMultipleChoice, Points: points}
}

func TestSubmissionServiceAttemptQuizScoresFullPoints(t *testing.T) {
	f := newSubmissionFixture()
	f.questions.questions = map[string]*models.Question{"q-1": mcQuestion("q-1", "class-1", 5)}
	f.questions.correct = map[string]bool{"q-1/opt-1": true}

	attempt, err := f.svc.AttemptQuiz(context.Background(), "stu-1", models.AttemptQuizRequest{QuestionID: "q-1", OptionID: "opt-1"})
	require.NoError(t, err)
	assert.True(t, attempt.IsCorrect)
	assert.Equal(t, 5, attempt.Score)
}

func TestSubmissionServiceAttemptQuizWrongAnswerScoresZero(t *testing.T) {
	f := newSubmissionFixture()
	f.questions.questions = map[string]*models.Question{"q-1": mcQuestion("q-1", "class-1", 5)}
	f.questions.correct = map[string]bool{"q-1/opt-2": false}

	attempt, err := f.svc.AttemptQuiz(context.Background(), "stu-1", models.AttemptQuizRequest{QuestionID: "q-1", OptionID: "opt-2"})
	require.NoError(t, err)
	assert.False(t, attempt.IsCorrect)
	assert.Zero(t, attempt.Score)
}

func TestSubmissionServiceAttemptQuizOnlyOnce(t *testing.T) {
	f := newSubmissionFixture()
	f.questions.questions = map[string]*models.Question{"q-1": mcQuestion("q-1", "class-1", 5)}
	f.questions.correct = map[string]bool{"q-1/opt-1": true}

	_, err := f.svc.AttemptQuiz(context.Background(), "stu-1", models.AttemptQuizRequest{QuestionID: "q-1", OptionID: "opt-1"})
	require.NoError(t, err)

	_, err = f.svc.AttemptQuiz(context.Background(), "stu-1", models.AttemptQuizRequest{QuestionID: "q-1", OptionID: "opt-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceAttemptQuizForeignOption(t *testing.T) {
	f := newSubmissionFixture()
	f.questions.questions = map[string]*models.Question{"q-1": mcQuestion("q-1", "class-1", 5)}
	f.questions.correct = map[string]bool{}

	_, err := f.svc.AttemptQuiz(context.Background(), "stu-1", models.AttemptQuizRequest{QuestionID: "q-1", OptionID: "opt-other"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceAttemptQuizRequiresEnrollment(t *testing.T) {
	f := newSubmissionFixture()
	f.questions.questions = map[string]*models.Question{"q-1": mcQuestion("q-1", "class-2", 5)}
	f.questions.correct = map[string]bool{"q-1/opt-1": true}

	_, err := f.svc.AttemptQuiz(context.Background(), "stu-1", models.AttemptQuizRequest{QuestionID: "q-1", OptionID: "opt-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceAttemptQuizRejectsFreeText(t *testing.T) {
	f := newSubmissionFixture()
	f.questions.questions = map[string]*models.Question{
		"q-1": {ID: "q-1", ClassID: "class-1", Type: models.QuestionEssay},
	}

	_, err := f.svc.AttemptQuiz(context.Background(), "stu-1", models.AttemptQuizRequest{QuestionID: "q-1", OptionID: "opt-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceSubmitAssignment(t *testing.T) {
	f := newSubmissionFixture()
	f.assignments.assignments = map[string]*models.Assignment{
		"asg-1": {ID: "asg-1", ClassID: "class-1", Title: "Term paper"},
	}
	f.assignments.linked = map[string][]models.AssignmentQuestion{
		"asg-1": {{Question: models.Question{ID: "q-1"}}},
	}

	text := "the water cycle"
	doc := "/uploads/doc-1.pdf"
	submission, err := f.svc.SubmitAssignment(context.Background(), "stu-1", models.SubmitAssignmentRequest{
		AssignmentID: "asg-1",
		Answers:      []models.SubmissionAnswerInput{{QuestionID: "q-1", AnswerText: &text}},
		DocumentURL:  &doc,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionPending, submission.Status)
	require.NotNil(t, submission.DocumentURL)
	assert.Equal(t, doc, *submission.DocumentURL)

	answers := f.submissions.answers["sub-generated"]
	require.Len(t, answers, 1)
	require.NotNil(t, answers[0].DocumentURL)
	assert.Equal(t, doc, *answers[0].DocumentURL)
}

func TestSubmissionServiceSubmitAssignmentUnknownQuestion(t *testing.T) {
	f := newSubmissionFixture()
	f.assignments.assignments = map[string]*models.Assignment{
		"asg-1": {ID: "asg-1", ClassID: "class-1"},
	}
	f.assignments.linked = map[string][]models.AssignmentQuestion{
		"asg-1": {{Question: models.Question{ID: "q-1"}}},
	}

	text := "stray"
	_, err := f.svc.SubmitAssignment(context.Background(), "stu-1", models.SubmitAssignmentRequest{
		AssignmentID: "asg-1",
		Answers:      []models.SubmissionAnswerInput{{QuestionID: "q-other", AnswerText: &text}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceSubmitAssignmentOnlyOnce(t *testing.T) {
	f := newSubmissionFixture()
	f.assignments.assignments = map[string]*models.Assignment{
		"asg-1": {ID: "asg-1", ClassID: "class-1"},
	}
	f.submissions.createErr = repository.ErrDuplicate

	_, err := f.svc.SubmitAssignment(context.Background(), "stu-1", models.SubmitAssignmentRequest{AssignmentID: "asg-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceSubmitAnswerCreatesPending(t *testing.T) {
	f := newSubmissionFixture()
	f.questions.questions = map[string]*models.Question{
		"q-1": {ID: "q-1", ClassID: "class-1", Type: models.QuestionEssay},
	}

	answer, err := f.svc.SubmitQuestionAnswer(context.Background(), "stu-1", "q-1", models.SubmitAnswerRequest{AnswerText: "first draft"})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionPending, answer.Status)
	assert.Equal(t, "first draft", answer.AnswerText)
}

func TestSubmissionServiceSubmitAnswerRevisesWhilePending(t *testing.T) {
	f := newSubmissionFixture()
	f.questions.questions = map[string]*models.Question{
		"q-1": {ID: "q-1", ClassID: "class-1", Type: models.QuestionEssay},
	}
	f.answers.byStudent = map[string]*models.QuestionAnswer{
		"q-1/stu-1": {ID: "ans-1", QuestionID: "q-1", StudentID: "stu-1", AnswerText: "first draft", Status: models.SubmissionPending},
	}
	f.answers.updateOK = true

	answer, err := f.svc.SubmitQuestionAnswer(context.Background(), "stu-1", "q-1", models.SubmitAnswerRequest{AnswerText: "second draft"})
	require.NoError(t, err)
	assert.Equal(t, "second draft", answer.AnswerText)
	assert.Equal(t, []string{"ans-1"}, f.answers.updated)
}

func TestSubmissionServiceSubmitAnswerFrozenOnceGraded(t *testing.T) {
	f := newSubmissionFixture()
	f.questions.questions = map[string]*models.Question{
		"q-1": {ID: "q-1", ClassID: "class-1", Type: models.QuestionEssay},
	}
	f.answers.byStudent = map[string]*models.QuestionAnswer{
		"q-1/stu-1": {ID: "ans-1", QuestionID: "q-1", StudentID: "stu-1", Status: models.SubmissionGraded},
	}

	_, err := f.svc.SubmitQuestionAnswer(context.Background(), "stu-1", "q-1", models.SubmitAnswerRequest{AnswerText: "too late"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrFinalized.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.answers.updated)
}

func TestSubmissionServiceSubmitAnswerLosesRaceWithGrading(t *testing.T) {
	f := newSubmissionFixture()
	f.questions.questions = map[string]*models.Question{
		"q-1": {ID: "q-1", ClassID: "class-1", Type: models.QuestionEssay},
	}
	f.answers.byStudent = map[string]*models.QuestionAnswer{
		"q-1/stu-1": {ID: "ans-1", QuestionID: "q-1", StudentID: "stu-1", Status: models.SubmissionPending},
	}
	f.answers.updateOK = false

	_, err := f.svc.SubmitQuestionAnswer(context.Background(), "stu-1", "q-1", models.SubmitAnswerRequest{AnswerText: "revision"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrFinalized.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceSubmitAnswerRejectsMultipleChoice(t *testing.T) {
	f := newSubmissionFixture()
	f.questions.questions = map[string]*models.Question{"q-1": mcQuestion("q-1", "class-1", 5)}

	_, err := f.svc.SubmitQuestionAnswer(context.Background(), "stu-1", "q-1", models.SubmitAnswerRequest{AnswerText: "essay on a quiz"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceGradeSubmissionDefaultsToGraded(t *testing.T) {
	f := newSubmissionFixture()
	f.submissions.owners = map[string]string{"sub-1": "teacher-1"}
	f.submissions.submissions = map[string]*models.AssignmentSubmission{
		"sub-1": {ID: "sub-1", Status: models.SubmissionPending},
	}

	grade := 88.0
	graded, err := f.svc.GradeSubmission(context.Background(), "teacher-1", "sub-1", models.GradeSubmissionRequest{Grade: &grade})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionGraded, graded.Status)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 88.0, *graded.Grade)
}

func TestSubmissionServiceGradeSubmissionTerminal(t *testing.T) {
	f := newSubmissionFixture()
	f.submissions.owners = map[string]string{"sub-1": "teacher-1"}
	f.submissions.submissions = map[string]*models.AssignmentSubmission{
		"sub-1": {ID: "sub-1", Status: models.SubmissionGraded},
	}

	grade := 70.0
	_, err := f.svc.GradeSubmission(context.Background(), "teacher-1", "sub-1", models.GradeSubmissionRequest{Grade: &grade})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrFinalized.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceGradeSubmissionForeignTeacher(t *testing.T) {
	f := newSubmissionFixture()
	f.submissions.owners = map[string]string{"sub-1": "teacher-1"}

	_, err := f.svc.GradeSubmission(context.Background(), "teacher-2", "sub-1", models.GradeSubmissionRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.submissions.graded)
}

func TestSubmissionServiceGradeAnswer(t *testing.T) {
	f := newSubmissionFixture()
	f.answers.owners = map[string]string{"ans-1": "teacher-1"}
	f.answers.byID = map[string]*models.QuestionAnswer{
		"ans-1": {ID: "ans-1", Status: models.SubmissionPending},
	}

	marks := 9.0
	graded, err := f.svc.GradeAnswer(context.Background(), "teacher-1", "ans-1", models.GradeAnswerRequest{Marks: &marks})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionGraded, graded.Status)

	_, err = f.svc.GradeAnswer(context.Background(), "teacher-2", "ans-1", models.GradeAnswerRequest{Marks: &marks})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceGetQuestionForStudentHidesCorrectFlags(t *testing.T) {
	f := newSubmissionFixture()
	question := mcQuestion("q-1", "class-1", 5)
	f.questions.questions = map[string]*models.Question{"q-1": question}
	f.questions.options = map[string][]models.Option{
		"q-1": {
			{ID: "opt-1", QuestionID: "q-1", Text: "3"},
			{ID: "opt-2", QuestionID: "q-1", Text: "4", IsCorrect: true},
		},
	}

	view, err := f.svc.GetQuestionForStudent(context.Background(), "stu-1", "q-1")
	require.NoError(t, err)
	require.Len(t, view.Options, 2)
	for _, opt := range view.Options {
		assert.False(t, opt.IsCorrect)
	}
	assert.Nil(t, view.Attempt)

	assert.True(t, f.questions.options["q-1"][1].IsCorrect)
}

func TestSubmissionServiceGetAssignmentForStudent(t *testing.T) {
	f := newSubmissionFixture()
	f.assignments.assignments = map[string]*models.Assignment{
		"asg-1": {ID: "asg-1", ClassID: "class-1", Title: "Term paper"},
	}
	f.assignments.submitted = map[string]bool{"asg-1/stu-1": true}

	assignment, err := f.svc.GetAssignmentForStudent(context.Background(), "stu-1", "asg-1")
	require.NoError(t, err)
	assert.Equal(t, "Term paper", assignment.Title)
	assert.True(t, assignment.Submitted)

	_, err = f.svc.GetAssignmentForStudent(context.Background(), "stu-2", "asg-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = f.svc.GetAssignmentForStudent(context.Background(), "stu-1", "asg-missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceGetAssignmentQuestionsForStudent(t *testing.T) {
	f := newSubmissionFixture()
	f.assignments.assignments = map[string]*models.Assignment{
		"asg-1": {ID: "asg-1", ClassID: "class-1"},
	}
	mc := *mcQuestion("q-1", "class-1", 5)
	f.assignments.linked = map[string][]models.AssignmentQuestion{
		"asg-1": {
			{Question: mc, AssignmentPoints: 10},
			{Question: models.Question{ID: "q-2", ClassID: "class-1", Type: models.QuestionShortAnswer}, AssignmentPoints: 5},
		},
	}
	f.questions.options = map[string][]models.Option{
		"q-1": {{ID: "opt-1", Text: "4", IsCorrect: true}},
	}

	questions, err := f.svc.GetAssignmentQuestionsForStudent(context.Background(), "stu-1", "asg-1")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, 10, questions[0].AssignmentPoints)
	require.Len(t, questions[0].Options, 1)
	assert.False(t, questions[0].Options[0].IsCorrect)
	assert.Empty(t, questions[1].Options)
}

func TestSubmissionServiceGetClassResourcesStripsFlagsAndGates(t *testing.T) {
	f := newSubmissionFixture()
	f.questions.listed = []models.StudentQuestion{
		{Question: *mcQuestion("q-1", "class-1", 5), Attempted: true},
	}
	f.questions.options = map[string][]models.Option{
		"q-1": {{ID: "opt-1", Text: "4", IsCorrect: true}},
	}
	f.statics.papers = []models.PastPaper{{ID: "pp-1", ClassID: "class-1", Title: "2025 Final"}}

	resources, err := f.svc.GetClassResources(context.Background(), "stu-1", "class-1")
	require.NoError(t, err)
	require.Len(t, resources.Questions, 1)
	require.Len(t, resources.Questions[0].Options, 1)
	assert.False(t, resources.Questions[0].Options[0].IsCorrect)
	assert.Len(t, resources.PastPapers, 1)

	_, err = f.svc.GetClassResources(context.Background(), "stu-2", "class-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceExportSubmissionsCSV(t *testing.T) {
	f := newSubmissionFixture()
	f.assignments.assignments = map[string]*models.Assignment{
		"asg-1": {ID: "asg-1", ClassID: "class-1", Title: "Term paper"},
	}
	grade := 90.0
	f.submissions.details = []models.SubmissionDetail{
		{
			AssignmentSubmission: models.AssignmentSubmission{ID: "sub-1", Status: models.SubmissionGraded, Grade: &grade, SubmittedAt: time.Now()},
			StudentName:          "Student One",
		},
	}

	payload, contentType, err := f.svc.ExportSubmissions(context.Background(), "teacher-1", "asg-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "Student,Status,Grade,Feedback,Submitted At"))
	assert.Contains(t, body, "Student One")
	assert.Contains(t, body, "90.00")
}

func TestSubmissionServiceExportSubmissionsBadFormat(t *testing.T) {
	f := newSubmissionFixture()
	f.assignments.assignments = map[string]*models.Assignment{
		"asg-1": {ID: "asg-1", ClassID: "class-1"},
	}

	_, _, err := f.svc.ExportSubmissions(context.Background(), "teacher-1", "asg-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
