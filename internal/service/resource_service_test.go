package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
	"github.com/Shashika071/SPD-New-Final-sub000/internal/repository"
	appErrors "github.com/Shashika071/SPD-New-Final-sub000/pkg/errors"
)

type mockQuestionRepo struct {
	questions map[string]*models.Question
	options   map[string][]models.Option
	created   []*models.Question
	deleted   []string
}

func (m *mockQuestionRepo) ClassID(ctx context.Context, questionID string) (string, error) {
	if q, ok := m.questions[questionID]; ok {
		return q.ClassID, nil
	}
	return "", sql.ErrNoRows
}

func (m *mockQuestionRepo) FindByID(ctx context.Context, id string) (*models.Question, error) {
	if q, ok := m.questions[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockQuestionRepo) CreateWithOptions(ctx context.Context, question *models.Question, options []models.Option) error {
	question.ID = "q-generated"
	m.created = append(m.created, question)
	if m.options == nil {
		m.options = make(map[string][]models.Option)
	}
	m.options[question.ID] = options
	return nil
}

func (m *mockQuestionRepo) OptionsByQuestion(ctx context.Context, questionID string) ([]models.Option, error) {
	return m.options[questionID], nil
}

func (m *mockQuestionRepo) ListByClass(ctx context.Context, classID string) ([]models.Question, error) {
	out := make([]models.Question, 0)
	for _, q := range m.questions {
		if q.ClassID == classID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (m *mockQuestionRepo) Delete(ctx context.Context, questionID string) error {
	m.deleted = append(m.deleted, questionID)
	return nil
}

type mockAssignmentRepo struct {
	assignments map[string]*models.Assignment
	linked      map[string][]models.AssignmentQuestion
	createdDefs []repository.AssignmentQuestionDef
	deleted     []string
}

func (m *mockAssignmentRepo) ClassID(ctx context.Context, assignmentID string) (string, error) {
	if a, ok := m.assignments[assignmentID]; ok {
		return a.ClassID, nil
	}
	return "", sql.ErrNoRows
}

func (m *mockAssignmentRepo) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAssignmentRepo) CreateWithQuestions(ctx context.Context, assignment *models.Assignment, defs []repository.AssignmentQuestionDef) error {
	assignment.ID = "asg-generated"
	m.createdDefs = defs
	return nil
}

func (m *mockAssignmentRepo) ListByClass(ctx context.Context, classID string) ([]models.Assignment, error) {
	out := make([]models.Assignment, 0)
	for _, a := range m.assignments {
		if a.ClassID == classID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) LinkedQuestions(ctx context.Context, assignmentID string) ([]models.AssignmentQuestion, error) {
	return m.linked[assignmentID], nil
}

func (m *mockAssignmentRepo) Delete(ctx context.Context, assignmentID string) error {
	m.deleted = append(m.deleted, assignmentID)
	return nil
}

type mockStaticRepo struct {
	papers map[string]*models.PastPaper
	videos map[string]*models.Video
}

func (m *mockStaticRepo) CreatePastPaper(ctx context.Context, paper *models.PastPaper) error {
	paper.ID = "pp-generated"
	if m.papers == nil {
		m.papers = make(map[string]*models.PastPaper)
	}
	m.papers[paper.ID] = paper
	return nil
}

func (m *mockStaticRepo) CreateVideo(ctx context.Context, video *models.Video) error {
	video.ID = "vid-generated"
	if m.videos == nil {
		m.videos = make(map[string]*models.Video)
	}
	m.videos[video.ID] = video
	return nil
}

func (m *mockStaticRepo) PastPapersByClass(ctx context.Context, classID string) ([]models.PastPaper, error) {
	out := make([]models.PastPaper, 0)
	for _, p := range m.papers {
		if p.ClassID == classID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockStaticRepo) VideosByClass(ctx context.Context, classID string) ([]models.Video, error) {
	out := make([]models.Video, 0)
	for _, v := range m.videos {
		if v.ClassID == classID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockStaticRepo) PastPaperClassID(ctx context.Context, paperID string) (string, error) {
	if p, ok := m.papers[paperID]; ok {
		return p.ClassID, nil
	}
	return "", sql.ErrNoRows
}

func (m *mockStaticRepo) VideoClassID(ctx context.Context, videoID string) (string, error) {
	if v, ok := m.videos[videoID]; ok {
		return v.ClassID, nil
	}
	return "", sql.ErrNoRows
}

func (m *mockStaticRepo) DeletePastPaper(ctx context.Context, paperID string) error {
	delete(m.papers, paperID)
	return nil
}

func (m *mockStaticRepo) DeleteVideo(ctx context.Context, videoID string) error {
	delete(m.videos, videoID)
	return nil
}

func newResourceService(questions *mockQuestionRepo, assignments *mockAssignmentRepo) *ResourceService {
	return NewResourceService(questions, assignments, &mockStaticRepo{}, &mockOwnerGuard{}, validator.New(), zap.NewNop())
}

func intPtr(v int) *int { return &v }

func TestResourceServiceAddMultipleChoiceQuestion(t *testing.T) {
	questions := &mockQuestionRepo{}
	svc := newResourceService(questions, &mockAssignmentRepo{})

	created, err := svc.AddQuestion(context.Background(), "teacher-1", "class-1", models.AddQuestionRequest{
		Text:             "2 + 2 = ?",
		Type:             models.QuestionMultipleChoice,
		TimeLimitMinutes: intPtr(10),
		Options: []models.OptionInput{
			{Text: "3"},
			{Text: "4", IsCorrect: true},
			{Text: "5"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Points)
	require.Len(t, questions.options["q-generated"], 3)
}

func TestResourceServiceAddQuestionTimeLimitRules(t *testing.T) {
	svc := newResourceService(&mockQuestionRepo{}, &mockAssignmentRepo{})

	_, err := svc.AddQuestion(context.Background(), "teacher-1", "class-1", models.AddQuestionRequest{
		Text: "2 + 2 = ?",
		Type: models.QuestionMultipleChoice,
		Options: []models.OptionInput{
			{Text: "3"},
			{Text: "4", IsCorrect: true},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.AddQuestion(context.Background(), "teacher-1", "class-1", models.AddQuestionRequest{
		Text:             "Explain photosynthesis",
		Type:             models.QuestionEssay,
		TimeLimitMinutes: intPtr(10),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestResourceServiceAddQuestionOptionRules(t *testing.T) {
	svc := newResourceService(&mockQuestionRepo{}, &mockAssignmentRepo{})

	_, err := svc.AddQuestion(context.Background(), "teacher-1", "class-1", models.AddQuestionRequest{
		Text:             "2 + 2 = ?",
		Type:             models.QuestionMultipleChoice,
		TimeLimitMinutes: intPtr(10),
		Options:          []models.OptionInput{{Text: "4", IsCorrect: true}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.AddQuestion(context.Background(), "teacher-1", "class-1", models.AddQuestionRequest{
		Text:             "2 + 2 = ?",
		Type:             models.QuestionMultipleChoice,
		TimeLimitMinutes: intPtr(10),
		Options: []models.OptionInput{
			{Text: "3", IsCorrect: true},
			{Text: "4", IsCorrect: true},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.AddQuestion(context.Background(), "teacher-1", "class-1", models.AddQuestionRequest{
		Text: "Explain photosynthesis",
		Type: models.QuestionEssay,
		Options: []models.OptionInput{
			{Text: "stray", IsCorrect: true},
			{Text: "options"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestResourceServiceAddFreeTextQuestion(t *testing.T) {
	questions := &mockQuestionRepo{}
	svc := newResourceService(questions, &mockAssignmentRepo{})

	created, err := svc.AddQuestion(context.Background(), "teacher-1", "class-1", models.AddQuestionRequest{
		Text:   "Explain photosynthesis",
		Type:   models.QuestionEssay,
		Points: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, created.Points)
	assert.Nil(t, created.TimeLimitMinutes)
	assert.Empty(t, questions.options["q-generated"])
}

func TestResourceServiceCreateAssignmentDefaults(t *testing.T) {
	assignments := &mockAssignmentRepo{linked: map[string][]models.AssignmentQuestion{}}
	svc := newResourceService(&mockQuestionRepo{}, assignments)

	detail, err := svc.CreateAssignment(context.Background(), "teacher-1", "class-1", models.CreateAssignmentRequest{
		Title: "Term paper",
		Questions: []models.AssignmentQuestionInput{
			{Text: "Describe the water cycle"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, detail.TotalPoints)
	require.Len(t, assignments.createdDefs, 1)
	assert.Equal(t, models.QuestionShortAnswer, assignments.createdDefs[0].Question.Type)
	assert.Equal(t, 1, assignments.createdDefs[0].Points)
}

func TestResourceServiceCreateAssignmentRejectsOptionsOnEssay(t *testing.T) {
	svc := newResourceService(&mockQuestionRepo{}, &mockAssignmentRepo{})

	_, err := svc.CreateAssignment(context.Background(), "teacher-1", "class-1", models.CreateAssignmentRequest{
		Title: "Term paper",
		Questions: []models.AssignmentQuestionInput{
			{Text: "Describe the water cycle", Options: []models.OptionInput{{Text: "a", IsCorrect: true}, {Text: "b"}}},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestResourceServiceDeleteQuestionResolvesOwnership(t *testing.T) {
	questions := &mockQuestionRepo{questions: map[string]*models.Question{
		"q-1": {ID: "q-1", ClassID: "class-1"},
	}}
	svc := newResourceService(questions, &mockAssignmentRepo{})

	require.NoError(t, svc.DeleteQuestion(context.Background(), "teacher-1", "q-1"))
	assert.Equal(t, []string{"q-1"}, questions.deleted)

	err := svc.DeleteQuestion(context.Background(), "teacher-1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestResourceServiceListQuestionsAttachesOptions(t *testing.T) {
	questions := &mockQuestionRepo{
		questions: map[string]*models.Question{
			"q-1": {ID: "q-1", ClassID: "class-1", Type: models.QuestionMultipleChoice},
		},
		options: map[string][]models.Option{
			"q-1": {{ID: "opt-1", QuestionID: "q-1", Text: "4", IsCorrect: true}},
		},
	}
	svc := newResourceService(questions, &mockAssignmentRepo{})

	listed, err := svc.ListQuestions(context.Background(), "teacher-1", "class-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Options, 1)
}

func TestResourceServicePastPapersAndVideos(t *testing.T) {
	statics := &mockStaticRepo{}
	svc := NewResourceService(&mockQuestionRepo{}, &mockAssignmentRepo{}, statics, &mockOwnerGuard{}, validator.New(), zap.NewNop())

	paper, err := svc.AddPastPaper(context.Background(), "teacher-1", "class-1", models.AddPastPaperRequest{
		Title: "2025 Final", PaperURL: "http://files.local/2025.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "class-1", paper.ClassID)

	video, err := svc.AddVideo(context.Background(), "teacher-1", "class-1", models.AddVideoRequest{
		Title: "Lesson 1", VideoURL: "http://videos.local/1",
	})
	require.NoError(t, err)

	papers, err := svc.ListPastPapers(context.Background(), "teacher-1", "class-1")
	require.NoError(t, err)
	assert.Len(t, papers, 1)

	require.NoError(t, svc.DeleteVideo(context.Background(), "teacher-1", video.ID))
	videos, err := svc.ListVideos(context.Background(), "teacher-1", "class-1")
	require.NoError(t, err)
	assert.Empty(t, videos)
}
