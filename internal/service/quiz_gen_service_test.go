package service

import (
	"context"
	"errors"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	response string
	err      error

	lastPrompt string
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	return s.response, s.err
}

const validQuizJSON = `[
  {
    "type": "mcq",
    "prompt": "Which keyword declares a variable?",
    "options": ["var", "int", "def", "dim"],
    "correctAnswers": ["var"],
    "explanation": "var declares a variable."
  },
  {
    "type": "truefalse",
    "prompt": "Slices have a fixed length.",
    "correctAnswers": ["false"]
  }
]`

func quizGenFixture(t *testing.T, gen TextGenerator) (*QuizGenService, *fakeQuizStore, *model.Lesson) {
	t.Helper()
	quizzes := newFakeQuizStore()
	lessons := newFakeLessonStore()
	lesson := &model.Lesson{
		CourseID:    1,
		Title:       "Variables",
		SortOrder:   1,
		ContentType: model.ContentVideo,
	}
	require.NoError(t, lessons.Create(lesson))
	return NewQuizGenService(gen, quizzes, lessons), quizzes, lesson
}

func TestGeneratePersistsValidQuiz(t *testing.T) {
	gen := &stubGenerator{response: validQuizJSON}
	svc, quizzes, lesson := quizGenFixture(t, gen)

	quiz, err := svc.Generate(context.Background(), 1, lesson.ID, "", 2)
	require.NoError(t, err)

	assert.Equal(t, "AI-Generated Quiz for Variables", quiz.Title)
	assert.True(t, quiz.GeneratedByAI)
	assert.True(t, quiz.IsActive)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, model.QuestionMCQ, quiz.Questions[0].Type)

	stored, err := quizzes.FindByID(quiz.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Questions, 2)
}

func TestGenerateAcceptsFencedJSON(t *testing.T) {
	gen := &stubGenerator{response: "```json\n" + validQuizJSON + "\n```"}
	svc, _, lesson := quizGenFixture(t, gen)

	quiz, err := svc.Generate(context.Background(), 1, lesson.ID, "Custom Title", 2)
	require.NoError(t, err)
	assert.Equal(t, "Custom Title", quiz.Title)
	assert.Len(t, quiz.Questions, 2)
}

func TestGenerateRejectsNonJSON(t *testing.T) {
	gen := &stubGenerator{response: "Sure! Here are some questions for you."}
	svc, quizzes, lesson := quizGenFixture(t, gen)

	_, err := svc.Generate(context.Background(), 1, lesson.ID, "", 2)
	assert.ErrorIs(t, err, util.ErrAIResponseParse)
	assert.Empty(t, quizzes.quizzes)
}

func TestGenerateRejectsInvalidQuestions(t *testing.T) {
	cases := map[string]string{
		"empty list":         `[]`,
		"missing prompt":     `[{"type":"mcq","options":["a","b"],"correctAnswers":["a"]}]`,
		"single option mcq":  `[{"type":"mcq","prompt":"p","options":["a"],"correctAnswers":["a"]}]`,
		"no correct answers": `[{"type":"short","prompt":"p","correctAnswers":[]}]`,
		"unknown type":       `[{"type":"essay","prompt":"p","correctAnswers":["a"]}]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			gen := &stubGenerator{response: payload}
			svc, quizzes, lesson := quizGenFixture(t, gen)

			_, err := svc.Generate(context.Background(), 1, lesson.ID, "", 2)
			assert.ErrorIs(t, err, util.ErrAIResponseParse)
			assert.Empty(t, quizzes.quizzes)
		})
	}
}

func TestGenerateDefaultsMissingType(t *testing.T) {
	gen := &stubGenerator{response: `[{"prompt":"p","options":["a","b"],"correctAnswers":["a"]}]`}
	svc, _, lesson := quizGenFixture(t, gen)

	quiz, err := svc.Generate(context.Background(), 1, lesson.ID, "", 1)
	require.NoError(t, err)
	assert.Equal(t, model.QuestionMCQ, quiz.Questions[0].Type)
}

func TestGenerateClampsQuestionCount(t *testing.T) {
	gen := &stubGenerator{response: validQuizJSON}
	svc, _, lesson := quizGenFixture(t, gen)

	_, err := svc.Generate(context.Background(), 1, lesson.ID, "", 500)
	require.NoError(t, err)
	assert.Contains(t, gen.lastPrompt, "20 questions")

	_, _ = svc.Generate(context.Background(), 1, lesson.ID, "", 0)
	assert.Contains(t, gen.lastPrompt, "5 questions")
}

func TestSetGeneratorSwapsBackend(t *testing.T) {
	old := &stubGenerator{err: errors.New("decommissioned")}
	svc, _, lesson := quizGenFixture(t, old)

	replacement := &stubGenerator{response: validQuizJSON}
	svc.SetGenerator(replacement)

	quiz, err := svc.Generate(context.Background(), 1, lesson.ID, "", 2)
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 2)
	assert.Empty(t, old.lastPrompt)
}

func TestGenerateProviderErrorPassesThrough(t *testing.T) {
	wantErr := errors.New("upstream timeout")
	gen := &stubGenerator{err: wantErr}
	svc, quizzes, lesson := quizGenFixture(t, gen)

	_, err := svc.Generate(context.Background(), 1, lesson.ID, "", 2)
	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, quizzes.quizzes)
}

func TestGenerateUnknownLesson(t *testing.T) {
	gen := &stubGenerator{response: validQuizJSON}
	svc, _, _ := quizGenFixture(t, gen)

	_, err := svc.Generate(context.Background(), 1, 999, "", 2)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}
