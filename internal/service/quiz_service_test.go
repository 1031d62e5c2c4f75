package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quizFixture(t *testing.T) (*QuizService, *fakeQuizStore, *model.Lesson) {
	t.Helper()
	quizzes := newFakeQuizStore()
	lessons := newFakeLessonStore()
	svc := NewQuizService(quizzes, lessons)

	lesson := &model.Lesson{CourseID: 1, Title: "vars", SortOrder: 1, ContentType: model.ContentVideo}
	require.NoError(t, lessons.Create(lesson))
	return svc, quizzes, lesson
}

func sampleQuestions() []model.Question {
	return []model.Question{
		{
			Type:           model.QuestionMCQ,
			Prompt:         "p",
			Options:        []string{"a", "b"},
			CorrectAnswers: []string{"a"},
		},
	}
}

func TestQuizCreateChecksLessonOwnership(t *testing.T) {
	svc, _, lesson := quizFixture(t)

	quiz := &model.Quiz{Title: "q", Questions: model.QuestionList(sampleQuestions())}
	require.NoError(t, svc.Create(1, lesson.ID, quiz))
	assert.Equal(t, lesson.ID, quiz.LessonID)
	assert.True(t, quiz.IsActive)
	assert.Equal(t, 1, quiz.Version)

	err := svc.Create(2, lesson.ID, &model.Quiz{Title: "q2"})
	assert.ErrorIs(t, err, util.ErrLessonNotInCourse)
}

func TestQuizUpdateBumpsVersionOnQuestionEdit(t *testing.T) {
	svc, _, lesson := quizFixture(t)
	quiz := &model.Quiz{Title: "q", Questions: model.QuestionList(sampleQuestions())}
	require.NoError(t, svc.Create(1, lesson.ID, quiz))

	updated, err := svc.Update(lesson.ID, quiz.ID, QuizUpdate{Title: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)

	updated, err = svc.Update(lesson.ID, quiz.ID, QuizUpdate{Questions: sampleQuestions()})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
}

func TestQuizGetWrongLesson(t *testing.T) {
	svc, quizzes, lesson := quizFixture(t)
	quiz := &model.Quiz{LessonID: lesson.ID + 100, Title: "q"}
	require.NoError(t, quizzes.Create(quiz))

	_, err := svc.Get(lesson.ID, quiz.ID)
	assert.ErrorIs(t, err, util.ErrQuizNotInLesson)

	_, err = svc.Get(lesson.ID, 999)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestQuizToggleActive(t *testing.T) {
	svc, _, lesson := quizFixture(t)
	quiz := &model.Quiz{Title: "q", Questions: model.QuestionList(sampleQuestions())}
	require.NoError(t, svc.Create(1, lesson.ID, quiz))

	toggled, err := svc.ToggleActive(lesson.ID, quiz.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = svc.ToggleActive(lesson.ID, quiz.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
}

func TestQuizDelete(t *testing.T) {
	svc, quizzes, lesson := quizFixture(t)
	quiz := &model.Quiz{Title: "q", Questions: model.QuestionList(sampleQuestions())}
	require.NoError(t, svc.Create(1, lesson.ID, quiz))

	require.NoError(t, svc.Delete(lesson.ID, quiz.ID))
	_, err := quizzes.FindByID(quiz.ID)
	assert.Error(t, err)
}
