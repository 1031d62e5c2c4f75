package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	defaultQuestionCount = 5
	maxQuestionCount     = 20
)

// QuizGenService builds quizzes from lesson material with a language
// model and persists the result like any hand-authored quiz.
type QuizGenService struct {
	mu        sync.RWMutex
	generator TextGenerator

	Quizzes QuizStore
	Lessons LessonStore
}

func NewQuizGenService(generator TextGenerator, quizzes QuizStore, lessons LessonStore) *QuizGenService {
	return &QuizGenService{
		generator: generator,
		Quizzes:   quizzes,
		Lessons:   lessons,
	}
}

// SetGenerator swaps the model backend on a config reload. Generations
// already in flight keep the one they started with.
func (s *QuizGenService) SetGenerator(generator TextGenerator) {
	s.mu.Lock()
	s.generator = generator
	s.mu.Unlock()
}

func (s *QuizGenService) textGenerator() TextGenerator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generator
}

// Generate asks the model for numQuestions questions on the lesson topic
// and stores the quiz only after the response validates. A malformed
// model response leaves no partial quiz behind.
func (s *QuizGenService) Generate(ctx context.Context, courseID, lessonID uint, title string, numQuestions int) (*model.Quiz, error) {
	lesson, err := s.Lessons.FindByIDAndCourse(lessonID, courseID)
	if err != nil {
		return nil, mapNotFound(err, util.ErrLessonNotFound)
	}

	if numQuestions <= 0 {
		numQuestions = defaultQuestionCount
	}
	if numQuestions > maxQuestionCount {
		numQuestions = maxQuestionCount
	}

	prompt := buildQuizPrompt(lesson, numQuestions)
	raw, err := s.textGenerator().GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	questions, err := ParseGeneratedQuestions(raw)
	if err != nil {
		logger.Log.Warn("discarding unparseable model output",
			zap.Uint("lessonId", lessonID),
			zap.Error(err))
		return nil, err
	}

	if title == "" {
		title = "AI-Generated Quiz for " + lesson.Title
	}
	quiz := &model.Quiz{
		LessonID:      lessonID,
		Title:         title,
		Questions:     questions,
		GeneratedByAI: true,
		Version:       1,
		IsActive:      true,
	}
	if err := s.Quizzes.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func buildQuizPrompt(lesson *model.Lesson, numQuestions int) string {
	topic := lesson.Title
	if lesson.ContentTitle != "" {
		topic = fmt.Sprintf("%s (%s)", lesson.Title, lesson.ContentTitle)
	}
	return fmt.Sprintf(`Generate a quiz with %d questions about the topic "%s".
Respond with a JSON array only, no prose. Each element must have:
  "type": one of "mcq", "truefalse", "short"
  "prompt": the question text
  "options": for mcq, an array of at least 2 answer options
  "correctAnswers": an array of the correct answer strings (for mcq these must match options exactly)
  "explanation": a short explanation of the answer
For truefalse questions the correct answer is "true" or "false".`, numQuestions, topic)
}

// ParseGeneratedQuestions decodes the model output into questions. Code
// fences around the JSON are tolerated; anything else that fails to
// decode or validate is rejected as a whole.
func ParseGeneratedQuestions(raw string) (model.QuestionList, error) {
	cleaned := stripCodeFences(raw)

	var questions []model.Question
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrAIResponseParse, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: empty question list", util.ErrAIResponseParse)
	}

	for i := range questions {
		q := &questions[i]
		if strings.TrimSpace(q.Prompt) == "" {
			return nil, fmt.Errorf("%w: question %d has no prompt", util.ErrAIResponseParse, i)
		}
		if q.Type == "" {
			q.Type = model.QuestionMCQ
		}
		switch q.Type {
		case model.QuestionMCQ:
			if len(q.Options) < 2 {
				return nil, fmt.Errorf("%w: question %d needs at least 2 options", util.ErrAIResponseParse, i)
			}
		case model.QuestionTrueFalse, model.QuestionShort:
		default:
			return nil, fmt.Errorf("%w: question %d has unknown type %q", util.ErrAIResponseParse, i, q.Type)
		}
		if len(q.CorrectAnswers) == 0 {
			return nil, fmt.Errorf("%w: question %d has no correct answers", util.ErrAIResponseParse, i)
		}
	}
	return model.QuestionList(questions), nil
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
