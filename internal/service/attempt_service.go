package service

import (
	"errors"
	"math"
	"strings"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type AttemptService struct {
	Attempts AttemptStore
	Quizzes  QuizStore
	Users    UserStore
}

func NewAttemptService(attempts AttemptStore, quizzes QuizStore, users UserStore) *AttemptService {
	return &AttemptService{
		Attempts: attempts,
		Quizzes:  quizzes,
		Users:    users,
	}
}

// Start opens an in-progress attempt. A second start on the same quiz
// conflicts, whether the first one was submitted or not.
func (s *AttemptService) Start(quizID, userID uint) (*model.Attempt, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		return nil, mapNotFound(err, util.ErrQuizNotFound)
	}
	if !quiz.IsActive {
		return nil, util.ErrQuizNotFound
	}

	existing, err := s.Attempts.FindByQuizAndUser(quizID, userID)
	if err == nil {
		if existing.Submitted() {
			return nil, util.ErrQuizAttempted
		}
		return nil, util.ErrQuizAlreadyStarted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	attempt := &model.Attempt{
		QuizID:    quizID,
		UserID:    userID,
		Answers:   model.AnswerList{},
		StartedAt: time.Now(),
	}
	if err := s.Attempts.Create(attempt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrQuizAlreadyStarted
		}
		return nil, err
	}
	return attempt, nil
}

// Submit grades the answers server side and closes the attempt. Starting
// first is optional; submitting without a prior Start creates the row on
// the spot. Either way the unique index makes the second submission lose.
func (s *AttemptService) Submit(quizID, userID uint, answers []model.AttemptAnswer, timeTakenSec int) (*model.Attempt, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		return nil, mapNotFound(err, util.ErrQuizNotFound)
	}

	score, graded := scoreAnswers(quiz.Questions, answers)
	now := time.Now()

	existing, err := s.Attempts.FindByQuizAndUser(quizID, userID)
	if err == nil {
		if existing.Submitted() {
			return nil, util.ErrQuizAttempted
		}
		existing.Answers = graded
		existing.Score = score
		existing.TimeTakenSec = timeTakenSec
		existing.SubmittedAt = &now
		// The write is conditional on the attempt still being open, so a
		// submit racing this one cannot overwrite the recorded grade.
		ok, err := s.Attempts.FinalizeSubmission(existing)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, util.ErrQuizAttempted
		}
		s.awardPoints(userID, score)
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	attempt := &model.Attempt{
		QuizID:       quizID,
		UserID:       userID,
		Answers:      graded,
		Score:        score,
		TimeTakenSec: timeTakenSec,
		StartedAt:    now,
		SubmittedAt:  &now,
	}
	if err := s.Attempts.Create(attempt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrQuizAttempted
		}
		return nil, err
	}
	s.awardPoints(userID, score)
	return attempt, nil
}

func (s *AttemptService) Get(attemptID, userID uint) (*model.Attempt, error) {
	attempt, err := s.Attempts.FindByID(attemptID)
	if err != nil {
		return nil, mapNotFound(err, util.ErrAttemptNotFound)
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *AttemptService) MyAttempts(userID uint) ([]model.Attempt, error) {
	return s.Attempts.FindByUser(userID)
}

func (s *AttemptService) awardPoints(userID uint, score int) {
	if score <= 0 {
		return
	}
	// Points are a side reward; a failed write never fails the submit.
	_ = s.Users.AddPoints(userID, score)
}

// scoreAnswers grades the submitted answers against the quiz questions
// and returns the percentage score with per-answer correctness filled in.
// Client-sent Correct flags are ignored.
func scoreAnswers(questions []model.Question, answers []model.AttemptAnswer) (int, model.AnswerList) {
	byIndex := make(map[int]model.AttemptAnswer, len(answers))
	for _, a := range answers {
		byIndex[a.QIndex] = a
	}

	graded := make(model.AnswerList, 0, len(answers))
	correct := 0
	for i, q := range questions {
		a, ok := byIndex[i]
		if !ok {
			continue
		}
		a.Correct = isCorrect(q, a)
		if a.Correct {
			correct++
		}
		graded = append(graded, a)
	}

	if len(questions) == 0 {
		return 0, graded
	}
	score := int(math.Round(float64(correct) / float64(len(questions)) * 100))
	return score, graded
}

func isCorrect(q model.Question, a model.AttemptAnswer) bool {
	switch q.Type {
	case model.QuestionMCQ:
		if len(a.SelectedOptions) == 0 || len(q.CorrectAnswers) == 0 {
			return false
		}
		selected := make(map[string]bool, len(a.SelectedOptions))
		for _, idx := range a.SelectedOptions {
			if idx < 0 || idx >= len(q.Options) {
				return false
			}
			selected[normalizeAnswer(q.Options[idx])] = true
		}
		if len(selected) != len(q.CorrectAnswers) {
			return false
		}
		for _, want := range q.CorrectAnswers {
			if !selected[normalizeAnswer(want)] {
				return false
			}
		}
		return true
	case model.QuestionTrueFalse, model.QuestionShort:
		got := normalizeAnswer(a.AnswerText)
		if got == "" {
			return false
		}
		for _, want := range q.CorrectAnswers {
			if normalizeAnswer(want) == got {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
