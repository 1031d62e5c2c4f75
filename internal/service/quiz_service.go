package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type QuizService struct {
	Quizzes QuizStore
	Lessons LessonStore
}

func NewQuizService(quizzes QuizStore, lessons LessonStore) *QuizService {
	return &QuizService{
		Quizzes: quizzes,
		Lessons: lessons,
	}
}

func (s *QuizService) Create(courseID, lessonID uint, quiz *model.Quiz) error {
	if _, err := s.Lessons.FindByIDAndCourse(lessonID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotInCourse
		}
		return err
	}
	quiz.LessonID = lessonID
	quiz.IsActive = true
	if quiz.Version == 0 {
		quiz.Version = 1
	}
	return s.Quizzes.Create(quiz)
}

func (s *QuizService) Get(lessonID, quizID uint) (*model.Quiz, error) {
	quiz, err := s.Quizzes.FindByIDAndLesson(quizID, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, lookupErr := s.Quizzes.FindByID(quizID); lookupErr == nil {
				return nil, util.ErrQuizNotInLesson
			}
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListByLesson(courseID, lessonID uint) ([]model.Quiz, error) {
	if _, err := s.Lessons.FindByIDAndCourse(lessonID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotInCourse
		}
		return nil, err
	}
	return s.Quizzes.FindByLesson(lessonID)
}

// QuizUpdate carries the mutable quiz fields. Editing the questions
// bumps the quiz version.
type QuizUpdate struct {
	Title        string
	Questions    []model.Question
	TimeLimitSec *int
}

func (s *QuizService) Update(lessonID, quizID uint, update QuizUpdate) (*model.Quiz, error) {
	quiz, err := s.Get(lessonID, quizID)
	if err != nil {
		return nil, err
	}

	if update.Title != "" {
		quiz.Title = update.Title
	}
	if update.Questions != nil {
		quiz.Questions = model.QuestionList(update.Questions)
		quiz.Version++
	}
	if update.TimeLimitSec != nil {
		quiz.TimeLimitSec = *update.TimeLimitSec
	}

	if err := s.Quizzes.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Delete(lessonID, quizID uint) error {
	if _, err := s.Get(lessonID, quizID); err != nil {
		return err
	}
	return s.Quizzes.Delete(quizID)
}

// ToggleActive flips whether the quiz is attemptable without touching
// its content or existing attempts.
func (s *QuizService) ToggleActive(lessonID, quizID uint) (*model.Quiz, error) {
	quiz, err := s.Get(lessonID, quizID)
	if err != nil {
		return nil, err
	}
	quiz.IsActive = !quiz.IsActive
	if err := s.Quizzes.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}
