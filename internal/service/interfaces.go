package service

import (
	"errors"

	"lms_backend/internal/model"

	"gorm.io/gorm"
)

// Storage-facing interfaces the services depend on. The concrete
// repositories in internal/repository satisfy them; tests substitute
// in-memory fakes.

type UserStore interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByResetToken(tokenHash string) (*model.User, error)
	Update(user *model.User) error
	Delete(id uint) error
	List(page, pageSize int, role string) ([]model.User, int64, error)
	AddPoints(userID uint, points int) error
	UpdateLastLogin(userID uint) error
}

type CourseStore interface {
	Create(course *model.Course) error
	FindByID(id uint) (*model.Course, error)
	FindByIDWithLessons(id uint) (*model.Course, error)
	FindBySlug(slug string) (*model.Course, error)
	FindAll() ([]model.Course, error)
	FindPublished() ([]model.Course, error)
	FindByInstructor(instructorID uint) ([]model.Course, error)
	Search(keyword string) ([]model.Course, error)
	Update(course *model.Course) error
	Delete(id uint) error
	SetPublished(id uint, published bool) error
	UpsertRating(rating *model.CourseRating) error
	ListRatings(courseID uint) ([]model.CourseRating, error)
	UpdateRatingSummary(courseID uint, avg float64, count int, version int) (bool, error)
}

type LessonStore interface {
	Create(lesson *model.Lesson) error
	FindByID(id uint) (*model.Lesson, error)
	FindByIDAndCourse(lessonID, courseID uint) (*model.Lesson, error)
	FindByCourse(courseID uint) ([]model.Lesson, error)
	CountByCourse(courseID uint) (int64, error)
	Update(lesson *model.Lesson) error
	Delete(id uint) error
	SyncCourseStats(courseID uint) error
	UpdateAsset(lessonID uint, asset model.LessonAsset) error
}

type QuizStore interface {
	Create(quiz *model.Quiz) error
	FindByID(id uint) (*model.Quiz, error)
	FindByIDAndLesson(quizID, lessonID uint) (*model.Quiz, error)
	FindByLesson(lessonID uint) ([]model.Quiz, error)
	Update(quiz *model.Quiz) error
	Delete(id uint) error
}

type AttemptStore interface {
	Create(attempt *model.Attempt) error
	FindByID(id uint) (*model.Attempt, error)
	FindByQuizAndUser(quizID, userID uint) (*model.Attempt, error)
	FindByUser(userID uint) ([]model.Attempt, error)
	FinalizeSubmission(attempt *model.Attempt) (bool, error)
}

type EnrollmentStore interface {
	CreateWithEnrollCount(enrollment *model.Enrollment) error
	FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error)
	FindByUser(userID uint) ([]model.Enrollment, error)
	FindByCourse(courseID uint) ([]model.Enrollment, error)
	Update(enrollment *model.Enrollment) error
	UpsertProgress(progress *model.LessonProgress) error
	CountCompleted(enrollmentID uint) (int64, error)
}

// mapNotFound converts gorm's record-not-found into the domain sentinel;
// everything else passes through.
func mapNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
