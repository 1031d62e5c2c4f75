package service

import (
	"errors"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	Enrollments EnrollmentStore
	Courses     CourseStore
	Lessons     LessonStore
}

func NewEnrollmentService(enrollments EnrollmentStore, courses CourseStore, lessons LessonStore) *EnrollmentService {
	return &EnrollmentService{
		Enrollments: enrollments,
		Courses:     courses,
		Lessons:     lessons,
	}
}

// Enroll creates the enrollment and bumps the course counter atomically.
// The (user_id, course_id) unique index is the real guard; the lookup
// before the insert only gives the common case a cheaper answer.
func (s *EnrollmentService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		return nil, mapNotFound(err, util.ErrCourseNotFound)
	}

	if _, err := s.Enrollments.FindByUserAndCourse(userID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	status := model.PaymentPaid
	if course.Price == 0 {
		status = model.PaymentFree
	}

	enrollment := &model.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		PaymentStatus:  status,
		PurchasedAt:    time.Now(),
		LastAccessedAt: time.Now(),
	}
	if err := s.Enrollments.CreateWithEnrollCount(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) MyEnrollments(userID uint) ([]model.Enrollment, error) {
	return s.Enrollments.FindByUser(userID)
}

func (s *EnrollmentService) ByCourse(courseID uint) ([]model.Enrollment, error) {
	if _, err := s.Courses.FindByID(courseID); err != nil {
		return nil, mapNotFound(err, util.ErrCourseNotFound)
	}
	return s.Enrollments.FindByCourse(courseID)
}

func (s *EnrollmentService) Get(userID, courseID uint) (*model.Enrollment, error) {
	enrollment, err := s.Enrollments.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, mapNotFound(err, util.ErrNotEnrolled)
	}
	return enrollment, nil
}

// UpdateProgress records how far the user got in one lesson and refreshes
// the enrollment summary from the per-lesson rows. Writing the same
// lesson twice overwrites the entry rather than double counting it.
func (s *EnrollmentService) UpdateProgress(userID, courseID, lessonID uint, completedLectures int) (*model.Enrollment, error) {
	enrollment, err := s.Enrollments.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, mapNotFound(err, util.ErrNotEnrolled)
	}

	lesson, err := s.Lessons.FindByIDAndCourse(lessonID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotInCourse
		}
		return nil, err
	}

	if completedLectures < 0 {
		completedLectures = 0
	}
	if lesson.LectureCount > 0 && completedLectures > lesson.LectureCount {
		completedLectures = lesson.LectureCount
	}
	completed := lesson.LectureCount > 0 && completedLectures >= lesson.LectureCount

	now := time.Now()
	err = s.Enrollments.UpsertProgress(&model.LessonProgress{
		EnrollmentID:      enrollment.ID,
		LessonID:          lessonID,
		CompletedLectures: completedLectures,
		Completed:         completed,
		LastWatchedAt:     &now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.refreshSummary(enrollment, &lessonID, now); err != nil {
		return nil, err
	}
	return s.Enrollments.FindByUserAndCourse(userID, courseID)
}

// CompleteCourse marks the enrollment finished once every lesson in the
// course has a completed progress entry.
func (s *EnrollmentService) CompleteCourse(userID, courseID uint) (*model.Enrollment, error) {
	enrollment, err := s.Enrollments.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, mapNotFound(err, util.ErrNotEnrolled)
	}

	total, err := s.Lessons.CountByCourse(courseID)
	if err != nil {
		return nil, err
	}
	done, err := s.Enrollments.CountCompleted(enrollment.ID)
	if err != nil {
		return nil, err
	}
	if total == 0 || done < total {
		return nil, util.ErrCourseIncomplete
	}

	now := time.Now()
	enrollment.LessonsCompleted = int(done)
	enrollment.Percent = 100
	enrollment.Completed = true
	enrollment.CompletedAt = &now
	enrollment.LastAccessedAt = now
	if err := s.Enrollments.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) refreshSummary(enrollment *model.Enrollment, lastLessonID *uint, now time.Time) error {
	total, err := s.Lessons.CountByCourse(enrollment.CourseID)
	if err != nil {
		return err
	}
	done, err := s.Enrollments.CountCompleted(enrollment.ID)
	if err != nil {
		return err
	}

	enrollment.LessonsCompleted = int(done)
	if lastLessonID != nil {
		enrollment.LastLessonID = lastLessonID
	}
	if total > 0 {
		enrollment.Percent = int(done * 100 / total)
	} else {
		enrollment.Percent = 0
	}
	if total > 0 && done >= total {
		enrollment.Completed = true
		if enrollment.CompletedAt == nil {
			enrollment.CompletedAt = &now
		}
	} else {
		enrollment.Completed = false
		enrollment.CompletedAt = nil
	}
	enrollment.LastAccessedAt = now

	return s.Enrollments.Update(enrollment)
}
