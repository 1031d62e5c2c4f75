package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type LessonService struct {
	Lessons LessonStore
	Courses CourseStore
}

func NewLessonService(lessons LessonStore, courses CourseStore) *LessonService {
	return &LessonService{
		Lessons: lessons,
		Courses: courses,
	}
}

func (s *LessonService) Create(lesson *model.Lesson) error {
	if _, err := s.Courses.FindByID(lesson.CourseID); err != nil {
		return mapNotFound(err, util.ErrCourseNotFound)
	}
	if lesson.SortOrder == 0 {
		count, err := s.Lessons.CountByCourse(lesson.CourseID)
		if err != nil {
			return err
		}
		lesson.SortOrder = int(count) + 1
	}
	if err := s.Lessons.Create(lesson); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return util.ErrLessonOrderTaken
		}
		return err
	}
	return s.Lessons.SyncCourseStats(lesson.CourseID)
}

func (s *LessonService) Get(courseID, lessonID uint) (*model.Lesson, error) {
	lesson, err := s.Lessons.FindByIDAndCourse(lessonID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Distinguish a missing lesson from one under another course.
			if _, lookupErr := s.Lessons.FindByID(lessonID); lookupErr == nil {
				return nil, util.ErrLessonNotInCourse
			}
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) ListByCourse(courseID uint) ([]model.Lesson, error) {
	if _, err := s.Courses.FindByID(courseID); err != nil {
		return nil, mapNotFound(err, util.ErrCourseNotFound)
	}
	return s.Lessons.FindByCourse(courseID)
}

// LessonUpdate carries the mutable lesson fields.
type LessonUpdate struct {
	Title         string
	SortOrder     *int
	ContentType   string
	ContentTitle  string
	DurationSec   *int
	LectureCount  *int
	IsFreePreview *bool
}

func (s *LessonService) Update(courseID, lessonID uint, update LessonUpdate) (*model.Lesson, error) {
	lesson, err := s.Get(courseID, lessonID)
	if err != nil {
		return nil, err
	}

	if update.Title != "" {
		lesson.Title = update.Title
	}
	if update.SortOrder != nil {
		lesson.SortOrder = *update.SortOrder
	}
	if update.ContentType != "" {
		lesson.ContentType = model.ContentType(update.ContentType)
	}
	if update.ContentTitle != "" {
		lesson.ContentTitle = update.ContentTitle
	}
	if update.DurationSec != nil {
		lesson.DurationSec = *update.DurationSec
	}
	if update.LectureCount != nil {
		lesson.LectureCount = *update.LectureCount
	}
	if update.IsFreePreview != nil {
		lesson.IsFreePreview = *update.IsFreePreview
	}

	if err := s.Lessons.Update(lesson); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrLessonOrderTaken
		}
		return nil, err
	}
	if err := s.Lessons.SyncCourseStats(courseID); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Delete(courseID, lessonID uint) error {
	if _, err := s.Get(courseID, lessonID); err != nil {
		return err
	}
	if err := s.Lessons.Delete(lessonID); err != nil {
		return err
	}
	return s.Lessons.SyncCourseStats(courseID)
}

// AttachAsset records where the uploaded lesson file lives.
func (s *LessonService) AttachAsset(courseID, lessonID uint, asset model.LessonAsset) (*model.Lesson, error) {
	if _, err := s.Get(courseID, lessonID); err != nil {
		return nil, err
	}
	if err := s.Lessons.UpdateAsset(lessonID, asset); err != nil {
		return nil, err
	}
	return s.Lessons.FindByID(lessonID)
}
