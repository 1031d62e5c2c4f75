package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrollmentFixture(t *testing.T) (*EnrollmentService, *fakeCourseStore, *fakeLessonStore, *model.Course) {
	t.Helper()
	courses := newFakeCourseStore()
	lessons := newFakeLessonStore()
	enrollments := newFakeEnrollmentStore(courses)
	svc := NewEnrollmentService(enrollments, courses, lessons)

	course := &model.Course{
		Title:        "go-basics",
		Slug:         "go-basics",
		InstructorID: 1,
		Price:        499,
		IsPublished:  true,
	}
	require.NoError(t, courses.Create(course))
	return svc, courses, lessons, course
}

func addLesson(t *testing.T, lessons *fakeLessonStore, courseID uint, order, lectures int) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{
		CourseID:     courseID,
		Title:        "lesson",
		SortOrder:    order,
		ContentType:  model.ContentVideo,
		LectureCount: lectures,
	}
	require.NoError(t, lessons.Create(lesson))
	return lesson
}

func TestEnrollIncrementsCountOnce(t *testing.T) {
	svc, courses, _, course := enrollmentFixture(t)

	enrollment, err := svc.Enroll(10, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, enrollment.PaymentStatus)

	stored, err := courses.FindByID(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.EnrolledCount)

	_, err = svc.Enroll(10, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	stored, err = courses.FindByID(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.EnrolledCount)
}

func TestEnrollFreeCourse(t *testing.T) {
	svc, courses, _, _ := enrollmentFixture(t)
	free := &model.Course{Title: "free", Slug: "free", InstructorID: 1, Price: 0, IsPublished: true}
	require.NoError(t, courses.Create(free))

	enrollment, err := svc.Enroll(10, free.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFree, enrollment.PaymentStatus)
}

func TestEnrollUnknownCourse(t *testing.T) {
	svc, _, _, _ := enrollmentFixture(t)

	_, err := svc.Enroll(10, 999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestUpdateProgressOverwritesLessonEntry(t *testing.T) {
	svc, _, lessons, course := enrollmentFixture(t)
	lesson := addLesson(t, lessons, course.ID, 1, 4)
	addLesson(t, lessons, course.ID, 2, 4)

	_, err := svc.Enroll(10, course.ID)
	require.NoError(t, err)

	enrollment, err := svc.UpdateProgress(10, course.ID, lesson.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, enrollment.LessonsCompleted)
	assert.Equal(t, 0, enrollment.Percent)

	// Finishing the same lesson replaces the earlier entry.
	enrollment, err = svc.UpdateProgress(10, course.ID, lesson.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, enrollment.LessonsCompleted)
	assert.Equal(t, 50, enrollment.Percent)
	require.NotNil(t, enrollment.LastLessonID)
	assert.Equal(t, lesson.ID, *enrollment.LastLessonID)
}

func TestUpdateProgressClampsToLectureCount(t *testing.T) {
	svc, _, lessons, course := enrollmentFixture(t)
	lesson := addLesson(t, lessons, course.ID, 1, 3)

	_, err := svc.Enroll(10, course.ID)
	require.NoError(t, err)

	enrollment, err := svc.UpdateProgress(10, course.ID, lesson.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, enrollment.LessonsCompleted)
	assert.Equal(t, 100, enrollment.Percent)
	assert.True(t, enrollment.Completed)
}

func TestUpdateProgressRejectsForeignLesson(t *testing.T) {
	svc, courses, lessons, course := enrollmentFixture(t)
	other := &model.Course{Title: "other", Slug: "other", InstructorID: 1, IsPublished: true}
	require.NoError(t, courses.Create(other))
	foreign := addLesson(t, lessons, other.ID, 1, 2)

	_, err := svc.Enroll(10, course.ID)
	require.NoError(t, err)

	_, err = svc.UpdateProgress(10, course.ID, foreign.ID, 1)
	assert.ErrorIs(t, err, util.ErrLessonNotInCourse)
}

func TestUpdateProgressRequiresEnrollment(t *testing.T) {
	svc, _, lessons, course := enrollmentFixture(t)
	lesson := addLesson(t, lessons, course.ID, 1, 2)

	_, err := svc.UpdateProgress(10, course.ID, lesson.ID, 1)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestCompleteCourseRequiresAllLessons(t *testing.T) {
	svc, _, lessons, course := enrollmentFixture(t)
	first := addLesson(t, lessons, course.ID, 1, 2)
	addLesson(t, lessons, course.ID, 2, 2)

	_, err := svc.Enroll(10, course.ID)
	require.NoError(t, err)

	_, err = svc.CompleteCourse(10, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseIncomplete)

	_, err = svc.UpdateProgress(10, course.ID, first.ID, 2)
	require.NoError(t, err)
	_, err = svc.CompleteCourse(10, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseIncomplete)
}

func TestCompleteCourse(t *testing.T) {
	svc, _, lessons, course := enrollmentFixture(t)
	first := addLesson(t, lessons, course.ID, 1, 2)
	second := addLesson(t, lessons, course.ID, 2, 2)

	_, err := svc.Enroll(10, course.ID)
	require.NoError(t, err)

	_, err = svc.UpdateProgress(10, course.ID, first.ID, 2)
	require.NoError(t, err)
	_, err = svc.UpdateProgress(10, course.ID, second.ID, 2)
	require.NoError(t, err)

	enrollment, err := svc.CompleteCourse(10, course.ID)
	require.NoError(t, err)
	assert.True(t, enrollment.Completed)
	assert.Equal(t, 100, enrollment.Percent)
	assert.NotNil(t, enrollment.CompletedAt)
}
