package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lessonFixture(t *testing.T) (*LessonService, *fakeCourseStore, *fakeLessonStore, *model.Course) {
	t.Helper()
	courses := newFakeCourseStore()
	lessons := newFakeLessonStore()
	svc := NewLessonService(lessons, courses)
	course := newCourse(courses, "go-basics")
	return svc, courses, lessons, course
}

func TestLessonCreateAssignsNextOrder(t *testing.T) {
	svc, _, _, course := lessonFixture(t)

	first := &model.Lesson{CourseID: course.ID, Title: "a", ContentType: model.ContentVideo}
	require.NoError(t, svc.Create(first))
	assert.Equal(t, 1, first.SortOrder)

	second := &model.Lesson{CourseID: course.ID, Title: "b", ContentType: model.ContentPDF}
	require.NoError(t, svc.Create(second))
	assert.Equal(t, 2, second.SortOrder)
}

func TestLessonCreateDuplicateOrderConflicts(t *testing.T) {
	svc, _, _, course := lessonFixture(t)
	first := &model.Lesson{CourseID: course.ID, Title: "a", SortOrder: 1, ContentType: model.ContentVideo}
	require.NoError(t, svc.Create(first))

	err := svc.Create(&model.Lesson{CourseID: course.ID, Title: "b", SortOrder: 1, ContentType: model.ContentVideo})
	assert.ErrorIs(t, err, util.ErrLessonOrderTaken)
}

func TestLessonDeleteFreesOrderSlot(t *testing.T) {
	svc, _, _, course := lessonFixture(t)
	lesson := &model.Lesson{CourseID: course.ID, Title: "a", SortOrder: 1, ContentType: model.ContentVideo}
	require.NoError(t, svc.Create(lesson))
	require.NoError(t, svc.Delete(course.ID, lesson.ID))

	replacement := &model.Lesson{CourseID: course.ID, Title: "b", SortOrder: 1, ContentType: model.ContentVideo}
	require.NoError(t, svc.Create(replacement))
}

func TestLessonCreateUnknownCourse(t *testing.T) {
	svc, _, _, _ := lessonFixture(t)

	err := svc.Create(&model.Lesson{CourseID: 999, Title: "a", ContentType: model.ContentVideo})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestLessonGetDistinguishesWrongCourse(t *testing.T) {
	svc, courses, lessons, course := lessonFixture(t)
	other := &model.Course{Title: "other", Slug: "other", InstructorID: 1}
	require.NoError(t, courses.Create(other))

	lesson := &model.Lesson{CourseID: other.ID, Title: "a", SortOrder: 1, ContentType: model.ContentVideo}
	require.NoError(t, lessons.Create(lesson))

	_, err := svc.Get(course.ID, lesson.ID)
	assert.ErrorIs(t, err, util.ErrLessonNotInCourse)

	_, err = svc.Get(course.ID, 999)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestLessonUpdatePartial(t *testing.T) {
	svc, _, _, course := lessonFixture(t)
	lesson := &model.Lesson{CourseID: course.ID, Title: "a", ContentType: model.ContentVideo, DurationSec: 60}
	require.NoError(t, svc.Create(lesson))

	preview := true
	updated, err := svc.Update(course.ID, lesson.ID, LessonUpdate{Title: "renamed", IsFreePreview: &preview})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Title)
	assert.True(t, updated.IsFreePreview)
	assert.Equal(t, 60, updated.DurationSec)
}

func TestLessonAttachAsset(t *testing.T) {
	svc, _, _, course := lessonFixture(t)
	lesson := &model.Lesson{CourseID: course.ID, Title: "a", ContentType: model.ContentVideo}
	require.NoError(t, svc.Create(lesson))

	updated, err := svc.AttachAsset(course.ID, lesson.ID, model.LessonAsset{
		FileKey:  "lessons/abc.mp4",
		FileURL:  "/uploads/lessons/abc.mp4",
		FileSize: 1024,
		FileMime: "video/mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, "lessons/abc.mp4", updated.Asset.FileKey)
	assert.Equal(t, "video/mp4", updated.Asset.FileMime)
}

func TestLessonDelete(t *testing.T) {
	svc, _, lessons, course := lessonFixture(t)
	lesson := &model.Lesson{CourseID: course.ID, Title: "a", ContentType: model.ContentVideo}
	require.NoError(t, svc.Create(lesson))

	require.NoError(t, svc.Delete(course.ID, lesson.ID))
	_, err := lessons.FindByID(lesson.ID)
	assert.Error(t, err)
}
