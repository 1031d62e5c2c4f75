package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Quizzes").First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindByIDAndCourse enforces the "lesson belongs to this course" check in
// a single lookup.
func (r *LessonRepository) FindByIDAndCourse(lessonID, courseID uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.
		Where("id = ? AND course_id = ?", lessonID, courseID).
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) FindByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.
		Where("course_id = ?", courseID).
		Order("sort_order ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// Delete is a hard delete; the (course_id, sort_order) slot must be free
// for a replacement lesson.
func (r *LessonRepository) Delete(id uint) error {
	res := r.DB.Unscoped().Delete(&model.Lesson{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SyncCourseStats recomputes the course's denormalized lesson count and
// total duration from the live lesson rows.
func (r *LessonRepository) SyncCourseStats(courseID uint) error {
	return r.DB.Model(&model.Course{}).
		Where("id = ?", courseID).
		Updates(map[string]interface{}{
			"lessons_count":      gorm.Expr("(SELECT COUNT(*) FROM lessons WHERE course_id = ?)", courseID),
			"total_duration_sec": gorm.Expr("(SELECT COALESCE(SUM(duration_sec), 0) FROM lessons WHERE course_id = ?)", courseID),
		}).Error
}

func (r *LessonRepository) UpdateAsset(lessonID uint, asset model.LessonAsset) error {
	return r.DB.Model(&model.Lesson{}).
		Where("id = ?", lessonID).
		Updates(map[string]interface{}{
			"file_key":  asset.FileKey,
			"file_url":  asset.FileURL,
			"file_size": asset.FileSize,
			"file_mime": asset.FileMime,
		}).Error
}
