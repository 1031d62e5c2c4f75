package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Instructor").First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindByIDWithLessons(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Instructor").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindBySlug resolves only published courses; the slug route is the
// public catalog entry point.
func (r *CourseRepository) FindBySlug(slug string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Instructor").
		Where("slug = ? AND is_published = ?", slug, true).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindAll() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Preload("Instructor").Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindPublished() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.
		Preload("Instructor").
		Where("is_published = ?", true).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByInstructor(instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("instructor_id = ?", instructorID).Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Search(keyword string) ([]model.Course, error) {
	var courses []model.Course
	pattern := "%" + keyword + "%"
	err := r.DB.
		Preload("Instructor").
		Where("is_published = ?", true).
		Where("title LIKE ? OR description LIKE ? OR category LIKE ? OR tags LIKE ?",
			pattern, pattern, pattern, pattern).
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// Delete is a hard delete; the slug must be free for reuse afterwards.
func (r *CourseRepository) Delete(id uint) error {
	res := r.DB.Unscoped().Delete(&model.Course{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetPublished is a single-field set; no read-modify-write involved.
func (r *CourseRepository) SetPublished(id uint, published bool) error {
	res := r.DB.Model(&model.Course{}).
		Where("id = ?", id).
		Update("is_published", published)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertRating inserts or overwrites the caller's rating row; the
// composite unique index makes this race-free.
func (r *CourseRepository) UpsertRating(rating *model.CourseRating) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(rating).Error
}

func (r *CourseRepository) ListRatings(courseID uint) ([]model.CourseRating, error) {
	var ratings []model.CourseRating
	err := r.DB.Where("course_id = ?", courseID).Find(&ratings).Error
	return ratings, err
}

// UpdateRatingSummary writes the recomputed avg/count conditionally on the
// version read beforehand. Returns false when another writer got there
// first and the caller must retry.
func (r *CourseRepository) UpdateRatingSummary(courseID uint, avg float64, count int, version int) (bool, error) {
	res := r.DB.Model(&model.Course{}).
		Where("id = ? AND version = ?", courseID, version).
		Updates(map[string]interface{}{
			"rating_avg":   avg,
			"rating_count": count,
			"version":      gorm.Expr("version + ?", 1),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
