package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// CreateWithEnrollCount inserts the enrollment and bumps the course
// counter in one transaction, so the count moves by exactly one per
// successful enroll. A duplicate insert rolls the increment back and
// surfaces as gorm.ErrDuplicatedKey.
func (r *EnrollmentRepository) CreateWithEnrollCount(enrollment *model.Enrollment) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(enrollment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Course{}).
			Where("id = ?", enrollment.CourseID).
			Update("enrolled_count", gorm.Expr("enrolled_count + ?", 1)).
			Error
	})
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.
		Preload("Progress").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.
		Preload("Progress").
		Where("user_id = ?", userID).
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) FindByCourse(courseID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.
		Preload("Progress").
		Where("course_id = ?", courseID).
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) Update(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}

// UpsertProgress overwrites the per-lesson entry instead of appending a
// duplicate; the (enrollment_id, lesson_id) unique index backs it.
func (r *EnrollmentRepository) UpsertProgress(progress *model.LessonProgress) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "enrollment_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"completed_lectures", "completed", "last_watched_at", "updated_at",
		}),
	}).Create(progress).Error
}

func (r *EnrollmentRepository) CountCompleted(enrollmentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonProgress{}).
		Where("enrollment_id = ? AND completed = ?", enrollmentID, true).
		Count(&count).Error
	return count, err
}
