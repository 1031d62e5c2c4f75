package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Create relies on the (quiz_id, user_id) unique index: a concurrent
// duplicate surfaces as gorm.ErrDuplicatedKey rather than a second row.
func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) FindByQuizAndUser(quizID, userID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) FindByUser(userID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&attempts).Error
	return attempts, err
}

// FinalizeSubmission writes the grading result only while the attempt is
// still open. The rows-affected check makes the second of two racing
// submits lose instead of overwriting the first grade.
func (r *AttemptRepository) FinalizeSubmission(attempt *model.Attempt) (bool, error) {
	res := r.DB.Model(&model.Attempt{}).
		Where("id = ? AND submitted_at IS NULL", attempt.ID).
		Updates(map[string]interface{}{
			"answers":        attempt.Answers,
			"score":          attempt.Score,
			"time_taken_sec": attempt.TimeTakenSec,
			"submitted_at":   attempt.SubmittedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
