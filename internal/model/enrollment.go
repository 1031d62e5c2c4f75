package model

import "time"

type PaymentStatus string

const (
	PaymentFree     PaymentStatus = "free"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID        uint          `gorm:"uniqueIndex:idx_enrollment_user_course;index;not null" json:"userId"`
	CourseID      uint          `gorm:"uniqueIndex:idx_enrollment_user_course;index;not null" json:"courseId"`
	PaymentStatus PaymentStatus `gorm:"type:enum('free','paid','refunded','failed');default:'free';index" json:"paymentStatus"`
	PurchasedAt   time.Time     `json:"purchasedAt"`

	// Denormalized progress summary, recomputed on every progress write.
	LessonsCompleted int   `gorm:"default:0" json:"lessonsCompleted"`
	LastLessonID     *uint `json:"lastLessonId"`
	Percent          int   `gorm:"default:0" json:"percent"`

	Progress []LessonProgress `gorm:"foreignKey:EnrollmentID" json:"progress,omitempty"`

	Completed      bool       `gorm:"default:false" json:"completed"`
	CompletedAt    *time.Time `json:"completedAt"`
	LastAccessedAt time.Time  `json:"lastAccessedAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// LessonProgress is the per-lesson completion entry within an enrollment.
// One row per (enrollment, lesson); progress updates overwrite it.
type LessonProgress struct {
	BaseModel
	EnrollmentID      uint       `gorm:"uniqueIndex:idx_progress_enrollment_lesson;not null" json:"enrollmentId"`
	LessonID          uint       `gorm:"uniqueIndex:idx_progress_enrollment_lesson;not null" json:"lessonId"`
	CompletedLectures int        `gorm:"default:0" json:"completedLectures"`
	Completed         bool       `gorm:"default:false" json:"completed"`
	LastWatchedAt     *time.Time `json:"lastWatchedAt"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
