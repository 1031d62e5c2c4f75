package model

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title        string      `gorm:"size:255;not null" json:"title"`
	Slug         string      `gorm:"size:255;unique;not null" json:"slug"`
	Description  string      `gorm:"type:text;not null" json:"description"`
	ThumbnailURL string      `gorm:"size:255" json:"thumbnailUrl"`
	InstructorID uint        `gorm:"index;not null" json:"instructorId"`
	Instructor   *User       `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Price        float64     `gorm:"not null" json:"price"`
	Currency     string      `gorm:"size:10;default:'INR'" json:"currency"`
	Category     string      `gorm:"size:100;index" json:"category"`
	Tags         StringList  `gorm:"type:json" json:"tags"`
	Level        CourseLevel `gorm:"type:enum('beginner','intermediate','advanced');default:'beginner';index" json:"level"`
	Language     string      `gorm:"size:10;default:'en';index" json:"language"`

	Lessons      []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
	LessonsCount int      `gorm:"default:0" json:"lessonsCount"`

	RatingAvg   float64        `gorm:"default:0" json:"ratingAvg"`
	RatingCount int            `gorm:"default:0" json:"ratingCount"`
	Ratings     []CourseRating `gorm:"foreignKey:CourseID" json:"ratings,omitempty"`

	IsPublished bool `gorm:"default:false;index" json:"isPublished"`

	// Version is the optimistic-concurrency token guarding the rating
	// summary (avg/count) read-modify-write cycle.
	Version int `gorm:"default:1" json:"version"`

	EnrolledCount    int `gorm:"default:0;index" json:"enrolledCount"`
	TotalDurationSec int `gorm:"default:0" json:"totalDurationSec"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseRating is one user's latest rating of a course. The composite
// unique index makes the per-user upsert race-free at the storage layer.
type CourseRating struct {
	BaseModel
	CourseID uint `gorm:"uniqueIndex:idx_course_rating_user;not null" json:"courseId"`
	UserID   uint `gorm:"uniqueIndex:idx_course_rating_user;not null" json:"userId"`
	Rating   int  `gorm:"not null" json:"rating"`
}

func (CourseRating) TableName() string {
	return "course_ratings"
}
