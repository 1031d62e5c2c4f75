package model

type ContentType string

const (
	ContentVideo ContentType = "video"
	ContentPDF   ContentType = "pdf"
	ContentDoc   ContentType = "doc"
	ContentHTML  ContentType = "html"
	ContentAudio ContentType = "audio"
)

// LessonAsset is the stored-location descriptor of an uploaded file,
// embedded into the lesson row.
type LessonAsset struct {
	FileKey  string `gorm:"size:255" json:"fileKey"`
	FileURL  string `gorm:"size:255" json:"fileUrl"`
	FileSize int64  `gorm:"default:0" json:"fileSize"`
	FileMime string `gorm:"size:100" json:"fileMime"`
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID uint   `gorm:"uniqueIndex:idx_lesson_course_order;index;not null" json:"courseId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	// SortOrder is unique per course.
	SortOrder int `gorm:"column:sort_order;uniqueIndex:idx_lesson_course_order;not null" json:"order"`

	ContentType  ContentType `gorm:"type:enum('video','pdf','doc','html','audio');not null" json:"contentType"`
	ContentTitle string      `gorm:"size:255" json:"contentTitle"`
	DurationSec  int         `gorm:"default:0" json:"durationSec"`
	LectureCount int         `gorm:"default:0" json:"lectureCount"`
	Asset        LessonAsset `gorm:"embedded" json:"asset"`

	Quizzes []Quiz `gorm:"foreignKey:LessonID" json:"quizzes,omitempty"`

	IsFreePreview bool `gorm:"default:false" json:"isFreePreview"`
}

func (Lesson) TableName() string {
	return "lessons"
}
