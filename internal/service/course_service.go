package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	publishedCoursesKey = "courses:published"
	publishedCoursesTTL = 10 * time.Minute

	// Bounded retry for the version-guarded rating summary write.
	ratingRetries = 3
)

type CourseService struct {
	Courses CourseStore
	Cache   *redis.Client
}

func NewCourseService(courses CourseStore, cache *redis.Client) *CourseService {
	return &CourseService{
		Courses: courses,
		Cache:   cache,
	}
}

func (s *CourseService) Create(course *model.Course) error {
	if course.Currency == "" {
		course.Currency = "INR"
	}
	if course.Level == "" {
		course.Level = model.LevelBeginner
	}
	if course.Language == "" {
		course.Language = "en"
	}
	if err := s.Courses.Create(course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return util.ErrSlugTaken
		}
		return err
	}
	s.invalidateCatalog(context.Background())
	return nil
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	course, err := s.Courses.FindByIDWithLessons(id)
	if err != nil {
		return nil, mapNotFound(err, util.ErrCourseNotFound)
	}
	return course, nil
}

func (s *CourseService) GetBySlug(slug string) (*model.Course, error) {
	course, err := s.Courses.FindBySlug(slug)
	if err != nil {
		return nil, mapNotFound(err, util.ErrCourseNotFound)
	}
	return course, nil
}

// CourseUpdate carries the mutable course fields.
type CourseUpdate struct {
	Title        string
	Slug         string
	Description  string
	ThumbnailURL string
	Price        *float64
	Currency     string
	Category     string
	Tags         []string
	Level        string
	Language     string
}

func (s *CourseService) Update(id uint, update CourseUpdate) (*model.Course, error) {
	course, err := s.Courses.FindByID(id)
	if err != nil {
		return nil, mapNotFound(err, util.ErrCourseNotFound)
	}

	if update.Title != "" {
		course.Title = update.Title
	}
	if update.Slug != "" {
		course.Slug = update.Slug
	}
	if update.Description != "" {
		course.Description = update.Description
	}
	if update.ThumbnailURL != "" {
		course.ThumbnailURL = update.ThumbnailURL
	}
	if update.Price != nil {
		course.Price = *update.Price
	}
	if update.Currency != "" {
		course.Currency = update.Currency
	}
	if update.Category != "" {
		course.Category = update.Category
	}
	if update.Tags != nil {
		course.Tags = model.StringList(update.Tags)
	}
	if update.Level != "" {
		course.Level = model.CourseLevel(update.Level)
	}
	if update.Language != "" {
		course.Language = update.Language
	}

	if err := s.Courses.Update(course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrSlugTaken
		}
		return nil, err
	}
	s.invalidateCatalog(context.Background())
	return course, nil
}

// Delete removes the course only; lessons are not cascaded.
func (s *CourseService) Delete(id uint) error {
	if err := s.Courses.Delete(id); err != nil {
		return mapNotFound(err, util.ErrCourseNotFound)
	}
	s.invalidateCatalog(context.Background())
	return nil
}

func (s *CourseService) SetPublished(id uint, published bool) (*model.Course, error) {
	if err := s.Courses.SetPublished(id, published); err != nil {
		return nil, mapNotFound(err, util.ErrCourseNotFound)
	}
	s.invalidateCatalog(context.Background())
	return s.Get(id)
}

func (s *CourseService) ListAll() ([]model.Course, error) {
	return s.Courses.FindAll()
}

// ListPublished serves the public catalog through the Redis cache.
func (s *CourseService) ListPublished(ctx context.Context) ([]model.Course, error) {
	if s.Cache != nil {
		if val, err := s.Cache.Get(ctx, publishedCoursesKey).Result(); err == nil {
			var cached []model.Course
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	courses, err := s.Courses.FindPublished()
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if data, err := json.Marshal(courses); err == nil {
			if err := s.Cache.Set(ctx, publishedCoursesKey, data, publishedCoursesTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache published courses", zap.Error(err))
			}
		}
	}
	return courses, nil
}

func (s *CourseService) ListByInstructor(instructorID uint) ([]model.Course, error) {
	return s.Courses.FindByInstructor(instructorID)
}

func (s *CourseService) Search(keyword string) ([]model.Course, error) {
	return s.Courses.Search(keyword)
}

// Rate inserts or overwrites the user's rating, then recomputes avg and
// count from the per-user rows. The summary write is conditional on the
// course version read at the start of the round, so two raters racing on
// the same course cannot drop each other's update; the loser retries.
func (s *CourseService) Rate(courseID, userID uint, rating int) (*model.Course, error) {
	for i := 0; i < ratingRetries; i++ {
		course, err := s.Courses.FindByID(courseID)
		if err != nil {
			return nil, mapNotFound(err, util.ErrCourseNotFound)
		}

		err = s.Courses.UpsertRating(&model.CourseRating{
			CourseID: courseID,
			UserID:   userID,
			Rating:   rating,
		})
		if err != nil {
			return nil, err
		}

		ratings, err := s.Courses.ListRatings(courseID)
		if err != nil {
			return nil, err
		}

		var sum int
		for _, r := range ratings {
			sum += r.Rating
		}
		count := len(ratings)
		avg := 0.0
		if count > 0 {
			avg = math.Round(float64(sum)/float64(count)*100) / 100
		}

		ok, err := s.Courses.UpdateRatingSummary(courseID, avg, count, course.Version)
		if err != nil {
			return nil, err
		}
		if ok {
			s.invalidateCatalog(context.Background())
			return s.Courses.FindByID(courseID)
		}
	}
	return nil, util.ErrConcurrentUpdate
}

func (s *CourseService) invalidateCatalog(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, publishedCoursesKey).Err(); err != nil {
		logger.Log.Warn("failed to invalidate course catalog cache", zap.Error(err))
	}
}
