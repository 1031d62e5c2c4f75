package service

import (
	"os"
	"sort"
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// In-memory store fakes. They mimic the repository contract, including
// gorm's not-found and duplicate-key sentinels, so the services behave
// exactly as they do against MySQL.

type fakeUserStore struct {
	nextID uint
	users  map[uint]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint]*model.User{}}
}

func (f *fakeUserStore) Create(user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	user.ID = f.nextID
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) FindByID(id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindByResetToken(tokenHash string) (*model.User, error) {
	for _, u := range f.users {
		if u.ResetPasswordToken == tokenHash &&
			u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(time.Now()) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) Update(user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) Delete(id uint) error {
	if _, ok := f.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) List(page, pageSize int, role string) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range f.users {
		if role == "" || string(u.Role) == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeUserStore) AddPoints(userID uint, points int) error {
	u, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Points += points
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(userID uint) error {
	u, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

type fakeCourseStore struct {
	nextID  uint
	courses map[uint]*model.Course
	ratings []model.CourseRating

	// summaryFailures makes UpdateRatingSummary report a stale version
	// that many times before succeeding.
	summaryFailures int
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: map[uint]*model.Course{}}
}

func (f *fakeCourseStore) Create(course *model.Course) error {
	for _, c := range f.courses {
		if c.Slug == course.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	course.ID = f.nextID
	if course.Version == 0 {
		course.Version = 1
	}
	copied := *course
	f.courses[course.ID] = &copied
	return nil
}

func (f *fakeCourseStore) FindByID(id uint) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCourseStore) FindByIDWithLessons(id uint) (*model.Course, error) {
	return f.FindByID(id)
}

func (f *fakeCourseStore) FindBySlug(slug string) (*model.Course, error) {
	for _, c := range f.courses {
		if c.Slug == slug && c.IsPublished {
			copied := *c
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCourseStore) FindAll() ([]model.Course, error) {
	var out []model.Course
	for _, c := range f.courses {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourseStore) FindPublished() ([]model.Course, error) {
	var out []model.Course
	for _, c := range f.courses {
		if c.IsPublished {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourseStore) FindByInstructor(instructorID uint) ([]model.Course, error) {
	var out []model.Course
	for _, c := range f.courses {
		if c.InstructorID == instructorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCourseStore) Search(keyword string) ([]model.Course, error) {
	return f.FindPublished()
}

func (f *fakeCourseStore) Update(course *model.Course) error {
	if _, ok := f.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, c := range f.courses {
		if c.ID != course.ID && c.Slug == course.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	copied := *course
	f.courses[course.ID] = &copied
	return nil
}

func (f *fakeCourseStore) Delete(id uint) error {
	if _, ok := f.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseStore) SetPublished(id uint, published bool) error {
	c, ok := f.courses[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.IsPublished = published
	return nil
}

func (f *fakeCourseStore) UpsertRating(rating *model.CourseRating) error {
	for i := range f.ratings {
		if f.ratings[i].CourseID == rating.CourseID && f.ratings[i].UserID == rating.UserID {
			f.ratings[i].Rating = rating.Rating
			return nil
		}
	}
	f.ratings = append(f.ratings, *rating)
	return nil
}

func (f *fakeCourseStore) ListRatings(courseID uint) ([]model.CourseRating, error) {
	var out []model.CourseRating
	for _, r := range f.ratings {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCourseStore) UpdateRatingSummary(courseID uint, avg float64, count int, version int) (bool, error) {
	c, ok := f.courses[courseID]
	if !ok {
		return false, nil
	}
	if f.summaryFailures > 0 {
		f.summaryFailures--
		c.Version++
		return false, nil
	}
	if c.Version != version {
		return false, nil
	}
	c.RatingAvg = avg
	c.RatingCount = count
	c.Version++
	return true, nil
}

type fakeLessonStore struct {
	nextID  uint
	lessons map[uint]*model.Lesson
}

func newFakeLessonStore() *fakeLessonStore {
	return &fakeLessonStore{lessons: map[uint]*model.Lesson{}}
}

func (f *fakeLessonStore) Create(lesson *model.Lesson) error {
	for _, l := range f.lessons {
		if l.CourseID == lesson.CourseID && l.SortOrder == lesson.SortOrder {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	lesson.ID = f.nextID
	copied := *lesson
	f.lessons[lesson.ID] = &copied
	return nil
}

func (f *fakeLessonStore) FindByID(id uint) (*model.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLessonStore) FindByIDAndCourse(lessonID, courseID uint) (*model.Lesson, error) {
	l, ok := f.lessons[lessonID]
	if !ok || l.CourseID != courseID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLessonStore) FindByCourse(courseID uint) ([]model.Lesson, error) {
	var out []model.Lesson
	for _, l := range f.lessons {
		if l.CourseID == courseID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeLessonStore) CountByCourse(courseID uint) (int64, error) {
	var count int64
	for _, l := range f.lessons {
		if l.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (f *fakeLessonStore) Update(lesson *model.Lesson) error {
	if _, ok := f.lessons[lesson.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, l := range f.lessons {
		if l.ID != lesson.ID && l.CourseID == lesson.CourseID && l.SortOrder == lesson.SortOrder {
			return gorm.ErrDuplicatedKey
		}
	}
	copied := *lesson
	f.lessons[lesson.ID] = &copied
	return nil
}

func (f *fakeLessonStore) Delete(id uint) error {
	if _, ok := f.lessons[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.lessons, id)
	return nil
}

func (f *fakeLessonStore) SyncCourseStats(courseID uint) error {
	return nil
}

func (f *fakeLessonStore) UpdateAsset(lessonID uint, asset model.LessonAsset) error {
	l, ok := f.lessons[lessonID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.Asset = asset
	return nil
}

type fakeQuizStore struct {
	nextID  uint
	quizzes map[uint]*model.Quiz
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{quizzes: map[uint]*model.Quiz{}}
}

func (f *fakeQuizStore) Create(quiz *model.Quiz) error {
	f.nextID++
	quiz.ID = f.nextID
	copied := *quiz
	f.quizzes[quiz.ID] = &copied
	return nil
}

func (f *fakeQuizStore) FindByID(id uint) (*model.Quiz, error) {
	q, ok := f.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *q
	return &copied, nil
}

func (f *fakeQuizStore) FindByIDAndLesson(quizID, lessonID uint) (*model.Quiz, error) {
	q, ok := f.quizzes[quizID]
	if !ok || q.LessonID != lessonID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *q
	return &copied, nil
}

func (f *fakeQuizStore) FindByLesson(lessonID uint) ([]model.Quiz, error) {
	var out []model.Quiz
	for _, q := range f.quizzes {
		if q.LessonID == lessonID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeQuizStore) Update(quiz *model.Quiz) error {
	if _, ok := f.quizzes[quiz.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *quiz
	f.quizzes[quiz.ID] = &copied
	return nil
}

func (f *fakeQuizStore) Delete(id uint) error {
	if _, ok := f.quizzes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.quizzes, id)
	return nil
}

type fakeAttemptStore struct {
	nextID   uint
	attempts map[uint]*model.Attempt

	// beforeFinalize runs between the service's read and the conditional
	// write, standing in for an interleaved submitter.
	beforeFinalize func()
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{attempts: map[uint]*model.Attempt{}}
}

func (f *fakeAttemptStore) Create(attempt *model.Attempt) error {
	for _, a := range f.attempts {
		if a.QuizID == attempt.QuizID && a.UserID == attempt.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	attempt.ID = f.nextID
	copied := *attempt
	f.attempts[attempt.ID] = &copied
	return nil
}

func (f *fakeAttemptStore) FindByID(id uint) (*model.Attempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAttemptStore) FindByQuizAndUser(quizID, userID uint) (*model.Attempt, error) {
	for _, a := range f.attempts {
		if a.QuizID == quizID && a.UserID == userID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttemptStore) FindByUser(userID uint) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range f.attempts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAttemptStore) FinalizeSubmission(attempt *model.Attempt) (bool, error) {
	if f.beforeFinalize != nil {
		f.beforeFinalize()
	}
	stored, ok := f.attempts[attempt.ID]
	if !ok || stored.SubmittedAt != nil {
		return false, nil
	}
	copied := *attempt
	f.attempts[attempt.ID] = &copied
	return true, nil
}

type fakeEnrollmentStore struct {
	nextID      uint
	enrollments map[uint]*model.Enrollment
	progress    []model.LessonProgress
	courses     *fakeCourseStore
}

func newFakeEnrollmentStore(courses *fakeCourseStore) *fakeEnrollmentStore {
	return &fakeEnrollmentStore{
		enrollments: map[uint]*model.Enrollment{},
		courses:     courses,
	}
}

func (f *fakeEnrollmentStore) CreateWithEnrollCount(enrollment *model.Enrollment) error {
	for _, e := range f.enrollments {
		if e.UserID == enrollment.UserID && e.CourseID == enrollment.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	enrollment.ID = f.nextID
	copied := *enrollment
	f.enrollments[enrollment.ID] = &copied
	if c, ok := f.courses.courses[enrollment.CourseID]; ok {
		c.EnrolledCount++
	}
	return nil
}

func (f *fakeEnrollmentStore) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentStore) FindByUser(userID uint) ([]model.Enrollment, error) {
	var out []model.Enrollment
	for _, e := range f.enrollments {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) FindByCourse(courseID uint) ([]model.Enrollment, error) {
	var out []model.Enrollment
	for _, e := range f.enrollments {
		if e.CourseID == courseID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) Update(enrollment *model.Enrollment) error {
	if _, ok := f.enrollments[enrollment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *enrollment
	f.enrollments[enrollment.ID] = &copied
	return nil
}

func (f *fakeEnrollmentStore) UpsertProgress(progress *model.LessonProgress) error {
	for i := range f.progress {
		if f.progress[i].EnrollmentID == progress.EnrollmentID && f.progress[i].LessonID == progress.LessonID {
			f.progress[i] = *progress
			return nil
		}
	}
	f.progress = append(f.progress, *progress)
	return nil
}

func (f *fakeEnrollmentStore) CountCompleted(enrollmentID uint) (int64, error) {
	var count int64
	for _, p := range f.progress {
		if p.EnrollmentID == enrollmentID && p.Completed {
			count++
		}
	}
	return count, nil
}
