package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("User already exists, please login!")
	ErrInvalidCredentials = errors.New("Incorrect email or password!")
	ErrResetTokenInvalid  = errors.New("Invalid or expired reset token!")

	ErrUserNotFound    = errors.New("User not found")
	ErrCourseNotFound  = errors.New("Course not found")
	ErrLessonNotFound  = errors.New("Lesson not found")
	ErrQuizNotFound    = errors.New("Quiz not found")
	ErrAttemptNotFound = errors.New("Attempt not found")

	ErrLessonNotInCourse = errors.New("Lesson not belongs to this course!")
	ErrQuizNotInLesson   = errors.New("Quiz not belongs to this lesson!")

	ErrSlugTaken        = errors.New("Course slug already in use")
	ErrLessonOrderTaken = errors.New("Lesson order already used in this course")

	ErrAlreadyEnrolled    = errors.New("User already enrolled in this course")
	ErrNotEnrolled        = errors.New("User not enrolled in this course")
	ErrCourseIncomplete   = errors.New("Course is not fully completed yet")
	ErrQuizAlreadyStarted = errors.New("Quiz attempt already started")
	ErrQuizAttempted      = errors.New("Quiz already attempted")

	ErrAIResponseParse = errors.New("Failed to parse AI-generated quiz")

	// Returned when the optimistic version check keeps failing.
	ErrConcurrentUpdate = errors.New("record was modified concurrently")
)
