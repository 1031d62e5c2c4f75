package controller

import (
	"errors"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

func mapEnrollmentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound), errors.Is(err, util.ErrNotEnrolled):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrAlreadyEnrolled),
		errors.Is(err, util.ErrLessonNotInCourse),
		errors.Is(err, util.ErrCourseIncomplete):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Success 201 {object} map[string]interface{} "Created"
// @Failure 400 {object} map[string]interface{} "Already enrolled"
// @Router /api/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	enrollment, err := c.EnrollmentService.Enroll(claims.UserID, courseID)
	if err != nil {
		mapEnrollmentError(ctx, err)
		return
	}
	util.Created(ctx, "Enrolled successfully", gin.H{"enrollment": enrollment})
}

// Mine godoc
// @Summary List the caller's enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/enrollments [get]
func (c *EnrollmentController) Mine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollments, err := c.EnrollmentService.MyEnrollments(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"enrollments": enrollments, "count": len(enrollments)})
}

// ByCourse godoc
// @Summary List a course's enrollments
// @Description Instructor and admin view of who enrolled
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/courses/{id}/enrollments [get]
func (c *EnrollmentController) ByCourse(ctx *gin.Context) {
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	enrollments, err := c.EnrollmentService.ByCourse(courseID)
	if err != nil {
		mapEnrollmentError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"enrollments": enrollments, "count": len(enrollments)})
}

// Progress godoc
// @Summary Get the caller's progress in a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Success 200 {object} map[string]interface{} "OK"
// @Failure 404 {object} map[string]interface{} "Not enrolled"
// @Router /api/courses/{id}/progress [get]
func (c *EnrollmentController) Progress(ctx *gin.Context) {
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	enrollment, err := c.EnrollmentService.Get(claims.UserID, courseID)
	if err != nil {
		mapEnrollmentError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"enrollment": enrollment})
}

// UpdateProgressRequest defines the progress payload
// swagger:model UpdateProgressRequest
type UpdateProgressRequest struct {
	LessonID          uint `json:"lessonId" binding:"required"`
	CompletedLectures int  `json:"completedLectures" binding:"gte=0"`
}

// UpdateProgress godoc
// @Summary Record lesson progress
// @Description Overwrites the per-lesson entry and refreshes the enrollment summary
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Param body body UpdateProgressRequest true "Progress"
// @Success 200 {object} map[string]interface{} "OK"
// @Failure 400 {object} map[string]interface{} "Lesson not in course"
// @Router /api/courses/{id}/progress [put]
func (c *EnrollmentController) UpdateProgress(ctx *gin.Context) {
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	var req UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	enrollment, err := c.EnrollmentService.UpdateProgress(claims.UserID, courseID, req.LessonID, req.CompletedLectures)
	if err != nil {
		mapEnrollmentError(ctx, err)
		return
	}
	util.Success(ctx, "Progress updated", gin.H{"enrollment": enrollment})
}

// Complete godoc
// @Summary Mark a course as completed
// @Description Succeeds only when every lesson has a completed progress entry
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Success 200 {object} map[string]interface{} "OK"
// @Failure 400 {object} map[string]interface{} "Course not fully completed"
// @Router /api/courses/{id}/complete [post]
func (c *EnrollmentController) Complete(ctx *gin.Context) {
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	enrollment, err := c.EnrollmentService.CompleteCourse(claims.UserID, courseID)
	if err != nil {
		mapEnrollmentError(ctx, err)
		return
	}
	util.Success(ctx, "Course completed", gin.H{"enrollment": enrollment})
}
