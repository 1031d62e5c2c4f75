package controller

import (
	"errors"
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// Uploaded lesson files must sniff as one of these.
var lessonAssetTypes = []string{
	"video/", "audio/", "image/",
	"application/pdf", "application/zip", "application/octet-stream", "text/",
}

type LessonController struct {
	LessonService  *service.LessonService
	StorageService *service.StorageService
}

func NewLessonController(lessonService *service.LessonService, storageService *service.StorageService) *LessonController {
	return &LessonController{
		LessonService:  lessonService,
		StorageService: storageService,
	}
}

func parseLessonPath(ctx *gin.Context) (courseID, lessonID uint, ok bool) {
	cid, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || cid <= 0 {
		util.BadRequest(ctx, "Invalid course id")
		return 0, 0, false
	}
	lid, err := strconv.Atoi(ctx.Param("lessonId"))
	if err != nil || lid <= 0 {
		util.BadRequest(ctx, "Invalid lesson id")
		return 0, 0, false
	}
	return uint(cid), uint(lid), true
}

func mapLessonError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound), errors.Is(err, util.ErrLessonNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrLessonNotInCourse):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrLessonOrderTaken):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// CreateLessonRequest defines the lesson creation payload
// swagger:model CreateLessonRequest
type CreateLessonRequest struct {
	Title         string `json:"title" binding:"required"`
	Order         int    `json:"order" binding:"omitempty,min=1"`
	ContentType   string `json:"contentType" binding:"required,oneof=video pdf doc html audio"`
	ContentTitle  string `json:"contentTitle"`
	DurationSec   int    `json:"durationSec" binding:"gte=0"`
	LectureCount  int    `json:"lectureCount" binding:"gte=0"`
	IsFreePreview bool   `json:"isFreePreview"`
}

// Create godoc
// @Summary Add a lesson to a course
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Param body body CreateLessonRequest true "Lesson payload"
// @Success 201 {object} map[string]interface{} "Created"
// @Failure 404 {object} map[string]interface{} "Course not found"
// @Router /api/courses/{id}/lessons [post]
func (c *LessonController) Create(ctx *gin.Context) {
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	var req CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson := &model.Lesson{
		CourseID:      courseID,
		Title:         req.Title,
		SortOrder:     req.Order,
		ContentType:   model.ContentType(req.ContentType),
		ContentTitle:  req.ContentTitle,
		DurationSec:   req.DurationSec,
		LectureCount:  req.LectureCount,
		IsFreePreview: req.IsFreePreview,
	}
	if err := c.LessonService.Create(lesson); err != nil {
		mapLessonError(ctx, err)
		return
	}
	util.Created(ctx, "Lesson created", gin.H{"lesson": lesson})
}

// List godoc
// @Summary List a course's lessons in order
// @Tags lessons
// @Produce json
// @Param id path int true "Course id"
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/courses/{id}/lessons [get]
func (c *LessonController) List(ctx *gin.Context) {
	courseID, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	lessons, err := c.LessonService.ListByCourse(courseID)
	if err != nil {
		mapLessonError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"lessons": lessons, "count": len(lessons)})
}

// Get godoc
// @Summary Get one lesson of a course
// @Tags lessons
// @Produce json
// @Param id path int true "Course id"
// @Param lessonId path int true "Lesson id"
// @Success 200 {object} map[string]interface{} "OK"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Router /api/courses/{id}/lessons/{lessonId} [get]
func (c *LessonController) Get(ctx *gin.Context) {
	courseID, lessonID, ok := parseLessonPath(ctx)
	if !ok {
		return
	}
	lesson, err := c.LessonService.Get(courseID, lessonID)
	if err != nil {
		mapLessonError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"lesson": lesson})
}

// UpdateLessonRequest defines the editable lesson fields
// swagger:model UpdateLessonRequest
type UpdateLessonRequest struct {
	Title         string `json:"title"`
	Order         *int   `json:"order" binding:"omitempty,min=1"`
	ContentType   string `json:"contentType" binding:"omitempty,oneof=video pdf doc html audio"`
	ContentTitle  string `json:"contentTitle"`
	DurationSec   *int   `json:"durationSec" binding:"omitempty,gte=0"`
	LectureCount  *int   `json:"lectureCount" binding:"omitempty,gte=0"`
	IsFreePreview *bool  `json:"isFreePreview"`
}

// Update godoc
// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Param lessonId path int true "Lesson id"
// @Param body body UpdateLessonRequest true "Lesson fields"
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/courses/{id}/lessons/{lessonId} [put]
func (c *LessonController) Update(ctx *gin.Context) {
	courseID, lessonID, ok := parseLessonPath(ctx)
	if !ok {
		return
	}
	var req UpdateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Update(courseID, lessonID, service.LessonUpdate{
		Title:         req.Title,
		SortOrder:     req.Order,
		ContentType:   req.ContentType,
		ContentTitle:  req.ContentTitle,
		DurationSec:   req.DurationSec,
		LectureCount:  req.LectureCount,
		IsFreePreview: req.IsFreePreview,
	})
	if err != nil {
		mapLessonError(ctx, err)
		return
	}
	util.Success(ctx, "Lesson updated", gin.H{"lesson": lesson})
}

// Delete godoc
// @Summary Delete a lesson
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Param lessonId path int true "Lesson id"
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/courses/{id}/lessons/{lessonId} [delete]
func (c *LessonController) Delete(ctx *gin.Context) {
	courseID, lessonID, ok := parseLessonPath(ctx)
	if !ok {
		return
	}
	if err := c.LessonService.Delete(courseID, lessonID); err != nil {
		mapLessonError(ctx, err)
		return
	}
	util.Success(ctx, "Lesson deleted", nil)
}

// UploadAsset godoc
// @Summary Upload the lesson's content file
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Param lessonId path int true "Lesson id"
// @Param file formData file true "Content file"
// @Success 200 {object} map[string]interface{} "OK"
// @Failure 400 {object} map[string]interface{} "Unsupported file type"
// @Router /api/courses/{id}/lessons/{lessonId}/asset [post]
func (c *LessonController) UploadAsset(ctx *gin.Context) {
	courseID, lessonID, ok := parseLessonPath(ctx)
	if !ok {
		return
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "Content file is required")
		return
	}

	obj, err := c.StorageService.Upload(ctx.Request.Context(), "lessons", fileHeader, lessonAssetTypes)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.AttachAsset(courseID, lessonID, model.LessonAsset{
		FileKey:  obj.Key,
		FileURL:  obj.URL,
		FileSize: obj.Size,
		FileMime: obj.Mime,
	})
	if err != nil {
		mapLessonError(ctx, err)
		return
	}
	util.Success(ctx, "Lesson asset uploaded", gin.H{"lesson": lesson})
}
