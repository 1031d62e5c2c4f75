package controller

import (
	"errors"
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService  *service.CourseService
	StorageService *service.StorageService
}

func NewCourseController(courseService *service.CourseService, storageService *service.StorageService) *CourseController {
	return &CourseController{
		CourseService:  courseService,
		StorageService: storageService,
	}
}

func parseCourseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		util.BadRequest(ctx, "Invalid course id")
		return 0, false
	}
	return uint(id), true
}

func (c *CourseController) mapCourseError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrSlugTaken):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrConcurrentUpdate):
		util.Conflict(ctx, "Course was updated concurrently, please retry")
	default:
		util.LogInternalError(ctx, err)
	}
}

// CreateCourseRequest defines the course creation payload
// swagger:model CreateCourseRequest
type CreateCourseRequest struct {
	Title        string   `json:"title" binding:"required"`
	Slug         string   `json:"slug" binding:"required"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Price        float64  `json:"price" binding:"gte=0"`
	Currency     string   `json:"currency"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	Level        string   `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Language     string   `json:"language"`
}

// Create godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCourseRequest true "Course payload"
// @Success 201 {object} map[string]interface{} "Created"
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course := &model.Course{
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		InstructorID: claims.UserID,
		Price:        req.Price,
		Currency:     req.Currency,
		Category:     req.Category,
		Tags:         model.StringList(req.Tags),
		Level:        model.CourseLevel(req.Level),
		Language:     req.Language,
	}
	if err := c.CourseService.Create(course); err != nil {
		c.mapCourseError(ctx, err)
		return
	}
	util.Created(ctx, "Course created", gin.H{"course": course})
}

// Get godoc
// @Summary Get a course with its lessons
// @Tags courses
// @Produce json
// @Param id path int true "Course id"
// @Success 200 {object} map[string]interface{} "OK"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	course, err := c.CourseService.Get(id)
	if err != nil {
		c.mapCourseError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"course": course})
}

// GetBySlug godoc
// @Summary Get a published course by slug
// @Tags courses
// @Produce json
// @Param slug path string true "Course slug"
// @Success 200 {object} map[string]interface{} "OK"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Router /api/courses/slug/{slug} [get]
func (c *CourseController) GetBySlug(ctx *gin.Context) {
	course, err := c.CourseService.GetBySlug(ctx.Param("slug"))
	if err != nil {
		c.mapCourseError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"course": course})
}

// ListPublished godoc
// @Summary List published courses
// @Description Public catalog; optional keyword search
// @Tags courses
// @Produce json
// @Param search query string false "Keyword"
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/courses/published [get]
func (c *CourseController) ListPublished(ctx *gin.Context) {
	if keyword := ctx.Query("search"); keyword != "" {
		courses, err := c.CourseService.Search(keyword)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		util.Success(ctx, "OK", gin.H{"courses": courses, "count": len(courses)})
		return
	}

	courses, err := c.CourseService.ListPublished(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"courses": courses, "count": len(courses)})
}

// ListAll godoc
// @Summary List every course, published or not
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/courses [get]
func (c *CourseController) ListAll(ctx *gin.Context) {
	courses, err := c.CourseService.ListAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"courses": courses, "count": len(courses)})
}

// ListMine godoc
// @Summary List the current instructor's courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/courses/mine [get]
func (c *CourseController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courses, err := c.CourseService.ListByInstructor(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"courses": courses, "count": len(courses)})
}

// UpdateCourseRequest defines the editable course fields
// swagger:model UpdateCourseRequest
type UpdateCourseRequest struct {
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Price        *float64 `json:"price" binding:"omitempty,gte=0"`
	Currency     string   `json:"currency"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	Level        string   `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Language     string   `json:"language"`
}

// Update godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Param body body UpdateCourseRequest true "Course fields"
// @Success 200 {object} map[string]interface{} "OK"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Router /api/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	var req UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(id, service.CourseUpdate{
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		Price:        req.Price,
		Currency:     req.Currency,
		Category:     req.Category,
		Tags:         req.Tags,
		Level:        req.Level,
		Language:     req.Language,
	})
	if err != nil {
		c.mapCourseError(ctx, err)
		return
	}
	util.Success(ctx, "Course updated", gin.H{"course": course})
}

// Delete godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Success 200 {object} map[string]interface{} "OK"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Router /api/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	if err := c.CourseService.Delete(id); err != nil {
		c.mapCourseError(ctx, err)
		return
	}
	util.Success(ctx, "Course deleted", nil)
}

// Publish godoc
// @Summary Publish a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/courses/{id}/publish [put]
func (c *CourseController) Publish(ctx *gin.Context) {
	c.setPublished(ctx, true, "Course published")
}

// Unpublish godoc
// @Summary Unpublish a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/courses/{id}/unpublish [put]
func (c *CourseController) Unpublish(ctx *gin.Context) {
	c.setPublished(ctx, false, "Course unpublished")
}

func (c *CourseController) setPublished(ctx *gin.Context, published bool, message string) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	course, err := c.CourseService.SetPublished(id, published)
	if err != nil {
		c.mapCourseError(ctx, err)
		return
	}
	util.Success(ctx, message, gin.H{"course": course})
}

// RateCourseRequest defines the rating payload
// swagger:model RateCourseRequest
type RateCourseRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// Rate godoc
// @Summary Rate a course
// @Description Records the caller's 1-5 rating; a repeat rating overwrites the previous one
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Param body body RateCourseRequest true "Rating"
// @Success 200 {object} map[string]interface{} "OK"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Router /api/courses/{id}/rate [post]
func (c *CourseController) Rate(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	var req RateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := c.CourseService.Rate(id, claims.UserID, req.Rating)
	if err != nil {
		c.mapCourseError(ctx, err)
		return
	}
	util.Success(ctx, "Rating recorded", gin.H{
		"ratingAvg":   course.RatingAvg,
		"ratingCount": course.RatingCount,
	})
}

// UploadThumbnail godoc
// @Summary Upload a course thumbnail
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Param thumbnail formData file true "Image file"
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/courses/{id}/thumbnail [post]
func (c *CourseController) UploadThumbnail(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}
	fileHeader, err := ctx.FormFile("thumbnail")
	if err != nil {
		util.BadRequest(ctx, "Thumbnail file is required")
		return
	}

	obj, err := c.StorageService.Upload(ctx.Request.Context(), "thumbnails", fileHeader, []string{"image/"})
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(id, service.CourseUpdate{ThumbnailURL: obj.URL})
	if err != nil {
		c.mapCourseError(ctx, err)
		return
	}
	util.Success(ctx, "Thumbnail updated", gin.H{"course": course})
}
