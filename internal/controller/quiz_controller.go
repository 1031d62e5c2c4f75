package controller

import (
	"errors"
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService    *service.QuizService
	QuizGenService *service.QuizGenService
}

func NewQuizController(quizService *service.QuizService, quizGenService *service.QuizGenService) *QuizController {
	return &QuizController{
		QuizService:    quizService,
		QuizGenService: quizGenService,
	}
}

func parseQuizPath(ctx *gin.Context) (lessonID, quizID uint, ok bool) {
	lid, err := strconv.Atoi(ctx.Param("lessonId"))
	if err != nil || lid <= 0 {
		util.BadRequest(ctx, "Invalid lesson id")
		return 0, 0, false
	}
	qid, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil || qid <= 0 {
		util.BadRequest(ctx, "Invalid quiz id")
		return 0, 0, false
	}
	return uint(lid), uint(qid), true
}

func mapQuizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrLessonNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrLessonNotInCourse), errors.Is(err, util.ErrQuizNotInLesson):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAIResponseParse):
		util.Error(ctx, 500, util.ErrAIResponseParse.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// QuestionPayload is one question in a quiz create/update request
// swagger:model QuestionPayload
type QuestionPayload struct {
	Type           string   `json:"type" binding:"required,oneof=mcq truefalse short"`
	Prompt         string   `json:"prompt" binding:"required"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correctAnswers" binding:"required,min=1"`
	Explanation    string   `json:"explanation"`
}

func toQuestions(payloads []QuestionPayload) []model.Question {
	questions := make([]model.Question, 0, len(payloads))
	for _, p := range payloads {
		questions = append(questions, model.Question{
			Type:           model.QuestionType(p.Type),
			Prompt:         p.Prompt,
			Options:        p.Options,
			CorrectAnswers: p.CorrectAnswers,
			Explanation:    p.Explanation,
		})
	}
	return questions
}

// CreateQuizRequest defines the quiz creation payload
// swagger:model CreateQuizRequest
type CreateQuizRequest struct {
	Title        string            `json:"title" binding:"required"`
	Questions    []QuestionPayload `json:"questions" binding:"required,min=1,dive"`
	TimeLimitSec int               `json:"timeLimitSec" binding:"gte=0"`
}

// Create godoc
// @Summary Create a quiz under a lesson
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Param lessonId path int true "Lesson id"
// @Param body body CreateQuizRequest true "Quiz payload"
// @Success 201 {object} map[string]interface{} "Created"
// @Router /api/courses/{id}/lessons/{lessonId}/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	courseID, lessonID, ok := parseLessonPath(ctx)
	if !ok {
		return
	}
	var req CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz := &model.Quiz{
		Title:        req.Title,
		Questions:    model.QuestionList(toQuestions(req.Questions)),
		TimeLimitSec: req.TimeLimitSec,
	}
	if err := c.QuizService.Create(courseID, lessonID, quiz); err != nil {
		mapQuizError(ctx, err)
		return
	}
	util.Created(ctx, "Quiz created", gin.H{"quiz": quiz})
}

// GenerateQuizRequest defines the AI generation payload
// swagger:model GenerateQuizRequest
type GenerateQuizRequest struct {
	Title        string `json:"title"`
	NumQuestions int    `json:"numQuestions" binding:"omitempty,min=1"`
}

// Generate godoc
// @Summary Generate a quiz for a lesson with AI
// @Description Drafts questions from the lesson topic; nothing is stored if the model output fails validation
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Param lessonId path int true "Lesson id"
// @Param body body GenerateQuizRequest true "Generation options"
// @Success 201 {object} map[string]interface{} "Created"
// @Failure 500 {object} map[string]interface{} "Model output unusable"
// @Router /api/courses/{id}/lessons/{lessonId}/quizzes/generate [post]
func (c *QuizController) Generate(ctx *gin.Context) {
	courseID, lessonID, ok := parseLessonPath(ctx)
	if !ok {
		return
	}
	var req GenerateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizGenService.Generate(ctx.Request.Context(), courseID, lessonID, req.Title, req.NumQuestions)
	if err != nil {
		mapQuizError(ctx, err)
		return
	}
	util.Created(ctx, "Quiz generated", gin.H{"quiz": quiz})
}

// List godoc
// @Summary List a lesson's quizzes
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course id"
// @Param lessonId path int true "Lesson id"
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/courses/{id}/lessons/{lessonId}/quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	courseID, lessonID, ok := parseLessonPath(ctx)
	if !ok {
		return
	}
	quizzes, err := c.QuizService.ListByLesson(courseID, lessonID)
	if err != nil {
		mapQuizError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"quizzes": quizzes, "count": len(quizzes)})
}

// Get godoc
// @Summary Get a quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param lessonId path int true "Lesson id"
// @Param quizId path int true "Quiz id"
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/lessons/{lessonId}/quizzes/{quizId} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	lessonID, quizID, ok := parseQuizPath(ctx)
	if !ok {
		return
	}
	quiz, err := c.QuizService.Get(lessonID, quizID)
	if err != nil {
		mapQuizError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"quiz": quiz})
}

// UpdateQuizRequest defines the editable quiz fields
// swagger:model UpdateQuizRequest
type UpdateQuizRequest struct {
	Title        string            `json:"title"`
	Questions    []QuestionPayload `json:"questions" binding:"omitempty,min=1,dive"`
	TimeLimitSec *int              `json:"timeLimitSec" binding:"omitempty,gte=0"`
}

// Update godoc
// @Summary Update a quiz
// @Description Editing the questions bumps the quiz version
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lessonId path int true "Lesson id"
// @Param quizId path int true "Quiz id"
// @Param body body UpdateQuizRequest true "Quiz fields"
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/lessons/{lessonId}/quizzes/{quizId} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	lessonID, quizID, ok := parseQuizPath(ctx)
	if !ok {
		return
	}
	var req UpdateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	update := service.QuizUpdate{
		Title:        req.Title,
		TimeLimitSec: req.TimeLimitSec,
	}
	if req.Questions != nil {
		update.Questions = toQuestions(req.Questions)
	}

	quiz, err := c.QuizService.Update(lessonID, quizID, update)
	if err != nil {
		mapQuizError(ctx, err)
		return
	}
	util.Success(ctx, "Quiz updated", gin.H{"quiz": quiz})
}

// Delete godoc
// @Summary Delete a quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param lessonId path int true "Lesson id"
// @Param quizId path int true "Quiz id"
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/lessons/{lessonId}/quizzes/{quizId} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	lessonID, quizID, ok := parseQuizPath(ctx)
	if !ok {
		return
	}
	if err := c.QuizService.Delete(lessonID, quizID); err != nil {
		mapQuizError(ctx, err)
		return
	}
	util.Success(ctx, "Quiz deleted", nil)
}

// ToggleActive godoc
// @Summary Enable or disable a quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param lessonId path int true "Lesson id"
// @Param quizId path int true "Quiz id"
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/lessons/{lessonId}/quizzes/{quizId}/toggle [put]
func (c *QuizController) ToggleActive(ctx *gin.Context) {
	lessonID, quizID, ok := parseQuizPath(ctx)
	if !ok {
		return
	}
	quiz, err := c.QuizService.ToggleActive(lessonID, quizID)
	if err != nil {
		mapQuizError(ctx, err)
		return
	}
	util.Success(ctx, "Quiz state updated", gin.H{"quiz": quiz})
}
