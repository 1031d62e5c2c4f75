package controller

import (
	"errors"
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

func parseQuizID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(ctx.Param("quizId"))
	if err != nil || id <= 0 {
		util.BadRequest(ctx, "Invalid quiz id")
		return 0, false
	}
	return uint(id), true
}

func mapAttemptError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrAttemptNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrQuizAttempted), errors.Is(err, util.ErrQuizAlreadyStarted):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// Start godoc
// @Summary Start a quiz attempt
// @Description Opens the caller's single attempt at the quiz
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz id"
// @Success 201 {object} map[string]interface{} "Created"
// @Failure 400 {object} map[string]interface{} "Already started or attempted"
// @Router /api/quizzes/{quizId}/attempts/start [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	quizID, ok := parseQuizID(ctx)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.Start(quizID, claims.UserID)
	if err != nil {
		mapAttemptError(ctx, err)
		return
	}
	util.Created(ctx, "Attempt started", gin.H{"attempt": attempt})
}

// AttemptAnswerPayload is one submitted answer
// swagger:model AttemptAnswerPayload
type AttemptAnswerPayload struct {
	QIndex          int    `json:"qIndex" binding:"gte=0"`
	SelectedOptions []int  `json:"selectedOptions"`
	AnswerText      string `json:"answerText"`
}

// SubmitAttemptRequest defines the submission payload
// swagger:model SubmitAttemptRequest
type SubmitAttemptRequest struct {
	Answers      []AttemptAnswerPayload `json:"answers" binding:"required,dive"`
	TimeTakenSec int                    `json:"timeTakenSec" binding:"gte=0"`
}

// Submit godoc
// @Summary Submit quiz answers
// @Description Grades the answers server side; only the first submission per quiz counts
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz id"
// @Param body body SubmitAttemptRequest true "Answers"
// @Success 200 {object} map[string]interface{} "OK"
// @Failure 400 {object} map[string]interface{} "Quiz already attempted"
// @Router /api/quizzes/{quizId}/attempts [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	quizID, ok := parseQuizID(ctx)
	if !ok {
		return
	}
	var req SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answers := make([]model.AttemptAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, model.AttemptAnswer{
			QIndex:          a.QIndex,
			SelectedOptions: a.SelectedOptions,
			AnswerText:      a.AnswerText,
		})
	}

	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.Submit(quizID, claims.UserID, answers, req.TimeTakenSec)
	if err != nil {
		mapAttemptError(ctx, err)
		return
	}
	util.Success(ctx, "Attempt submitted", gin.H{
		"attempt": attempt,
		"score":   attempt.Score,
	})
}

// Get godoc
// @Summary Get one of the caller's attempts
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param attemptId path int true "Attempt id"
// @Success 200 {object} map[string]interface{} "OK"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Router /api/attempts/{attemptId} [get]
func (c *AttemptController) Get(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("attemptId"))
	if err != nil || id <= 0 {
		util.BadRequest(ctx, "Invalid attempt id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.Get(uint(id), claims.UserID)
	if err != nil {
		mapAttemptError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"attempt": attempt})
}

// Mine godoc
// @Summary List the caller's attempts
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "OK"
// @Router /api/attempts [get]
func (c *AttemptController) Mine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attempts, err := c.AttemptService.MyAttempts(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, "OK", gin.H{"attempts": attempts, "count": len(attempts)})
}
