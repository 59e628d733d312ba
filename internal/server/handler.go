// Package server exposes the quiz review API over HTTP.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sgellert/vinoquiz/internal/answer"
	"github.com/sgellert/vinoquiz/internal/question"
	"github.com/sgellert/vinoquiz/internal/review"
	"github.com/sgellert/vinoquiz/internal/statistics"
)

// userIDHeader identifies the learner until an auth layer exists.
const userIDHeader = "X-User-ID"

const defaultUserID = "default"

// QuizHandler serves answer submissions, due sets, and progress.
type QuizHandler struct {
	reviews    *review.Service
	statistics *statistics.Calculator
	logger     *slog.Logger
}

// NewQuizHandler creates a QuizHandler.
func NewQuizHandler(reviews *review.Service, stats *statistics.Calculator, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{
		reviews:    reviews,
		statistics: stats,
		logger:     logger,
	}
}

func userID(c *gin.Context) string {
	if id := c.GetHeader(userIDHeader); id != "" {
		return id
	}
	return defaultUserID
}

// SubmitAnswerRequest is the POST /api/v1/answers body.
type SubmitAnswerRequest struct {
	QuestionID int64             `json:"question_id" binding:"required"`
	Answer     answer.Submission `json:"answer"`
}

// SubmitAnswerResponse reports the grading outcome and the updated
// schedule for the question.
type SubmitAnswerResponse struct {
	Correct        bool   `json:"correct"`
	Quality        int    `json:"quality"`
	IntervalDays   int    `json:"interval_days"`
	Repetitions    int    `json:"repetitions"`
	NextReviewAt   string `json:"next_review_at"`
	Bucket         string `json:"bucket"`
	MasteryPercent int    `json:"mastery_percent"`
}

// HandleSubmitAnswer handles POST /api/v1/answers.
func (h *QuizHandler) HandleSubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.reviews.SubmitAnswer(c.Request.Context(), userID(c), req.QuestionID, req.Answer)
	if errors.Is(err, review.ErrQuestionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to submit an answer", "error", err, "questionID", req.QuestionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit the answer"})
		return
	}

	c.JSON(http.StatusOK, SubmitAnswerResponse{
		Correct:        result.Correct,
		Quality:        result.Quality,
		IntervalDays:   result.Record.IntervalDays,
		Repetitions:    result.Record.Repetitions,
		NextReviewAt:   result.Record.NextReviewAt.Format(time.RFC3339),
		Bucket:         string(result.Record.Bucket()),
		MasteryPercent: result.Record.MasteryPercent(),
	})
}

// DueQuestionResponse is one entry of the GET /api/v1/questions/due body.
// It carries only what a client needs to render the question; the answer
// key never leaves the server.
type DueQuestionResponse struct {
	ID             int64         `json:"id"`
	Prompt         string        `json:"prompt"`
	Type           question.Type `json:"type"`
	Options        []string      `json:"options,omitempty"`
	Region         [][2]float64  `json:"region,omitempty"`
	Bucket         string        `json:"bucket"`
	MasteryPercent int           `json:"mastery_percent"`
}

func newDueQuestionResponse(dq review.DueQuestion) DueQuestionResponse {
	resp := DueQuestionResponse{
		ID:             dq.Question.ID,
		Prompt:         dq.Question.Prompt,
		Type:           dq.Question.Type,
		Bucket:         string(dq.Record.Bucket()),
		MasteryPercent: dq.Record.MasteryPercent(),
	}
	switch dq.Question.Type {
	case question.TypeSingleChoice, question.TypeMultiSelect:
		resp.Options = dq.Question.Payload.Options
	case question.TypeMapToText:
		// The highlighted region is the prompt for these questions. For
		// map-click questions the region is the answer and stays out of
		// the response.
		resp.Region = dq.Question.Payload.Region
	}
	return resp
}

// HandleGetDueQuestions handles GET /api/v1/questions/due.
func (h *QuizHandler) HandleGetDueQuestions(c *gin.Context) {
	due, err := h.reviews.DueQuestions(c.Request.Context(), userID(c))
	if err != nil {
		h.logger.Error("failed to fetch the due set", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch due questions"})
		return
	}

	questions := make([]DueQuestionResponse, 0, len(due))
	for _, dq := range due {
		questions = append(questions, newDueQuestionResponse(dq))
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// HandleGetProgress handles GET /api/v1/progress.
func (h *QuizHandler) HandleGetProgress(c *gin.Context) {
	progress, err := h.statistics.Progress(c.Request.Context(), userID(c))
	if err != nil {
		h.logger.Error("failed to calculate progress", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate progress"})
		return
	}
	c.JSON(http.StatusOK, progress)
}
