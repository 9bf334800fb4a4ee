package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/practice-engine/internal/answers"
	"github.com/SAP-F-2025/practice-engine/internal/models"
	"github.com/SAP-F-2025/practice-engine/internal/services"
	"github.com/SAP-F-2025/practice-engine/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PracticeHandler struct {
	BaseHandler
	practiceService services.PracticeService
}

func NewPracticeHandler(practiceService services.PracticeService, logger utils.Logger) *PracticeHandler {
	return &PracticeHandler{
		BaseHandler:     NewBaseHandler(logger),
		practiceService: practiceService,
	}
}

// ListExercises lists the catalog, optionally filtered by type
// @Summary List exercises
// @Tags exercises
// @Produce json
// @Param type query string false "Exercise type"
// @Success 200 {array} models.ExerciseDefinition
// @Router /exercises [get]
func (h *PracticeHandler) ListExercises(c *gin.Context) {
	exerciseType := models.ExerciseType(c.Query("type"))
	if exerciseType != "" && !isKnownType(exerciseType) {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid exercise type", nil, string(exerciseType))
		return
	}

	exercises := h.practiceService.ListExercises(c.Request.Context(), exerciseType)
	c.JSON(http.StatusOK, gin.H{
		"exercises": exercises,
		"total":     len(exercises),
	})
}

// GetExercise retrieves one exercise definition
// @Summary Get exercise
// @Tags exercises
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {object} models.ExerciseDefinition
// @Failure 404 {object} ErrorResponse
// @Router /exercises/{id} [get]
func (h *PracticeHandler) GetExercise(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	def, err := h.practiceService.GetExercise(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

// CreateSession opens a session on an exercise
// @Summary Create session
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.CreateSessionRequest true "Session data"
// @Success 201 {object} session.Snapshot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions [post]
func (h *PracticeHandler) CreateSession(c *gin.Context) {
	var req services.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Creating session", "exercise_id", req.ExerciseID)

	snap, err := h.practiceService.CreateSession(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// GetSession returns the session snapshot including the countdown
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Snapshot
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *PracticeHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.practiceService.GetSession(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// StartSession starts the countdown
// @Summary Start session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Snapshot
// @Router /sessions/{id}/start [post]
func (h *PracticeHandler) StartSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.practiceService.StartSession(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ApplyEvent applies one answer interaction
// @Summary Apply answer event
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param event body answers.Event true "Answer event"
// @Success 200 {object} session.Snapshot
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/events [post]
func (h *PracticeHandler) ApplyEvent(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var event answers.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	snap, err := h.practiceService.ApplyEvent(c.Request.Context(), id, event)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Submit validates, scores and records the answer
// @Summary Submit session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SubmitResult
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *PracticeHandler) Submit(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Submitting session", "session_id", id)

	result, err := h.practiceService.Submit(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CloseSession stops the countdown and discards the session
// @Summary Close session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [delete]
func (h *PracticeHandler) CloseSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.practiceService.CloseSession(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProgress returns the progress ledger with totals
// @Summary Get progress
// @Tags progress
// @Produce json
// @Success 200 {object} services.ProgressSummary
// @Router /progress [get]
func (h *PracticeHandler) GetProgress(c *gin.Context) {
	c.JSON(http.StatusOK, h.practiceService.Progress(c.Request.Context()))
}

// ResetProgress clears the ledger
// @Summary Reset progress
// @Tags progress
// @Success 200 {object} SuccessResponse
// @Router /progress [delete]
func (h *PracticeHandler) ResetProgress(c *gin.Context) {
	h.LogRequest(c, "Resetting progress")
	h.practiceService.ResetProgress(c.Request.Context())
	c.JSON(http.StatusOK, SuccessResponse{Message: "Progress reset"})
}

// ExportProgress downloads the ledger as an Excel workbook
// @Summary Export progress
// @Tags progress
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /progress/export [get]
func (h *PracticeHandler) ExportProgress(c *gin.Context) {
	data, err := h.practiceService.ExportProgress(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := "progress_" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func isKnownType(t models.ExerciseType) bool {
	for _, known := range models.ExerciseTypes {
		if known == t {
			return true
		}
	}
	return false
}
