package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenlabs/lumen/backend/internal/assistant"
	"github.com/lumenlabs/lumen/backend/internal/canvases"
	"github.com/lumenlabs/lumen/backend/internal/courses"
	"github.com/lumenlabs/lumen/backend/internal/faults"
	"github.com/lumenlabs/lumen/backend/internal/journals"
	"github.com/lumenlabs/lumen/backend/internal/profile"
	"github.com/lumenlabs/lumen/backend/internal/spaces"
	"github.com/lumenlabs/lumen/backend/internal/tasks"
)

type httpHandler struct {
	spaces      *spaces.Service
	canvases    *canvases.Service
	journals    *journals.Service
	tasks       *tasks.Service
	profile     *profile.Service
	catalog     *courses.Catalog
	enrollments *courses.Enrollments
	replies     assistant.ReplyGenerator
	logger      *zap.Logger
}

// respondServiceError maps a repository failure to a 500 carrying the
// service error code when one is available.
func (h *httpHandler) respondServiceError(c *gin.Context, err error) {
	var serviceErr *faults.ServiceError
	if errors.As(err, &serviceErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": serviceErr.Code()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}

// --- spaces ---

type createSpaceRequest struct {
	Name string `json:"name"`
}

func (h *httpHandler) handleCreateSpace(c *gin.Context) {
	var request createSpaceRequest
	// The body is optional; a blank name falls back to the default
	// space name in the repository.
	_ = c.ShouldBindJSON(&request)
	space, err := h.spaces.CreateSpace(request.Name)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, space)
}

func (h *httpHandler) handleListSpaces(c *gin.Context) {
	c.JSON(http.StatusOK, h.spaces.ListSpaces())
}

func (h *httpHandler) handleGetSpace(c *gin.Context) {
	space, found := h.spaces.GetSpace(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "space_not_found"})
		return
	}
	c.JSON(http.StatusOK, space)
}

type renameSpaceRequest struct {
	Name string `json:"name"`
}

func (h *httpHandler) handleRenameSpace(c *gin.Context) {
	var request renameSpaceRequest
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_name"})
		return
	}
	renamed, err := h.spaces.RenameSpace(c.Param("id"), request.Name)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !renamed {
		c.JSON(http.StatusNotFound, gin.H{"error": "space_not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleDeleteSpace(c *gin.Context) {
	deleted, err := h.spaces.DeleteSpace(c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "space_not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}

type addMessageRequest struct {
	Content string `json:"content"`
	IsAI    bool   `json:"is_ai"`
}

func (h *httpHandler) handleAddMessage(c *gin.Context) {
	var request addMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_content"})
		return
	}
	message, found, err := h.spaces.AddMessage(c.Param("id"), request.Content, request.IsAI)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "space_not_found"})
		return
	}
	c.JSON(http.StatusCreated, message)
}

type replyRequest struct {
	Content string `json:"content"`
}

type replyResponse struct {
	UserMessage spaces.ChatMessage `json:"user_message"`
	AIMessage   spaces.ChatMessage `json:"ai_message"`
}

// handleReply appends the user's message, awaits the reply generator,
// and appends the generated message. Generator failure leaves the user
// message persisted; only the reply did not happen.
func (h *httpHandler) handleReply(c *gin.Context) {
	var request replyRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_content"})
		return
	}
	spaceID := c.Param("id")

	userMessage, found, err := h.spaces.AddMessage(spaceID, request.Content, false)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "space_not_found"})
		return
	}

	replyText, err := h.replies.GenerateReply(c.Request.Context(), request.Content)
	if err != nil {
		h.logger.Warn("reply generation failed",
			zap.String("space_id", spaceID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "reply_generation_failed"})
		return
	}

	aiMessage, found, err := h.spaces.AddMessage(spaceID, replyText, true)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !found {
		// The space vanished between the two appends; treat the reply
		// as not having happened.
		c.JSON(http.StatusNotFound, gin.H{"error": "space_not_found"})
		return
	}

	c.JSON(http.StatusCreated, replyResponse{UserMessage: userMessage, AIMessage: aiMessage})
}

// --- canvases ---

type saveCanvasRequest struct {
	Name      string `json:"name"`
	ImageData string `json:"image_data"`
	SpaceID   string `json:"space_id"`
}

func (h *httpHandler) handleSaveCanvas(c *gin.Context) {
	var request saveCanvasRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.Name == "" || request.ImageData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_canvas"})
		return
	}
	canvas, err := h.canvases.SaveCanvas(request.Name, request.ImageData, request.SpaceID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, canvas)
}

func (h *httpHandler) handleListCanvases(c *gin.Context) {
	c.JSON(http.StatusOK, h.canvases.ListCanvases(c.Query("space_id")))
}

func (h *httpHandler) handleDeleteCanvas(c *gin.Context) {
	deleted, err := h.canvases.DeleteCanvas(c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "canvas_not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// --- journals ---

type saveJournalRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *httpHandler) handleSaveJournal(c *gin.Context) {
	var request saveJournalRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_journal"})
		return
	}
	journal, err := h.journals.SaveJournal(request.Title, request.Content)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, journal)
}

func (h *httpHandler) handleListJournals(c *gin.Context) {
	c.JSON(http.StatusOK, h.journals.ListJournals())
}

func (h *httpHandler) handleGetJournal(c *gin.Context) {
	journal, found := h.journals.GetJournal(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "journal_not_found"})
		return
	}
	c.JSON(http.StatusOK, journal)
}

func (h *httpHandler) handleDeleteJournal(c *gin.Context) {
	deleted, err := h.journals.DeleteJournal(c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "journal_not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// --- tasks ---

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *httpHandler) handleCreateTask(c *gin.Context) {
	var request createTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_task"})
		return
	}
	task, err := h.tasks.CreateTask(request.Title, request.Description, request.DueDate)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *httpHandler) handleListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.tasks.ListTasks())
}

func (h *httpHandler) handleUpdateTask(c *gin.Context) {
	var update tasks.TaskUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_task"})
		return
	}
	updated, err := h.tasks.UpdateTask(c.Param("id"), update)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "task_not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleDeleteTask(c *gin.Context) {
	deleted, err := h.tasks.DeleteTask(c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "task_not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// --- profile ---

func (h *httpHandler) handleGetProfile(c *gin.Context) {
	record, err := h.profile.GetProfile()
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *httpHandler) handleSaveProfile(c *gin.Context) {
	var record profile.UserProfile
	if err := c.ShouldBindJSON(&record); err != nil || record.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_profile"})
		return
	}
	saved, err := h.profile.SaveProfile(record)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// --- courses ---

func (h *httpHandler) handleListCourses(c *gin.Context) {
	collection, err := h.catalog.ListCourses()
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

func (h *httpHandler) handleGetCourse(c *gin.Context) {
	course, found, err := h.catalog.GetCourse(c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "course_not_found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

type enrollRequest struct {
	UserID string `json:"user_id"`
}

func (h *httpHandler) handleEnroll(c *gin.Context) {
	var request enrollRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_user_id"})
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Param("id"), request.UserID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

type progressRequest struct {
	UserID    string `json:"user_id"`
	ModuleID  string `json:"module_id"`
	Completed bool   `json:"completed"`
}

func (h *httpHandler) handleUpdateProgress(c *gin.Context) {
	var request progressRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.UserID == "" || request.ModuleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_progress_update"})
		return
	}
	updated, err := h.enrollments.UpdateProgress(c.Param("id"), request.UserID, request.ModuleID, request.Completed)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "enrollment_not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleListEnrollments(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_user_id"})
		return
	}
	c.JSON(http.StatusOK, h.enrollments.ListUserCourses(userID))
}
