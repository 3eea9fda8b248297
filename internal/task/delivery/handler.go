package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"taskpilot-backend/internal/task/domain"
	"taskpilot-backend/internal/task/scheduler"
	"taskpilot-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
	reminders   *scheduler.ReminderScheduler
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskUsecase usecase.TaskUsecase, reminders *scheduler.ReminderScheduler) *TaskHandler {
	return &TaskHandler{
		taskUsecase: taskUsecase,
		reminders:   reminders,
	}
}

// GetTasks returns the authenticated user's tasks, optionally filtered or
// searched
// GET /api/tasks?status=pending&priority=high&due_date=2024-01-15&tag=home&q=milk
func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID := c.GetString("userID")

	var (
		tasks []domain.Task
		err   error
	)
	if query, ok := c.GetQuery("q"); ok {
		tasks, err = h.taskUsecase.Search(userID, query)
	} else {
		criteria := usecase.FilterCriteria{
			Status:   c.Query("status"),
			Priority: c.Query("priority"),
			DueDate:  c.Query("due_date"),
			Tag:      c.Query("tag"),
		}
		tasks, err = h.taskUsecase.List(userID, criteria)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// CreateTask creates a new task
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID := c.GetString("userID")

	var req usecase.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.Add(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTaskByID returns a specific task
// GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	userID := c.GetString("userID")
	taskID := c.Param("id")

	task, err := h.taskUsecase.Get(userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask applies a partial update to an existing task
// PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID := c.GetString("userID")
	taskID := c.Param("id")

	var updates usecase.UpdateTaskRequest
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.Update(userID, taskID, updates)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTaskStatus is a convenience endpoint to just update status
// PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	userID := c.GetString("userID")
	taskID := c.Param("id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.Update(userID, taskID, usecase.UpdateTaskRequest{
		Status: &req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID := c.GetString("userID")
	taskID := c.Param("id")

	if err := h.taskUsecase.Delete(userID, taskID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// GetStats tallies the user's collection
// GET /api/tasks/stats
func (h *TaskHandler) GetStats(c *gin.Context) {
	userID := c.GetString("userID")

	stats, err := h.taskUsecase.Stats(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetSuggestions returns task titles ranked by fuzzy relevance
// GET /api/tasks/suggestions?q=groc&limit=5
func (h *TaskHandler) GetSuggestions(c *gin.Context) {
	userID := c.GetString("userID")

	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	suggestions, err := h.taskUsecase.Suggestions(userID, query, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// GetUpcomingReminders returns armed future reminders, soonest first
// GET /api/tasks/reminders/upcoming
func (h *TaskHandler) GetUpcomingReminders(c *gin.Context) {
	userID := c.GetString("userID")

	tasks, err := h.reminders.UpcomingReminders(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// respondError maps the domain error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
