package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"taskflow/internal/middleware"
	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	repo repository.TaskRepositoryInterface
}

func NewTaskHandler(repo repository.TaskRepositoryInterface) *TaskHandler {
	return &TaskHandler{repo: repo}
}

// CreateTaskRequest deliberately has no owner field: ownership is always
// assigned from the authenticated user, never taken from the payload.
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      string     `json:"status" binding:"omitempty,oneof='To Do' 'In Progress' 'Done'"`
}

// UpdateTaskRequest is the allow-list of mutable fields. Pointer fields
// distinguish "absent" from "set"; absent fields are left untouched. Anything
// outside this list, in particular an owner field, is silently dropped by the
// binding.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      *string    `json:"status" binding:"omitempty,oneof='To Do' 'In Progress' 'Done'"`
}

// currentUser returns the authenticated user's ID placed in the context by
// the auth middleware. It writes the error response itself on failure.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := raw.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return userID, true
}

// getOwnedTask loads the task named by the :id route param and verifies it
// belongs to userID: 404 when it does not exist, 403 when it belongs to
// someone else. The 403 body never echoes the task's fields. It writes the
// error response itself on failure.
func (h *TaskHandler) getOwnedTask(c *gin.Context, userID uuid.UUID) (*model.Task, bool) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return nil, false
	}

	task, err := h.repo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return nil, false
	}

	if task.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		return nil, false
	}

	return task, true
}

// List returns all of the caller's tasks, filtered and sorted per the
// status/search/sortBy query parameters.
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	filter := repository.TaskFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		SortBy: c.Query("sortBy"),
	}

	tasks, err := h.repo.ListByOwner(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(tasks),
		"data":    tasks,
	})
}

// GetByID returns a single task after the ownership check.
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	task, ok := h.getOwnedTask(c, userID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

// Create stores a new task owned by the caller.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if req.Status == "" {
		req.Status = model.StatusTodo
	}

	task := &model.Task{
		OwnerID:     userID,
		Title:       title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
	}

	if err := h.repo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": task})
}

// Update applies the allow-listed fields to the caller's task. The write
// itself is re-scoped to the owner so a concurrent delete cannot slip
// between the check and the update.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, ok := h.getOwnedTask(c, userID)
	if !ok {
		return
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title cannot be empty"})
			return
		}
		fields["title"] = title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.DueDate != nil {
		fields["due_date"] = *req.DueDate
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	// An empty update is a no-op, not an error.
	if len(fields) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
		return
	}

	if err := h.repo.UpdateOwned(c.Request.Context(), task.ID, userID, fields); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		}
		return
	}

	updated, err := h.repo.GetByID(c.Request.Context(), task.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// Delete removes the caller's task permanently.
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	task, ok := h.getOwnedTask(c, userID)
	if !ok {
		return
	}

	if err := h.repo.DeleteOwned(c.Request.Context(), task.ID, userID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task deleted"})
}
