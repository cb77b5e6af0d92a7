package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskloop/tasklist-api/internal/dto"
	apierrors "github.com/taskloop/tasklist-api/internal/errors"
	"github.com/taskloop/tasklist-api/internal/middleware"
	"github.com/taskloop/tasklist-api/internal/query"
	"github.com/taskloop/tasklist-api/internal/services"
	"github.com/taskloop/tasklist-api/internal/utils"
	"github.com/taskloop/tasklist-api/internal/validation"
)

type TaskHandler struct {
	service *services.TaskService
	clock   services.Clock
}

// NewTaskHandler creates a new TaskHandler. A nil clock defaults to time.Now.
func NewTaskHandler(service *services.TaskService, clock services.Clock) *TaskHandler {
	if clock == nil {
		clock = time.Now
	}
	return &TaskHandler{service: service, clock: clock}
}

var statusFilters = map[string]query.StatusFilter{
	"":           query.StatusAll,
	"all":        query.StatusAll,
	"complete":   query.StatusComplete,
	"incomplete": query.StatusIncomplete,
}

var dueFilters = map[string]query.DueFilter{
	"":              query.DueAny,
	"overdue":       query.DueOverdue,
	"due_today":     query.DueToday,
	"due_this_week": query.DueThisWeek,
	"no_due_date":   query.DueNone,
}

var sortKeys = map[string]query.SortKey{
	"":           query.SortByID,
	"id":         query.SortByID,
	"title":      query.SortByTitle,
	"priority":   query.SortByPriority,
	"due_date":   query.SortByDueDate,
	"created_at": query.SortByCreatedAt,
}

// parseQuerySpec maps list query parameters onto a query spec.
func parseQuerySpec(c *gin.Context) (query.Spec, bool) {
	spec := query.Spec{Direction: query.SortAscending}

	status, ok := statusFilters[c.Query("status")]
	if !ok {
		apierrors.BadRequest(c, "Invalid status filter")
		return spec, false
	}
	spec.Status = status

	if raw := c.Query("priority"); raw != "" {
		priority := dto.ParsePriority(raw)
		if priority == nil || !priority.Valid() {
			apierrors.BadRequest(c, "Invalid priority filter")
			return spec, false
		}
		spec.Priority = priority
	}

	spec.Tag = c.Query("tag")
	spec.Search = c.Query("search")

	due, ok := dueFilters[c.Query("due")]
	if !ok {
		apierrors.BadRequest(c, "Invalid due filter")
		return spec, false
	}
	spec.Due = due

	sortKey, ok := sortKeys[c.Query("sort")]
	if !ok {
		apierrors.BadRequest(c, "Invalid sort key")
		return spec, false
	}
	spec.SortKey = sortKey

	switch c.Query("order") {
	case "", "asc":
	case "desc":
		spec.Direction = query.SortDescending
	default:
		apierrors.BadRequest(c, "Invalid sort order")
		return spec, false
	}

	return spec, true
}

// ListTasks returns the task collection projected through the query engine,
// paginated after filtering and sorting.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	spec, ok := parseQuerySpec(c)
	if !ok {
		return
	}

	tasks, err := h.service.ListTasks(spec)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	params := utils.GetPaginationParams(c)
	total := len(tasks)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks[start:end], h.clock(), params.Page, params.Limit, total))
}

// GetTask returns the task loaded by the LoadTask middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(task, h.clock()))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title         string   `json:"title"`
		Description   string   `json:"description"`
		Priority      string   `json:"priority"`
		Tags          []string `json:"tags"`
		DueDate       string   `json:"due_date"`
		DueTime       string   `json:"due_time"`
		Recurrence    string   `json:"recurrence"`
		RecurrenceDay *int     `json:"recurrence_day"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      dto.ParsePriority(req.Priority),
		Tags:          req.Tags,
		RecurrenceDay: req.RecurrenceDay,
	}

	if req.DueDate != "" {
		date, err := dto.ParseDate(req.DueDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		input.DueDate = &date
	}
	if req.DueTime != "" {
		if !dto.ValidClock(req.DueTime) {
			apierrors.BadRequest(c, "Invalid due time, expected HH:MM")
			return
		}
		input.DueTime = &req.DueTime
	}

	rec, ok := dto.ParseRecurrence(req.Recurrence)
	if !ok {
		apierrors.BadRequest(c, "Invalid recurrence, expected daily, weekly or monthly")
		return
	}
	input.Recurrence = rec

	task, err := h.service.CreateTask(input)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			apierrors.ValidationFailed(c, verrs)
			return
		}
		apierrors.InternalError(c, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskResponse(*task, h.clock()))
}

// UpdateTask applies a partial update. The body is parsed as a raw map so
// absent keys, explicit nulls and values stay distinguishable.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, ok := buildUpdateInput(c, rawReq)
	if !ok {
		return
	}

	task, err := h.service.UpdateTask(taskID, input)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found")
		case errors.As(err, &verrs):
			apierrors.ValidationFailed(c, verrs)
		default:
			apierrors.InternalError(c, "Failed to update task")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(*task, h.clock()))
}

func buildUpdateInput(c *gin.Context, rawReq map[string]any) (services.UpdateTaskInput, bool) {
	var input services.UpdateTaskInput

	if value, ok := rawReq["title"]; ok {
		title, ok := value.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid title")
			return input, false
		}
		input.Title = &title
	}
	if value, ok := rawReq["description"]; ok {
		description, ok := value.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid description")
			return input, false
		}
		input.Description = &description
	}
	if value, ok := rawReq["priority"]; ok {
		switch v := value.(type) {
		case nil:
			input.ClearPriority = true
		case string:
			if v == "" {
				input.ClearPriority = true
			} else {
				input.Priority = dto.ParsePriority(v)
			}
		default:
			apierrors.BadRequest(c, "Invalid priority")
			return input, false
		}
	}
	if value, ok := rawReq["tags"]; ok {
		items, ok := value.([]any)
		if !ok {
			apierrors.BadRequest(c, "Invalid tags")
			return input, false
		}
		tags := make([]string, 0, len(items))
		for _, item := range items {
			tag, ok := item.(string)
			if !ok {
				apierrors.BadRequest(c, "Invalid tags")
				return input, false
			}
			tags = append(tags, tag)
		}
		input.Tags = &tags
	}
	if value, ok := rawReq["due_date"]; ok {
		switch v := value.(type) {
		case nil:
			input.ClearDueDate = true
		case string:
			if v == "" {
				input.ClearDueDate = true
				break
			}
			date, err := dto.ParseDate(v)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
				return input, false
			}
			input.DueDate = &date
		default:
			apierrors.BadRequest(c, "Invalid due date")
			return input, false
		}
	}
	if value, ok := rawReq["due_time"]; ok {
		switch v := value.(type) {
		case nil:
			input.ClearDueTime = true
		case string:
			if v == "" {
				input.ClearDueTime = true
				break
			}
			if !dto.ValidClock(v) {
				apierrors.BadRequest(c, "Invalid due time, expected HH:MM")
				return input, false
			}
			clock := v
			input.DueTime = &clock
		default:
			apierrors.BadRequest(c, "Invalid due time")
			return input, false
		}
	}
	if value, ok := rawReq["recurrence"]; ok {
		switch v := value.(type) {
		case nil:
			input.ClearRecurrence = true
		case string:
			rec, ok := dto.ParseRecurrence(v)
			if !ok {
				apierrors.BadRequest(c, "Invalid recurrence, expected daily, weekly or monthly")
				return input, false
			}
			if rec == nil {
				input.ClearRecurrence = true
			} else {
				input.Recurrence = rec
			}
		default:
			apierrors.BadRequest(c, "Invalid recurrence")
			return input, false
		}
	}
	if value, ok := rawReq["recurrence_day"]; ok {
		switch v := value.(type) {
		case nil:
			input.ClearRecurrenceDay = true
		case float64:
			day := int(v)
			input.RecurrenceDay = &day
		default:
			apierrors.BadRequest(c, "Invalid recurrence day")
			return input, false
		}
	}

	return input, true
}

// DeleteTask permanently deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(taskID); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalError(c, "Failed to delete task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// ToggleComplete flips a task's completion state and reports the spawned
// next occurrence when completing a recurring task.
func (h *TaskHandler) ToggleComplete(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.ToggleComplete(taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalError(c, "Failed to toggle task")
		return
	}

	now := h.clock()
	resp := dto.ToggleResponse{Task: dto.ToTaskResponse(*result.Task, now)}
	if result.NextOccurrence != nil {
		next := dto.ToTaskResponse(*result.NextOccurrence, now)
		resp.NextOccurrence = &next
	}

	c.JSON(http.StatusOK, resp)
}

func taskIDParam(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return taskID, true
}
