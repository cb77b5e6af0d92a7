package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskloop/tasklist-api/internal/models"
	"github.com/taskloop/tasklist-api/internal/services"
)

const taskContextKey = "task"

// LoadTask resolves the :id route parameter into a stored task and places it
// in the request context. Unknown ids end the request with a 404.
func LoadTask(service *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
			c.Abort()
			return
		}

		task, err := service.GetTask(taskID)
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
			}
			c.Abort()
			return
		}

		c.Set(taskContextKey, *task)
		c.Next()
	}
}

// GetTask returns the task placed in the context by LoadTask.
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(taskContextKey)
	if !exists {
		return models.Task{}, false
	}
	task, ok := value.(models.Task)
	return task, ok
}
