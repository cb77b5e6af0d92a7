package repository

import (
	"github.com/taskloop/tasklist-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// List returns every stored task in insertion order
	List() ([]models.Task, error)

	// Update persists changes to an existing task
	Update(task *models.Task) error

	// Delete permanently removes a task
	Delete(id uint64) error

	// SaveWithSuccessor persists a completed task and creates its next
	// occurrence within a single transaction
	SaveWithSuccessor(completed *models.Task, successor *models.Task) error
}
