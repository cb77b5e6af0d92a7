package repository

import (
	"github.com/taskloop/tasklist-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns every stored task in insertion order
func (r *GormTaskRepository) List() ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists changes to an existing task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete permanently removes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// SaveWithSuccessor persists a completed task and creates its next occurrence
// within a single transaction, so a recurring completion either lands whole
// or not at all.
func (r *GormTaskRepository) SaveWithSuccessor(completed *models.Task, successor *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(completed).Error; err != nil {
			return err
		}
		return tx.Create(successor).Error
	})
}
