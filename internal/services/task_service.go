package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskloop/tasklist-api/internal/models"
	"github.com/taskloop/tasklist-api/internal/query"
	"github.com/taskloop/tasklist-api/internal/recurrence"
	"github.com/taskloop/tasklist-api/internal/repository"
	"github.com/taskloop/tasklist-api/internal/validation"
	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

// Clock supplies the current time. Injected so completion timestamps and
// due-status evaluation stay deterministic under test.
type Clock func() time.Time

// TaskService handles task lifecycle logic
type TaskService struct {
	taskRepo repository.TaskRepository
	clock    Clock
}

// NewTaskService creates a new TaskService. A nil clock defaults to time.Now.
func NewTaskService(taskRepo repository.TaskRepository, clock Clock) *TaskService {
	if clock == nil {
		clock = time.Now
	}
	return &TaskService{taskRepo: taskRepo, clock: clock}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title         string
	Description   string
	Priority      *models.Priority
	Tags          []string
	DueDate       *time.Time
	DueTime       *string
	Recurrence    *models.Recurrence
	RecurrenceDay *int
}

// UpdateTaskInput represents input for updating a task. Pointer fields left
// nil are untouched; Clear flags remove the corresponding value.
type UpdateTaskInput struct {
	Title              *string
	Description        *string
	Priority           *models.Priority
	ClearPriority      bool
	Tags               *[]string
	DueDate            *time.Time
	ClearDueDate       bool
	DueTime            *string
	ClearDueTime       bool
	Recurrence         *models.Recurrence
	ClearRecurrence    bool
	RecurrenceDay      *int
	ClearRecurrenceDay bool
}

// ToggleResult carries the toggled task and, when completing a recurring
// task spawned a successor, the newly created occurrence.
type ToggleResult struct {
	Task           *models.Task
	NextOccurrence *models.Task
}

// CreateTask validates the input and stores a new incomplete task.
// Validation failures come back as validation.Errors.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	fields, errs := validation.Validate(validation.Fields{
		Title:         input.Title,
		Description:   input.Description,
		Priority:      input.Priority,
		Tags:          input.Tags,
		DueDate:       input.DueDate,
		DueTime:       input.DueTime,
		Recurrence:    input.Recurrence,
		RecurrenceDay: input.RecurrenceDay,
	})
	if len(errs) > 0 {
		return nil, errs
	}

	now := s.clock()
	task := &models.Task{
		Title:         fields.Title,
		Description:   fields.Description,
		Priority:      fields.Priority,
		Tags:          models.TagList(fields.Tags),
		DueDate:       fields.DueDate,
		DueTime:       fields.DueTime,
		Recurrence:    fields.Recurrence,
		RecurrenceDay: fields.RecurrenceDay,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListTasks loads the full collection and projects it through the query
// engine.
func (s *TaskService) ListTasks(spec query.Spec) ([]models.Task, error) {
	tasks, err := s.taskRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return query.Apply(tasks, spec, s.clock()), nil
}

// UpdateTask merges the supplied fields onto the stored task, re-validates
// the result and persists it. ID, creation time and completion state are
// never touched here.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ClearPriority {
		task.Priority = nil
	} else if input.Priority != nil {
		task.Priority = input.Priority
	}
	if input.Tags != nil {
		task.Tags = models.TagList(*input.Tags)
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearDueTime {
		task.DueTime = nil
	} else if input.DueTime != nil {
		task.DueTime = input.DueTime
	}
	if input.ClearRecurrence {
		task.Recurrence = nil
	} else if input.Recurrence != nil {
		task.Recurrence = input.Recurrence
	}
	if input.ClearRecurrenceDay {
		task.RecurrenceDay = nil
	} else if input.RecurrenceDay != nil {
		task.RecurrenceDay = input.RecurrenceDay
	}

	fields, errs := validation.Validate(validation.Fields{
		Title:         task.Title,
		Description:   task.Description,
		Priority:      task.Priority,
		Tags:          task.Tags,
		DueDate:       task.DueDate,
		DueTime:       task.DueTime,
		Recurrence:    task.Recurrence,
		RecurrenceDay: task.RecurrenceDay,
	})
	if len(errs) > 0 {
		return nil, errs
	}
	task.Title = fields.Title
	task.Description = fields.Description
	task.Priority = fields.Priority
	task.Tags = models.TagList(fields.Tags)
	task.DueDate = fields.DueDate
	task.DueTime = fields.DueTime
	task.Recurrence = fields.Recurrence
	task.RecurrenceDay = fields.RecurrenceDay

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask permanently removes a task
func (s *TaskService) DeleteTask(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ToggleComplete flips a task's completion state. Completing a task with an
// active recurrence and a due date spawns an independent successor whose due
// date comes from the recurrence calculator; the completed task itself stays
// unchanged apart from its completion fields. Un-completing clears the
// completion timestamp and never spawns anything.
func (s *TaskService) ToggleComplete(taskID uint64) (*ToggleResult, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	now := s.clock()

	if task.Completed {
		task.Completed = false
		task.CompletedAt = nil
		if err := s.taskRepo.Update(task); err != nil {
			return nil, fmt.Errorf("failed to reopen task: %w", err)
		}
		return &ToggleResult{Task: task}, nil
	}

	task.Completed = true
	task.CompletedAt = &now

	// A recurring task without a due date has no reference point to advance
	// from, so it never spawns successors.
	if task.Recurrence == nil || task.DueDate == nil {
		if err := s.taskRepo.Update(task); err != nil {
			return nil, fmt.Errorf("failed to complete task: %w", err)
		}
		return &ToggleResult{Task: task}, nil
	}

	day := 0
	if task.RecurrenceDay != nil {
		day = *task.RecurrenceDay
	}
	nextDue := recurrence.NextOccurrence(*task.Recurrence, *task.DueDate, day)
	successor := s.nextOccurrenceOf(task, nextDue, now)

	if err := s.taskRepo.SaveWithSuccessor(task, successor); err != nil {
		return nil, fmt.Errorf("failed to complete recurring task: %w", err)
	}

	return &ToggleResult{Task: task, NextOccurrence: successor}, nil
}

// nextOccurrenceOf builds the successor of a completed recurring task:
// title, description, priority, tags and the recurrence rule carry over; the
// due date is freshly computed and completion state starts clean.
func (s *TaskService) nextOccurrenceOf(task *models.Task, dueDate time.Time, now time.Time) *models.Task {
	successor := &models.Task{
		Title:       task.Title,
		Description: task.Description,
		Tags:        append(models.TagList(nil), task.Tags...),
		DueDate:     &dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority != nil {
		p := *task.Priority
		successor.Priority = &p
	}
	if task.Recurrence != nil {
		r := *task.Recurrence
		successor.Recurrence = &r
	}
	if task.RecurrenceDay != nil {
		d := *task.RecurrenceDay
		successor.RecurrenceDay = &d
	}
	return successor
}
