package scheduler

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/taskloop/tasklist-api/internal/models"
	"github.com/taskloop/tasklist-api/internal/query"
	"github.com/taskloop/tasklist-api/internal/services"
)

// DigestScheduler runs a daily cron job that logs a digest of overdue and
// due-today tasks.
type DigestScheduler struct {
	cron    *cron.Cron
	service *services.TaskService
	clock   services.Clock
}

// NewDigestScheduler creates a scheduler. A nil clock defaults to time.Now.
func NewDigestScheduler(service *services.TaskService, clock services.Clock) *DigestScheduler {
	if clock == nil {
		clock = time.Now
	}
	return &DigestScheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		service: service,
		clock:   clock,
	}
}

// ScheduleDaily registers the digest job at the given HH:MM time.
func (s *DigestScheduler) ScheduleDaily(timeStr string) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, func() {
		if err := s.RunDigest(); err != nil {
			log.Printf("digest run failed: %v", err)
		}
	})
}

func (s *DigestScheduler) Start() {
	s.cron.Start()
}

func (s *DigestScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunDigest logs how many incomplete tasks are overdue and due today, naming
// each one.
func (s *DigestScheduler) RunDigest() error {
	tasks, err := s.service.ListTasks(query.Spec{
		Status:    query.StatusIncomplete,
		SortKey:   query.SortByDueDate,
		Direction: query.SortAscending,
	})
	if err != nil {
		return err
	}

	now := s.clock()
	var overdue, dueToday []models.Task
	for _, task := range tasks {
		switch task.DueStatusAt(now) {
		case models.DueStatusOverdue:
			overdue = append(overdue, task)
		case models.DueStatusDueToday:
			dueToday = append(dueToday, task)
		}
	}

	log.Printf("task digest: %d overdue, %d due today", len(overdue), len(dueToday))
	for _, task := range overdue {
		log.Printf("  overdue: #%d %s (due %s)", task.ID, task.Title, task.DueDate.Format("2006-01-02"))
	}
	for _, task := range dueToday {
		log.Printf("  due today: #%d %s", task.ID, task.Title)
	}

	return nil
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
