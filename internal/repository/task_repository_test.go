package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/taskloop/tasklist-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type TaskRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo TaskRepository
}

func (suite *TaskRepositoryTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(&models.Task{}))

	suite.db = db
	suite.repo = NewTaskRepository(db)
}

func (suite *TaskRepositoryTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskRepositoryTestSuite) TestCreateAndFindByID() {
	due := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	priority := models.PriorityHigh
	task := &models.Task{
		Title:    "Pay rent",
		Priority: &priority,
		Tags:     models.TagList{"bills", "home"},
		DueDate:  &due,
	}

	suite.Require().NoError(suite.repo.Create(task))
	suite.NotZero(task.ID)

	found, err := suite.repo.FindByID(task.ID)
	suite.Require().NoError(err)
	suite.Equal("Pay rent", found.Title)
	suite.Equal(models.PriorityHigh, *found.Priority)
	suite.Equal(models.TagList{"bills", "home"}, found.Tags)
	suite.True(found.DueDate.Equal(due))
}

func (suite *TaskRepositoryTestSuite) TestFindByIDNotFound() {
	_, err := suite.repo.FindByID(9999)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *TaskRepositoryTestSuite) TestListReturnsInsertionOrder() {
	for _, title := range []string{"first", "second", "third"} {
		suite.Require().NoError(suite.repo.Create(&models.Task{Title: title}))
	}

	tasks, err := suite.repo.List()
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 3)
	suite.Equal("first", tasks[0].Title)
	suite.Equal("third", tasks[2].Title)
	suite.Less(tasks[0].ID, tasks[1].ID)
}

func (suite *TaskRepositoryTestSuite) TestUpdatePersistsChanges() {
	task := &models.Task{Title: "before"}
	suite.Require().NoError(suite.repo.Create(task))

	task.Title = "after"
	task.Completed = true
	suite.Require().NoError(suite.repo.Update(task))

	found, err := suite.repo.FindByID(task.ID)
	suite.Require().NoError(err)
	suite.Equal("after", found.Title)
	suite.True(found.Completed)
}

func (suite *TaskRepositoryTestSuite) TestDeleteRemovesRow() {
	task := &models.Task{Title: "doomed"}
	suite.Require().NoError(suite.repo.Create(task))

	suite.Require().NoError(suite.repo.Delete(task.ID))

	_, err := suite.repo.FindByID(task.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *TaskRepositoryTestSuite) TestSaveWithSuccessorPersistsBoth() {
	task := &models.Task{Title: "Pay rent"}
	suite.Require().NoError(suite.repo.Create(task))

	now := time.Now().UTC()
	task.Completed = true
	task.CompletedAt = &now
	successor := &models.Task{Title: "Pay rent"}

	suite.Require().NoError(suite.repo.SaveWithSuccessor(task, successor))
	suite.NotZero(successor.ID)
	suite.NotEqual(task.ID, successor.ID)

	stored, err := suite.repo.FindByID(task.ID)
	suite.Require().NoError(err)
	suite.True(stored.Completed)

	next, err := suite.repo.FindByID(successor.ID)
	suite.Require().NoError(err)
	suite.False(next.Completed)
}

func (suite *TaskRepositoryTestSuite) TestSaveWithSuccessorRollsBackTogether() {
	task := &models.Task{Title: "Pay rent"}
	suite.Require().NoError(suite.repo.Create(task))

	task.Completed = true
	// forcing a primary key collision makes the successor insert fail
	successor := &models.Task{ID: task.ID, Title: "Pay rent"}

	suite.Error(suite.repo.SaveWithSuccessor(task, successor))

	stored, err := suite.repo.FindByID(task.ID)
	suite.Require().NoError(err)
	suite.False(stored.Completed, "the completion update rolls back with the failed insert")
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TaskRepositoryTestSuite))
}

func TestListPropagatesDriverErrors(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT(.*)").WillReturnError(errors.New("connection reset"))

	_, err = NewTaskRepository(db).List()
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
