package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testRepos struct {
	db     *gorm.DB
	users  repository.UserRepository
	boards repository.BoardRepository
	lists  repository.ListRepository
	tasks  repository.TaskRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	return testRepos{
		db:     db,
		users:  repository.NewUserRepository(db),
		boards: repository.NewBoardRepository(db),
		lists:  repository.NewListRepository(db),
		tasks:  repository.NewTaskRepository(db),
	}
}

func (r testRepos) createUser(t *testing.T, email string) *models.User {
	t.Helper()

	user := &models.User{Name: email, Email: email, Role: models.RoleUser}
	require.NoError(t, r.users.Create(user))
	return user
}
