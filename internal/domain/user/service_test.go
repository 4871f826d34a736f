// internal/domain/user/service_test.go
package user

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/catering-backend/internal/config"
	"github.com/your-org/catering-backend/internal/domain/cooking"
	"github.com/your-org/catering-backend/internal/pkg/authz"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &cooking.CookingTask{}))
	return db
}

func createStaff(t *testing.T, db *gorm.DB, email string, role authz.Role, active bool) *User {
	t.Helper()

	account := &User{
		Email:    email,
		Password: "x",
		Role:     role,
		IsActive: active,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func createTask(t *testing.T, db *gorm.DB, chefID uint, status cooking.TaskStatus) {
	t.Helper()

	task := &cooking.CookingTask{
		EventID:      1,
		DishName:     "Dal Tadka",
		Status:       status,
		Priority:     cooking.PriorityNormal,
		AssignedToID: &chefID,
	}
	require.NoError(t, db.Create(task).Error)
}

func TestLeastLoadedChefNoChefs(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, &config.Config{})

	id, err := svc.LeastLoadedChef()
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestLeastLoadedChefWithNoTasksAtAll(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, &config.Config{})

	chef := createStaff(t, db, "chef.solo@example.com", authz.RoleChef, true)

	id, err := svc.LeastLoadedChef()
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, chef.ID, *id)
}

func TestLeastLoadedChefPicksLowestOpenCount(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, &config.Config{})

	busy := createStaff(t, db, "chef.busy@example.com", authz.RoleChef, true)
	free := createStaff(t, db, "chef.free@example.com", authz.RoleChef, true)

	createTask(t, db, busy.ID, cooking.StatusNotStarted)
	createTask(t, db, busy.ID, cooking.StatusInProgress)
	createTask(t, db, free.ID, cooking.StatusOnHold)

	id, err := svc.LeastLoadedChef()
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, free.ID, *id)
}

func TestLeastLoadedChefIgnoresFinishedTasks(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, &config.Config{})

	done := createStaff(t, db, "chef.done@example.com", authz.RoleChef, true)
	open := createStaff(t, db, "chef.open@example.com", authz.RoleChef, true)

	createTask(t, db, done.ID, cooking.StatusCompleted)
	createTask(t, db, done.ID, cooking.StatusCancelled)
	createTask(t, db, done.ID, cooking.StatusCompleted)
	createTask(t, db, open.ID, cooking.StatusInProgress)

	id, err := svc.LeastLoadedChef()
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, done.ID, *id)
}

func TestLeastLoadedChefSkipsInactiveAndNonChefs(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, &config.Config{})

	createStaff(t, db, "manager@example.com", authz.RoleManager, true)
	createStaff(t, db, "chef.gone@example.com", authz.RoleChef, false)
	chef := createStaff(t, db, "chef.here@example.com", authz.RoleChef, true)

	id, err := svc.LeastLoadedChef()
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, chef.ID, *id)
}
