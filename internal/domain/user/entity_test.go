// internal/domain/user/entity_test.go
package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/catering-backend/internal/pkg/authz"
)

func TestGetDisplayName(t *testing.T) {
	u := User{FirstName: "Ravi", LastName: "Kumar", Email: "ravi@example.com"}
	assert.Equal(t, "Ravi Kumar", u.GetFullName())
	assert.Equal(t, "Ravi Kumar", u.GetDisplayName())

	nameless := User{Email: "ops@example.com"}
	assert.Equal(t, "ops@example.com", nameless.GetDisplayName())
}

func TestActor(t *testing.T) {
	u := User{ID: 12, FirstName: "Priya", LastName: "Sharma", Role: authz.RoleManager}

	actor := u.Actor()
	assert.Equal(t, uint(12), actor.ID)
	assert.Equal(t, authz.RoleManager, actor.Role)
	assert.True(t, actor.Can(authz.RoleChef))
	assert.False(t, actor.Can(authz.RoleAdmin))
}
