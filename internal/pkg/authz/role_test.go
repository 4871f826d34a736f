// internal/pkg/authz/role_test.go
package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"chef", RoleChef, false},
		{"CHEF", RoleChef, false},
		{" Manager ", RoleManager, false},
		{"admin", RoleAdmin, false},
		{"owner", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		actor    Role
		required Role
		want     bool
	}{
		{"chef cannot do manager work", RoleChef, RoleManager, false},
		{"chef can do chef work", RoleChef, RoleChef, true},
		{"manager covers chef work", RoleManager, RoleChef, true},
		{"manager cannot do admin work", RoleManager, RoleAdmin, false},
		{"admin covers everything", RoleAdmin, RoleChef, true},
		{"admin covers manager", RoleAdmin, RoleManager, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.actor, tt.required))
		})
	}
}

func TestActorScope(t *testing.T) {
	chef := Actor{ID: 7, Role: RoleChef}
	manager := Actor{ID: 8, Role: RoleManager}
	admin := Actor{ID: 9, Role: RoleAdmin}

	assert.False(t, chef.SeesEverything())
	assert.True(t, manager.SeesEverything())
	assert.True(t, admin.SeesEverything())

	// A chef can act only on their own assignments
	assert.True(t, chef.CanActOn(7))
	assert.False(t, chef.CanActOn(3))

	// Managers act on anyone's
	assert.True(t, manager.CanActOn(3))
}

func TestRoleTextMarshalling(t *testing.T) {
	text, err := RoleManager.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "manager", string(text))

	var r Role
	require.NoError(t, r.UnmarshalText([]byte("admin")))
	assert.Equal(t, RoleAdmin, r)

	assert.Error(t, r.UnmarshalText([]byte("intern")))
}
