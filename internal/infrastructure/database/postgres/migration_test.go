// internal/infrastructure/database/postgres/migration_test.go
package postgres

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/catering-backend/internal/domain/indent"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func migratedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	m := NewMigration(db)
	require.NoError(t, m.RunAutoMigrations())
	require.NoError(t, m.CreateIndexes())
	return db
}

func indexNames(t *testing.T, db *gorm.DB) map[string]bool {
	t.Helper()

	var names []string
	require.NoError(t, db.Raw("SELECT name FROM sqlite_master WHERE type = 'index'").Scan(&names).Error)
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Every raw index statement must actually apply against the migrated schema.
// CreateIndexes logs and continues on failure, so a statement referencing a
// column that does not exist would otherwise fail silently.
func TestCreateIndexesAllApply(t *testing.T) {
	db := migratedTestDB(t)
	indexes := indexNames(t, db)

	expected := []string{
		"idx_users_email_active",
		"idx_users_role_active",
		"idx_stocks_item_name_active",
		"idx_stocks_category",
		"idx_stocks_expiry_date",
		"idx_stock_updates_stock_created",
		"idx_stock_updates_type",
		"idx_events_status_date",
		"idx_events_chef_status",
		"idx_leftovers_event",
		"idx_indents_reference_number",
		"idx_indents_event_status",
		"idx_indents_event_draft",
		"idx_indent_items_indent",
		"idx_cooking_tasks_event_status",
		"idx_cooking_tasks_assignee_status",
		"idx_cooking_tasks_event_auto",
	}
	for _, name := range expected {
		assert.True(t, indexes[name], "index %s was not created", name)
	}
}

func TestDraftIndexEnforcesOneDraftPerEvent(t *testing.T) {
	db := migratedTestDB(t)

	first := &indent.Indent{ReferenceNumber: "IND-20260831-00001", EventID: 7, Status: indent.StatusDraft}
	require.NoError(t, db.Create(first).Error)

	second := &indent.Indent{ReferenceNumber: "IND-20260831-00002", EventID: 7, Status: indent.StatusDraft}
	assert.Error(t, db.Create(second).Error, "second draft for the same event must be rejected by the database")

	// A decided indent does not block a fresh draft for the same event
	require.NoError(t, db.Model(first).Update("status", indent.StatusSubmitted).Error)
	third := &indent.Indent{ReferenceNumber: "IND-20260831-00003", EventID: 7, Status: indent.StatusDraft}
	assert.NoError(t, db.Create(third).Error)

	// Other events are unaffected
	other := &indent.Indent{ReferenceNumber: "IND-20260831-00004", EventID: 8, Status: indent.StatusDraft}
	assert.NoError(t, db.Create(other).Error)
}
