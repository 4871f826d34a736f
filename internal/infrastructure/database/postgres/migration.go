// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/your-org/catering-backend/internal/domain/cooking"
	"github.com/your-org/catering-backend/internal/domain/event"
	"github.com/your-org/catering-backend/internal/domain/indent"
	"github.com/your-org/catering-backend/internal/domain/stock"
	"github.com/your-org/catering-backend/internal/domain/user"
	"github.com/your-org/catering-backend/internal/pkg/authz"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&user.User{},

		&stock.Stock{},
		&stock.StockUpdate{},

		&event.Event{},
		&event.Leftover{},

		&indent.Indent{},
		&indent.IndentItem{},

		&cooking.CookingTask{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_role_active ON users(role, is_active)",

		// Stock indexes
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_stocks_item_name_active ON stocks(LOWER(item_name)) WHERE is_active = true AND deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_stocks_category ON stocks(category)",
		"CREATE INDEX IF NOT EXISTS idx_stocks_expiry_date ON stocks(expiry_date)",
		"CREATE INDEX IF NOT EXISTS idx_stock_updates_stock_created ON stock_updates(stock_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_stock_updates_type ON stock_updates(type)",

		// Event indexes
		"CREATE INDEX IF NOT EXISTS idx_events_status_date ON events(status, date)",
		"CREATE INDEX IF NOT EXISTS idx_events_chef_status ON events(assigned_chef_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_leftovers_event ON leftovers(event_id)",

		// Indent indexes
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_indents_reference_number ON indents(reference_number)",
		"CREATE INDEX IF NOT EXISTS idx_indents_event_status ON indents(event_id, status)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_indents_event_draft ON indents(event_id) WHERE status = 'draft'",
		"CREATE INDEX IF NOT EXISTS idx_indent_items_indent ON indent_items(indent_id)",

		// Cooking task indexes
		"CREATE INDEX IF NOT EXISTS idx_cooking_tasks_event_status ON cooking_tasks(event_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_cooking_tasks_assignee_status ON cooking_tasks(assigned_to_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_cooking_tasks_event_auto ON cooking_tasks(event_id, auto_generated)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedStaff(); err != nil {
		return fmt.Errorf("failed to seed staff: %w", err)
	}

	if err := m.seedStock(); err != nil {
		return fmt.Errorf("failed to seed stock: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedStaff creates the default admin plus a manager and two chefs for
// development
func (m *Migration) seedStaff() error {
	log.Println("👤 Seeding staff accounts...")

	staff := []struct {
		email      string
		password   string
		firstName  string
		lastName   string
		role       authz.Role
		speciality string
	}{
		{"admin@example.com", "Admin@2024!", "Admin", "User", authz.RoleAdmin, ""},
		{"manager@example.com", "Manager@2024!", "Kitchen", "Manager", authz.RoleManager, ""},
		{"chef.ravi@example.com", "ChefRavi@2024!", "Ravi", "Kumar", authz.RoleChef, "Main Course"},
		{"chef.priya@example.com", "ChefPriya@2024!", "Priya", "Sharma", authz.RoleChef, "Desserts"},
	}

	for _, s := range staff {
		var existing user.User
		if err := m.db.Where("email = ?", s.email).First(&existing).Error; err == nil {
			log.Printf("⏭️ Staff account already exists: %s", s.email)
			continue
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(s.password), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		account := user.User{
			Email:      s.email,
			Password:   string(hashedPassword),
			FirstName:  s.firstName,
			LastName:   s.lastName,
			Role:       s.role,
			Speciality: s.speciality,
			IsActive:   true,
		}
		if err := m.db.Create(&account).Error; err != nil {
			return fmt.Errorf("failed to create staff account %s: %w", s.email, err)
		}
		log.Printf("✅ Created %s account: %s", s.role, s.email)
	}

	return nil
}

// seedStock loads a small starter pantry for development
func (m *Migration) seedStock() error {
	log.Println("📦 Seeding stock items...")

	var count int64
	if err := m.db.Model(&stock.Stock{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("⏭️ Stock already seeded (%d items)", count)
		return nil
	}

	expiry := time.Now().UTC().AddDate(0, 1, 0)
	items := []stock.Stock{
		{ItemName: "Basmati Rice", Category: "Grains", Quantity: 100, Unit: "kg", MinStock: 20, CostPerUnit: 9500, IsActive: true},
		{ItemName: "Chicken", Category: "Meat", Quantity: 50, Unit: "kg", MinStock: 10, ExpiryDate: &expiry, CostPerUnit: 24000, IsActive: true},
		{ItemName: "Paneer", Category: "Dairy", Quantity: 25, Unit: "kg", MinStock: 5, ExpiryDate: &expiry, CostPerUnit: 32000, IsActive: true},
		{ItemName: "Naan", Category: "Bread", Quantity: 200, Unit: "pc", MinStock: 50, CostPerUnit: 1500, IsActive: true},
		{ItemName: "Cooking Oil", Category: "Pantry", Quantity: 40, Unit: "litre", MinStock: 10, CostPerUnit: 14000, IsActive: true},
	}

	for i := range items {
		if err := m.db.Create(&items[i]).Error; err != nil {
			return fmt.Errorf("failed to seed stock item %s: %w", items[i].ItemName, err)
		}
	}

	log.Printf("✅ Seeded %d stock items", len(items))
	return nil
}
