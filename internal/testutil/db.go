package testutil

import (
	"fmt"
	"os"
	"testing"

	"github.com/iti-tech/taskboard-api/internal/database"
	"github.com/iti-tech/taskboard-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB connects to the test PostgreSQL database using environment
// variables, falling back to the docker-compose defaults.
func SetupTestDB(t *testing.T) *gorm.DB {
	host := getEnvOrDefault("DATABASE_HOST", "localhost")
	port := getEnvOrDefault("DATABASE_PORT", "5432")
	user := getEnvOrDefault("DATABASE_USER", "taskboard_user")
	password := getEnvOrDefault("DATABASE_PASSWORD", "taskboard_password")
	dbname := getEnvOrDefault("DATABASE_NAME", "taskboard_test")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database. Ensure PostgreSQL is running.")

	require.NoError(t, database.AutoMigrate(db))

	return db
}

// SetupCleanTestDB connects and wipes every table so the test starts empty
func SetupCleanTestDB(t *testing.T) *gorm.DB {
	db := SetupTestDB(t)
	CleanupTestData(t, db)
	return db
}

// CleanupTestData deletes rows from every table, children before parents so
// foreign key constraints hold.
func CleanupTestData(t *testing.T, db *gorm.DB) {
	tables := []string{
		"chat_messages",
		"chat_turn_locks",
		"activity_logs",
		"board_tasks",
		"tasks",
		"projects",
		"sectors",
		"users",
		"system_settings",
	}

	for _, table := range tables {
		err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE true", table)).Error
		if err != nil {
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}
}

// CreateTestSector inserts a sector row for use as a parent in tests
func CreateTestSector(t *testing.T, db *gorm.DB, name string) *domain.Sector {
	sector := &domain.Sector{Name: name}
	require.NoError(t, db.Create(sector).Error)
	return sector
}

// CreateTestProject inserts a project under the given sector
func CreateTestProject(t *testing.T, db *gorm.DB, name string, sector *domain.Sector) *domain.Project {
	project := &domain.Project{Name: name, SectorID: sector.ID}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTestUser inserts a collaborator profile
func CreateTestUser(t *testing.T, db *gorm.DB, name, email string) *domain.User {
	user := &domain.User{
		Name:  name,
		Email: email,
		Role:  domain.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
