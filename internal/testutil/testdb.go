package testutil

import (
	"fmt"
	"strings"
	"testing"

	"jobportal_backend/database"
	"jobportal_backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB открывает отдельную in-memory sqlite базу на тест и мигрирует схему.
// Одно соединение: shared-cache база живет, пока оно открыто.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Не удалось открыть тестовую БД: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Не удалось получить *sql.DB из GORM: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate для тестовой БД: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateUser создает пользователя; сырой пароль в PasswordHash хешируется (MinCost для скорости)
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) *models.User {
	t.Helper()

	if user.PasswordHash != "" && !strings.HasPrefix(user.PasswordHash, "$2a$") {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("Не удалось хешировать пароль: %v", err)
		}
		user.PasswordHash = string(hash)
	}
	if user.PasswordHash == "" {
		user.PasswordHash = "-"
	}
	if user.Username == "" {
		user.Username = "user"
	}
	if user.Email == "" {
		user.Email = fmt.Sprintf("%s@test.com", uuid.NewString()[:8])
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Не удалось создать пользователя %s: %v", user.Email, err)
	}
	return user
}

func CreateRecruiter(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateUser(t, db, &models.User{Username: "recruiter", Role: models.UserRoleRecruiter})
}

func CreateApplicant(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateUser(t, db, &models.User{Username: "applicant", Role: models.UserRoleApplicant})
}

func CreateAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateUser(t, db, &models.User{Username: "admin", Role: models.UserRoleAdmin})
}

// CreateJob создает вакансию в статусе pending (если не задан другой)
func CreateJob(t *testing.T, db *gorm.DB, ownerID string, mutate ...func(*models.Job)) *models.Job {
	t.Helper()

	job := &models.Job{
		Company:   "Acme",
		Position:  "Go Developer",
		Status:    models.JobStatusPending,
		Type:      models.JobTypeFullTime,
		Location:  "Almaty",
		CreatedBy: ownerID,
	}
	for _, m := range mutate {
		m(job)
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("Не удалось создать вакансию: %v", err)
	}
	return job
}
