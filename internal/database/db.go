package database

import (
	"fmt"
	"time"

	"asset-lending/internal/config"
	"asset-lending/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to the given driver ("postgres" or "sqlite") without migrating.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// Migrate creates or updates the lending tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Asset{},
		&models.Borrow{},
		&models.BorrowHistory{},
	)
}

func Init(cfg *config.Config, log *zap.Logger) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Info("connecting to database", zap.String("driver", cfg.DBDriver), zap.Int("attempt", i))

		DB, err = Open(cfg.DBDriver, cfg.DBDSN)
		if err == nil {
			break
		}

		log.Warn("database connection failed", zap.Error(err))
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("failed to connect to database", zap.Int("attempts", maxAttempts), zap.Error(err))
	}

	// миграции
	if err := Migrate(DB); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	createDefaultSuperadmin(cfg, log)
	if !cfg.IsProduction() {
		seedDefaultUsers(log)
	}
}

// суперадмин только из кода/конфига
func createDefaultSuperadmin(cfg *config.Config, log *zap.Logger) {
	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleSuperadmin).
		Count(&count).Error; err != nil {
		log.Error("failed to check superadmin", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	user, err := NewUser("Superadmin", cfg.SuperadminEmail, cfg.SuperadminPassword, models.RoleSuperadmin, "IT", bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash superadmin password", zap.Error(err))
		return
	}
	if err := DB.Create(&user).Error; err != nil {
		log.Error("failed to create superadmin", zap.Error(err))
		return
	}

	log.Info("created default superadmin", zap.String("email", user.Email))
}

// демо-аккаунты admin / employee для dev окружения
func seedDefaultUsers(log *zap.Logger) {
	type seedUser struct {
		Name     string
		Email    string
		Password string
		Role     models.UserRole
		Division string
	}

	users := []seedUser{
		{Name: "Admin", Email: "admin@lending.local", Password: "Admin123!", Role: models.RoleAdmin, Division: "General Affairs"},
		{Name: "Employee", Email: "employee@lending.local", Password: "Employee123!", Role: models.RoleEmployee, Division: "Finance"},
	}

	for _, u := range users {
		var count int64
		if err := DB.Model(&models.User{}).
			Where("email = ?", u.Email).
			Count(&count).Error; err != nil {
			log.Error("failed to check seed user", zap.String("email", u.Email), zap.Error(err))
			continue
		}
		if count > 0 {
			continue
		}

		user, err := NewUser(u.Name, u.Email, u.Password, u.Role, u.Division, bcrypt.DefaultCost)
		if err != nil {
			log.Error("failed to hash seed password", zap.String("email", u.Email), zap.Error(err))
			continue
		}
		if err := DB.Create(&user).Error; err != nil {
			log.Error("failed to create seed user", zap.String("email", u.Email), zap.Error(err))
			continue
		}

		log.Info("created seed user", zap.String("email", u.Email), zap.String("role", string(u.Role)))
	}
}

// NewUser builds an active user with a bcrypt password hash.
func NewUser(name, email, password string, role models.UserRole, division string, cost int) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.UserActive,
		Division:     division,
	}, nil
}
