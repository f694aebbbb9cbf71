package database

import (
	"context"
	"errors"
	"strings"

	"github.com/Payphone-Digital/videotube/internal/model"
	"github.com/Payphone-Digital/videotube/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultAdmin defines the seeded account; the password comes from configuration
type DefaultAdmin struct {
	Username string
	Fullname string
	Email    string
}

// GetDefaultAdmin returns the default admin user
func GetDefaultAdmin() DefaultAdmin {
	return DefaultAdmin{
		Username: "admin",
		Fullname: "VideoTube Admin",
		Email:    "admin@videotube.local",
	}
}

// NewAdminUser builds the admin record with a bcrypt hash of password
func NewAdminUser(password string) (*model.User, error) {
	if strings.TrimSpace(password) == "" {
		return nil, errors.New("seed: empty admin password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := GetDefaultAdmin()
	return &model.User{
		Username: admin.Username,
		Fullname: admin.Fullname,
		Email:    admin.Email,
		Password: string(hashed),
	}, nil
}

// Seed creates the admin user when absent. An empty password disables seeding.
func Seed(ctx context.Context, db *gorm.DB, adminPassword string) error {
	if adminPassword == "" {
		logger.GetLogger().Info("Seeding skipped, no admin password configured")
		return nil
	}

	admin := GetDefaultAdmin()

	var count int64
	if err := db.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", admin.Username, admin.Email).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	user, err := NewAdminUser(adminPassword)
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	logger.GetLogger().Info("Admin user seeded",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return nil
}
