package bootstrap

import (
	"context"
	"strings"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/pkg/logger"
	"anoa.com/jobboard/pkg/password"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Profile{},
		&entity.Job{},
		&entity.Application{},
	)
}

// AdminSeed describes the bootstrap administrator.
type AdminSeed struct {
	Email      string
	Password   string
	Name       string
	BcryptCost int
}

// SeedAdminUser creates an approved administrator with an empty profile when no user
// holds the admin role yet. It reports whether a user was created.
func SeedAdminUser(ctx context.Context, db *gorm.DB, seed AdminSeed) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&entity.User{}).
		Where("role = ?", entity.RoleAdmin).
		Count(&count).Error; err != nil {
		return false, err
	}

	if count > 0 {
		logger.Debug().Msg("admin user already exists, skipping seed")
		return false, nil
	}

	hash, err := password.Hash(seed.Password, seed.BcryptCost)
	if err != nil {
		return false, err
	}

	admin := entity.User{
		Email:        strings.ToLower(strings.TrimSpace(seed.Email)),
		PasswordHash: hash,
		FirstName:    seed.Name,
		LastName:     "",
		DateOfBirth:  "1990-01-01",
		Address:      "Admin Address",
		Role:         entity.RoleAdmin,
		Status:       entity.StatusApproved,
		Profile:      &entity.Profile{},
	}

	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, err
	}

	logger.Info().
		Uint("user_id", admin.ID).
		Str("email", admin.Email).
		Msg("admin user seeded")

	return true, nil
}
