package bootstrap

import (
	"context"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/internal/policy"
	"anoa.com/jornalufc/pkg/logger"
	"anoa.com/jornalufc/pkg/password"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Tag{},
		&entity.Article{},
		&entity.GalleryImage{},
		&entity.Comment{},
		&entity.ArticleLike{},
		&entity.CommentLike{},
		&entity.Event{},
	)
}

const (
	devAdminEmail    = "admin@jornal.ufc.br"
	devAdminPassword = "admin123"
)

// SeedAdminUser creates the development administrator once.
func SeedAdminUser(ctx context.Context, db *gorm.DB, hasher password.Hasher) error {
	var count int64
	if err := db.WithContext(ctx).Model(&entity.User{}).
		Where("email = ?", devAdminEmail).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Debug().Msg("admin user already exists, skipping seed")
		return nil
	}

	hash, err := hasher.Hash(devAdminPassword)
	if err != nil {
		return err
	}

	admin := entity.User{
		Name:         "Administrador",
		Email:        devAdminEmail,
		PasswordHash: hash,
		Role:         policy.RoleAdmin,
		IsActive:     true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}

	logger.Info().
		Str("email", devAdminEmail).
		Str("password", devAdminPassword).
		Msg("admin user seeded")
	return nil
}
