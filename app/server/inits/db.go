package inits

import (
	"fmt"

	"github.com/alexedwards/argon2id"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/KrishSaraf/manj-book/app/server/config"
	"github.com/KrishSaraf/manj-book/app/server/models"
)

func DB(cfg *config.Config) (db *gorm.DB, err error) {
	// author_id is a display join, not a strict foreign key
	if db, err = gorm.Open(postgres.Open(cfg.System.DBConnectionString), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err = mig(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err = initData(db, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		return nil, fmt.Errorf("failed to init data into database: %w", err)
	}

	return db, nil
}

func mig(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
	)
}

// initData seeds the single admin account. It runs on every boot but only
// writes when the users table is empty, so an existing password is never
// overwritten by a changed env var.
func initData(db *gorm.DB, adminUsername, adminPassword string) (err error) {
	var counter int64

	if err = db.Model(&models.User{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get user count: %w", err)
	} else if counter == 0 {
		var password string
		if password, err = argon2id.CreateHash(adminPassword, argon2id.DefaultParams); err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		if err = db.Create(&models.User{
			Username: adminUsername,
			Name:     "Manjari",
			Email:    "admin@nature-blog.com",
			Role:     models.RoleAdmin,
			Password: password,
		}).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
	}

	return nil
}
