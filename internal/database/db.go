package database

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hritikarora28/AppstoreBackend/internal/config"
	"github.com/hritikarora28/AppstoreBackend/internal/models"
)

var DB *gorm.DB

func Connect(dsn string) error {
	if dsn == "" {
		return errors.New("empty DSN")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(60 * time.Minute)

	DB = db
	return nil
}

func AutoMigrateAndSeed() error {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.App{},
		&models.AppDownload{},
		&models.Comment{},
	); err != nil {
		return errors.Wrap(err, "automigrate")
	}
	return seedAdmin()
}

func seedAdmin() error {
	var count int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}
	user := models.User{
		Email:    config.Current.AdminEmail,
		Username: config.Current.AdminUsername,
		Role:     models.RoleAdmin,
	}
	if err := user.SetPassword(config.Current.AdminPassword); err != nil {
		return err
	}
	return DB.Create(&user).Error
}
