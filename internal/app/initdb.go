package app

import (
	"errors"
	"time"

	"github.com/melangjewelers/catalog/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// checkAdmin creates the initial admin account when the users table is empty
// and a password was supplied in configuration. Without it the first account
// comes from the signup endpoint.
func (a *Application) checkAdmin() {
	adminCfg := a.appConfig.Admin
	if adminCfg.Email == "" || adminCfg.Passwd == "" {
		return
	}

	var count int64
	if err := a.gormDB.Model(&domain.User{}).Count(&count).Error; err != nil {
		zap.L().Error("failed to count users", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminCfg.Passwd), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash admin password", zap.Error(err))
		return
	}

	if err := a.gormDB.Create(&domain.User{
		Email:          adminCfg.Email,
		HashedPassword: string(hash),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}).Error; err != nil {
		zap.L().Error("failed to create initial admin account", zap.Error(err))
		return
	}
	zap.L().Info("initialized admin account", zap.String("email", adminCfg.Email))
}

// checkPages ensures the singleton page rows exist with their fixed primary
// key, so slot updates always have a row to target.
func (a *Application) checkPages() {
	var home domain.HomePage
	err := a.gormDB.Where("id = ?", domain.SingletonID).First(&home).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := a.gormDB.Create(&domain.HomePage{ID: domain.SingletonID}).Error; err != nil {
			zap.L().Error("failed to seed home page row", zap.Error(err))
		}
	} else if err != nil {
		zap.L().Error("failed to query home page row", zap.Error(err))
	}

	var about domain.AboutPage
	err = a.gormDB.Where("id = ?", domain.SingletonID).First(&about).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := a.gormDB.Create(&domain.AboutPage{ID: domain.SingletonID}).Error; err != nil {
			zap.L().Error("failed to seed about page row", zap.Error(err))
		}
	} else if err != nil {
		zap.L().Error("failed to query about page row", zap.Error(err))
	}
}
