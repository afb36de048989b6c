package app

import (
	"context"
	"errors"

	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// checkSuper makes sure the directory always contains an enabled ADMIN.
// Without it a fresh install could never satisfy the last-admin rule.
func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "milltrack"

	// The seed only runs while the admin set is empty; an existing install
	// keeps whatever admins it has.
	admins, err := store.NewGormUserRepository(a.gormDB).CountByRole(context.Background(), domain.RoleAdmin)
	if err != nil {
		zap.L().Error("failed to count admins", zap.Error(err))
		return
	}
	if admins > 0 {
		return
	}

	var u domain.User
	err = a.gormDB.Where("username = ?", superUsername).First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, herr := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
		if herr != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(herr))
			return
		}
		admin := &domain.User{
			Username:   superUsername,
			Password:   string(hash),
			Permission: domain.RoleAdmin,
			FullName:   "administrator",
		}
		if err := a.gormDB.Create(admin).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query default admin", zap.Error(err))
		return
	}

	if u.Role() == domain.RoleAdmin {
		return
	}

	if err := a.gormDB.Model(&domain.User{}).Where("id = ?", u.ID).
		Update("permission", domain.RoleAdmin).Error; err != nil {
		zap.L().Error("failed to repair default admin role", zap.Error(err))
		return
	}
	zap.L().Warn("repaired default admin role", zap.String("username", superUsername))
}
