package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/store"
	"github.com/milldata/milltrack/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service manages the user directory and enforces the role integrity rules:
// the system never loses its last ADMIN, and an admin cannot demote or
// delete their own account.
type Service struct {
	db *gorm.DB
}

// NewService creates a user directory service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Register creates a new account. New accounts always start with the USER
// role regardless of what the request carried.
func (s *Service) Register(ctx context.Context, u *domain.User, password string) (*domain.User, error) {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return nil, fmt.Errorf("username required: %w", domain.ErrConflict)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password too short: %w", domain.ErrConflict)
	}

	repo := store.NewGormUserRepository(s.db)
	exists, err := repo.ExistsByUsername(ctx, u.Username)
	if err != nil {
		return nil, domain.TranslateDBError(err)
	}
	if exists {
		return nil, fmt.Errorf("username %q taken: %w", u.Username, domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u.Password = string(hash)
	u.SetRole(domain.RoleUser)

	if err := repo.Create(ctx, u); err != nil {
		return nil, domain.TranslateDBError(err)
	}
	zap.L().Info("user registered", zap.String("username", u.Username))
	return u, nil
}

// VerifyCredentials checks a username/password pair and returns the account
// on success. Wrong password and unknown user both come back as ErrNotFound
// so callers cannot probe for valid usernames.
func (s *Service) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := store.NewGormUserRepository(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.TranslateDBError(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// GetByUsername returns a single account.
func (s *Service) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := store.NewGormUserRepository(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.TranslateDBError(err)
	}
	return u, nil
}

// List returns all accounts ordered by identifier.
func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	return store.NewGormUserRepository(s.db).List(ctx)
}

// UpdateProfile patches the profile fields of an account. Username, password
// and role are untouched by this path.
func (s *Service) UpdateProfile(ctx context.Context, username string, fullName, department string) (*domain.User, error) {
	repo := store.NewGormUserRepository(s.db)
	u, err := repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.TranslateDBError(err)
	}
	if fullName != "" {
		u.FullName = fullName
	}
	if department != "" {
		u.Department = department
	}
	if err := repo.Save(ctx, u); err != nil {
		return nil, domain.TranslateDBError(err)
	}
	return u, nil
}

// ChangePassword replaces an account's password after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("password too short: %w", domain.ErrConflict)
	}
	repo := store.NewGormUserRepository(s.db)
	u, err := repo.GetByUsername(ctx, username)
	if err != nil {
		return domain.TranslateDBError(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPassword)) != nil {
		return domain.ErrNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return domain.TranslateDBError(repo.Save(ctx, u))
}

// ChangeRole sets the role of target on behalf of actor. The raw role is
// normalized first; outside the closed set it is refused. Admins cannot
// change their own role, and a demotion that would remove the last ADMIN is
// refused with the count checked inside the same statement.
func (s *Service) ChangeRole(ctx context.Context, actorUsername string, targetID int64, rawRole string) (*domain.User, error) {
	role := domain.NormalizeRole(rawRole)
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("role %q: %w", rawRole, domain.ErrInvalidRole)
	}

	var out *domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := store.NewGormUserRepository(tx)

		actor, err := repo.GetByUsername(ctx, actorUsername)
		if err != nil {
			return fmt.Errorf("actor %q: %w", actorUsername, domain.TranslateDBError(err))
		}
		target, err := repo.GetByID(ctx, targetID)
		if err != nil {
			return fmt.Errorf("target %d: %w", targetID, domain.TranslateDBError(err))
		}

		if target.Role() == role {
			out = target
			return nil
		}

		if target.Role() == domain.RoleAdmin && role != domain.RoleAdmin {
			// Self-demotion is refused; keeping your own admin role is not.
			if actor.ID == target.ID {
				return domain.ErrSelfAction
			}
			if err := repo.LockAdminRows(ctx); err != nil {
				return domain.TranslateDBError(err)
			}
			affected, err := repo.UpdateRoleGuarded(ctx, target.ID, role)
			if err != nil {
				return domain.TranslateDBError(err)
			}
			if affected == 0 {
				return domain.ErrLastAdmin
			}
		} else {
			target.SetRole(role)
			if err := repo.Save(ctx, target); err != nil {
				return domain.TranslateDBError(err)
			}
		}

		target.SetRole(role)
		out = target
		return s.writeAudit(ctx, tx, actor.Username, "change_role",
			fmt.Sprintf("set role of %s to %s", target.Username, role))
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser removes target on behalf of actor. Self deletion is refused,
// and deleting the last ADMIN is refused with the count checked inside the
// same statement.
func (s *Service) DeleteUser(ctx context.Context, actorUsername string, targetID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := store.NewGormUserRepository(tx)

		actor, err := repo.GetByUsername(ctx, actorUsername)
		if err != nil {
			return fmt.Errorf("actor %q: %w", actorUsername, domain.TranslateDBError(err))
		}
		target, err := repo.GetByID(ctx, targetID)
		if err != nil {
			return fmt.Errorf("target %d: %w", targetID, domain.TranslateDBError(err))
		}
		if actor.ID == target.ID {
			return domain.ErrSelfAction
		}

		if target.Role() == domain.RoleAdmin {
			if err := repo.LockAdminRows(ctx); err != nil {
				return domain.TranslateDBError(err)
			}
			affected, err := repo.DeleteGuarded(ctx, target.ID)
			if err != nil {
				return domain.TranslateDBError(err)
			}
			if affected == 0 {
				return domain.ErrLastAdmin
			}
		} else {
			if err := repo.Delete(ctx, target.ID); err != nil {
				return domain.TranslateDBError(err)
			}
		}

		return s.writeAudit(ctx, tx, actor.Username, "delete_user",
			fmt.Sprintf("deleted user %s", target.Username))
	})
}

func (s *Service) writeAudit(ctx context.Context, tx *gorm.DB, actor, action, desc string) error {
	entry := &domain.AuditLog{
		ID:        common.UUIDint64(),
		OprName:   actor,
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		zap.L().Error("audit write failed", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}
