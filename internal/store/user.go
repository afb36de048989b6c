package store

import (
	"context"
	"strings"

	"github.com/milldata/milltrack/internal/domain"
	"gorm.io/gorm"
)

// UserRepository handles database operations for the user directory.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Save(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]*domain.User, error)

	// CountByRole counts users holding the role, case-insensitively.
	CountByRole(ctx context.Context, role string) (int64, error)

	// LockAdminRows serializes transactions that shrink the admin set.
	// Must run inside the same transaction as the guarded statement.
	LockAdminRows(ctx context.Context) error

	// UpdateRoleGuarded sets the role on a user row only while at least one
	// other ADMIN exists, with the count evaluated by the database inside
	// the same statement. Returns the number of rows updated. Callers must
	// take LockAdminRows first; without it two concurrent demotions of two
	// different admins can each see the other target as still ADMIN.
	UpdateRoleGuarded(ctx context.Context, id int64, role string) (int64, error)

	// DeleteGuarded removes a user row only while at least one other ADMIN
	// exists. Returns the number of rows deleted. Callers must take
	// LockAdminRows first, same as for UpdateRoleGuarded.
	DeleteGuarded(ctx context.Context, id int64) (int64, error)

	Delete(ctx context.Context, id int64) error
}

// GormUserRepository is the GORM implementation of UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-based repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *GormUserRepository) Save(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *GormUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("username = ?", strings.TrimSpace(username)).
		Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var rows []*domain.User
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *GormUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("UPPER(permission) = ?", strings.ToUpper(role)).
		Count(&count).Error
	return count, err
}

// LockAdminRows takes row locks on every current ADMIN row. Under postgres
// READ COMMITTED two transactions demoting two different admins would
// otherwise touch disjoint rows and each subquery snapshot would still see
// the other target as ADMIN, letting both pass the guard. The lock forces
// the second transaction to wait and re-evaluate. Sqlite allows a single
// writer at a time, so there the lock is unnecessary (and FOR UPDATE is not
// supported).
func (r *GormUserRepository) LockAdminRows(ctx context.Context) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	var ids []int64
	return r.db.WithContext(ctx).
		Raw("SELECT id FROM user_data WHERE UPPER(permission) = 'ADMIN' FOR UPDATE").
		Scan(&ids).Error
}

func (r *GormUserRepository) UpdateRoleGuarded(ctx context.Context, id int64, role string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Where("(SELECT COUNT(*) FROM user_data u2 WHERE UPPER(u2.permission) = 'ADMIN' AND u2.id <> ?) >= 1", id).
		Update("permission", role)
	return res.RowsAffected, res.Error
}

func (r *GormUserRepository) DeleteGuarded(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("(SELECT COUNT(*) FROM user_data u2 WHERE UPPER(u2.permission) = 'ADMIN' AND u2.id <> ?) >= 1", id).
		Delete(&domain.User{})
	return res.RowsAffected, res.Error
}

func (r *GormUserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error
}
