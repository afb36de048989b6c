package store

import (
	"context"

	"github.com/milldata/milltrack/internal/domain"
	"gorm.io/gorm"
)

// The three subtype repositories share one shape: lookup by the product
// identifier they are keyed with, insert, save, delete. A trigger on the
// products table may insert rows behind the application's back, so callers
// always look up before deciding between insert and merge.

// HotCoilRepository handles database operations for hot_coil rows.
type HotCoilRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.HotCoil, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, row *domain.HotCoil) error
	Save(ctx context.Context, row *domain.HotCoil) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.HotCoil, error)
	DeleteByProductIDs(ctx context.Context, ids []int64) error
}

// ColdCoilRepository handles database operations for cold_coil rows.
type ColdCoilRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ColdCoil, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, row *domain.ColdCoil) error
	Save(ctx context.Context, row *domain.ColdCoil) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.ColdCoil, error)
	DeleteByProductIDs(ctx context.Context, ids []int64) error
}

// PlatesRepository handles database operations for plates rows.
type PlatesRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Plates, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, row *domain.Plates) error
	Save(ctx context.Context, row *domain.Plates) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Plates, error)
	DeleteByProductIDs(ctx context.Context, ids []int64) error
}

// GormHotCoilRepository is the GORM implementation of HotCoilRepository.
type GormHotCoilRepository struct {
	db *gorm.DB
}

// NewGormHotCoilRepository creates a new GORM-based repository.
func NewGormHotCoilRepository(db *gorm.DB) *GormHotCoilRepository {
	return &GormHotCoilRepository{db: db}
}

func (r *GormHotCoilRepository) GetByID(ctx context.Context, id int64) (*domain.HotCoil, error) {
	var row domain.HotCoil
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormHotCoilRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.HotCoil{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormHotCoilRepository) Create(ctx context.Context, row *domain.HotCoil) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *GormHotCoilRepository) Save(ctx context.Context, row *domain.HotCoil) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *GormHotCoilRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.HotCoil{}).Error
}

func (r *GormHotCoilRepository) List(ctx context.Context) ([]*domain.HotCoil, error) {
	var rows []*domain.HotCoil
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *GormHotCoilRepository) DeleteByProductIDs(ctx context.Context, ids []int64) error {
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.HotCoil{}).Error
}

// GormColdCoilRepository is the GORM implementation of ColdCoilRepository.
type GormColdCoilRepository struct {
	db *gorm.DB
}

// NewGormColdCoilRepository creates a new GORM-based repository.
func NewGormColdCoilRepository(db *gorm.DB) *GormColdCoilRepository {
	return &GormColdCoilRepository{db: db}
}

func (r *GormColdCoilRepository) GetByID(ctx context.Context, id int64) (*domain.ColdCoil, error) {
	var row domain.ColdCoil
	err := r.db.WithContext(ctx).Where("product_id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormColdCoilRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ColdCoil{}).Where("product_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormColdCoilRepository) Create(ctx context.Context, row *domain.ColdCoil) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *GormColdCoilRepository) Save(ctx context.Context, row *domain.ColdCoil) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *GormColdCoilRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("product_id = ?", id).Delete(&domain.ColdCoil{}).Error
}

func (r *GormColdCoilRepository) List(ctx context.Context) ([]*domain.ColdCoil, error) {
	var rows []*domain.ColdCoil
	err := r.db.WithContext(ctx).Order("product_id ASC").Find(&rows).Error
	return rows, err
}

func (r *GormColdCoilRepository) DeleteByProductIDs(ctx context.Context, ids []int64) error {
	return r.db.WithContext(ctx).Where("product_id IN ?", ids).Delete(&domain.ColdCoil{}).Error
}

// GormPlatesRepository is the GORM implementation of PlatesRepository.
type GormPlatesRepository struct {
	db *gorm.DB
}

// NewGormPlatesRepository creates a new GORM-based repository.
func NewGormPlatesRepository(db *gorm.DB) *GormPlatesRepository {
	return &GormPlatesRepository{db: db}
}

func (r *GormPlatesRepository) GetByID(ctx context.Context, id int64) (*domain.Plates, error) {
	var row domain.Plates
	err := r.db.WithContext(ctx).Where("product_id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormPlatesRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Plates{}).Where("product_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormPlatesRepository) Create(ctx context.Context, row *domain.Plates) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *GormPlatesRepository) Save(ctx context.Context, row *domain.Plates) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *GormPlatesRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("product_id = ?", id).Delete(&domain.Plates{}).Error
}

func (r *GormPlatesRepository) List(ctx context.Context) ([]*domain.Plates, error) {
	var rows []*domain.Plates
	err := r.db.WithContext(ctx).Order("product_id ASC").Find(&rows).Error
	return rows, err
}

func (r *GormPlatesRepository) DeleteByProductIDs(ctx context.Context, ids []int64) error {
	return r.db.WithContext(ctx).Where("product_id IN ?", ids).Delete(&domain.Plates{}).Error
}
