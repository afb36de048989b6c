package store

import (
	"context"

	"github.com/milldata/milltrack/internal/domain"
	"gorm.io/gorm"
)

// ProductRepository handles database operations for parent product rows.
// Implementations are constructed over a *gorm.DB which may be a transaction
// handle, so the caller decides the transactional scope.
type ProductRepository interface {
	// Create inserts a new product and fills in its assigned identifier.
	Create(ctx context.Context, p *domain.Product) error

	// GetByID retrieves a product by identifier.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Exists reports whether a product with the identifier exists.
	Exists(ctx context.Context, id int64) (bool, error)

	// List retrieves all products ordered by identifier.
	List(ctx context.Context) ([]*domain.Product, error)

	// Recent retrieves the newest products, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.Product, error)

	// Updates applies the given column values to a product row.
	Updates(ctx context.Context, id int64, values map[string]interface{}) error

	// Delete removes a product row.
	Delete(ctx context.Context, id int64) error

	// DeleteBatch removes all product rows with the given identifiers and
	// reports how many were removed.
	DeleteBatch(ctx context.Context, ids []int64) (int64, error)
}

// GormProductRepository is the GORM implementation of ProductRepository.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based repository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("product_id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("product_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *GormProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var rows []*domain.Product
	err := r.db.WithContext(ctx).Order("product_id ASC").Find(&rows).Error
	return rows, err
}

func (r *GormProductRepository) Recent(ctx context.Context, limit int) ([]*domain.Product, error) {
	var rows []*domain.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *GormProductRepository) Updates(ctx context.Context, id int64, values map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("product_id = ?", id).
		Updates(values).Error
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("product_id = ?", id).Delete(&domain.Product{}).Error
}

func (r *GormProductRepository) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("product_id IN ?", ids).Delete(&domain.Product{})
	return res.RowsAffected, res.Error
}
