package mill

import (
	"context"
	"fmt"

	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductService manages parent product rows directly, independent of the
// per-subtype reconciliation services.
type ProductService struct {
	db *gorm.DB
}

// NewProductService creates a product service.
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// GetAll returns every product ordered by identifier.
func (s *ProductService) GetAll(ctx context.Context) ([]*domain.Product, error) {
	return store.NewGormProductRepository(s.db).List(ctx)
}

// GetByID returns a single product.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := store.NewGormProductRepository(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, domain.TranslateDBError(err))
	}
	return p, nil
}

// GetRecent returns the newest products, newest first. The limit is clamped
// to 1..50.
func (s *ProductService) GetRecent(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}
	return store.NewGormProductRepository(s.db).Recent(ctx, limit)
}

// Save inserts a new product. The type tag must belong to the known set.
func (s *ProductService) Save(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if !domain.ValidProductType(p.ProductType) {
		return nil, fmt.Errorf("product type %q: %w", p.ProductType, domain.ErrConflict)
	}
	if err := store.NewGormProductRepository(s.db).Create(ctx, p); err != nil {
		return nil, domain.TranslateDBError(err)
	}
	return p, nil
}

// Update patches the non-empty fields of payload onto an existing product.
// The type tag is immutable after creation, an attempt to change it is
// silently dropped to keep the subtype correlation intact.
func (s *ProductService) Update(ctx context.Context, id int64, payload *domain.Product) (*domain.Product, error) {
	products := store.NewGormProductRepository(s.db)
	existing, err := products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, domain.TranslateDBError(err))
	}

	values := map[string]interface{}{}
	if payload.Provider != "" {
		values["provider"] = payload.Provider
	}
	if payload.Material != "" {
		values["material"] = payload.Material
	}
	if payload.Status != "" {
		values["status"] = payload.Status
	}
	if len(values) == 0 {
		return existing, nil
	}
	if err := products.Updates(ctx, id, values); err != nil {
		return nil, domain.TranslateDBError(err)
	}
	return products.GetByID(ctx, id)
}

// Delete removes a product and its subtype row in one transaction. A
// referential refusal surfaces as ErrConflict.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := store.NewGormProductRepository(tx)
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("product %d: %w", id, domain.TranslateDBError(err))
		}
		if err := deleteSubtypeRows(ctx, tx, []int64{id}, p.ProductType); err != nil {
			return err
		}
		if err := products.Delete(ctx, id); err != nil {
			return domain.TranslateDBError(err)
		}
		return nil
	})
}

// BulkDelete removes a set of products and their subtype rows in one
// transaction. Duplicate identifiers are collapsed, unknown identifiers are
// ignored. Returns the number of products removed.
func (s *ProductService) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return 0, nil
	}

	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := store.NewGormHotCoilRepository(tx).DeleteByProductIDs(ctx, unique); err != nil {
			return domain.TranslateDBError(err)
		}
		if err := store.NewGormColdCoilRepository(tx).DeleteByProductIDs(ctx, unique); err != nil {
			return domain.TranslateDBError(err)
		}
		if err := store.NewGormPlatesRepository(tx).DeleteByProductIDs(ctx, unique); err != nil {
			return domain.TranslateDBError(err)
		}
		n, err := store.NewGormProductRepository(tx).DeleteBatch(ctx, unique)
		if err != nil {
			return domain.TranslateDBError(err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	zap.L().Info("bulk delete finished",
		zap.Int("requested", len(unique)),
		zap.Int64("removed", removed))
	return removed, nil
}

// deleteSubtypeRows clears the subtype rows for the given products. When the
// type tag is known only that table is touched, otherwise all three are.
func deleteSubtypeRows(ctx context.Context, tx *gorm.DB, ids []int64, productType string) error {
	var err error
	switch productType {
	case domain.ProductTypeHotCoil:
		err = store.NewGormHotCoilRepository(tx).DeleteByProductIDs(ctx, ids)
	case domain.ProductTypeColdCoil:
		err = store.NewGormColdCoilRepository(tx).DeleteByProductIDs(ctx, ids)
	case domain.ProductTypePlates:
		err = store.NewGormPlatesRepository(tx).DeleteByProductIDs(ctx, ids)
	default:
		if err = store.NewGormHotCoilRepository(tx).DeleteByProductIDs(ctx, ids); err != nil {
			break
		}
		if err = store.NewGormColdCoilRepository(tx).DeleteByProductIDs(ctx, ids); err != nil {
			break
		}
		err = store.NewGormPlatesRepository(tx).DeleteByProductIDs(ctx, ids)
	}
	if err != nil {
		return domain.TranslateDBError(err)
	}
	return nil
}
