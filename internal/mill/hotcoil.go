package mill

import (
	"context"
	"fmt"

	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HotCoilService reconciles hot_coil rows against their parent products.
// Inserting a product may fire a database trigger that opens the matching
// subtype row; the trigger may also be disabled, so every create path looks
// the row up first and then either inserts the payload or merges it. All
// mutations run inside one transaction.
type HotCoilService struct {
	db *gorm.DB
}

// NewHotCoilService creates a hot coil reconciliation service.
func NewHotCoilService(db *gorm.DB) *HotCoilService {
	return &HotCoilService{db: db}
}

// mergeHotCoil copies the non-nil measurement fields of src onto dst.
// Nil fields are no-ops, so a partial payload never clears stored values.
func mergeHotCoil(dst, src *domain.HotCoil) {
	if src.LazerDistance != nil {
		dst.LazerDistance = src.LazerDistance
	}
	if src.IrPiro != nil {
		dst.IrPiro = src.IrPiro
	}
	if src.PressureValue != nil {
		dst.PressureValue = src.PressureValue
	}
}

// CreateWithNewProduct inserts a new hot_coil product and reconciles the
// payload with whatever subtype row exists once the insert has settled.
func (s *HotCoilService) CreateWithNewProduct(ctx context.Context, payload *domain.HotCoil) (*domain.HotCoil, error) {
	var out *domain.HotCoil
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := store.NewGormProductRepository(tx)
		coils := store.NewGormHotCoilRepository(tx)

		p := &domain.Product{ProductType: domain.ProductTypeHotCoil}
		if err := products.Create(ctx, p); err != nil {
			return domain.TranslateDBError(err)
		}

		row, err := reconcileHotCoil(ctx, coils, p.ProductID, payload)
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("hot coil created", zap.Int64("product_id", out.ID))
	return out, nil
}

// CreateForExistingProduct reconciles the payload against an existing
// product. Fails with ErrNotFound if the product does not exist.
func (s *HotCoilService) CreateForExistingProduct(ctx context.Context, productID int64, payload *domain.HotCoil) (*domain.HotCoil, error) {
	var out *domain.HotCoil
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := store.NewGormProductRepository(tx)
		coils := store.NewGormHotCoilRepository(tx)

		if _, err := products.GetByID(ctx, productID); err != nil {
			return fmt.Errorf("product %d: %w", productID, domain.TranslateDBError(err))
		}

		row, err := reconcileHotCoil(ctx, coils, productID, payload)
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update patches the non-nil fields of payload onto an existing row.
// Never creates.
func (s *HotCoilService) Update(ctx context.Context, id int64, payload *domain.HotCoil) (*domain.HotCoil, error) {
	var out *domain.HotCoil
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		coils := store.NewGormHotCoilRepository(tx)
		existing, err := coils.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("hot coil %d: %w", id, domain.TranslateDBError(err))
		}
		mergeHotCoil(existing, payload)
		if err := coils.Save(ctx, existing); err != nil {
			return domain.TranslateDBError(err)
		}
		out = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the subtype row and its parent product in one transaction.
// A foreign key refusal from the store surfaces as ErrConflict.
func (s *HotCoilService) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := store.NewGormProductRepository(tx)
		coils := store.NewGormHotCoilRepository(tx)

		exists, err := coils.Exists(ctx, id)
		if err != nil {
			return domain.TranslateDBError(err)
		}
		if !exists {
			return fmt.Errorf("hot coil %d: %w", id, domain.ErrNotFound)
		}
		if err := coils.Delete(ctx, id); err != nil {
			return domain.TranslateDBError(err)
		}
		if err := products.Delete(ctx, id); err != nil {
			return domain.TranslateDBError(err)
		}
		return nil
	})
}

// List returns all hot coil rows with the parent product's creation time.
func (s *HotCoilService) List(ctx context.Context) ([]*domain.HotCoil, error) {
	var rows []*domain.HotCoil
	err := s.db.WithContext(ctx).
		Table("hot_coil").
		Select("hot_coil.*, products.created_at AS created_at").
		Joins("JOIN products ON products.product_id = hot_coil.id").
		Order("hot_coil.id ASC").
		Scan(&rows).Error
	return rows, err
}

// reconcileHotCoil applies the insert-or-merge step shared by both create
// paths: if the trigger has not materialized a row yet, the payload becomes
// the row; otherwise the payload's non-nil fields are merged in.
func reconcileHotCoil(ctx context.Context, coils store.HotCoilRepository, productID int64, payload *domain.HotCoil) (*domain.HotCoil, error) {
	existing, err := coils.GetByID(ctx, productID)
	switch {
	case domain.TranslateDBError(err) == domain.ErrNotFound:
		payload.ID = productID
		if err := coils.Create(ctx, payload); err != nil {
			return nil, domain.TranslateDBError(err)
		}
		return payload, nil
	case err != nil:
		return nil, domain.TranslateDBError(err)
	}

	mergeHotCoil(existing, payload)
	if err := coils.Save(ctx, existing); err != nil {
		return nil, domain.TranslateDBError(err)
	}
	return existing, nil
}
