package mill

import (
	"context"
	"fmt"

	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ColdCoilService reconciles cold_coil rows against their parent products.
// Same trigger discipline as the hot coil service.
type ColdCoilService struct {
	db *gorm.DB
}

// NewColdCoilService creates a cold coil reconciliation service.
func NewColdCoilService(db *gorm.DB) *ColdCoilService {
	return &ColdCoilService{db: db}
}

func mergeColdCoil(dst, src *domain.ColdCoil) {
	if src.LoadCell != nil {
		dst.LoadCell = src.LoadCell
	}
	if src.IrPiro != nil {
		dst.IrPiro = src.IrPiro
	}
	if src.Termokup != nil {
		dst.Termokup = src.Termokup
	}
}

// CreateWithNewProduct inserts a new cold_coil product and reconciles the
// payload with whatever subtype row exists once the insert has settled.
func (s *ColdCoilService) CreateWithNewProduct(ctx context.Context, payload *domain.ColdCoil) (*domain.ColdCoil, error) {
	var out *domain.ColdCoil
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := store.NewGormProductRepository(tx)
		coils := store.NewGormColdCoilRepository(tx)

		p := &domain.Product{ProductType: domain.ProductTypeColdCoil}
		if err := products.Create(ctx, p); err != nil {
			return domain.TranslateDBError(err)
		}

		row, err := reconcileColdCoil(ctx, coils, p.ProductID, payload)
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("cold coil created", zap.Int64("product_id", out.ProductID))
	return out, nil
}

// CreateForExistingProduct reconciles the payload against an existing
// product. Fails with ErrNotFound if the product does not exist.
func (s *ColdCoilService) CreateForExistingProduct(ctx context.Context, productID int64, payload *domain.ColdCoil) (*domain.ColdCoil, error) {
	var out *domain.ColdCoil
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := store.NewGormProductRepository(tx)
		coils := store.NewGormColdCoilRepository(tx)

		if _, err := products.GetByID(ctx, productID); err != nil {
			return fmt.Errorf("product %d: %w", productID, domain.TranslateDBError(err))
		}

		row, err := reconcileColdCoil(ctx, coils, productID, payload)
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
func (s *ColdCoilService) Update(ctx context.Context, id int64, payload *domain.ColdCoil) (*domain.ColdCoil, error) {
	var out *domain.ColdCoil
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		coils := store.NewGormColdCoilRepository(tx)
		existing, err := coils.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("cold coil %d: %w", id, domain.TranslateDBError(err))
		}
		mergeColdCoil(existing, payload)
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
func (s *ColdCoilService) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := store.NewGormProductRepository(tx)
		coils := store.NewGormColdCoilRepository(tx)

		exists, err := coils.Exists(ctx, id)
		if err != nil {
			return domain.TranslateDBError(err)
		}
		if !exists {
			return fmt.Errorf("cold coil %d: %w", id, domain.ErrNotFound)
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

// List returns all cold coil rows with the parent product's creation time.
func (s *ColdCoilService) List(ctx context.Context) ([]*domain.ColdCoil, error) {
	var rows []*domain.ColdCoil
	err := s.db.WithContext(ctx).
		Table("cold_coil").
		Select("cold_coil.*, products.created_at AS created_at").
		Joins("JOIN products ON products.product_id = cold_coil.product_id").
		Order("cold_coil.product_id ASC").
		Scan(&rows).Error
	return rows, err
}

func reconcileColdCoil(ctx context.Context, coils store.ColdCoilRepository, productID int64, payload *domain.ColdCoil) (*domain.ColdCoil, error) {
	existing, err := coils.GetByID(ctx, productID)
	switch {
	case domain.TranslateDBError(err) == domain.ErrNotFound:
		payload.ProductID = productID
		if err := coils.Create(ctx, payload); err != nil {
			return nil, domain.TranslateDBError(err)
		}
		return payload, nil
	case err != nil:
		return nil, domain.TranslateDBError(err)
	}

	mergeColdCoil(existing, payload)
	if err := coils.Save(ctx, existing); err != nil {
		return nil, domain.TranslateDBError(err)
	}
	return existing, nil
}
