package mill

import (
	"context"
	"fmt"

	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PlatesService reconciles plates rows against their parent products. It is
// also the materialization target of the OCR ingestion flow, which tags the
// products it creates with provenance metadata.
type PlatesService struct {
	db *gorm.DB
}

// NewPlatesService creates a plates reconciliation service.
func NewPlatesService(db *gorm.DB) *PlatesService {
	return &PlatesService{db: db}
}

func mergePlates(dst, src *domain.Plates) {
	if src.SpeedValue != nil {
		dst.SpeedValue = src.SpeedValue
	}
	if src.PressureValue != nil {
		dst.PressureValue = src.PressureValue
	}
	if src.Lvdt != nil {
		dst.Lvdt = src.Lvdt
	}
}

// CreateWithNewProduct inserts a new plates product and reconciles the
// payload with whatever subtype row exists once the insert has settled.
func (s *PlatesService) CreateWithNewProduct(ctx context.Context, payload *domain.Plates) (*domain.Plates, error) {
	return s.CreateWithProvenance(ctx, payload, "", "")
}

// CreateWithProvenance is CreateWithNewProduct with provider/status stamped
// onto the parent product. The ingestion batcher uses it to mark rows that
// came in through the image pipeline.
func (s *PlatesService) CreateWithProvenance(ctx context.Context, payload *domain.Plates, provider, status string) (*domain.Plates, error) {
	var out *domain.Plates
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := store.NewGormProductRepository(tx)
		plates := store.NewGormPlatesRepository(tx)

		p := &domain.Product{
			ProductType: domain.ProductTypePlates,
			Provider:    provider,
			Status:      status,
		}
		if err := products.Create(ctx, p); err != nil {
			return domain.TranslateDBError(err)
		}

		row, err := reconcilePlates(ctx, plates, p.ProductID, payload)
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("plates row created", zap.Int64("product_id", out.ProductID))
	return out, nil
}

// CreateForExistingProduct reconciles the payload against an existing
// product. Fails with ErrNotFound if the product does not exist.
func (s *PlatesService) CreateForExistingProduct(ctx context.Context, productID int64, payload *domain.Plates) (*domain.Plates, error) {
	var out *domain.Plates
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := store.NewGormProductRepository(tx)
		plates := store.NewGormPlatesRepository(tx)

		if _, err := products.GetByID(ctx, productID); err != nil {
			return fmt.Errorf("product %d: %w", productID, domain.TranslateDBError(err))
		}

		row, err := reconcilePlates(ctx, plates, productID, payload)
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
func (s *PlatesService) Update(ctx context.Context, id int64, payload *domain.Plates) (*domain.Plates, error) {
	var out *domain.Plates
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plates := store.NewGormPlatesRepository(tx)
		existing, err := plates.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("plates %d: %w", id, domain.TranslateDBError(err))
		}
		mergePlates(existing, payload)
		if err := plates.Save(ctx, existing); err != nil {
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
func (s *PlatesService) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := store.NewGormProductRepository(tx)
		plates := store.NewGormPlatesRepository(tx)

		exists, err := plates.Exists(ctx, id)
		if err != nil {
			return domain.TranslateDBError(err)
		}
		if !exists {
			return fmt.Errorf("plates %d: %w", id, domain.ErrNotFound)
		}
		if err := plates.Delete(ctx, id); err != nil {
			return domain.TranslateDBError(err)
		}
		if err := products.Delete(ctx, id); err != nil {
			return domain.TranslateDBError(err)
		}
		return nil
	})
}

// List returns all plates rows with the parent product's creation time.
func (s *PlatesService) List(ctx context.Context) ([]*domain.Plates, error) {
	var rows []*domain.Plates
	err := s.db.WithContext(ctx).
		Table("plates").
		Select("plates.*, products.created_at AS created_at").
		Joins("JOIN products ON products.product_id = plates.product_id").
		Order("plates.product_id ASC").
		Scan(&rows).Error
	return rows, err
}

func reconcilePlates(ctx context.Context, plates store.PlatesRepository, productID int64, payload *domain.Plates) (*domain.Plates, error) {
	existing, err := plates.GetByID(ctx, productID)
	switch {
	case domain.TranslateDBError(err) == domain.ErrNotFound:
		payload.ProductID = productID
		if err := plates.Create(ctx, payload); err != nil {
			return nil, domain.TranslateDBError(err)
		}
		return payload, nil
	case err != nil:
		return nil, domain.TranslateDBError(err)
	}

	mergePlates(existing, payload)
	if err := plates.Save(ctx, existing); err != nil {
		return nil, domain.TranslateDBError(err)
	}
	return existing, nil
}
