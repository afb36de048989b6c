package ocr

import (
	"context"

	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/mill"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Provenance stamped on products created through the image pipeline.
const (
	IngestProvider = "İsdemir-Server"
	IngestStatus   = "IMAGE"
)

// CreatedPlate pairs a materialized product with the identifier it was
// created for.
type CreatedPlate struct {
	ProductID int64 `json:"product_id"`
	Lvdt      int64 `json:"lvdt"`
}

// plateCreator is the slice of the plates service the batcher drives. Each
// call commits in its own transaction.
type plateCreator interface {
	CreateWithProvenance(ctx context.Context, payload *domain.Plates, provider, status string) (*domain.Plates, error)
}

// IngestService materializes recognized slab identifiers as plates products.
type IngestService struct {
	plates plateCreator
}

// NewIngestService creates an ingestion service.
func NewIngestService(db *gorm.DB) *IngestService {
	return &IngestService{plates: mill.NewPlatesService(db)}
}

// SaveAll materializes a batch of recognized identifiers. Nils are dropped
// and duplicates are collapsed keeping first-seen order. Each identifier is
// written in its own transaction; a failed item is logged and skipped, items
// already committed stand. Empty input returns an empty result.
func (s *IngestService) SaveAll(ctx context.Context, lvdts []*int64) ([]CreatedPlate, error) {
	seen := make(map[int64]struct{}, len(lvdts))
	created := make([]CreatedPlate, 0, len(lvdts))

	for _, lvdt := range lvdts {
		if lvdt == nil {
			continue
		}
		v := *lvdt
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}

		payload := &domain.Plates{Lvdt: &v}
		row, err := s.plates.CreateWithProvenance(ctx, payload, IngestProvider, IngestStatus)
		if err != nil {
			zap.L().Warn("ingest item failed", zap.Int64("lvdt", v), zap.Error(err))
			continue
		}
		created = append(created, CreatedPlate{ProductID: row.ProductID, Lvdt: v})
	}

	zap.L().Info("ingest batch finished",
		zap.Int("received", len(lvdts)),
		zap.Int("created", len(created)))
	return created, nil
}
