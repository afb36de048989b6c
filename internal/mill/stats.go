package mill

import (
	"context"
	"time"

	"github.com/milldata/milltrack/internal/domain"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatsService computes the daily production snapshot. The scheduler calls
// SnapshotDay once per day; calling it again for the same day overwrites the
// existing snapshot.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a stats service.
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// SnapshotDay writes the production_metric row for the given day.
func (s *StatsService) SnapshotDay(ctx context.Context, day time.Time) (*domain.ProductionMetric, error) {
	dayKey := day.Format("2006-01-02")
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	metric := &domain.ProductionMetric{Day: dayKey, CreatedAt: time.Now()}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counts := []struct {
			productType string
			dst         *int64
		}{
			{domain.ProductTypeHotCoil, &metric.HotCoilCount},
			{domain.ProductTypeColdCoil, &metric.ColdCoilCount},
			{domain.ProductTypePlates, &metric.PlatesCount},
		}
		for _, c := range counts {
			err := tx.WithContext(ctx).Model(&domain.Product{}).
				Where("product_type = ?", c.productType).
				Where("created_at >= ? AND created_at < ?", start, end).
				Count(c.dst).Error
			if err != nil {
				return err
			}
		}

		var pressures []float64
		err := tx.WithContext(ctx).
			Table("hot_coil").
			Joins("JOIN products ON products.product_id = hot_coil.id").
			Where("products.created_at >= ? AND products.created_at < ?", start, end).
			Where("hot_coil.pressure_value IS NOT NULL").
			Pluck("hot_coil.pressure_value", &pressures).Error
		if err != nil {
			return err
		}
		if len(pressures) > 0 {
			metric.PressureMean, _ = stats.Mean(pressures)
			metric.PressureMedian, _ = stats.Median(pressures)
		}

		if err := tx.WithContext(ctx).Where("day = ?", dayKey).
			Delete(&domain.ProductionMetric{}).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).Create(metric).Error
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("daily snapshot written",
		zap.String("day", dayKey),
		zap.Int64("hot_coil", metric.HotCoilCount),
		zap.Int64("cold_coil", metric.ColdCoilCount),
		zap.Int64("plates", metric.PlatesCount))
	return metric, nil
}

// Recent returns the newest snapshots, newest day first.
func (s *StatsService) Recent(ctx context.Context, limit int) ([]*domain.ProductionMetric, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > 90 {
		limit = 90
	}
	var rows []*domain.ProductionMetric
	err := s.db.WithContext(ctx).Order("day DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
