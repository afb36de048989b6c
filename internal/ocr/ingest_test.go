package ocr

import (
	"context"
	"fmt"
	"testing"

	"github.com/milldata/milltrack/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func TestSaveAllDedupesAndOrders(t *testing.T) {
	db := openTestDB(t)
	svc := NewIngestService(db)

	created, err := svc.SaveAll(context.Background(), []*int64{i64(1001), i64(1001), nil, i64(2002)})
	require.NoError(t, err)
	require.Len(t, created, 2)
	require.EqualValues(t, 1001, created[0].Lvdt)
	require.EqualValues(t, 2002, created[1].Lvdt)
	require.NotEqual(t, created[0].ProductID, created[1].ProductID)

	var products []domain.Product
	require.NoError(t, db.Order("product_id ASC").Find(&products).Error)
	require.Len(t, products, 2)
	for _, p := range products {
		require.Equal(t, domain.ProductTypePlates, p.ProductType)
		require.Equal(t, IngestProvider, p.Provider)
		require.Equal(t, IngestStatus, p.Status)
	}

	var plates []domain.Plates
	require.NoError(t, db.Order("product_id ASC").Find(&plates).Error)
	require.Len(t, plates, 2)
	require.EqualValues(t, 1001, *plates[0].Lvdt)
	require.EqualValues(t, 2002, *plates[1].Lvdt)
}

type flakyPlateCreator struct {
	failOn int64
	nextID int64
	calls  []int64
}

func (f *flakyPlateCreator) CreateWithProvenance(ctx context.Context, payload *domain.Plates, provider, status string) (*domain.Plates, error) {
	f.calls = append(f.calls, *payload.Lvdt)
	if *payload.Lvdt == f.failOn {
		return nil, domain.ErrConflict
	}
	f.nextID++
	return &domain.Plates{ProductID: f.nextID, Lvdt: payload.Lvdt}, nil
}

func TestSaveAllSkipsFailedItem(t *testing.T) {
	creator := &flakyPlateCreator{failOn: 2002}
	svc := &IngestService{plates: creator}

	created, err := svc.SaveAll(context.Background(), []*int64{i64(1001), i64(2002), i64(3003)})
	require.NoError(t, err)

	// The middle item failed; its neighbors stand, in order.
	require.Len(t, created, 2)
	require.EqualValues(t, 1001, created[0].Lvdt)
	require.EqualValues(t, 3003, created[1].Lvdt)

	// Every deduped identifier was attempted exactly once.
	require.Equal(t, []int64{1001, 2002, 3003}, creator.calls)
}

func TestSaveAllEmptyInput(t *testing.T) {
	db := openTestDB(t)
	svc := NewIngestService(db)

	created, err := svc.SaveAll(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, created)

	created, err = svc.SaveAll(context.Background(), []*int64{nil, nil})
	require.NoError(t, err)
	require.Empty(t, created)

	var count int64
	require.NoError(t, db.Model(&domain.Product{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}
