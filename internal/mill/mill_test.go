package mill

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

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }
func i64(v int64) *int64     { return &v }

func TestHotCoilCreateWithNewProduct(t *testing.T) {
	db := openTestDB(t)
	svc := NewHotCoilService(db)
	ctx := context.Background()

	row, err := svc.CreateWithNewProduct(ctx, &domain.HotCoil{
		LazerDistance: f64(12.5),
		IrPiro:        f64(880),
	})
	require.NoError(t, err)
	require.Greater(t, row.ID, int64(0))
	require.Equal(t, 12.5, *row.LazerDistance)
	require.Nil(t, row.PressureValue)

	var p domain.Product
	require.NoError(t, db.Where("product_id = ?", row.ID).First(&p).Error)
	require.Equal(t, domain.ProductTypeHotCoil, p.ProductType)
}

func TestHotCoilCreateMergesTriggerRow(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// A pre-existing subtype row stands in for the database trigger.
	p := &domain.Product{ProductType: domain.ProductTypeHotCoil}
	require.NoError(t, db.Create(p).Error)
	require.NoError(t, db.Create(&domain.HotCoil{
		ID:            p.ProductID,
		LazerDistance: f64(7.7),
		PressureValue: f64(300),
	}).Error)

	svc := NewHotCoilService(db)
	row, err := svc.CreateForExistingProduct(ctx, p.ProductID, &domain.HotCoil{
		IrPiro: f64(910),
	})
	require.NoError(t, err)
	require.Equal(t, p.ProductID, row.ID)
	require.Equal(t, 7.7, *row.LazerDistance)
	require.Equal(t, 910.0, *row.IrPiro)
	require.Equal(t, 300.0, *row.PressureValue)
}

func TestHotCoilCreateIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	svc := NewHotCoilService(db)

	first, err := svc.CreateWithNewProduct(ctx, &domain.HotCoil{LazerDistance: f64(5)})
	require.NoError(t, err)

	payload := &domain.HotCoil{LazerDistance: f64(5)}
	again, err := svc.CreateForExistingProduct(ctx, first.ID, payload)
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
	require.Equal(t, 5.0, *again.LazerDistance)

	var count int64
	require.NoError(t, db.Model(&domain.HotCoil{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestHotCoilCreateForMissingProduct(t *testing.T) {
	db := openTestDB(t)
	svc := NewHotCoilService(db)

	_, err := svc.CreateForExistingProduct(context.Background(), 99999, &domain.HotCoil{IrPiro: f64(1)})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHotCoilUpdateNeverClearsFields(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	svc := NewHotCoilService(db)

	row, err := svc.CreateWithNewProduct(ctx, &domain.HotCoil{
		LazerDistance: f64(1.1),
		IrPiro:        f64(2.2),
		PressureValue: f64(3.3),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, row.ID, &domain.HotCoil{IrPiro: f64(9.9)})
	require.NoError(t, err)
	require.Equal(t, 1.1, *updated.LazerDistance)
	require.Equal(t, 9.9, *updated.IrPiro)
	require.Equal(t, 3.3, *updated.PressureValue)
}

func TestHotCoilUpdateMissing(t *testing.T) {
	db := openTestDB(t)
	svc := NewHotCoilService(db)

	_, err := svc.Update(context.Background(), 424242, &domain.HotCoil{IrPiro: f64(1)})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHotCoilDeleteRemovesBothRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	svc := NewHotCoilService(db)

	row, err := svc.CreateWithNewProduct(ctx, &domain.HotCoil{LazerDistance: f64(4)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, row.ID))

	var count int64
	require.NoError(t, db.Model(&domain.HotCoil{}).Where("id = ?", row.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&domain.Product{}).Where("product_id = ?", row.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)

	require.ErrorIs(t, svc.Delete(ctx, row.ID), domain.ErrNotFound)
}

func TestColdCoilReconcile(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	svc := NewColdCoilService(db)

	row, err := svc.CreateWithNewProduct(ctx, &domain.ColdCoil{LoadCell: i(150)})
	require.NoError(t, err)
	require.Greater(t, row.ProductID, int64(0))

	merged, err := svc.CreateForExistingProduct(ctx, row.ProductID, &domain.ColdCoil{Termokup: i(42)})
	require.NoError(t, err)
	require.Equal(t, 150, *merged.LoadCell)
	require.Equal(t, 42, *merged.Termokup)
	require.Nil(t, merged.IrPiro)
}

func TestPlatesCreateWithProvenance(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	svc := NewPlatesService(db)

	row, err := svc.CreateWithProvenance(ctx, &domain.Plates{Lvdt: i64(4077051234)}, "İsdemir-Server", "IMAGE")
	require.NoError(t, err)

	var p domain.Product
	require.NoError(t, db.Where("product_id = ?", row.ProductID).First(&p).Error)
	require.Equal(t, domain.ProductTypePlates, p.ProductType)
	require.Equal(t, "İsdemir-Server", p.Provider)
	require.Equal(t, "IMAGE", p.Status)
}

func TestProductUpdatePartial(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	svc := NewProductService(db)

	p, err := svc.Save(ctx, &domain.Product{
		ProductType: domain.ProductTypePlates,
		Provider:    "line-3",
		Material:    "S235",
		Status:      "NEW",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ProductID, &domain.Product{Status: "DONE"})
	require.NoError(t, err)
	require.Equal(t, "DONE", updated.Status)
	require.Equal(t, "line-3", updated.Provider)
	require.Equal(t, "S235", updated.Material)
}

func TestProductSaveRejectsUnknownType(t *testing.T) {
	db := openTestDB(t)
	svc := NewProductService(db)

	_, err := svc.Save(context.Background(), &domain.Product{ProductType: "widget"})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestProductGetRecentClamp(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	svc := NewProductService(db)

	for n := 0; n < 3; n++ {
		_, err := svc.Save(ctx, &domain.Product{ProductType: domain.ProductTypeHotCoil})
		require.NoError(t, err)
	}

	rows, err := svc.GetRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = svc.GetRecent(ctx, 500)
	require.NoError(t, err)
	require.Len(t, rows, 3)
}

func TestProductBulkDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	hot, err := NewHotCoilService(db).CreateWithNewProduct(ctx, &domain.HotCoil{LazerDistance: f64(1)})
	require.NoError(t, err)
	cold, err := NewColdCoilService(db).CreateWithNewProduct(ctx, &domain.ColdCoil{LoadCell: i(2)})
	require.NoError(t, err)
	plate, err := NewPlatesService(db).CreateWithNewProduct(ctx, &domain.Plates{Lvdt: i64(3)})
	require.NoError(t, err)

	svc := NewProductService(db)
	removed, err := svc.BulkDelete(ctx, []int64{hot.ID, hot.ID, cold.ProductID, plate.ProductID, 777777})
	require.NoError(t, err)
	require.EqualValues(t, 3, removed)

	var count int64
	require.NoError(t, db.Model(&domain.Product{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&domain.HotCoil{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&domain.ColdCoil{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&domain.Plates{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestProductBulkDeleteEmpty(t *testing.T) {
	db := openTestDB(t)
	svc := NewProductService(db)

	removed, err := svc.BulkDelete(context.Background(), nil)
	require.NoError(t, err)
	require.EqualValues(t, 0, removed)
}
