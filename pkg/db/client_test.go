package db

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stockRow stands in for the catalog's stock column in transaction tests.
type stockRow struct {
	ID       int
	SKU      string
	StockQty int
}

func newTestClient(t *testing.T) (*Client, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&stockRow{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return &Client{conn: conn}, conn
}

func TestWithTxCommitsStockChanges(t *testing.T) {
	client, conn := newTestClient(t)
	ctx := context.Background()

	if err := conn.Create(&stockRow{SKU: "chamomile-tea", StockQty: 10}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Model(&stockRow{}).
			Where("sku = ?", "chamomile-tea").
			Update("stock_qty", gorm.Expr("stock_qty - ?", 2)).Error
	})
	if err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var row stockRow
	if err := conn.First(&row, "sku = ?", "chamomile-tea").Error; err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if row.StockQty != 8 {
		t.Fatalf("stock = %d, want 8", row.StockQty)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client, conn := newTestClient(t)
	ctx := context.Background()

	if err := conn.Create(&stockRow{SKU: "lavender-oil", StockQty: 5}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&stockRow{}).
			Where("sku = ?", "lavender-oil").
			Update("stock_qty", gorm.Expr("stock_qty - ?", 5)).Error; err != nil {
			return err
		}
		return errors.New("payment declined")
	})
	if err == nil {
		t.Fatal("expected WithTx to surface the callback error")
	}

	var row stockRow
	if err := conn.First(&row, "sku = ?", "lavender-oil").Error; err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if row.StockQty != 5 {
		t.Fatalf("stock = %d after rollback, want 5", row.StockQty)
	}
}

func TestPing(t *testing.T) {
	client, _ := newTestClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}
