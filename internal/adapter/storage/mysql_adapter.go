package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/source-deduction/internal/core/domain"
)

var ErrOptimisticLock = errors.New("optimistic lock conflict")

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) ResolveStockID(ctx context.Context, channel domain.SalesChannel) (int64, error) {
	var stockID int64
	err := m.db.QueryRowContext(ctx, `
		SELECT stock_id FROM sales_channel_stock
		WHERE channel_type = ? AND channel_code = ?`,
		channel.Type, channel.Code,
	).Scan(&stockID)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrStockMappingNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query sales channel stock: %w", err)
	}

	return stockID, nil
}

func (m *MySQLAdapter) GetStockItemConfiguration(ctx context.Context, sku string, stockID int64) (domain.StockItemConfiguration, error) {
	var cfg domain.StockItemConfiguration
	err := m.db.QueryRowContext(ctx, `
		SELECT manage_stock, min_qty, backorders
		FROM stock_item_configuration
		WHERE stock_id = ? AND sku = ?`,
		stockID, sku,
	).Scan(&cfg.ManageStock, &cfg.MinQty, &cfg.Backorders)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.StockItemConfiguration{}, domain.ErrConfigurationNotFound
	}
	if err != nil {
		return domain.StockItemConfiguration{}, fmt.Errorf("query stock item configuration: %w", err)
	}

	return cfg, nil
}

func (m *MySQLAdapter) GetSourceItem(ctx context.Context, sourceCode, sku string) (*domain.SourceItem, error) {
	var item domain.SourceItem
	err := m.db.QueryRowContext(ctx, `
		SELECT source_code, sku, quantity, status
		FROM source_item
		WHERE source_code = ? AND sku = ?`,
		sourceCode, sku,
	).Scan(&item.SourceCode, &item.SKU, &item.Quantity, &item.Status)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSourceItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query source item: %w", err)
	}

	return &item, nil
}

// PersistBatch applies every decrement inside one transaction. The quantity
// guard in the WHERE clause rejects the whole batch when a concurrent request
// already consumed the stock this one observed at fetch time.
func (m *MySQLAdapter) PersistBatch(ctx context.Context, entries []domain.DeductionBatchEntry) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, entry := range entries {
		result, err := tx.ExecContext(ctx, `
			UPDATE source_item
			SET quantity = quantity - ?, status = ?, updated_at = NOW()
			WHERE source_code = ? AND sku = ? AND quantity >= ?`,
			entry.QtyToDecrement, int(entry.SourceItem.Status),
			entry.SourceItem.SourceCode, entry.SourceItem.SKU, entry.QtyToDecrement,
		)
		if err != nil {
			return fmt.Errorf("decrement source item %s/%s: %w", entry.SourceItem.SourceCode, entry.SourceItem.SKU, err)
		}

		rows, _ := result.RowsAffected()
		if rows == 0 {
			return ErrOptimisticLock
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) LookupProductIDForSKU(ctx context.Context, sku string) (string, error) {
	var productID string
	err := m.db.QueryRowContext(ctx, `
		SELECT product_id FROM legacy_stock_item WHERE sku = ?`, sku,
	).Scan(&productID)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query legacy stock item: %w", err)
	}

	return productID, nil
}
