package port

import (
	"context"

	"github.com/rl1809/source-deduction/internal/core/domain"
)

type StockResolver interface {
	// ResolveStockID maps a sales channel to its stock identifier
	ResolveStockID(ctx context.Context, channel domain.SalesChannel) (int64, error)
}

type StockConfigurationProvider interface {
	// GetStockItemConfiguration returns the per-SKU configuration for a stock
	GetStockItemConfiguration(ctx context.Context, sku string, stockID int64) (domain.StockItemConfiguration, error)
}

type SourceItemRepository interface {
	// GetSourceItem retrieves the quantity and status of a (source, SKU) pair
	GetSourceItem(ctx context.Context, sourceCode, sku string) (*domain.SourceItem, error)
}

type BatchPersister interface {
	// PersistBatch commits all decrements as a single all-or-nothing unit
	PersistBatch(ctx context.Context, entries []domain.DeductionBatchEntry) error
}
