package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rl1809/source-deduction/internal/core/domain"
	"github.com/rl1809/source-deduction/internal/port"
)

// CleanCacheEvent is broadcast after product caches have been invalidated.
const CleanCacheEvent = "clean_cache_by_tags"

var ErrInsufficientStock = errors.New("insufficient stock")

// DeductionService deducts line item quantities from a named stock source and
// keeps each affected source item's status in step with its quantity.
type DeductionService struct {
	stocks      port.StockResolver
	configs     port.StockConfigurationProvider
	sourceItems port.SourceItemRepository
	persister   port.BatchPersister
	products    port.ProductResolver
	invalidator port.CacheInvalidator
	events      port.EventPublisher
	logger      *zap.Logger
}

func NewDeductionService(
	stocks port.StockResolver,
	configs port.StockConfigurationProvider,
	sourceItems port.SourceItemRepository,
	persister port.BatchPersister,
	products port.ProductResolver,
	invalidator port.CacheInvalidator,
	events port.EventPublisher,
	logger *zap.Logger,
) *DeductionService {
	return &DeductionService{
		stocks:      stocks,
		configs:     configs,
		sourceItems: sourceItems,
		persister:   persister,
		products:    products,
		invalidator: invalidator,
		events:      events,
		logger:      logger,
	}
}

// Execute processes every line item of the request in order and fails the
// whole operation, with nothing persisted, if any item cannot be satisfied.
// Persistence happens at most once per request, after the full loop succeeds.
func (s *DeductionService) Execute(ctx context.Context, req domain.DeductionRequest) error {
	stockID, err := s.stocks.ResolveStockID(ctx, req.SalesChannel)
	if err != nil {
		return fmt.Errorf("resolve stock for channel %s/%s: %w", req.SalesChannel.Type, req.SalesChannel.Code, err)
	}

	var batch []domain.DeductionBatchEntry
	for _, item := range req.Items {
		cfg, err := s.configs.GetStockItemConfiguration(ctx, item.SKU, stockID)
		if err != nil {
			return fmt.Errorf("stock item configuration for %s: %w", item.SKU, err)
		}
		if !cfg.ManageStock {
			continue
		}

		sourceItem, err := s.sourceItems.GetSourceItem(ctx, req.SourceCode, item.SKU)
		if err != nil {
			return fmt.Errorf("source item %s/%s: %w", req.SourceCode, item.SKU, err)
		}

		// Cancelling an order against a balance that is already going
		// negative still reconciles the visible quantity and status, but the
		// item stays out of the decrement batch. That path and the normal
		// decrement path have different upstream side effects and must not
		// be merged.
		if req.SalesEvent.Type == domain.SalesEventOrderCanceled && sourceItem.Quantity-item.Qty < 0 {
			sourceItem.Quantity -= item.Qty
			sourceItem.Status = domain.DeriveStatus(cfg, sourceItem)
			continue
		}

		if sourceItem.Quantity-item.Qty >= 0 {
			sourceItem.Quantity -= item.Qty
			sourceItem.Status = domain.DeriveStatus(cfg, sourceItem)
			batch = append(batch, domain.DeductionBatchEntry{SourceItem: sourceItem, QtyToDecrement: item.Qty})
		} else {
			return fmt.Errorf("%w: sku %s on source %s", ErrInsufficientStock, item.SKU, req.SourceCode)
		}
	}

	if len(batch) == 0 {
		return nil
	}

	if err := s.persister.PersistBatch(ctx, batch); err != nil {
		return fmt.Errorf("persist deduction batch: %w", err)
	}
	s.logger.Info("persisted deduction batch",
		zap.String("source_code", req.SourceCode),
		zap.String("sales_event", string(req.SalesEvent.Type)),
		zap.Int("entries", len(batch)),
	)

	productIDs, err := s.productIDsToClear(ctx, batch)
	if err != nil {
		return err
	}
	if len(productIDs) == 0 {
		return nil
	}

	cacheContext := domain.CacheContext{Tag: domain.ProductCacheTag, EntityIDs: productIDs}
	if err := s.invalidator.Invalidate(ctx, cacheContext.Tag, cacheContext.EntityIDs); err != nil {
		return fmt.Errorf("invalidate product cache: %w", err)
	}
	if err := s.events.Notify(ctx, CleanCacheEvent, cacheContext); err != nil {
		return fmt.Errorf("broadcast %s: %w", CleanCacheEvent, err)
	}
	s.logger.Info("invalidated product caches", zap.Strings("product_ids", productIDs))

	return nil
}

// productIDsToClear collects the products whose cached data went stale. Only
// entries that landed on OUT_OF_STOCK matter; SKUs with no bound product are
// skipped silently.
func (s *DeductionService) productIDsToClear(ctx context.Context, batch []domain.DeductionBatchEntry) ([]string, error) {
	var ids []string
	seen := make(map[string]struct{})
	for _, entry := range batch {
		if entry.SourceItem.Status != domain.StatusOutOfStock {
			continue
		}
		sku := entry.SourceItem.SKU
		if sku == "" {
			continue
		}
		productID, err := s.products.LookupProductIDForSKU(ctx, sku)
		if err != nil {
			return nil, fmt.Errorf("lookup product for sku %s: %w", sku, err)
		}
		if productID == "" {
			continue
		}
		if _, ok := seen[productID]; ok {
			continue
		}
		seen[productID] = struct{}{}
		ids = append(ids, productID)
	}
	return ids, nil
}
