package domain

type StockStatus int

const (
	StatusOutOfStock StockStatus = 0
	StatusInStock    StockStatus = 1
)

// SourceItem is the quantity and status of one SKU at one stock source. It is
// fetched fresh per request and mutated at most once before persistence.
type SourceItem struct {
	SourceCode string
	SKU        string
	Quantity   float64
	Status     StockStatus
}

// DeriveStatus recomputes a source item's stock status after a quantity
// change. The comparison against MinQty is strict equality: a quantity that
// already fell below the threshold stays IN_STOCK until it lands exactly on
// it.
func DeriveStatus(cfg StockItemConfiguration, item *SourceItem) StockStatus {
	if item.Quantity == cfg.MinQty && !cfg.Backorders {
		return StatusOutOfStock
	}
	return StatusInStock
}
