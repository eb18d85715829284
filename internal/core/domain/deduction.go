package domain

type SalesEventType string

const (
	SalesEventOrderPlaced       SalesEventType = "order_placed"
	SalesEventOrderCanceled     SalesEventType = "order_canceled"
	SalesEventShipmentCreated   SalesEventType = "shipment_created"
	SalesEventCreditmemoCreated SalesEventType = "creditmemo_created"
)

type SalesEvent struct {
	Type     SalesEventType
	ObjectID string
}

type SalesChannel struct {
	Type string
	Code string
}

type LineItem struct {
	SKU string
	Qty float64
}

// DeductionRequest is consumed once per Execute call and never reused.
type DeductionRequest struct {
	SourceCode   string
	SalesChannel SalesChannel
	SalesEvent   SalesEvent
	Items        []LineItem
}

type StockItemConfiguration struct {
	ManageStock bool
	MinQty      float64
	Backorders  bool
}

// DeductionBatchEntry pairs a mutated source item with the delta to apply
// during batch persistence.
type DeductionBatchEntry struct {
	SourceItem     *SourceItem
	QtyToDecrement float64
}

// ProductCacheTag is the cache tag under which product entities are stored.
const ProductCacheTag = "product"

// CacheContext carries the entity IDs affected by one deduction so downstream
// consumers can drop their cached representations.
type CacheContext struct {
	Tag       string
	EntityIDs []string
}
