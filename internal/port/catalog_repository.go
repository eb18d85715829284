package port

import "context"

type ProductResolver interface {
	// LookupProductIDForSKU returns the product bound to the SKU, or an empty
	// string when no product is known for it
	LookupProductIDForSKU(ctx context.Context, sku string) (string, error)
}
