package domain

import "errors"

var (
	ErrStockMappingNotFound  = errors.New("deduction: no stock mapped to sales channel")
	ErrConfigurationNotFound = errors.New("deduction: stock item configuration not found")
	ErrSourceItemNotFound    = errors.New("deduction: source item not found")
)
