package service

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrProductNotFound = errors.New("product not found")
	ErrGroupNotFound   = errors.New("option group not found")
	ErrOptionNotFound  = errors.New("option not found")
	ErrVariantNotFound = errors.New("variant not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrDriverNotFound  = errors.New("driver not found")

	ErrNameRequired       = errors.New("name is required")
	ErrParentNotEligible  = errors.New("parent group is not marked as parent")
	ErrGroupCycle         = errors.New("group cannot be its own ancestor")
	ErrParentOtherProduct = errors.New("parent group belongs to another product")
	ErrPriceValueRequired = errors.New("price value is required and must be non-negative for this price type")
	ErrInvalidState       = errors.New("unknown order state")
	ErrQuantityInvalid    = errors.New("quantity must be > 0")
	ErrStockNegative      = errors.New("stock must be >= 0")
	ErrEmptyItems         = errors.New("empty items")
	ErrInactiveProduct    = errors.New("product is inactive")
	ErrInactiveDriver     = errors.New("driver is inactive")
	ErrDuplicateVariant   = errors.New("variant for this option combination already exists")

	// Каскадное удаление заблокировано строками заказов
	ErrVariantReferenced = errors.New("referenced in orders")
	ErrProductReferenced = errors.New("product is referenced in orders")

	ErrInsufficientStock = errors.New("insufficient stock")

	ErrOrderCodeExhausted = errors.New("order code collision retries exhausted")
)
