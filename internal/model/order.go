package model

import (
	"errors"
	"fmt"
	"math"
)

// LineRequest is one requested order line as submitted by the client.
type LineRequest struct {
	MenuItemID uint64 `json:"menu_item_id"`
	Quantity   uint32 `json:"quantity"`
}

// PricedItem is the menu data needed to price a line: the item's current
// price and whether it can be ordered right now.
type PricedItem struct {
	ID         uint64
	Name       string
	PriceCents uint32
	Available  bool
}

// OrderLine is a priced line item.  UnitPriceCents is snapshotted from
// the menu at pricing time so later menu edits leave historical orders
// untouched.
type OrderLine struct {
	MenuItemID     uint64
	Quantity       uint32
	UnitPriceCents uint32
	SubtotalCents  uint32
}

// ErrEmptyOrder is returned when no order lines were requested.
var ErrEmptyOrder = errors.New("order must contain at least one item")

// MaxLineQuantity bounds a single order line.  Larger quantities are
// rejected as invalid rather than clamped.
const MaxLineQuantity = 100

// PriceOrder turns line requests into priced order lines against the
// given menu snapshot and returns them with the order total.  A request
// referencing a missing or unavailable item fails the whole order.  A
// zero quantity defaults to one, mirroring the storefront behaviour,
// and quantities above MaxLineQuantity are rejected.
func PriceOrder(requests []LineRequest, menu map[uint64]PricedItem) ([]OrderLine, uint32, error) {
	if len(requests) == 0 {
		return nil, 0, ErrEmptyOrder
	}
	lines := make([]OrderLine, 0, len(requests))
	var total uint64
	for _, req := range requests {
		item, ok := menu[req.MenuItemID]
		if !ok || !item.Available {
			return nil, 0, fmt.Errorf("menu item %d is not available", req.MenuItemID)
		}
		qty := req.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty > MaxLineQuantity {
			return nil, 0, fmt.Errorf("quantity for menu item %d exceeds the maximum of %d", req.MenuItemID, MaxLineQuantity)
		}
		// 64-bit arithmetic so oversized amounts surface as errors
		// instead of wrapping
		sub := uint64(item.PriceCents) * uint64(qty)
		if sub > math.MaxUint32 {
			return nil, 0, fmt.Errorf("subtotal for menu item %d is too large", req.MenuItemID)
		}
		lines = append(lines, OrderLine{
			MenuItemID:     req.MenuItemID,
			Quantity:       qty,
			UnitPriceCents: item.PriceCents,
			SubtotalCents:  uint32(sub),
		})
		total += sub
	}
	if total > math.MaxUint32 {
		return nil, 0, errors.New("order total is too large")
	}
	return lines, uint32(total), nil
}
