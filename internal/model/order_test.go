package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuFixture() map[uint64]PricedItem {
	return map[uint64]PricedItem{
		3: {ID: 3, Name: "Beshbarmak", PriceCents: 1000, Available: true},
		5: {ID: 5, Name: "Kumis", PriceCents: 650, Available: true},
		9: {ID: 9, Name: "Off menu", PriceCents: 400, Available: false},
	}
}

func TestPriceOrderTotals(t *testing.T) {
	lines, total, err := PriceOrder([]LineRequest{
		{MenuItemID: 3, Quantity: 2},
		{MenuItemID: 5, Quantity: 1},
	}, menuFixture())
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, uint32(2650), total)
	assert.Equal(t, uint32(1000), lines[0].UnitPriceCents)
	assert.Equal(t, uint32(2000), lines[0].SubtotalCents)
	assert.Equal(t, uint32(650), lines[1].SubtotalCents)
}

func TestPriceOrderZeroQuantityDefaultsToOne(t *testing.T) {
	lines, total, err := PriceOrder([]LineRequest{{MenuItemID: 5, Quantity: 0}}, menuFixture())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, uint32(1), lines[0].Quantity)
	assert.Equal(t, uint32(650), total)
}

func TestPriceOrderRejectsUnknownItem(t *testing.T) {
	_, _, err := PriceOrder([]LineRequest{
		{MenuItemID: 3, Quantity: 1},
		{MenuItemID: 42, Quantity: 1},
	}, menuFixture())
	assert.EqualError(t, err, "menu item 42 is not available")
}

func TestPriceOrderRejectsUnavailableItem(t *testing.T) {
	_, _, err := PriceOrder([]LineRequest{{MenuItemID: 9, Quantity: 1}}, menuFixture())
	assert.EqualError(t, err, "menu item 9 is not available")
}

func TestPriceOrderRejectsOversizedQuantity(t *testing.T) {
	// a quantity past the uint32 wrap point for a 1000c item must be
	// rejected, not priced with a wrapped subtotal
	_, _, err := PriceOrder([]LineRequest{{MenuItemID: 3, Quantity: 4294968}}, menuFixture())
	assert.EqualError(t, err, "quantity for menu item 3 exceeds the maximum of 100")

	_, _, err = PriceOrder([]LineRequest{{MenuItemID: 3, Quantity: MaxLineQuantity + 1}}, menuFixture())
	assert.EqualError(t, err, "quantity for menu item 3 exceeds the maximum of 100")
}

func TestPriceOrderMaxQuantityDoesNotWrap(t *testing.T) {
	lines, total, err := PriceOrder([]LineRequest{{MenuItemID: 3, Quantity: MaxLineQuantity}}, menuFixture())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, uint32(100000), lines[0].SubtotalCents)
	assert.Equal(t, uint32(100000), total)
}

func TestPriceOrderRejectsOversizedAmounts(t *testing.T) {
	menu := map[uint64]PricedItem{
		1: {ID: 1, Name: "Banquet", PriceCents: 4294967295, Available: true},
	}

	// a single line past the uint32 range
	_, _, err := PriceOrder([]LineRequest{{MenuItemID: 1, Quantity: 2}}, menu)
	assert.EqualError(t, err, "subtotal for menu item 1 is too large")

	// lines that fit individually but whose sum does not
	_, _, err = PriceOrder([]LineRequest{
		{MenuItemID: 1, Quantity: 1},
		{MenuItemID: 1, Quantity: 1},
	}, menu)
	assert.EqualError(t, err, "order total is too large")
}

func TestPriceOrderRejectsEmptyOrder(t *testing.T) {
	_, _, err := PriceOrder(nil, menuFixture())
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestPriceOrderSnapshotIsolation(t *testing.T) {
	menu := menuFixture()
	lines, _, err := PriceOrder([]LineRequest{{MenuItemID: 3, Quantity: 1}}, menu)
	require.NoError(t, err)

	// a later menu price change must not affect already priced lines
	item := menu[3]
	item.PriceCents = 9999
	menu[3] = item
	assert.Equal(t, uint32(1000), lines[0].UnitPriceCents)
}
