package service

import (
	"testing"

	"eshop-assistant/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductAddVerbose(t *testing.T) {
	cmd, ok := parseProductAdd("add product iPhone price 75000 stock 50 category Electronics")
	require.True(t, ok)
	assert.Equal(t, "iPhone", cmd.Name)
	assert.True(t, cmd.Price.Equal(decimal.NewFromInt(75000)))
	assert.Equal(t, 50, cmd.Stock)
	assert.Equal(t, "Electronics", cmd.Category)
}

func TestParseProductAddCompact(t *testing.T) {
	cmd, ok := parseProductAdd("iPhone,75000,50,Electronics")
	require.True(t, ok)
	assert.Equal(t, "iPhone", cmd.Name)
	assert.True(t, cmd.Price.Equal(decimal.NewFromInt(75000)))
	assert.Equal(t, 50, cmd.Stock)
	assert.Equal(t, "Electronics", cmd.Category)
}

func TestParseProductAddRejectsGarbage(t *testing.T) {
	_, ok := parseProductAdd("make me a product please")
	assert.False(t, ok)
}

func TestParsePriceAndStockUpdate(t *testing.T) {
	price, ok := parsePriceUpdate("update product 5 price 80000")
	require.True(t, ok)
	assert.Equal(t, uint(5), price.ProductID)
	assert.True(t, price.Price.Equal(decimal.NewFromInt(80000)))

	stock, ok := parseStockUpdate("update product 5 stock 30")
	require.True(t, ok)
	assert.Equal(t, uint(5), stock.ProductID)
	assert.Equal(t, 30, stock.Stock)
}

func TestParseCommaPriceUpdate(t *testing.T) {
	ident, price, ok := parseCommaPriceUpdate("iPhone,80000")
	require.True(t, ok)
	assert.Equal(t, "iPhone", ident)
	assert.True(t, price.Equal(decimal.NewFromInt(80000)))
}

func TestParseDeleteProduct(t *testing.T) {
	id, ok := parseDeleteProductID("delete product 7")
	require.True(t, ok)
	assert.Equal(t, uint(7), id)

	name, ok := parseDeleteProductName("delete 'iPhone'")
	require.True(t, ok)
	assert.Equal(t, "iPhone", name)
}

func TestParseCategoryCommands(t *testing.T) {
	name, ok := parseAddCategory("add category Books")
	require.True(t, ok)
	assert.Equal(t, "Books", name)

	id, newName, ok := parseUpdateCategory("update category 3 name Gadgets")
	require.True(t, ok)
	assert.Equal(t, uint(3), id)
	assert.Equal(t, "Gadgets", newName)

	catID, ok := parseDeleteCategoryID("delete category 3")
	require.True(t, ok)
	assert.Equal(t, uint(3), catID)

	catName, ok := parseDeleteCategoryName("delete category Electronics")
	require.True(t, ok)
	assert.Equal(t, "Electronics", catName)
}

func TestParseUpdateOrder(t *testing.T) {
	id, status, ok := parseUpdateOrder("update order 12 status Shipped")
	require.True(t, ok)
	assert.Equal(t, uint(12), id)
	assert.Equal(t, "Shipped", status)
}

func TestParseAddToCart(t *testing.T) {
	cmd, ok := parseAddToCart("add 2 iPhone to cart")
	require.True(t, ok)
	assert.Equal(t, 2, cmd.Quantity)
	assert.Equal(t, "iPhone", cmd.Product)

	cmd, ok = parseAddToCart("add iPhone to cart")
	require.True(t, ok)
	assert.Equal(t, 1, cmd.Quantity)
	assert.Equal(t, "iPhone", cmd.Product)
}

func TestParsePlaceOrder(t *testing.T) {
	cmd, ok := parsePlaceOrder("order 5 jeans, address lucknow, payment mode cod")
	require.True(t, ok)
	assert.Equal(t, 5, cmd.Quantity)
	assert.Equal(t, "jeans", cmd.Product)
	assert.Equal(t, "lucknow", cmd.Address)
	assert.Equal(t, "cod", cmd.Mode)
}

func TestParseCheckout(t *testing.T) {
	cmd, ok := parseCheckout("checkout, address lucknow, payment mode online")
	require.True(t, ok)
	assert.Equal(t, "lucknow", cmd.Address)
	assert.Equal(t, "online", cmd.Mode)

	cmd, ok = parseCheckout("order cart, address delhi, payment mode cod")
	require.True(t, ok)
	assert.Equal(t, "delhi", cmd.Address)
	assert.Equal(t, "cod", cmd.Mode)
}

func TestParseMultiOrder(t *testing.T) {
	cmd, ok := parseMultiOrder("multi order 2 jeans, 1 shirt, address delhi, payment mode upi")
	require.True(t, ok)
	assert.Equal(t, "2 jeans, 1 shirt", cmd.ItemsText)
	assert.Equal(t, "delhi", cmd.Address)
	assert.Equal(t, "upi", cmd.Mode)
}

func TestResolvePaymentMode(t *testing.T) {
	mode, ok := resolvePaymentMode("cod")
	require.True(t, ok)
	assert.Equal(t, model.PaymentCOD, mode)

	mode, ok = resolvePaymentMode("ONLINE")
	require.True(t, ok)
	assert.Equal(t, model.PaymentUPI, mode)

	mode, ok = resolvePaymentMode("upi")
	require.True(t, ok)
	assert.Equal(t, model.PaymentUPI, mode)

	_, ok = resolvePaymentMode("bitcoin")
	assert.False(t, ok)
}

func TestExtractQuantityForProduct(t *testing.T) {
	assert.Equal(t, 3, extractQuantityForProduct("add 3 iPhone to cart", "iPhone"))
	assert.Equal(t, 1, extractQuantityForProduct("add iPhone to cart", "iPhone"))
}

func TestExtractAddress(t *testing.T) {
	assert.Equal(t, "lucknow", extractAddress("checkout, address lucknow, payment mode cod"))
	assert.Equal(t, "Not specified", extractAddress("checkout with cod"))
}

func TestDetectPaymentMode(t *testing.T) {
	assert.Equal(t, model.PaymentUPI, detectPaymentMode("pay online please"))
	assert.Equal(t, model.PaymentUPI, detectPaymentMode("use upi"))
	assert.Equal(t, model.PaymentCOD, detectPaymentMode("cash on delivery"))
}
