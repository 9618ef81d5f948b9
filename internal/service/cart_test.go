package service

import (
	"context"
	"testing"

	"eshop-assistant/internal/dto"
	"eshop-assistant/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddItemCreatesThenMerges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	item, merged, err := env.cart.AddItem(ctx, user.UserID, product, 2)
	require.NoError(t, err)
	assert.False(t, merged)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(150000)))

	item, merged, err = env.cart.AddItem(ctx, user.UserID, product, 3)
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, 5, item.Quantity)
	assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(375000)))

	view, err := env.cart.View(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "iPhone", view.Items[0].ProductName)
}

func TestCartAddItemStockCheckCountsCartQuantity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t) // stock 50

	_, _, err := env.cart.AddItem(ctx, user.UserID, product, 40)
	require.NoError(t, err)

	_, _, err = env.cart.AddItem(ctx, user.UserID, product, 20)
	var stock *StockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, 50, stock.Available)
	assert.Equal(t, 60, stock.Requested)
}

func TestCartClear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	_, _, err := env.cart.AddItem(ctx, user.UserID, product, 2)
	require.NoError(t, err)

	removed, err := env.cart.Clear(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = env.cart.View(ctx, user.UserID)
	assert.ErrorIs(t, err, ErrCartEmpty)

	_, err = env.cart.Clear(ctx, user.UserID)
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCartMergeGuestCartCollapsesDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	_, _, err := env.cart.AddItem(ctx, user.UserID, product, 2)
	require.NoError(t, err)

	err = env.cart.MergeGuestCart(ctx, user.UserID, []dto.MergeCartItem{
		{ProductID: product.ProductID, Quantity: 3},
	})
	require.NoError(t, err)

	view, err := env.cart.View(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.True(t, view.GrandTotal.Equal(decimal.NewFromInt(375000)))
}

func TestCartAddItemCollapsesDuplicateRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	// two rows for the same product, as racing adds would leave behind
	cart := &model.Cart{UserID: user.UserID}
	require.NoError(t, env.db.Create(cart).Error)
	require.NoError(t, env.db.Create(&model.CartItem{
		CartID: cart.CartID, ProductID: product.ProductID,
		Quantity: 2, TotalPrice: decimal.NewFromInt(150000),
	}).Error)
	require.NoError(t, env.db.Create(&model.CartItem{
		CartID: cart.CartID, ProductID: product.ProductID,
		Quantity: 3, TotalPrice: decimal.NewFromInt(225000),
	}).Error)

	item, merged, err := env.cart.AddItem(ctx, user.UserID, product, 1)
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, 6, item.Quantity)
	assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(450000)))

	view, err := env.cart.View(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 6, view.Items[0].Quantity)
}

func TestCartMergeSweepCollapsesUntouchedDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	cart := &model.Cart{UserID: user.UserID}
	require.NoError(t, env.db.Create(cart).Error)
	require.NoError(t, env.db.Create(&model.CartItem{
		CartID: cart.CartID, ProductID: product.ProductID,
		Quantity: 1, TotalPrice: decimal.NewFromInt(75000),
	}).Error)
	require.NoError(t, env.db.Create(&model.CartItem{
		CartID: cart.CartID, ProductID: product.ProductID,
		Quantity: 4, TotalPrice: decimal.NewFromInt(300000),
	}).Error)

	// the guest cart never mentions the product, so only the sweep dedups it
	require.NoError(t, env.cart.MergeGuestCart(ctx, user.UserID, nil))

	view, err := env.cart.View(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.True(t, view.GrandTotal.Equal(decimal.NewFromInt(375000)))
}

func TestCartMergeGuestCartSkipsUnknownProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	err := env.cart.MergeGuestCart(ctx, user.UserID, []dto.MergeCartItem{
		{ProductID: product.ProductID, Quantity: 1},
		{ProductID: 9999, Quantity: 4},
	})
	require.NoError(t, err)

	view, err := env.cart.View(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, product.ProductID, view.Items[0].ProductID)
}

func TestCartRemoveItemEnforcesOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "Owner", "owner@example.com", model.RoleCustomer)
	other := env.seedUser(t, "Other", "other@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	item, _, err := env.cart.AddItem(ctx, owner.UserID, product, 1)
	require.NoError(t, err)

	err = env.cart.RemoveItem(ctx, other.UserID, item.CartItemID)
	assert.Error(t, err)

	err = env.cart.RemoveItem(ctx, owner.UserID, item.CartItemID)
	assert.NoError(t, err)
}
