package service

import (
	"context"
	"fmt"
	"testing"

	"eshop-assistant/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminOpsRequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)

	reply, err := env.admin.Execute(context.Background(), "add category Books", customer)
	require.NoError(t, err)
	assert.Equal(t, "❌ Admin access required for this operation.", reply)

	reply, err = env.admin.Execute(context.Background(), "add category Books", Identity{})
	require.NoError(t, err)
	assert.Equal(t, "❌ Admin access required for this operation.", reply)
}

func TestAdminOpsAddProductUnknownCategoryListsAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)

	_, err := env.catalog.AddCategory(ctx, "Electronics")
	require.NoError(t, err)
	_, err = env.catalog.AddCategory(ctx, "Books")
	require.NoError(t, err)

	reply, err := env.admin.Execute(ctx, "add product Kindle price 9000 stock 10 category Gadgets", admin)
	require.NoError(t, err)
	assert.Contains(t, reply, "❌ Category 'Gadgets' not found.")
	assert.Contains(t, reply, "Electronics")
	assert.Contains(t, reply, "Books")
}

func TestAdminOpsProductAddFormatHint(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)

	reply, err := env.admin.Execute(context.Background(), "add product please", admin)
	require.NoError(t, err)
	assert.Equal(t, "❌ Format: 'add product [name] price [amount] stock [qty] category [name]' or '[name],[price],[stock],[category]'", reply)
}

func TestAdminOpsUpdateProductPriceByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)
	product := env.seedCatalog(t)

	reply, err := env.admin.Execute(ctx, fmt.Sprintf("update product %d price 80000", product.ProductID), admin)
	require.NoError(t, err)
	assert.Equal(t, "✅ Product 'iPhone' price updated to ₹80000", reply)
	assert.Equal(t, "80000", mustProduct(t, env, product.ProductID).Price.String())
}

func TestAdminOpsCommaPriceUpdateByName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)
	product := env.seedCatalog(t)

	reply, err := env.admin.Execute(ctx, "iPhone,82000", admin)
	require.NoError(t, err)
	assert.Equal(t, "✅ Product 'iPhone' price updated to ₹82000", reply)
	assert.Equal(t, "82000", mustProduct(t, env, product.ProductID).Price.String())
}

func TestAdminOpsDeleteProductByName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)
	env.seedCatalog(t)

	reply, err := env.admin.Execute(ctx, "delete product iPhone", admin)
	require.NoError(t, err)
	assert.Equal(t, "✅ Product 'iPhone' deleted successfully!", reply)

	_, err = env.catalog.FindProduct(ctx, "iPhone")
	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAdminOpsDeleteCategoryWithProductsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)
	env.seedCatalog(t)

	reply, err := env.admin.Execute(ctx, "delete category Electronics", admin)
	require.NoError(t, err)
	assert.Equal(t, "❌ Cannot delete category 'Electronics' - it contains products.", reply)

	categories, err := env.catalog.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
}

func TestAdminOpsDeleteEmptyCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)

	_, err := env.catalog.AddCategory(ctx, "Books")
	require.NoError(t, err)

	reply, err := env.admin.Execute(ctx, "delete category Books", admin)
	require.NoError(t, err)
	assert.Equal(t, "✅ Category 'Books' deleted successfully!", reply)
}

func TestAdminOpsRenameCategoryCommaForm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)

	_, err := env.catalog.AddCategory(ctx, "Electronics")
	require.NoError(t, err)

	reply, err := env.admin.Execute(ctx, "Electronics,Gadgets", admin)
	require.NoError(t, err)
	assert.Equal(t, "✅ Category 'Electronics' updated to 'Gadgets'", reply)
}

func TestAdminOpsLowStockReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)
	env.seedCatalog(t)

	reply, err := env.admin.Execute(ctx, "low stock", admin)
	require.NoError(t, err)
	assert.Equal(t, "✅ All products have sufficient stock!", reply)

	_, err = env.catalog.AddProduct(ctx, "Cable", decimal.NewFromInt(199), 3, "Electronics")
	require.NoError(t, err)

	reply, err = env.admin.Execute(ctx, "low stock", admin)
	require.NoError(t, err)
	assert.Contains(t, reply, "⚠️ Low Stock Products:")
	assert.Contains(t, reply, "Cable")
	assert.Contains(t, reply, "3 left")
}

func TestAdminOpsOrderStatistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	_, err := env.orders.PlaceDirect(ctx, user.UserID,
		[]OrderLine{{Product: product, Quantity: 1}}, "delhi", model.PaymentCOD)
	require.NoError(t, err)

	reply, err := env.admin.Execute(ctx, "order statistics", admin)
	require.NoError(t, err)
	assert.Contains(t, reply, "📊 Order Statistics:")
	assert.Contains(t, reply, "• Total Orders: 1")
	assert.Contains(t, reply, "• Pending: 1")
}

func TestAdminOpsSalesReportCountsCompletedPayments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	// UPI payment completes immediately; COD stays pending
	_, err := env.orders.PlaceDirect(ctx, user.UserID,
		[]OrderLine{{Product: product, Quantity: 1}}, "delhi", model.PaymentUPI)
	require.NoError(t, err)
	_, err = env.orders.PlaceDirect(ctx, user.UserID,
		[]OrderLine{{Product: product, Quantity: 1}}, "delhi", model.PaymentCOD)
	require.NoError(t, err)

	reply, err := env.admin.Execute(ctx, "sales report", admin)
	require.NoError(t, err)
	assert.Contains(t, reply, "💰 Sales Report:")
	assert.Contains(t, reply, "• Total Revenue: ₹75000.00")
	assert.Contains(t, reply, "• Completed Orders: 1")
}

func TestAdminOpsUserStatistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)
	env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)

	reply, err := env.admin.Execute(ctx, "user statistics", admin)
	require.NoError(t, err)
	assert.Contains(t, reply, "👥 User Statistics:")
	assert.Contains(t, reply, "• Total Users: 2")
	assert.Contains(t, reply, "• Admins: 1")
	assert.Contains(t, reply, "• Customers: 1")
}

func TestAdminOpsUpdateOrderStatusInvalidStatus(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)

	reply, err := env.admin.Execute(context.Background(), "update order 1 status Teleported", admin)
	require.NoError(t, err)
	assert.Equal(t, "❌ Invalid status. Use: Pending, Shipped, Delivered, Cancelled", reply)
}

func TestAdminOpsFallbackHint(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "Root", "root@example.com", model.RoleAdmin)

	reply, err := env.admin.Execute(context.Background(), "do something useful", admin)
	require.NoError(t, err)
	assert.Contains(t, reply, "ℹ️ Available admin operations:")
}
