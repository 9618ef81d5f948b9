package service

import (
	"context"
	"testing"
	"time"

	"eshop-assistant/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceFromCartCheckout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t) // stock 50

	_, _, err := env.cart.AddItem(ctx, user.UserID, product, 3)
	require.NoError(t, err)

	order, err := env.orders.PlaceFromCart(ctx, user.UserID, "lucknow", model.PaymentCOD)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(225000)))
	assert.Equal(t, "lucknow", order.ShippingAddress)

	// stock decremented, cart emptied, payment pending for COD
	assert.Equal(t, 47, mustProduct(t, env, product.ProductID).StockQuantity)
	_, err = env.cart.View(ctx, user.UserID)
	assert.ErrorIs(t, err, ErrCartEmpty)

	payment, err := env.orders.PaymentForOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, payment.Status)
	assert.Equal(t, model.PaymentCOD, payment.Mode)
	assert.True(t, payment.Amount.Equal(order.TotalAmount))
	assert.NotEmpty(t, payment.Reference)
}

func TestPlaceFromCartEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)

	_, err := env.orders.PlaceFromCart(context.Background(), user.UserID, "delhi", model.PaymentCOD)
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestPlaceDirectUPIPaymentCompletedImmediately(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	order, err := env.orders.PlaceDirect(ctx, user.UserID,
		[]OrderLine{{Product: product, Quantity: 2}}, "delhi", model.PaymentUPI)
	require.NoError(t, err)

	payment, err := env.orders.PaymentForOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, payment.Status)
	assert.Equal(t, model.PaymentUPI, payment.Mode)
}

func TestPlaceDirectInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t) // stock 50

	_, err := env.orders.PlaceDirect(ctx, user.UserID,
		[]OrderLine{{Product: product, Quantity: 51}}, "delhi", model.PaymentCOD)
	var stock *StockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, 50, stock.Available)

	// nothing was written
	assert.Equal(t, 50, mustProduct(t, env, product.ProductID).StockQuantity)
	orders, err := env.orders.OrdersForUser(ctx, user.UserID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCancelRestocksAndRefunds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	order, err := env.orders.PlaceDirect(ctx, user.UserID,
		[]OrderLine{{Product: product, Quantity: 5}}, "delhi", model.PaymentUPI)
	require.NoError(t, err)
	assert.Equal(t, 45, mustProduct(t, env, product.ProductID).StockQuantity)

	cancelled, err := env.orders.Cancel(ctx, user.UserID, order.OrderID, false)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)
	assert.Equal(t, 50, mustProduct(t, env, product.ProductID).StockQuantity)

	payment, err := env.orders.PaymentForOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRefund, payment.Status)
}

func TestCancelAgainIsInformationalNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	order, err := env.orders.PlaceDirect(ctx, user.UserID,
		[]OrderLine{{Product: product, Quantity: 5}}, "delhi", model.PaymentCOD)
	require.NoError(t, err)

	_, err = env.orders.Cancel(ctx, user.UserID, order.OrderID, false)
	require.NoError(t, err)
	stockAfterFirst := mustProduct(t, env, product.ProductID).StockQuantity

	_, err = env.orders.Cancel(ctx, user.UserID, order.OrderID, false)
	var already *AlreadyCancelledError
	require.ErrorAs(t, err, &already)

	// no double restock
	assert.Equal(t, stockAfterFirst, mustProduct(t, env, product.ProductID).StockQuantity)
}

func TestCancelDeliveredOrderRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	order, err := env.orders.PlaceDirect(ctx, user.UserID,
		[]OrderLine{{Product: product, Quantity: 1}}, "delhi", model.PaymentCOD)
	require.NoError(t, err)

	_, err = env.orders.UpdateStatus(ctx, order.OrderID, model.OrderShipped)
	require.NoError(t, err)
	_, err = env.orders.UpdateStatus(ctx, order.OrderID, model.OrderDelivered)
	require.NoError(t, err)

	_, err = env.orders.Cancel(ctx, user.UserID, order.OrderID, false)
	var delivered *DeliveredError
	require.ErrorAs(t, err, &delivered)

	// stock untouched by the rejected cancel
	assert.Equal(t, 49, mustProduct(t, env, product.ProductID).StockQuantity)
}

func TestCancelOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "Owner", "owner@example.com", model.RoleCustomer)
	other := env.seedUser(t, "Other", "other@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	order, err := env.orders.PlaceDirect(ctx, owner.UserID,
		[]OrderLine{{Product: product, Quantity: 1}}, "delhi", model.PaymentCOD)
	require.NoError(t, err)

	_, err = env.orders.Cancel(ctx, other.UserID, order.OrderID, false)
	var ownership *OwnershipError
	require.ErrorAs(t, err, &ownership)

	// an admin may cancel on behalf of the customer
	_, err = env.orders.Cancel(ctx, 0, order.OrderID, true)
	assert.NoError(t, err)
}

func TestUpdateStatusTransitionGraph(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	order, err := env.orders.PlaceDirect(ctx, user.UserID,
		[]OrderLine{{Product: product, Quantity: 1}}, "delhi", model.PaymentUPI)
	require.NoError(t, err)

	// Pending cannot jump straight to Delivered
	_, err = env.orders.UpdateStatus(ctx, order.OrderID, model.OrderDelivered)
	var transition *TransitionError
	require.ErrorAs(t, err, &transition)

	updated, err := env.orders.UpdateStatus(ctx, order.OrderID, model.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, updated.Status)

	updated, err = env.orders.UpdateStatus(ctx, order.OrderID, model.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, model.OrderDelivered, updated.Status)

	// Delivered is terminal
	_, err = env.orders.UpdateStatus(ctx, order.OrderID, model.OrderShipped)
	require.ErrorAs(t, err, &transition)
}

func TestUpdateStatusSameStatusSkipsNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	order, err := env.orders.PlaceDirect(ctx, user.UserID,
		[]OrderLine{{Product: product, Quantity: 1}}, "delhi", model.PaymentCOD)
	require.NoError(t, err)

	// same-status update is a no-op and must not announce anything
	updated, err := env.orders.UpdateStatus(ctx, order.OrderID, model.OrderPending)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, updated.Status)

	_, err = env.orders.UpdateStatus(ctx, order.OrderID, model.OrderShipped)
	require.NoError(t, err)

	// confirmation mail plus the Shipped mail, nothing for the no-op
	require.Eventually(t, func() bool {
		return len(env.mailer.messages()) == 2
	}, time.Second, 10*time.Millisecond)
	for _, msg := range env.mailer.messages() {
		assert.NotContains(t, msg, string(model.OrderPending))
	}
}

func TestUpdateStatusDeliveredCompletesCODPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	order, err := env.orders.PlaceDirect(ctx, user.UserID,
		[]OrderLine{{Product: product, Quantity: 1}}, "delhi", model.PaymentCOD)
	require.NoError(t, err)

	_, err = env.orders.UpdateStatus(ctx, order.OrderID, model.OrderShipped)
	require.NoError(t, err)
	_, err = env.orders.UpdateStatus(ctx, order.OrderID, model.OrderDelivered)
	require.NoError(t, err)

	payment, err := env.orders.PaymentForOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, payment.Status)
}

func TestDetailOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t, "Owner", "owner@example.com", model.RoleCustomer)
	other := env.seedUser(t, "Other", "other@example.com", model.RoleCustomer)
	product := env.seedCatalog(t)

	order, err := env.orders.PlaceDirect(ctx, owner.UserID,
		[]OrderLine{{Product: product, Quantity: 2}}, "delhi", model.PaymentCOD)
	require.NoError(t, err)

	detail, err := env.orders.Detail(ctx, owner.UserID, order.OrderID, false)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, 2, detail.Items[0].Quantity)
	// line price is the extended total, not the unit price
	assert.True(t, detail.Items[0].Price.Equal(decimal.NewFromInt(150000)))
	require.NotNil(t, detail.Payment)

	_, err = env.orders.Detail(ctx, other.UserID, order.OrderID, false)
	var ownership *OwnershipError
	require.ErrorAs(t, err, &ownership)

	// admin read bypasses ownership
	_, err = env.orders.Detail(ctx, 0, order.OrderID, true)
	assert.NoError(t, err)
}

func TestDetailUnknownOrder(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Cust", "cust@example.com", model.RoleCustomer)

	_, err := env.orders.Detail(context.Background(), user.UserID, 999, false)
	var notFound *OrderNotFoundError
	require.ErrorAs(t, err, &notFound)
}
