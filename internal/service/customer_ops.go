package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eshop-assistant/internal/model"

	"github.com/shopspring/decimal"
)

// CustomerOps routes customer chat commands. Handlers are forgiving about
// phrasing: they scan the message for catalog product names and stray
// numbers instead of demanding one canonical form.
type CustomerOps struct {
	catalog CatalogService
	cart    CartService
	orders  OrderService
}

func NewCustomerOps(catalog CatalogService, cart CartService, orders OrderService) *CustomerOps {
	return &CustomerOps{catalog: catalog, cart: cart, orders: orders}
}

func (c *CustomerOps) Execute(ctx context.Context, message string, ident Identity) (string, error) {
	lower := strings.ToLower(message)

	switch {
	case isSearchOp(lower):
		return c.search(ctx, message)
	case isAddToCartOp(lower):
		return c.addToCart(ctx, message, ident)
	case isViewCartOp(lower):
		return c.viewCart(ctx, ident)
	case isClearCartOp(lower):
		return c.clearCart(ctx, ident)
	case isCheckoutOp(lower):
		return c.checkout(ctx, message, ident)
	case isOrderStatusOp(lower):
		return c.orderStatus(ctx, message, ident)
	case isCancelOrderOp(lower):
		return c.cancelOrder(ctx, message, ident)
	case isPlaceOrderOp(lower):
		return c.placeOrder(ctx, message, ident)
	}

	return "ℹ️ I can help you search products, check order status, cancel orders, add/view cart items, place orders, or answer questions about our store.", nil
}

func isSearchOp(lower string) bool {
	return strings.Contains(lower, "search") || strings.Contains(lower, "find") || strings.Contains(lower, "show")
}

func isAddToCartOp(lower string) bool {
	return strings.Contains(lower, "add to cart") ||
		(strings.Contains(lower, "add") && strings.Contains(lower, "cart"))
}

func isViewCartOp(lower string) bool {
	return strings.Contains(lower, "view cart") || strings.Contains(lower, "show cart") || strings.Contains(lower, "my cart")
}

func isClearCartOp(lower string) bool {
	return strings.Contains(lower, "clear cart") || strings.Contains(lower, "empty cart")
}

func isCheckoutOp(lower string) bool {
	return strings.Contains(lower, "checkout") ||
		(strings.Contains(lower, "order") && strings.Contains(lower, "cart"))
}

func isOrderStatusOp(lower string) bool {
	return strings.Contains(lower, "order status") ||
		(strings.Contains(lower, "check") && strings.Contains(lower, "order"))
}

func isCancelOrderOp(lower string) bool {
	return strings.Contains(lower, "cancel order")
}

func isPlaceOrderOp(lower string) bool {
	return strings.Contains(lower, "order") &&
		(strings.Contains(lower, "address") || strings.Contains(lower, "payment"))
}

func (c *CustomerOps) search(ctx context.Context, message string) (string, error) {
	found, err := c.catalog.SearchProducts(ctx, message, 5)
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "❌ No products found matching your search.", nil
	}

	var b strings.Builder
	b.WriteString("🛍️ Found Products:")
	for _, p := range found {
		fmt.Fprintf(&b, "\n• %s - ₹%s (Stock: %d)", p.Name, p.Price.String(), p.StockQuantity)
	}
	return b.String(), nil
}

// addToCart works name-first: every catalog product mentioned in the message
// is added with the number token preceding it as quantity. When no names
// match it falls back to the canonical "add [qty] [product] to cart" form so
// id-based adds still work.
func (c *CustomerOps) addToCart(ctx context.Context, message string, ident Identity) (string, error) {
	if !ident.Authenticated {
		return "❌ Please login to add items to your cart.", nil
	}

	products, err := c.catalog.Products(ctx)
	if err != nil {
		return "", err
	}

	var matched []*model.Product
	for _, p := range products {
		if p.Name != "" && containsFold(message, p.Name) {
			matched = append(matched, p)
		}
	}

	if len(matched) == 0 {
		cmd, ok := parseAddToCart(message)
		if !ok {
			return "❌ No products found in your request.", nil
		}
		product, err := c.catalog.FindProduct(ctx, cmd.Product)
		if err != nil {
			var notFound *ProductNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Sprintf("❌ Product '%s' not found.", cmd.Product), nil
			}
			return "", err
		}
		return c.addOneToCart(ctx, ident.UserID, product, cmd.Quantity)
	}

	var replies []string
	for _, product := range matched {
		qty := extractQuantityForProduct(message, product.Name)
		reply, err := c.addOneToCart(ctx, ident.UserID, product, qty)
		if err != nil {
			return "", err
		}
		replies = append(replies, reply)
	}
	return strings.Join(replies, "\n"), nil
}

func (c *CustomerOps) addOneToCart(ctx context.Context, userID uint, product *model.Product, quantity int) (string, error) {
	item, merged, err := c.cart.AddItem(ctx, userID, product, quantity)
	if err != nil {
		var stock *StockError
		if errors.As(err, &stock) {
			return fmt.Sprintf("❌ Only %d units of '%s' available in stock.", stock.Available, stock.ProductName), nil
		}
		return "", err
	}
	if merged {
		return fmt.Sprintf("✅ Updated '%s' in your cart! Total quantity: %d, Price: ₹%s",
			product.Name, item.Quantity, item.TotalPrice.String()), nil
	}
	return fmt.Sprintf("✅ Added %dx '%s' to your cart! Price: ₹%s",
		quantity, product.Name, item.TotalPrice.String()), nil
}

func (c *CustomerOps) viewCart(ctx context.Context, ident Identity) (string, error) {
	if !ident.Authenticated {
		return "❌ Please login to view your cart.", nil
	}

	view, err := c.cart.View(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, ErrCartEmpty) {
			return "🛒 Your cart is empty. Start shopping to add items!", nil
		}
		return "", err
	}

	var b strings.Builder
	b.WriteString("🛒 Your Cart:")
	itemCount := 0
	for _, line := range view.Items {
		fmt.Fprintf(&b, "\n• %s x%d - ₹%s", line.ProductName, line.Quantity, line.TotalPrice.String())
		itemCount += line.Quantity
	}
	fmt.Fprintf(&b, "\n\n💰 Total: ₹%s (%d items)", view.GrandTotal.String(), itemCount)
	return b.String(), nil
}

func (c *CustomerOps) clearCart(ctx context.Context, ident Identity) (string, error) {
	if !ident.Authenticated {
		return "❌ Please login to clear your cart.", nil
	}

	if _, err := c.cart.Clear(ctx, ident.UserID); err != nil {
		if errors.Is(err, ErrCartEmpty) {
			return "🛒 Your cart is already empty.", nil
		}
		return "", err
	}
	return "✅ Your cart has been cleared successfully!", nil
}

func (c *CustomerOps) checkout(ctx context.Context, message string, ident Identity) (string, error) {
	if !ident.Authenticated {
		return "❌ Please login to checkout.", nil
	}

	address := extractAddress(message)
	method := detectPaymentMode(message)
	if cmd, ok := parseCheckout(message); ok {
		mode, valid := resolvePaymentMode(cmd.Mode)
		if !valid {
			return "❌ Payment mode must be 'COD' or 'ONLINE'", nil
		}
		address, method = cmd.Address, mode
	}

	// snapshot the lines before checkout empties the cart
	view, err := c.cart.View(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, ErrCartEmpty) {
			return "❌ Your cart is empty. Add items to cart first.", nil
		}
		return "", err
	}

	order, err := c.orders.PlaceFromCart(ctx, ident.UserID, address, method)
	if err != nil {
		if errors.Is(err, ErrCartEmpty) {
			return "❌ Your cart is empty. Add items to cart first.", nil
		}
		var stock *StockError
		if errors.As(err, &stock) {
			return fmt.Sprintf("❌ Insufficient stock for '%s'. Available: %d, Required: %d",
				stock.ProductName, stock.Available, stock.Requested), nil
		}
		return "", err
	}

	var lines []string
	for _, line := range view.Items {
		lines = append(lines, fmt.Sprintf("• %s x%d - ₹%s", line.ProductName, line.Quantity, line.TotalPrice.String()))
	}

	return fmt.Sprintf("✅ Order placed successfully from your cart!\n"+
		"📦 Order ID: #%d\n"+
		"🛍️ Items:\n%s\n"+
		"💰 Total: ₹%s\n"+
		"📍 Address: %s\n"+
		"💳 Payment: %s\n"+
		"📅 Expected delivery: 3-5 business days\n"+
		"🛒 Your cart has been cleared.",
		order.OrderID, strings.Join(lines, "\n"), order.TotalAmount.String(),
		order.ShippingAddress, paymentModeLabel(method)), nil
}

func (c *CustomerOps) orderStatus(ctx context.Context, message string, ident Identity) (string, error) {
	n, ok := firstNumber(message)
	if !ok {
		return "❌ Please provide order ID.", nil
	}
	if !ident.Authenticated {
		return "❌ Please login to check your order status.", nil
	}

	orderID := uint(n)
	detail, err := c.orders.Detail(ctx, ident.UserID, orderID, ident.IsAdmin())
	if err != nil {
		var notFound *OrderNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Sprintf("❌ Order #%d not found.", orderID), nil
		}
		var owner *OwnershipError
		if errors.As(err, &owner) {
			return "❌ This order doesn't belong to your account.", nil
		}
		return "", err
	}

	order := detail.Order
	return fmt.Sprintf("📦 Order #%d:\n"+
		"• Status: %s\n"+
		"• Total: ₹%s\n"+
		"• Placed: %s\n"+
		"• Payment: %s",
		order.OrderID, order.Status, order.TotalAmount.String(),
		order.OrderDate.Format("2006-01-02"), order.PaymentMethod), nil
}

func (c *CustomerOps) cancelOrder(ctx context.Context, message string, ident Identity) (string, error) {
	n, ok := firstNumber(message)
	if !ok {
		return "❌ Please provide order ID.", nil
	}
	if !ident.Authenticated {
		return "❌ Please login to cancel your order.", nil
	}

	orderID := uint(n)
	if _, err := c.orders.Cancel(ctx, ident.UserID, orderID, ident.IsAdmin()); err != nil {
		var notFound *OrderNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Sprintf("❌ Order #%d not found.", orderID), nil
		}
		var owner *OwnershipError
		if errors.As(err, &owner) {
			return "❌ This order doesn't belong to your account.", nil
		}
		var delivered *DeliveredError
		if errors.As(err, &delivered) {
			return fmt.Sprintf("❌ Order #%d has already been delivered and cannot be cancelled.", orderID), nil
		}
		var already *AlreadyCancelledError
		if errors.As(err, &already) {
			return fmt.Sprintf("ℹ️ Order #%d is already cancelled.", orderID), nil
		}
		return "", err
	}

	return fmt.Sprintf("✅ Order #%d has been cancelled successfully. Stock quantities have been restored. Refund will be processed within 3-5 business days.", orderID), nil
}

// placeOrder handles the canonical single and multi product forms first, then
// falls back to scanning the message for catalog product names.
func (c *CustomerOps) placeOrder(ctx context.Context, message string, ident Identity) (string, error) {
	if !ident.Authenticated {
		return "❌ Please login to place an order.", nil
	}

	// multi order first: its message also matches the single-product form
	if cmd, ok := parseMultiOrder(message); ok {
		mode, valid := resolvePaymentMode(cmd.Mode)
		if !valid {
			return "❌ Payment mode must be 'COD' or 'ONLINE'", nil
		}
		lines, reply, err := c.resolveMultiItems(ctx, cmd.ItemsText)
		if reply != "" || err != nil {
			return reply, err
		}
		return c.placeLines(ctx, ident.UserID, lines, cmd.Address, mode)
	}

	if cmd, ok := parsePlaceOrder(message); ok {
		mode, valid := resolvePaymentMode(cmd.Mode)
		if !valid {
			return "❌ Payment mode must be 'COD' or 'ONLINE'", nil
		}
		product, err := c.catalog.FindProduct(ctx, cmd.Product)
		if err != nil {
			var notFound *ProductNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Sprintf("❌ Product '%s' not found.", cmd.Product), nil
			}
			return "", err
		}
		return c.placeLines(ctx, ident.UserID,
			[]OrderLine{{Product: product, Quantity: cmd.Quantity}}, cmd.Address, mode)
	}

	address := extractAddress(message)
	method := detectPaymentMode(message)

	products, err := c.catalog.Products(ctx)
	if err != nil {
		return "", err
	}
	var lines []OrderLine
	for _, p := range products {
		if p.Name != "" && containsFold(message, p.Name) {
			lines = append(lines, OrderLine{Product: p, Quantity: extractQuantityForProduct(message, p.Name)})
		}
	}
	if len(lines) == 0 {
		return "❌ No products found in your order request.", nil
	}
	return c.placeLines(ctx, ident.UserID, lines, address, method)
}

func (c *CustomerOps) resolveMultiItems(ctx context.Context, itemsText string) ([]OrderLine, string, error) {
	var lines []OrderLine
	for _, part := range strings.Split(itemsText, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		qty, name, ok := parseQuantityProduct(part)
		if !ok {
			return nil, fmt.Sprintf("❌ Invalid format for '%s'. Use: '[quantity] [product name]'", part), nil
		}
		product, err := c.catalog.FindProduct(ctx, name)
		if err != nil {
			var notFound *ProductNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Sprintf("❌ Product '%s' not found. Parsed from: '%s'", name, part), nil
			}
			return nil, "", err
		}
		lines = append(lines, OrderLine{Product: product, Quantity: qty})
	}
	if len(lines) == 0 {
		return nil, fmt.Sprintf("❌ No products found in: '%s'", itemsText), nil
	}
	return lines, "", nil
}

func (c *CustomerOps) placeLines(ctx context.Context, userID uint, lines []OrderLine, address string, method model.PaymentMethod) (string, error) {
	order, err := c.orders.PlaceDirect(ctx, userID, lines, address, method)
	if err != nil {
		var stock *StockError
		if errors.As(err, &stock) {
			return fmt.Sprintf("❌ Only %d units of '%s' available in stock.", stock.Available, stock.ProductName), nil
		}
		return "", err
	}

	if len(lines) == 1 {
		line := lines[0]
		return fmt.Sprintf("✅ Order placed successfully!\n"+
			"📦 Order ID: #%d\n"+
			"🛍️ Product: %s x%d\n"+
			"💰 Total: ₹%s\n"+
			"📍 Address: %s\n"+
			"💳 Payment: %s\n"+
			"📅 Expected delivery: 3-5 business days",
			order.OrderID, line.Product.Name, line.Quantity, order.TotalAmount.String(),
			address, paymentModeLabel(method)), nil
	}

	var summary []string
	for _, line := range lines {
		lineTotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		summary = append(summary, fmt.Sprintf("• %s x%d - ₹%s", line.Product.Name, line.Quantity, lineTotal.String()))
	}
	return fmt.Sprintf("✅ Multi-product order placed successfully!\n"+
		"📦 Order ID: #%d\n"+
		"🛍️ Items:\n%s\n"+
		"💰 Total: ₹%s\n"+
		"📍 Address: %s\n"+
		"💳 Payment: %s\n"+
		"📅 Expected delivery: 3-5 business days",
		order.OrderID, strings.Join(summary, "\n"), order.TotalAmount.String(),
		address, paymentModeLabel(method)), nil
}

// paymentModeLabel renders the method the way customers typed it: UPI was
// requested as "online".
func paymentModeLabel(method model.PaymentMethod) string {
	if method == model.PaymentUPI {
		return "ONLINE"
	}
	return string(method)
}
