package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eshop-assistant/internal/model"
	"eshop-assistant/internal/repository"

	"github.com/shopspring/decimal"
)

// AdminOps routes admin chat commands to the catalog and order services and
// renders every outcome, success or failure, as a prefixed reply string.
// Expected business failures never surface as errors from Execute; only
// infrastructure faults do.
type AdminOps struct {
	catalog     CatalogService
	orders      OrderService
	userRepo    repository.UserRepository
	paymentRepo repository.PaymentRepository
}

func NewAdminOps(catalog CatalogService, orders OrderService, userRepo repository.UserRepository, paymentRepo repository.PaymentRepository) *AdminOps {
	return &AdminOps{
		catalog:     catalog,
		orders:      orders,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
	}
}

// Execute requires the Admin role and tries product, category and order
// families in that order; first match wins.
func (a *AdminOps) Execute(ctx context.Context, message string, ident Identity) (string, error) {
	if !ident.IsAdmin() {
		return "❌ Admin access required for this operation.", nil
	}

	lower := strings.ToLower(message)

	if reply, handled, err := a.tryProductOps(ctx, lower, message); handled {
		return reply, err
	}
	if reply, handled, err := a.tryCategoryOps(ctx, lower, message); handled {
		return reply, err
	}
	if reply, handled, err := a.tryOrderOps(ctx, lower, message); handled {
		return reply, err
	}

	return "ℹ️ Available admin operations: add/update/delete products, manage categories, order management, sales reports, user statistics.", nil
}

func (a *AdminOps) tryProductOps(ctx context.Context, lower, message string) (string, bool, error) {
	switch {
	case strings.Contains(lower, "add product") || isCommaProductAdd(message):
		reply, err := a.addProduct(ctx, message)
		return reply, true, err
	case strings.Contains(lower, "update product") || isCommaPriceUpdate(message):
		reply, err := a.updateProduct(ctx, message)
		return reply, true, err
	case strings.Contains(lower, "delete product") ||
		(strings.HasPrefix(lower, "delete ") && !strings.Contains(lower, "category")):
		reply, err := a.deleteProduct(ctx, message)
		return reply, true, err
	case strings.Contains(lower, "low stock"):
		reply, err := a.lowStock(ctx)
		return reply, true, err
	}
	return "", false, nil
}

func (a *AdminOps) tryCategoryOps(ctx context.Context, lower, message string) (string, bool, error) {
	switch {
	case strings.Contains(lower, "add category"):
		reply, err := a.addCategory(ctx, message)
		return reply, true, err
	case strings.Contains(lower, "update category") || isCommaCategoryRename(message):
		reply, err := a.updateCategory(ctx, message)
		return reply, true, err
	case strings.Contains(lower, "delete category"):
		reply, err := a.deleteCategory(ctx, message)
		return reply, true, err
	case strings.Contains(lower, "list categories"):
		reply, err := a.listCategories(ctx)
		return reply, true, err
	}
	return "", false, nil
}

func (a *AdminOps) tryOrderOps(ctx context.Context, lower, message string) (string, bool, error) {
	switch {
	case strings.Contains(lower, "pending orders"):
		reply, err := a.pendingOrders(ctx)
		return reply, true, err
	case strings.Contains(lower, "order statistics"):
		reply, err := a.orderStatistics(ctx)
		return reply, true, err
	case strings.Contains(lower, "update order"):
		reply, err := a.updateOrder(ctx, message)
		return reply, true, err
	case strings.Contains(lower, "sales report") || strings.Contains(lower, "revenue"):
		reply, err := a.salesReport(ctx)
		return reply, true, err
	case strings.Contains(lower, "user statistics"):
		reply, err := a.userStatistics(ctx)
		return reply, true, err
	case strings.Contains(lower, "inventory report"):
		reply, err := a.inventoryReport(ctx)
		return reply, true, err
	}
	return "", false, nil
}

func (a *AdminOps) addProduct(ctx context.Context, message string) (string, error) {
	cmd, ok := parseProductAdd(message)
	if !ok {
		return "❌ Format: 'add product [name] price [amount] stock [qty] category [name]' or '[name],[price],[stock],[category]'", nil
	}

	product, err := a.catalog.AddProduct(ctx, cmd.Name, cmd.Price, cmd.Stock, cmd.Category)
	if err != nil {
		var notFound *CategoryNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Sprintf("❌ Category '%s' not found. Available: %s",
				notFound.Ident, strings.Join(notFound.Available, ", ")), nil
		}
		return "", err
	}
	return fmt.Sprintf("✅ Product '%s' added successfully! ID: %d", product.Name, product.ProductID), nil
}

func (a *AdminOps) updateProduct(ctx context.Context, message string) (string, error) {
	if strings.Contains(message, ",") {
		ident, price, ok := parseCommaPriceUpdate(message)
		if !ok {
			return "❌ Invalid format.", nil
		}
		product, err := a.catalog.UpdateProductPrice(ctx, ident, price)
		if err != nil {
			var notFound *ProductNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Sprintf("❌ Product '%s' not found.", ident), nil
			}
			return "", err
		}
		return fmt.Sprintf("✅ Product '%s' price updated to ₹%s", product.Name, price.String()), nil
	}

	if cmd, ok := parsePriceUpdate(message); ok {
		product, err := a.catalog.UpdateProductPrice(ctx, fmt.Sprint(cmd.ProductID), cmd.Price)
		if err != nil {
			var notFound *ProductNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Sprintf("❌ Product with ID %d not found.", cmd.ProductID), nil
			}
			return "", err
		}
		return fmt.Sprintf("✅ Product '%s' price updated to ₹%s", product.Name, cmd.Price.String()), nil
	}

	if cmd, ok := parseStockUpdate(message); ok {
		product, err := a.catalog.UpdateProductStock(ctx, fmt.Sprint(cmd.ProductID), cmd.Stock)
		if err != nil {
			var notFound *ProductNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Sprintf("❌ Product with ID %d not found.", cmd.ProductID), nil
			}
			return "", err
		}
		return fmt.Sprintf("✅ Product '%s' stock updated to %d", product.Name, cmd.Stock), nil
	}

	return "❌ Format: 'update product [id] price [amount]', 'update product [id] stock [qty]', or '[id/name],[newPrice]'", nil
}

func (a *AdminOps) deleteProduct(ctx context.Context, message string) (string, error) {
	if id, ok := parseDeleteProductID(message); ok {
		product, err := a.catalog.DeleteProductByID(ctx, id)
		if err != nil {
			var notFound *ProductNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Sprintf("❌ Product with ID %d not found.", id), nil
			}
			return "", err
		}
		return fmt.Sprintf("✅ Product '%s' deleted successfully!", product.Name), nil
	}

	if name, ok := parseDeleteProductName(message); ok {
		product, err := a.catalog.DeleteProductByName(ctx, name)
		if err != nil {
			var notFound *ProductNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Sprintf("❌ Product '%s' not found.", name), nil
			}
			return "", err
		}
		return fmt.Sprintf("✅ Product '%s' deleted successfully!", product.Name), nil
	}

	return "❌ Format: 'delete [id]' or 'delete [name]'", nil
}

func (a *AdminOps) lowStock(ctx context.Context) (string, error) {
	low, err := a.catalog.LowStock(ctx)
	if err != nil {
		return "", err
	}
	if len(low) == 0 {
		return "✅ All products have sufficient stock!", nil
	}

	var b strings.Builder
	b.WriteString("⚠️ Low Stock Products:")
	for _, p := range low {
		fmt.Fprintf(&b, "\n• %s (ID: %d): %d left", p.Name, p.ProductID, p.StockQuantity)
	}
	return b.String(), nil
}

func (a *AdminOps) addCategory(ctx context.Context, message string) (string, error) {
	name, ok := parseAddCategory(message)
	if !ok {
		return "❌ Format: 'add category [name]'", nil
	}

	category, err := a.catalog.AddCategory(ctx, name)
	if err != nil {
		var exists *CategoryExistsError
		if errors.As(err, &exists) {
			return fmt.Sprintf("❌ Category '%s' already exists.", name), nil
		}
		return "", err
	}
	return fmt.Sprintf("✅ Category '%s' created successfully! ID: %d", category.CategoryName, category.CategoryID), nil
}

func (a *AdminOps) updateCategory(ctx context.Context, message string) (string, error) {
	lower := strings.ToLower(message)
	if strings.Contains(message, ",") && !strings.Contains(lower, "update category") {
		ident, newName, ok := parseCommaRename(message)
		if ok {
			oldName := ident
			var category *model.Category
			var err error
			if id, numeric := parseUint(ident); numeric {
				if existing, findErr := a.findCategoryByID(ctx, id); findErr == nil {
					oldName = existing.CategoryName
					category, err = a.catalog.RenameCategory(ctx, existing.CategoryName, newName)
				} else {
					return fmt.Sprintf("❌ Category '%s' not found.", ident), nil
				}
			} else {
				category, err = a.catalog.RenameCategory(ctx, ident, newName)
			}
			if err != nil {
				var notFound *CategoryNotFoundError
				if errors.As(err, &notFound) {
					return fmt.Sprintf("❌ Category '%s' not found.", ident), nil
				}
				var exists *CategoryExistsError
				if errors.As(err, &exists) {
					return fmt.Sprintf("❌ Category '%s' already exists.", newName), nil
				}
				return "", err
			}
			return fmt.Sprintf("✅ Category '%s' updated to '%s'", oldName, category.CategoryName), nil
		}
	}

	id, newName, ok := parseUpdateCategory(message)
	if !ok {
		return "❌ Format: 'update category [id] name [new_name]' or '[id/oldName],[newName]'", nil
	}

	existing, err := a.findCategoryByID(ctx, id)
	if err != nil {
		return fmt.Sprintf("❌ Category with ID %d not found.", id), nil
	}
	oldName := existing.CategoryName
	category, err := a.catalog.RenameCategory(ctx, oldName, newName)
	if err != nil {
		var exists *CategoryExistsError
		if errors.As(err, &exists) {
			return fmt.Sprintf("❌ Category '%s' already exists.", newName), nil
		}
		return "", err
	}
	return fmt.Sprintf("✅ Category '%s' updated to '%s'", oldName, category.CategoryName), nil
}

func (a *AdminOps) findCategoryByID(ctx context.Context, id uint) (*model.Category, error) {
	categories, err := a.catalog.Categories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.CategoryID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("category %d not found", id)
}

func (a *AdminOps) deleteCategory(ctx context.Context, message string) (string, error) {
	if id, ok := parseDeleteCategoryID(message); ok {
		category, err := a.catalog.DeleteCategoryByID(ctx, id)
		if err != nil {
			var notFound *CategoryNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Sprintf("❌ Category with ID %d not found.", id), nil
			}
			var inUse *CategoryInUseError
			if errors.As(err, &inUse) {
				return fmt.Sprintf("❌ Cannot delete category '%s' - it contains products.", inUse.Name), nil
			}
			return "", err
		}
		return fmt.Sprintf("✅ Category '%s' deleted successfully!", category.CategoryName), nil
	}

	if name, ok := parseDeleteCategoryName(message); ok {
		category, err := a.catalog.DeleteCategoryByName(ctx, name)
		if err != nil {
			var notFound *CategoryNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Sprintf("❌ Category '%s' not found.", name), nil
			}
			var inUse *CategoryInUseError
			if errors.As(err, &inUse) {
				return fmt.Sprintf("❌ Cannot delete category '%s' - it contains products.", inUse.Name), nil
			}
			return "", err
		}
		return fmt.Sprintf("✅ Category '%s' deleted successfully!", category.CategoryName), nil
	}

	return "❌ Format: 'delete category [id]' or 'delete category [name]'", nil
}

func (a *AdminOps) listCategories(ctx context.Context) (string, error) {
	categories, err := a.catalog.Categories(ctx)
	if err != nil {
		return "", err
	}
	if len(categories) == 0 {
		return "📂 No categories found.", nil
	}

	var b strings.Builder
	b.WriteString("📂 Categories:")
	for _, c := range categories {
		fmt.Fprintf(&b, "\n• ID: %d - %s", c.CategoryID, c.CategoryName)
	}
	return b.String(), nil
}

func (a *AdminOps) pendingOrders(ctx context.Context) (string, error) {
	orders, err := a.orders.AllOrders(ctx)
	if err != nil {
		return "", err
	}

	var pending []*model.Order
	for _, o := range orders {
		if o.Status == model.OrderPending {
			pending = append(pending, o)
		}
	}
	if len(pending) == 0 {
		return "✅ No pending orders!", nil
	}

	var b strings.Builder
	b.WriteString("📋 Pending Orders:")
	for _, o := range pending {
		fmt.Fprintf(&b, "\n• Order #%d: ₹%s - %s", o.OrderID, o.TotalAmount.String(), o.OrderDate.Format("2006-01-02"))
	}
	return b.String(), nil
}

func (a *AdminOps) orderStatistics(ctx context.Context) (string, error) {
	orders, err := a.orders.AllOrders(ctx)
	if err != nil {
		return "", err
	}

	today := time.Now().Truncate(24 * time.Hour)
	var todayCount, pending, shipped, delivered int
	for _, o := range orders {
		if o.OrderDate.Truncate(24 * time.Hour).Equal(today) {
			todayCount++
		}
		switch o.Status {
		case model.OrderPending:
			pending++
		case model.OrderShipped:
			shipped++
		case model.OrderDelivered:
			delivered++
		}
	}

	return fmt.Sprintf("📊 Order Statistics:\n"+
		"• Total Orders: %d\n"+
		"• Today's Orders: %d\n"+
		"• Pending: %d\n"+
		"• Shipped: %d\n"+
		"• Delivered: %d",
		len(orders), todayCount, pending, shipped, delivered), nil
}

func (a *AdminOps) updateOrder(ctx context.Context, message string) (string, error) {
	orderID, statusStr, ok := parseUpdateOrder(message)
	if !ok {
		return "❌ Format: 'update order [id] status [Pending/Shipped/Delivered]'", nil
	}

	status, ok := model.ParseOrderStatus(statusStr)
	if !ok {
		return "❌ Invalid status. Use: Pending, Shipped, Delivered, Cancelled", nil
	}

	order, err := a.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		var notFound *OrderNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Sprintf("❌ Order #%d not found.", orderID), nil
		}
		var delivered *DeliveredError
		if errors.As(err, &delivered) {
			return fmt.Sprintf("❌ Order #%d has already been delivered and cannot be cancelled.", orderID), nil
		}
		var already *AlreadyCancelledError
		if errors.As(err, &already) {
			return fmt.Sprintf("ℹ️ Order #%d is already cancelled.", orderID), nil
		}
		var transition *TransitionError
		if errors.As(err, &transition) {
			return fmt.Sprintf("❌ Order #%d cannot change from %s to %s.", orderID, transition.From, transition.To), nil
		}
		var unpaid *PaymentRequiredError
		if errors.As(err, &unpaid) {
			return fmt.Sprintf("❌ Order #%d cannot be delivered until payment is completed.", orderID), nil
		}
		return "", err
	}
	return fmt.Sprintf("✅ Order #%d status updated to %s", orderID, order.Status), nil
}

func (a *AdminOps) salesReport(ctx context.Context) (string, error) {
	orders, err := a.orders.AllOrders(ctx)
	if err != nil {
		return "", err
	}
	payments, err := a.paymentRepo.FindAll(ctx)
	if err != nil {
		return "", err
	}

	totalRevenue := decimal.Zero
	completed := 0
	for _, p := range payments {
		if p.Status == model.PaymentCompleted {
			totalRevenue = totalRevenue.Add(p.Amount)
			completed++
		}
	}
	avgOrder := decimal.Zero
	if completed > 0 {
		avgOrder = totalRevenue.Div(decimal.NewFromInt(int64(completed)))
	}

	now := time.Now()
	monthOrders := 0
	for _, o := range orders {
		if o.OrderDate.Month() == now.Month() && o.OrderDate.Year() == now.Year() {
			monthOrders++
		}
	}

	return fmt.Sprintf("💰 Sales Report:\n"+
		"• Total Revenue: ₹%s\n"+
		"• Completed Orders: %d\n"+
		"• Average Order Value: ₹%s\n"+
		"• This Month Orders: %d",
		totalRevenue.StringFixed(2), completed, avgOrder.StringFixed(2), monthOrders), nil
}

func (a *AdminOps) userStatistics(ctx context.Context) (string, error) {
	users, err := a.userRepo.FindAll(ctx)
	if err != nil {
		return "", err
	}
	orders, err := a.orders.AllOrders(ctx)
	if err != nil {
		return "", err
	}

	var admins, customers int
	for _, u := range users {
		switch u.Role {
		case model.RoleAdmin:
			admins++
		case model.RoleCustomer:
			customers++
		}
	}
	active := make(map[uint]bool)
	for _, o := range orders {
		active[o.UserID] = true
	}

	return fmt.Sprintf("👥 User Statistics:\n"+
		"• Total Users: %d\n"+
		"• Admins: %d\n"+
		"• Customers: %d\n"+
		"• Active Users (with orders): %d",
		len(users), admins, customers, len(active)), nil
}

func (a *AdminOps) inventoryReport(ctx context.Context) (string, error) {
	products, err := a.catalog.Products(ctx)
	if err != nil {
		return "", err
	}

	totalValue := decimal.Zero
	var lowStock, outOfStock int
	for _, p := range products {
		totalValue = totalValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
		if p.StockQuantity < lowStockThreshold {
			lowStock++
		}
		if p.StockQuantity == 0 {
			outOfStock++
		}
	}

	return fmt.Sprintf("📦 Inventory Report:\n"+
		"• Total Products: %d\n"+
		"• Total Stock Value: ₹%s\n"+
		"• Low Stock (<10): %d\n"+
		"• Out of Stock: %d",
		len(products), totalValue.StringFixed(2), lowStock, outOfStock), nil
}
