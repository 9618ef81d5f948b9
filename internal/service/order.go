package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"eshop-assistant/internal/client"
	"eshop-assistant/internal/model"
	"eshop-assistant/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderLine is one product/quantity pair for a direct (cart-less) order.
type OrderLine struct {
	Product  *model.Product
	Quantity int
}

// OrderDetail bundles an order with its lines and payment for read paths.
type OrderDetail struct {
	Order   *model.Order
	Items   []*model.OrderItem
	Payment *model.Payment
}

// OrderService owns checkout, cancellation and the status lifecycle. The
// same rules apply whether a request arrives via chat or REST: stock is
// checked and decremented at placement, cancellation restocks and refunds,
// and delivery requires a completed payment (cash on delivery is collected,
// and the payment completed, at the door).
type OrderService interface {
	PlaceFromCart(ctx context.Context, userID uint, address string, method model.PaymentMethod) (*model.Order, error)
	PlaceDirect(ctx context.Context, userID uint, lines []OrderLine, address string, method model.PaymentMethod) (*model.Order, error)
	Cancel(ctx context.Context, userID, orderID uint, isAdmin bool) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, to model.OrderStatus) (*model.Order, error)
	Detail(ctx context.Context, userID, orderID uint, isAdmin bool) (*OrderDetail, error)
	OrdersForUser(ctx context.Context, userID uint) ([]*model.Order, error)
	AllOrders(ctx context.Context) ([]*model.Order, error)
	PaymentForOrder(ctx context.Context, orderID uint) (*model.Payment, error)
	AllPayments(ctx context.Context) ([]*model.Payment, error)
}

type orderServiceImpl struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	userRepo    repository.UserRepository
	mailer      client.Mailer
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	mailer client.Mailer,
) OrderService {
	return &orderServiceImpl{
		db:          db,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		userRepo:    userRepo,
		mailer:      mailer,
	}
}

// PlaceFromCart turns the whole cart into one order: stock is re-checked per
// line, decremented, the cart is emptied and a payment record is written, all
// in a single transaction.
func (s *orderServiceImpl) PlaceFromCart(ctx context.Context, userID uint, address string, method model.PaymentMethod) (*model.Order, error) {
	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.FindByUserIDTx(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartEmpty
			}
			return fmt.Errorf("load cart: %w", err)
		}
		items, err := s.cartRepo.ItemsByCartIDTx(ctx, tx, cart.CartID)
		if err != nil {
			return fmt.Errorf("load cart items: %w", err)
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		lines := make([]OrderLine, 0, len(items))
		for _, item := range items {
			product, err := s.productRepo.FindByIDTx(ctx, tx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductNotFoundError{Ident: fmt.Sprint(item.ProductID)}
				}
				return fmt.Errorf("load product: %w", err)
			}
			lines = append(lines, OrderLine{Product: product, Quantity: item.Quantity})
		}

		order, err = s.placeLines(ctx, tx, userID, lines, address, method)
		if err != nil {
			return err
		}

		for _, item := range items {
			if err := s.cartRepo.DeleteItem(ctx, tx, item.CartItemID); err != nil {
				return fmt.Errorf("clear cart: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(userID, "Order confirmation",
		fmt.Sprintf("Your order #%d for %s has been placed successfully.", order.OrderID, order.TotalAmount.StringFixed(2)))
	return order, nil
}

// PlaceDirect places an order for explicit lines without touching the cart.
func (s *orderServiceImpl) PlaceDirect(ctx context.Context, userID uint, lines []OrderLine, address string, method model.PaymentMethod) (*model.Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("no order lines")
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.placeLines(ctx, tx, userID, lines, address, method)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notify(userID, "Order confirmation",
		fmt.Sprintf("Your order #%d for %s has been placed successfully.", order.OrderID, order.TotalAmount.StringFixed(2)))
	return order, nil
}

// placeLines runs inside the caller's transaction. Stock is re-read through
// the transaction so concurrent checkouts cannot oversell.
func (s *orderServiceImpl) placeLines(ctx context.Context, tx *gorm.DB, userID uint, lines []OrderLine, address string, method model.PaymentMethod) (*model.Order, error) {
	total := decimal.Zero
	for _, line := range lines {
		product, err := s.productRepo.FindByIDTx(ctx, tx, line.Product.ProductID)
		if err != nil {
			return nil, fmt.Errorf("load product: %w", err)
		}
		if product.StockQuantity < line.Quantity {
			return nil, &StockError{
				ProductName: product.Name,
				Available:   product.StockQuantity,
				Requested:   line.Quantity,
			}
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := &model.Order{
		UserID:          userID,
		OrderDate:       time.Now(),
		TotalAmount:     total,
		Status:          model.OrderPending,
		ShippingAddress: address,
		PaymentMethod:   method,
	}
	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	orderItems := make([]*model.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.productRepo.FindByIDTx(ctx, tx, line.Product.ProductID)
		if err != nil {
			return nil, fmt.Errorf("load product: %w", err)
		}
		orderItems = append(orderItems, &model.OrderItem{
			OrderID:   order.OrderID,
			ProductID: product.ProductID,
			Quantity:  line.Quantity,
			Price:     product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
		product.StockQuantity -= line.Quantity
		if err := s.productRepo.Update(ctx, tx, product); err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
	}
	if err := s.orderRepo.CreateItems(ctx, tx, orderItems); err != nil {
		return nil, fmt.Errorf("create order items: %w", err)
	}

	// UPI is captured immediately; cash on delivery stays pending until the
	// order is delivered.
	payment := &model.Payment{
		OrderID:     order.OrderID,
		Reference:   uuid.NewString(),
		Mode:        method,
		Amount:      total,
		PaymentDate: time.Now(),
		Status:      model.PaymentPending,
	}
	if method == model.PaymentUPI {
		payment.Status = model.PaymentCompleted
	}
	if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	return order, nil
}

// Cancel restocks every line and flips a completed payment to refund. It is
// rejected for delivered orders and is a no-op for already cancelled ones.
func (s *orderServiceImpl) Cancel(ctx context.Context, userID, orderID uint, isAdmin bool) (*model.Order, error) {
	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.orderRepo.FindByIDTx(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &OrderNotFoundError{OrderID: orderID}
			}
			return fmt.Errorf("load order: %w", err)
		}
		if !isAdmin && order.UserID != userID {
			return &OwnershipError{OrderID: orderID}
		}

		switch order.Status {
		case model.OrderDelivered:
			return &DeliveredError{OrderID: orderID}
		case model.OrderCancelled:
			return &AlreadyCancelledError{OrderID: orderID}
		}

		items, err := s.orderRepo.ItemsByOrderIDTx(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("load order items: %w", err)
		}
		for _, item := range items {
			product, err := s.productRepo.FindByIDTx(ctx, tx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // product removed after the order was placed
				}
				return fmt.Errorf("load product: %w", err)
			}
			product.StockQuantity += item.Quantity
			if err := s.productRepo.Update(ctx, tx, product); err != nil {
				return fmt.Errorf("restock product: %w", err)
			}
		}

		order.Status = model.OrderCancelled
		if err := s.orderRepo.Update(ctx, tx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		payment, err := s.paymentRepo.FindByOrderIDTx(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("load payment: %w", err)
		}
		if payment.Status == model.PaymentCompleted {
			payment.Status = model.PaymentRefund
			if err := s.paymentRepo.Update(ctx, tx, payment); err != nil {
				return fmt.Errorf("refund payment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(order.UserID, "Order cancelled",
		fmt.Sprintf("Your order #%d has been cancelled. Any completed payment will be refunded.", order.OrderID))
	return order, nil
}

// UpdateStatus enforces the lifecycle graph. Moving to Cancelled goes through
// the full cancellation path so restock and refund are never skipped.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID uint, to model.OrderStatus) (*model.Order, error) {
	if to == model.OrderCancelled {
		return s.Cancel(ctx, 0, orderID, true)
	}

	var (
		order   *model.Order
		changed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.orderRepo.FindByIDTx(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &OrderNotFoundError{OrderID: orderID}
			}
			return fmt.Errorf("load order: %w", err)
		}
		if order.Status == to {
			return nil
		}
		if !order.Status.CanTransition(to) {
			return &TransitionError{OrderID: orderID, From: order.Status, To: to}
		}

		if to == model.OrderDelivered {
			payment, err := s.paymentRepo.FindByOrderIDTx(ctx, tx, orderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &PaymentRequiredError{OrderID: orderID}
				}
				return fmt.Errorf("load payment: %w", err)
			}
			if payment.Status != model.PaymentCompleted {
				if payment.Mode != model.PaymentCOD {
					return &PaymentRequiredError{OrderID: orderID}
				}
				// cash collected at the door
				payment.Status = model.PaymentCompleted
				payment.PaymentDate = time.Now()
				if err := s.paymentRepo.Update(ctx, tx, payment); err != nil {
					return fmt.Errorf("complete payment: %w", err)
				}
			}
		}

		order.Status = to
		if err := s.orderRepo.Update(ctx, tx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	// a same-status update is a no-op: nothing to announce
	if changed {
		s.notify(order.UserID, fmt.Sprintf("Order #%d %s", order.OrderID, order.Status),
			fmt.Sprintf("Your order #%d is now %s.", order.OrderID, order.Status))
	}
	return order, nil
}

// Detail returns an order with its lines and payment. Customers can only read
// their own orders.
func (s *orderServiceImpl) Detail(ctx context.Context, userID, orderID uint, isAdmin bool) (*OrderDetail, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &OrderNotFoundError{OrderID: orderID}
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	if !isAdmin && order.UserID != userID {
		return nil, &OwnershipError{OrderID: orderID}
	}

	items, err := s.orderRepo.ItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	detail := &OrderDetail{Order: order, Items: items}
	payment, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	switch {
	case err == nil:
		detail.Payment = payment
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, fmt.Errorf("load payment: %w", err)
	}
	return detail, nil
}

func (s *orderServiceImpl) OrdersForUser(ctx context.Context, userID uint) ([]*model.Order, error) {
	return s.orderRepo.FindByUserID(ctx, userID)
}

func (s *orderServiceImpl) AllOrders(ctx context.Context) ([]*model.Order, error) {
	return s.orderRepo.FindAll(ctx)
}

func (s *orderServiceImpl) PaymentForOrder(ctx context.Context, orderID uint) (*model.Payment, error) {
	return s.paymentRepo.FindByOrderID(ctx, orderID)
}

func (s *orderServiceImpl) AllPayments(ctx context.Context) ([]*model.Payment, error) {
	return s.paymentRepo.FindAll(ctx)
}

// notify sends order mail off the request path. Failures are logged only;
// mail must never fail a checkout.
func (s *orderServiceImpl) notify(userID uint, subject, body string) {
	if s.mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			log.Printf("order mail: load user %d: %v", userID, err)
			return
		}
		if err := s.mailer.Send(user.Email, subject, body); err != nil {
			log.Printf("order mail: send to %s: %v", user.Email, err)
		}
	}()
}
