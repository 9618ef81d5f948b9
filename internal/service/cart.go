package service

import (
	"context"
	"errors"
	"fmt"

	"eshop-assistant/internal/dto"
	"eshop-assistant/internal/model"
	"eshop-assistant/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartService owns the cart aggregate: add-with-merge, guest-cart merge,
// view and clear. Every multi-step mutation runs inside one transaction so
// the sequence appears atomic to callers. After any mutation a cart holds at
// most one row per product; duplicate rows left behind by racing adds are
// collapsed by summing their quantities.
type CartService interface {
	AddItem(ctx context.Context, userID uint, product *model.Product, quantity int) (*model.CartItem, bool, error)
	View(ctx context.Context, userID uint) (*dto.CartResponse, error)
	Clear(ctx context.Context, userID uint) (int, error)
	RemoveItem(ctx context.Context, userID, cartItemID uint) error
	MergeGuestCart(ctx context.Context, userID uint, items []dto.MergeCartItem) error
}

type cartServiceImpl struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(db *gorm.DB, cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddItem merges the quantity into an existing row for the product or inserts
// a new one. The stock check covers the quantity already in the cart. The
// second return value reports whether an existing row was updated.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID uint, product *model.Product, quantity int) (*model.CartItem, bool, error) {
	if quantity <= 0 {
		return nil, false, fmt.Errorf("quantity must be positive")
	}

	var (
		item   *model.CartItem
		merged bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.findOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		existing, err := s.collapseProductRows(ctx, tx, cart.CartID, product.ProductID)
		if err != nil {
			return err
		}

		inCart := 0
		if existing != nil {
			inCart = existing.Quantity
		}
		if product.StockQuantity < quantity+inCart {
			return &StockError{
				ProductName: product.Name,
				Available:   product.StockQuantity,
				Requested:   quantity + inCart,
			}
		}

		if existing != nil {
			existing.Quantity += quantity
			existing.TotalPrice = product.Price.Mul(decimal.NewFromInt(int64(existing.Quantity)))
			if err := s.cartRepo.UpdateItem(ctx, tx, existing); err != nil {
				return fmt.Errorf("update cart item: %w", err)
			}
			item, merged = existing, true
			return nil
		}

		item = &model.CartItem{
			CartID:     cart.CartID,
			ProductID:  product.ProductID,
			Quantity:   quantity,
			TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		}
		if err := s.cartRepo.CreateItem(ctx, tx, item); err != nil {
			return fmt.Errorf("create cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return item, merged, nil
}

// View resolves product names defensively: a referenced product that was
// deleted shows up as "Unknown Product" instead of failing the whole cart.
func (s *cartServiceImpl) View(ctx context.Context, userID uint) (*dto.CartResponse, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	items, err := s.cartRepo.ItemsByCartID(ctx, cart.CartID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	resp := &dto.CartResponse{CartID: cart.CartID, GrandTotal: decimal.Zero}
	for _, item := range items {
		line := dto.CartLine{
			CartItemID: item.CartItemID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
		}
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		switch {
		case err == nil:
			line.ProductName = product.Name
			line.UnitPrice = product.Price
		case errors.Is(err, gorm.ErrRecordNotFound):
			line.ProductName = "Unknown Product"
			line.UnitPrice = decimal.Zero
		default:
			return nil, fmt.Errorf("load cart product: %w", err)
		}
		resp.Items = append(resp.Items, line)
		resp.GrandTotal = resp.GrandTotal.Add(item.TotalPrice)
	}

	return resp, nil
}

// Clear removes every item row for the caller's cart and reports how many
// rows were removed.
func (s *cartServiceImpl) Clear(ctx context.Context, userID uint) (int, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCartEmpty
		}
		return 0, fmt.Errorf("load cart: %w", err)
	}

	removed := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, err := s.cartRepo.ItemsByCartIDTx(ctx, tx, cart.CartID)
		if err != nil {
			return fmt.Errorf("load cart items: %w", err)
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}
		for _, item := range items {
			if err := s.cartRepo.DeleteItem(ctx, tx, item.CartItemID); err != nil {
				return fmt.Errorf("delete cart item: %w", err)
			}
		}
		removed = len(items)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, cartItemID uint) error {
	item, err := s.cartRepo.FindItemByID(ctx, cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gorm.ErrRecordNotFound
		}
		return fmt.Errorf("load cart item: %w", err)
	}

	cart, err := s.cartRepo.FindByID(ctx, item.CartID)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	if cart.UserID != userID {
		return fmt.Errorf("cart item %d belongs to another account", cartItemID)
	}

	return s.cartRepo.DeleteItem(ctx, s.db, cartItemID)
}

// MergeGuestCart folds an anonymous cart into the user's cart on login and
// collapses any duplicate rows left behind.
func (s *cartServiceImpl) MergeGuestCart(ctx context.Context, userID uint, guestItems []dto.MergeCartItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.findOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		for _, guest := range guestItems {
			product, err := s.productRepo.FindByIDTx(ctx, tx, guest.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // product gone since the guest added it
				}
				return fmt.Errorf("load product: %w", err)
			}

			existing, err := s.collapseProductRows(ctx, tx, cart.CartID, product.ProductID)
			if err != nil {
				return err
			}
			if existing != nil {
				existing.Quantity += guest.Quantity
				existing.TotalPrice = product.Price.Mul(decimal.NewFromInt(int64(existing.Quantity)))
				if err := s.cartRepo.UpdateItem(ctx, tx, existing); err != nil {
					return fmt.Errorf("update cart item: %w", err)
				}
				continue
			}

			item := &model.CartItem{
				CartID:     cart.CartID,
				ProductID:  product.ProductID,
				Quantity:   guest.Quantity,
				TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(guest.Quantity))),
			}
			if err := s.cartRepo.CreateItem(ctx, tx, item); err != nil {
				return fmt.Errorf("create cart item: %w", err)
			}
		}

		// Sweep rows for products the guest cart never touched.
		items, err := s.cartRepo.ItemsByCartIDTx(ctx, tx, cart.CartID)
		if err != nil {
			return fmt.Errorf("load cart items: %w", err)
		}
		seen := make(map[uint]bool, len(items))
		for _, item := range items {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				continue
			}
			if _, err := s.collapseProductRows(ctx, tx, cart.CartID, item.ProductID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *cartServiceImpl) findOrCreateCart(ctx context.Context, tx *gorm.DB, userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByUserIDTx(ctx, tx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	cart = &model.Cart{UserID: userID}
	if err := s.cartRepo.Create(ctx, tx, cart); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

// collapseProductRows merges duplicate rows for one product into the first
// row, summing quantities, and returns the surviving row (nil when none).
func (s *cartServiceImpl) collapseProductRows(ctx context.Context, tx *gorm.DB, cartID, productID uint) (*model.CartItem, error) {
	rows, err := s.cartRepo.ItemsByProduct(ctx, tx, cartID, productID)
	if err != nil {
		return nil, fmt.Errorf("load cart rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	main := rows[0]
	if len(rows) == 1 {
		return main, nil
	}

	unit := main.TotalPrice.Div(decimal.NewFromInt(int64(main.Quantity)))
	if product, err := s.productRepo.FindByIDTx(ctx, tx, productID); err == nil {
		unit = product.Price
	}
	for _, dup := range rows[1:] {
		main.Quantity += dup.Quantity
		if err := s.cartRepo.DeleteItem(ctx, tx, dup.CartItemID); err != nil {
			return nil, fmt.Errorf("delete duplicate cart row: %w", err)
		}
	}
	main.TotalPrice = unit.Mul(decimal.NewFromInt(int64(main.Quantity)))
	if err := s.cartRepo.UpdateItem(ctx, tx, main); err != nil {
		return nil, fmt.Errorf("merge duplicate cart rows: %w", err)
	}

	return main, nil
}
