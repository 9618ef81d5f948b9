package repository

import (
	"context"

	"eshop-assistant/internal/model"

	"gorm.io/gorm"
)

type CartRepository interface {
	Create(ctx context.Context, tx *gorm.DB, cart *model.Cart) error
	FindByUserID(ctx context.Context, userID uint) (*model.Cart, error)
	FindByUserIDTx(ctx context.Context, tx *gorm.DB, userID uint) (*model.Cart, error)
	FindByID(ctx context.Context, cartID uint) (*model.Cart, error)

	CreateItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error
	FindItemByID(ctx context.Context, cartItemID uint) (*model.CartItem, error)
	ItemsByCartID(ctx context.Context, cartID uint) ([]*model.CartItem, error)
	ItemsByCartIDTx(ctx context.Context, tx *gorm.DB, cartID uint) ([]*model.CartItem, error)
	ItemsByProduct(ctx context.Context, tx *gorm.DB, cartID, productID uint) ([]*model.CartItem, error)
	UpdateItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error
	DeleteItem(ctx context.Context, tx *gorm.DB, cartItemID uint) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) Create(ctx context.Context, tx *gorm.DB, cart *model.Cart) error {
	return tx.WithContext(ctx).Create(cart).Error
}

func (r *cartRepoImpl) FindByUserID(ctx context.Context, userID uint) (*model.Cart, error) {
	return r.FindByUserIDTx(ctx, r.db, userID)
}

func (r *cartRepoImpl) FindByUserIDTx(ctx context.Context, tx *gorm.DB, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) FindByID(ctx context.Context, cartID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		First(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) CreateItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error {
	return tx.WithContext(ctx).Create(item).Error
}

func (r *cartRepoImpl) FindItemByID(ctx context.Context, cartItemID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_item_id = ?", cartItemID).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *cartRepoImpl) ItemsByCartID(ctx context.Context, cartID uint) ([]*model.CartItem, error) {
	return r.ItemsByCartIDTx(ctx, r.db, cartID)
}

func (r *cartRepoImpl) ItemsByCartIDTx(ctx context.Context, tx *gorm.DB, cartID uint) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := tx.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("cart_item_id").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

// ItemsByProduct returns every row for a (cart, product) pair. More than one
// row means concurrent adds raced; callers collapse them into the first row.
func (r *cartRepoImpl) ItemsByProduct(ctx context.Context, tx *gorm.DB, cartID, productID uint) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := tx.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Order("cart_item_id").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepoImpl) UpdateItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error {
	return tx.WithContext(ctx).Save(item).Error
}

func (r *cartRepoImpl) DeleteItem(ctx context.Context, tx *gorm.DB, cartItemID uint) error {
	return tx.WithContext(ctx).Delete(&model.CartItem{}, cartItemID).Error
}
