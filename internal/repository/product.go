package repository

import (
	"context"

	"eshop-assistant/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, tx *gorm.DB, product *model.Product) error
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, productID uint) (*model.Product, error)
	FindByName(ctx context.Context, name string) (*model.Product, error)
	FindByNameLike(ctx context.Context, fragment string) (*model.Product, error)
	FindAll(ctx context.Context) ([]*model.Product, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, product *model.Product) error
	Delete(ctx context.Context, tx *gorm.DB, productID uint) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Create(ctx context.Context, tx *gorm.DB, product *model.Product) error {
	return tx.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	return r.FindByIDTx(ctx, r.db, productID)
}

func (r *productRepoImpl) FindByIDTx(ctx context.Context, tx *gorm.DB, productID uint) (*model.Product, error) {
	var product model.Product
	err := tx.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

// FindByName matches the product name exactly, ignoring case.
func (r *productRepoImpl) FindByName(ctx context.Context, name string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

// FindByNameLike returns the first product whose name contains the fragment,
// ignoring case.
func (r *productRepoImpl) FindByNameLike(ctx context.Context, fragment string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?)", "%"+fragment+"%").
		Order("product_id").
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindAll(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).Order("product_id").Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error

	return count, err
}

func (r *productRepoImpl) Update(ctx context.Context, tx *gorm.DB, product *model.Product) error {
	return tx.WithContext(ctx).Save(product).Error
}

func (r *productRepoImpl) Delete(ctx context.Context, tx *gorm.DB, productID uint) error {
	return tx.WithContext(ctx).Delete(&model.Product{}, productID).Error
}
