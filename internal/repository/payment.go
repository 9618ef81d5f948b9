package repository

import (
	"context"

	"eshop-assistant/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error
	FindByOrderID(ctx context.Context, orderID uint) (*model.Payment, error)
	FindByOrderIDTx(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Payment, error)
	FindAll(ctx context.Context) ([]*model.Payment, error)
	Update(ctx context.Context, tx *gorm.DB, payment *model.Payment) error
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepoImpl) FindByOrderID(ctx context.Context, orderID uint) (*model.Payment, error) {
	return r.FindByOrderIDTx(ctx, r.db, orderID)
}

func (r *paymentRepoImpl) FindByOrderIDTx(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Payment, error) {
	var payment model.Payment
	err := tx.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) FindAll(ctx context.Context) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).Order("payment_id").Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepoImpl) Update(ctx context.Context, tx *gorm.DB, payment *model.Payment) error {
	return tx.WithContext(ctx).Save(payment).Error
}
