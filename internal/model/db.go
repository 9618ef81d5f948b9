package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	UserID       uint     `gorm:"primaryKey"`
	FullName     string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:150;uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"size:20;index;not null"` // Admin, Customer
	CreatedAt    time.Time
	LastLogin    *time.Time
}

type Category struct {
	CategoryID   uint   `gorm:"primaryKey"`
	CategoryName string `gorm:"size:100;uniqueIndex;not null"`
}

type Product struct {
	ProductID     uint            `gorm:"primaryKey"`
	Name          string          `gorm:"size:100;index;not null"`
	Description   string          `gorm:"size:500"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	StockQuantity int             `gorm:"not null"` // never negative
	CategoryID    uint            `gorm:"index;not null"`
}

// Cart is created lazily on first add. One cart per user.
type Cart struct {
	CartID uint `gorm:"primaryKey"`
	UserID uint `gorm:"uniqueIndex;not null"`
}

type CartItem struct {
	CartItemID uint            `gorm:"primaryKey"`
	CartID     uint            `gorm:"index;not null"`
	ProductID  uint            `gorm:"index;not null"`
	Quantity   int             `gorm:"not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"` // quantity x unit price at last update
}

type Order struct {
	OrderID         uint            `gorm:"primaryKey"`
	UserID          uint            `gorm:"index;not null"`
	OrderDate       time.Time       `gorm:"not null"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status          OrderStatus     `gorm:"size:20;index;not null"`
	ShippingAddress string          `gorm:"size:500;not null"`
	PaymentMethod   PaymentMethod   `gorm:"size:10;not null"`
}

type OrderItem struct {
	OrderItemID uint            `gorm:"primaryKey"`
	OrderID     uint            `gorm:"index;not null"`
	ProductID   uint            `gorm:"index;not null"`
	Quantity    int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"` // line total, not unit price
}

type Payment struct {
	PaymentID   uint            `gorm:"primaryKey"`
	OrderID     uint            `gorm:"uniqueIndex;not null"` // at most one payment per order
	Reference   string          `gorm:"size:64;index"`
	Mode        PaymentMethod   `gorm:"size:10;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"` // equals the order total
	PaymentDate time.Time       `gorm:"not null"`
	Status      PaymentStatus   `gorm:"size:20;not null"`
}
