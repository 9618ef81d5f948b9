package service

import (
	"errors"
	"fmt"

	"eshop-assistant/internal/model"
)

// Expected business failures are typed so the chat layer can turn them into
// the exact user-facing reply and the REST layer into an HTTP status. Store
// and mail infrastructure faults stay plain wrapped errors and propagate.
var (
	ErrCartEmpty      = errors.New("cart is empty")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
)

type ProductNotFoundError struct {
	Ident string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %q not found", e.Ident)
}

type CategoryNotFoundError struct {
	Ident     string
	Available []string
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category %q not found", e.Ident)
}

type CategoryExistsError struct {
	Name string
}

func (e *CategoryExistsError) Error() string {
	return fmt.Sprintf("category %q already exists", e.Name)
}

type CategoryInUseError struct {
	Name string
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category %q still contains products", e.Name)
}

type StockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

type OrderNotFoundError struct {
	OrderID uint
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order #%d not found", e.OrderID)
}

type OwnershipError struct {
	OrderID uint
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("order #%d belongs to another account", e.OrderID)
}

type DeliveredError struct {
	OrderID uint
}

func (e *DeliveredError) Error() string {
	return fmt.Sprintf("order #%d has already been delivered", e.OrderID)
}

// AlreadyCancelledError is informational: re-cancelling mutates nothing.
type AlreadyCancelledError struct {
	OrderID uint
}

func (e *AlreadyCancelledError) Error() string {
	return fmt.Sprintf("order #%d is already cancelled", e.OrderID)
}

type TransitionError struct {
	OrderID uint
	From    model.OrderStatus
	To      model.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order #%d cannot move from %s to %s", e.OrderID, e.From, e.To)
}

type PaymentRequiredError struct {
	OrderID uint
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("order #%d cannot be delivered: payment is not done", e.OrderID)
}
