package model

import "strings"

type UserRole string

const (
	RoleAdmin    UserRole = "Admin"
	RoleCustomer UserRole = "Customer"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderShipped   OrderStatus = "Shipped"
	OrderDelivered OrderStatus = "Delivered"
	OrderCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus matches case-insensitively and returns the canonical value.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range []OrderStatus{OrderPending, OrderShipped, OrderDelivered, OrderCancelled} {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// CanTransition reports whether an order may move from one status to another.
// Pending -> Shipped/Cancelled, Shipped -> Delivered/Cancelled; Delivered and
// Cancelled are terminal.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	switch s {
	case OrderPending:
		return to == OrderShipped || to == OrderCancelled
	case OrderShipped:
		return to == OrderDelivered || to == OrderCancelled
	default:
		return false
	}
}

type PaymentMethod string

const (
	PaymentCOD PaymentMethod = "COD"
	PaymentUPI PaymentMethod = "UPI"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch {
	case strings.EqualFold(s, string(PaymentCOD)):
		return PaymentCOD, true
	case strings.EqualFold(s, string(PaymentUPI)):
		return PaymentUPI, true
	default:
		return "", false
	}
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefund    PaymentStatus = "Refund"
)
