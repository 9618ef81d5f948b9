package service

import (
	"regexp"
	"strings"
)

// Intent is the classified category of a text command. Classification runs in
// a fixed priority order: order-status, then admin, then customer, then the
// free-text fallback. Multiple rules can match the same text, so the first
// match wins; that determinism is relied on by tests.
type Intent int

const (
	IntentNone Intent = iota
	IntentOrderStatus
	IntentAdmin
	IntentCustomer
)

var (
	reAnyNumber = regexp.MustCompile(`\b\d+\b`)

	// Compact comma-delimited shapes. These are heuristic shorthand for
	// add-product, update-price and rename-category and can misclassify
	// ordinary two-field customer text as an admin update. That is accepted,
	// documented behavior.
	reProductAddShape = regexp.MustCompile(`^[^,]+,\d+,\d+,[^,]+$`)
	reUpdateShape     = regexp.MustCompile(`^\d+,\d+$`)
	reCategoryShape   = regexp.MustCompile(`^[^,]+,[^,]+$`)
)

// ClassifyIntent inspects the raw message only; authentication gating happens
// in the chatbot service before the routers run.
func ClassifyIntent(message string) Intent {
	switch {
	case isOrderStatusQuery(message):
		return IntentOrderStatus
	case isAdminOperation(message):
		return IntentAdmin
	case isCustomerOperation(message):
		return IntentCustomer
	default:
		return IntentNone
	}
}

func isOrderStatusQuery(message string) bool {
	lower := strings.ToLower(message)
	return (strings.Contains(lower, "order") && strings.Contains(lower, "status")) ||
		(strings.Contains(lower, "order") && strings.Contains(lower, "check")) ||
		(strings.Contains(lower, "status") && reAnyNumber.MatchString(message))
}

func isAdminOperation(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "add product") ||
		strings.Contains(lower, "update product") ||
		strings.Contains(lower, "delete product") ||
		strings.Contains(lower, "add category") ||
		strings.Contains(lower, "update category") ||
		strings.Contains(lower, "delete category") ||
		strings.Contains(lower, "low stock") ||
		strings.Contains(lower, "pending orders") ||
		strings.Contains(lower, "order statistics") ||
		strings.Contains(lower, "sales report") ||
		strings.Contains(lower, "user statistics") ||
		strings.Contains(lower, "inventory report") ||
		strings.Contains(lower, "update order") ||
		strings.Contains(lower, "list categories") ||
		(strings.Contains(lower, "delete") && !strings.Contains(lower, "order")) ||
		reProductAddShape.MatchString(message) ||
		reUpdateShape.MatchString(message) ||
		reCategoryShape.MatchString(message)
}

func isCustomerOperation(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "show products") ||
		(strings.Contains(lower, "find") && !containsMutationVerb(lower)) ||
		(strings.Contains(lower, "search") && !containsMutationVerb(lower)) ||
		(strings.Contains(lower, "add") && strings.Contains(lower, "cart")) ||
		strings.Contains(lower, "view cart") ||
		strings.Contains(lower, "show cart") ||
		strings.Contains(lower, "my cart") ||
		strings.Contains(lower, "cancel order") ||
		(strings.Contains(lower, "order") && (strings.Contains(lower, "address") || strings.Contains(lower, "payment"))) ||
		strings.Contains(lower, "checkout") ||
		strings.Contains(lower, "place order")
}

func containsMutationVerb(lower string) bool {
	return strings.Contains(lower, "add") ||
		strings.Contains(lower, "update") ||
		strings.Contains(lower, "delete")
}

// requiresAuthentication reports whether a customer operation mutates
// order state and therefore needs a resolved user before routing.
func requiresAuthentication(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "checkout") ||
		strings.Contains(lower, "place order") ||
		(strings.Contains(lower, "order") && (strings.Contains(lower, "address") || strings.Contains(lower, "payment"))) ||
		strings.Contains(lower, "cancel order")
}
