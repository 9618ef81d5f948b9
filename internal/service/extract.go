package service

import (
	"regexp"
	"strconv"
	"strings"

	"eshop-assistant/internal/model"

	"github.com/shopspring/decimal"
)

// Each operation family accepts at least two surface forms: a compact
// comma-delimited shorthand, tried first when its shape matches, and a verbose
// keyword phrase. Matchers are independent and tried in a fixed order; a
// failed parse surfaces as a format-hint reply, never as an error.

var (
	reProductAdd         = regexp.MustCompile(`(?i)add product (.+?) price (\d+) stock (\d+) category (.+)`)
	reProductPriceUpdate = regexp.MustCompile(`(?i)update product (\d+) price (\d+)`)
	reProductStockUpdate = regexp.MustCompile(`(?i)update product (\d+) stock (\d+)`)
	reDeleteByID         = regexp.MustCompile(`(?i)delete (?:product )?(\d+)`)
	reDeleteByName       = regexp.MustCompile(`(?i)delete (?:product )?(.+)`)
	reAddCategory        = regexp.MustCompile(`(?i)add category (.+)`)
	reUpdateCategory     = regexp.MustCompile(`(?i)update category (\d+) name (.+)`)
	reDeleteCategoryByID = regexp.MustCompile(`(?i)delete category (\d+)`)
	reDeleteCategoryName = regexp.MustCompile(`(?i)delete category (.+)`)
	reUpdateOrder        = regexp.MustCompile(`(?i)update order (\d+) status (\w+)`)
	reCancelOrder        = regexp.MustCompile(`(?i)cancel order (\d+)`)
	reAddToCart          = regexp.MustCompile(`(?i)add (?:(\d+) )?(.+?) to cart`)
	reAddToCartAlt       = regexp.MustCompile(`(?i)add (.+?) cart`)
	rePlaceOrder         = regexp.MustCompile(`(?i)order\s+(\d+)\s+(.+?)\s*,\s*address\s+(.+?)\s*,\s*payment\s+mode\s+(\w+)`)
	reCheckout           = regexp.MustCompile(`(?i)(?:order cart|checkout)\s*,\s*address\s+(.+?)\s*,\s*payment\s+mode\s+(\w+)`)
	reMultiOrder         = regexp.MustCompile(`(?i)multi order\s+(.+?)\s*,\s*address\s+(.+?)\s*,\s*payment\s+mode\s+(\w+)`)
	reProductQuantity    = regexp.MustCompile(`(\d+)\s+(.+)`)
	reAddress            = regexp.MustCompile(`(?i)address\s+([^,]+)`)
	reFirstNumber        = regexp.MustCompile(`(\d+)`)
)

// ---- compact-shape detectors ----

func isCommaProductAdd(text string) bool {
	parts := strings.Split(text, ",")
	if len(parts) < 4 {
		return false
	}
	if _, err := decimal.NewFromString(strings.TrimSpace(parts[1])); err != nil {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	return err == nil
}

// isCommaPriceUpdate matches "<id-or-name>,<newPrice>" shorthand.
func isCommaPriceUpdate(text string) bool {
	parts := strings.Split(text, ",")
	if len(parts) != 2 || strings.Contains(strings.ToLower(text), "update") {
		return false
	}
	_, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	return err == nil
}

// isCommaCategoryRename matches "<id-or-name>,<newName>" shorthand.
func isCommaCategoryRename(text string) bool {
	parts := strings.Split(text, ",")
	if len(parts) != 2 || strings.Contains(strings.ToLower(text), "update") {
		return false
	}
	_, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	return err != nil
}

// ---- typed extraction results ----

type productAddCmd struct {
	Name     string
	Price    decimal.Decimal
	Stock    int
	Category string
}

func parseProductAdd(text string) (*productAddCmd, bool) {
	if isCommaProductAdd(text) {
		parts := strings.Split(text, ",")
		price, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, false
		}
		stock, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, false
		}
		return &productAddCmd{
			Name:     strings.TrimSpace(parts[0]),
			Price:    price,
			Stock:    stock,
			Category: strings.TrimSpace(parts[3]),
		}, true
	}

	m := reProductAdd.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	price, err := decimal.NewFromString(m[2])
	if err != nil {
		return nil, false
	}
	stock, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, false
	}
	return &productAddCmd{
		Name:     strings.TrimSpace(m[1]),
		Price:    price,
		Stock:    stock,
		Category: strings.TrimSpace(m[4]),
	}, true
}

type priceUpdateCmd struct {
	ProductID uint
	Price     decimal.Decimal
}

func parsePriceUpdate(text string) (*priceUpdateCmd, bool) {
	m := reProductPriceUpdate.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	id, _ := strconv.Atoi(m[1])
	price, err := decimal.NewFromString(m[2])
	if err != nil {
		return nil, false
	}
	return &priceUpdateCmd{ProductID: uint(id), Price: price}, true
}

type stockUpdateCmd struct {
	ProductID uint
	Stock     int
}

func parseStockUpdate(text string) (*stockUpdateCmd, bool) {
	m := reProductStockUpdate.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	id, _ := strconv.Atoi(m[1])
	stock, _ := strconv.Atoi(m[2])
	return &stockUpdateCmd{ProductID: uint(id), Stock: stock}, true
}

// parseCommaPriceUpdate extracts "<id-or-name>,<newPrice>".
func parseCommaPriceUpdate(text string) (ident string, price decimal.Decimal, ok bool) {
	parts := strings.Split(text, ",")
	if len(parts) < 2 {
		return "", decimal.Decimal{}, false
	}
	price, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", decimal.Decimal{}, false
	}
	return strings.TrimSpace(parts[0]), price, true
}

func parseCommaRename(text string) (ident, newName string, ok bool) {
	parts := strings.Split(text, ",")
	if len(parts) < 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

func parseDeleteProductID(text string) (uint, bool) {
	m := reDeleteByID.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	id, _ := strconv.Atoi(m[1])
	return uint(id), true
}

// parseDeleteProductName trims surrounding quote characters from the name.
func parseDeleteProductName(text string) (string, bool) {
	m := reDeleteByName.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.Trim(strings.TrimSpace(m[1]), `'"`), true
}

func parseAddCategory(text string) (string, bool) {
	m := reAddCategory.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func parseUpdateCategory(text string) (id uint, newName string, ok bool) {
	m := reUpdateCategory.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	n, _ := strconv.Atoi(m[1])
	return uint(n), strings.TrimSpace(m[2]), true
}

func parseDeleteCategoryID(text string) (uint, bool) {
	m := reDeleteCategoryByID.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	id, _ := strconv.Atoi(m[1])
	return uint(id), true
}

func parseDeleteCategoryName(text string) (string, bool) {
	m := reDeleteCategoryName.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func parseUpdateOrder(text string) (orderID uint, status string, ok bool) {
	m := reUpdateOrder.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	id, _ := strconv.Atoi(m[1])
	return uint(id), m[2], true
}

func parseCancelOrder(text string) (uint, bool) {
	m := reCancelOrder.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	id, _ := strconv.Atoi(m[1])
	return uint(id), true
}

type addToCartCmd struct {
	Quantity int
	Product  string // id or name fragment
}

func parseAddToCart(text string) (*addToCartCmd, bool) {
	m := reAddToCart.FindStringSubmatch(text)
	if m == nil {
		m = reAddToCartAlt.FindStringSubmatch(text)
		if m == nil {
			return nil, false
		}
		return &addToCartCmd{Quantity: 1, Product: strings.TrimSpace(m[1])}, true
	}

	cmd := &addToCartCmd{Quantity: 1, Product: strings.TrimSpace(m[2])}
	if m[1] != "" {
		if qty, err := strconv.Atoi(m[1]); err == nil {
			cmd.Quantity = qty
		}
	}
	if cmd.Product == "" {
		cmd.Product = strings.TrimSpace(m[1])
	}
	return cmd, true
}

type placeOrderCmd struct {
	Quantity int
	Product  string
	Address  string
	Mode     string // raw token, validated by resolvePaymentMode
}

func parsePlaceOrder(text string) (*placeOrderCmd, bool) {
	m := rePlaceOrder.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	qty, _ := strconv.Atoi(m[1])
	return &placeOrderCmd{
		Quantity: qty,
		Product:  strings.TrimSpace(m[2]),
		Address:  strings.TrimSpace(m[3]),
		Mode:     strings.TrimSpace(m[4]),
	}, true
}

type checkoutCmd struct {
	Address string
	Mode    string
}

func parseCheckout(text string) (*checkoutCmd, bool) {
	m := reCheckout.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return &checkoutCmd{
		Address: strings.TrimSpace(m[1]),
		Mode:    strings.TrimSpace(m[2]),
	}, true
}

type multiOrderCmd struct {
	ItemsText string
	Address   string
	Mode      string
}

func parseMultiOrder(text string) (*multiOrderCmd, bool) {
	m := reMultiOrder.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return &multiOrderCmd{
		ItemsText: strings.TrimSpace(m[1]),
		Address:   strings.TrimSpace(m[2]),
		Mode:      strings.TrimSpace(m[3]),
	}, true
}

// parseQuantityProduct extracts one "<qty> <product>" fragment of a
// multi-product list.
func parseQuantityProduct(fragment string) (qty int, product string, ok bool) {
	m := reProductQuantity.FindStringSubmatch(strings.TrimSpace(fragment))
	if m == nil {
		return 0, "", false
	}
	qty, _ = strconv.Atoi(m[1])
	return qty, strings.TrimSpace(m[2]), true
}

// ---- shared free-text token extraction, used by both routers ----

func parseUint(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

func firstNumber(text string) (int, bool) {
	for _, word := range strings.Fields(text) {
		if n, err := strconv.Atoi(word); err == nil {
			return n, true
		}
	}
	return 0, false
}

// extractQuantityForProduct returns the number token directly preceding the
// product name in the message, defaulting to 1.
func extractQuantityForProduct(text, productName string) int {
	words := strings.Fields(text)
	for i := 0; i < len(words)-1; i++ {
		if containsFold(words[i+1], productName) {
			if qty, err := strconv.Atoi(words[i]); err == nil {
				return qty
			}
		}
	}
	return 1
}

func extractAddress(text string) string {
	m := reAddress.FindStringSubmatch(text)
	if m == nil {
		return "Not specified"
	}
	return strings.TrimSpace(m[1])
}

// detectPaymentMode defaults to cash on delivery; "online" or "upi" anywhere
// in the text selects UPI.
func detectPaymentMode(text string) model.PaymentMethod {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "online") || strings.Contains(lower, "upi") {
		return model.PaymentUPI
	}
	return model.PaymentCOD
}

// resolvePaymentMode maps an explicit payment-mode token to a known method.
// "online" is the customer-facing name for UPI; anything else is rejected so
// the canonical order forms never silently default.
func resolvePaymentMode(s string) (model.PaymentMethod, bool) {
	s = strings.TrimSpace(s)
	if pm, ok := model.ParsePaymentMethod(s); ok {
		return pm, true
	}
	if strings.EqualFold(s, "online") {
		return model.PaymentUPI, true
	}
	return "", false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
