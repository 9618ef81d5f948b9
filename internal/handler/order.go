package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"eshop-assistant/internal/dto"
	"eshop-assistant/internal/middleware"
	"eshop-assistant/internal/model"
	"eshop-assistant/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orders  service.OrderService
	catalog service.CatalogService
}

func NewOrderHandler(orders service.OrderService, catalog service.CatalogService) *OrderHandler {
	return &OrderHandler{orders: orders, catalog: catalog}
}

// Place checks out the caller's cart.
func (h *OrderHandler) Place(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	req := new(dto.PlaceOrderRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	method, ok := model.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "payment method must be COD or UPI")
	}

	order, err := h.orders.PlaceFromCart(ctx, ident.UserID, req.ShippingAddress, method)
	if err != nil {
		return httpError(err)
	}

	detail, err := h.orders.Detail(ctx, ident.UserID, order.OrderID, false)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, h.toResponse(c, detail))
}

func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	orders, err := h.orders.OrdersForUser(ctx, ident.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	detail, err := h.orders.Detail(ctx, ident.UserID, uint(id), ident.IsAdmin())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.toResponse(c, detail))
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.orders.Cancel(ctx, ident.UserID, uint(id), ident.IsAdmin())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// AllOrders is the admin-wide listing.
func (h *OrderHandler) AllOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orders.AllOrders(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// AllPayments is the admin-wide payment listing.
func (h *OrderHandler) AllPayments(c echo.Context) error {
	ctx := c.Request().Context()

	payments, err := h.orders.AllPayments(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}

// UpdateStatus moves an order along the lifecycle graph. Admin only.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	req := new(dto.UpdateOrderStatusRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	status, ok := model.ParseOrderStatus(req.Status)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be Pending, Shipped, Delivered or Cancelled")
	}

	order, err := h.orders.UpdateStatus(ctx, uint(id), status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) toResponse(c echo.Context, detail *service.OrderDetail) dto.OrderResponse {
	ctx := c.Request().Context()

	resp := dto.OrderResponse{
		OrderID:         detail.Order.OrderID,
		OrderDate:       detail.Order.OrderDate,
		TotalAmount:     detail.Order.TotalAmount,
		Status:          string(detail.Order.Status),
		ShippingAddress: detail.Order.ShippingAddress,
		PaymentMethod:   string(detail.Order.PaymentMethod),
		Items:           []dto.OrderItemResponse{},
	}
	for _, item := range detail.Items {
		line := dto.OrderItemResponse{
			OrderItemID: item.OrderItemID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
		if product, err := h.catalog.FindProduct(ctx, fmt.Sprint(item.ProductID)); err == nil {
			line.ProductName = product.Name
		}
		resp.Items = append(resp.Items, line)
	}
	if detail.Payment != nil {
		resp.Payment = &dto.PaymentResponse{
			PaymentID:   detail.Payment.PaymentID,
			OrderID:     detail.Payment.OrderID,
			Mode:        string(detail.Payment.Mode),
			Amount:      detail.Payment.Amount,
			PaymentDate: detail.Payment.PaymentDate,
			Status:      string(detail.Payment.Status),
		}
	}
	return resp
}
