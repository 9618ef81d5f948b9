package handler

import (
	"net/http"
	"strconv"

	"eshop-assistant/internal/dto"
	"eshop-assistant/internal/middleware"
	"eshop-assistant/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cart    service.CartService
	catalog service.CatalogService
}

func NewCartHandler(cart service.CartService, catalog service.CatalogService) *CartHandler {
	return &CartHandler{cart: cart, catalog: catalog}
}

func (h *CartHandler) View(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	view, err := h.cart.View(ctx, ident.UserID)
	if err != nil {
		if err == service.ErrCartEmpty {
			return c.JSON(http.StatusOK, dto.CartResponse{Items: []dto.CartLine{}})
		}
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	req := new(dto.AddToCartRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.catalog.FindProduct(ctx, req.ProductName)
	if err != nil {
		return httpError(err)
	}

	item, _, err := h.cart.AddItem(ctx, ident.UserID, product, req.Quantity)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cart item id")
	}

	if err := h.cart.RemoveItem(ctx, ident.UserID, uint(id)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	removed, err := h.cart.Clear(ctx, ident.UserID)
	if err != nil {
		if err == service.ErrCartEmpty {
			return c.JSON(http.StatusOK, map[string]int{"removed": 0})
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"removed": removed})
}

// Merge folds a guest cart, kept client-side before login, into the user's
// server-side cart.
func (h *CartHandler) Merge(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	req := new(dto.MergeCartRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.cart.MergeGuestCart(ctx, ident.UserID, req.Items); err != nil {
		return httpError(err)
	}

	view, err := h.cart.View(ctx, ident.UserID)
	if err != nil {
		if err == service.ErrCartEmpty {
			return c.JSON(http.StatusOK, dto.CartResponse{Items: []dto.CartLine{}})
		}
		return err
	}
	return c.JSON(http.StatusOK, view)
}
