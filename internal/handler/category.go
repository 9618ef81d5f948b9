package handler

import (
	"net/http"
	"strconv"

	"eshop-assistant/internal/dto"
	"eshop-assistant/internal/service"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	catalog service.CatalogService
}

func NewCategoryHandler(catalog service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

func (h *CategoryHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.CategoryRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.catalog.AddCategory(ctx, req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Rename(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.CategoryRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.catalog.RenameCategory(ctx, c.Param("name"), req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	ident := c.Param("id")
	if id, err := strconv.ParseUint(ident, 10, 32); err == nil {
		if _, err := h.catalog.DeleteCategoryByID(ctx, uint(id)); err != nil {
			return httpError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	if _, err := h.catalog.DeleteCategoryByName(ctx, ident); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
