package handler

import (
	"net/http"

	"movieshop/internal/dto"
	"movieshop/internal/middleware"
	"movieshop/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	movieID, err := movieIDFromPath(c)
	if err != nil {
		return err
	}

	req := dto.AddCartItemRequest{Quantity: 1}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.cartService.AddItem(ctx, userID, movieID, req.Quantity); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "movie added to cart"})
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	movieID, err := movieIDFromPath(c)
	if err != nil {
		return err
	}

	if err := h.cartService.RemoveItem(ctx, userID, movieID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "movie removed from cart"})
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	if err := h.cartService.Clear(ctx, userID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "cart cleared"})
}

func (h *CartHandler) Detail(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	detail, err := h.cartService.Detail(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, detail)
}
