package handler

import (
	"net/http"
	"strconv"

	"movieshop/internal/dto"
	"movieshop/internal/middleware"
	"movieshop/internal/model"
	"movieshop/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func orderIDFromPath(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("orderID"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return uint(id), nil
}

func orderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			MovieID:      item.MovieID,
			Quantity:     item.Quantity,
			PriceAtOrder: item.PriceAtOrder,
		})
	}

	return dto.OrderResponse{
		OrderID:     order.ID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		Items:       items,
		CreatedAt:   order.CreatedAt,
	}
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.Checkout(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, orderResponse(order))
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	orderID, err := orderIDFromPath(c)
	if err != nil {
		return err
	}

	if err := h.orderService.Cancel(ctx, userID, orderID); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "order cancelled"})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	orderID, err := orderIDFromPath(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.Get(ctx, userID, orderID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orderResponse(order))
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListByUser(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, orderResponse(order))
	}

	return c.JSON(http.StatusOK, resp)
}
