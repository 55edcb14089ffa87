package handler

import (
	"io"
	"net/http"

	"movieshop/internal/dto"
	"movieshop/internal/middleware"
	"movieshop/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) StartPayment(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	orderID, err := orderIDFromPath(c)
	if err != nil {
		return err
	}

	resp, err := h.paymentService.Start(ctx, userID, orderID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) GatewayWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	if err := h.paymentService.HandleWebhook(ctx, c.Request().Header, body); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusOK)
}

func (h *PaymentHandler) PaymentHistory(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	intents, err := h.paymentService.HistoryByUser(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.PaymentHistoryItem, 0, len(intents))
	for _, intent := range intents {
		resp = append(resp, dto.PaymentHistoryItem{
			IntentID:  intent.IntentID,
			OrderID:   intent.OrderID,
			Status:    string(intent.Status),
			Amount:    intent.Amount,
			CreatedAt: intent.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, resp)
}
