package handler

import (
	"net/http"

	"movieshop/internal/dto"
	"movieshop/internal/service"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	if _, err := h.authService.Register(ctx, req.Email, req.Password); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.MessageResponse{Message: "account created"})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	tok, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{Token: tok})
}
