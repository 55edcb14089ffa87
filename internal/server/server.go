package server

import (
	"movieshop/internal/handler"
	"movieshop/internal/token"

	appmiddleware "movieshop/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	tokenMaker     *token.Maker
	authHandler    *handler.AuthHandler
	movieHandler   *handler.MovieHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	paymentHandler *handler.PaymentHandler
}

func NewServer(
	tokenMaker *token.Maker,
	authHandler *handler.AuthHandler,
	movieHandler *handler.MovieHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		tokenMaker:     tokenMaker,
		authHandler:    authHandler,
		movieHandler:   movieHandler,
		cartHandler:    cartHandler,
		orderHandler:   orderHandler,
		paymentHandler: paymentHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- accounts --------
	auth := api.Group("/auth")
	auth.POST("/register", s.authHandler.Register)
	auth.POST("/login", s.authHandler.Login)

	// -------- catalog --------
	api.GET("/movies", s.movieHandler.ListMovies)
	api.GET("/movies/:movieID", s.movieHandler.GetMovie)

	// -------- cart / orders / payments (authenticated) --------
	authed := api.Group("", appmiddleware.Auth(s.tokenMaker))

	cart := authed.Group("/cart")
	cart.GET("", s.cartHandler.Detail)
	cart.DELETE("", s.cartHandler.Clear)
	cart.POST("/movies/:movieID", s.cartHandler.AddItem)
	cart.DELETE("/movies/:movieID", s.cartHandler.RemoveItem)

	orders := authed.Group("/orders")
	orders.POST("", s.orderHandler.Checkout)
	orders.GET("", s.orderHandler.ListOrders)
	orders.GET("/:orderID", s.orderHandler.GetOrder)
	orders.DELETE("/:orderID", s.orderHandler.Cancel)

	payments := authed.Group("/payments")
	payments.GET("", s.paymentHandler.PaymentHistory)
	payments.POST("/orders/:orderID", s.paymentHandler.StartPayment)

	// -------- gateway webhooks / callbacks --------
	api.POST("/payments/webhook", s.paymentHandler.GatewayWebhook)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
