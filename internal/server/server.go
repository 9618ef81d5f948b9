package server

import (
	"context"
	"net/http"

	"eshop-assistant/internal/handler"
	"eshop-assistant/internal/middleware"
	"eshop-assistant/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	chatHandler     *handler.ChatHandler
	authHandler     *handler.AuthHandler
	productHandler  *handler.ProductHandler
	categoryHandler *handler.CategoryHandler
	cartHandler     *handler.CartHandler
	orderHandler    *handler.OrderHandler
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func NewServer(
	authService service.AuthService,
	chatbot service.ChatbotService,
	catalog service.CatalogService,
	cart service.CartService,
	orders service.OrderService,
) *Server {
	e := echo.New()

	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.Auth(authService))

	s := &Server{
		echo:            e,
		chatHandler:     handler.NewChatHandler(chatbot),
		authHandler:     handler.NewAuthHandler(authService),
		productHandler:  handler.NewProductHandler(catalog),
		categoryHandler: handler.NewCategoryHandler(catalog),
		cartHandler:     handler.NewCartHandler(cart, catalog),
		orderHandler:    handler.NewOrderHandler(orders, catalog),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- auth --------
	api.POST("/auth/register", s.authHandler.Register)
	api.POST("/auth/login", s.authHandler.Login)

	// -------- chatbot --------
	api.POST("/chatbot/chat", s.chatHandler.Chat)
	api.DELETE("/chatbot/clear-history", s.chatHandler.ClearHistory)

	// -------- catalog (public reads) --------
	api.GET("/products", s.productHandler.List)
	api.GET("/products/:id", s.productHandler.Get)
	api.GET("/categories", s.categoryHandler.List)

	// -------- cart (login required) --------
	cart := api.Group("/cart", middleware.RequireAuth())
	cart.GET("", s.cartHandler.View)
	cart.POST("/items", s.cartHandler.AddItem)
	cart.DELETE("/items/:id", s.cartHandler.RemoveItem)
	cart.DELETE("", s.cartHandler.Clear)
	cart.POST("/merge", s.cartHandler.Merge)

	// -------- orders (login required) --------
	orders := api.Group("/orders", middleware.RequireAuth())
	orders.POST("", s.orderHandler.Place)
	orders.GET("", s.orderHandler.List)
	orders.GET("/:id", s.orderHandler.Get)
	orders.POST("/:id/cancel", s.orderHandler.Cancel)

	// -------- admin --------
	admin := api.Group("/admin", middleware.RequireAdmin())
	admin.POST("/products", s.productHandler.Create)
	admin.PUT("/products/:id", s.productHandler.Update)
	admin.DELETE("/products/:id", s.productHandler.Delete)
	admin.GET("/products/low-stock", s.productHandler.LowStock)
	admin.POST("/categories", s.categoryHandler.Create)
	admin.PUT("/categories/:name", s.categoryHandler.Rename)
	admin.DELETE("/categories/:id", s.categoryHandler.Delete)
	admin.GET("/orders", s.orderHandler.AllOrders)
	admin.PUT("/orders/:id/status", s.orderHandler.UpdateStatus)
	admin.GET("/payments", s.orderHandler.AllPayments)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
