package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eshop-assistant/internal/client"
	"eshop-assistant/internal/config"
	"eshop-assistant/internal/repository"
	"eshop-assistant/internal/server"
	"eshop-assistant/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db, err := client.InitDBClient(&cfg.Database)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := client.Migrate(db); err != nil {
		log.Fatalf("database migrate: %v", err)
	}

	rdb := client.InitRedisClient(&cfg.Redis)
	aiClient := client.NewOpenAIClient(&cfg.OpenAI)
	mailer := client.NewSMTPMailer(&cfg.SMTP)

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	authService := service.NewAuthService(db, userRepo, &cfg.JWT)
	catalogService := service.NewCatalogService(db, productRepo, categoryRepo)
	cartService := service.NewCartService(db, cartRepo, productRepo)
	orderService := service.NewOrderService(db, orderRepo, paymentRepo, productRepo, cartRepo, userRepo, mailer)

	history := service.NewConversationHistory(rdb)
	adminOps := service.NewAdminOps(catalogService, orderService, userRepo, paymentRepo)
	customerOps := service.NewCustomerOps(catalogService, cartService, orderService)
	chatbot := service.NewChatbotService(adminOps, customerOps, catalogService, history, aiClient)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(authService, chatbot, catalogService, cartService, orderService)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
	if err := rdb.Close(); err != nil {
		log.Printf("redis close: %v", err)
	}
}
