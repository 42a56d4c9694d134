package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"katalog/internal/app"
	"katalog/internal/config"
	"katalog/internal/database"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Storage ---
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	userRepo := repositories.NewGORMUserRepository(db)

	var productRepo repositories.ProductRepository
	switch cfg.ProductStore {
	case config.StoreMongo:
		mongoClient, mongoDB, err := database.ConnectMongo(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatalf("Failed to initialize MongoDB: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Printf("Error disconnecting MongoDB: %v", err)
			}
		}()
		productRepo = repositories.NewMongoProductRepository(mongoDB)
	case config.StoreMemory:
		productRepo = repositories.NewMockProductRepository()
	default:
		productRepo = repositories.NewGORMProductRepository(db)
	}
	log.Printf("Using %s product store", cfg.ProductStore)

	if cfg.SeedProducts {
		if err := services.SeedProducts(productRepo, app.DemoProducts()); err != nil {
			log.Printf("Error seeding products: %v", err)
		}
	}

	// --- Catalog events ---
	deps := app.Dependencies{
		ProductRepo: productRepo,
		UserRepo:    userRepo,
		JWTSecret:   cfg.JWTSecret,
	}
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()

		deps.Publisher = mqClient
		deps.Broker = "connected"
		if err := mqClient.ConsumeCatalogEvents(rabbitmq.HandleCatalogMessage); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL is empty, catalog events are disabled")
	}

	// --- HTTP ---
	server, _ := app.NewApp(deps)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", cfg.AppPort)
		if err := server.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
