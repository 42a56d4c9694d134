package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/pkg/rabbitmq"

	"github.com/google/uuid"
)

// EventPublisher sends catalog events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
}

// NewProductService creates a new ProductService. publisher may be nil, in which
// case catalog events are not sent.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// ListProducts retrieves the products matching query.
func (s *ProductService) ListProducts(query models.ProductQuery) ([]models.Product, error) {
	query, err := query.Normalize()
	if err != nil {
		return nil, err
	}
	return s.repo.List(query)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct validates and stores a new product. An empty ID is replaced by a UUID.
// A malformed record yields models.ErrMalformedProduct; a negative quantity yields
// ErrCatalogRule.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := validateForStorage(product); err != nil {
		return err
	}
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.publish(rabbitmq.ProductCreated, product)
	return nil
}

// UpdateProduct validates and replaces an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := validateForStorage(product); err != nil {
		return err
	}
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.publish(rabbitmq.ProductUpdated, product)
	return nil
}

// UpdateStock sets a product's stock level and status. The status is stored as
// given; it is not derived from the stock level.
func (s *ProductService) UpdateStock(id string, stock int, status models.StockStatus) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.Stock = stock
	product.Status = status
	if err := validateForStorage(product); err != nil {
		return nil, err
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.publish(rabbitmq.ProductStockUpdated, product)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publish(rabbitmq.ProductDeleted, &models.Product{ID: id})
	return nil
}

// validateForStorage checks the record's shape first, then the catalog limits.
func validateForStorage(product *models.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	return CheckCatalogRules(product)
}

// publish sends a catalog event. Failures are logged and never fail the mutation.
func (s *ProductService) publish(routingKey string, product *models.Product) {
	if s.publisher == nil {
		return
	}

	event := rabbitmq.Event{
		Type:       routingKey,
		ProductID:  product.ID,
		Status:     string(product.Status),
		OccurredAt: time.Now().UTC(),
	}
	if routingKey != rabbitmq.ProductDeleted {
		stock := product.Stock
		event.Stock = &stock
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event for product %s: %v", routingKey, product.ID, err)
		return
	}
	if err := s.publisher.Publish(rabbitmq.CatalogExchange, routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for product %s: %v", routingKey, product.ID, err)
	}
}

// SeedProducts stores products into an empty repository. It does nothing when
// the repository already holds data.
func SeedProducts(repo repositories.ProductRepository, products []models.Product) error {
	existing, err := repo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to check existing products: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.New().String()
		}
		if err := validateForStorage(&products[i]); err != nil {
			return fmt.Errorf("seed product %s: %w", products[i].Name, err)
		}
		if err := repo.Create(&products[i]); err != nil {
			return fmt.Errorf("seed product %s: %w", products[i].Name, err)
		}
		log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
	}
	return nil
}
