package handlers

import (
	"errors"
	"fmt"
	"log"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the public read routes and, behind protect, the write routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, protect ...fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)

	write := productRoutes.Group("", protect...)
	write.Post("/", h.HandleCreateProduct)
	write.Put("/:id", h.HandleUpdateProduct)
	write.Patch("/:id/stock", h.HandleUpdateStock)
	write.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts lists products. Query parameters: category, q, stock (low|out|in),
// sort (name|price|stock|category) and order (asc|desc).
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	query, err := models.ParseProductQuery(
		c.Query("category"),
		c.Query("q"),
		c.Query("stock"),
		c.Query("sort"),
		c.Query("order"),
	)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid query parameters",
			"error":   err.Error(),
		})
	}

	products, err := h.service.ListProducts(query)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		return h.storeError(c, productID, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product from a complete record.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	input, err := parseProductInput(c)
	if err != nil {
		log.Printf("Rejected product body: %v", err)
		return productInputError(c, err)
	}

	product := input.Product()
	if err := h.service.CreateProduct(product); err != nil {
		log.Printf("Error creating product: %v", err)
		if errors.Is(err, repositories.ErrDuplicateProduct) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": fmt.Sprintf("Product with ID %s already exists", product.ID),
				"error":   err.Error(),
			})
		}
		return h.storeError(c, product.ID, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces the product at :id with the request body.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	input, err := parseProductInput(c)
	if err != nil {
		log.Printf("Rejected product body: %v", err)
		return productInputError(c, err)
	}
	if input.ID != "" && input.ID != productID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Body ID %s does not match path ID %s", input.ID, productID),
		})
	}

	product := input.Product()
	product.ID = productID
	if err := h.service.UpdateProduct(product); err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		return h.storeError(c, productID, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleUpdateStock sets the stock level and status of the product at :id.
func (h *ProductHandler) HandleUpdateStock(c *fiber.Ctx) error {
	productID := c.Params("id")
	var update models.StockUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing stock update for product %s: %v", productID, err)
		return productInputError(c, err)
	}
	if err := update.Validate(); err != nil {
		return validationFailed(c, models.ErrMalformedProduct.Error(), err)
	}

	product, err := h.service.UpdateStock(productID, *update.Stock, *update.Status)
	if err != nil {
		log.Printf("Error updating stock for product %s: %v", productID, err)
		return h.storeError(c, productID, "Could not update stock", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes the product at :id.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return h.storeError(c, productID, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", productID),
	})
}

// parseProductInput decodes and validates a product body.
func parseProductInput(c *fiber.Ctx) (*models.ProductInput, error) {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return &input, nil
}

func productInputError(c *fiber.Ctx, err error) error {
	if errors.Is(err, models.ErrMalformedProduct) {
		return validationFailed(c, models.ErrMalformedProduct.Error(), err)
	}
	return badRequestBody(c, err)
}

// storeError maps service and repository errors onto HTTP responses.
func (h *ProductHandler) storeError(c *fiber.Ctx, productID, message string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %s not found", productID),
		})
	case errors.Is(err, models.ErrMalformedProduct):
		return validationFailed(c, models.ErrMalformedProduct.Error(), err)
	case errors.Is(err, services.ErrCatalogRule):
		return ruleViolation(c, err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
