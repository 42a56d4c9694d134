package repositories_test

import (
	"fmt"
	"testing"

	"katalog/internal/models"
	"katalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func catalog() []models.Product {
	return []models.Product{
		{ID: "a", Name: "Widget", SKU: "WID-1", Category: "Tools", Description: "A widget", Price: 9.99, Stock: 5, Status: models.StatusInStock},
		{ID: "b", Name: "Gadget", Category: "Tools", Description: "A gadget", Price: 19.5, Stock: 1, Status: models.StatusLowStock},
		{ID: "c", Name: "Sprocket", Category: "Parts", Description: "Steel sprocket", Price: 4.25, Stock: 0, Status: models.StatusOutOfStock},
		{ID: "d", Name: "Bracket", Category: "Parts", Description: "Wall bracket", Price: 4.25, Stock: 40, Status: models.StatusInStock},
	}
}

func newGORMRepo(t *testing.T) *repositories.GORMProductRepository {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return repositories.NewGORMProductRepository(db)
}

// repositoryContract runs the same checks against every ProductRepository implementation.
func repositoryContract(t *testing.T, repo repositories.ProductRepository) {
	for _, p := range catalog() {
		p := p
		assert.NoError(t, repo.Create(&p))
	}

	t.Run("GetAllSortedByName", func(t *testing.T) {
		products, err := repo.GetAll()
		assert.NoError(t, err)
		assert.Equal(t, []string{"d", "b", "c", "a"}, ids(products))
	})

	t.Run("StockFilter", func(t *testing.T) {
		products, err := repo.List(models.ProductQuery{Stock: models.StockFilterIn})
		assert.NoError(t, err)
		assert.Equal(t, []string{"d", "a"}, ids(products))

		products, err = repo.List(models.ProductQuery{Stock: models.StockFilterLow})
		assert.NoError(t, err)
		assert.Equal(t, []string{"b"}, ids(products))

		products, err = repo.List(models.ProductQuery{Stock: models.StockFilterOut})
		assert.NoError(t, err)
		assert.Equal(t, []string{"c"}, ids(products))
	})

	t.Run("SortByPriceDesc", func(t *testing.T) {
		products, err := repo.List(models.ProductQuery{SortBy: models.SortByPrice, Order: models.SortDesc})
		assert.NoError(t, err)
		assert.Equal(t, []string{"b", "a", "c", "d"}, ids(products))
	})

	t.Run("CategoryAndSearch", func(t *testing.T) {
		products, err := repo.List(models.ProductQuery{Category: "Parts", Search: "WALL"})
		assert.NoError(t, err)
		assert.Equal(t, []string{"d"}, ids(products))

		products, err = repo.List(models.ProductQuery{Search: "wid-1"})
		assert.NoError(t, err)
		assert.Equal(t, []string{"a"}, ids(products))
	})

	t.Run("SearchIsLiteral", func(t *testing.T) {
		pad := models.Product{ID: "e", Name: "Pad", Category: "Cleaning", Description: "100% steel_wool", Price: 2, Stock: 9, Status: models.StatusInStock}
		assert.NoError(t, repo.Create(&pad))
		defer func() { assert.NoError(t, repo.Delete("e")) }()

		for search, want := range map[string][]string{
			"%":      {"e"},
			"l_w":    {"e"},
			"w_dget": {},
			"s%l":    {},
			`\`:      {},
		} {
			products, err := repo.List(models.ProductQuery{Search: search})
			assert.NoError(t, err, search)
			assert.Equal(t, want, ids(products), "search %q", search)
		}
	})

	t.Run("StoredCopiesAreIndependent", func(t *testing.T) {
		threshold, days := 3, 10
		p := models.Product{ID: "f", Name: "Hinge", Category: "Parts", Description: "Door hinge", Price: 1, Stock: 2,
			Status: models.StatusLowStock, LowStockThreshold: &threshold, ForecastedDays: &days}
		assert.NoError(t, repo.Create(&p))
		defer func() { assert.NoError(t, repo.Delete("f")) }()

		threshold = 99
		got, err := repo.GetByID("f")
		assert.NoError(t, err)
		if assert.NotNil(t, got.LowStockThreshold) {
			assert.Equal(t, 3, *got.LowStockThreshold)
			*got.LowStockThreshold = 50
		}

		again, err := repo.GetByID("f")
		assert.NoError(t, err)
		assert.Equal(t, 3, *again.LowStockThreshold)
		assert.Equal(t, 10, *again.ForecastedDays)
	})

	t.Run("InvalidQuery", func(t *testing.T) {
		_, err := repo.List(models.ProductQuery{Order: "sideways"})
		assert.ErrorIs(t, err, models.ErrInvalidSortOrder)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		dup := catalog()[0]
		assert.ErrorIs(t, repo.Create(&dup), repositories.ErrDuplicateProduct)
	})

	t.Run("GeneratesID", func(t *testing.T) {
		p := models.Product{Name: "Nut", Category: "Parts", Description: "Hex nut", Price: 0.1, Stock: 100, Status: models.StatusInStock}
		assert.NoError(t, repo.Create(&p))
		assert.NotEmpty(t, p.ID)
		assert.NoError(t, repo.Delete(p.ID))
	})

	t.Run("UpdateKeepsOptionalFields", func(t *testing.T) {
		threshold := 2
		p := catalog()[1]
		p.Stock = 0
		p.Status = models.StatusOutOfStock
		p.LowStockThreshold = &threshold
		assert.NoError(t, repo.Update(&p))

		got, err := repo.GetByID("b")
		assert.NoError(t, err)
		assert.Equal(t, models.StatusOutOfStock, got.Status)
		assert.Equal(t, 0, got.Stock)
		if assert.NotNil(t, got.LowStockThreshold) {
			assert.Equal(t, 2, *got.LowStockThreshold)
		}
		assert.Nil(t, got.ForecastedDays)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.GetByID("missing")
		assert.ErrorIs(t, err, repositories.ErrProductNotFound)

		missing := models.Product{ID: "missing"}
		assert.ErrorIs(t, repo.Update(&missing), repositories.ErrProductNotFound)
		assert.ErrorIs(t, repo.Delete("missing"), repositories.ErrProductNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		assert.NoError(t, repo.Delete("c"))
		_, err := repo.GetByID("c")
		assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	})
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestMockProductRepository(t *testing.T) {
	repositoryContract(t, repositories.NewMockProductRepository())
}

func TestGORMProductRepository(t *testing.T) {
	repositoryContract(t, newGORMRepo(t))
}
