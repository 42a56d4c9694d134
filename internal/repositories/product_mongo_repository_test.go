package repositories

import (
	"testing"
	"time"

	"katalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const productsNS = "katalog.products"

func TestMongoFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, mongoFilter(models.ProductQuery{}))

	filter := mongoFilter(models.ProductQuery{Category: "Tools", Stock: models.StockFilterLow})
	assert.Equal(t, bson.M{"category": "Tools", "status": models.StatusLowStock}, filter)

	filter = mongoFilter(models.ProductQuery{Search: "a.b"})
	pattern := bson.M{"$regex": `a\.b`, "$options": "i"}
	assert.Equal(t, bson.A{
		bson.M{"name": pattern},
		bson.M{"sku": pattern},
		bson.M{"description": pattern},
	}, filter["$or"])
}

func TestMongoSort(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}},
		mongoSort(models.ProductQuery{SortBy: models.SortByPrice, Order: models.SortDesc}))
	assert.Equal(t,
		bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}},
		mongoSort(models.ProductQuery{SortBy: models.SortByName, Order: models.SortAsc}))
}

func productDoc(t *testing.T, p models.Product) bson.D {
	t.Helper()
	raw, err := bson.Marshal(p)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func found(t *testing.T, products ...models.Product) bson.D {
	docs := make([]bson.D, 0, len(products))
	for _, p := range products {
		docs = append(docs, productDoc(t, p))
	}
	return mtest.CreateCursorResponse(0, productsNS, mtest.FirstBatch, docs...)
}

func affected(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

func TestMongoProductRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	widget := models.Product{ID: "a", Name: "Widget", SKU: "WID-1", Category: "Tools", Description: "A widget", Price: 9.99, Stock: 5, Status: models.StatusInStock}
	gadget := models.Product{ID: "b", Name: "Gadget", Category: "Tools", Description: "A gadget", Price: 19.5, Stock: 1, Status: models.StatusLowStock}

	mt.Run("List", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(found(mt.T, gadget, widget))

		products, err := repo.List(models.ProductQuery{Category: "Tools"})
		assert.NoError(mt, err)
		if assert.Len(mt, products, 2) {
			assert.Equal(mt, "b", products[0].ID)
			assert.Equal(mt, models.StatusLowStock, products[0].Status)
			assert.Equal(mt, "WID-1", products[1].SKU)
		}

		_, err = repo.List(models.ProductQuery{Stock: "backordered"})
		assert.ErrorIs(mt, err, models.ErrInvalidStockFilter)
	})

	mt.Run("ListEmpty", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(found(mt.T))

		products, err := repo.List(models.ProductQuery{})
		assert.NoError(mt, err)
		assert.NotNil(mt, products)
		assert.Empty(mt, products)
	})

	mt.Run("GetByID", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(found(mt.T, widget), found(mt.T))

		got, err := repo.GetByID("a")
		assert.NoError(mt, err)
		assert.Equal(mt, "Widget", got.Name)

		_, err = repo.GetByID("missing")
		assert.ErrorIs(mt, err, ErrProductNotFound)
	})

	mt.Run("Create", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := gadget
		p.ID = ""
		assert.NoError(mt, repo.Create(&p))
		assert.NotEmpty(mt, p.ID)
		assert.False(mt, p.CreatedAt.IsZero())
	})

	mt.Run("CreateDuplicate", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		p := widget
		assert.ErrorIs(mt, repo.Create(&p), ErrDuplicateProduct)
	})

	mt.Run("UpdateKeepsCreatedAt", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		stored := widget
		stored.CreatedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		mt.AddMockResponses(found(mt.T, stored), affected(1))

		p := widget
		p.Stock = 0
		p.Status = models.StatusOutOfStock
		assert.NoError(mt, repo.Update(&p))
		assert.True(mt, p.CreatedAt.Equal(stored.CreatedAt), "created at %v", p.CreatedAt)
		assert.True(mt, p.UpdatedAt.After(stored.CreatedAt))
	})

	mt.Run("UpdateMissing", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		// Missing on lookup, then removed between lookup and replace.
		mt.AddMockResponses(found(mt.T), found(mt.T, widget), affected(0))

		p := widget
		assert.ErrorIs(mt, repo.Update(&p), ErrProductNotFound)
		assert.ErrorIs(mt, repo.Update(&p), ErrProductNotFound)
	})

	mt.Run("Delete", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(affected(1), affected(0))

		assert.NoError(mt, repo.Delete("a"))
		assert.ErrorIs(mt, repo.Delete("a"), ErrProductNotFound)
	})
}
