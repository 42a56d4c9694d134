package models_test

import (
	"encoding/json"
	"sort"
	"testing"

	"katalog/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseSortOrder(t *testing.T) {
	order, err := models.ParseSortOrder("asc")
	assert.NoError(t, err)
	assert.Equal(t, models.SortAsc, order)

	order, err = models.ParseSortOrder("desc")
	assert.NoError(t, err)
	assert.Equal(t, models.SortDesc, order)

	for _, raw := range []string{"", "ASC", "Desc", "ascending", "up"} {
		_, err := models.ParseSortOrder(raw)
		assert.ErrorIs(t, err, models.ErrInvalidSortOrder, "order %q", raw)
	}
}

func TestParseStockFilter(t *testing.T) {
	for _, raw := range []string{"", "low", "out", "in"} {
		filter, err := models.ParseStockFilter(raw)
		assert.NoError(t, err, "filter %q", raw)
		assert.Equal(t, models.StockFilter(raw), filter)
	}
	for _, raw := range []string{"LOW", "all", "instock", " in"} {
		_, err := models.ParseStockFilter(raw)
		assert.ErrorIs(t, err, models.ErrInvalidStockFilter, "filter %q", raw)
	}
}

func TestEnums_UnmarshalJSON(t *testing.T) {
	var order models.SortOrder
	assert.NoError(t, json.Unmarshal([]byte(`"desc"`), &order))
	assert.Equal(t, models.SortDesc, order)
	assert.ErrorIs(t, json.Unmarshal([]byte(`"down"`), &order), models.ErrInvalidSortOrder)

	var filter models.StockFilter
	assert.NoError(t, json.Unmarshal([]byte(`""`), &filter))
	assert.Equal(t, models.StockFilterNone, filter)
	assert.ErrorIs(t, json.Unmarshal([]byte(`"empty"`), &filter), models.ErrInvalidStockFilter)
}

func TestStockFilter_Matches(t *testing.T) {
	in := models.Product{ID: "a", Status: models.StatusInStock, Stock: 0}
	low := models.Product{ID: "b", Status: models.StatusLowStock, Stock: 100}
	out := models.Product{ID: "c", Status: models.StatusOutOfStock, Stock: 7}

	assert.True(t, models.StockFilterNone.Matches(in))
	assert.True(t, models.StockFilterNone.Matches(out))

	// Only the status tag decides, never the stock count.
	assert.True(t, models.StockFilterIn.Matches(in))
	assert.False(t, models.StockFilterIn.Matches(low))
	assert.True(t, models.StockFilterLow.Matches(low))
	assert.False(t, models.StockFilterLow.Matches(out))
	assert.True(t, models.StockFilterOut.Matches(out))
	assert.False(t, models.StockFilterOut.Matches(in))
}

func TestParseProductQuery_Defaults(t *testing.T) {
	q, err := models.ParseProductQuery(" Tools ", "", "", "", "")
	assert.NoError(t, err)
	assert.Equal(t, models.ProductQuery{
		Category: "Tools",
		Stock:    models.StockFilterNone,
		SortBy:   models.SortByName,
		Order:    models.SortAsc,
	}, q)
}

func TestParseProductQuery_Invalid(t *testing.T) {
	_, err := models.ParseProductQuery("", "", "none", "", "")
	assert.ErrorIs(t, err, models.ErrInvalidStockFilter)

	_, err = models.ParseProductQuery("", "", "", "rating", "")
	assert.ErrorIs(t, err, models.ErrInvalidSortField)

	_, err = models.ParseProductQuery("", "", "", "price", "DESC")
	assert.ErrorIs(t, err, models.ErrInvalidSortOrder)
}

func TestProductQuery_MatchesAndSorts(t *testing.T) {
	products := []models.Product{
		{ID: "1", Name: "Hammer", SKU: "HAM-1", Category: "Tools", Description: "Claw hammer", Price: 15, Stock: 3, Status: models.StatusLowStock},
		{ID: "2", Name: "Wrench", Category: "Tools", Description: "Adjustable", Price: 12, Stock: 20, Status: models.StatusInStock},
		{ID: "3", Name: "Bolt", Category: "Hardware", Description: "M6 bolt", Price: 0.2, Stock: 0, Status: models.StatusOutOfStock},
		{ID: "4", Name: "Saw", Category: "Tools", Description: "Hand saw", Price: 12, Stock: 8, Status: models.StatusInStock},
	}

	q, err := models.ParseProductQuery("Tools", "", "", "price", "desc")
	assert.NoError(t, err)

	var got []string
	filtered := make([]models.Product, 0)
	for _, p := range products {
		if q.Matches(p) {
			filtered = append(filtered, p)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return q.Less(filtered[i], filtered[j]) })
	for _, p := range filtered {
		got = append(got, p.ID)
	}
	// Equal prices fall back to ID order.
	assert.Equal(t, []string{"1", "2", "4"}, got)

	q, err = models.ParseProductQuery("", "ham", "low", "", "")
	assert.NoError(t, err)
	assert.True(t, q.Matches(products[0]))
	assert.False(t, q.Matches(products[1]))

	q, err = models.ParseProductQuery("", "m6", "", "", "")
	assert.NoError(t, err)
	assert.True(t, q.Matches(products[2]))
}
