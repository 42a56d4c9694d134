package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSortOrder   = errors.New("invalid sort order")
	ErrInvalidStockFilter = errors.New("invalid stock filter")
	ErrInvalidSortField   = errors.New("invalid sort field")
)

// SortOrder is the direction of a sorted listing.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// ParseSortOrder accepts exactly "asc" or "desc".
func ParseSortOrder(raw string) (SortOrder, error) {
	o := SortOrder(raw)
	if !o.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, raw)
	}
	return o, nil
}

func (o *SortOrder) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: must be a string", ErrInvalidSortOrder)
	}
	parsed, err := ParseSortOrder(raw)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// StockFilter selects products by stock status. The zero value means no filter.
type StockFilter string

const (
	StockFilterNone StockFilter = ""
	StockFilterLow  StockFilter = "low"
	StockFilterOut  StockFilter = "out"
	StockFilterIn   StockFilter = "in"
)

func (f StockFilter) IsValid() bool {
	switch f {
	case StockFilterNone, StockFilterLow, StockFilterOut, StockFilterIn:
		return true
	}
	return false
}

// ParseStockFilter accepts exactly "", "low", "out" or "in".
func ParseStockFilter(raw string) (StockFilter, error) {
	f := StockFilter(raw)
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStockFilter, raw)
	}
	return f, nil
}

func (f *StockFilter) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: must be a string", ErrInvalidStockFilter)
	}
	parsed, err := ParseStockFilter(raw)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Status returns the stock status the filter selects. ok is false for StockFilterNone.
func (f StockFilter) Status() (status StockStatus, ok bool) {
	switch f {
	case StockFilterLow:
		return StatusLowStock, true
	case StockFilterOut:
		return StatusOutOfStock, true
	case StockFilterIn:
		return StatusInStock, true
	}
	return "", false
}

// Matches reports whether p passes the filter. Only the status tag is consulted.
func (f StockFilter) Matches(p Product) bool {
	status, ok := f.Status()
	return !ok || p.Status == status
}

// SortField is the product attribute a listing is ordered by.
type SortField string

const (
	SortByName     SortField = "name"
	SortByPrice    SortField = "price"
	SortByStock    SortField = "stock"
	SortByCategory SortField = "category"
)

func (s SortField) IsValid() bool {
	switch s {
	case SortByName, SortByPrice, SortByStock, SortByCategory:
		return true
	}
	return false
}

// ProductQuery narrows and orders a product listing.
type ProductQuery struct {
	Category string
	Search   string
	Stock    StockFilter
	SortBy   SortField
	Order    SortOrder
}

// ParseProductQuery builds a query from raw request parameters.
// Empty sort and order fall back to name ascending.
func ParseProductQuery(category, search, stock, sortBy, order string) (ProductQuery, error) {
	q := ProductQuery{
		Category: strings.TrimSpace(category),
		Search:   strings.TrimSpace(search),
		Stock:    StockFilter(stock),
		SortBy:   SortField(sortBy),
		Order:    SortOrder(order),
	}
	return q.Normalize()
}

// Normalize fills in the default sort and checks every enum in the query.
func (q ProductQuery) Normalize() (ProductQuery, error) {
	if q.SortBy == "" {
		q.SortBy = SortByName
	}
	if q.Order == "" {
		q.Order = SortAsc
	}
	if !q.Stock.IsValid() {
		return ProductQuery{}, fmt.Errorf("%w: %q", ErrInvalidStockFilter, q.Stock)
	}
	if !q.SortBy.IsValid() {
		return ProductQuery{}, fmt.Errorf("%w: %q", ErrInvalidSortField, q.SortBy)
	}
	if !q.Order.IsValid() {
		return ProductQuery{}, fmt.Errorf("%w: %q", ErrInvalidSortOrder, q.Order)
	}
	return q, nil
}

// Matches reports whether p satisfies the query's category, search and stock filters.
func (q ProductQuery) Matches(p Product) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.SKU), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return q.Stock.Matches(p)
}

// Less orders a before b according to the query, breaking ties by ID.
func (q ProductQuery) Less(a, b Product) bool {
	var cmp int
	switch q.SortBy {
	case SortByPrice:
		cmp = compareFloat(a.Price, b.Price)
	case SortByStock:
		cmp = compareInt(a.Stock, b.Stock)
	case SortByCategory:
		cmp = strings.Compare(a.Category, b.Category)
	default:
		cmp = strings.Compare(a.Name, b.Name)
	}
	if cmp == 0 {
		return a.ID < b.ID
	}
	if q.Order == SortDesc {
		return cmp > 0
	}
	return cmp < 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
