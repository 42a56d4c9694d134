package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"katalog/internal/models"

	"github.com/go-playground/validator/v10"
)

// ErrCatalogRule is returned when a well-formed product breaks a catalog limit,
// such as a negative price. It is distinct from models.ErrMalformedProduct.
var ErrCatalogRule = errors.New("product breaks catalog rules")

// RuleError lists the fields that break catalog limits, keyed by JSON name.
type RuleError struct {
	Fields map[string]string
}

func (e *RuleError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", ErrCatalogRule, strings.Join(names, ", "))
}

func (e *RuleError) Unwrap() error {
	return ErrCatalogRule
}

// catalogLimits holds the quantities the catalog refuses to store below zero.
// forecastedStock may go negative to express a projected shortfall.
type catalogLimits struct {
	Price             float64 `json:"price" validate:"gte=0"`
	Stock             int     `json:"stock" validate:"gte=0"`
	LowStockThreshold *int    `json:"lowStockThreshold" validate:"omitempty,gte=0"`
	ForecastedDays    *int    `json:"forecastedDays" validate:"omitempty,gte=0"`
}

var limitValidator = models.NewValidator()

// CheckCatalogRules applies the catalog's business limits to a product.
func CheckCatalogRules(p *models.Product) error {
	err := limitValidator.Struct(catalogLimits{
		Price:             p.Price,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		ForecastedDays:    p.ForecastedDays,
	})
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrCatalogRule, err)
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = fmt.Sprintf("Field '%s' must not be negative", e.Field())
	}
	return &RuleError{Fields: fields}
}
