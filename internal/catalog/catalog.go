// Package catalog serves the product list. Products come from the backend;
// in development mode an unreachable backend falls back to the built-in demo
// catalog so the storefront stays usable offline.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/shopkit/storefront/internal/models"
)

// Fetcher retrieves the remote product catalog.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
}

// Catalog wraps the backend fetch with the development fallback.
type Catalog struct {
	fetcher     Fetcher
	devFallback bool
}

// New creates a catalog. devFallback enables the built-in demo products when
// the backend fetch fails.
func New(fetcher Fetcher, devFallback bool) *Catalog {
	return &Catalog{fetcher: fetcher, devFallback: devFallback}
}

// List returns the current product catalog.
func (c *Catalog) List(ctx context.Context) ([]models.Product, error) {
	products, err := c.fetcher.FetchProducts(ctx)
	if err != nil {
		if c.devFallback {
			log.Warn("Catalog fetch failed, using demo products: ", err)
			return Defaults(), nil
		}
		return nil, err
	}
	return products, nil
}

// Defaults returns the demo product catalog.
func Defaults() []models.Product {
	demo := []struct {
		id    int
		name  string
		price string
	}{
		{1, "Laptop", "999.99"},
		{2, "Smartphone", "699.99"},
		{3, "Headphones", "199.99"},
		{4, "Tablet", "449.99"},
		{5, "Wireless Mouse", "29.99"},
		{6, "Keyboard", "89.99"},
		{7, "Monitor", "299.99"},
		{8, "USB Drive", "19.99"},
	}

	products := make([]models.Product, 0, len(demo))
	for _, d := range demo {
		products = append(products, models.Product{
			ID:    d.id,
			Name:  d.name,
			Price: decimal.RequireFromString(d.price),
		})
	}
	return products
}
