package catalog

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound indicates the requested product or bundle does not exist.
var ErrNotFound = errors.New("catalog entry not found")

// ServiceConfig wires the catalog service.
type ServiceConfig struct {
	Products []Product
	Bundles  []Bundle
	Cache    *Cache
}

// Service exposes read-only catalog queries. The product list is immutable for
// the lifetime of the process; order follows the catalog document.
type Service struct {
	products []Product
	bundles  []Bundle
	byID     map[string]Product
	cache    *Cache
}

// NewService indexes the provided catalog.
func NewService(cfg ServiceConfig) (*Service, error) {
	if len(cfg.Products) == 0 {
		return nil, errors.New("catalog: no products configured")
	}
	byID := make(map[string]Product, len(cfg.Products))
	for _, p := range cfg.Products {
		byID[p.ID] = p
	}
	return &Service{
		products: append([]Product(nil), cfg.Products...),
		bundles:  append([]Bundle(nil), cfg.Bundles...),
		byID:     byID,
		cache:    cfg.Cache,
	}, nil
}

// Products returns the full catalog in document order.
func (s *Service) Products() []Product {
	return append([]Product(nil), s.products...)
}

// ProductByID resolves a single product.
func (s *Service) ProductByID(id string) (Product, bool) {
	p, ok := s.byID[strings.TrimSpace(id)]
	return p, ok
}

// Bundles returns all configured bundles.
func (s *Service) Bundles() []Bundle {
	return append([]Bundle(nil), s.bundles...)
}

// BundleByID resolves a single bundle.
func (s *Service) BundleByID(id string) (Bundle, bool) {
	id = strings.TrimSpace(id)
	for _, b := range s.bundles {
		if b.ID == id {
			return b, true
		}
	}
	return Bundle{}, false
}

// ListQuery filters the product listing.
type ListQuery struct {
	Category Category
	Featured bool
	Country  string
}

// CacheKey derives a stable cache key for the query.
func (q ListQuery) CacheKey() string {
	parts := []string{"catalog:list", string(q.Category), q.Country}
	if q.Featured {
		parts = append(parts, "featured")
	}
	return strings.Join(parts, ":")
}

// List returns products matching the query, preserving catalog order. Results
// are served from the cache when one is configured.
func (s *Service) List(ctx context.Context, q ListQuery) []Product {
	key := q.CacheKey()
	var cached []Product
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached
	}

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Featured && !p.Featured {
			continue
		}
		if !p.AvailableFor(q.Country) {
			continue
		}
		out = append(out, p)
	}

	_ = s.cache.SetJSON(ctx, key, out)
	return out
}

// CategorySummary pairs a category with the number of products it holds.
type CategorySummary struct {
	Name  Category `json:"name"`
	Count int      `json:"count"`
}

// CategorySummaries reports per-category product counts in canonical order.
func (s *Service) CategorySummaries() []CategorySummary {
	counts := make(map[Category]int, len(s.products))
	for _, p := range s.products {
		counts[p.Category]++
	}
	out := make([]CategorySummary, 0, len(counts))
	for _, c := range Categories() {
		out = append(out, CategorySummary{Name: c, Count: counts[c]})
	}
	return out
}
