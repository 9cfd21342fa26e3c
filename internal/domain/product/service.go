// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// PathProducts is the backend catalog endpoint
const PathProducts = "/produtos"

// ErrInvalidPrice is returned when a product is submitted without a positive price
var ErrInvalidPrice = errors.New("preço deve ser maior que zero")

// API is the subset of the backend client the catalog needs
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Put(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string, in, out any) error
}

// Service handles catalog operations
type Service struct {
	api API
}

// NewService creates a new product service
func NewService(api API) *Service {
	return &Service{api: api}
}

// List loads the catalog and applies the optional filters
func (s *Service) List(ctx context.Context, req ListRequest) ([]Product, error) {
	var products []Product
	if err := s.api.Get(ctx, PathProducts, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}

	search := strings.ToLower(strings.TrimSpace(req.Search))
	category := strings.TrimSpace(req.Category)
	if search == "" && category == "" {
		return products, nil
	}

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

// Create adds a product to the catalog
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Product, error) {
	if !req.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	req.Category = strings.TrimSpace(req.Category)

	var created Product
	if err := s.api.Post(ctx, PathProducts, req, &created); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &created, nil
}

// Update changes name, price and category of a product
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Product, error) {
	if !req.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	req.Category = strings.TrimSpace(req.Category)

	var updated Product
	if err := s.api.Put(ctx, productPath(id), req, &updated); err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return &updated, nil
}

// Delete removes a product from the catalog
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, productPath(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

func productPath(id string) string {
	return PathProducts + "/" + url.PathEscape(id)
}
