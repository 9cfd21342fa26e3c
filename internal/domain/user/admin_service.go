// internal/domain/user/admin_service.go
package user

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Backend admin endpoints
const (
	PathUsers      = "/usuarios"
	PathAdminCarts = "/admin/carrinhos"
	PathAdminUser  = "/admin/usuario/"
	PathAdminCart  = "/admin/carrinho/"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// AdminAPI is the subset of the backend client the dashboard needs
type AdminAPI interface {
	Get(ctx context.Context, path string, out any) error
	Delete(ctx context.Context, path string, in, out any) error
}

// AdminService handles admin dashboard operations
type AdminService struct {
	api AdminAPI
	now func() time.Time
}

// NewAdminService creates a new admin service
func NewAdminService(api AdminAPI) *AdminService {
	return &AdminService{api: api, now: time.Now}
}

// Dashboard loads users and carts concurrently; either failure fails the load
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var users []User
	var carts []Cart

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.api.Get(gctx, PathUsers, &users); err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.api.Get(gctx, PathAdminCarts, &carts); err != nil {
			return fmt.Errorf("failed to load carts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if users == nil {
		users = []User{}
	}
	if carts == nil {
		carts = []Cart{}
	}
	return &Dashboard{Users: users, Carts: carts}, nil
}

// DeleteUser removes a user account
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, PathAdminUser+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

// DeleteCart removes a customer cart
func (s *AdminService) DeleteCart(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, PathAdminCart+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", id, err)
	}
	return nil
}

// ExportUsers exports the user list as csv or json and returns the data and a file name
func (s *AdminService) ExportUsers(ctx context.Context, req ExportRequest) ([]byte, string, error) {
	var users []User
	if err := s.api.Get(ctx, PathUsers, &users); err != nil {
		return nil, "", fmt.Errorf("failed to retrieve users for export: %w", err)
	}

	if role := strings.TrimSpace(req.Role); role != "" && !strings.EqualFold(role, "all") {
		filtered := users[:0]
		for _, u := range users {
			if strings.EqualFold(u.Role, role) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	switch strings.ToLower(req.Format) {
	case "", "csv":
		return s.generateCSVExport(users)
	case "json":
		return s.generateJSONExport(users)
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
	}
}

func (s *AdminService) generateCSVExport(users []User) ([]byte, string, error) {
	var csvData strings.Builder
	writer := csv.NewWriter(&csvData)

	if err := writer.Write([]string{"ID", "Nome", "Email", "Tipo"}); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, u := range users {
		if err := writer.Write([]string{u.ID, u.Name, u.Email, u.Role}); err != nil {
			return nil, "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV: %w", err)
	}

	filename := fmt.Sprintf("usuarios_%s.csv", s.now().Format("2006-01-02_15-04-05"))
	return []byte(csvData.String()), filename, nil
}

func (s *AdminService) generateJSONExport(users []User) ([]byte, string, error) {
	if users == nil {
		users = []User{}
	}

	exportedAt := s.now()
	jsonData, err := json.MarshalIndent(map[string]any{
		"exported_at": exportedAt,
		"total_users": len(users),
		"usuarios":    users,
	}, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	filename := fmt.Sprintf("usuarios_%s.json", exportedAt.Format("2006-01-02_15-04-05"))
	return jsonData, filename, nil
}
