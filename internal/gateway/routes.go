package gateway

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// RouteRule declares guard requirements for a path prefix
type RouteRule struct {
	Path         string `yaml:"path" validate:"required,startswith=/"`
	RequiresAuth bool   `yaml:"requiresAuth"`
	Role         string `yaml:"role,omitempty" validate:"omitempty,oneof=admin user"`
}

// RouteTable maps request paths to guard rules, longest prefix first
type RouteTable struct {
	Routes []RouteRule `yaml:"routes"`
}

// DefaultRouteTable covers the standard API surface: admin paths need the
// admin role, the public gallery is open, everything else needs a session.
func DefaultRouteTable() *RouteTable {
	return &RouteTable{Routes: []RouteRule{
		{Path: "/api/admin/", RequiresAuth: true, Role: "admin"},
		{Path: "/api/users/", RequiresAuth: true},
		{Path: "/api/products", RequiresAuth: true},
		{Path: "/api/device-models", RequiresAuth: true},
		{Path: "/api/product-types", RequiresAuth: true},
		{Path: "/api/part-brands", RequiresAuth: true},
		{Path: "/api/quality-grades", RequiresAuth: true},
		{Path: "/api/pos/", RequiresAuth: true},
		{Path: "/api/gallery/upload", RequiresAuth: true},
		{Path: "/api/gallery", RequiresAuth: false},
	}}
}

// LoadRouteTable reads and validates a YAML route table
func LoadRouteTable(path string) (*RouteTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route table: %w", err)
	}

	var table RouteTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse route table: %w", err)
	}

	validate := validator.New()
	for i, rule := range table.Routes {
		if err := validate.Struct(rule); err != nil {
			return nil, fmt.Errorf("invalid route rule %d (%s): %w", i, rule.Path, err)
		}
	}
	return &table, nil
}

// Match returns the rule with the longest matching prefix. Unlisted paths
// fall back to requiring authentication: fail closed, not open.
func (t *RouteTable) Match(path string) RouteRule {
	best := RouteRule{RequiresAuth: true}
	bestLen := -1
	for _, rule := range t.Routes {
		if strings.HasPrefix(path, rule.Path) && len(rule.Path) > bestLen {
			best = rule
			bestLen = len(rule.Path)
		}
	}
	return best
}
