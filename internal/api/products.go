package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Product represents a catalog row as returned by the list endpoint
type Product struct {
	ID            int64   `json:"id"`
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	DeviceModel   string  `json:"deviceModel"`
	ProductType   string  `json:"productType"`
	PartBrand     string  `json:"partBrand"`
	QualityGrade  string  `json:"qualityGrade"`
	Stock         int     `json:"stock"`
	Price         float64 `json:"price"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	IsActive      bool    `json:"isActive"`
	LastUpdatedAt string  `json:"lastUpdatedAt"`
}

// ProductDetail represents the full product record
type ProductDetail struct {
	ID              int64   `json:"id"`
	SKU             string  `json:"sku"`
	Name            string  `json:"name"`
	DeviceModelID   int64   `json:"deviceModelId"`
	ProductTypeID   int64   `json:"productTypeId"`
	PartBrandID     int64   `json:"partBrandId"`
	QualityGradeID  int64   `json:"qualityGradeId"`
	DeviceModel     string  `json:"deviceModel"`
	ProductType     string  `json:"productType"`
	PartBrand       string  `json:"partBrand"`
	QualityGrade    string  `json:"qualityGrade"`
	Description     string  `json:"description,omitempty"`
	Stock           int     `json:"stock"`
	IsLowStock      bool    `json:"isLowStock"`
	CostPrice       float64 `json:"costPrice"`
	TechnicianPrice float64 `json:"technicianPrice"`
	RetailPrice     float64 `json:"retailPrice"`
	ImageURL        string  `json:"imageUrl,omitempty"`
	WarrantyDays    int     `json:"warrantyDays,omitempty"`
	IsActive        bool    `json:"isActive"`
	LastUpdatedAt   string  `json:"lastUpdatedAt"`
	CreatedAt       string  `json:"createdAt"`
}

// ProductListParams are the supported list filters
type ProductListParams struct {
	Page     int
	PageSize int
	Search   string
	TypeID   int64
	BrandID  int64
	DeviceID int64
}

// ProductListResponse is a paginated product listing
type ProductListResponse struct {
	Items    []Product `json:"items"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	Total    int       `json:"total"`
	Pages    int       `json:"pages"`
}

// CreateProductRequest creates a new catalog entry
type CreateProductRequest struct {
	DeviceModelID   int64    `json:"deviceModelId"`
	ProductTypeID   int64    `json:"productTypeId"`
	PartBrandID     int64    `json:"partBrandId"`
	QualityGradeID  int64    `json:"qualityGradeId"`
	SKU             string   `json:"sku,omitempty"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Stock           int      `json:"stock"`
	CostPrice       float64  `json:"costPrice"`
	TechnicianPrice float64  `json:"technicianPrice"`
	RetailPrice     float64  `json:"retailPrice"`
	ImageURLs       []string `json:"imageUrls,omitempty"`
	WarrantyDays    int      `json:"warrantyDays,omitempty"`
}

// UpdateProductRequest patches an existing entry; nil fields are untouched
type UpdateProductRequest struct {
	SKU             *string  `json:"sku,omitempty"`
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	DeviceModelID   *int64   `json:"deviceModelId,omitempty"`
	ProductTypeID   *int64   `json:"productTypeId,omitempty"`
	PartBrandID     *int64   `json:"partBrandId,omitempty"`
	QualityGradeID  *int64   `json:"qualityGradeId,omitempty"`
	Stock           *int     `json:"stock,omitempty"`
	CostPrice       *float64 `json:"costPrice,omitempty"`
	TechnicianPrice *float64 `json:"technicianPrice,omitempty"`
	RetailPrice     *float64 `json:"retailPrice,omitempty"`
	WarrantyDays    *int     `json:"warrantyDays,omitempty"`
}

// StockUpdateResponse is returned after a stock adjustment
type StockUpdateResponse struct {
	ProductID  int64 `json:"productId"`
	NewStock   int   `json:"newStock"`
	IsLowStock bool  `json:"isLowStock"`
}

// StatusUpdateResponse is returned after toggling active state
type StatusUpdateResponse struct {
	ProductID int64 `json:"productId"`
	IsActive  bool  `json:"isActive"`
}

// DeviceModel is a reference-data row
type DeviceModel struct {
	ID          int64  `json:"id"`
	DeviceBrand string `json:"deviceBrand"`
	ModelName   string `json:"modelName"`
	FullName    string `json:"fullName"`
	IsActive    bool   `json:"isActive"`
}

// ProductType is a reference-data row
type ProductType struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PartBrand is a reference-data row
type PartBrand struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// QualityGrade is a reference-data row
type QualityGrade struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (p ProductListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.TypeID > 0 {
		q.Set("typeId", strconv.FormatInt(p.TypeID, 10))
	}
	if p.BrandID > 0 {
		q.Set("brandId", strconv.FormatInt(p.BrandID, 10))
	}
	if p.DeviceID > 0 {
		q.Set("deviceId", strconv.FormatInt(p.DeviceID, 10))
	}
	return q
}

// ListProducts returns a filtered, paginated product listing
func (c *Client) ListProducts(ctx context.Context, params ProductListParams) (*ProductListResponse, error) {
	var resp ProductListResponse
	if err := c.get(ctx, "/products", params.values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProductByID returns the full record for a product
func (c *Client) ProductByID(ctx context.Context, id int64) (*ProductDetail, error) {
	var detail ProductDetail
	if err := c.get(ctx, fmt.Sprintf("/products/%d", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ProductBySKU returns the full record for a product looked up by SKU
func (c *Client) ProductBySKU(ctx context.Context, sku string) (*ProductDetail, error) {
	var detail ProductDetail
	if err := c.get(ctx, "/products/by-sku/"+url.PathEscape(sku), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateProduct creates a catalog entry
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductDetail, error) {
	var detail ProductDetail
	if err := c.post(ctx, "/products", req, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateProduct patches a catalog entry
func (c *Client) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (*ProductDetail, error) {
	var detail ProductDetail
	if err := c.put(ctx, fmt.Sprintf("/products/%d", id), req, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteProduct removes a catalog entry
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/products/%d", id))
}

// UpdateStock sets the absolute stock level of a product
func (c *Client) UpdateStock(ctx context.Context, id int64, newStock int) (*StockUpdateResponse, error) {
	var resp StockUpdateResponse
	body := map[string]int{"newStock": newStock}
	if err := c.patch(ctx, fmt.Sprintf("/products/%d/stock", id), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateStatus toggles a product's active flag
func (c *Client) UpdateStatus(ctx context.Context, id int64, isActive bool) (*StatusUpdateResponse, error) {
	var resp StatusUpdateResponse
	body := map[string]bool{"isActive": isActive}
	if err := c.patch(ctx, fmt.Sprintf("/products/%d/status", id), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeviceModels returns the device model reference data
func (c *Client) DeviceModels(ctx context.Context) ([]DeviceModel, error) {
	var out []DeviceModel
	if err := c.get(ctx, "/device-models", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductTypes returns the product type reference data
func (c *Client) ProductTypes(ctx context.Context) ([]ProductType, error) {
	var out []ProductType
	if err := c.get(ctx, "/product-types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PartBrands returns the part brand reference data
func (c *Client) PartBrands(ctx context.Context) ([]PartBrand, error) {
	var out []PartBrand
	if err := c.get(ctx, "/part-brands", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// QualityGrades returns the quality grade reference data
func (c *Client) QualityGrades(ctx context.Context) ([]QualityGrade, error) {
	var out []QualityGrade
	if err := c.get(ctx, "/quality-grades", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
