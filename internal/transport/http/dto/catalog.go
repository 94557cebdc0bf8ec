package dto

import (
	"time"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/google/uuid"
)

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" binding:"gte=0"`
	Quantity    int32  `json:"quantity" binding:"gte=0"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	Quantity    *int32  `json:"quantity"`
	IsActive    *bool   `json:"is_active"`
}

type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Quantity    int32     `json:"quantity"`
	HasOptions  bool      `json:"has_options"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Quantity:    p.Quantity,
		HasOptions:  p.HasOptions,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int64             `json:"total"`
}

type CreateGroupRequest struct {
	Name          string     `json:"name" binding:"required"`
	SelectionType string     `json:"selection_type"`
	ParentGroupID *uuid.UUID `json:"parent_group_id"`
	IsParent      bool       `json:"is_parent"`
	SortOrder     int32      `json:"sort_order"`
}

type UpdateGroupRequest struct {
	Name          *string    `json:"name"`
	SelectionType *string    `json:"selection_type"`
	ParentGroupID *uuid.UUID `json:"parent_group_id"`
	IsParent      *bool      `json:"is_parent"`
	SortOrder     *int32     `json:"sort_order"`
}

type OptionResponse struct {
	ID            uuid.UUID `json:"id"`
	OptionGroupID uuid.UUID `json:"option_group_id"`
	Name          string    `json:"name"`
	PriceType     string    `json:"price_type"`
	// Центы для BASE/FIXED, процент для PERCENTAGE
	PriceValue  int64 `json:"price_value"`
	IsDefault   bool  `json:"is_default"`
	IsAvailable bool  `json:"is_available"`
	Stock       int32 `json:"stock"`
	SortOrder   int32 `json:"sort_order"`
}

func ToOptionResponse(o *models.Option) OptionResponse {
	return OptionResponse{
		ID:            o.ID,
		OptionGroupID: o.OptionGroupID,
		Name:          o.Name,
		PriceType:     string(o.PriceType),
		PriceValue:    o.PriceValue,
		IsDefault:     o.IsDefault,
		IsAvailable:   o.IsAvailable,
		Stock:         o.Stock,
		SortOrder:     o.SortOrder,
	}
}

type GroupResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProductID     uuid.UUID        `json:"product_id"`
	Name          string           `json:"name"`
	SelectionType string           `json:"selection_type"`
	Level         int32            `json:"level"`
	ParentGroupID *uuid.UUID       `json:"parent_group_id,omitempty"`
	IsParent      bool             `json:"is_parent"`
	SortOrder     int32            `json:"sort_order"`
	Options       []OptionResponse `json:"options,omitempty"`
}

func ToGroupResponse(g *models.OptionGroup) GroupResponse {
	resp := GroupResponse{
		ID:            g.ID,
		ProductID:     g.ProductID,
		Name:          g.Name,
		SelectionType: string(g.SelectionType),
		Level:         g.Level,
		ParentGroupID: g.ParentGroupID,
		IsParent:      g.IsParent,
		SortOrder:     g.SortOrder,
	}
	for i := range g.Options {
		resp.Options = append(resp.Options, ToOptionResponse(&g.Options[i]))
	}
	return resp
}

type CreateOptionRequest struct {
	Name        string `json:"name" binding:"required"`
	PriceType   string `json:"price_type"`
	PriceValue  *int64 `json:"price_value"`
	IsDefault   bool   `json:"is_default"`
	IsAvailable *bool  `json:"is_available"`
	Stock       int32  `json:"stock" binding:"gte=0"`
	SortOrder   int32  `json:"sort_order"`
}

type UpdateOptionRequest struct {
	Name        *string `json:"name"`
	PriceType   *string `json:"price_type"`
	PriceValue  *int64  `json:"price_value"`
	IsDefault   *bool   `json:"is_default"`
	IsAvailable *bool   `json:"is_available"`
	Stock       *int32  `json:"stock"`
	SortOrder   *int32  `json:"sort_order"`
}

type CreateVariantRequest struct {
	Name                 string      `json:"name"`
	OptionIDs            []uuid.UUID `json:"option_ids" binding:"required,min=1"`
	Stock                int32       `json:"stock" binding:"gte=0"`
	PriceAdjustmentCents *int64      `json:"price_adjustment_cents"`
	IsActive             *bool       `json:"is_active"`
}

type ResolveVariantRequest struct {
	SelectedOptionIDs []uuid.UUID `json:"selected_option_ids" binding:"required,min=1"`
}

type UpdateVariantStockRequest struct {
	Stock int32 `json:"stock" binding:"gte=0"`
}

type VariantResponse struct {
	ID                   uuid.UUID   `json:"id"`
	ProductID            uuid.UUID   `json:"product_id"`
	Name                 string      `json:"name"`
	Stock                int32       `json:"stock"`
	PriceAdjustmentCents int64       `json:"price_adjustment_cents"`
	OptionHash           string      `json:"option_hash"`
	OptionPath           string      `json:"option_path,omitempty"`
	IsActive             bool        `json:"is_active"`
	OptionIDs            []uuid.UUID `json:"option_ids,omitempty"`
}

func ToVariantResponse(v *models.Variant) VariantResponse {
	resp := VariantResponse{
		ID:                   v.ID,
		ProductID:            v.ProductID,
		Name:                 v.Name,
		Stock:                v.Stock,
		PriceAdjustmentCents: v.PriceAdjustmentCents,
		OptionHash:           v.OptionHash,
		OptionPath:           v.OptionPath,
		IsActive:             v.IsActive,
	}
	for _, vo := range v.Options {
		resp.OptionIDs = append(resp.OptionIDs, vo.OptionID)
	}
	return resp
}

type CreateDriverRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

type UpdateDriverRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

type DriverResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone,omitempty"`
	IsActive bool      `json:"is_active"`
}

func ToDriverResponse(d *models.Driver) DriverResponse {
	return DriverResponse{ID: d.ID, Name: d.Name, Phone: d.Phone, IsActive: d.IsActive}
}
