package models

import (
	"time"

	"github.com/google/uuid"
)

type SelectionType string

const (
	SelectionSingle   SelectionType = "SINGLE"
	SelectionMultiple SelectionType = "MULTIPLE"
)

type PriceType string

const (
	PriceFree       PriceType = "FREE"
	PriceBase       PriceType = "BASE"
	PriceFixed      PriceType = "FIXED"
	PricePercentage PriceType = "PERCENTAGE"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text"`
	PriceCents  int64     `gorm:"not null;default:0"`
	// Quantity — плоский остаток, используется только когда у товара нет вариантов
	Quantity   int32 `gorm:"not null;default:0"`
	HasOptions bool  `gorm:"not null;default:false"`
	IsActive   bool  `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	OptionGroups []OptionGroup `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants     []Variant     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string { return "products" }

// OptionGroup — узел дерева групп опций. ParentGroupID образует дерево (не DAG):
// цикл отсекается проверкой walk-to-root при создании/изменении.
type OptionGroup struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	Name          string        `gorm:"type:text;not null"`
	SelectionType SelectionType `gorm:"type:text;not null;default:'SINGLE'"`
	// Level == parent.Level+1, у корневых групп Level == 1
	Level         int32      `gorm:"not null;default:1"`
	ParentGroupID *uuid.UUID `gorm:"type:uuid;index"`
	IsParent      bool       `gorm:"not null;default:false"`
	SortOrder     int32      `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Options []Option `gorm:"foreignKey:OptionGroupID;constraint:OnDelete:CASCADE"`
}

func (OptionGroup) TableName() string { return "option_groups" }

type Option struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OptionGroupID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"type:text;not null"`
	PriceType     PriceType `gorm:"type:text;not null;default:'FREE'"`
	// Центы для BASE/FIXED, процент от базовой цены товара для PERCENTAGE
	PriceValue  int64 `gorm:"not null;default:0"`
	IsDefault   bool  `gorm:"not null;default:false"`
	IsAvailable bool  `gorm:"not null;default:true"`
	// Stock имеет смысл только у товаров без вариантов (плоские двухуровневые каталоги)
	Stock     int32 `gorm:"not null;default:0"`
	SortOrder int32 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Option) TableName() string { return "options" }

// Variant — конкретная комбинация опций со своим остатком.
// OptionHash уникален в рамках товара: одна комбинация — максимум один вариант.
type Variant struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID            uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_variants_product_hash"`
	Name                 string    `gorm:"type:text;not null"`
	Stock                int32     `gorm:"not null;default:0"`
	PriceAdjustmentCents int64     `gorm:"not null;default:0"`
	OptionHash           string    `gorm:"type:text;not null;uniqueIndex:ux_variants_product_hash"`
	OptionPath           string    `gorm:"type:text"`
	IsActive             bool      `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Options []VariantOption `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
}

func (Variant) TableName() string { return "variants" }

type VariantOption struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_variant_options"`
	OptionID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_variant_options"`
}

func (VariantOption) TableName() string { return "variant_options" }

type Driver struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string    `gorm:"type:text;not null"`
	Phone    string    `gorm:"type:text;not null"`
	IsActive bool      `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Driver) TableName() string { return "drivers" }
