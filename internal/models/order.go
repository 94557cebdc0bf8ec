package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderState string

const (
	OrderStatePlaced     OrderState = "PLACED"
	OrderStateDelivering OrderState = "DELIVERING"
	OrderStateReturned   OrderState = "RETURNED"
	OrderStateCompleted  OrderState = "COMPLETED"
)

func (s OrderState) Valid() bool {
	switch s {
	case OrderStatePlaced, OrderStateDelivering, OrderStateReturned, OrderStateCompleted:
		return true
	}
	return false
}

type OrderSource string

const (
	OrderSourceAdmin    OrderSource = "ADMIN"
	OrderSourceCustomer OrderSource = "CUSTOMER"
)

// Order — первичный ключ не суррогатный, а человекочитаемый код заказа.
type Order struct {
	Code   string      `gorm:"type:text;primaryKey"`
	State  OrderState  `gorm:"type:text;not null;default:'PLACED';index"`
	Source OrderSource `gorm:"type:text;not null"`

	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	DriverID   *uuid.UUID `gorm:"type:uuid;index"`

	AssignedAt  *time.Time
	CompletedAt *time.Time

	TotalCents int64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderCode;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderCode string    `gorm:"type:text;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	// VariantID — прямая ссылка на бакет остатков, разрешённая при создании заказа.
	// Если nil и в OptionDetails есть выбранные опции — матчинг перезапускается при переходе.
	VariantID *uuid.UUID `gorm:"type:uuid;index"`

	Quantity       int32 `gorm:"not null"`
	UnitPriceCents int64 `gorm:"not null"`
	LineTotalCents int64 `gorm:"not null"`

	OptionDetails OptionDetails `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }

// OptionDetails хранит сырой выбор опций строки заказа как jsonb.
type OptionDetails struct {
	VariantID         *uuid.UUID  `json:"variant_id,omitempty"`
	SelectedOptionIDs []uuid.UUID `json:"selected_option_ids,omitempty"`
}

func (d OptionDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *OptionDetails) Scan(value any) error {
	if value == nil {
		*d = OptionDetails{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into OptionDetails", value)
	}
	return json.Unmarshal(data, d)
}
