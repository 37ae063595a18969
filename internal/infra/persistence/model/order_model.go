package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel mirrors the 'orders' table. The three derived amount columns
// are written by the service layer only, never computed in the database.
type OrderModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderNumber      string          `gorm:"type:varchar(30);uniqueIndex;not null"`
	MaterialName     string          `gorm:"type:varchar(120);not null"`
	Description      string          `gorm:"type:text"`
	Quantity         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Unit             string          `gorm:"type:varchar(20);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Type             string          `gorm:"type:varchar(10);not null;index"`
	Priority         string          `gorm:"type:varchar(10);not null;default:'medium'"`
	Status           string          `gorm:"type:varchar(15);not null;default:'pending';index"`
	CustomerID       *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedBy        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ExpectedDelivery *time.Time
	DeliveredAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Bills []BillModel `gorm:"foreignKey:OrderID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
