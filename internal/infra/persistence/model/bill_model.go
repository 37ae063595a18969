package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillModel mirrors the 'bills' table. The commercial columns hold a frozen
// copy of the originating order taken at bill creation; they are never
// refreshed from the order afterwards. The unique index on order_id backs
// the one-bill-per-order rule at the database level.
type BillModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	BillNumber string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ClientID   uuid.UUID `gorm:"type:uuid;not null;index"`

	MaterialName    string          `gorm:"type:varchar(120);not null"`
	Description     string          `gorm:"type:text"`
	Quantity        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Unit            string          `gorm:"type:varchar(20);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	DeliveryAddress string `gorm:"type:text"`
	Pincode         string `gorm:"type:varchar(10)"`
	VehicleInfo     string `gorm:"type:varchar(60)"`

	PaymentStatus string `gorm:"type:varchar(15);not null;default:'pending';index"`
	PaymentMethod string `gorm:"type:varchar(30)"`
	TransactionID string `gorm:"type:varchar(60)"`
	PaymentNotes  string `gorm:"type:text"`
	PaidAt        *time.Time

	SentAt    time.Time `gorm:"not null"`
	DueDate   *time.Time
	Notes     string    `gorm:"type:text"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Feedback *FeedbackModel `gorm:"foreignKey:BillID"`
}

// TableName explicitly sets the table name for GORM.
func (BillModel) TableName() string {
	return "bills"
}
