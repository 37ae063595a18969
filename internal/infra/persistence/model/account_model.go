package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type AccountModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Code            string    `gorm:"type:varchar(8);unique;not null"`
	FullName        string    `gorm:"type:varchar(100);not null"`
	Phone           string    `gorm:"type:varchar(10);unique;not null"`
	Email           string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash    string    `gorm:"type:varchar(255);not null"`
	Role            string    `gorm:"type:varchar(30);not null;index"`
	ApprovalStatus  string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	RejectionReason string `gorm:"type:text"`
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Orders []OrderModel `gorm:"foreignKey:CreatedBy"`
	Bills  []BillModel  `gorm:"foreignKey:ClientID"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
