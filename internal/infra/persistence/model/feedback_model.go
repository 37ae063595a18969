package model

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackModel mirrors the 'feedbacks' table. The unique index on BillID
// enforces at most one feedback per bill.
type FeedbackModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	BillID      uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	ClientID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Rating      int        `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comments    string     `gorm:"type:text;not null"`
	Suggestions string     `gorm:"type:text"`
	Status      string     `gorm:"type:varchar(15);not null;default:'submitted';index"`
	Response    string     `gorm:"type:text"`
	RespondedBy *uuid.UUID `gorm:"type:uuid"`
	RespondedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (FeedbackModel) TableName() string {
	return "feedbacks"
}
