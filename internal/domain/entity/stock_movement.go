package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// StockMovement is one attributable adjustment of a product's stock. A
// movement row is written in the same transaction as the stock change it
// records, so folding movements from a baseline reconstructs the current
// stock exactly.
type StockMovement struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ProductID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"product_id"`
	MovementType  enum.MovementType  `gorm:"size:20;not null" json:"movement_type"`
	Quantity      int                `gorm:"not null" json:"quantity"` // signed: positive in, negative out
	ReferenceType enum.ReferenceType `gorm:"size:20" json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID         `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	PreviousStock int                `gorm:"not null" json:"previous_stock"`
	NewStock      int                `gorm:"not null" json:"new_stock"`
	Notes         *string            `gorm:"type:text" json:"notes,omitempty"`
	MovementDate  time.Time          `gorm:"not null;index" json:"movement_date"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock movement
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}
