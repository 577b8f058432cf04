package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/puntoventa/pos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseOrder represents an order placed against a supplier. TotalAmount is
// fixed at creation time; it is the historical record of the agreed value and
// is never recomputed.
type PurchaseOrder struct {
	ID               uuid.UUID                `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber      string                   `gorm:"size:50;unique;not null" json:"order_number"`
	SupplierID       uuid.UUID                `gorm:"type:uuid;not null;index" json:"supplier_id"`
	OrderDate        time.Time                `gorm:"not null" json:"order_date"`
	ExpectedDelivery *time.Time               `gorm:"type:date" json:"expected_delivery,omitempty"`
	ReceivedDate     *time.Time               `json:"received_date,omitempty"`
	Status           enum.PurchaseOrderStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	TotalAmount      decimal.Decimal          `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	Notes            *string                  `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
	DeletedAt        gorm.DeletedAt           `gorm:"index" json:"-"`

	// Relationships
	Supplier *Supplier             `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Details  []PurchaseOrderDetail `gorm:"foreignKey:PurchaseOrderID" json:"details,omitempty"`
}

// BeforeCreate generates a UUID before creating a new purchase order
func (o *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseOrder model
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// IsFullyReceived reports whether every line item has been received in full
func (o *PurchaseOrder) IsFullyReceived() bool {
	if len(o.Details) == 0 {
		return false
	}
	for _, d := range o.Details {
		if d.QuantityReceived < d.QuantityOrdered {
			return false
		}
	}
	return true
}

// HasReceipts reports whether any line item has received stock
func (o *PurchaseOrder) HasReceipts() bool {
	for _, d := range o.Details {
		if d.QuantityReceived > 0 {
			return true
		}
	}
	return false
}

// PurchaseOrderDetail represents a line item in a purchase order.
// QuantityReceived only ever grows, and never past QuantityOrdered.
type PurchaseOrderDetail struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	QuantityOrdered  int             `gorm:"not null" json:"quantity_ordered"`
	QuantityReceived int             `gorm:"not null;default:0" json:"quantity_received"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_cost"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_cost"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Relationships
	PurchaseOrder PurchaseOrder `gorm:"foreignKey:PurchaseOrderID" json:"-"`
	Product       Product       `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new purchase order detail
func (d *PurchaseOrderDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseOrderDetail model
func (PurchaseOrderDetail) TableName() string {
	return "purchase_order_details"
}

// PendingQuantity returns how much of the line is still awaiting receipt
func (d *PurchaseOrderDetail) PendingQuantity() int {
	return d.QuantityOrdered - d.QuantityReceived
}
