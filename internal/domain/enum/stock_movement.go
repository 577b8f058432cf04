package enum

// LedgerReason identifies the cause of a stock adjustment. Every mutation of
// a product's stock carries exactly one reason.
type LedgerReason string

const (
	LedgerReasonSaleDebit        LedgerReason = "sale_debit"
	LedgerReasonReceiptCredit    LedgerReason = "receipt_credit"
	LedgerReasonManualCorrection LedgerReason = "manual_correction"
)

// IsValid checks if the reason is a valid LedgerReason
func (r LedgerReason) IsValid() bool {
	switch r {
	case LedgerReasonSaleDebit, LedgerReasonReceiptCredit, LedgerReasonManualCorrection:
		return true
	}
	return false
}

// MovementType returns the movement type recorded for this reason
func (r LedgerReason) MovementType() MovementType {
	switch r {
	case LedgerReasonSaleDebit:
		return MovementTypeSale
	case LedgerReasonReceiptCredit:
		return MovementTypePurchase
	default:
		return MovementTypeAdjustment
	}
}

// MovementType classifies rows in the stock movement audit trail.
type MovementType string

const (
	MovementTypeSale       MovementType = "sale"
	MovementTypePurchase   MovementType = "purchase"
	MovementTypeAdjustment MovementType = "adjustment"
)

// ReferenceType identifies the record a stock movement is attributed to.
type ReferenceType string

const (
	ReferenceTypeSale          ReferenceType = "sale"
	ReferenceTypePurchaseOrder ReferenceType = "purchase_order"
	ReferenceTypeAdjustment    ReferenceType = "adjustment"
)
