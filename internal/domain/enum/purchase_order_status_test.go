package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseOrderStatus(t *testing.T) {
	assert.True(t, PurchaseOrderStatusPending.CanReceive())
	assert.True(t, PurchaseOrderStatusInTransit.CanReceive())
	assert.False(t, PurchaseOrderStatusDelivered.CanReceive())
	assert.False(t, PurchaseOrderStatusCancelled.CanReceive())

	assert.True(t, PurchaseOrderStatusDelivered.IsTerminal())
	assert.True(t, PurchaseOrderStatusCancelled.IsTerminal())
	assert.False(t, PurchaseOrderStatusPending.IsTerminal())

	assert.True(t, PurchaseOrderStatusPending.IsValid())
	assert.False(t, PurchaseOrderStatus("shipped").IsValid())
}

func TestLedgerReasonMovementType(t *testing.T) {
	assert.Equal(t, MovementTypeSale, LedgerReasonSaleDebit.MovementType())
	assert.Equal(t, MovementTypePurchase, LedgerReasonReceiptCredit.MovementType())
	assert.Equal(t, MovementTypeAdjustment, LedgerReasonManualCorrection.MovementType())

	assert.True(t, LedgerReasonSaleDebit.IsValid())
	assert.False(t, LedgerReason("shrinkage").IsValid())
}
