package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentals/backend/internal/domain/shared"
	"github.com/rentals/backend/internal/domain/shared/valueobject"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestInvoice(t *testing.T, amount float64) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), date(2024, 1, 10), valueobject.NewMoneySARFromFloat(amount))
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("due date defaults to thirty days after the invoice date", func(t *testing.T) {
		inv, err := NewInvoice(uuid.New(), date(2024, 1, 10), valueobject.NewMoneySARFromFloat(1000))
		require.NoError(t, err)
		assert.Equal(t, date(2024, 2, 9), inv.DueDate)
		assert.Equal(t, InvoiceStatusPending, inv.Status)
		assert.Empty(t, inv.Payments)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), date(2024, 1, 10), valueobject.ZeroSAR())
		assert.Error(t, err)
	})
}

func TestInvoiceRecordPayment(t *testing.T) {
	today := date(2024, 1, 20)

	t.Run("partial then full settlement", func(t *testing.T) {
		inv := newTestInvoice(t, 1000)

		_, err := inv.RecordPayment(date(2024, 1, 15), valueobject.NewMoneySARFromFloat(400), PaymentMethodCash, "", today)
		require.NoError(t, err)
		assert.Equal(t, 600.0, inv.RemainingBalance().Float64())
		assert.Equal(t, InvoiceStatusPending, inv.Status)

		_, err = inv.RecordPayment(date(2024, 1, 18), valueobject.NewMoneySARFromFloat(600), PaymentMethodBankTransfer, "TRX-1", today)
		require.NoError(t, err)
		assert.True(t, inv.RemainingBalance().IsZero())
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.Len(t, inv.Payments, 2)
	})

	t.Run("rejects overpayment", func(t *testing.T) {
		inv := newTestInvoice(t, 1000)
		_, err := inv.RecordPayment(date(2024, 1, 15), valueobject.NewMoneySARFromFloat(400), PaymentMethodCash, "", today)
		require.NoError(t, err)

		_, err = inv.RecordPayment(date(2024, 1, 16), valueobject.NewMoneySARFromFloat(700), PaymentMethodCash, "", today)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		assert.Equal(t, 600.0, inv.RemainingBalance().Float64())
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		inv := newTestInvoice(t, 1000)
		_, err := inv.RecordPayment(date(2024, 1, 15), valueobject.ZeroSAR(), PaymentMethodCash, "", today)
		assert.Error(t, err)

		_, err = inv.RecordPayment(date(2024, 1, 15), valueobject.NewMoneySARFromFloat(-10), PaymentMethodCash, "", today)
		assert.Error(t, err)
	})

	t.Run("rejects payment dated before the invoice date", func(t *testing.T) {
		inv := newTestInvoice(t, 1000)
		_, err := inv.RecordPayment(date(2024, 1, 9), valueobject.NewMoneySARFromFloat(100), PaymentMethodCash, "", today)
		assert.Error(t, err)

		_, err = inv.RecordPayment(date(2024, 1, 10), valueobject.NewMoneySARFromFloat(100), PaymentMethodCash, "", today)
		assert.NoError(t, err)
	})

	t.Run("rejects unknown method and foreign currency", func(t *testing.T) {
		inv := newTestInvoice(t, 1000)
		_, err := inv.RecordPayment(date(2024, 1, 15), valueobject.NewMoneySARFromFloat(100), PaymentMethod("barter"), "", today)
		assert.Error(t, err)

		usd, _ := valueobject.NewMoneyFromFloat(100, valueobject.USD)
		_, err = inv.RecordPayment(date(2024, 1, 15), usd, PaymentMethodCash, "", today)
		assert.Error(t, err)
	})
}

func TestInvoicePayFull(t *testing.T) {
	today := date(2024, 1, 20)

	t.Run("settles the remaining balance", func(t *testing.T) {
		inv := newTestInvoice(t, 1000)
		_, err := inv.RecordPayment(date(2024, 1, 12), valueobject.NewMoneySARFromFloat(250), PaymentMethodCash, "", today)
		require.NoError(t, err)

		payment, err := inv.PayFull(date(2024, 1, 15), PaymentMethodBankTransfer, "TRX-9", today)
		require.NoError(t, err)
		assert.Equal(t, 750.0, payment.AmountPaid.Float64())
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("fails when nothing is due", func(t *testing.T) {
		inv := newTestInvoice(t, 1000)
		_, err := inv.PayFull(date(2024, 1, 15), PaymentMethodCash, "", today)
		require.NoError(t, err)

		_, err = inv.PayFull(date(2024, 1, 16), PaymentMethodCash, "", today)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNothingDue)
	})
}

func TestInvoiceStatusDerivation(t *testing.T) {
	t.Run("overdue when past due with a balance", func(t *testing.T) {
		inv := newTestInvoice(t, 1000) // due 2024-02-09
		_, err := inv.RecordPayment(date(2024, 1, 15), valueobject.NewMoneySARFromFloat(500), PaymentMethodCash, "", date(2024, 1, 15))
		require.NoError(t, err)

		inv.RecomputeStatus(date(2024, 3, 1))
		assert.Equal(t, InvoiceStatusOverdue, inv.Status)
		assert.True(t, inv.IsOverdue(date(2024, 3, 1)))
	})

	t.Run("pending on the due date itself", func(t *testing.T) {
		inv := newTestInvoice(t, 1000)
		inv.RecomputeStatus(date(2024, 2, 9))
		assert.Equal(t, InvoiceStatusPending, inv.Status)
	})

	t.Run("paid is terminal even past due", func(t *testing.T) {
		inv := newTestInvoice(t, 1000)
		_, err := inv.PayFull(date(2024, 1, 15), PaymentMethodCash, "", date(2024, 1, 15))
		require.NoError(t, err)

		inv.RecomputeStatus(date(2025, 1, 1))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.Status.IsTerminal())
		assert.False(t, inv.IsOverdue(date(2025, 1, 1)))
	})
}

func TestInvoiceRemainingBalanceNeverNegative(t *testing.T) {
	inv := newTestInvoice(t, 100)
	_, err := inv.PayFull(date(2024, 1, 15), PaymentMethodCash, "", date(2024, 1, 15))
	require.NoError(t, err)
	assert.True(t, inv.RemainingBalance().IsZero())
	assert.False(t, inv.RemainingBalance().IsNegative())
}
