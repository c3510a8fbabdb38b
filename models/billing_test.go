package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFormatBillNumber(t *testing.T) {
	assert.Equal(t, "BILL000001", FormatBillNumber(1))
	assert.Equal(t, "BILL000042", FormatBillNumber(42))
	assert.Equal(t, "BILL999999", FormatBillNumber(999999))
	assert.Equal(t, "BILL1000000", FormatBillNumber(1000000))
}

func TestParseBillNumber(t *testing.T) {
	n, err := ParseBillNumber("BILL000042")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = ParseBillNumber("INV000042")
	assert.Error(t, err)

	_, err = ParseBillNumber("BILLxyz")
	assert.Error(t, err)
}

func TestRecalculate(t *testing.T) {
	bill := &Bill{
		Discount: dec("100"),
		Tax:      dec("50"),
	}
	items := []BillItem{
		{Amount: dec("2500.00")},
		{Amount: dec("1800.00")},
	}

	bill.Recalculate(items)

	assert.True(t, bill.Subtotal.Equal(dec("4300.00")), "subtotal = %s", bill.Subtotal)
	assert.True(t, bill.TotalAmount.Equal(dec("4250.00")), "total = %s", bill.TotalAmount)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	bill := &Bill{Discount: dec("10"), Tax: dec("5")}
	items := []BillItem{{Amount: dec("100")}, {Amount: dec("200")}}

	bill.Recalculate(items)
	first := bill.TotalAmount
	bill.Recalculate(items)

	assert.True(t, bill.TotalAmount.Equal(first))
}

func TestRecalculateEmptyItems(t *testing.T) {
	bill := &Bill{Tax: dec("12")}
	bill.Recalculate(nil)

	assert.True(t, bill.Subtotal.Equal(decimal.Zero))
	assert.True(t, bill.TotalAmount.Equal(dec("12")))
}

func TestDeriveBillStatus(t *testing.T) {
	total := dec("1000")

	assert.Equal(t, BillPending, DeriveBillStatus(decimal.Zero, total))
	assert.Equal(t, BillPartial, DeriveBillStatus(dec("400"), total))
	assert.Equal(t, BillPaid, DeriveBillStatus(dec("1000"), total))
	assert.Equal(t, BillPaid, DeriveBillStatus(dec("1500"), total))
}

func TestDeriveBillStatusZeroTotal(t *testing.T) {
	// A zero-total bill stays PENDING until actual money arrives.
	assert.Equal(t, BillPending, DeriveBillStatus(decimal.Zero, decimal.Zero))
	assert.Equal(t, BillPaid, DeriveBillStatus(dec("1"), decimal.Zero))
}

func TestComputeChange(t *testing.T) {
	total := dec("1000")

	// Exact payment, no change.
	assert.True(t, ComputeChange(total, decimal.Zero, dec("1000")).Equal(decimal.Zero))

	// Overpayment on a fresh bill.
	assert.True(t, ComputeChange(total, decimal.Zero, dec("1500")).Equal(dec("500")))

	// Partial payment, no change.
	assert.True(t, ComputeChange(total, decimal.Zero, dec("400")).Equal(decimal.Zero))

	// Second payment overshooting the remainder.
	assert.True(t, ComputeChange(total, dec("400"), dec("700")).Equal(dec("100")))

	// Payment against an already settled bill is all change.
	assert.True(t, ComputeChange(total, dec("1000"), dec("50")).Equal(dec("50")))
}

func TestSequentialPartialPayments(t *testing.T) {
	total := dec("1000")
	paid := decimal.Zero

	change := ComputeChange(total, paid, dec("400"))
	paid = paid.Add(dec("400"))
	assert.True(t, change.Equal(decimal.Zero))
	assert.Equal(t, BillPartial, DeriveBillStatus(paid, total))

	change = ComputeChange(total, paid, dec("700"))
	paid = paid.Add(dec("700"))
	assert.True(t, change.Equal(dec("100")))
	assert.Equal(t, BillPaid, DeriveBillStatus(paid, total))
}

func TestCancel(t *testing.T) {
	bill := &Bill{Status: BillPending}
	require.NoError(t, bill.Cancel(0))
	assert.Equal(t, BillCancelled, bill.Status)
}

func TestCancelRejectsPayments(t *testing.T) {
	bill := &Bill{Status: BillPartial}
	err := bill.Cancel(2)
	assert.ErrorIs(t, err, ErrBillHasPayments)
	assert.Equal(t, BillPartial, bill.Status)
}

func TestCancelRejectsTerminalStates(t *testing.T) {
	paid := &Bill{Status: BillPaid}
	assert.ErrorIs(t, paid.Cancel(0), ErrBillNotCancellable)

	cancelled := &Bill{Status: BillCancelled}
	assert.ErrorIs(t, cancelled.Cancel(0), ErrBillNotCancellable)
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	overdue := &Bill{Status: BillPending, DueDate: now.AddDate(0, 0, -3)}
	assert.True(t, overdue.IsOverdue(now))
	assert.Equal(t, 3, overdue.DaysOverdue(now))

	dueToday := &Bill{Status: BillPending, DueDate: now}
	assert.False(t, dueToday.IsOverdue(now))
	assert.Equal(t, 0, dueToday.DaysOverdue(now))

	paid := &Bill{Status: BillPaid, DueDate: now.AddDate(0, 0, -30)}
	assert.False(t, paid.IsOverdue(now))

	cancelled := &Bill{Status: BillCancelled, DueDate: now.AddDate(0, 0, -30)}
	assert.False(t, cancelled.IsOverdue(now))
}

func TestReminderDue(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	bill := &Bill{Status: BillPartial, DueDate: now.AddDate(0, 0, -10)}

	// Never reminded before.
	assert.True(t, bill.ReminderDue(now))

	// Reminded two days ago: throttled.
	recent := now.Add(-48 * time.Hour)
	bill.LastReminderSent = &recent
	assert.False(t, bill.ReminderDue(now))

	// Reminded eight days ago: due again.
	old := now.Add(-8 * 24 * time.Hour)
	bill.LastReminderSent = &old
	assert.True(t, bill.ReminderDue(now))

	// Not overdue at all: never due, regardless of history.
	future := &Bill{Status: BillPending, DueDate: now.AddDate(0, 0, 5)}
	assert.False(t, future.ReminderDue(now))
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []string{MethodCash, MethodCard, MethodGCash, MethodMaya, MethodBank} {
		assert.True(t, ValidPaymentMethod(m), m)
	}
	assert.False(t, ValidPaymentMethod("CHECK"))
	assert.False(t, ValidPaymentMethod("cash"))
	assert.False(t, ValidPaymentMethod(""))
}

func TestRequiresReference(t *testing.T) {
	assert.False(t, RequiresReference(MethodCash))
	assert.True(t, RequiresReference(MethodGCash))
	assert.True(t, RequiresReference(MethodBank))
	assert.True(t, RequiresReference(MethodCard))
	assert.True(t, RequiresReference(MethodMaya))
	assert.False(t, RequiresReference("CHECK"))
}

func TestExamBillable(t *testing.T) {
	assert.NoError(t, ExamBillable(0))
	assert.ErrorIs(t, ExamBillable(1), ErrExamAlreadyBilled)
	assert.ErrorIs(t, ExamBillable(3), ErrExamAlreadyBilled)
}

// Bill numbers sort the same way the sequence counts, so list views
// ordered by bill_number stay chronological within the padded range.
func TestBillNumberOrdering(t *testing.T) {
	values := []int64{1, 2, 41, 999, 1000, 99999, 999999}
	for i := 1; i < len(values); i++ {
		lower := FormatBillNumber(values[i-1])
		higher := FormatBillNumber(values[i])
		assert.Less(t, lower, higher)

		n, err := ParseBillNumber(higher)
		assert.NoError(t, err)
		assert.Equal(t, values[i], n)
	}
}
