package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Bill statuses. PAID and CANCELLED are terminal.
const (
	BillPending   = "PENDING"
	BillPartial   = "PARTIAL"
	BillPaid      = "PAID"
	BillCancelled = "CANCELLED"
)

// Payment methods
const (
	MethodCash  = "CASH"
	MethodCard  = "CARD"
	MethodGCash = "GCASH"
	MethodMaya  = "MAYA"
	MethodBank  = "BANK"
)

const (
	BillNumberPrefix = "BILL"

	// Reminders for the same bill are throttled to one per week.
	ReminderInterval = 7 * 24 * time.Hour

	// Payment terms applied when no due date is given.
	DefaultPaymentTermDays = 30
)

var (
	ErrBillNotFound       = errors.New("bill not found")
	ErrBillCancelled      = errors.New("bill is cancelled")
	ErrBillNotCancellable = errors.New("bill is not in a cancellable state")
	ErrBillHasPayments    = errors.New("bill has recorded payments")
	ErrExamAlreadyBilled  = errors.New("exam already has a bill item")
	ErrServiceTypeInUse   = errors.New("service type is referenced by bill items")
)

// ServiceType is a billable procedure catalog entry. Rows referenced by
// bill items are protected from deletion.
type ServiceType struct {
	ID          uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name        string          `gorm:"column:name;unique;not null" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	BasePrice   decimal.Decimal `gorm:"column:base_price;type:decimal(10,2);not null" json:"base_price"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ServiceType) TableName() string {
	return "service_type"
}

// Bill is one invoice for a patient. The bill number is the external
// identifier used in URLs and lookups.
type Bill struct {
	ID               uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	BillNumber       string          `gorm:"column:bill_number;unique;not null;index" json:"bill_number"`
	PatientID        string          `gorm:"column:patient_id;not null;index" json:"patient_id"`
	BillDate         time.Time       `gorm:"column:bill_date;not null" json:"bill_date"`
	DueDate          time.Time       `gorm:"column:due_date;not null" json:"due_date"`
	Subtotal         decimal.Decimal `gorm:"column:subtotal;type:decimal(10,2);not null" json:"subtotal"`
	Discount         decimal.Decimal `gorm:"column:discount;type:decimal(10,2);not null;default:0" json:"discount"`
	Tax              decimal.Decimal `gorm:"column:tax;type:decimal(10,2);not null;default:0" json:"tax"`
	TotalAmount      decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2);not null" json:"total_amount"`
	Status           string          `gorm:"column:status;check:status IN ('PENDING', 'PARTIAL', 'PAID', 'CANCELLED');not null;default:'PENDING'" json:"status"`
	Notes            string          `gorm:"column:notes;type:text" json:"notes"`
	LastReminderSent *time.Time      `gorm:"column:last_reminder_sent" json:"last_reminder_sent,omitempty"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Items            []BillItem      `gorm:"foreignKey:BillID;references:ID" json:"items,omitempty"`
	Payments         []Payment       `gorm:"foreignKey:BillID;references:ID" json:"payments,omitempty"`
	Patient          Patient         `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Bill) TableName() string {
	return "bill"
}

// BillItem is a single billed procedure line. The unique index on exam_id
// enforces that an exam is billed at most once.
type BillItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	BillID    uint            `gorm:"column:bill_id;not null;index" json:"bill_id"`
	ExamID    uint            `gorm:"column:exam_id;not null;uniqueIndex" json:"exam_id"`
	ServiceID uint            `gorm:"column:service_id;not null" json:"service_id"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null" json:"amount"`
	Notes     string          `gorm:"column:notes;type:text" json:"notes"`
	Bill      Bill            `gorm:"foreignKey:BillID;references:ID" json:"-"`
	Exam      UltrasoundExam  `gorm:"foreignKey:ExamID;references:ID" json:"-"`
	Service   ServiceType     `gorm:"foreignKey:ServiceID;references:ID;constraint:OnDelete:RESTRICT" json:"service"`
}

func (BillItem) TableName() string {
	return "bill_item"
}

// Payment is one recorded money receipt against a bill. Payments are
// append-only; the ledger is a chronological log.
type Payment struct {
	ID              uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	BillID          uint            `gorm:"column:bill_id;not null;index" json:"bill_id"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null" json:"amount"`
	PaymentDate     time.Time       `gorm:"column:payment_date;not null" json:"payment_date"`
	Method          string          `gorm:"column:method;check:method IN ('CASH', 'CARD', 'GCASH', 'MAYA', 'BANK');not null" json:"method"`
	ReferenceNumber string          `gorm:"column:reference_number" json:"reference_number"`
	Notes           string          `gorm:"column:notes;type:text" json:"notes"`
	RecordedBy      string          `gorm:"column:recorded_by;not null" json:"recorded_by"`
	Change          decimal.Decimal `gorm:"column:change_amount;type:decimal(10,2);not null;default:0" json:"change"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Bill            Bill            `gorm:"foreignKey:BillID;references:ID" json:"-"`
}

func (Payment) TableName() string {
	return "payment"
}

// FormatBillNumber renders a sequence value as an external bill number.
func FormatBillNumber(n int64) string {
	return fmt.Sprintf("%s%06d", BillNumberPrefix, n)
}

// ParseBillNumber extracts the numeric suffix from a bill number.
func ParseBillNumber(billNumber string) (int64, error) {
	if !strings.HasPrefix(billNumber, BillNumberPrefix) {
		return 0, fmt.Errorf("malformed bill number: %q", billNumber)
	}
	n, err := strconv.ParseInt(billNumber[len(BillNumberPrefix):], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed bill number: %q", billNumber)
	}
	return n, nil
}

// Recalculate sets the subtotal to the sum of the given item amounts and
// rederives the total. It is idempotent: calling it twice with the same
// items yields identical results.
func (b *Bill) Recalculate(items []BillItem) {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	b.Subtotal = subtotal
	b.TotalAmount = b.Subtotal.Sub(b.Discount).Add(b.Tax)
}

// DeriveBillStatus determines a bill's status purely from the amount paid
// against its total. It never returns CANCELLED; cancellation is an
// explicit transition guarded elsewhere.
func DeriveBillStatus(totalPaid, total decimal.Decimal) string {
	switch {
	case totalPaid.GreaterThanOrEqual(total) && totalPaid.GreaterThan(decimal.Zero):
		return BillPaid
	case totalPaid.GreaterThan(decimal.Zero):
		return BillPartial
	default:
		return BillPending
	}
}

// ComputeChange returns the portion of a payment exceeding what was owed
// at the time it was applied. If the bill was already fully paid the
// entire payment is change.
func ComputeChange(total, paidBefore, amount decimal.Decimal) decimal.Decimal {
	remaining := total.Sub(paidBefore)
	if remaining.LessThanOrEqual(decimal.Zero) {
		return amount
	}
	if amount.GreaterThan(remaining) {
		return amount.Sub(remaining)
	}
	return decimal.Zero
}

// ExamBillable rejects billing an exam that already has a bill item.
// existingItems is the count of bill items referencing the exam.
func ExamBillable(existingItems int64) error {
	if existingItems > 0 {
		return ErrExamAlreadyBilled
	}
	return nil
}

// Cancel transitions the bill to CANCELLED. Only PENDING and PARTIAL
// bills with zero recorded payments may be cancelled.
func (b *Bill) Cancel(paymentCount int64) error {
	if b.Status != BillPending && b.Status != BillPartial {
		return ErrBillNotCancellable
	}
	if paymentCount > 0 {
		return ErrBillHasPayments
	}
	b.Status = BillCancelled
	return nil
}

// IsOverdue reports whether the bill's due date has passed while money is
// still owed.
func (b *Bill) IsOverdue(now time.Time) bool {
	if b.Status == BillPaid || b.Status == BillCancelled {
		return false
	}
	return b.DueDate.Before(truncateToDay(now))
}

// DaysOverdue returns how many whole days the bill is past due, or zero.
func (b *Bill) DaysOverdue(now time.Time) int {
	if !b.IsOverdue(now) {
		return 0
	}
	return int(truncateToDay(now).Sub(truncateToDay(b.DueDate)).Hours() / 24)
}

// ReminderDue reports whether a payment reminder may be sent: the bill
// must be overdue and no reminder may have gone out within the interval.
func (b *Bill) ReminderDue(now time.Time) bool {
	if !b.IsOverdue(now) {
		return false
	}
	if b.LastReminderSent != nil && now.Sub(*b.LastReminderSent) < ReminderInterval {
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case MethodCash, MethodCard, MethodGCash, MethodMaya, MethodBank:
		return true
	}
	return false
}

// RequiresReference reports whether the payment method needs a reference
// number. Every non-cash method does.
func RequiresReference(method string) bool {
	return ValidPaymentMethod(method) && method != MethodCash
}
