package utils

import (
	"SonoCare/models"
	"errors"
	"log"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrAmountNegative    = errors.New("amount must not be negative")
	ErrUnknownMethod     = errors.New("unknown payment method")
	ErrReferenceRequired = errors.New("reference number is required for this payment method")
	ErrNoBillItems       = errors.New("a bill needs at least one item")
)

// ValidatePayment validates a payment before it is recorded. Cash needs
// no reference number; every other method does.
func ValidatePayment(payment models.Payment) error {
	err := validation.ValidateStruct(&payment,
		validation.Field(&payment.Amount, validation.By(positiveAmount)),
		validation.Field(&payment.Method, validation.Required, validation.By(knownMethod)),
		validation.Field(&payment.RecordedBy, validation.Required, validation.Length(1, 100)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
		return err
	}
	if models.RequiresReference(payment.Method) && payment.ReferenceNumber == "" {
		log.Printf("Validation error: %v\n", ErrReferenceRequired)
		return ErrReferenceRequired
	}
	return nil
}

// ValidateBill validates a bill creation payload together with its items.
func ValidateBill(bill models.Bill, items []models.BillItem) error {
	if len(items) == 0 {
		log.Printf("Validation error: %v\n", ErrNoBillItems)
		return ErrNoBillItems
	}
	err := validation.ValidateStruct(&bill,
		validation.Field(&bill.PatientID, validation.Required),
		validation.Field(&bill.Discount, validation.By(nonNegativeAmount)),
		validation.Field(&bill.Tax, validation.By(nonNegativeAmount)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
		return err
	}
	for _, item := range items {
		if err := ValidateBillItem(item); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBillItem validates a single bill line. A zero amount is allowed
// here; it is later defaulted from the service catalog price.
func ValidateBillItem(item models.BillItem) error {
	err := validation.ValidateStruct(&item,
		validation.Field(&item.ExamID, validation.Required),
		validation.Field(&item.ServiceID, validation.Required),
		validation.Field(&item.Amount, validation.By(nonNegativeAmount)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidateServiceType validates a catalog entry.
func ValidateServiceType(service models.ServiceType) error {
	err := validation.ValidateStruct(&service,
		validation.Field(&service.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&service.BasePrice, validation.By(positiveAmount)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

func positiveAmount(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok || !amount.GreaterThan(decimal.Zero) {
		return ErrAmountNotPositive
	}
	return nil
}

func knownMethod(value interface{}) error {
	method, ok := value.(string)
	if !ok || !models.ValidPaymentMethod(method) {
		return ErrUnknownMethod
	}
	return nil
}

func nonNegativeAmount(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok || amount.LessThan(decimal.Zero) {
		return ErrAmountNegative
	}
	return nil
}
