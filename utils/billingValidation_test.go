package utils

import (
	"SonoCare/models"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestValidatePayment(t *testing.T) {
	payment := models.Payment{
		Amount:     dec("500"),
		Method:     models.MethodCash,
		RecordedBy: "reception",
	}
	assert.NoError(t, ValidatePayment(payment))
}

func TestValidatePaymentRejectsNonPositiveAmount(t *testing.T) {
	payment := models.Payment{
		Amount:     decimal.Zero,
		Method:     models.MethodCash,
		RecordedBy: "reception",
	}
	assert.Error(t, ValidatePayment(payment))

	payment.Amount = dec("-10")
	assert.Error(t, ValidatePayment(payment))
}

func TestValidatePaymentRejectsUnknownMethod(t *testing.T) {
	payment := models.Payment{
		Amount:     dec("500"),
		Method:     "CHECK",
		RecordedBy: "reception",
	}
	assert.Error(t, ValidatePayment(payment))
}

func TestValidatePaymentReferenceRules(t *testing.T) {
	payment := models.Payment{
		Amount:     dec("500"),
		Method:     models.MethodGCash,
		RecordedBy: "reception",
	}
	assert.ErrorIs(t, ValidatePayment(payment), ErrReferenceRequired)

	payment.ReferenceNumber = "GC-12345"
	assert.NoError(t, ValidatePayment(payment))

	// Cash never needs a reference.
	cash := models.Payment{
		Amount:     dec("500"),
		Method:     models.MethodCash,
		RecordedBy: "reception",
	}
	assert.NoError(t, ValidatePayment(cash))
}

func TestValidateBill(t *testing.T) {
	bill := models.Bill{PatientID: "PT-000001"}
	items := []models.BillItem{{ExamID: 1, ServiceID: 1, Amount: dec("2500")}}
	assert.NoError(t, ValidateBill(bill, items))
}

func TestValidateBillRejectsEmptyItems(t *testing.T) {
	bill := models.Bill{PatientID: "PT-000001"}
	assert.ErrorIs(t, ValidateBill(bill, nil), ErrNoBillItems)
}

func TestValidateBillRejectsNegativeDiscount(t *testing.T) {
	bill := models.Bill{PatientID: "PT-000001", Discount: dec("-50")}
	items := []models.BillItem{{ExamID: 1, ServiceID: 1}}
	assert.Error(t, ValidateBill(bill, items))
}

func TestValidateBillItemAllowsZeroAmount(t *testing.T) {
	// Zero means "use the catalog price", so it must pass validation.
	item := models.BillItem{ExamID: 1, ServiceID: 2}
	assert.NoError(t, ValidateBillItem(item))
}

func TestValidateServiceType(t *testing.T) {
	service := models.ServiceType{Name: "Abdominal Ultrasound", BasePrice: dec("2500")}
	assert.NoError(t, ValidateServiceType(service))

	service.BasePrice = decimal.Zero
	assert.Error(t, ValidateServiceType(service))

	service.BasePrice = dec("2500")
	service.Name = ""
	assert.Error(t, ValidateServiceType(service))
}
