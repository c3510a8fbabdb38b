package handlers

import (
	"SonoCare/models"
	"SonoCare/utils"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// Field failures come back from ozzo wrapped in a validation.Errors map
// that cannot be matched with errors.Is, so the mapper has to recognize
// the wrapper itself. These go through the real validators to make sure
// the wrapped shape is the one production code produces.
func TestBillErrorStatusValidationFailures(t *testing.T) {
	zeroAmount := utils.ValidatePayment(models.Payment{
		Amount:     decimal.Zero,
		Method:     models.MethodCash,
		RecordedBy: "reception",
	})
	assert.Error(t, zeroAmount)
	assert.Equal(t, 400, billErrorStatus(zeroAmount))

	unknownMethod := utils.ValidatePayment(models.Payment{
		Amount:     dec("100"),
		Method:     "CRYPTO",
		RecordedBy: "reception",
	})
	assert.Error(t, unknownMethod)
	assert.Equal(t, 400, billErrorStatus(unknownMethod))

	negativeDiscount := utils.ValidateBill(
		models.Bill{PatientID: "PT-000001", Discount: dec("-50")},
		[]models.BillItem{{ExamID: 1, ServiceID: 1, Amount: dec("2500")}},
	)
	assert.Error(t, negativeDiscount)
	assert.Equal(t, 400, billErrorStatus(negativeDiscount))

	missingReference := utils.ValidatePayment(models.Payment{
		Amount:     dec("100"),
		Method:     models.MethodGCash,
		RecordedBy: "reception",
	})
	assert.ErrorIs(t, missingReference, utils.ErrReferenceRequired)
	assert.Equal(t, 400, billErrorStatus(missingReference))

	emptyBill := utils.ValidateBill(models.Bill{PatientID: "PT-000001"}, nil)
	assert.ErrorIs(t, emptyBill, utils.ErrNoBillItems)
	assert.Equal(t, 400, billErrorStatus(emptyBill))
}

func TestBillErrorStatusDomainErrors(t *testing.T) {
	assert.Equal(t, 404, billErrorStatus(models.ErrBillNotFound))
	assert.Equal(t, 404, billErrorStatus(models.ErrPatientNotFound))
	assert.Equal(t, 409, billErrorStatus(models.ErrBillCancelled))
	assert.Equal(t, 409, billErrorStatus(models.ErrBillNotCancellable))
	assert.Equal(t, 409, billErrorStatus(models.ErrBillHasPayments))
	assert.Equal(t, 409, billErrorStatus(models.ErrExamAlreadyBilled))
	assert.Equal(t, 409, billErrorStatus(models.ErrPatientNotActive))
	assert.Equal(t, 500, billErrorStatus(errors.New("connection refused")))
}

func TestServiceTypeErrorStatus(t *testing.T) {
	freeService := utils.ValidateServiceType(models.ServiceType{
		Name:      "Abdominal Ultrasound",
		BasePrice: decimal.Zero,
	})
	assert.Error(t, freeService)
	assert.Equal(t, 400, serviceTypeErrorStatus(freeService))

	assert.Equal(t, 500, serviceTypeErrorStatus(errors.New("connection refused")))
}
