package services

import (
	"SonoCare/models"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// patientDirectoryStub stands in for the patient repository. A nil
// patient with a nil error is the repository's not-found shape.
type patientDirectoryStub struct {
	patient *models.Patient
}

func (s patientDirectoryStub) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	return s.patient, nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestCreateBillRejectsUnknownPatient(t *testing.T) {
	service := NewBillingService(nil, patientDirectoryStub{}, nil)

	bill := models.Bill{PatientID: "PT-000404"}
	items := []models.BillItem{{ExamID: 1, ServiceID: 1, Amount: dec("2500")}}

	err := service.CreateBill(context.Background(), &bill, items)
	assert.ErrorIs(t, err, models.ErrPatientNotFound)
}

// A payment can settle a bill whose patient row has since been purged;
// provisioning must fail cleanly instead of dereferencing nil.
func TestProvisionPortalAccountUnknownPatient(t *testing.T) {
	service := NewBillingService(nil, patientDirectoryStub{}, nil)

	err := service.provisionPortalAccount(context.Background(), "PT-000404")
	assert.ErrorIs(t, err, models.ErrPatientNotFound)
}
