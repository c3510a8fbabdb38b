package services

import (
	"SonoCare/models"
	"SonoCare/repositories"
	"SonoCare/utils"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// PatientDirectory is the slice of the patient repository the billing
// side needs: resolving a patient by ID. A nil patient with a nil error
// means the patient does not exist.
type PatientDirectory interface {
	GetByID(ctx context.Context, id string) (*models.Patient, error)
}

type BillingService struct {
	repository  *repositories.BillingRepository
	patientRepo PatientDirectory
	userRepo    repositories.UserRepository
}

func NewBillingService(
	repository *repositories.BillingRepository,
	patientRepo PatientDirectory,
	userRepo repositories.UserRepository,
) *BillingService {
	return &BillingService{
		repository:  repository,
		patientRepo: patientRepo,
		userRepo:    userRepo,
	}
}

// CreateBill validates and opens a new bill for a patient.
func (s *BillingService) CreateBill(ctx context.Context, bill *models.Bill, items []models.BillItem) error {
	if err := utils.ValidateBill(*bill, items); err != nil {
		return err
	}
	patient, err := s.patientRepo.GetByID(ctx, bill.PatientID)
	if err != nil {
		return err
	}
	if patient == nil {
		return models.ErrPatientNotFound
	}
	return s.repository.CreateBill(ctx, bill, items)
}

// AddItem appends a billed procedure line to an open bill.
func (s *BillingService) AddItem(ctx context.Context, billNumber string, item *models.BillItem) error {
	if err := utils.ValidateBillItem(*item); err != nil {
		return err
	}
	return s.repository.AddItem(ctx, billNumber, item)
}

// RecordPayment validates and applies a payment. When the payment settles
// the bill in full, a patient portal account is provisioned. Provisioning
// failures are logged, never surfaced: the money already moved.
func (s *BillingService) RecordPayment(ctx context.Context, billNumber string, payment *models.Payment) (*models.Bill, error) {
	if err := utils.ValidatePayment(*payment); err != nil {
		return nil, err
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now()
	}

	bill, err := s.repository.RecordPayment(ctx, billNumber, payment)
	if err != nil {
		return nil, err
	}

	if bill.Status == models.BillPaid {
		if err := s.provisionPortalAccount(ctx, bill.PatientID); err != nil {
			log.Printf("Failed to provision portal account for patient %s: %v", bill.PatientID, err)
		}
	}
	return bill, nil
}

// CancelBill voids a bill that has no recorded payments.
func (s *BillingService) CancelBill(ctx context.Context, billNumber string) error {
	return s.repository.CancelBill(ctx, billNumber)
}

func (s *BillingService) GetByNumber(ctx context.Context, billNumber string) (*models.Bill, error) {
	return s.repository.GetByNumber(ctx, billNumber)
}

func (s *BillingService) GetAll(ctx context.Context) ([]models.Bill, error) {
	return s.repository.GetAll(ctx)
}

func (s *BillingService) GetByPatient(ctx context.Context, patientID string) ([]models.Bill, error) {
	return s.repository.GetByPatient(ctx, patientID)
}

// Balance returns the amount still owed on a bill.
func (s *BillingService) Balance(ctx context.Context, billNumber string) (decimal.Decimal, error) {
	bill, err := s.repository.GetByNumber(ctx, billNumber)
	if err != nil {
		return decimal.Zero, err
	}
	paid, err := s.repository.TotalPaid(ctx, bill.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return bill.TotalAmount.Sub(paid), nil
}

// provisionPortalAccount creates a portal login for the patient if none
// exists yet, then emails the credentials.
func (s *BillingService) provisionPortalAccount(ctx context.Context, patientID string) error {
	patient, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return err
	}
	if patient == nil {
		return models.ErrPatientNotFound
	}
	if patient.Email == "" {
		return fmt.Errorf("patient %s has no email address", patientID)
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, patient.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	username, err := utils.GeneratePortalUsername(ctx, patient.FirstName, patient.LastName, s.userRepo.UsernameExists)
	if err != nil {
		return err
	}
	password, err := utils.GeneratePortalPassword()
	if err != nil {
		return err
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	roleID, err := s.userRepo.GetRoleIDByName(ctx, models.RolePatient)
	if err != nil {
		return err
	}

	user := &models.User{
		Username:  username,
		Email:     patient.Email,
		Password:  hashedPassword,
		RoleID:    roleID,
		PatientID: &patient.ID,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create portal user: %w", err)
	}

	if err := utils.SendPortalCredentialsEmail(patient.Email, patient.FullName(), username, password); err != nil {
		log.Printf("Failed to send portal credentials to %s: %v", patient.Email, err)
	}
	return nil
}
