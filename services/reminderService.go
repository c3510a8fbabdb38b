package services

import (
	"SonoCare/models"
	"SonoCare/repositories"
	"SonoCare/utils"
	"context"
	"log"
	"time"
)

// ReminderService sends overdue-balance emails. A bill gets at most one
// reminder per week, and the stamp is only written after a successful
// send so failed attempts retry on the next run.
type ReminderService struct {
	repository  *repositories.BillingRepository
	patientRepo PatientDirectory
}

func NewReminderService(repository *repositories.BillingRepository, patientRepo PatientDirectory) *ReminderService {
	return &ReminderService{repository: repository, patientRepo: patientRepo}
}

// SendReminder sends a reminder for one bill if it is due for one.
// It returns true when an email went out.
func (s *ReminderService) SendReminder(ctx context.Context, billNumber string) (bool, error) {
	bill, err := s.repository.GetByNumber(ctx, billNumber)
	if err != nil {
		return false, err
	}
	return s.sendForBill(ctx, bill, time.Now())
}

// SendDueReminders walks every overdue bill and sends the reminders that
// are due. It returns the number of emails sent. Per-bill failures are
// logged and skipped so one bad address cannot stall the run.
func (s *ReminderService) SendDueReminders(ctx context.Context) (int, error) {
	now := time.Now()
	bills, err := s.repository.ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range bills {
		ok, err := s.sendForBill(ctx, &bills[i], now)
		if err != nil {
			log.Printf("Failed to send reminder for bill %s: %v", bills[i].BillNumber, err)
			continue
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

func (s *ReminderService) sendForBill(ctx context.Context, bill *models.Bill, now time.Time) (bool, error) {
	if !bill.ReminderDue(now) {
		return false, nil
	}
	if bill.Patient.Email == "" {
		patient, err := s.patientRepo.GetByID(ctx, bill.PatientID)
		if err != nil {
			return false, err
		}
		if patient != nil {
			bill.Patient = *patient
		}
	}
	if bill.Patient.Email == "" {
		log.Printf("Skipping reminder for bill %s: patient %s has no email", bill.BillNumber, bill.PatientID)
		return false, nil
	}

	paid, err := s.repository.TotalPaid(ctx, bill.ID)
	if err != nil {
		return false, err
	}

	reminder := utils.PaymentReminder{
		PatientName:      bill.Patient.FullName(),
		BillNumber:       bill.BillNumber,
		TotalAmount:      bill.TotalAmount,
		RemainingBalance: bill.TotalAmount.Sub(paid),
		DueDate:          bill.DueDate.Format("2006-01-02"),
		DaysOverdue:      bill.DaysOverdue(now),
	}
	if err := utils.SendPaymentReminderEmail(bill.Patient.Email, reminder); err != nil {
		return false, err
	}

	if err := s.repository.StampReminderSent(ctx, bill.BillNumber, now); err != nil {
		return false, err
	}
	return true, nil
}
