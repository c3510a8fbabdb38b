package repositories

import (
	"SonoCare/cache"
	"SonoCare/database"
	"SonoCare/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BillCacheExpiry = 7 * 24 * time.Hour
)

type BillingRepository struct {
	cache *cache.Cache
}

func NewBillingRepository(cache *cache.Cache) *BillingRepository {
	return &BillingRepository{cache: cache}
}

// CreateBill persists a new bill together with its line items in one
// transaction. The bill number comes from a Postgres sequence, so two
// concurrent creations can never collide on a number.
func (r *BillingRepository) CreateBill(ctx context.Context, bill *models.Bill, items []models.BillItem) error {
	lockKey := fmt.Sprintf("bill_lock:patient:%s", bill.PatientID)
	return withLock(ctx, lockKey, func() error {
		// Obtain the next sequence value outside the transaction
		var billNumber string
		if err := database.DB.Raw("SELECT 'BILL' || LPAD(nextval('bill_number_seq')::TEXT, 6, '0')").Scan(&billNumber).Error; err != nil {
			return fmt.Errorf("failed to obtain next bill number: %w", err)
		}
		bill.BillNumber = billNumber

		if bill.BillDate.IsZero() {
			bill.BillDate = time.Now()
		}
		if bill.DueDate.IsZero() {
			bill.DueDate = bill.BillDate.AddDate(0, 0, models.DefaultPaymentTermDays)
		}
		bill.Status = models.BillPending

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			for i := range items {
				if err := ensureExamUnbilled(tx, items[i].ExamID); err != nil {
					return err
				}
				if err := defaultItemAmount(tx, &items[i]); err != nil {
					return err
				}
			}
			bill.Recalculate(items)

			if err := tx.Create(bill).Error; err != nil {
				// If the creation fails, rollback the sequence
				if rollbackErr := database.DB.Exec("SELECT setval('bill_number_seq', (SELECT last_value FROM bill_number_seq) - 1, false)").Error; rollbackErr != nil {
					return fmt.Errorf("transaction failed and sequence rollback failed: %v, rollback error: %v", err, rollbackErr)
				}
				return fmt.Errorf("failed to create bill: %w", err)
			}

			for i := range items {
				items[i].BillID = bill.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("failed to create bill items: %w", err)
			}
			bill.Items = items
			return nil
		})
		if err != nil {
			return err
		}

		return r.invalidateBillCaches(ctx, bill.BillNumber, bill.PatientID)
	})
}

// AddItem appends a billed procedure line to an existing bill and
// recomputes the bill's subtotal and total in the same transaction.
func (r *BillingRepository) AddItem(ctx context.Context, billNumber string, item *models.BillItem) error {
	lockKey := fmt.Sprintf("bill_lock:%s", billNumber)
	var patientID string
	err := withLock(ctx, lockKey, func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			var bill models.Bill
			if err := tx.Preload("Items").First(&bill, "bill_number = ?", billNumber).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrBillNotFound
				}
				return fmt.Errorf("failed to find bill: %w", err)
			}
			if bill.Status == models.BillCancelled {
				return models.ErrBillCancelled
			}
			patientID = bill.PatientID

			if err := ensureExamUnbilled(tx, item.ExamID); err != nil {
				return err
			}
			if err := defaultItemAmount(tx, item); err != nil {
				return err
			}

			item.BillID = bill.ID
			if err := tx.Create(item).Error; err != nil {
				return fmt.Errorf("failed to create bill item: %w", err)
			}

			bill.Recalculate(append(bill.Items, *item))
			if err := tx.Model(&models.Bill{}).Where("id = ?", bill.ID).Updates(map[string]interface{}{
				"subtotal":     bill.Subtotal,
				"total_amount": bill.TotalAmount,
			}).Error; err != nil {
				return fmt.Errorf("failed to update bill totals: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	return r.invalidateBillCaches(ctx, billNumber, patientID)
}

// RecordPayment appends a payment to the bill's ledger. Change and the
// resulting bill status are computed inside the same transaction that
// persists the payment, so two concurrent payments cannot both read a
// stale paid-so-far amount.
func (r *BillingRepository) RecordPayment(ctx context.Context, billNumber string, payment *models.Payment) (*models.Bill, error) {
	lockKey := fmt.Sprintf("bill_lock:%s", billNumber)
	var updated models.Bill
	err := withLock(ctx, lockKey, func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			var bill models.Bill
			if err := tx.First(&bill, "bill_number = ?", billNumber).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrBillNotFound
				}
				return fmt.Errorf("failed to find bill: %w", err)
			}
			if bill.Status == models.BillCancelled {
				return models.ErrBillCancelled
			}

			paidBefore, err := sumPayments(tx, bill.ID)
			if err != nil {
				return err
			}

			payment.BillID = bill.ID
			if payment.PaymentDate.IsZero() {
				payment.PaymentDate = time.Now()
			}
			payment.Change = models.ComputeChange(bill.TotalAmount, paidBefore, payment.Amount)

			if err := tx.Create(payment).Error; err != nil {
				return fmt.Errorf("failed to create payment: %w", err)
			}

			totalPaid := paidBefore.Add(payment.Amount)
			bill.Status = models.DeriveBillStatus(totalPaid, bill.TotalAmount)
			if err := tx.Model(&models.Bill{}).Where("id = ?", bill.ID).Update("status", bill.Status).Error; err != nil {
				return fmt.Errorf("failed to update bill status: %w", err)
			}

			updated = bill
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if err := r.invalidateBillCaches(ctx, billNumber, updated.PatientID); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CancelBill transitions a bill to CANCELLED. Bills with recorded
// payments, or already PAID/CANCELLED bills, are rejected untouched.
func (r *BillingRepository) CancelBill(ctx context.Context, billNumber string) error {
	lockKey := fmt.Sprintf("bill_lock:%s", billNumber)
	var patientID string
	err := withLock(ctx, lockKey, func() error {
		return database.DB.Transaction(func(tx *gorm.DB) error {
			var bill models.Bill
			if err := tx.First(&bill, "bill_number = ?", billNumber).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrBillNotFound
				}
				return fmt.Errorf("failed to find bill: %w", err)
			}
			patientID = bill.PatientID

			var paymentCount int64
			if err := tx.Model(&models.Payment{}).Where("bill_id = ?", bill.ID).Count(&paymentCount).Error; err != nil {
				return fmt.Errorf("failed to count payments: %w", err)
			}
			if err := bill.Cancel(paymentCount); err != nil {
				return err
			}

			return tx.Model(&models.Bill{}).Where("id = ?", bill.ID).Update("status", bill.Status).Error
		})
	})
	if err != nil {
		return err
	}
	return r.invalidateBillCaches(ctx, billNumber, patientID)
}

// GetByNumber looks a bill up by its external bill number, items and
// payments included.
func (r *BillingRepository) GetByNumber(ctx context.Context, billNumber string) (*models.Bill, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getBillCacheKey(billNumber)
	cachedBill, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedBill != "" {
		var bill models.Bill
		if err := json.Unmarshal([]byte(cachedBill), &bill); err == nil {
			return &bill, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get bill from cache: %v", err)
	}

	var bill models.Bill
	err = database.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, bill_id, exam_id, service_id, amount, notes")
		}).
		Preload("Items.Service", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, base_price, is_active")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, bill_id, amount, payment_date, method, reference_number, recorded_by, change_amount, created_at").
				Order("payment_date DESC")
		}).
		First(&bill, "bill_number = ?", billNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrBillNotFound
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	billJSON, err := json.Marshal(bill)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bill: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, billJSON, BillCacheExpiry); err != nil {
		log.Printf("Failed to set bill in cache: %v", err)
	}

	return &bill, nil
}

// GetAll returns every bill, newest first.
func (r *BillingRepository) GetAll(ctx context.Context) ([]models.Bill, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "bills_cache"
	cachedBills, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedBills != "" {
		var bills []models.Bill
		if err := json.Unmarshal([]byte(cachedBills), &bills); err == nil {
			return bills, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get bills from cache: %v", err)
	}

	var bills []models.Bill
	err = database.DB.
		Select("id, bill_number, patient_id, bill_date, due_date, subtotal, discount, tax, total_amount, status, created_at").
		Order("created_at DESC").
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all bills: %w", err)
	}

	billsJSON, err := json.Marshal(bills)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bills: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, billsJSON, BillCacheExpiry); err != nil {
		log.Printf("Failed to set bills in cache: %v", err)
	}

	return bills, nil
}

// GetByPatient returns a patient's bills, newest first.
func (r *BillingRepository) GetByPatient(ctx context.Context, patientID string) ([]models.Bill, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var bills []models.Bill
	err := database.DB.
		Select("id, bill_number, patient_id, bill_date, due_date, subtotal, discount, tax, total_amount, status, created_at").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get patient bills: %w", err)
	}
	return bills, nil
}

// ListOverdue returns unpaid bills whose due date has passed.
func (r *BillingRepository) ListOverdue(ctx context.Context, now time.Time) ([]models.Bill, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var bills []models.Bill
	err := database.DB.
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, email")
		}).
		Where("due_date < ? AND status IN ('PENDING', 'PARTIAL')", now).
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue bills: %w", err)
	}
	return bills, nil
}

// TotalPaid sums the payments recorded against a bill.
func (r *BillingRepository) TotalPaid(ctx context.Context, billID uint) (decimal.Decimal, error) {
	return sumPayments(database.DB.WithContext(ctx), billID)
}

// StampReminderSent records when a payment reminder went out for a bill.
// Called only after a successful send.
func (r *BillingRepository) StampReminderSent(ctx context.Context, billNumber string, at time.Time) error {
	err := database.DB.Model(&models.Bill{}).
		Where("bill_number = ?", billNumber).
		Update("last_reminder_sent", at).Error
	if err != nil {
		return fmt.Errorf("failed to stamp reminder: %w", err)
	}
	return r.cache.Delete(ctx, r.getBillCacheKey(billNumber))
}

func (r *BillingRepository) DeleteCache(ctx context.Context, billNumber string) error {
	return r.cache.Delete(ctx, r.getBillCacheKey(billNumber))
}

func (r *BillingRepository) DeleteAllCache(ctx context.Context) error {
	return r.cache.DeleteAll(ctx, "bills_cache")
}

// invalidateBillCaches drops the cache entries a ledger mutation touches:
// the bill itself, the bill list, and the owning patient.
func (r *BillingRepository) invalidateBillCaches(ctx context.Context, billNumber, patientID string) error {
	if err := r.cache.Delete(ctx, r.getBillCacheKey(billNumber)); err != nil {
		return fmt.Errorf("failed to delete bill cache: %w", err)
	}
	if err := r.cache.DeleteAll(ctx, "bills_cache"); err != nil {
		return fmt.Errorf("failed to delete all bills cache: %w", err)
	}
	if patientID != "" {
		if err := r.cache.Delete(ctx, r.getPatientCacheKey(patientID)); err != nil {
			return fmt.Errorf("failed to delete patient cache: %w", err)
		}
	}
	return r.cache.DeleteAll(ctx, "patients_cache")
}

func (r *BillingRepository) getBillCacheKey(billNumber string) string {
	return fmt.Sprintf("bill_cache:%s", billNumber)
}

func (r *BillingRepository) getPatientCacheKey(patientID string) string {
	return fmt.Sprintf("patient_cache:%s", patientID)
}

// sumPayments totals the amounts recorded against a bill. It always
// re-reads live payment rows rather than trusting a running total.
func sumPayments(tx *gorm.DB, billID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Model(&models.Payment{}).
		Where("bill_id = ?", billID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}

// ensureExamUnbilled enforces the one-bill-per-exam rule.
func ensureExamUnbilled(tx *gorm.DB, examID uint) error {
	var count int64
	if err := tx.Model(&models.BillItem{}).Where("exam_id = ?", examID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check exam billing: %w", err)
	}
	return models.ExamBillable(count)
}

// defaultItemAmount fills a zero amount with the service's base price.
func defaultItemAmount(tx *gorm.DB, item *models.BillItem) error {
	if !item.Amount.IsZero() {
		return nil
	}
	var service models.ServiceType
	if err := tx.First(&service, item.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("service type not found")
		}
		return fmt.Errorf("failed to find service type: %w", err)
	}
	item.Amount = service.BasePrice
	return nil
}
