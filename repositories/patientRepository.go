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
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	PatientCacheExpiry = 7 * 24 * time.Hour
)

type PatientRepository struct {
	cache           *cache.Cache
	examRepo        *ExaminationRepository
	appointmentRepo *AppointmentRepository
	billingRepo     *BillingRepository
}

func NewPatientRepository(
	cache *cache.Cache,
	examRepo *ExaminationRepository,
	appointmentRepo *AppointmentRepository,
	billingRepo *BillingRepository,
) *PatientRepository {
	return &PatientRepository{
		cache:           cache,
		examRepo:        examRepo,
		appointmentRepo: appointmentRepo,
		billingRepo:     billingRepo,
	}
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	lockKey := fmt.Sprintf("patient_lock:%s_%s_%s", patient.FirstName, patient.LastName, patient.DateOfBirth)
	return withLock(ctx, lockKey, func() error {
		// Check if a record with the same unique fields already exists
		var existingPatient models.Patient
		if err := database.DB.Where("first_name = ? AND last_name = ? AND date_of_birth = ?",
			patient.FirstName, patient.LastName, patient.DateOfBirth).First(&existingPatient).Error; err == nil {
			return fmt.Errorf("patient with the same details already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for existing patient: %w", err)
		}

		// Obtain the next sequence value
		var nextID string
		if err := database.DB.Raw("SELECT 'PT-' || LPAD(nextval('patient_id_seq')::TEXT, 6, '0')").Scan(&nextID).Error; err != nil {
			return fmt.Errorf("failed to obtain next sequence value: %w", err)
		}

		patient.ID = nextID
		patient.Status = models.PatientActive

		return database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(patient).Error; err != nil {
				// Rollback sequence in case of failure
				if rollbackErr := tx.Exec("SELECT setval('patient_id_seq', (SELECT last_value FROM patient_id_seq) - 1, false)").Error; rollbackErr != nil {
					return fmt.Errorf("transaction failed and sequence rollback failed: %v, rollback error: %v", err, rollbackErr)
				}
				return fmt.Errorf("failed to create patient: %w", err)
			}

			if err := r.cache.Delete(ctx, r.getPatientCacheKey(patient.ID)); err != nil {
				return fmt.Errorf("failed to delete patient cache: %w", err)
			}
			return r.cache.DeleteAll(ctx, "patients_cache")
		})
	})
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getPatientCacheKey(id)
	cachedPatient, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedPatient != "" {
		var patient models.Patient
		if err := json.Unmarshal([]byte(cachedPatient), &patient); err == nil {
			return &patient, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get patient from cache: %v", err)
	}

	var patient models.Patient
	err = database.DB.
		Preload("Exams", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, patient_id, procedure_type, exam_date, exam_time, technologist, radiologist, recommendation, created_at").
				Order("exam_date DESC")
		}).
		Preload("Appointments", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, patient_id, procedure_type, date_time, status, created_at")
		}).
		Preload("Bills", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, bill_number, patient_id, bill_date, due_date, subtotal, discount, tax, total_amount, status, created_at")
		}).
		First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	patientJSON, err := json.Marshal(patient)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patient: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, patientJSON, PatientCacheExpiry); err != nil {
		log.Printf("Failed to set patient in cache: %v", err)
	}

	return &patient, nil
}

func (r *PatientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "patients_cache"
	cachedPatients, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedPatients != "" {
		var patients []models.Patient
		if err := json.Unmarshal([]byte(cachedPatients), &patients); err == nil {
			return patients, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get patients from cache: %v", err)
	}

	var patients []models.Patient
	err = database.DB.
		Select("id, first_name, last_name, sex, date_of_birth, address, contact_number, email, status, created_at").
		Where("status <> ?", models.PatientPurged).
		Order("created_at DESC").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all patients: %w", err)
	}

	patientsJSON, err := json.Marshal(patients)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patients: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, patientsJSON, PatientCacheExpiry); err != nil {
		log.Printf("Failed to set patients in cache: %v", err)
	}

	return patients, nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	lockKey := fmt.Sprintf("patient_lock:%s", patient.ID)
	return withLock(ctx, lockKey, func() error {
		err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "sex", "date_of_birth", "address", "contact_number", "email", "emergency_contact", "emergency_contact_number"}),
		}).Save(patient).Error
		if err != nil {
			return fmt.Errorf("failed to update patient: %w", err)
		}

		if err := r.cache.Delete(ctx, r.getPatientCacheKey(patient.ID)); err != nil {
			return fmt.Errorf("failed to delete patient cache: %w", err)
		}
		return r.cache.DeleteAll(ctx, "patients_cache")
	})
}

// Archive tombstones an active patient instead of deleting the record.
func (r *PatientRepository) Archive(ctx context.Context, id string) error {
	return r.transition(ctx, id, func(patient *models.Patient) error {
		return patient.Archive(time.Now())
	})
}

// Restore returns an archived patient to active.
func (r *PatientRepository) Restore(ctx context.Context, id string) error {
	return r.transition(ctx, id, func(patient *models.Patient) error {
		return patient.Restore()
	})
}

func (r *PatientRepository) transition(ctx context.Context, id string, apply func(*models.Patient) error) error {
	lockKey := fmt.Sprintf("patient_lock:%s", id)
	return withLock(ctx, lockKey, func() error {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var patient models.Patient
			if err := tx.First(&patient, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrPatientNotFound
				}
				return fmt.Errorf("failed to find patient: %w", err)
			}
			if err := apply(&patient); err != nil {
				return err
			}
			return tx.Model(&models.Patient{}).Where("id = ?", id).Updates(map[string]interface{}{
				"status":      patient.Status,
				"archived_at": patient.ArchivedAt,
			}).Error
		})
		if err != nil {
			return err
		}

		if err := r.cache.Delete(ctx, r.getPatientCacheKey(id)); err != nil {
			return fmt.Errorf("failed to delete patient cache: %w", err)
		}
		return r.cache.DeleteAll(ctx, "patients_cache")
	})
}

// Purge hard-deletes an archived patient together with every dependent
// record. Active patients are rejected; archive first.
func (r *PatientRepository) Purge(ctx context.Context, id string) error {
	lockKey := fmt.Sprintf("patient_lock:%s", id)
	return withLock(ctx, lockKey, func() error {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var patient models.Patient
			if err := tx.First(&patient, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrPatientNotFound
				}
				return fmt.Errorf("failed to find patient: %w", err)
			}
			if err := patient.CanPurge(); err != nil {
				return err
			}

			if err := r.invalidateBillCaches(ctx, tx, id); err != nil {
				return err
			}

			// Payments and items hang off bills, so they go first.
			var billIDs []uint
			if err := tx.Model(&models.Bill{}).Where("patient_id = ?", id).Pluck("id", &billIDs).Error; err != nil {
				return err
			}
			if len(billIDs) > 0 {
				if err := tx.Where("bill_id IN ?", billIDs).Delete(&models.Payment{}).Error; err != nil {
					return err
				}
				if err := tx.Where("bill_id IN ?", billIDs).Delete(&models.BillItem{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("patient_id = ?", id).Delete(&models.Bill{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Where("patient_id = ?", id).Delete(&models.Appointment{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Where("patient_id = ?", id).Delete(&models.UltrasoundExam{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Delete(&models.Patient{}, "id = ?", id).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			if err := r.cache.Delete(ctx, r.getPatientCacheKey(id)); err != nil {
				return err
			}
			if err := r.cache.DeleteAll(ctx, "patients_cache"); err != nil {
				return err
			}
			if err := r.examRepo.DeleteAllCache(ctx); err != nil {
				return err
			}
			if err := r.appointmentRepo.DeleteAllCache(ctx); err != nil {
				return err
			}
			return r.billingRepo.DeleteAllCache(ctx)
		})
		return err
	})
}

func (r *PatientRepository) invalidateBillCaches(ctx context.Context, tx *gorm.DB, patientID string) error {
	var billNumbers []string
	if err := tx.Model(&models.Bill{}).Where("patient_id = ?", patientID).Pluck("bill_number", &billNumbers).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	for _, billNumber := range billNumbers {
		if err := r.billingRepo.DeleteCache(ctx, billNumber); err != nil {
			return err
		}
	}
	return nil
}

func (r *PatientRepository) getPatientCacheKey(patientID string) string {
	return fmt.Sprintf("patient_cache:%s", patientID)
}
