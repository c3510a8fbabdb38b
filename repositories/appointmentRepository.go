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
)

const (
	AppointmentCacheExpiry = 7 * 24 * time.Hour
)

type AppointmentRepository struct {
	cache *cache.Cache
}

func NewAppointmentRepository(cache *cache.Cache) *AppointmentRepository {
	return &AppointmentRepository{cache: cache}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	lockKey := fmt.Sprintf("appointment_lock:%s_%d", appointment.PatientID, appointment.ID)
	return withLock(ctx, lockKey, func() error {
		if appointment.Status == "" {
			appointment.Status = models.AppointmentScheduled
		}
		if !models.ValidAppointmentStatus(appointment.Status) {
			return errors.New("invalid status value")
		}

		if err := database.DB.Create(appointment).Error; err != nil {
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		return r.invalidate(ctx, appointment.PatientID, appointment.ID)
	})
}

func (r *AppointmentRepository) GetByID(ctx context.Context, patientID string, id uint) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getAppointmentCacheKey(patientID, id)
	cachedAppointment, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedAppointment != "" {
		var appointment models.Appointment
		if err := json.Unmarshal([]byte(cachedAppointment), &appointment); err == nil {
			return &appointment, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get appointment from cache: %v", err)
	}

	var appointment models.Appointment
	err = database.DB.Select("id, patient_id, procedure_type, date_time, status, notes, created_at").
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name")
		}).
		First(&appointment, "id = ? AND patient_id = ?", id, patientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	appointmentJSON, err := json.Marshal(appointment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal appointment: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, appointmentJSON, AppointmentCacheExpiry); err != nil {
		log.Printf("Failed to set appointment in cache: %v", err)
	}

	return &appointment, nil
}

func (r *AppointmentRepository) GetAll(ctx context.Context) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "appointments_cache"
	cachedAppointments, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedAppointments != "" {
		var appointments []models.Appointment
		if err := json.Unmarshal([]byte(cachedAppointments), &appointments); err == nil {
			return appointments, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get appointments from cache: %v", err)
	}

	var appointments []models.Appointment
	err = database.DB.Select("id, patient_id, procedure_type, date_time, status, created_at").
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name")
		}).
		Order("date_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all appointments: %w", err)
	}

	appointmentsJSON, err := json.Marshal(appointments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal appointments: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, appointmentsJSON, AppointmentCacheExpiry); err != nil {
		log.Printf("Failed to set appointments in cache: %v", err)
	}

	return appointments, nil
}

func (r *AppointmentRepository) GetAllByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointments []models.Appointment
	err := database.DB.
		Where("patient_id = ?", patientID).
		Order("date_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	lockKey := fmt.Sprintf("appointment_lock:%s_%d", appointment.PatientID, appointment.ID)
	return withLock(ctx, lockKey, func() error {
		if !models.ValidAppointmentStatus(appointment.Status) {
			return errors.New("invalid status value")
		}

		if err := database.DB.Save(appointment).Error; err != nil {
			return fmt.Errorf("failed to update appointment: %w", err)
		}
		return r.invalidate(ctx, appointment.PatientID, appointment.ID)
	})
}

func (r *AppointmentRepository) Delete(ctx context.Context, patientID string, id uint) error {
	lockKey := fmt.Sprintf("appointment_lock:%s_%d", patientID, id)
	return withLock(ctx, lockKey, func() error {
		if err := database.DB.Delete(&models.Appointment{}, "id = ? AND patient_id = ?", id, patientID).Error; err != nil {
			return fmt.Errorf("failed to delete appointment: %w", err)
		}
		return r.invalidate(ctx, patientID, id)
	})
}

// CancelOverdue marks scheduled appointments whose time has passed as
// cancelled and returns how many rows changed.
func (r *AppointmentRepository) CancelOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := database.DB.Model(&models.Appointment{}).
		Where("date_time < ? AND status = ?", now, models.AppointmentScheduled).
		Update("status", models.AppointmentCancelled)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cancel overdue appointments: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		if err := r.DeleteAllCache(ctx); err != nil {
			return result.RowsAffected, err
		}
	}
	return result.RowsAffected, nil
}

func (r *AppointmentRepository) invalidate(ctx context.Context, patientID string, id uint) error {
	if err := r.cache.Delete(ctx, r.getAppointmentCacheKey(patientID, id)); err != nil {
		return fmt.Errorf("failed to delete appointment cache: %w", err)
	}
	if err := r.cache.DeleteAll(ctx, "appointments_cache"); err != nil {
		return fmt.Errorf("failed to delete all appointments cache: %w", err)
	}
	if err := r.cache.Delete(ctx, r.getPatientCacheKey(patientID)); err != nil {
		return fmt.Errorf("failed to delete patient cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "patients_cache")
}

func (r *AppointmentRepository) DeleteCache(ctx context.Context, patientID string, id uint) error {
	return r.cache.Delete(ctx, r.getAppointmentCacheKey(patientID, id))
}

func (r *AppointmentRepository) DeleteAllCache(ctx context.Context) error {
	return r.cache.DeleteAll(ctx, "appointments_cache")
}

func (r *AppointmentRepository) getAppointmentCacheKey(patientID string, id uint) string {
	return fmt.Sprintf("appointment_cache:%s:%d", patientID, id)
}

func (r *AppointmentRepository) getPatientCacheKey(patientID string) string {
	return fmt.Sprintf("patient_cache:%s", patientID)
}
