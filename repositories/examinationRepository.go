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
	ExamCacheExpiry = 7 * 24 * time.Hour
)

type ExaminationRepository struct {
	cache *cache.Cache
}

func NewExaminationRepository(cache *cache.Cache) *ExaminationRepository {
	return &ExaminationRepository{cache: cache}
}

func (r *ExaminationRepository) Create(ctx context.Context, exam *models.UltrasoundExam) error {
	lockKey := fmt.Sprintf("exam_lock:%s_%s_%s", exam.PatientID, exam.ExamDate, exam.ExamTime)
	return withLock(ctx, lockKey, func() error {
		// The patient must exist and not be archived or purged.
		var patient models.Patient
		if err := database.DB.First(&patient, "id = ?", exam.PatientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrPatientNotFound
			}
			return fmt.Errorf("failed to find patient: %w", err)
		}
		if patient.Status != models.PatientActive {
			return models.ErrPatientNotActive
		}

		if err := database.DB.Create(exam).Error; err != nil {
			return fmt.Errorf("failed to create exam: %w", err)
		}
		return r.invalidate(ctx, exam.PatientID, exam.ID)
	})
}

func (r *ExaminationRepository) GetByID(ctx context.Context, patientID string, id uint) (*models.UltrasoundExam, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getExamCacheKey(patientID, id)
	cachedExam, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedExam != "" {
		var exam models.UltrasoundExam
		if err := json.Unmarshal([]byte(cachedExam), &exam); err == nil {
			return &exam, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get exam from cache: %v", err)
	}

	var exam models.UltrasoundExam
	err = database.DB.
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, sex, date_of_birth")
		}).
		First(&exam, "id = ? AND patient_id = ?", id, patientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	examJSON, err := json.Marshal(exam)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal exam: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, examJSON, ExamCacheExpiry); err != nil {
		log.Printf("Failed to set exam in cache: %v", err)
	}

	return &exam, nil
}

func (r *ExaminationRepository) GetAllByPatient(ctx context.Context, patientID string) ([]models.UltrasoundExam, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var exams []models.UltrasoundExam
	err := database.DB.
		Where("patient_id = ?", patientID).
		Order("exam_date DESC, exam_time DESC").
		Find(&exams).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get patient exams: %w", err)
	}
	return exams, nil
}

func (r *ExaminationRepository) GetAll(ctx context.Context) ([]models.UltrasoundExam, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "exams_cache"
	cachedExams, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedExams != "" {
		var exams []models.UltrasoundExam
		if err := json.Unmarshal([]byte(cachedExams), &exams); err == nil {
			return exams, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get exams from cache: %v", err)
	}

	var exams []models.UltrasoundExam
	err = database.DB.
		Select("id, patient_id, referring_physician, procedure_type, exam_date, exam_time, technologist, radiologist, recommendation, created_at").
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name")
		}).
		Order("exam_date DESC, exam_time DESC").
		Find(&exams).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all exams: %w", err)
	}

	examsJSON, err := json.Marshal(exams)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal exams: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, examsJSON, ExamCacheExpiry); err != nil {
		log.Printf("Failed to set exams in cache: %v", err)
	}

	return exams, nil
}

func (r *ExaminationRepository) Update(ctx context.Context, exam *models.UltrasoundExam) error {
	lockKey := fmt.Sprintf("exam_lock:%d", exam.ID)
	return withLock(ctx, lockKey, func() error {
		if err := database.DB.Save(exam).Error; err != nil {
			return fmt.Errorf("failed to update exam: %w", err)
		}
		return r.invalidate(ctx, exam.PatientID, exam.ID)
	})
}

func (r *ExaminationRepository) Delete(ctx context.Context, id uint) error {
	lockKey := fmt.Sprintf("exam_lock:%d", id)
	return withLock(ctx, lockKey, func() error {
		var exam models.UltrasoundExam
		if err := database.DB.First(&exam, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to find exam: %w", err)
		}

		// Billed exams are part of the financial record and stay put.
		var count int64
		if err := database.DB.Model(&models.BillItem{}).Where("exam_id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check exam billing: %w", err)
		}
		if err := models.ExamBillable(count); err != nil {
			return err
		}

		if err := database.DB.Delete(&models.UltrasoundExam{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete exam: %w", err)
		}
		return r.invalidate(ctx, exam.PatientID, id)
	})
}

func (r *ExaminationRepository) invalidate(ctx context.Context, patientID string, id uint) error {
	if err := r.cache.Delete(ctx, r.getExamCacheKey(patientID, id)); err != nil {
		return fmt.Errorf("failed to delete exam cache: %w", err)
	}
	if err := r.cache.DeleteAll(ctx, "exams_cache"); err != nil {
		return fmt.Errorf("failed to delete all exams cache: %w", err)
	}
	if err := r.cache.Delete(ctx, r.getPatientCacheKey(patientID)); err != nil {
		return fmt.Errorf("failed to delete patient cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "patients_cache")
}

func (r *ExaminationRepository) DeleteCache(ctx context.Context, patientID string, id uint) error {
	return r.cache.Delete(ctx, r.getExamCacheKey(patientID, id))
}

func (r *ExaminationRepository) DeleteAllCache(ctx context.Context) error {
	return r.cache.DeleteAll(ctx, "exams_cache")
}

func (r *ExaminationRepository) getExamCacheKey(patientID string, id uint) string {
	return fmt.Sprintf("exam_cache:%s:%d", patientID, id)
}

func (r *ExaminationRepository) getPatientCacheKey(patientID string) string {
	return fmt.Sprintf("patient_cache:%s", patientID)
}
