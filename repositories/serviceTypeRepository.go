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
	ServiceTypeCacheExpiry = 7 * 24 * time.Hour
)

type ServiceTypeRepository struct {
	cache *cache.Cache
}

func NewServiceTypeRepository(cache *cache.Cache) *ServiceTypeRepository {
	return &ServiceTypeRepository{cache: cache}
}

func (r *ServiceTypeRepository) Create(ctx context.Context, service *models.ServiceType) error {
	lockKey := fmt.Sprintf("service_type_lock:%s", service.Name)
	return withLock(ctx, lockKey, func() error {
		if err := database.DB.Create(service).Error; err != nil {
			return fmt.Errorf("failed to create service type: %w", err)
		}
		return r.cache.DeleteAll(ctx, "service_types_cache")
	})
}

func (r *ServiceTypeRepository) GetByID(ctx context.Context, id uint) (*models.ServiceType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var service models.ServiceType
	err := database.DB.First(&service, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get service type: %w", err)
	}
	return &service, nil
}

func (r *ServiceTypeRepository) GetAll(ctx context.Context) ([]models.ServiceType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "service_types_cache"
	cachedServices, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cachedServices != "" {
		var services []models.ServiceType
		if err := json.Unmarshal([]byte(cachedServices), &services); err == nil {
			return services, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get service types from cache: %v", err)
	}

	var services []models.ServiceType
	err = database.DB.Order("name ASC").Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all service types: %w", err)
	}

	servicesJSON, err := json.Marshal(services)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal service types: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, servicesJSON, ServiceTypeCacheExpiry); err != nil {
		log.Printf("Failed to set service types in cache: %v", err)
	}

	return services, nil
}

// GetActive returns the catalog entries currently offered.
func (r *ServiceTypeRepository) GetActive(ctx context.Context) ([]models.ServiceType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var services []models.ServiceType
	err := database.DB.Where("is_active = ?", true).Order("name ASC").Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active service types: %w", err)
	}
	return services, nil
}

func (r *ServiceTypeRepository) Update(ctx context.Context, service *models.ServiceType) error {
	lockKey := fmt.Sprintf("service_type_lock:%d", service.ID)
	return withLock(ctx, lockKey, func() error {
		err := database.DB.Model(&models.ServiceType{}).Where("id = ?", service.ID).Updates(map[string]interface{}{
			"name":        service.Name,
			"description": service.Description,
			"base_price":  service.BasePrice,
			"is_active":   service.IsActive,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update service type: %w", err)
		}
		return r.cache.DeleteAll(ctx, "service_types_cache")
	})
}

// Delete removes a catalog entry. Entries referenced by any historical
// bill item are protected; deactivate those instead.
func (r *ServiceTypeRepository) Delete(ctx context.Context, id uint) error {
	lockKey := fmt.Sprintf("service_type_lock:%d", id)
	return withLock(ctx, lockKey, func() error {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.BillItem{}).Where("service_id = ?", id).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check service references: %w", err)
			}
			if count > 0 {
				return models.ErrServiceTypeInUse
			}
			return tx.Delete(&models.ServiceType{}, id).Error
		})
		if err != nil {
			return err
		}
		return r.cache.DeleteAll(ctx, "service_types_cache")
	})
}
