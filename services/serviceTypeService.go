package services

import (
	"SonoCare/models"
	"SonoCare/repositories"
	"SonoCare/utils"
	"context"
)

type ServiceTypeService struct {
	repository *repositories.ServiceTypeRepository
}

func NewServiceTypeService(repository *repositories.ServiceTypeRepository) *ServiceTypeService {
	return &ServiceTypeService{repository: repository}
}

func (s *ServiceTypeService) Create(ctx context.Context, service *models.ServiceType) error {
	if err := utils.ValidateServiceType(*service); err != nil {
		return err
	}
	return s.repository.Create(ctx, service)
}

func (s *ServiceTypeService) GetByID(ctx context.Context, id uint) (*models.ServiceType, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *ServiceTypeService) GetAll(ctx context.Context) ([]models.ServiceType, error) {
	return s.repository.GetAll(ctx)
}

func (s *ServiceTypeService) GetActive(ctx context.Context) ([]models.ServiceType, error) {
	return s.repository.GetActive(ctx)
}

func (s *ServiceTypeService) Update(ctx context.Context, service *models.ServiceType) error {
	if err := utils.ValidateServiceType(*service); err != nil {
		return err
	}
	return s.repository.Update(ctx, service)
}

// Delete removes a catalog entry unless bill items reference it.
func (s *ServiceTypeService) Delete(ctx context.Context, id uint) error {
	return s.repository.Delete(ctx, id)
}
