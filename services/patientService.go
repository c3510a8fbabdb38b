package services

import (
	"SonoCare/models"
	"SonoCare/repositories"
	"context"
)

type PatientService struct {
	repository *repositories.PatientRepository
}

func NewPatientService(repository *repositories.PatientRepository) *PatientService {
	return &PatientService{repository: repository}
}

func (s *PatientService) Create(ctx context.Context, patient *models.Patient) error {
	return s.repository.Create(ctx, patient)
}

func (s *PatientService) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *PatientService) GetAll(ctx context.Context) ([]models.Patient, error) {
	return s.repository.GetAll(ctx)
}

func (s *PatientService) Update(ctx context.Context, patient *models.Patient) error {
	return s.repository.Update(ctx, patient)
}

// Archive takes an active patient out of circulation without touching
// their records.
func (s *PatientService) Archive(ctx context.Context, id string) error {
	return s.repository.Archive(ctx, id)
}

// Restore returns an archived patient to active status.
func (s *PatientService) Restore(ctx context.Context, id string) error {
	return s.repository.Restore(ctx, id)
}

// Purge permanently removes an archived patient and all dependent rows.
func (s *PatientService) Purge(ctx context.Context, id string) error {
	return s.repository.Purge(ctx, id)
}
