package services

import (
	"SonoCare/models"
	"SonoCare/repositories"
	"context"
)

type ExaminationService struct {
	repository *repositories.ExaminationRepository
}

func NewExaminationService(repository *repositories.ExaminationRepository) *ExaminationService {
	return &ExaminationService{repository: repository}
}

func (s *ExaminationService) Create(ctx context.Context, exam *models.UltrasoundExam) error {
	return s.repository.Create(ctx, exam)
}

func (s *ExaminationService) GetByID(ctx context.Context, patientID string, id uint) (*models.UltrasoundExam, error) {
	return s.repository.GetByID(ctx, patientID, id)
}

func (s *ExaminationService) GetAllByPatient(ctx context.Context, patientID string) ([]models.UltrasoundExam, error) {
	return s.repository.GetAllByPatient(ctx, patientID)
}

func (s *ExaminationService) GetAll(ctx context.Context) ([]models.UltrasoundExam, error) {
	return s.repository.GetAll(ctx)
}

func (s *ExaminationService) Update(ctx context.Context, exam *models.UltrasoundExam) error {
	return s.repository.Update(ctx, exam)
}

func (s *ExaminationService) Delete(ctx context.Context, id uint) error {
	return s.repository.Delete(ctx, id)
}
