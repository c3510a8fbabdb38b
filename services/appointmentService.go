package services

import (
	"SonoCare/models"
	"SonoCare/repositories"
	"context"
	"time"
)

type AppointmentService struct {
	repository *repositories.AppointmentRepository
}

func NewAppointmentService(repository *repositories.AppointmentRepository) *AppointmentService {
	return &AppointmentService{repository: repository}
}

func (s *AppointmentService) Create(ctx context.Context, appointment *models.Appointment) error {
	return s.repository.Create(ctx, appointment)
}

func (s *AppointmentService) GetByID(ctx context.Context, patientID string, id uint) (*models.Appointment, error) {
	return s.repository.GetByID(ctx, patientID, id)
}

func (s *AppointmentService) GetAll(ctx context.Context) ([]models.Appointment, error) {
	return s.repository.GetAll(ctx)
}

func (s *AppointmentService) GetAllByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return s.repository.GetAllByPatient(ctx, patientID)
}

func (s *AppointmentService) Update(ctx context.Context, appointment *models.Appointment) error {
	return s.repository.Update(ctx, appointment)
}

func (s *AppointmentService) Delete(ctx context.Context, patientID string, id uint) error {
	return s.repository.Delete(ctx, patientID, id)
}

// CancelOverdue marks every scheduled appointment whose time has passed
// as cancelled and returns how many were affected.
func (s *AppointmentService) CancelOverdue(ctx context.Context) (int64, error) {
	return s.repository.CancelOverdue(ctx, time.Now())
}
