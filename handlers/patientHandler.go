package handlers

import (
	"SonoCare/models"
	"SonoCare/services"
	"errors"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Create(c, &patient); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, patient)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id := c.Param("patient_id")
	patient, err := h.service.GetByID(c, id)
	if err != nil || patient == nil {
		c.JSON(404, gin.H{"error": "Patient not found"})
		return
	}
	c.JSON(200, patient)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.service.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, patients)
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id := c.Param("patient_id")
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	patient.ID = id
	if err := h.service.Update(c, &patient); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, patient)
}

func (h *PatientHandler) ArchivePatient(c *gin.Context) {
	id := c.Param("patient_id")
	if err := h.service.Archive(c, id); err != nil {
		c.JSON(patientErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "Patient archived"})
}

func (h *PatientHandler) RestorePatient(c *gin.Context) {
	id := c.Param("patient_id")
	if err := h.service.Restore(c, id); err != nil {
		c.JSON(patientErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "Patient restored"})
}

func (h *PatientHandler) PurgePatient(c *gin.Context) {
	id := c.Param("patient_id")
	if err := h.service.Purge(c, id); err != nil {
		c.JSON(patientErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(204, gin.H{"message": "Patient and all related records deleted"})
}

func patientErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrPatientNotActive),
		errors.Is(err, models.ErrPatientNotArchived):
		return 409
	default:
		return 500
	}
}
