package handlers

import (
	"SonoCare/models"
	"SonoCare/services"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ExaminationHandler struct {
	service *services.ExaminationService
}

func NewExaminationHandler(service *services.ExaminationService) *ExaminationHandler {
	return &ExaminationHandler{service: service}
}

func (h *ExaminationHandler) CreateExam(c *gin.Context) {
	var exam models.UltrasoundExam
	if err := c.ShouldBindJSON(&exam); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	exam.PatientID = c.Param("patient_id")
	if err := h.service.Create(c, &exam); err != nil {
		if errors.Is(err, models.ErrPatientNotActive) {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, exam)
}

func (h *ExaminationHandler) GetExamByID(c *gin.Context) {
	patientID := c.Param("patient_id")
	idParam := c.Param("exam_id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID"})
		return
	}
	exam, err := h.service.GetByID(c, patientID, uint(id))
	if err != nil {
		c.JSON(404, gin.H{"error": "Exam not found"})
		return
	}
	c.JSON(200, exam)
}

func (h *ExaminationHandler) GetPatientExams(c *gin.Context) {
	patientID := c.Param("patient_id")
	exams, err := h.service.GetAllByPatient(c, patientID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, exams)
}

func (h *ExaminationHandler) GetAllExams(c *gin.Context) {
	exams, err := h.service.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, exams)
}

func (h *ExaminationHandler) UpdateExam(c *gin.Context) {
	patientID := c.Param("patient_id")
	idParam := c.Param("exam_id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID"})
		return
	}
	var exam models.UltrasoundExam
	if err := c.ShouldBindJSON(&exam); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	exam.ID = uint(id)
	exam.PatientID = patientID
	if err := h.service.Update(c, &exam); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, exam)
}

func (h *ExaminationHandler) DeleteExam(c *gin.Context) {
	idParam := c.Param("exam_id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID"})
		return
	}
	if err := h.service.Delete(c, uint(id)); err != nil {
		if errors.Is(err, models.ErrExamAlreadyBilled) {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(204, gin.H{"message": "Exam deleted"})
}
