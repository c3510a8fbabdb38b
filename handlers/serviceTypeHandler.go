package handlers

import (
	"SonoCare/models"
	"SonoCare/services"
	"SonoCare/utils"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ServiceTypeHandler struct {
	service *services.ServiceTypeService
}

func NewServiceTypeHandler(service *services.ServiceTypeService) *ServiceTypeHandler {
	return &ServiceTypeHandler{service: service}
}

func (h *ServiceTypeHandler) CreateServiceType(c *gin.Context) {
	var serviceType models.ServiceType
	if err := c.ShouldBindJSON(&serviceType); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Create(c, &serviceType); err != nil {
		c.JSON(serviceTypeErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, serviceType)
}

func (h *ServiceTypeHandler) GetServiceTypeByID(c *gin.Context) {
	idParam := c.Param("service_type_id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID"})
		return
	}
	serviceType, err := h.service.GetByID(c, uint(id))
	if err != nil || serviceType == nil {
		c.JSON(404, gin.H{"error": "Service type not found"})
		return
	}
	c.JSON(200, serviceType)
}

func (h *ServiceTypeHandler) GetAllServiceTypes(c *gin.Context) {
	if c.Query("active") == "true" {
		serviceTypes, err := h.service.GetActive(c)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(200, serviceTypes)
		return
	}
	serviceTypes, err := h.service.GetAll(c)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, serviceTypes)
}

func (h *ServiceTypeHandler) UpdateServiceType(c *gin.Context) {
	idParam := c.Param("service_type_id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID"})
		return
	}
	var serviceType models.ServiceType
	if err := c.ShouldBindJSON(&serviceType); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	serviceType.ID = uint(id)
	if err := h.service.Update(c, &serviceType); err != nil {
		c.JSON(serviceTypeErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, serviceType)
}

func (h *ServiceTypeHandler) DeleteServiceType(c *gin.Context) {
	idParam := c.Param("service_type_id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID"})
		return
	}
	if err := h.service.Delete(c, uint(id)); err != nil {
		if errors.Is(err, models.ErrServiceTypeInUse) {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(204, gin.H{"message": "Service type deleted"})
}

func serviceTypeErrorStatus(err error) int {
	switch {
	case errors.Is(err, utils.ErrAmountNotPositive), isValidationError(err):
		return 400
	default:
		return 500
	}
}
