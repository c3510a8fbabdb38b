package controllers

import (
	"SonoCare/handlers"

	"github.com/gin-gonic/gin"
)

func SetupClinicRoutes(
	router *gin.Engine,
	patientHandler *handlers.PatientHandler,
	examinationHandler *handlers.ExaminationHandler,
	appointmentHandler *handlers.AppointmentHandler,
	serviceTypeHandler *handlers.ServiceTypeHandler,
	billingHandler *handlers.BillingHandler,
	reportHandler *handlers.ReportHandler,
) {
	router.POST("/patients", patientHandler.CreatePatient)
	router.GET("/patients/:patient_id", patientHandler.GetPatientByID)
	router.PUT("/patients/:patient_id", patientHandler.UpdatePatient)
	router.GET("/patients", patientHandler.GetAllPatients)
	router.POST("/patients/:patient_id/archive", patientHandler.ArchivePatient)
	router.POST("/patients/:patient_id/restore", patientHandler.RestorePatient)
	router.DELETE("/patients/:patient_id", patientHandler.PurgePatient)

	router.POST("/patients/:patient_id/exams", examinationHandler.CreateExam)
	router.GET("/patients/:patient_id/exams", examinationHandler.GetPatientExams)
	router.GET("/patients/:patient_id/exams/:exam_id", examinationHandler.GetExamByID)
	router.PUT("/patients/:patient_id/exams/:exam_id", examinationHandler.UpdateExam)
	router.DELETE("/patients/:patient_id/exams/:exam_id", examinationHandler.DeleteExam)
	router.GET("/exams", examinationHandler.GetAllExams)

	router.POST("/patients/:patient_id/appointments", appointmentHandler.CreateAppointment)
	router.GET("/patients/:patient_id/appointments", appointmentHandler.GetPatientAppointments)
	router.GET("/patients/:patient_id/appointments/:appointment_id", appointmentHandler.GetAppointmentByID)
	router.PUT("/patients/:patient_id/appointments/:appointment_id", appointmentHandler.UpdateAppointment)
	router.DELETE("/patients/:patient_id/appointments/:appointment_id", appointmentHandler.DeleteAppointment)
	router.GET("/appointments", appointmentHandler.GetAllAppointments)
	router.POST("/appointments/cancel-overdue", appointmentHandler.CancelOverdueAppointments)

	router.POST("/service_types", serviceTypeHandler.CreateServiceType)
	router.GET("/service_types/:service_type_id", serviceTypeHandler.GetServiceTypeByID)
	router.PUT("/service_types/:service_type_id", serviceTypeHandler.UpdateServiceType)
	router.DELETE("/service_types/:service_type_id", serviceTypeHandler.DeleteServiceType)
	router.GET("/service_types", serviceTypeHandler.GetAllServiceTypes)

	router.POST("/bills", billingHandler.CreateBill)
	router.GET("/bills", billingHandler.GetAllBills)
	router.GET("/bills/:bill_number", billingHandler.GetBillByNumber)
	router.GET("/bills/:bill_number/balance", billingHandler.GetBillBalance)
	router.POST("/bills/:bill_number/items", billingHandler.AddBillItem)
	router.POST("/bills/:bill_number/payments", billingHandler.RecordPayment)
	router.POST("/bills/:bill_number/cancel", billingHandler.CancelBill)
	router.POST("/bills/:bill_number/remind", billingHandler.SendReminder)
	router.POST("/bills/remind-overdue", billingHandler.SendDueReminders)
	router.GET("/patients/:patient_id/bills", billingHandler.GetPatientBills)

	router.GET("/reports/dashboard", reportHandler.GetDashboardSummary)
	router.GET("/reports/billing", reportHandler.GetBillingReport)
	router.GET("/reports/revenue-by-method", reportHandler.GetRevenueByMethod)
	router.GET("/reports/revenue-by-service", reportHandler.GetRevenueByService)
}
