package models

import (
	"errors"
	"time"
)

// Patient lifecycle statuses. Archiving is reversible, purging is not:
// a patient must be archived before its records can be hard-deleted.
const (
	PatientActive   = "ACTIVE"
	PatientArchived = "ARCHIVED"
	PatientPurged   = "PURGED"
)

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrPatientNotActive   = errors.New("patient is not active")
	ErrPatientNotArchived = errors.New("patient must be archived first")
)

// Patient model
type Patient struct {
	ID                     string           `gorm:"primaryKey;column:id" json:"id"`
	FirstName              string           `gorm:"column:first_name;not null" json:"first_name"`
	LastName               string           `gorm:"column:last_name;not null;index" json:"last_name"`
	Sex                    string           `gorm:"column:sex;check:sex IN ('M', 'F', 'O');not null" json:"sex"`
	DateOfBirth            string           `gorm:"column:date_of_birth;not null;index" json:"date_of_birth"`
	Address                string           `gorm:"column:address" json:"address"`
	ContactNumber          string           `gorm:"column:contact_number" json:"contact_number"`
	Email                  string           `gorm:"column:email" json:"email"`
	EmergencyContact       string           `gorm:"column:emergency_contact" json:"emergency_contact"`
	EmergencyContactNumber string           `gorm:"column:emergency_contact_number" json:"emergency_contact_number"`
	Status                 string           `gorm:"column:status;check:status IN ('ACTIVE', 'ARCHIVED', 'PURGED');not null;default:'ACTIVE'" json:"status"`
	ArchivedAt             *time.Time       `gorm:"column:archived_at" json:"archived_at,omitempty"`
	CreatedAt              time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Exams                  []UltrasoundExam `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Appointments           []Appointment    `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Bills                  []Bill           `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}

// Archive moves an active patient into the archived state.
func (p *Patient) Archive(now time.Time) error {
	if p.Status != PatientActive {
		return ErrPatientNotActive
	}
	p.Status = PatientArchived
	p.ArchivedAt = &now
	return nil
}

// Restore returns an archived patient to active.
func (p *Patient) Restore() error {
	if p.Status != PatientArchived {
		return ErrPatientNotArchived
	}
	p.Status = PatientActive
	p.ArchivedAt = nil
	return nil
}

// CanPurge reports whether the patient's records may be hard-deleted.
func (p *Patient) CanPurge() error {
	if p.Status != PatientArchived {
		return ErrPatientNotArchived
	}
	return nil
}

// FullName joins the patient's first and last names.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Ultrasound procedure type codes
const (
	ProcedureAbdominal    = "ABD"
	ProcedurePelvic       = "PEL"
	ProcedureObstetric    = "OBS"
	ProcedureTransvaginal = "TVS"
	ProcedureBreast       = "BRE"
	ProcedureThyroid      = "THY"
	ProcedureScrotal      = "SCR"
	ProcedureDoppler      = "DOP"
	ProcedureOther        = "OTH"
)

// Exam recommendation codes
const (
	RecommendFurtherImaging = "FI"
	RecommendFollowUp       = "FU"
	RecommendSpecialist     = "RS"
	RecommendBiopsy         = "BI"
	RecommendNoFurtherWork  = "NF"
)

// UltrasoundExam model
type UltrasoundExam struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	PatientID          string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	ReferringPhysician string    `gorm:"column:referring_physician;not null" json:"referring_physician"`
	ClinicalDiagnosis  string    `gorm:"column:clinical_diagnosis;type:text" json:"clinical_diagnosis"`
	MedicalHistory     string    `gorm:"column:medical_history;type:text" json:"medical_history"`
	ProcedureType      string    `gorm:"column:procedure_type;check:procedure_type IN ('ABD', 'PEL', 'OBS', 'TVS', 'BRE', 'THY', 'SCR', 'DOP', 'OTH');not null" json:"procedure_type"`
	DopplerSite        string    `gorm:"column:doppler_site" json:"doppler_site"`
	OtherProcedure     string    `gorm:"column:other_procedure" json:"other_procedure"`
	ExamDate           string    `gorm:"column:exam_date;not null;index" json:"exam_date"`
	ExamTime           string    `gorm:"column:exam_time;not null" json:"exam_time"`
	Technologist       string    `gorm:"column:technologist;not null" json:"technologist"`
	Radiologist        string    `gorm:"column:radiologist;not null" json:"radiologist"`
	Findings           string    `gorm:"column:findings;type:text" json:"findings"`
	Impression         string    `gorm:"column:impression;type:text" json:"impression"`
	Recommendation     string    `gorm:"column:recommendation;check:recommendation IN ('FI', 'FU', 'RS', 'BI', 'NF')" json:"recommendation"`
	FollowupDuration   string    `gorm:"column:followup_duration" json:"followup_duration"`
	SpecialistReferral string    `gorm:"column:specialist_referral" json:"specialist_referral"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Patient            Patient   `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (UltrasoundExam) TableName() string {
	return "ultrasound_exam"
}

// Appointment statuses
const (
	AppointmentScheduled = "SCHEDULED"
	AppointmentConfirmed = "CONFIRMED"
	AppointmentCompleted = "COMPLETED"
	AppointmentCancelled = "CANCELLED"
)

// Appointment model
type Appointment struct {
	ID            uint      `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	PatientID     string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	ProcedureType string    `gorm:"column:procedure_type;check:procedure_type IN ('ABD', 'PEL', 'OBS', 'TVS', 'BRE', 'THY', 'SCR', 'DOP', 'OTH');not null" json:"procedure_type"`
	DateTime      time.Time `gorm:"column:date_time;not null;index" json:"date_time"`
	Status        string    `gorm:"column:status;check:status IN ('SCHEDULED', 'CONFIRMED', 'COMPLETED', 'CANCELLED');not null" json:"status"`
	Notes         string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient       Patient   `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
}

func (Appointment) TableName() string {
	return "appointment"
}

// ValidAppointmentStatus reports whether s is a known appointment status.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}
