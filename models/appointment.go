package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment types
const (
	AppointmentMeeting    = "meeting"
	AppointmentDelivery   = "delivery"
	AppointmentShipping   = "shipping"
	AppointmentService    = "service"
	AppointmentManagement = "management"
)

// Appointment statuses
const (
	AppointmentActive    = "active"
	AppointmentCancelled = "cancelled"
)

// Appointment is a booked slot. Profile records how the booking link was
// accessed and may hold either a legacy short code or a full profile key,
// depending on the link generation that produced it.
type Appointment struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerName    string    `gorm:"not null" json:"customerName"`
	CustomerSurname string    `json:"customerSurname"`
	CustomerPhone   string    `gorm:"index;not null" json:"customerPhone"`
	CustomerEmail   string    `json:"customerEmail"`
	Date            string    `gorm:"type:varchar(10);index;not null" json:"date"` // YYYY-MM-DD
	Time            string    `gorm:"type:varchar(5);not null" json:"time"`        // HH:MM
	AppointmentType string    `gorm:"type:varchar(20)" json:"appointmentType"`
	Profile         string    `gorm:"type:varchar(20)" json:"profile"`
	StaffName       string    `json:"staffName"`
	StaffPhone      string    `json:"staffPhone"`
	StaffEmail      string    `json:"staffEmail"`
	Note            string    `gorm:"type:text" json:"note"`
	Status          string    `gorm:"type:varchar(20);default:'active';index" json:"status"`
	gorm.Model
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
