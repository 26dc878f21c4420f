// controllers/appointment.go
package controllers

import (
	"errors"
	"net/http"

	"boutique-backend/config"
	"boutique-backend/models"
	"boutique-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateAppointmentInput struct {
	CustomerName    string `json:"customerName" binding:"required"`
	CustomerSurname string `json:"customerSurname"`
	CustomerPhone   string `json:"customerPhone" binding:"required"`
	CustomerEmail   string `json:"customerEmail"`
	Date            string `json:"date" binding:"required"` // YYYY-MM-DD
	Time            string `json:"time" binding:"required"` // HH:MM
	AppointmentType string `json:"appointmentType"`
	Profile         string `json:"profile"`
	Note            string `json:"note"`
}

type UpdateAppointmentInput struct {
	CustomerName    *string `json:"customerName"`
	CustomerSurname *string `json:"customerSurname"`
	CustomerPhone   *string `json:"customerPhone"`
	CustomerEmail   *string `json:"customerEmail"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	AppointmentType *string `json:"appointmentType"`
	Note            *string `json:"note"`
}

type AssignStaffInput struct {
	StaffName  string `json:"staffName" binding:"required"`
	StaffPhone string `json:"staffPhone"`
	StaffEmail string `json:"staffEmail"`
}

// CreateAppointment books a slot and fires the creation trigger. This is the
// public booking endpoint; Profile arrives from the booking link and may be a
// legacy short code.
func CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.CustomerPhone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	appointment := models.Appointment{
		CustomerName:    input.CustomerName,
		CustomerSurname: input.CustomerSurname,
		CustomerPhone:   input.CustomerPhone,
		CustomerEmail:   input.CustomerEmail,
		Date:            input.Date,
		Time:            input.Time,
		AppointmentType: input.AppointmentType,
		Profile:         input.Profile,
		Note:            input.Note,
		Status:          models.AppointmentActive,
	}

	if err := config.DB.Create(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	// Notification failures never fail the booking.
	go dispatcher.TriggerEvent(models.TriggerAppointmentCreate, appointment)

	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments retrieves appointments, optionally filtered by date,
// status or profile.
func GetAppointments(c *gin.Context) {
	query := config.DB.Model(&models.Appointment{}).Order("date, time")

	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if profile := c.Query("profile"); profile != "" {
		query = query.Where("profile = ?", profile)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// GetAppointment retrieves a specific appointment by ID
func GetAppointment(c *gin.Context) {
	appointment, ok := findAppointment(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointment edits a booking and fires the update trigger.
func UpdateAppointment(c *gin.Context) {
	appointment, ok := findAppointment(c)
	if !ok {
		return
	}

	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.CustomerName != nil {
		appointment.CustomerName = *input.CustomerName
	}
	if input.CustomerSurname != nil {
		appointment.CustomerSurname = *input.CustomerSurname
	}
	if input.CustomerPhone != nil {
		if !utils.ValidatePhone(*input.CustomerPhone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
			return
		}
		appointment.CustomerPhone = *input.CustomerPhone
	}
	if input.CustomerEmail != nil {
		appointment.CustomerEmail = *input.CustomerEmail
	}
	if input.Date != nil {
		appointment.Date = *input.Date
	}
	if input.Time != nil {
		appointment.Time = *input.Time
	}
	if input.AppointmentType != nil {
		appointment.AppointmentType = *input.AppointmentType
	}
	if input.Note != nil {
		appointment.Note = *input.Note
	}

	if err := config.DB.Save(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	go dispatcher.TriggerEvent(models.TriggerAppointmentUpdate, appointment)

	c.JSON(http.StatusOK, appointment)
}

// CancelAppointment marks a booking cancelled and fires the cancel trigger.
func CancelAppointment(c *gin.Context) {
	appointment, ok := findAppointment(c)
	if !ok {
		return
	}

	if appointment.Status == models.AppointmentCancelled {
		utils.RespondWithError(c, http.StatusConflict, "Appointment already cancelled")
		return
	}

	appointment.Status = models.AppointmentCancelled
	if err := config.DB.Save(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel appointment")
		return
	}

	go dispatcher.TriggerEvent(models.TriggerAppointmentCancel, appointment)

	c.JSON(http.StatusOK, appointment)
}

// AssignStaff sets the staff fields and fires the assignment trigger, which
// typically notifies both the customer and the assigned staff member.
func AssignStaff(c *gin.Context) {
	appointment, ok := findAppointment(c)
	if !ok {
		return
	}

	var input AssignStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appointment.StaffName = input.StaffName
	appointment.StaffPhone = input.StaffPhone
	appointment.StaffEmail = input.StaffEmail

	if err := config.DB.Save(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to assign staff")
		return
	}

	go dispatcher.TriggerEvent(models.TriggerStaffAssign, appointment)

	c.JSON(http.StatusOK, appointment)
}

func findAppointment(c *gin.Context) (models.Appointment, bool) {
	var appointment models.Appointment

	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return appointment, false
	}

	if err := config.DB.First(&appointment, "id = ?", appointmentUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return appointment, false
	}

	return appointment, true
}
