// controllers/flow.go
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

// CreateFlowInput defines the expected JSON structure for creating a flow.
// Profiles and template id lists accept either a JSON array or a string
// holding an encoded array; Active accepts a bool or a string.
type CreateFlowInput struct {
	Name                string      `json:"name" binding:"required"`
	Description         string      `json:"description"`
	Trigger             string      `json:"trigger" binding:"required"`
	Profiles            interface{} `json:"profiles"`
	WhatsAppTemplateIDs interface{} `json:"whatsappTemplateIds"`
	MailTemplateIDs     interface{} `json:"mailTemplateIds"`
	Active              interface{} `json:"active"`
	ScheduleHour        string      `json:"scheduleHour"`
}

type UpdateFlowInput struct {
	Name                *string     `json:"name"`
	Description         *string     `json:"description"`
	Trigger             *string     `json:"trigger"`
	Profiles            interface{} `json:"profiles"`
	WhatsAppTemplateIDs interface{} `json:"whatsappTemplateIds"`
	MailTemplateIDs     interface{} `json:"mailTemplateIds"`
	Active              interface{} `json:"active"`
	ScheduleHour        *string     `json:"scheduleHour"`
}

// DiagnoseFlowsInput is the dry-run request: which trigger and profile to
// evaluate the flow table against.
type DiagnoseFlowsInput struct {
	Trigger     string `json:"trigger" binding:"required"`
	ProfileCode string `json:"profileCode"`
}

var validTriggers = map[string]bool{
	models.TriggerAppointmentCreate: true,
	models.TriggerAppointmentUpdate: true,
	models.TriggerAppointmentCancel: true,
	models.TriggerStaffAssign:       true,
	models.TriggerReminder:          true,
}

// CreateFlow creates a new notification flow
func CreateFlow(c *gin.Context) {
	var input CreateFlowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !validTriggers[input.Trigger] {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown trigger: "+input.Trigger)
		return
	}

	flow := models.NotificationFlow{
		Name:                input.Name,
		Description:         input.Description,
		Trigger:             input.Trigger,
		Profiles:            utils.EncodeList(utils.FlexibleList(input.Profiles, nil)),
		WhatsAppTemplateIDs: utils.EncodeList(utils.FlexibleList(input.WhatsAppTemplateIDs, nil)),
		MailTemplateIDs:     utils.EncodeList(utils.FlexibleList(input.MailTemplateIDs, nil)),
		Active:              utils.EncodeBool(input.Active == nil || utils.FlexibleBool(input.Active)),
		ScheduleHour:        input.ScheduleHour,
	}

	if err := config.DB.Create(&flow).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create flow")
		return
	}

	c.JSON(http.StatusCreated, flow)
}

// GetFlows retrieves all notification flows
func GetFlows(c *gin.Context) {
	var flows []models.NotificationFlow
	if err := config.DB.Order("created_at").Find(&flows).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve flows")
		return
	}

	c.JSON(http.StatusOK, flows)
}

// GetFlow retrieves a specific flow by ID
func GetFlow(c *gin.Context) {
	flowUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid flow ID format")
		return
	}

	var flow models.NotificationFlow
	if err := config.DB.First(&flow, "id = ?", flowUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Flow not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, flow)
}

// UpdateFlow updates an existing flow
func UpdateFlow(c *gin.Context) {
	flowUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid flow ID format")
		return
	}

	var input UpdateFlowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var flow models.NotificationFlow
	if err := config.DB.First(&flow, "id = ?", flowUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Flow not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		flow.Name = *input.Name
	}
	if input.Description != nil {
		flow.Description = *input.Description
	}
	if input.Trigger != nil {
		if !validTriggers[*input.Trigger] {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown trigger: "+*input.Trigger)
			return
		}
		flow.Trigger = *input.Trigger
	}
	if input.Profiles != nil {
		flow.Profiles = utils.EncodeList(utils.FlexibleList(input.Profiles, nil))
	}
	if input.WhatsAppTemplateIDs != nil {
		flow.WhatsAppTemplateIDs = utils.EncodeList(utils.FlexibleList(input.WhatsAppTemplateIDs, nil))
	}
	if input.MailTemplateIDs != nil {
		flow.MailTemplateIDs = utils.EncodeList(utils.FlexibleList(input.MailTemplateIDs, nil))
	}
	if input.Active != nil {
		flow.Active = utils.EncodeBool(utils.FlexibleBool(input.Active))
	}
	if input.ScheduleHour != nil {
		flow.ScheduleHour = *input.ScheduleHour
	}

	if err := config.DB.Save(&flow).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update flow")
		return
	}

	c.JSON(http.StatusOK, flow)
}

// DeleteFlow soft deletes a flow
func DeleteFlow(c *gin.Context) {
	flowUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid flow ID format")
		return
	}

	result := config.DB.Delete(&models.NotificationFlow{}, "id = ?", flowUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete flow")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Flow not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Flow deleted successfully"})
}

// DiagnoseFlows evaluates every flow against a trigger/profile pair without
// sending anything. The report carries per-flow match booleans plus raw and
// normalized field values.
func DiagnoseFlows(c *gin.Context) {
	var input DiagnoseFlowsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	report, err := flows.Explain(input.Trigger, input.ProfileCode)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to evaluate flows")
		return
	}

	c.JSON(http.StatusOK, report)
}
