// controllers/template.go
package controllers

import (
	"errors"
	"net/http"

	"boutique-backend/config"
	"boutique-backend/models"
	"boutique-backend/services"
	"boutique-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateWhatsAppTemplateInput struct {
	Name             string            `json:"name" binding:"required"`
	MetaTemplateName string            `json:"metaTemplateName"`
	Content          string            `json:"content" binding:"required"`
	Variables        map[string]string `json:"variables"` // position -> variable key
	TargetType       string            `json:"targetType"`
	Active           interface{}       `json:"active"`
}

type UpdateWhatsAppTemplateInput struct {
	Name             *string           `json:"name"`
	MetaTemplateName *string           `json:"metaTemplateName"`
	Content          *string           `json:"content"`
	Variables        map[string]string `json:"variables"`
	TargetType       *string           `json:"targetType"`
	Active           interface{}       `json:"active"`
}

type CreateMailTemplateInput struct {
	Name       string            `json:"name" binding:"required"`
	Subject    string            `json:"subject" binding:"required"`
	Content    string            `json:"content" binding:"required"`
	Variables  map[string]string `json:"variables"`
	TargetType string            `json:"targetType"`
	Active     interface{}       `json:"active"`
}

type UpdateMailTemplateInput struct {
	Name       *string           `json:"name"`
	Subject    *string           `json:"subject"`
	Content    *string           `json:"content"`
	Variables  map[string]string `json:"variables"`
	TargetType *string           `json:"targetType"`
	Active     interface{}       `json:"active"`
}

func normalizeTargetType(t string) string {
	if t == models.TargetStaff {
		return models.TargetStaff
	}
	return models.TargetCustomer
}

func validateVariables(variables map[string]string) (string, bool) {
	for _, key := range variables {
		if services.VariableKnown(key) {
			continue
		}
		return key, false
	}
	return "", true
}

// CreateWhatsAppTemplate creates a new WhatsApp template
func CreateWhatsAppTemplate(c *gin.Context) {
	var input CreateWhatsAppTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if key, ok := validateVariables(input.Variables); !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown variable key: "+key)
		return
	}

	template := models.WhatsAppTemplate{
		Name:             input.Name,
		MetaTemplateName: input.MetaTemplateName,
		Content:          input.Content,
		Variables:        utils.EncodeMap(input.Variables),
		TargetType:       normalizeTargetType(input.TargetType),
		Active:           utils.EncodeBool(input.Active == nil || utils.FlexibleBool(input.Active)),
	}

	if err := config.DB.Create(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, template)
}

// GetWhatsAppTemplates retrieves all WhatsApp templates
func GetWhatsAppTemplates(c *gin.Context) {
	var templates []models.WhatsAppTemplate
	if err := config.DB.Order("created_at").Find(&templates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}

	c.JSON(http.StatusOK, templates)
}

// GetWhatsAppTemplate retrieves a specific WhatsApp template by ID
func GetWhatsAppTemplate(c *gin.Context) {
	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	var template models.WhatsAppTemplate
	if err := config.DB.First(&template, "id = ?", templateUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, template)
}

// UpdateWhatsAppTemplate updates an existing WhatsApp template
func UpdateWhatsAppTemplate(c *gin.Context) {
	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	var input UpdateWhatsAppTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var template models.WhatsAppTemplate
	if err := config.DB.First(&template, "id = ?", templateUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		template.Name = *input.Name
	}
	if input.MetaTemplateName != nil {
		template.MetaTemplateName = *input.MetaTemplateName
	}
	if input.Content != nil {
		template.Content = *input.Content
	}
	if input.Variables != nil {
		if key, ok := validateVariables(input.Variables); !ok {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown variable key: "+key)
			return
		}
		template.Variables = utils.EncodeMap(input.Variables)
	}
	if input.TargetType != nil {
		template.TargetType = normalizeTargetType(*input.TargetType)
	}
	if input.Active != nil {
		template.Active = utils.EncodeBool(utils.FlexibleBool(input.Active))
	}

	if err := config.DB.Save(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, template)
}

// DeleteWhatsAppTemplate soft deletes a WhatsApp template
func DeleteWhatsAppTemplate(c *gin.Context) {
	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	result := config.DB.Delete(&models.WhatsAppTemplate{}, "id = ?", templateUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// PreviewWhatsAppTemplate renders the template body with bracketed variable
// labels in place of real values, the same way the conversation view previews
// templated messages it has no parameters for.
func PreviewWhatsAppTemplate(c *gin.Context) {
	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	var template models.WhatsAppTemplate
	if err := config.DB.First(&template, "id = ?", templateUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	preview := services.PreviewTemplate(template.Content, utils.FlexibleMap(template.Variables))
	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

// CreateMailTemplate creates a new mail template
func CreateMailTemplate(c *gin.Context) {
	var input CreateMailTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if key, ok := validateVariables(input.Variables); !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown variable key: "+key)
		return
	}

	template := models.MailTemplate{
		Name:       input.Name,
		Subject:    input.Subject,
		Content:    input.Content,
		Variables:  utils.EncodeMap(input.Variables),
		TargetType: normalizeTargetType(input.TargetType),
		Active:     utils.EncodeBool(input.Active == nil || utils.FlexibleBool(input.Active)),
	}

	if err := config.DB.Create(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, template)
}

// GetMailTemplates retrieves all mail templates
func GetMailTemplates(c *gin.Context) {
	var templates []models.MailTemplate
	if err := config.DB.Order("created_at").Find(&templates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}

	c.JSON(http.StatusOK, templates)
}

// GetMailTemplate retrieves a specific mail template by ID
func GetMailTemplate(c *gin.Context) {
	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	var template models.MailTemplate
	if err := config.DB.First(&template, "id = ?", templateUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, template)
}

// UpdateMailTemplate updates an existing mail template
func UpdateMailTemplate(c *gin.Context) {
	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	var input UpdateMailTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var template models.MailTemplate
	if err := config.DB.First(&template, "id = ?", templateUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		template.Name = *input.Name
	}
	if input.Subject != nil {
		template.Subject = *input.Subject
	}
	if input.Content != nil {
		template.Content = *input.Content
	}
	if input.Variables != nil {
		if key, ok := validateVariables(input.Variables); !ok {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown variable key: "+key)
			return
		}
		template.Variables = utils.EncodeMap(input.Variables)
	}
	if input.TargetType != nil {
		template.TargetType = normalizeTargetType(*input.TargetType)
	}
	if input.Active != nil {
		template.Active = utils.EncodeBool(utils.FlexibleBool(input.Active))
	}

	if err := config.DB.Save(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, template)
}

// DeleteMailTemplate soft deletes a mail template
func DeleteMailTemplate(c *gin.Context) {
	templateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template ID format")
		return
	}

	result := config.DB.Delete(&models.MailTemplate{}, "id = ?", templateUUID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// GetMessageVariables lists the variable catalog for the template editor.
func GetMessageVariables(c *gin.Context) {
	keys := services.VariableKeys()
	out := make([]gin.H, 0, len(keys))
	for _, key := range keys {
		out = append(out, gin.H{"key": key, "label": services.VariableLabel(key)})
	}
	c.JSON(http.StatusOK, out)
}
