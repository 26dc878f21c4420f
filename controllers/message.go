// controllers/message.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"boutique-backend/config"
	"boutique-backend/models"
	"boutique-backend/utils"

	"github.com/gin-gonic/gin"
)

// LogIncomingInput records a message received from a customer, typically
// posted by the Cloud API webhook relay.
type LogIncomingInput struct {
	Phone      string `json:"phone" binding:"required"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
	ProviderID string `json:"providerId"`
}

// GetMessages retrieves message log entries, newest first. Supports
// direction, status, channel, phone and appointmentId filters plus
// limit/offset paging.
func GetMessages(c *gin.Context) {
	query := config.DB.Model(&models.MessageLog{}).Order("sent_at desc")

	if direction := c.Query("direction"); direction != "" {
		query = query.Where("direction = ?", direction)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if channel := c.Query("channel"); channel != "" {
		query = query.Where("channel = ?", channel)
	}
	if phone := c.Query("phone"); phone != "" {
		// Match on the canonical key so "0555...", "+90 555..." and bare
		// "555..." spellings of one subscriber all hit the same rows.
		query = query.Where("phone_key LIKE ?", "%"+utils.PhoneKey(phone)+"%")
	}
	if appointmentID := c.Query("appointmentId"); appointmentID != "" {
		query = query.Where("appointment_id = ?", appointmentID)
	}

	limit := 50
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count messages")
		return
	}

	var messages []models.MessageLog
	if err := query.Limit(limit).Offset(offset).Find(&messages).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    total,
		"limit":    limit,
		"offset":   offset,
		"messages": messages,
	})
}

// LogIncomingMessage appends an incoming message row. The raw phone is kept
// as received; grouping happens at read time.
func LogIncomingMessage(c *gin.Context) {
	var input LogIncomingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	entry := models.MessageLog{
		Direction:      models.DirectionIncoming,
		Phone:          input.Phone,
		RecipientName:  input.SenderName,
		MessageContent: input.Content,
		Status:         models.StatusDelivered,
		Channel:        models.ChannelWhatsApp,
		ProviderID:     input.ProviderID,
		SentAt:         time.Now(),
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to log message")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GetConversations rebuilds the contact list from the message log, most
// recent conversation first. ?search= filters by name or phone digits.
func GetConversations(c *gin.Context) {
	contacts, err := chats.Contacts(c.Query("search"))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build conversations")
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// GetConversationThread returns one contact's messages in chronological
// order with display bodies resolved.
func GetConversationThread(c *gin.Context) {
	thread, err := chats.Thread(c.Param("phone"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, thread)
}

// MarkConversationRead moves the contact's read watermark to now.
func MarkConversationRead(c *gin.Context) {
	if err := chats.MarkRead(c.Param("phone")); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation marked as read"})
}
