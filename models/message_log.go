// models/message_log.go
package models

import (
	"time"

	"boutique-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message directions
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// Delivery statuses (Cloud API status callbacks update sent rows in place)
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusFailed    = "failed"
)

// Channels
const (
	ChannelWhatsApp = "whatsapp"
	ChannelMail     = "mail"
	ChannelSMS      = "sms"
)

// MessageLog is an append-only record of every message in or out. Rows are
// immutable once written (status updates excepted); the log is the sole
// source of truth for conversation history.
//
// Phone is stored raw as received: recipient phone for outgoing, sender phone
// for incoming. PhoneKey is its canonical digits-only form, filled on create,
// so queries match across spellings of the same subscriber. MessageContent is
// either a legacy pipe-delimited parameter string or pre-rendered text;
// services.RenderMessage reconstructs the display body either way.
type MessageLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Direction      string    `gorm:"type:varchar(10);index;not null" json:"direction"`
	Phone          string    `gorm:"index" json:"phone"`
	PhoneKey       string    `gorm:"type:varchar(20);index" json:"phoneKey"`
	RecipientName  string    `json:"recipientName"` // counterparty name: system-known recipient for outgoing, self-reported sender for incoming
	TemplateName   string    `json:"templateName"`  // outgoing only
	MessageContent string    `gorm:"type:text" json:"messageContent"`
	Status         string    `gorm:"type:varchar(20);index" json:"status"`
	ErrorMessage   string    `gorm:"type:text" json:"errorMessage"`
	TargetType     string    `gorm:"type:varchar(20)" json:"targetType"`
	Channel        string    `gorm:"type:varchar(20)" json:"channel"`
	ProviderID     string    `gorm:"index" json:"providerId"` // message id from the channel provider
	AppointmentID  string    `gorm:"index" json:"appointmentId"`
	SentAt         time.Time `gorm:"index" json:"sentAt"`
	gorm.Model
}

func (m *MessageLog) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.PhoneKey == "" {
		m.PhoneKey = utils.PhoneKey(m.Phone)
	}
	return
}
