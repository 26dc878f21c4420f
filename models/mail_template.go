package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MailTemplate is the email counterpart of WhatsAppTemplate. Subject and
// Content use the same numbered placeholder convention.
type MailTemplate struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name       string    `gorm:"not null;uniqueIndex" json:"name"`
	Subject    string    `json:"subject"`
	Content    string    `gorm:"type:text" json:"content"`
	Variables  string    `gorm:"type:text" json:"variables"` // JSON object, position -> variable key
	TargetType string    `gorm:"type:varchar(20);default:'customer'" json:"targetType"`
	Active     string    `gorm:"type:varchar(10);default:'true'" json:"active"`
	gorm.Model
}

func (t *MailTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
