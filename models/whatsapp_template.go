package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Template target types
const (
	TargetCustomer = "customer"
	TargetStaff    = "staff"
)

// WhatsAppTemplate mirrors a Meta Business template: Content carries numbered
// placeholders ({{1}}, {{2}}, ...) and Variables maps each position to a
// semantic variable key, e.g. {"1": "musteri"}.
type WhatsAppTemplate struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name             string    `gorm:"not null;uniqueIndex" json:"name"`
	MetaTemplateName string    `json:"metaTemplateName"` // template name registered with the Cloud API
	Content          string    `gorm:"type:text" json:"content"`
	Variables        string    `gorm:"type:text" json:"variables"` // JSON object, position -> variable key
	TargetType       string    `gorm:"type:varchar(20);default:'customer'" json:"targetType"`
	Active           string    `gorm:"type:varchar(10);default:'true'" json:"active"`
	gorm.Model
}

func (t *WhatsAppTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
