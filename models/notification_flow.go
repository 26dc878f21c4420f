package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment lifecycle triggers a flow can react to. Matching is exact,
// no prefix or alias forms.
const (
	TriggerAppointmentCreate = "appointment_create"
	TriggerAppointmentUpdate = "appointment_update"
	TriggerAppointmentCancel = "appointment_cancel"
	TriggerStaffAssign       = "staff_assign"

	// TriggerReminder marks time-based flows. They are fired by the daily
	// scheduler at ScheduleHour, never by lifecycle dispatch.
	TriggerReminder = "reminder"
)

// NotificationFlow maps (trigger, profile set) to per-channel template id lists.
//
// Profiles, WhatsAppTemplateIDs and MailTemplateIDs are stored in whatever form
// the writing client used: a JSON array or a JSON-encoded string of one. Active
// may be "true", "TRUE" or "false". Rows are always decoded through
// utils.FlexibleList / utils.FlexibleBool, never read directly.
type NotificationFlow struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name                string    `gorm:"not null" json:"name"`
	Description         string    `gorm:"type:text" json:"description"`
	Trigger             string    `gorm:"index;not null" json:"trigger"`
	Profiles            string    `gorm:"type:text" json:"profiles"`
	WhatsAppTemplateIDs string    `gorm:"type:text;column:whatsapp_template_ids" json:"whatsappTemplateIds"`
	MailTemplateIDs     string    `gorm:"type:text;column:mail_template_ids" json:"mailTemplateIds"`
	Active              string    `gorm:"type:varchar(10);default:'true'" json:"active"`
	ScheduleHour        string    `gorm:"type:varchar(2)" json:"scheduleHour"` // TR hour for reminder flows, e.g. "10"
	gorm.Model
}

func (f *NotificationFlow) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}
